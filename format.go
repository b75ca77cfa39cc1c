// FILE: format.go
package dlog

import (
	"bytes"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// serializer manages the buffered rendering of log lines. It is only ever
// used by the thread holding the drain guard, so the buffer is reused
// without locking.
type serializer struct {
	buf             []byte
	timestampFormat string
}

// newSerializer creates a serializer instance.
func newSerializer(timestampFormat string) *serializer {
	return &serializer{
		buf:             make([]byte, 0, 4096), // Initial reasonable capacity
		timestampFormat: timestampFormat,
	}
}

// reset clears the serializer buffer for reuse.
func (s *serializer) reset() {
	s.buf = s.buf[:0]
}

// line renders a record as a tab-separated Date<TAB>Type<TAB>Message line,
// followed by the record's detail block as indented lines when present.
// The returned slice is valid until the next call.
func (s *serializer) line(r Record) []byte {
	s.buf = r.Local.AppendFormat(s.buf[:0], s.timestampFormat)
	s.buf = append(s.buf, '\t')
	s.buf = append(s.buf, levelToString(r.Level)...)
	s.buf = append(s.buf, '\t')
	s.buf = append(s.buf, sanitizeField(r.Text)...)
	s.buf = append(s.buf, '\n')

	if r.Detail != "" {
		for _, dl := range strings.Split(strings.TrimRight(r.Detail, "\n"), "\n") {
			s.buf = append(s.buf, detailIndent...)
			s.buf = append(s.buf, dl...)
			s.buf = append(s.buf, '\n')
		}
	}
	return s.buf
}

// sanitizeField keeps the message from corrupting the tab-separated layout:
// tabs and newlines collapse to single spaces, other control bytes drop.
func sanitizeField(text string) string {
	clean := true
	for i := 0; i < len(text); i++ {
		if text[i] < 0x20 || text[i] == 0x7f {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\t' || c == '\n' || c == '\r':
			b.WriteByte(' ')
		case c < 0x20 || c == 0x7f:
			// dropped
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// renderDetail converts the optional detail values of an Error/Fatal call
// into the record's multi-line detail block. Errors and strings pass
// through; everything else is dumped with spew so structure survives.
func renderDetail(timestampFormat string, details []any) string {
	if len(details) == 0 {
		return ""
	}

	var b strings.Builder
	for i, d := range details {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch val := d.(type) {
		case nil:
			b.WriteString("<nil>")
		case string:
			b.WriteString(val)
		case error:
			b.WriteString(val.Error())
		case time.Time:
			b.WriteString(val.Format(timestampFormat))
		default:
			var buf bytes.Buffer
			dumper := &spew.ConfigState{
				Indent:                  " ",
				MaxDepth:                10,
				DisablePointerAddresses: true, // Cleaner for logs
				DisableCapacities:       true, // Less noise
				SortKeys:                true, // Consistent map output
			}
			dumper.Fdump(&buf, val)
			b.Write(bytes.TrimSpace(buf.Bytes()))
		}
	}
	return b.String()
}

// levelToString maps a severity constant to its log file label.
func levelToString(level int64) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}
