// FILE: archive.go
package dlog

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// maybeArchive runs the directory archive scan when enough time has passed
// since the last one. Called from the processor's archive ticker and once
// at processor start.
func (l *Logger) maybeArchive() {
	cfg := l.getConfig()
	if !cfg.EnableFile || cfg.ArchiveAfterDays <= 0 || cfg.ArchiveCheckHrs <= 0 {
		return
	}

	last, _ := l.state.LastArchiveScan.Load().(time.Time)
	interval := time.Duration(cfg.ArchiveCheckHrs * float64(time.Hour))
	if !last.IsZero() && time.Since(last) < interval {
		return
	}

	if err := l.archiveOldLogs(); err != nil {
		l.internalLog("archive scan failed: %v\n", err)
		return
	}
	l.state.LastArchiveScan.Store(time.Now())
}

// archiveOldLogs moves dated log files older than the age threshold into a
// year-named subdirectory. Multiple processes sharing a log directory are
// serialized through a lock file; a held lock means another process is
// already scanning and this attempt is skipped.
func (l *Logger) archiveOldLogs() error {
	cfg := l.getConfig()
	dir := cfg.Directory

	lock := flock.New(filepath.Join(dir, ".archive.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmtErrorf("failed to acquire archive lock: %w", err)
	}
	if !locked {
		return nil
	}
	defer func() { _ = lock.Unlock() }()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmtErrorf("failed to read log directory '%s': %w", dir, err)
	}

	cutoff := dayOf(time.Now()).AddDate(0, 0, -int(cfg.ArchiveAfterDays))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, ok := parseDatedFileName(cfg, entry.Name())
		if !ok || !stamp.Before(cutoff) {
			continue
		}

		src := filepath.Join(dir, entry.Name())
		destDir := filepath.Join(dir, strconv.Itoa(stamp.Year()))
		dest := filepath.Join(destDir, entry.Name())

		if err := os.MkdirAll(destDir, 0755); err != nil {
			return fmtErrorf("failed to create archive directory '%s': %w", destDir, err)
		}

		if err := l.archiveFile(src, dest); err != nil {
			l.internalLog("failed to archive '%s': %v\n", src, err)
			continue
		}
		l.state.TotalArchived.Add(1)
	}

	return nil
}

// archiveFile moves src to dest, resolving name collisions by content:
// identical files drop the source, diverging ones back up the destination
// before the move.
func (l *Logger) archiveFile(src, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		same, err := filesIdentical(src, dest)
		if err != nil {
			return err
		}
		if same {
			// Nothing new to keep; no duplicate retained.
			return os.Remove(src)
		}
		backup := fmt.Sprintf("%s.bak-%d", dest, time.Now().Unix())
		if err := os.Rename(dest, backup); err != nil {
			return fmtErrorf("failed to back up archived file '%s': %w", dest, err)
		}
	} else if !os.IsNotExist(err) {
		return fmtErrorf("failed to stat archive destination '%s': %w", dest, err)
	}

	return os.Rename(src, dest)
}

// parseDatedFileName extracts the date stamp from a dated-mode file name of
// the form <name>_<MM-dd-yyyy>.<ext>.
func parseDatedFileName(cfg *Config, filename string) (time.Time, bool) {
	prefix := cfg.Name + "_"
	if !strings.HasPrefix(filename, prefix) {
		return time.Time{}, false
	}
	rest := filename[len(prefix):]

	if cfg.Extension != "" {
		suffix := "." + cfg.Extension
		if !strings.HasSuffix(rest, suffix) {
			return time.Time{}, false
		}
		rest = rest[:len(rest)-len(suffix)]
	}

	stamp, err := time.ParseInLocation(datedFileLayout, rest, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return stamp, true
}

// filesIdentical compares two files by size first, then by SHA-256.
func filesIdentical(a, b string) (bool, error) {
	fiA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	fiB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if fiA.Size() != fiB.Size() {
		return false, nil
	}

	hashA, err := fileHash(a)
	if err != nil {
		return false, err
	}
	hashB, err := fileHash(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(hashA, hashB), nil
}

func fileHash(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
