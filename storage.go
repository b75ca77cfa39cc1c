// FILE: storage.go
package dlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// writeFileRecord appends one record to the active log file, rolling the
// file over first when the record's local date no longer matches the open
// file's day. Caller must hold the drain guard.
func (l *Logger) writeFileRecord(r Record, line []byte) {
	cfg := l.getConfig()
	if !cfg.EnableFile || l.state.FileDisabled.Load() {
		return
	}

	day := dayOf(r.Local)
	currentDay, _ := l.state.CurrentDay.Load().(time.Time)
	if l.loadCurrentFile() == nil || !currentDay.Equal(day) {
		if err := l.rolloverTo(day); err != nil {
			l.closeQuietly()
			l.disableFileLogging(err)
			return
		}
	}

	// An identical (level, text) written within the holdoff window is
	// suppressed; the listener and console already saw the record.
	if !l.dedupe.shouldWrite(dedupeKey{level: r.Level, text: r.Text}, r.UTC, r.Holdoff) {
		l.state.TotalDeduped.Add(1)
		return
	}

	f := l.loadCurrentFile()
	if _, err := f.Write(line); err != nil {
		l.closeQuietly()
		l.disableFileLogging(fmtErrorf("failed to write to log file '%s': %w", f.Name(), err))
		return
	}

	// Durability over throughput: every record reaches storage before the
	// next one in the cycle is processed.
	if err := f.Sync(); err != nil {
		l.closeQuietly()
		l.disableFileLogging(fmtErrorf("failed to sync log file '%s': %w", f.Name(), err))
		return
	}

	l.state.TotalWritten.Add(1)
}

// rolloverTo closes the active file and opens the file for the given day,
// shifting rolled suffixes first in fixed mode. Caller must hold the drain
// guard.
func (l *Logger) rolloverTo(day time.Time) error {
	if f := l.loadCurrentFile(); f != nil {
		_ = f.Sync()
		if err := f.Close(); err != nil {
			l.internalLog("failed to close log file before rollover: %v\n", err)
			// Continue with the rollover anyway
		}
		l.state.CurrentFile.Store((*os.File)(nil))
		l.state.TotalRotations.Add(1)
	}

	return l.openLogFile(day)
}

// openLogFile opens the target file for the given day in append mode,
// creating it with a header line when it does not exist yet. Caller must
// hold the drain guard.
func (l *Logger) openLogFile(day time.Time) error {
	cfg := l.getConfig()

	var path string
	switch cfg.RolloverMode {
	case RolloverFixed:
		path = l.fixedFilePath(cfg)
		// A fixed-name file left over from a prior day is shifted through
		// the numeric suffix chain before a fresh file is started.
		if fi, err := os.Stat(path); err == nil && dayOf(fi.ModTime()).Before(day) {
			if err := l.shiftRolledFiles(cfg, path); err != nil {
				return err
			}
		}
	default:
		path = l.datedFilePath(cfg, day)
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open/create log file '%s': %w", path, err)
	}

	if isNew {
		if _, err := file.WriteString(fileHeader); err != nil {
			_ = file.Close()
			return fmtErrorf("failed to write header to log file '%s': %w", path, err)
		}
	}

	l.state.CurrentFile.Store(file)
	l.state.CurrentDay.Store(day)
	return nil
}

// shiftRolledFiles parks the stale base file at <base>.1 after moving the
// existing generations up one slot. The retention count includes the active
// file, so the highest suffix ever created is retention-1; whatever sits
// there is deleted, never shifted.
func (l *Logger) shiftRolledFiles(cfg *Config, base string) error {
	retention := int(cfg.RetentionCount)

	if retention <= 1 {
		// No rolled generations are kept, the stale file is simply dropped.
		if err := os.Remove(base); err != nil && !os.IsNotExist(err) {
			return fmtErrorf("failed to remove stale log file '%s': %w", base, err)
		}
		return nil
	}

	oldest := fmt.Sprintf("%s.%d", base, retention-1)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return fmtErrorf("failed to remove oldest rolled file '%s': %w", oldest, err)
	}

	for i := retention - 2; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", base, i)
		dst := fmt.Sprintf("%s.%d", base, i+1)
		if err := os.Rename(src, dst); err != nil && !os.IsNotExist(err) {
			return fmtErrorf("failed to shift rolled file '%s': %w", src, err)
		}
	}

	if err := os.Rename(base, base+".1"); err != nil && !os.IsNotExist(err) {
		return fmtErrorf("failed to roll log file '%s': %w", base, err)
	}
	return nil
}

// datedFilePath builds <dir>/<name>_<MM-dd-yyyy>.<ext> for a given day.
func (l *Logger) datedFilePath(cfg *Config, day time.Time) string {
	filename := fmt.Sprintf("%s_%s", cfg.Name, day.Format(datedFileLayout))
	if cfg.Extension != "" {
		filename += "." + cfg.Extension
	}
	return filepath.Join(cfg.Directory, filename)
}

// fixedFilePath builds <dir>/<name>.<ext>.
func (l *Logger) fixedFilePath(cfg *Config) string {
	filename := cfg.Name
	if cfg.Extension != "" {
		filename += "." + cfg.Extension
	}
	return filepath.Join(cfg.Directory, filename)
}

// closeQuietly drops the active file handle without surfacing errors; used
// on write-failure paths where the handle is already suspect.
func (l *Logger) closeQuietly() {
	if f := l.loadCurrentFile(); f != nil {
		_ = f.Close()
		l.state.CurrentFile.Store((*os.File)(nil))
	}
}

// disableFileLogging latches file logging off for the remainder of the
// process and surfaces exactly one notification. The failure never reaches
// the producer that enqueued the record.
func (l *Logger) disableFileLogging(err error) {
	l.state.FileDisabled.Store(true)

	if l.state.FileFaultLogged.Swap(true) {
		return
	}

	l.internalLog("file logging disabled: %v\n", err)

	now := time.Now()
	l.queue.push(Record{
		Level:  LevelError,
		Local:  now,
		UTC:    now.UTC(),
		Text:   "file logging disabled for the remainder of the process",
		Detail: err.Error(),
	})
	l.state.TotalEnqueued.Add(1)
}
