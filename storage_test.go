// FILE: storage_test.go
package dlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDatedFileNaming verifies the dated-mode file name layout
func TestDatedFileNaming(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.Local)
	path := logger.datedFilePath(logger.getConfig(), day)
	assert.Equal(t, filepath.Join(tmpDir, "app_03-07-2025.txt"), path)
}

// TestHeaderWrittenOnce verifies reopening an existing file never repeats
// the header
func TestHeaderWrittenOnce(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.FlushIntervalMs = 10

	for i := 0; i < 2; i++ {
		logger := NewLogger()
		require.NoError(t, logger.ApplyConfig(cfg.Clone()))
		require.NoError(t, logger.Start())
		logger.Info(fmt.Sprintf("run %d", i))
		require.NoError(t, logger.Shutdown(time.Second))
	}

	logger := NewLogger()
	path := logger.datedFilePath(cfg, dayOf(time.Now()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Equal(t, 1, strings.Count(content, "Date\tType\tMessage"))
	assert.Contains(t, content, "run 0")
	assert.Contains(t, content, "run 1")
}

// TestDayRollover verifies a record dated past the open file's day rolls a
// fresh dated file with its own header
func TestDayRollover(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	tomorrow := time.Now().AddDate(0, 0, 1)
	r := Record{
		Level: LevelInfo,
		Local: tomorrow,
		UTC:   tomorrow.UTC(),
		Text:  "first of the day",
	}

	logger.state.drainMu.Lock()
	line := logger.serializer.line(r)
	logger.writeFileRecord(r, line)
	logger.state.drainMu.Unlock()

	assert.Equal(t, uint64(1), logger.state.TotalRotations.Load())

	path := logger.datedFilePath(logger.getConfig(), dayOf(tomorrow))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date\tType\tMessage\n"))
	assert.Contains(t, string(data), "first of the day")
}

// createFixedLogger builds a started logger in fixed rollover mode
func createFixedLogger(t *testing.T, dir string, retention int64) *Logger {
	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Directory = dir
	cfg.Extension = "log"
	cfg.RolloverMode = RolloverFixed
	cfg.RetentionCount = retention
	cfg.FlushIntervalMs = 10
	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())
	return logger
}

// TestFixedModeShift verifies the numeric suffix chain: stale base file
// parks at .1, older generations shift up, the oldest slot is cleared
func TestFixedModeShift(t *testing.T) {
	tmpDir := t.TempDir()
	base := filepath.Join(tmpDir, "app.log")
	yesterday := time.Now().AddDate(0, 0, -1)

	require.NoError(t, os.WriteFile(base, []byte("stale base\n"), 0644))
	require.NoError(t, os.Chtimes(base, yesterday, yesterday))
	require.NoError(t, os.WriteFile(base+".1", []byte("generation one\n"), 0644))
	require.NoError(t, os.WriteFile(base+".2", []byte("generation two\n"), 0644))

	logger := createFixedLogger(t, tmpDir, 3)
	defer logger.Shutdown()

	// generation two held the highest suffix and is gone, nothing beyond it
	// is ever created
	_, err := os.Stat(base + ".3")
	assert.True(t, os.IsNotExist(err))

	shifted, err := os.ReadFile(base + ".2")
	require.NoError(t, err)
	assert.Equal(t, "generation one\n", string(shifted))

	parked, err := os.ReadFile(base + ".1")
	require.NoError(t, err)
	assert.Equal(t, "stale base\n", string(parked))

	// fresh base file with a fresh header
	data, err := os.ReadFile(base)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date\tType\tMessage\n"))
}

// TestFixedModeRetentionCap verifies the third day of a retention=2 setup
// keeps exactly the base file and .1, with .2 never coming into existence
func TestFixedModeRetentionCap(t *testing.T) {
	tmpDir := t.TempDir()
	base := filepath.Join(tmpDir, "app.log")
	yesterday := time.Now().AddDate(0, 0, -1)

	require.NoError(t, os.WriteFile(base, []byte("day two\n"), 0644))
	require.NoError(t, os.Chtimes(base, yesterday, yesterday))
	require.NoError(t, os.WriteFile(base+".1", []byte("day one\n"), 0644))

	logger := createFixedLogger(t, tmpDir, 2)
	defer logger.Shutdown()

	logger.Info("day three")
	require.NoError(t, logger.Flush(time.Second))

	_, err := os.Stat(base + ".2")
	assert.True(t, os.IsNotExist(err), "suffix past the retention cap must never be created")

	parked, err := os.ReadFile(base + ".1")
	require.NoError(t, err)
	assert.Equal(t, "day two\n", string(parked))

	data, err := os.ReadFile(base)
	require.NoError(t, err)
	assert.Contains(t, string(data), "day three")
}

// TestFixedModeRetentionOne verifies retention=1 drops the stale base file
// without rolling it anywhere
func TestFixedModeRetentionOne(t *testing.T) {
	tmpDir := t.TempDir()
	base := filepath.Join(tmpDir, "app.log")
	yesterday := time.Now().AddDate(0, 0, -1)

	require.NoError(t, os.WriteFile(base, []byte("stale base\n"), 0644))
	require.NoError(t, os.Chtimes(base, yesterday, yesterday))

	logger := createFixedLogger(t, tmpDir, 1)
	defer logger.Shutdown()

	_, err := os.Stat(base + ".1")
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(base)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date\tType\tMessage\n"))
	assert.NotContains(t, string(data), "stale base")
}

// TestFixedModeSameDayAppend verifies a same-day base file is appended to,
// not shifted
func TestFixedModeSameDayAppend(t *testing.T) {
	tmpDir := t.TempDir()
	base := filepath.Join(tmpDir, "app.log")

	require.NoError(t, os.WriteFile(base, []byte("Date\tType\tMessage\nearlier today\n"), 0644))

	logger := createFixedLogger(t, tmpDir, 2)
	defer logger.Shutdown()

	logger.Info("appended")
	require.NoError(t, logger.Flush(time.Second))

	_, err := os.Stat(base + ".1")
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(base)
	require.NoError(t, err)
	assert.Contains(t, string(data), "earlier today")
	assert.Contains(t, string(data), "appended")
	assert.Equal(t, 1, strings.Count(string(data), "Date\tType\tMessage"))
}

// TestFileFailureLatchesOff verifies a sink that cannot be opened disables
// file logging for the process with a single notification
func TestFileFailureLatchesOff(t *testing.T) {
	tmpDir := t.TempDir()

	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.FlushIntervalMs = 10

	// A directory squatting on the log file path makes the open fail
	path := logger.datedFilePath(cfg, dayOf(time.Now()))
	require.NoError(t, os.MkdirAll(path, 0755))

	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())
	defer logger.Shutdown()

	assert.True(t, logger.state.FileDisabled.Load())
	assert.True(t, logger.state.FileFaultLogged.Load())

	// The one-shot notification is on the queue; further records are
	// accepted and silently skip the file sink
	assert.Equal(t, uint64(1), logger.state.TotalEnqueued.Load())
	logger.Info("file sink is off")
	require.NoError(t, logger.Flush(time.Second))
	assert.Equal(t, uint64(0), logger.state.TotalWritten.Load())
}

// TestStrictInitSurfacesError verifies StrictInit turns the same failure
// into an ApplyConfig error
func TestStrictInitSurfacesError(t *testing.T) {
	tmpDir := t.TempDir()

	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.StrictInit = true

	path := logger.datedFilePath(cfg, dayOf(time.Now()))
	require.NoError(t, os.MkdirAll(path, 0755))

	err := logger.ApplyConfig(cfg)
	assert.Error(t, err)
	assert.False(t, logger.state.FileDisabled.Load())
}

// TestNoExtension verifies file naming without an extension
func TestNoExtension(t *testing.T) {
	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Extension = ""
	cfg.Directory = "/var/log/x"

	day := time.Date(2025, 12, 31, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "/var/log/x/app_12-31-2025", logger.datedFilePath(cfg, day))
	assert.Equal(t, "/var/log/x/app", logger.fixedFilePath(cfg))
}
