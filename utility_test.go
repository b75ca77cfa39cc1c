// FILE: utility_test.go
package dlog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"suppress", LevelSuppress, false},
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"fatal", LevelFatal, false},
		{"  WARN  ", LevelWarn, false},
		{"Error", LevelError, false},
		{"trace", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		level, err := Level(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
		} else {
			require.NoError(t, err, tt.input)
			assert.Equal(t, tt.expected, level, tt.input)
		}
	}
}

func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue("level=debug")
	require.NoError(t, err)
	assert.Equal(t, "level", key)
	assert.Equal(t, "debug", value)

	key, value, err = parseKeyValue("  name = spaced out  ")
	require.NoError(t, err)
	assert.Equal(t, "name", key)
	assert.Equal(t, "spaced out", value)

	// Value may itself contain '='
	_, value, err = parseKeyValue("timestamp_format=15:04:05=0700")
	require.NoError(t, err)
	assert.Equal(t, "15:04:05=0700", value)

	_, _, err = parseKeyValue("no separator")
	assert.Error(t, err)

	_, _, err = parseKeyValue("=value")
	assert.Error(t, err)
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("something broke: %d", 42)
	assert.Equal(t, "dlog: something broke: 42", err.Error())

	// Prefix is not doubled
	err = fmtErrorf("dlog: already prefixed")
	assert.Equal(t, "dlog: already prefixed", err.Error())

	// %w wrapping survives
	cause := errors.New("cause")
	err = fmtErrorf("wrapped: %w", cause)
	assert.ErrorIs(t, err, cause)
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, e1, combineErrors(e1, nil))
	assert.Equal(t, e2, combineErrors(nil, e2))

	combined := combineErrors(e1, e2)
	require.NotNil(t, combined)
	assert.Contains(t, combined.Error(), "first")
	assert.Contains(t, combined.Error(), "second")
	assert.ErrorIs(t, combined, e2)
}

func TestDayOf(t *testing.T) {
	stamp := time.Date(2025, 3, 7, 23, 59, 59, 999_000_000, time.Local)
	day := dayOf(stamp)
	assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.Local), day)

	// Midnight maps to itself
	assert.Equal(t, day, dayOf(day))

	// Two stamps on the same calendar day share a day
	morning := time.Date(2025, 3, 7, 0, 0, 1, 0, time.Local)
	assert.Equal(t, dayOf(morning), dayOf(stamp))
}
