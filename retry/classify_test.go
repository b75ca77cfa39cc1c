// FILE: retry/classify_test.go
package retry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStructuredErrors(t *testing.T) {
	c := SQLClassifier{}

	tests := []struct {
		number   uint16
		expected Class
	}{
		{1213, ClassDeadlock},  // ER_LOCK_DEADLOCK
		{1305, ClassFatal},     // ER_SP_DOES_NOT_EXIST
		{1146, ClassFatal},     // ER_NO_SUCH_TABLE
		{1054, ClassFatal},     // ER_BAD_FIELD_ERROR
		{1062, ClassTransient}, // ER_DUP_ENTRY, not recognized, retried
		{2006, ClassTransient}, // server has gone away
	}

	for _, tt := range tests {
		err := &mysql.MySQLError{Number: tt.number, Message: "server message"}
		assert.Equal(t, tt.expected, c.Classify(err), "number %d", tt.number)
	}
}

// TestClassifyWrappedStructuredError verifies the driver error is found
// through wrapping layers
func TestClassifyWrappedStructuredError(t *testing.T) {
	c := SQLClassifier{}
	inner := &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	wrapped := fmt.Errorf("call failed: %w", inner)
	assert.Equal(t, ClassDeadlock, c.Classify(wrapped))
}

// TestClassifyStructuredWinsOverText verifies the error number is trusted
// even when the message text would classify differently
func TestClassifyStructuredWinsOverText(t *testing.T) {
	c := SQLClassifier{}
	err := &mysql.MySQLError{Number: 1062, Message: "deadlock mentioned in passing"}
	assert.Equal(t, ClassTransient, c.Classify(err))
}

func TestClassifyTextFallback(t *testing.T) {
	c := SQLClassifier{}

	tests := []struct {
		msg      string
		expected Class
	}{
		{"Deadlock found when trying to get lock", ClassDeadlock},
		{"transaction was chosen as a DEADLOCK victim", ClassDeadlock},
		{"could not find stored procedure 'log_write'", ClassFatal},
		{"PROCEDURE events.log_write does not exist", ClassFatal},
		{"Table 'events.log' doesn't exist", ClassFatal},
		{"connection reset by peer", ClassTransient},
		{"i/o timeout", ClassTransient},
		{"context deadline exceeded", ClassTransient},
		// Localized text without a structured code cannot be recognized
		{"Interblocage détecté", ClassTransient},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, c.Classify(errors.New(tt.msg)), tt.msg)
	}
}

func TestClassifyNil(t *testing.T) {
	assert.Equal(t, ClassTransient, SQLClassifier{}.Classify(nil))
}
