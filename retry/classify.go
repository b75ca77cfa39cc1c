// FILE: retry/classify.go
package retry

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Class is the retry-relevant classification of a failed attempt.
type Class int

const (
	// ClassTransient covers timeouts, connectivity loss, and anything else
	// not recognized more specifically. Retried.
	ClassTransient Class = iota
	// ClassDeadlock marks an attempt aborted as a lock-cycle victim.
	// Retried, but tracked separately so exhaustion reports it.
	ClassDeadlock
	// ClassFatal marks misconfiguration such as a missing target procedure.
	// Never retried.
	ClassFatal
)

// Classifier maps an attempt error to its class.
type Classifier interface {
	Classify(err error) Class
}

// MySQL server error numbers relevant to classification.
const (
	mysqlErrNoSuchTable  = 1146 // ER_NO_SUCH_TABLE
	mysqlErrDeadlock     = 1213 // ER_LOCK_DEADLOCK
	mysqlErrNoSuchProc   = 1305 // ER_SP_DOES_NOT_EXIST
	mysqlErrNoSuchColumn = 1054 // ER_BAD_FIELD_ERROR
)

// SQLClassifier classifies database errors by structured server error
// number when the driver exposes one, falling back to English substring
// matching for drivers or proxies that flatten errors to text. Localized
// error text without a structured code classifies as generic-transient;
// that is a known limitation of the fallback.
type SQLClassifier struct{}

// Classify implements Classifier.
func (SQLClassifier) Classify(err error) Class {
	if err == nil {
		return ClassTransient
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDeadlock:
			return ClassDeadlock
		case mysqlErrNoSuchProc, mysqlErrNoSuchTable, mysqlErrNoSuchColumn:
			return ClassFatal
		default:
			return ClassTransient
		}
	}

	return classifyText(err.Error())
}

// classifyText is the legacy text-matching fallback.
func classifyText(msg string) Class {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "deadlock"):
		return ClassDeadlock
	case strings.Contains(lower, "could not find stored procedure"),
		strings.Contains(lower, "does not exist"),
		strings.Contains(lower, "doesn't exist"):
		return ClassFatal
	default:
		return ClassTransient
	}
}
