// FILE: retry/result.go
package retry

// Outcome is the closed set of ways a retry sequence can end.
type Outcome int

const (
	// OutcomeSuccess means an attempt succeeded; Result.Status carries the
	// remote call's own return code.
	OutcomeSuccess Outcome = iota
	// OutcomeFatal means an attempt failed with a non-retryable error, such
	// as the target procedure not existing. No further attempts were made.
	OutcomeFatal
	// OutcomeDeadlockExhausted means attempts ran out and at least one of
	// them was classified as a deadlock victim.
	OutcomeDeadlockExhausted
	// OutcomeRetriesExhausted means attempts ran out on generic transient
	// failures only.
	OutcomeRetriesExhausted
)

// Sentinel status codes. The integer encoding exists for wire/storage
// compatibility with systems that persist the status of a call; new code
// should branch on Outcome instead.
const (
	CodeSuccess           = 0
	CodeDeadlockExhausted = -4
	CodeRetriesExhausted  = -5
	CodeFatal             = -6
)

// String returns the outcome's name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFatal:
		return "fatal"
	case OutcomeDeadlockExhausted:
		return "deadlock-exhausted"
	case OutcomeRetriesExhausted:
		return "retries-exhausted"
	default:
		return "unknown"
	}
}

// Code returns the sentinel status code for a non-success outcome.
func (o Outcome) Code() int {
	switch o {
	case OutcomeSuccess:
		return CodeSuccess
	case OutcomeFatal:
		return CodeFatal
	case OutcomeDeadlockExhausted:
		return CodeDeadlockExhausted
	case OutcomeRetriesExhausted:
		return CodeRetriesExhausted
	default:
		return CodeRetriesExhausted
	}
}

// Result describes the end state of one retry sequence.
type Result struct {
	Outcome   Outcome
	Status    int // remote return code on success, sentinel code otherwise
	Attempts  int // attempts actually made
	Deadlocks int // attempts classified as deadlock victims
	Err       error
}

// Rows is a generic row set returned by the read call shape.
type Rows []map[string]any

// QueryResult pairs a retry result with the row set of a read call.
type QueryResult struct {
	Result
	Rows Rows
}
