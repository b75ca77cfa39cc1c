// FILE: retry/executor.go
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy bounds one retry sequence. Values below the documented minimums
// are clamped, not rejected; a zero Policy is usable.
type Policy struct {
	MaxAttempts    int           // clamped to >= 1
	Delay          time.Duration // fixed sleep between attempts, clamped to >= 1s
	AttemptTimeout time.Duration // per-attempt deadline, clamped to >= 10s, default 30s
}

const (
	minDelay              = time.Second
	minAttemptTimeout     = 10 * time.Second
	defaultAttemptTimeout = 30 * time.Second
)

// normalized returns a copy of the policy with all bounds applied.
func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Delay < minDelay {
		p.Delay = minDelay
	}
	if p.AttemptTimeout == 0 {
		p.AttemptTimeout = defaultAttemptTimeout
	} else if p.AttemptTimeout < minAttemptTimeout {
		p.AttemptTimeout = minAttemptTimeout
	}
	return p
}

// Logger receives the final error text of an exhausted or fatally failed
// sequence. The dlog Logger satisfies it.
type Logger interface {
	Error(text string, detail ...any)
}

// Operation is one remote call attempt. It returns the call's own status
// code on success. The context carries the per-attempt deadline.
type Operation func(ctx context.Context) (status int, err error)

// Executor wraps remote calls in bounded attempts with fixed backoff and
// classified failure handling. An Executor is immutable and safe for
// concurrent use.
type Executor struct {
	policy     Policy
	classifier Classifier
	log        Logger
	sleep      func(time.Duration) // test seam
}

// Option customizes an Executor.
type Option func(*Executor)

// WithClassifier replaces the default SQL classifier.
func WithClassifier(c Classifier) Option {
	return func(e *Executor) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithLogger directs final-failure reports to the given logger.
func WithLogger(l Logger) Option {
	return func(e *Executor) {
		e.log = l
	}
}

// New creates an Executor with the given policy.
func New(policy Policy, opts ...Option) *Executor {
	e := &Executor{
		policy:     policy.normalized(),
		classifier: SQLClassifier{},
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the normalized policy in effect.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Do runs the operation until it succeeds, fails fatally, or attempts are
// exhausted. The inter-attempt delay blocks the calling goroutine; remote
// calls are synchronous I/O and callers expect a definitive result before
// proceeding. There is no cancellation below the sequence level.
func (e *Executor) Do(name string, op Operation) Result {
	var lastErr error
	deadlocks := 0

	for attempt := 1; ; attempt++ {
		status, err := e.attempt(op)
		if err == nil {
			return Result{
				Outcome:   OutcomeSuccess,
				Status:    status,
				Attempts:  attempt,
				Deadlocks: deadlocks,
			}
		}
		lastErr = err

		switch e.classifier.Classify(err) {
		case ClassFatal:
			res := Result{
				Outcome:   OutcomeFatal,
				Status:    CodeFatal,
				Attempts:  attempt,
				Deadlocks: deadlocks,
				Err:       err,
			}
			e.report(name, res)
			return res
		case ClassDeadlock:
			deadlocks++
		}

		if attempt >= e.policy.MaxAttempts {
			break
		}
		e.sleep(e.policy.Delay)
	}

	outcome := OutcomeRetriesExhausted
	if deadlocks > 0 {
		outcome = OutcomeDeadlockExhausted
	}
	res := Result{
		Outcome:   outcome,
		Status:    outcome.Code(),
		Attempts:  e.policy.MaxAttempts,
		Deadlocks: deadlocks,
		Err:       lastErr,
	}
	e.report(name, res)
	return res
}

// attempt runs one call under the per-attempt deadline.
func (e *Executor) attempt(op Operation) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.policy.AttemptTimeout)
	defer cancel()
	return op(ctx)
}

// report emits the final error of a failed sequence through the logging
// core, when one is attached.
func (e *Executor) report(name string, res Result) {
	if e.log == nil || res.Err == nil {
		return
	}
	e.log.Error(
		fmt.Sprintf("remote call '%s' failed (%s after %d attempts)", name, res.Outcome, res.Attempts),
		res.Err,
	)
}
