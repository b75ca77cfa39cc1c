// FILE: retry/executor_test.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestExecutor builds an executor whose inter-attempt sleeps are recorded
// instead of taken
func newTestExecutor(policy Policy, opts ...Option) (*Executor, *[]time.Duration) {
	e := New(policy, opts...)
	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }
	return e, &slept
}

// captureLogger records final-failure reports
type captureLogger struct {
	texts []string
}

func (c *captureLogger) Error(text string, detail ...any) {
	c.texts = append(c.texts, text)
}

func TestPolicyNormalized(t *testing.T) {
	p := Policy{}.normalized()
	assert.Equal(t, 1, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Delay)
	assert.Equal(t, 30*time.Second, p.AttemptTimeout)

	p = Policy{MaxAttempts: -5, Delay: 10 * time.Millisecond, AttemptTimeout: time.Second}.normalized()
	assert.Equal(t, 1, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Delay)
	assert.Equal(t, 10*time.Second, p.AttemptTimeout)

	p = Policy{MaxAttempts: 4, Delay: 5 * time.Second, AttemptTimeout: time.Minute}.normalized()
	assert.Equal(t, 4, p.MaxAttempts)
	assert.Equal(t, 5*time.Second, p.Delay)
	assert.Equal(t, time.Minute, p.AttemptTimeout)
}

func TestDoSuccessFirstAttempt(t *testing.T) {
	e, slept := newTestExecutor(Policy{MaxAttempts: 3})

	calls := 0
	res := e.Do("proc", func(ctx context.Context) (int, error) {
		calls++
		return 7, nil
	})

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, 7, res.Status)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 0, res.Deadlocks)
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestDoSuccessAfterTransientFailures(t *testing.T) {
	e, slept := newTestExecutor(Policy{MaxAttempts: 3, Delay: 2 * time.Second})

	calls := 0
	res := e.Do("proc", func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("connection reset by peer")
		}
		return 0, nil
	})

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, CodeSuccess, res.Status)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *slept)
}

func TestDoRetriesExhausted(t *testing.T) {
	log := &captureLogger{}
	e, slept := newTestExecutor(Policy{MaxAttempts: 3}, WithLogger(log))

	calls := 0
	failure := errors.New("i/o timeout")
	res := e.Do("proc", func(ctx context.Context) (int, error) {
		calls++
		return 0, failure
	})

	assert.Equal(t, OutcomeRetriesExhausted, res.Outcome)
	assert.Equal(t, CodeRetriesExhausted, res.Status)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 0, res.Deadlocks)
	assert.ErrorIs(t, res.Err, failure)
	assert.Equal(t, 3, calls)
	assert.Len(t, *slept, 2) // no sleep after the last attempt

	require.Len(t, log.texts, 1)
	assert.Contains(t, log.texts[0], "proc")
	assert.Contains(t, log.texts[0], "retries-exhausted")
}

func TestDoDeadlockExhausted(t *testing.T) {
	log := &captureLogger{}
	e, _ := newTestExecutor(Policy{MaxAttempts: 3}, WithLogger(log))

	res := e.Do("proc", func(ctx context.Context) (int, error) {
		return 0, errors.New("Deadlock found when trying to get lock")
	})

	assert.Equal(t, OutcomeDeadlockExhausted, res.Outcome)
	assert.Equal(t, CodeDeadlockExhausted, res.Status)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, res.Deadlocks)
	require.Len(t, log.texts, 1)
	assert.Contains(t, log.texts[0], "deadlock-exhausted")
}

// TestDoMixedDeadlock verifies one deadlock victim among transient failures
// still reports as deadlock exhaustion
func TestDoMixedDeadlock(t *testing.T) {
	e, _ := newTestExecutor(Policy{MaxAttempts: 3})

	calls := 0
	res := e.Do("proc", func(ctx context.Context) (int, error) {
		calls++
		if calls == 2 {
			return 0, errors.New("deadlock victim")
		}
		return 0, errors.New("timeout")
	})

	assert.Equal(t, OutcomeDeadlockExhausted, res.Outcome)
	assert.Equal(t, 1, res.Deadlocks)
}

func TestDoFatalStopsImmediately(t *testing.T) {
	log := &captureLogger{}
	e, slept := newTestExecutor(Policy{MaxAttempts: 5}, WithLogger(log))

	calls := 0
	res := e.Do("missing_proc", func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("could not find stored procedure 'missing_proc'")
	})

	assert.Equal(t, OutcomeFatal, res.Outcome)
	assert.Equal(t, CodeFatal, res.Status)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)

	require.Len(t, log.texts, 1)
	assert.Contains(t, log.texts[0], "fatal")
}

func TestDoCustomClassifier(t *testing.T) {
	fatalAll := classifierFunc(func(error) Class { return ClassFatal })
	e, _ := newTestExecutor(Policy{MaxAttempts: 5}, WithClassifier(fatalAll))

	res := e.Do("proc", func(ctx context.Context) (int, error) {
		return 0, errors.New("anything")
	})
	assert.Equal(t, OutcomeFatal, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
}

func TestDoAttemptContext(t *testing.T) {
	e, _ := newTestExecutor(Policy{MaxAttempts: 1, AttemptTimeout: 15 * time.Second})

	res := e.Do("proc", func(ctx context.Context) (int, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			return 0, fmt.Errorf("no deadline set")
		}
		if remaining := time.Until(deadline); remaining <= 0 || remaining > 15*time.Second {
			return 0, fmt.Errorf("unexpected deadline: %v", remaining)
		}
		return 0, nil
	})
	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.NoError(t, res.Err)
}

func TestDoNoLoggerNoPanic(t *testing.T) {
	e, _ := newTestExecutor(Policy{MaxAttempts: 2})

	res := e.Do("proc", func(ctx context.Context) (int, error) {
		return 0, errors.New("timeout")
	})
	assert.Equal(t, OutcomeRetriesExhausted, res.Outcome)
}

func TestOutcomeStringAndCode(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "fatal", OutcomeFatal.String())
	assert.Equal(t, "deadlock-exhausted", OutcomeDeadlockExhausted.String())
	assert.Equal(t, "retries-exhausted", OutcomeRetriesExhausted.String())

	assert.Equal(t, CodeSuccess, OutcomeSuccess.Code())
	assert.Equal(t, CodeFatal, OutcomeFatal.Code())
	assert.Equal(t, CodeDeadlockExhausted, OutcomeDeadlockExhausted.Code())
	assert.Equal(t, CodeRetriesExhausted, OutcomeRetriesExhausted.Code())
}

// classifierFunc adapts a function to the Classifier interface
type classifierFunc func(error) Class

func (f classifierFunc) Classify(err error) Class { return f(err) }
