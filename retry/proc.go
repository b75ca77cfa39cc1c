// FILE: retry/proc.go
package retry

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Stored-procedure call shapes. Both reserve a trailing integer output
// parameter on the procedure for its return/status code; the bound args
// cover every parameter before it. The procedure identifier is not
// escaped and must come from configuration, never from user input.

// statusVar is the per-connection session variable bound to the reserved
// output parameter.
const statusVar = "@_retry_status"

// CallProc is the write shape: it invokes the procedure under the retry
// policy and returns only the status code.
func (e *Executor) CallProc(db *gorm.DB, procedure string, args ...any) Result {
	return e.Do(procedure, func(ctx context.Context) (int, error) {
		return callOnConnection(ctx, db, procedure, args, nil)
	})
}

// QueryProc is the read shape: identical retry/backoff/classification, but
// the procedure's result set is returned alongside the status code.
func (e *Executor) QueryProc(db *gorm.DB, procedure string, args ...any) QueryResult {
	var rows Rows
	res := e.Do(procedure, func(ctx context.Context) (int, error) {
		rows = nil
		return callOnConnection(ctx, db, procedure, args, &rows)
	})
	return QueryResult{Result: res, Rows: rows}
}

// callOnConnection performs one attempt. The status round trip uses a
// session variable, so every statement is pinned to a single pooled
// connection for the duration of the attempt.
func callOnConnection(ctx context.Context, db *gorm.DB, procedure string, args []any, rows *Rows) (int, error) {
	status := 0
	err := db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		if err := tx.Exec("SET " + statusVar + " = 0").Error; err != nil {
			return err
		}

		placeholders := make([]string, 0, len(args)+1)
		for range args {
			placeholders = append(placeholders, "?")
		}
		placeholders = append(placeholders, statusVar)
		call := fmt.Sprintf("CALL %s(%s)", procedure, strings.Join(placeholders, ", "))

		if rows == nil {
			if err := tx.Exec(call, args...).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Raw(call, args...).Scan(rows).Error; err != nil {
				return err
			}
		}

		return tx.Raw("SELECT " + statusVar).Scan(&status).Error
	})
	if err != nil {
		return 0, err
	}
	return status, nil
}
