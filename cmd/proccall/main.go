// FILE: cmd/proccall/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arkelic/dlog"
	"github.com/arkelic/dlog/retry"
)

// Demonstrates the stored-procedure call shapes and remote log delivery
// against a live MySQL/MariaDB server.
//
// Expected procedures (last parameter is the reserved status output):
//   CREATE PROCEDURE record_event(IN d VARCHAR(32), IN t VARCHAR(8),
//       IN msg TEXT, IN detail TEXT, OUT status INT)
//   CREATE PROCEDURE list_events(IN since VARCHAR(32), OUT status INT)

func main() {
	dsn := os.Getenv("PROCCALL_DSN")
	if dsn == "" {
		dsn = "root@tcp(127.0.0.1:3306)/events?parseTime=true"
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}

	// --- Direct call shapes ---
	exec := retry.New(retry.Policy{
		MaxAttempts:    3,
		Delay:          2 * time.Second,
		AttemptTimeout: 15 * time.Second,
	})

	res := exec.CallProc(db, "record_event",
		time.Now().Format("2006-01-02 15:04:05.000"), "INFO", "proccall demo", "")
	fmt.Printf("record_event: outcome=%s status=%d attempts=%d\n",
		res.Outcome, res.Status, res.Attempts)
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "record_event error: %v\n", res.Err)
	}

	qres := exec.QueryProc(db, "list_events", time.Now().Add(-time.Hour).Format("2006-01-02 15:04:05.000"))
	fmt.Printf("list_events: outcome=%s status=%d rows=%d\n",
		qres.Outcome, qres.Status, len(qres.Rows))
	for _, row := range qres.Rows {
		fmt.Printf("  %v\n", row)
	}

	// --- Remote log delivery ---
	log, err := dlog.NewBuilder().
		Name("proccall").
		Directory("./proccall_logs").
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	if err := log.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Shutdown()

	err = log.AttachRemote(db, "record_event", retry.Policy{MaxAttempts: 3, Delay: time.Second})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to attach remote sink: %v\n", err)
		os.Exit(1)
	}

	log.Info("Remote delivery online.")
	log.Error("Demonstration fault.", fmt.Errorf("synthetic"))

	if err := log.Flush(5 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
	}
	fmt.Println("Records delivered to file and stored procedure.")
}
