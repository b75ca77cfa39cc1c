// FILE: cmd/stress/main.go
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arkelic/dlog"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 2000
	numWorkers     = 50
)

var levels = []int64{
	dlog.LevelDebug,
	dlog.LevelInfo,
	dlog.LevelWarn,
	dlog.LevelError,
}

var logger *dlog.Logger

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msgSize := rand.Intn(maxMessageSize) + 10
		msg := fmt.Sprintf("wkr=%d bst=%d seq=%d %s", burstID%numWorkers, burstID, i, generateRandomMessage(msgSize))
		switch level {
		case dlog.LevelDebug:
			logger.Debug(msg)
		case dlog.LevelInfo:
			logger.Info(msg)
		case dlog.LevelWarn:
			logger.Warn(msg)
		case dlog.LevelError:
			logger.Error(msg)
		}
	}
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- Logger Stress Test ---")

	logsDir := "./stress_logs"
	_ = os.RemoveAll(logsDir) // Clean previous run's logs before starting

	// --- Initialize Logger ---
	var err error
	logger, err = dlog.NewBuilder().
		Level(dlog.LevelDebug).
		Name("stress").
		Directory(logsDir).
		Extension("log").
		RolloverMode(dlog.RolloverFixed).
		RetentionCount(5).
		FlushIntervalMs(50).
		HeartbeatIntervalS(5).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Logger initialized. Logs will be written to: %s\n", logsDir)

	registry := prometheus.NewRegistry()
	registry.MustRegister(logger.Collector())

	// --- Run Bursts ---
	start := time.Now()
	burstChan := make(chan int, totalBursts)
	var wg sync.WaitGroup
	var completedBursts atomic.Int64

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}
	for i := 0; i < totalBursts; i++ {
		burstChan <- i
	}
	close(burstChan)
	wg.Wait()
	fmt.Printf("\nAll bursts enqueued in %v. Flushing...\n", time.Since(start))

	if err := logger.Flush(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
	}

	// --- Report Counters ---
	families, err := registry.Gather()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Metrics gather error: %v\n", err)
	} else {
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				value := m.GetCounter().GetValue() + m.GetGauge().GetValue()
				fmt.Printf("%-35s %v\n", mf.GetName(), value)
			}
		}
	}

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger...")
	if err := logger.Shutdown(5 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Stress Test Finished ---")
}
