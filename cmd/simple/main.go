// FILE: cmd/simple/main.go
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/arkelic/dlog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[log]
  level = -4 # Debug
  name = "simple"
  directory = "./simple_logs"
  extension = "log"
  rollover_mode = "dated"
  flush_interval_ms = 100
  dedupe_cache_size = 1024
  # Other settings use built-in defaults
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// --- Setup Config ---
	// Create dummy config file
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults potentially
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
		// defer os.Remove(configFile) // Remove to keep the saved config file
	}

	cfg, err := dlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v. Using defaults.\n", err)
		cfg = dlog.DefaultConfig()
	}

	// --- Initialize Logger ---
	err = dlog.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	// --- Logging ---
	dlog.Debug("This is a debug message.")
	dlog.Info("Application starting...")
	dlog.Warn("Potential issue detected.")
	dlog.Error("An error occurred!", "code", 500)

	// Repeated messages within the holdoff window collapse to one line
	for i := 0; i < 5; i++ {
		dlog.WarnEvery(time.Hour, "Disk space below threshold.")
	}

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			dlog.Info(fmt.Sprintf("Goroutine %d started", id))
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			dlog.Info(fmt.Sprintf("Goroutine %d finished", id))
		}(i)
	}

	// Wait for goroutines to finish before shutting down logger
	wg.Wait()
	fmt.Println("Goroutines finished.")

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger...")
	// Provide a reasonable timeout for logs to flush
	shutdownTimeout := 2 * time.Second
	err = dlog.Shutdown(shutdownTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Println("Check log files in './simple_logs'.")
}
