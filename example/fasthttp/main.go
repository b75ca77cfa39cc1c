// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/arkelic/dlog"
	"github.com/arkelic/dlog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Create and configure logger
	logger := dlog.NewLogger()
	err := logger.ApplyOverride(
		"directory=/var/log/fasthttp",
		"level=0",
		"name=httpd",
	)
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(dlog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

// customLevelDetector maps fasthttp's internal messages to log levels
func customLevelDetector(msg string) int64 {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "panic"), strings.Contains(lower, "error"):
		return dlog.LevelError
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "slow"):
		return dlog.LevelWarn
	case strings.Contains(lower, "connection"):
		return dlog.LevelDebug
	default:
		return dlog.LevelInfo
	}
}
