package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/fanlog"
	"github.com/lixenwraith/fanlog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Create and configure logger
	logger, err := fanlog.NewBuilder().
		Name("http").
		Override(
			"level=debug",
			"file_path=/var/log/fasthttp/server.log",
			"enable_file=true",
			"file_level=warning",
		).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(fanlog.LevelInfo),
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
	logger.Info("starting server on {0}", ":8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Critical("server stopped: {0}", err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) int64 {
	// fasthttp message patterns worth a specific level
	if strings.Contains(msg, "connection cannot be served") {
		return fanlog.LevelWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return fanlog.LevelError
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
