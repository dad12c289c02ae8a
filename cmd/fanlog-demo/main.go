package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/fanlog"
)

const defaultConfigFile = "fanlog_demo.toml"

// Example TOML content written when no config file exists
var tomlContent = `
# Example fanlog_demo.toml
[log]
  name = "demo"
  level = "debug"
  format = "{datetime} [{level}] {name}: {msg}"
  enable_console = true
  console_target = "stdout"
  enable_file = true
  file_path = "./demo_logs/demo.log"
  file_mode = "append"
  file_max_bytes = 4096
  file_max_backups = 3
  file_level = "info"
  # Remote delivery needs a real bot token and chat id
  enable_remote = false
`

// overrideList collects repeated -set flags
type overrideList []string

func (o *overrideList) String() string     { return strings.Join(*o, ",") }
func (o *overrideList) Set(v string) error { *o = append(*o, v); return nil }

func main() {
	configFile := flag.String("config", defaultConfigFile, "TOML config file, created with example content if missing")
	workers := flag.Int("workers", 4, "concurrent goroutines in the stress phase")
	perWorker := flag.Int("messages", 200, "messages per goroutine in the stress phase")
	var overrides overrideList
	flag.Var(&overrides, "set", "key=value override, repeatable")
	flag.Parse()

	fmt.Println("--- fanlog demo ---")

	if _, err := os.Stat(*configFile); os.IsNotExist(err) {
		if err := os.WriteFile(*configFile, []byte(tomlContent), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write example config: %v\n", err)
		} else {
			fmt.Printf("Created example config file: %s\n", *configFile)
		}
	}

	cfg, err := fanlog.NewConfigFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyOverride(overrides...); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid override: %v\n", err)
		os.Exit(1)
	}

	if err := fanlog.Setup(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer fanlog.Shutdown()

	// --- Logging ---
	fanlog.Debug("debug details: {0}", []int{1, 2, 3})
	fanlog.Info("application starting, pid {0}", os.Getpid())
	fanlog.Warning("disk usage at {pct}% on {mount}", map[string]any{"pct": 91, "mount": "/var"})
	fanlog.Error("request failed with code {0}", 500)

	db := fanlog.Default().WithCategory("db")
	db.Info("connected to {0}", "primary")
	db.Critical(fanlog.MessageFunc(func() string {
		return "connection pool exhausted after " + time.Second.String()
	}))

	// --- Stress phase ---
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker := fanlog.Default().WithCategory(fmt.Sprintf("worker-%d", id))
			for j := 0; j < *perWorker; j++ {
				worker.Info("message {0} of {1}", j, *perWorker)
			}
		}(i)
	}
	wg.Wait()

	total := *workers * *perWorker
	fanlog.Info("stress phase wrote {0} records in {1}", total, time.Since(start).Round(time.Millisecond))

	for _, h := range fanlog.Default().Handlers() {
		if f, ok := h.(*fanlog.RotatingFileHandler); ok {
			fmt.Printf("File handler rotated %d times, active segment %d bytes\n", f.Rotations(), f.Size())
		}
		if r, ok := h.(*fanlog.RemoteHandler); ok {
			s := r.Stats()
			fmt.Printf("Remote handler: connected=%v queued=%d delivered=%d failed=%d\n",
				s.Connected, s.Queued, s.Delivered, s.Failed)
		}
	}

	fmt.Println("--- demo finished ---")
}
