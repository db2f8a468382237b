package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/fanlog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
name = "simple"
directory = "./simple_logs"
level = "debug"
enable_console = true
enable_file = true
max_bytes = 65536
backup_count = 3
# Other settings use defaults
`

func main() {
	fmt.Println("--- Simple fanlog Example ---")

	// --- Setup Config ---
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	// File, FANLOG_ environment variables and --key=value arguments, in rising priority
	cfg, err := fanlog.LoadConfig(configFile, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v. Using defaults.\n", err)
		cfg = fanlog.DefaultConfig()
	}

	// --- Initialize Registry ---
	reg, err := fanlog.NewRegistry(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize registry: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Registry initialized.")

	if err := cfg.Save(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save configuration to '%s': %v\n", configFile, err)
	} else {
		fmt.Printf("Configuration saved to: %s\n", configFile)
	}

	// --- Logging ---
	log := reg.Get(fanlog.NameFromPath(os.Args[0]))
	log.Debug("This is a debug message.", fanlog.Fields{"user_id": 123})
	log.Info("Application starting...")
	log.Success("Connected to %s", "db01")
	log.Warning("Potential issue detected.", fanlog.Fields{"threshold": 0.95})
	log.Error("An error occurred! code=%d", 500)
	log.Exception(errors.New("connection refused"), "Fetch failed")
	log.LogStructured(fanlog.LevelInfo, "Cache warmed", fanlog.Fields{"entries": 1024, "took": "85ms"})

	// An extra error-only file for this source
	if err := reg.AttachFile(log.Name(), "./simple_logs/errors.log", fanlog.DefaultFormat,
		fanlog.LevelError, 0, 0, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to attach error file: %v\n", err)
	}
	log.Critical("This line also lands in errors.log")

	// Chatty third-party source, gated at the suppress level
	reg.Get("urllib3.connectionpool").Info("Hidden by the gate")

	// Logging from goroutines through a context
	ctx := fanlog.NewContext(context.Background(), reg)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker := fanlog.LoggerFromContext(ctx, fmt.Sprintf("worker%d", id))
			worker.Info("Goroutine started")
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			worker.Info("Goroutine finished")
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	// --- Shutdown Registry ---
	fmt.Println("Shutting down registry...")
	if err := reg.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Registry shutdown error: %v\n", err)
	} else {
		fmt.Println("Registry shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in './simple_logs' and the saved config '%s'.\n", configFile)
}
