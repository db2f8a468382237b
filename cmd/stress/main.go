package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/fanlog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 2000
	numWorkers     = 64
	numSources     = 8
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
name = "stress_test"
directory = "./logs"
level = "debug"
format = "{time} | {level: <8} | {name}:{function}:{line} | {message}"
enable_console = false
enable_file = true
max_bytes = 1048576 # Force frequent rotation (1MB)
backup_count = 5
async = true
buffer_size = 500
flush_interval_ms = 50
`

var levels = []int64{
	fanlog.LevelDebug,
	fanlog.LevelInfo,
	fanlog.LevelSuccess,
	fanlog.LevelWarning,
	fanlog.LevelError,
}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity from one source
func logBurst(reg *fanlog.Registry, burstID int) {
	logger := reg.Get(fmt.Sprintf("source%d", burstID%numSources))
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
		fields := fanlog.Fields{"wkr": burstID % numWorkers, "bst": burstID, "seq": i, "rnd": rand.Int63()}

		switch level {
		case fanlog.LevelDebug:
			logger.Debug("%s", msg, fields)
		case fanlog.LevelInfo:
			logger.Info("%s", msg, fields)
		case fanlog.LevelSuccess:
			logger.Success("%s", msg, fields)
		case fanlog.LevelWarning:
			logger.Warning("%s", msg, fields)
		case fanlog.LevelError:
			logger.Error("%s", msg, fields)
		}
	}
}

// worker goroutine function
func worker(reg *fanlog.Registry, burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(reg, burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- fanlog Stress Test ---")

	// --- Setup Config ---
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created dummy config file: %s\n", configFile)

	cfg, err := fanlog.LoadConfig(configFile, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	_ = os.RemoveAll(cfg.Directory) // Clean previous run's directory before starting

	// --- Initialize Registry ---
	reg, err := fanlog.NewRegistry(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize registry: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Registry initialized. Logs will be written to: %s\n", cfg.FilePath())

	if err := cfg.Save(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save configuration to '%s': %v\n", configFile, err)
	} else {
		fmt.Printf("Configuration saved to: %s\n", configFile)
	}

	fmt.Printf("Starting stress test: %d workers, %d sources, %d bursts, %d logs/burst.\n",
		numWorkers, numSources, totalBursts, logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(reg, burstChan, &wg, &completedBursts)
	}

	// --- Run Test ---
	startTime := time.Now()
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			goto endLoop
		}
	}
endLoop:
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Logs/sec: %.2f\n", logsPerSec)
	}

	// --- Shutdown Registry ---
	fmt.Println("Shutting down registry (allowing up to 10s)...")
	if err := reg.Shutdown(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Registry shutdown error: %v\n", err)
	} else {
		fmt.Println("Registry shutdown complete.")
	}

	stats := reg.Stats()
	fmt.Printf("Emitted: %d  Filtered: %d  Dropped: %d  SinkErrors: %d\n",
		stats.Emitted, stats.Filtered, stats.Dropped, stats.SinkErrors)
	fmt.Printf("Rotations: %d  RotationFailures: %d\n", stats.Rotations, stats.RotationFailures)

	files, _ := filepath.Glob(filepath.Join(cfg.Directory, cfg.Name+"*."+cfg.Extension))
	fmt.Printf("Files on disk (backup_count=%d):\n", cfg.BackupCount)
	for _, f := range files {
		if info, err := os.Stat(f); err == nil {
			fmt.Printf("  %-32s %10d bytes\n", filepath.Base(f), info.Size())
		}
	}
}
