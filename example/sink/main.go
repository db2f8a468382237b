// FILE: main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/fanlog"
)

const logDirectory = "./temp_logs"

// main orchestrates the different sink scenarios.
func main() {
	// Ensure a clean state by removing the previous log directory.
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("Warning: could not remove old log directory: %v\n", err)
	}

	fmt.Println("--- Running Sink Scenarios ---")
	fmt.Printf("! All file-based logs will be in the '%s' directory.\n\n", logDirectory)

	// --- Scenario 1: Default sinks on fresh registries ---
	fmt.Println("--- SCENARIO 1: Default sinks in isolation (new registry per test) ---")
	runTestPhase("1.1: File-Only",
		"directory="+logDirectory,
		"name=file_only_log",
		"enable_console=false",
		"enable_file=true",
	)
	runTestPhase("1.2: Stdout-Only",
		"enable_console=true",
		"enable_file=false",
	)
	fmt.Fprintln(os.Stderr, "\n---") // Separator for stderr output
	runTestPhase("1.3: Stderr-Only",
		"enable_console=true",
		"console_target=stderr",
		"enable_file=false",
	)
	fmt.Fprintln(os.Stderr, "---")
	runTestPhase("1.4: No-Output (records are accepted, no sink receives them)",
		"enable_console=false",
		"enable_file=false",
	)

	// --- Scenario 2: Fan-out and de-duplication on a single registry ---
	fmt.Println("\n--- SCENARIO 2: Fan-out to several sinks ---")
	testFanOut()

	fmt.Println("\n--- Sink Scenarios Complete ---")
	fmt.Printf("Check the '%s' directory for log files.\n", logDirectory)
}

// runTestPhase builds a registry from overrides and logs a few records.
func runTestPhase(phaseName string, overrides ...string) {
	fmt.Printf("\n[Phase %s]\n", phaseName)
	fmt.Println("  Config:", overrides)

	reg, err := fanlog.NewBuilder().Override(overrides...).Build()
	if err != nil {
		fmt.Printf("  ERROR: Failed to build registry: %v\n", err)
		os.Exit(1)
	}

	log := reg.Get("sinks")
	log.Info("start phase %s", phaseName)
	log.Debug("attachments: %d", len(log.Attachments()))
	log.Info("end phase %s", phaseName)

	shutdownRegistry(reg, phaseName)
}

// testFanOut attaches overlapping sinks to two sources.
func testFanOut() {
	reg, err := fanlog.NewBuilder().
		Directory(logDirectory).
		Name("fanout").
		EnableFile(true).
		MaxBytes(4096).
		BackupCount(2).
		Build()
	if err != nil {
		fmt.Printf("  ERROR: Failed to build registry: %v\n", err)
		os.Exit(1)
	}

	errorsPath := filepath.Join(logDirectory, "errors.log")
	jsonPath := filepath.Join(logDirectory, "fanout.json")

	for _, name := range []string{"api", "worker"} {
		// Same file for both sources, one shared sink
		_ = reg.AttachFile(name, errorsPath, "{time} {level} {name} {message}", fanlog.LevelError, 4096, 2, "")
		_ = reg.AttachFile(name, jsonPath, "json", fanlog.LevelDebug, 0, 0, "")
		// Repeated attach is a no-op
		_ = reg.AttachFile(name, jsonPath, "json", fanlog.LevelDebug, 0, 0, "")
	}

	// Same path, different rotation: rejected
	if err := reg.AttachFile("api", errorsPath, "{message}", fanlog.LevelError, 8192, 2, ""); err != nil {
		fmt.Printf("  Expected conflict: %v\n", err)
	}

	for i := 0; i < 100; i++ {
		reg.Get("api").Info("request %d served", i, fanlog.Fields{"status": 200})
		if i%25 == 0 {
			reg.Get("worker").Error("job %d failed", i)
		}
	}

	for _, name := range reg.Loggers() {
		fmt.Printf("  %s:\n", name)
		for _, a := range reg.Get(name).Attachments() {
			fmt.Printf("    %-7s %-40s level=%s\n", a.Kind, a.Path+a.Target, fanlog.LevelName(a.Level))
		}
	}

	stats := reg.Stats()
	fmt.Printf("  Sinks: %d  Emitted: %d  Rotations: %d\n", stats.Sinks, stats.Emitted, stats.Rotations)
	shutdownRegistry(reg, "2: Fan-out")
}

// shutdownRegistry is a helper to gracefully shut down the registry.
func shutdownRegistry(reg *fanlog.Registry, phaseName string) {
	if err := reg.Shutdown(500 * time.Millisecond); err != nil {
		fmt.Printf("  WARNING: Shutdown error in phase '%s': %v\n", phaseName, err)
	}
}
