package main

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/fanlog"
)

var levels = []int64{
	fanlog.LevelDebug,
	fanlog.LevelInfo,
	fanlog.LevelWarning,
	fanlog.LevelError,
}

// Change gate levels and attachments while sources keep logging
func main() {
	var count atomic.Int64

	dir, err := os.MkdirTemp("", "fanlog-reconfig")
	if err != nil {
		fmt.Printf("Temp dir error: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	reg, err := fanlog.NewBuilder().
		Directory(dir).
		EnableConsole(false).
		EnableFile(true).
		MaxBytes(64 * 1024).
		BackupCount(3).
		InternalErrorsToStderr(true).
		Build()
	if err != nil {
		fmt.Printf("Initial build error: %v\n", err)
		return
	}

	// Log something constantly
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			log := reg.Get(fmt.Sprintf("source%d", w%2))
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}
				log.Info("Test log %d from writer %d", i, w)
				count.Add(1)
				time.Sleep(time.Millisecond)
			}
		}(w)
	}

	// Trigger gate changes and attachments rapidly
	for i := 0; i < 10; i++ {
		reg.SetLevel("source0", levels[i%len(levels)])
		reg.SetDefaultLevel(levels[(i+1)%len(levels)])

		path := fmt.Sprintf("%s/extra%d.log", dir, i%3)
		if err := reg.AttachFile("source1", path, "{level} {message}", fanlog.LevelDebug, 0, 0, ""); err != nil {
			fmt.Printf("Attach error: %v\n", err)
		}
		// Minimal delay between reconfigurations
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	close(stop)
	wg.Wait()

	if err := reg.Shutdown(time.Second); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}

	// Every attempt is accounted for exactly once
	stats := reg.Stats()
	fmt.Printf("Total logs attempted: %d\n", count.Load())
	fmt.Printf("Emitted: %d  Filtered: %d  SinkErrors: %d\n", stats.Emitted, stats.Filtered, stats.SinkErrors)
	if stats.Emitted+stats.Filtered != uint64(count.Load()) {
		fmt.Println("MISMATCH: records lost between gate and dispatch")
		os.Exit(1)
	}
	fmt.Printf("source1 attachments: %d (expected 4)\n", len(reg.Get("source1").Attachments()))
}
