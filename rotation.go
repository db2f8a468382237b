// FILE: lixenwraith/fanlog/rotation.go
package fanlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/avast/retry-go/v5"
)

// RotationPolicy decides when the active file of a file sink rolls over and shifts the
// numbered history files. It holds no file handle: the owning sink closes the active
// file before Rollover and reopens the base path afterwards.
// Not safe for concurrent use, the owning sink serializes access.
type RotationPolicy struct {
	basePath    string
	stem        string // basePath without extension
	ext         string // extension including the dot, may be empty
	maxBytes    int64
	backupCount int
	width       int
	currentSize int64

	retries    uint
	retryDelay time.Duration
	onRetry    func(op string, attempt uint, err error)
}

// NewRotationPolicy creates a policy for the file at basePath.
// maxBytes <= 0 disables rollover, backupCount == 0 keeps no history.
func NewRotationPolicy(basePath string, maxBytes int64, backupCount int) *RotationPolicy {
	if backupCount < 0 {
		backupCount = 0
	}
	ext := filepath.Ext(basePath)
	return &RotationPolicy{
		basePath:    basePath,
		stem:        basePath[:len(basePath)-len(ext)],
		ext:         ext,
		maxBytes:    maxBytes,
		backupCount: backupCount,
		width:       len(strconv.Itoa(backupCount)),
		retries:     3,
		retryDelay:  defaultRotateRetryDelay,
	}
}

// withRetry sets the bounded retry applied to each rename, truncate or reopen step
func (p *RotationPolicy) withRetry(attempts int, delay time.Duration) *RotationPolicy {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > maxRotateRetries {
		attempts = maxRotateRetries
	}
	if delay < 0 {
		delay = 0
	}
	p.retries = uint(attempts)
	p.retryDelay = delay
	return p
}

// BasePath returns the active file path
func (p *RotationPolicy) BasePath() string {
	return p.basePath
}

// SuffixWidth is the number of digits of the backup index
func (p *RotationPolicy) SuffixWidth() int {
	return p.width
}

// BackupPath returns the path of history file i: "app.log" -> "app3.log" or "app03.log"
func (p *RotationPolicy) BackupPath(i int) string {
	return fmt.Sprintf("%s%0*d%s", p.stem, p.width, i, p.ext)
}

// Size returns the tracked size of the active file
func (p *RotationPolicy) Size() int64 {
	return p.currentSize
}

// setSize seeds the tracked size, used when the active file is (re)opened
func (p *RotationPolicy) setSize(n int64) {
	if n < 0 {
		n = 0
	}
	p.currentSize = n
}

// add accounts n written bytes
func (p *RotationPolicy) add(n int64) {
	p.currentSize += n
}

// ShouldRollover reports whether writing n more bytes must be preceded by a rollover
func (p *RotationPolicy) ShouldRollover(n int64) bool {
	return p.maxBytes > 0 && p.currentSize+n >= p.maxBytes
}

// Rollover shifts history files up by one and moves the active file to index 1.
// With no history the active file is truncated instead. On success the tracked size is
// reset; on failure it is left alone and the active file stays where it was.
// Each step renames over its target, so a failed step leaves every file in place.
func (p *RotationPolicy) Rollover() error {
	if p.backupCount == 0 {
		if err := p.attempt("truncate", func() error { return os.Truncate(p.basePath, 0) }); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmtErrorf("failed to truncate log file '%s': %w", p.basePath, err)
		}
		p.currentSize = 0
		return nil
	}

	for i := p.backupCount - 1; i >= 1; i-- {
		src := p.BackupPath(i)
		if !fileExists(src) {
			continue
		}
		dst := p.BackupPath(i + 1)
		if err := p.attempt("rename", func() error { return os.Rename(src, dst) }); err != nil {
			return fmtErrorf("failed to shift backup '%s' to '%s': %w", src, dst, err)
		}
	}

	first := p.BackupPath(1)
	if err := p.attempt("rename", func() error { return os.Rename(p.basePath, first) }); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmtErrorf("failed to move log file '%s' to '%s': %w", p.basePath, first, err)
	}

	p.currentSize = 0
	return nil
}

// attempt runs one filesystem step with bounded retry, a missing file is final
func (p *RotationPolicy) attempt(op string, fn func() error) error {
	opts := []retry.Option{
		retry.Attempts(p.retries),
		retry.Delay(p.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, fs.ErrNotExist)
		}),
	}
	if p.onRetry != nil {
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			p.onRetry(op, n+1, err)
		}))
	}
	return retry.New(opts...).Do(fn)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
