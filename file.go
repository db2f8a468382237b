// FILE: lixenwraith/fanlog/file.go
package fanlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// FileSink writes lines to a file with size based rollover. One instance exists per
// path; every logger attached to that path shares it.
type FileSink struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	policy   *RotationPolicy
	encName  string
	encoding encoding.Encoding // nil for UTF-8
	closed   bool

	diag  *diagnostics
	stats *stats
}

// fileSinkOptions are the retry and reporting hooks a registry hands to its file sinks
type fileSinkOptions struct {
	retries    int
	retryDelay int64 // milliseconds
	diag       *diagnostics
	stats      *stats
}

// NewFileSink opens (creating parent directories) the file at path for appending.
// The size of an existing file counts toward the first rollover.
func NewFileSink(path string, maxBytes int64, backupCount int, enc string) (*FileSink, error) {
	return newFileSink(path, maxBytes, backupCount, enc, fileSinkOptions{retries: 3, retryDelay: defaultRotateRetryDelay.Milliseconds()})
}

func newFileSink(path string, maxBytes int64, backupCount int, enc string, opts fileSinkOptions) (*FileSink, error) {
	e, err := lookupEncoding(enc)
	if err != nil {
		return nil, err
	}

	s := &FileSink{
		path:     path,
		policy:   NewRotationPolicy(path, maxBytes, backupCount),
		encName:  normalizeEncoding(enc),
		encoding: e,
		diag:     opts.diag,
		stats:    opts.stats,
	}
	s.policy.withRetry(opts.retries, msDuration(opts.retryDelay))
	s.policy.onRetry = func(op string, attempt uint, err error) {
		s.diag.internalLog("retrying %s during rollover of '%s' (attempt %d): %v", op, s.path, attempt, err)
	}

	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// open (re)opens the active file in append mode, creating its directory, and seeds the
// tracked size
func (s *FileSink) open() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", filepath.Dir(s.path), err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open/create log file '%s': %w", s.path, err)
	}
	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	s.file = f
	s.policy.setSize(size)
	return nil
}

// Path returns the active file path
func (s *FileSink) Path() string {
	return s.path
}

// Policy exposes the rotation policy, for inspection only
func (s *FileSink) Policy() *RotationPolicy {
	return s.policy
}

// matches reports whether an attachment may share this sink
func (s *FileSink) matches(cfg SinkConfig) bool {
	return s.policy.maxBytes == max(cfg.MaxBytes, 0) &&
		s.policy.backupCount == cfg.BackupCount &&
		s.encName == cfg.Encoding
}

// Write encodes the line, rolls over if it would not fit and appends it.
// An empty active file takes the record whole, whatever its size.
func (s *FileSink) Write(p []byte) (int, error) {
	data := p
	if s.encoding != nil {
		encoded, err := encoding.ReplaceUnsupported(s.encoding.NewEncoder()).Bytes(p)
		if err != nil {
			return 0, fmtErrorf("failed to encode record for '%s': %w", s.path, err)
		}
		data = encoded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, fmtErrorf("file sink '%s' is closed", s.path)
	}
	if s.file == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}

	if s.policy.Size() > 0 && s.policy.ShouldRollover(int64(len(data))) {
		s.rollover()
		if s.file == nil {
			return 0, fmtErrorf("log file '%s' unavailable after rotation", s.path)
		}
	}

	n, err := s.file.Write(data)
	s.policy.add(int64(n))
	if err != nil {
		return n, fmtErrorf("failed to write to log file '%s': %w", s.path, err)
	}
	return len(p), nil
}

// rollover moves the active file aside. Failures leave the old file in place and writing
// continues into it. Must hold s.mu.
func (s *FileSink) rollover() {
	if err := s.file.Close(); err != nil {
		s.diag.internalLog("failed to close log file '%s' before rotation: %v", s.path, err)
	}
	s.file = nil

	rotateErr := s.policy.Rollover()
	if rotateErr != nil {
		s.diag.internalLog("rotation failed, continuing in current file: %v", rotateErr)
		if s.stats != nil {
			s.stats.RotationFailures.Add(1)
		}
	} else if s.stats != nil {
		s.stats.Rotations.Add(1)
	}

	if err := s.policy.attempt("reopen", s.open); err != nil {
		s.diag.internalLog("failed to reopen log file after rotation: %v", err)
	}
}

// Sync commits the active file to stable storage
func (s *FileSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w", s.path, err)
	}
	return nil
}

// Close syncs and closes the active file. Later writes fail.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}

	var err error
	if syncErr := s.file.Sync(); syncErr != nil {
		err = fmtErrorf("failed to sync log file '%s' during shutdown: %w", s.path, syncErr)
	}
	if closeErr := s.file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s' during shutdown: %w", s.path, closeErr))
	}
	s.file = nil
	return err
}

// normalizeEncoding maps all spellings of UTF-8 to the empty string
func normalizeEncoding(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "utf-8", "utf8":
		return ""
	}
	return name
}

// lookupEncoding resolves an encoding name, nil means UTF-8 passthrough
func lookupEncoding(name string) (encoding.Encoding, error) {
	name = normalizeEncoding(name)
	if name == "" {
		return nil, nil
	}
	e, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmtErrorf("unknown encoding '%s': %w", name, err)
	}
	return e, nil
}
