// FILE: lixenwraith/fanlog/async_test.go
package fanlog

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// recordingSink collects lines and counts calls
type recordingSink struct {
	mu       sync.Mutex
	lines    []string
	syncs    atomic.Int64
	closed   atomic.Bool
	delay    time.Duration
	writeErr error
}

func (s *recordingSink) Write(p []byte) (int, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, string(p))
	return len(p), nil
}

func (s *recordingSink) Sync() error {
	s.syncs.Add(1)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func TestAsyncSinkOrderAndDrain(t *testing.T) {
	defer goleak.VerifyNone(t)

	next := &recordingSink{delay: 100 * time.Microsecond}
	a := newAsyncSink(next, 2, time.Second, nil, nil)

	for i := 0; i < 50; i++ {
		_, err := a.Write([]byte(fmt.Sprintf("%02d\n", i)))
		require.NoError(t, err)
	}
	require.NoError(t, a.Close())

	lines := next.snapshot()
	require.Len(t, lines, 50, "blocking enqueue never drops")
	for i, line := range lines {
		assert.Equal(t, fmt.Sprintf("%02d\n", i), line)
	}
	assert.True(t, next.closed.Load())

	_, err := a.Write([]byte("late\n"))
	assert.Error(t, err)
	assert.NoError(t, a.Close(), "second close is a no-op")
}

func TestAsyncSinkCopiesInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	next := &recordingSink{}
	a := newAsyncSink(next, 8, time.Second, nil, nil)
	defer a.Close()

	buf := []byte("first\n")
	_, err := a.Write(buf)
	require.NoError(t, err)
	copy(buf, "XXXXX\n")

	require.NoError(t, a.Sync())
	assert.Equal(t, []string{"first\n"}, next.snapshot())
}

func TestAsyncSinkSyncWaitsForQueue(t *testing.T) {
	defer goleak.VerifyNone(t)

	next := &recordingSink{delay: time.Millisecond}
	a := newAsyncSink(next, 64, time.Hour, nil, nil)
	defer a.Close()

	for i := 0; i < 20; i++ {
		_, err := a.Write([]byte("x\n"))
		require.NoError(t, err)
	}
	require.NoError(t, a.Sync())
	assert.Len(t, next.snapshot(), 20)
	assert.GreaterOrEqual(t, next.syncs.Load(), int64(1))
}

func TestAsyncSinkPeriodicSync(t *testing.T) {
	defer goleak.VerifyNone(t)

	next := &recordingSink{}
	a := newAsyncSink(next, 8, minWaitTime, nil, nil)

	assert.Eventually(t, func() bool { return next.syncs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, a.Close())
}

func TestAsyncSinkWriteErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	st := &stats{}
	next := &recordingSink{writeErr: errors.New("disk full")}
	a := newAsyncSink(next, 8, time.Second, newDiagnostics(nil, false, st), st)

	_, err := a.Write([]byte("lost\n"))
	require.NoError(t, err, "enqueue succeeds, the failure is reported by the processor")
	require.NoError(t, a.Close())

	assert.Equal(t, uint64(1), st.SinkErrors.Load())
}

func TestAsyncSinkConcurrentWriters(t *testing.T) {
	defer goleak.VerifyNone(t)

	next := &recordingSink{}
	a := newAsyncSink(next, 4, 10*time.Millisecond, nil, nil)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = a.Write([]byte(fmt.Sprintf("w%d-%d\n", w, i)))
			}
		}(w)
	}
	wg.Wait()
	require.NoError(t, a.Close())

	assert.Len(t, next.snapshot(), 400)
}
