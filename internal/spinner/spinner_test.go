package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a bytes.Buffer so the drawing goroutine and the test can
// share it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStart_NonTerminalIsInert(t *testing.T) {
	var buf syncBuffer
	s := Start(&buf)
	time.Sleep(3 * Interval / 2)
	s.Stop()
	s.Stop()

	assert.Empty(t, buf.String())
}

func TestSpinner_CyclesAndClears(t *testing.T) {
	var buf syncBuffer
	s := start(&buf, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "|\r/\r"), "got %q", out)
	assert.True(t, strings.HasSuffix(out, " \r"), "got %q", out)

	// nothing is drawn after Stop returns
	after := buf.String()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, after, buf.String())
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	var buf syncBuffer
	s := start(&buf, time.Millisecond)
	s.Stop()
	s.Stop()

	assert.Equal(t, 1, strings.Count(buf.String(), " \r"))
}

func TestSpinner_NilAndZeroHandles(t *testing.T) {
	var nilSpinner *Spinner
	nilSpinner.Stop()

	var zero Spinner
	zero.Stop()
}
