// Package spinner draws a one-glyph progress indicator while a blocking call
// runs. It is purely cosmetic.
package spinner

import (
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/term"
)

// Interval is the delay between frames.
const Interval = 100 * time.Millisecond

var frames = []rune{'|', '/', '-', '\\'}

// Spinner is the handle returned by Start. The zero value is inert.
type Spinner struct {
	w    io.Writer
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Start begins drawing on w and returns the handle that stops it. When w is
// not a terminal nothing is drawn.
func Start(w io.Writer) *Spinner {
	if !isTerminal(w) {
		return &Spinner{}
	}
	return start(w, Interval)
}

func start(w io.Writer, interval time.Duration) *Spinner {
	s := &Spinner{
		w:    w,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.run(interval)
	return s
}

func (s *Spinner) run(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(s.w, "%c\r", frames[i%len(frames)])
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the spinner, waits for the drawing goroutine to exit and clears
// the glyph. It is safe to call more than once and on an inert handle.
func (s *Spinner) Stop() {
	if s == nil || s.stop == nil {
		return
	}
	s.once.Do(func() {
		close(s.stop)
		<-s.done
		fmt.Fprint(s.w, " \r")
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
