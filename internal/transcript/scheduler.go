package transcript

import (
	"sync"
	"time"
)

// FlushFunc receives one drained transcript chunk and its offline flag.
type FlushFunc func(text string, offline bool)

// Scheduler drives the periodic drain of a Buffer. Re-initialization
// replaces the running ticker: there is never more than one firing at a
// time, no matter how often settings change.
type Scheduler struct {
	mu    sync.Mutex
	buf   *Buffer
	flush FlushFunc
	stop  chan struct{}
}

func NewScheduler(buf *Buffer, flush FlushFunc) *Scheduler {
	return &Scheduler{buf: buf, flush: flush}
}

// Init starts (or restarts) the recurring drain at the given cadence. Any
// previous ticker is cancelled first.
func (s *Scheduler) Init(cadence time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
	}
	s.stop = make(chan struct{})
	go s.run(cadence, s.stop)
}

// Stop cancels the recurring drain without flushing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Scheduler) run(cadence time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Flush()
		}
	}
}

// Flush drains the buffer and, if anything accumulated, hands the chunk to
// the flush callback on its own goroutine. The buffer is already reset by
// the time the callback runs, so fragments arriving mid-analysis are never
// lost. A failed cycle is not re-queued.
func (s *Scheduler) Flush() {
	text, offline := s.buf.Drain()
	if text == "" {
		return
	}
	go s.flush(text, offline)
}
