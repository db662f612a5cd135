// Package transcript owns the shared buffer of finalized speech fragments
// and the timer that drains it on a fixed cadence.
package transcript

import (
	"strings"
	"sync"
)

// Buffer accumulates finalized transcript fragments between analysis
// cycles. Appends and the periodic drain never interleave: Drain is a
// single atomic read-and-reset, so fragments arriving while a cycle is
// being analyzed land in the next cycle instead of being lost.
type Buffer struct {
	mu      sync.Mutex
	text    strings.Builder
	offline bool
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds one finalized fragment. The offline flag is last-write-wins
// for the whole buffered window.
func (b *Buffer) Append(text string, offline bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text.WriteString(" ")
	b.text.WriteString(text)
	b.offline = offline
}

// Drain returns the trimmed buffered text and the latest offline flag,
// resetting the buffer. An empty result means nothing accumulated.
func (b *Buffer) Drain() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	text := strings.TrimSpace(b.text.String())
	b.text.Reset()
	return text, b.offline
}

// Len reports the buffered byte count, for display purposes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text.Len()
}
