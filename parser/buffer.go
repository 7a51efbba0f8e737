package parser

import (
	"github.com/ava12/meta"
)

// Checkpoint is a saved length of event buffer.
type Checkpoint int

// Buffer is an append-only event list shared by all rules of a single parse.
// Events appended after a checkpoint are discarded by rolling back to it.
type Buffer struct {
	events []meta.Event
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Len() int {
	return len(b.events)
}

// Checkpoint returns current buffer length.
func (b *Buffer) Checkpoint() Checkpoint {
	return Checkpoint(len(b.events))
}

// Rollback discards all events appended after cp.
func (b *Buffer) Rollback(cp Checkpoint) {
	if int(cp) < len(b.events) {
		b.events = b.events[:cp]
	}
}

// Write discards events appended after cp, appends new event, and returns new checkpoint.
func (b *Buffer) Write(cp Checkpoint, rng meta.Range, data meta.Data) Checkpoint {
	b.Rollback(cp)
	b.events = append(b.events, meta.Event{Range: rng, Data: data})
	return Checkpoint(len(b.events))
}

// Events returns buffer content. The slice must not be modified while the buffer is in use.
func (b *Buffer) Events() []meta.Event {
	return b.events
}

// Reset discards all events.
func (b *Buffer) Reset() {
	b.events = b.events[:0]
}
