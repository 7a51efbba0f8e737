// Package queue implements a FIFO queue over a growing ring buffer.
package queue

const minSize = 3

// Queue items live in items[head:tail] modulo size+1; size+1 is always a power of 2.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
}

func New[T any](items ...T) *Queue[T] {
	l := len(items)
	q := &Queue[T]{tail: l, size: computeSize(l)}
	q.items = make([]T, q.size+1)
	copy(q.items, items)
	return q
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

func (q *Queue[T]) Append(items ...T) *Queue[T] {
	for _, item := range items {
		q.items[q.tail] = item
		q.tail = (q.tail + 1) & q.size
		if q.tail == q.head {
			q.grow()
		}
	}
	return q
}

// Pop removes and returns the first item, returns false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.head == q.tail {
		return zero, false
	}

	result := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}

	return result, true
}

// computeSize returns the smallest 2^n-1 not less than length and minSize.
func computeSize(length int) int {
	if length <= minSize {
		return minSize
	}

	length |= length >> 1
	length |= length >> 2
	length |= length >> 4
	length |= length >> 8
	return length | length>>16
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size = q.size + q.tail
	q.items = items
}
