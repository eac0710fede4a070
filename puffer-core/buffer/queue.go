package buffer

import (
	"fmt"

	"github.com/codefionn/puffer/puffer-core/logger"
)

// Queue is an ordered, singly linked chain of Buffers representing one
// logical byte stream. The zero value is an empty queue, which is valid.
//
// A Buffer joins a queue through Append or Push and leaves it through
// Remove or PopHead; it can be linked into at most one queue at a time.
// Queues are not safe for concurrent use.
type Queue struct {
	head *Buffer
	tail *Buffer
	n    int
}

// Empty reports whether the queue holds no buffers.
func (q *Queue) Empty() bool {
	return q.head == nil
}

// Len returns the number of buffers in the queue.
func (q *Queue) Len() int {
	return q.n
}

// Head returns the first buffer without removing it, or nil when empty.
func (q *Queue) Head() *Buffer {
	return q.head
}

// Tail returns the last buffer without removing it, or nil when empty.
func (q *Queue) Tail() *Buffer {
	return q.tail
}

// Append links b at the tail of the queue, preserving byte-stream order.
// Appending a buffer that is already linked somewhere is a fatal caller bug.
func (q *Queue) Append(b *Buffer) {
	if b.queued || b.next != nil {
		panic(fmt.Sprintf("buffer: append of already queued buffer (pos %d last %d)",
			b.pos, b.last))
	}
	b.queued = true
	if q.tail == nil {
		q.head = b
	} else {
		q.tail.next = b
	}
	q.tail = b
	q.n++
	logger.Trace("queue append buffer len %d", b.Len())
}

// Push links b at the head of the queue. The pool free list relies on this
// for LIFO recycling; stream owners normally use Append.
func (q *Queue) Push(b *Buffer) {
	if b.queued || b.next != nil {
		panic(fmt.Sprintf("buffer: push of already queued buffer (pos %d last %d)",
			b.pos, b.last))
	}
	b.queued = true
	b.next = q.head
	q.head = b
	if q.tail == nil {
		q.tail = b
	}
	q.n++
}

// PopHead unlinks and returns the first buffer, or nil when empty.
func (q *Queue) PopHead() *Buffer {
	b := q.head
	if b == nil {
		return nil
	}
	q.head = b.next
	if q.head == nil {
		q.tail = nil
	}
	b.next = nil
	b.queued = false
	q.n--
	return b
}

// Remove unlinks b from anywhere in the queue and clears its chain link.
// Removing a buffer that is not in this queue is a fatal caller bug.
func (q *Queue) Remove(b *Buffer) {
	logger.Trace("queue remove buffer len %d", b.Len())
	if b == q.head {
		q.PopHead()
		return
	}
	for prev := q.head; prev != nil; prev = prev.next {
		if prev.next == b {
			prev.next = b.next
			if q.tail == b {
				q.tail = prev
			}
			b.next = nil
			b.queued = false
			q.n--
			return
		}
	}
	panic(fmt.Sprintf("buffer: remove of buffer not in queue (pos %d last %d)",
		b.pos, b.last))
}
