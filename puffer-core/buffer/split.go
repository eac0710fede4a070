package buffer

import (
	"fmt"

	"github.com/codefionn/puffer/puffer-core/logger"
)

// Split divides the byte stream held by q at position pos of its tail
// buffer, so a single received request can be rewritten into two
// independently well-formed wire requests without recopying the bytes
// before the split point.
//
// pos is a write-cursor offset within the tail buffer and must satisfy
// tail.ReadPos() <= pos <= tail.WritePos(); the protocol layer chooses it
// after parsing, and an out-of-range position is a fatal caller bug.
//
// The second half is materialized in a fresh buffer from p: first the
// headLit framing prefix, then the tail buffer's bytes from pos onward.
// The original tail buffer is then truncated at pos and terminated with
// tailLit. The new buffer is returned unqueued; the caller appends it to
// whichever queue owns the second half.
//
// If the pool cannot supply a buffer, Split returns the allocation error
// and q is left completely unmodified.
func (p *Pool) Split(q *Queue, pos int, headLit, tailLit LiteralCode) (*Buffer, error) {
	if q.Empty() {
		panic("buffer: split on empty queue")
	}
	tail := q.Tail()
	if pos < tail.pos || pos > tail.last {
		panic(fmt.Sprintf("buffer: split position %d outside occupied range [%d, %d]",
			pos, tail.pos, tail.last))
	}

	nbuf, err := p.Get()
	if err != nil {
		return nil, err
	}

	// Frame the second half before moving any data into it.
	nbuf.CopyLiteral(headLit)

	// Duplicate only the bytes strictly after the split point.
	size := tail.last - pos
	nbuf.CopyFrom(tail.data[pos:tail.last])

	// Truncate the first half in place, then terminate it. The appended
	// literal must land at pos, so the truncation has to happen first.
	tail.last = pos
	tail.CopyLiteral(tailLit)

	p.rec.RecordSplit(size)
	logger.Trace("split at %d: head len %d, new len %d, copied %d bytes",
		pos, tail.Len(), nbuf.Len(), size)

	return nbuf, nil
}
