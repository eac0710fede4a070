package buffer

import (
	"fmt"
	"unsafe"
)

// magicTag marks a live Buffer. It is written once at construction and
// verified on every pool get/put; a mismatch means the buffer header was
// trampled and the process must not continue on corrupted memory.
const magicTag uint32 = 0xdeadbeef

// Buffer is a fixed-capacity byte region with a read cursor (pos) and a
// write cursor (last). The occupied range is data[pos:last]; the writable
// range is data[last:]. Cursors only move through methods, which keep the
// invariant 0 <= pos <= last <= cap at all times.
//
// A Buffer belongs to at most one Queue at any instant: either a stream
// queue owned by the protocol layer, or the pool's internal free list.
type Buffer struct {
	data  []byte
	pos   int
	last  int
	magic uint32

	// next links the buffer into exactly one Queue; nil while unqueued.
	next   *Buffer
	queued bool
}

// Cap returns the fixed data capacity of the buffer.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// ReadPos returns the read cursor: the offset of the first unconsumed byte.
func (b *Buffer) ReadPos() int {
	return b.pos
}

// WritePos returns the write cursor: one past the last written byte.
// Split positions are expressed in this coordinate space.
func (b *Buffer) WritePos() int {
	return b.last
}

// Len returns the number of occupied (unconsumed) bytes.
func (b *Buffer) Len() int {
	if b.last < b.pos {
		panic(fmt.Sprintf("buffer: cursor order violated, pos %d > last %d cap %d",
			b.pos, b.last, len(b.data)))
	}
	return b.last - b.pos
}

// Space returns the number of bytes that can still be written.
func (b *Buffer) Space() int {
	if b.last > len(b.data) {
		panic(fmt.Sprintf("buffer: write cursor past capacity, last %d cap %d",
			b.last, len(b.data)))
	}
	return len(b.data) - b.last
}

// Full reports whether no writable space remains.
func (b *Buffer) Full() bool {
	return b.Space() == 0
}

// Empty reports whether no unconsumed data remains.
func (b *Buffer) Empty() bool {
	return b.Len() == 0
}

// Bytes returns a view of the occupied range. The view is invalidated by
// any subsequent write, skip or split on the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[b.pos:b.last]
}

// Skip consumes n bytes, advancing the read cursor. Consuming more than
// Len() is a fatal caller bug.
func (b *Buffer) Skip(n int) {
	if n < 0 || n > b.Len() {
		panic(fmt.Sprintf("buffer: skip %d outside occupied range [%d, %d)",
			n, b.pos, b.last))
	}
	b.pos += n
}

// reset makes the buffer logically empty. Contents are not cleared; a
// recycled buffer still holds whatever bytes the previous owner wrote.
func (b *Buffer) reset() {
	b.pos = 0
	b.last = 0
}

// CopyFrom appends src into the buffer at the write cursor and advances
// the cursor by len(src). The caller must have checked Space first:
// exceeding the writable range is a fatal contract violation, not a
// runtime error. src must not alias the buffer's own region.
func (b *Buffer) CopyFrom(src []byte) {
	n := len(src)
	if n == 0 {
		return
	}
	if b.Full() || n > b.Space() {
		panic(fmt.Sprintf("buffer: copy of %d bytes exceeds free space %d (pos %d last %d cap %d)",
			n, b.Space(), b.pos, b.last, len(b.data)))
	}
	if regionsOverlap(src, b.data) {
		panic(fmt.Sprintf("buffer: copy source overlaps buffer region (pos %d last %d cap %d)",
			b.pos, b.last, len(b.data)))
	}
	copy(b.data[b.last:], src)
	b.last += n
}

// CopyLiteral resolves code through the literal table and appends the
// literal's bytes. Same contract as CopyFrom.
func (b *Buffer) CopyLiteral(code LiteralCode) {
	b.CopyFrom(code.Bytes())
}

// checkMagic validates the corruption tag. Called on every pool get/put;
// failure is memory corruption and aborts rather than continuing.
func (b *Buffer) checkMagic(op string) {
	if b.magic != magicTag {
		panic(fmt.Sprintf("buffer: bad magic %#x during %s (pos %d last %d cap %d)",
			b.magic, op, b.pos, b.last, len(b.data)))
	}
}

// regionsOverlap reports whether two byte slices share any backing memory.
func regionsOverlap(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))
	return aStart < bEnd && bStart < aEnd
}
