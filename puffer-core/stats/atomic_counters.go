package stats

import (
	"sync/atomic"
)

// AtomicInt64Counter is a lock-free 64-bit integer counter
type AtomicInt64Counter int64

// Add atomically adds delta to the counter and returns the new value
func (c *AtomicInt64Counter) Add(delta int64) int64 {
	return atomic.AddInt64((*int64)(c), delta)
}

// Load atomically loads the current value
func (c *AtomicInt64Counter) Load() int64 {
	return atomic.LoadInt64((*int64)(c))
}

// Store atomically stores the value
func (c *AtomicInt64Counter) Store(value int64) {
	atomic.StoreInt64((*int64)(c), value)
}

// Swap atomically swaps the old value with new and returns the old value
func (c *AtomicInt64Counter) Swap(new int64) int64 {
	return atomic.SwapInt64((*int64)(c), new)
}

// Reset atomically resets the counter to 0 and returns the previous value
func (c *AtomicInt64Counter) Reset() int64 {
	return c.Swap(0)
}

// AtomicRecorder implements Recorder with lock-free counters. The buffer
// core itself is single-owner, but a recorder may be shared by several
// pools (e.g. one per worker), so updates stay atomic.
type AtomicRecorder struct {
	Allocs        AtomicInt64Counter
	AllocFailures AtomicInt64Counter
	Reuses        AtomicInt64Counter
	Puts          AtomicInt64Counter
	Frees         AtomicInt64Counter
	Splits        AtomicInt64Counter
	SplitBytes    AtomicInt64Counter
	BytesAlloced  AtomicInt64Counter
}

// NewAtomicRecorder creates a new recorder with all counters at zero
func NewAtomicRecorder() *AtomicRecorder {
	return &AtomicRecorder{}
}

// RecordAlloc records a fresh region allocation of chunkSize bytes
func (a *AtomicRecorder) RecordAlloc(chunkSize int) {
	a.Allocs.Add(1)
	a.BytesAlloced.Add(int64(chunkSize))
}

// RecordAllocFailure records an allocator failure
func (a *AtomicRecorder) RecordAllocFailure() {
	a.AllocFailures.Add(1)
}

// RecordReuse records a free-list hit
func (a *AtomicRecorder) RecordReuse() {
	a.Reuses.Add(1)
}

// RecordPut records a buffer returned to the free list
func (a *AtomicRecorder) RecordPut() {
	a.Puts.Add(1)
}

// RecordFree records a region released back to the allocator
func (a *AtomicRecorder) RecordFree() {
	a.Frees.Add(1)
}

// RecordSplit records one split operation and the bytes it duplicated
func (a *AtomicRecorder) RecordSplit(bytesCopied int) {
	a.Splits.Add(1)
	a.SplitBytes.Add(int64(bytesCopied))
}

// Snapshot returns a copy of all counter values
func (a *AtomicRecorder) Snapshot() Snapshot {
	return Snapshot{
		Allocs:        a.Allocs.Load(),
		AllocFailures: a.AllocFailures.Load(),
		Reuses:        a.Reuses.Load(),
		Puts:          a.Puts.Load(),
		Frees:         a.Frees.Load(),
		Splits:        a.Splits.Load(),
		SplitBytes:    a.SplitBytes.Load(),
		BytesAlloced:  a.BytesAlloced.Load(),
	}
}

// ResetAll resets all counters to 0 and returns the previous values
func (a *AtomicRecorder) ResetAll() Snapshot {
	return Snapshot{
		Allocs:        a.Allocs.Reset(),
		AllocFailures: a.AllocFailures.Reset(),
		Reuses:        a.Reuses.Reset(),
		Puts:          a.Puts.Reset(),
		Frees:         a.Frees.Reset(),
		Splits:        a.Splits.Reset(),
		SplitBytes:    a.SplitBytes.Reset(),
		BytesAlloced:  a.BytesAlloced.Reset(),
	}
}
