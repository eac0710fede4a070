package stats

// Recorder defines the interface for collecting buffer pool statistics.
// Implementations must be cheap: the pool calls into the recorder on every
// get/put and every split.
type Recorder interface {
	// Allocation tracking
	RecordAlloc(chunkSize int) // fresh region obtained from the allocator
	RecordReuse()              // buffer served from the free list
	RecordAllocFailure()       // allocator could not supply a region

	// Recycling tracking
	RecordPut()  // buffer returned to the free list
	RecordFree() // region handed back to the allocator at teardown

	// Split tracking
	RecordSplit(bytesCopied int)
}

// Snapshot represents a point-in-time copy of recorder values
type Snapshot struct {
	Allocs        int64
	AllocFailures int64
	Reuses        int64
	Puts          int64
	Frees         int64
	Splits        int64
	SplitBytes    int64
	BytesAlloced  int64
}

// InUse returns the number of buffers currently held outside the pool.
func (s Snapshot) InUse() int64 {
	return s.Allocs + s.Reuses - s.Puts
}
