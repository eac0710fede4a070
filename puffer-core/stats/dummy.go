package stats

// DummyRecorder is a no-op implementation of Recorder.
// It does nothing and is used when statistics collection is disabled.
type DummyRecorder struct{}

// NewDummyRecorder creates a new dummy recorder
func NewDummyRecorder() *DummyRecorder {
	return &DummyRecorder{}
}

// RecordAlloc records a fresh allocation (no-op)
func (d *DummyRecorder) RecordAlloc(chunkSize int) {}

// RecordAllocFailure records an allocator failure (no-op)
func (d *DummyRecorder) RecordAllocFailure() {}

// RecordReuse records a free-list hit (no-op)
func (d *DummyRecorder) RecordReuse() {}

// RecordPut records a buffer return (no-op)
func (d *DummyRecorder) RecordPut() {}

// RecordFree records a region release (no-op)
func (d *DummyRecorder) RecordFree() {}

// RecordSplit records a split operation (no-op)
func (d *DummyRecorder) RecordSplit(bytesCopied int) {}
