package buffer

// Allocator supplies the raw fixed-size regions backing pooled buffers.
// The pool requests exactly one size for its whole lifetime; implementations
// may reject a request by returning an error, which the pool surfaces as a
// recoverable allocation failure.
type Allocator interface {
	// Alloc returns a region of exactly size bytes.
	Alloc(size int) ([]byte, error)
	// Free releases a region previously returned by Alloc.
	Free(region []byte)
}

// heapAllocator backs buffer regions with ordinary garbage-collected memory.
type heapAllocator struct{}

func (heapAllocator) Alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (heapAllocator) Free(region []byte) {
	// GC reclaims the region once the pool drops its reference.
}

// HeapAllocator returns the default allocator backed by the Go heap.
func HeapAllocator() Allocator {
	return heapAllocator{}
}
