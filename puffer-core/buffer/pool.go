package buffer

import (
	"fmt"

	"github.com/codefionn/puffer/puffer-core/logger"
	"github.com/codefionn/puffer/puffer-core/stats"
)

const (
	// DefaultChunkSize is the default per-buffer data capacity (16KB).
	DefaultChunkSize = 16 * 1024
	// MinChunkSize is the smallest usable data capacity.
	MinChunkSize = 512
	// MaxChunkSize is the largest usable data capacity.
	MaxChunkSize = 16 * 1024 * 1024
)

// PoolOptions configures a Pool.
type PoolOptions struct {
	// ChunkSize is the fixed data capacity of every buffer in the pool.
	// Zero selects DefaultChunkSize.
	ChunkSize int
	// Prealloc warms the free list with this many buffers at construction.
	Prealloc int
	// Allocator supplies backing regions; nil selects the Go heap.
	Allocator Allocator
	// Recorder collects pool statistics; nil disables collection.
	Recorder stats.Recorder
}

// Pool is a reuse cache of fixed-size Buffers. Released buffers are pushed
// onto the head of an internal free list and handed back in LIFO order, so
// recently used regions stay hot in cache. The free list grows with peak
// demand and shrinks only at Close.
//
// A Pool assumes a single logical owner; it contains no locking. Hosts that
// share a pool across goroutines must serialize access externally.
type Pool struct {
	free   Queue
	nfree  int
	chunk  int
	alloc  Allocator
	rec    stats.Recorder
	closed bool
}

// NewPool creates a pool and optionally preallocates its free list.
func NewPool(opts PoolOptions) (*Pool, error) {
	chunk := opts.ChunkSize
	if chunk == 0 {
		chunk = DefaultChunkSize
	}
	if chunk < MinChunkSize || chunk > MaxChunkSize {
		return nil, NewBufferError(ErrCodeInvalidChunkSize,
			fmt.Sprintf("chunk size %d outside [%d, %d]", chunk, MinChunkSize, MaxChunkSize), nil)
	}

	alloc := opts.Allocator
	if alloc == nil {
		alloc = HeapAllocator()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = stats.NewDummyRecorder()
	}

	p := &Pool{
		chunk: chunk,
		alloc: alloc,
		rec:   rec,
	}
	logger.Debug("buffer pool created, chunk size %d prealloc %d", chunk, opts.Prealloc)

	for i := 0; i < opts.Prealloc; i++ {
		b, err := p.Get()
		if err != nil {
			p.Close()
			return nil, NewBufferError(ErrCodePreallocFailed,
				GetErrorDescription(ErrCodePreallocFailed), err)
		}
		p.Put(b)
	}
	return p, nil
}

// ChunkSize returns the fixed data capacity of buffers from this pool.
func (p *Pool) ChunkSize() int {
	return p.chunk
}

// FreeCount returns the number of buffers sitting in the free list.
func (p *Pool) FreeCount() int {
	return p.nfree
}

// Get returns a logically empty buffer with the pool's fixed capacity,
// recycled from the free list when possible. An allocator failure is the
// only recoverable error; the caller should treat it as backpressure.
func (p *Pool) Get() (*Buffer, error) {
	if p.closed {
		return nil, NewBufferError(ErrCodePoolClosed, GetErrorDescription(ErrCodePoolClosed), nil)
	}

	if !p.free.Empty() {
		if p.nfree <= 0 {
			panic(fmt.Sprintf("buffer: free list count %d disagrees with non-empty list", p.nfree))
		}
		b := p.free.PopHead()
		p.nfree--
		b.checkMagic("get")
		if len(b.data) != p.chunk {
			panic(fmt.Sprintf("buffer: recycled region has capacity %d, pool chunk size %d",
				len(b.data), p.chunk))
		}
		b.reset()
		p.rec.RecordReuse()
		logger.Trace("get recycled buffer, %d free", p.nfree)
		return b, nil
	}

	region, err := p.alloc.Alloc(p.chunk)
	if err != nil {
		p.rec.RecordAllocFailure()
		return nil, NewAllocError(err)
	}
	b := &Buffer{
		data:  region,
		magic: magicTag,
	}
	p.rec.RecordAlloc(p.chunk)
	logger.Trace("get fresh buffer, chunk size %d", p.chunk)
	return b, nil
}

// Put returns a buffer to the free list for reuse. The buffer must be
// unlinked from any queue; contents are not cleared, only the next Get
// resets the cursors. Double-put and put of a still-queued buffer are
// fatal caller bugs.
func (p *Pool) Put(b *Buffer) {
	if b.queued || b.next != nil {
		panic(fmt.Sprintf("buffer: put of still-queued buffer (pos %d last %d)", b.pos, b.last))
	}
	b.checkMagic("put")
	if p.closed {
		panic("buffer: put on closed pool")
	}

	p.free.Push(b)
	p.nfree++
	p.rec.RecordPut()
	logger.Trace("put buffer len %d, %d free", b.Len(), p.nfree)
}

// Close drains the free list and releases every region back to the
// allocator. All buffers must have been returned first; any buffer still
// owned by a stream queue at this point is leaked by its owner. Closing an
// already closed (or never used) pool is a no-op.
func (p *Pool) Close() {
	for !p.free.Empty() {
		b := p.free.PopHead()
		p.nfree--
		b.checkMagic("close")
		p.alloc.Free(b.data)
		b.data = nil
		b.magic = 0
		p.rec.RecordFree()
	}
	if p.nfree != 0 {
		panic(fmt.Sprintf("buffer: free list count %d non-zero after drain", p.nfree))
	}
	if !p.closed {
		logger.Debug("buffer pool closed")
	}
	p.closed = true
}
