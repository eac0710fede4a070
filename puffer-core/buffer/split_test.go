package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stageRequest acquires a buffer, fills it with data and appends it to q.
func stageRequest(t *testing.T, pool *Pool, q *Queue, data string) *Buffer {
	t.Helper()
	b, err := pool.Get()
	require.NoError(t, err)
	b.CopyFrom([]byte(data))
	q.Append(b)
	return b
}

func TestSplitMultiGetRequest(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	b := stageRequest(t, pool, &q, "get key1 key2\r\n")

	// Split where "key2" starts, so the second half becomes its own get.
	pos := strings.Index("get key1 key2\r\n", "key2")
	nbuf, err := pool.Split(&q, pos, LiteralGet, LiteralCRLF)
	require.NoError(t, err)

	assert.Equal(t, "get key1 \r\n", string(b.Bytes()))
	assert.Equal(t, "get key2\r\n", string(nbuf.Bytes()))

	// The new buffer is handed over unqueued; the caller decides where it goes.
	assert.Equal(t, 1, q.Len())
	assert.Same(t, b, q.Tail())

	q.Remove(b)
	pool.Put(b)
	pool.Put(nbuf)
}

func TestSplitPreservesLogicalByteCount(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	data := "get alpha beta gamma\r\n"
	b := stageRequest(t, pool, &q, data)
	original := b.Len()

	pos := strings.Index(data, "gamma")
	nbuf, err := pool.Split(&q, pos, LiteralGet, LiteralCRLF)
	require.NoError(t, err)

	headLen := b.Len() - LiteralCRLF.Len()
	tailLen := nbuf.Len() - LiteralGet.Len()
	assert.Equal(t, original, headLen+tailLen)

	q.Remove(b)
	pool.Put(b)
	pool.Put(nbuf)
}

func TestSplitAtWriteCursor(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	b := stageRequest(t, pool, &q, "get key1")
	pos := b.WritePos()

	nbuf, err := pool.Split(&q, pos, LiteralGet, LiteralCRLF)
	require.NoError(t, err)

	// Nothing after the split point: the new buffer carries only framing.
	assert.Equal(t, LiteralGet.Len(), nbuf.Len())
	assert.Equal(t, "get ", string(nbuf.Bytes()))
	assert.Equal(t, "get key1\r\n", string(b.Bytes()))

	q.Remove(b)
	pool.Put(b)
	pool.Put(nbuf)
}

func TestSplitAtReadCursor(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	b := stageRequest(t, pool, &q, "key1 key2\r\n")
	pos := b.ReadPos()

	nbuf, err := pool.Split(&q, pos, LiteralGet, LiteralCRLF)
	require.NoError(t, err)

	// The whole occupied content moved; the original keeps only framing.
	assert.Equal(t, LiteralCRLF.Len(), b.Len())
	assert.Equal(t, "\r\n", string(b.Bytes()))
	assert.Equal(t, "get key1 key2\r\n", string(nbuf.Bytes()))

	q.Remove(b)
	pool.Put(b)
	pool.Put(nbuf)
}

func TestSplitRespectsReadCursor(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	b := stageRequest(t, pool, &q, "consumedget key1 key2\r\n")
	b.Skip(len("consumed"))

	pos := b.ReadPos() + strings.Index(string(b.Bytes()), "key2")
	nbuf, err := pool.Split(&q, pos, LiteralGet, LiteralCRLF)
	require.NoError(t, err)

	assert.Equal(t, "get key1 \r\n", string(b.Bytes()))
	assert.Equal(t, "get key2\r\n", string(nbuf.Bytes()))

	q.Remove(b)
	pool.Put(b)
	pool.Put(nbuf)
}

func TestSplitOutOfRangePanics(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	b := stageRequest(t, pool, &q, "get key1\r\n")

	assert.Panics(t, func() {
		_, _ = pool.Split(&q, b.WritePos()+1, LiteralGet, LiteralCRLF)
	})
	assert.Panics(t, func() {
		_, _ = pool.Split(&q, -1, LiteralGet, LiteralCRLF)
	})

	q.Remove(b)
	pool.Put(b)
}

func TestSplitEmptyQueuePanics(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	assert.Panics(t, func() {
		_, _ = pool.Split(&q, 0, LiteralGet, LiteralCRLF)
	})
}

func TestSplitAllocFailureLeavesQueueUntouched(t *testing.T) {
	alloc := &failingAllocator{remaining: 1}
	pool := newTestPool(t, PoolOptions{Allocator: alloc})
	var q Queue

	data := "get key1 key2\r\n"
	b := stageRequest(t, pool, &q, data)

	pos := strings.Index(data, "key2")
	nbuf, err := pool.Split(&q, pos, LiteralGet, LiteralCRLF)
	require.Error(t, err)
	assert.Nil(t, nbuf)
	assert.True(t, IsAllocError(err))

	// No partial mutation on failure.
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, data, string(b.Bytes()))
	assert.Equal(t, 0, b.ReadPos())
	assert.Equal(t, len(data), b.WritePos())

	q.Remove(b)
	pool.Put(b)
}

func TestSplitUsesGetsPrefix(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	data := "gets key1 key2\r\n"
	b := stageRequest(t, pool, &q, data)

	pos := strings.Index(data, "key2")
	nbuf, err := pool.Split(&q, pos, LiteralGets, LiteralCRLF)
	require.NoError(t, err)

	assert.Equal(t, "gets key1 \r\n", string(b.Bytes()))
	assert.Equal(t, "gets key2\r\n", string(nbuf.Bytes()))

	q.Remove(b)
	pool.Put(b)
	pool.Put(nbuf)
}

// Splitting right to left turns one multi-key request into one request per
// key, reusing the receive buffer for the first fragment.
func TestSplitFanOut(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	data := "get k1 k2 k3\r\n"
	b := stageRequest(t, pool, &q, data)

	posK3 := strings.Index(data, "k3")
	posK2 := strings.Index(data, "k2")

	frag3, err := pool.Split(&q, posK3, LiteralGet, LiteralCRLF)
	require.NoError(t, err)
	frag2, err := pool.Split(&q, posK2, LiteralGet, LiteralCRLF)
	require.NoError(t, err)

	assert.Equal(t, "get k1 \r\n", string(b.Bytes()))
	assert.Equal(t, "get k2 \r\n", string(frag2.Bytes()))
	assert.Equal(t, "get k3\r\n", string(frag3.Bytes()))

	q.Remove(b)
	pool.Put(b)
	pool.Put(frag2)
	pool.Put(frag3)
}

func BenchmarkSplit(b *testing.B) {
	pool, err := NewPool(PoolOptions{})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	data := []byte("get key1 key2\r\n")
	pos := 9

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf, err := pool.Get()
		if err != nil {
			b.Fatal(err)
		}
		var q Queue
		buf.CopyFrom(data)
		q.Append(buf)

		nbuf, err := pool.Split(&q, pos, LiteralGet, LiteralCRLF)
		if err != nil {
			b.Fatal(err)
		}

		q.Remove(buf)
		buf.Skip(buf.Len())
		nbuf.Skip(nbuf.Len())
		pool.Put(buf)
		pool.Put(nbuf)
	}
}
