package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueZeroValueIsEmpty(t *testing.T) {
	var q Queue
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Head())
	assert.Nil(t, q.Tail())
	assert.Nil(t, q.PopHead())
}

func TestQueueAppendPreservesOrder(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	var bufs []*Buffer
	for i := 0; i < 3; i++ {
		b, err := pool.Get()
		require.NoError(t, err)
		bufs = append(bufs, b)
		q.Append(b)
	}

	assert.Equal(t, 3, q.Len())
	assert.Same(t, bufs[0], q.Head())
	assert.Same(t, bufs[2], q.Tail())

	for i := 0; i < 3; i++ {
		b := q.PopHead()
		assert.Same(t, bufs[i], b)
		pool.Put(b)
	}
	assert.True(t, q.Empty())
}

func TestQueueRemoveFromMiddle(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	var bufs []*Buffer
	for i := 0; i < 3; i++ {
		b, err := pool.Get()
		require.NoError(t, err)
		bufs = append(bufs, b)
		q.Append(b)
	}

	q.Remove(bufs[1])
	assert.Equal(t, 2, q.Len())
	assert.Same(t, bufs[0], q.Head())
	assert.Same(t, bufs[2], q.Tail())
	pool.Put(bufs[1])

	// Removing the tail must rewire the tail pointer.
	q.Remove(bufs[2])
	assert.Same(t, bufs[0], q.Tail())
	pool.Put(bufs[2])

	q.Remove(bufs[0])
	assert.True(t, q.Empty())
	pool.Put(bufs[0])
}

func TestQueueAppendQueuedBufferPanics(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q, q2 Queue

	b, err := pool.Get()
	require.NoError(t, err)
	q.Append(b)

	assert.Panics(t, func() { q2.Append(b) })
	assert.Panics(t, func() { q.Append(b) })

	q.Remove(b)
	pool.Put(b)
}

func TestQueueRemoveForeignBufferPanics(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q, q2 Queue

	b, err := pool.Get()
	require.NoError(t, err)
	b2, err := pool.Get()
	require.NoError(t, err)

	q.Append(b)
	q2.Append(b2)

	assert.Panics(t, func() { q.Remove(b2) })

	q.Remove(b)
	q2.Remove(b2)
	pool.Put(b)
	pool.Put(b2)
}

func TestQueuedBufferCannotBeReleased(t *testing.T) {
	pool := newTestPool(t, PoolOptions{})
	var q Queue

	b, err := pool.Get()
	require.NoError(t, err)
	q.Append(b)

	assert.Panics(t, func() { pool.Put(b) })

	q.Remove(b)
	pool.Put(b)
}
