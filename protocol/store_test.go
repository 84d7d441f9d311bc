package protocol

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFIFO(t *testing.T) {
	s := NewStore(16, OverflowBackpressure)
	for i := uint32(0); i < 10; i++ {
		require.NoError(t, s.Push(Packet{Kind: KindRotation, Seq: i}))
	}
	for i := uint32(0); i < 10; i++ {
		p := s.Next()
		assert.Equal(t, i, p.Seq)
	}
}

func TestStoreFullBackpressure(t *testing.T) {
	s := NewStore(2, OverflowBackpressure)
	require.NoError(t, s.Push(Packet{Seq: 1}))
	require.NoError(t, s.Push(Packet{Seq: 2}))
	err := s.Push(Packet{Seq: 3})
	require.ErrorIs(t, err, ErrStoreFull)

	// Queued entries survive the rejected push intact.
	assert.Equal(t, uint32(1), s.Next().Seq)
	assert.Equal(t, uint32(2), s.Next().Seq)
	_, ok := s.TryNext()
	assert.False(t, ok)
}

func TestStoreFullDropPolicy(t *testing.T) {
	s := NewStore(1, OverflowDrop)
	require.NoError(t, s.Push(Packet{Seq: 1}))
	require.NoError(t, s.Push(Packet{Seq: 2})) // silently dropped
	require.NoError(t, s.Push(Packet{Seq: 3})) // dropped too
	assert.Equal(t, uint64(2), s.Dropped())
	assert.Equal(t, uint32(1), s.Next().Seq)
	_, ok := s.TryNext()
	assert.False(t, ok)
}

func TestStoreBackpressureCountsNoDrops(t *testing.T) {
	s := NewStore(1, OverflowBackpressure)
	require.NoError(t, s.Push(Packet{Seq: 1}))
	require.ErrorIs(t, s.Push(Packet{Seq: 2}), ErrStoreFull)
	assert.Zero(t, s.Dropped())
}

func TestStoreInvalidPolicyFallsBack(t *testing.T) {
	s := NewStore(1, OverflowPolicy("overwrite-oldest"))
	require.NoError(t, s.Push(Packet{Seq: 1}))
	assert.ErrorIs(t, s.Push(Packet{Seq: 2}), ErrStoreFull)
}

func TestStoreZeroDepth(t *testing.T) {
	s := NewStore(0, OverflowBackpressure)
	assert.Equal(t, 1, s.Cap())
}

// Two producers pushing concurrently must each keep their own enqueue order,
// whatever the interleaving between them.
func TestStorePerProducerOrder(t *testing.T) {
	const n = 500
	s := NewStore(2*n, OverflowBackpressure)

	var wg sync.WaitGroup
	for _, name := range []string{"sensor", "proto"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := uint32(0); i < n; i++ {
				for s.Push(Packet{Producer: name, Seq: i}) != nil {
				}
			}
		}(name)
	}
	wg.Wait()

	next := map[string]uint32{}
	for {
		p, ok := s.TryNext()
		if !ok {
			break
		}
		require.Equal(t, next[p.Producer], p.Seq, "producer %s out of order", p.Producer)
		next[p.Producer]++
	}
	assert.Equal(t, uint32(n), next["sensor"])
	assert.Equal(t, uint32(n), next["proto"])
}
