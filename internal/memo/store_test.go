package memo

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenectx/internal/evalctx"
	"github.com/roach88/scenectx/internal/testutil"
	"github.com/roach88/scenectx/internal/value"
)

func TestWithStore_WritesThrough(t *testing.T) {
	s := newTestStore(t)
	clock := testutil.NewDeterministicClock()
	cache := newTestCache(t, WithStore(s), WithClock(clock))
	ctx := context.Background()

	c := evalctx.New()
	c.MustSet("shot", "sh010")
	var calls atomic.Int32

	_, err := cache.Compute(ctx, c, "path", pathNode(&calls))
	require.NoError(t, err)
	c.SetFrame(2)
	_, err = cache.Compute(ctx, c, "path", pathNode(&calls))
	require.NoError(t, err)

	results, err := s.ListResults(ctx, "path")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, int64(1), results[0].Seq)
	assert.Equal(t, int64(2), results[1].Seq)
	assert.Equal(t, "run-1", results[0].RunID)
	assert.Equal(t, c.Hash(), results[1].CacheKey)
	assert.Equal(t, value.String("/shots/sh010/beauty.0002.exr"), results[1].Value)
}

func TestWithStore_LoadsBeforeComputing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	var calls atomic.Int32

	c := evalctx.New()
	c.MustSet("shot", "sh030")

	first := newTestCache(t, WithStore(s))
	_, err := first.Compute(ctx, c, "path", pathNode(&calls))
	require.NoError(t, err)

	// A new cache over the same store does not recompute
	second := newTestCache(t, WithStore(s))
	v, err := second.Compute(ctx, c.Copy(), "path", pathNode(&calls))
	require.NoError(t, err)

	assert.Equal(t, value.String("/shots/sh030/beauty.0001.exr"), v)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int64(1), second.Stats().Loads)
	assert.Equal(t, int64(0), second.Stats().Misses)
}

func TestWithStore_ClockResumesAfterStoredSeq(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := newTestCache(t, WithStore(s))
	for _, frame := range []float64{1, 2, 3} {
		c := evalctx.New()
		c.SetFrame(frame)
		_, err := first.Compute(ctx, c, "n", constant(value.Float(frame)))
		require.NoError(t, err)
	}

	second := newTestCache(t, WithStore(s))
	c := evalctx.New()
	c.SetFrame(4)
	_, err := second.Compute(ctx, c, "n", constant(value.Float(4)))
	require.NoError(t, err)

	seq, err := s.MaxSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), seq)
}

func TestCompute_StringsKeyedByteExact(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	node := func(ctx context.Context, ec *evalctx.Context) (value.Value, error) {
		return value.String(ec.Substitute("$s")), nil
	}

	for _, s := range []string{"\xff", "\xfe", "\u00e9", "e\u0301"} {
		c := evalctx.New()
		c.MustSet("s", s)
		v, err := cache.Compute(ctx, c, "sub", node)
		require.NoError(t, err)
		assert.Equal(t, value.String(s), v)
	}
	assert.Equal(t, 4, cache.Len())
}

func TestWithStore_StoredStringsAreLossless(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	node := func(ctx context.Context, ec *evalctx.Context) (value.Value, error) {
		return value.String(ec.Substitute("$s")), nil
	}

	for _, str := range []string{"e\u0301", "a\xffb"} {
		c := evalctx.New()
		c.MustSet("s", str)

		computed, err := newTestCache(t, WithStore(s)).Compute(ctx, c, "sub", node)
		require.NoError(t, err)

		second := newTestCache(t, WithStore(s))
		loaded, err := second.Compute(ctx, c.Copy(), "sub", node)
		require.NoError(t, err)

		assert.Equal(t, int64(1), second.Stats().Loads)
		assert.Equal(t, computed, loaded)
		assert.Equal(t, value.String(str), loaded)
	}
}
