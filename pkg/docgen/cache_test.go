package docgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingGenerator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeGenerator{failFor: map[string]bool{"broken": true}}
	gen, err := NewCachingGenerator(fake, 8)
	require.NoError(t, err)

	req := DocRequest{Symbol: "views.login", URL: "login/", Body: "def login(r):\n    pass"}

	first, err := gen.GenerateDocumentation(ctx, req)
	require.NoError(t, err)
	second, err := gen.GenerateDocumentation(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.docCalls)

	req.Body = "def login(r):\n    return 1"
	_, err = gen.GenerateDocumentation(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.docCalls)

	// Conversions share the cache but not the keys.
	_, err = gen.ConvertCode(ctx, "x = 1", "Java")
	require.NoError(t, err)
	_, err = gen.ConvertCode(ctx, "x = 1", "Java")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.cvtCalls)
	assert.Equal(t, 3, gen.Len())

	gen.Purge()
	assert.Zero(t, gen.Len())
}

func TestCachingGenerator_FailuresNotCached(t *testing.T) {
	t.Parallel()

	fake := &fakeGenerator{failFor: map[string]bool{"broken": true}}
	gen, err := NewCachingGenerator(fake, 0)
	require.NoError(t, err)

	for range 2 {
		_, err := gen.GenerateDocumentation(context.Background(), DocRequest{Symbol: "broken"})
		assert.True(t, IsServiceError(err))
	}
	assert.Equal(t, 2, fake.docCalls)
	assert.Zero(t, gen.Len())
}

func TestCachingGenerator_Eviction(t *testing.T) {
	t.Parallel()

	fake := &fakeGenerator{}
	gen, err := NewCachingGenerator(fake, 1)
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = gen.ConvertCode(ctx, "a", "Go")
	_, _ = gen.ConvertCode(ctx, "b", "Go")
	_, _ = gen.ConvertCode(ctx, "a", "Go")

	assert.Equal(t, 3, fake.cvtCalls)
	assert.Equal(t, 1, gen.Len())
}

func TestCacheKey_Separated(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, cacheKey("ab", "c"), cacheKey("a", "bc"))
	assert.Equal(t, cacheKey("a", "b"), cacheKey("a", "b"))
}
