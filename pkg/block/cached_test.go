package block_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagedb/pkg/block"
	"pagedb/pkg/page"
)

type countingMemoryProvider struct {
	*block.MemoryProvider
	reads int
}

func newCountingMemoryProvider(pageSize page.Size) *countingMemoryProvider {
	return &countingMemoryProvider{MemoryProvider: block.NewMemoryProvider(pageSize)}
}

func (c *countingMemoryProvider) ReadPage(id page.PageID, buf []byte) error {
	c.reads++
	return c.MemoryProvider.ReadPage(id, buf)
}

func TestCachedProviderServesReadsFromCache(t *testing.T) {
	inner := newCountingMemoryProvider(64)
	cached, err := block.NewCachedProvider(inner, 16, 64)
	require.NoError(t, err)
	defer cached.Close()

	id, err := cached.AllocPage(64)
	require.NoError(t, err)

	buf := make([]byte, 64)
	buf[0] = 0x7a
	require.NoError(t, cached.WritePage(id, buf))

	out := make([]byte, 64)
	require.NoError(t, cached.ReadPage(id, out))
	require.Equal(t, buf, out)
	// WritePage already populated the cache entry, so this read should
	// not have needed to go to the inner provider.
	require.Equal(t, 0, inner.reads)
}
