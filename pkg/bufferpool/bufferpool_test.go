package bufferpool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagedb/pkg/block"
	"pagedb/pkg/bufferpool"
	"pagedb/pkg/page"
)

// countingProvider wraps a block.MemoryProvider and counts calls, so
// tests can assert the core never touches the provider when it
// shouldn't (e.g. on an empty manager).
type countingProvider struct {
	*block.MemoryProvider
	reads, writes, allocs int
}

func newCountingProvider(pageSize page.Size) *countingProvider {
	return &countingProvider{MemoryProvider: block.NewMemoryProvider(pageSize)}
}

func (c *countingProvider) ReadPage(id page.PageID, buf []byte) error {
	c.reads++
	return c.MemoryProvider.ReadPage(id, buf)
}

func (c *countingProvider) WritePage(id page.PageID, buf []byte) error {
	c.writes++
	return c.MemoryProvider.WritePage(id, buf)
}

func (c *countingProvider) AllocPage(n page.Size) (page.PageID, error) {
	c.allocs++
	return c.MemoryProvider.AllocPage(n)
}

func TestEmptyManagerFlushFails(t *testing.T) {
	provider := newCountingProvider(128)
	mgr, err := bufferpool.NewManager(1, 128, provider)
	require.NoError(t, err)

	require.Error(t, mgr.FlushPage(0))
	require.Error(t, mgr.FlushPage(1))
	require.Zero(t, provider.reads)
	require.Zero(t, provider.writes)
	require.Zero(t, provider.allocs)
}

func TestAllocThenFlushWritesOnce(t *testing.T) {
	provider := newCountingProvider(128)
	mgr, err := bufferpool.NewManager(3, 128, provider)
	require.NoError(t, err)

	pp, err := mgr.NewPinnedPage()
	require.NoError(t, err)
	require.True(t, pp.Dirty())
	id := pp.ID()
	pp.Release()

	require.NoError(t, mgr.FlushPage(id))
	require.Equal(t, 1, provider.writes)

	// Flushing again finds nothing dirty to write.
	require.Error(t, mgr.FlushPage(id))
	require.Equal(t, 1, provider.writes)
}

func TestPoolFullPin(t *testing.T) {
	provider := newCountingProvider(128)
	mgr, err := bufferpool.NewManager(1, 128, provider)
	require.NoError(t, err)

	first, err := mgr.NewPinnedPage()
	require.NoError(t, err)

	// A second pin of the same page shares the one frame.
	second, err := mgr.PinPage(first.ID())
	require.NoError(t, err)

	// Allocating a distinct page has no free frame available.
	_, err = mgr.NewPinnedPage()
	require.Error(t, err)

	first.Release()
	second.Release()
}

func TestReadMissRollsBackOnProviderError(t *testing.T) {
	provider := newCountingProvider(128)
	mgr, err := bufferpool.NewManager(1, 128, provider)
	require.NoError(t, err)

	// page id 99 was never allocated through the provider, so reading
	// it fails; the reserved directory slot must not leak.
	_, err = mgr.PinPage(99)
	require.Error(t, err)

	// The slot that would have leaked must still be usable.
	pp, err := mgr.NewPinnedPage()
	require.NoError(t, err)
	pp.Release()
}

func TestFlushFreePagesClearsDirty(t *testing.T) {
	provider := newCountingProvider(128)
	mgr, err := bufferpool.NewManager(2, 128, provider)
	require.NoError(t, err)

	a, err := mgr.NewPinnedPage()
	require.NoError(t, err)
	a.Release()
	b, err := mgr.NewPinnedPage()
	require.NoError(t, err)
	b.Release()

	require.NoError(t, mgr.FlushFreePages())
	require.Equal(t, 2, provider.writes)

	// Nothing left dirty, so flushing again touches the provider no
	// further.
	require.NoError(t, mgr.FlushFreePages())
	require.Equal(t, 2, provider.writes)
}

func TestCloseSwallowsWriteErrors(t *testing.T) {
	provider := newCountingProvider(128)
	mgr, err := bufferpool.NewManager(1, 128, provider)
	require.NoError(t, err)

	pp, err := mgr.NewPinnedPage()
	require.NoError(t, err)
	pp.Release()

	// Freeing the block makes the teardown write-back fail.
	require.NoError(t, provider.FreePage(pp.ID(), 128))

	require.NoError(t, mgr.Close())
	require.Equal(t, 1, provider.writes)
}
