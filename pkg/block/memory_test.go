package block_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagedb/pkg/block"
	"pagedb/pkg/page"
)

func TestMemoryProviderAllocReadWrite(t *testing.T) {
	p := block.NewMemoryProvider(64)

	id, err := p.AllocPage(64)
	require.NoError(t, err)
	require.NotZero(t, id)

	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i)
	}
	require.NoError(t, p.WritePage(id, buf))

	out := make([]byte, 64)
	require.NoError(t, p.ReadPage(id, out))
	require.Equal(t, buf, out)
}

func TestMemoryProviderUnknownBlock(t *testing.T) {
	p := block.NewMemoryProvider(64)
	buf := make([]byte, 64)
	require.Error(t, p.ReadPage(page.PageID(42), buf))
	require.Error(t, p.WritePage(page.PageID(42), buf))
}

func TestMemoryProviderFreePage(t *testing.T) {
	p := block.NewMemoryProvider(64)
	id, err := p.AllocPage(64)
	require.NoError(t, err)
	require.NoError(t, p.FreePage(id, 64))
	require.Error(t, p.ReadPage(id, make([]byte, 64)))
}
