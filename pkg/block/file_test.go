package block_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pagedb/pkg/block"
)

func TestFileProviderAllocWriteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	fp, err := block.OpenFileProvider(path, 128)
	require.NoError(t, err)

	id, err := fp.AllocPage(128)
	require.NoError(t, err)

	buf := make([]byte, 128)
	for i := range buf {
		buf[i] = byte(i % 256)
	}
	require.NoError(t, fp.WritePage(id, buf))
	require.NoError(t, fp.Close())

	reopened, err := block.OpenFileProvider(path, 128)
	require.NoError(t, err)
	defer reopened.Close()

	out := make([]byte, 128)
	require.NoError(t, reopened.ReadPage(id, out))
	require.Equal(t, buf, out)
}

func TestFileProviderReadOfUnwrittenAllocIsZeroed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	fp, err := block.OpenFileProvider(path, 64)
	require.NoError(t, err)
	defer fp.Close()

	id, err := fp.AllocPage(64)
	require.NoError(t, err)

	out := make([]byte, 64)
	require.NoError(t, fp.ReadPage(id, out))
	for _, b := range out {
		require.Zero(t, b)
	}
}
