package page_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagedb/pkg/page"
)

func TestFooterRoundTrip(t *testing.T) {
	buf := make([]byte, 128)
	f := page.Footer{Records: 3, FreeSpace: 40, PrevPage: 0, NextPage: 9}
	page.WriteFooter(buf, f)

	got := page.ReadFooter(buf)
	require.Equal(t, f, got)
}

func TestSlotAddressingDescendsFromFooter(t *testing.T) {
	buf := make([]byte, 256)
	page.SetSlotSize(buf, 0, 5)
	page.SetSlotSize(buf, 1, 7)
	page.SetSlotSize(buf, 2, 3)

	require.Equal(t, page.Size(5), page.SlotSize(buf, 0))
	require.Equal(t, page.Size(7), page.SlotSize(buf, 1))
	require.Equal(t, page.Size(3), page.SlotSize(buf, 2))

	require.Equal(t, page.Size(0), page.RecordOffset(buf, 0))
	require.Equal(t, page.Size(5), page.RecordOffset(buf, 1))
	require.Equal(t, page.Size(12), page.RecordOffset(buf, 2))
}

func TestDataSize(t *testing.T) {
	require.Equal(t, page.Size(4096-page.FooterBytes), page.DataSize(4096))
}
