// Package recordstore layers variable-length record storage on top of a
// bufferpool.Manager: it packs records into a page's slotted layout,
// chains pages together as a page fills up, and issues opaque record
// handles. Every function here is stateless over the Manager and the
// pinned pages it hands out — the package holds no state of its own.
package recordstore

import (
	"github.com/pkg/errors"

	"pagedb/pkg/bufferpool"
	"pagedb/pkg/dberr"
	"pagedb/pkg/page"
)

// RecordHandle locates a record: the page it lives on, its slot
// ordinal, its byte offset within the page, and its byte length. Stable
// only as long as the containing page is never compacted — this core
// never compacts, since deletion is unsupported.
type RecordHandle struct {
	PageID    page.PageID
	SlotIndex page.Size
	Offset    page.Size
	Size      page.Size
}

// FieldHandle locates a field within an already-written record body,
// for a caller-defined record-internal layout mirroring the page's own
// slotted scheme.
type FieldHandle struct {
	PageID     page.PageID
	SlotIndex  page.Size
	FieldIndex page.Size
	Offset     page.Size
	Size       page.Size
}

// AddRecord appends data to the page chain starting at pageID, pinning
// and following next_page links until it finds (or creates) a page with
// enough free space, copying data in, and returning a handle to it.
//
// Spanning a single record across multiple pages is not supported:
// AddRecord rejects any record that could never fit an empty page,
// before pinning anything.
func AddRecord(mgr *bufferpool.Manager, pageID page.PageID, data []byte) (RecordHandle, error) {
	recordSize := page.Size(len(data))
	if mgr.PageDataSize() < recordSize+page.SizeBytes {
		return RecordHandle{}, dberr.New(dberr.RecordTooLarge, "record does not fit an empty page")
	}

	pp, err := mgr.PinPage(pageID)
	if err != nil {
		return RecordHandle{}, err
	}

	for {
		buf := pp.Data()
		footer := page.ReadFooter(buf)

		if footer.FreeSpace >= recordSize+page.SizeBytes {
			slotIndex := footer.Records
			slotDirStart := page.Size(len(buf)) - page.FooterBytes - slotIndex*page.SizeBytes
			dataStart := slotDirStart - footer.FreeSpace

			copy(buf[dataStart:dataStart+recordSize], data)
			page.SetSlotSize(buf, slotIndex, recordSize)

			footer.Records++
			footer.FreeSpace -= recordSize + page.SizeBytes
			page.WriteFooter(buf, footer)
			pp.MarkDirty()

			handle := RecordHandle{
				PageID:    pp.ID(),
				SlotIndex: slotIndex,
				Offset:    dataStart,
				Size:      recordSize,
			}
			pp.Release()
			return handle, nil
		}

		if footer.NextPage == 0 {
			next, err := mgr.NewPinnedPage()
			if err != nil {
				pp.Release()
				return RecordHandle{}, err
			}
			footer.NextPage = next.ID()
			page.WriteFooter(buf, footer)
			pp.MarkDirty()
			pp.Release()
			pp = next
			continue
		}

		nextID := footer.NextPage
		pp.Release()
		pp, err = mgr.PinPage(nextID)
		if err != nil {
			return RecordHandle{}, err
		}
	}
}

// GetRecord looks up slotIndex's location on an already-pinned page
// without copying any record bytes.
func GetRecord(pp *bufferpool.PinnedPage, slotIndex page.Size) (RecordHandle, error) {
	buf := pp.Data()
	footer := page.ReadFooter(buf)
	if slotIndex >= footer.Records {
		return RecordHandle{}, dberr.New(dberr.SlotOutOfRange, "slot_index out of range")
	}

	offset := page.RecordOffset(buf, slotIndex)
	size := page.SlotSize(buf, slotIndex)
	return RecordHandle{PageID: pp.ID(), SlotIndex: slotIndex, Offset: offset, Size: size}, nil
}

// ReadRecordByHandle copies min(len(out), handle.Size) bytes from the
// record handle names into out. Truncation (out shorter than the
// record) is silent, matching the core's minimal error surface.
func ReadRecordByHandle(pp *bufferpool.PinnedPage, handle RecordHandle, out []byte) error {
	if handle.PageID != pp.ID() {
		return dberr.New(dberr.InvalidArgument, "handle does not belong to this page")
	}
	buf := pp.Data()
	n := handle.Size
	if page.Size(len(out)) < n {
		n = page.Size(len(out))
	}
	copy(out[:n], buf[handle.Offset:handle.Offset+n])
	return nil
}

// ReadRecordBySlot combines GetRecord with the copy step of
// ReadRecordByHandle, returning the resolved handle on success.
func ReadRecordBySlot(pp *bufferpool.PinnedPage, slotIndex page.Size, out []byte) (RecordHandle, error) {
	handle, err := GetRecord(pp, slotIndex)
	if err != nil {
		return RecordHandle{}, err
	}
	if err := ReadRecordByHandle(pp, handle, out); err != nil {
		return RecordHandle{}, errors.WithStack(err)
	}
	return handle, nil
}

// GetField interprets the bytes at record's offset as a size-prefix
// table of fieldCount entries followed by field bytes, mirroring the
// page's own slotted layout, and returns the location of fieldIndex
// within it. Encoding fields into a record body is the caller's
// responsibility; this only interprets an already-written layout.
func GetField(pp *bufferpool.PinnedPage, record RecordHandle, fieldIndex, fieldCount page.Size) (FieldHandle, error) {
	if fieldIndex >= fieldCount {
		return FieldHandle{}, dberr.New(dberr.SlotOutOfRange, "field_index out of range")
	}

	buf := pp.Data()
	table := buf[record.Offset:]

	// offset is absolute within the page, like RecordHandle.Offset:
	// past the record's own start, past the size-prefix table, past
	// every preceding field's bytes.
	offset := record.Offset + fieldCount*page.SizeBytes
	sizeOff := table
	for i := page.Size(0); i < fieldIndex; i++ {
		offset += page.ReadSize(sizeOff)
		sizeOff = sizeOff[page.SizeBytes:]
	}
	size := page.ReadSize(sizeOff)

	return FieldHandle{
		PageID:     pp.ID(),
		SlotIndex:  record.SlotIndex,
		FieldIndex: fieldIndex,
		Offset:     offset,
		Size:       size,
	}, nil
}
