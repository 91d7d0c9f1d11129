// Package page defines the on-disk layout of a single fixed-size page:
// a record area growing from byte 0, a slot directory growing backward
// from the footer, and the footer itself.
package page

import "encoding/binary"

// PageID identifies a logical page in a Block Provider's address space.
// Zero is reserved as the NULL sentinel.
type PageID uint64

// Size is used uniformly for page sizes, offsets, record sizes and slot
// indices.
type Size uint64

// SizeBytes is the encoded width of a Size field on the wire.
const SizeBytes = 8

// Footer sits in the final FooterBytes of every page.
type Footer struct {
	Records   Size
	FreeSpace Size
	PrevPage  PageID
	NextPage  PageID
}

// FooterBytes is the encoded width of a Footer: four uint64 fields.
const FooterBytes = 4 * SizeBytes

// DataSize returns the number of bytes available to records and the slot
// directory on a page of the given total size.
func DataSize(pageSize Size) Size {
	return pageSize - FooterBytes
}

func footerStart(buf []byte) int {
	return len(buf) - FooterBytes
}

// ReadFooter decodes the footer at the tail of buf.
func ReadFooter(buf []byte) Footer {
	b := buf[footerStart(buf):]
	return Footer{
		Records:   Size(binary.LittleEndian.Uint64(b[0:8])),
		FreeSpace: Size(binary.LittleEndian.Uint64(b[8:16])),
		PrevPage:  PageID(binary.LittleEndian.Uint64(b[16:24])),
		NextPage:  PageID(binary.LittleEndian.Uint64(b[24:32])),
	}
}

// WriteFooter encodes f at the tail of buf.
func WriteFooter(buf []byte, f Footer) {
	b := buf[footerStart(buf):]
	binary.LittleEndian.PutUint64(b[0:8], uint64(f.Records))
	binary.LittleEndian.PutUint64(b[8:16], uint64(f.FreeSpace))
	binary.LittleEndian.PutUint64(b[16:24], uint64(f.PrevPage))
	binary.LittleEndian.PutUint64(b[24:32], uint64(f.NextPage))
}

// slotAddr returns the byte offset of slot index's size field. Slots grow
// backward from the footer in insertion order: slot 0 is written at
// footerStart-SizeBytes, slot 1 at footerStart-2*SizeBytes, and so on —
// the same address add_record reserves for it, so readers never need to
// guess which direction the directory "really" grows.
func slotAddr(buf []byte, index Size) int {
	return footerStart(buf) - int(index+1)*SizeBytes
}

// SlotSize reads the stored byte length of slot index.
func SlotSize(buf []byte, index Size) Size {
	off := slotAddr(buf, index)
	return Size(binary.LittleEndian.Uint64(buf[off : off+SizeBytes]))
}

// SetSlotSize writes the byte length of slot index.
func SetSlotSize(buf []byte, index Size, size Size) {
	off := slotAddr(buf, index)
	binary.LittleEndian.PutUint64(buf[off:off+SizeBytes], uint64(size))
}

// ReadSize decodes a Size value from the start of buf. Used by callers
// that lay out their own size-prefixed tables (such as a record's field
// table) outside the page-level slot directory.
func ReadSize(buf []byte) Size {
	return Size(binary.LittleEndian.Uint64(buf[:SizeBytes]))
}

// WriteSize encodes v at the start of buf.
func WriteSize(buf []byte, v Size) {
	binary.LittleEndian.PutUint64(buf[:SizeBytes], uint64(v))
}

// RecordOffset returns the byte offset of the record stored at slot index,
// derived by summing the sizes of every slot written before it. Records
// are packed from page start in insertion order, so slot 0's record
// starts at offset 0 and slot k's starts just past slot k-1's record.
func RecordOffset(buf []byte, index Size) Size {
	var offset Size
	for i := Size(0); i < index; i++ {
		offset += SlotSize(buf, i)
	}
	return offset
}
