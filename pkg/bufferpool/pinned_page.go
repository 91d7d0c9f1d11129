package bufferpool

import "pagedb/pkg/page"

// PinnedPage is a scoped, single-release borrow of a frame. Go has no
// destructors, so unlike the move-only C++ handle this spec was
// distilled from, release is explicit: call Release exactly once when
// done. Calling Release a second time is a no-op, mirroring the
// "moved-from handle is inert" convention of the original without
// needing move semantics to express it.
type PinnedPage struct {
	mgr      *Manager
	pageID   page.PageID
	data     []byte
	dirty    bool
	released bool
}

// ID returns the page this handle is pinning.
func (p *PinnedPage) ID() page.PageID { return p.pageID }

// Data exposes the frame's raw bytes. Valid only until Release is
// called.
func (p *PinnedPage) Data() []byte { return p.data }

// Size returns the length of the frame in bytes.
func (p *PinnedPage) Size() page.Size { return page.Size(len(p.data)) }

// Dirty reports whether this handle has marked the frame dirty.
func (p *PinnedPage) Dirty() bool { return p.dirty }

// MarkDirty flags the frame as modified; the dirty bit is OR'd into the
// directory entry when the handle is released.
func (p *PinnedPage) MarkDirty() { p.dirty = true }

// Release unpins the frame, decrementing its pin count and propagating
// this handle's dirty flag into the directory entry. Safe to call more
// than once.
func (p *PinnedPage) Release() {
	if p.released {
		return
	}
	p.mgr.unpin(p.pageID, p.dirty)
	p.released = true
}
