// Package bufferpool implements the Page Manager: a fixed-capacity array
// of page-sized frames, a directory tracking which logical page occupies
// each frame, and the pin/unpin/flush/evict lifecycle built on top of a
// block.Provider.
//
// The manager is single-threaded by design — no mutex guards any of its
// state. Callers that need concurrent access must serialize it
// themselves; the core makes no internal attempt to.
package bufferpool

import (
	"go.uber.org/zap"

	"pagedb/pkg/block"
	"pagedb/pkg/dberr"
	"pagedb/pkg/logging"
	"pagedb/pkg/metrics"
	"pagedb/pkg/page"
)

type dirEntry struct {
	pageID    page.PageID
	poolIndex int
	pinCount  int
	dirty     bool
}

// Manager is the Page Manager: pin/unpin API, demand-load on miss,
// eviction of unpinned frames with write-back, allocation of fresh
// pages, and flush operations.
type Manager struct {
	pageSize  page.Size
	provider  block.Provider
	pool      []byte
	directory []dirEntry

	log     *zap.Logger
	metrics *metrics.Registry
}

// Option customizes a Manager at construction time.
type Option func(*Manager)

// WithLogger overrides the package-level logger for this Manager.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithMetrics attaches a metrics.Registry to this Manager.
func WithMetrics(r *metrics.Registry) Option {
	return func(m *Manager) { m.metrics = r }
}

// NewManager constructs a Page Manager with the given frame count, page
// size, and backing provider. It fails if page_size leaves no room for
// even a single record plus its slot.
func NewManager(poolCapacity int, pageSize page.Size, provider block.Provider, opts ...Option) (*Manager, error) {
	if pageSize <= page.Size(page.FooterBytes+page.SizeBytes) {
		return nil, dberr.New(dberr.InvalidArgument, "page_size too small for footer and one slot")
	}
	if poolCapacity <= 0 {
		return nil, dberr.New(dberr.InvalidArgument, "pool_capacity must be positive")
	}

	directory := make([]dirEntry, poolCapacity)
	for i := range directory {
		directory[i].poolIndex = i
	}

	m := &Manager{
		pageSize:  pageSize,
		provider:  provider,
		pool:      make([]byte, int(pageSize)*poolCapacity),
		directory: directory,
		log:       logging.L(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// PageSize returns the fixed size of every frame this manager holds.
func (m *Manager) PageSize() page.Size { return m.pageSize }

// PageDataSize returns the bytes available to records and the slot
// directory on a page, i.e. PageSize minus the footer.
func (m *Manager) PageDataSize() page.Size { return page.DataSize(m.pageSize) }

func (m *Manager) frame(poolIndex int) []byte {
	start := poolIndex * int(m.pageSize)
	return m.pool[start : start+int(m.pageSize)]
}

// PinPage returns a scoped handle to the requested page, loading it from
// the Block Provider on a miss. The returned PinnedPage must be released
// exactly once.
func (m *Manager) PinPage(id page.PageID) (*PinnedPage, error) {
	for i := range m.directory {
		if m.directory[i].pageID == id {
			m.directory[i].pinCount++
			m.recordPin(true)
			return m.handle(id, m.directory[i].poolIndex), nil
		}
	}

	idx, err := m.makeDirEntry()
	if err != nil {
		m.recordPin(false)
		return nil, err
	}

	m.directory[idx].pageID = id
	m.directory[idx].pinCount = 1

	frame := m.frame(m.directory[idx].poolIndex)
	if err := m.provider.ReadPage(id, frame); err != nil {
		// Read-miss rollback: the reservation must not leak a wedged
		// entry pinned to a page whose bytes were never loaded.
		m.directory[idx] = dirEntry{poolIndex: m.directory[idx].poolIndex}
		m.recordPin(false)
		return nil, dberr.Wrap(err, dberr.ProviderIOError, "read_page failed")
	}

	m.rotateToEnd(idx)
	m.recordPin(false)
	m.log.Debug("page pool miss", zap.Uint64("page_id", uint64(id)))
	return m.handle(id, m.directory[len(m.directory)-1].poolIndex), nil
}

// NewPinnedPage allocates a fresh page via the Block Provider, zeroes its
// frame, writes an initial empty footer, and returns it already pinned
// and marked dirty.
func (m *Manager) NewPinnedPage() (*PinnedPage, error) {
	idx, err := m.makeDirEntry()
	if err != nil {
		return nil, err
	}

	poolIndex := m.directory[idx].poolIndex
	id, err := m.provider.AllocPage(m.pageSize)
	if err != nil {
		m.directory[idx] = dirEntry{poolIndex: poolIndex}
		return nil, dberr.Wrap(err, dberr.ProviderIOError, "alloc_page failed")
	}

	m.directory[idx].pageID = id
	m.directory[idx].pinCount = 1
	m.directory[idx].dirty = true

	frame := m.frame(poolIndex)
	for i := range frame {
		frame[i] = 0
	}
	page.WriteFooter(frame, page.Footer{
		Records:   0,
		FreeSpace: page.DataSize(m.pageSize),
	})

	m.rotateToEnd(idx)
	pp := m.handle(id, poolIndex)
	pp.dirty = true
	return pp, nil
}

// FlushPage writes the page back to the provider if an unpinned, dirty
// directory entry matches id. Clears dirty iff the write succeeds.
func (m *Manager) FlushPage(id page.PageID) error {
	for i := range m.directory {
		e := &m.directory[i]
		if e.pageID == id && e.pinCount == 0 && e.dirty {
			frame := m.frame(e.poolIndex)
			if err := m.provider.WritePage(id, frame); err != nil {
				return dberr.Wrap(err, dberr.ProviderIOError, "write_page failed")
			}
			e.dirty = false
			if m.metrics != nil {
				m.metrics.Flushes.Inc()
			}
			return nil
		}
	}
	return dberr.New(dberr.PageNotPresent, "no unpinned dirty entry for page")
}

// FlushFreePages writes back every unpinned dirty entry, stopping and
// returning the first error encountered.
func (m *Manager) FlushFreePages() error {
	for i := range m.directory {
		e := &m.directory[i]
		if e.pinCount == 0 && e.dirty {
			frame := m.frame(e.poolIndex)
			if err := m.provider.WritePage(e.pageID, frame); err != nil {
				return dberr.Wrap(err, dberr.ProviderIOError, "write_page failed")
			}
			e.dirty = false
			if m.metrics != nil {
				m.metrics.Flushes.Inc()
			}
		}
	}
	return nil
}

// Close flushes every dirty frame regardless of pin count, exactly as
// the teardown path of the original design does. Write errors here are
// logged, not returned — there is no caller left to hand them to.
func (m *Manager) Close() error {
	for i := range m.directory {
		e := &m.directory[i]
		if e.dirty {
			frame := m.frame(e.poolIndex)
			if err := m.provider.WritePage(e.pageID, frame); err != nil {
				m.log.Warn("teardown flush failed",
					zap.Uint64("page_id", uint64(e.pageID)), zap.Error(err))
				continue
			}
			e.dirty = false
			if m.metrics != nil {
				m.metrics.Flushes.Inc()
			}
		}
	}
	return nil
}

// makeDirEntry scans for the first unpinned entry, flushing it if dirty,
// and reserves it (pin_count=1, page_id=0 placeholder) for the caller to
// finish populating.
func (m *Manager) makeDirEntry() (int, error) {
	for i := range m.directory {
		e := &m.directory[i]
		if e.pinCount != 0 {
			continue
		}
		if e.dirty {
			frame := m.frame(e.poolIndex)
			if err := m.provider.WritePage(e.pageID, frame); err != nil {
				return 0, dberr.Wrap(err, dberr.ProviderIOError, "write_page failed during eviction")
			}
			e.dirty = false
			if m.metrics != nil {
				m.metrics.Flushes.Inc()
			}
		}
		if e.pageID != 0 && m.metrics != nil {
			m.metrics.Evictions.Inc()
		}
		e.pageID = 0
		e.pinCount = 1
		return i, nil
	}
	if m.metrics != nil {
		m.metrics.PoolFull.Inc()
	}
	return 0, dberr.New(dberr.PoolFull, "every frame is pinned")
}

// rotateToEnd moves the entry at index i to the back of the directory,
// the MRU-to-back heuristic: the frame that was least recently
// loaded/pinned sits nearest the front and is the first candidate
// make_dir_entry reuses.
func (m *Manager) rotateToEnd(i int) {
	e := m.directory[i]
	copy(m.directory[i:], m.directory[i+1:])
	m.directory[len(m.directory)-1] = e
}

func (m *Manager) handle(id page.PageID, poolIndex int) *PinnedPage {
	return &PinnedPage{
		mgr:    m,
		pageID: id,
		data:   m.frame(poolIndex),
	}
}

// unpin decrements pin_count for id and ORs dirty into the directory
// entry's dirty bit.
func (m *Manager) unpin(id page.PageID, dirty bool) {
	for i := range m.directory {
		if m.directory[i].pageID == id {
			if dirty {
				m.directory[i].dirty = true
			}
			if m.directory[i].pinCount != 0 {
				m.directory[i].pinCount--
			}
			return
		}
	}
}

func (m *Manager) recordPin(hit bool) {
	if m.metrics == nil {
		return
	}
	if hit {
		m.metrics.Pins.WithLabelValues("hit").Inc()
	} else {
		m.metrics.Pins.WithLabelValues("miss").Inc()
	}
}
