package block

import "pagedb/pkg/page"

// MemoryProvider is a backing store that lives entirely in RAM. It is
// useful for tests and for the demo CLI's "--ephemeral" mode.
type MemoryProvider struct {
	pageSize page.Size
	nextID   page.PageID
	blocks   map[page.PageID][]byte
}

// NewMemoryProvider builds a MemoryProvider for blocks of pageSize bytes.
func NewMemoryProvider(pageSize page.Size) *MemoryProvider {
	return &MemoryProvider{
		pageSize: pageSize,
		nextID:   1, // 0 is the NULL sentinel; ids start at 1.
		blocks:   make(map[page.PageID][]byte),
	}
}

func (m *MemoryProvider) ReadPage(id page.PageID, buf []byte) error {
	b, ok := m.blocks[id]
	if !ok {
		return errBlockNotFound(id)
	}
	copy(buf, b)
	return nil
}

func (m *MemoryProvider) WritePage(id page.PageID, buf []byte) error {
	b, ok := m.blocks[id]
	if !ok {
		return errBlockNotFound(id)
	}
	copy(b, buf)
	return nil
}

func (m *MemoryProvider) AllocPage(n page.Size) (page.PageID, error) {
	id := m.nextID
	m.nextID++
	m.blocks[id] = make([]byte, n)
	return id, nil
}

func (m *MemoryProvider) FreePage(id page.PageID, _ page.Size) error {
	if _, ok := m.blocks[id]; !ok {
		return errBlockNotFound(id)
	}
	delete(m.blocks, id)
	return nil
}
