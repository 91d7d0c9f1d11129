package block

import (
	"github.com/dgraph-io/ristretto/v2"

	"pagedb/pkg/page"
)

// CachedProvider wraps a Provider with a ristretto read-through cache
// keyed by page id. It sits purely at the Block Provider layer: it has
// no notion of pin counts or dirty bits, so it can never violate the
// buffer pool's single-pinned-frame invariants — it only changes how
// fast a page the pool already evicted gets re-read when it's faulted
// back in.
type CachedProvider struct {
	next  Provider
	cache *ristretto.Cache[page.PageID, []byte]
}

// NewCachedProvider wraps next with a ristretto cache sized for
// maxPages resident page-sized entries.
func NewCachedProvider(next Provider, maxPages int64, pageSize page.Size) (*CachedProvider, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[page.PageID, []byte]{
		NumCounters: maxPages * 10,
		MaxCost:     maxPages * int64(pageSize),
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedProvider{next: next, cache: cache}, nil
}

func (c *CachedProvider) ReadPage(id page.PageID, buf []byte) error {
	if cached, ok := c.cache.Get(id); ok {
		copy(buf, cached)
		return nil
	}
	if err := c.next.ReadPage(id, buf); err != nil {
		return err
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	c.cache.Set(id, cp, int64(len(cp)))
	return nil
}

func (c *CachedProvider) WritePage(id page.PageID, buf []byte) error {
	if err := c.next.WritePage(id, buf); err != nil {
		return err
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	c.cache.Set(id, cp, int64(len(cp)))
	// Set is buffered; wait so the written page is visible to the next
	// ReadPage.
	c.cache.Wait()
	return nil
}

func (c *CachedProvider) AllocPage(n page.Size) (page.PageID, error) {
	return c.next.AllocPage(n)
}

func (c *CachedProvider) FreePage(id page.PageID, n page.Size) error {
	c.cache.Del(id)
	return c.next.FreePage(id, n)
}

// Close releases the cache's background goroutines. Safe to call even
// if next does not itself need closing.
func (c *CachedProvider) Close() {
	c.cache.Close()
}
