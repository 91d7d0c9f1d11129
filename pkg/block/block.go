// Package block defines the Block Provider contract: the four
// synchronous, serial operations the buffer pool uses to read, write,
// allocate and free fixed-size blocks on whatever backing store the
// caller supplies.
package block

import "pagedb/pkg/page"

// Provider is the caller-supplied backing store. Implementations must be
// deterministic with respect to a single caller and reentrant-free — the
// buffer pool invokes them serially and never calls back into a Provider
// while already inside one of its own methods.
type Provider interface {
	// ReadPage fills buf (len(buf) == n for the provider's fixed block
	// size) with the bytes previously persisted under id.
	ReadPage(id page.PageID, buf []byte) error

	// WritePage persists buf under id.
	WritePage(id page.PageID, buf []byte) error

	// AllocPage reserves a fresh block of size n and returns its
	// non-zero id.
	AllocPage(n page.Size) (page.PageID, error)

	// FreePage releases a previously allocated block.
	FreePage(id page.PageID, n page.Size) error
}
