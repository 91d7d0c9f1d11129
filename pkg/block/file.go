package block

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"pagedb/pkg/dberr"
	"pagedb/pkg/page"
)

// FileProvider is a Block Provider backed by a single *os.File. Page id
// N (N >= 1) lives at byte offset (N-1)*pageSize. Unlike the teacher's
// DiskManager there is no per-file/table indirection: the core's address
// space is flat, one id per block, matching spec.md's PageId model.
type FileProvider struct {
	mu       sync.Mutex
	file     *os.File
	pageSize page.Size
	nextID   page.PageID
}

// OpenFileProvider opens (creating if necessary) the file at path and
// derives the next allocatable id from its current length.
func OpenFileProvider(path string, pageSize page.Size) (*FileProvider, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open page file")
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat page file")
	}
	nextID := page.PageID(uint64(info.Size())/uint64(pageSize)) + 1
	return &FileProvider{file: f, pageSize: pageSize, nextID: nextID}, nil
}

func (fp *FileProvider) offset(id page.PageID) int64 {
	return int64(id-1) * int64(fp.pageSize)
}

func (fp *FileProvider) ReadPage(id page.PageID, buf []byte) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	n, err := fp.file.ReadAt(buf, fp.offset(id))
	if err != nil && err != io.EOF && n == 0 {
		return errors.Wrapf(err, "read page %d", id)
	}
	// Pad a short read with zeros — a page allocated but never written
	// back yet (e.g. torn down before its first flush) reads as empty.
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

func (fp *FileProvider) WritePage(id page.PageID, buf []byte) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if page.Size(len(buf)) != fp.pageSize {
		return dberr.New(dberr.InvalidArgument, "write buffer does not match page size")
	}
	if _, err := fp.file.WriteAt(buf, fp.offset(id)); err != nil {
		return errors.Wrapf(err, "write page %d", id)
	}
	return fp.file.Sync()
}

func (fp *FileProvider) AllocPage(n page.Size) (page.PageID, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if n != fp.pageSize {
		return 0, dberr.New(dberr.InvalidArgument, "alloc size does not match provider page size")
	}
	id := fp.nextID
	fp.nextID++
	return id, nil
}

func (fp *FileProvider) FreePage(id page.PageID, _ page.Size) error {
	// The core never reclaims free space (spec non-goal); freeing a
	// block is a no-op here beyond acknowledging the call.
	return nil
}

// Close syncs and closes the underlying file.
func (fp *FileProvider) Close() error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if err := fp.file.Sync(); err != nil {
		return err
	}
	return fp.file.Close()
}
