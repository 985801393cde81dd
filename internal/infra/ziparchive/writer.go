package ziparchive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// Writer persists archives to the filesystem.
//
// Entries are stored uncompressed: converted images are already compressed
// by their codec and deflating them again only burns CPU during reading.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

var _ ports.ArchiveWriter = (*Writer)(nil)

// Write creates the archive at path with the given entries in order. The
// archive is assembled in a temp file in the destination directory and
// renamed into place, so a failed run never leaves a partial archive behind.
func (w *Writer) Write(path string, entries []domain.Entry) (err error) {
	wrap := func(e error) error {
		return &domain.OpError{
			Op:   "ziparchive.write",
			Kind: domain.KindArchiveWrite,
			Path: path,
			Err:  fmt.Errorf("%w: %w", domain.ErrArchiveWrite, e),
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cbz-in-*.tmp")
	if err != nil {
		return wrap(err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, entry := range entries {
		hdr := &zip.FileHeader{Name: entry.Path, Method: zip.Store}
		if entry.IsDir() {
			if _, err = zw.CreateHeader(hdr); err != nil {
				return wrap(fmt.Errorf("entry %q: %w", entry.Path, err))
			}
			continue
		}
		fw, cerr := zw.CreateHeader(hdr)
		if cerr != nil {
			return wrap(fmt.Errorf("entry %q: %w", entry.Path, cerr))
		}
		if _, err = fw.Write(entry.Data); err != nil {
			return wrap(fmt.Errorf("entry %q: %w", entry.Path, err))
		}
	}
	if err = zw.Close(); err != nil {
		return wrap(err)
	}
	if err = tmp.Sync(); err != nil {
		return wrap(err)
	}
	if err = tmp.Close(); err != nil {
		return wrap(err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return wrap(err)
	}
	return nil
}
