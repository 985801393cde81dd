package ziparchive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// Reader loads zip archives from the filesystem.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

var _ ports.ArchiveReader = (*Reader)(nil)

// Read loads all entries of the archive in file order, bytes included.
// Directory entries are kept (with empty data) so the converted archive can
// reproduce the original layout exactly.
func (r *Reader) Read(path string) (domain.Archive, error) {
	ext, err := domain.ParseArchiveExt(path)
	if err != nil {
		return domain.Archive{}, &domain.OpError{
			Op:   "ziparchive.read",
			Kind: domain.KindArchiveOpen,
			Path: path,
			Err:  err,
		}
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return domain.Archive{}, &domain.OpError{
			Op:   "ziparchive.read",
			Kind: domain.KindArchiveOpen,
			Path: path,
			Err:  fmt.Errorf("%w: %w", domain.ErrArchiveOpen, err),
		}
	}
	defer zr.Close()

	entries := make([]domain.Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			entries = append(entries, domain.Entry{Path: f.Name})
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return domain.Archive{}, readEntryErr(path, f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return domain.Archive{}, readEntryErr(path, f.Name, err)
		}
		entries = append(entries, domain.Entry{Path: f.Name, Data: data})
	}

	return domain.Archive{Path: path, Ext: ext, Entries: entries}, nil
}

// List returns the entry paths in file order without reading any bodies.
func (r *Reader) List(path string) ([]string, error) {
	if _, err := domain.ParseArchiveExt(path); err != nil {
		return nil, &domain.OpError{
			Op:   "ziparchive.list",
			Kind: domain.KindArchiveOpen,
			Path: path,
			Err:  err,
		}
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "ziparchive.list",
			Kind: domain.KindArchiveOpen,
			Path: path,
			Err:  fmt.Errorf("%w: %w", domain.ErrArchiveOpen, err),
		}
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

func readEntryErr(path, entry string, err error) error {
	return &domain.OpError{
		Op:   "ziparchive.read",
		Kind: domain.KindArchiveOpen,
		Path: path,
		Err:  fmt.Errorf("entry %q: %w", entry, err),
	}
}
