package ports

import "github.com/MoreDelay/cbz-in/internal/domain"

// ArchiveReader loads zip archives from a source (e.g., filesystem).
type ArchiveReader interface {
	// Read loads the whole archive, entry bytes included.
	Read(path string) (domain.Archive, error)
	// List returns the entry paths only, without reading any bodies.
	// Used for planning, statistics and dry runs.
	List(path string) ([]string, error)
}
