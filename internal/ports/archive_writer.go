package ports

import "github.com/MoreDelay/cbz-in/internal/domain"

// ArchiveWriter persists a new archive. Implementations must write the whole
// file or nothing at all; a partially written archive is never left behind.
type ArchiveWriter interface {
	Write(path string, entries []domain.Entry) error
}
