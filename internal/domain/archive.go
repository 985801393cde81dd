package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Entry is one file within an archive: its relative path and raw bytes.
// Directory entries keep their trailing slash and carry no data.
type Entry struct {
	Path string
	Data []byte
}

// IsDir reports whether the entry marks a directory inside the archive.
func (e Entry) IsDir() bool {
	return strings.HasSuffix(e.Path, "/")
}

// Archive is a zip container read from disk. Entry order is preserved from
// the source file and must be preserved when writing the converted copy.
type Archive struct {
	Path    string
	Ext     ArchiveExt
	Entries []Entry
}

// OutputPath derives the name of the converted archive, placed next to the
// original: "Name.cbz" converted to avif becomes "Name.avif.cbz".
func OutputPath(archivePath string, target ImageFormat) string {
	dir := filepath.Dir(archivePath)
	base := filepath.Base(archivePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(dir, fmt.Sprintf("%s.%s.%s", stem, target.Ext(), strings.ToLower(ext)))
}

// HasConvertedSuffix reports whether the archive name itself marks a previous
// conversion to target, e.g. "Name.avif.cbz".
func HasConvertedSuffix(archivePath string, target ImageFormat) bool {
	base := strings.ToLower(filepath.Base(archivePath))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return strings.HasSuffix(stem, "."+target.Ext())
}

// WithFormatExt swaps the file extension of an entry path for the target
// format, keeping the directory part intact.
func WithFormatExt(entryPath string, target ImageFormat) string {
	ext := filepath.Ext(entryPath)
	return strings.TrimSuffix(entryPath, ext) + "." + target.Ext()
}
