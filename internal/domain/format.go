package domain

import (
	"fmt"
	"path"
	"strings"
)

// ImageFormat identifies an image encoding handled by the converter tools.
type ImageFormat string

const (
	Jpeg ImageFormat = "jpeg"
	Png  ImageFormat = "png"
	Avif ImageFormat = "avif"
	Jxl  ImageFormat = "jxl"
	Webp ImageFormat = "webp"
)

// AllFormats lists every supported image format in stable order.
func AllFormats() []ImageFormat {
	return []ImageFormat{Jpeg, Png, Avif, Jxl, Webp}
}

// ParseImageFormat maps a user-supplied name to an ImageFormat.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return Jpeg, nil
	case "png":
		return Png, nil
	case "avif":
		return Avif, nil
	case "jxl":
		return Jxl, nil
	case "webp":
		return Webp, nil
	default:
		return "", &OpError{
			Op:   "domain.parse_format",
			Kind: KindUnsupported,
			Err:  fmt.Errorf("unknown image format %q: %w", s, ErrUnsupported),
		}
	}
}

// FormatFromPath detects the image format from a file extension.
// The second return value is false for anything that is not a recognized image.
func FormatFromPath(p string) (ImageFormat, bool) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	switch ext {
	case "jpeg", "jpg":
		return Jpeg, true
	case "png":
		return Png, true
	case "avif":
		return Avif, true
	case "jxl":
		return Jxl, true
	case "webp":
		return Webp, true
	default:
		return "", false
	}
}

// Ext returns the canonical file extension, without the leading dot.
func (f ImageFormat) Ext() string {
	return string(f)
}

func (f ImageFormat) String() string {
	return string(f)
}

// ArchiveExt is the file extension of a zip container we accept.
type ArchiveExt string

const (
	ExtZip ArchiveExt = "zip"
	ExtCbz ArchiveExt = "cbz"
)

// ParseArchiveExt checks that the path carries a supported archive extension.
func ParseArchiveExt(p string) (ArchiveExt, error) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	switch ext {
	case "zip":
		return ExtZip, nil
	case "cbz":
		return ExtCbz, nil
	default:
		return "", &OpError{
			Op:   "domain.parse_archive_ext",
			Kind: KindUnsupported,
			Path: p,
			Err:  fmt.Errorf("unsupported archive extension %q: %w", ext, ErrUnsupported),
		}
	}
}

// Ext returns the archive extension, without the leading dot.
func (e ArchiveExt) Ext() string {
	return string(e)
}
