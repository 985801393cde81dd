package ports

import (
	"context"

	"github.com/MoreDelay/cbz-in/internal/domain"
)

// ImageConverter is the capability provider over the external conversion
// tools. It converts a single image, isolating callers from subprocess and
// temp-file mechanics.
type ImageConverter interface {
	// Convert runs the plan on the image bytes and returns the converted
	// bytes. name is the entry path, used for logging and temp file naming.
	Convert(ctx context.Context, data []byte, name string, plan domain.Plan) ([]byte, error)

	// MissingTools reports the names of converter binaries required by the
	// plans that are not available in the environment, sorted and unique.
	MissingTools(plans []domain.Plan) []string
}
