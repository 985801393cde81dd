// Package domain contains the core domain model for cbz-in.
//
// The domain is archive- and process-agnostic: it does not depend on the zip
// codec, os/exec, or the filesystem. Infra/adapters map into/from these types.
package domain
