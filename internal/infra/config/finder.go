package config

import (
	"os"
	"path/filepath"
)

// FindDir walks from startDir toward the filesystem root and returns the
// first directory holding a .cbz-in.yaml. Without one anywhere up the tree it
// returns startDir, so Load falls back to the built-in defaults.
func FindDir(startDir string) string {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return startDir
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		if _, err := os.Stat(filepath.Join(cur, FileName)); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs
		}
		cur = parent
	}
}
