// Package config loads the optional .cbz-in.yaml file. Everything in it is
// an override on top of built-in defaults; a missing file is not an error.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MoreDelay/cbz-in/internal/domain"
)

const FileName = ".cbz-in.yaml"

// FileConfig is the merged result of defaults and the config file.
type FileConfig struct {
	// Workers is the default worker count; 0 means "decide at runtime".
	Workers  int
	Encoders domain.EncoderSettings
	Tools    domain.ToolPaths
}

// Default returns the configuration used when no file exists.
func Default() FileConfig {
	return FileConfig{
		Encoders: domain.DefaultEncoderSettings(),
		Tools:    domain.ToolPaths{},
	}
}

// Load reads <dir>/.cbz-in.yaml and applies it on top of the defaults.
// A missing file yields the defaults without error.
func Load(dir string) (FileConfig, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapConfig(cfg, y), nil
}

// mapConfig applies parsed values on top of the defaults.
func mapConfig(cfg FileConfig, y yamlConfig) FileConfig {
	if y.Workers != nil && *y.Workers > 0 {
		cfg.Workers = *y.Workers
	}

	enc := &cfg.Encoders
	if v := y.Encoders.Avif.Quality; v != nil {
		enc.AvifQuality = *v
	}
	if v := y.Encoders.Avif.Speed; v != nil {
		enc.AvifSpeed = *v
	}
	if v := y.Encoders.Jxl.Effort; v != nil {
		enc.JxlEffort = *v
	}
	if v := y.Encoders.Jxl.Distance; v != nil {
		enc.JxlDistance = *v
	}
	if v := y.Encoders.Webp.Quality; v != nil {
		enc.WebpQuality = *v
	}
	if v := y.Encoders.Jpeg.Quality; v != nil {
		enc.JpegQuality = *v
	}
	if v := y.Encoders.Avif.DecodeQuality; v != nil {
		enc.AvifDecodeQuality = *v
	}

	for tool, path := range y.Tools {
		if path != "" {
			cfg.Tools[tool] = path
		}
	}
	return cfg
}

type yamlConfig struct {
	Workers  *int `yaml:"workers"`
	Encoders struct {
		Avif struct {
			Quality       *int `yaml:"quality"`
			Speed         *int `yaml:"speed"`
			DecodeQuality *int `yaml:"decode_quality"`
		} `yaml:"avif"`
		Jxl struct {
			Effort   *int `yaml:"effort"`
			Distance *int `yaml:"distance"`
		} `yaml:"jxl"`
		Webp struct {
			Quality *int `yaml:"quality"`
		} `yaml:"webp"`
		Jpeg struct {
			Quality *int `yaml:"quality"`
		} `yaml:"jpeg"`
	} `yaml:"encoders"`
	Tools map[string]string `yaml:"tools"`
}
