package usecase

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// StatsConfig selects what to count and where.
type StatsConfig struct {
	// Filter restricts counting to one format; empty counts all formats.
	Filter domain.ImageFormat
	// NoArchive counts images in directories instead of inside archives.
	NoArchive bool
}

// SourceStats are the image counts for one archive or directory root.
type SourceStats struct {
	Path   string
	Counts map[domain.ImageFormat]int
}

// Images sums all counted images of this source.
func (s SourceStats) Images() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}

// StatsReport is the result of a stats run.
type StatsReport struct {
	Sources []SourceStats
}

// Totals sums counts per format across all sources.
func (r StatsReport) Totals() map[domain.ImageFormat]int {
	totals := make(map[domain.ImageFormat]int)
	for _, s := range r.Sources {
		for f, n := range s.Counts {
			totals[f] += n
		}
	}
	return totals
}

// Images sums all counted images across all sources.
func (r StatsReport) Images() int {
	total := 0
	for _, s := range r.Sources {
		total += s.Images()
	}
	return total
}

// Stats counts images found in archives or directories.
type Stats struct {
	reader ports.ArchiveReader
	log    *slog.Logger
}

func NewStats(r ports.ArchiveReader, log *slog.Logger) *Stats {
	return &Stats{reader: r, log: log}
}

// Execute collects counts for every path. Paths that cannot be inspected
// are dropped with a log entry; statistics are best effort by design.
func (uc *Stats) Execute(paths []string, cfg StatsConfig) (StatsReport, error) {
	var report StatsReport
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return report, &domain.OpError{Op: "usecase.stats", Kind: domain.KindNotFound, Path: path, Err: err}
		}

		switch {
		case cfg.NoArchive && info.IsDir():
			report.Sources = append(report.Sources, uc.countDir(path, cfg))
		case info.IsDir():
			report.Sources = append(report.Sources, uc.countArchivesIn(path, cfg)...)
		default:
			if s, ok := uc.countArchive(path, cfg); ok {
				report.Sources = append(report.Sources, s)
			}
		}
	}
	return report, nil
}

func (uc *Stats) countArchivesIn(dir string, cfg StatsConfig) []SourceStats {
	entries, err := os.ReadDir(dir)
	if err != nil {
		uc.log.Warn("cannot read directory", "dir", dir, "err", err)
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := domain.ParseArchiveExt(e.Name()); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var sources []SourceStats
	for _, name := range names {
		if s, ok := uc.countArchive(filepath.Join(dir, name), cfg); ok {
			sources = append(sources, s)
		}
	}
	return sources
}

func (uc *Stats) countArchive(path string, cfg StatsConfig) (SourceStats, bool) {
	names, err := uc.reader.List(path)
	if err != nil {
		uc.log.Warn("cannot list archive", "archive", path, "err", err)
		return SourceStats{}, false
	}

	s := SourceStats{Path: path, Counts: make(map[domain.ImageFormat]int)}
	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			continue
		}
		countImage(&s, name, cfg.Filter)
	}
	return s, true
}

func (uc *Stats) countDir(root string, cfg StatsConfig) SourceStats {
	s := SourceStats{Path: root, Counts: make(map[domain.ImageFormat]int)}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			countImage(&s, path, cfg.Filter)
		}
		return nil
	})
	if err != nil {
		uc.log.Warn("directory walk stopped early", "root", root, "err", err)
	}
	return s
}

func countImage(s *SourceStats, path string, filter domain.ImageFormat) {
	format, ok := domain.FormatFromPath(path)
	if !ok {
		return
	}
	if filter != "" && format != filter {
		return
	}
	s.Counts[format]++
}
