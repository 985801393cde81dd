package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// ConvertBatch drives conversions over a mix of archive paths and
// directories containing archives. Per-archive failures are recorded and the
// batch continues.
type ConvertBatch struct {
	reader    ports.ArchiveReader
	converter ports.ImageConverter
	archive   *ConvertArchive
	log       *slog.Logger
}

func NewConvertBatch(r ports.ArchiveReader, w ports.ArchiveWriter, c ports.ImageConverter, log *slog.Logger) *ConvertBatch {
	return &ConvertBatch{
		reader:    r,
		converter: c,
		archive:   NewConvertArchive(r, w, c, log),
		log:       log,
	}
}

// pendingArchive is an archive that passed the collect phase.
type pendingArchive struct {
	path  string
	plans []domain.Plan
}

// Execute runs the whole batch: collect archives, verify tools, then convert
// each archive independently. With cfg.DryRun it stops after the checks.
func (uc *ConvertBatch) Execute(ctx context.Context, paths []string, cfg domain.Config, sink ports.ProgressSink) (domain.BatchReport, error) {
	var report domain.BatchReport

	sink.Println("Looking for images to convert in archives...")
	pending := uc.collect(paths, cfg, &report)

	if len(pending) == 0 {
		sink.Println("Nothing to do")
		return report, nil
	}

	var all []domain.Plan
	images := 0
	for _, p := range pending {
		all = append(all, p.plans...)
		images += len(p.plans)
	}
	if err := checkTools(uc.converter, all); err != nil {
		return report, err
	}

	sink.Println(fmt.Sprintf("Found %d archives, with a total of %d images to convert", len(pending), images))

	if cfg.DryRun {
		for _, p := range pending {
			sink.Println(fmt.Sprintf("would convert %d image(s) in %q", len(p.plans), p.path))
		}
		return report, nil
	}

	sink.BeginJobs(len(pending))
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sink.Println(fmt.Sprintf("Converting %q", p.path))
		res, err := uc.archive.Execute(ctx, p.path, cfg, sink)
		report.Add(res)
		if err != nil {
			// cancelled; everything after this would fail the same way
			return report, err
		}
		sink.JobDone()
	}
	return report, nil
}

// collect expands the user-provided paths into individual archives and
// filters out everything that has nothing to do. Unusable paths are recorded
// as failures; quiet skips are recorded as skipped.
func (uc *ConvertBatch) collect(paths []string, cfg domain.Config, report *domain.BatchReport) []pendingArchive {
	var pending []pendingArchive
	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			report.Add(domain.ArchiveResult{
				Path:   path,
				Status: domain.ArchiveFailed,
				Err: &domain.OpError{
					Op:   "usecase.collect",
					Kind: domain.KindNotFound,
					Path: path,
					Err:  err,
				},
			})
		case info.IsDir():
			pending = append(pending, uc.collectDir(path, cfg, report)...)
		default:
			if p, ok := uc.collectArchive(path, cfg, report, false); ok {
				pending = append(pending, p)
			}
		}
	}
	return pending
}

// collectDir picks up top-level archives in the directory; anything else in
// there is none of our business.
func (uc *ConvertBatch) collectDir(dir string, cfg domain.Config, report *domain.BatchReport) []pendingArchive {
	entries, err := os.ReadDir(dir)
	if err != nil {
		report.Add(domain.ArchiveResult{
			Path:   dir,
			Status: domain.ArchiveFailed,
			Err: &domain.OpError{
				Op:   "usecase.collect",
				Kind: domain.KindArchiveOpen,
				Path: dir,
				Err:  err,
			},
		})
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

	var pending []pendingArchive
	for _, name := range names {
		if p, ok := uc.collectArchive(filepath.Join(dir, name), cfg, report, true); ok {
			pending = append(pending, p)
		}
	}
	return pending
}

// collectArchive checks one archive. quiet suppresses skip results for
// archives found by directory scan, matching how explicit paths get louder
// reporting than incidental ones.
func (uc *ConvertBatch) collectArchive(path string, cfg domain.Config, report *domain.BatchReport, quiet bool) (pendingArchive, bool) {
	if skip, reason := alreadyConverted(path, cfg.Target); skip {
		uc.log.Debug("skipping archive", "archive", path, "reason", reason)
		if !quiet {
			report.Add(domain.ArchiveResult{Path: path, Status: domain.ArchiveSkipped, Reason: reason})
		}
		return pendingArchive{}, false
	}

	names, err := uc.reader.List(path)
	if err != nil {
		report.Add(domain.ArchiveResult{Path: path, Status: domain.ArchiveFailed, Err: err})
		return pendingArchive{}, false
	}

	plans := planNames(names, cfg)
	if len(plans) == 0 {
		uc.log.Debug("skipping archive", "archive", path, "reason", "no images to convert")
		if !quiet {
			report.Add(domain.ArchiveResult{Path: path, Status: domain.ArchiveSkipped, Reason: "no images to convert"})
		}
		return pendingArchive{}, false
	}

	return pendingArchive{path: path, plans: plans}, true
}
