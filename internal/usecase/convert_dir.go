package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// ConvertDir converts images inside plain directories. Each root is mirrored
// as "<name>-<target>" next to it using hard links, so no file data is
// copied; only converted images differ between the two trees. The original
// tree is never touched.
type ConvertDir struct {
	converter ports.ImageConverter
	log       *slog.Logger
}

func NewConvertDir(c ports.ImageConverter, log *slog.Logger) *ConvertDir {
	return &ConvertDir{converter: c, log: log}
}

// dirImage is one image file found below a root, by relative path.
type dirImage struct {
	rel  string
	plan domain.Plan
}

type pendingDir struct {
	root   string
	images []dirImage
}

// Execute runs directory conversions for all roots. Mirrors the batch flow:
// collect, verify tools, then convert each root independently.
func (uc *ConvertDir) Execute(ctx context.Context, paths []string, cfg domain.Config, sink ports.ProgressSink) (domain.BatchReport, error) {
	var report domain.BatchReport

	sink.Println("Looking for images to convert in directories...")

	var pending []pendingDir
	for _, root := range paths {
		if p, ok := uc.collectRoot(root, cfg, &report); ok {
			pending = append(pending, p)
		}
	}

	if len(pending) == 0 {
		sink.Println("Nothing to do")
		return report, nil
	}

	var all []domain.Plan
	images := 0
	for _, p := range pending {
		for _, img := range p.images {
			all = append(all, img.plan)
		}
		images += len(p.images)
	}
	if err := checkTools(uc.converter, all); err != nil {
		return report, err
	}

	sink.Println(fmt.Sprintf("Found %d directories, with a total of %d images to convert", len(pending), images))

	if cfg.DryRun {
		for _, p := range pending {
			sink.Println(fmt.Sprintf("would convert %d image(s) in %q", len(p.images), p.root))
		}
		return report, nil
	}

	sink.BeginJobs(len(pending))
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sink.Println(fmt.Sprintf("Converting %q", p.root))
		res, err := uc.convertRoot(ctx, p, cfg, sink)
		report.Add(res)
		if err != nil {
			return report, err
		}
		sink.JobDone()
	}
	return report, nil
}

func (uc *ConvertDir) collectRoot(root string, cfg domain.Config, report *domain.BatchReport) (pendingDir, bool) {
	fail := func(kind domain.ErrorKind, err error) {
		report.Add(domain.ArchiveResult{
			Path:   root,
			Status: domain.ArchiveFailed,
			Err:    &domain.OpError{Op: "usecase.collect_dir", Kind: kind, Path: root, Err: err},
		})
	}

	info, err := os.Stat(root)
	if err != nil {
		fail(domain.KindNotFound, err)
		return pendingDir{}, false
	}
	if !info.IsDir() {
		fail(domain.KindNotFound, fmt.Errorf("not a directory"))
		return pendingDir{}, false
	}

	root = filepath.Clean(root)
	if skip, reason := dirAlreadyConverted(root, cfg.Target); skip {
		report.Add(domain.ArchiveResult{Path: root, Status: domain.ArchiveSkipped, Reason: reason})
		return pendingDir{}, false
	}

	var images []dirImage
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		format, ok := domain.FormatFromPath(rel)
		if !ok {
			return nil
		}
		plan, ok := domain.NewPlan(format, cfg.Target, cfg.Force)
		if !ok {
			return nil
		}
		images = append(images, dirImage{rel: rel, plan: plan})
		return nil
	})
	if walkErr != nil {
		fail(domain.KindArchiveOpen, walkErr)
		return pendingDir{}, false
	}

	if len(images) == 0 {
		report.Add(domain.ArchiveResult{Path: root, Status: domain.ArchiveSkipped, Reason: "no images to convert"})
		return pendingDir{}, false
	}
	return pendingDir{root: root, images: images}, true
}

// convertRoot mirrors the tree with hard links, then converts the images in
// the mirror. On any setup failure the half-built mirror is removed.
func (uc *ConvertDir) convertRoot(ctx context.Context, p pendingDir, cfg domain.Config, sink ports.ProgressSink) (domain.ArchiveResult, error) {
	res := domain.ArchiveResult{Path: p.root}
	mirror := mirrorPath(p.root, cfg.Target)
	res.Output = mirror

	if err := mirrorTree(p.root, mirror); err != nil {
		os.RemoveAll(mirror)
		res.Status = domain.ArchiveFailed
		res.Err = &domain.OpError{Op: "usecase.mirror", Kind: domain.KindArchiveWrite, Path: mirror, Err: err}
		return res, nil
	}

	sink.BeginImages(len(p.images))
	results := make([]domain.EntryResult, len(p.images))

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, img := range p.images {
		i, img := i, img
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := uc.convertImage(gctx, mirror, img, cfg.Target)
			switch {
			case err != nil && gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				uc.log.Warn("image conversion failed", "root", p.root, "image", img.rel, "err", err)
				sink.Println(fmt.Sprintf("ERROR: %s: %v", img.rel, err))
				results[i] = domain.EntryResult{Path: img.rel, Outcome: domain.OutcomeFailed, Err: err}
			default:
				results[i] = domain.EntryResult{Path: img.rel, Outcome: domain.OutcomeConverted}
			}
			sink.ImageDone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		os.RemoveAll(mirror)
		res.Status = domain.ArchiveFailed
		res.Err = err
		return res, err
	}

	res.Entries = results
	res.Status = domain.ArchiveConverted
	uc.log.Info("directory converted", "root", p.root, "mirror", mirror, "images", len(p.images))
	return res, nil
}

// convertImage converts one hardlinked file inside the mirror: the converted
// file is written next to it and the hard link removed. On failure the hard
// link stays, so the mirror still holds the full content.
func (uc *ConvertDir) convertImage(ctx context.Context, mirror string, img dirImage, target domain.ImageFormat) error {
	src := filepath.Join(mirror, img.rel)
	data, err := os.ReadFile(src)
	if err != nil {
		return &domain.OpError{Op: "usecase.convert_dir", Kind: domain.KindConversionFailed, Path: src, Err: err}
	}

	converted, err := uc.converter.Convert(ctx, data, img.rel, img.plan)
	if err != nil {
		return err
	}

	dst := domain.WithFormatExt(src, target)
	if err := os.WriteFile(dst, converted, 0o644); err != nil {
		return &domain.OpError{Op: "usecase.convert_dir", Kind: domain.KindArchiveWrite, Path: dst, Err: err}
	}
	// the hard link still points at the original data; drop our copy of it
	if err := os.Remove(src); err != nil {
		return &domain.OpError{Op: "usecase.convert_dir", Kind: domain.KindArchiveWrite, Path: src, Err: err}
	}
	return nil
}

// mirrorPath derives the hardlink-mirror location: "Comics" converted to
// avif mirrors into "Comics-avif".
func mirrorPath(root string, target domain.ImageFormat) string {
	return filepath.Clean(root) + "-" + target.Ext()
}

func dirAlreadyConverted(root string, target domain.ImageFormat) (bool, string) {
	if strings.HasSuffix(root, "-"+target.Ext()) {
		return true, "already converted"
	}
	if _, err := os.Stat(mirrorPath(root, target)); err == nil {
		return true, "converted directory exists"
	}
	return false, ""
}

// mirrorTree recreates the directory structure of root at mirror, hard
// linking every regular file. Symlinks and special files are not followed.
func mirrorTree(root, mirror string) error {
	if _, err := os.Stat(mirror); err == nil {
		return fmt.Errorf("mirror directory already exists at %q", mirror)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(mirror, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(dst, 0o755)
		case d.Type().IsRegular():
			return os.Link(path, dst)
		default:
			return nil
		}
	})
}
