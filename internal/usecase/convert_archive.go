package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// ConvertArchive converts all eligible images inside one zip archive and
// writes the converted copy next to the original. The original archive is
// never modified.
type ConvertArchive struct {
	reader    ports.ArchiveReader
	writer    ports.ArchiveWriter
	converter ports.ImageConverter
	log       *slog.Logger
}

func NewConvertArchive(r ports.ArchiveReader, w ports.ArchiveWriter, c ports.ImageConverter, log *slog.Logger) *ConvertArchive {
	return &ConvertArchive{reader: r, writer: w, converter: c, log: log}
}

// Execute processes a single archive. Archive-level failures are encoded in
// the result so batch runs can continue; the returned error is non-nil only
// when the run was cancelled.
func (uc *ConvertArchive) Execute(ctx context.Context, path string, cfg domain.Config, sink ports.ProgressSink) (domain.ArchiveResult, error) {
	res := domain.ArchiveResult{Path: path}

	if skip, reason := alreadyConverted(path, cfg.Target); skip {
		res.Status = domain.ArchiveSkipped
		res.Reason = reason
		return res, nil
	}

	arc, err := uc.reader.Read(path)
	if err != nil {
		res.Status = domain.ArchiveFailed
		res.Err = err
		return res, nil
	}

	plans := planEntries(arc.Entries, cfg)
	if len(plans) == 0 {
		res.Status = domain.ArchiveSkipped
		res.Reason = "no images to convert"
		return res, nil
	}

	res.Output = domain.OutputPath(path, cfg.Target)
	sink.BeginImages(len(plans))

	// Converted entries replace their originals in place; everything else
	// passes through so entry count and order are preserved.
	out := make([]domain.Entry, len(arc.Entries))
	results := make([]domain.EntryResult, len(arc.Entries))
	for i, e := range arc.Entries {
		out[i] = e
		if !e.IsDir() {
			results[i] = domain.EntryResult{Path: e.Path, Outcome: domain.OutcomePassthrough}
		}
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range plans {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry := arc.Entries[p.idx]
			uc.log.Debug("converting entry", "archive", path, "entry", entry.Path,
				"from", p.plan.From.Ext(), "to", p.plan.To.Ext())

			data, err := uc.converter.Convert(gctx, entry.Data, entry.Path, p.plan)
			switch {
			case err != nil && gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				// keep the original bytes so the archive stays complete
				uc.log.Warn("entry conversion failed", "archive", path, "entry", entry.Path, "err", err)
				sink.Println(fmt.Sprintf("ERROR: %s: %v", entry.Path, err))
				results[p.idx] = domain.EntryResult{Path: entry.Path, Outcome: domain.OutcomeFailed, Err: err}
			default:
				out[p.idx] = domain.Entry{Path: domain.WithFormatExt(entry.Path, cfg.Target), Data: data}
				results[p.idx] = domain.EntryResult{Path: entry.Path, Outcome: domain.OutcomeConverted}
			}
			sink.ImageDone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		res.Status = domain.ArchiveFailed
		res.Err = err
		return res, err
	}

	if err := uc.writer.Write(res.Output, out); err != nil {
		res.Status = domain.ArchiveFailed
		res.Err = err
		return res, nil
	}

	for _, r := range results {
		if r.Path != "" {
			res.Entries = append(res.Entries, r)
		}
	}
	res.Status = domain.ArchiveConverted
	uc.log.Info("archive converted", "archive", path, "output", res.Output, "entries", len(res.Entries))
	return res, nil
}
