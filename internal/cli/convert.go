package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/infra/config"
	"github.com/MoreDelay/cbz-in/internal/infra/logger"
	"github.com/MoreDelay/cbz-in/internal/infra/toolchain"
	"github.com/MoreDelay/cbz-in/internal/infra/ziparchive"
	"github.com/MoreDelay/cbz-in/internal/usecase"
)

func convertCmd(target domain.ImageFormat, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   string(target) + " [path...]",
		Short: fmt.Sprintf("Convert images in archives to %s", target),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, defaultPaths(args), target, opts)
		},
	}
}

func runConvert(cmd *cobra.Command, paths []string, target domain.ImageFormat, opts *rootOptions) error {
	closeLog, err := setupLogging(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := buildConfig(target, opts)
	if err != nil {
		return err
	}

	converter := toolchain.New(cfg.Encoders,
		toolchain.WithToolPaths(cfg.Tools),
		toolchain.WithLogger(logger.L()))

	// verbose runs print per-entry lines; a live display would swallow them
	sink, closeSink := newSink(opts.noProgress || opts.dryRun || opts.verbose)

	var report domain.BatchReport
	if opts.noArchive {
		uc := usecase.NewConvertDir(converter, logger.L())
		report, err = uc.Execute(cmd.Context(), paths, cfg, sink)
	} else {
		uc := usecase.NewConvertBatch(ziparchive.NewReader(), ziparchive.NewWriter(), converter, logger.L())
		report, err = uc.Execute(cmd.Context(), paths, cfg, sink)
	}
	closeSink()

	printSummary(os.Stdout, report)
	if err != nil {
		return err
	}
	if _, _, failed := report.Totals(); failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(report.Archives))
	}
	return nil
}

// buildConfig merges the optional config file with the command line flags.
// Flags win over the file, the file wins over built-in defaults.
func buildConfig(target domain.ImageFormat, opts *rootOptions) (domain.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	file, err := config.Load(config.FindDir(wd))
	if err != nil {
		return domain.Config{}, err
	}

	return domain.Config{
		Target:   target,
		Force:    opts.force,
		Workers:  resolveWorkers(opts.workers, file.Workers),
		DryRun:   opts.dryRun,
		Verbose:  opts.verbose,
		Encoders: file.Encoders,
		Tools:    file.Tools,
	}, nil
}

// resolveWorkers prefers the flag, then the config file, then one per CPU.
func resolveWorkers(flag, file int) int {
	if flag > 0 {
		return flag
	}
	if file > 0 {
		return file
	}
	return runtime.NumCPU()
}
