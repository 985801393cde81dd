package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/infra/logger"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	force      bool
	workers    int
	dryRun     bool
	verbose    bool
	noArchive  bool
	logPath    string
	noProgress bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "cbz-in",
		Short:        "Convert images inside zip/cbz archives to modern formats",
		Long: "cbz-in converts the images inside zip and cbz archives to a target\n" +
			"format using external converter tools, writing a new archive next to\n" +
			"the original. The original archive is never modified.",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.force, "force", "f", false, "convert even images already in the target format")
	pf.IntVarP(&opts.workers, "workers", "j", 0, "parallel image conversions (0 = one per CPU)")
	pf.Lookup("workers").NoOptDefVal = "1"
	pf.BoolVar(&opts.dryRun, "dry-run", false, "report what would be converted without converting")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output and debug-level logging")
	pf.BoolVar(&opts.noArchive, "no-archive", false, "operate on plain directories instead of archives")
	pf.StringVar(&opts.logPath, "log", "", "append a JSON log to this file")
	pf.BoolVar(&opts.noProgress, "no-progress", false, "disable the live progress display")

	for _, target := range domain.AllFormats() {
		cmd.AddCommand(convertCmd(target, opts))
	}
	cmd.AddCommand(statsCmd(opts))
	cmd.AddCommand(versionCmd())
	return cmd
}

// setupLogging installs the file logger when --log is set. The returned
// function flushes and closes it.
func setupLogging(opts *rootOptions) (func(), error) {
	if opts.logPath == "" {
		return func() {}, nil
	}
	cleanup, err := logger.Setup(logger.Config{Path: opts.logPath, Verbose: opts.verbose})
	if err != nil {
		return nil, err
	}
	return func() { _ = cleanup() }, nil
}

// defaultPaths falls back to the current directory when no paths are given.
func defaultPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
