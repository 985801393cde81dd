package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/infra/logger"
	"github.com/MoreDelay/cbz-in/internal/infra/ziparchive"
	"github.com/MoreDelay/cbz-in/internal/usecase"
)

func statsCmd(opts *rootOptions) *cobra.Command {
	var filter string

	c := &cobra.Command{
		Use:   "stats [path...]",
		Short: "Count images per format in archives or directories",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(opts)
			if err != nil {
				return err
			}
			defer closeLog()

			var format domain.ImageFormat
			if filter != "" {
				format, err = domain.ParseImageFormat(filter)
				if err != nil {
					return err
				}
			}

			uc := usecase.NewStats(ziparchive.NewReader(), logger.L())
			report, err := uc.Execute(defaultPaths(args), usecase.StatsConfig{
				Filter:    format,
				NoArchive: opts.noArchive,
			})
			if err != nil {
				return err
			}

			printStats(os.Stdout, report, opts.verbose)
			return nil
		},
	}

	c.Flags().StringVar(&filter, "filter", "", "only count images of this format")
	return c
}

// printStats writes per-format totals; with verbose each source gets its own
// breakdown first.
func printStats(w io.Writer, report usecase.StatsReport, verbose bool) {
	if verbose {
		for _, s := range report.Sources {
			fmt.Fprintf(w, "%s: %d images\n", s.Path, s.Images())
			for _, f := range domain.AllFormats() {
				if n := s.Counts[f]; n > 0 {
					fmt.Fprintf(w, "  %-5s %d\n", f, n)
				}
			}
		}
		fmt.Fprintln(w)
	}

	totals := report.Totals()
	for _, f := range domain.AllFormats() {
		if n := totals[f]; n > 0 {
			fmt.Fprintf(w, "%-5s %d\n", f, n)
		}
	}
	fmt.Fprintf(w, "total %d images in %d sources\n", report.Images(), len(report.Sources))
}
