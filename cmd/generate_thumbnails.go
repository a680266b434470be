package cmd

import (
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newGenerateThumbnailsCmd creates a new command for generating thumbnails only
func newGenerateThumbnailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-thumbnails",
		Short: "Generate half-size thumbnails for every screenshot",
		Long: `Scan the project directory and resize every screenshot to half its width
into <site>/thumbs/<category>/, keeping the original file name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}

			result, err := svc.Scan()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating thumbnails into %s\n", svc.Config().ThumbsPath())

			report, err := svc.GenerateThumbnails(cmd.Context(), result.Categories, func(path string, done, total int) {
				if svc.Config().Verbose {
					log.Printf("[%d/%d] %s", done, total, path)
				}
			})
			if report != nil {
				fmt.Fprintf(out, "Thumbnails: %d of %d written (%s)", report.Written, report.Dispatched, humanize.Bytes(uint64(report.Bytes)))
				if len(result.Diagnostics) > 0 {
					fmt.Fprintf(out, ", %d skipped during scan", len(result.Diagnostics))
				}
				fmt.Fprintln(out)
			}
			printDiagnostics(cmd.ErrOrStderr(), result, report)
			return err
		},
	}
}
