package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mockups/pkg/services"
	"mockups/pkg/site"
	"mockups/pkg/watcher"
)

// ErrIncompleteBuild is returned by --strict builds that skipped or failed any item
var ErrIncompleteBuild = errors.New("build finished with skipped or failed items")

type buildOptions struct {
	strict     bool
	watch      bool
	skipThumbs bool
}

// newBuildCmd creates a new command for generating the site and thumbnails
func newBuildCmd() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the static site and thumbnails",
		Long: `Scan the project directory, write the HTML site and resize every screenshot
into <site>/thumbs. Pages and thumbnails are produced concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with an error if any file was skipped or failed")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Rebuild whenever screenshots change")
	cmd.Flags().BoolVar(&opts.skipThumbs, "skip-thumbs", false, "Only write the HTML pages")

	return cmd
}

// buildSummary is what one build pass produced
type buildSummary struct {
	scan       *services.ScanResult
	thumbnails *services.ThumbnailReport
	sitePath   string
}

func (s *buildSummary) problems() int {
	total := len(s.scan.Diagnostics)
	if s.thumbnails != nil {
		total += s.thumbnails.Failed()
	}
	return total
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	svc, err := loadService()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	summary, err := buildSite(ctx, svc, opts)
	if summary != nil {
		printSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), summary)
	}
	if err != nil {
		return err
	}

	if opts.watch {
		return watchProject(ctx, cmd, svc, opts)
	}

	if opts.strict && summary.problems() > 0 {
		return fmt.Errorf("%w: %d problems", ErrIncompleteBuild, summary.problems())
	}
	return nil
}

// buildSite scans the project once, then renders pages and thumbnails side by side.
// A failure on one side does not stop the other; once the scan succeeded the
// summary is returned even when an error is.
func buildSite(ctx context.Context, svc *services.Service, opts *buildOptions) (*buildSummary, error) {
	cfg := svc.Config()

	result, err := svc.Scan()
	if err != nil {
		return nil, err
	}

	renderer, err := site.NewRenderer(cfg.SitePath(), cfg.ProjectPath)
	if err != nil {
		return nil, err
	}
	renderer.Verbose = cfg.Verbose

	summary := &buildSummary{scan: result, sitePath: renderer.SitePath()}

	var g errgroup.Group

	g.Go(func() error {
		return renderer.Generate(svc.ProjectInfo(), result.Categories)
	})

	if !opts.skipThumbs {
		g.Go(func() error {
			report, err := svc.GenerateThumbnails(ctx, result.Categories, progressLogger(cfg.Verbose))
			summary.thumbnails = report
			return err
		})
	}

	return summary, g.Wait()
}

// watchProject rebuilds on every burst of screenshot changes until ctx is canceled
func watchProject(ctx context.Context, cmd *cobra.Command, svc *services.Service, opts *buildOptions) error {
	cfg := svc.Config()

	w, err := watcher.New(cfg.ProjectPath, cfg.SitePath(), categorySlugs())
	if err != nil {
		return err
	}

	log.Printf("Watching %s for changes (Ctrl+C to stop)", cfg.ProjectPath)

	return w.Run(ctx, func() {
		svc.Invalidate()
		log.Println("Change detected, rebuilding")

		summary, err := buildSite(ctx, svc, opts)
		if summary != nil {
			printSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), summary)
		}
		if err != nil {
			log.Printf("Rebuild failed: %v", err)
		}
	})
}

func categorySlugs() []string {
	defs := services.KnownCategories()
	slugs := make([]string, 0, len(defs))
	for _, def := range defs {
		slugs = append(slugs, def.File)
	}
	return slugs
}

func progressLogger(verbose bool) services.ProgressCallback {
	if !verbose {
		return nil
	}
	return func(path string, done, total int) {
		log.Printf("[%d/%d] %s", done, total, path)
	}
}

func printSummary(out, errOut io.Writer, s *buildSummary) {
	sections := 0
	for _, category := range s.scan.Categories {
		sections += len(category.Sections)
	}

	fmt.Fprintf(out, "Scanned %d categories, %d sections, %d screenshots", len(s.scan.Categories), sections, s.scan.ImageCount())
	if len(s.scan.Ignored) > 0 {
		fmt.Fprintf(out, " (%d files ignored)", len(s.scan.Ignored))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Site written to %s\n", s.sitePath)

	if s.thumbnails != nil {
		fmt.Fprintf(out, "Thumbnails: %d written (%s)", s.thumbnails.Written, humanize.Bytes(uint64(s.thumbnails.Bytes)))
		if failed := s.thumbnails.Failed(); failed > 0 {
			fmt.Fprintf(out, ", %d failed", failed)
		}
		fmt.Fprintln(out)
	}

	printDiagnostics(errOut, s.scan, s.thumbnails)
}

// printDiagnostics lists every skipped scan item and every failed thumbnail
func printDiagnostics(errOut io.Writer, scan *services.ScanResult, thumbnails *services.ThumbnailReport) {
	for _, d := range scan.Diagnostics {
		fmt.Fprintf(errOut, "  skipped %s\n", d.Error())
	}
	if thumbnails != nil {
		for _, d := range thumbnails.Diagnostics {
			fmt.Fprintf(errOut, "  failed %s\n", d.Error())
		}
	}
}
