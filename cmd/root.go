package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mockups/pkg/config"
	"mockups/pkg/services"
	"mockups/pkg/version"
)

// Configuration flags
var (
	projectDir string
	siteDir    string
	workers    int
	verbose    bool
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mockups",
		Short: "Mockups turns a folder of app screenshots into a static HTML site",
		Long: `Mockups walks a project directory holding screenshots named XY-[section]-N.png
in iphone-portrait, iphone-landscape, ipad-portrait and ipad-landscape folders,
and generates a browsable static site with half-size thumbnails.

Running mockups without a subcommand is the same as "mockups build".`,
		Version:       version.GetInfo().String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, &buildOptions{})
		},
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", "", "Set the project directory (overrides MOCKUPS_DIR)")
	rootCmd.PersistentFlags().StringVarP(&siteDir, "site", "s", "", "Set the site output directory (overrides MOCKUPS_SITE_DIR)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Set the thumbnail worker count, 0 for one per CPU (overrides MOCKUPS_WORKERS)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every scanned file and written page (overrides MOCKUPS_VERBOSE)")

	// Add commands to root
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newGenerateThumbnailsCmd())
	rootCmd.AddCommand(newListCategoriesCmd())
	rootCmd.AddCommand(newListSectionsCmd())
	rootCmd.AddCommand(newShowSectionCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided. Paths given on the
	// command line are relative to the working directory.
	if projectDir != "" {
		os.Setenv("MOCKUPS_DIR", absPath(projectDir))
	}

	if siteDir != "" {
		os.Setenv("MOCKUPS_SITE_DIR", absPath(siteDir))
	}

	if workers != 0 {
		os.Setenv("MOCKUPS_WORKERS", strconv.Itoa(workers))
	}

	if verbose {
		os.Setenv("MOCKUPS_VERBOSE", "true")
	}

	// Load configuration from environment variables (potentially set above)
	return config.Load()
}

func absPath(path string) string {
	if strings.HasPrefix(path, "~") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// loadService loads the configuration and creates the project service
func loadService() (*services.Service, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return services.NewService(cfg), nil
}
