package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mockups/pkg/models"
)

// ErrUnsupportedFormat is returned for export formats other than json
var ErrUnsupportedFormat = errors.New("unsupported export format, supported formats: json")

// exportDocument is the shape written by export
type exportDocument struct {
	Project    models.Project    `json:"project"`
	Categories []models.Category `json:"categories"`
	Ignored    []string          `json:"ignored"`
}

// newExportCmd creates a new command for exporting the project model
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [format]",
		Short: "Export the project model",
		Long:  `Export the scanned categories, sections and screenshots in the specified format. Currently supported formats: json.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := "json"
			if len(args) > 0 {
				format = args[0]
			}
			if format != "json" {
				return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
			}

			svc, err := loadService()
			if err != nil {
				return err
			}

			result, err := svc.Scan()
			if err != nil {
				return err
			}

			ignored := result.Ignored
			if ignored == nil {
				ignored = []string{}
			}

			data, err := json.MarshalIndent(exportDocument{
				Project:    svc.ProjectInfo(),
				Categories: result.Categories,
				Ignored:    ignored,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling data: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
