package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mockups/pkg/models"
)

// newListSectionsCmd creates a new command for listing sections
func newListSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-sections",
		Short: "List all sections",
		Long:  `List all sections organized by category with the number of screenshots in each.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			categories, err := svc.GetCategoriesInternal()
			if err != nil {
				return err
			}
			listSections(cmd.OutOrStdout(), categories)
			return nil
		},
	}
}

// listSections displays all sections and their page names
func listSections(out io.Writer, categories []models.Category) {
	totalSections := 0

	fmt.Fprintln(out, "Sections:")
	fmt.Fprintln(out, "=========")

	for _, category := range categories {
		fmt.Fprintf(out, "Category: %s\n", category.Name)

		for _, section := range category.Sections {
			fmt.Fprintf(out, "  - %s (screenshots: %d)\n", section.Name, len(section.Images))
			fmt.Fprintf(out, "    Page: %s/%s\n", category.File, section.File)
			totalSections++
		}

		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Total: %d sections across %d categories\n", totalSections, len(categories))
}
