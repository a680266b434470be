package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mockups/pkg/models"
)

// newListCategoriesCmd creates a new command for listing categories
func newListCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-categories",
		Short: "List all device categories",
		Long:  `List the device categories found in the project with the number of sections and screenshots in each.`,
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
			listCategories(cmd.OutOrStdout(), categories)
			return nil
		},
	}
}

// listCategories displays all categories and their sections
func listCategories(out io.Writer, categories []models.Category) {
	fmt.Fprintln(out, "Categories:")
	fmt.Fprintln(out, "===========")

	for _, category := range categories {
		fmt.Fprintf(out, "%s (%s)\n", category.Name, category.File)
		fmt.Fprintf(out, "  Sections: %d\n", len(category.Sections))
		fmt.Fprintf(out, "  Screenshots: %d\n", category.ImageCount())
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Total: %d categories\n", len(categories))
}
