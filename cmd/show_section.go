package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newShowSectionCmd creates a new command for showing section details
func newShowSectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-section <category> <section>",
		Short: "Show the screenshots of one section",
		Long: `Show detailed information about the screenshots in a section, identified by its
category slug and its page name (eg "checkout-flow.html") or section token.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}

			category, section, err := svc.GetSectionInternal(args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Section: %s\n", section.Name)
			fmt.Fprintf(out, "Category: %s\n", category.Name)
			fmt.Fprintf(out, "Page: %s/%s\n", category.File, section.File)
			fmt.Fprintf(out, "Screenshots: %d\n", len(section.Images))
			fmt.Fprintln(out, "================")

			for i, image := range section.Images {
				fmt.Fprintf(out, "%d. %s\n", i+1, image.File)
				fmt.Fprintf(out, "   Number: %d\n", image.Number)
				fmt.Fprintf(out, "   URL: %s/%s\n", category.File, image.FileURL)
			}
			return nil
		},
	}
}
