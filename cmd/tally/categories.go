package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dukbill/tally/internal/cli"
	"github.com/dukbill/tally/internal/config"
	"github.com/dukbill/tally/internal/taxonomy"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the category taxonomy",
		Long:  `List the categories coverage is measured against and validate taxonomy files.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(checkTaxonomyCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List taxonomy categories",
		Long:  `Display every category in the active taxonomy, in registry order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := loadRegistry(viper.GetString("taxonomy.path"))
			if err != nil {
				return err
			}

			title := "Taxonomy"
			if reg.Version() != "" {
				title = fmt.Sprintf("Taxonomy %s", reg.Version())
			}
			fmt.Println(cli.FormatTitle(fmt.Sprintf("%s (%d categories)", title, reg.Len())))

			// Create table writer
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			// Header
			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\n",
				headerStyle.Render("#"),
				headerStyle.Render("Category"))
			fmt.Fprintf(w, "%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 30))

			// List categories
			for i, name := range reg.Categories() {
				fmt.Fprintf(w, "%d\t%s\n", i+1, name)
			}

			return nil
		},
	}
}

func checkTaxonomyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a taxonomy YAML file",
		Long: `Parse a taxonomy file and verify it builds a valid registry.

Duplicate category names are reported with the positions of both
occurrences. Category matching is exact, so near-duplicates that
differ only in case or punctuation are listed for review.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.ExpandPath(args[0])

			reg, err := taxonomy.Load(path)
			if err != nil {
				var dupErr *taxonomy.InvalidTaxonomyError
				if errors.As(err, &dupErr) {
					fmt.Println(cli.FormatError(fmt.Sprintf("Duplicate category %q", dupErr.Name)))
					fmt.Printf("  first occurrence:  position %d\n", dupErr.First+1)
					fmt.Printf("  second occurrence: position %d\n", dupErr.Second+1)
					return fmt.Errorf("taxonomy file %s is invalid", path)
				}
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Taxonomy file is valid: %d categories", reg.Len())))
			if reg.Version() != "" {
				fmt.Printf("  version: %s\n", reg.Version())
			}

			for _, warning := range nearDuplicates(reg.Categories()) {
				fmt.Println(cli.FormatWarning(warning))
			}

			return nil
		},
	}
}

// nearDuplicates flags category pairs that collapse to the same string
// after case folding and trimming. Lookup is exact, so these pairs are
// legal but usually indicate a typo in the taxonomy file.
func nearDuplicates(names []string) []string {
	seen := make(map[string]string, len(names))
	var warnings []string

	for _, name := range names {
		folded := strings.ToLower(strings.TrimSpace(name))
		if prev, ok := seen[folded]; ok {
			warnings = append(warnings, fmt.Sprintf("Categories %q and %q differ only in case or spacing", prev, name))
			continue
		}
		seen[folded] = name
	}

	return warnings
}
