package cmd

import (
	"fmt"

	"github.com/arcanaland/cardtrader/internal/validator"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog and its photos for problems",
	Long: `Validate checks every catalog card for values that break searches
(missing names or sets, negative prices, '|' in a name) and reports
cards without photos, photos without cards, and names the normalize
command would still tag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCatalog()
		if err != nil {
			return err
		}
		defer store.Close()

		v := validator.NewValidator(store, cfg.ImagesDir, cfg.TypeMarker)
		results, err := v.Validate(cmd.Context())
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Validation Results:")
		fmt.Fprintln(out, "-------------------")

		if results.Valid() {
			fmt.Fprintf(out, "✅ Catalog '%s' is valid.\n", cfg.Database)
		} else {
			fmt.Fprintf(out, "❌ Catalog '%s' has %d validation errors:\n", cfg.Database, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Fprintf(out, "%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Fprintln(out, "\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Fprintf(out, "%d. %s\n", i+1, warn)
			}
		}

		if !results.Valid() {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
