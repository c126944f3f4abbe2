package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List catalog cards as references, optionally by prefix",
	Long: `List prints every catalog card in the "name | set | $price" form that
search, price and rm accept. With a prefix, only cards whose reference
starts with it (ignoring case) are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		limit, _ := cmd.Flags().GetInt("limit")

		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		refs, err := e.Suggest(cmd.Context(), prefix, limit)
		if err != nil {
			return err
		}

		if len(refs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No cards found.")
			return nil
		}
		for _, ref := range refs {
			fmt.Fprintln(cmd.OutOrStdout(), ref)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(listCmd)

	listCmd.Flags().IntP("limit", "n", 0, "maximum number of cards to list (0 for all)")
}
