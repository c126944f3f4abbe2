package cmd

import (
	"fmt"

	"github.com/arcanaland/cardtrader/internal/engine"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   `search "name | set | $price"`,
	Short: "List cards priced within the band around a reference card",
	Long: `Search lists every catalog card whose price lies within the percentage
band around the reference card's price, grouped by set and ordered by
price. Promotional sets and the reference card itself are left out.

Narrow the result with --facet (a set or type from the Facets line of a
previous search), or use --trade-up to only see cards priced at or above
the reference.

Examples:
  cardtrader search "Charizard | Base Set | $300"
  cardtrader search --percent 10 "Charizard | Base Set | $300"
  cardtrader search --facet Holo "Charizard | Base Set | $300"
  cardtrader search --trade-up "Charizard | Base Set | $300"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		facet, _ := cmd.Flags().GetString("facet")
		tradeUp, _ := cmd.Flags().GetBool("trade-up")
		if tradeUp {
			if facet != "" && facet != engine.FacetTradeUp {
				return fmt.Errorf("--trade-up and --facet cannot be combined")
			}
			facet = engine.FacetTradeUp
		}

		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		res, err := e.SearchDisplay(cmd.Context(), args[0], cfg.Percentage, facet)
		if err != nil {
			return err
		}

		renderResult(cmd.OutOrStdout(), res, cfg.Percentage)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("facet", "f", "", "only show cards of this set or type")
	searchCmd.Flags().BoolP("trade-up", "u", false, "only show cards priced at or above the reference")
}
