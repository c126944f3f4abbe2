package cmd

import (
	"fmt"
	"strings"

	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add <name> <set> <price>",
	Short:   "Add a card to the catalog",
	Example: `  cardtrader add "Lugia" "Neo Genesis" 420 --type Holo`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cardType, _ := cmd.Flags().GetString("type")

		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		if err := e.Insert(cmd.Context(), args[0], args[1], args[2], cardType); err != nil {
			return err
		}

		c, err := e.Get(cmd.Context(), strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", c.Display())
		return nil
	},
}

var priceCmd = &cobra.Command{
	Use:     `price "name | set | $price" <new-price>`,
	Short:   "Change the price of a catalog card",
	Example: `  cardtrader price "Charizard | Base Set | $300" 320`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		if err := e.UpdatePrice(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}

		ref, _ := card.ParseReference(args[0])
		c, err := e.Get(cmd.Context(), ref.Name, ref.Set)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", c.Display())
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     `rm "name | set | $price"`,
	Short:   "Remove a card from the catalog",
	Example: `  cardtrader rm "Charizard | Base Set | $300"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		if err := e.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}

		ref, _ := card.ParseReference(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s | %s\n", ref.Name, ref.Set)
		return nil
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Tag cards named with the type marker",
	Long: `Normalize sets the type of every card whose name contains the marker
(for example "Mewtwo EX") to the marker itself. Names with a
parenthesised variant, like "Mewtwo EX (Full Art)", are left alone.
The marker defaults to type_marker from the config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		marker, _ := cmd.Flags().GetString("marker")
		if marker == "" {
			marker = cfg.TypeMarker
		}

		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		n, err := e.NormalizeTypes(cmd.Context(), marker)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tagged %d cards as %s\n", n, marker)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(priceCmd)
	RootCmd.AddCommand(rmCmd)
	RootCmd.AddCommand(normalizeCmd)

	addCmd.Flags().StringP("type", "t", "", "card type, such as a rarity")
	normalizeCmd.Flags().StringP("marker", "m", "", "name marker to tag (default from config)")
}
