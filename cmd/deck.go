package cmd

import (
	"fmt"

	"github.com/arcanaland/cardtrader/internal/deck"
	colorize "github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Value or import TOML decklists",
	Long: `Commands for working with decklists: TOML files with one [[card]]
table per card (name, set, and optionally count, price and type).`,
}

var deckValueCmd = &cobra.Command{
	Use:   "value <decklist.toml>",
	Short: "Total a decklist at catalog prices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deck.LoadDeck(args[0])
		if err != nil {
			return err
		}

		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		v, err := d.Value(cmd.Context(), e)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, colorize.CyanString("Deck: ")+colorize.HiWhiteString("%s", d.Name))

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Card", "Count", "Price", "Subtotal"})
		for _, l := range v.Lines {
			t.AppendRow(table.Row{l.Card.Display(), l.Entry.Count, "$" + l.Card.Price.String(), "$" + l.Subtotal.String()})
		}
		t.AppendFooter(table.Row{"", "", "Total", "$" + v.Total.String()})
		t.Render()

		if len(v.Missing) > 0 {
			fmt.Fprintln(out, colorize.YellowString("Not in catalog:"))
			for _, m := range v.Missing {
				fmt.Fprintf(out, "  %s | %s (x%d)\n", m.Name, m.Set, m.Count)
			}
		}
		return nil
	},
}

var deckImportCmd = &cobra.Command{
	Use:   "import <decklist.toml>",
	Short: "Add or re-price the priced cards of a decklist",
	Long: `Import adds every decklist card that has a price to the catalog. Cards
the catalog already carries are re-priced. Cards without a price are
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deck.LoadDeck(args[0])
		if err != nil {
			return err
		}

		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		failed := 0
		for _, r := range d.Import(cmd.Context(), e) {
			label := fmt.Sprintf("%s | %s", r.Entry.Name, r.Entry.Set)
			switch r.Action {
			case deck.ActionFailed:
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", colorize.RedString("✗"), label, r.Err)
			case deck.ActionSkipped:
				fmt.Fprintf(cmd.OutOrStdout(), "- %s skipped\n", label)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s at $%s\n", colorize.GreenString("✓"), label, r.Action, r.Entry.Price.String())
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d cards could not be imported", failed)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckValueCmd)
	deckCmd.AddCommand(deckImportCmd)
}
