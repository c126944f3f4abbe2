package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/arcanaland/cardtrader/internal/engine"
	colorize "github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderResult(w io.Writer, res *engine.Result, percentage int) {
	_, _ = fmt.Fprintln(w, colorize.CyanString("Reference: ")+colorize.HiWhiteString("%s", res.Reference))
	_, _ = fmt.Fprintln(w, colorize.CyanString("Band:      ")+fmt.Sprintf("%s (±%d%%)", res.Band, percentage))

	mode := res.Mode.String()
	if res.Mode == engine.ModeFacet {
		mode = res.Facet
	}
	_, _ = fmt.Fprintln(w, colorize.CyanString("Showing:   ")+fmt.Sprintf("%s %s", mode, res.Window))
	_, _ = fmt.Fprintln(w)

	renderCards(w, res.Cards)

	if len(res.Facets) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, colorize.CyanString("Facets: ")+strings.Join(res.Facets, ", "))
	}
}

func renderCards(w io.Writer, cards []card.Card) {
	if len(cards) == 0 {
		_, _ = fmt.Fprintln(w, "(0 cards)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Set", "Type", "Price"})
	for _, c := range cards {
		t.AppendRow(table.Row{c.Name, c.Set, c.Type, "$" + c.Price.String()})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Price", Align: text.AlignRight}})
	t.Render()

	_, _ = fmt.Fprintf(w, "(%d cards)\n", len(cards))
}
