// Package deck reads decklists: TOML files listing cards a customer brings
// to the counter, optionally with the price they were bought or quoted at.
//
//	[deck]
//	name = "Haymaker"
//
//	[[card]]
//	name = "Charizard"
//	set = "Base Set"
//	count = 1
//	price = "300"   # or 300 / 300.0
//	type = "Holo"
//
// A decklist can be valued against the catalog, or imported into it.
package deck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/arcanaland/cardtrader/internal/catalog"
	"github.com/arcanaland/cardtrader/internal/engine"
	"github.com/shopspring/decimal"
)

// Price is a decklist price. It accepts TOML strings, integers and floats.
type Price struct {
	decimal.Decimal
	Set bool
}

// UnmarshalTOML implements toml.Unmarshaler.
func (p *Price) UnmarshalTOML(v any) error {
	var (
		d   decimal.Decimal
		err error
	)
	switch val := v.(type) {
	case string:
		d, err = card.ParsePrice(val)
	case int64:
		d = decimal.NewFromInt(val)
	case float64:
		d = decimal.NewFromFloat(val)
	default:
		return fmt.Errorf("price must be a number or string, got %T", v)
	}
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return fmt.Errorf("%w: %s", card.ErrInvalidPrice, d)
	}
	p.Decimal, p.Set = d, true
	return nil
}

// Entry is one [[card]] table.
type Entry struct {
	Name  string `toml:"name"`
	Set   string `toml:"set"`
	Type  string `toml:"type"`
	Count int    `toml:"count"`
	Price Price  `toml:"price"`
}

func (e Entry) label() string {
	return e.Name + " | " + e.Set
}

// DeckConfig is the decoded decklist file.
type DeckConfig struct {
	Deck struct {
		Name        string `toml:"name"`
		Description string `toml:"description"`
	} `toml:"deck"`
	Cards []Entry `toml:"card"`
}

// Deck represents a loaded decklist
type Deck struct {
	Name        string
	Description string
	Path        string
	Entries     []Entry
}

// Catalog is the part of the engine a decklist needs.
type Catalog interface {
	Get(ctx context.Context, name, set string) (*card.Card, error)
	Insert(ctx context.Context, name, set, price, cardType string) error
	UpdatePrice(ctx context.Context, reference, newPrice string) error
}

// LoadDeck reads and checks a decklist. Count defaults to 1.
func LoadDeck(path string) (*Deck, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("decklist not found: %s", path)
	}

	var config DeckConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	d := &Deck{
		Name:        config.Deck.Name,
		Description: config.Deck.Description,
		Path:        path,
		Entries:     make([]Entry, 0, len(config.Cards)),
	}

	var problems []string
	for i, e := range config.Cards {
		e.Name, e.Set, e.Type = strings.TrimSpace(e.Name), strings.TrimSpace(e.Set), strings.TrimSpace(e.Type)
		switch {
		case e.Name == "" || e.Set == "":
			problems = append(problems, fmt.Sprintf("card %d: name and set are required", i+1))
			continue
		case e.Count < 0:
			problems = append(problems, fmt.Sprintf("card %d (%s): count must not be negative", i+1, e.label()))
			continue
		case e.Count == 0:
			e.Count = 1
		}
		d.Entries = append(d.Entries, e)
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid decklist %s: %s", path, strings.Join(problems, "; "))
	}

	if d.Name == "" {
		d.Name = path
	}
	return d, nil
}

// Line is one valued decklist entry.
type Line struct {
	Entry    Entry
	Card     *card.Card // nil when the catalog does not carry the card
	Subtotal decimal.Decimal
}

// Valuation totals a decklist at catalog prices.
type Valuation struct {
	Lines   []Line
	Missing []Entry
	Total   decimal.Decimal
}

// Value prices every entry at its current catalog price. Entries the
// catalog does not carry are listed in Missing and left out of the total.
func (d *Deck) Value(ctx context.Context, c Catalog) (*Valuation, error) {
	v := &Valuation{Total: decimal.Zero}
	for _, e := range d.Entries {
		found, err := c.Get(ctx, e.Name, e.Set)
		if errors.Is(err, catalog.ErrNotFound) {
			v.Missing = append(v.Missing, e)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", e.label(), err)
		}

		sub := found.Price.Mul(decimal.NewFromInt(int64(e.Count)))
		v.Lines = append(v.Lines, Line{Entry: e, Card: found, Subtotal: sub})
		v.Total = v.Total.Add(sub)
	}
	return v, nil
}

// Import actions.
const (
	ActionAdded    = "added"
	ActionRepriced = "repriced"
	ActionSkipped  = "skipped"
	ActionFailed   = "failed"
)

// ImportResult reports what happened to one entry.
type ImportResult struct {
	Entry  Entry
	Action string
	Err    error
}

// Import adds every priced entry to the catalog, re-pricing cards it
// already carries. Entries without a price are skipped. A failed entry
// does not stop the others.
func (d *Deck) Import(ctx context.Context, c Catalog) []ImportResult {
	results := make([]ImportResult, 0, len(d.Entries))
	for _, e := range d.Entries {
		results = append(results, importEntry(ctx, c, e))
	}
	return results
}

func importEntry(ctx context.Context, c Catalog, e Entry) ImportResult {
	if !e.Price.Set {
		return ImportResult{Entry: e, Action: ActionSkipped}
	}
	price := e.Price.String()

	err := c.Insert(ctx, e.Name, e.Set, price, e.Type)
	if err == nil {
		return ImportResult{Entry: e, Action: ActionAdded}
	}
	if !errors.Is(err, catalog.ErrDuplicate) {
		return ImportResult{Entry: e, Action: ActionFailed, Err: err}
	}

	existing, err := c.Get(ctx, e.Name, e.Set)
	if err != nil {
		return ImportResult{Entry: e, Action: ActionFailed, Err: err}
	}
	if existing.Price.Equal(e.Price.Decimal) {
		return ImportResult{Entry: e, Action: ActionSkipped}
	}

	if err := c.UpdatePrice(ctx, existing.Display(), price); err != nil {
		return ImportResult{Entry: e, Action: ActionFailed, Err: err}
	}
	return ImportResult{Entry: e, Action: ActionRepriced}
}

var _ Catalog = (*engine.Engine)(nil)
