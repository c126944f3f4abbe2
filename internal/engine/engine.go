// Package engine implements the card catalog query engine: price-band
// searches around a reference card, facet discovery, and validated edits.
package engine

import (
	"context"
	"fmt"

	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/arcanaland/cardtrader/internal/catalog"
	"github.com/sirupsen/logrus"
)

// Fixed facet choices offered ahead of the discovered ones.
const (
	FacetAll     = "All"
	FacetTradeUp = "Trade Up"
)

// Mode selects how the price window and filter are built.
type Mode int

const (
	ModeAll     Mode = iota // symmetric band
	ModeTradeUp             // reference price up to the upper bound
	ModeFacet               // symmetric band narrowed to one set or type
)

func (m Mode) String() string {
	switch m {
	case ModeTradeUp:
		return FacetTradeUp
	case ModeFacet:
		return "Facet"
	default:
		return FacetAll
	}
}

// ModeFor maps a facet selection to a query mode. The empty selection means All.
func ModeFor(facet string) Mode {
	switch facet {
	case "", FacetAll:
		return ModeAll
	case FacetTradeUp:
		return ModeTradeUp
	default:
		return ModeFacet
	}
}

// Request is one price-band search.
type Request struct {
	Reference  card.Reference
	Percentage int
	Facet      string // "", All, Trade Up, or a set/type value
}

// Result is the structured answer to a Request. Formatting is left to callers.
type Result struct {
	Reference card.Reference
	Band      Band // symmetric band for the requested percentage
	Window    Band // bounds actually queried
	Mode      Mode
	Facet     string
	Cards     []card.Card
	Facets    []string // distinct sets and types seen, first-seen order
}

// Engine answers catalog queries against an injected store.
type Engine struct {
	store catalog.Store
	log   logrus.FieldLogger
}

// New creates an engine over store.
func New(store catalog.Store, log logrus.FieldLogger) *Engine {
	return &Engine{store: store, log: log}
}

// SearchDisplay parses a "name | set | $price" reference and runs Search.
func (e *Engine) SearchDisplay(ctx context.Context, reference string, percentage int, facet string) (*Result, error) {
	ref, err := card.ParseReference(reference)
	if err != nil {
		return nil, err
	}
	return e.Search(ctx, Request{Reference: ref, Percentage: percentage, Facet: facet})
}

// Search lists catalog cards priced near the reference. The reference card is
// never part of the result, and promotional sets are excluded by the store.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	band, err := ComputeBand(req.Reference.Price, req.Percentage)
	if err != nil {
		return nil, err
	}

	mode := ModeFor(req.Facet)
	filter := catalog.Filter{Lower: band.Lower, Upper: band.Upper}
	switch mode {
	case ModeTradeUp:
		filter.Lower = req.Reference.Price
	case ModeFacet:
		filter.Facet = req.Facet
	}

	rows, err := e.store.Scan(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search around %s: %w", req.Reference, err)
	}

	result := &Result{
		Reference: req.Reference,
		Band:      band,
		Window:    Band{Lower: filter.Lower, Upper: filter.Upper},
		Mode:      mode,
		Facet:     req.Facet,
		Cards:     make([]card.Card, 0, len(rows)),
	}

	facets := newFacetCollector(req.Facet)
	for _, c := range rows {
		facets.add(c.Set)
		facets.add(c.Type)
		if c.Name == req.Reference.Name {
			continue
		}
		result.Cards = append(result.Cards, c)
	}
	result.Facets = facets.values

	e.log.WithFields(logrus.Fields{
		"reference": req.Reference.String(),
		"mode":      mode.String(),
		"window":    result.Window.String(),
		"matches":   len(result.Cards),
	}).Debug("search complete")

	return result, nil
}

// Get returns the card keyed by (name, set).
func (e *Engine) Get(ctx context.Context, name, set string) (*card.Card, error) {
	return e.store.Get(ctx, name, set)
}

// facetCollector keeps distinct non-empty values in first-seen order,
// skipping the facet that is currently selected.
type facetCollector struct {
	selected string
	seen     map[string]struct{}
	values   []string
}

func newFacetCollector(selected string) *facetCollector {
	return &facetCollector{selected: selected, seen: make(map[string]struct{}), values: []string{}}
}

func (f *facetCollector) add(v string) {
	if v == "" || v == f.selected {
		return
	}
	if _, ok := f.seen[v]; ok {
		return
	}
	f.seen[v] = struct{}{}
	f.values = append(f.values, v)
}
