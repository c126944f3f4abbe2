// Package catalog persists the card inventory. The query engine talks to it
// through the Store interface; SQLiteStore is the production implementation.
package catalog

import (
	"context"
	"errors"

	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("card not found")
	ErrDuplicate = errors.New("card already exists")
	ErrNotOpened = errors.New("database not opened")
)

// Filter selects cards for a price-band scan. Lower and Upper are inclusive.
// Promotional sets are always excluded.
type Filter struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
	Facet string // When set, only cards whose set or type equals it
}

// Store is the catalog collaborator used by the query engine.
type Store interface {
	// Scan returns cards inside the filter ordered by set, then price.
	Scan(ctx context.Context, f Filter) ([]card.Card, error)

	// Get returns the card keyed by (name, set) or ErrNotFound.
	Get(ctx context.Context, name, set string) (*card.Card, error)

	// All returns every card ordered by name, then set.
	All(ctx context.Context) ([]card.Card, error)

	// Insert adds a card, failing with ErrDuplicate if (name, set) exists.
	Insert(ctx context.Context, c card.Card) error

	// UpdatePrice re-prices the card keyed by (name, set) or returns ErrNotFound.
	UpdatePrice(ctx context.Context, name, set string, price decimal.Decimal) error

	// Delete removes the card keyed by (name, set) or returns ErrNotFound.
	Delete(ctx context.Context, name, set string) error

	// TagType sets type to marker on cards whose name contains marker but not
	// exclude, returning how many rows changed.
	TagType(ctx context.Context, marker, exclude string) (int64, error)
}
