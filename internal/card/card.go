package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PromoMarker marks promotional sets, which never take part in price comparisons.
const PromoMarker = "Promo"

var (
	ErrMalformedReference = errors.New("malformed card reference")
	ErrInvalidPrice       = errors.New("price must be a non-negative number")
)

// Card represents a priced card in the catalog
type Card struct {
	Name  string          // Card name, unique together with Set
	Set   string          // Release or edition the card belongs to
	Price decimal.Decimal // Market price, never negative
	Type  string          // Categorical tag (rarity, class); empty when untagged
}

// Display formats the card the way references are typed: "name | set | $price"
func (c Card) Display() string {
	return Reference{Name: c.Name, Set: c.Set, Price: c.Price}.String()
}

// IsPromo reports whether the card belongs to a promotional set
func (c Card) IsPromo() bool {
	return strings.Contains(c.Set, PromoMarker)
}

// Reference identifies the card a search is anchored on
type Reference struct {
	Name  string
	Set   string
	Price decimal.Decimal
}

func (r Reference) String() string {
	return fmt.Sprintf("%s | %s | $%s", r.Name, r.Set, r.Price.String())
}

// ParseReference recovers name, set and price from a "name | set | $price" string.
func ParseReference(s string) (Reference, error) {
	if !strings.Contains(s, "|") || !strings.Contains(s, "$") {
		return Reference{}, fmt.Errorf("%w: %q needs both '|' and '$'", ErrMalformedReference, s)
	}

	fields := strings.Split(s, "|")
	if len(fields) != 3 {
		return Reference{}, fmt.Errorf("%w: %q has %d fields, want 3", ErrMalformedReference, s, len(fields))
	}

	name := strings.TrimSpace(fields[0])
	set := strings.TrimSpace(fields[1])
	if name == "" || set == "" {
		return Reference{}, fmt.Errorf("%w: %q is missing a name or set", ErrMalformedReference, s)
	}

	segments := strings.Split(s, "$")
	price, err := ParsePrice(segments[len(segments)-1])
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %w", ErrMalformedReference, err)
	}

	return Reference{Name: name, Set: set, Price: price}, nil
}

// ParsePrice parses a non-negative decimal price. A leading '$' is tolerated.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	return price, nil
}
