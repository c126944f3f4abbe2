package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPercentage is the band tolerance used when none is configured.
const DefaultPercentage = 20

var ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")

var hundred = decimal.NewFromInt(100)

// Band is an inclusive price window.
type Band struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

// ComputeBand returns the symmetric window price*(1±percentage/100).
func ComputeBand(price decimal.Decimal, percentage int) (Band, error) {
	if percentage < 0 || percentage > 100 {
		return Band{}, fmt.Errorf("%w: got %d", ErrPercentageOutOfRange, percentage)
	}

	ratio := decimal.NewFromInt(int64(percentage)).Div(hundred)
	return Band{
		Lower: price.Mul(decimal.NewFromInt(1).Sub(ratio)),
		Upper: price.Mul(decimal.NewFromInt(1).Add(ratio)),
	}, nil
}

// Contains reports whether price lies inside the band.
func (b Band) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(b.Lower) && price.LessThanOrEqual(b.Upper)
}

func (b Band) String() string {
	return fmt.Sprintf("[$%s, $%s]", b.Lower.String(), b.Upper.String())
}
