package card

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Reference
	}{
		{
			name:  "canonical",
			input: "Charizard | Base Set | $300",
			want:  Reference{Name: "Charizard", Set: "Base Set", Price: decimal.NewFromInt(300)},
		},
		{
			name:  "extra whitespace",
			input: "  Mewtwo EX   |  Next Destinies |   $12.50  ",
			want:  Reference{Name: "Mewtwo EX", Set: "Next Destinies", Price: decimal.RequireFromString("12.50")},
		},
		{
			name:  "no whitespace",
			input: "Pikachu|Jungle|$0",
			want:  Reference{Name: "Pikachu", Set: "Jungle", Price: decimal.Zero},
		},
		{
			name:  "dollar sign inside the name",
			input: "Ca$h Card | Base Set | $4.25",
			want:  Reference{Name: "Ca$h Card", Set: "Base Set", Price: decimal.RequireFromString("4.25")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReference(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Set, got.Set)
			assert.True(t, tt.want.Price.Equal(got.Price), "price: want %s, got %s", tt.want.Price, got.Price)
		})
	}
}

func TestParseReference_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"Charizard Base Set $300",
		"Charizard | Base Set | 300",
		"Charizard - Base Set - $300",
		"Charizard | $300",
		"Charizard | Base Set | Holo | $300",
		" | Base Set | $300",
		"Charizard |  | $300",
		"Charizard | Base Set | $",
		"Charizard | Base Set | $three hundred",
		"Charizard | Base Set | $-1",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseReference(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedReference)
		})
	}
}

func TestParseReference_NegativePriceIsInvalidPrice(t *testing.T) {
	_, err := ParseReference("Charizard | Base Set | $-20")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestReferenceRoundTrip(t *testing.T) {
	c := Card{Name: "Blastoise", Set: "Base Set", Price: decimal.RequireFromString("350.75"), Type: "Holo"}

	ref, err := ParseReference(c.Display())
	require.NoError(t, err)
	assert.Equal(t, "Blastoise | Base Set | $350.75", c.Display())
	assert.Equal(t, c.Name, ref.Name)
	assert.Equal(t, c.Set, ref.Set)
	assert.True(t, c.Price.Equal(ref.Price))
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice(" $19.99 ")
	require.NoError(t, err)
	assert.Equal(t, "19.99", p.String())

	_, err = ParsePrice("abc")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = ParsePrice("-0.01")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestIsPromo(t *testing.T) {
	assert.True(t, Card{Set: "Black Star Promo"}.IsPromo())
	assert.True(t, Card{Set: "Promo Set"}.IsPromo())
	assert.False(t, Card{Set: "Base Set"}.IsPromo())
}
