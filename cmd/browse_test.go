package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/arcanaland/cardtrader/internal/catalog"
	"github.com/arcanaland/cardtrader/internal/engine"
	"github.com/arcanaland/cardtrader/internal/testutil"
	colorize "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBrowser(t *testing.T) (*browser, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	colorize.NoColor = true
	log := testutil.NewTestLogger(t)

	store := catalog.NewSQLiteStore(log)
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "cards.db")))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())

	e := engine.New(store, log)
	ctx := context.Background()
	require.NoError(t, e.Insert(ctx, "Charizard", "Base Set", "300", "Holo"))
	require.NoError(t, e.Insert(ctx, "Blastoise", "Base Set", "250", "Holo"))
	require.NoError(t, e.Insert(ctx, "Venusaur", "Jungle", "355", "Rare"))
	require.NoError(t, e.Insert(ctx, "Chansey", "Base Set", "40", "Holo"))

	var out, errOut bytes.Buffer
	return &browser{engine: e, out: &out, errOut: &errOut, percentage: 20}, &out, &errOut
}

func TestBrowser_Session(t *testing.T) {
	b, out, errOut := setupBrowser(t)
	ctx := context.Background()

	assert.False(t, b.handle(ctx, ":all"))
	assert.Contains(t, errOut.String(), "Enter a card reference first")

	assert.False(t, b.handle(ctx, "Charizard | Base Set | $300"))
	assert.Contains(t, out.String(), "(2 cards)")

	out.Reset()
	assert.False(t, b.handle(ctx, ":tradeup"))
	assert.Contains(t, out.String(), "Venusaur")
	assert.NotContains(t, out.String(), "Blastoise")

	out.Reset()
	assert.False(t, b.handle(ctx, ":facet Jungle"))
	assert.Contains(t, out.String(), "(1 cards)")
	assert.Equal(t, "Jungle", b.facet)

	out.Reset()
	assert.False(t, b.handle(ctx, ":percent 5"))
	assert.Contains(t, out.String(), "(0 cards)")

	out.Reset()
	assert.False(t, b.handle(ctx, ":all"))
	assert.Contains(t, out.String(), "[$285, $315]")

	// A new reference starts over from the whole band.
	b.handle(ctx, ":facet Jungle")
	out.Reset()
	b.handle(ctx, "Blastoise | Base Set | $250")
	assert.Equal(t, engine.FacetAll, b.facet)

	assert.True(t, b.handle(ctx, ":quit"))
}

func TestBrowser_BadInput(t *testing.T) {
	b, _, errOut := setupBrowser(t)
	ctx := context.Background()

	tests := []struct {
		line string
		want string
	}{
		{line: "Charizard", want: "Error:"},
		{line: ":facet", want: "Usage: :facet"},
		{line: ":percent lots", want: "Usage: :percent"},
		{line: ":percent 101", want: "Usage: :percent"},
		{line: ":dance", want: "Unknown command: :dance"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			errOut.Reset()
			assert.False(t, b.handle(ctx, tt.line))
			assert.Contains(t, errOut.String(), tt.want)
		})
	}

	assert.False(t, b.handle(ctx, "   "))
	assert.Equal(t, 20, b.percentage)
}

func TestReferenceCompleter(t *testing.T) {
	b, _, _ := setupBrowser(t)
	c := &referenceCompleter{ctx: context.Background(), engine: b.engine}

	line := []rune("Cha")
	got, length := c.Do(line, len(line))
	assert.Equal(t, 3, length)
	assert.Equal(t, [][]rune{[]rune("nsey | Base Set | $40"), []rune("rizard | Base Set | $300")}, got)

	// Completion appends, so a case mismatch offers nothing.
	line = []rune("cha")
	got, _ = c.Do(line, len(line))
	assert.Empty(t, got)

	line = []rune(":fa")
	got, _ = c.Do(line, len(line))
	assert.Empty(t, got)
}

func TestCompletions_ExactCaseBeyondFoldedMatches(t *testing.T) {
	b, _, _ := setupBrowser(t)
	ctx := context.Background()

	// Upper-case names sort ahead of "Charizard" and fold to the same prefix.
	for i := 0; i < maxCompletions+5; i++ {
		require.NoError(t, b.engine.Insert(ctx, fmt.Sprintf("CHAR%02d", i), "Bulk", "1", ""))
	}

	got := completions(ctx, b.engine, "Char")
	assert.Equal(t, [][]rune{[]rune("izard | Base Set | $300")}, got)

	got = completions(ctx, b.engine, "CHAR")
	assert.Len(t, got, maxCompletions)
}
