package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Suggest returns display strings of cards whose display form starts with
// prefix, ignoring case. limit <= 0 means no limit.
func (e *Engine) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	cards, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	fold := cases.Fold()
	want := fold.String(prefix)

	suggestions := []string{}
	for _, c := range cards {
		display := c.Display()
		if !strings.HasPrefix(fold.String(display), want) {
			continue
		}
		suggestions = append(suggestions, display)
		if limit > 0 && len(suggestions) == limit {
			break
		}
	}
	return suggestions, nil
}
