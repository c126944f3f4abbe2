package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/arcanaland/cardtrader/internal/catalog"
)

// User-facing reasons carried by MutationError.
const (
	ReasonMalformed    = `card must look like "name | set | $price"`
	ReasonMissingField = "name and set are required"
	ReasonDelimiter    = "name and set must not contain '|'"
	ReasonInvalidPrice = "price must be a non-negative number"
	ReasonNotFound     = "card must be in database"
	ReasonDuplicate    = "card already exists"
	ReasonRejected     = "catalog rejected the change"
)

// Mutation operation names.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// MutationError reports a rejected insert, update or delete. The catalog is
// unchanged when one is returned.
type MutationError struct {
	Op     string
	Name   string
	Set    string
	Reason string
	Err    error
}

func (e *MutationError) Error() string {
	if e.Name == "" && e.Set == "" {
		return fmt.Sprintf("%s failed: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s %s | %s failed: %s", e.Op, e.Name, e.Set, e.Reason)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Insert adds a new card. price is parsed as a non-negative decimal.
func (e *Engine) Insert(ctx context.Context, name, set, price, cardType string) error {
	name, set = strings.TrimSpace(name), strings.TrimSpace(set)
	if name == "" || set == "" {
		return &MutationError{Op: OpInsert, Name: name, Set: set, Reason: ReasonMissingField}
	}
	// The display string must parse back to the same name and set.
	if strings.ContainsRune(name+set, '|') {
		return &MutationError{Op: OpInsert, Name: name, Set: set, Reason: ReasonDelimiter}
	}

	p, err := card.ParsePrice(price)
	if err != nil {
		return &MutationError{Op: OpInsert, Name: name, Set: set, Reason: ReasonInvalidPrice, Err: err}
	}

	c := card.Card{Name: name, Set: set, Price: p, Type: strings.TrimSpace(cardType)}
	if err := e.store.Insert(ctx, c); err != nil {
		return storeFailure(OpInsert, name, set, err)
	}
	return nil
}

// UpdatePrice re-prices the card named by a "name | set | $price" reference.
// The price in the reference is ignored; newPrice replaces it.
func (e *Engine) UpdatePrice(ctx context.Context, reference, newPrice string) error {
	ref, err := card.ParseReference(reference)
	if err != nil {
		return &MutationError{Op: OpUpdate, Reason: ReasonMalformed, Err: err}
	}

	p, err := card.ParsePrice(newPrice)
	if err != nil {
		return &MutationError{Op: OpUpdate, Name: ref.Name, Set: ref.Set, Reason: ReasonInvalidPrice, Err: err}
	}

	if err := e.store.UpdatePrice(ctx, ref.Name, ref.Set, p); err != nil {
		return storeFailure(OpUpdate, ref.Name, ref.Set, err)
	}
	return nil
}

// Delete removes the card named by a "name | set | $price" reference.
func (e *Engine) Delete(ctx context.Context, reference string) error {
	ref, err := card.ParseReference(reference)
	if err != nil {
		return &MutationError{Op: OpDelete, Reason: ReasonMalformed, Err: err}
	}

	if err := e.store.Delete(ctx, ref.Name, ref.Set); err != nil {
		return storeFailure(OpDelete, ref.Name, ref.Set, err)
	}
	return nil
}

// NormalizeTypes tags every card whose name contains marker, and no opening
// parenthesis, with type marker. It returns the number of cards changed.
func (e *Engine) NormalizeTypes(ctx context.Context, marker string) (int64, error) {
	if strings.TrimSpace(marker) == "" {
		return 0, errors.New("type marker must not be empty")
	}
	n, err := e.store.TagType(ctx, marker, "(")
	if err != nil {
		return 0, fmt.Errorf("normalize types: %w", err)
	}
	return n, nil
}

func storeFailure(op, name, set string, err error) *MutationError {
	reason := ReasonRejected
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		reason = ReasonNotFound
	case errors.Is(err, catalog.ErrDuplicate):
		reason = ReasonDuplicate
	}
	return &MutationError{Op: op, Name: name, Set: set, Reason: reason, Err: err}
}
