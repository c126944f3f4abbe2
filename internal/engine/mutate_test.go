package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/arcanaland/cardtrader/internal/catalog"
	"github.com/arcanaland/cardtrader/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireMutationError(t *testing.T, err error, op, reason string) *MutationError {
	t.Helper()
	var mErr *MutationError
	require.True(t, errors.As(err, &mErr), "want *MutationError, got %v", err)
	assert.Equal(t, op, mErr.Op)
	assert.Equal(t, reason, mErr.Reason)
	return mErr
}

func TestMutations_Lifecycle(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Insert(ctx, "Lugia", "Neo Genesis", "420", "Holo"))
	c, err := e.Get(ctx, "Lugia", "Neo Genesis")
	require.NoError(t, err)
	assert.Equal(t, "420", c.Price.String())

	require.NoError(t, e.UpdatePrice(ctx, "Lugia | Neo Genesis | $420", "455.25"))
	c, err = e.Get(ctx, "Lugia", "Neo Genesis")
	require.NoError(t, err)
	assert.Equal(t, "455.25", c.Price.String())

	require.NoError(t, e.Delete(ctx, "Lugia | Neo Genesis | $455.25"))
	_, err = e.Get(ctx, "Lugia", "Neo Genesis")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestInsert_Rejections(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	tests := []struct {
		name, cardName, set, price string
		reason                     string
	}{
		{name: "missing name", cardName: " ", set: "Base Set", price: "1", reason: ReasonMissingField},
		{name: "missing set", cardName: "Abra", set: "", price: "1", reason: ReasonMissingField},
		{name: "text price", cardName: "Abra", set: "Base Set", price: "one", reason: ReasonInvalidPrice},
		{name: "negative price", cardName: "Abra", set: "Base Set", price: "-3", reason: ReasonInvalidPrice},
		{name: "pipe in name", cardName: "Ho-Oh | Alt", set: "Neo", price: "10", reason: ReasonDelimiter},
		{name: "pipe in set", cardName: "Ho-Oh", set: "Neo | Revelation", price: "10", reason: ReasonDelimiter},
		{name: "duplicate", cardName: "Charizard", set: "Base Set", price: "1", reason: ReasonDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Insert(ctx, tt.cardName, tt.set, tt.price, "")
			requireMutationError(t, err, OpInsert, tt.reason)
		})
	}

	c, err := e.Get(ctx, "Charizard", "Base Set")
	require.NoError(t, err)
	assert.Equal(t, "300", c.Price.String())

	_, err = e.Get(ctx, "Ho-Oh | Alt", "Neo")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestInsert_DuplicateWrapsStoreError(t *testing.T) {
	e := setupEngine(t)
	err := e.Insert(context.Background(), "Charizard", "Base Set", "1", "")
	assert.ErrorIs(t, err, catalog.ErrDuplicate)
}

func TestUpdatePrice_Rejections(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	err := e.UpdatePrice(ctx, "Charizard Base Set", "10")
	mErr := requireMutationError(t, err, OpUpdate, ReasonMalformed)
	assert.ErrorIs(t, mErr, card.ErrMalformedReference)

	err = e.UpdatePrice(ctx, "Charizard | Base Set | $300", "ten")
	requireMutationError(t, err, OpUpdate, ReasonInvalidPrice)

	err = e.UpdatePrice(ctx, "Missingno | Glitch | $0", "10")
	requireMutationError(t, err, OpUpdate, ReasonNotFound)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	c, err := e.Get(ctx, "Charizard", "Base Set")
	require.NoError(t, err)
	assert.Equal(t, "300", c.Price.String())
}

func TestDelete_Rejections(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	requireMutationError(t, e.Delete(ctx, "Charizard"), OpDelete, ReasonMalformed)
	requireMutationError(t, e.Delete(ctx, "Charizard | Neo Genesis | $300"), OpDelete, ReasonNotFound)

	_, err := e.Get(ctx, "Charizard", "Base Set")
	assert.NoError(t, err)
}

func TestMutationError_Message(t *testing.T) {
	err := &MutationError{Op: OpDelete, Name: "Charizard", Set: "Base Set", Reason: ReasonNotFound}
	assert.Equal(t, "delete Charizard | Base Set failed: card must be in database", err.Error())

	err = &MutationError{Op: OpUpdate, Reason: ReasonMalformed}
	assert.Equal(t, `update failed: card must look like "name | set | $price"`, err.Error())
}

func TestMutation_StoreRejects(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO Cards").WillReturnError(errors.New("datatype mismatch"))

	e := New(catalog.NewSQLiteStoreWithDB(db, testutil.NewTestLogger(t)), testutil.NewTestLogger(t))
	err = e.Insert(context.Background(), "Abra", "Base Set", "2", "")
	requireMutationError(t, err, OpInsert, ReasonRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeTypes(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Insert(ctx, "Mewtwo EX", "Next Destinies", "40", "Holo"))
	require.NoError(t, e.Insert(ctx, "Mewtwo EX (Full Art)", "Next Destinies", "90", "Ultra"))

	n, err := e.NormalizeTypes(ctx, "EX")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	c, err := e.Get(ctx, "Mewtwo EX", "Next Destinies")
	require.NoError(t, err)
	assert.Equal(t, "EX", c.Type)

	c, err = e.Get(ctx, "Mewtwo EX (Full Art)", "Next Destinies")
	require.NoError(t, err)
	assert.Equal(t, "Ultra", c.Type)

	_, err = e.NormalizeTypes(ctx, "")
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	got, err := e.Suggest(ctx, "chariz", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Charizard | Base Set | $300", "Charizard | Base Set 2 | $290"}, got)

	got, err = e.Suggest(ctx, "CHARIZARD | BASE SET 2", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Charizard | Base Set 2 | $290"}, got)

	got, err = e.Suggest(ctx, "", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = e.Suggest(ctx, "zzz", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
