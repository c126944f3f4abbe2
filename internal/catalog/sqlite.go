package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	// pure Go sqlite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver the store opens.
const DriverName = "sqlite"

// busyTimeoutMillis lets a second process wait out a short write instead of failing.
const busyTimeoutMillis = 5000

// cardRow mirrors a Cards row; Type is nullable in databases created elsewhere.
type cardRow struct {
	Name  string          `db:"name"`
	Set   string          `db:"card_set"`
	Price decimal.Decimal `db:"price"`
	Type  sql.NullString  `db:"type"`
}

func (r cardRow) card() card.Card {
	return card.Card{Name: r.Name, Set: r.Set, Price: r.Price, Type: r.Type.String}
}

const selectColumns = `SELECT Name AS name, Card_Set AS card_set, Price AS price, Type AS type FROM Cards`

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db   *sqlx.DB
	path string
	log  logrus.FieldLogger
}

// NewSQLiteStore creates a store; call Open before use.
func NewSQLiteStore(log logrus.FieldLogger) *SQLiteStore {
	return &SQLiteStore{log: log}
}

// NewSQLiteStoreWithDB wraps an already open connection, such as a mock.
func NewSQLiteStoreWithDB(db *sql.DB, log logrus.FieldLogger) *SQLiteStore {
	return &SQLiteStore{db: sqlx.NewDb(db, DriverName), log: log}
}

// Open connects to the database file at path, creating it if needed.
func (s *SQLiteStore) Open(path string) error {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, busyTimeoutMillis)

	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection: the catalog has a single reader and writer per process.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.log.WithField("path", path).Debug("catalog opened")
	return nil
}

// Path returns the file the store was opened on.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Scan implements Store.
func (s *SQLiteStore) Scan(ctx context.Context, f Filter) ([]card.Card, error) {
	if s.db == nil {
		return nil, ErrNotOpened
	}

	query := selectColumns + ` WHERE Price BETWEEN ? AND ? AND Card_Set NOT LIKE '%' || ? || '%'`
	args := []any{f.Lower.InexactFloat64(), f.Upper.InexactFloat64(), card.PromoMarker}
	if f.Facet != "" {
		query += ` AND (Card_Set = ? OR Type = ?)`
		args = append(args, f.Facet, f.Facet)
	}
	query += ` ORDER BY Card_Set, Price, Name`

	var rows []cardRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to scan price band: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"lower": f.Lower.String(),
		"upper": f.Upper.String(),
		"facet": f.Facet,
		"rows":  len(rows),
	}).Debug("price band scanned")

	return toCards(rows), nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, name, set string) (*card.Card, error) {
	if s.db == nil {
		return nil, ErrNotOpened
	}

	var row cardRow
	err := s.db.GetContext(ctx, &row, selectColumns+` WHERE Name = ? AND Card_Set = ?`, name, set)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s | %s", ErrNotFound, name, set)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	c := row.card()
	return &c, nil
}

// All implements Store.
func (s *SQLiteStore) All(ctx context.Context) ([]card.Card, error) {
	if s.db == nil {
		return nil, ErrNotOpened
	}

	var rows []cardRow
	if err := s.db.SelectContext(ctx, &rows, selectColumns+` ORDER BY Name, Card_Set`); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return toCards(rows), nil
}

// Insert implements Store.
func (s *SQLiteStore) Insert(ctx context.Context, c card.Card) error {
	if s.db == nil {
		return ErrNotOpened
	}

	var cardType sql.NullString
	if c.Type != "" {
		cardType = sql.NullString{String: c.Type, Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO Cards (Name, Card_Set, Price, Type) VALUES (?, ?, ?, ?)
		 ON CONFLICT (Name, Card_Set) DO NOTHING`,
		c.Name, c.Set, c.Price.InexactFloat64(), cardType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s | %s", ErrDuplicate, c.Name, c.Set)
	}

	s.log.WithFields(logrus.Fields{"name": c.Name, "set": c.Set}).Info("card inserted")
	return nil
}

// UpdatePrice implements Store.
func (s *SQLiteStore) UpdatePrice(ctx context.Context, name, set string, price decimal.Decimal) error {
	if s.db == nil {
		return ErrNotOpened
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE Cards SET Price = ? WHERE Name = ? AND Card_Set = ?`,
		price.InexactFloat64(), name, set,
	)
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s | %s", ErrNotFound, name, set)
	}

	s.log.WithFields(logrus.Fields{"name": name, "set": set, "price": price.String()}).Info("price updated")
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, name, set string) error {
	if s.db == nil {
		return ErrNotOpened
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM Cards WHERE Name = ? AND Card_Set = ?`, name, set)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s | %s", ErrNotFound, name, set)
	}

	s.log.WithFields(logrus.Fields{"name": name, "set": set}).Info("card deleted")
	return nil
}

// TagType implements Store. Matching is case-sensitive.
func (s *SQLiteStore) TagType(ctx context.Context, marker, exclude string) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpened
	}

	query := `UPDATE Cards SET Type = ? WHERE instr(Name, ?) > 0 AND (Type IS NULL OR Type <> ?)`
	args := []any{marker, marker, marker}
	if exclude != "" {
		query += ` AND instr(Name, ?) = 0`
		args = append(args, exclude)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to tag card types: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count tagged cards: %w", err)
	}

	s.log.WithFields(logrus.Fields{"marker": marker, "rows": n}).Info("card types tagged")
	return n, nil
}

func toCards(rows []cardRow) []card.Card {
	cards := make([]card.Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.card())
	}
	return cards
}
