package repository

import (
	"context"
	"database/sql"
	"errors"

	listingDomain "github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/domain"
	"github.com/samber/oops"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS subscriber (
		id INTEGER PRIMARY KEY,
		min_price NUMERIC NULL CHECK(min_price > 0),
		max_price NUMERIC NULL CHECK(max_price > 0)
	)
`

// SQLiteStorage implements Repository backed by an embedded SQLite file.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (and if needed initializes) the database at path.
func NewSQLiteStorage(path string) (Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, oops.With("database_path", path, "context", "opening database").Wrap(err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, oops.With("database_path", path, "context", "creating schema").Wrap(err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) ListInterested(ctx context.Context, price listingDomain.Price) ([]*domain.Subscriber, error) {
	const query = `
		SELECT id, min_price, max_price FROM subscriber
		WHERE
		  (min_price <= ? OR min_price IS NULL) AND
		  (? <= max_price OR max_price IS NULL)
	`
	value := price.Float64()
	rows, err := s.db.QueryContext(ctx, query, value, value)
	if err != nil {
		return nil, oops.With("price", price.String(), "context", "selecting interested subscribers").Wrap(err)
	}
	defer rows.Close()

	var subscribers []*domain.Subscriber
	for rows.Next() {
		subscriber, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subscribers = append(subscribers, subscriber)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("context", "iterating subscribers").Wrap(err)
	}

	return subscribers, nil
}

func (s *SQLiteStorage) GetOrCreate(ctx context.Context, id int64) (*domain.Subscriber, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, min_price, max_price FROM subscriber WHERE id = ?`, id)
	subscriber, err := scanSubscriber(row)
	if err == nil {
		return subscriber, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, oops.With("subscriber_id", id, "context", "reading subscriber").Wrap(err)
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO subscriber (id) VALUES (?)`, id); err != nil {
		return nil, oops.With("subscriber_id", id, "context", "creating subscriber").Wrap(err)
	}
	return &domain.Subscriber{ID: id}, nil
}

func (s *SQLiteStorage) Update(ctx context.Context, subscriber *domain.Subscriber) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE subscriber SET min_price = ?, max_price = ? WHERE id = ?`,
		priceValue(subscriber.MinPrice),
		priceValue(subscriber.MaxPrice),
		subscriber.ID,
	)
	if err != nil {
		return oops.With("subscriber_id", subscriber.ID, "context", "updating subscriber").Wrap(err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscriber(row rowScanner) (*domain.Subscriber, error) {
	var (
		id       int64
		minPrice sql.NullFloat64
		maxPrice sql.NullFloat64
	)
	if err := row.Scan(&id, &minPrice, &maxPrice); err != nil {
		return nil, err
	}

	subscriber := &domain.Subscriber{ID: id}
	var err error
	if subscriber.MinPrice, err = nullablePrice(minPrice); err != nil {
		return nil, oops.With("subscriber_id", id, "column", "min_price").Wrap(err)
	}
	if subscriber.MaxPrice, err = nullablePrice(maxPrice); err != nil {
		return nil, oops.With("subscriber_id", id, "column", "max_price").Wrap(err)
	}
	return subscriber, nil
}

func nullablePrice(value sql.NullFloat64) (*listingDomain.Price, error) {
	if !value.Valid {
		return nil, nil
	}
	return listingDomain.OptionalPrice(value.Float64)
}

func priceValue(price *listingDomain.Price) any {
	if price == nil {
		return nil
	}
	return price.Float64()
}
