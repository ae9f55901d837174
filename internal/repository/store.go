package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repositories groups the entity repositories bound to one connection or transaction.
type Repositories interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository
}

// Tx is a transaction scope.
type Tx interface {
	Repositories

	// Savepoint runs fn in a nested scope. If fn fails its writes are discarded
	// and the enclosing transaction stays usable.
	Savepoint(ctx context.Context, fn func() error) error
}

// Store is the entity store. Multi-write operations go through WithinTx.
type Store interface {
	Repositories

	// WithinTx runs fn in a transaction, committing if fn returns nil and rolling
	// back on error or panic.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type repositories struct {
	customers CustomerRepository
	products  ProductRepository
	orders    OrderRepository
}

func newRepositories(db DBTX) repositories {
	return repositories{
		customers: NewCustomerRepository(db),
		products:  NewProductRepository(db),
		orders:    NewOrderRepository(db),
	}
}

func (r repositories) Customers() CustomerRepository { return r.customers }
func (r repositories) Products() ProductRepository   { return r.products }
func (r repositories) Orders() OrderRepository       { return r.orders }

type sqlStore struct {
	repositories
	db *sql.DB
}

// NewStore creates a Store backed by db
func NewStore(db *sql.DB) Store {
	return &sqlStore{repositories: newRepositories(db), db: db}
}

func (s *sqlStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txScope{repositories: newRepositories(sqlTx), tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type txScope struct {
	repositories
	tx         *sql.Tx
	savepoints int
}

func (t *txScope) Savepoint(ctx context.Context, fn func() error) error {
	t.savepoints++
	name := fmt.Sprintf("sp_%d", t.savepoints)

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint failed: %v)", err, rbErr)
		}
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}
