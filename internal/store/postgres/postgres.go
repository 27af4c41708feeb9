// Package postgres is the pgx-backed store.Store. Queries are built with
// squirrel; the schema ships as embedded golang-migrate migrations applied
// by New.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/unkn0wn-root/repcache"
	"github.com/unkn0wn-root/repcache/internal/shop"
	"github.com/unkn0wn-root/repcache/internal/store"
)

var _ store.Store = (*Store)(nil)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLSTATE codes the store translates.
const (
	codeUniqueViolation  = "23505"
	codeForeignKey       = "23503"
	codeCheckViolation   = "23514"
	codeNotNullViolation = "23502"
	codeOutOfRange       = "22003"
)

type Store struct {
	pool *pgxpool.Pool
	log  repcache.Logger
}

// New applies pending migrations and opens a pool on dsn.
func New(ctx context.Context, dsn string, log repcache.Logger) (*Store, error) {
	if log == nil {
		log = repcache.NopLogger{}
	}
	if err := migrateUp(dsn, log); err != nil {
		return nil, fmt.Errorf("postgres: migrations: %w", err)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	log.Info("postgres pool ready", repcache.Fields{"max_conns": cfg.MaxConns})
	return &Store{pool: pool, log: log}, nil
}

func migrateUp(dsn string, log repcache.Logger) error {
	// golang-migrate needs a database/sql handle, separate from the pool
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	driver, err := mpg.WithInstance(db, &mpg.Config{})
	if err != nil {
		return fmt.Errorf("driver: %w", err)
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("no migrations to apply", nil)
			return nil
		}
		return err
	}
	log.Info("migrations applied", nil)
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() { s.pool.Close() }

func (s *Store) qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	// no-op once committed
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) trace(op, query string, start time.Time, err error) {
	f := repcache.Fields{"op": op, "sql": query, "took": time.Since(start).String()}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		f["err"] = err
		s.log.Warn("query failed", f)
		return
	}
	s.log.Debug("query", f)
}

// mapErr turns driver errors into the shop sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shop.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", shop.ErrConflict, pgErr.Detail)
		case codeForeignKey, codeCheckViolation, codeNotNullViolation, codeOutOfRange:
			return fmt.Errorf("%w: %s", shop.ErrValidation, pgErr.Message)
		}
	}
	return err
}

func orderBy(p shop.ListParams) ([]string, error) {
	col := p.OrderBy
	switch col {
	case "id", "created_at", "updated_at":
	default:
		return nil, fmt.Errorf("%w: cannot order by %q", shop.ErrValidation, col)
	}
	dir := "DESC"
	if p.Order == shop.Asc {
		dir = "ASC"
	}
	if col == "id" {
		return []string{"id " + dir}, nil
	}
	return []string{col + " " + dir, "id " + dir}, nil
}
