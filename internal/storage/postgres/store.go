package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/agro-market-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence.
type Store struct {
	pool *pgxpool.Pool
}

// querier is the subset of pgx.Tx the repositories need.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithinTx runs fn in a transaction and commits when it returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repos{q: tx})
	})
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uuid UUID PRIMARY KEY,
			role VARCHAR(128) NOT NULL DEFAULT 'user',
			first_name VARCHAR(128) NOT NULL,
			last_name VARCHAR(128) NOT NULL,
			middle_name VARCHAR(128),
			email VARCHAR(256) NOT NULL,
			phone VARCHAR(32),
			password_hash BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ,
			deleted_at TIMESTAMPTZ
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (email);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + phoneUniqueIndex + ` ON users (phone) WHERE phone IS NOT NULL;`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			uuid UUID PRIMARY KEY,
			user_uuid UUID NOT NULL REFERENCES users (uuid),
			token VARCHAR(2048) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS refresh_tokens_token_idx ON refresh_tokens (token);`,
		`CREATE TABLE IF NOT EXISTS buyers (
			uuid UUID PRIMARY KEY,
			user_uuid UUID NOT NULL UNIQUE REFERENCES users (uuid),
			delivery_address TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS farmers (
			uuid UUID PRIMARY KEY,
			user_uuid UUID NOT NULL UNIQUE REFERENCES users (uuid),
			government_issued_id VARCHAR(128) NOT NULL,
			farm_address TEXT NOT NULL,
			farm_size DOUBLE PRECISION,
			additional_info TEXT
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// repos binds every repository to the same transaction.
type repos struct {
	q querier
}

func (r *repos) Users() storage.UserStore                 { return &userRepo{q: r.q} }
func (r *repos) RefreshTokens() storage.RefreshTokenStore { return &refreshTokenRepo{q: r.q} }
func (r *repos) Buyers() storage.BuyerStore               { return &buyerRepo{q: r.q} }
func (r *repos) Farmers() storage.FarmerStore             { return &farmerRepo{q: r.q} }

const phoneUniqueIndex = "users_phone_unique_idx"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
