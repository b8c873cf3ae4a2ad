package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/hongminglow/agro-market-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store provides MySQL-backed persistence over database/sql.
type Store struct {
	db *sql.DB
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewStore connects using a go-sql-driver DSN (user:pass@tcp(host:port)/db),
// verifies the connection and runs migrations.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	// DATETIME -> time.Time, stored in UTC
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := driver.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("build connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithinTx runs fn in a transaction and commits when it returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, &repos{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			role VARCHAR(128) NOT NULL DEFAULT 'user',
			first_name VARCHAR(128) NOT NULL,
			last_name VARCHAR(128) NOT NULL,
			middle_name VARCHAR(128) NULL,
			email VARCHAR(256) NOT NULL,
			phone VARCHAR(32) NULL,
			password_hash BLOB NOT NULL,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			updated_at DATETIME(6) NULL,
			deleted_at DATETIME(6) NULL,
			UNIQUE KEY users_email_unique_idx (email),
			UNIQUE KEY ` + phoneUniqueIndex + ` (phone)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			user_uuid CHAR(36) NOT NULL,
			token VARCHAR(2048) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			KEY refresh_tokens_token_idx (token(255)),
			CONSTRAINT refresh_tokens_user_fk FOREIGN KEY (user_uuid) REFERENCES users (uuid)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS buyers (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			user_uuid CHAR(36) NOT NULL,
			delivery_address TEXT NOT NULL,
			UNIQUE KEY buyers_user_unique_idx (user_uuid),
			CONSTRAINT buyers_user_fk FOREIGN KEY (user_uuid) REFERENCES users (uuid)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS farmers (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			user_uuid CHAR(36) NOT NULL,
			government_issued_id VARCHAR(128) NOT NULL,
			farm_address TEXT NOT NULL,
			farm_size DOUBLE NULL,
			additional_info TEXT NULL,
			UNIQUE KEY farmers_user_unique_idx (user_uuid),
			CONSTRAINT farmers_user_fk FOREIGN KEY (user_uuid) REFERENCES users (uuid)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

type repos struct {
	q querier
}

func (r *repos) Users() storage.UserStore                 { return &userRepo{q: r.q} }
func (r *repos) RefreshTokens() storage.RefreshTokenStore { return &refreshTokenRepo{q: r.q} }
func (r *repos) Buyers() storage.BuyerStore               { return &buyerRepo{q: r.q} }
func (r *repos) Farmers() storage.FarmerStore             { return &farmerRepo{q: r.q} }

const phoneUniqueIndex = "users_phone_unique_idx"

// isDuplicateEntry reports MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateEntry(err error) bool {
	var myErr *driver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// duplicateKey reports whether a 1062 error names the given unique key. The
// server only exposes it in the message: "Duplicate entry 'x' for key 'users.idx'".
func duplicateKey(err error, key string) bool {
	var myErr *driver.MySQLError
	return errors.As(err, &myErr) && strings.Contains(myErr.Message, key)
}
