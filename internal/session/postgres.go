package session

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the session schema up to date.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "pos_sessions_schema"})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// DB is satisfied by *pgxpool.Pool and pgx.Tx; narrow interface for testability.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresCache shares sessions between server instances. Backend tokens are sealed
// before they reach the table.
type PostgresCache struct {
	db     DB
	sealer *Sealer
	ttl    time.Duration
}

func NewPostgresCache(db DB, sealer *Sealer, ttl time.Duration) *PostgresCache {
	return &PostgresCache{db: db, sealer: sealer, ttl: ttl}
}

func (c *PostgresCache) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	var (
		s        Session
		sealed   []byte
		userJSON []byte
	)
	err := c.db.QueryRow(ctx,
		`SELECT id, sealed_token, active_page, user_json, created_at, updated_at
		 FROM pos_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &sealed, &s.ActivePage, &userJSON, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if expired(s, c.ttl, time.Now()) {
		return Session{}, ErrNotFound
	}

	if s.Token, err = c.sealer.Open(sealed); err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if err := json.Unmarshal(userJSON, &s.User); err != nil {
		return Session{}, fmt.Errorf("decode session user: %w", err)
	}
	return s, nil
}

func (c *PostgresCache) Save(ctx context.Context, s Session) error {
	sealed, err := c.sealer.Seal(s.Token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	_, err = c.db.Exec(ctx,
		`INSERT INTO pos_sessions (id, sealed_token, active_page, user_json)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET sealed_token = EXCLUDED.sealed_token,
		     active_page  = EXCLUDED.active_page,
		     user_json    = EXCLUDED.user_json,
		     updated_at   = now()`,
		s.ID, sealed, s.ActivePage, userJSON,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (c *PostgresCache) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := c.db.Exec(ctx, `DELETE FROM pos_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions idle for longer than the ttl.
func (c *PostgresCache) DeleteExpired(ctx context.Context) (int, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	tag, err := c.db.Exec(ctx,
		`DELETE FROM pos_sessions WHERE updated_at < $1`, time.Now().Add(-c.ttl))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
