package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// documentName is the row holding the deck collection.
const documentName = "decks"

// SQLiteStore keeps the same single JSON document as FileStore, stored as one
// row of a SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenSQLite opens (or creates) the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	log := logger.Default().WithPrefix("sqlite_store")

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening database: %s", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := Migrate(context.Background(), db); err != nil {
		log.Error("failed to apply migrations: %v", err)
		db.Close()
		return nil, err
	}

	log.Info("database ready")
	return &SQLiteStore{db: db, log: log}, nil
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, log: logger.Default().WithPrefix("sqlite_store")}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Read(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("sqlite_store")
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}

	query, args, err := sqlBuilder.
		Select("body").
		From("deck_documents").
		Where(squirrel.Eq{"name": documentName}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var body string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&body); err != nil {
		log.Error("failed to read deck document: %v", err)
		return nil, fmt.Errorf("read deck document: %w", err)
	}
	decks := decode(ctx, []byte(body))
	log.Debug("read %d decks", len(decks))
	return decks, nil
}

func (s *SQLiteStore) Write(ctx context.Context, decks []models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("sqlite_store")
	data, err := encode(decks)
	if err != nil {
		return fmt.Errorf("encode decks: %w", err)
	}

	query, args, err := sqlBuilder.
		Insert("deck_documents").
		Columns("name", "body").
		Values(documentName, string(data)).
		Suffix("ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to write deck document: %v", err)
		return fmt.Errorf("write deck document: %w", err)
	}
	log.Debug("wrote %d decks", len(decks))
	return nil
}

// ensure inserts the empty document row when it does not exist yet.
func (s *SQLiteStore) ensure(ctx context.Context) error {
	query, args, err := sqlBuilder.
		Insert("deck_documents").
		Options("OR IGNORE").
		Columns("name", "body").
		Values(documentName, string(emptyDocument)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create deck document: %w", err)
	}
	return nil
}

// Migrate applies the embedded schema migrations that have not run yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	log := logger.FromContext(ctx).WithPrefix("migrations")
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := migrationApplied(ctx, db, version)
		if err != nil {
			return err
		}
		if applied {
			log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		log.Info("applying migration: %s", version)
		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return err
		}
	}
	return nil
}

func migrationApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_migrations WHERE version = ?`, version).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
