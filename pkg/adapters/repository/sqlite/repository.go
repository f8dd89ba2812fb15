package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_owner_created ON bookmarks(owner_id, created_at);
	`
	_, err := db.Exec(query)
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) ListBookmarks(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	query := `SELECT id, owner_id, title, url, created_at
			  FROM bookmarks WHERE owner_id = ?
			  ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

func (r *SQLiteRepository) InsertBookmark(ctx context.Context, b *domain.Bookmark) error {
	b.CreatedAt = r.now().UTC()
	return r.insert(ctx, b)
}

// Restore inserts a bookmark keeping its CreatedAt, for imports.
// A zero CreatedAt falls back to now.
func (r *SQLiteRepository) Restore(ctx context.Context, b *domain.Bookmark) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.now()
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return r.insert(ctx, b)
}

func (r *SQLiteRepository) insert(ctx context.Context, b *domain.Bookmark) error {
	query := `INSERT INTO bookmarks (owner_id, title, url, created_at) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, b.OwnerID, b.Title, b.URL, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	b.ID = id
	return nil
}

func (r *SQLiteRepository) DeleteBookmark(ctx context.Context, ownerID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete bookmark %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Dump returns every bookmark of an owner, or of all owners when ownerID is empty. For migration.
func (r *SQLiteRepository) Dump(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	query := `SELECT id, owner_id, title, url, created_at FROM bookmarks`
	args := []interface{}{}
	if ownerID != "" {
		query += " WHERE owner_id = ?"
		args = append(args, ownerID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dump bookmarks: %w", err)
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

func scanBookmarks(rows *sql.Rows) ([]domain.Bookmark, error) {
	bookmarks := []domain.Bookmark{}
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Title, &b.URL, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// Ensure interface compliance
var _ ports.BookmarkStore = (*SQLiteRepository)(nil)
