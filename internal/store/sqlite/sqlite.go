// Package sqlite keeps task documents as JSON in a SQLite table. It mirrors
// the MongoDB collection layout for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/user/wootbridge/internal/store"
	"github.com/user/wootbridge/internal/types"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store opens a new database handle for every request.
type Store struct {
	path string
	opts store.Options
}

var _ types.TaskStore = (*Store)(nil)

// New validates the options and ensures the database and table exist.
func New(ctx context.Context, path string, opts store.Options) (*Store, error) {
	opts = opts.WithDefaults()
	if !identPattern.MatchString(opts.Collection) {
		return nil, fmt.Errorf("invalid table name %q", opts.Collection)
	}
	s := &Store{path: path, opts: opts}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	conn, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)
	if err := conn.migrate(ctx); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

// Insert stores task documents using a short-lived connection.
func (s *Store) Insert(ctx context.Context, docs ...map[string]any) error {
	conn, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	query := fmt.Sprintf(`INSERT INTO %s (document) VALUES (?)`, s.opts.Collection)
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal task: %w", err)
		}
		if _, err := conn.db.ExecContext(ctx, query, string(data)); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}
	return nil
}

// Open returns a connection scoped to one request.
func (s *Store) Open(ctx context.Context) (types.TaskConn, error) {
	conn, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *Store) open(ctx context.Context) (*Conn, error) {
	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Conn{db: db, opts: s.opts}, nil
}

// Conn is one open database handle.
type Conn struct {
	db   *sql.DB
	opts store.Options
}

func (c *Conn) migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		document TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_created ON %[1]s(json_extract(document, '$.created_time'));
	`, c.opts.Collection)
	_, err := c.db.ExecContext(ctx, schema)
	return err
}

// FindByEmail returns the newest tasks whose email field matches exactly.
func (c *Conn) FindByEmail(ctx context.Context, email string, limit int) ([]types.TaskRecord, error) {
	query := fmt.Sprintf(`SELECT document FROM %s
		WHERE json_extract(document, ?) = ?
		ORDER BY json_extract(document, '$.created_time') DESC
		LIMIT ?`, c.opts.Collection)

	rows, err := c.db.QueryContext(ctx, query, jsonPath(c.opts.EmailField), email, c.opts.Clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var records []types.TaskRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, store.RecordFromDocument(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return records, nil
}

func (c *Conn) Close(ctx context.Context) error {
	return c.db.Close()
}

// jsonPath turns "request.notification_email" into "$.request.notification_email".
func jsonPath(field string) string {
	return "$." + strings.Trim(field, ".")
}

func decodeDocument(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return doc, nil
}
