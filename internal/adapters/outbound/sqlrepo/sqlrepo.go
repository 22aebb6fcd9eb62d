// Package sqlrepo stores content nodes and their properties in SQLite.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/abdidvp/contentmod/internal/domain"
)

const (
	kindString = "string"
	kindNumber = "number"
	kindBool   = "bool"
	kindOther  = "other"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	path TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS properties (
	path  TEXT NOT NULL REFERENCES nodes(path) ON DELETE CASCADE,
	name  TEXT NOT NULL,
	value TEXT NOT NULL,
	kind  TEXT NOT NULL,
	PRIMARY KEY (path, name)
);
CREATE INDEX IF NOT EXISTS idx_properties_name ON properties(name, kind);
`

// Repository implements domain.QueryBackend on a SQLite database.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (and if needed creates) the database at dsn.
func Open(dsn string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Repository{db: db, logger: logger}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// Search selects nodes at or below q.PathPrefix whose string property starts
// with the value prefix. Prefixes are compared with substr, so matching is
// case-sensitive and no character in user input is special.
func (r *Repository) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	base := domain.NormalizePath(q.PathPrefix)
	if base == "" {
		return nil, fmt.Errorf("empty path prefix")
	}
	where, args := whereClause(base, q.PropertyName, q.Prefix())

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties WHERE "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting matches: %w", err)
	}

	query := "SELECT path FROM properties WHERE " + where + " ORDER BY path"
	if q.MaxResults > 0 {
		query += " LIMIT " + strconv.Itoa(q.MaxResults)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting matches: %w", err)
	}
	defer rows.Close()

	result := &domain.SearchResult{TotalMatches: total}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		result.Nodes = append(result.Nodes, &node{repo: r, path: p})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func whereClause(base, name, prefix string) (string, []any) {
	where := "name = ? AND kind = ? AND substr(value, 1, length(?)) = ?"
	args := []any{name, kindString, prefix, prefix}
	if base != "/" {
		where += " AND (path = ? OR substr(path, 1, length(?)) = ?)"
		args = append(args, base, base+"/", base+"/")
	}
	return where, args
}

// PutNode creates or replaces a node and all of its properties.
func (r *Repository) PutNode(ctx context.Context, p string, props map[string]any) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return putNode(ctx, tx, domain.NormalizePath(p), props)
	})
}

// Source is anything that can enumerate content nodes.
type Source interface {
	Walk(ctx context.Context, fn func(path string, props map[string]any) error) error
}

// Import copies every node of src in a single transaction and returns the
// number of nodes written.
func (r *Repository) Import(ctx context.Context, src Source) (int, error) {
	n := 0
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		return src.Walk(ctx, func(p string, props map[string]any) error {
			if err := putNode(ctx, tx, p, props); err != nil {
				return fmt.Errorf("importing %s: %w", p, err)
			}
			n++
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	r.logger.Info("import finished", zap.Int("nodes", n))
	return n, nil
}

func putNode(ctx context.Context, tx *sql.Tx, p string, props map[string]any) error {
	if _, err := tx.ExecContext(ctx, "INSERT INTO nodes(path) VALUES (?) ON CONFLICT(path) DO NOTHING", p); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM properties WHERE path = ?", p); err != nil {
		return err
	}
	for name, v := range props {
		value, kind := encode(v)
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO properties(path, name, value, kind) VALUES (?, ?, ?, ?)",
			p, name, value, kind); err != nil {
			return err
		}
	}
	return nil
}

func encode(v any) (string, string) {
	switch t := v.(type) {
	case string:
		return t, kindString
	case bool:
		return strconv.FormatBool(t), kindBool
	case int:
		return strconv.Itoa(t), kindNumber
	case int64:
		return strconv.FormatInt(t, 10), kindNumber
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), kindNumber
	default:
		return fmt.Sprint(t), kindOther
	}
}

func (r *Repository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type node struct {
	repo   *Repository
	path   string
	staged map[string]string
}

func (n *node) Path() string { return n.path }

func (n *node) Property(name string) (string, error) {
	if v, ok := n.staged[name]; ok {
		return v, nil
	}
	var value, kind string
	err := n.repo.db.QueryRow(
		"SELECT value, kind FROM properties WHERE path = ? AND name = ?", n.path, name,
	).Scan(&value, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrPropertyNotFound
	}
	if err != nil {
		return "", err
	}
	if kind != kindString {
		return "", domain.ErrPropertyNotString
	}
	return value, nil
}

func (n *node) SetProperty(name, value string) error {
	if n.staged == nil {
		n.staged = make(map[string]string)
	}
	n.staged[name] = value
	return nil
}

// Commit writes the staged values of this node in one transaction.
func (n *node) Commit(ctx context.Context) error {
	if len(n.staged) == 0 {
		return nil
	}
	err := n.repo.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes WHERE path = ?", n.path).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("node %s no longer exists", n.path)
		}
		for name, value := range n.staged {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO properties(path, name, value, kind) VALUES (?, ?, ?, ?)
				 ON CONFLICT(path, name) DO UPDATE SET value = excluded.value, kind = excluded.kind`,
				n.path, name, value, kindString); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	n.staged = nil
	return nil
}
