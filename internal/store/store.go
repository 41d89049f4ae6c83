// Package store implements C3: a single-file transactional SQLite store
// for symbols, aliases and edges, with bulk insert and indexed lookup.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/codeintel/xray/internal/xerrors"
)

// Querier abstracts *sql.DB and *sql.Tx so store methods work identically
// whether called directly or inside WithTransaction.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection for graph storage.
type Store struct {
	db     *sql.DB
	q      Querier // active querier: db or tx
	dbPath string
}

// Dir is the hidden per-root directory holding the store file.
const Dir = ".xray"

// FileName is the store's database file, relative to Dir.
const FileName = "xray.db"

// PathFor returns the store file path for an indexed root.
func PathFor(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// OpenPath opens or creates a SQLite database at dbPath, creating its
// parent directory if needed.
func OpenPath(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &xerrors.StoreError{Op: "mkdir", Err: err}
		}
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, &xerrors.StoreError{Op: "open", Err: err}
	}
	s := &Store{db: db, dbPath: dbPath}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, &xerrors.StoreError{Op: "init schema", Err: err}
	}
	slog.Info("store.schema.init", "path", dbPath)
	return s, nil
}

// Open opens the store for an indexed root at <root>/.xray/xray.db.
func Open(root string) (*Store, error) {
	return OpenPath(PathFor(root))
}

// OpenMemory opens an in-memory SQLite database, for tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, &xerrors.StoreError{Op: "open memory", Err: err}
	}
	s := &Store{db: db, dbPath: ":memory:"}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, &xerrors.StoreError{Op: "init schema", Err: err}
	}
	slog.Debug("store.schema.init", "path", ":memory:")
	return s, nil
}

// WithTransaction executes fn within a single SQLite transaction. The
// callback receives a transaction-scoped Store; all methods called on
// txStore use the transaction. The receiver's q field is never mutated,
// so concurrent read-only callers (using s.q == s.db) are unaffected.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &xerrors.StoreError{Op: "begin tx", Err: err}
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		slog.Warn("store.tx.rollback", "err", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		return &xerrors.StoreError{Op: "commit tx", Err: err}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying sql.DB, for size/availability reporting.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the path the store was opened against.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS symbols (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		canonical_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		column INTEGER NOT NULL,
		end_line INTEGER NOT NULL,
		signature TEXT DEFAULT '',
		parent_id INTEGER REFERENCES symbols(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_symbols_canonical_id ON symbols(canonical_id);
	CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
	CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file);
	CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);
	CREATE INDEX IF NOT EXISTS idx_symbols_file_line ON symbols(file, line);

	CREATE TABLE IF NOT EXISTS symbol_aliases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol_id INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
		alias_type TEXT NOT NULL,
		alias_name TEXT NOT NULL,
		context_file TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_aliases_name ON symbol_aliases(alias_name);
	CREATE INDEX IF NOT EXISTS idx_aliases_type ON symbol_aliases(alias_type);
	CREATE INDEX IF NOT EXISTS idx_aliases_context_file ON symbol_aliases(context_file);
	CREATE INDEX IF NOT EXISTS idx_aliases_symbol_id ON symbol_aliases(symbol_id);

	CREATE TABLE IF NOT EXISTS edges (
		from_id INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
		to_id INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
		edge_type TEXT NOT NULL,
		provenance TEXT DEFAULT '',
		PRIMARY KEY (from_id, to_id, edge_type)
	);

	CREATE INDEX IF NOT EXISTS idx_edges_from_id ON edges(from_id);
	CREATE INDEX IF NOT EXISTS idx_edges_to_id ON edges(to_id);
	CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(edge_type);

	CREATE TABLE IF NOT EXISTS build_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		completed_at TEXT NOT NULL,
		files_indexed INTEGER NOT NULL,
		symbols_indexed INTEGER NOT NULL,
		edges_created INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// TruncateAll clears all three relations transactionally, in FK-safe
// order, ahead of a full rebuild.
func (s *Store) TruncateAll() error {
	for _, stmt := range []string{
		`DELETE FROM edges`,
		`DELETE FROM symbol_aliases`,
		`DELETE FROM symbols`,
		`DELETE FROM build_meta`,
	} {
		if _, err := s.q.Exec(stmt); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
	}
	slog.Debug("store.truncate.done")
	return nil
}

// RecordBuildMeta stamps the completion timestamp and counts for the most
// recent build.
func (s *Store) RecordBuildMeta(completedAt string, filesIndexed, symbolsIndexed, edgesCreated int) error {
	_, err := s.q.Exec(`
		INSERT INTO build_meta (id, completed_at, files_indexed, symbols_indexed, edges_created)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completed_at=excluded.completed_at,
			files_indexed=excluded.files_indexed,
			symbols_indexed=excluded.symbols_indexed,
			edges_created=excluded.edges_created`,
		completedAt, filesIndexed, symbolsIndexed, edgesCreated)
	return err
}

// BuildMeta is the last recorded build completion record.
type BuildMeta struct {
	CompletedAt    string
	FilesIndexed   int
	SymbolsIndexed int
	EdgesCreated   int
}

// LastBuild returns the most recent build_meta row, or nil if none exists.
func (s *Store) LastBuild() (*BuildMeta, error) {
	var m BuildMeta
	err := s.q.QueryRow(`SELECT completed_at, files_indexed, symbols_indexed, edges_created FROM build_meta WHERE id = 1`).
		Scan(&m.CompletedAt, &m.FilesIndexed, &m.SymbolsIndexed, &m.EdgesCreated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
