package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codeintel/xray/internal/symbol"
)

// symbolsBatchSize keeps each INSERT under SQLite's default 999 bind-variable
// limit (9 placeholders per row).
const symbolsBatchSize = 999 / 9

// InsertSymbol inserts a single symbol and returns its assigned row ID.
func (s *Store) InsertSymbol(sym symbol.Symbol) (int64, error) {
	res, err := s.q.Exec(`
		INSERT INTO symbols (canonical_id, name, kind, file, line, column, end_line, signature, parent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.CanonicalID, sym.Name, string(sym.Kind), sym.File, sym.Line, sym.Column, sym.EndLine, sym.Signature, sym.ParentID)
	if err != nil {
		return 0, fmt.Errorf("insert symbol %s: %w", sym.CanonicalID, err)
	}
	return res.LastInsertId()
}

// InsertSymbolBatch bulk-inserts symbols in chunks of symbolsBatchSize and
// returns their assigned IDs in input order. parent_id is not resolved here;
// callers patch it afterward with PatchParentID once every symbol in the
// file set has a store-assigned ID.
func (s *Store) InsertSymbolBatch(syms []symbol.Symbol) ([]int64, error) {
	ids := make([]int64, 0, len(syms))
	for start := 0; start < len(syms); start += symbolsBatchSize {
		end := start + symbolsBatchSize
		if end > len(syms) {
			end = len(syms)
		}
		chunkIDs, err := s.insertSymbolChunk(syms[start:end])
		if err != nil {
			return nil, err
		}
		ids = append(ids, chunkIDs...)
	}
	slog.Debug("store.symbols.insert_batch", "symbols", len(ids))
	return ids, nil
}

func (s *Store) insertSymbolChunk(chunk []symbol.Symbol) ([]int64, error) {
	placeholders := make([]string, 0, len(chunk))
	args := make([]any, 0, len(chunk)*9)
	for _, sym := range chunk {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, sym.CanonicalID, sym.Name, string(sym.Kind), sym.File, sym.Line, sym.Column, sym.EndLine, sym.Signature, sym.ParentID)
	}
	query := fmt.Sprintf(`
		INSERT INTO symbols (canonical_id, name, kind, file, line, column, end_line, signature, parent_id)
		VALUES %s`, strings.Join(placeholders, ", "))
	if _, err := s.q.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("insert symbol batch: %w", err)
	}

	ids := make([]int64, len(chunk))
	for i, sym := range chunk {
		row := s.q.QueryRow(`SELECT id FROM symbols WHERE canonical_id = ?`, sym.CanonicalID)
		if err := row.Scan(&ids[i]); err != nil {
			return nil, fmt.Errorf("resolve inserted id for %s: %w", sym.CanonicalID, err)
		}
	}
	return ids, nil
}

// PatchParentID sets the parent_id of a single symbol after both rows exist.
func (s *Store) PatchParentID(childID, parentID int64) error {
	_, err := s.q.Exec(`UPDATE symbols SET parent_id = ? WHERE id = ?`, parentID, childID)
	return err
}

// SymbolByID fetches a symbol by its store ID.
func (s *Store) SymbolByID(id int64) (*symbol.Symbol, error) {
	row := s.q.QueryRow(`
		SELECT id, canonical_id, name, kind, file, line, column, end_line, signature, parent_id
		FROM symbols WHERE id = ?`, id)
	return scanSymbol(row)
}

// SymbolsByFile returns every symbol recorded for a file, ordered by line.
func (s *Store) SymbolsByFile(file string) ([]symbol.Symbol, error) {
	rows, err := s.q.Query(`
		SELECT id, canonical_id, name, kind, file, line, column, end_line, signature, parent_id
		FROM symbols WHERE file = ? ORDER BY line`, file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// SymbolsByKinds returns every symbol whose kind is in kinds.
func (s *Store) SymbolsByKinds(kinds []symbol.Kind) ([]symbol.Symbol, error) {
	placeholders := make([]string, len(kinds))
	args := make([]any, len(kinds))
	for i, k := range kinds {
		placeholders[i] = "?"
		args[i] = string(k)
	}
	query := fmt.Sprintf(`
		SELECT id, canonical_id, name, kind, file, line, column, end_line, signature, parent_id
		FROM symbols WHERE kind IN (%s)`, strings.Join(placeholders, ", "))
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// KindCounts returns a histogram of symbol counts per kind.
func (s *Store) KindCounts() (map[symbol.Kind]int, error) {
	rows, err := s.q.Query(`SELECT kind, COUNT(*) FROM symbols GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[symbol.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[symbol.Kind(kind)] = n
	}
	return counts, rows.Err()
}

// CountSymbols returns the total number of stored symbols.
func (s *Store) CountSymbols() (int, error) {
	var n int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM symbols`).Scan(&n)
	return n, err
}

// CountEdges returns the total number of stored edges.
func (s *Store) CountEdges() (int, error) {
	var n int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&n)
	return n, err
}

// SymbolAtLine returns the innermost symbol enclosing the given line in
// file: the one whose [line, end_line] span contains it with the smallest
// span, breaking ties by the deepest parent chain (largest line number).
func (s *Store) SymbolAtLine(file string, line int) (*symbol.Symbol, error) {
	rows, err := s.q.Query(`
		SELECT id, canonical_id, name, kind, file, line, column, end_line, signature, parent_id
		FROM symbols WHERE file = ? AND line <= ? AND end_line >= ?
		ORDER BY (end_line - line) ASC, line DESC`, file, line, line)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	syms, err := scanSymbols(rows)
	if err != nil {
		return nil, err
	}
	if len(syms) == 0 {
		return nil, nil
	}
	return &syms[0], nil
}

func scanSymbol(row *sql.Row) (*symbol.Symbol, error) {
	var sym symbol.Symbol
	err := row.Scan(&sym.ID, &sym.CanonicalID, &sym.Name, &sym.Kind, &sym.File, &sym.Line, &sym.Column, &sym.EndLine, &sym.Signature, &sym.ParentID)
	if err != nil {
		return nil, err
	}
	return &sym, nil
}

func scanSymbols(rows *sql.Rows) ([]symbol.Symbol, error) {
	var out []symbol.Symbol
	for rows.Next() {
		var sym symbol.Symbol
		if err := rows.Scan(&sym.ID, &sym.CanonicalID, &sym.Name, &sym.Kind, &sym.File, &sym.Line, &sym.Column, &sym.EndLine, &sym.Signature, &sym.ParentID); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}
