package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codeintel/xray/internal/symbol"
)

// aliasesBatchSize keeps each INSERT under SQLite's default 999 bind-variable
// limit (4 placeholders per row).
const aliasesBatchSize = 999 / 4

// InsertAliasBatch bulk-inserts aliases in chunks of aliasesBatchSize.
func (s *Store) InsertAliasBatch(aliases []symbol.Alias) error {
	for start := 0; start < len(aliases); start += aliasesBatchSize {
		end := start + aliasesBatchSize
		if end > len(aliases) {
			end = len(aliases)
		}
		if err := s.insertAliasChunk(aliases[start:end]); err != nil {
			return err
		}
	}
	slog.Debug("store.aliases.insert_batch", "aliases", len(aliases))
	return nil
}

func (s *Store) insertAliasChunk(chunk []symbol.Alias) error {
	placeholders := make([]string, 0, len(chunk))
	args := make([]any, 0, len(chunk)*4)
	for _, a := range chunk {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		var ctx any
		if a.ContextFile != "" {
			ctx = a.ContextFile
		}
		args = append(args, a.SymbolID, string(a.Type), a.Name, ctx)
	}
	query := fmt.Sprintf(`
		INSERT INTO symbol_aliases (symbol_id, alias_type, alias_name, context_file)
		VALUES %s`, strings.Join(placeholders, ", "))
	_, err := s.q.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("insert alias batch: %w", err)
	}
	return nil
}

// aliasMatch is a candidate hit for a name lookup, carrying enough to rank
// and to filter by context_file.
type aliasMatch struct {
	SymbolID    int64
	AliasType   symbol.AliasType
	AliasName   string
	ContextFile string
}

// FindByAlias returns every alias row matching name exactly, across all
// alias types, for ranking by FindByName. An empty contextFile means
// no file context is available (e.g. a cross-file reference with to_file
// left null) and admits every alias regardless of its own context_file; a
// non-empty contextFile restricts to aliases that are either unrestricted
// or scoped to that file.
func (s *Store) FindByAlias(name, contextFile string) ([]aliasMatch, error) {
	var rows *sql.Rows
	var err error
	if contextFile == "" {
		rows, err = s.q.Query(`
			SELECT symbol_id, alias_type, alias_name, context_file FROM symbol_aliases
			WHERE alias_name = ? COLLATE NOCASE`, name)
	} else {
		rows, err = s.q.Query(`
			SELECT symbol_id, alias_type, alias_name, context_file FROM symbol_aliases
			WHERE alias_name = ? COLLATE NOCASE AND (context_file IS NULL OR context_file = ?)`,
			name, contextFile)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAliasMatches(rows)
}

// FindByAliasPrefix returns alias rows whose name starts with prefix, for
// the prefix-match tier of find_symbol ranking.
func (s *Store) FindByAliasPrefix(prefix string) ([]aliasMatch, error) {
	rows, err := s.q.Query(`
		SELECT symbol_id, alias_type, alias_name, context_file FROM symbol_aliases
		WHERE alias_name LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAliasMatches(rows)
}

// FindByAliasSubstring returns alias rows containing substr anywhere, for
// the substring-match tier of find_symbol ranking.
func (s *Store) FindByAliasSubstring(substr string) ([]aliasMatch, error) {
	rows, err := s.q.Query(`
		SELECT symbol_id, alias_type, alias_name, context_file FROM symbol_aliases
		WHERE alias_name LIKE ? ESCAPE '\'`, "%"+escapeLike(substr)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAliasMatches(rows)
}

func scanAliasMatches(rows *sql.Rows) ([]aliasMatch, error) {
	var out []aliasMatch
	for rows.Next() {
		var m aliasMatch
		var aliasType string
		var ctx sql.NullString
		if err := rows.Scan(&m.SymbolID, &aliasType, &m.AliasName, &ctx); err != nil {
			return nil, err
		}
		m.AliasType = symbol.AliasType(aliasType)
		m.ContextFile = ctx.String
		out = append(out, m)
	}
	return out, rows.Err()
}

// escapeLike escapes LIKE wildcards in a user-supplied fragment.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
