package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codeintel/xray/internal/symbol"
)

// edgesBatchSize keeps each INSERT under SQLite's default 999 bind-variable
// limit (4 placeholders per row).
const edgesBatchSize = 999 / 4

// InsertEdge inserts a single edge, relying on the (from_id, to_id,
// edge_type) primary key to silently de-duplicate repeats.
func (s *Store) InsertEdge(e symbol.Edge) error {
	_, err := s.q.Exec(`
		INSERT OR IGNORE INTO edges (from_id, to_id, edge_type, provenance)
		VALUES (?, ?, ?, ?)`,
		e.FromID, e.ToID, string(e.Type), e.Provenance)
	if err != nil {
		return fmt.Errorf("insert edge %d->%d (%s): %w", e.FromID, e.ToID, e.Type, err)
	}
	return nil
}

// InsertEdgeBatch bulk-inserts edges in chunks of edgesBatchSize, ignoring
// duplicates of the (from_id, to_id, edge_type) key.
func (s *Store) InsertEdgeBatch(edges []symbol.Edge) error {
	for start := 0; start < len(edges); start += edgesBatchSize {
		end := start + edgesBatchSize
		if end > len(edges) {
			end = len(edges)
		}
		if err := s.insertEdgeChunk(edges[start:end]); err != nil {
			return err
		}
	}
	slog.Debug("store.edges.insert_batch", "edges", len(edges))
	return nil
}

func (s *Store) insertEdgeChunk(chunk []symbol.Edge) error {
	placeholders := make([]string, 0, len(chunk))
	args := make([]any, 0, len(chunk)*4)
	for _, e := range chunk {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		args = append(args, e.FromID, e.ToID, string(e.Type), e.Provenance)
	}
	query := fmt.Sprintf(`
		INSERT OR IGNORE INTO edges (from_id, to_id, edge_type, provenance)
		VALUES %s`, strings.Join(placeholders, ", "))
	_, err := s.q.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("insert edge batch: %w", err)
	}
	return nil
}

// Dependents returns the edges pointing at id (who depends on id), optionally
// restricted to edgeTypes (all types when empty).
func (s *Store) Dependents(id int64, edgeTypes []symbol.EdgeType) ([]symbol.Edge, error) {
	return s.edgesByEndpoint("to_id", id, edgeTypes)
}

// Dependencies returns the edges id points at (what id depends on),
// optionally restricted to edgeTypes (all types when empty).
func (s *Store) Dependencies(id int64, edgeTypes []symbol.EdgeType) ([]symbol.Edge, error) {
	return s.edgesByEndpoint("from_id", id, edgeTypes)
}

// edgesByEndpoint returns edges matching column = id, ordered by the file and
// line of the symbol at the *other* endpoint so BFS traversal over the result
// is deterministic rather than dependent on SQLite's row storage order.
func (s *Store) edgesByEndpoint(column string, id int64, edgeTypes []symbol.EdgeType) ([]symbol.Edge, error) {
	other := "from_id"
	if column == "from_id" {
		other = "to_id"
	}
	query := fmt.Sprintf(`
		SELECT e.from_id, e.to_id, e.edge_type, e.provenance
		FROM edges e
		JOIN symbols sym ON sym.id = e.%s
		WHERE e.%s = ?`, other, column)
	args := []any{id}
	if len(edgeTypes) > 0 {
		placeholders := make([]string, len(edgeTypes))
		for i, t := range edgeTypes {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		query += fmt.Sprintf(" AND e.edge_type IN (%s)", strings.Join(placeholders, ", "))
	}
	query += " ORDER BY sym.file, sym.line"
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEdges(rows)
}

// FanIn counts distinct incoming edges to id (dependents).
func (s *Store) FanIn(id int64) (int, error) {
	return s.edgeCount("to_id", id)
}

// FanOut counts distinct outgoing edges from id (dependencies).
func (s *Store) FanOut(id int64) (int, error) {
	return s.edgeCount("from_id", id)
}

func (s *Store) edgeCount(column string, id int64) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM edges WHERE %s = ?`, column)
	if err := s.q.QueryRow(query, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanEdges(rows *sql.Rows) ([]symbol.Edge, error) {
	var out []symbol.Edge
	for rows.Next() {
		var e symbol.Edge
		var edgeType string
		if err := rows.Scan(&e.FromID, &e.ToID, &edgeType, &e.Provenance); err != nil {
			return nil, err
		}
		e.Type = symbol.EdgeType(edgeType)
		out = append(out, e)
	}
	return out, rows.Err()
}
