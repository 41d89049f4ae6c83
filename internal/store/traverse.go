package store

import "github.com/codeintel/xray/internal/symbol"

// Direction selects which side of an edge BFS follows.
type Direction string

const (
	// Outbound follows from_id -> to_id (what the seed depends on).
	Outbound Direction = "outbound"
	// Inbound follows to_id -> from_id (what depends on the seed).
	Inbound Direction = "inbound"
)

// Hop is a symbol reached during BFS, with its distance from the seed.
type Hop struct {
	SymbolID int64
	Depth    int
}

// BFSResult holds the reachable set and the edges that produced it.
type BFSResult struct {
	Hops  []Hop
	Edges []symbol.Edge
}

// BFS performs breadth-first traversal from startID, following edges of the
// given types (all types when empty) in the given direction, capped at
// maxDepth hops and maxResults visited symbols. The seed itself is never
// part of Hops, so a maxDepth of 0 (no traversal) returns an empty result.
// Traversal order is FIFO so results at a given
// depth are deterministic across runs.
func (s *Store) BFS(startID int64, direction Direction, edgeTypes []symbol.EdgeType, maxDepth, maxResults int) (*BFSResult, error) {
	result := &BFSResult{}
	if maxDepth <= 0 {
		return result, nil
	}

	visited := map[int64]bool{startID: true}
	type queueItem struct {
		id    int64
		depth int
	}
	queue := []queueItem{{startID, 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.depth >= maxDepth {
			continue
		}

		var edges []symbol.Edge
		var err error
		if direction == Outbound {
			edges, err = s.Dependencies(item.id, edgeTypes)
		} else {
			edges, err = s.Dependents(item.id, edgeTypes)
		}
		if err != nil {
			return nil, err
		}

		for _, e := range edges {
			next := e.ToID
			if direction == Inbound {
				next = e.FromID
			}
			result.Edges = append(result.Edges, e)
			if visited[next] {
				continue
			}
			if len(result.Hops) >= maxResults {
				continue
			}
			visited[next] = true
			result.Hops = append(result.Hops, Hop{SymbolID: next, Depth: item.depth + 1})
			queue = append(queue, queueItem{next, item.depth + 1})
		}

		if len(result.Hops) >= maxResults {
			break
		}
	}

	return result, nil
}
