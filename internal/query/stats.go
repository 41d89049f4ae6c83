package query

import (
	"os"

	"github.com/codeintel/xray/internal/store"
	"github.com/codeintel/xray/internal/symbol"
	"github.com/codeintel/xray/internal/xerrors"
)

// Stats reports on the store backing an indexed root: symbol/edge counts,
// a symbol-kind histogram, on-disk store size, and whether a build has
// actually completed (as opposed to an empty, freshly-created store).
type Stats struct {
	FilesIndexed   int
	SymbolsIndexed int
	EdgesIndexed   int
	KindCounts     map[symbol.Kind]int
	StoreSizeBytes int64
	Available      bool
	LastBuildAt    string
}

// Stats gathers store-size and availability statistics for path.
func (e *Engine) Stats(path string) (*Stats, error) {
	s := &Stats{KindCounts: make(map[symbol.Kind]int)}

	meta, err := e.store.LastBuild()
	if err != nil {
		return nil, &xerrors.StoreError{Op: "stats", Err: err}
	}
	if meta == nil {
		return s, nil
	}
	s.Available = true
	s.FilesIndexed = meta.FilesIndexed
	s.LastBuildAt = meta.CompletedAt

	symCount, err := e.store.CountSymbols()
	if err != nil {
		return nil, &xerrors.StoreError{Op: "stats", Err: err}
	}
	s.SymbolsIndexed = symCount

	edgeCount, err := e.store.CountEdges()
	if err != nil {
		return nil, &xerrors.StoreError{Op: "stats", Err: err}
	}
	s.EdgesIndexed = edgeCount

	kindCounts, err := e.store.KindCounts()
	if err != nil {
		return nil, &xerrors.StoreError{Op: "stats", Err: err}
	}
	s.KindCounts = kindCounts

	if info, err := os.Stat(store.PathFor(path)); err == nil {
		s.StoreSizeBytes = info.Size()
	}

	return s, nil
}
