// Package indexer implements C4: the linear build pipeline that walks a
// source tree, dispatches files to language front-ends, assigns canonical
// identity, and resolves textual edges into a persistent symbol graph.
package indexer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"log/slog"
	"strconv"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/codeintel/xray/internal/config"
	"github.com/codeintel/xray/internal/extract"
	"github.com/codeintel/xray/internal/store"
	"github.com/codeintel/xray/internal/symbol"
	"github.com/codeintel/xray/internal/walker"
	"github.com/codeintel/xray/internal/xerrors"
)

// BuildError records one file's extraction failure; the build continues
// past it (spec §7 ParseError semantics).
type BuildError struct {
	File string
	Err  error
}

// Result summarises a completed build.
type Result struct {
	FilesIndexed   int
	SymbolsIndexed int
	EdgesCreated   int
	Duration       time.Duration
	Errors         []BuildError
	// resolutionMisses counts edges dropped because an endpoint could not
	// be resolved. Not surfaced as an error (spec §7 ResolutionMiss).
	resolutionMisses int
}

// fileExtraction is one file's front-end output, or the error that kept
// the file from being read.
type fileExtraction struct {
	file    walker.File
	symbols []symbol.Raw
	edges   []symbol.RawEdge
	err     error
}

// Build runs the full indexing pipeline against root and persists the
// result into s, replacing any prior build.
func Build(ctx context.Context, s *store.Store, root string) (Result, error) {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return Result{}, &xerrors.InvalidPath{Path: root, Err: err}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return Result{}, &xerrors.InvalidPath{Path: root, Err: err}
	}

	cfg, err := config.Load(root)
	if err != nil {
		return Result{}, &xerrors.InvalidPath{Path: root, Err: err}
	}

	files, err := walker.Walk(ctx, root, &walker.Options{
		ExtraExclusions:   cfg.Exclude,
		DisabledLanguages: cfg.DisabledLanguages(),
	})
	if err != nil {
		return Result{}, &xerrors.InvalidPath{Path: root, Err: err}
	}
	slog.Info("indexer.build.start", "root", root, "files", len(files))

	extractions := extractAll(ctx, files)

	var result Result
	err = s.WithTransaction(func(txStore *store.Store) error {
		if err := txStore.TruncateAll(); err != nil {
			return &xerrors.StoreError{Op: "truncate", Err: err}
		}
		r, buildErr := indexExtractions(txStore, extractions)
		result = r
		if buildErr != nil {
			return buildErr
		}
		result.Duration = time.Since(start)
		return txStore.RecordBuildMeta(start.UTC().Format(time.RFC3339), result.FilesIndexed, result.SymbolsIndexed, result.EdgesCreated)
	})
	if err != nil {
		return Result{}, err
	}

	slog.Info("indexer.build.done",
		"files", result.FilesIndexed, "symbols", result.SymbolsIndexed,
		"edges", result.EdgesCreated, "parse_errors", len(result.Errors),
		"resolution_misses", result.resolutionMisses, "duration", result.Duration)
	return result, nil
}

// extractAll dispatches every file to its front-end, bounded to
// runtime.GOMAXPROCS(0) concurrent workers. A file with no registered
// front-end is skipped silently (the walker already filtered by extension).
func extractAll(ctx context.Context, files []walker.File) []fileExtraction {
	out := make([]fileExtraction, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			out[i] = extractFile(f)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func extractFile(f walker.File) fileExtraction {
	source, err := os.ReadFile(f.AbsPath)
	if err != nil {
		slog.Warn("parser.parse.err", "file", f.RelPath, "err", err)
		return fileExtraction{file: f, err: &xerrors.ParseError{File: f.RelPath, Err: err}}
	}
	fe := extract.For(f.Language)
	if fe == nil {
		return fileExtraction{file: f}
	}
	syms := fe.ExtractSymbols(source, f.RelPath)
	edges := fe.ExtractEdges(source, f.RelPath, syms)
	return fileExtraction{file: f, symbols: syms, edges: edges}
}

// declRef identifies one raw symbol's position within the whole-build
// ordering used to patch parent_id after insertion.
type declRef struct {
	file  string
	index int // index into that file's Raw slice
}

func indexExtractions(s *store.Store, extractions []fileExtraction) (Result, error) {
	var result Result
	var parseErrors []BuildError

	// perFileSyms/perFileEdges preserve extraction order; perFileIDs is
	// filled in after insertion so parent_id and edge resolution can map
	// a (file, raw-index) pair to its store ID.
	perFileSyms := make(map[string][]symbol.Raw)
	perFileEdges := make(map[string][]symbol.RawEdge)
	var fileOrder []string

	for _, ex := range extractions {
		if ex.err != nil {
			slog.Warn("indexer.file.parse_error", "file", ex.file.RelPath, "err", ex.err)
			parseErrors = append(parseErrors, BuildError{File: ex.file.RelPath, Err: ex.err})
			continue
		}
		if len(ex.symbols) == 0 && len(ex.edges) == 0 {
			continue
		}
		fileOrder = append(fileOrder, ex.file.RelPath)
		perFileSyms[ex.file.RelPath] = ex.symbols
		perFileEdges[ex.file.RelPath] = ex.edges
	}
	sort.Strings(fileOrder)
	result.FilesIndexed = len(extractions) - len(parseErrors)
	result.Errors = parseErrors

	// Step 3: assign canonical IDs, staging parent linkage by (file, index).
	type staged struct {
		sym    symbol.Symbol
		file   string
		index  int
		parent int // raw.ParentIndex, -1 when none
	}
	var all []staged
	for _, file := range fileOrder {
		raws := perFileSyms[file]
		for i, raw := range raws {
			parentName := ""
			if raw.ParentIndex >= 0 && raw.ParentIndex < len(raws) {
				parentName = raws[raw.ParentIndex].Name
			}
			all = append(all, staged{
				sym: symbol.Symbol{
					CanonicalID: symbol.CanonicalID(file, parentName, raw.Name),
					Name:        raw.Name,
					Kind:        raw.Kind,
					File:        file,
					Line:        raw.Line,
					Column:      raw.Column,
					EndLine:     raw.EndLine,
					Signature:   raw.Signature,
				},
				file:   file,
				index:  i,
				parent: raw.ParentIndex,
			})
		}
	}

	// Step 4: bulk insert without parent_id.
	plain := make([]symbol.Symbol, len(all))
	for i, st := range all {
		plain[i] = st.sym
	}
	ids, err := s.InsertSymbolBatch(plain)
	if err != nil {
		return result, &xerrors.StoreError{Op: "insert symbols", Err: err}
	}
	result.SymbolsIndexed = len(ids)

	// index within a file's staged slice -> store ID, to resolve parent_id
	// and FromSymbol/ToName attribution below.
	byFileIndex := make(map[declRef]int64, len(all))
	for i, st := range all {
		byFileIndex[declRef{file: st.file, index: st.index}] = ids[i]
	}

	// Step 5: patch parent_id.
	for i, st := range all {
		if st.parent < 0 {
			continue
		}
		parentID, ok := byFileIndex[declRef{file: st.file, index: st.parent}]
		if !ok {
			continue
		}
		if err := s.PatchParentID(ids[i], parentID); err != nil {
			return result, &xerrors.StoreError{Op: "patch parent_id", Err: err}
		}
	}

	// Step 6: generate and insert aliases. Also index every symbol by the
	// bare and qualified names its own file's call sites would attribute
	// a reference to, and record each ID's kind for import-linkage (step 8).
	var aliases []symbol.Alias
	kindByID := make(map[int64]symbol.Kind, len(all))
	byNameInFile := make(map[string]map[string][]int64)
	for i, st := range all {
		id := ids[i]
		parentName := ""
		if st.parent >= 0 && st.parent < len(perFileSyms[st.file]) {
			parentName = perFileSyms[st.file][st.parent].Name
		}
		for _, a := range symbol.Aliases(st.sym, parentName) {
			a.SymbolID = id
			aliases = append(aliases, a)
		}
		kindByID[id] = st.sym.Kind

		if byNameInFile[st.file] == nil {
			byNameInFile[st.file] = make(map[string][]int64)
		}
		byNameInFile[st.file][st.sym.Name] = append(byNameInFile[st.file][st.sym.Name], id)
		if parentName != "" {
			qualified := parentName + "." + st.sym.Name
			byNameInFile[st.file][qualified] = append(byNameInFile[st.file][qualified], id)
		}
	}
	if err := s.InsertAliasBatch(aliases); err != nil {
		return result, &xerrors.StoreError{Op: "insert aliases", Err: err}
	}

	// Step 7: resolve edges via alias lookup. seenEdges de-duplicates by a
	// 64-bit xxh3 digest of (from_id, to_id, edge_type) so the batch handed
	// to InsertEdgeBatch, and result.EdgesCreated, never counts the same
	// logical edge twice even when several call sites re-derive it.
	var resolved []symbol.Edge
	seenEdges := make(map[uint64]struct{})
	for _, file := range fileOrder {
		for _, re := range perFileEdges[file] {
			if re.FromSymbol == symbol.ModuleSentinel {
				continue
			}
			fromID, ok := resolveEnclosing(byNameInFile[file], re.FromSymbol)
			if !ok {
				result.resolutionMisses++
				continue
			}
			toID, ok := resolveAlias(s, re.ToName, re.ToFile)
			if !ok {
				result.resolutionMisses++
				continue
			}
			if fromID == toID {
				continue
			}
			if !markEdgeSeen(seenEdges, fromID, toID, re.Type) {
				continue
			}
			resolved = append(resolved, symbol.Edge{
				FromID: fromID, ToID: toID, Type: re.Type, Provenance: re.Provenance,
			})
		}
	}

	// Step 8: seed import-linkage edges. For each import symbol named N in
	// file F, link it to the first non-import definition of N in any other
	// file, walking fileOrder (sorted) so the choice is deterministic rather
	// than dependent on map iteration order.
	for i, st := range all {
		if st.sym.Kind != symbol.KindImport {
			continue
		}
		fromID := ids[i]
		for _, file := range fileOrder {
			if file == st.file {
				continue
			}
			var candID int64
			found := false
			for _, c := range byNameInFile[file][st.sym.Name] {
				if kindByID[c] == symbol.KindImport {
					continue
				}
				candID, found = c, true
				break
			}
			if !found {
				continue
			}
			if markEdgeSeen(seenEdges, fromID, candID, symbol.EdgeImport) {
				resolved = append(resolved, symbol.Edge{FromID: fromID, ToID: candID, Type: symbol.EdgeImport, Provenance: "import-linkage"})
			}
			break
		}
	}

	if err := s.InsertEdgeBatch(resolved); err != nil {
		return result, &xerrors.StoreError{Op: "insert edges", Err: err}
	}
	result.EdgesCreated = len(resolved)
	slog.Debug("indexer.edges.resolved", "resolved", len(resolved), "resolution_misses", result.resolutionMisses)

	return result, nil
}

// markEdgeSeen hashes (fromID, toID, edgeType) with xxh3 and reports
// whether this is the first time that triple has been seen, adding it to
// seen as a side effect.
func markEdgeSeen(seen map[uint64]struct{}, fromID, toID int64, edgeType symbol.EdgeType) bool {
	key := strconv.FormatInt(fromID, 10) + ":" + strconv.FormatInt(toID, 10) + ":" + string(edgeType)
	digest := xxh3.HashString(key)
	if _, dup := seen[digest]; dup {
		return false
	}
	seen[digest] = struct{}{}
	return true
}

// resolveEnclosing maps an enclosing-declaration name ("name" or
// "Class.method") to a store ID within a file's symbol index.
func resolveEnclosing(names map[string][]int64, name string) (int64, bool) {
	ids, ok := names[name]
	if !ok || len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// resolveAlias resolves a textual reference to a single store ID, honouring
// an optional context_file restriction and the canonical > qualified >
// simple > import priority order (store.FindByName already ranks this way).
func resolveAlias(s *store.Store, name, contextFile string) (int64, bool) {
	results, err := s.FindByName(name, contextFile)
	if err != nil || len(results) == 0 {
		return 0, false
	}
	return results[0].Symbol.ID, true
}
