// Package extract implements the language front-ends (C1): one
// (parser, extractor) pair per supported language, each walking a
// tree-sitter concrete syntax tree to emit symbol.Raw and symbol.RawEdge
// records. Dispatch is structural (tree-sitter node kinds named in each
// front-end), never textual regex.
package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codeintel/xray/internal/lang"
	"github.com/codeintel/xray/internal/parser"
	"github.com/codeintel/xray/internal/symbol"
)

// FrontEnd is the two-operation contract every language implements.
// ExtractEdges receives the symbols already discovered on this file so it
// can attribute references to the correct enclosing declaration.
type FrontEnd interface {
	ExtractSymbols(source []byte, file string) []symbol.Raw
	ExtractEdges(source []byte, file string, symbols []symbol.Raw) []symbol.RawEdge
}

var registry = map[lang.Language]FrontEnd{}

func register(l lang.Language, fe FrontEnd) {
	registry[l] = fe
}

// For returns the FrontEnd registered for a language, or nil.
func For(l lang.Language) FrontEnd {
	return registry[l]
}

// signature captures the bytes from a declaration node's start up to the
// start of its body (or, lacking a body, its own end), trimmed of
// surrounding whitespace. Per §4.1, signatures are diagnostic text only.
func signature(declNode, bodyNode *tree_sitter.Node, source []byte) string {
	start := declNode.StartByte()
	var end uint
	if bodyNode != nil {
		end = bodyNode.StartByte()
	} else {
		end = declNode.EndByte()
	}
	if end < start {
		end = start
	}
	return strings.TrimSpace(string(source[start:end]))
}

// position returns (line, column, endLine), all 1-based, for node.
func position(node *tree_sitter.Node) (line, column, endLine int) {
	start := node.StartPosition()
	stop := node.EndPosition()
	return int(start.Row) + 1, int(start.Column) + 1, int(stop.Row) + 1
}

// lastPathSegment returns the final '/'-or-'.'-delimited segment of an
// import path string, with surrounding quotes stripped. Used when a
// module is referenced by string path rather than by bare identifier.
func lastPathSegment(raw string) string {
	s := strings.Trim(raw, `"'`+"`")
	s = strings.TrimSuffix(s, "/")
	if i := strings.LastIndexAny(s, "/."); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}

// builder accumulates symbols for one file during the declaration pass.
// Every added symbol is stamped with the declaring node's byte offset
// (DeclStart) so a later, independent parse of the identical source can
// re-identify the same declarations by position.
type builder struct {
	source []byte
	file   string
	syms   []symbol.Raw
}

func newBuilder(source []byte, file string) *builder {
	return &builder{source: source, file: file}
}

func (b *builder) add(node *tree_sitter.Node, raw symbol.Raw) int {
	raw.DeclStart = node.StartByte()
	idx := len(b.syms)
	b.syms = append(b.syms, raw)
	return idx
}

// attributor resolves a reference node to its enclosing declaration's
// attribution name during the edge pass, given the declarations this
// file's symbol pass already found.
type attributor struct {
	syms   []symbol.Raw
	byNode map[uint]int
	kinds  map[string]bool
}

// newAttributor builds the DeclStart -> symbol index lookup once per file,
// restricted to the node kinds that can enclose a reference (functions,
// methods, and — for languages where classes can contain free statements —
// class-likes).
func newAttributor(syms []symbol.Raw, kinds map[string]bool) *attributor {
	a := &attributor{syms: syms, kinds: kinds, byNode: map[uint]int{}}
	for i, s := range syms {
		if s.Kind == symbol.KindFunction || s.Kind == symbol.KindMethod || symbol.ClassLike(s.Kind) {
			a.byNode[s.DeclStart] = i
		}
	}
	return a
}

// Attribute walks parent nodes of ref until it finds one matching a
// recorded declaration, returning "Class.method" for methods, the bare
// name for functions and class-likes, or symbol.ModuleSentinel if none is
// found.
func (a *attributor) Attribute(ref *tree_sitter.Node) string {
	n := parser.Enclosing(ref, a.kinds)
	for n != nil {
		if idx, ok := a.byNode[n.StartByte()]; ok {
			s := a.syms[idx]
			if s.Kind == symbol.KindMethod && s.ParentIndex >= 0 && s.ParentIndex < len(a.syms) {
				return symbol.EnclosingName(s.Name, a.syms[s.ParentIndex].Name)
			}
			return s.Name
		}
		n = parser.Enclosing(n, a.kinds)
	}
	return symbol.ModuleSentinel
}
