package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codeintel/xray/internal/lang"
	"github.com/codeintel/xray/internal/parser"
	"github.com/codeintel/xray/internal/symbol"
)

func init() {
	register(lang.Go, goFrontEnd{})
}

type goFrontEnd struct{}

var goDeclKinds = map[string]bool{
	"function_declaration": true,
	"method_declaration":   true,
}

func (goFrontEnd) ExtractSymbols(source []byte, file string) []symbol.Raw {
	tree, err := parser.Parse(lang.Go, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	b := newBuilder(source, file)
	// classIndex maps a type name to its symbol index, so methods can link
	// to their receiver's declaration even when the type decl comes later
	// in the file.
	classIndex := map[string]int{}

	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "function_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			line, col, endLine := position(n)
			b.add(n, symbol.Raw{
				Name:        parser.NodeText(nameNode, source),
				Kind:        symbol.KindFunction,
				File:        file,
				Line:        line,
				Column:      col,
				EndLine:     endLine,
				Signature:   signature(n, n.ChildByFieldName("body"), source),
				ParentIndex: -1,
			})
			return false

		case "type_spec", "type_alias":
			nameNode := n.ChildByFieldName("name")
			typeNode := n.ChildByFieldName("type")
			if nameNode == nil {
				return true
			}
			kind := symbol.KindType
			if typeNode != nil {
				switch typeNode.Kind() {
				case "struct_type":
					kind = symbol.KindStruct
				case "interface_type":
					kind = symbol.KindInterface
				}
			}
			line, col, endLine := position(n)
			idx := b.add(n, symbol.Raw{
				Name:        parser.NodeText(nameNode, source),
				Kind:        kind,
				File:        file,
				Line:        line,
				Column:      col,
				EndLine:     endLine,
				Signature:   signature(n, nil, source),
				ParentIndex: -1,
			})
			classIndex[parser.NodeText(nameNode, source)] = idx
			return false

		case "import_spec":
			pathNode := n.ChildByFieldName("path")
			if pathNode == nil {
				return true
			}
			name := lastPathSegment(parser.NodeText(pathNode, source))
			if aliasNode := n.ChildByFieldName("name"); aliasNode != nil {
				name = parser.NodeText(aliasNode, source)
			}
			line, col, endLine := position(n)
			b.add(n, symbol.Raw{
				Name:        name,
				Kind:        symbol.KindImport,
				File:        file,
				Line:        line,
				Column:      col,
				EndLine:     endLine,
				Signature:   parser.NodeText(n, source),
				ParentIndex: -1,
			})
			return false
		}
		return true
	})

	// Second pass: methods, now that classIndex is populated.
	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if n.Kind() != "method_declaration" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		recvNode := n.ChildByFieldName("receiver")
		if nameNode == nil {
			return false
		}
		recvType := goReceiverTypeName(recvNode, source)
		parentIdx := -1
		if idx, ok := classIndex[recvType]; ok {
			parentIdx = idx
		}
		line, col, endLine := position(n)
		b.add(n, symbol.Raw{
			Name:        parser.NodeText(nameNode, source),
			Kind:        symbol.KindMethod,
			File:        file,
			Line:        line,
			Column:      col,
			EndLine:     endLine,
			Signature:   signature(n, n.ChildByFieldName("body"), source),
			ParentIndex: parentIdx,
		})
		return false
	})

	return b.syms
}

// goReceiverTypeName extracts the receiver type name from a method's
// receiver parameter_list, unwrapping a pointer_type if present.
func goReceiverTypeName(recv *tree_sitter.Node, source []byte) string {
	if recv == nil {
		return ""
	}
	for i := uint(0); i < recv.ChildCount(); i++ {
		c := recv.Child(i)
		if c == nil || c.Kind() != "parameter_declaration" {
			continue
		}
		t := c.ChildByFieldName("type")
		if t == nil {
			continue
		}
		if t.Kind() == "pointer_type" {
			t = t.ChildByFieldName("type")
			if t == nil {
				continue
			}
		}
		return parser.NodeText(t, source)
	}
	return ""
}

func (goFrontEnd) ExtractEdges(source []byte, file string, syms []symbol.Raw) []symbol.RawEdge {
	tree, err := parser.Parse(lang.Go, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	var edges []symbol.RawEdge
	emit := func(from string, toName string, toFile string, typ symbol.EdgeType, provenance string) {
		if from == symbol.ModuleSentinel || toName == "" {
			return
		}
		edges = append(edges, symbol.RawEdge{
			FromSymbol: from, FromFile: file,
			ToName: toName, ToFile: toFile,
			Type: typ, Provenance: provenance,
		})
	}

	attr := newAttributor(syms, goDeclKinds)
	enclosing := attr.Attribute

	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return true
			}
			from := enclosing(n)
			switch fn.Kind() {
			case "identifier":
				name := parser.NodeText(fn, source)
				provenance := from + " -> " + name
				if isCapitalized(name) {
					emit(from, name, "", symbol.EdgeInstantiate, provenance)
				} else {
					emit(from, name, "", symbol.EdgeCall, provenance)
				}
			case "selector_expression":
				operand := fn.ChildByFieldName("operand")
				field := fn.ChildByFieldName("field")
				if field != nil {
					member := parser.NodeText(field, source)
					emit(from, member, "", symbol.EdgeCall, from+" -> "+member)
				}
				if operand != nil && operand.Kind() == "identifier" {
					recv := parser.NodeText(operand, source)
					emit(from, recv, "", symbol.EdgeAccess, from+" -> "+recv)
				}
			}
		case "selector_expression":
			// Bare member access (not already the target of a call).
			if parent := n.Parent(); parent != nil && parent.Kind() == "call_expression" && parent.ChildByFieldName("function") != nil && parent.ChildByFieldName("function").StartByte() == n.StartByte() {
				return true
			}
			from := enclosing(n)
			field := n.ChildByFieldName("field")
			if field != nil {
				emit(from, parser.NodeText(field, source), "", symbol.EdgeAccess, from+" -> "+parser.NodeText(field, source))
			}
		case "composite_literal":
			typeNode := n.ChildByFieldName("type")
			if typeNode != nil && typeNode.Kind() == "type_identifier" {
				from := enclosing(n)
				name := parser.NodeText(typeNode, source)
				emit(from, name, "", symbol.EdgeInstantiate, from+" -> "+name)
			}
		}
		return true
	})

	return edges
}

func isCapitalized(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c >= 'A' && c <= 'Z'
}
