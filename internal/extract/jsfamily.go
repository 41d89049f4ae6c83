package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codeintel/xray/internal/lang"
	"github.com/codeintel/xray/internal/parser"
	"github.com/codeintel/xray/internal/symbol"
)

// jsFamilyFrontEnd implements extraction shared by JavaScript, TypeScript
// and TSX — grammars that diverge only in which extra class-like and
// function-like node kinds exist; classKinds captures the class-like ones.
type jsFamilyFrontEnd struct {
	language   lang.Language
	classKinds map[string]bool
}

var jsDeclKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_expression":            true,
	"arrow_function":                 true,
	"variable_declarator":            true, // const f = () => ... / function(...)
	"method_definition":              true,
	"method_signature":               true,
}

func classKindOf(nodeKind string) symbol.Kind {
	switch nodeKind {
	case "interface_declaration":
		return symbol.KindInterface
	case "enum_declaration":
		return symbol.KindEnum
	case "type_alias_declaration":
		return symbol.KindType
	default:
		return symbol.KindClass
	}
}

func (fe jsFamilyFrontEnd) ExtractSymbols(source []byte, file string) []symbol.Raw {
	tree, err := parser.Parse(fe.language, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	b := newBuilder(source, file)
	var classStack []int

	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		switch {
		case fe.classKinds[n.Kind()]:
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				break
			}
			if n.Kind() == "type_alias_declaration" {
				line, col, endLine := position(n)
				b.add(n, symbol.Raw{
					Name: parser.NodeText(nameNode, source), Kind: symbol.KindType,
					File: file, Line: line, Column: col, EndLine: endLine,
					Signature: signature(n, nil, source), ParentIndex: -1,
				})
				return
			}
			line, col, endLine := position(n)
			idx := b.add(n, symbol.Raw{
				Name: parser.NodeText(nameNode, source), Kind: classKindOf(n.Kind()),
				File: file, Line: line, Column: col, EndLine: endLine,
				Signature: signature(n, n.ChildByFieldName("body"), source), ParentIndex: -1,
			})
			classStack = append(classStack, idx)
			if body := n.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i))
				}
			}
			classStack = classStack[:len(classStack)-1]
			return

		case n.Kind() == "method_definition" || n.Kind() == "method_signature":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				break
			}
			parentIdx := -1
			if len(classStack) > 0 {
				parentIdx = classStack[len(classStack)-1]
			}
			line, col, endLine := position(n)
			b.add(n, symbol.Raw{
				Name: parser.NodeText(nameNode, source), Kind: symbol.KindMethod,
				File: file, Line: line, Column: col, EndLine: endLine,
				Signature: signature(n, n.ChildByFieldName("body"), source), ParentIndex: parentIdx,
			})
			return

		case n.Kind() == "function_declaration" || n.Kind() == "generator_function_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				break
			}
			line, col, endLine := position(n)
			b.add(n, symbol.Raw{
				Name: parser.NodeText(nameNode, source), Kind: symbol.KindFunction,
				File: file, Line: line, Column: col, EndLine: endLine,
				Signature: signature(n, n.ChildByFieldName("body"), source), ParentIndex: -1,
			})
			return

		case n.Kind() == "variable_declarator":
			nameNode := n.ChildByFieldName("name")
			valueNode := n.ChildByFieldName("value")
			if nameNode != nil && nameNode.Kind() == "identifier" && valueNode != nil &&
				(valueNode.Kind() == "arrow_function" || valueNode.Kind() == "function_expression") {
				line, col, endLine := position(n)
				b.add(n, symbol.Raw{
					Name: parser.NodeText(nameNode, source), Kind: symbol.KindFunction,
					File: file, Line: line, Column: col, EndLine: endLine,
					Signature: signature(n, valueNode.ChildByFieldName("body"), source), ParentIndex: -1,
				})
				return
			}

		case n.Kind() == "import_statement":
			addJSImports(b, n, source, file)
			return

		case n.Kind() == "export_statement":
			if decl := n.ChildByFieldName("declaration"); decl != nil {
				walk(decl)
				return
			}
			addJSReExports(b, n, source, file)
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())

	return b.syms
}

func addJSImports(b *builder, stmt *tree_sitter.Node, source []byte, file string) {
	line, col, endLine := position(stmt)
	add := func(name string) {
		if name == "" {
			return
		}
		b.add(stmt, symbol.Raw{
			Name: name, Kind: symbol.KindImport, File: file,
			Line: line, Column: col, EndLine: endLine,
			Signature: parser.NodeText(stmt, source), ParentIndex: -1,
		})
	}
	parser.Walk(stmt, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "import_clause":
			return true
		case "identifier":
			if n.Parent() != nil && n.Parent().Kind() == "import_clause" {
				add(parser.NodeText(n, source))
			}
			return true
		case "namespace_import":
			if id := n.NamedChild(0); id != nil {
				add(parser.NodeText(id, source))
			}
			return false
		case "named_imports":
			return true
		case "import_specifier":
			nameNode := n.ChildByFieldName("alias")
			if nameNode == nil {
				nameNode = n.ChildByFieldName("name")
			}
			if nameNode != nil {
				add(parser.NodeText(nameNode, source))
			}
			return false
		case "string":
			return false
		}
		return true
	})
}

func addJSReExports(b *builder, stmt *tree_sitter.Node, source []byte, file string) {
	line, col, endLine := position(stmt)
	add := func(name string) {
		if name == "" {
			return
		}
		b.add(stmt, symbol.Raw{
			Name: name, Kind: symbol.KindExport, File: file,
			Line: line, Column: col, EndLine: endLine,
			Signature: parser.NodeText(stmt, source), ParentIndex: -1,
		})
	}
	parser.Walk(stmt, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "export_specifier":
			nameNode := n.ChildByFieldName("alias")
			if nameNode == nil {
				nameNode = n.ChildByFieldName("name")
			}
			if nameNode != nil {
				add(parser.NodeText(nameNode, source))
			}
			return false
		case "identifier":
			if n.Parent() != nil && n.Parent().Kind() == "export_statement" {
				add(parser.NodeText(n, source))
			}
			return true
		}
		return true
	})
}

func (fe jsFamilyFrontEnd) ExtractEdges(source []byte, file string, syms []symbol.Raw) []symbol.RawEdge {
	tree, err := parser.Parse(fe.language, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	var edges []symbol.RawEdge
	emit := func(from, toName, toFile string, typ symbol.EdgeType) {
		if from == symbol.ModuleSentinel || toName == "" {
			return
		}
		edges = append(edges, symbol.RawEdge{
			FromSymbol: from, FromFile: file,
			ToName: toName, ToFile: toFile,
			Type: typ, Provenance: from + " -> " + toName,
		})
	}

	attr := newAttributor(syms, jsDeclKinds)

	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "new_expression":
			ctor := n.ChildByFieldName("constructor")
			if ctor == nil {
				return true
			}
			from := attr.Attribute(n)
			name := lastSegment(parser.NodeText(ctor, source))
			emit(from, name, "", symbol.EdgeInstantiate)
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return true
			}
			from := attr.Attribute(n)
			switch fn.Kind() {
			case "identifier":
				emit(from, parser.NodeText(fn, source), "", symbol.EdgeCall)
			case "member_expression":
				object := fn.ChildByFieldName("object")
				property := fn.ChildByFieldName("property")
				if property != nil {
					emit(from, parser.NodeText(property, source), "", symbol.EdgeCall)
				}
				if object != nil && object.Kind() == "identifier" {
					emit(from, parser.NodeText(object, source), "", symbol.EdgeAccess)
				}
			}
		case "member_expression":
			if parent := n.Parent(); parent != nil {
				if parent.Kind() == "call_expression" && parent.ChildByFieldName("function") != nil && parent.ChildByFieldName("function").StartByte() == n.StartByte() {
					return true
				}
			}
			from := attr.Attribute(n)
			property := n.ChildByFieldName("property")
			if property != nil {
				emit(from, parser.NodeText(property, source), "", symbol.EdgeAccess)
			}
		}
		return true
	})

	return edges
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}
