package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codeintel/xray/internal/lang"
	"github.com/codeintel/xray/internal/parser"
	"github.com/codeintel/xray/internal/symbol"
)

func init() {
	register(lang.Python, pythonFrontEnd{})
}

type pythonFrontEnd struct{}

var pythonDeclKinds = map[string]bool{
	"function_definition": true,
	"class_definition":    true,
}

func (pythonFrontEnd) ExtractSymbols(source []byte, file string) []symbol.Raw {
	tree, err := parser.Parse(lang.Python, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	b := newBuilder(source, file)
	// classStack tracks the symbol index of the innermost enclosing
	// class_definition, so a function_definition nested directly in one
	// becomes a method with the right ParentIndex.
	var classStack []int

	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "class_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				break
			}
			line, col, endLine := position(n)
			idx := b.add(n, symbol.Raw{
				Name:        parser.NodeText(nameNode, source),
				Kind:        symbol.KindClass,
				File:        file,
				Line:        line,
				Column:      col,
				EndLine:     endLine,
				Signature:   signature(n, n.ChildByFieldName("body"), source),
				ParentIndex: -1,
			})
			classStack = append(classStack, idx)
			if body := n.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i))
				}
			}
			classStack = classStack[:len(classStack)-1]
			return

		case "function_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				break
			}
			parentIdx := -1
			kind := symbol.KindFunction
			if len(classStack) > 0 {
				parentIdx = classStack[len(classStack)-1]
				kind = symbol.KindMethod
			}
			line, col, endLine := position(n)
			b.add(n, symbol.Raw{
				Name:        parser.NodeText(nameNode, source),
				Kind:        kind,
				File:        file,
				Line:        line,
				Column:      col,
				EndLine:     endLine,
				Signature:   signature(n, n.ChildByFieldName("body"), source),
				ParentIndex: parentIdx,
			})
			// Don't recurse into a function body for nested declarations;
			// spec scope is module/class/method, not arbitrary nesting.
			return

		case "import_statement":
			for i := uint(0); i < n.NamedChildCount(); i++ {
				child := n.NamedChild(i)
				addPythonImport(b, child, source, file, n)
			}
			return

		case "import_from_statement":
			moduleNode := n.ChildByFieldName("module_name")
			for i := uint(0); i < n.NamedChildCount(); i++ {
				child := n.NamedChild(i)
				if child == moduleNode {
					continue
				}
				addPythonImport(b, child, source, file, n)
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())

	return b.syms
}

func addPythonImport(b *builder, node *tree_sitter.Node, source []byte, file string, stmt *tree_sitter.Node) {
	if node == nil {
		return
	}
	var name string
	switch node.Kind() {
	case "dotted_name":
		name = lastPathSegment(parser.NodeText(node, source))
	case "aliased_import":
		if alias := node.ChildByFieldName("alias"); alias != nil {
			name = parser.NodeText(alias, source)
		}
	case "identifier", "wildcard_import":
		name = parser.NodeText(node, source)
	default:
		return
	}
	if name == "" || name == "*" {
		return
	}
	line, col, endLine := position(stmt)
	b.add(stmt, symbol.Raw{
		Name:        name,
		Kind:        symbol.KindImport,
		File:        file,
		Line:        line,
		Column:      col,
		EndLine:     endLine,
		Signature:   parser.NodeText(stmt, source),
		ParentIndex: -1,
	})
}

func (pythonFrontEnd) ExtractEdges(source []byte, file string, syms []symbol.Raw) []symbol.RawEdge {
	tree, err := parser.Parse(lang.Python, source)
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

	attr := newAttributor(syms, pythonDeclKinds)

	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "call":
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return true
			}
			from := attr.Attribute(n)
			switch fn.Kind() {
			case "identifier":
				name := parser.NodeText(fn, source)
				if isCapitalized(name) {
					emit(from, name, "", symbol.EdgeInstantiate)
				} else {
					emit(from, name, "", symbol.EdgeCall)
				}
			case "attribute":
				object := fn.ChildByFieldName("object")
				attrNode := fn.ChildByFieldName("attribute")
				if attrNode != nil {
					emit(from, parser.NodeText(attrNode, source), "", symbol.EdgeCall)
				}
				if object != nil && object.Kind() == "identifier" {
					emit(from, parser.NodeText(object, source), "", symbol.EdgeAccess)
				}
			}
			return true // still descend, e.g. into arguments
		case "attribute":
			if parent := n.Parent(); parent != nil && parent.Kind() == "call" && parent.ChildByFieldName("function") != nil && parent.ChildByFieldName("function").StartByte() == n.StartByte() {
				return true
			}
			from := attr.Attribute(n)
			attrNode := n.ChildByFieldName("attribute")
			if attrNode != nil {
				emit(from, parser.NodeText(attrNode, source), "", symbol.EdgeAccess)
			}
		}
		return true
	})

	return edges
}
