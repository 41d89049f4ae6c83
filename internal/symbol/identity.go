package symbol

import "strings"

// CanonicalID computes the globally-unique textual handle for a symbol
// declared in file relative to the indexed root, with an optional parent
// name (empty when there is no enclosing class-like).
//
//	canonical_id = file + ":" + (parent.name + "." if parent else "") + name
func CanonicalID(file, parentName, name string) string {
	var b strings.Builder
	b.WriteString(file)
	b.WriteByte(':')
	if parentName != "" {
		b.WriteString(parentName)
		b.WriteByte('.')
	}
	b.WriteString(name)
	return b.String()
}

// Aliases computes the full alias set for a symbol, following §4.2:
// every symbol gets a canonical alias (store-wide unique) and a simple
// alias (scoped to its declaring file); a symbol with a parent also gets a
// qualified alias; an import symbol also gets an import alias.
func Aliases(s Symbol, parentName string) []Alias {
	aliases := []Alias{
		{SymbolID: s.ID, Type: AliasCanonical, Name: s.CanonicalID},
		{SymbolID: s.ID, Type: AliasSimple, Name: s.Name, ContextFile: s.File},
	}
	if parentName != "" {
		aliases = append(aliases, Alias{
			SymbolID:    s.ID,
			Type:        AliasQualified,
			Name:        parentName + "." + s.Name,
			ContextFile: s.File,
		})
	}
	if s.Kind == KindImport {
		aliases = append(aliases, Alias{
			SymbolID:    s.ID,
			Type:        AliasImport,
			Name:        s.Name,
			ContextFile: s.File,
		})
	}
	return aliases
}

// EnclosingName formats the attribution name for an enclosing declaration:
// "Parent.name" for a method-like symbol with a parent, "name" otherwise.
func EnclosingName(name, parentName string) string {
	if parentName == "" {
		return name
	}
	return parentName + "." + name
}
