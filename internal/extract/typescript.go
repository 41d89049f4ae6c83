package extract

import "github.com/codeintel/xray/internal/lang"

var tsClassKinds = map[string]bool{
	"class_declaration":          true,
	"abstract_class_declaration": true,
	"interface_declaration":      true,
	"enum_declaration":           true,
	"type_alias_declaration":     true,
}

func init() {
	register(lang.TypeScript, jsFamilyFrontEnd{language: lang.TypeScript, classKinds: tsClassKinds})
	register(lang.TSX, jsFamilyFrontEnd{language: lang.TSX, classKinds: tsClassKinds})
}
