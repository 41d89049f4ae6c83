package lang

func init() {
	Register(&LanguageSpec{
		Language:       Go,
		FileExtensions: []string{".go"},

		FunctionNodeTypes: []string{"function_declaration"},
		MethodNodeTypes:   []string{"method_declaration"},
		ClassNodeTypes:    []string{"type_spec", "type_alias"},
		ImportNodeTypes:   []string{"import_spec"},

		CallNodeTypes:   []string{"call_expression"},
		NewNodeTypes:    []string{"composite_literal"},
		MemberNodeTypes: []string{"selector_expression"},

		BuiltinTypes: map[string]bool{
			"bool": true, "string": true, "error": true,
			"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
			"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
			"float32": true, "float64": true, "complex64": true, "complex128": true,
			"byte": true, "rune": true, "any": true,
		},
	})
}
