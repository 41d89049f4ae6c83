package lang

func init() {
	Register(&LanguageSpec{
		Language:       TypeScript,
		FileExtensions: []string{".ts"},

		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"variable_declarator",
		},
		MethodNodeTypes: []string{"method_definition", "method_signature"},
		ClassNodeTypes: []string{
			"class_declaration",
			"abstract_class_declaration",
			"enum_declaration",
			"interface_declaration",
			"type_alias_declaration",
		},
		ImportNodeTypes: []string{"import_statement"},
		ExportNodeTypes: []string{"export_statement"},

		CallNodeTypes:   []string{"call_expression"},
		NewNodeTypes:    []string{"new_expression"},
		MemberNodeTypes: []string{"member_expression"},

		BuiltinTypes: map[string]bool{
			"string": true, "number": true, "boolean": true, "any": true, "void": true,
			"unknown": true, "never": true, "object": true, "undefined": true, "null": true,
			"Object": true, "Array": true, "Promise": true, "Map": true, "Set": true,
		},
	})
}
