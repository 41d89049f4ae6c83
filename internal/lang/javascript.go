package lang

func init() {
	Register(&LanguageSpec{
		Language:       JavaScript,
		FileExtensions: []string{".js", ".jsx"},

		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"variable_declarator", // name = function(...) / arrow
		},
		MethodNodeTypes: []string{"method_definition"},
		ClassNodeTypes:  []string{"class_declaration"},
		ImportNodeTypes: []string{"import_statement"},
		ExportNodeTypes: []string{"export_statement"},

		CallNodeTypes:   []string{"call_expression"},
		NewNodeTypes:    []string{"new_expression"},
		MemberNodeTypes: []string{"member_expression"},

		BuiltinTypes: map[string]bool{
			"Object": true, "Array": true, "String": true, "Number": true,
			"Boolean": true, "Function": true, "Symbol": true, "Promise": true,
			"Map": true, "Set": true, "Date": true, "RegExp": true, "Error": true,
		},
	})
}
