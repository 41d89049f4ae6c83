package lang

func init() {
	Register(&LanguageSpec{
		Language:       Python,
		FileExtensions: []string{".py"},

		FunctionNodeTypes: []string{"function_definition"},
		MethodNodeTypes:   []string{"function_definition"},
		ClassNodeTypes:    []string{"class_definition"},
		ImportNodeTypes:   []string{"import_statement", "import_from_statement"},

		CallNodeTypes:   []string{"call"},
		NewNodeTypes:    []string{"call"},
		MemberNodeTypes: []string{"attribute"},

		BuiltinTypes: map[string]bool{
			"int": true, "float": true, "str": true, "bool": true, "bytes": true,
			"list": true, "dict": true, "set": true, "tuple": true, "frozenset": true,
			"object": true, "None": true, "type": true,
		},
	})
}
