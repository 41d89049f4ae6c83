package extract

import "github.com/codeintel/xray/internal/lang"

func init() {
	register(lang.JavaScript, jsFamilyFrontEnd{
		language: lang.JavaScript,
		classKinds: map[string]bool{
			"class_declaration": true,
		},
	})
}
