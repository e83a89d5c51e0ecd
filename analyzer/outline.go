package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// fallbackOutlineLines bounds the outline for languages without a parser.
const fallbackOutlineLines = 60

// declarationTypes lists the tree-sitter node types that form a file's
// skeleton, per language tag as reported by DetectLanguage.
var declarationTypes = map[string]map[string]bool{
	"go": {
		"function_declaration": true,
		"method_declaration":   true,
		"type_declaration":     true,
		"const_declaration":    true,
		"var_declaration":      true,
	},
	"python": {
		"function_definition":  true,
		"class_definition":     true,
		"decorated_definition": true,
	},
	"javascript": {
		"function_declaration": true,
		"class_declaration":    true,
		"method_definition":    true,
		"lexical_declaration":  true,
	},
	"typescript": {
		"function_declaration":   true,
		"class_declaration":      true,
		"method_definition":      true,
		"interface_declaration":  true,
		"type_alias_declaration": true,
		"lexical_declaration":    true,
	},
	"java": {
		"class_declaration":     true,
		"interface_declaration": true,
		"enum_declaration":      true,
		"method_declaration":    true,
	},
	"c#": {
		"namespace_declaration": true,
		"class_declaration":     true,
		"interface_declaration": true,
		"struct_declaration":    true,
		"method_declaration":    true,
	},
}

func sitterLanguage(language string) *sitter.Language {
	switch language {
	case "go":
		return golang.GetLanguage()
	case "python":
		return python.GetLanguage()
	case "javascript":
		return javascript.GetLanguage()
	case "typescript":
		return typescript.GetLanguage()
	case "java":
		return java.GetLanguage()
	case "c#":
		return csharp.GetLanguage()
	default:
		return nil
	}
}

// Outline returns a compact declaration skeleton for a file, used to keep
// per-file summary prompts small. For unsupported languages it falls back
// to the first lines of the file.
func Outline(fd *FileDescriptor) string {
	lang := sitterLanguage(fd.Language)
	types := declarationTypes[fd.Language]
	if lang == nil || types == nil {
		return headLines(fd.Content, fallbackOutlineLines)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	source := []byte(fd.Content)
	tree := parser.Parse(nil, source)
	if tree == nil {
		return headLines(fd.Content, fallbackOutlineLines)
	}
	defer tree.Close()

	var lines []string
	collectDeclarations(tree.RootNode(), source, types, 0, &lines)
	if len(lines) == 0 {
		return headLines(fd.Content, fallbackOutlineLines)
	}
	return strings.Join(lines, "\n")
}

// collectDeclarations walks the syntax tree a few levels deep and records
// the first line of every declaration node. Nested levels catch methods
// inside classes without dragging in whole function bodies.
func collectDeclarations(node *sitter.Node, source []byte, types map[string]bool, depth int, lines *[]string) {
	if depth > 3 {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if types[child.Type()] {
			line := firstLine(child.Content(source))
			if line != "" {
				*lines = append(*lines, strings.Repeat("  ", depth)+line)
			}
		}
		collectDeclarations(child, source, types, depth+1, lines)
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func headLines(content string, n int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
