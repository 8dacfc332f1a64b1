package output

import (
	"fmt"
	"strings"

	"glslreflect/internal/engine/reflection"
)

type MermaidGenerator struct {
	doc *reflection.Document
}

func NewMermaidGenerator(doc *reflection.Document) *MermaidGenerator {
	return &MermaidGenerator{doc: doc}
}

// Generate renders structs as a class diagram. A member whose type is another
// struct of the document becomes a composition edge.
func (m *MermaidGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("classDiagram\n")

	structs := m.doc.Structs.Values()
	for _, s := range structs {
		b.WriteString(fmt.Sprintf("  class %s {\n", s.Name))
		for _, member := range s.Members {
			b.WriteString(fmt.Sprintf("    %s %s%s\n", member.Type, member.Name, arraySuffix(member.Size)))
		}
		b.WriteString("  }\n")
		if s.File != "" {
			b.WriteString(fmt.Sprintf("  note for %s \"%s\"\n", s.Name, strings.ReplaceAll(s.File, "\"", "'")))
		}
	}

	for _, s := range structs {
		for _, member := range s.Members {
			if !m.doc.Structs.Has(member.Type) {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s *-- %s : %s\n", s.Name, member.Type, member.Name))
		}
	}

	return b.String(), nil
}

func arraySuffix(size int) string {
	if size == 0 {
		return ""
	}
	return fmt.Sprintf("[%d]", size)
}
