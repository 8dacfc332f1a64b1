package output

import (
	"fmt"
	"strings"

	"glslreflect/internal/engine/reflection"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

// Generate emits one row per struct, member, function and parameter. Member
// and parameter rows carry the key of their owning struct or function.
func (t *TSVGenerator) Generate(doc *reflection.Document) (string, error) {
	var buf strings.Builder

	buf.WriteString("Kind\tKey\tName\tType\tSize\tIO\tFile\n")

	for _, s := range doc.Structs.Values() {
		buf.WriteString(fmt.Sprintf("struct\t%s\t%s\t\t\t\t%s\n", tsvField(s.Name), tsvField(s.Name), tsvField(s.File)))
		for _, m := range s.Members {
			buf.WriteString(fmt.Sprintf("member\t%s\t%s\t%s\t%d\t\t%s\n",
				tsvField(s.Name), tsvField(m.Name), tsvField(m.Type), m.Size, tsvField(s.File)))
		}
	}

	for _, f := range doc.Functions.Values() {
		buf.WriteString(fmt.Sprintf("function\t%s\t%s\t%s\t\t\t%s\n",
			tsvField(f.Key), tsvField(f.Name), tsvField(f.Type), tsvField(f.File)))
		for _, p := range f.Parameters {
			buf.WriteString(fmt.Sprintf("parameter\t%s\t%s\t%s\t%d\t%s\t%s\n",
				tsvField(f.Key), tsvField(p.Name), tsvField(p.Type), p.Size, p.IO, tsvField(f.File)))
		}
	}

	return buf.String(), nil
}

// tsvField collapses whitespace runs so multi-line header keys stay on one row.
func tsvField(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
