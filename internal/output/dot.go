package output

import (
	"fmt"
	"strings"

	"glslreflect/internal/engine/parser"
)

const maxLabelText = 60

type DOTGenerator struct {
	tree *parser.Tree
}

func NewDOTGenerator(tree *parser.Tree) *DOTGenerator {
	return &DOTGenerator{tree: tree}
}

// Generate renders the parse tree as a Graphviz digraph.
func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph parse_tree {\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8];\n\n")

	ids := make(map[*parser.Node]int)

	d.tree.Root.Walk(func(n *parser.Node, depth int) bool {
		id := len(ids)
		ids[n] = id

		label := n.Kind.String()
		if n.Kind != parser.KindRoot {
			label += " : " + truncate(d.tree.Text(n))
		}
		if isDeclaration(n.Kind) {
			buf.WriteString(fmt.Sprintf("  n%d [label=\"%s\", fillcolor=\"aliceblue\", style=\"rounded,filled\"];\n", id, dotEscape(label)))
		} else {
			buf.WriteString(fmt.Sprintf("  n%d [label=\"%s\"];\n", id, dotEscape(label)))
		}
		return true
	})

	buf.WriteString("\n")
	d.tree.Root.Walk(func(n *parser.Node, depth int) bool {
		for _, child := range n.Children {
			buf.WriteString(fmt.Sprintf("  n%d -> n%d;\n", ids[n], ids[child]))
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String(), nil
}

func isDeclaration(kind parser.Kind) bool {
	return kind == parser.KindStructDef || kind == parser.KindFunctionDec || kind == parser.KindFilePath
}

func truncate(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > maxLabelText {
		return string(runes[:maxLabelText]) + "..."
	}
	return text
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "\"", "\\\"")
}
