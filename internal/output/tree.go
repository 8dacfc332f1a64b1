package output

import (
	"fmt"
	"strings"

	"glslreflect/internal/engine/parser"
)

type TreeDumper struct {
	tree *parser.Tree
}

func NewTreeDumper(tree *parser.Tree) *TreeDumper {
	return &TreeDumper{tree: tree}
}

// Generate prints "kind : text" for every retained node in pre-order,
// indented by depth. The root carries no text and is not printed.
func (d *TreeDumper) Generate() (string, error) {
	var buf strings.Builder
	d.tree.Root.Walk(func(n *parser.Node, depth int) bool {
		if n.Kind == parser.KindRoot {
			return true
		}
		buf.WriteString(fmt.Sprintf("%s%s : %s\n", strings.Repeat("  ", depth-1), n.Kind, d.tree.Text(n)))
		return true
	})
	return buf.String(), nil
}
