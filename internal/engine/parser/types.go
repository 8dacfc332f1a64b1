package parser

// Kind identifies the grammar rule that produced a node.
type Kind int

const (
	KindRoot Kind = iota
	KindIdentifier
	KindType
	KindDigits
	KindPrecision
	KindIO
	KindArraySize
	KindFilePath
	KindMember
	KindMembers
	KindStructDef
	KindParameter
	KindParameters
	KindFunctionDec
)

var kindNames = [...]string{
	KindRoot:        "root",
	KindIdentifier:  "identifier",
	KindType:        "type",
	KindDigits:      "digits",
	KindPrecision:   "precision",
	KindIO:          "io",
	KindArraySize:   "array-size",
	KindFilePath:    "line-directive-path",
	KindMember:      "member",
	KindMembers:     "member-list",
	KindStructDef:   "struct-definition",
	KindParameter:   "parameter",
	KindParameters:  "parameter-list",
	KindFunctionDec: "function-declaration",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Span is a half-open byte range [Start, End) into the parsed source.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) Text(source string) string {
	return source[s.Start:s.End]
}

// Node is one matched rule instance. A node owns its children exclusively.
type Node struct {
	Kind     Kind
	Span     Span
	Children []*Node
}

func (n *Node) Text(source string) string {
	if n == nil {
		return ""
	}
	return n.Span.Text(source)
}

// Child returns the first direct child of the given kind, or nil.
func (n *Node) Child(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Tree is the result of a parse: the source text and the synthetic root
// whose children are the top-level constructs in source order.
type Tree struct {
	Source string
	Root   *Node
}

func (t *Tree) Text(n *Node) string {
	return n.Text(t.Source)
}
