package parser

import "errors"

// ErrNoTree is returned when the scan does not produce a tree covering the input.
var ErrNoTree = errors.New("parse produced no tree")

// Parse scans source and returns the tree of recognized declarations.
// Unrecognized text never causes an error; it is skipped one character at a time.
func Parse(source string) (*Tree, error) {
	s := newState(source)
	if !topLevel(s) || s.pos != len(source) || len(s.frames) != 1 {
		return nil, ErrNoTree
	}

	root := &Node{
		Kind:     KindRoot,
		Span:     Span{Start: 0, End: len(source)},
		Children: s.frames[0],
	}
	return &Tree{Source: source, Root: root}, nil
}
