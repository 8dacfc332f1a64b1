package reflection

import (
	"strconv"

	"glslreflect/internal/core/errors"
	"glslreflect/internal/engine/parser"
)

// Extract walks the top-level constructs of tree in source order and builds
// the reflection document. Declarations are attributed to the file named by
// the most recent line directive, or "" before the first one.
func Extract(tree *parser.Tree) (*Document, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New(errors.CodeParseFailure, "no parse tree")
	}

	doc := NewDocument()
	currentFile := ""

	for _, child := range tree.Root.Children {
		switch child.Kind {
		case parser.KindFilePath:
			currentFile = tree.Text(child)

		case parser.KindStructDef:
			info, err := extractStruct(tree, child, currentFile)
			if err != nil {
				return nil, err
			}
			doc.Structs.Set(info.Name, info)

		case parser.KindFunctionDec:
			info, err := extractFunction(tree, child, currentFile)
			if err != nil {
				return nil, err
			}
			// First occurrence keeps the short key; later ones are keyed
			// by their full header text.
			info.Key = info.Name
			if doc.Functions.Has(info.Key) {
				info.Key = tree.Text(child)
			}
			doc.Functions.Set(info.Key, info)
		}
	}

	return doc, nil
}

func extractStruct(tree *parser.Tree, node *parser.Node, file string) (*StructInfo, error) {
	info := &StructInfo{
		Name: tree.Text(node.Child(parser.KindIdentifier)),
		File: file,
	}

	members := node.Child(parser.KindMembers)
	if members == nil {
		return info, nil
	}
	for _, member := range members.Children {
		size, err := arraySize(tree, member)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxSymbol, info.Name)
		}
		info.addMember(MemberInfo{
			Name: tree.Text(member.Child(parser.KindIdentifier)),
			Type: tree.Text(member.Child(parser.KindType)),
			Size: size,
		})
	}
	return info, nil
}

func extractFunction(tree *parser.Tree, node *parser.Node, file string) (*FunctionInfo, error) {
	info := &FunctionInfo{
		Name: tree.Text(node.Child(parser.KindIdentifier)),
		Type: tree.Text(node.Child(parser.KindType)),
		File: file,
	}

	params := node.Child(parser.KindParameters)
	if params == nil {
		return info, nil
	}
	for _, param := range params.Children {
		size, err := arraySize(tree, param)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxSymbol, info.Name)
		}
		io := IOIn
		if q := param.Child(parser.KindIO); q != nil {
			io = IOQualifier(tree.Text(q))
		}
		info.addParameter(ParameterInfo{
			Name: tree.Text(param.Child(parser.KindIdentifier)),
			Type: tree.Text(param.Child(parser.KindType)),
			Size: size,
			IO:   io,
		})
	}
	return info, nil
}

// arraySize returns the declared element count of node, 0 when it has no
// array suffix. Counts that do not fit a 32-bit int are fatal.
func arraySize(tree *parser.Tree, node *parser.Node) (int, error) {
	sizeNode := node.Child(parser.KindArraySize)
	if sizeNode == nil {
		return 0, nil
	}
	text := tree.Text(sizeNode.Child(parser.KindDigits))
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, errors.AddContext(
			errors.Wrap(err, errors.CodeNumericConversion, "invalid array size"),
			errors.CtxValue, text,
		)
	}
	return int(n), nil
}
