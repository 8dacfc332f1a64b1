package parser

import (
	"strings"
	"testing"
)

func kinds(nodes []*Node) []Kind {
	out := make([]Kind, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func equalKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return tree
}

func TestParseTopLevelKinds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Kind
	}{
		{"empty", "", []Kind{}},
		{"noise only", "#define X 1\nuniform float t;\n", []Kind{}},
		{"struct", "struct Foo { vec3 pos; };", []Kind{KindStructDef}},
		{"empty struct", "struct Empty {};", []Kind{KindStructDef}},
		{"function", "void main() { }", []Kind{KindFunctionDec}},
		{"line directive", `#line 1 "a.glsl"`, []Kind{KindDigits, KindFilePath}},
		{
			"mixed",
			"#line 1 \"a.glsl\"\nstruct A { int x; };\nfloat f(float a) { return a; }\n",
			[]Kind{KindDigits, KindFilePath, KindStructDef, KindFunctionDec},
		},
		{"prototype without body", "float f(float a);", []Kind{}},
		{"multi declarator member", "struct S { int a, b; };", []Kind{}},
		{"empty path", `#line 3 ""`, []Kind{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.input)
			got := kinds(tree.Root.Children)
			if !equalKinds(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if tree.Root.Span.End != len(tt.input) {
				t.Errorf("root span should cover input, got %v", tree.Root.Span)
			}
		})
	}
}

func TestParseStructMembers(t *testing.T) {
	src := "struct Light {\n  highp vec3 position; // world space\n  /* rgb */ vec3 color;\n  float radius[4];\n};"
	tree := mustParse(t, src)

	if len(tree.Root.Children) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(tree.Root.Children))
	}
	def := tree.Root.Children[0]
	if name := tree.Text(def.Child(KindIdentifier)); name != "Light" {
		t.Errorf("expected struct name Light, got %q", name)
	}

	members := def.Child(KindMembers)
	if members == nil {
		t.Fatal("member-list node missing")
	}
	if len(members.Children) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members.Children))
	}

	expected := []struct{ typ, name, size, precision string }{
		{"vec3", "position", "", "highp"},
		{"vec3", "color", "", ""},
		{"float", "radius", "4", ""},
	}
	for i, want := range expected {
		m := members.Children[i]
		if got := tree.Text(m.Child(KindType)); got != want.typ {
			t.Errorf("member %d: expected type %s, got %s", i, want.typ, got)
		}
		if got := tree.Text(m.Child(KindIdentifier)); got != want.name {
			t.Errorf("member %d: expected name %s, got %s", i, want.name, got)
		}
		if got := tree.Text(m.Child(KindPrecision)); got != want.precision {
			t.Errorf("member %d: expected precision %q, got %q", i, want.precision, got)
		}
		size := m.Child(KindArraySize)
		if want.size == "" {
			if size != nil {
				t.Errorf("member %d: unexpected array size", i)
			}
			continue
		}
		if size == nil {
			t.Fatalf("member %d: array size missing", i)
		}
		if got := tree.Text(size.Child(KindDigits)); got != want.size {
			t.Errorf("member %d: expected size %s, got %s", i, want.size, got)
		}
	}
}

func TestParseFunctionHeader(t *testing.T) {
	src := "out vec4 main(in vec2 uv) { return vec4(uv, 0.0, 1.0); }"
	tree := mustParse(t, src)

	if len(tree.Root.Children) != 1 {
		t.Fatalf("expected 1 top-level node, got %v", kinds(tree.Root.Children))
	}
	fn := tree.Root.Children[0]
	if fn.Kind != KindFunctionDec {
		t.Fatalf("expected function-declaration, got %s", fn.Kind)
	}
	if got := tree.Text(fn); got != "vec4 main(in vec2 uv) {" {
		t.Errorf("unexpected header text %q", got)
	}
	if got := tree.Text(fn.Child(KindType)); got != "vec4" {
		t.Errorf("expected return type vec4, got %s", got)
	}
	if got := tree.Text(fn.Child(KindIdentifier)); got != "main" {
		t.Errorf("expected name main, got %s", got)
	}

	params := fn.Child(KindParameters)
	if params == nil || len(params.Children) != 1 {
		t.Fatal("expected exactly one parameter")
	}
	p := params.Children[0]
	if got := tree.Text(p.Child(KindIO)); got != "in" {
		t.Errorf("expected io in, got %q", got)
	}
	if got := tree.Text(p.Child(KindType)); got != "vec2" {
		t.Errorf("expected type vec2, got %q", got)
	}
}

func TestParseParameterQualifiers(t *testing.T) {
	src := "void f(inout highp float a[2], out int b, mediump vec3 c, sampler2D tex) {}"
	tree := mustParse(t, src)
	if len(tree.Root.Children) != 1 {
		t.Fatalf("expected 1 top-level node, got %v", kinds(tree.Root.Children))
	}
	params := tree.Root.Children[0].Child(KindParameters)
	if params == nil || len(params.Children) != 4 {
		t.Fatalf("expected 4 parameters")
	}

	expected := []struct{ io, precision, typ, name string }{
		{"inout", "highp", "float", "a"},
		{"out", "", "int", "b"},
		{"", "mediump", "vec3", "c"},
		{"", "", "sampler2D", "tex"},
	}
	for i, want := range expected {
		p := params.Children[i]
		if got := tree.Text(p.Child(KindIO)); got != want.io {
			t.Errorf("param %d: expected io %q, got %q", i, want.io, got)
		}
		if got := tree.Text(p.Child(KindPrecision)); got != want.precision {
			t.Errorf("param %d: expected precision %q, got %q", i, want.precision, got)
		}
		if got := tree.Text(p.Child(KindType)); got != want.typ {
			t.Errorf("param %d: expected type %q, got %q", i, want.typ, got)
		}
		if got := tree.Text(p.Child(KindIdentifier)); got != want.name {
			t.Errorf("param %d: expected name %q, got %q", i, want.name, got)
		}
	}
}

func TestKeywordsMatchWholeWords(t *testing.T) {
	// "input" and "lowpass" are plain type names, not qualifiers.
	src := "void f(input a, lowpass b) {}"
	tree := mustParse(t, src)
	params := tree.Root.Children[0].Child(KindParameters)
	if params == nil || len(params.Children) != 2 {
		t.Fatal("expected 2 parameters")
	}
	for _, p := range params.Children {
		if p.Child(KindIO) != nil || p.Child(KindPrecision) != nil {
			t.Errorf("unexpected qualifier in %q", tree.Text(p))
		}
	}
	if got := tree.Text(params.Children[0].Child(KindType)); got != "input" {
		t.Errorf("expected type input, got %q", got)
	}
}

func TestParseLineDirectivePath(t *testing.T) {
	tree := mustParse(t, "#line 42 \"shaders/common.glsl\"\n")
	path := tree.Root.Child(KindFilePath)
	if path == nil {
		t.Fatal("line-directive-path node missing")
	}
	if got := tree.Text(path); got != "shaders/common.glsl" {
		t.Errorf("unexpected path %q", got)
	}
	if got := tree.Text(tree.Root.Child(KindDigits)); got != "42" {
		t.Errorf("unexpected line number %q", got)
	}
}

func TestFailedAlternativeLeavesNoNodes(t *testing.T) {
	// The struct body fails on the initializer; none of its partial members
	// may leak into the root.
	tree := mustParse(t, "struct S { float a; float b = 1.0; };")
	for _, n := range tree.Root.Children {
		if n.Kind == KindMember || n.Kind == KindMembers || n.Kind == KindStructDef {
			t.Errorf("unexpected leaked node %s", n.Kind)
		}
	}
}

func TestFunctionBodyIsNotEntered(t *testing.T) {
	src := `
float helper(float x) {
	if (x > 0.0) { return x; }
	return -x;
}
vec3 shade(vec3 n) {
	return n * helper(1.0);
}
`
	tree := mustParse(t, src)
	var names []string
	for _, n := range tree.Root.Children {
		if n.Kind == KindFunctionDec {
			names = append(names, tree.Text(n.Child(KindIdentifier)))
		}
	}
	if strings.Join(names, ",") != "helper,shade" {
		t.Errorf("expected helper,shade, got %v", names)
	}
}

func TestCommentsBetweenTokens(t *testing.T) {
	src := "struct /* a */ P // b\n{ /* c */ int /* d */ i /* e */ [ /* f */ 3 /* g */ ] ; }"
	tree := mustParse(t, src)
	def := tree.Root.Child(KindStructDef)
	if def == nil {
		t.Fatal("struct not recognized")
	}
	m := def.Child(KindMembers).Children[0]
	if got := tree.Text(m.Child(KindArraySize).Child(KindDigits)); got != "3" {
		t.Errorf("expected size 3, got %q", got)
	}
}

func TestUnterminatedCommentIsNoise(t *testing.T) {
	tree := mustParse(t, "struct A { int x; } /* never closed")
	if len(tree.Root.Children) != 1 {
		t.Errorf("expected only the struct, got %v", kinds(tree.Root.Children))
	}
}

func TestNonASCIIInput(t *testing.T) {
	tree := mustParse(t, "// héllo wörld\nstruct Ü { int x; };\nstruct B { int y; };")
	var names []string
	for _, n := range tree.Root.Children {
		names = append(names, tree.Text(n.Child(KindIdentifier)))
	}
	if strings.Join(names, ",") != "B" {
		t.Errorf("expected only B, got %v", names)
	}
}

func TestNodeWalk(t *testing.T) {
	tree := mustParse(t, "struct A { int x; };")
	count := 0
	maxDepth := 0
	tree.Root.Walk(func(n *Node, depth int) bool {
		count++
		if depth > maxDepth {
			maxDepth = depth
		}
		return true
	})
	// root, struct, identifier, member-list, member, type, identifier
	if count != 7 {
		t.Errorf("expected 7 nodes, got %d", count)
	}
	if maxDepth != 4 {
		t.Errorf("expected depth 4, got %d", maxDepth)
	}
}

func TestKindString(t *testing.T) {
	if KindStructDef.String() != "struct-definition" {
		t.Errorf("unexpected name %q", KindStructDef.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("unexpected name for out-of-range kind")
	}
}
