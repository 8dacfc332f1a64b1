package output

import (
	"encoding/json"
	"strings"
	"testing"

	"glslreflect/internal/engine/parser"
	"glslreflect/internal/engine/reflection"
)

func reflect(t *testing.T, src string) (*parser.Tree, *reflection.Document) {
	t.Helper()
	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := reflection.Extract(tree)
	if err != nil {
		t.Fatal(err)
	}
	return tree, doc
}

const sample = `#line 1 "lib/light.glsl"
struct Light { vec3 pos; float radius[2]; };
struct Scene { Light lights[8]; int count; };
vec4 main(in vec2 uv, out float depth) { return vec4(uv, 0.0, 1.0); }
vec4 main(vec3 p) { return vec4(p, 1.0); }
`

func TestJSONGeneratorShape(t *testing.T) {
	_, doc := reflect(t, sample)
	out, err := NewJSONGenerator(DefaultIndent).Generate(doc)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]map[string]map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	light := decoded["structs"]["Light"]
	if light["name"] != "Light" || light["file"] != "lib/light.glsl" {
		t.Errorf("unexpected struct header: %v", light)
	}
	radius, ok := light["radius"].(map[string]any)
	if !ok {
		t.Fatalf("member radius missing: %v", light)
	}
	if radius["type"] != "float" || radius["size"] != float64(2) {
		t.Errorf("unexpected member: %v", radius)
	}

	main := decoded["functions"]["main"]
	if main["type"] != "vec4" {
		t.Errorf("unexpected function: %v", main)
	}
	depth, ok := main["depth"].(map[string]any)
	if !ok || depth["io"] != "out" {
		t.Errorf("unexpected parameter depth: %v", main["depth"])
	}
	if _, ok := decoded["functions"]["vec4 main(vec3 p) {"]; !ok {
		t.Errorf("overload keyed by header text missing: %v", decoded["functions"])
	}
}

func TestJSONGeneratorKeyOrder(t *testing.T) {
	_, doc := reflect(t, "struct Z { int b; int a; };\nstruct A { int z; };")
	out, err := NewJSONGenerator(0).Generate(doc)
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"structs":{"Z":{"name":"Z","file":"","b":{"name":"b","type":"int","size":0},"a":{"name":"a","type":"int","size":0}},"A":{"name":"A","file":"","z":{"name":"z","type":"int","size":0}}},"functions":{}}` + "\n"
	if string(out) != expected {
		t.Errorf("unexpected JSON:\n%s\nwant:\n%s", out, expected)
	}
}

func TestJSONGeneratorEmptyDocument(t *testing.T) {
	_, doc := reflect(t, "// nothing here\n")
	out, err := NewJSONGenerator(DefaultIndent).Generate(doc)
	if err != nil {
		t.Fatal(err)
	}
	expected := "{\n    \"structs\": {},\n    \"functions\": {}\n}\n"
	if string(out) != expected {
		t.Errorf("unexpected JSON:\n%q", out)
	}
}

func TestJSONGeneratorEscapesKeys(t *testing.T) {
	_, doc := reflect(t, "#line 1 \"dir\\\\a<b>.glsl\"\nvoid f() {}\nvoid f(int\ta) {}")
	out, err := NewJSONGenerator(2).Generate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"void f(int\ta) {"`) {
		t.Errorf("expected escaped header key, got:\n%s", out)
	}
	if !strings.Contains(string(out), `a<b>.glsl`) {
		t.Errorf("expected unescaped angle brackets, got:\n%s", out)
	}
}

func TestTSVGenerator(t *testing.T) {
	_, doc := reflect(t, sample)
	tsv, err := NewTSVGenerator().Generate(doc)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	// header + 2 structs + 4 members + 2 functions + 3 parameters
	if len(lines) != 12 {
		t.Fatalf("Expected 12 lines in TSV, got %d:\n%s", len(lines), tsv)
	}
	if lines[0] != "Kind\tKey\tName\tType\tSize\tIO\tFile" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if lines[3] != "member\tLight\tradius\tfloat\t2\t\tlib/light.glsl" {
		t.Errorf("Unexpected member line: %q", lines[3])
	}
	if !strings.Contains(tsv, "parameter\tvec4 main(vec3 p) {\tp\tvec3\t0\tin\tlib/light.glsl") {
		t.Errorf("missing overload parameter row:\n%s", tsv)
	}
}

func TestDOTGenerator(t *testing.T) {
	tree, _ := reflect(t, "struct A { int \"x\"; }; struct B { int y; };")
	dot, err := NewDOTGenerator(tree).Generate()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dot, "digraph parse_tree {") {
		t.Error("DOT output missing digraph header")
	}
	if !strings.Contains(dot, `n0 [label="root"]`) {
		t.Error("DOT output missing root node")
	}
	if !strings.Contains(dot, "n0 -> n1;") {
		t.Error("DOT output missing root edge")
	}
	if !strings.Contains(dot, `label="identifier : y"`) {
		t.Errorf("DOT output missing identifier label:\n%s", dot)
	}
}

func TestTreeDumper(t *testing.T) {
	tree, _ := reflect(t, "#line 2 \"a.glsl\"\nstruct A { int x; };")
	dump, err := NewTreeDumper(tree).Generate()
	if err != nil {
		t.Fatal(err)
	}
	expected := strings.Join([]string{
		"digits : 2",
		"line-directive-path : a.glsl",
		"struct-definition : struct A { int x; }",
		"  identifier : A",
		"  member-list : int x; ",
		"    member : int x;",
		"      type : int",
		"      identifier : x",
	}, "\n") + "\n"
	if dump != expected {
		t.Errorf("unexpected dump:\n%s\nwant:\n%s", dump, expected)
	}
}

func TestMermaidGenerator(t *testing.T) {
	_, doc := reflect(t, sample)
	out, err := NewMermaidGenerator(doc).Generate()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "classDiagram\n") {
		t.Error("missing classDiagram header")
	}
	if !strings.Contains(out, "    Light lights[8]\n") {
		t.Errorf("missing array member:\n%s", out)
	}
	if !strings.Contains(out, "  Scene *-- Light : lights\n") {
		t.Errorf("missing composition edge:\n%s", out)
	}
	if strings.Contains(out, "*-- int") {
		t.Error("builtin types must not produce edges")
	}
}
