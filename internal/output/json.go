package output

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"glslreflect/internal/engine/reflection"
)

const DefaultIndent = 4

// RendererVersion identifies the output produced for a given source. Bump it
// whenever the grammar or a generator changes what any input renders to.
const RendererVersion = "1"

// JSONGenerator renders a reflection document as JSON. Object keys follow the
// document's insertion order: a struct object lists name and file followed by
// one object per member, a function object lists name, type and file followed
// by one object per parameter.
type JSONGenerator struct {
	Indent int
}

func NewJSONGenerator(indent int) *JSONGenerator {
	return &JSONGenerator{Indent: indent}
}

func (g *JSONGenerator) Generate(doc *reflection.Document) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"structs":{`)
	for i, key := range doc.Structs.Keys() {
		s, _ := doc.Structs.Get(key)
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, key)
		buf.WriteByte('{')
		writeField(&buf, "name", quote(s.Name), false)
		writeField(&buf, "file", quote(s.File), true)
		for _, m := range s.Members {
			buf.WriteByte(',')
			writeKey(&buf, m.Name)
			buf.WriteByte('{')
			writeField(&buf, "name", quote(m.Name), false)
			writeField(&buf, "type", quote(m.Type), true)
			writeField(&buf, "size", []byte(strconv.Itoa(m.Size)), true)
			buf.WriteByte('}')
		}
		buf.WriteByte('}')
	}

	buf.WriteString(`},"functions":{`)
	for i, key := range doc.Functions.Keys() {
		f, _ := doc.Functions.Get(key)
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, key)
		buf.WriteByte('{')
		writeField(&buf, "name", quote(f.Name), false)
		writeField(&buf, "type", quote(f.Type), true)
		writeField(&buf, "file", quote(f.File), true)
		for _, p := range f.Parameters {
			buf.WriteByte(',')
			writeKey(&buf, p.Name)
			buf.WriteByte('{')
			writeField(&buf, "name", quote(p.Name), false)
			writeField(&buf, "type", quote(p.Type), true)
			writeField(&buf, "size", []byte(strconv.Itoa(p.Size)), true)
			writeField(&buf, "io", quote(string(p.IO)), true)
			buf.WriteByte('}')
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`}}`)

	if g.Indent <= 0 {
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", strings.Repeat(" ", g.Indent)); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) {
	buf.Write(quote(key))
	buf.WriteByte(':')
}

func writeField(buf *bytes.Buffer, key string, value []byte, comma bool) {
	if comma {
		buf.WriteByte(',')
	}
	writeKey(buf, key)
	buf.Write(value)
}

// quote encodes s as a JSON string without HTML escaping.
func quote(s string) []byte {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(b.Bytes(), "\n")
}
