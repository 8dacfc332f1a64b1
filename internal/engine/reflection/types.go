package reflection

// IOQualifier is the data-flow direction of a function parameter.
type IOQualifier string

const (
	IOIn    IOQualifier = "in"
	IOOut   IOQualifier = "out"
	IOInOut IOQualifier = "inout"
)

// MemberInfo describes one struct member. Size is 0 for non-array members.
type MemberInfo struct {
	Name string
	Type string
	Size int
}

type StructInfo struct {
	Name    string
	File    string
	Members []MemberInfo
}

// Member looks up a member by name.
func (s *StructInfo) Member(name string) (MemberInfo, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return MemberInfo{}, false
}

func (s *StructInfo) addMember(m MemberInfo) {
	for i := range s.Members {
		if s.Members[i].Name == m.Name {
			s.Members[i] = m
			return
		}
	}
	s.Members = append(s.Members, m)
}

// ParameterInfo describes one function parameter. IO defaults to IOIn.
type ParameterInfo struct {
	Name string
	Type string
	Size int
	IO   IOQualifier
}

// FunctionInfo describes a function declaration header. Key is the entry's
// key in Document.Functions: the name, or the full header text for a later
// function that reuses an already emitted name.
type FunctionInfo struct {
	Key        string
	Name       string
	Type       string
	File       string
	Parameters []ParameterInfo
}

func (f *FunctionInfo) Parameter(name string) (ParameterInfo, bool) {
	for _, p := range f.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterInfo{}, false
}

func (f *FunctionInfo) addParameter(p ParameterInfo) {
	for i := range f.Parameters {
		if f.Parameters[i].Name == p.Name {
			f.Parameters[i] = p
			return
		}
	}
	f.Parameters = append(f.Parameters, p)
}

// Document is the reflection result for one compilation unit.
type Document struct {
	Structs   *OrderedMap[*StructInfo]
	Functions *OrderedMap[*FunctionInfo]
}

func NewDocument() *Document {
	return &Document{
		Structs:   NewOrderedMap[*StructInfo](),
		Functions: NewOrderedMap[*FunctionInfo](),
	}
}

type Stats struct {
	Structs    int
	Members    int
	Functions  int
	Parameters int
	// Files counts distinct non-empty files declarations are attributed to.
	Files int
}

func (d *Document) Stats() Stats {
	var st Stats
	files := make(map[string]bool)
	for _, s := range d.Structs.Values() {
		st.Structs++
		st.Members += len(s.Members)
		files[s.File] = true
	}
	for _, f := range d.Functions.Values() {
		st.Functions++
		st.Parameters += len(f.Parameters)
		files[f.File] = true
	}
	delete(files, "")
	st.Files = len(files)
	return st
}
