package parser

import (
	"strings"
	"unicode/utf8"
)

// rule reports whether it matched at the current position. A rule that fails
// leaves the position and the pending node list exactly as it found them.
type rule func(s *state) bool

type state struct {
	src    string
	pos    int
	frames [][]*Node
}

type mark struct {
	pos   int
	nodes int
}

func newState(src string) *state {
	return &state{
		src:    src,
		frames: [][]*Node{make([]*Node, 0, 16)},
	}
}

func (s *state) mark() mark {
	return mark{pos: s.pos, nodes: len(s.frames[len(s.frames)-1])}
}

func (s *state) reset(m mark) {
	s.pos = m.pos
	top := len(s.frames) - 1
	s.frames[top] = s.frames[top][:m.nodes]
}

func (s *state) atEnd() bool {
	return s.pos >= len(s.src)
}

// capture retains a node of the given kind when r matches. Nodes produced
// inside r become its children; nodes of rules without capture are hoisted
// into the nearest capturing ancestor.
func capture(kind Kind, r rule) rule {
	return func(s *state) bool {
		start := s.pos
		s.frames = append(s.frames, nil)
		ok := r(s)
		children := s.frames[len(s.frames)-1]
		s.frames = s.frames[:len(s.frames)-1]
		if !ok {
			s.pos = start
			return false
		}
		top := len(s.frames) - 1
		s.frames[top] = append(s.frames[top], &Node{
			Kind:     kind,
			Span:     Span{Start: start, End: s.pos},
			Children: children,
		})
		return true
	}
}

func seq(rules ...rule) rule {
	return func(s *state) bool {
		m := s.mark()
		for _, r := range rules {
			if !r(s) {
				s.reset(m)
				return false
			}
		}
		return true
	}
}

// sor tries each alternative in order and commits to the first match.
func sor(rules ...rule) rule {
	return func(s *state) bool {
		for _, r := range rules {
			if r(s) {
				return true
			}
		}
		return false
	}
}

func opt(r rule) rule {
	return func(s *state) bool {
		r(s)
		return true
	}
}

func star(r rule) rule {
	return func(s *state) bool {
		for {
			before := s.pos
			if !r(s) || s.pos == before {
				return true
			}
		}
	}
}

func plus(r rule) rule {
	return seq(r, star(r))
}

// list matches one or more items separated by sep.
func list(item, sep rule) rule {
	return seq(item, star(seq(sep, item)))
}

func lit(text string) rule {
	return func(s *state) bool {
		if !strings.HasPrefix(s.src[s.pos:], text) {
			return false
		}
		s.pos += len(text)
		return true
	}
}

func one(c byte) rule {
	return func(s *state) bool {
		if s.atEnd() || s.src[s.pos] != c {
			return false
		}
		s.pos++
		return true
	}
}

func notOne(c byte) rule {
	return func(s *state) bool {
		if s.atEnd() || s.src[s.pos] == c {
			return false
		}
		s.pos++
		return true
	}
}

// keyword matches word only when it is not followed by an identifier character.
func keyword(word string) rule {
	return func(s *state) bool {
		if !strings.HasPrefix(s.src[s.pos:], word) {
			return false
		}
		end := s.pos + len(word)
		if end < len(s.src) && isIdentChar(s.src[end]) {
			return false
		}
		s.pos = end
		return true
	}
}

func keywords(words ...string) rule {
	alternatives := make([]rule, 0, len(words))
	for _, word := range words {
		alternatives = append(alternatives, keyword(word))
	}
	return sor(alternatives...)
}

func identifier(s *state) bool {
	if s.atEnd() || !isIdentStart(s.src[s.pos]) {
		return false
	}
	s.pos++
	for !s.atEnd() && isIdentChar(s.src[s.pos]) {
		s.pos++
	}
	return true
}

func digits(s *state) bool {
	start := s.pos
	for !s.atEnd() && isDigit(s.src[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

// anyChar consumes exactly one character.
func anyChar(s *state) bool {
	if s.atEnd() {
		return false
	}
	_, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	return true
}

func lineComment(s *state) bool {
	if !strings.HasPrefix(s.src[s.pos:], "//") {
		return false
	}
	end := strings.IndexByte(s.src[s.pos+2:], '\n')
	if end < 0 {
		s.pos = len(s.src)
		return true
	}
	s.pos += 2 + end + 1
	return true
}

// blockComment does not nest and does not match when the closing */ is missing.
func blockComment(s *state) bool {
	if !strings.HasPrefix(s.src[s.pos:], "/*") {
		return false
	}
	end := strings.Index(s.src[s.pos+2:], "*/")
	if end < 0 {
		return false
	}
	s.pos += 2 + end + 2
	return true
}

func space(s *state) bool {
	if s.atEnd() || !isSpace(s.src[s.pos]) {
		return false
	}
	s.pos++
	return true
}

// skip consumes any run of whitespace and comments, possibly empty.
func skip(s *state) bool {
	for lineComment(s) || blockComment(s) || space(s) {
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
