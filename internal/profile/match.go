package profile

import (
	"fmt"
	"strings"
)

type matchKind int

const (
	exact matchKind = iota
	contains
	prefix
)

// Matcher is a line predicate used to find stale lines of a block.
type Matcher struct {
	kind    matchKind
	pattern string
}

// Exact matches lines equal to s, ignoring surrounding whitespace.
func Exact(s string) Matcher { return Matcher{exact, strings.TrimSpace(s)} }

// Contains matches lines containing s.
func Contains(s string) Matcher { return Matcher{contains, s} }

// Prefix matches lines starting with s once leading whitespace is removed.
func Prefix(s string) Matcher { return Matcher{prefix, s} }

// Match reports whether line matches.
func (m Matcher) Match(line string) bool {
	switch m.kind {
	case exact:
		return strings.TrimSpace(line) == m.pattern
	case contains:
		return strings.Contains(line, m.pattern)
	case prefix:
		return strings.HasPrefix(strings.TrimLeft(line, " \t"), m.pattern)
	}
	return false
}

func (m Matcher) String() string {
	switch m.kind {
	case exact:
		return fmt.Sprintf("exact(%q)", m.pattern)
	case prefix:
		return fmt.Sprintf("prefix(%q)", m.pattern)
	}
	return fmt.Sprintf("contains(%q)", m.pattern)
}
