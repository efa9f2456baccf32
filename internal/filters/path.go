package filters

import (
	"fmt"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
)

const separator = `\`

// Path identifies a filter by its folder names joined with backslashes, e.g. `src\core`.
// The empty path is the implicit root which is never stored.
type Path string

// NewPath accepts either separator and drops empty segments.
func NewPath(raw string) (Path, error) {
	var segments []string
	for _, segment := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\\' || r == '/' }) {
		if segment = strings.TrimSpace(segment); segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: filter path %q is empty", fault.ErrInvalidPath, raw)
	}
	return JoinPath(segments...), nil
}

// MustPath is NewPath for literals known to be valid.
func MustPath(raw string) Path {
	p, err := NewPath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func JoinPath(segments ...string) Path {
	return Path(strings.Join(segments, separator))
}

func (p Path) String() string {
	return string(p)
}

func (p Path) IsRoot() bool {
	return p == ""
}

func (p Path) Segments() []string {
	if p.IsRoot() {
		return nil
	}
	return strings.Split(string(p), separator)
}

// Name is the last segment, as shown in the IDE.
func (p Path) Name() string {
	if i := strings.LastIndex(string(p), separator); i >= 0 {
		return string(p[i+1:])
	}
	return string(p)
}

func (p Path) Parent() Path {
	if i := strings.LastIndex(string(p), separator); i >= 0 {
		return p[:i]
	}
	return ""
}

func (p Path) Depth() int {
	return len(p.Segments())
}

// Contains reports whether other is p itself or lies below it. The root contains everything.
func (p Path) Contains(other Path) bool {
	return p.IsRoot() || other == p || strings.HasPrefix(string(other), string(p)+separator)
}

// Rebase swaps the from prefix of p for to.
func (p Path) Rebase(from Path, to Path) Path {
	if !from.Contains(p) {
		return p
	}
	rest := strings.TrimPrefix(string(p[len(from):]), separator)
	switch {
	case rest == "":
		return to
	case to.IsRoot():
		return Path(rest)
	default:
		return to + separator + Path(rest)
	}
}

// Lineage lists every path from the top-level ancestor down to p itself.
func (p Path) Lineage() (chain []Path) {
	segments := p.Segments()
	for i := range segments {
		chain = append(chain, JoinPath(segments[:i+1]...))
	}
	return
}
