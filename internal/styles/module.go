// Package styles implements CSS modules: every class selector in a
// stylesheet is renamed to "<class>_<hash>" so that pages can share class
// names without colliding. Components look classes up by their semantic name.
package styles

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/gorilla/css/scanner"
)

// ErrNoClasses is returned for a stylesheet that declares no class selector.
var ErrNoClasses = errors.New("styles: stylesheet declares no classes")

const hashLen = 8

// Module is a scoped stylesheet.
type Module struct {
	name    string
	hash    string
	classes map[string]string
	css     []byte
}

// New scopes css under name.
func New(name string, css []byte) (*Module, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "/.") {
		return nil, fmt.Errorf("styles: invalid module name %q", name)
	}
	sum := sha256.Sum256(css)
	m := &Module{
		name:    name,
		hash:    hex.EncodeToString(sum[:])[:hashLen],
		classes: map[string]string{},
	}
	scopedCSS, err := rewrite(string(css), func(class string) string {
		scoped, ok := m.classes[class]
		if !ok {
			scoped = class + "_" + m.hash
			m.classes[class] = scoped
		}
		return scoped
	})
	if err != nil {
		return nil, fmt.Errorf("styles: parse %s: %w", name, err)
	}
	m.css = []byte(scopedCSS)
	if len(m.classes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoClasses, name)
	}
	return m, nil
}

// MustNew is New for embedded stylesheets known at compile time.
func MustNew(name string, css []byte) *Module {
	m, err := New(name, css)
	if err != nil {
		panic(err)
	}
	return m
}

// Class returns the scoped identifier of a semantic class name, or "" when
// the stylesheet does not declare it.
func (m *Module) Class(name string) string {
	if m == nil {
		return ""
	}
	return m.classes[name]
}

// Classes returns a copy of the semantic-to-scoped mapping.
func (m *Module) Classes() map[string]string { return maps.Clone(m.classes) }

// Names lists the declared semantic class names in sorted order.
func (m *Module) Names() []string {
	out := make([]string, 0, len(m.classes))
	for k := range m.classes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Module) Hash() string { return m.hash }

// Filename is the content-addressed file name the stylesheet is served under.
func (m *Module) Filename() string { return m.name + "." + m.hash + ".css" }

// Href is the URL path of the stylesheet.
func (m *Module) Href() string { return AssetPrefix + m.Filename() }

// CSS returns the rewritten stylesheet.
func (m *Module) CSS() []byte { return append([]byte(nil), m.css...) }

// rewrite tokenizes css and renames every class selector in a rule prelude
// (the selector list before a declaration block) through fn. At-rule
// preludes, declarations, strings and comments are copied unchanged.
func rewrite(css string, fn func(string) string) (string, error) {
	var (
		out     strings.Builder
		prelude []*scanner.Token
		// true for a declaration block, false for an at-rule block such as @media
		stack []bool
	)
	out.Grow(len(css))
	inDecls := func() bool { return len(stack) > 0 && stack[len(stack)-1] }
	flush := func(rename bool) {
		for i, tok := range prelude {
			if rename && tok.Type == scanner.TokenIdent && i > 0 && isClassDot(prelude[i-1]) {
				out.WriteString(fn(tok.Value))
				continue
			}
			out.WriteString(tok.Value)
		}
		prelude = prelude[:0]
	}

	s := scanner.New(css)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			flush(false)
			return out.String(), nil
		case scanner.TokenError:
			return "", fmt.Errorf("line %d, column %d: %s", tok.Line, tok.Column, tok.Value)
		}
		if inDecls() {
			out.WriteString(tok.Value)
			if tok.Type == scanner.TokenChar {
				switch tok.Value {
				case "{":
					stack = append(stack, true)
				case "}":
					stack = stack[:len(stack)-1]
				}
			}
			continue
		}
		if tok.Type != scanner.TokenChar {
			prelude = append(prelude, tok)
			continue
		}
		switch tok.Value {
		case "{":
			atRule := startsWithAtKeyword(prelude)
			flush(!atRule)
			stack = append(stack, !atRule)
		case "}":
			flush(false)
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ";":
			flush(false)
		default:
			prelude = append(prelude, tok)
			continue
		}
		out.WriteString(tok.Value)
	}
}

func isClassDot(tok *scanner.Token) bool {
	return tok.Type == scanner.TokenChar && tok.Value == "."
}

func startsWithAtKeyword(toks []*scanner.Token) bool {
	for _, tok := range toks {
		switch tok.Type {
		case scanner.TokenS, scanner.TokenComment:
			continue
		case scanner.TokenAtKeyword:
			return true
		}
		return false
	}
	return false
}
