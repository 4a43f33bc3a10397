// Package navpath resolves dotted field paths such as
// "fee_bytes.amount[0].denom" to token indices of a tokenized document.
//
// Resolution uses only the navigator's object and array queries, so it walks
// the flat token array in constant extra memory per step. Keys are matched
// byte for byte against raw key spans; keys containing '.' or '[' cannot be
// addressed.
package navpath

import (
	"strconv"
	"strings"

	"github.com/lattice-substrate/json-nav/nav"
	"github.com/lattice-substrate/json-nav/naverr"
	"github.com/lattice-substrate/json-nav/navtok"
)

// Step is one path segment: an object key, or an array index when IsIndex
// is set.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path is a parsed field path. The empty Path addresses the root token.
type Path []Step

// Parse parses a path expression. An optional leading "$" names the root;
// keys are separated by '.', and "[n]" selects array element n.
func Parse(expr string) (Path, error) {
	pos := 0
	if strings.HasPrefix(expr, "$") {
		pos = 1
		if pos < len(expr) {
			switch expr[pos] {
			case '.':
				pos++
				if pos == len(expr) {
					return nil, pathError(expr, pos, "empty key")
				}
			case '[':
			default:
				return nil, pathError(expr, pos, "expected '.' or '[' after '$'")
			}
		}
	}

	var path Path
	for pos < len(expr) {
		if expr[pos] == '[' {
			end := strings.IndexByte(expr[pos:], ']')
			if end < 0 {
				return nil, pathError(expr, pos, "unterminated index")
			}
			digits := expr[pos+1 : pos+end]
			n, err := strconv.Atoi(digits)
			if err != nil || n < 0 || digits == "" || digits[0] == '+' || digits[0] == '-' {
				return nil, pathError(expr, pos+1, "invalid index "+strconv.Quote(digits))
			}
			path = append(path, Step{Index: n, IsIndex: true})
			pos += end + 1
			if pos < len(expr) && expr[pos] != '.' && expr[pos] != '[' {
				return nil, pathError(expr, pos, "expected '.' or '[' after index")
			}
		} else {
			end := strings.IndexAny(expr[pos:], ".[")
			if end < 0 {
				end = len(expr) - pos
			}
			if end == 0 {
				return nil, pathError(expr, pos, "empty key")
			}
			path = append(path, Step{Key: expr[pos : pos+end]})
			pos += end
		}

		if pos < len(expr) && expr[pos] == '.' {
			pos++
			if pos == len(expr) || expr[pos] == '.' || expr[pos] == '[' {
				return nil, pathError(expr, pos, "empty key")
			}
		}
	}
	return path, nil
}

// MustParse is like Parse but panics on error. It is intended for paths
// fixed at compile time.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func pathError(expr string, col int, msg string) *naverr.Error {
	return naverr.Newf(naverr.InvalidPath, -1, "path %q at column %d: %s", expr, col, msg)
}

// String renders the path in the form Parse accepts.
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, st := range p {
		if st.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(st.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(st.Key)
	}
	return b.String()
}

// Resolve returns the token index addressed by p, starting from the root
// token of doc. src must be the text doc was tokenized from.
//
// A step into a token of the wrong kind fails with TYPE_MISMATCH; a missing
// key or an out-of-range index fails with NOT_FOUND. Error offsets point at
// the container where resolution stopped.
func (p Path) Resolve(doc *navtok.Document, src []byte) (int, error) {
	if doc.Len() == 0 {
		return nav.NotFound, naverr.New(naverr.NotFound, -1, "empty document")
	}

	cur := 0
	for i, st := range p {
		tok, _ := doc.Token(cur)
		var next int
		if st.IsIndex {
			if tok.Type != navtok.Array {
				return nav.NotFound, naverr.Newf(naverr.TypeMismatch, tok.Start,
					"%s: expected array, found %s", p[:i].String(), tok.Type)
			}
			next = nav.ArrayNthElement(doc, cur, st.Index)
			if next == nav.NotFound {
				return nav.NotFound, naverr.Newf(naverr.NotFound, tok.Start,
					"%s: index %d out of range (%d elements)", p[:i+1].String(), st.Index, nav.ArrayElementCount(doc, cur))
			}
		} else {
			if tok.Type != navtok.Object {
				return nav.NotFound, naverr.Newf(naverr.TypeMismatch, tok.Start,
					"%s: expected object, found %s", p[:i].String(), tok.Type)
			}
			next = nav.ObjectValue(doc, cur, st.Key, src)
			if next == nav.NotFound {
				return nav.NotFound, naverr.Newf(naverr.NotFound, tok.Start,
					"%s: key not found", p[:i+1].String())
			}
		}
		cur = next
	}
	return cur, nil
}

// Resolve parses expr and resolves it against doc.
func Resolve(doc *navtok.Document, src []byte, expr string) (int, error) {
	p, err := Parse(expr)
	if err != nil {
		return nav.NotFound, err
	}
	return p.Resolve(doc, src)
}
