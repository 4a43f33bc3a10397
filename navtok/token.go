// Package navtok turns JSON text into a flat, fixed-capacity array of token
// descriptors and defines the document model the navigator walks.
//
// Tokens are emitted in pre-order: a container token is immediately followed
// by the flattened tokens of its children. A token records only its type, its
// byte span in the source text, and for containers the number of immediate
// children. No values are decoded and no tree is built; callers resolve spans
// against the source text they tokenized, which must stay unchanged for as
// long as the Document is in use.
package navtok

import "fmt"

// Type identifies the lexical kind of a token.
type Type uint8

const (
	// Undefined is the zero Type. The tokenizer never emits it.
	Undefined Type = iota
	Object
	Array
	String
	Primitive
)

func (t Type) String() string {
	switch t {
	case Undefined:
		return "undefined"
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Primitive:
		return "primitive"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// IsContainer reports whether tokens of this type own children.
func (t Type) IsContainer() bool {
	return t == Object || t == Array
}

// Token is one unit of structure.
//
// Spans are half-open byte ranges [Start, End) into the source text. Container
// spans include their brackets; string spans exclude the quotes and hold the
// raw, undecoded bytes; primitive spans cover the literal.
//
// Size is the number of immediate children: key/value pairs for an Object,
// elements for an Array, zero otherwise.
type Token struct {
	Type  Type
	Start int
	End   int
	Size  int
}

// Document is a tokenized JSON text. len(Tokens) is the populated token count
// and cap(Tokens) the fixed capacity it was produced under.
//
// A Document is never modified after Tokenize returns it, so any number of
// goroutines may query it concurrently.
type Document struct {
	Tokens []Token
}

// Len returns the number of populated tokens.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Tokens)
}

// Token returns the token at index i and whether i is in range.
func (d *Document) Token(i int) (Token, bool) {
	if d == nil || i < 0 || i >= len(d.Tokens) {
		return Token{}, false
	}
	return d.Tokens[i], true
}

// Bytes returns the raw span of token i within src. It returns nil when i is
// out of range or the span does not lie within src.
func (d *Document) Bytes(src []byte, i int) []byte {
	t, ok := d.Token(i)
	if !ok || t.Start < 0 || t.End < t.Start || t.End > len(src) {
		return nil
	}
	return src[t.Start:t.End]
}

// Text is like Bytes but returns a string.
func (d *Document) Text(src []byte, i int) string {
	return string(d.Bytes(src, i))
}
