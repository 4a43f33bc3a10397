// Package nav answers structural queries against a tokenized JSON document:
// element counts of arrays and objects, and the token index of the Nth
// element, key or value.
//
// Queries walk the flat pre-order token array directly. Nested substructures
// are skipped with a single running counter instead of recursion, so every
// query uses constant auxiliary memory regardless of nesting depth.
//
// The token array usually comes from untrusted input. Declared sizes are
// treated as hints: every step is checked against the populated token count,
// and a walk that would overrun it yields NotFound. No query returns an error
// or panics; misses are reported with the NotFound sentinel.
package nav

import (
	"math"

	"github.com/lattice-substrate/json-nav/navtok"
)

// NotFound is returned in place of a token index when an ordinal is out of
// range, a key is absent, or the document is inconsistent.
const NotFound = -1

// SkipSubtree returns the index of the first token after the subtree rooted
// at token i, or NotFound when the subtree would extend past the populated
// tokens. For the root token of a well-formed document it returns doc.Len().
func SkipSubtree(doc *navtok.Document, i int) int {
	if doc == nil {
		return NotFound
	}
	return skip(doc.Tokens, i)
}

// skip walks the subtree at i with a counter of tokens still owed: each
// token consumed pays one, each container adds its children (two per object
// pair). The counter never exceeds the tokens left in the array.
func skip(toks []navtok.Token, i int) int {
	if i < 0 {
		return NotFound
	}
	remaining := 1
	for remaining > 0 {
		if i >= len(toks) {
			return NotFound
		}
		t := toks[i]
		i++
		remaining--

		owed, ok := childSlots(t)
		if !ok || owed > len(toks)-i-remaining {
			return NotFound
		}
		remaining += owed
	}
	return i
}

// childSlots returns how many immediate child tokens t owns.
func childSlots(t navtok.Token) (int, bool) {
	switch t.Type {
	case navtok.Array:
		return t.Size, t.Size >= 0
	case navtok.Object:
		if t.Size < 0 || t.Size > math.MaxInt/2 {
			return 0, false
		}
		return 2 * t.Size, true
	default:
		return 0, true
	}
}

// container returns the token at i if it has type typ and a usable size.
func container(doc *navtok.Document, i int, typ navtok.Type) (navtok.Token, bool) {
	t, ok := doc.Token(i)
	if !ok || t.Type != typ || t.Size < 0 {
		return navtok.Token{}, false
	}
	return t, true
}

// recordedSize returns the declared size of token i, or 0 when i is out of
// range or the size is negative.
func recordedSize(doc *navtok.Document, i int) int {
	t, ok := doc.Token(i)
	if !ok || t.Size < 0 {
		return 0
	}
	return t.Size
}
