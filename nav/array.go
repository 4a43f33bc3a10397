package nav

import "github.com/lattice-substrate/json-nav/navtok"

// ArrayElementCount returns the number of elements recorded for the array at
// token index arr. The type is not checked; an out-of-range index counts as
// empty.
func ArrayElementCount(doc *navtok.Document, arr int) int {
	return recordedSize(doc, arr)
}

// ArrayNthElement returns the token index of the zero-based nth element of
// the array at token index arr, or NotFound when n is out of range, arr is
// not an array, or the document ends before the element.
func ArrayNthElement(doc *navtok.Document, arr, n int) int {
	t, ok := container(doc, arr, navtok.Array)
	if !ok || n < 0 || n >= t.Size {
		return NotFound
	}

	toks := doc.Tokens
	cur := arr + 1
	for i := 0; i < n; i++ {
		if cur = skip(toks, cur); cur == NotFound {
			return NotFound
		}
	}
	if cur >= len(toks) {
		return NotFound
	}
	return cur
}
