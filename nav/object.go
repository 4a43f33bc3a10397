package nav

import "github.com/lattice-substrate/json-nav/navtok"

// ObjectElementCount returns the number of key/value pairs recorded for the
// object at token index obj. The type is not checked; an out-of-range index
// counts as empty.
func ObjectElementCount(doc *navtok.Document, obj int) int {
	return recordedSize(doc, obj)
}

// ObjectNthKey returns the token index of the key of the zero-based nth pair
// of the object at token index obj, or NotFound. A returned key is always a
// String token.
func ObjectNthKey(doc *navtok.Document, obj, n int) int {
	key, _ := nthPair(doc, obj, n)
	return key
}

// ObjectNthValue returns the token index of the value of the zero-based nth
// pair of the object at token index obj, or NotFound.
func ObjectNthValue(doc *navtok.Document, obj, n int) int {
	_, value := nthPair(doc, obj, n)
	return value
}

// ObjectValue returns the token index of the value whose key matches key
// byte for byte, or NotFound. Keys are compared as raw spans of src, with no
// escape decoding or case folding; the first matching pair wins. src must be
// the text doc was tokenized from.
func ObjectValue(doc *navtok.Document, obj int, key string, src []byte) int {
	t, ok := container(doc, obj, navtok.Object)
	if !ok {
		return NotFound
	}

	toks := doc.Tokens
	cur := obj + 1
	for i := 0; i < t.Size; i++ {
		if cur+1 >= len(toks) {
			return NotFound
		}
		if k := toks[cur]; k.Type == navtok.String && spanEqual(src, k, key) {
			return cur + 1
		}
		if cur = skipPair(toks, cur); cur == NotFound {
			return NotFound
		}
	}
	return NotFound
}

// nthPair locates the key and value token indices of pair n.
func nthPair(doc *navtok.Document, obj, n int) (int, int) {
	t, ok := container(doc, obj, navtok.Object)
	if !ok || n < 0 || n >= t.Size {
		return NotFound, NotFound
	}

	toks := doc.Tokens
	cur := obj + 1
	for i := 0; i < n; i++ {
		if cur = skipPair(toks, cur); cur == NotFound {
			return NotFound, NotFound
		}
	}

	// The key is a string and owns no children, so its value follows it.
	if cur+1 >= len(toks) || toks[cur].Type != navtok.String {
		return NotFound, NotFound
	}
	return cur, cur + 1
}

// skipPair returns the index following the key/value pair starting at i.
func skipPair(toks []navtok.Token, i int) int {
	if i = skip(toks, i); i == NotFound {
		return NotFound
	}
	return skip(toks, i)
}

func spanEqual(src []byte, t navtok.Token, key string) bool {
	if t.Start < 0 || t.End < t.Start || t.End > len(src) {
		return false
	}
	return string(src[t.Start:t.End]) == key
}
