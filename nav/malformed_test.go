package nav_test

import (
	"math"
	"testing"

	"github.com/lattice-substrate/json-nav/nav"
	"github.com/lattice-substrate/json-nav/navtok"
)

// Hand-built token arrays whose declared sizes disagree with their contents.
// None of these can come out of navtok.Tokenize; the navigator must still
// answer without reading past the populated tokens.

func arrayTok(size int) navtok.Token  { return navtok.Token{Type: navtok.Array, Size: size} }
func objectTok(size int) navtok.Token { return navtok.Token{Type: navtok.Object, Size: size} }

var primTok = navtok.Token{Type: navtok.Primitive}

func TestArrayClaimsMoreElementsThanTokens(t *testing.T) {
	doc := &navtok.Document{Tokens: []navtok.Token{arrayTok(5), primTok, primTok}}
	if got := nav.ArrayElementCount(doc, 0); got != 5 {
		t.Fatalf("count = %d, want recorded size 5", got)
	}
	want := []int{1, 2, nav.NotFound, nav.NotFound, nav.NotFound}
	for n, w := range want {
		if got := nav.ArrayNthElement(doc, 0, n); got != w {
			t.Errorf("element %d = %d, want %d", n, got, w)
		}
	}
}

func TestNestedContainerOverrun(t *testing.T) {
	// The first element declares more children than the array holds, so the
	// walk to element 1 must stop at the end of the tokens.
	doc := &navtok.Document{Tokens: []navtok.Token{arrayTok(2), arrayTok(3), primTok, primTok}}
	if got := nav.ArrayNthElement(doc, 0, 0); got != 1 {
		t.Fatalf("element 0 = %d, want 1", got)
	}
	if got := nav.ArrayNthElement(doc, 0, 1); got != nav.NotFound {
		t.Fatalf("element 1 = %d, want NotFound", got)
	}
	if got := nav.SkipSubtree(doc, 0); got != nav.NotFound {
		t.Fatalf("SkipSubtree(root) = %d, want NotFound", got)
	}
}

func TestHugeDeclaredSizes(t *testing.T) {
	docs := []*navtok.Document{
		{Tokens: []navtok.Token{arrayTok(2), arrayTok(math.MaxInt), primTok}},
		{Tokens: []navtok.Token{arrayTok(2), objectTok(math.MaxInt/2 + 1), primTok}},
		{Tokens: []navtok.Token{arrayTok(2), objectTok(math.MaxInt), primTok}},
	}
	for i, doc := range docs {
		if got := nav.ArrayNthElement(doc, 0, 1); got != nav.NotFound {
			t.Errorf("doc %d: element 1 = %d, want NotFound", i, got)
		}
		if got := nav.SkipSubtree(doc, 1); got != nav.NotFound {
			t.Errorf("doc %d: SkipSubtree(1) = %d, want NotFound", i, got)
		}
	}
}

func TestNegativeSizes(t *testing.T) {
	doc := &navtok.Document{Tokens: []navtok.Token{arrayTok(-1), primTok}}
	if got := nav.ArrayElementCount(doc, 0); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
	if got := nav.ArrayNthElement(doc, 0, 0); got != nav.NotFound {
		t.Errorf("element 0 = %d, want NotFound", got)
	}

	nested := &navtok.Document{Tokens: []navtok.Token{arrayTok(2), objectTok(-3), primTok, primTok}}
	if got := nav.ArrayNthElement(nested, 0, 1); got != nav.NotFound {
		t.Errorf("element after negative-size object = %d, want NotFound", got)
	}
}

func TestObjectClaimsMorePairsThanTokens(t *testing.T) {
	src := []byte(`abc`)
	doc := &navtok.Document{Tokens: []navtok.Token{
		objectTok(3),
		{Type: navtok.String, Start: 0, End: 1},
		primTok,
		{Type: navtok.String, Start: 1, End: 2},
	}}
	if got := nav.ObjectNthKey(doc, 0, 0); got != 1 {
		t.Errorf("key 0 = %d, want 1", got)
	}
	// Pair 1 has a key but no value token.
	if got := nav.ObjectNthKey(doc, 0, 1); got != nav.NotFound {
		t.Errorf("key 1 = %d, want NotFound", got)
	}
	if got := nav.ObjectNthValue(doc, 0, 2); got != nav.NotFound {
		t.Errorf("value 2 = %d, want NotFound", got)
	}
	if got := nav.ObjectValue(doc, 0, "b", src); got != nav.NotFound {
		t.Errorf("ObjectValue(b) = %d, want NotFound", got)
	}
	if got := nav.ObjectValue(doc, 0, "z", src); got != nav.NotFound {
		t.Errorf("ObjectValue(z) = %d, want NotFound", got)
	}
	if got := nav.ObjectValue(doc, 0, "a", src); got != 2 {
		t.Errorf("ObjectValue(a) = %d, want 2", got)
	}
}

func TestNonStringKey(t *testing.T) {
	doc := &navtok.Document{Tokens: []navtok.Token{objectTok(2), primTok, primTok, arrayTok(0), primTok}}
	for n := 0; n < 2; n++ {
		if got := nav.ObjectNthKey(doc, 0, n); got != nav.NotFound {
			t.Errorf("key %d = %d, want NotFound", n, got)
		}
		if got := nav.ObjectNthValue(doc, 0, n); got != nav.NotFound {
			t.Errorf("value %d = %d, want NotFound", n, got)
		}
	}
	if got := nav.ObjectValue(doc, 0, "", nil); got != nav.NotFound {
		t.Errorf("ObjectValue with primitive keys = %d, want NotFound", got)
	}
}

func TestKeySpanOutsideSource(t *testing.T) {
	doc := &navtok.Document{Tokens: []navtok.Token{
		objectTok(1),
		{Type: navtok.String, Start: 4, End: 9},
		primTok,
	}}
	if got := nav.ObjectValue(doc, 0, "", []byte(`{}`)); got != nav.NotFound {
		t.Fatalf("ObjectValue with out-of-source key = %d, want NotFound", got)
	}
	inverted := &navtok.Document{Tokens: []navtok.Token{
		objectTok(1),
		{Type: navtok.String, Start: 2, End: 1},
		primTok,
	}}
	if got := nav.ObjectValue(inverted, 0, "", []byte(`{"":1}`)); got != nav.NotFound {
		t.Fatalf("ObjectValue with inverted key span = %d, want NotFound", got)
	}
}

func TestContainerIndexOutOfRange(t *testing.T) {
	doc, src := mustDoc(t, stringArray)
	var nilDoc *navtok.Document
	for _, idx := range []int{-1, doc.Len(), math.MaxInt} {
		if got := nav.ArrayElementCount(doc, idx); got != 0 {
			t.Errorf("ArrayElementCount(%d) = %d, want 0", idx, got)
		}
		if got := nav.ObjectElementCount(doc, idx); got != 0 {
			t.Errorf("ObjectElementCount(%d) = %d, want 0", idx, got)
		}
		if got := nav.ArrayNthElement(doc, idx, 0); got != nav.NotFound {
			t.Errorf("ArrayNthElement(%d) = %d, want NotFound", idx, got)
		}
		if got := nav.ObjectNthKey(doc, idx, 0); got != nav.NotFound {
			t.Errorf("ObjectNthKey(%d) = %d, want NotFound", idx, got)
		}
		if got := nav.ObjectValue(doc, idx, "array", src); got != nav.NotFound {
			t.Errorf("ObjectValue(%d) = %d, want NotFound", idx, got)
		}
	}
	if got := nav.ArrayElementCount(nilDoc, 0); got != 0 {
		t.Errorf("ArrayElementCount(nil) = %d, want 0", got)
	}
	if got := nav.ObjectNthValue(nilDoc, 0, 0); got != nav.NotFound {
		t.Errorf("ObjectNthValue(nil) = %d, want NotFound", got)
	}
}

func TestUndefinedTokensAreLeaves(t *testing.T) {
	doc := &navtok.Document{Tokens: []navtok.Token{arrayTok(2), {Size: 7}, primTok}}
	if got := nav.ArrayNthElement(doc, 0, 1); got != 2 {
		t.Fatalf("element 1 = %d, want 2", got)
	}
}
