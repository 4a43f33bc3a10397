// Package txcheck checks that a tokenized signing request has the top-level
// shape a signer expects before any of its fields are displayed.
//
// The check sits on top of the navigator and reads only the root object. It
// does not inspect field contents.
package txcheck

import (
	"github.com/lattice-substrate/json-nav/nav"
	"github.com/lattice-substrate/json-nav/naverr"
	"github.com/lattice-substrate/json-nav/navtok"
)

// Field is a required top-level key. Type is the token type its value must
// have; Undefined accepts any type.
type Field struct {
	Key  string
	Type navtok.Type
}

// Rules lists the fields a request must carry.
type Rules []Field

// DefaultRules are the top-level fields of a signing request.
var DefaultRules = Rules{
	{Key: "alt_bytes"},
	{Key: "chain_id", Type: navtok.String},
	{Key: "fee_bytes", Type: navtok.Object},
	{Key: "msg_bytes", Type: navtok.Object},
	{Key: "sequences", Type: navtok.Array},
}

// Validate checks doc against DefaultRules.
func Validate(doc *navtok.Document, src []byte) error {
	return ValidateRules(doc, src, DefaultRules)
}

// ValidateRules checks that the root of doc is an object holding every field
// in rules with the required type. It reports the first violation in rules
// order: MISSING_FIELD for an absent key, TYPE_MISMATCH for a wrong type.
func ValidateRules(doc *navtok.Document, src []byte, rules Rules) error {
	root, ok := doc.Token(0)
	if !ok {
		return naverr.New(naverr.MissingField, -1, "empty document")
	}
	if root.Type != navtok.Object {
		return naverr.Newf(naverr.TypeMismatch, root.Start, "request root is %s, want object", root.Type)
	}

	for _, f := range rules {
		idx := nav.ObjectValue(doc, 0, f.Key, src)
		if idx == nav.NotFound {
			return naverr.Newf(naverr.MissingField, root.Start, "required key %q is missing", f.Key)
		}
		if f.Type == navtok.Undefined {
			continue
		}
		if got := doc.Tokens[idx].Type; got != f.Type {
			return naverr.Newf(naverr.TypeMismatch, doc.Tokens[idx].Start,
				"key %q holds %s, want %s", f.Key, got, f.Type)
		}
	}
	return nil
}
