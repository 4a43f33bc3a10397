package naverr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lattice-substrate/json-nav/naverr"
)

func TestFailureClassExitCodes(t *testing.T) {
	cases := []struct {
		class    naverr.FailureClass
		wantExit int
	}{
		{naverr.InvalidUTF8, 2},
		{naverr.InvalidGrammar, 2},
		{naverr.DuplicateKey, 2},
		{naverr.LoneSurrogate, 2},
		{naverr.BoundExceeded, 2},
		{naverr.InvalidPath, 2},
		{naverr.NotFound, 2},
		{naverr.TypeMismatch, 2},
		{naverr.MissingField, 2},
		{naverr.CLIUsage, 2},
		{naverr.InternalIO, 10},
		{naverr.InternalError, 10},
	}
	for _, tc := range cases {
		if got := tc.class.ExitCode(); got != tc.wantExit {
			t.Errorf("%s.ExitCode() = %d, want %d", tc.class, got, tc.wantExit)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	e := naverr.New(naverr.InvalidUTF8, 42, "bad byte 0xFF")
	if e.Error() != "naverr: INVALID_UTF8 at byte 42: bad byte 0xFF" {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
}

func TestErrorFormatNoOffset(t *testing.T) {
	e := naverr.Newf(naverr.MissingField, -1, "required key %q absent", "chain_id")
	if e.Error() != `naverr: MISSING_FIELD: required key "chain_id" absent` {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	e := naverr.Wrap(naverr.InternalIO, -1, "write failed", cause)
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap did not return cause")
	}
	if got := e.Error(); got != "naverr: INTERNAL_IO: write failed: underlying" {
		t.Fatalf("unexpected wrapped error string: %s", got)
	}
}

func TestClassOf(t *testing.T) {
	inner := naverr.New(naverr.DuplicateKey, 10, `duplicate key "a"`)
	if got := naverr.ClassOf(fmt.Errorf("outer: %w", inner)); got != naverr.DuplicateKey {
		t.Fatalf("class = %s, want DUPLICATE_KEY", got)
	}
	if got := naverr.ClassOf(errors.New("plain")); got != naverr.InternalError {
		t.Fatalf("class = %s, want INTERNAL_ERROR", got)
	}
}
