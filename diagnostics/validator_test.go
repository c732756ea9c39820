package diagnostics

import (
	"context"
	"go/token"
	"testing"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/lower"
	"github.com/cottand/matchck/frontend/parser"
	"github.com/cottand/matchck/matchcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerFixture(t *testing.T, fixture string) ([]*hir.Match, *token.FileSet) {
	t.Helper()
	fset := token.NewFileSet()
	files, errs := parser.ParseFixture(fset, fixture)
	require.False(t, errs.HasError(), "parse errors: %v", errs.LogValue())
	program, errs := lower.Lower(files)
	require.False(t, errs.HasError(), "lowering errors: %v", errs.LogValue())
	return program.Matches, fset
}

func validate(t *testing.T, fixture string) []AnyDiagnostic {
	t.Helper()
	matches, _ := lowerFixture(t, fixture)
	sink := &Collection{}
	v := NewValidator(sink, matchcheck.DefaultConfig())
	_, err := v.ValidateAll(context.Background(), matches, 2)
	require.NoError(t, err)
	return sink.Diagnostics()
}

func TestValidateMatch(t *testing.T) {
	tests := map[string]struct {
		fixture  string
		kinds    []Kind
		messages []string
	}{
		"exhaustive": {
			fixture: `fn main() { match false { true => (), false => () } }`,
		},
		"missing": {
			fixture:  `fn main() { match false { true => () } }`,
			kinds:    []Kind{KindMissingMatchArms},
			messages: []string{"missing match arm"},
		},
		"bailed out": {
			fixture:  `fn main() { match false { () => () } }`,
			kinds:    []Kind{KindInternalBailedOut},
			messages: []string{"Internal: match check bailed out"},
		},
		"unknown scrutinee": {
			fixture: `fn main() { match unknown { _x => () } }`,
		},
		"missing fields": {
			fixture: `
enum Either { A { foo: bool, bar: bool }, B }
fn main(a: Either) {
    match a {
        Either::A { } => (),
        Either::B => (),
    }
}`,
			kinds:    []Kind{KindMissingPatFields},
			messages: []string{"Missing structure fields:\n- foo\n- bar"},
		},
		"missing fields and arms": {
			fixture: `
enum Either { A { foo: bool }, B }
fn main(a: Either) {
    match a {
        Either::A { } => (),
    }
}`,
			kinds:    []Kind{KindMissingMatchArms, KindMissingPatFields},
			messages: []string{"missing match arm", "Missing structure fields:\n- foo"},
		},
		"record with rest": {
			fixture: `
struct Foo { a: bool, b: bool }
fn main(f: Foo) { match f { Foo { a: true, .. } => (), Foo { .. } => () } }`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			diags := validate(t, tt.fixture)
			var kinds []Kind
			var messages []string
			for _, d := range diags {
				kinds = append(kinds, d.Kind())
				messages = append(messages, d.Message())
			}
			assert.Equal(t, tt.kinds, kinds)
			assert.Equal(t, tt.messages, messages)
		})
	}
}

func TestDiagnosticRanges(t *testing.T) {
	src := `
enum Either { A { foo: bool }, B }
fn main(a: Either) {
    match a {
        Either::A { } => (),
    }
    match false { () => () }
}`
	matches, fset := lowerFixture(t, src)
	sink := &Collection{}
	v := NewValidator(sink, matchcheck.DefaultConfig())
	for _, m := range matches {
		v.ValidateMatch(m)
	}
	text := func(r ast.Positioner) string {
		return src[fset.Position(r.Pos()).Offset:fset.Position(r.End()).Offset]
	}

	diags := sink.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, "a", text(diags[0]))
	assert.Equal(t, "Either::A", text(diags[1]))
	assert.Equal(t, "()", text(diags[2]))
	missing := diags[0].(*MissingMatchArms)
	assert.Equal(t, "{\n        Either::A { } => (),\n    }", text(missing.ArmList))
	assert.Equal(t, "match a {\n        Either::A { } => (),\n    }", text(missing.MatchExpr))
	for _, d := range diags {
		assert.Equal(t, "/main.rs", d.File())
	}
}

func TestWitnesses(t *testing.T) {
	diags := validate(t, `
enum Either { A, B }
fn main(e: Either) { match e { Either::A => () } }`)
	require.Len(t, diags, 1)
	missing := diags[0].(*MissingMatchArms)
	assert.Equal(t, []string{"Either::B"}, missing.Witnesses)
	assert.Equal(t, "`Either::B` not covered", missing.WitnessSummary())

	truncated := &MissingMatchArms{Witnesses: []string{"A", "B"}, Truncated: true}
	assert.Equal(t, "`A`, `B` and more not covered", truncated.WitnessSummary())
}

func TestNonExhaustivePerCrate(t *testing.T) {
	diags := validate(t, `
//- /lib.rs crate:lib
#[non_exhaustive]
pub enum E { A, B }
fn _local() {
    match E::A { E::A => (), E::B => () }
}
//- /main.rs crate:main deps:lib
use lib::E;
fn main() {
    match E::A { E::A => (), E::B => () }
}`)
	require.Len(t, diags, 1)
	assert.Equal(t, "/main.rs", diags[0].File())
	assert.Equal(t, []string{"_"}, diags[0].(*MissingMatchArms).Witnesses)
}

func TestValidateAll(t *testing.T) {
	matches, _ := lowerFixture(t, `
fn main() {
    match true { true => () }
    match () { () => () }
    match (true, false) { (_, true) => () }
}`)

	t.Run("reports keep the order of matches", func(t *testing.T) {
		v := NewValidator(&Collection{}, matchcheck.DefaultConfig())
		reports, err := v.ValidateAll(context.Background(), matches, 1)
		require.NoError(t, err)
		require.Len(t, reports, 3)
		assert.Equal(t, matchcheck.OutcomeMissing, reports[0].Outcome)
		assert.Equal(t, matchcheck.OutcomeExhaustive, reports[1].Outcome)
		assert.Equal(t, matchcheck.OutcomeMissing, reports[2].Outcome)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sink := &Collection{}
		v := NewValidator(sink, matchcheck.DefaultConfig())
		_, err := v.ValidateAll(ctx, matches, 2)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, sink.Len())
	})
}

func TestMissingFields(t *testing.T) {
	tests := map[string]struct {
		declared []string
		given    []string
		expected []string
	}{
		"none given":        {[]string{"foo", "bar"}, nil, []string{"foo", "bar"}},
		"all given":         {[]string{"foo", "bar"}, []string{"bar", "foo"}, []string{}},
		"declaration order": {[]string{"c", "a", "b"}, []string{"a"}, []string{"c", "b"}},
		"unknown given":     {[]string{"a"}, []string{"z", "z"}, []string{"a"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, missingFields(tt.declared, tt.given))
		})
	}
}
