package matchcheck

import (
	"strings"
	"testing"
	"time"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker() *Checker {
	return NewChecker(NewCatalog("main"), DefaultConfig())
}

func assertMissing(t *testing.T, r Report, witnesses ...string) {
	t.Helper()
	require.Equal(t, OutcomeMissing, r.Outcome, "reason: %s", r.Reason)
	assert.Equal(t, witnesses, renderAll(r.Witnesses))
}

// assertSound checks that no unguarded arm matches any of the reported witnesses
func assertSound(t *testing.T, r Report) {
	t.Helper()
	for _, w := range r.Witnesses {
		for i, arm := range r.Arms {
			if arm.HasGuard {
				continue
			}
			assert.False(t, covers(arm.Pat, w), "arm %d (%s) covers witness %s", i, Render(arm.Pat), Render(w))
		}
	}
}

func TestScenarios(t *testing.T) {
	either := newDef(types.KindEnum, "Either", unitVariant("A"), unitVariant("B"))
	eitherBool := newDef(types.KindEnum, "Either", tupleVariant("A", boolT), unitVariant("B"))
	foo := newDef(types.KindStruct, "Foo", recordVariant("Foo", types.FieldDef{Name: "a", Type: boolT}))
	ch := newTestChecker()

	t.Run("empty match on unit", func(t *testing.T) {
		assertMissing(t, ch.Check(types.UnitType, nil), "_")
	})
	t.Run("pair of bools", func(t *testing.T) {
		r := ch.Check(tuple(boolT, boolT), arms(tup(lit(true), lit(true))))
		assertMissing(t, r, "(false, _)", "(true, false)")
		assert.False(t, r.Truncated)
		assertSound(t, r)
	})
	t.Run("enum unit variants", func(t *testing.T) {
		r := ch.Check(adt(either), arms(unitCtor(either, 0)))
		assertMissing(t, r, "Either::B")
		assertSound(t, r)
	})
	t.Run("enum containing bool", func(t *testing.T) {
		r := ch.Check(adt(eitherBool), arms(
			tupleCtor(eitherBool, 0, lit(true)),
			tupleCtor(eitherBool, 0, lit(false)),
			unitCtor(eitherBool, 1),
		))
		assert.Equal(t, OutcomeExhaustive, r.Outcome)
	})
	t.Run("record struct", func(t *testing.T) {
		r := ch.Check(adt(foo), arms(recordCtor(foo, 0, false, field("a", lit(true)))))
		assertMissing(t, r, "Foo { a: false }")
		assertSound(t, r)
	})
	t.Run("integers abstain", func(t *testing.T) {
		r := ch.Check(types.IntType, arms(intLit("10"), &hir.RangePat{}))
		assert.Equal(t, OutcomeAbstain, r.Outcome)
		assert.Equal(t, 0, r.BailedArm)
		assert.Empty(t, r.Witnesses)
	})
}

func TestOrPatternEquivalence(t *testing.T) {
	either := newDef(types.KindEnum, "Either", tupleVariant("A", boolT), tupleVariant("B", boolT, boolT))
	ch := newTestChecker()

	cases := map[string][2][]hir.Arm{
		"exhaustive": {
			arms(or(tupleCtor(either, 0, lit(true)), tupleCtor(either, 0, lit(false))), tupleCtor(either, 1, wild(), wild())),
			arms(tupleCtor(either, 0, lit(true)), tupleCtor(either, 0, lit(false)), tupleCtor(either, 1, wild(), wild())),
		},
		"missing": {
			arms(or(tupleCtor(either, 0, wild()), tupleCtor(either, 1, lit(false), wild()))),
			arms(tupleCtor(either, 0, wild()), tupleCtor(either, 1, lit(false), wild())),
		},
		"nested or": {
			arms(tupleCtor(either, 0, or(lit(true), lit(false)))),
			arms(tupleCtor(either, 0, lit(true)), tupleCtor(either, 0, lit(false))),
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			withOr := ch.Check(adt(either), c[0])
			expanded := ch.Check(adt(either), c[1])
			assert.Equal(t, expanded.Outcome, withOr.Outcome)
			assert.Equal(t, renderAll(expanded.Witnesses), renderAll(withOr.Witnesses))
		})
	}
}

func TestIdempotence(t *testing.T) {
	ch := newTestChecker()
	scrutinee := tuple(boolT, tuple(types.UnitType, boolT))
	armList := arms(tup(lit(true), tup(tup(), lit(true))))
	first := ch.Check(scrutinee, armList)
	second := ch.Check(scrutinee, armList)
	assert.Equal(t, renderAll(first.Witnesses), renderAll(second.Witnesses))
	assertMissing(t, first, "(false, _)", "(true, ((), false))")
}

func TestUninhabited(t *testing.T) {
	never := newDef(types.KindEnum, "Never")
	ch := newTestChecker()

	t.Run("empty enum", func(t *testing.T) {
		assert.Equal(t, OutcomeExhaustive, ch.Check(adt(never), nil).Outcome)
	})
	t.Run("never type", func(t *testing.T) {
		assert.Equal(t, OutcomeExhaustive, ch.Check(types.NeverType, nil).Outcome)
	})
	t.Run("reference to empty enum is inhabited", func(t *testing.T) {
		assertMissing(t, ch.Check(ref(adt(never)), nil), "_")
	})
	t.Run("variant with uninhabited field is skipped", func(t *testing.T) {
		either := newDef(types.KindEnum, "Either", tupleVariant("A", &types.Param{Index: 0, Name: "T"}), unitVariant("B"))
		r := ch.Check(adt(either, types.NeverType), arms(unitCtor(either, 1)))
		assert.Equal(t, OutcomeExhaustive, r.Outcome)
		r = ch.Check(adt(either, boolT), arms(unitCtor(either, 1)))
		assertMissing(t, r, "Either::A(_)")
	})
}

func TestGuardsDoNotCover(t *testing.T) {
	ch := newTestChecker()
	guarded := []hir.Arm{{Pat: lit(true), HasGuard: true}, {Pat: lit(false)}}
	r := ch.Check(boolT, guarded)
	assertMissing(t, r, "true")

	guarded = append(guarded, hir.Arm{Pat: lit(true)})
	r = ch.Check(boolT, guarded)
	assert.Equal(t, OutcomeExhaustive, r.Outcome)
	for i, arm := range r.Arms {
		assert.True(t, arm.Reachable, "arm %d", i)
	}
}

func TestReachability(t *testing.T) {
	ch := newTestChecker()
	r := ch.Check(boolT, arms(wild(), lit(true)))
	require.Len(t, r.Arms, 2)
	assert.True(t, r.Arms[0].Reachable)
	assert.False(t, r.Arms[1].Reachable)

	r = ch.Check(tuple(boolT, boolT), arms(tup(lit(true), wild()), tup(wild(), lit(true)), tup(lit(true), lit(true))))
	assert.True(t, r.Arms[1].Reachable)
	assert.False(t, r.Arms[2].Reachable)
	assertMissing(t, r, "(false, false)")
}

func TestNonExhaustiveForeignEnum(t *testing.T) {
	e := newDef(types.KindEnum, "E", unitVariant("A"), unitVariant("B"))
	e.NonExhaustive = true
	e.Crate = "lib"

	foreign := NewChecker(NewCatalog("main"), DefaultConfig())
	local := NewChecker(NewCatalog("lib"), DefaultConfig())
	allVariants := arms(unitCtor(e, 0), unitCtor(e, 1))

	assertMissing(t, foreign.Check(adt(e), allVariants), "_")
	assertMissing(t, foreign.Check(adt(e), arms(or(unitCtor(e, 0), unitCtor(e, 1)))), "_")
	assert.Equal(t, OutcomeExhaustive, foreign.Check(adt(e), arms(wild())).Outcome)
	assert.Equal(t, OutcomeExhaustive, local.Check(adt(e), allVariants).Outcome)
}

func TestReferences(t *testing.T) {
	either := newDef(types.KindEnum, "Either", unitVariant("A"), unitVariant("B"))
	ch := newTestChecker()

	t.Run("match ergonomics at the top level", func(t *testing.T) {
		assertMissing(t, ch.Check(ref(adt(either)), arms(unitCtor(either, 0))), "&Either::B")
		assert.Equal(t, OutcomeExhaustive, ch.Check(ref(adt(either)), arms(unitCtor(either, 0), unitCtor(either, 1))).Outcome)
		assert.Equal(t, OutcomeExhaustive, ch.Check(ref(ref(adt(either))), arms(or(unitCtor(either, 0), unitCtor(either, 1)))).Outcome)
	})
	t.Run("reference patterns abstain", func(t *testing.T) {
		r := ch.Check(ref(boolT), arms(&hir.RefPat{Inner: lit(true)}))
		assert.Equal(t, OutcomeAbstain, r.Outcome)
	})
	t.Run("no ergonomics in fields", func(t *testing.T) {
		r := ch.Check(tuple(ref(boolT)), arms(tup(lit(true))))
		assert.Equal(t, OutcomeAbstain, r.Outcome)
		assert.Equal(t, 0, r.BailedArm)
	})
	t.Run("ref binding at the top level", func(t *testing.T) {
		r := ch.Check(adt(either), arms(&hir.BindPat{Name: "x", ByRef: true}, unitCtor(either, 0)))
		assert.Equal(t, OutcomeAbstain, r.Outcome)
		r = ch.Check(tuple(boolT), arms(tup(&hir.BindPat{Name: "x", ByRef: true}), tup(lit(true))))
		assert.Equal(t, OutcomeExhaustive, r.Outcome)
	})
}

func TestMalformedArms(t *testing.T) {
	either := newDef(types.KindEnum, "Either", unitVariant("A"), tupleVariant("B", types.IntType))
	other := newDef(types.KindEnum, "Either2", unitVariant("C"), unitVariant("D"))
	ch := newTestChecker()

	cases := map[string]struct {
		scrutinee types.Type
		arms      []hir.Arm
		outcome   Outcome
		bailedArm int
	}{
		"missing tuple fields are wildcards": {adt(either), arms(unitCtor(either, 0), tupleCtor(either, 1)), OutcomeExhaustive, -1},
		"extra tuple fields":                 {adt(either), arms(tupleCtor(either, 1, wild(), wild())), OutcomeAbstain, 0},
		"fields on unit variant":             {adt(either), arms(tupleCtor(either, 0, wild())), OutcomeAbstain, 0},
		"other enum":                         {adt(either), arms(unitCtor(other, 0), unitCtor(other, 1)), OutcomeAbstain, 0},
		"tuple too long":                     {tuple(boolT, boolT), arms(tup(lit(true), lit(false), lit(true)), lit(true)), OutcomeAbstain, 0},
		"tuple too short":                    {tuple(boolT, boolT), arms(tup(lit(true))), OutcomeAbstain, 0},
		"unit against integer":               {types.IntType, arms(tup()), OutcomeAbstain, 0},
		"or with mismatched alternative":     {boolT, arms(or(lit(true), tup())), OutcomeAbstain, 0},
		"second arm bails":                   {boolT, arms(lit(true), intLit("1")), OutcomeAbstain, 1},
		"unknown field":                      {adt(either), arms(recordCtor(either, 1, false, field("bar", wild()))), OutcomeAbstain, 0},
		"unresolved path":                    {adt(either), arms(&hir.CtorPat{Shape: ast.TupleFields, RestIndex: -1}), OutcomeAbstain, 0},
		"unknown scrutinee":                  {types.UnknownType, arms(unitCtor(either, 0)), OutcomeAbstain, -1},
		"diverging scrutinee":                {types.NeverType, arms(unitCtor(either, 0)), OutcomeAbstain, 0},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r := ch.Check(c.scrutinee, c.arms)
			assert.Equal(t, c.outcome, r.Outcome, "reason: %s", r.Reason)
			assert.Equal(t, c.bailedArm, r.BailedArm)
			if c.outcome == OutcomeAbstain {
				assert.NotEmpty(t, r.Reason)
			}
		})
	}
}

func TestRestPatterns(t *testing.T) {
	ch := newTestChecker()
	three := tuple(boolT, boolT, boolT)

	assert.Equal(t, OutcomeExhaustive, ch.Check(three, arms(tupRest(1, lit(false)), tupRest(1, lit(true)))).Outcome)
	assert.Equal(t, OutcomeExhaustive, ch.Check(three, arms(tupRest(0, lit(false)), tupRest(0, lit(true)))).Outcome)
	assert.Equal(t, OutcomeExhaustive, ch.Check(three, arms(tupRest(0))).Outcome)

	r := ch.Check(three, arms(tupRest(1, lit(true), lit(false))))
	require.Equal(t, OutcomeMissing, r.Outcome)
	assertSound(t, r)

	either := newDef(types.KindEnum, "Either", tupleVariant("A", boolT, boolT, boolT, boolT), unitVariant("B"))
	r = ch.Check(adt(either), arms(
		tupleCtor(either, 0, lit(true), &hir.WildPat{}, lit(true)),
		&hir.CtorPat{Def: hir.Def{Adt: either}, Shape: ast.TupleFields, Elems: []hir.Pat{lit(true), lit(false)}, RestIndex: 1},
		&hir.CtorPat{Def: hir.Def{Adt: either}, Shape: ast.TupleFields, Elems: []hir.Pat{lit(true)}, RestIndex: 0},
		&hir.CtorPat{Def: hir.Def{Adt: either}, Shape: ast.TupleFields, Elems: []hir.Pat{lit(false)}, RestIndex: 0},
		unitCtor(either, 1),
	))
	assert.Equal(t, OutcomeExhaustive, r.Outcome)
}

func TestRecordPatterns(t *testing.T) {
	either := newDef(types.KindEnum, "Either",
		recordVariant("A", types.FieldDef{Name: "foo", Type: boolT}, types.FieldDef{Name: "bar", Type: types.UnitType}),
		unitVariant("B"),
	)
	ch := newTestChecker()

	r := ch.Check(adt(either), arms(
		recordCtor(either, 0, false, field("bar", tup()), field("foo", lit(false))),
		recordCtor(either, 0, false, field("foo", lit(true)), field("bar", tup())),
	))
	assertMissing(t, r, "Either::B")

	r = ch.Check(adt(either), arms(recordCtor(either, 0, true, field("foo", lit(true))), unitCtor(either, 1)))
	assertMissing(t, r, "Either::A { foo: false, .. }")

	r = ch.Check(adt(either), arms(recordCtor(either, 0, false), unitCtor(either, 1)))
	assert.Equal(t, OutcomeExhaustive, r.Outcome)
}

func TestOpaqueFieldTypes(t *testing.T) {
	s := newDef(types.KindStruct, "S", recordVariant("S", types.FieldDef{Name: "a", Type: types.CharType}))
	ch := newTestChecker()

	assert.Equal(t, OutcomeExhaustive, ch.Check(adt(s), arms(recordCtor(s, 0, false, field("a", bind("a"))))).Outcome)
	assert.Equal(t, OutcomeExhaustive, ch.Check(adt(s), arms(recordCtor(s, 0, true))).Outcome)
	assert.Equal(t, OutcomeAbstain, ch.Check(adt(s), arms(recordCtor(s, 0, false, field("a", &hir.LitPat{Kind: ast.LitChar, Value: "a"})))).Outcome)
	assertMissing(t, ch.Check(adt(s), nil), "_")
	assertMissing(t, ch.Check(types.CharType, nil), "_")
}

func TestWitnessCap(t *testing.T) {
	ch := NewChecker(NewCatalog("main"), Config{MaxWitnesses: 2})
	r := ch.Check(tuple(boolT, boolT, boolT), arms(tup(lit(true), lit(true), lit(true))))
	assertMissing(t, r, "(false, _, _)", "(true, false, _)")
	assert.True(t, r.Truncated)
}

func TestUnseenColumnsAreWildcards(t *testing.T) {
	e := newDef(types.KindEnum, "E",
		unitVariant("A"),
		tupleVariant("B", boolT, boolT),
		recordVariant("C", types.FieldDef{Name: "x", Type: boolT}),
	)
	ch := newTestChecker()

	r := ch.Check(tuple(adt(e), boolT), arms(tup(unitCtor(e, 0), wild())))
	assertMissing(t, r, "(E::B(_, _), _)", "(E::C { .. }, _)")
	assert.False(t, r.Truncated)
	assertSound(t, r)

	assertMissing(t, ch.Check(&types.Slice{Elem: boolT}, nil), "_")
	assertMissing(t, ch.Check(adt(e), nil), "_")
}

func TestWideTuples(t *testing.T) {
	const n = 24
	elems := make([]types.Type, n)
	armList := make([]hir.Arm, n)
	for i := range n {
		elems[i] = boolT
		fields := make([]hir.Pat, n)
		for j := range n {
			fields[j] = wild()
		}
		fields[i] = lit(true)
		armList[i] = hir.Arm{Pat: tup(fields...)}
	}
	ch := newTestChecker()

	start := time.Now()
	r := ch.Check(tuple(elems...), armList)
	assert.Less(t, time.Since(start), 5*time.Second)

	require.Equal(t, OutcomeMissing, r.Outcome)
	require.Len(t, r.Witnesses, 1)
	assert.Equal(t, "("+strings.Repeat("false, ", n-1)+"false)", Render(r.Witnesses[0]))
	for i, arm := range r.Arms {
		assert.True(t, arm.Reachable, "arm %d", i)
	}
}

func TestSlices(t *testing.T) {
	ch := newTestChecker()
	bools := &types.Slice{Elem: boolT}

	r := ch.Check(bools, arms(slicePat(nil, false), slicePat([]hir.Pat{wild()}, true)))
	assert.Equal(t, OutcomeExhaustive, r.Outcome)

	r = ch.Check(bools, arms(slicePat([]hir.Pat{wild(), wild()}, false)))
	assertMissing(t, r, "[]", "[_]", "[_, _, _, ..]")
	assertSound(t, r)

	r = ch.Check(bools, arms(
		slicePat(nil, false),
		slicePat([]hir.Pat{lit(true)}, true),
		slicePat(nil, true, lit(false)),
	))
	assertMissing(t, r, "[false, .., true]")
	assertSound(t, r)

	r = ch.Check(ref(bools), arms(slicePat(nil, true)))
	assert.Equal(t, OutcomeExhaustive, r.Outcome)

	array := &types.Array{Elem: boolT, Len: 2}
	r = ch.Check(array, arms(slicePat([]hir.Pat{lit(true)}, true), slicePat(nil, true, lit(true))))
	assertMissing(t, r, "[false, false]")
}
