package mbparith

import (
	"context"
	"testing"
)

func TestLinearizerSimpleInequality(t *testing.T) {
	k := NewDemoKernel()
	x := k.Var("x", SortInt)
	y := k.Var("y", SortInt)
	model := NewModel()
	model.Set(x, RatInt(1))
	model.Set(y, RatInt(2))
	model.SetModelCompletion(true)
	model.SetInline()

	// x + 2*y <= 10
	lhs := k.Add(x, k.Mul(k.Numeral(RatInt(2), SortInt), y))
	lit := k.LE(lhs, k.Numeral(RatInt(10), SortInt))

	eng := NewEngine()
	lz := NewLinearizer(eng, model, k, nil)
	residue, pinned, err := lz.Run(context.Background(), []Formula{lit})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(residue) != 0 {
		t.Errorf("expected no residue, got %v", residue)
	}
	if len(pinned) != 1 {
		t.Errorf("expected 1 pinned literal, got %d", len(pinned))
	}
	rows := eng.GetLiveRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].typ != RowLE {
		t.Errorf("expected RowLE, got %s", rows[0].typ)
	}
}

func TestLinearizerModIntroducesFreshVariable(t *testing.T) {
	k := NewDemoKernel()
	x := k.Var("x", SortInt)
	model := NewModel()
	model.Set(x, RatInt(7))
	model.SetModelCompletion(true)
	model.SetInline()

	// (x mod 3) = 1
	lit := k.Eq(k.Mod(x, k.Numeral(RatInt(3), SortInt)), k.Numeral(RatInt(1), SortInt))

	eng := NewEngine()
	lz := NewLinearizer(eng, model, k, nil)
	_, pinned, err := lz.Run(context.Background(), []Formula{lit})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pinned) != 1 {
		t.Fatalf("expected 1 pinned literal, got %d", len(pinned))
	}
	foundMod := false
	for _, r := range eng.GetLiveRows() {
		if r.typ == RowMOD {
			foundMod = true
		}
	}
	if !foundMod {
		t.Errorf("expected a MOD row to have been introduced")
	}
}

func TestLinearizerAndExpandsConjuncts(t *testing.T) {
	k := NewDemoKernel()
	x := k.Var("x", SortInt)
	model := NewModel()
	model.Set(x, RatInt(1))
	model.SetModelCompletion(true)
	model.SetInline()

	lit := k.And(
		k.LE(x, k.Numeral(RatInt(5), SortInt)),
		k.LE(k.Numeral(RatInt(0), SortInt), x),
	)

	eng := NewEngine()
	lz := NewLinearizer(eng, model, k, nil)
	residue, pinned, err := lz.Run(context.Background(), []Formula{lit})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(residue) != 0 {
		t.Errorf("expected no residue, got %v", residue)
	}
	if len(pinned) != 3 { // the And literal itself, plus its two conjuncts
		t.Errorf("expected 3 pinned literals, got %d", len(pinned))
	}
	if len(eng.GetLiveRows()) != 2 {
		t.Errorf("expected 2 rows from the two conjuncts, got %d", len(eng.GetLiveRows()))
	}
}

func TestLinearizerOpaqueAtomBecomesVariable(t *testing.T) {
	k := NewDemoKernel()
	f := k.Opaque("f(x)", SortInt)
	model := NewModel()
	model.Set(f, RatInt(4))
	model.SetModelCompletion(true)
	model.SetInline()

	lit := k.LE(f, k.Numeral(RatInt(10), SortInt))

	eng := NewEngine()
	lz := NewLinearizer(eng, model, k, nil)
	_, pinned, err := lz.Run(context.Background(), []Formula{lit})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pinned) != 1 {
		t.Fatalf("expected opaque atom literal to be absorbed")
	}
	if _, ok := lz.Representative(f); !ok {
		t.Errorf("expected the opaque term to get an engine variable")
	}
}
