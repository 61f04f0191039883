package mbparith

import (
	"context"
	"testing"
)

// TestMaximizeBoundedObjective covers spec.md's scenario S6: a bounded
// linear objective over a box constraint set has a finite, attained
// optimum.
func TestMaximizeBoundedObjective(t *testing.T) {
	k := NewDemoKernel()
	x := k.Var("x", SortInt)
	y := k.Var("y", SortInt)
	model := NewModel()
	model.Set(x, RatInt(3))
	model.Set(y, RatInt(5))

	formulas := []Formula{
		k.LE(x, k.Numeral(RatInt(3), SortInt)),
		k.LE(k.Numeral(RatInt(0), SortInt), x),
		k.LE(y, k.Numeral(RatInt(5), SortInt)),
		k.LE(k.Numeral(RatInt(0), SortInt), y),
	}
	objective := k.Add(x, y)

	res, err := Maximize(context.Background(), k, nil, formulas, model, objective)
	if err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	want := InfEpsFinite(RatInt(8))
	if res.Optimum.Cmp(want) != 0 {
		t.Errorf("Optimum = %s, want %s", res.Optimum, want)
	}
	if res.Gt == nil {
		t.Errorf("expected a strict bound formula for an attained optimum")
	}
}

// TestMaximizeUnboundedObjective covers the +inf case.
func TestMaximizeUnboundedObjective(t *testing.T) {
	k := NewDemoKernel()
	x := k.Var("x", SortInt)
	model := NewModel()
	model.Set(x, RatInt(0))

	formulas := []Formula{k.LE(k.Numeral(RatInt(0), SortInt), x)}

	res, err := Maximize(context.Background(), k, nil, formulas, model, x)
	if err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if res.Optimum.Inf <= 0 {
		t.Errorf("Optimum = %s, want +inf", res.Optimum)
	}
	if res.Gt != nil {
		t.Errorf("expected no strict bound formula for an unbounded objective")
	}
}
