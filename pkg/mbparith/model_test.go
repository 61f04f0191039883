package mbparith

import "testing"

func TestModelEvalArithmetic(t *testing.T) {
	k := NewDemoKernel()
	x := k.Var("x", SortInt)
	m := NewModel()
	m.Set(x, RatInt(4))

	expr := k.Add(k.Mul(k.Numeral(RatInt(2), SortInt), x), k.Numeral(RatInt(1), SortInt))
	got := m.Eval(expr)
	if got.IsBool || !got.Num.Eq(RatInt(9)) {
		t.Errorf("Eval(2*x+1) with x=4 = %v, want 9", got)
	}
}

func TestModelEvalModelCompletionFabricatesDefaults(t *testing.T) {
	k := NewDemoKernel()
	y := k.Var("y", SortInt)
	m := NewModel()
	m.SetModelCompletion(true)
	m.SetInline()

	first := m.Eval(y)
	second := m.Eval(y)
	if !first.Num.Eq(second.Num) {
		t.Errorf("expected a stable default once inlined, got %s then %s", first.Num, second.Num)
	}
}

func TestModelEvalModelCompletionOffReturnsZero(t *testing.T) {
	k := NewDemoKernel()
	z := k.Var("z", SortInt)
	m := NewModel()
	got := m.Eval(z)
	if !got.Num.IsZero() {
		t.Errorf("expected 0 for an unassigned variable with model completion off, got %s", got.Num)
	}
}

func TestModelEvalITEFollowsGuard(t *testing.T) {
	k := NewDemoKernel()
	p := k.BoolVar("p")
	m := NewModel()
	m.Set(p, RatOne())

	expr := k.ITE(p, k.Numeral(RatInt(1), SortInt), k.Numeral(RatInt(2), SortInt))
	if got := m.Eval(expr); !got.Num.Eq(RatInt(1)) {
		t.Errorf("ite(true, 1, 2) = %s, want 1", got.Num)
	}
	m.Set(p, RatZero())
	if got := m.Eval(expr); !got.Num.Eq(RatInt(2)) {
		t.Errorf("ite(false, 1, 2) = %s, want 2", got.Num)
	}
}

func TestModelEvalDistinct(t *testing.T) {
	k := NewDemoKernel()
	a := k.Var("a", SortInt)
	b := k.Var("b", SortInt)
	m := NewModel()
	m.Set(a, RatInt(1))
	m.Set(b, RatInt(2))

	if got := m.Eval(k.Distinct(a, b)); !got.Bool {
		t.Errorf("distinct(1, 2) should be true")
	}
	m.Set(b, RatInt(1))
	if got := m.Eval(k.Distinct(a, b)); got.Bool {
		t.Errorf("distinct(1, 1) should be false")
	}
}
