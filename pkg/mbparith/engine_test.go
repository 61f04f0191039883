package mbparith

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// rowStrings renders live rows as a sorted slice of their String() form,
// so go-cmp can diff the engine's surviving constraint set against a
// known-good snapshot irrespective of row order.
func rowStrings(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String()
	}
	sort.Strings(out)
	return out
}

func TestEngineEliminateViaEquality(t *testing.T) {
	// x + y = 5, y <= 10  -- eliminate x: x := 5 - y
	eng := NewEngine()
	x := eng.AddVar(RatInt(2), true)
	y := eng.AddVar(RatInt(3), true)
	eng.AddConstraint(map[VarID]Rational{x: RatOne(), y: RatOne()}, RatInt(-5), RowEQ)
	eng.AddConstraint(map[VarID]Rational{y: RatOne()}, RatInt(-10), RowLE)

	defs := eng.Project([]VarID{x}, true)
	if defs[0] == nil {
		t.Fatalf("expected a definition for x")
	}
	for _, r := range eng.GetLiveRows() {
		if !r.coeffOf(x).IsZero() {
			t.Errorf("row %s still mentions eliminated variable x", r)
		}
	}
}

func TestEngineEliminateViaFourierMotzkin(t *testing.T) {
	// 0 <= x <= 10, eliminate x with no definition requested; remaining
	// system should be the trivial 0 <= 10 (tautology), no x left.
	eng := NewEngine()
	x := eng.AddVar(RatInt(5), true)
	eng.AddConstraint(map[VarID]Rational{x: RatInt(-1)}, RatZero(), RowLE)  // x >= 0
	eng.AddConstraint(map[VarID]Rational{x: RatOne()}, RatInt(-10), RowLE) // x <= 10

	eng.Project([]VarID{x}, false)
	for _, r := range eng.GetLiveRows() {
		if !r.coeffOf(x).IsZero() {
			t.Errorf("row %s still mentions eliminated variable x", r)
		}
	}
}

func TestEngineEliminateViaFourierMotzkinWithTightDefinition(t *testing.T) {
	// y <= x, x <= 5, model has x == 5 (tight upper bound): eliminating x
	// should produce the definition x := 5.
	eng := NewEngine()
	x := eng.AddVar(RatInt(5), true)
	y := eng.AddVar(RatInt(5), true)
	eng.AddConstraint(map[VarID]Rational{y: RatOne(), x: RatInt(-1)}, RatZero(), RowLE) // y <= x
	eng.AddConstraint(map[VarID]Rational{x: RatOne()}, RatInt(-5), RowLE)              // x <= 5

	defs := eng.Project([]VarID{x}, true)
	if defs[0] == nil {
		t.Fatalf("expected a tight-bound definition for x")
	}
	got, ok := (*defs[0]).(DefConst)
	if !ok || !got.Q.Eq(RatInt(5)) {
		t.Errorf("expected DefConst(5), got %#v", *defs[0])
	}
}

func TestEngineEliminateViaFourierMotzkinRowSnapshot(t *testing.T) {
	eng := NewEngine()
	x := eng.AddVar(RatInt(5), true)
	eng.AddConstraint(map[VarID]Rational{x: RatInt(-1)}, RatZero(), RowLE)  // x >= 0
	eng.AddConstraint(map[VarID]Rational{x: RatOne()}, RatInt(-10), RowLE) // x <= 10

	eng.Project([]VarID{x}, false)

	got := rowStrings(eng.GetLiveRows())
	want := []string{"0 + -10 <= 0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected live rows after elimination (-want +got):\n%s", diff)
	}
}

func TestEngineModDivIntroduction(t *testing.T) {
	eng := NewEngine()
	x := eng.AddVar(RatInt(7), true)
	y := eng.AddMod(map[VarID]Rational{x: RatOne()}, RatZero(), RatInt(3))
	if got := eng.GetValue(y); !got.Eq(RatInt(1)) {
		t.Errorf("7 mod 3 = %s, want 1", got)
	}
	z := eng.AddDiv(map[VarID]Rational{x: RatOne()}, RatZero(), RatInt(3))
	if got := eng.GetValue(z); !got.Eq(RatInt(2)) {
		t.Errorf("7 div 3 = %s, want 2", got)
	}
}

func TestEngineMaximizeBoundedBox(t *testing.T) {
	eng := NewEngine()
	x := eng.AddVar(RatInt(3), true)
	y := eng.AddVar(RatInt(5), true)
	eng.AddConstraint(map[VarID]Rational{x: RatOne()}, RatInt(-3), RowLE)  // x <= 3
	eng.AddConstraint(map[VarID]Rational{x: RatInt(-1)}, RatZero(), RowLE) // x >= 0
	eng.AddConstraint(map[VarID]Rational{y: RatOne()}, RatInt(-5), RowLE)  // y <= 5
	eng.AddConstraint(map[VarID]Rational{y: RatInt(-1)}, RatZero(), RowLE) // y >= 0

	eng.SetObjective(map[VarID]Rational{x: RatOne(), y: RatOne()}, RatZero())
	got := eng.Maximize()
	want := InfEpsFinite(RatInt(8))
	if got.Cmp(want) != 0 {
		t.Errorf("Maximize() = %s, want %s", got, want)
	}
}

func TestEngineMaximizeUnbounded(t *testing.T) {
	eng := NewEngine()
	x := eng.AddVar(RatInt(3), true)
	eng.AddConstraint(map[VarID]Rational{x: RatInt(-1)}, RatZero(), RowLE) // x >= 0
	eng.SetObjective(map[VarID]Rational{x: RatOne()}, RatZero())
	got := eng.Maximize()
	if got.Inf <= 0 {
		t.Errorf("Maximize() = %s, want +inf", got)
	}
}
