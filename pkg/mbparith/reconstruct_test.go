package mbparith

import "testing"

func TestReconstructDefStructural(t *testing.T) {
	k := NewDemoKernel()
	eng := NewEngine()
	x := eng.AddVar(RatInt(2), true)
	xTerm := k.Var("x", SortInt)
	varToTerm := func(v VarID) (Term, bool) {
		if v == x {
			return xTerm, true
		}
		return nil, false
	}

	// def = 2*x + 3
	def := DefAdd{X: DefVar{ID: x, Coeff: RatInt(2)}, Y: DefConst{Q: RatInt(3)}}
	got := ReconstructDef(def, SortInt, k, varToTerm, nil)
	want := k.Add(k.Mul(k.Numeral(RatInt(2), SortInt), xTerm), k.Numeral(RatInt(3), SortInt))
	if got != want {
		t.Errorf("ReconstructDef = %s, want %s", got, want)
	}
}

func TestRowToFormulaSingleNegativeCoefficientFlipsSign(t *testing.T) {
	k := NewDemoKernel()
	eng := NewEngine()
	x := eng.AddVar(RatInt(2), true)
	xTerm := k.Var("x", SortInt)
	varToTerm := func(v VarID) (Term, bool) {
		if v == x {
			return xTerm, true
		}
		return nil, false
	}

	// row: -x + 5 <= 0, i.e. x >= 5
	row := newRow(RowLE, map[VarID]Rational{x: RatInt(-1)}, RatInt(5))
	got := RowToFormula(row, eng, k, varToTerm, nil)
	want := k.LE(k.Numeral(RatInt(5), SortInt), xTerm)
	if got != want {
		t.Errorf("RowToFormula = %s, want %s", got, want)
	}
}

func TestRowToFormulaDivides(t *testing.T) {
	k := NewDemoKernel()
	eng := NewEngine()
	x := eng.AddVar(RatInt(6), true)
	xTerm := k.Var("x", SortInt)
	varToTerm := func(v VarID) (Term, bool) {
		if v == x {
			return xTerm, true
		}
		return nil, false
	}

	row := newRow(RowDIVIDES, map[VarID]Rational{x: RatOne()}, RatZero())
	row.modulus = RatInt(3)
	got := RowToFormula(row, eng, k, varToTerm, nil)
	want := k.Eq(k.Mod(xTerm, k.Numeral(RatInt(3), SortInt)), k.Numeral(RatZero(), SortInt))
	if got != want {
		t.Errorf("RowToFormula(DIVIDES) = %s, want %s", got, want)
	}
}

func TestVarTermForInlinesModDivFromTable(t *testing.T) {
	k := NewDemoKernel()
	eng := NewEngine()
	x := eng.AddVar(RatInt(2), true)
	xTerm := k.Var("x", SortInt)
	varToTerm := func(v VarID) (Term, bool) {
		if v == x {
			return xTerm, true
		}
		return nil, false
	}

	modRow := newRow(RowMOD, map[VarID]Rational{x: RatOne()}, RatZero())
	modRow.modulus = RatInt(3)
	modRow.defVar = VarID(1)
	table := map[VarID]Row{VarID(1): modRow}

	got := varTermFor(VarID(1), k, varToTerm, table)
	want := k.Mod(xTerm, k.Numeral(RatInt(3), SortInt))
	if got != want {
		t.Errorf("varTermFor = %s, want %s", got, want)
	}
}
