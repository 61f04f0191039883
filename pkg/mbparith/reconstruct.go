package mbparith

import "fmt"

// This file is the Definition Reconstructor (spec.md §4.4) and the
// Row→Formula conversion (spec.md §4.5). Both read the engine's output
// (DefTree, live Row snapshot) and the term-identity maps the Linearizer
// built, and emit Term values via the caller's Kernel — neither ever
// inspects engine internals beyond what Row/DefTree already expose.

// rowSort infers the arithmetic sort a reconstructed row's numerals
// should carry: real if any variable in the row is real-sorted, int
// otherwise (an all-integer row can be safely rendered with integer
// literals; a row with no variables at all defaults to real, matching
// how a bare constant fact would be expressed).
func rowSort(r Row, eng *Engine) Sort {
	if len(r.terms) == 0 {
		return SortReal
	}
	for _, t := range r.terms {
		if !eng.IsInt(t.id) {
			return SortReal
		}
	}
	return SortInt
}

// varTermFor resolves the Term for an engine variable, inlining MOD/DIV
// definitions from modDivTable rather than reusing a possibly-stale
// surface term: once a variable referenced inside a mod/div body has
// itself been eliminated and substituted, the original surface term
// (e.g. "x mod 3") no longer names the current linear body, so the
// modulus/div term must be rebuilt from the row's live coefficients
// (DESIGN.md's note on why the lookup table in spec.md §4.2 step 8
// is load-bearing, not a convenience).
func varTermFor(id VarID, kernel Kernel, varToTerm func(VarID) (Term, bool), modDivTable map[VarID]Row) Term {
	if row, ok := modDivTable[id]; ok {
		body := buildTermFromLinear(row.terms, row.k, SortInt, kernel, varToTerm, modDivTable)
		mTerm := kernel.Numeral(row.modulus, SortInt)
		if row.typ == RowMOD {
			return kernel.Mod(body, mTerm)
		}
		return kernel.Div(body, mTerm)
	}
	if t, ok := varToTerm(id); ok {
		return t
	}
	panic(fmt.Sprintf("mbparith: no term for engine variable x%d", int(id)))
}

// buildTermFromLinear reconstructs Σ coeff·x + k as a Term.
func buildTermFromLinear(terms []term, k Rational, sort Sort, kernel Kernel, varToTerm func(VarID) (Term, bool), modDivTable map[VarID]Row) Term {
	var acc Term
	if !k.IsZero() || len(terms) == 0 {
		acc = kernel.Numeral(k, sort)
	}
	for _, t := range terms {
		vt := varTermFor(t.id, kernel, varToTerm, modDivTable)
		var part Term
		if t.coeff.Eq(RatOne()) {
			part = vt
		} else {
			part = kernel.Mul(kernel.Numeral(t.coeff, sort), vt)
		}
		if acc == nil {
			acc = part
		} else {
			acc = kernel.Add(acc, part)
		}
	}
	if acc == nil {
		acc = kernel.Numeral(RatZero(), sort)
	}
	return acc
}

// ReconstructDef converts an engine DefTree into a kernel Term by
// structural recursion, per spec.md §4.4. sort is the eliminated
// variable's own sort, used for every Const and for choosing Div vs
// RDiv.
func ReconstructDef(d DefTree, sort Sort, kernel Kernel, varToTerm func(VarID) (Term, bool), modDivTable map[VarID]Row) Term {
	switch n := d.(type) {
	case DefConst:
		return kernel.Numeral(n.Q, sort)
	case DefVar:
		vt := varTermFor(n.ID, kernel, varToTerm, modDivTable)
		if n.Coeff.Eq(RatOne()) {
			return vt
		}
		return kernel.Mul(kernel.Numeral(n.Coeff, sort), vt)
	case DefAdd:
		return kernel.Add(ReconstructDef(n.X, sort, kernel, varToTerm, modDivTable), ReconstructDef(n.Y, sort, kernel, varToTerm, modDivTable))
	case DefMul:
		return kernel.Mul(ReconstructDef(n.X, sort, kernel, varToTerm, modDivTable), ReconstructDef(n.Y, sort, kernel, varToTerm, modDivTable))
	case DefDivC:
		x := ReconstructDef(n.X, sort, kernel, varToTerm, modDivTable)
		m := kernel.Numeral(n.M, sort)
		if sort == SortInt {
			return kernel.Div(x, m)
		}
		return kernel.RDiv(x, m)
	default:
		panic(fmt.Sprintf("mbparith: unknown DefTree %T", d))
	}
}

// RowToFormula converts one live row into a Term, per spec.md §4.5.
// Callers must not pass MOD/DIV rows (they are consumed by inlining, not
// converted — spec.md §4.5 "Skip MOD and DIV rows").
func RowToFormula(r Row, eng *Engine, kernel Kernel, varToTerm func(VarID) (Term, bool), modDivTable map[VarID]Row) Formula {
	sort := rowSort(r, eng)

	if r.typ == RowDIVIDES {
		body := buildTermFromLinear(r.terms, r.k, sort, kernel, varToTerm, modDivTable)
		modTerm := kernel.Mod(body, kernel.Numeral(r.modulus, sort))
		return kernel.Eq(modTerm, kernel.Numeral(RatZero(), sort))
	}

	if len(r.terms) == 1 && r.terms[0].coeff.Sign() < 0 {
		t := r.terms[0]
		flippedVar := buildTermFromLinear([]term{{id: t.id, coeff: t.coeff.Neg()}}, RatZero(), sort, kernel, varToTerm, modDivTable)
		// c·x + k <op> 0 with c < 0 is (-c)·x <flipped op> k.
		kTerm := kernel.Numeral(r.k, sort)
		switch r.typ {
		case RowEQ:
			return kernel.Eq(flippedVar, kTerm)
		case RowLE:
			return kernel.LE(kTerm, flippedVar)
		case RowLT:
			return kernel.LT(kTerm, flippedVar)
		}
	}

	t := buildTermFromLinear(r.terms, RatZero(), sort, kernel, varToTerm, modDivTable)
	kNeg := kernel.Numeral(r.k.Neg(), sort)
	switch r.typ {
	case RowEQ:
		return kernel.Eq(t, kNeg)
	case RowLT:
		return kernel.LT(t, kNeg)
	default:
		return kernel.LE(t, kNeg)
	}
}
