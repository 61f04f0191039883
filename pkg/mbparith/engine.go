package mbparith

import "fmt"

// engineVar is the per-variable bookkeeping the Row Store keeps: its
// current value (consistent with the input model, per spec.md §3's
// model-consistency invariant) and its sort.
type engineVar struct {
	value Rational
	isInt bool
}

// Engine is the Row Store / Numeric Engine described at spec.md §4.3. It
// holds linear constraints in canonical Row form and performs symbolic
// variable elimination, mod/div introduction, and objective
// maximization. It never talks to a Term or an Evaluator directly —
// Linearizer is the only component that feeds it, and Definition
// Reconstructor is the only component that reads its DefTree output —
// keeping the Row Store usable standalone, the way spec.md §4.3 frames
// it ("a separate module").
type Engine struct {
	vars []engineVar
	rows []Row

	hasObjective bool
	objective    Row // k + Σc·x, stored as an ordinary row with typ ignored
}

// NewEngine returns an empty, model-consistent engine.
func NewEngine() *Engine {
	return &Engine{}
}

// AddVar registers a new variable with its current (model) value and
// sort, returning the VarID the rest of the engine API addresses it by.
func (e *Engine) AddVar(value Rational, isInt bool) VarID {
	id := VarID(len(e.vars))
	e.vars = append(e.vars, engineVar{value: value, isInt: isInt})
	return id
}

// GetValue returns the current (post-projection) numeric assignment for
// v.
func (e *Engine) GetValue(v VarID) Rational {
	return e.vars[v].value
}

// IsInt reports the declared sort of v.
func (e *Engine) IsInt(v VarID) bool {
	return e.vars[v].isInt
}

// AddConstraint adds Σc·x + k <type> 0 for type ∈ {LE, LT, EQ}. Per
// spec.md §4.3, the engine must preserve model consistency: callers must
// only add constraints that already hold under the current variable
// values. AddConstraint does not itself re-check this (the Linearizer is
// responsible for only calling it on verified-true literals), mirroring
// the original's linearize() which asserts rather than re-verifies.
func (e *Engine) AddConstraint(coeffs map[VarID]Rational, k Rational, typ RowType) {
	if typ != RowLE && typ != RowLT && typ != RowEQ {
		panic("mbparith: AddConstraint requires LE, LT, or EQ")
	}
	e.rows = append(e.rows, newRow(typ, coeffs, k))
}

// AddMod registers a defined variable y = (Σc·x + k) mod m and returns
// y. m must be a positive rational (always an integer in practice, per
// spec.md §4.1 item 8).
func (e *Engine) AddMod(coeffs map[VarID]Rational, k, m Rational) VarID {
	bodyVal := RatZero()
	for id, c := range coeffs {
		bodyVal = bodyVal.Add(c.Mul(e.vars[id].value))
	}
	bodyVal = bodyVal.Add(k)
	y := e.AddVar(bodyVal.Mod(m), true)
	row := newRow(RowMOD, coeffs, k)
	row.modulus = m
	row.defVar = y
	row.hasDef = true
	e.rows = append(e.rows, row)
	return y
}

// AddDiv registers a defined variable y = floor((Σc·x + k) / m) and
// returns y.
func (e *Engine) AddDiv(coeffs map[VarID]Rational, k, m Rational) VarID {
	bodyVal := RatZero()
	for id, c := range coeffs {
		bodyVal = bodyVal.Add(c.Mul(e.vars[id].value))
	}
	bodyVal = bodyVal.Add(k)
	y := e.AddVar(bodyVal.Quo(m).Floor(), true)
	row := newRow(RowDIV, coeffs, k)
	row.modulus = m
	row.defVar = y
	row.hasDef = true
	e.rows = append(e.rows, row)
	return y
}

// AddDivides adds the side constraint m | (Σc·x + k). It introduces no
// new variable.
func (e *Engine) AddDivides(coeffs map[VarID]Rational, k, m Rational) {
	row := newRow(RowDIVIDES, coeffs, k)
	row.modulus = m
	e.rows = append(e.rows, row)
}

// SetObjective records the linear term Σc·x + k that Maximize will
// optimize.
func (e *Engine) SetObjective(coeffs map[VarID]Rational, k Rational) {
	e.hasObjective = true
	e.objective = newRow(RowLE, coeffs, k)
}

// GetLiveRows returns a snapshot of the surviving constraints.
func (e *Engine) GetLiveRows() []Row {
	out := make([]Row, len(e.rows))
	copy(out, e.rows)
	return out
}

// valueOf is the value function threaded through Row.evalAt/satisfied.
func (e *Engine) valueOf(v VarID) Rational { return e.vars[v].value }

// substituteRowVar replaces every occurrence of v in row with def,
// algebraically folding def's constant/linear contribution into row's
// terms and constant. def must be of the restricted linear shape this
// package's DefTree produces (Const, Add-chain of DefVar/DefConst,
// scaled by a constant Mul, or DivC) — substitution walks that shape
// directly rather than going through a generic evaluator.
func substituteRowVar(row Row, v VarID, coeffOnV Rational, def DefTree) Row {
	flat := map[VarID]Rational{}
	k := row.k
	for _, t := range row.terms {
		if t.id == v {
			continue
		}
		flat[t.id] = flat[t.id].Add(t.coeff)
	}
	addScaled(flat, &k, def, coeffOnV)
	out := newRow(row.typ, flat, k)
	out.modulus = row.modulus
	out.defVar = row.defVar
	out.hasDef = row.hasDef
	return out
}

// addScaled adds scale*def into (coeffs, k), walking the restricted
// DefTree algebra this package produces.
func addScaled(coeffs map[VarID]Rational, k *Rational, def DefTree, scale Rational) {
	switch d := def.(type) {
	case DefConst:
		*k = k.Add(d.Q.Mul(scale))
	case DefVar:
		coeffs[d.ID] = coeffs[d.ID].Add(d.Coeff.Mul(scale))
	case DefAdd:
		addScaled(coeffs, k, d.X, scale)
		addScaled(coeffs, k, d.Y, scale)
	case DefMul:
		if c, ok := d.Y.(DefConst); ok {
			addScaled(coeffs, k, d.X, scale.Mul(c.Q))
			return
		}
		if c, ok := d.X.(DefConst); ok {
			addScaled(coeffs, k, d.Y, scale.Mul(c.Q))
			return
		}
		panic("mbparith: non-linear DefMul encountered during substitution")
	case DefDivC:
		// A DIV definition is substituted as-is only where exact
		// (integer EQ elimination already emitted the matching
		// DIVIDES side row); approximate it as its rational quotient
		// for algebraic folding purposes, which is exact whenever the
		// side constraint holds.
		inner := map[VarID]Rational{}
		innerK := RatZero()
		addScaled(inner, &innerK, d.X, RatOne())
		for id, c := range inner {
			coeffs[id] = coeffs[id].Add(c.Quo(d.M).Mul(scale))
		}
		*k = k.Add(innerK.Quo(d.M).Mul(scale))
	default:
		panic(fmt.Sprintf("mbparith: unknown DefTree %T", def))
	}
}

// eliminationPlan is the per-variable outcome of one elimination step
// (which has already rewritten the rows), collected by Engine.Project so
// the caller gets one DefTree (or none) per requested variable in the
// same order it was asked to eliminate them.
type eliminationPlan struct {
	def    DefTree
	hasDef bool
}

// Project eliminates the listed variables in order and returns one
// optional definition tree per input, same index (spec.md §4.3). It is
// the Loos–Weispfenning-with-Fourier–Motzkin-fallback engine named in
// spec.md §1: variables with a usable equality are eliminated exactly by
// substitution (with a DIVIDES side row when an integer equation's
// coefficient isn't ±1, matching spec.md §8 scenario S2); variables
// bounded only by inequalities are eliminated by combining every
// lower/upper bound pair (Fourier–Motzkin); a variable also appearing in
// a MOD/DIV/DIVIDES row with no exact equality available is eliminated
// by fixing it to its current model value — sound (it only narrows the
// existential witness) even though it is not the most general
// substitution a full virtual-substitution engine would pick.
func (e *Engine) Project(vars []VarID, computeDef bool) []*DefTree {
	plans := make([]eliminationPlan, len(vars))
	for i, v := range vars {
		plans[i] = e.eliminateOne(v, computeDef)
	}
	out := make([]*DefTree, len(vars))
	for i, p := range plans {
		if p.hasDef {
			d := p.def
			out[i] = &d
		}
	}
	return out
}

func (e *Engine) eliminateOne(v VarID, computeDef bool) eliminationPlan {
	// Case 1: an EQ row gives an exact definition.
	for i, row := range e.rows {
		if row.typ != RowEQ {
			continue
		}
		c := row.coeffOf(v)
		if c.IsZero() {
			continue
		}
		return e.eliminateViaEquality(i, row, v, c, computeDef)
	}

	// Case 2: pure inequality (Fourier–Motzkin) elimination, provided v
	// never appears in a MOD/DIV/DIVIDES row.
	if !e.appearsInModDiv(v) {
		return e.eliminateViaFM(v, computeDef)
	}

	// Case 3: fall back to fixing v at its current model value. Sound
	// (it is exactly the witness the model already provides) though
	// less general than full virtual substitution.
	return e.eliminateViaModelValue(v, computeDef)
}

func (e *Engine) appearsInModDiv(v VarID) bool {
	for _, row := range e.rows {
		if row.typ != RowMOD && row.typ != RowDIV && row.typ != RowDIVIDES {
			continue
		}
		if !row.coeffOf(v).IsZero() {
			return true
		}
	}
	return false
}

func (e *Engine) eliminateViaEquality(rowIdx int, row Row, v VarID, c Rational, computeDef bool) eliminationPlan {
	norm := row
	if c.Sign() < 0 {
		norm = row.scaled(RatInt(-1))
		c = c.Neg()
	}
	rest := linearTermsToDef(norm.terms, norm.k, v)

	var def DefTree
	needsDivides := e.vars[v].isInt && !c.Eq(RatOne())
	if needsDivides {
		def = DefDivC{X: scaleDef(rest, RatInt(-1)), M: c}
		divCoeffs := map[VarID]Rational{}
		for _, t := range norm.terms {
			if t.id == v {
				continue
			}
			divCoeffs[t.id] = t.coeff
		}
		e.rows = append(e.rows, func() Row {
			r := newRow(RowDIVIDES, divCoeffs, norm.k)
			r.modulus = c
			return r
		}())
	} else {
		def = scaleDef(rest, RatInt(-1).Quo(c))
	}

	newRows := make([]Row, 0, len(e.rows))
	for i, r := range e.rows {
		if i == rowIdx {
			continue // the defining equality itself is now redundant
		}
		cv := r.coeffOf(v)
		if cv.IsZero() {
			newRows = append(newRows, r)
			continue
		}
		newRows = append(newRows, substituteRowVar(r, v, cv, def))
	}
	e.rows = newRows

	return eliminationPlan{def: def, hasDef: computeDef}
}

func (e *Engine) eliminateViaFM(v VarID, computeDef bool) eliminationPlan {
	var lowers, uppers []Row // lowers: v >= bound ; uppers: v <= bound, both normalized to coeff(v) == +/-1 implicitly via scaling below
	var others []Row
	for _, r := range e.rows {
		c := r.coeffOf(v)
		if c.IsZero() || (r.typ != RowLE && r.typ != RowLT) {
			others = append(others, r)
			continue
		}
		if c.Sign() > 0 {
			uppers = append(uppers, r.scaled(c.Inv())) // now coeff(v) == 1, type preserved (positive scale)
		} else {
			lowers = append(lowers, r.scaled(c.Neg().Inv())) // coeff(v) == -1 after scaling by 1/|c|... see below
		}
	}

	// After scaling by 1/|c| (a positive scalar), coeff(v) keeps its
	// original sign: +1 for uppers, -1 for lowers. That already matches
	// the "v <= bound" / "v >= bound" shape once rewritten:
	//   uppers: v + rest <= 0            -> v <= -rest
	//   lowers: -v + rest <= 0           -> v >= rest
	combined := make([]Row, 0, len(lowers)*len(uppers))
	for _, lo := range lowers {
		for _, up := range uppers {
			sum := lo.addRow(up) // (-v+restLo) + (v+restUp) = restLo+restUp, v cancels
			typ := RowLE
			if lo.typ == RowLT || up.typ == RowLT {
				typ = RowLT
			}
			sum.typ = typ
			combined = append(combined, sum.withoutVar(v))
		}
	}

	e.rows = append(others, combined...)

	if !computeDef {
		return eliminationPlan{}
	}
	if len(lowers) == 0 || len(uppers) == 0 {
		// Unbounded in the elimination direction: no term is needed.
		return eliminationPlan{}
	}
	// Model-directed witness selection (Loos-Weispfenning test point):
	// prefer whichever bound is tight (equal to the model's current
	// value of v) as the exact definition.
	for _, up := range uppers {
		bound := sumOthers(up, v, e).Neg() // v <= -rest
		if bound.Eq(e.vars[v].value) {
			def := scaleDef(linearTermsToDef(up.terms, up.k, v), RatInt(-1))
			return eliminationPlan{def: def, hasDef: true}
		}
	}
	for _, lo := range lowers {
		bound := sumOthers(lo, v, e) // v >= rest
		if bound.Eq(e.vars[v].value) {
			def := linearTermsToDef(lo.terms, lo.k, v)
			return eliminationPlan{def: def, hasDef: true}
		}
	}
	// Bounded on both sides but no bound happens to be tight at this
	// model point: unlike the true-unbounded case above, `none` would
	// wrongly claim v can take ±∞ (spec.md §4.3: a `none` definition
	// means exactly that). Fall back to fixing v at its current model
	// value, the same sound substitution eliminateViaModelValue uses.
	return eliminationPlan{def: DefConst{Q: e.vars[v].value}, hasDef: true}
}

// sumOthers evaluates the non-v part of row under the engine's current
// values, used only for tight-bound detection during witness selection.
func sumOthers(row Row, v VarID, e *Engine) Rational {
	acc := row.k
	for _, t := range row.terms {
		if t.id == v {
			continue
		}
		acc = acc.Add(t.coeff.Mul(e.vars[t.id].value))
	}
	return acc
}

func (e *Engine) eliminateViaModelValue(v VarID, computeDef bool) eliminationPlan {
	value := e.vars[v].value
	def := DefConst{Q: value}

	newRows := make([]Row, 0, len(e.rows))
	for _, r := range e.rows {
		c := r.coeffOf(v)
		if c.IsZero() {
			newRows = append(newRows, r)
			continue
		}
		sub := substituteRowVar(r, v, c, def)
		if sub.typ == RowDIVIDES || sub.typ == RowMOD || sub.typ == RowDIV {
			newRows = append(newRows, sub)
			continue
		}
		if len(sub.terms) == 0 && sub.satisfied(e.valueOf) {
			continue // row collapsed to a true numeric fact; drop it
		}
		newRows = append(newRows, sub)
	}
	e.rows = newRows

	return eliminationPlan{def: def, hasDef: computeDef}
}
