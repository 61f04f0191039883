package mbparith

import (
	"context"
	"fmt"
)

// InfEps is the extended-real value spec.md GLOSSARY defines: r + k·ε +
// j·∞ with r rational and k, j ∈ {-1, 0, +1}.
type InfEps struct {
	R   Rational
	Eps int // -1, 0, or +1
	Inf int // -1, 0, or +1
}

// InfEpsFinite builds a plain finite value.
func InfEpsFinite(r Rational) InfEps { return InfEps{R: r} }

// InfEpsPosInf is +∞.
func InfEpsPosInf() InfEps { return InfEps{Inf: 1} }

// Cmp orders InfEps values lexicographically by (Inf, R, Eps).
func (v InfEps) Cmp(o InfEps) int {
	if v.Inf != o.Inf {
		if v.Inf < o.Inf {
			return -1
		}
		return 1
	}
	if c := v.R.Cmp(o.R); c != 0 {
		return c
	}
	if v.Eps != o.Eps {
		if v.Eps < o.Eps {
			return -1
		}
		return 1
	}
	return 0
}

func (v InfEps) String() string {
	switch {
	case v.Inf > 0:
		return "+inf"
	case v.Inf < 0:
		return "-inf"
	case v.Eps > 0:
		return fmt.Sprintf("%s+eps", v.R.String())
	case v.Eps < 0:
		return fmt.Sprintf("%s-eps", v.R.String())
	default:
		return v.R.String()
	}
}

// Maximize registers an objective, eliminates every other variable the
// engine knows about, and reports the tightest surviving upper bound on
// the objective — spec.md §4.6's service, built directly on the same
// elimination machinery Project uses (there is no separate simplex: a
// fresh variable z is bound to the objective by an equality row, then
// Project's ordinary equality/Fourier–Motzkin elimination is run over
// every other variable; whatever single-variable bound on z survives is
// the answer).
func (e *Engine) Maximize() InfEps {
	if !e.hasObjective {
		panic("mbparith: Maximize called without SetObjective")
	}
	currentObjVal := e.objective.evalAt(e.valueOf)
	z := e.AddVar(currentObjVal, false)

	coeffs := map[VarID]Rational{z: RatOne()}
	for _, t := range e.objective.terms {
		coeffs[t.id] = coeffs[t.id].Sub(t.coeff)
	}
	e.AddConstraint(coeffs, e.objective.k.Neg(), RowEQ)

	others := make([]VarID, 0, len(e.vars)-1)
	for id := VarID(0); id < VarID(len(e.vars)); id++ {
		if id != z {
			others = append(others, id)
		}
	}
	e.Project(others, false)

	bestFound := false
	var bestVal Rational
	bestStrict := false
	for _, r := range e.GetLiveRows() {
		if r.typ != RowLE && r.typ != RowLT {
			continue
		}
		c := r.coeffOf(z)
		if c.Sign() <= 0 {
			continue
		}
		rest := r.k
		for _, t := range r.terms {
			if t.id != z {
				rest = rest.Add(t.coeff.Mul(e.valueOf(t.id)))
			}
		}
		bound := rest.Neg().Quo(c)
		strict := r.typ == RowLT
		if !bestFound || bound.LT(bestVal) || (bound.Eq(bestVal) && strict && !bestStrict) {
			bestFound = true
			bestVal = bound
			bestStrict = strict
		}
	}

	if !bestFound {
		return InfEpsPosInf()
	}
	if bestStrict {
		return InfEps{R: bestVal, Eps: -1}
	}
	return InfEpsFinite(bestVal)
}

// MaximizeResult bundles spec.md §4.6's two output predicates alongside
// the optimum value.
type MaximizeResult struct {
	Optimum InfEps
	Ge      Formula // a weak bound the model already satisfies
	Gt      Formula // a strict bound, or nil if the objective is unbounded above
}

// Maximize computes max(t) subject to formulas, under model, per
// spec.md §4.6. It shares a single Linearizer with the caller's formula
// list so that sub-terms occurring both in formulas and in t map to the
// same engine variables.
func Maximize(ctx context.Context, kernel Kernel, tracer *Tracer, formulas []Formula, model Evaluator, t Term) (MaximizeResult, error) {
	model.SetModelCompletion(true)
	model.SetInline()

	eng := NewEngine()
	lz := NewLinearizer(eng, model, kernel, tracer)

	if _, _, err := lz.Run(ctx, formulas); err != nil {
		return MaximizeResult{}, err
	}

	var extra []Formula
	acc, c, err := lz.linearizeFresh(ctx, t, &extra)
	if err != nil {
		return MaximizeResult{}, err
	}
	eng.SetObjective(acc, c)

	opt := eng.Maximize()

	evalT := model.Eval(t)
	if !evalT.IsNumeral() {
		return MaximizeResult{}, newProjectError(ErrEvaluationNotGround, "objective %s did not evaluate to a numeral", t.String())
	}

	sort := SortReal
	if t.Sort() == SortInt {
		sort = SortInt
	}
	ge := kernel.LE(kernel.Numeral(evalT.Num, sort), t) // t >= eval(t): eval(t) <= t

	switch {
	case opt.Inf > 0:
		return MaximizeResult{Optimum: opt, Ge: ge, Gt: nil}, nil
	case opt.Eps < 0:
		gtOptimum := kernel.LE(kernel.Numeral(opt.R, sort), t) // spec.md §4.6: gt := t >= optimum in this branch
		return MaximizeResult{Optimum: opt, Ge: ge, Gt: gtOptimum}, nil
	default:
		geOptimum := kernel.LE(kernel.Numeral(opt.R, sort), t) // t >= optimum
		gtOptimum := kernel.LT(kernel.Numeral(opt.R, sort), t) // t > optimum
		return MaximizeResult{Optimum: opt, Ge: geOptimum, Gt: gtOptimum}, nil
	}
}
