package mbparith

import (
	"context"
	"sort"
)

// Linearizer walks expression DAGs under a model and feeds the Numeric
// Engine, per spec.md §4.1. One Linearizer is scoped to a single
// projection call: its term<->VarID maps (the spec's "tids") persist
// across every literal of that call, so a sub-term seen twice shares one
// engine variable, but never outlive the call.
type Linearizer struct {
	eng    *Engine
	eval   Evaluator
	kernel Kernel
	tracer *Tracer

	termToVar map[Term]VarID
	varToTerm map[VarID]Term
}

// NewLinearizer builds a Linearizer that feeds eng.
func NewLinearizer(eng *Engine, eval Evaluator, kernel Kernel, tracer *Tracer) *Linearizer {
	if tracer == nil {
		tracer = NopTracer()
	}
	return &Linearizer{
		eng:       eng,
		eval:      eval,
		kernel:    kernel,
		tracer:    tracer,
		termToVar: map[Term]VarID{},
		varToTerm: map[VarID]Term{},
	}
}

// Representative reports the VarID assigned to t, if any.
func (lz *Linearizer) Representative(t Term) (VarID, bool) {
	id, ok := lz.termToVar[t]
	return id, ok
}

// TermFor reports the Term a VarID represents, if the Linearizer
// allocated it (targeted variables, sub-term representatives and
// mod/div-defined variables alike).
func (lz *Linearizer) TermFor(v VarID) (Term, bool) {
	t, ok := lz.varToTerm[v]
	return t, ok
}

// EnsureVar returns the engine VarID for t, allocating one seeded with
// eval(t) if this is the first time t is seen (spec.md §4.2 step 4: "for
// every variable v ∈ V not yet known to the engine, allocate a VarId
// initialized with eval(v)").
func (lz *Linearizer) EnsureVar(ctx context.Context, t Term) (VarID, error) {
	if id, ok := lz.termToVar[t]; ok {
		return id, nil
	}
	if err := checkCancel(ctx); err != nil {
		return 0, err
	}
	val := lz.eval.Eval(t)
	if !val.IsNumeral() {
		return 0, newProjectError(ErrEvaluationNotGround, "variable %s did not evaluate to a numeral", t.String())
	}
	id := lz.eng.AddVar(val.Num, t.Sort() == SortInt)
	lz.termToVar[t] = id
	lz.varToTerm[id] = t
	lz.tracer.varAlloc(id, val.Num, t.Sort() == SortInt)
	return id, nil
}

// Run linearizes every formula in the list (spec.md §4.1/§4.2 step 3).
// It returns the residue (literals the linearizer could not absorb) and
// the pinned list (literals that were turned into engine rows). The and/
// or rewriting rules can discover new top-level literals mid-run; those
// are appended to the same working list and processed in turn, matching
// the original's growing fmls vector.
func (lz *Linearizer) Run(ctx context.Context, formulas []Formula) (residue, pinned []Formula, err error) {
	list := append([]Formula{}, formulas...)
	for i := 0; i < len(list); i++ {
		if err := checkCancel(ctx); err != nil {
			return nil, nil, err
		}
		lit := list[i]
		lz.tracer.literal("begin", lit, false)
		ok, lerr := lz.linearizeLiteral(ctx, lit, &list)
		if lerr != nil {
			return nil, nil, lerr
		}
		if ok {
			pinned = append(pinned, lit)
		} else {
			residue = append(residue, lit)
		}
		lz.tracer.literal("end", lit, ok)
	}
	return residue, pinned, nil
}

func (lz *Linearizer) linearizeLiteral(ctx context.Context, lit Formula, list *[]Formula) (bool, error) {
	isNot := false
	t := lit
	if t.Kind() == KindNot {
		isNot = true
		t = t.Args()[0]
	}
	mu := RatOne()
	if isNot {
		mu = RatInt(-1)
	}

	flush := func(acc map[VarID]Rational, c Rational, typ RowType) {
		lz.eng.AddConstraint(acc, c, typ)
	}

	switch t.Kind() {
	case KindLE, KindGE:
		args := t.Args()
		lhs, rhs := args[0], args[1]
		if t.Kind() == KindGE {
			lhs, rhs = rhs, lhs
		}
		acc, c, err := lz.linearizePair(ctx, lhs, rhs, mu, list)
		if err != nil {
			return false, err
		}
		typ := RowLE
		if isNot {
			typ = RowLT
		}
		flush(acc, c, typ)
		return true, nil

	case KindLT, KindGT:
		args := t.Args()
		lhs, rhs := args[0], args[1]
		if t.Kind() == KindGT {
			lhs, rhs = rhs, lhs
		}
		acc, c, err := lz.linearizePair(ctx, lhs, rhs, mu, list)
		if err != nil {
			return false, err
		}
		typ := RowLT
		if isNot {
			typ = RowLE
		}
		flush(acc, c, typ)
		return true, nil

	case KindEq:
		args := t.Args()
		a, b := args[0], args[1]
		if !isNot {
			acc, c, err := lz.linearizePair(ctx, a, b, RatOne(), list)
			if err != nil {
				return false, err
			}
			flush(acc, c, RowEQ)
			return true, nil
		}
		valA, valB := lz.eval.Eval(a), lz.eval.Eval(b)
		if !valA.IsNumeral() || !valB.IsNumeral() {
			return false, nil
		}
		small, large := a, b
		if valB.Num.LT(valA.Num) {
			small, large = b, a
		}
		acc, c, err := lz.linearizePair(ctx, small, large, RatOne(), list)
		if err != nil {
			return false, err
		}
		flush(acc, c, RowLT)
		return true, nil

	case KindDistinct:
		args := t.Args()
		if !isNot {
			type valued struct {
				term Term
				val  Rational
			}
			vs := make([]valued, len(args))
			for i, a := range args {
				ev := lz.eval.Eval(a)
				if !ev.IsNumeral() {
					return false, nil
				}
				vs[i] = valued{term: a, val: ev.Num}
			}
			sort.Slice(vs, func(i, j int) bool { return vs[i].val.LT(vs[j].val) })
			for i := 0; i+1 < len(vs); i++ {
				acc, c, err := lz.linearizePair(ctx, vs[i].term, vs[i+1].term, RatOne(), list)
				if err != nil {
					return false, err
				}
				flush(acc, c, RowLT)
			}
			return true, nil
		}
		seen := map[string]Term{}
		found := false
		for _, a := range args {
			ev := lz.eval.Eval(a)
			if !ev.IsNumeral() {
				return false, nil
			}
			key := ev.Num.String()
			if other, ok := seen[key]; ok {
				acc, c, err := lz.linearizePair(ctx, a, other, RatOne(), list)
				if err != nil {
					return false, err
				}
				flush(acc, c, RowEQ)
				found = true
				break
			}
			seen[key] = a
		}
		if !found {
			return false, newProjectError(ErrAssumptionFailed, "negated distinct(%s) has no equal-valued pair under the model", t.String())
		}
		return true, nil

	case KindAnd:
		args := t.Args()
		if !isNot {
			*list = append(*list, args...)
			return true, nil
		}
		for _, ch := range args {
			val := lz.eval.Eval(ch)
			if val.IsBool && !val.Bool {
				*list = append(*list, lz.kernel.Not(ch))
				return true, nil
			}
		}
		return false, nil

	case KindOr:
		args := t.Args()
		if !isNot {
			for _, ch := range args {
				val := lz.eval.Eval(ch)
				if val.IsBool && val.Bool {
					*list = append(*list, ch)
					return true, nil
				}
			}
			return false, nil
		}
		for _, ch := range args {
			*list = append(*list, lz.kernel.Not(ch))
		}
		return true, nil

	default:
		return false, nil
	}
}

// linearizePair linearizes lhs with +mu and rhs with -mu into one shared
// accumulator, the shape every comparison-literal pattern in the
// dispatch table reduces to (spec.md §4.1: "Linearize μ·a − μ·b").
func (lz *Linearizer) linearizePair(ctx context.Context, lhs, rhs Term, mu Rational, list *[]Formula) (map[VarID]Rational, Rational, error) {
	acc := map[VarID]Rational{}
	c := RatZero()
	if err := lz.linearizeTerm(ctx, lhs, mu, acc, &c, list); err != nil {
		return nil, RatZero(), err
	}
	if err := lz.linearizeTerm(ctx, rhs, mu.Neg(), acc, &c, list); err != nil {
		return nil, RatZero(), err
	}
	return acc, c, nil
}

// linearizeFresh linearizes t into its own fresh accumulator (never the
// caller's), the way the original's add_def helper always starts a new
// ts0/c0/mul0 for a MOD/DIV body (see SPEC_FULL.md "Supplemented
// features" #3). It still appends any ITE-discovered residue onto the
// shared formula list.
func (lz *Linearizer) linearizeFresh(ctx context.Context, t Term, list *[]Formula) (map[VarID]Rational, Rational, error) {
	acc := map[VarID]Rational{}
	c := RatZero()
	if err := lz.linearizeTerm(ctx, t, RatOne(), acc, &c, list); err != nil {
		return nil, RatZero(), err
	}
	return acc, c, nil
}

// linearizeTerm is the inner term-normalization routine of spec.md §4.1:
// it walks t, accumulating a coefficient mu against every variable it
// bottoms out at into acc, and folding pure numeral contributions into
// c. Recognized shapes are consumed structurally (Mul-by-numeral,
// unary minus, Add, Sub, numeral, mod/div-by-constant, ITE); anything
// else — including a Mul of two non-numeral factors, or a mod/div by a
// non-constant or non-positive modulus — is treated atomically: it gets
// (or reuses) its own fresh engine variable seeded with eval(t).
func (lz *Linearizer) linearizeTerm(ctx context.Context, t Term, mu Rational, acc map[VarID]Rational, c *Rational, list *[]Formula) error {
	if id, ok := lz.termToVar[t]; ok {
		acc[id] = acc[id].Add(mu)
		return nil
	}

	switch t.Kind() {
	case KindMul:
		args := t.Args()
		a, b := args[0], args[1]
		if a.Kind() == KindNumeral {
			return lz.linearizeTerm(ctx, b, mu.Mul(a.Value()), acc, c, list)
		}
		if b.Kind() == KindNumeral {
			return lz.linearizeTerm(ctx, a, mu.Mul(b.Value()), acc, c, list)
		}

	case KindNeg:
		return lz.linearizeTerm(ctx, t.Args()[0], mu.Neg(), acc, c, list)

	case KindNumeral:
		*c = c.Add(mu.Mul(t.Value()))
		return nil

	case KindAdd:
		for _, ch := range t.Args() {
			if err := lz.linearizeTerm(ctx, ch, mu, acc, c, list); err != nil {
				return err
			}
		}
		return nil

	case KindSub:
		args := t.Args()
		if err := lz.linearizeTerm(ctx, args[0], mu, acc, c, list); err != nil {
			return err
		}
		return lz.linearizeTerm(ctx, args[1], mu.Neg(), acc, c, list)

	case KindITE:
		args := t.Args()
		cond, then, els := args[0], args[1], args[2]
		val := lz.eval.Eval(cond)
		if !val.IsBool {
			return newProjectError(ErrEvaluationNotGround, "ite guard %s did not evaluate to a boolean", cond.String())
		}
		if val.Bool {
			*list = append(*list, cond)
			return lz.linearizeTerm(ctx, then, mu, acc, c, list)
		}
		*list = append(*list, lz.kernel.Not(cond))
		return lz.linearizeTerm(ctx, els, mu, acc, c, list)

	case KindMod:
		args := t.Args()
		body, modt := args[0], args[1]
		if modt.Kind() == KindNumeral && modt.Value().Sign() > 0 {
			if err := checkCancel(ctx); err != nil {
				return err
			}
			bc, bk, err := lz.linearizeFresh(ctx, body, list)
			if err != nil {
				return err
			}
			y := lz.eng.AddMod(bc, bk, modt.Value())
			lz.termToVar[t] = y
			lz.varToTerm[y] = t
			lz.tracer.varAlloc(y, lz.eng.GetValue(y), true)
			acc[y] = acc[y].Add(mu)
			return nil
		}

	case KindDiv:
		args := t.Args()
		body, modt := args[0], args[1]
		if modt.Kind() == KindNumeral && modt.Value().Sign() > 0 {
			if err := checkCancel(ctx); err != nil {
				return err
			}
			bc, bk, err := lz.linearizeFresh(ctx, body, list)
			if err != nil {
				return err
			}
			y := lz.eng.AddDiv(bc, bk, modt.Value())
			lz.termToVar[t] = y
			lz.varToTerm[y] = t
			lz.tracer.varAlloc(y, lz.eng.GetValue(y), true)
			acc[y] = acc[y].Add(mu)
			return nil
		}
	}

	// Atomic fallback: uninterpreted, non-linear, or an unmatched
	// Mul/Mod/Div above.
	if err := checkCancel(ctx); err != nil {
		return err
	}
	val := lz.eval.Eval(t)
	if !val.IsNumeral() {
		return newProjectError(ErrEvaluationNotGround, "term %s did not evaluate to a numeral", t.String())
	}
	y := lz.eng.AddVar(val.Num, t.Sort() == SortInt)
	lz.termToVar[t] = y
	lz.varToTerm[y] = t
	lz.tracer.varAlloc(y, val.Num, t.Sort() == SortInt)
	acc[y] = acc[y].Add(mu)
	return nil
}
