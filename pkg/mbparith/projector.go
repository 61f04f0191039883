package mbparith

import (
	"context"
	"errors"
)

// Config holds the two flags spec.md §6 names, with the spec's defaults.
type Config struct {
	// CheckPurified switches the strict purity rule on: also mark the
	// closure of the residue itself, and of any representative that is
	// not a target variable and not pure (spec.md §4.2 step 5).
	CheckPurified bool

	// ApplyProjection, when true, substitutes computed definitions back
	// into the residual formulas and re-checks them against the model
	// (spec.md §4.2 step 10).
	ApplyProjection bool
}

// DefaultConfig matches spec.md §6: CheckPurified true, ApplyProjection
// false.
func DefaultConfig() Config {
	return Config{CheckPurified: true, ApplyProjection: false}
}

// Definition pairs an eliminated variable with its substitution term
// (spec.md §3, "MBP Definition").
type Definition struct {
	Var  Term
	Term Term
}

// Projector orchestrates variable classification, elimination, and
// formula/definition reconstruction, per spec.md §4.2.
type Projector struct {
	Kernel Kernel
	Tracer *Tracer
	Config Config
}

// NewProjector builds a Projector. tracer may be nil (a no-op tracer is
// used).
func NewProjector(kernel Kernel, tracer *Tracer, cfg Config) *Projector {
	if tracer == nil {
		tracer = NopTracer()
	}
	return &Projector{Kernel: kernel, Tracer: tracer, Config: cfg}
}

func isArithVar(t Term) bool {
	return t.Kind() == KindVar && (t.Sort() == SortInt || t.Sort() == SortReal)
}

func isArithSort(t Term) bool {
	return t.Sort() == SortInt || t.Sort() == SortReal
}

func isPureRepresentative(t Term) bool {
	if t.Kind() != KindMod && t.Kind() != KindDiv {
		return false
	}
	m := t.Args()[1]
	return m.Kind() == KindNumeral && m.Value().Sign() > 0
}

func markClosure(marked map[Term]bool, t Term) {
	if marked[t] {
		return
	}
	marked[t] = true
	for _, a := range t.Args() {
		markClosure(marked, a)
	}
}

// projectResult is the internal, pointer-free result of one projection
// call; the exported Project/ProjectWithDefs/ProjectOne wrappers copy
// its fields back into the caller's in-place V/F/D arguments.
type projectResult struct {
	remainingVars []Term
	formulas      []Formula
	defs          []Definition
}

func (p *Projector) projectCore(ctx context.Context, model Evaluator, varsIn []Term, formulas []Formula, computeDef bool) (*projectResult, error) {
	hasArith := false
	for _, v := range varsIn {
		if isArithVar(v) {
			hasArith = true
			break
		}
	}
	if !hasArith {
		return &projectResult{remainingVars: varsIn, formulas: formulas}, nil
	}

	model.SetModelCompletion(true)
	model.SetInline()
	computeDef = computeDef || p.Config.ApplyProjection

	eng := NewEngine()
	lz := NewLinearizer(eng, model, p.Kernel, p.Tracer)

	residue, _, err := lz.Run(ctx, formulas)
	if err != nil {
		return nil, err
	}

	for _, v := range varsIn {
		if !isArithVar(v) {
			continue
		}
		if _, err := lz.EnsureVar(ctx, v); err != nil {
			return nil, err
		}
	}

	varMark := map[Term]bool{}
	for _, v := range varsIn {
		varMark[v] = true
	}
	fmlsMark := map[Term]bool{}
	for t := range lz.termToVar {
		if isArithSort(t) && !isPureRepresentative(t) && !varMark[t] {
			markClosure(fmlsMark, t)
		}
	}
	if p.Config.CheckPurified {
		for _, f := range residue {
			markClosure(fmlsMark, f)
		}
		for t := range lz.termToVar {
			if !varMark[t] && !isPureRepresentative(t) {
				markClosure(fmlsMark, t)
			}
		}
	}

	var eliminableTerms []Term
	var eliminableIDs []VarID
	var remaining []Term
	for _, v := range varsIn {
		if !isArithVar(v) || fmlsMark[v] {
			remaining = append(remaining, v)
			continue
		}
		id, _ := lz.Representative(v)
		eliminableTerms = append(eliminableTerms, v)
		eliminableIDs = append(eliminableIDs, id)
	}

	for _, v := range eliminableIDs {
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}
		p.Tracer.eliminate(v, false)
	}
	defTrees := eng.Project(eliminableIDs, computeDef)

	liveRows := eng.GetLiveRows()
	modDivTable := map[VarID]Row{}
	for _, r := range liveRows {
		if r.typ == RowMOD || r.typ == RowDIV {
			modDivTable[r.defVar] = r
		}
	}

	outFormulas := append([]Formula{}, residue...)
	for _, r := range liveRows {
		if r.typ == RowMOD || r.typ == RowDIV {
			continue
		}
		p.Tracer.row("live", r)
		outFormulas = append(outFormulas, RowToFormula(r, eng, p.Kernel, lz.TermFor, modDivTable))
	}

	var defs []Definition
	if computeDef {
		for i, v := range eliminableTerms {
			if defTrees[i] == nil {
				continue
			}
			sort := SortReal
			if v.Sort() == SortInt {
				sort = SortInt
			}
			term := ReconstructDef(*defTrees[i], sort, p.Kernel, lz.TermFor, modDivTable)
			defs = append(defs, Definition{Var: v, Term: term})
			p.Tracer.eliminate(eliminableIDs[i], true)
		}
	}

	if p.Config.ApplyProjection {
		repl := map[Term]Term{}
		for i := len(defs) - 1; i >= 0; i-- {
			d := defs[i]
			resolved := p.Kernel.Subst(d.Term, repl)
			repl[d.Var] = resolved
		}
		for j, f := range outFormulas {
			outFormulas[j] = p.Kernel.Subst(f, repl)
		}
		for _, f := range outFormulas {
			val := model.Eval(f)
			if !val.IsBool || !val.Bool {
				return nil, newProjectError(ErrProjectionInvalidatesModel, "formula %s false after substituting definitions", f.String())
			}
		}
	}

	return &projectResult{remainingVars: remaining, formulas: outFormulas, defs: defs}, nil
}

// Project eliminates vars from formulas in place, per spec.md §6. On
// success, *vars holds the variables that were not eliminated and
// *formulas holds F'.
func (p *Projector) Project(ctx context.Context, model Evaluator, vars *[]Term, formulas *[]Formula) (bool, error) {
	res, err := p.projectCore(ctx, model, *vars, *formulas, false)
	if err != nil {
		if errors.Is(err, ErrProjectionInvalidatesModel) {
			return false, nil
		}
		return false, err
	}
	*vars = res.remainingVars
	*formulas = res.formulas
	return true, nil
}

// ProjectWithDefs is Project plus appended (v, term) definition entries,
// per spec.md §6.
func (p *Projector) ProjectWithDefs(ctx context.Context, model Evaluator, vars *[]Term, formulas *[]Formula, defs *[]Definition) (bool, error) {
	res, err := p.projectCore(ctx, model, *vars, *formulas, true)
	if err != nil {
		if errors.Is(err, ErrProjectionInvalidatesModel) {
			return false, nil
		}
		return false, err
	}
	*vars = res.remainingVars
	*formulas = res.formulas
	*defs = append(*defs, res.defs...)
	return true, nil
}

// ProjectOne specializes Project to a single variable, per spec.md §6 and
// the original's project1 (SPEC_FULL.md "Supplemented features" #1): it
// is literally Project on a one-element variable set, reporting failure
// if the variable survives unprojected.
func (p *Projector) ProjectOne(ctx context.Context, model Evaluator, v Term, formulas *[]Formula) (bool, error) {
	vs := []Term{v}
	ok, err := p.Project(ctx, model, &vs, formulas)
	if err != nil || !ok {
		return false, err
	}
	return len(vs) == 0, nil
}
