package mbparith

// DefTree is the engine's algebraic definition output, per spec.md §3
// ("Definition tree") and §4.4. It is deliberately a closed, small
// algebra — Const, VarRef (scaled), Add, Mul, division-by-constant — so
// the Definition Reconstructor (reconstruct.go) can walk it by a plain
// type switch without needing anything from the engine's internals.
type DefTree interface {
	defTree()
}

// DefConst is a literal rational value.
type DefConst struct{ Q Rational }

// DefVar is a reference to an engine variable scaled by a coefficient.
type DefVar struct {
	ID    VarID
	Coeff Rational
}

// DefAdd is X + Y.
type DefAdd struct{ X, Y DefTree }

// DefMul is X * Y (in practice, in every tree this package builds, at
// least one side is a DefConst — the spec's algebra allows the general
// case and the reconstructor handles it generally).
type DefMul struct{ X, Y DefTree }

// DefDivC is floor(X / M) for integer sorts, or X / M for real sorts;
// the Definition Reconstructor decides which based on the target
// variable's sort (spec.md §4.4: "Div(x, m) → x div m if integer sort,
// else x / m").
type DefDivC struct {
	X DefTree
	M Rational
}

func (DefConst) defTree() {}
func (DefVar) defTree()   {}
func (DefAdd) defTree()   {}
func (DefMul) defTree()   {}
func (DefDivC) defTree()  {}

// scaleDef wraps t in a multiplication by the constant s, collapsing the
// trivial s==1 case and folding a constant t into a single DefConst so
// definition trees stay readable.
func scaleDef(t DefTree, s Rational) DefTree {
	if s.Eq(RatOne()) {
		return t
	}
	if c, ok := t.(DefConst); ok {
		return DefConst{Q: c.Q.Mul(s)}
	}
	return DefMul{X: t, Y: DefConst{Q: s}}
}

// linearTermsToDef builds the DefTree for Σ coeff·x (over terms, skipping
// excludeVar) + k.
func linearTermsToDef(terms []term, k Rational, excludeVar VarID) DefTree {
	var acc DefTree = DefConst{Q: k}
	for _, t := range terms {
		if t.id == excludeVar {
			continue
		}
		acc = DefAdd{X: acc, Y: DefVar{ID: t.id, Coeff: t.coeff}}
	}
	return acc
}
