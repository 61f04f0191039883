package mbparith

import (
	"fmt"
	"strings"
)

// demoTerm is the concrete node type behind DemoKernel's hash-consing.
// Only the fields relevant to its kind are meaningful: Numeral uses
// value, Var/BoolAtom/Opaque use label, everything else uses args.
type demoTerm struct {
	kind  Kind
	sort  Sort
	value Rational
	label string
	args  []Term
}

func (t *demoTerm) Kind() Kind      { return t.kind }
func (t *demoTerm) Args() []Term    { return t.args }
func (t *demoTerm) Sort() Sort      { return t.sort }
func (t *demoTerm) Value() Rational { return t.value }

func (t *demoTerm) String() string {
	switch t.kind {
	case KindNumeral:
		return t.value.String()
	case KindVar, KindBoolAtom, KindOpaque:
		return t.label
	case KindNeg:
		return "-" + t.args[0].String()
	case KindNot:
		return "not(" + t.args[0].String() + ")"
	case KindITE:
		return fmt.Sprintf("ite(%s, %s, %s)", t.args[0], t.args[1], t.args[2])
	}
	op := map[Kind]string{
		KindAdd: "+", KindSub: "-", KindMul: "*", KindMod: "mod", KindDiv: "div",
		KindLE: "<=", KindLT: "<", KindGE: ">=", KindGT: ">", KindEq: "=",
		KindDistinct: "distinct", KindAnd: "and", KindOr: "or",
	}[t.kind]
	parts := make([]string, len(t.args))
	for i, a := range t.args {
		parts[i] = a.String()
	}
	if t.kind == KindAnd || t.kind == KindOr || t.kind == KindDistinct {
		return op + "(" + strings.Join(parts, ", ") + ")"
	}
	if len(parts) == 2 {
		return "(" + parts[0] + " " + op + " " + parts[1] + ")"
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}

// DemoKernel is a small hash-consed expression kernel: the minimal
// concrete Kernel this package needs to drive its own tests and the
// example program. It is not the production expression kernel spec.md
// places out of scope — a real caller brings its own.
type DemoKernel struct {
	cache map[string]*demoTerm
}

// NewDemoKernel returns an empty kernel.
func NewDemoKernel() *DemoKernel {
	return &DemoKernel{cache: map[string]*demoTerm{}}
}

func ptrKey(t Term) string {
	return fmt.Sprintf("%p", t.(*demoTerm))
}

func (k *DemoKernel) intern(kind Kind, sort Sort, value Rational, label string, args []Term) Term {
	var key strings.Builder
	fmt.Fprintf(&key, "%d|%d|%s|%s|", kind, sort, value.String(), label)
	for _, a := range args {
		key.WriteString(ptrKey(a))
		key.WriteByte(',')
	}
	k2 := key.String()
	if t, ok := k.cache[k2]; ok {
		return t
	}
	t := &demoTerm{kind: kind, sort: sort, value: value, label: label, args: args}
	k.cache[k2] = t
	return t
}

// Var returns (hash-consing) the arithmetic variable named name.
func (k *DemoKernel) Var(name string, sort Sort) Term {
	return k.intern(KindVar, sort, RatZero(), name, nil)
}

// BoolVar returns (hash-consing) the boolean atom named name.
func (k *DemoKernel) BoolVar(name string) Term {
	return k.intern(KindBoolAtom, SortInt, RatZero(), name, nil)
}

// Opaque returns an uninterpreted term standing in for an unmodeled
// sub-expression (e.g. a function application), so tests can exercise
// the Linearizer's atomic fallback path.
func (k *DemoKernel) Opaque(name string, sort Sort) Term {
	return k.intern(KindOpaque, sort, RatZero(), name, nil)
}

func (k *DemoKernel) Numeral(q Rational, sort Sort) Term {
	return k.intern(KindNumeral, sort, q, "", nil)
}

func (k *DemoKernel) Neg(t Term) Term {
	return k.intern(KindNeg, t.Sort(), RatZero(), "", []Term{t})
}

func (k *DemoKernel) Add(ts ...Term) Term {
	sort := SortInt
	if len(ts) > 0 {
		sort = ts[0].Sort()
	}
	return k.intern(KindAdd, sort, RatZero(), "", ts)
}

func (k *DemoKernel) Sub(a, b Term) Term {
	return k.intern(KindSub, a.Sort(), RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) Mul(a, b Term) Term {
	return k.intern(KindMul, a.Sort(), RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) Mod(a, b Term) Term {
	return k.intern(KindMod, SortInt, RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) Div(a, b Term) Term {
	return k.intern(KindDiv, SortInt, RatZero(), "", []Term{a, b})
}

// RDiv is real (exact) division, represented as KindDiv tagged with
// SortReal so the shared Model evaluator (and reconstruct.go's
// DefDivC case) can tell it apart from integer floor division.
func (k *DemoKernel) RDiv(a, b Term) Term {
	return k.intern(KindDiv, SortReal, RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) ITE(cond, then, els Term) Term {
	return k.intern(KindITE, then.Sort(), RatZero(), "", []Term{cond, then, els})
}

func (k *DemoKernel) LE(a, b Term) Term {
	return k.intern(KindLE, SortInt, RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) LT(a, b Term) Term {
	return k.intern(KindLT, SortInt, RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) GE(a, b Term) Term {
	return k.intern(KindGE, SortInt, RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) GT(a, b Term) Term {
	return k.intern(KindGT, SortInt, RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) Eq(a, b Term) Term {
	return k.intern(KindEq, SortInt, RatZero(), "", []Term{a, b})
}

func (k *DemoKernel) Distinct(ts ...Term) Term {
	return k.intern(KindDistinct, SortInt, RatZero(), "", ts)
}

func (k *DemoKernel) Not(t Term) Term {
	return k.intern(KindNot, SortInt, RatZero(), "", []Term{t})
}

func (k *DemoKernel) And(ts ...Term) Term {
	return k.intern(KindAnd, SortInt, RatZero(), "", ts)
}

func (k *DemoKernel) Or(ts ...Term) Term {
	return k.intern(KindOr, SortInt, RatZero(), "", ts)
}

// Subst rebuilds t bottom-up, replacing any sub-term structurally equal
// (hash-consed, so pointer-equal) to a key of replacements.
func (k *DemoKernel) Subst(t Term, replacements map[Term]Term) Term {
	if r, ok := replacements[t]; ok {
		return r
	}
	args := t.Args()
	if len(args) == 0 {
		return t
	}
	newArgs := make([]Term, len(args))
	changed := false
	for i, a := range args {
		na := k.Subst(a, replacements)
		newArgs[i] = na
		if na != a {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return k.intern(t.Kind(), t.Sort(), RatZero(), "", newArgs)
}
