package mbparith

import (
	"fmt"
	"sort"
	"strings"
)

// VarID is a dense, non-negative integer assigned by the Numeric Engine,
// per spec.md §3. Unlike Term, VarID is engine-local: it only makes sense
// together with the Engine that minted it.
type VarID int

// RowType tags the relation a Row asserts, per spec.md §3.
type RowType int

const (
	RowLE RowType = iota
	RowLT
	RowEQ
	RowMOD
	RowDIV
	RowDIVIDES
)

func (t RowType) String() string {
	switch t {
	case RowLE:
		return "<="
	case RowLT:
		return "<"
	case RowEQ:
		return "="
	case RowMOD:
		return "mod"
	case RowDIV:
		return "div"
	case RowDIVIDES:
		return "divides"
	default:
		return "?"
	}
}

// term is a single (variable, coefficient) pair inside a Row.
type term struct {
	id    VarID
	coeff Rational
}

// Row is a linear expression Σ cⱼ·xᵢⱼ + k together with a type tag, per
// spec.md §3. For RowMOD/RowDIV/RowDIVIDES, Modulus carries m and, for
// MOD/DIV, DefVar carries the id of the variable the row defines.
type Row struct {
	terms   []term // invariant: each VarID appears at most once, coeff != 0
	k       Rational
	typ     RowType
	modulus Rational // only meaningful for MOD/DIV/DIVIDES
	defVar  VarID    // only meaningful for MOD/DIV; id = modulus-defined variable
	hasDef  bool
}

func newRow(typ RowType, coeffs map[VarID]Rational, k Rational) Row {
	r := Row{typ: typ, k: k}
	ids := make([]VarID, 0, len(coeffs))
	for id, c := range coeffs {
		if c.IsZero() {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		r.terms = append(r.terms, term{id: id, coeff: coeffs[id]})
	}
	return r
}

// coeffOf returns the coefficient of v in the row, or zero if absent.
func (r Row) coeffOf(v VarID) Rational {
	for _, t := range r.terms {
		if t.id == v {
			return t.coeff
		}
	}
	return RatZero()
}

// withoutVar returns a copy of r with v's term removed.
func (r Row) withoutVar(v VarID) Row {
	out := r
	out.terms = nil
	for _, t := range r.terms {
		if t.id != v {
			out.terms = append(out.terms, t)
		}
	}
	return out
}

// scaled returns r with every coefficient and the constant multiplied by
// s. s must be non-zero; scaling by a negative flips LE<->GE semantics,
// which callers must account for (this is a pure algebraic helper).
func (r Row) scaled(s Rational) Row {
	out := Row{typ: r.typ, k: r.k.Mul(s), modulus: r.modulus, defVar: r.defVar, hasDef: r.hasDef}
	for _, t := range r.terms {
		out.terms = append(out.terms, term{id: t.id, coeff: t.coeff.Mul(s)})
	}
	return out
}

// addRow returns r + other, combining shared variables. Only meaningful
// between rows of compatible algebraic shape (both inequalities, same
// sort); callers (Fourier-Motzkin combination) are responsible for
// producing a sound resulting type tag.
func (r Row) addRow(other Row) Row {
	coeffs := map[VarID]Rational{}
	for _, t := range r.terms {
		coeffs[t.id] = coeffs[t.id].Add(t.coeff)
	}
	for _, t := range other.terms {
		coeffs[t.id] = coeffs[t.id].Add(t.coeff)
	}
	out := newRow(r.typ, coeffs, r.k.Add(other.k))
	return out
}

// evalAt evaluates Σc·x + k given a value function for variables.
func (r Row) evalAt(val func(VarID) Rational) Rational {
	acc := r.k
	for _, t := range r.terms {
		acc = acc.Add(t.coeff.Mul(val(t.id)))
	}
	return acc
}

// satisfied reports whether the row holds given current variable values.
// MOD/DIV rows are definitional and always considered satisfied here
// (the engine enforces them at construction time via add_mod/add_div);
// DIVIDES is checked by exact divisibility.
func (r Row) satisfied(val func(VarID) Rational) bool {
	switch r.typ {
	case RowLE:
		return r.evalAt(val).LE(RatZero())
	case RowLT:
		return r.evalAt(val).LT(RatZero())
	case RowEQ:
		return r.evalAt(val).IsZero()
	case RowDIVIDES:
		v := r.evalAt(val)
		return v.Mod(r.modulus).IsZero()
	case RowMOD, RowDIV:
		return true
	default:
		return true
	}
}

func (r Row) String() string {
	var sb strings.Builder
	for i, t := range r.terms {
		if i > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%s*x%d", t.coeff.String(), int(t.id))
	}
	if sb.Len() == 0 {
		sb.WriteString("0")
	}
	switch r.typ {
	case RowMOD:
		fmt.Fprintf(&sb, " + %s  (mod %s, defines x%d)", r.k.String(), r.modulus.String(), int(r.defVar))
	case RowDIV:
		fmt.Fprintf(&sb, " + %s  (div %s, defines x%d)", r.k.String(), r.modulus.String(), int(r.defVar))
	case RowDIVIDES:
		fmt.Fprintf(&sb, " + %s  (%s | ...)", r.k.String(), r.modulus.String())
	default:
		fmt.Fprintf(&sb, " + %s %s 0", r.k.String(), r.typ.String())
	}
	return sb.String()
}
