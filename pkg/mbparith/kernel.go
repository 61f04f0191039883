package mbparith

// This file describes the collaborators spec.md places out of scope: the
// hash-consed expression kernel and the model evaluator. We only need
// their interfaces — everything in this package is written against Term
// and Evaluator, never against a concrete AST implementation. A real
// caller (the surrounding reasoning framework) supplies its own kernel;
// kernel_demo.go supplies a minimal one for this package's own tests and
// the example program.

// Sort distinguishes the two arithmetic sorts this package reasons about.
type Sort int

const (
	SortInt Sort = iota
	SortReal
)

// Kind identifies the shape of a Term without requiring a type switch on a
// concrete struct — the hash-consed kernel owns the concrete
// representation, we only need to dispatch on shape.
type Kind int

const (
	KindVar    Kind = iota // an uninterpreted arithmetic variable or sub-term
	KindNumeral             // a numeric literal
	KindAdd                 // n-ary addition
	KindSub                 // binary subtraction
	KindMul                 // binary multiplication (linearizable only when one factor is a numeral)
	KindNeg                 // unary minus
	KindMod                 // t1 mod t2
	KindDiv                 // t1 div t2 (integer floor division)
	KindITE                 // ite(cond, then, else)
	KindLE
	KindLT
	KindGE
	KindGT
	KindEq
	KindDistinct
	KindAnd
	KindOr
	KindNot
	KindBoolAtom // an uninterpreted boolean atom (e.g. p in ite(p, ...))
	KindOpaque   // anything else: uninterpreted function application, non-linear sub-term, etc.
)

// Term is a handle into a hash-consed arithmetic/boolean expression DAG.
// Two Terms with the same Kernel and the same identity are semantically
// identical; Term values are expected to be comparable (usable as map
// keys) the way the spec's "TermId" is.
type Term interface {
	// Kind reports the node shape for dispatch.
	Kind() Kind

	// Args returns the term's children in kernel order. For KindNumeral
	// Args is empty and Value reports the literal. For KindVar/
	// KindBoolAtom/KindOpaque, Args is empty.
	Args() []Term

	// Sort reports the arithmetic sort; meaningless for boolean-kinded
	// terms.
	Sort() Sort

	// Value is populated only for KindNumeral terms.
	Value() Rational

	// String renders the term for debug/trace output. Not used for
	// equality — Term identity is structural, not textual.
	String() string
}

// Formula is a literal or compound boolean term living in the formula
// list F that spec.md §3 describes as "mutated in place". It's the same
// type as Term — formulas are just boolean-sorted terms — named
// separately only to make call sites read the way the spec does.
type Formula = Term

// Value is the result of evaluating a Term under a model: either a
// rational numeral (arithmetic sort) or a boolean (boolean sort).
type Value struct {
	IsBool bool
	Bool   bool
	Num    Rational
}

// BoolValue constructs a boolean evaluation result.
func BoolValue(b bool) Value { return Value{IsBool: true, Bool: b} }

// NumValue constructs a numeral evaluation result.
func NumValue(q Rational) Value { return Value{Num: q} }

// IsNumeral reports whether v carries a rational result.
func (v Value) IsNumeral() bool { return !v.IsBool }

// Evaluator is the "model evaluator" collaborator: a total function under
// model completion (spec.md GLOSSARY) from Term to Value. Implementations
// must be deterministic and must fabricate defaults for unassigned
// symbols once SetModelCompletion(true) has been called, rather than
// erroring — that mode switch is why spec.md §4.2 step 2 calls it out
// explicitly before projection begins.
type Evaluator interface {
	// Eval evaluates t under the current model.
	Eval(t Term) Value

	// SetModelCompletion toggles model-completion mode.
	SetModelCompletion(on bool)

	// SetInline marks the model "inline", i.e. the evaluator may freely
	// extend it with fresh default bindings for terms with no current
	// assignment (spec.md §4.2 step 2).
	SetInline()
}

// Kernel is the minimal hash-consing surface a caller's expression kernel
// must provide so this package can manufacture new terms (negations,
// fresh sub-term placeholders, reconstructed formulas, numeral literals).
// It is the "framework glue" seam: this package never allocates terms by
// any means other than calling back into Kernel.
type Kernel interface {
	Numeral(q Rational, sort Sort) Term
	Neg(t Term) Term
	Add(ts ...Term) Term
	Sub(a, b Term) Term
	Mul(a, b Term) Term
	Mod(a, b Term) Term
	Div(a, b Term) Term // integer floor division
	RDiv(a, b Term) Term // real division
	LE(a, b Term) Term
	LT(a, b Term) Term
	Eq(a, b Term) Term
	Not(t Term) Term
	And(ts ...Term) Term

	// Subst rebuilds t with every occurrence of a key of replacements
	// replaced by its value, the way the out-of-scope kernel's
	// safe-replace utility would (spec.md §4.2 step 10 needs this to
	// apply computed definitions back into residual formulas).
	Subst(t Term, replacements map[Term]Term) Term
}
