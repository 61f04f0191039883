package mbparith

// Model is a concrete, in-memory Evaluator: a partial map from variable
// terms to rational values plus the two mode flags spec.md's Evaluator
// interface exposes. It is not a production model evaluator (there is no
// congruence closure, no theory combination) — it exists so this
// package's own tests and example program have something to project
// against.
type Model struct {
	assign           map[Term]Rational
	modelCompletion  bool
	inline           bool
	nextDefault      int64
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{assign: map[Term]Rational{}}
}

// Set binds t to q.
func (m *Model) Set(t Term, q Rational) {
	m.assign[t] = q
}

// SetModelCompletion implements Evaluator.
func (m *Model) SetModelCompletion(on bool) { m.modelCompletion = on }

// SetInline implements Evaluator.
func (m *Model) SetInline() { m.inline = true }

// Eval implements Evaluator by structural recursion over Term, dispatching
// on Kind exactly the way the Linearizer and Projector expect a "model
// completion" evaluator to behave: once model completion is on, an
// unassigned variable gets a fresh default rather than an error; the
// default is stored, and so stable across calls, only once the model is
// also marked inline.
func (m *Model) Eval(t Term) Value {
	switch t.Kind() {
	case KindNumeral:
		return NumValue(t.Value())

	case KindVar, KindOpaque:
		if q, ok := m.assign[t]; ok {
			return NumValue(q)
		}
		if m.modelCompletion {
			q := RatInt(m.nextDefault)
			m.nextDefault++
			if m.inline {
				m.assign[t] = q
			}
			return NumValue(q)
		}
		return NumValue(RatZero())

	case KindBoolAtom:
		if q, ok := m.assign[t]; ok {
			return BoolValue(!q.IsZero())
		}
		if m.modelCompletion {
			if m.inline {
				m.assign[t] = RatZero()
			}
			return BoolValue(false)
		}
		return BoolValue(false)

	case KindNeg:
		return NumValue(m.Eval(t.Args()[0]).Num.Neg())

	case KindAdd:
		acc := RatZero()
		for _, a := range t.Args() {
			acc = acc.Add(m.Eval(a).Num)
		}
		return NumValue(acc)

	case KindSub:
		args := t.Args()
		return NumValue(m.Eval(args[0]).Num.Sub(m.Eval(args[1]).Num))

	case KindMul:
		args := t.Args()
		return NumValue(m.Eval(args[0]).Num.Mul(m.Eval(args[1]).Num))

	case KindMod:
		args := t.Args()
		return NumValue(m.Eval(args[0]).Num.Mod(m.Eval(args[1]).Num))

	case KindDiv:
		args := t.Args()
		q := m.Eval(args[0]).Num.Quo(m.Eval(args[1]).Num)
		if t.Sort() == SortReal {
			return NumValue(q)
		}
		return NumValue(q.Floor())

	case KindITE:
		args := t.Args()
		if m.Eval(args[0]).Bool {
			return m.Eval(args[1])
		}
		return m.Eval(args[2])

	case KindLE:
		args := t.Args()
		return BoolValue(m.Eval(args[0]).Num.LE(m.Eval(args[1]).Num))
	case KindLT:
		args := t.Args()
		return BoolValue(m.Eval(args[0]).Num.LT(m.Eval(args[1]).Num))
	case KindGE:
		args := t.Args()
		return BoolValue(m.Eval(args[0]).Num.GE(m.Eval(args[1]).Num))
	case KindGT:
		args := t.Args()
		return BoolValue(m.Eval(args[0]).Num.GT(m.Eval(args[1]).Num))
	case KindEq:
		args := t.Args()
		a, b := args[0], args[1]
		if isArithSort(a) && isArithSort(b) {
			return BoolValue(m.Eval(a).Num.Eq(m.Eval(b).Num))
		}
		return BoolValue(m.Eval(a).Bool == m.Eval(b).Bool)
	case KindDistinct:
		args := t.Args()
		seen := map[string]bool{}
		for _, a := range args {
			key := m.Eval(a).Num.String()
			if seen[key] {
				return BoolValue(false)
			}
			seen[key] = true
		}
		return BoolValue(true)

	case KindNot:
		return BoolValue(!m.Eval(t.Args()[0]).Bool)

	case KindAnd:
		for _, a := range t.Args() {
			if !m.Eval(a).Bool {
				return BoolValue(false)
			}
		}
		return BoolValue(true)

	case KindOr:
		for _, a := range t.Args() {
			if m.Eval(a).Bool {
				return BoolValue(true)
			}
		}
		return BoolValue(false)

	default:
		return NumValue(RatZero())
	}
}
