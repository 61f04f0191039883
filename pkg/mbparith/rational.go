package mbparith

import (
	"fmt"
	"math/big"
)

// Rational is an arbitrary-precision rational number. It is the in-scope
// stand-in for the "rational/integer number library" collaborator that
// spec.md places out of scope: we don't implement big-number arithmetic
// ourselves, we adapt math/big.Rat, the same way the rest of the retrieval
// pack (Consensys-gnark's field-element conversions) leans on math/big
// rather than hand-rolling bignum code.
type Rational struct {
	v *big.Rat
}

// RatInt builds an integer-valued Rational.
func RatInt(n int64) Rational {
	return Rational{v: big.NewRat(n, 1)}
}

// RatFrac builds a Rational equal to num/den. den must be non-zero.
func RatFrac(num, den int64) Rational {
	if den == 0 {
		panic("mbparith: RatFrac with zero denominator")
	}
	return Rational{v: big.NewRat(num, den)}
}

// RatZero is the additive identity.
func RatZero() Rational { return RatInt(0) }

// RatOne is the multiplicative identity.
func RatOne() Rational { return RatInt(1) }

func ratFromBig(r *big.Rat) Rational { return Rational{v: new(big.Rat).Set(r)} }

// IsZero reports whether q is exactly 0.
func (q Rational) IsZero() bool { return q.v == nil || q.v.Sign() == 0 }

// Sign returns -1, 0, or 1.
func (q Rational) Sign() int {
	if q.v == nil {
		return 0
	}
	return q.v.Sign()
}

// IsInt reports whether q has denominator 1.
func (q Rational) IsInt() bool {
	if q.v == nil {
		return true
	}
	return q.v.IsInt()
}

// Add returns q + r.
func (q Rational) Add(r Rational) Rational {
	return ratFromBig(new(big.Rat).Add(q.orZero(), r.orZero()))
}

// Sub returns q - r.
func (q Rational) Sub(r Rational) Rational {
	return ratFromBig(new(big.Rat).Sub(q.orZero(), r.orZero()))
}

// Mul returns q * r.
func (q Rational) Mul(r Rational) Rational {
	return ratFromBig(new(big.Rat).Mul(q.orZero(), r.orZero()))
}

// Neg returns -q.
func (q Rational) Neg() Rational {
	return ratFromBig(new(big.Rat).Neg(q.orZero()))
}

// Quo returns q / r. r must be non-zero.
func (q Rational) Quo(r Rational) Rational {
	return ratFromBig(new(big.Rat).Quo(q.orZero(), r.orZero()))
}

// Inv returns 1/q. q must be non-zero.
func (q Rational) Inv() Rational {
	return ratFromBig(new(big.Rat).Inv(q.orZero()))
}

// Cmp returns -1, 0, +1 as q is <, ==, > r.
func (q Rational) Cmp(r Rational) int {
	return q.orZero().Cmp(r.orZero())
}

// LT, LE, GT, GE are comparison convenience wrappers.
func (q Rational) LT(r Rational) bool { return q.Cmp(r) < 0 }
func (q Rational) LE(r Rational) bool { return q.Cmp(r) <= 0 }
func (q Rational) GT(r Rational) bool { return q.Cmp(r) > 0 }
func (q Rational) GE(r Rational) bool { return q.Cmp(r) >= 0 }
func (q Rational) Eq(r Rational) bool { return q.Cmp(r) == 0 }

// Floor returns the greatest integer <= q, as a Rational with IsInt() true.
func (q Rational) Floor() Rational {
	n := q.orZero()
	num, den := n.Num(), n.Denom()
	z := new(big.Int)
	m := new(big.Int)
	z.DivMod(num, den, m)
	return ratFromBig(new(big.Rat).SetInt(z))
}

// Mod returns q mod m for a positive integer modulus m, result in [0, m).
// q and m are both expected to be integers; fractional moduli are not a
// spec.md concept (MOD rows are always taken with a constant positive
// integer modulus).
func (q Rational) Mod(m Rational) Rational {
	qi := q.orZero().Num()
	mi := m.orZero().Num()
	r := new(big.Int).Mod(qi, mi)
	return ratFromBig(new(big.Rat).SetInt(r))
}

// Int64 returns q truncated to an int64, for display/index purposes only.
func (q Rational) Int64() int64 {
	n := q.orZero()
	f := new(big.Float).SetRat(n)
	i, _ := f.Int64()
	return i
}

// BigRat exposes the underlying big.Rat for callers that need it (e.g. the
// kernel collaborator when materializing numeral terms).
func (q Rational) BigRat() *big.Rat { return new(big.Rat).Set(q.orZero()) }

func (q Rational) orZero() *big.Rat {
	if q.v == nil {
		return new(big.Rat)
	}
	return q.v
}

func (q Rational) String() string {
	n := q.orZero()
	if n.IsInt() {
		return n.Num().String()
	}
	return fmt.Sprintf("%s/%s", n.Num().String(), n.Denom().String())
}
