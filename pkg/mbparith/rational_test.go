package mbparith

import "testing"

func TestRationalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		a, b Rational
		op   func(a, b Rational) Rational
		want Rational
	}{
		{"add", RatInt(2), RatInt(3), Rational.Add, RatInt(5)},
		{"sub", RatInt(2), RatInt(3), Rational.Sub, RatInt(-1)},
		{"mul", RatFrac(1, 2), RatInt(4), Rational.Mul, RatInt(2)},
		{"quo", RatInt(7), RatInt(2), Rational.Quo, RatFrac(7, 2)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.op(test.a, test.b)
			if !got.Eq(test.want) {
				t.Errorf("%s(%s, %s) = %s, want %s", test.name, test.a, test.b, got, test.want)
			}
		})
	}
}

func TestRationalFloorAndMod(t *testing.T) {
	tests := []struct {
		name     string
		v        Rational
		m        Rational
		wantMod  Rational
		floorOf  Rational
		wantFlr  Rational
	}{
		{"pos_mod", RatInt(7), RatInt(3), RatInt(1), RatFrac(7, 3), RatInt(2)},
		{"neg_mod", RatInt(-7), RatInt(3), RatInt(2), RatFrac(-7, 3), RatInt(-3)},
		{"exact", RatInt(6), RatInt(3), RatInt(0), RatInt(2), RatInt(2)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.v.Mod(test.m); !got.Eq(test.wantMod) {
				t.Errorf("Mod = %s, want %s", got, test.wantMod)
			}
			if got := test.floorOf.Floor(); !got.Eq(test.wantFlr) {
				t.Errorf("Floor(%s) = %s, want %s", test.floorOf, got, test.wantFlr)
			}
		})
	}
}

func TestRationalComparisons(t *testing.T) {
	a, b := RatInt(1), RatFrac(3, 2)
	if !a.LT(b) {
		t.Errorf("expected %s < %s", a, b)
	}
	if !b.GT(a) {
		t.Errorf("expected %s > %s", b, a)
	}
	if !a.LE(a) || !a.GE(a) {
		t.Errorf("expected %s to be both <= and >= itself", a)
	}
	if a.Eq(b) {
		t.Errorf("did not expect %s == %s", a, b)
	}
}

func TestRatFracZeroDenominatorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on zero denominator")
		}
	}()
	RatFrac(1, 0)
}
