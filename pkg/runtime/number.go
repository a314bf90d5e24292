package runtime

import "math/big"

// Number is the numeric tower: an arbitrary-precision signed integer.
// Operations never mutate their operands.
type Number struct {
	i *big.Int
}

// NewNumber creates a number from a machine integer
func NewNumber(v int64) Number {
	return Number{i: big.NewInt(v)}
}

// NumberFromBool maps true to 1 and false to 0, the language's booleans
func NumberFromBool(v bool) Number {
	if v {
		return NewNumber(1)
	}
	return NewNumber(0)
}

// ParseNumber parses a decimal integer literal
func ParseNumber(text string) (Number, bool) {
	i, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return Number{}, false
	}
	return Number{i: i}, true
}

func (n Number) Add(m Number) Number { return Number{i: new(big.Int).Add(n.i, m.i)} }
func (n Number) Sub(m Number) Number { return Number{i: new(big.Int).Sub(n.i, m.i)} }
func (n Number) Mul(m Number) Number { return Number{i: new(big.Int).Mul(n.i, m.i)} }

// Div is truncated division. Division by zero reports false.
func (n Number) Div(m Number) (Number, bool) {
	if m.IsZero() {
		return Number{}, false
	}
	return Number{i: new(big.Int).Quo(n.i, m.i)}, true
}

// Mod is the remainder of truncated division. Modulus by zero reports false.
func (n Number) Mod(m Number) (Number, bool) {
	if m.IsZero() {
		return Number{}, false
	}
	return Number{i: new(big.Int).Rem(n.i, m.i)}, true
}

func (n Number) Cmp(m Number) int { return n.i.Cmp(m.i) }
func (n Number) IsZero() bool     { return n.i.Sign() == 0 }

// Int64 returns the low machine-word view of the number, used for indexing
func (n Number) Int64() int64 {
	return n.i.Int64()
}

// IsInt64 reports whether the number fits an int64
func (n Number) IsInt64() bool {
	return n.i.IsInt64()
}

// String renders the decimal representation, negatives prefixed with '-'
func (n Number) String() string {
	if n.i == nil {
		return "0"
	}
	return n.i.Text(10)
}
