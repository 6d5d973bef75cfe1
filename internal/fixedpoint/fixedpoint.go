// Package fixedpoint implements scaled integer arithmetic for mixing
// 256-bit-range token amounts with decimal market prices. Prices are lifted
// to an integer numerator at a fixed scale so every intermediate stays in
// big.Int and no precision is lost to floating point.
package fixedpoint

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// DefaultScale is the fixed-point denominator used across a computation
// run. A run must not mix scales between calls.
const DefaultScale int64 = 10000

// Mul multiplies a big integer by a decimal, accurate to within 1/scale.
// The decimal is rounded to an integer numerator at the given scale,
// multiplied in, then divided back out with truncating integer division.
// scale must be > 0. The input is not mutated.
func Mul(a *big.Int, b decimal.Decimal, scale int64) *big.Int {
	numerator := b.Mul(decimal.NewFromInt(scale)).Round(0).BigInt()

	out := new(big.Int).Mul(a, numerator)
	return out.Quo(out, big.NewInt(scale))
}

// Div divides one big integer by another, returning a decimal accurate to
// within 1/scale. It computes (a*scale)/b with truncating integer division
// and then divides the result by scale. Returns domain.ErrDivisionByZero
// when b is zero. scale must be > 0. Inputs are not mutated.
func Div(a, b *big.Int, scale int64) (decimal.Decimal, error) {
	if b.Sign() == 0 {
		return decimal.Decimal{}, domain.ErrDivisionByZero
	}

	scaled := new(big.Int).Mul(a, big.NewInt(scale))
	scaled.Quo(scaled, b)

	return decimal.NewFromBigInt(scaled, 0).Div(decimal.NewFromInt(scale)), nil
}
