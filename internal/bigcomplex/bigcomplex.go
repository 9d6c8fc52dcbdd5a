// Package bigcomplex provides an arbitrary-precision complex number built on
// math/big.Float. It is the extended numeric representation used wherever the
// renderer operates below the precision floor of float64: reference-orbit
// computation and the per-pixel glitch fallback. The fast per-pixel delta
// arithmetic stays on complex128 and only converts through this package at
// those two explicit points.
//
// The API follows the mutating-receiver convention of math/big: operations
// store their result in the receiver and return it, so callers can chain
// operations without allocating. All operations are alias-safe; the receiver
// may be one of the operands.
package bigcomplex

import "math/big"

// Complex is a complex number whose real and imaginary parts are big.Float
// values sharing a common precision.
type Complex struct {
	Re, Im *big.Float
}

// New returns a zero-valued Complex with the given precision in bits.
func New(prec uint) Complex {
	return Complex{
		Re: new(big.Float).SetPrec(prec),
		Im: new(big.Float).SetPrec(prec),
	}
}

// FromFloat64 returns a Complex with the given parts at the given precision.
// The float64 values are converted exactly; precision only affects subsequent
// arithmetic.
func FromFloat64(re, im float64, prec uint) Complex {
	return Complex{
		Re: new(big.Float).SetPrec(prec).SetFloat64(re),
		Im: new(big.Float).SetPrec(prec).SetFloat64(im),
	}
}

// FromComplex128 returns a Complex equal to z at the given precision.
func FromComplex128(z complex128, prec uint) Complex {
	return FromFloat64(real(z), imag(z), prec)
}

// Prec returns the precision of the real part in bits. Both parts always
// carry the same precision.
func (z Complex) Prec() uint {
	return z.Re.Prec()
}

// Copy returns an independent copy of z at the same precision.
func (z Complex) Copy() Complex {
	return Complex{
		Re: new(big.Float).Copy(z.Re),
		Im: new(big.Float).Copy(z.Im),
	}
}

// Set sets z to a and returns z.
func (z *Complex) Set(a Complex) *Complex {
	z.Re.Set(a.Re)
	z.Im.Set(a.Im)
	return z
}

// SetZero sets z to 0+0i and returns z.
func (z *Complex) SetZero() *Complex {
	z.Re.SetInt64(0)
	z.Im.SetInt64(0)
	return z
}

// Add sets z to the sum a+b and returns z.
func (z *Complex) Add(a, b Complex) *Complex {
	z.Re.Add(a.Re, b.Re)
	z.Im.Add(a.Im, b.Im)
	return z
}

// Sub sets z to the difference a-b and returns z.
func (z *Complex) Sub(a, b Complex) *Complex {
	z.Re.Sub(a.Re, b.Re)
	z.Im.Sub(a.Im, b.Im)
	return z
}

// Mul sets z to the product a*b and returns z.
// The computation goes through temporaries so that z may alias a or b.
func (z *Complex) Mul(a, b Complex) *Complex {
	prec := z.Re.Prec()
	ac := new(big.Float).SetPrec(prec).Mul(a.Re, b.Re)
	bd := new(big.Float).SetPrec(prec).Mul(a.Im, b.Im)
	ad := new(big.Float).SetPrec(prec).Mul(a.Re, b.Im)
	bc := new(big.Float).SetPrec(prec).Mul(a.Im, b.Re)
	z.Re.Sub(ac, bd)
	z.Im.Add(ad, bc)
	return z
}

// Square sets z to a*a and returns z. It uses the identity
// (x+iy)² = (x+y)(x-y) + 2xyi, saving one multiplication over Mul(a, a).
func (z *Complex) Square(a Complex) *Complex {
	prec := z.Re.Prec()
	sum := new(big.Float).SetPrec(prec).Add(a.Re, a.Im)
	diff := new(big.Float).SetPrec(prec).Sub(a.Re, a.Im)
	cross := new(big.Float).SetPrec(prec).Mul(a.Re, a.Im)
	z.Re.Mul(sum, diff)
	z.Im.Add(cross, cross)
	return z
}

// AbsSq sets dst to |z|² = re² + im² and returns dst. Working with the
// squared magnitude avoids a big.Float square root in the iteration loops.
func (z Complex) AbsSq(dst *big.Float) *big.Float {
	re2 := new(big.Float).SetPrec(dst.Prec()).Mul(z.Re, z.Re)
	im2 := new(big.Float).SetPrec(dst.Prec()).Mul(z.Im, z.Im)
	return dst.Add(re2, im2)
}

// Complex128 returns the nearest complex128 to z. Values far outside the
// float64 range collapse to ±Inf parts, which the escape checks treat as
// escaped.
func (z Complex) Complex128() complex128 {
	re, _ := z.Re.Float64()
	im, _ := z.Im.Float64()
	return complex(re, im)
}

// SetPrec sets the precision of both parts to prec, rounding if necessary,
// and returns z.
func (z *Complex) SetPrec(prec uint) *Complex {
	z.Re.SetPrec(prec)
	z.Im.SetPrec(prec)
	return z
}
