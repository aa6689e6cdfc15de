// Package polynomial implements the Shamir secret-sharing polynomial and
// Lagrange interpolation generically over any curve's scalar field, per
// spec §9's "polymorphism over curves" design note: the logic is written
// once against a small scalar-field capability interface and instantiated
// for Ed25519 (github.com/keyshard/tss/pkg/ed25519group) and secp256k1
// (github.com/keyshard/tss/pkg/secp256k1group) separately. No mutable state
// is shared between instantiations.
package polynomial

// Scalar is the capability set a curve's scalar field must provide for
// polynomial evaluation and Lagrange interpolation.
type Scalar[S any] interface {
	Add(S) S
	Sub(S) S
	Mul(S) S
	Negate() S
	Invert() S
	IsZero() bool
	Equal(S) bool
}

// Polynomial is f(x) = coefficients[0] + coefficients[1]*x + ... over a
// curve's scalar field. coefficients[0] is the secret when used for Shamir
// sharing (f(0) = secret).
type Polynomial[S Scalar[S]] struct {
	coefficients []S
}

// New builds a polynomial of the given degree with constant term secret and
// the remaining coefficients supplied by sampleCoefficient (typically a
// CSPRNG draw). degree must be >= 0.
func New[S Scalar[S]](degree int, secret S, sampleCoefficient func() S) *Polynomial[S] {
	coeffs := make([]S, degree+1)
	coeffs[0] = secret
	for i := 1; i <= degree; i++ {
		coeffs[i] = sampleCoefficient()
	}
	return &Polynomial[S]{coefficients: coeffs}
}

// FromCoefficients builds a polynomial directly from an existing
// coefficient list (coefficients[0] is the constant term). Used when
// reconstructing a polynomial's shape is not required, only its evaluation.
func FromCoefficients[S Scalar[S]](coefficients []S) *Polynomial[S] {
	return &Polynomial[S]{coefficients: append([]S(nil), coefficients...)}
}

// Degree returns the polynomial's degree.
func (p *Polynomial[S]) Degree() int { return len(p.coefficients) - 1 }

// Constant returns f(0), the secret for a Shamir sharing polynomial.
func (p *Polynomial[S]) Constant() S { return p.coefficients[0] }

// Evaluate computes f(x) via Horner's method.
func (p *Polynomial[S]) Evaluate(x S) S {
	result := p.coefficients[len(p.coefficients)-1]
	for i := len(p.coefficients) - 2; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// Lagrange computes the Lagrange coefficients for interpolating the unique
// degree-(len(xs)-1) polynomial through points at xs, evaluated at "at"
// (callers pass "at" = the zero scalar for secret reconstruction, or a new
// participant's identifier for VSS extend). one must be the scalar field's
// multiplicative identity.
//
//	λ_i(at) = ∏_{j≠i} (at - x_j) / (x_i - x_j)
//
// xs must not contain duplicates; callers are responsible for this
// precondition, matching spec §4.2. If "at" equals one of xs, that entry's
// coefficient is 1 and all others are 0.
func Lagrange[S Scalar[S]](one S, xs []S, at S) []S {
	coeffs := make([]S, len(xs))
	for i, xi := range xs {
		num := one
		den := one
		for j, xj := range xs {
			if i == j {
				continue
			}
			num = num.Mul(at.Sub(xj))
			den = den.Mul(xi.Sub(xj))
		}
		coeffs[i] = num.Mul(den.Invert())
	}
	return coeffs
}
