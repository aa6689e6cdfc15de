package vss

import (
	"github.com/keyshard/tss/pkg/ed25519group"
	"github.com/keyshard/tss/pkg/polynomial"
	"github.com/keyshard/tss/pkg/tsserr"
)

// Point256 is the flat (non-VSS) Shamir share representation retained for
// simple share transport, per spec §3: a point (x, f(x)) on the sharing
// polynomial over the Ed25519 scalar field, with no accompanying verifying
// share or polynomial commitment. Unlike KeyPackage this carries no
// min_signers or group-key binding; callers that need those guarantees use
// the VSS-proper Split/Combine/Extend/Reshare above instead.
type Point256 struct {
	X [32]byte
	Y [32]byte
}

// Bytes returns the 64-byte bit-exact wire encoding from spec §6's Point256
// layout: x (32 bytes) || y (32 bytes).
func (p Point256) Bytes() [64]byte {
	var out [64]byte
	copy(out[:32], p.X[:])
	copy(out[32:], p.Y[:])
	return out
}

// Point256FromBytes decodes the 64-byte encoding produced by Bytes.
func Point256FromBytes(b []byte) (Point256, error) {
	if len(b) != 64 {
		return Point256{}, tsserr.ErrMalformedElement
	}
	var out Point256
	copy(out.X[:], b[:32])
	copy(out.Y[:], b[32:])
	return out, nil
}

// SplitFlat samples a random degree-(minSigners-1) polynomial with constant
// term secret and evaluates it at each of xs.
func SplitFlat(
	secret ed25519group.Scalar,
	xs []ed25519group.Scalar,
	minSigners int,
	sampleScalar func() (ed25519group.Scalar, error),
) ([]Point256, error) {
	if minSigners < 1 || len(xs) < minSigners {
		return nil, tsserr.ErrInvalidThreshold
	}
	coeffs := make([]ed25519group.Scalar, minSigners)
	coeffs[0] = secret
	for i := 1; i < minSigners; i++ {
		c, err := sampleScalar()
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	poly := polynomial.FromCoefficients(coeffs)

	out := make([]Point256, len(xs))
	for i, x := range xs {
		if x.IsZero() {
			return nil, tsserr.ErrInvalidIdentifier
		}
		y := poly.Evaluate(x)
		out[i] = Point256{X: x.Bytes(), Y: y.Bytes()}
	}
	return out, nil
}

// CombineFlat reconstructs the secret via Lagrange interpolation at zero
// over points, matching the legacy sss_combine_ed25519 helper's documented
// behavior: if fewer than minSigners points are supplied, it returns an
// (incorrect) value silently rather than an error — this is the open
// question in spec §9, resolved in DESIGN.md by keeping this behavior, the
// same choice and reason as for Combine.
// Malformed point encodings still return an explicit error.
func CombineFlat(points []Point256) (ed25519group.Scalar, error) {
	if len(points) == 0 {
		return ed25519group.Zero(), tsserr.ErrMissingShare
	}
	xs := make([]ed25519group.Scalar, len(points))
	ys := make([]ed25519group.Scalar, len(points))
	for i, pt := range points {
		x, err := ed25519group.ScalarFromCanonicalBytes(pt.X[:])
		if err != nil {
			return ed25519group.Zero(), err
		}
		y, err := ed25519group.ScalarFromCanonicalBytes(pt.Y[:])
		if err != nil {
			return ed25519group.Zero(), err
		}
		xs[i] = x
		ys[i] = y
	}
	one := ed25519group.ScalarFromUint32(1)
	coeffs := polynomial.Lagrange(one, xs, ed25519group.Zero())
	secret := ys[0].Mul(coeffs[0])
	for i := 1; i < len(ys); i++ {
		secret = secret.Add(ys[i].Mul(coeffs[i]))
	}
	return secret, nil
}

// ExpandShares extends an existing flat share set to newXs without rotating
// the polynomial, the Point256 analog of Extend. points must carry at least
// minSigners entries for the interpolation to reconstruct the correct
// polynomial; like CombineFlat, with fewer points it silently returns shares
// of a different polynomial, since flat shares carry no verifying data to
// detect this. Malformed point encodings, a zero new x, or a new x already
// present in points return an explicit error.
func ExpandShares(points []Point256, newXs []ed25519group.Scalar) ([]Point256, error) {
	if len(points) == 0 {
		return nil, tsserr.ErrMissingShare
	}
	xs := make([]ed25519group.Scalar, len(points))
	ys := make([]ed25519group.Scalar, len(points))
	existing := make(map[[32]byte]bool, len(points))
	for i, pt := range points {
		x, err := ed25519group.ScalarFromCanonicalBytes(pt.X[:])
		if err != nil {
			return nil, err
		}
		y, err := ed25519group.ScalarFromCanonicalBytes(pt.Y[:])
		if err != nil {
			return nil, err
		}
		xs[i] = x
		ys[i] = y
		existing[pt.X] = true
	}
	one := ed25519group.ScalarFromUint32(1)

	out := make([]Point256, len(newXs))
	for i, at := range newXs {
		if at.IsZero() || existing[at.Bytes()] {
			return nil, tsserr.ErrInvalidIdentifier
		}
		coeffs := polynomial.Lagrange(one, xs, at)
		y := ys[0].Mul(coeffs[0])
		for j := 1; j < len(ys); j++ {
			y = y.Add(ys[j].Mul(coeffs[j]))
		}
		out[i] = Point256{X: at.Bytes(), Y: y.Bytes()}
	}
	return out, nil
}
