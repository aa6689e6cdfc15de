package vss

import (
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/polynomial"
	"github.com/keyshard/tss/pkg/tsserr"
)

// Combine reconstructs the secret via Lagrange interpolation at zero over
// the supplied key packages. Per spec §4.2, if packages has fewer than
// min_signers entries this silently returns an incorrect value — that
// follows from the threshold model and spec §9's open question resolves to
// keeping that behavior for this operation specifically (see DESIGN.md);
// every other failure mode (malformed share, duplicate identifier) is an
// explicit error.
func Combine[S Scalar[S, P], P Point[P, S]](
	zero, one S,
	packages map[party.ID]*KeyPackage[S, P],
) (S, error) {
	if len(packages) == 0 {
		return zero, tsserr.ErrMissingShare
	}
	xs := make([]S, 0, len(packages))
	shares := make([]S, 0, len(packages))
	seen := make(map[[32]byte]bool, len(packages))
	for _, kp := range packages {
		if kp.Identifier.IsZero() {
			return zero, tsserr.ErrInvalidIdentifier
		}
		b := kp.Identifier.Bytes()
		if seen[b] {
			return zero, tsserr.ErrInvalidIdentifier
		}
		seen[b] = true
		xs = append(xs, kp.Identifier)
		shares = append(shares, kp.SigningShare)
	}

	coeffs := polynomial.Lagrange(one, xs, zero)
	secret := shares[0].Mul(coeffs[0])
	for i := 1; i < len(shares); i++ {
		secret = secret.Add(shares[i].Mul(coeffs[i]))
	}
	return secret, nil
}
