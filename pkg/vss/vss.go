// Package vss implements the Shamir/FROST verifiable secret-sharing layer
// (spec §4.2): split a secret into per-participant shares, combine shares
// back into the secret, extend the share set to new participants without
// rotating the polynomial, and reshare onto a fresh polynomial for a new
// committee. The logic is written once against the scalar/point capability
// interfaces below and instantiated separately for Ed25519
// (github.com/keyshard/tss/pkg/ed25519group) and secp256k1
// (github.com/keyshard/tss/pkg/secp256k1group); see spec §9's "polymorphism
// over curves" design note. This mirrors the structure of the teacher
// repository's protocols/lss/config and protocols/lss/dealer packages,
// generalized from a single concrete curve to both.
package vss

import (
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/polynomial"
	"github.com/keyshard/tss/pkg/tsserr"
)

// Scalar is the capability set a curve's scalar field must provide.
type Scalar[S any, P any] interface {
	Add(S) S
	Sub(S) S
	Mul(S) S
	Negate() S
	Invert() S
	IsZero() bool
	Equal(S) bool
	Bytes() [32]byte
	ScalarBaseMult() P
}

// Point is the capability set a curve's group must provide.
type Point[P any, S any] interface {
	Add(P) P
	ScalarMult(S) P
	Equal(P) bool
}

// KeyPackage is a single participant's share of a split or reshared secret,
// per spec §3.
type KeyPackage[S any, P any] struct {
	Identifier     S
	SigningShare   S
	VerifyingShare P
	VerifyingKey   P
	MinSigners     int
	// Generation is a monotonic counter bumped on every reshare; pure
	// bookkeeping with no cryptographic effect (spec_full §4.8).
	Generation uint64
}

// PublicKeyPackage collects every participant's verifying share plus the
// group verifying key, per spec §3. Map iteration order is not meaningful
// here since Go map order is unspecified; callers that need deterministic
// order (FROST) re-sort by party.ID before use.
type PublicKeyPackage[S any, P any] struct {
	VerifyingShares map[party.ID]P
	VerifyingKey    P
	Identifiers     map[party.ID]S
	MinSigners      int
	Generation      uint64
}

func collectDistinct[S Scalar[S, P], P Point[P, S]](identifiers map[party.ID]S) ([]party.ID, []S, error) {
	seen := make(map[[32]byte]bool, len(identifiers))
	ids := make([]party.ID, 0, len(identifiers))
	xs := make([]S, 0, len(identifiers))
	for id, x := range identifiers {
		if x.IsZero() {
			return nil, nil, tsserr.ErrInvalidIdentifier
		}
		b := x.Bytes()
		if seen[b] {
			return nil, nil, tsserr.ErrInvalidIdentifier
		}
		seen[b] = true
		ids = append(ids, id)
		xs = append(xs, x)
	}
	return ids, xs, nil
}

// Split samples a random degree-(minSigners-1) polynomial f with f(0) =
// secret, and evaluates it at each identifier to produce that participant's
// SigningShare. Fails if identifiers has fewer than minSigners entries, if
// minSigners < 1, if any identifier repeats or is zero, or if sampling a
// coefficient fails.
func Split[S Scalar[S, P], P Point[P, S]](
	secret S,
	identifiers map[party.ID]S,
	minSigners int,
	sampleScalar func() (S, error),
) (map[party.ID]*KeyPackage[S, P], *PublicKeyPackage[S, P], error) {
	if minSigners < 1 {
		return nil, nil, tsserr.ErrInvalidThreshold
	}
	if len(identifiers) < minSigners {
		return nil, nil, tsserr.ErrInvalidThreshold
	}
	ids, xs, err := collectDistinct[S, P](identifiers)
	if err != nil {
		return nil, nil, err
	}

	coeffs := make([]S, minSigners)
	coeffs[0] = secret
	for i := 1; i < minSigners; i++ {
		c, err := sampleScalar()
		if err != nil {
			return nil, nil, err
		}
		coeffs[i] = c
	}
	poly := polynomial.FromCoefficients(coeffs)

	verifyingKey := secret.ScalarBaseMult()
	packages := make(map[party.ID]*KeyPackage[S, P], len(ids))
	verifyingShares := make(map[party.ID]P, len(ids))
	idScalars := make(map[party.ID]S, len(ids))
	for i, id := range ids {
		share := poly.Evaluate(xs[i])
		vshare := share.ScalarBaseMult()
		packages[id] = &KeyPackage[S, P]{
			Identifier:     xs[i],
			SigningShare:   share,
			VerifyingShare: vshare,
			VerifyingKey:   verifyingKey,
			MinSigners:     minSigners,
		}
		verifyingShares[id] = vshare
		idScalars[id] = xs[i]
	}
	pub := &PublicKeyPackage[S, P]{
		VerifyingShares: verifyingShares,
		VerifyingKey:    verifyingKey,
		Identifiers:     idScalars,
		MinSigners:      minSigners,
	}
	return packages, pub, nil
}
