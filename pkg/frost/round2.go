package frost

import (
	"github.com/keyshard/tss/pkg/ed25519group"
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/polynomial"
	"github.com/keyshard/tss/pkg/tsserr"
	"github.com/keyshard/tss/pkg/vss"
)

const bindingFactorDomain = "FROST-ED25519-SHA512-v1 rho"

// encodeCommitmentList serializes the active set's commitments in
// canonical (sorted) order, per spec §4.1's deterministic map-iteration
// requirement: this byte string enters both the binding-factor hash and
// (transitively) everything downstream of it, so every signer must build
// it identically.
func encodeCommitmentList(sorted party.Set, commitments map[party.ID]SigningCommitments) []byte {
	var out []byte
	for _, id := range sorted {
		c := commitments[id]
		idBytes := c.Identifier.Bytes()
		hBytes := c.Hiding.Bytes()
		bBytes := c.Binding.Bytes()
		out = append(out, idBytes[:]...)
		out = append(out, hBytes[:]...)
		out = append(out, bBytes[:]...)
	}
	return out
}

// bindingFactors computes ρ_j for every signer in the active set, per spec
// §4.3 step 1: a domain-separated SHA-512-based hash of the encoded
// commitment list, the message, and the target identifier, reduced mod ℓ.
func bindingFactors(message []byte, sorted party.Set, commitments map[party.ID]SigningCommitments) (map[party.ID]ed25519group.Scalar, error) {
	encoded := encodeCommitmentList(sorted, commitments)
	out := make(map[party.ID]ed25519group.Scalar, len(sorted))
	for _, id := range sorted {
		idBytes := commitments[id].Identifier.Bytes()
		rho, err := ed25519group.HashToScalarDomain(bindingFactorDomain, message, encoded, idBytes[:])
		if err != nil {
			return nil, err
		}
		out[id] = rho
	}
	return out, nil
}

// groupCommitment computes R = Σ_j (H_commit_j + ρ_j · B_commit_j), spec
// §4.3 step 2.
func groupCommitment(sorted party.Set, commitments map[party.ID]SigningCommitments, rho map[party.ID]ed25519group.Scalar) ed25519group.Point {
	R := ed25519group.Identity()
	for _, id := range sorted {
		c := commitments[id]
		term := c.Hiding.Add(c.Binding.ScalarMult(rho[id]))
		R = R.Add(term)
	}
	return R
}

// challenge computes c = H_sig(R, VerifyingKey, message) per Ed25519
// (SHA-512 reduced), spec §4.3 step 3. No domain prefix is hashed: the input
// is exactly R || A || M, so the result is the RFC 8032 challenge.
func challenge(r, verifyingKey ed25519group.Point, message []byte) (ed25519group.Scalar, error) {
	rBytes := r.Bytes()
	yBytes := verifyingKey.Bytes()
	return ed25519group.HashToScalarDomain("", rBytes[:], yBytes[:], message)
}

// lagrangeAtZero computes λ_i for identifier self within the active set,
// spec §4.3 step 4 (the active-set Lagrange coefficient at x* = 0).
func lagrangeAtZero(sorted party.Set, commitments map[party.ID]SigningCommitments, self party.ID) ed25519group.Scalar {
	xs := make([]ed25519group.Scalar, len(sorted))
	selfIdx := -1
	for i, id := range sorted {
		xs[i] = commitments[id].Identifier
		if id == self {
			selfIdx = i
		}
	}
	one := ed25519group.ScalarFromUint32(1)
	coeffs := polynomial.Lagrange(one, xs, ed25519group.Zero())
	return coeffs[selfIdx]
}

// Sign runs FROST round 2 (spec §4.3): given the SigningPackage and this
// signer's own nonces and key share, emit a SignatureShare. pkg must
// include the caller's own identifier in pkg.Commitments.
func Sign(
	pkg SigningPackage,
	share *vss.KeyPackage[ed25519group.Scalar, ed25519group.Point],
	nonces SigningNonces,
) (SignatureShare, error) {
	selfID := share.Identifier.PartyID()
	if _, ok := pkg.Commitments[selfID]; !ok {
		return SignatureShare{}, tsserr.ErrMissingCommitment
	}

	sorted := sortedActiveSet(pkg.Commitments)
	rho, err := bindingFactors(pkg.Message, sorted, pkg.Commitments)
	if err != nil {
		return SignatureShare{}, err
	}
	R := groupCommitment(sorted, pkg.Commitments, rho)
	c, err := challenge(R, share.VerifyingKey, pkg.Message)
	if err != nil {
		return SignatureShare{}, err
	}
	lambda := lagrangeAtZero(sorted, pkg.Commitments, selfID)

	// z_i = hiding_i + ρ_i · binding_i + λ_i · SigningShare_i · c
	z := nonces.Hiding.
		Add(nonces.Binding.Mul(rho[selfID])).
		Add(lambda.Mul(share.SigningShare).Mul(c))

	return SignatureShare{Identifier: selfID, Z: z}, nil
}
