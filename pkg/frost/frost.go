// Package frost implements the two-round FROST Ed25519 threshold Schnorr
// signing state machine (spec §4.3): round-1 commit, round-2 sign,
// coordinator aggregation, and standard Ed25519 verification. The algebra
// is generalized once in pkg/vss and pkg/polynomial; this package wires
// those against pkg/ed25519group and adds the domain-separated hashing and
// per-share verification that FROST itself needs, grounded on the
// teacher's protocols/frost/sign/round1.go (hedged nonce derivation) and
// the ROAST/f3rmion reference implementations for round 2 and aggregation.
package frost

import (
	"github.com/keyshard/tss/pkg/ed25519group"
	"github.com/keyshard/tss/pkg/party"
)

// SigningNonces are the two secret scalars sampled in round 1. They MUST be
// used to sign at most once and the caller is responsible for zeroizing
// them after round 2 (spec §3).
type SigningNonces struct {
	Hiding  ed25519group.Scalar
	Binding ed25519group.Scalar
}

// SigningCommitments are the public commitments to a SigningNonces pair,
// broadcast in round 1. Identifier is the VSS x-coordinate (spec §3's
// Identifier), carried alongside the points because round 2 and aggregate
// both need it for Lagrange interpolation and the binding-factor hash.
type SigningCommitments struct {
	Identifier ed25519group.Scalar
	Hiding     ed25519group.Point
	Binding    ed25519group.Point
}

// SigningPackage is the common input to round 2: the message and the
// active signer set's commitments. It must be identical at every signer
// (spec §4.3).
type SigningPackage struct {
	Message     []byte
	Commitments map[party.ID]SigningCommitments
}

// SignatureShare is a single signer's round-2 output.
type SignatureShare struct {
	Identifier party.ID
	Z          ed25519group.Scalar
}

// Signature is the final aggregated 64-byte Ed25519 signature, R || s.
type Signature struct {
	R ed25519group.Point
	S ed25519group.Scalar
}

// Bytes encodes the signature per spec §6: 32-byte compressed R followed
// by the 32-byte little-endian scalar s.
func (sig Signature) Bytes() [64]byte {
	var out [64]byte
	r := sig.R.Bytes()
	s := sig.S.Bytes()
	copy(out[:32], r[:])
	copy(out[32:], s[:])
	return out
}

// sortedActiveSet returns the active signer identifiers in canonical
// (byte-encoding) order, per spec §4.1's "ordered by scalar key" map
// semantics: binding-factor and group-commitment computation must be
// deterministic across signers.
func sortedActiveSet(commitments map[party.ID]SigningCommitments) party.Set {
	ids := make([]party.ID, 0, len(commitments))
	for id := range commitments {
		ids = append(ids, id)
	}
	return party.Sorted(ids)
}
