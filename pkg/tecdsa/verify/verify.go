// Package verify implements the final step of the cait-sith-style TECDSA
// pipeline (spec §4.4): standard ECDSA signature verification over
// secp256k1 against an aggregated (big_R, s) signature.
package verify

import (
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tecdsa/sign"
)

// Verify checks an aggregated signature against the group's public key and
// a message hash, per spec §4.4's "r = x_coord(big_R), checked against
// AffinePoint" rule.
func Verify(sig sign.FullSignature, publicKey secp256k1group.Point, messageHash []byte) bool {
	if sig.S.IsZero() {
		return false
	}
	r := sig.BigR.X()
	if r.IsZero() {
		return false
	}
	m := secp256k1group.HashToScalar(messageHash)
	sInv := sig.S.Invert()
	u1 := m.Mul(sInv)
	u2 := r.Mul(sInv)
	point := secp256k1group.BasePoint().ScalarMult(u1).Add(publicKey.ScalarMult(u2))
	if point.IsInfinity() {
		return false
	}
	return point.X().Equal(r)
}
