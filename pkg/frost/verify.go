package frost

import "github.com/keyshard/tss/pkg/ed25519group"

// Verify checks a standard Ed25519 signature against a 32-byte
// VerifyingKey encoding (spec §4.3 Verify): z·G ?= R + c·Y.
func Verify(message []byte, sig Signature, verifyingKey ed25519group.Point) bool {
	c, err := challenge(sig.R, verifyingKey, message)
	if err != nil {
		return false
	}
	lhs := sig.S.ScalarBaseMult()
	rhs := sig.R.Add(verifyingKey.ScalarMult(c))
	return lhs.Equal(rhs)
}
