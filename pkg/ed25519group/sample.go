package ed25519group

import (
	"io"

	"github.com/keyshard/tss/pkg/tsserr"
)

// RandomScalar draws a uniformly random scalar from rng. It reads 64 bytes
// and performs a wide reduction mod ℓ (SetUniformBytes), avoiding the bias a
// naive 32-byte-then-reduce approach would introduce.
func RandomScalar(rng io.Reader) (Scalar, error) {
	var wide [64]byte
	if _, err := io.ReadFull(rng, wide[:]); err != nil {
		return Scalar{}, tsserr.ErrRngFailure
	}
	return HashToScalar(wide[:])
}
