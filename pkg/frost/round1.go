package frost

import (
	"crypto/rand"
	"io"

	"github.com/keyshard/tss/pkg/ed25519group"
	"github.com/keyshard/tss/pkg/tsserr"
	"github.com/keyshard/tss/pkg/vss"
	"github.com/zeebo/blake3"
)

const deriveHashKeyContext = "github.com/keyshard/tss frost 2026 derive nonce hash key"

// Commit runs FROST round 1 (spec §4.3): sample a hiding and a binding
// nonce, and the corresponding commitments. Nonces are derived by hedging
// the signing share against fresh randomness through a keyed blake3 hash,
// the same construction as the teacher's protocols/frost/sign/round1.go —
// a constant or compromised rng still yields unpredictable nonces because
// the signing share and session context are folded in, and a broken hash
// still benefits from the randomness.
func Commit(
	rng io.Reader,
	share *vss.KeyPackage[ed25519group.Scalar, ed25519group.Point],
	sessionContext []byte,
) (SigningNonces, SigningCommitments, error) {
	if rng == nil {
		rng = rand.Reader
	}
	shareBytes := share.SigningShare.Bytes()

	hashKey := make([]byte, 32)
	blake3.DeriveKey(deriveHashKeyContext, shareBytes[:], hashKey)
	nonceHasher, err := blake3.NewKeyed(hashKey)
	if err != nil {
		return SigningNonces{}, SigningCommitments{}, err
	}
	if _, err := nonceHasher.Write(sessionContext); err != nil {
		return SigningNonces{}, SigningCommitments{}, err
	}
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rng, salt); err != nil {
		return SigningNonces{}, SigningCommitments{}, tsserr.ErrRngFailure
	}
	if _, err := nonceHasher.Write(salt); err != nil {
		return SigningNonces{}, SigningCommitments{}, err
	}

	// Digest() is an extendable-output reader: two sequential reads yield
	// independent uniform material for the hiding and binding nonces,
	// matching the teacher's round1.go usage of sample.ScalarUnit twice
	// against the same digest.
	xof := nonceHasher.Digest()
	hidingWide := make([]byte, 64)
	if _, err := io.ReadFull(xof, hidingWide); err != nil {
		return SigningNonces{}, SigningCommitments{}, err
	}
	hiding, err := ed25519group.HashToScalar(hidingWide)
	if err != nil {
		return SigningNonces{}, SigningCommitments{}, err
	}

	bindingWide := make([]byte, 64)
	if _, err := io.ReadFull(xof, bindingWide); err != nil {
		return SigningNonces{}, SigningCommitments{}, err
	}
	binding, err := ed25519group.HashToScalar(bindingWide)
	if err != nil {
		return SigningNonces{}, SigningCommitments{}, err
	}

	nonces := SigningNonces{Hiding: hiding, Binding: binding}
	commitments := SigningCommitments{
		Identifier: share.Identifier,
		Hiding:     hiding.ScalarBaseMult(),
		Binding:    binding.ScalarBaseMult(),
	}
	return nonces, commitments, nil
}
