// Package keygen implements the distributed 2-of-2 secp256k1 keygen module
// of the cait-sith TECDSA pipeline (spec §4.4): 5 pure steps per side,
// producing a KeygenOutput = (private_share, big_X) with neither endpoint
// ever holding the full private key. The structure — commit, reveal,
// verify-and-combine, cross-check — is grounded on the teacher's
// commit/reveal pattern in protocols/frost/sign/round1.go (hedged
// sampling) generalized to a two-value additive split, since the
// teacher's own distributed-keygen rounds were not present in the
// retrieved tree.
package keygen

import (
	"crypto/rand"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"

	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tsserr"
	"github.com/zeebo/blake3"
)

// KeygenOutput is this endpoint's share of a distributed 2-of-2 key, per
// spec §4.4's table: PrivateShare is x_i with x = x_client + x_server, and
// PublicPoint is the group public key big_X = x·G shared by both sides.
type KeygenOutput struct {
	PrivateShare secp256k1group.Scalar
	PublicPoint  secp256k1group.Point
}

// CommitMessage is step 1's broadcast output: a hiding commitment to this
// endpoint's share of the public key.
type CommitMessage struct {
	Commitment [32]byte
}

// OpenMessage is step 2's broadcast output: the opening of the step-1
// commitment.
type OpenMessage struct {
	Share secp256k1group.Point
	Salt  [32]byte
}

// ConfirmMessage is step 4's broadcast output: this endpoint's computed
// group public key, exchanged so both sides can detect disagreement before
// trusting the result.
type ConfirmMessage struct {
	BigX secp256k1group.Point
}

// State carries this endpoint's in-progress keygen material between step
// calls; the caller serializes it verbatim (spec §4.5).
type State struct {
	step           int
	localShare     secp256k1group.Scalar
	localPoint     secp256k1group.Point
	localSalt      [32]byte
	peerCommitment [32]byte
	peerPoint      secp256k1group.Point
	combinedBigX   secp256k1group.Point
}

// stateCBOR mirrors State with every field exported, since cbor's default
// struct codec only sees exported fields.
type stateCBOR struct {
	Step                      int
	LocalShare                secp256k1group.Scalar
	LocalPoint                secp256k1group.Point
	LocalSalt, PeerCommitment [32]byte
	PeerPoint                 secp256k1group.Point
	CombinedBigX              secp256k1group.Point
}

// MarshalCBOR encodes s.
func (s State) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(stateCBOR{
		Step: s.step, LocalShare: s.localShare, LocalPoint: s.localPoint,
		LocalSalt: s.localSalt, PeerCommitment: s.peerCommitment,
		PeerPoint: s.peerPoint, CombinedBigX: s.combinedBigX,
	})
}

// UnmarshalCBOR decodes a State produced by MarshalCBOR.
func (s *State) UnmarshalCBOR(data []byte) error {
	var m stateCBOR
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = State{
		step: m.Step, localShare: m.LocalShare, localPoint: m.LocalPoint,
		localSalt: m.LocalSalt, peerCommitment: m.PeerCommitment,
		peerPoint: m.PeerPoint, combinedBigX: m.CombinedBigX,
	}
	return nil
}

func commitBytes(point secp256k1group.Point, salt [32]byte) [32]byte {
	compressed := point.CompressedBytes()
	h := sha3.New256()
	h.Write(compressed[:])
	h.Write(salt[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

const hedgeContext = "github.com/keyshard/tss tecdsa keygen 2026 derive local share"

// Step1 samples this endpoint's additive share of the private key and
// commits to the corresponding public point. The share is drawn from a
// blake3 keyed hash whose key is derived from 32 bytes of rng output; unlike
// FROST round 1 no secret key material is folded in, so the share is only as
// unpredictable as rng.
func Step1(rng io.Reader) (*State, CommitMessage, error) {
	if rng == nil {
		rng = rand.Reader
	}
	entropy := make([]byte, 32)
	if _, err := io.ReadFull(rng, entropy); err != nil {
		return nil, CommitMessage{}, tsserr.ErrRngFailure
	}
	hashKey := make([]byte, 32)
	blake3.DeriveKey(hedgeContext, entropy, hashKey)
	hasher, err := blake3.NewKeyed(hashKey)
	if err != nil {
		return nil, CommitMessage{}, err
	}
	// Read a wide (48-byte) output from the XOF and reduce it mod the group
	// order rather than rejection-sampling fixed-width chunks: the reduction
	// bias is negligible at this width and the derivation is then a single
	// fixed-size read, not an open-ended loop.
	wide := make([]byte, 48)
	if _, err := io.ReadFull(hasher.Digest(), wide); err != nil {
		return nil, CommitMessage{}, tsserr.ErrRngFailure
	}
	share := secp256k1group.HashToScalarWide(wide)

	var salt [32]byte
	if _, err := io.ReadFull(rng, salt[:]); err != nil {
		return nil, CommitMessage{}, tsserr.ErrRngFailure
	}
	point := share.ScalarBaseMult()

	state := &State{
		step:       1,
		localShare: share,
		localPoint: point,
		localSalt:  salt,
	}
	return state, CommitMessage{Commitment: commitBytes(point, salt)}, nil
}

// Step2 opens this endpoint's step-1 commitment, to be broadcast after
// both sides have exchanged (but not yet opened) their commitments.
func Step2(state *State) (*State, OpenMessage, error) {
	if state.step != 1 {
		return state, OpenMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.step = 2
	return state, OpenMessage{Share: state.localPoint, Salt: state.localSalt}, nil
}

// Step3 stores the peer's step-1 commitment, received out of band between
// Step1 and Step4 (the caller is responsible for ordering, per spec §4.4's
// message-bag contract).
func Step3(state *State, peerCommit CommitMessage) (*State, error) {
	if state.step != 2 {
		return state, tsserr.ErrSessionStateMismatch
	}
	state.peerCommitment = peerCommit.Commitment
	state.step = 3
	return state, nil
}

// Step4 verifies the peer's opening against the commitment stored in Step3,
// combines the two public points into the group public key, and broadcasts
// it for the peer to cross-check.
func Step4(state *State, peerOpen OpenMessage) (*State, ConfirmMessage, error) {
	if state.step != 3 {
		return state, ConfirmMessage{}, tsserr.ErrSessionStateMismatch
	}
	if commitBytes(peerOpen.Share, peerOpen.Salt) != state.peerCommitment {
		return state, ConfirmMessage{}, tsserr.ErrInvalidSignature
	}
	state.peerPoint = peerOpen.Share
	state.combinedBigX = state.localPoint.Add(peerOpen.Share)
	state.step = 4
	return state, ConfirmMessage{BigX: state.combinedBigX}, nil
}

// Step5 cross-checks the peer's confirmation against this endpoint's own
// computed group public key and finalizes the KeygenOutput.
func Step5(state *State, peerConfirm ConfirmMessage) (KeygenOutput, error) {
	if state.step != 4 {
		return KeygenOutput{}, tsserr.ErrSessionStateMismatch
	}
	if !peerConfirm.BigX.Equal(state.combinedBigX) {
		return KeygenOutput{}, tsserr.ErrInvalidSignature
	}
	return KeygenOutput{PrivateShare: state.localShare, PublicPoint: state.combinedBigX}, nil
}
