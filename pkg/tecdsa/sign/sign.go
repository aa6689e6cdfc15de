// Package sign implements the online-signing stage of the cait-sith-style
// TECDSA pipeline (spec §4.4): two pure steps per side that turn a fresh
// PresignOutput plus a message hash into a SignatureShare, and an
// aggregation function that combines both shares into a verifiable
// (big_R, s) signature.
package sign

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tecdsa/presign"
	"github.com/keyshard/tss/pkg/tsserr"
)

// SignatureShare is one endpoint's additive contribution to the final
// scalar s.
type SignatureShare struct {
	S secp256k1group.Scalar
}

// FullSignature is a complete, aggregated ECDSA signature over secp256k1.
type FullSignature struct {
	BigR secp256k1group.Point
	S    secp256k1group.Scalar
}

// Bytes returns the 64-byte bit-exact wire encoding from spec §6's secp256k1
// Signature layout: 32-byte big-endian r (the nonce point's x-coordinate,
// reduced mod n) followed by 32-byte big-endian s. Aggregate already
// canonicalizes s to the low-s form, so this encoding is always canonical.
func (f FullSignature) Bytes() [64]byte {
	var out [64]byte
	r := f.BigR.X().Bytes()
	s := f.S.Bytes()
	copy(out[:32], r[:])
	copy(out[32:], s[:])
	return out
}

type revealMessage struct {
	D secp256k1group.Scalar
}

// State carries a sign session's in-progress material between its two
// step calls.
type State struct {
	step    int
	out     *presign.PresignOutput
	localD  secp256k1group.Scalar
	msgHash secp256k1group.Scalar
}

// stateCBOR mirrors State with every field exported.
type stateCBOR struct {
	Step    int
	Out     *presign.PresignOutput
	LocalD  secp256k1group.Scalar
	MsgHash secp256k1group.Scalar
}

// MarshalCBOR encodes s.
func (s State) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(stateCBOR{Step: s.step, Out: s.out, LocalD: s.localD, MsgHash: s.msgHash})
}

// UnmarshalCBOR decodes a State produced by MarshalCBOR.
func (s *State) UnmarshalCBOR(data []byte) error {
	var m stateCBOR
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = State{step: m.Step, out: m.Out, localD: m.LocalD, msgHash: m.MsgHash}
	return nil
}

func step1(out *presign.PresignOutput, messageHash []byte) (*State, revealMessage, error) {
	if err := out.Consume(); err != nil {
		return nil, revealMessage{}, err
	}
	state := &State{
		step:    1,
		out:     out,
		localD:  out.SigmaShare,
		msgHash: secp256k1group.HashToScalar(messageHash),
	}
	return state, revealMessage{D: out.SigmaShare}, nil
}

func step2(state *State, peer revealMessage) (SignatureShare, error) {
	if state.step != 1 {
		return SignatureShare{}, tsserr.ErrSessionStateMismatch
	}
	d := state.localD.Add(peer.D)
	chi := d.Mul(state.out.TripleTwoB()).Add(state.out.MaskedX().Mul(state.out.TripleTwoA())).Add(state.out.TripleTwoC())
	if state.out.IsLeader() {
		chi = chi.Add(d.Mul(state.out.MaskedX()))
	}
	r := state.out.BigR.X()
	s := state.out.KShare.Mul(state.msgHash).Add(r.Mul(chi))
	return SignatureShare{S: s}, nil
}

// Client and Server mirror the two named endpoints from spec §4.4's
// orchestration table; the underlying two-step protocol is symmetric once
// PresignOutput carries the leader designation, so both forward to the
// shared step functions.
type Client struct{}
type Server struct{}

func (Client) Step1(out *presign.PresignOutput, messageHash []byte) (*State, revealMessage, error) {
	return step1(out, messageHash)
}
func (Client) Step2(state *State, peer revealMessage) (SignatureShare, error) {
	return step2(state, peer)
}

func (Server) Step1(out *presign.PresignOutput, messageHash []byte) (*State, revealMessage, error) {
	return step1(out, messageHash)
}
func (Server) Step2(state *State, peer revealMessage) (SignatureShare, error) {
	return step2(state, peer)
}

// Aggregate combines both endpoints' signature shares with the shared
// nonce point into a complete, low-s canonicalized ECDSA signature.
func Aggregate(bigR secp256k1group.Point, shares ...SignatureShare) FullSignature {
	s := secp256k1group.Zero()
	for _, share := range shares {
		s = s.Add(share.S)
	}
	return FullSignature{BigR: bigR, S: s.Low()}
}
