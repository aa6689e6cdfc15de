// Package presign implements the presignature stage of the cait-sith-style
// TECDSA pipeline (spec §4.4): three pure steps per side that consume two
// fresh Beaver triples plus a keygen share to produce a PresignOutput
// binding one nonce point big_R, ready to be turned into a signature the
// instant a message is known.
//
// Construction. Each endpoint samples a nonce share k_i and accumulates
// big_R = Σ k_i·G directly (no triple needed for that part). The first
// triple (T1) is spent on the classic "unmask" trick for distributed
// inversion: reveal g = k - a1, then each side locally forms a share of
// k·b1 as g·b1_i + c1_i; once that product is revealed the parties hold
// k_share_i = b1_i · (k·b1)^-1, an additive share of k^-1, with no further
// reveal needed. The second triple (T2) starts a Beaver multiply of
// k^-1 against this endpoint's keygen share x_i to obtain σ = k^-1·x, but
// that multiply needs k^-1 as an input and k^-1 only becomes known after
// T1's reveal — so σ's own masked value (d = k_share - a2) is computed here
// but its combine is deferred one more round, matching spec §4.5's "online
// signing is completed in a single round once the message is known": Sign's
// first step is exactly that deferred round.
package presign

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tecdsa/keygen"
	"github.com/keyshard/tss/pkg/tecdsa/triples"
	"github.com/keyshard/tss/pkg/tsserr"
)

// PresignOutput is the nonce-dependent material produced by a completed
// presignature session. SigmaShare is this endpoint's pending contribution
// to σ = k^-1·x; it still needs combining with the peer's matching value:
// sign's first step reveals it and sign's second step combines it.
type PresignOutput struct {
	BigR       secp256k1group.Point
	KShare     secp256k1group.Scalar
	SigmaShare secp256k1group.Scalar

	maskedX    secp256k1group.Scalar
	tripleTwoA secp256k1group.Scalar
	tripleTwoB secp256k1group.Scalar
	tripleTwoC secp256k1group.Scalar
	isLeader   bool
	consumed   bool
}

// MaskedX returns the combined, publicly revealed x - b2 value computed
// during presign; sign's second step needs it to finish σ's Beaver
// reconstruction.
func (p *PresignOutput) MaskedX() secp256k1group.Scalar { return p.maskedX }

// TripleTwoA, TripleTwoB, TripleTwoC return this endpoint's retained shares
// of the second triple consumed by presign, needed to finish σ's Beaver
// reconstruction once the peer's masked σ contribution arrives.
func (p *PresignOutput) TripleTwoA() secp256k1group.Scalar { return p.tripleTwoA }
func (p *PresignOutput) TripleTwoB() secp256k1group.Scalar { return p.tripleTwoB }
func (p *PresignOutput) TripleTwoC() secp256k1group.Scalar { return p.tripleTwoC }

// IsLeader reports whether this endpoint contributes the cross term when
// σ's masked value is reconstructed.
func (p *PresignOutput) IsLeader() bool { return p.isLeader }

// Consume marks the presignature as used by a signature; reuse across two
// different messages is a protocol violation the caller must not allow
// (spec §4.4 invariant b).
func (p *PresignOutput) Consume() error {
	if p.consumed {
		return tsserr.ErrPresignExhausted
	}
	p.consumed = true
	return nil
}

// presignOutputCBOR mirrors PresignOutput with every field exported. The
// consumed flag must survive a round trip: losing it would let a spent
// presignature sign a second message after a process restart.
type presignOutputCBOR struct {
	BigR       secp256k1group.Point
	KShare     secp256k1group.Scalar
	SigmaShare secp256k1group.Scalar
	MaskedX    secp256k1group.Scalar
	TripleTwoA secp256k1group.Scalar
	TripleTwoB secp256k1group.Scalar
	TripleTwoC secp256k1group.Scalar
	IsLeader   bool
	Consumed   bool
}

// MarshalCBOR encodes p, preserving the consumed flag.
func (p PresignOutput) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(presignOutputCBOR{
		BigR: p.BigR, KShare: p.KShare, SigmaShare: p.SigmaShare,
		MaskedX: p.maskedX, TripleTwoA: p.tripleTwoA, TripleTwoB: p.tripleTwoB,
		TripleTwoC: p.tripleTwoC, IsLeader: p.isLeader, Consumed: p.consumed,
	})
}

// UnmarshalCBOR decodes a PresignOutput produced by MarshalCBOR.
func (p *PresignOutput) UnmarshalCBOR(data []byte) error {
	var m presignOutputCBOR
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = PresignOutput{
		BigR: m.BigR, KShare: m.KShare, SigmaShare: m.SigmaShare,
		maskedX: m.MaskedX, tripleTwoA: m.TripleTwoA, tripleTwoB: m.TripleTwoB,
		tripleTwoC: m.TripleTwoC, isLeader: m.IsLeader, consumed: m.Consumed,
	}
	return nil
}

type message1 struct {
	G secp256k1group.Scalar
	E secp256k1group.Scalar
	R secp256k1group.Point
}

type message2 struct {
	KB secp256k1group.Scalar
}

// State carries a presign session's in-progress material between step
// calls. Client and Server differ only in isLeader, which presign passes
// through to PresignOutput; it designates which side contributes the cross
// term when σ's Beaver multiply is reconstructed in sign's second step.
type State struct {
	step        int
	isLeader    bool
	keyShare    secp256k1group.Scalar
	tripleOne   *triples.TripleShare
	tripleTwo   *triples.TripleShare
	k           secp256k1group.Scalar
	g           secp256k1group.Scalar
	localR      secp256k1group.Point
	combinedR   secp256k1group.Point
	combinedE   secp256k1group.Scalar
	localKB     secp256k1group.Scalar
}

// stateCBOR mirrors State with every field exported.
type stateCBOR struct {
	Step      int
	IsLeader  bool
	KeyShare  secp256k1group.Scalar
	TripleOne *triples.TripleShare
	TripleTwo *triples.TripleShare
	K         secp256k1group.Scalar
	G         secp256k1group.Scalar
	LocalR    secp256k1group.Point
	CombinedR secp256k1group.Point
	CombinedE secp256k1group.Scalar
	LocalKB   secp256k1group.Scalar
}

// MarshalCBOR encodes s.
func (s State) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(stateCBOR{
		Step: s.step, IsLeader: s.isLeader, KeyShare: s.keyShare,
		TripleOne: s.tripleOne, TripleTwo: s.tripleTwo,
		K: s.k, G: s.g, LocalR: s.localR, CombinedR: s.combinedR,
		CombinedE: s.combinedE, LocalKB: s.localKB,
	})
}

// UnmarshalCBOR decodes a State produced by MarshalCBOR.
func (s *State) UnmarshalCBOR(data []byte) error {
	var m stateCBOR
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = State{
		step: m.Step, isLeader: m.IsLeader, keyShare: m.KeyShare,
		tripleOne: m.TripleOne, tripleTwo: m.TripleTwo,
		k: m.K, g: m.G, localR: m.LocalR, combinedR: m.CombinedR,
		combinedE: m.CombinedE, localKB: m.LocalKB,
	}
	return nil
}

func step1(rng io.Reader, isLeader bool, share keygen.KeygenOutput, tripleOne, tripleTwo *triples.TripleShare) (*State, message1, error) {
	if err := tripleOne.Consume(); err != nil {
		return nil, message1{}, err
	}
	if err := tripleTwo.Consume(); err != nil {
		return nil, message1{}, err
	}
	k, err := secp256k1group.RandomScalar(rng)
	if err != nil {
		return nil, message1{}, err
	}
	state := &State{
		step:      1,
		isLeader:  isLeader,
		keyShare:  share.PrivateShare,
		tripleOne: tripleOne,
		tripleTwo: tripleTwo,
		k:         k,
		g:         k.Sub(tripleOne.AShare),
		localR:    k.ScalarBaseMult(),
	}
	e := share.PrivateShare.Sub(tripleTwo.BShare)
	return state, message1{G: state.g, E: e, R: state.localR}, nil
}

func step2(state *State, peer message1) (*State, message2, error) {
	if state.step != 1 {
		return state, message2{}, tsserr.ErrSessionStateMismatch
	}
	g := state.g.Add(peer.G)
	e := state.keyShare.Sub(state.tripleTwo.BShare).Add(peer.E)
	r := state.localR.Add(peer.R)
	kb := g.Mul(state.tripleOne.BShare).Add(state.tripleOne.CShare)

	state.combinedR = r
	state.combinedE = e
	state.localKB = kb
	state.step = 2
	return state, message2{KB: kb}, nil
}

func step3(state *State, peer message2) (*State, PresignOutput, error) {
	if state.step != 2 {
		return state, PresignOutput{}, tsserr.ErrSessionStateMismatch
	}
	kb := state.localKB.Add(peer.KB)
	kShare := state.tripleOne.BShare.Mul(kb.Invert())
	d := kShare.Sub(state.tripleTwo.AShare)

	state.step = 3
	return state, PresignOutput{
		BigR:       state.combinedR,
		KShare:     kShare,
		SigmaShare: d,
		maskedX:    state.combinedE,
		tripleTwoA: state.tripleTwo.AShare,
		tripleTwoB: state.tripleTwo.BShare,
		tripleTwoC: state.tripleTwo.CShare,
		isLeader:   state.isLeader,
	}, nil
}
