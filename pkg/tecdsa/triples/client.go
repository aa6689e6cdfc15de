package triples

import (
	"crypto/rand"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tsserr"
	"github.com/keyshard/tss/pkg/vss"
)

// ClientState carries the dealer endpoint's in-progress triple material
// between step calls.
type ClientState struct {
	step               int
	clientID, serverID party.ID
	dealerKeyMaterial  secp256k1group.Scalar
	localNonce         [32]byte
	peerCommitment     [32]byte
	freshness          [32]byte
	a, b               secp256k1group.Scalar
	ownPackage         struct {
		a, b, c *vss.KeyPackage[secp256k1group.Scalar, secp256k1group.Point]
	}
	points struct{ a, b, c secp256k1group.Point }
	result TripleShare
}

// clientStateCBOR mirrors ClientState with every field exported and the two
// anonymous nested structs flattened, since cbor's default struct codec
// cannot see unexported fields or unexported anonymous struct types.
type clientStateCBOR struct {
	Step                       int
	ClientID, ServerID         party.ID
	DealerKeyMaterial          secp256k1group.Scalar
	LocalNonce, PeerCommitment [32]byte
	Freshness                  [32]byte
	A, B                       secp256k1group.Scalar
	OwnPackageA, OwnPackageB, OwnPackageC *vss.KeyPackage[secp256k1group.Scalar, secp256k1group.Point]
	PointA, PointB, PointC                secp256k1group.Point
	Result                                TripleShare
}

// MarshalCBOR encodes s.
func (s ClientState) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(clientStateCBOR{
		Step: s.step, ClientID: s.clientID, ServerID: s.serverID,
		DealerKeyMaterial: s.dealerKeyMaterial,
		LocalNonce:        s.localNonce, PeerCommitment: s.peerCommitment,
		Freshness:   s.freshness,
		A:           s.a,
		B:           s.b,
		OwnPackageA: s.ownPackage.a, OwnPackageB: s.ownPackage.b, OwnPackageC: s.ownPackage.c,
		PointA: s.points.a, PointB: s.points.b, PointC: s.points.c,
		Result: s.result,
	})
}

// UnmarshalCBOR decodes a ClientState produced by MarshalCBOR.
func (s *ClientState) UnmarshalCBOR(data []byte) error {
	var m clientStateCBOR
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = ClientState{
		step: m.Step, clientID: m.ClientID, serverID: m.ServerID,
		dealerKeyMaterial: m.DealerKeyMaterial,
		localNonce:        m.LocalNonce, peerCommitment: m.PeerCommitment,
		freshness: m.Freshness,
		a:         m.A,
		b:         m.B,
		result:    m.Result,
	}
	s.ownPackage.a, s.ownPackage.b, s.ownPackage.c = m.OwnPackageA, m.OwnPackageB, m.OwnPackageC
	s.points.a, s.points.b, s.points.c = m.PointA, m.PointB, m.PointC
	return nil
}

// Client runs the dealer side of triple generation.
type Client struct{}

// Step1 samples this side's freshness nonce and commits to it.
func (Client) Step1(rng io.Reader, clientID, serverID party.ID, dealerKeyMaterial secp256k1group.Scalar) (*ClientState, nonceCommitMessage, error) {
	nonce, err := randomNonce(rng)
	if err != nil {
		return nil, nonceCommitMessage{}, err
	}
	state := &ClientState{
		step:              1,
		clientID:          clientID,
		serverID:          serverID,
		dealerKeyMaterial: dealerKeyMaterial,
		localNonce:        nonce,
	}
	return state, nonceCommitMessage{Commitment: hashCommit(nonce)}, nil
}

// Step2 stores the server's nonce commitment and acknowledges it.
func (Client) Step2(state *ClientState, serverCommit nonceCommitMessage) (*ClientState, ackMessage, error) {
	if state.step != 1 {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.peerCommitment = serverCommit.Commitment
	state.step = 2
	return state, ackMessage{}, nil
}

// Step3 reveals this side's nonce, once both commitments are locked in.
func (Client) Step3(state *ClientState, _ ackMessage) (*ClientState, nonceRevealMessage, error) {
	if state.step != 2 {
		return state, nonceRevealMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.step = 3
	return state, nonceRevealMessage{Nonce: state.localNonce}, nil
}

// Step4 verifies the server's revealed nonce and derives the session
// freshness value used to hedge the dealer's secret derivation.
func (Client) Step4(state *ClientState, serverReveal nonceRevealMessage) (*ClientState, ackMessage, error) {
	if state.step != 3 {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	if hashCommit(serverReveal.Nonce) != state.peerCommitment {
		return state, ackMessage{}, tsserr.ErrInvalidSignature
	}
	state.freshness = freshnessOf(state.localNonce, serverReveal.Nonce)
	state.step = 4
	return state, ackMessage{}, nil
}

// Step5 derives the dealer's private a, hedged against freshness and this
// endpoint's own key material.
func (Client) Step5(state *ClientState, _ ackMessage) (*ClientState, ackMessage, error) {
	if state.step != 4 {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	a, err := hedgedScalar(state.dealerKeyMaterial, state.freshness, "a")
	if err != nil {
		return state, ackMessage{}, err
	}
	state.a = a
	state.step = 5
	return state, ackMessage{}, nil
}

// Step6 derives b, computes c = a*b, splits all three across both
// identifiers via the VSS layer, and emits the server's shares.
func (Client) Step6(state *ClientState, _ ackMessage) (*ClientState, shareMessage, error) {
	if state.step != 5 {
		return state, shareMessage{}, tsserr.ErrSessionStateMismatch
	}
	b, err := hedgedScalar(state.dealerKeyMaterial, state.freshness, "b")
	if err != nil {
		return state, shareMessage{}, err
	}
	state.b = b
	c := state.a.Mul(b)

	sampleScalar := func() (secp256k1group.Scalar, error) { return secp256k1group.RandomScalar(rand.Reader) }
	identifiers := map[party.ID]secp256k1group.Scalar{
		state.clientID: secp256k1group.HashToScalar([]byte("triple-client")),
		state.serverID: secp256k1group.HashToScalar([]byte("triple-server")),
	}

	packagesA, pubA, err := vss.Split[secp256k1group.Scalar, secp256k1group.Point](state.a, identifiers, 2, sampleScalar)
	if err != nil {
		return state, shareMessage{}, err
	}
	packagesB, pubB, err := vss.Split[secp256k1group.Scalar, secp256k1group.Point](b, identifiers, 2, sampleScalar)
	if err != nil {
		return state, shareMessage{}, err
	}
	packagesC, pubC, err := vss.Split[secp256k1group.Scalar, secp256k1group.Point](c, identifiers, 2, sampleScalar)
	if err != nil {
		return state, shareMessage{}, err
	}

	// Weight each 2-of-2 Shamir share by its Lagrange coefficient at zero so the
	// two shares are additive; the verifying shares are rescaled to match.
	xc, xs := identifiers[state.clientID], identifiers[state.serverID]
	weights := map[party.ID]secp256k1group.Scalar{
		state.clientID: xs.Mul(xs.Sub(xc).Invert()),
		state.serverID: xc.Mul(xc.Sub(xs).Invert()),
	}
	for id, w := range weights {
		for _, set := range []map[party.ID]*vss.KeyPackage[secp256k1group.Scalar, secp256k1group.Point]{packagesA, packagesB, packagesC} {
			set[id].SigningShare = set[id].SigningShare.Mul(w)
			set[id].VerifyingShare = set[id].SigningShare.ScalarBaseMult()
		}
		pubA.VerifyingShares[id] = packagesA[id].VerifyingShare
		pubB.VerifyingShares[id] = packagesB[id].VerifyingShare
		pubC.VerifyingShares[id] = packagesC[id].VerifyingShare
	}

	state.ownPackage.a = packagesA[state.clientID]
	state.ownPackage.b = packagesB[state.clientID]
	state.ownPackage.c = packagesC[state.clientID]
	state.points.a = pubA.VerifyingKey
	state.points.b = pubB.VerifyingKey
	state.points.c = pubC.VerifyingKey
	state.step = 6

	msg := shareMessage{
		A: pubA.VerifyingKey, B: pubB.VerifyingKey, C: pubC.VerifyingKey,
		PubA: pubA, PubB: pubB, PubC: pubC,
		ShareA: packagesA[state.serverID].SigningShare,
		ShareB: packagesB[state.serverID].SigningShare,
		ShareC: packagesC[state.serverID].SigningShare,
	}
	return state, msg, nil
}

// Step7 finalizes this endpoint's TripleShare once the server has
// acknowledged receipt, and zeroizes the ephemeral a, b scalars held only
// by the dealer.
func (Client) Step7(state *ClientState, _ ackMessage) (*ClientState, ackMessage, error) {
	if state.step != 6 {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.result = TripleShare{
		A: state.points.a, B: state.points.b, C: state.points.c,
		AShare: state.ownPackage.a.SigningShare,
		BShare: state.ownPackage.b.SigningShare,
		CShare: state.ownPackage.c.SigningShare,
	}
	state.a = secp256k1group.Zero()
	state.b = secp256k1group.Zero()
	state.step = 7
	return state, ackMessage{}, nil
}

// Step8 through Step10 exchange closing confirmations so both endpoints
// observe the session terminate cleanly before the triple is handed to
// presign; they carry no cryptographic material of their own.
func (Client) Step8(state *ClientState, _ ackMessage) (*ClientState, ackMessage, error) {
	return advanceClient(state, 7, 8)
}

func (Client) Step9(state *ClientState, _ ackMessage) (*ClientState, ackMessage, error) {
	return advanceClient(state, 8, 9)
}

func (Client) Step10(state *ClientState, _ ackMessage) (*ClientState, ackMessage, error) {
	return advanceClient(state, 9, 10)
}

// Step11 returns the finalized TripleShare.
func (Client) Step11(state *ClientState, _ ackMessage) (TripleShare, error) {
	if state.step != 10 {
		return TripleShare{}, tsserr.ErrSessionStateMismatch
	}
	return state.result, nil
}

func advanceClient(state *ClientState, want, next int) (*ClientState, ackMessage, error) {
	if state.step != want {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.step = next
	return state, ackMessage{}, nil
}

func freshnessOf(clientNonce, serverNonce [32]byte) [32]byte {
	var out [32]byte
	copy(out[:], hashSum(clientNonce[:], serverNonce[:]))
	return out
}
