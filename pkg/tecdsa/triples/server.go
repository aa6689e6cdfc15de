package triples

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tsserr"
)

// ServerState carries the non-dealer endpoint's in-progress triple session
// between step calls.
type ServerState struct {
	step               int
	clientID, serverID party.ID
	localNonce         [32]byte
	peerCommitment     [32]byte
	freshness          [32]byte
	result             TripleShare
}

// serverStateCBOR mirrors ServerState with every field exported, so the
// session envelope can round-trip an in-progress (not just finalized)
// triple-generation session.
type serverStateCBOR struct {
	Step                       int
	ClientID, ServerID         party.ID
	LocalNonce, PeerCommitment [32]byte
	Freshness                  [32]byte
	Result                     TripleShare
}

// MarshalCBOR encodes s.
func (s ServerState) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(serverStateCBOR{
		Step: s.step, ClientID: s.clientID, ServerID: s.serverID,
		LocalNonce: s.localNonce, PeerCommitment: s.peerCommitment,
		Freshness: s.freshness, Result: s.result,
	})
}

// UnmarshalCBOR decodes a ServerState produced by MarshalCBOR.
func (s *ServerState) UnmarshalCBOR(data []byte) error {
	var m serverStateCBOR
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = ServerState{
		step: m.Step, clientID: m.ClientID, serverID: m.ServerID,
		localNonce: m.LocalNonce, peerCommitment: m.PeerCommitment,
		freshness: m.Freshness, result: m.Result,
	}
	return nil
}

// Server runs the non-dealer side of triple generation: it contributes
// freshness, verifies the dealer's distributed shares against their public
// commitments, and otherwise only acknowledges.
type Server struct{}

// Step1 samples this side's freshness nonce and commits to it.
func (Server) Step1(rng io.Reader, clientID, serverID party.ID) (*ServerState, nonceCommitMessage, error) {
	nonce, err := randomNonce(rng)
	if err != nil {
		return nil, nonceCommitMessage{}, err
	}
	state := &ServerState{step: 1, clientID: clientID, serverID: serverID, localNonce: nonce}
	return state, nonceCommitMessage{Commitment: hashCommit(nonce)}, nil
}

// Step2 stores the client's nonce commitment and acknowledges it.
func (Server) Step2(state *ServerState, clientCommit nonceCommitMessage) (*ServerState, ackMessage, error) {
	if state.step != 1 {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.peerCommitment = clientCommit.Commitment
	state.step = 2
	return state, ackMessage{}, nil
}

// Step3 reveals this side's nonce.
func (Server) Step3(state *ServerState, _ ackMessage) (*ServerState, nonceRevealMessage, error) {
	if state.step != 2 {
		return state, nonceRevealMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.step = 3
	return state, nonceRevealMessage{Nonce: state.localNonce}, nil
}

// Step4 verifies the client's revealed nonce and derives the shared
// freshness value, in the same client-nonce-first order the dealer uses.
func (Server) Step4(state *ServerState, clientReveal nonceRevealMessage) (*ServerState, ackMessage, error) {
	if state.step != 3 {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	if hashCommit(clientReveal.Nonce) != state.peerCommitment {
		return state, ackMessage{}, tsserr.ErrInvalidSignature
	}
	state.freshness = freshnessOf(clientReveal.Nonce, state.localNonce)
	state.step = 4
	return state, ackMessage{}, nil
}

// Step5 has nothing of its own to derive; the dealer needs this round trip
// before it samples a, so the server simply acknowledges.
func (Server) Step5(state *ServerState, _ ackMessage) (*ServerState, ackMessage, error) {
	if state.step != 4 {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.step = 5
	return state, ackMessage{}, nil
}

// Step6 receives the dealer's distributed shares and verifies each one
// against its published VSS public-key package before storing this
// endpoint's TripleShare. A share that doesn't match its commitment, or a
// public point inconsistent with the VSS package it came with, yields
// TripleVerificationFailed attributed to the client.
func (Server) Step6(state *ServerState, msg shareMessage) (*ServerState, ackMessage, error) {
	if state.step != 5 {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	if !msg.PubA.VerifyingKey.Equal(msg.A) || !msg.PubB.VerifyingKey.Equal(msg.B) || !msg.PubC.VerifyingKey.Equal(msg.C) {
		return state, ackMessage{}, tsserr.TripleVerificationFailed(state.clientID)
	}
	if !verifyShare(msg.ShareA, msg.PubA.VerifyingShares[state.serverID]) ||
		!verifyShare(msg.ShareB, msg.PubB.VerifyingShares[state.serverID]) ||
		!verifyShare(msg.ShareC, msg.PubC.VerifyingShares[state.serverID]) {
		return state, ackMessage{}, tsserr.TripleVerificationFailed(state.clientID)
	}
	state.result = TripleShare{
		A: msg.A, B: msg.B, C: msg.C,
		AShare: msg.ShareA, BShare: msg.ShareB, CShare: msg.ShareC,
	}
	state.step = 6
	return state, ackMessage{}, nil
}

func verifyShare(share secp256k1group.Scalar, expected secp256k1group.Point) bool {
	return share.ScalarBaseMult().Equal(expected)
}

// Step7 through Step10 close out the session with plain acknowledgments;
// the server already finalized its TripleShare in Step6.
func (Server) Step7(state *ServerState, _ ackMessage) (*ServerState, ackMessage, error) {
	return advanceServer(state, 6, 7)
}

func (Server) Step8(state *ServerState, _ ackMessage) (*ServerState, ackMessage, error) {
	return advanceServer(state, 7, 8)
}

func (Server) Step9(state *ServerState, _ ackMessage) (*ServerState, ackMessage, error) {
	return advanceServer(state, 8, 9)
}

func (Server) Step10(state *ServerState, _ ackMessage) (*ServerState, ackMessage, error) {
	return advanceServer(state, 9, 10)
}

// Step11 returns the finalized TripleShare.
func (Server) Step11(state *ServerState, _ ackMessage) (TripleShare, error) {
	if state.step != 10 {
		return TripleShare{}, tsserr.ErrSessionStateMismatch
	}
	return state.result, nil
}

func advanceServer(state *ServerState, want, next int) (*ServerState, ackMessage, error) {
	if state.step != want {
		return state, ackMessage{}, tsserr.ErrSessionStateMismatch
	}
	state.step = next
	return state, ackMessage{}, nil
}
