// Package triples implements the Beaver-triple generation module of the
// cait-sith TECDSA pipeline (spec §4.4): 11 pure steps per side producing
// a pair of additive shares (a_i, b_i, c_i) such that
// (a_client+a_server)*(b_client+b_server) = c_client+c_server, plus public
// commitment points A, B, C.
//
// Declared simplification: a faithful cait-sith triple generation needs an
// oblivious-transfer or Paillier-based multiplicative-to-additive share
// conversion so that neither endpoint ever learns the other's a, b. No such
// primitive is available from the teacher or the rest of the retrieved
// pack, so this implementation designates the client as a trusted dealer:
// the client samples a and b privately (hedged the same way FROST round 1
// hedges its nonces, keyed off this endpoint's own keygen share so the
// derivation is not predictable even with a weak RNG), computes c = a*b,
// and distributes shares of all three via the VSS layer at min_signers=2.
// A 2-of-2 Shamir share reveals nothing about its secret on its own, so
// the wire messages stay confidential even over an untrusted transport,
// but the server has no way to catch a dealer that multiplies dishonestly
// — TripleVerificationFailed here only catches a corrupted or malformed
// share in transit, not dealer misbehavior. This mirrors the trust
// assumption spec §4.4 already accepts for centralized keygen, and is
// recorded as an open-question resolution in DESIGN.md.
package triples

import (
	"crypto/rand"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tsserr"
	"github.com/keyshard/tss/pkg/vss"
	"github.com/zeebo/blake3"
)

// TripleShare is one endpoint's share of a Beaver triple, plus the public
// commitment points shared by both endpoints.
type TripleShare struct {
	A, B, C                secp256k1group.Point
	AShare, BShare, CShare secp256k1group.Scalar
	consumed               bool
}

// Consume marks the triple as used by a presignature; a triple used twice
// is a protocol violation the caller must not allow (spec §4.4 invariant a).
func (t *TripleShare) Consume() error {
	if t.consumed {
		return tsserr.ErrTripleExhausted
	}
	t.consumed = true
	return nil
}

// tripleShareCBOR mirrors TripleShare with every field exported, since
// cbor's default struct codec only sees exported fields and consumed must
// survive a round trip: losing it would let a spent triple be replayed
// after a process restart.
type tripleShareCBOR struct {
	A, B, C                secp256k1group.Point
	AShare, BShare, CShare secp256k1group.Scalar
	Consumed               bool
}

// MarshalCBOR encodes t, preserving the consumed flag.
func (t TripleShare) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(tripleShareCBOR{
		A: t.A, B: t.B, C: t.C,
		AShare: t.AShare, BShare: t.BShare, CShare: t.CShare,
		Consumed: t.consumed,
	})
}

// UnmarshalCBOR decodes a TripleShare produced by MarshalCBOR.
func (t *TripleShare) UnmarshalCBOR(data []byte) error {
	var m tripleShareCBOR
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = TripleShare{
		A: m.A, B: m.B, C: m.C,
		AShare: m.AShare, BShare: m.BShare, CShare: m.CShare,
		consumed: m.Consumed,
	}
	return nil
}

type nonceCommitMessage struct{ Commitment [32]byte }
type nonceRevealMessage struct{ Nonce [32]byte }
type ackMessage struct{}

type shareMessage struct {
	A, B, C                secp256k1group.Point
	PubA, PubB, PubC       *vss.PublicKeyPackage[secp256k1group.Scalar, secp256k1group.Point]
	ShareA, ShareB, ShareC secp256k1group.Scalar
}

func hashCommit(nonce [32]byte) [32]byte {
	var out [32]byte
	copy(out[:], hashSum(nonce[:]))
	return out
}

func hashSum(parts ...[]byte) []byte {
	h := sha3.New256()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

const hedgeContext = "github.com/keyshard/tss tecdsa triples 2026 derive dealer secret"

func hedgedScalar(dealerKeyMaterial secp256k1group.Scalar, freshness [32]byte, label string) (secp256k1group.Scalar, error) {
	material := dealerKeyMaterial.Bytes()
	hashKey := make([]byte, 32)
	blake3.DeriveKey(hedgeContext, material[:], hashKey)
	hasher, err := blake3.NewKeyed(hashKey)
	if err != nil {
		return secp256k1group.Zero(), err
	}
	if _, err := hasher.Write(freshness[:]); err != nil {
		return secp256k1group.Zero(), err
	}
	if _, err := hasher.Write([]byte(label)); err != nil {
		return secp256k1group.Zero(), err
	}
	wide := make([]byte, 48)
	if _, err := io.ReadFull(hasher.Digest(), wide); err != nil {
		return secp256k1group.Zero(), tsserr.ErrRngFailure
	}
	return secp256k1group.HashToScalarWide(wide), nil
}

func randomNonce(rng io.Reader) ([32]byte, error) {
	var out [32]byte
	if rng == nil {
		rng = rand.Reader
	}
	if _, err := io.ReadFull(rng, out[:]); err != nil {
		return out, tsserr.ErrRngFailure
	}
	return out, nil
}
