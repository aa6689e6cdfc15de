// Package secp256k1group implements the secp256k1 scalar and point
// arithmetic needed by the TECDSA pipeline and the VSS layer used to
// bootstrap it (spec §4.1). Scalars are big-endian 32-byte encodings mod the
// group order n; points are SEC1 compressed (33 bytes) or uncompressed (65
// bytes). Arithmetic is delegated to
// github.com/decred/dcrd/dcrec/secp256k1/v4, whose ModNScalar and
// JacobianPoint types are constant-time with respect to secret inputs.
package secp256k1group

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/fxamacker/cbor/v2"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/tsserr"
)

// curveOrder is the secp256k1 group order n (SEC2 §2.4.1), used to reduce
// hash output wider than or equal to the field into a canonical scalar.
var curveOrder = func() *big.Int {
	b, err := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	if err != nil {
		panic(err)
	}
	return new(big.Int).SetBytes(b)
}()

// Scalar is an element of the secp256k1 scalar field (mod n).
type Scalar struct{ s secp256k1.ModNScalar }

// Point is an affine point on the secp256k1 curve.
type Point struct{ p secp256k1.JacobianPoint }

// Identifier is a non-zero scalar used to address a participant.
type Identifier struct{ Scalar }

// Zero returns the additive identity scalar.
func Zero() Scalar { return Scalar{} }

// ScalarFromUint32 deterministically derives a scalar from a small positive
// integer, used for stable participant slots.
func ScalarFromUint32(n uint32) Scalar {
	var s secp256k1.ModNScalar
	s.SetInt(n)
	return Scalar{s}
}

// IdentifierFromUint32 builds an Identifier for participant slot n. n must
// be non-zero.
func IdentifierFromUint32(n uint32) (Identifier, error) {
	if n == 0 {
		return Identifier{}, tsserr.ErrInvalidIdentifier
	}
	return Identifier{ScalarFromUint32(n)}, nil
}

// PartyID renders the identifier as an opaque routing label.
func (id Identifier) PartyID() party.ID {
	b := id.Bytes()
	return party.ID(b[:])
}

// ScalarFromCanonicalBytes decodes a 32-byte big-endian scalar. Values equal
// to or exceeding the group order n are rejected as non-canonical.
func ScalarFromCanonicalBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, tsserr.ErrMalformedScalar
	}
	var s secp256k1.ModNScalar
	overflow := s.SetByteSlice(b)
	if overflow {
		return Scalar{}, tsserr.ErrMalformedScalar
	}
	return Scalar{s}, nil
}

// IdentifierFromBytes decodes a wire-supplied identifier, rejecting zero.
func IdentifierFromBytes(b []byte) (Identifier, error) {
	s, err := ScalarFromCanonicalBytes(b)
	if err != nil {
		return Identifier{}, err
	}
	if s.IsZero() {
		return Identifier{}, tsserr.ErrInvalidIdentifier
	}
	return Identifier{s}, nil
}

// HashToScalar implements the scalar_hash(bytes) helper from spec §4.1:
// SHA-256 the message, then reduce the digest mod n. The algorithm is
// bit-exact per spec (SHA-256, not a wider or different hash); only the
// wide-reduction helper below is free to pick its own construction.
func HashToScalar(msg []byte) Scalar {
	digest := sha256.Sum256(msg)
	return HashToScalarWide(digest[:])
}

// HashToScalarWide reduces hash output that may be wider than the field
// (e.g. an extendable-output stream read for hedged nonce derivation) into
// a canonical scalar, following the teacher's big.Int-reduce-then-wrap-in-
// saferith.Nat pattern (protocols/lss/sign/sign.go) for building a scalar
// out of a wide hash.
func HashToScalarWide(wide []byte) Scalar {
	x := new(big.Int).SetBytes(wide)
	x.Mod(x, curveOrder)
	nat := new(saferith.Nat).SetBytes(x.Bytes())
	reduced := nat.Bytes()
	var buf [32]byte
	copy(buf[32-len(reduced):], reduced)
	var s secp256k1.ModNScalar
	s.SetByteSlice(buf[:])
	return Scalar{s}
}

// Bytes returns the 32-byte big-endian encoding.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	s.s.PutBytes(&out)
	return out
}

// MarshalCBOR encodes s as its 32-byte big-endian canonical encoding, so
// protocol state carrying a Scalar round-trips through session.Marshal
// instead of silently dropping it (secp256k1.ModNScalar has no exported
// fields for cbor's default struct reflection to find).
func (s Scalar) MarshalCBOR() ([]byte, error) {
	b := s.Bytes()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR decodes a canonical scalar encoding produced by MarshalCBOR.
func (s *Scalar) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	decoded, err := ScalarFromCanonicalBytes(b)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool { return s.s.IsZero() }

// Equal reports whether s and t encode the same value.
func (s Scalar) Equal(t Scalar) bool { return s.s.Equals(&t.s) }

// Add returns s + t.
func (s Scalar) Add(t Scalar) Scalar {
	var r secp256k1.ModNScalar
	r.Set(&s.s).Add(&t.s)
	return Scalar{r}
}

// Sub returns s - t.
func (s Scalar) Sub(t Scalar) Scalar {
	neg := t.Negate()
	return s.Add(neg)
}

// Mul returns s * t.
func (s Scalar) Mul(t Scalar) Scalar {
	var r secp256k1.ModNScalar
	r.Set(&s.s).Mul(&t.s)
	return Scalar{r}
}

// Negate returns -s.
func (s Scalar) Negate() Scalar {
	var r secp256k1.ModNScalar
	r.Set(&s.s).Negate()
	return Scalar{r}
}

// Invert returns s^-1. Panics if s is zero; callers must check IsZero first.
func (s Scalar) Invert() Scalar {
	var r secp256k1.ModNScalar
	r.Set(&s.s).InverseNonConst()
	return Scalar{r}
}

// IsOverHalfOrder reports whether s > n/2, used for ECDSA low-s
// canonicalization.
func (s Scalar) IsOverHalfOrder() bool { return s.s.IsOverHalfOrder() }

// Low returns n - s if s is over the half order, else s unchanged.
func (s Scalar) Low() Scalar {
	if !s.IsOverHalfOrder() {
		return s
	}
	return s.Negate()
}

// Standard secp256k1 generator coordinates (SEC2 §2.4.1).
var (
	generatorX = mustFieldVal("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	generatorY = mustFieldVal("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")
)

func mustFieldVal(hexStr string) secp256k1.FieldVal {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		panic(err)
	}
	var f secp256k1.FieldVal
	f.SetByteSlice(b)
	return f
}

// BasePoint returns the secp256k1 generator G.
func BasePoint() Point {
	var p secp256k1.JacobianPoint
	p.X, p.Y = generatorX, generatorY
	p.Z.SetInt(1)
	return Point{p}
}

// RandomScalar draws a uniformly random non-zero scalar from rng.
func RandomScalar(rng io.Reader) (Scalar, error) {
	for {
		var buf [32]byte
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return Scalar{}, tsserr.ErrRngFailure
		}
		var s secp256k1.ModNScalar
		overflow := s.SetByteSlice(buf[:])
		if overflow || s.IsZero() {
			continue
		}
		return Scalar{s}, nil
	}
}

// ScalarBaseMult returns s * G.
func (s Scalar) ScalarBaseMult() Point {
	var p secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&s.s, &p)
	p.ToAffine()
	return Point{p}
}

// Identity returns the point at infinity.
func Identity() Point {
	var p secp256k1.JacobianPoint
	return Point{p}
}

// MarshalCBOR encodes p as its 33-byte SEC1 compressed encoding.
func (p Point) MarshalCBOR() ([]byte, error) {
	b := p.CompressedBytes()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR decodes a compressed point encoding produced by MarshalCBOR.
func (p *Point) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	decoded, err := PointFromCompressed(b)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	var r secp256k1.JacobianPoint
	a, b := p.p, q.p
	secp256k1.AddNonConst(&a, &b, &r)
	r.ToAffine()
	return Point{r}
}

// ScalarMult returns s * p.
func (p Point) ScalarMult(s Scalar) Point {
	var r secp256k1.JacobianPoint
	a := p.p
	secp256k1.ScalarMultNonConst(&s.s, &a, &r)
	r.ToAffine()
	return Point{r}
}

// Equal reports whether p and q encode the same affine point.
func (p Point) Equal(q Point) bool {
	a, b := p.p, q.p
	a.ToAffine()
	b.ToAffine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	a := p.p
	a.ToAffine()
	return a.X.IsZero() && a.Y.IsZero()
}

// X returns the affine x-coordinate as a scalar reduced mod n, used to
// derive the ECDSA signature component r from the nonce point.
func (p Point) X() Scalar {
	a := p.p
	a.ToAffine()
	xBytes := a.X.Bytes()
	var s secp256k1.ModNScalar
	s.SetByteSlice(xBytes[:])
	return Scalar{s}
}

// PointFromCompressed decodes a 33-byte SEC1 compressed point.
func PointFromCompressed(b []byte) (Point, error) {
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return Point{}, tsserr.ErrMalformedElement
	}
	var jp secp256k1.JacobianPoint
	pk.AsJacobian(&jp)
	return Point{jp}, nil
}

// CompressedBytes returns the 33-byte SEC1 compressed encoding.
func (p Point) CompressedBytes() [33]byte {
	a := p.p
	a.ToAffine()
	pk := secp256k1.NewPublicKey(&a.X, &a.Y)
	var out [33]byte
	copy(out[:], pk.SerializeCompressed())
	return out
}
