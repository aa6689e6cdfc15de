// Package ed25519group implements the Ed25519/Curve25519 scalar and point
// arithmetic needed by the FROST signing state machine and the VSS layer
// built on top of it (spec §4.1). Scalars are little-endian 32-byte canonical
// encodings reduced mod the group order ℓ = 2^252 +
// 27742317777372353535851937790883648493; points are compressed Edwards
// y-coordinates per RFC 8032. Arithmetic is delegated to
// filippo.io/edwards25519, which is constant-time with respect to its scalar
// inputs.
package ed25519group

import (
	"crypto/sha512"

	"filippo.io/edwards25519"
	"github.com/fxamacker/cbor/v2"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/tsserr"
)

// Scalar is a field element of the Ed25519 scalar field.
type Scalar struct{ s *edwards25519.Scalar }

// Point is a point on the Ed25519 curve.
type Point struct{ p *edwards25519.Point }

// Identifier is a non-zero scalar used to address a participant, per
// spec §3. The caller derives it deterministically from a participant slot
// number via IdentifierFromUint32, or accepts one supplied over the wire via
// IdentifierFromBytes; PartyID renders it as a party.ID map key.
type Identifier struct{ Scalar }

// Zero returns the additive identity scalar.
func Zero() Scalar { return Scalar{edwards25519.NewScalar()} }

// ScalarFromUint32 deterministically derives a scalar from a small positive
// integer; used to turn stable participant slots (1, 2, 3, ...) into curve
// identifiers exactly as the reference FROST implementations do.
func ScalarFromUint32(n uint32) Scalar {
	var buf [32]byte
	buf[0] = byte(n)
	buf[1] = byte(n >> 8)
	buf[2] = byte(n >> 16)
	buf[3] = byte(n >> 24)
	s, err := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		panic("ed25519group: uint32 is always canonical")
	}
	return Scalar{s}
}

// IdentifierFromUint32 builds an Identifier for participant slot n. n must
// be non-zero: the zero identifier collides with the secret's own position
// in the Shamir polynomial (spec §4.2).
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

// ScalarFromCanonicalBytes decodes a 32-byte little-endian canonical scalar.
// Non-canonical encodings (including those exceeding ℓ) are rejected.
func ScalarFromCanonicalBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, tsserr.ErrMalformedScalar
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return Scalar{}, tsserr.ErrMalformedScalar
	}
	return Scalar{s}, nil
}

// IdentifierFromBytes decodes a wire-supplied identifier, rejecting the zero
// scalar.
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

// HashToScalar reduces a wide (64-byte) hash output mod ℓ. Used for Ed25519
// challenge and binding-factor computation, both SHA-512 based per RFC 8032.
func HashToScalar(wide []byte) (Scalar, error) {
	if len(wide) != 64 {
		return Scalar{}, tsserr.ErrMalformedScalar
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(wide)
	if err != nil {
		return Scalar{}, tsserr.ErrMalformedScalar
	}
	return Scalar{s}, nil
}

// HashToScalarDomain hashes the concatenation of ctx and parts with SHA-512
// and reduces the digest mod ℓ, giving a domain-separated challenge/binding
// scalar.
func HashToScalarDomain(ctx string, parts ...[]byte) (Scalar, error) {
	h := sha512.New()
	_, _ = h.Write([]byte(ctx))
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	return HashToScalar(h.Sum(nil))
}

// Bytes returns the 32-byte little-endian canonical encoding.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], s.s.Bytes())
	return out
}

// MarshalCBOR encodes s as its 32-byte canonical scalar encoding, so
// protocol state carrying a Scalar round-trips through session.Marshal
// instead of silently dropping it (edwards25519.Scalar has no exported
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
func (s Scalar) IsZero() bool {
	return s.Equal(Zero())
}

// Equal reports whether s and t encode the same value, in constant time.
func (s Scalar) Equal(t Scalar) bool { return s.s.Equal(t.s) == 1 }

// Add returns s + t.
func (s Scalar) Add(t Scalar) Scalar { return Scalar{edwards25519.NewScalar().Add(s.s, t.s)} }

// Sub returns s - t.
func (s Scalar) Sub(t Scalar) Scalar { return Scalar{edwards25519.NewScalar().Subtract(s.s, t.s)} }

// Mul returns s * t.
func (s Scalar) Mul(t Scalar) Scalar { return Scalar{edwards25519.NewScalar().Multiply(s.s, t.s)} }

// Negate returns -s.
func (s Scalar) Negate() Scalar { return Scalar{edwards25519.NewScalar().Negate(s.s)} }

// Invert returns s^-1. Panics if s is zero; callers must check IsZero first.
func (s Scalar) Invert() Scalar { return Scalar{edwards25519.NewScalar().Invert(s.s)} }

// BasePoint returns the Ed25519 generator G.
func BasePoint() Point { return Point{edwards25519.NewGeneratorPoint()} }

// Identity returns the point at infinity.
func Identity() Point { return Point{edwards25519.NewIdentityPoint()} }

// ScalarBaseMult returns s * G.
func (s Scalar) ScalarBaseMult() Point {
	return Point{edwards25519.NewIdentityPoint().ScalarBaseMult(s.s)}
}

// PointFromCanonicalBytes decodes a 32-byte compressed Edwards point.
func PointFromCanonicalBytes(b []byte) (Point, error) {
	if len(b) != 32 {
		return Point{}, tsserr.ErrMalformedElement
	}
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return Point{}, tsserr.ErrMalformedElement
	}
	return Point{p}, nil
}

// Bytes returns the 32-byte compressed encoding (y-coordinate with the sign
// of x folded into bit 255).
func (p Point) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], p.p.Bytes())
	return out
}

// MarshalCBOR encodes p as its 32-byte compressed encoding.
func (p Point) MarshalCBOR() ([]byte, error) {
	b := p.Bytes()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR decodes a compressed point encoding produced by MarshalCBOR.
func (p *Point) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	decoded, err := PointFromCanonicalBytes(b)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{edwards25519.NewIdentityPoint().Add(p.p, q.p)} }

// ScalarMult returns s * p.
func (p Point) ScalarMult(s Scalar) Point {
	return Point{edwards25519.NewIdentityPoint().ScalarMult(s.s, p.p)}
}

// Equal reports whether p and q encode the same point.
func (p Point) Equal(q Point) bool { return p.p.Equal(q.p) == 1 }

// MultiScalarMult returns Σ scalars[i]*points[i]. Panics if the slices have
// differing lengths, matching edwards25519.Point.MultiScalarMult.
func MultiScalarMult(scalars []Scalar, points []Point) Point {
	ss := make([]*edwards25519.Scalar, len(scalars))
	ps := make([]*edwards25519.Point, len(points))
	for i := range scalars {
		ss[i] = scalars[i].s
		ps[i] = points[i].p
	}
	return Point{edwards25519.NewIdentityPoint().MultiScalarMult(ss, ps)}
}
