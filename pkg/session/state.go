// Package session provides the caller-facing plumbing around the pure
// step-function protocols in pkg/frost, pkg/vss, and pkg/tecdsa: opaque
// round-state serialization (spec §6's "each returns a serialized opaque
// state object") and endpoint health tracking for retry decisions.
package session

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/keyshard/tss/pkg/party"
)

// Envelope is the opaque state blob a caller stores between step calls, per
// spec §6. Protocol is a short label ("frost.sign", "tecdsa.triples", ...)
// and Step is the step index the wrapped State was produced by, so a
// caller that persists envelopes across a restart can refuse to resume a
// session from the wrong step (spec §7 invariant c).
type Envelope struct {
	Protocol string
	Step     int
	Self     party.ID
	State    []byte
}

// Marshal encodes a round's local state into an Envelope's binary form.
// This mirrors the teacher's pkg/protocol/handler.go, which wraps each
// round's message in a CBOR envelope before it crosses the wire.
func Marshal(protocol string, step int, self party.ID, state any) (Envelope, error) {
	raw, err := cbor.Marshal(state)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Protocol: protocol, Step: step, Self: self, State: raw}, nil
}

// Unmarshal decodes an Envelope's State field into out, which must be a
// pointer to the concrete state type the caller expects at this step.
func Unmarshal(env Envelope, out any) error {
	return cbor.Unmarshal(env.State, out)
}

// EncodeEnvelope serializes the Envelope itself (protocol label, step
// index, and state bytes together) for storage or transport between the
// two endpoints.
func EncodeEnvelope(env Envelope) ([]byte, error) {
	return cbor.Marshal(env)
}

// DecodeEnvelope is the inverse of EncodeEnvelope.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	err := cbor.Unmarshal(data, &env)
	return env, err
}
