// Package tsserr defines the error taxonomy shared by every layer of the
// threshold signing core. Errors are never retried internally; they are
// always surfaced to the caller, who decides whether to restart a session.
package tsserr

import (
	"errors"
	"fmt"

	"github.com/keyshard/tss/pkg/party"
)

// Sentinel kinds. Wrap with fmt.Errorf("%w: ...") to add context; compare
// with errors.Is against these values.
var (
	// ErrMalformedScalar means the input bytes are not a canonical
	// encoding of a scalar in the curve's field.
	ErrMalformedScalar = errors.New("tss: malformed scalar")
	// ErrMalformedElement means the input bytes are not a canonical
	// encoding of a curve point.
	ErrMalformedElement = errors.New("tss: malformed group element")
	// ErrInvalidIdentifier means an identifier is zero, non-canonical, or
	// duplicated within a session.
	ErrInvalidIdentifier = errors.New("tss: invalid identifier")
	// ErrInvalidThreshold means min_signers is out of range for the
	// supplied identifier set.
	ErrInvalidThreshold = errors.New("tss: invalid threshold")
	// ErrUnknownIdentifier means a message referenced an identifier
	// outside the expected active set.
	ErrUnknownIdentifier = errors.New("tss: unknown identifier")
	// ErrMissingCommitment means a round-1 commitment is absent from the
	// signing package.
	ErrMissingCommitment = errors.New("tss: missing commitment")
	// ErrMissingShare means an expected round input from a peer is
	// absent.
	ErrMissingShare = errors.New("tss: missing share")
	// ErrInvalidSignature means the aggregate signature failed final
	// verification under the group verifying key. Fatal: indicates
	// internal inconsistency.
	ErrInvalidSignature = errors.New("tss: invalid signature")
	// ErrSessionStateMismatch means a step was invoked with state from
	// the wrong step index or the wrong role.
	ErrSessionStateMismatch = errors.New("tss: session state mismatch")
	// ErrRngFailure means the CSPRNG was exhausted or unavailable.
	ErrRngFailure = errors.New("tss: rng failure")
	// ErrNonceReused means a SigningNonces value was presented to round 2
	// more than once; the session must restart from round 1.
	ErrNonceReused = errors.New("tss: signing nonce reused")
	// ErrTripleExhausted means a TripleShare was already consumed by a
	// prior presignature.
	ErrTripleExhausted = errors.New("tss: triple already consumed")
	// ErrPresignExhausted means a PresignOutput was already consumed by a
	// prior signature.
	ErrPresignExhausted = errors.New("tss: presignature already consumed")
)

// CulpritError attributes a failure to a specific identifier, matching
// spec §7's InvalidSignatureShare(identifier) requirement.
type CulpritError struct {
	Kind    error
	Culprit party.ID
}

func (e *CulpritError) Error() string {
	return fmt.Sprintf("%v: culprit %s", e.Kind, e.Culprit)
}

func (e *CulpritError) Unwrap() error { return e.Kind }

// ErrInvalidSignatureShareKind is the sentinel wrapped by every
// InvalidSignatureShare culprit error; use errors.Is to detect the kind
// without caring which identifier is responsible.
var ErrInvalidSignatureShareKind = errors.New("tss: invalid signature share")

// InvalidSignatureShare reports that identifier id produced a round-2 share
// that failed its exponent check during aggregation.
func InvalidSignatureShare(id party.ID) error {
	return &CulpritError{Kind: ErrInvalidSignatureShareKind, Culprit: id}
}

// ErrTripleVerificationKind is the sentinel wrapped by every
// TripleVerificationFailed culprit error.
var ErrTripleVerificationKind = errors.New("tss: triple verification failed")

// TripleVerificationFailed reports that identifier id's contribution to a
// Beaver triple did not match its published commitment.
func TripleVerificationFailed(id party.ID) error {
	return &CulpritError{Kind: ErrTripleVerificationKind, Culprit: id}
}
