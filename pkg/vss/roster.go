package vss

import (
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/tsserr"
)

// Roster sequences Extend/Reshare calls to add or remove participants from
// a live committee, a synchronous counterpart to the teacher's
// protocols/lss dealer/DealerRole split (protocols/lss/types.go,
// protocols/lss/dynamic.go). Unlike the teacher's dealer it runs no
// background goroutines and holds no JVSS auxiliary-secret state: spec §5
// requires the core to stay single-threaded per session, so membership
// changes are expressed as plain function calls the caller can schedule
// however it likes.
type Roster[S Scalar[S, P], P Point[P, S]] struct {
	zero, one S
}

// NewRoster builds a Roster for a curve whose additive and multiplicative
// identities are zero and one.
func NewRoster[S Scalar[S, P], P Point[P, S]](zero, one S) *Roster[S, P] {
	return &Roster[S, P]{zero: zero, one: one}
}

// AddParties extends the committee to include addIdentifiers without
// rotating the polynomial or changing the threshold, via Extend.
func (r *Roster[S, P]) AddParties(
	packages map[party.ID]*KeyPackage[S, P],
	addIdentifiers map[party.ID]S,
	pub *PublicKeyPackage[S, P],
) (map[party.ID]*KeyPackage[S, P], *PublicKeyPackage[S, P], error) {
	return Extend[S, P](r.one, packages, addIdentifiers, pub)
}

// RemoveParties drops removeIDs from the committee by resharing onto the
// remaining identifiers at the caller-supplied newMinSigners threshold,
// which Reshare rejects if it exceeds the number of remaining identifiers.
// The polynomial is rotated, invalidating the
// removed parties' shares — this is the only way to actually revoke a
// participant's signing ability, since Extend never changes existing
// shares.
func (r *Roster[S, P]) RemoveParties(
	packages map[party.ID]*KeyPackage[S, P],
	removeIDs []party.ID,
	newMinSigners int,
	sampleScalar func() (S, error),
) (map[party.ID]*KeyPackage[S, P], *PublicKeyPackage[S, P], S, error) {
	remaining := make(map[party.ID]S, len(packages))
	removeSet := make(map[party.ID]bool, len(removeIDs))
	for _, id := range removeIDs {
		removeSet[id] = true
	}
	for id, kp := range packages {
		if removeSet[id] {
			continue
		}
		remaining[id] = kp.Identifier
	}
	if len(remaining) == 0 {
		return nil, nil, r.zero, tsserr.ErrInvalidThreshold
	}
	return Reshare[S, P](r.zero, r.one, packages, remaining, newMinSigners, sampleScalar)
}
