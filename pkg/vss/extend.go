package vss

import (
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/polynomial"
	"github.com/keyshard/tss/pkg/tsserr"
)

// Extend computes the share at each of newIdentifiers for the same
// polynomial implied by packages, via Lagrange interpolation, without ever
// reconstructing the secret or the polynomial's other coefficients. The
// existing shares in packages and pub are left untouched — only pub's
// VerifyingShares map grows. newIdentifiers must be disjoint from the
// identifiers already present in packages, and packages must carry at
// least pub.MinSigners entries (spec §4.2).
func Extend[S Scalar[S, P], P Point[P, S]](
	one S,
	packages map[party.ID]*KeyPackage[S, P],
	newIdentifiers map[party.ID]S,
	pub *PublicKeyPackage[S, P],
) (map[party.ID]*KeyPackage[S, P], *PublicKeyPackage[S, P], error) {
	if len(packages) < pub.MinSigners {
		return nil, nil, tsserr.ErrInvalidThreshold
	}
	existingIDs, existingXs, err := collectDistinct[S, P](identifierMap(packages))
	if err != nil {
		return nil, nil, err
	}
	newIDs, newXs, err := collectDistinct[S, P](newIdentifiers)
	if err != nil {
		return nil, nil, err
	}
	existingSet := make(map[party.ID]bool, len(existingIDs))
	for _, id := range existingIDs {
		existingSet[id] = true
	}
	existingXBytes := make(map[[32]byte]bool, len(existingXs))
	for _, x := range existingXs {
		existingXBytes[x.Bytes()] = true
	}
	for i, id := range newIDs {
		if existingSet[id] {
			return nil, nil, tsserr.ErrInvalidIdentifier
		}
		if existingXBytes[newXs[i].Bytes()] {
			return nil, nil, tsserr.ErrInvalidIdentifier
		}
	}

	shares := make([]S, len(existingXs))
	for i, id := range existingIDs {
		shares[i] = packages[id].SigningShare
	}

	out := make(map[party.ID]*KeyPackage[S, P], len(newIDs))
	newVerifyingShares := make(map[party.ID]P, len(pub.VerifyingShares)+len(newIDs))
	for id, p := range pub.VerifyingShares {
		newVerifyingShares[id] = p
	}
	newIdentifierMap := make(map[party.ID]S, len(pub.Identifiers)+len(newIDs))
	for id, x := range pub.Identifiers {
		newIdentifierMap[id] = x
	}

	for i, id := range newIDs {
		at := newXs[i]
		coeffs := polynomial.Lagrange(one, existingXs, at)
		share := shares[0].Mul(coeffs[0])
		for j := 1; j < len(shares); j++ {
			share = share.Add(shares[j].Mul(coeffs[j]))
		}
		vshare := share.ScalarBaseMult()
		out[id] = &KeyPackage[S, P]{
			Identifier:     at,
			SigningShare:   share,
			VerifyingShare: vshare,
			VerifyingKey:   pub.VerifyingKey,
			MinSigners:     pub.MinSigners,
			Generation:     pub.Generation,
		}
		newVerifyingShares[id] = vshare
		newIdentifierMap[id] = at
	}

	updatedPub := &PublicKeyPackage[S, P]{
		VerifyingShares: newVerifyingShares,
		VerifyingKey:    pub.VerifyingKey,
		Identifiers:     newIdentifierMap,
		MinSigners:      pub.MinSigners,
		Generation:      pub.Generation,
	}
	return out, updatedPub, nil
}

func identifierMap[S Scalar[S, P], P Point[P, S]](packages map[party.ID]*KeyPackage[S, P]) map[party.ID]S {
	out := make(map[party.ID]S, len(packages))
	for id, kp := range packages {
		out[id] = kp.Identifier
	}
	return out
}
