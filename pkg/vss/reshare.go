package vss

import (
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/tsserr"
)

// Reshare reconstructs the secret from packages, then re-splits it under a
// fresh random polynomial for newIdentifiers and newMinSigners. The
// VerifyingKey is preserved; the old shares are invalidated because the new
// polynomial's non-constant coefficients are freshly sampled (spec §4.2).
// The reconstructed secret is returned to the caller so it can be zeroized
// immediately per spec §3's SigningKey lifecycle; it is not retained by this
// function.
func Reshare[S Scalar[S, P], P Point[P, S]](
	zero, one S,
	packages map[party.ID]*KeyPackage[S, P],
	newIdentifiers map[party.ID]S,
	newMinSigners int,
	sampleScalar func() (S, error),
) (map[party.ID]*KeyPackage[S, P], *PublicKeyPackage[S, P], S, error) {
	if newMinSigners > len(newIdentifiers) {
		return nil, nil, zero, tsserr.ErrInvalidThreshold
	}
	secret, err := Combine[S, P](zero, one, packages)
	if err != nil {
		return nil, nil, zero, err
	}
	newPackages, newPub, err := Split[S, P](secret, newIdentifiers, newMinSigners, sampleScalar)
	if err != nil {
		return nil, nil, zero, err
	}
	generation := nextGeneration(packages)
	for _, kp := range newPackages {
		kp.Generation = generation
	}
	newPub.Generation = generation
	return newPackages, newPub, secret, nil
}

func nextGeneration[S Scalar[S, P], P Point[P, S]](packages map[party.ID]*KeyPackage[S, P]) uint64 {
	var max uint64
	for _, kp := range packages {
		if kp.Generation > max {
			max = kp.Generation
		}
	}
	return max + 1
}
