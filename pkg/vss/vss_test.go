package vss_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyshard/tss/pkg/ed25519group"
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/tsserr"
	"github.com/keyshard/tss/pkg/vss"
)

func edSample(t *testing.T) func() (ed25519group.Scalar, error) {
	return func() (ed25519group.Scalar, error) {
		s, err := ed25519group.RandomScalar(rand.Reader)
		require.NoError(t, err)
		return s, nil
	}
}

func edIdentifiers(t *testing.T, slots ...uint32) map[party.ID]ed25519group.Scalar {
	out := make(map[party.ID]ed25519group.Scalar, len(slots))
	for _, n := range slots {
		id, err := ed25519group.IdentifierFromUint32(n)
		require.NoError(t, err)
		out[id.PartyID()] = id.Scalar
	}
	return out
}

// S1 — 2-of-3 Ed25519 split+combine.
func TestSplitCombineRoundTrip2of3(t *testing.T) {
	secret := ed25519group.ScalarFromUint32(1)
	ids := edIdentifiers(t, 1, 2, 3)

	packages, _, err := vss.Split[ed25519group.Scalar, ed25519group.Point](secret, ids, 2, edSample(t))
	require.NoError(t, err)
	require.Len(t, packages, 3)

	partyIDs := make([]party.ID, 0, 3)
	for id := range packages {
		partyIDs = append(partyIDs, id)
	}

	pairs := [][2]int{{0, 1}, {0, 2}, {1, 2}}
	for _, pair := range pairs {
		subset := map[party.ID]*vss.KeyPackage[ed25519group.Scalar, ed25519group.Point]{
			partyIDs[pair[0]]: packages[partyIDs[pair[0]]],
			partyIDs[pair[1]]: packages[partyIDs[pair[1]]],
		}
		recovered, err := vss.Combine[ed25519group.Scalar, ed25519group.Point](
			ed25519group.Zero(), ed25519group.ScalarFromUint32(1), subset)
		require.NoError(t, err)
		assert.True(t, recovered.Equal(secret))
	}
}

// S2 — extend preserves existing shares.
func TestExtendPreservesShares(t *testing.T) {
	secret := ed25519group.ScalarFromUint32(1)
	ids := edIdentifiers(t, 1, 2, 3)

	packages, pub, err := vss.Split[ed25519group.Scalar, ed25519group.Point](secret, ids, 2, edSample(t))
	require.NoError(t, err)

	original := make(map[party.ID]ed25519group.Scalar, len(packages))
	for id, kp := range packages {
		original[id] = kp.SigningShare
	}

	newID, err := ed25519group.IdentifierFromUint32(4)
	require.NoError(t, err)
	newIdentifiers := map[party.ID]ed25519group.Scalar{newID.PartyID(): newID.Scalar}

	newPackages, updatedPub, err := vss.Extend[ed25519group.Scalar, ed25519group.Point](
		ed25519group.ScalarFromUint32(1), packages, newIdentifiers, pub)
	require.NoError(t, err)

	for id, share := range original {
		assert.True(t, packages[id].SigningShare.Equal(share), "existing share must be untouched")
	}
	assert.True(t, updatedPub.VerifyingKey.Equal(pub.VerifyingKey))

	var firstID party.ID
	for id := range packages {
		firstID = id
		break
	}
	subset := map[party.ID]*vss.KeyPackage[ed25519group.Scalar, ed25519group.Point]{
		firstID:          packages[firstID],
		newID.PartyID(): newPackages[newID.PartyID()],
	}
	recovered, err := vss.Combine[ed25519group.Scalar, ed25519group.Point](
		ed25519group.Zero(), ed25519group.ScalarFromUint32(1), subset)
	require.NoError(t, err)
	assert.True(t, recovered.Equal(secret))
}

// S7 — extend rejects an identifier that already exists.
func TestExtendRejectsDuplicateIdentifier(t *testing.T) {
	secret := ed25519group.ScalarFromUint32(1)
	ids := edIdentifiers(t, 1, 2, 3)

	packages, pub, err := vss.Split[ed25519group.Scalar, ed25519group.Point](secret, ids, 2, edSample(t))
	require.NoError(t, err)

	var existingID party.ID
	var existingX ed25519group.Scalar
	for id, kp := range packages {
		existingID, existingX = id, kp.Identifier
		break
	}

	_, _, err = vss.Extend[ed25519group.Scalar, ed25519group.Point](
		ed25519group.ScalarFromUint32(1), packages,
		map[party.ID]ed25519group.Scalar{existingID: existingX}, pub)
	assert.ErrorIs(t, err, tsserr.ErrInvalidIdentifier)
}

// S3 — reshare to a new committee preserves the verifying key and changes
// the shares.
func TestReshareToNewCommittee(t *testing.T) {
	secret := ed25519group.ScalarFromUint32(123)
	oldIDs := edIdentifiers(t, 1, 2)

	oldPackages, oldPub, err := vss.Split[ed25519group.Scalar, ed25519group.Point](secret, oldIDs, 2, edSample(t))
	require.NoError(t, err)

	newIDs := edIdentifiers(t, 10, 20)
	newPackages, newPub, recovered, err := vss.Reshare[ed25519group.Scalar, ed25519group.Point](
		ed25519group.Zero(), ed25519group.ScalarFromUint32(1), oldPackages, newIDs, 2, edSample(t))
	require.NoError(t, err)
	assert.True(t, recovered.Equal(secret))
	assert.True(t, newPub.VerifyingKey.Equal(oldPub.VerifyingKey))

	combined, err := vss.Combine[ed25519group.Scalar, ed25519group.Point](
		ed25519group.Zero(), ed25519group.ScalarFromUint32(1), newPackages)
	require.NoError(t, err)
	assert.True(t, combined.Equal(secret))

	for _, kp := range newPackages {
		for _, oldKP := range oldPackages {
			assert.False(t, kp.SigningShare.Equal(oldKP.SigningShare))
		}
	}
}

// S7 — out-of-range scalar rejected when decoded, before it can reach
// Split (which takes an already-decoded Scalar).
func TestDecodeRejectsOutOfRangeScalar(t *testing.T) {
	var allFF [32]byte
	for i := range allFF {
		allFF[i] = 0xFF
	}
	_, err := ed25519group.ScalarFromCanonicalBytes(allFF[:])
	assert.Error(t, err)
}
