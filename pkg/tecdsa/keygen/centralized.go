package keygen

import (
	"io"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tsserr"
	"github.com/keyshard/tss/pkg/vss"
)

// Centralized bootstraps a wallet without running the 5-step distributed
// protocol (spec §4.4 "Centralized keygen"): an out-of-band helper samples
// the full private key, then splits it across the client and server
// identifiers at min_signers = 2 via the VSS layer. The reconstructed
// secret is returned so the caller can zeroize it immediately; Centralized
// never persists it.
func Centralized(
	rng io.Reader,
	clientID, serverID party.ID,
	sampleScalar func() (secp256k1group.Scalar, error),
) (client, server KeygenOutput, secret secp256k1group.Scalar, err error) {
	x, err := secp256k1group.RandomScalar(rng)
	if err != nil {
		return KeygenOutput{}, KeygenOutput{}, secp256k1group.Zero(), err
	}
	return ImportFromSecret(x, clientID, serverID, sampleScalar)
}

// ImportFromSecret deterministically splits an externally supplied scalar
// across the two identifiers, per spec §4.4's "import-from-secret"
// variant of centralized keygen.
func ImportFromSecret(
	x secp256k1group.Scalar,
	clientID, serverID party.ID,
	sampleScalar func() (secp256k1group.Scalar, error),
) (client, server KeygenOutput, secret secp256k1group.Scalar, err error) {
	clientX := secp256k1group.HashToScalar([]byte("client"))
	serverX := secp256k1group.HashToScalar([]byte("server"))
	identifiers := map[party.ID]secp256k1group.Scalar{
		clientID: clientX,
		serverID: serverX,
	}
	packages, _, err := vss.Split[secp256k1group.Scalar, secp256k1group.Point](x, identifiers, 2, sampleScalar)
	if err != nil {
		return KeygenOutput{}, KeygenOutput{}, secp256k1group.Zero(), err
	}
	bigX := x.ScalarBaseMult()
	// Weight each Shamir share by its Lagrange coefficient at zero so the two
	// PrivateShare values are additive (x = x_client + x_server), the same
	// form the distributed Step1..Step5 protocol produces.
	clientShare := packages[clientID].SigningShare.Mul(serverX.Mul(serverX.Sub(clientX).Invert()))
	serverShare := packages[serverID].SigningShare.Mul(clientX.Mul(clientX.Sub(serverX).Invert()))
	client = KeygenOutput{PrivateShare: clientShare, PublicPoint: bigX}
	server = KeygenOutput{PrivateShare: serverShare, PublicPoint: bigX}
	return client, server, x, nil
}

// KeyCombineInput names the two shares that combine_shares (spec §4.4)
// reconstructs from; intended for export/backup only.
type KeyCombineInput struct {
	ClientID, ServerID             party.ID
	ClientShare, ServerShare       secp256k1group.Scalar
}

// CombineShares recovers the full private key from both endpoints' shares.
// The caller must zeroize the result immediately after use (spec §4.4).
func CombineShares(in KeyCombineInput) (secp256k1group.Scalar, error) {
	if in.ClientID == in.ServerID {
		return secp256k1group.Zero(), tsserr.ErrInvalidIdentifier
	}
	// KeygenOutput shares are additive whether they come from the
	// distributed protocol or from ImportFromSecret.
	return in.ClientShare.Add(in.ServerShare), nil
}
