package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keyshard/tss/pkg/ed25519group"
	"github.com/keyshard/tss/pkg/frost"
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/vss"
)

var frostMessage string

var frostCmd = &cobra.Command{
	Use:   "frost",
	Short: "Run a 2-of-3 FROST Ed25519 signing round locally",
	RunE:  runFrost,
}

func init() {
	frostCmd.Flags().StringVar(&frostMessage, "message", "hello threshold", "message to sign")
}

func runFrost(cmd *cobra.Command, args []string) error {
	sample := func() (ed25519group.Scalar, error) { return ed25519group.RandomScalar(rand.Reader) }

	ids := map[party.ID]ed25519group.Scalar{}
	for i := uint32(1); i <= 3; i++ {
		id, err := ed25519group.IdentifierFromUint32(i)
		if err != nil {
			return err
		}
		ids[id.PartyID()] = id.Scalar
	}

	secret, err := sample()
	if err != nil {
		return err
	}
	packages, pub, err := vss.Split[ed25519group.Scalar, ed25519group.Point](secret, ids, 2, sample)
	if err != nil {
		return err
	}
	logger.Info("frost: split secret", zap.Int("min_signers", 2), zap.Int("parties", len(ids)))

	signers := make([]party.ID, 0, 2)
	for id := range packages {
		signers = append(signers, id)
		if len(signers) == 2 {
			break
		}
	}

	message := []byte(frostMessage)
	sessionContext := []byte("tssdemo frost session")

	nonces := map[party.ID]frost.SigningNonces{}
	commitments := map[party.ID]frost.SigningCommitments{}
	for _, id := range signers {
		n, c, err := frost.Commit(rand.Reader, packages[id], sessionContext)
		if err != nil {
			return err
		}
		nonces[id] = n
		commitments[id] = c
	}

	pkg := frost.SigningPackage{Message: message, Commitments: commitments}
	shares := map[party.ID]frost.SignatureShare{}
	for _, id := range signers {
		share, err := frost.Sign(pkg, packages[id], nonces[id])
		if err != nil {
			return err
		}
		shares[id] = share
	}

	sig, err := frost.Aggregate(pkg, shares, pub)
	if err != nil {
		return err
	}
	ok := frost.Verify(message, sig, pub.VerifyingKey)
	logger.Info("frost: aggregated signature",
		zap.String("signature", hex.EncodeToString(sig.Bytes()[:])),
		zap.Bool("verified", ok),
	)
	fmt.Printf("signature: %x\nverified: %v\n", sig.Bytes(), ok)
	if !ok {
		return fmt.Errorf("aggregated signature failed verification")
	}
	return nil
}
