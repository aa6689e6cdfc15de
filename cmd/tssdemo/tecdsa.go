package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/session"
	"github.com/keyshard/tss/pkg/tecdsa/keygen"
	"github.com/keyshard/tss/pkg/tecdsa/presign"
	"github.com/keyshard/tss/pkg/tecdsa/sign"
	"github.com/keyshard/tss/pkg/tecdsa/triples"
	"github.com/keyshard/tss/pkg/tecdsa/verify"
)

var tecdsaMessage string

var tecdsaCmd = &cobra.Command{
	Use:   "tecdsa",
	Short: "Run the full 2-party secp256k1 keygen/triples/presign/sign pipeline locally",
	RunE:  runTecdsa,
}

func init() {
	tecdsaCmd.Flags().StringVar(&tecdsaMessage, "message", "hello threshold", "message to sign")
}

const (
	clientID party.ID = "client"
	serverID party.ID = "server"
)

func runTecdsa(cmd *cobra.Command, args []string) error {
	tracker := session.NewHealthTracker(logger, 2, clientID, serverID)

	sample := func() (secp256k1group.Scalar, error) { return secp256k1group.RandomScalar(rand.Reader) }
	clientOut, serverOut, _, err := keygen.Centralized(rand.Reader, clientID, serverID, sample)
	if err != nil {
		tracker.RecordFailure(clientID, err)
		return fmt.Errorf("keygen: %w", err)
	}
	tracker.RecordSuccess(clientID, 0)
	tracker.RecordSuccess(serverID, 0)
	logger.Info("tecdsa: keygen complete",
		zap.String("public_point", hex.EncodeToString(clientOut.PublicPoint.CompressedBytes()[:])))

	ct1, st1, err := runTriple(clientOut.PrivateShare)
	if err != nil {
		return fmt.Errorf("triples (first): %w", err)
	}
	ct2, st2, err := runTriple(clientOut.PrivateShare)
	if err != nil {
		return fmt.Errorf("triples (second): %w", err)
	}
	logger.Info("tecdsa: two Beaver triples generated")

	var pc presign.Client
	var ps presign.Server

	pcState, pcMsg1, err := pc.Step1(rand.Reader, clientOut, ct1, ct2)
	if err != nil {
		return fmt.Errorf("presign client step1: %w", err)
	}
	psState, psMsg1, err := ps.Step1(rand.Reader, serverOut, st1, st2)
	if err != nil {
		return fmt.Errorf("presign server step1: %w", err)
	}
	pcState, pcMsg2, err := pc.Step2(pcState, psMsg1)
	if err != nil {
		return fmt.Errorf("presign client step2: %w", err)
	}
	psState, psMsg2, err := ps.Step2(psState, pcMsg1)
	if err != nil {
		return fmt.Errorf("presign server step2: %w", err)
	}
	_, clientPresign, err := pc.Step3(pcState, psMsg2)
	if err != nil {
		return fmt.Errorf("presign client step3: %w", err)
	}
	_, serverPresign, err := ps.Step3(psState, pcMsg2)
	if err != nil {
		return fmt.Errorf("presign server step3: %w", err)
	}
	logger.Info("tecdsa: presignature ready", zap.Bool("nonce_points_match", clientPresign.BigR.Equal(serverPresign.BigR)))

	message := []byte(tecdsaMessage)
	var sc sign.Client
	var ss sign.Server

	scState, scReveal, err := sc.Step1(&clientPresign, message)
	if err != nil {
		return fmt.Errorf("sign client step1: %w", err)
	}
	ssState, ssReveal, err := ss.Step1(&serverPresign, message)
	if err != nil {
		return fmt.Errorf("sign server step1: %w", err)
	}
	clientShare, err := sc.Step2(scState, ssReveal)
	if err != nil {
		return fmt.Errorf("sign client step2: %w", err)
	}
	serverShare, err := ss.Step2(ssState, scReveal)
	if err != nil {
		return fmt.Errorf("sign server step2: %w", err)
	}

	full := sign.Aggregate(clientPresign.BigR, clientShare, serverShare)
	ok := verify.Verify(full, clientOut.PublicPoint, message)
	logger.Info("tecdsa: signature aggregated", zap.Bool("verified", ok))
	wire := full.Bytes()
	fmt.Printf("signature: %x\nverified: %v\n", wire, ok)
	if !ok {
		return fmt.Errorf("signature failed verification")
	}
	return nil
}

func runTriple(dealerKeyMaterial secp256k1group.Scalar) (*triples.TripleShare, *triples.TripleShare, error) {
	var c triples.Client
	var s triples.Server

	cState, cCommit, err := c.Step1(rand.Reader, clientID, serverID, dealerKeyMaterial)
	if err != nil {
		return nil, nil, err
	}
	sState, sCommit, err := s.Step1(rand.Reader, clientID, serverID)
	if err != nil {
		return nil, nil, err
	}
	cState, cAck2, err := c.Step2(cState, sCommit)
	if err != nil {
		return nil, nil, err
	}
	sState, sAck2, err := s.Step2(sState, cCommit)
	if err != nil {
		return nil, nil, err
	}
	cState, cReveal, err := c.Step3(cState, sAck2)
	if err != nil {
		return nil, nil, err
	}
	sState, sReveal, err := s.Step3(sState, cAck2)
	if err != nil {
		return nil, nil, err
	}
	cState, cAck4, err := c.Step4(cState, sReveal)
	if err != nil {
		return nil, nil, err
	}
	sState, sAck4, err := s.Step4(sState, cReveal)
	if err != nil {
		return nil, nil, err
	}
	cState, cAck5, err := c.Step5(cState, sAck4)
	if err != nil {
		return nil, nil, err
	}
	sState, sAck5, err := s.Step5(sState, cAck4)
	if err != nil {
		return nil, nil, err
	}
	cState, shareMsg, err := c.Step6(cState, sAck5)
	if err != nil {
		return nil, nil, err
	}
	sState, sAck6, err := s.Step6(sState, shareMsg)
	if err != nil {
		return nil, nil, err
	}
	cState, cAck7, err := c.Step7(cState, cAck5)
	if err != nil {
		return nil, nil, err
	}
	sState, sAck7, err := s.Step7(sState, sAck6)
	if err != nil {
		return nil, nil, err
	}
	cState, cAck8, err := c.Step8(cState, sAck7)
	if err != nil {
		return nil, nil, err
	}
	sState, sAck8, err := s.Step8(sState, cAck7)
	if err != nil {
		return nil, nil, err
	}
	cState, cAck9, err := c.Step9(cState, sAck8)
	if err != nil {
		return nil, nil, err
	}
	sState, sAck9, err := s.Step9(sState, cAck8)
	if err != nil {
		return nil, nil, err
	}
	cState, cAck10, err := c.Step10(cState, sAck9)
	if err != nil {
		return nil, nil, err
	}
	sState, sAck10, err := s.Step10(sState, cAck9)
	if err != nil {
		return nil, nil, err
	}
	clientTriple, err := c.Step11(cState, sAck10)
	if err != nil {
		return nil, nil, err
	}
	serverTriple, err := s.Step11(sState, cAck10)
	if err != nil {
		return nil, nil, err
	}
	return &clientTriple, &serverTriple, nil
}
