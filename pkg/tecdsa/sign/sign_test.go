package sign_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tecdsa/keygen"
	"github.com/keyshard/tss/pkg/tecdsa/presign"
	"github.com/keyshard/tss/pkg/tecdsa/sign"
	"github.com/keyshard/tss/pkg/tecdsa/triples"
	"github.com/keyshard/tss/pkg/tecdsa/verify"
)

func runTriple(t *testing.T, dealerKeyMaterial secp256k1group.Scalar) (*triples.TripleShare, *triples.TripleShare) {
	t.Helper()
	var c triples.Client
	var s triples.Server
	clientID, serverID := party.ID("client"), party.ID("server")

	cState, cCommit, err := c.Step1(rand.Reader, clientID, serverID, dealerKeyMaterial)
	require.NoError(t, err)
	sState, sCommit, err := s.Step1(rand.Reader, clientID, serverID)
	require.NoError(t, err)

	cState, cAck2, err := c.Step2(cState, sCommit)
	require.NoError(t, err)
	sState, sAck2, err := s.Step2(sState, cCommit)
	require.NoError(t, err)

	cState, cReveal, err := c.Step3(cState, sAck2)
	require.NoError(t, err)
	sState, sReveal, err := s.Step3(sState, cAck2)
	require.NoError(t, err)

	cState, cAck4, err := c.Step4(cState, sReveal)
	require.NoError(t, err)
	sState, sAck4, err := s.Step4(sState, cReveal)
	require.NoError(t, err)

	cState, cAck5, err := c.Step5(cState, sAck4)
	require.NoError(t, err)
	sState, sAck5, err := s.Step5(sState, cAck4)
	require.NoError(t, err)

	cState, shareMsg, err := c.Step6(cState, sAck5)
	require.NoError(t, err)
	sState, sAck6, err := s.Step6(sState, shareMsg)
	require.NoError(t, err)

	cState, cAck7, err := c.Step7(cState, cAck5)
	require.NoError(t, err)
	sState, sAck7, err := s.Step7(sState, sAck6)
	require.NoError(t, err)

	cState, cAck8, err := c.Step8(cState, sAck7)
	require.NoError(t, err)
	sState, sAck8, err := s.Step8(sState, cAck7)
	require.NoError(t, err)

	cState, cAck9, err := c.Step9(cState, sAck8)
	require.NoError(t, err)
	sState, sAck9, err := s.Step9(sState, cAck8)
	require.NoError(t, err)

	cState, cAck10, err := c.Step10(cState, sAck9)
	require.NoError(t, err)
	sState, sAck10, err := s.Step10(sState, cAck9)
	require.NoError(t, err)

	clientTriple, err := c.Step11(cState, sAck10)
	require.NoError(t, err)
	serverTriple, err := s.Step11(sState, cAck10)
	require.NoError(t, err)

	return &clientTriple, &serverTriple
}

func TestEndToEndKeygenTriplesPresignSignVerify(t *testing.T) {
	sampleScalar := func() (secp256k1group.Scalar, error) { return secp256k1group.RandomScalar(rand.Reader) }
	clientID, serverID := party.ID("client"), party.ID("server")
	clientOut, serverOut, _, err := keygen.Centralized(rand.Reader, clientID, serverID, sampleScalar)
	require.NoError(t, err)

	ct1, st1 := runTriple(t, clientOut.PrivateShare)
	ct2, st2 := runTriple(t, clientOut.PrivateShare)

	var pc presign.Client
	var ps presign.Server

	pcState, pcMsg1, err := pc.Step1(rand.Reader, clientOut, ct1, ct2)
	require.NoError(t, err)
	psState, psMsg1, err := ps.Step1(rand.Reader, serverOut, st1, st2)
	require.NoError(t, err)

	pcState, pcMsg2, err := pc.Step2(pcState, psMsg1)
	require.NoError(t, err)
	psState, psMsg2, err := ps.Step2(psState, pcMsg1)
	require.NoError(t, err)

	_, clientPresign, err := pc.Step3(pcState, psMsg2)
	require.NoError(t, err)
	_, serverPresign, err := ps.Step3(psState, pcMsg2)
	require.NoError(t, err)

	message := []byte("hello")

	var sc sign.Client
	var ss sign.Server

	scState, scReveal, err := sc.Step1(&clientPresign, message)
	require.NoError(t, err)
	ssState, ssReveal, err := ss.Step1(&serverPresign, message)
	require.NoError(t, err)

	clientShare, err := sc.Step2(scState, ssReveal)
	require.NoError(t, err)
	serverShare, err := ss.Step2(ssState, scReveal)
	require.NoError(t, err)

	full := sign.Aggregate(clientPresign.BigR, clientShare, serverShare)

	require.True(t, verify.Verify(full, clientOut.PublicPoint, message))
}

func TestPresignCannotSignTwice(t *testing.T) {
	out := presign.PresignOutput{}
	require.NoError(t, out.Consume())
	require.Error(t, out.Consume())
}
