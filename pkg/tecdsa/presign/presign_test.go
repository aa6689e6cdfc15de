package presign_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tecdsa/keygen"
	"github.com/keyshard/tss/pkg/tecdsa/presign"
	"github.com/keyshard/tss/pkg/tecdsa/triples"
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

func runPresign(t *testing.T, clientOut, serverOut keygen.KeygenOutput, ct1, ct2, st1, st2 *triples.TripleShare) (presign.PresignOutput, presign.PresignOutput) {
	t.Helper()
	var c presign.Client
	var s presign.Server

	cState, cMsg1, err := c.Step1(rand.Reader, clientOut, ct1, ct2)
	require.NoError(t, err)
	sState, sMsg1, err := s.Step1(rand.Reader, serverOut, st1, st2)
	require.NoError(t, err)

	cState, cMsg2, err := c.Step2(cState, sMsg1)
	require.NoError(t, err)
	sState, sMsg2, err := s.Step2(sState, cMsg1)
	require.NoError(t, err)

	_, clientPresign, err := c.Step3(cState, sMsg2)
	require.NoError(t, err)
	_, serverPresign, err := s.Step3(sState, cMsg2)
	require.NoError(t, err)

	return clientPresign, serverPresign
}

func TestPresignDerivesConsistentNonceInverse(t *testing.T) {
	sampleScalar := func() (secp256k1group.Scalar, error) { return secp256k1group.RandomScalar(rand.Reader) }
	clientID, serverID := party.ID("client"), party.ID("server")
	clientOut, serverOut, _, err := keygen.Centralized(rand.Reader, clientID, serverID, sampleScalar)
	require.NoError(t, err)

	ct1, st1 := runTriple(t, clientOut.PrivateShare)
	ct2, st2 := runTriple(t, clientOut.PrivateShare)

	clientPresign, serverPresign := runPresign(t, clientOut, serverOut, ct1, ct2, st1, st2)

	require.True(t, clientPresign.BigR.Equal(serverPresign.BigR))

	kinv := clientPresign.KShare.Add(serverPresign.KShare)
	require.True(t, clientPresign.BigR.ScalarMult(kinv).Equal(secp256k1group.BasePoint()))
}
