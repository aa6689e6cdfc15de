package triples_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tecdsa/triples"
	"github.com/keyshard/tss/pkg/tsserr"
)

func runHappyPath(t *testing.T, dealerKeyMaterial secp256k1group.Scalar) (triples.TripleShare, triples.TripleShare) {
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

	return clientTriple, serverTriple
}

func TestTripleGenerationProducesConsistentShares(t *testing.T) {
	dealerKeyMaterial, err := secp256k1group.RandomScalar(rand.Reader)
	require.NoError(t, err)

	clientTriple, serverTriple := runHappyPath(t, dealerKeyMaterial)

	assert.True(t, clientTriple.A.Equal(serverTriple.A))
	assert.True(t, clientTriple.B.Equal(serverTriple.B))
	assert.True(t, clientTriple.C.Equal(serverTriple.C))

	a := clientTriple.AShare.Add(serverTriple.AShare)
	b := clientTriple.BShare.Add(serverTriple.BShare)
	c := clientTriple.CShare.Add(serverTriple.CShare)
	assert.True(t, a.Mul(b).Equal(c))

	assert.True(t, a.ScalarBaseMult().Equal(clientTriple.A))
	assert.True(t, b.ScalarBaseMult().Equal(clientTriple.B))
	assert.True(t, c.ScalarBaseMult().Equal(clientTriple.C))
}

func TestTripleConsumeIsSingleUse(t *testing.T) {
	dealerKeyMaterial, err := secp256k1group.RandomScalar(rand.Reader)
	require.NoError(t, err)
	clientTriple, _ := runHappyPath(t, dealerKeyMaterial)

	require.NoError(t, clientTriple.Consume())
	err = clientTriple.Consume()
	assert.ErrorIs(t, err, tsserr.ErrTripleExhausted)
}

func TestServerRejectsCorruptedShare(t *testing.T) {
	var c triples.Client
	var s triples.Server
	clientID, serverID := party.ID("client"), party.ID("server")

	dealerKeyMaterial, err := secp256k1group.RandomScalar(rand.Reader)
	require.NoError(t, err)

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

	_, shareMsg, err := c.Step6(cState, sAck5)
	require.NoError(t, err)

	corrupt, err := secp256k1group.RandomScalar(rand.Reader)
	require.NoError(t, err)
	shareMsg.ShareA = corrupt

	_, _, err = s.Step6(sState, shareMsg)
	require.Error(t, err)
	assert.ErrorIs(t, err, tsserr.ErrTripleVerificationKind)
	var culprit *tsserr.CulpritError
	require.ErrorAs(t, err, &culprit)
	assert.Equal(t, clientID, culprit.Culprit)
}
