package keygen_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/secp256k1group"
	"github.com/keyshard/tss/pkg/tecdsa/keygen"
)

func TestDistributedKeygenFiveSteps(t *testing.T) {
	var client keygen.Client
	var server keygen.Server

	clientState, clientCommit, err := client.Step1(rand.Reader)
	require.NoError(t, err)
	serverState, serverCommit, err := server.Step1(rand.Reader)
	require.NoError(t, err)

	clientState, clientOpen, err := client.Step2(clientState)
	require.NoError(t, err)
	serverState, serverOpen, err := server.Step2(serverState)
	require.NoError(t, err)

	clientState, err = client.Step3(clientState, serverCommit)
	require.NoError(t, err)
	serverState, err = server.Step3(serverState, clientCommit)
	require.NoError(t, err)

	clientState, clientConfirm, err := client.Step4(clientState, serverOpen)
	require.NoError(t, err)
	serverState, serverConfirm, err := server.Step4(serverState, clientOpen)
	require.NoError(t, err)

	clientOut, err := client.Step5(clientState, serverConfirm)
	require.NoError(t, err)
	serverOut, err := server.Step5(serverState, clientConfirm)
	require.NoError(t, err)

	assert.True(t, clientOut.PublicPoint.Equal(serverOut.PublicPoint))

	recovered, err := keygen.CombineShares(keygen.KeyCombineInput{
		ClientID:    party.ID("client"),
		ServerID:    party.ID("server"),
		ClientShare: clientOut.PrivateShare,
		ServerShare: serverOut.PrivateShare,
	})
	require.NoError(t, err)
	assert.True(t, recovered.ScalarBaseMult().Equal(clientOut.PublicPoint))
}

func TestCentralizedKeygenMatchesSecret(t *testing.T) {
	sampleScalar := func() (secp256k1group.Scalar, error) {
		return secp256k1group.RandomScalar(rand.Reader)
	}
	client, server, secret, err := keygen.Centralized(rand.Reader, party.ID("client"), party.ID("server"), sampleScalar)
	require.NoError(t, err)
	assert.True(t, client.PublicPoint.Equal(secret.ScalarBaseMult()))
	assert.True(t, server.PublicPoint.Equal(client.PublicPoint))

	recovered, err := keygen.CombineShares(keygen.KeyCombineInput{
		ClientID:    party.ID("client"),
		ServerID:    party.ID("server"),
		ClientShare: client.PrivateShare,
		ServerShare: server.PrivateShare,
	})
	require.NoError(t, err)
	assert.True(t, recovered.Equal(secret))
}
