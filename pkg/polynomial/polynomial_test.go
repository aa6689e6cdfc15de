package polynomial_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyshard/tss/pkg/ed25519group"
	"github.com/keyshard/tss/pkg/polynomial"
)

func TestLagrangeCoefficientsSumToOne(t *testing.T) {
	one, err := ed25519group.IdentifierFromUint32(1)
	require.NoError(t, err)

	const n = 10
	xs := make([]ed25519group.Scalar, n)
	for i := range xs {
		xs[i] = ed25519group.ScalarFromUint32(uint32(i + 1))
	}

	coeffsFull := polynomial.Lagrange(one.Scalar, xs, ed25519group.Zero())
	coeffsShort := polynomial.Lagrange(one.Scalar, xs[:n-1], ed25519group.Zero())

	sumFull := sum(coeffsFull)
	sumShort := sum(coeffsShort)

	assert.True(t, sumFull.Equal(one.Scalar))
	assert.True(t, sumShort.Equal(one.Scalar))
}

func sum(xs []ed25519group.Scalar) ed25519group.Scalar {
	s := xs[0]
	for _, x := range xs[1:] {
		s = s.Add(x)
	}
	return s
}

func TestEvaluateMatchesConstantAtZero(t *testing.T) {
	secret, err := ed25519group.RandomScalar(rand.Reader)
	require.NoError(t, err)

	poly := polynomial.New(2, secret, func() ed25519group.Scalar {
		s, err := ed25519group.RandomScalar(rand.Reader)
		require.NoError(t, err)
		return s
	})

	assert.True(t, poly.Evaluate(ed25519group.Zero()).Equal(secret))
	assert.True(t, poly.Constant().Equal(secret))
}
