package mockapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_StoresOnlyHashes(t *testing.T) {
	r, err := NewRegistry(Seed{Code: "GH-SECRET-1"})
	require.NoError(t, err)

	require.Len(t, r.codes, 1)
	assert.NotContains(t, r.codes[0].hash, "GH-SECRET-1")
	assert.Equal(t, defaultProduct, r.codes[0].product)
}

func TestRegistry_ClaimLifecycle(t *testing.T) {
	r, err := NewRegistry(Seed{Code: "GH-1", Product: "founder_os", Tier: "solid"})
	require.NoError(t, err)

	_, err = r.Claim("GH-2", "user-1")
	assert.ErrorIs(t, err, ErrUnknownCode)

	_, err = r.Status("user-1")
	assert.ErrorIs(t, err, ErrUnknownUser)

	outcome, err := r.Claim(" gh-1 ", "user-1")
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	_, err = r.Claim("GH-1", "user-1")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	_, err = r.Validate("GH-1")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	status, err := r.Status("user-1")
	require.NoError(t, err)
	assert.True(t, status.Found)
	assert.True(t, status.Products.FounderOS.Enabled)
	assert.False(t, status.Products.GoodHang.Enabled)
	assert.Equal(t, "start_sculptor", status.RecommendedAction)

	result, err := r.Result(r.codes[0].sessionID)
	require.NoError(t, err)
	assert.Equal(t, float64(77), result.OverallScore)

	_, err = r.Result("missing")
	assert.ErrorIs(t, err, ErrNoResults)
}
