package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTargetWithinCapacity(t *testing.T) {
	est, err := ForTarget(1000, "gpt-4o")
	require.NoError(t, err)

	assert.Equal(t, int64(1500), est.EstimatedTokens)
	assert.Equal(t, int64(16384-1024), est.MaxSafeTokens)
	// Working ceiling carries 20% headroom for markdown overhead.
	assert.Equal(t, int64(1800), est.WorkingCeiling)
}

func TestForTargetCeilingClamped(t *testing.T) {
	est, err := ForTarget(10000, "gpt-4o")
	require.NoError(t, err)

	assert.Equal(t, int64(15000), est.EstimatedTokens)
	assert.Equal(t, est.MaxSafeTokens, est.WorkingCeiling)
}

func TestForTargetExceedsCapacity(t *testing.T) {
	_, err := ForTarget(12000, "gpt-4o")
	require.ErrorIs(t, err, ErrExceedsCapacity)

	_, err = ForTarget(3000, "some-unknown-model")
	require.ErrorIs(t, err, ErrExceedsCapacity)
}

func TestForTargetRejectsNonPositive(t *testing.T) {
	_, err := ForTarget(0, "gpt-4o")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrExceedsCapacity)
}

func TestForTargetVersionSuffixFallsBackToFamily(t *testing.T) {
	base, err := ForTarget(1000, "gpt-4o")
	require.NoError(t, err)
	suffixed, err := ForTarget(1000, "gpt-4o-2024-08-06")
	require.NoError(t, err)
	assert.Equal(t, base, suffixed)
}

func TestProfileForPrefersLongestFamilyPrefix(t *testing.T) {
	// "gpt-4o-mini-2024-07-18" prefixes both gpt-4o and gpt-4o-mini; the
	// longer family name must win on every call.
	for i := 0; i < 20; i++ {
		assert.Equal(t, profiles["gpt-4o-mini"], profileFor("gpt-4o-mini-2024-07-18"))
	}
	assert.Equal(t, profiles["gpt-4-turbo"], profileFor("gpt-4-turbo-preview"))
	assert.Equal(t, defaultProfile, profileFor("some-other-model"))
}
