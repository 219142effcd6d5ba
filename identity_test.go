package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceIDComesFromTheDeviceOrientedProvider(t *testing.T) {
	env := makeTestEnv(t)

	id, ok := env.analytics.DeviceID()
	assert.True(t, ok)
	assert.Equal(t, "fake-device-id", id)
}

func TestChangeDeviceIDReachesOnlyCapableProviders(t *testing.T) {
	env := makeTestEnv(t)

	env.analytics.ChangeDeviceID("d-2", true)

	require.Len(t, env.countly.DeviceChanges, 1)
	assert.Equal(t, "d-2", env.countly.DeviceChanges[0].ID)
	assert.True(t, env.countly.DeviceChanges[0].Merge)
	assert.Empty(t, env.posthog.Aliases)
	assert.Empty(t, env.posthog.Identifies)
}

func TestDistinctIDComesFromTheDistinctIDProvider(t *testing.T) {
	env := makeTestEnv(t)

	id, ok := env.analytics.DistinctID()
	assert.True(t, ok)
	assert.NotEmpty(t, id)
	assert.NotEqual(t, "fake-device-id", id)
}

func TestAliasReachesOnlyTheDistinctIDProvider(t *testing.T) {
	env := makeTestEnv(t)
	current, ok := env.analytics.DistinctID()
	require.True(t, ok)

	env.analytics.Alias("user-42")

	require.Len(t, env.posthog.Aliases, 1)
	assert.Equal(t, current, env.posthog.Aliases[0].PreviousID)
	assert.Equal(t, "user-42", env.posthog.Aliases[0].DistinctID)
	assert.Empty(t, env.countly.DeviceChanges)
}
