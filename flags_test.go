package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mohitsharma90015656/unified-analytics/config"
	"github.com/mohitsharma90015656/unified-analytics/internal/sharedtest"
)

func TestFeatureFlagsAreRoutedToTheFlagCapableProvider(t *testing.T) {
	env := makeTestEnv(t)
	env.posthog.Flags["variant"] = "control"
	env.posthog.Flags["new-onboarding"] = true

	assert.Equal(t, ldvalue.String("control"), env.analytics.FeatureFlag("variant"))
	assert.True(t, env.analytics.IsFeatureEnabled("new-onboarding"))

	all := env.analytics.AllFeatureFlags()
	assert.Equal(t, ldvalue.String("control"), all.GetByKey("variant"))
	assert.Equal(t, ldvalue.Bool(true), all.GetByKey("new-onboarding"))
}

func TestFeatureFlagsWithNoFlagCapableProvider(t *testing.T) {
	c := config.Default
	c.Main.Platform = config.NewOptPlatform(config.PlatformNative)
	c.Countly = sharedtest.MakeCountlyConfig()
	env := makeTestEnvWithConfig(t, c)

	assert.Equal(t, ldvalue.Null(), env.analytics.FeatureFlag("variant"))
	assert.False(t, env.analytics.IsFeatureEnabled("variant"))
	assert.Equal(t, ldvalue.ObjectBuild().Build(), env.analytics.AllFeatureFlags())

	unsubscribe := env.analytics.OnFeatureFlagsChange(func() {})
	require.NotNil(t, unsubscribe)
	unsubscribe()
}

func TestFeatureFlagFallsBackToBootstrapValues(t *testing.T) {
	c := sharedtest.MakeBasicConfig()
	c.PostHog.BootstrapFlag = ct.NewOptStringList([]string{"new-onboarding=true"})
	env := makeTestEnvWithConfig(t, c)
	env.posthog.FlagErr = assert.AnError

	assert.Equal(t, ldvalue.Bool(true), env.analytics.FeatureFlag("new-onboarding"))
	assert.True(t, env.analytics.IsFeatureEnabled("new-onboarding"))
}

func TestOnFeatureFlagsChangeFiresOnIdentityChanges(t *testing.T) {
	env := makeTestEnv(t)

	notified := 0
	unsubscribe := env.analytics.OnFeatureFlagsChange(func() { notified++ })

	env.analytics.Identify("user-42", ldvalue.Null())
	assert.Equal(t, 1, notified)

	env.analytics.Reset()
	assert.Equal(t, 2, notified)

	unsubscribe()
	env.analytics.Identify("user-43", ldvalue.Null())
	assert.Equal(t, 2, notified)
}
