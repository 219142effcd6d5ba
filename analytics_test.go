package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mohitsharma90015656/unified-analytics/config"
	"github.com/mohitsharma90015656/unified-analytics/internal/sdks"
	"github.com/mohitsharma90015656/unified-analytics/internal/sharedtest"
)

type testEnv struct {
	analytics *Analytics
	countly   *sharedtest.FakeCountlyClient
	posthog   *sharedtest.FakePostHogClient
	mockLog   *ldlogtest.MockLog
}

func makeTestEnv(t *testing.T) *testEnv {
	return makeTestEnvWithConfig(t, sharedtest.MakeBasicConfig())
}

func makeTestEnvWithConfig(t *testing.T, c config.Config) *testEnv {
	countlyClient := sharedtest.NewFakeCountlyClient()
	posthogClient := sharedtest.NewFakePostHogClient()
	mockLog := ldlogtest.NewMockLog()
	mockLog.Loggers.SetMinLevel(ldlog.Debug)

	a, err := New(c, mockLog.Loggers, sdks.ClientFactories{
		Countly: countlyClient.Factory(),
		PostHog: posthogClient.Factory(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return &testEnv{analytics: a, countly: countlyClient, posthog: posthogClient, mockLog: mockLog}
}

func TestDefaultLoggersAreUsable(t *testing.T) {
	loggers := DefaultLoggers()
	assert.NotPanics(t, func() { loggers.Debug("suppressed at the default level") })
}

func TestNewStartsAllConfiguredProviders(t *testing.T) {
	env := makeTestEnv(t)

	assert.True(t, env.analytics.IsInitialized())
	assert.Equal(t, []string{"countly", "posthog"}, env.analytics.EnabledProviders())
	assert.True(t, env.analytics.HasProvider("countly"))
	assert.True(t, env.analytics.HasProvider("posthog"))
	assert.False(t, env.analytics.HasProvider("amplitude"))
	assert.Equal(t, config.PlatformNative, env.analytics.Platform())
}

func TestNewWithSingleProvider(t *testing.T) {
	c := config.Default
	c.Main.Platform = config.NewOptPlatform(config.PlatformNative)
	c.Countly = sharedtest.MakeCountlyConfig()
	env := makeTestEnvWithConfig(t, c)

	assert.Equal(t, []string{"countly"}, env.analytics.EnabledProviders())
	assert.False(t, env.analytics.HasProvider("posthog"))
}

func TestNewRejectsInvalidConfigBeforeTouchingProviders(t *testing.T) {
	clientsBuilt := 0
	countingFactory := func(sdks.CountlyParams) (sdks.CountlyClient, error) {
		clientsBuilt++
		return sharedtest.NewFakeCountlyClient(), nil
	}

	_, err := New(config.Default, ldlogtest.NewMockLog().Loggers,
		sdks.ClientFactories{Countly: countingFactory})

	require.Error(t, err)
	assert.True(t, config.IsConfigurationError(err))
	assert.Equal(t, 0, clientsBuilt)
}

func TestProviderInitFailureIsIsolated(t *testing.T) {
	c := sharedtest.MakeBasicConfig()
	posthogClient := sharedtest.NewFakePostHogClient()
	mockLog := ldlogtest.NewMockLog()

	a, err := New(c, mockLog.Loggers, sdks.ClientFactories{
		Countly: func(sdks.CountlyParams) (sdks.CountlyClient, error) {
			return nil, errors.New("server unreachable")
		},
		PostHog: posthogClient.Factory(),
	})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.IsInitialized())
	assert.Equal(t, []string{"posthog"}, a.EnabledProviders())
	mockLog.AssertMessageMatch(t, true, ldlog.Error, "countly.*failed to initialize")

	a.TrackEvent("purchase", ldvalue.Null())
	require.Len(t, posthogClient.Captures, 1)
	assert.Equal(t, "purchase", posthogClient.Captures[0].Event)
}

func TestProvidersSettlingAfterTheTimeoutAreShutDown(t *testing.T) {
	countlyClient := sharedtest.NewFakeCountlyClient()
	c := config.Default
	c.Main.Platform = config.NewOptPlatform(config.PlatformNative)
	c.Main.InitTimeout = ct.NewOptDuration(time.Millisecond)
	c.Countly = sharedtest.MakeCountlyConfig()
	mockLog := ldlogtest.NewMockLog()

	a, err := New(c, mockLog.Loggers, sdks.ClientFactories{
		Countly: func(sdks.CountlyParams) (sdks.CountlyClient, error) {
			time.Sleep(100 * time.Millisecond)
			return countlyClient, nil
		},
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.EnabledProviders())
	mockLog.AssertMessageMatch(t, true, ldlog.Warn, "Timed out after")
	assert.Eventually(t, countlyClient.IsClosed, time.Second, 10*time.Millisecond,
		"the client built after the timeout must be shut down, not leaked")
}

func TestPlatformSelectsAdapterVariant(t *testing.T) {
	c := sharedtest.MakeBasicConfig()
	c.Main.Platform = config.NewOptPlatform(config.PlatformWeb)
	env := makeTestEnvWithConfig(t, c)

	env.analytics.TrackView("/checkout", ldvalue.Null())

	require.Len(t, env.posthog.Captures, 1)
	assert.Equal(t, "$pageview", env.posthog.Captures[0].Event)
	assert.Equal(t, 0, env.countly.SessionsBegun, "web variant leaves sessions to the server")
}

func TestFlushReachesEveryProvider(t *testing.T) {
	env := makeTestEnv(t)

	require.NoError(t, env.analytics.Flush(context.Background()))
	assert.Equal(t, 1, env.countly.FlushCount)
}

func TestCloseShutsDownProviders(t *testing.T) {
	env := makeTestEnv(t)

	require.NoError(t, env.analytics.Close())

	assert.True(t, env.countly.Closed)
	assert.True(t, env.posthog.Closed)
	assert.False(t, env.analytics.IsInitialized())
	assert.Empty(t, env.analytics.EnabledProviders())

	env.analytics.TrackEvent("late", ldvalue.Null()) // must not panic
	assert.Empty(t, env.countly.Events)
}
