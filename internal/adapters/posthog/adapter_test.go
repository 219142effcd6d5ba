package posthog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mohitsharma90015656/unified-analytics/config"
	"github.com/mohitsharma90015656/unified-analytics/internal/basictypes"
	"github.com/mohitsharma90015656/unified-analytics/internal/providers"
	"github.com/mohitsharma90015656/unified-analytics/internal/sdks"
	"github.com/mohitsharma90015656/unified-analytics/internal/sharedtest"
)

func makeTestParams(client *sharedtest.FakePostHogClient, kind sdks.Kind) providers.AdapterParams {
	c := config.Default
	c.PostHog = sharedtest.MakePostHogConfig()
	return providers.AdapterParams{
		AllConfig: c,
		Kind:      kind,
		Factories: sdks.ClientFactories{PostHog: client.Factory()},
		Loggers:   ldlogtest.NewMockLog().Loggers,
	}
}

func makeAdapterFromParams(t *testing.T, params providers.AdapterParams) providers.Provider {
	var adapter providers.Provider
	var err error
	if params.Kind == sdks.PostHogWeb {
		adapter, err = NewWebAdapter(params)
	} else {
		adapter, err = NewNativeAdapter(params)
	}
	require.NoError(t, err)
	require.NoError(t, adapter.Init(context.Background()))
	return adapter
}

func makeInitializedAdapter(t *testing.T, client *sharedtest.FakePostHogClient, kind sdks.Kind) providers.Provider {
	return makeAdapterFromParams(t, makeTestParams(client, kind))
}

func TestAdapterKindAndCapabilities(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	assert.Equal(t, basictypes.PostHogProvider, adapter.Kind())
	assert.Equal(t, providers.Capabilities{FeatureFlags: true}, adapter.Capabilities())
}

func TestOperationsBeforeInitReturnNotInitialized(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter, err := NewNativeAdapter(makeTestParams(client, sdks.PostHogNative))
	require.NoError(t, err)

	assert.False(t, adapter.IsInitialized())
	assert.ErrorIs(t, adapter.TrackEvent("e", ldvalue.Null()), providers.ErrNotInitialized)
	_, flagErr := adapter.FeatureFlag("f")
	assert.ErrorIs(t, flagErr, providers.ErrNotInitialized)
	assert.Empty(t, client.Captures)
}

func TestTrackEventMergesRegisteredProperties(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	require.NoError(t, adapter.SetProperties(ldvalue.ObjectBuild().
		Set("plan", ldvalue.String("pro")).
		Set("step", ldvalue.Int(1)).
		Build()))
	require.NoError(t, adapter.TrackEvent("purchase", ldvalue.ObjectBuild().
		Set("step", ldvalue.Int(2)).
		Build()))

	require.Len(t, client.Captures, 1)
	capture := client.Captures[0]
	assert.Equal(t, "purchase", capture.Event)
	assert.NotEmpty(t, capture.DistinctID)
	assert.Equal(t, "pro", capture.Properties["plan"])
	assert.Equal(t, float64(2), capture.Properties["step"])
}

func TestTrackViewPerVariant(t *testing.T) {
	t.Run("web tracks a pageview with the URL", func(t *testing.T) {
		client := sharedtest.NewFakePostHogClient()
		adapter := makeInitializedAdapter(t, client, sdks.PostHogWeb)

		require.NoError(t, adapter.TrackView("/checkout", ldvalue.Null()))

		require.Len(t, client.Captures, 1)
		assert.Equal(t, "$pageview", client.Captures[0].Event)
		assert.Equal(t, "/checkout", client.Captures[0].Properties["$current_url"])
	})

	t.Run("native tracks a screen with the screen name", func(t *testing.T) {
		client := sharedtest.NewFakePostHogClient()
		adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

		require.NoError(t, adapter.TrackView("Checkout", ldvalue.Null()))

		require.Len(t, client.Captures, 1)
		assert.Equal(t, "$screen", client.Captures[0].Event)
		assert.Equal(t, "Checkout", client.Captures[0].Properties["$screen_name"])
	})
}

func TestIdentifySwapsDistinctIDAndLinksHistory(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	manager, ok := adapter.(providers.DistinctIDManager)
	require.True(t, ok)
	anonymousID, err := manager.DistinctID()
	require.NoError(t, err)
	require.NotEmpty(t, anonymousID)

	require.NoError(t, adapter.Identify("user-42", ldvalue.ObjectBuild().
		Set("email", ldvalue.String("u@example.com")).
		Build()))

	require.Len(t, client.Aliases, 1)
	assert.Equal(t, sharedtest.AliasCall{PreviousID: anonymousID, DistinctID: "user-42"}, client.Aliases[0])
	require.Len(t, client.Identifies, 1)
	assert.Equal(t, "user-42", client.Identifies[0].DistinctID)
	assert.Equal(t, "u@example.com", client.Identifies[0].Properties["email"])

	id, err := manager.DistinctID()
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
}

func TestResetGeneratesFreshIdentity(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	require.NoError(t, adapter.Identify("user-42", ldvalue.Null()))
	require.NoError(t, adapter.SetProperties(ldvalue.ObjectBuild().
		Set("plan", ldvalue.String("pro")).
		Build()))
	require.NoError(t, adapter.Reset())

	manager := adapter.(providers.DistinctIDManager)
	id, err := manager.DistinctID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NotEqual(t, "user-42", id)

	properties, err := adapter.Properties()
	require.NoError(t, err)
	assert.Equal(t, 0, properties.Count())
}

func TestTrackErrorBecomesExceptionEvent(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	require.NoError(t, adapter.TrackError(basictypes.ErrorReport{
		Message:  "boom",
		Name:     "PaymentError",
		Stack:    "stacktrace",
		Fatal:    true,
		Metadata: ldvalue.ObjectBuild().Set("order", ldvalue.String("o-1")).Build(),
	}))

	require.Len(t, client.Captures, 1)
	capture := client.Captures[0]
	assert.Equal(t, "$exception", capture.Event)
	assert.Equal(t, "boom", capture.Properties["$exception_message"])
	assert.Equal(t, "PaymentError", capture.Properties["$exception_type"])
	assert.Equal(t, true, capture.Properties["fatal"])
	assert.Equal(t, "o-1", capture.Properties["order"])
}

func TestTimersAreUnsupported(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	assert.ErrorIs(t, adapter.StartTimer("t"), providers.ErrUnsupported)
	assert.ErrorIs(t, adapter.EndTimer("t", ldvalue.Null()), providers.ErrUnsupported)
}

func TestFeatureFlags(t *testing.T) {
	t.Run("returns the client's value", func(t *testing.T) {
		client := sharedtest.NewFakePostHogClient()
		client.Flags["variant"] = "control"
		adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

		value, err := adapter.FeatureFlag("variant")
		require.NoError(t, err)
		assert.Equal(t, ldvalue.String("control"), value)

		enabled, err := adapter.IsFeatureEnabled("variant")
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("falls back to bootstrap value when the client has no answer", func(t *testing.T) {
		client := sharedtest.NewFakePostHogClient()
		params := makeTestParams(client, sdks.PostHogNative)
		params.AllConfig.PostHog.ParsedBootstrapFlags = config.BootstrapFlags{
			"new-onboarding": ldvalue.Bool(true),
		}
		adapter := makeAdapterFromParams(t, params)

		value, err := adapter.FeatureFlag("new-onboarding")
		require.NoError(t, err)
		assert.Equal(t, ldvalue.Bool(true), value)
	})

	t.Run("falls back to bootstrap value when the fetch fails", func(t *testing.T) {
		client := sharedtest.NewFakePostHogClient()
		client.FlagErr = assert.AnError
		params := makeTestParams(client, sdks.PostHogNative)
		params.AllConfig.PostHog.ParsedBootstrapFlags = config.BootstrapFlags{
			"new-onboarding": ldvalue.Bool(true),
		}
		adapter := makeAdapterFromParams(t, params)

		value, err := adapter.FeatureFlag("new-onboarding")
		require.NoError(t, err)
		assert.Equal(t, ldvalue.Bool(true), value)

		enabled, err := adapter.IsFeatureEnabled("new-onboarding")
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("all flags overlays fetched values on bootstrap values", func(t *testing.T) {
		client := sharedtest.NewFakePostHogClient()
		client.Flags["variant"] = "control"
		params := makeTestParams(client, sdks.PostHogNative)
		params.AllConfig.PostHog.ParsedBootstrapFlags = config.BootstrapFlags{
			"variant":        ldvalue.String("bootstrap"),
			"new-onboarding": ldvalue.Bool(true),
		}
		adapter := makeAdapterFromParams(t, params)

		all, err := adapter.AllFeatureFlags()
		require.NoError(t, err)
		assert.Equal(t, ldvalue.String("control"), all.GetByKey("variant"))
		assert.Equal(t, ldvalue.Bool(true), all.GetByKey("new-onboarding"))
	})
}

func TestFlagChangeListeners(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	notified := 0
	unsubscribe, err := adapter.OnFeatureFlagsChange(func() { notified++ })
	require.NoError(t, err)

	require.NoError(t, adapter.Identify("user-42", ldvalue.Null()))
	assert.Equal(t, 1, notified)

	require.NoError(t, adapter.Reset())
	assert.Equal(t, 2, notified)

	unsubscribe()
	require.NoError(t, adapter.Identify("user-43", ldvalue.Null()))
	assert.Equal(t, 2, notified)
}

func TestIdentityChangesForceAFlagReload(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	require.NoError(t, adapter.Identify("user-42", ldvalue.Null()))
	assert.Equal(t, 1, client.Reloads)

	require.NoError(t, adapter.Reset())
	assert.Equal(t, 2, client.Reloads)
}

func TestSetDebugRestoresConfiguredLogLevel(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	params := makeTestParams(client, sdks.PostHogNative)
	params.AllConfig.PostHog.LogLevel = config.NewOptLogLevel(ldlog.Warn)
	mockLog := ldlogtest.NewMockLog()
	params.Loggers = mockLog.Loggers

	adapter, err := NewNativeAdapter(params)
	require.NoError(t, err)
	adapter.SetDebug(true)
	adapter.SetDebug(false)
	require.NoError(t, adapter.Init(context.Background()))

	// With the Warn level back in force, Init's info-level message is suppressed.
	mockLog.AssertMessageMatch(t, false, ldlog.Info, "Initialized PostHog provider")
}

func TestAutocaptureAndSessionReplayBecomeRegisteredProperties(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	params := makeTestParams(client, sdks.PostHogNative)
	params.AllConfig.PostHog.Autocapture = true
	params.AllConfig.PostHog.SessionReplay = true
	adapter := makeAdapterFromParams(t, params)

	properties, err := adapter.Properties()
	require.NoError(t, err)
	assert.Equal(t, ldvalue.Bool(true), properties.GetByKey("$autocapture"))
	assert.Equal(t, ldvalue.Bool(true), properties.GetByKey("$session_recording"))
}

func TestRuntimeFailuresAreReturnedNotPanicked(t *testing.T) {
	client := sharedtest.NewFakePostHogClient()
	adapter := makeInitializedAdapter(t, client, sdks.PostHogNative)

	client.FailWith = assert.AnError
	assert.Error(t, adapter.TrackEvent("e", ldvalue.Null()))
	assert.Error(t, adapter.Identify("u", ldvalue.Null()))
}
