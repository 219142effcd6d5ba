package sdks

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mohitsharma90015656/unified-analytics/config"
)

// CountlyParams is everything a CountlyClientFactory needs to construct a client.
type CountlyParams struct {
	Config  config.CountlyConfig
	Kind    Kind
	Loggers ldlog.Loggers
}

// PostHogParams is everything a PostHogClientFactory needs to construct a client.
type PostHogParams struct {
	Config  config.PostHogConfig
	Kind    Kind
	Loggers ldlog.Loggers
}

// CountlyClientFactory is a function that creates the wrapped Countly client. It can be
// replaced to customize client construction, or in tests to inject a fake.
type CountlyClientFactory func(params CountlyParams) (CountlyClient, error)

// PostHogClientFactory is the equivalent of CountlyClientFactory for PostHog.
type PostHogClientFactory func(params PostHogParams) (PostHogClient, error)

// ClientFactories aggregates the client factories for all supported providers. Zero-value
// fields fall back to the default factories.
type ClientFactories struct {
	Countly CountlyClientFactory
	PostHog PostHogClientFactory
}

// DefaultClientFactories returns factories that create the real wrapped SDK clients.
func DefaultClientFactories() ClientFactories {
	return ClientFactories{
		Countly: newCountlyTransportClient,
		PostHog: newPostHogSDKClient,
	}
}

// WithDefaults fills in any unset factory with its default.
func (f ClientFactories) WithDefaults() ClientFactories {
	defaults := DefaultClientFactories()
	if f.Countly == nil {
		f.Countly = defaults.Countly
	}
	if f.PostHog == nil {
		f.PostHog = defaults.PostHog
	}
	return f
}
