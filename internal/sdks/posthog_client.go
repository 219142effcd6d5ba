package sdks

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/posthog/posthog-go"

	"github.com/mohitsharma90015656/unified-analytics/config"
)

// postHogSDKClient is the default PostHogClient, backed by the official posthog-go SDK.
// The SDK owns batching, flushing, and the feature flag cache.
type postHogSDKClient struct {
	client posthog.Client
}

func newPostHogSDKClient(params PostHogParams) (PostHogClient, error) {
	cfg := posthog.Config{
		Endpoint: params.Config.Host.String(),
		Logger:   ldlogPostHogLogger{loggers: params.Loggers},
		DefaultFeatureFlagsPollingInterval: params.Config.FlagPollInterval.GetOrElse(
			config.DefaultFlagPollInterval,
		),
	}
	client, err := posthog.NewWithConfig(string(params.Config.APIKey), cfg)
	if err != nil {
		return nil, err
	}
	return &postHogSDKClient{client: client}, nil
}

func (c *postHogSDKClient) Capture(distinctID, event string, properties map[string]interface{}) error {
	return c.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: posthog.Properties(properties),
	})
}

func (c *postHogSDKClient) Identify(distinctID string, properties map[string]interface{}) error {
	return c.client.Enqueue(posthog.Identify{
		DistinctId: distinctID,
		Properties: posthog.Properties(properties),
	})
}

func (c *postHogSDKClient) Alias(previousID, distinctID string) error {
	return c.client.Enqueue(posthog.Alias{
		DistinctId: previousID,
		Alias:      distinctID,
	})
}

func (c *postHogSDKClient) GetFeatureFlag(key, distinctID string) (interface{}, error) {
	return c.client.GetFeatureFlag(posthog.FeatureFlagPayload{
		Key:        key,
		DistinctId: distinctID,
	})
}

func (c *postHogSDKClient) IsFeatureEnabled(key, distinctID string) (bool, error) {
	value, err := c.client.IsFeatureEnabled(posthog.FeatureFlagPayload{
		Key:        key,
		DistinctId: distinctID,
	})
	if err != nil {
		return false, err
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		// Multivariate flags report their variant key; any variant counts as enabled.
		return v != "" && v != "false", nil
	default:
		return false, nil
	}
}

func (c *postHogSDKClient) AllFlags(distinctID string) (map[string]interface{}, error) {
	return c.client.GetAllFlags(posthog.FeatureFlagPayloadNoKey{
		DistinctId: distinctID,
	})
}

func (c *postHogSDKClient) ReloadFeatureFlags() error {
	return c.client.ReloadFeatureFlags()
}

func (c *postHogSDKClient) Close() error {
	return c.client.Close()
}

// ldlogPostHogLogger routes the SDK's own log output through our loggers.
type ldlogPostHogLogger struct {
	loggers ldlog.Loggers
}

func (l ldlogPostHogLogger) Logf(format string, args ...interface{}) {
	l.loggers.Debugf(format, args...)
}

func (l ldlogPostHogLogger) Errorf(format string, args ...interface{}) {
	l.loggers.Errorf(format, args...)
}
