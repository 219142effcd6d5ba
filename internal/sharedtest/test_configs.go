package sharedtest

import (
	ct "github.com/launchdarkly/go-configtypes"

	"github.com/mohitsharma90015656/unified-analytics/config"
)

// Credential values used throughout the tests.
const (
	TestCountlyAppKey = config.AppKey("countly-app-key-abcde")
	TestPostHogAPIKey = config.APIKey("phc_test_api_key_12345")

	TestCountlyServerURL = "https://countly.example.com"
	TestPostHogHost      = "https://posthog.example.com"
)

// MakeCountlyConfig returns a minimal valid Countly section.
func MakeCountlyConfig() config.CountlyConfig {
	return config.CountlyConfig{
		ServerURL: MustOptURL(TestCountlyServerURL),
		AppKey:    TestCountlyAppKey,
	}
}

// MakePostHogConfig returns a minimal valid PostHog section.
func MakePostHogConfig() config.PostHogConfig {
	return config.PostHogConfig{
		APIKey: TestPostHogAPIKey,
		Host:   MustOptURL(TestPostHogHost),
	}
}

// MakeBasicConfig returns a configuration with both providers enabled and the native
// platform selected, so tests do not depend on auto-detection.
func MakeBasicConfig() config.Config {
	c := config.Default
	c.Main.Platform = config.NewOptPlatform(config.PlatformNative)
	c.Countly = MakeCountlyConfig()
	c.PostHog = MakePostHogConfig()
	return c
}

// MustOptURL parses an absolute URL option, panicking on failure. For test fixtures only.
func MustOptURL(urlString string) ct.OptURLAbsolute {
	o, err := ct.NewOptURLAbsoluteFromString(urlString)
	if err != nil {
		panic(err)
	}
	return o
}
