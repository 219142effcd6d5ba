package config

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

func (tdc testDataValidConfig) assertResult(t *testing.T, actualConfig Config, mockLog *ldlogtest.MockLog) {
	expectedConfig := Default
	tdc.makeConfig(&expectedConfig)
	assert.Equal(t, expectedConfig, actualConfig)
	for _, message := range tdc.warnings {
		mockLog.AssertMessageMatch(t, true, ldlog.Warn, regexp.QuoteMeta(message))
	}
}

func makeValidConfigAllMainProperties() testDataValidConfig {
	c := testDataValidConfig{name: "all main properties"}
	c.makeConfig = func(c *Config) {
		c.Main = MainConfig{
			Platform:         NewOptPlatform(PlatformWeb),
			Debug:            true,
			TrackScreenViews: ct.NewOptBool(false),
			LogLevel:         NewOptLogLevel(ldlog.Warn),
			InitTimeout:      ct.NewOptDuration(30 * time.Second),
		}
		c.PostHog.APIKey = APIKey("phc-key")
	}
	c.envVars = map[string]string{
		"PLATFORM":           "web",
		"DEBUG":              "1",
		"TRACK_SCREEN_VIEWS": "false",
		"LOG_LEVEL":          "warn",
		"INIT_TIMEOUT":       "30s",
		"POSTHOG_API_KEY":    "phc-key",
	}
	c.fileContent = `
[Main]
Platform = web
Debug = true
TrackScreenViews = false
LogLevel = warn
InitTimeout = 30s

[PostHog]
APIKey = phc-key
`
	return c
}

func makeValidConfigCountlyMinimal() testDataValidConfig {
	c := testDataValidConfig{name: "Countly minimal"}
	c.makeConfig = func(c *Config) {
		c.Countly = CountlyConfig{
			ServerURL: newOptAbsoluteURLMustBeValid("https://countly.example.com"),
			AppKey:    AppKey("appkey"),
		}
	}
	c.envVars = map[string]string{
		"COUNTLY_SERVER_URL": "https://countly.example.com",
		"COUNTLY_APP_KEY":    "appkey",
	}
	c.fileContent = `
[Countly]
ServerURL = https://countly.example.com
AppKey = appkey
`
	return c
}

func makeValidConfigCountlyAll() testDataValidConfig {
	c := testDataValidConfig{name: "Countly all properties"}
	c.makeConfig = func(c *Config) {
		c.Countly = CountlyConfig{
			ServerURL:       newOptAbsoluteURLMustBeValid("https://countly.example.com"),
			AppKey:          AppKey("appkey"),
			DeviceID:        "device-1",
			RequiresConsent: true,
			CrashReporting:  ct.NewOptBool(false),
			SessionTimeout:  ct.NewOptDuration(time.Minute),
			CountryCode:     "DE",
			City:            "Berlin",
			IPAddress:       "10.1.2.3",
			LogLevel:        NewOptLogLevel(ldlog.Error),
		}
	}
	c.envVars = map[string]string{
		"COUNTLY_SERVER_URL":       "https://countly.example.com",
		"COUNTLY_APP_KEY":          "appkey",
		"COUNTLY_DEVICE_ID":        "device-1",
		"COUNTLY_REQUIRES_CONSENT": "true",
		"COUNTLY_CRASH_REPORTING":  "false",
		"COUNTLY_SESSION_TIMEOUT":  "1m",
		"COUNTLY_COUNTRY_CODE":     "DE",
		"COUNTLY_CITY":             "Berlin",
		"COUNTLY_IP_ADDRESS":       "10.1.2.3",
		"COUNTLY_LOG_LEVEL":        "error",
	}
	c.fileContent = `
[Countly]
ServerURL = https://countly.example.com
AppKey = appkey
DeviceID = device-1
RequiresConsent = true
CrashReporting = false
SessionTimeout = 1m
CountryCode = DE
City = Berlin
IPAddress = 10.1.2.3
LogLevel = error
`
	return c
}

func makeValidConfigPostHogMinimal() testDataValidConfig {
	c := testDataValidConfig{name: "PostHog minimal"}
	c.makeConfig = func(c *Config) {
		c.PostHog.APIKey = APIKey("phc-key")
	}
	c.envVars = map[string]string{
		"POSTHOG_API_KEY": "phc-key",
	}
	c.fileContent = `
[PostHog]
APIKey = phc-key
`
	return c
}

func makeValidConfigPostHogAll() testDataValidConfig {
	c := testDataValidConfig{name: "PostHog all properties"}
	c.makeConfig = func(c *Config) {
		c.PostHog = PostHogConfig{
			APIKey:           APIKey("phc-key"),
			Host:             newOptAbsoluteURLMustBeValid("https://eu.posthog.example.com"),
			Autocapture:      true,
			SessionReplay:    true,
			FlagPollInterval: ct.NewOptDuration(time.Minute),
			LogLevel:         NewOptLogLevel(ldlog.Debug),
			ParsedBootstrapFlags: BootstrapFlags{
				"new-onboarding": ldvalue.Bool(true),
			},
		}
	}
	c.envVars = map[string]string{
		"POSTHOG_API_KEY":            "phc-key",
		"POSTHOG_HOST":               "https://eu.posthog.example.com",
		"POSTHOG_AUTOCAPTURE":        "true",
		"POSTHOG_SESSION_REPLAY":     "true",
		"POSTHOG_FLAG_POLL_INTERVAL": "1m",
		"POSTHOG_LOG_LEVEL":          "debug",
		"POSTHOG_BOOTSTRAP_FLAG":     "new-onboarding=true",
	}
	c.fileContent = `
[PostHog]
APIKey = phc-key
Host = https://eu.posthog.example.com
Autocapture = true
SessionReplay = true
FlagPollInterval = 1m
LogLevel = debug
BootstrapFlag = new-onboarding=true
`
	return c
}
