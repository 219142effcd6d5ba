package config

import (
	"time"

	ct "github.com/launchdarkly/go-configtypes"
)

const (
	// DefaultPostHogHost is the default value for PostHogConfig.Host if not specified.
	DefaultPostHogHost = "https://us.i.posthog.com"

	// DefaultInitTimeout is the default value for MainConfig.InitTimeout if not specified.
	// It bounds how long New will wait for the configured providers to finish starting up.
	DefaultInitTimeout = time.Second * 10

	// DefaultFlagPollInterval is the default value for PostHogConfig.FlagPollInterval if
	// not specified. It is passed through to the wrapped SDK client.
	DefaultFlagPollInterval = time.Minute * 5
)

var (
	defaultPostHogHost = newOptAbsoluteURLMustBeValid(DefaultPostHogHost) //nolint:gochecknoglobals
)

// Config describes the full configuration for an Analytics instance.
//
// If you are configuring the facade programmatically, it is best to start by copying
// config.Default and then changing only the fields you need to change. Each provider
// section is optional; a provider is only started if its section is configured.
type Config struct {
	Main    MainConfig
	Countly CountlyConfig
	PostHog PostHogConfig
}

// MainConfig contains configuration options that are not specific to one provider.
//
// This corresponds to the [Main] section in the configuration file.
//
// Since configuration options can be set either programmatically, or from a file, or from
// environment variables, individual fields are not documented here; instead, see the
// `README.md` section on configuration.
type MainConfig struct {
	Platform         OptPlatform    `conf:"PLATFORM"`
	Debug            bool           `conf:"DEBUG"`
	TrackScreenViews ct.OptBool     `conf:"TRACK_SCREEN_VIEWS"`
	LogLevel         OptLogLevel    `conf:"LOG_LEVEL"`
	InitTimeout      ct.OptDuration `conf:"INIT_TIMEOUT"`
}

// CountlyConfig describes the Countly provider. Countly is enabled if any of its fields
// is set; ServerURL and AppKey are then both required.
//
// This corresponds to the [Countly] section in the configuration file.
type CountlyConfig struct {
	ServerURL       ct.OptURLAbsolute `conf:"COUNTLY_SERVER_URL"`
	AppKey          AppKey            `conf:"COUNTLY_APP_KEY"`
	DeviceID        string            `conf:"COUNTLY_DEVICE_ID"`
	RequiresConsent bool              `conf:"COUNTLY_REQUIRES_CONSENT"`
	CrashReporting  ct.OptBool        `conf:"COUNTLY_CRASH_REPORTING"`
	SessionTimeout  ct.OptDuration    `conf:"COUNTLY_SESSION_TIMEOUT"`
	CountryCode     string            `conf:"COUNTLY_COUNTRY_CODE"`
	City            string            `conf:"COUNTLY_CITY"`
	IPAddress       string            `conf:"COUNTLY_IP_ADDRESS"`
	LogLevel        OptLogLevel       `conf:"COUNTLY_LOG_LEVEL"`
}

// PostHogConfig describes the PostHog provider. PostHog is enabled if any of its fields
// is set; APIKey is then required.
//
// The BootstrapFlag list provides locally known feature flag values that are served until
// the wrapped SDK has fetched real ones. Each entry is a "key=value" pair; values are
// parsed as JSON where possible and fall back to strings. ValidateConfig canonicalizes
// the list into ParsedBootstrapFlags.
//
// This corresponds to the [PostHog] section in the configuration file.
type PostHogConfig struct {
	APIKey           APIKey            `conf:"POSTHOG_API_KEY"`
	Host             ct.OptURLAbsolute `conf:"POSTHOG_HOST"`
	Autocapture      bool              `conf:"POSTHOG_AUTOCAPTURE"`
	SessionReplay    bool              `conf:"POSTHOG_SESSION_REPLAY"`
	FlagPollInterval ct.OptDuration    `conf:"POSTHOG_FLAG_POLL_INTERVAL"`
	BootstrapFlag    ct.OptStringList  `conf:"POSTHOG_BOOTSTRAP_FLAG"`
	LogLevel         OptLogLevel       `conf:"POSTHOG_LOG_LEVEL"`

	// ParsedBootstrapFlags is the canonicalized form of BootstrapFlag, produced by
	// ValidateConfig. It may also be set directly when configuring programmatically.
	ParsedBootstrapFlags BootstrapFlags
}

// Default contains the defaults for all configuration sections.
//
// If you are configuring the facade programmatically, it is best to start by copying
// config.Default and then changing only the fields you need to change.
var Default = Config{ //nolint:gochecknoglobals
	PostHog: PostHogConfig{
		Host: defaultPostHogHost,
	},
}

// IsConfigured returns true if any Countly option has been set, meaning that the Countly
// provider should be started.
func (c CountlyConfig) IsConfigured() bool {
	return c.ServerURL.IsDefined() || c.AppKey != "" || c.DeviceID != "" ||
		c.RequiresConsent || c.CrashReporting.IsDefined() || c.SessionTimeout.IsDefined() ||
		c.CountryCode != "" || c.City != "" || c.IPAddress != "" || c.LogLevel.IsDefined()
}

// IsConfigured returns true if any PostHog option has been set, meaning that the PostHog
// provider should be started. The Host field alone does not count, since it has a
// default value.
func (c PostHogConfig) IsConfigured() bool {
	return c.APIKey != "" || c.Autocapture || c.SessionReplay ||
		c.FlagPollInterval.IsDefined() || len(c.BootstrapFlag.Values()) != 0 ||
		c.LogLevel.IsDefined() || len(c.ParsedBootstrapFlags) != 0
}
