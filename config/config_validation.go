package config

import (
	"errors"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

var (
	errNoProviders           = errors.New("you must configure at least one analytics provider (Countly or PostHog)")
	errCountlyWithoutURL     = errors.New("server URL is required when Countly is configured")
	errCountlyWithoutAppKey  = errors.New("app key is required when Countly is configured")
	errPostHogWithoutAPIKey  = errors.New("API key is required when PostHog is configured")
	errCountlyLocationFields = errors.New("country code is required when city or IP address is set")
)

// ConfigurationError indicates that an Analytics instance could not be constructed
// because the supplied configuration was rejected by ValidateConfig. It always happens
// before any provider or network activity is started.
type ConfigurationError struct {
	err error
}

func (e ConfigurationError) Error() string {
	return "invalid configuration: " + e.err.Error()
}

func (e ConfigurationError) Unwrap() error {
	return e.err
}

// IsConfigurationError returns true if the error, or any error it wraps, is a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce ConfigurationError
	return errors.As(err, &ce)
}

// ValidateConfig ensures that the configuration is self-consistent and canonicalizes
// settings where a simpler internal form exists (for instance, parsing the PostHog
// bootstrap flag list into a map).
//
// LoadConfigFile and LoadConfigFromEnvironment both call this as a last step, but it is
// also called again by the Analytics constructor because a Config can be built
// programmatically. Any failure is reported as a ConfigurationError.
func ValidateConfig(c *Config, loggers ldlog.Loggers) error {
	var result ct.ValidationResult

	validateConfigProviders(&result, c)
	normalizePostHogConfig(&result, c, loggers)

	if err := result.GetError(); err != nil {
		return ConfigurationError{err: err}
	}
	return nil
}

func validateConfigProviders(result *ct.ValidationResult, c *Config) {
	hasCountly := c.Countly.IsConfigured()
	hasPostHog := c.PostHog.IsConfigured()

	if !hasCountly && !hasPostHog {
		result.AddError(nil, errNoProviders)
		return
	}

	if hasCountly {
		if !c.Countly.ServerURL.IsDefined() {
			result.AddError(ct.ValidationPath{"Countly", "ServerURL"}, errCountlyWithoutURL)
		}
		if c.Countly.AppKey == "" {
			result.AddError(ct.ValidationPath{"Countly", "AppKey"}, errCountlyWithoutAppKey)
		}
		if (c.Countly.City != "" || c.Countly.IPAddress != "") && c.Countly.CountryCode == "" {
			result.AddError(ct.ValidationPath{"Countly", "CountryCode"}, errCountlyLocationFields)
		}
	}

	if hasPostHog && c.PostHog.APIKey == "" {
		result.AddError(ct.ValidationPath{"PostHog", "APIKey"}, errPostHogWithoutAPIKey)
	}
}

func normalizePostHogConfig(result *ct.ValidationResult, c *Config, loggers ldlog.Loggers) {
	if !c.PostHog.Host.IsDefined() {
		c.PostHog.Host = defaultPostHogHost
	}

	entries := c.PostHog.BootstrapFlag.Values()
	if len(entries) == 0 {
		return
	}
	flags := make(BootstrapFlags, len(entries))
	for k, v := range c.PostHog.ParsedBootstrapFlags {
		flags[k] = v
	}
	for _, entry := range entries {
		key, value, err := ParseBootstrapFlag(entry)
		if err != nil {
			result.AddError(ct.ValidationPath{"PostHog", "BootstrapFlag"}, err)
			continue
		}
		if _, seen := flags[key]; seen {
			loggers.Warnf("Bootstrap flag %q is defined more than once; using the last value", key)
		}
		flags[key] = value
	}
	c.PostHog.ParsedBootstrapFlags = flags
	c.PostHog.BootstrapFlag = ct.OptStringList{}
}
