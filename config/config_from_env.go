package config

import (
	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoadConfigFromEnvironment sets parameters in a Config struct from environment
// variables, then performs validation.
//
// The Config parameter should be initialized with default values first (see Default).
func LoadConfigFromEnvironment(c *Config, loggers ldlog.Loggers) error {
	reader := ct.NewVarReaderFromEnvironment()

	reader.ReadStruct(&c.Main, false)
	reader.ReadStruct(&c.Countly, false)
	reader.ReadStruct(&c.PostHog, false)

	if !reader.Result().OK() {
		return ConfigurationError{err: reader.Result().GetError()}
	}

	return ValidateConfig(c, loggers)
}
