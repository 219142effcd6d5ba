package config

import (
	"os"
	"strings"

	ct "github.com/launchdarkly/go-configtypes"
)

type testDataValidConfig struct {
	name        string
	makeConfig  func(c *Config)
	warnings    []string
	envVars     map[string]string
	fileContent string
}

type testDataInvalidConfig struct {
	name         string
	envVarsError string
	fileError    string
	envVars      map[string]string
	fileContent  string
}

func makeValidConfigs() []testDataValidConfig {
	return []testDataValidConfig{
		makeValidConfigAllMainProperties(),
		makeValidConfigCountlyMinimal(),
		makeValidConfigCountlyAll(),
		makeValidConfigPostHogMinimal(),
		makeValidConfigPostHogAll(),
	}
}

func makeInvalidConfigs() []testDataInvalidConfig {
	return []testDataInvalidConfig{
		makeInvalidConfigNoProviders(),
		makeInvalidConfigCountlyWithoutURL(),
		makeInvalidConfigCountlyWithoutAppKey(),
		makeInvalidConfigCountlyLocationWithoutCountry(),
		makeInvalidConfigPostHogWithoutAPIKey(),
		makeInvalidConfigBadPlatform(),
		makeInvalidConfigBadBootstrapFlag(),
	}
}

func withEnvironment(vars map[string]string, action func()) {
	saved := make(map[string]string)
	for _, kv := range os.Environ() {
		p := strings.Index(kv, "=")
		saved[kv[:p]] = kv[p+1:]
	}
	defer func() {
		os.Clearenv()
		for k, v := range saved {
			os.Setenv(k, v)
		}
	}()
	os.Clearenv()
	for k, v := range vars {
		os.Setenv(k, v)
	}
	action()
}

func mustOptStringList(values ...string) ct.OptStringList {
	return ct.NewOptStringList(values)
}

// How env var reading of multi-valued options behaves is covered by go-configtypes
// itself; here we only use single entries.
