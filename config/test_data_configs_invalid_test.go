package config

func makeInvalidConfigNoProviders() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "no providers configured"}
	c.envVarsError = "you must configure at least one analytics provider"
	c.envVars = map[string]string{"DEBUG": "1"}
	c.fileContent = `
[Main]
Debug = true
`
	return c
}

func makeInvalidConfigCountlyWithoutURL() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "Countly without server URL"}
	c.envVarsError = "server URL is required when Countly is configured"
	c.envVars = map[string]string{"COUNTLY_APP_KEY": "appkey"}
	c.fileContent = `
[Countly]
AppKey = appkey
`
	return c
}

func makeInvalidConfigCountlyWithoutAppKey() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "Countly without app key"}
	c.envVarsError = "app key is required when Countly is configured"
	c.envVars = map[string]string{"COUNTLY_SERVER_URL": "https://countly.example.com"}
	c.fileContent = `
[Countly]
ServerURL = https://countly.example.com
`
	return c
}

func makeInvalidConfigCountlyLocationWithoutCountry() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "Countly location without country code"}
	c.envVarsError = "country code is required when city or IP address is set"
	c.envVars = map[string]string{
		"COUNTLY_SERVER_URL": "https://countly.example.com",
		"COUNTLY_APP_KEY":    "appkey",
		"COUNTLY_CITY":       "Berlin",
	}
	c.fileContent = `
[Countly]
ServerURL = https://countly.example.com
AppKey = appkey
City = Berlin
`
	return c
}

func makeInvalidConfigPostHogWithoutAPIKey() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "PostHog without API key"}
	c.envVarsError = "API key is required when PostHog is configured"
	c.envVars = map[string]string{"POSTHOG_AUTOCAPTURE": "true"}
	c.fileContent = `
[PostHog]
Autocapture = true
`
	return c
}

func makeInvalidConfigBadPlatform() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "invalid platform"}
	c.envVarsError = `"desktop" is not a valid platform`
	c.envVars = map[string]string{
		"PLATFORM":        "desktop",
		"POSTHOG_API_KEY": "phc-key",
	}
	c.fileContent = `
[Main]
Platform = desktop

[PostHog]
APIKey = phc-key
`
	return c
}

func makeInvalidConfigBadBootstrapFlag() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "invalid bootstrap flag entry"}
	c.envVarsError = "is not a valid bootstrap flag entry"
	c.envVars = map[string]string{
		"POSTHOG_API_KEY":        "phc-key",
		"POSTHOG_BOOTSTRAP_FLAG": "justakeywithnovalue",
	}
	c.fileContent = `
[PostHog]
APIKey = phc-key
BootstrapFlag = justakeywithnovalue
`
	return c
}
