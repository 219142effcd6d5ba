package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// ErrInvalidPlatform is the underlying error for any attempt to use a platform name other
// than "web" or "native". Use errors.Is to test for it.
var ErrInvalidPlatform = errors.New(`platform must be either "web" or "native"`)

// AppKey is a type tag to indicate when a string is used as the Countly application key.
type AppKey string

// APIKey is a type tag to indicate when a string is used as the PostHog project API key.
type APIKey string

// ProviderCredential is implemented by types that represent a provider authorization
// credential (AppKey, APIKey).
type ProviderCredential interface {
	// Masked returns a partially obscured form of the credential that is safe to log.
	Masked() string
}

// Masked for AppKey obscures all but a short suffix of the key.
func (k AppKey) Masked() string {
	return maskKey(string(k))
}

// Masked for APIKey obscures all but a short suffix of the key.
func (k APIKey) Masked() string {
	return maskKey(string(k))
}

// UnmarshalText allows AppKey to be read from an environment variable or configuration
// file value.
func (k *AppKey) UnmarshalText(data []byte) error {
	*k = AppKey(data)
	return nil
}

// UnmarshalText allows APIKey to be read from an environment variable or configuration
// file value.
func (k *APIKey) UnmarshalText(data []byte) error {
	*k = APIKey(data)
	return nil
}

func maskKey(key string) string {
	if len(key) <= 5 {
		return key
	}
	return strings.Repeat("*", len(key)-5) + key[len(key)-5:]
}

// Platform identifies the runtime environment that the application is being built for,
// which determines which variant of each provider adapter is used.
type Platform string

const (
	// PlatformWeb selects the browser-oriented adapter variants.
	PlatformWeb Platform = "web"

	// PlatformNative selects the mobile-app-shell adapter variants.
	PlatformNative Platform = "native"
)

// IsValid returns true for the two recognized platform values.
func (p Platform) IsValid() bool {
	return p == PlatformWeb || p == PlatformNative
}

// OptPlatform represents an optional platform parameter which, if present, must be one of
// the recognized platform names.
//
// The zero value OptPlatform{} is valid and undefined (IsDefined() is false).
type OptPlatform struct {
	platform Platform
}

// NewOptPlatform creates an OptPlatform that wraps the given value.
func NewOptPlatform(platform Platform) OptPlatform {
	return OptPlatform{platform: platform}
}

// NewOptPlatformFromString creates an OptPlatform from a string that must either be a
// valid platform name or an empty string.
func NewOptPlatformFromString(name string) (OptPlatform, error) {
	if name == "" {
		return OptPlatform{}, nil
	}
	p := Platform(strings.ToLower(name))
	if !p.IsValid() {
		return OptPlatform{}, errBadPlatform(name)
	}
	return NewOptPlatform(p), nil
}

// IsDefined returns true if the instance contains a value.
func (o OptPlatform) IsDefined() bool {
	return o.platform != ""
}

// GetOrElse returns the wrapped value, or the alternative value if there is no value.
func (o OptPlatform) GetOrElse(orElseValue Platform) Platform {
	if o.platform == "" {
		return orElseValue
	}
	return o.platform
}

// UnmarshalText attempts to parse the value from a byte string, using the same logic as
// NewOptPlatformFromString.
func (o *OptPlatform) UnmarshalText(data []byte) error {
	opt, err := NewOptPlatformFromString(string(data))
	if err == nil {
		*o = opt
	}
	return err
}

func errBadPlatform(s string) error {
	return fmt.Errorf("%q is not a valid platform: %w", s, ErrInvalidPlatform)
}

// OptLogLevel represents an optional log level parameter. It must match one of the level
// names "debug", "info", "warn", or "error" (case-insensitive).
//
// The zero value OptLogLevel{} is valid and undefined (IsDefined() is false).
type OptLogLevel struct {
	level ldlog.LogLevel
}

// NewOptLogLevel creates an OptLogLevel that wraps the given value.
func NewOptLogLevel(level ldlog.LogLevel) OptLogLevel {
	return OptLogLevel{level: level}
}

// NewOptLogLevelFromString creates an OptLogLevel from a string that must either be a
// valid log level name or an empty string.
func NewOptLogLevelFromString(levelName string) (OptLogLevel, error) {
	if levelName == "" {
		return OptLogLevel{}, nil
	}
	for _, level := range []ldlog.LogLevel{ldlog.Debug, ldlog.Info, ldlog.Warn, ldlog.Error, ldlog.None} {
		if strings.EqualFold(level.Name(), levelName) {
			return NewOptLogLevel(level), nil
		}
	}
	return OptLogLevel{}, errBadLogLevel(levelName)
}

// IsDefined returns true if the instance contains a value.
func (o OptLogLevel) IsDefined() bool {
	return o.level != 0
}

// GetOrElse returns the wrapped value, or the alternative value if there is no value.
func (o OptLogLevel) GetOrElse(orElseValue ldlog.LogLevel) ldlog.LogLevel {
	if o.level == 0 {
		return orElseValue
	}
	return o.level
}

// UnmarshalText attempts to parse the value from a byte string, using the same logic as
// NewOptLogLevelFromString.
func (o *OptLogLevel) UnmarshalText(data []byte) error {
	opt, err := NewOptLogLevelFromString(string(data))
	if err == nil {
		*o = opt
	}
	return err
}

func errBadLogLevel(s string) error {
	return fmt.Errorf("%q is not a valid log level", s)
}

// BootstrapFlags is a set of locally known feature flag values, keyed by flag key.
type BootstrapFlags map[string]ldvalue.Value

// ParseBootstrapFlag parses one "key=value" bootstrap flag entry. The value is parsed as
// JSON where possible ("true", "3", `"s"`); anything that is not valid JSON is treated as
// a plain string, so `retention=control` and `retention="control"` are equivalent.
func ParseBootstrapFlag(s string) (string, ldvalue.Value, error) {
	key, rawValue, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", ldvalue.Null(), errBadBootstrapFlag(s)
	}
	rawValue = strings.TrimSpace(rawValue)
	var parsed interface{}
	if err := json.Unmarshal([]byte(rawValue), &parsed); err != nil {
		return key, ldvalue.String(rawValue), nil
	}
	return key, ldvalue.CopyArbitraryValue(parsed), nil
}

func errBadBootstrapFlag(s string) error {
	return fmt.Errorf("%q is not a valid bootstrap flag entry (want key=value)", s)
}

func newOptAbsoluteURLMustBeValid(urlString string) ct.OptURLAbsolute {
	o, err := ct.NewOptURLAbsoluteFromString(urlString)
	if err != nil {
		panic(err)
	}
	return o
}
