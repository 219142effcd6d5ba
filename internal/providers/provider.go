// Package providers defines the contract that every concrete backend adapter implements,
// and the per-provider proxy that resolves and owns exactly one adapter instance.
package providers

import (
	"context"
	"errors"
	"io"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mohitsharma90015656/unified-analytics/internal/basictypes"
)

var (
	// ErrUnsupported is returned by an adapter operation that its backend has no concept
	// of. It marks a capability gap rather than a runtime failure; callers collapse it to
	// a neutral default, optionally noting it in debug logs.
	ErrUnsupported = errors.New("operation is not supported by this provider")

	// ErrNotInitialized is returned by adapter operations invoked before Init has
	// completed successfully. Mutating operations must degrade to this error rather than
	// panicking or touching the wrapped SDK.
	ErrNotInitialized = errors.New("provider has not been initialized")
)

// Capabilities describes which optional feature families a provider's backend supports.
// Operations in an unsupported family degrade to neutral defaults instead of failing.
type Capabilities struct {
	FeatureFlags       bool
	TimedEvents        bool
	CrashReporting     bool
	DeviceIDManagement bool
}

// Provider is the contract between the unified facade and one concrete backend adapter.
//
// Implementations translate each unified operation into their wrapped SDK's native calls
// and absorb that SDK's runtime failures: an error return here is informational (it is
// logged and collapsed to a neutral default by the Proxy), with the sole exception of
// Init, whose error is propagated so the orchestrator can disable the provider.
//
// Property bags are ldvalue object values. On key collision, event-local properties win
// over any stored context properties.
type Provider interface {
	io.Closer

	// Kind returns the logical provider this adapter belongs to.
	Kind() basictypes.ProviderKind

	// Capabilities reports the feature families the backend supports.
	Capabilities() Capabilities

	// Init performs the wrapped SDK's setup. A second call while already initialized
	// logs a warning and returns nil without re-running setup.
	Init(ctx context.Context) error

	// IsInitialized reports whether Init has completed successfully.
	IsInitialized() bool

	// SetDebug toggles verbose logging. Usable both before and after Init.
	SetDebug(enabled bool)

	TrackEvent(name string, properties ldvalue.Value) error
	TrackView(name string, properties ldvalue.Value) error
	Identify(userID string, properties ldvalue.Value) error
	SetUserProperties(properties ldvalue.Value) error
	Reset() error
	TrackError(report basictypes.ErrorReport) error

	StartTimer(name string) error
	EndTimer(name string, properties ldvalue.Value) error

	// SetProperties merges key/value pairs into the provider's own send-with-every-event
	// store. Properties returns that store's current content as an object value.
	SetProperties(properties ldvalue.Value) error
	Properties() (ldvalue.Value, error)
	RemoveProperty(key string) error
	ClearProperties() error

	FeatureFlag(key string) (ldvalue.Value, error)
	IsFeatureEnabled(key string) (bool, error)
	AllFeatureFlags() (ldvalue.Value, error)

	// OnFeatureFlagsChange registers a listener invoked whenever the backend reports new
	// flag values. The returned function unregisters the listener.
	OnFeatureFlagsChange(listener func()) (func(), error)

	// Flush asks the wrapped SDK to deliver anything it has queued, waiting until done
	// or the context is cancelled.
	Flush(ctx context.Context) error
}
