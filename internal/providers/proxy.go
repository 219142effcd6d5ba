package providers

import (
	"context"
	"errors"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mohitsharma90015656/unified-analytics/config"
	"github.com/mohitsharma90015656/unified-analytics/internal/basictypes"
	"github.com/mohitsharma90015656/unified-analytics/internal/metrics"
	"github.com/mohitsharma90015656/unified-analytics/internal/sdks"
)

// Proxy stands in front of one logical provider. It resolves the concrete adapter
// variant for the active platform exactly once, during Init, and afterwards delegates
// every unified call to it.
//
// Every delegate is null-safe: before resolution (or if the orchestrator discarded the
// proxy after a failed init) calls are no-ops returning the neutral default for the
// operation's return type. Adapter errors stop here: they are logged, counted, and
// collapsed, so nothing past the Proxy ever sees a provider failure.
type Proxy struct {
	kind     basictypes.ProviderKind
	registry *Registry
	loggers  ldlog.Loggers
	metrics  *metrics.ProviderMetrics
	debug    bool
	adapter  Provider
	mu       sync.RWMutex
}

// NewProxy creates an unresolved Proxy. The loggers should already carry the provider's
// log prefix; providerMetrics may be nil.
func NewProxy(
	kind basictypes.ProviderKind,
	registry *Registry,
	loggers ldlog.Loggers,
	providerMetrics *metrics.ProviderMetrics,
) *Proxy {
	return &Proxy{
		kind:     kind,
		registry: registry,
		loggers:  loggers,
		metrics:  providerMetrics,
	}
}

// Kind returns the logical provider this proxy fronts.
func (p *Proxy) Kind() basictypes.ProviderKind {
	return p.kind
}

// SetDebug stores the debug flag, forwarding it to the adapter if one is resolved. A
// flag set before resolution is applied to the adapter when it is constructed.
func (p *Proxy) SetDebug(enabled bool) {
	p.mu.Lock()
	p.debug = enabled
	adapter := p.adapter
	p.mu.Unlock()
	if adapter != nil {
		adapter.SetDebug(enabled)
	}
}

// Init resolves the adapter variant for the platform and runs its initialization.
// Resolution happens at most once per Proxy; a second Init call is delegated to the
// adapter, whose own idempotency guard applies. An error from the adapter's Init is
// propagated so the orchestrator can discard this provider; errors from any later
// operation are absorbed here instead.
func (p *Proxy) Init(
	ctx context.Context,
	platform config.Platform,
	allConfig config.Config,
	factories sdks.ClientFactories,
) error {
	p.mu.Lock()
	adapter := p.adapter
	if adapter == nil {
		variant := sdks.KindFor(p.kind, platform)
		factory, err := p.registry.Factory(variant)
		if err != nil {
			p.mu.Unlock()
			return err
		}
		adapter, err = factory(AdapterParams{
			AllConfig: allConfig,
			Kind:      variant,
			Factories: factories,
			Loggers:   p.loggers,
			Metrics:   p.metrics,
		})
		if err != nil {
			p.mu.Unlock()
			return err
		}
		adapter.SetDebug(p.debug)
		p.adapter = adapter
		p.loggers.Debugf("Resolved adapter variant %s", variant)
	}
	p.mu.Unlock()

	return adapter.Init(ctx)
}

// IsInitialized reports whether the resolved adapter has completed initialization.
func (p *Proxy) IsInitialized() bool {
	if adapter := p.resolvedAdapter(); adapter != nil {
		return adapter.IsInitialized()
	}
	return false
}

// Capabilities returns the adapter's capabilities, or the zero value if unresolved.
func (p *Proxy) Capabilities() Capabilities {
	if adapter := p.resolvedAdapter(); adapter != nil {
		return adapter.Capabilities()
	}
	return Capabilities{}
}

func (p *Proxy) TrackEvent(name string, properties ldvalue.Value) {
	p.dispatch("trackEvent", func(a Provider) error { return a.TrackEvent(name, properties) })
}

func (p *Proxy) TrackView(name string, properties ldvalue.Value) {
	p.dispatch("trackView", func(a Provider) error { return a.TrackView(name, properties) })
}

func (p *Proxy) Identify(userID string, properties ldvalue.Value) {
	p.dispatch("identify", func(a Provider) error { return a.Identify(userID, properties) })
}

func (p *Proxy) SetUserProperties(properties ldvalue.Value) {
	p.dispatch("setUserProperties", func(a Provider) error { return a.SetUserProperties(properties) })
}

func (p *Proxy) Reset() {
	p.dispatch("reset", func(a Provider) error { return a.Reset() })
}

func (p *Proxy) TrackError(report basictypes.ErrorReport) {
	p.dispatch("trackError", func(a Provider) error { return a.TrackError(report) })
}

func (p *Proxy) StartTimer(name string) {
	p.dispatch("startTimer", func(a Provider) error { return a.StartTimer(name) })
}

func (p *Proxy) EndTimer(name string, properties ldvalue.Value) {
	p.dispatch("endTimer", func(a Provider) error { return a.EndTimer(name, properties) })
}

func (p *Proxy) SetProperties(properties ldvalue.Value) {
	p.dispatch("setGlobalProperties", func(a Provider) error { return a.SetProperties(properties) })
}

func (p *Proxy) RemoveProperty(key string) {
	p.dispatch("removeGlobalProperty", func(a Provider) error { return a.RemoveProperty(key) })
}

func (p *Proxy) ClearProperties() {
	p.dispatch("clearGlobalProperties", func(a Provider) error { return a.ClearProperties() })
}

// Properties returns the adapter's send-with-every-event store. The second return value
// is false if this proxy has no active adapter and therefore cannot answer.
func (p *Proxy) Properties() (ldvalue.Value, bool) {
	adapter := p.resolvedAdapter()
	if adapter == nil {
		return ldvalue.Null(), false
	}
	value, err := adapter.Properties()
	if err != nil {
		p.collapse("getGlobalProperties", err)
		return ldvalue.Null(), false
	}
	return value, true
}

func (p *Proxy) FeatureFlag(key string) ldvalue.Value {
	adapter := p.resolvedAdapter()
	if adapter == nil {
		return ldvalue.Null()
	}
	value, err := adapter.FeatureFlag(key)
	if err != nil {
		p.collapse("getFeatureFlag", err)
		return ldvalue.Null()
	}
	return value
}

func (p *Proxy) IsFeatureEnabled(key string) bool {
	adapter := p.resolvedAdapter()
	if adapter == nil {
		return false
	}
	enabled, err := adapter.IsFeatureEnabled(key)
	if err != nil {
		p.collapse("isFeatureEnabled", err)
		return false
	}
	return enabled
}

func (p *Proxy) AllFeatureFlags() ldvalue.Value {
	adapter := p.resolvedAdapter()
	if adapter == nil {
		return ldvalue.ObjectBuild().Build()
	}
	value, err := adapter.AllFeatureFlags()
	if err != nil {
		p.collapse("getAllFeatureFlags", err)
		return ldvalue.ObjectBuild().Build()
	}
	return value
}

func (p *Proxy) OnFeatureFlagsChange(listener func()) func() {
	adapter := p.resolvedAdapter()
	if adapter == nil {
		return func() {}
	}
	unsubscribe, err := adapter.OnFeatureFlagsChange(listener)
	if err != nil {
		p.collapse("onFeatureFlagsChange", err)
		return func() {}
	}
	return unsubscribe
}

// Flush waits for the adapter to deliver queued data. Delivery failures are absorbed
// like any other operation failure; only context cancellation is returned.
func (p *Proxy) Flush(ctx context.Context) error {
	adapter := p.resolvedAdapter()
	if adapter == nil {
		return nil
	}
	if err := adapter.Flush(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.collapse("flush", err)
	}
	return nil
}

// Close shuts down the adapter if one was resolved.
func (p *Proxy) Close() error {
	if adapter := p.resolvedAdapter(); adapter != nil {
		return adapter.Close()
	}
	return nil
}

// DeviceID returns the backend's device identifier, if the resolved adapter manages an
// explicit device-id concept. The second return value is false otherwise.
func (p *Proxy) DeviceID() (string, bool) {
	adapter := p.resolvedAdapter()
	manager, ok := adapter.(DeviceIDManager)
	if !ok {
		return "", false
	}
	id, err := manager.DeviceID()
	if err != nil {
		p.collapse("getDeviceID", err)
		return "", false
	}
	return id, true
}

// ChangeDeviceID is the Countly-family identity passthrough.
func (p *Proxy) ChangeDeviceID(id string, merge bool) {
	p.dispatch("changeDeviceID", func(a Provider) error {
		if manager, ok := a.(DeviceIDManager); ok {
			return manager.ChangeDeviceID(id, merge)
		}
		return ErrUnsupported
	})
}

// SetConsent is the consent-gating passthrough for backends that hold data until the
// user consents.
func (p *Proxy) SetConsent(given bool) {
	p.dispatch("setConsent", func(a Provider) error {
		if manager, ok := a.(ConsentManager); ok {
			return manager.SetConsent(given)
		}
		return ErrUnsupported
	})
}

// DistinctID returns the backend's distinct id, if the resolved adapter models identity
// that way. The second return value is false otherwise.
func (p *Proxy) DistinctID() (string, bool) {
	adapter := p.resolvedAdapter()
	manager, ok := adapter.(DistinctIDManager)
	if !ok {
		return "", false
	}
	id, err := manager.DistinctID()
	if err != nil {
		p.collapse("getDistinctID", err)
		return "", false
	}
	return id, true
}

// Alias is the PostHog-family identity passthrough.
func (p *Proxy) Alias(alias string) {
	p.dispatch("alias", func(a Provider) error {
		if manager, ok := a.(DistinctIDManager); ok {
			return manager.Alias(alias)
		}
		return ErrUnsupported
	})
}

func (p *Proxy) resolvedAdapter() Provider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.adapter
}

func (p *Proxy) dispatch(operation string, fn func(Provider) error) {
	adapter := p.resolvedAdapter()
	if adapter == nil {
		p.loggers.Debugf("Ignoring %s: provider is not active", operation)
		return
	}
	p.metrics.RecordDispatch(operation)
	if err := fn(adapter); err != nil {
		p.collapse(operation, err)
	}
}

// collapse logs an adapter error with a severity that distinguishes capability gaps from
// real failures, then swallows it.
func (p *Proxy) collapse(operation string, err error) {
	switch {
	case errors.Is(err, ErrUnsupported):
		p.loggers.Debugf("Operation %s is not supported by this provider", operation)
	case errors.Is(err, ErrNotInitialized):
		p.loggers.Warnf("Ignoring %s: provider is not initialized", operation)
	default:
		p.metrics.RecordFailure(operation)
		p.loggers.Warnf("Operation %s failed: %s", operation, err)
	}
}
