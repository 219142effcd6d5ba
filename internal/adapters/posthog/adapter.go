// Package posthog implements the PostHog backend adapter in its web and native variants.
package posthog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mohitsharma90015656/unified-analytics/config"
	"github.com/mohitsharma90015656/unified-analytics/internal/adapters"
	"github.com/mohitsharma90015656/unified-analytics/internal/basictypes"
	"github.com/mohitsharma90015656/unified-analytics/internal/providers"
	"github.com/mohitsharma90015656/unified-analytics/internal/sdks"
)

const (
	pageViewEvent   = "$pageview"
	screenViewEvent = "$screen"
	exceptionEvent  = "$exception"
)

// adapter translates unified operations into PostHog client calls. Identity is a single
// distinct id, starting as a generated anonymous id until Identify swaps it. The
// registered map is PostHog's send-with-every-event ("super property") store.
//
// The web variant tracks views as $pageview with $current_url; the native variant tracks
// them as $screen with $screen_name.
type adapter struct {
	cfg          config.PostHogConfig
	kind         sdks.Kind
	factory      sdks.PostHogClientFactory
	loggers      ldlog.Loggers
	web          bool
	baseLogLevel ldlog.LogLevel

	client       sdks.PostHogClient
	initialized  bool
	distinctID   string
	registered   map[string]ldvalue.Value
	listeners    map[int]func()
	nextListener int
	mu           sync.Mutex
}

// NewWebAdapter is the factory for the browser variant.
func NewWebAdapter(params providers.AdapterParams) (providers.Provider, error) {
	return newAdapter(params, true), nil
}

// NewNativeAdapter is the factory for the mobile app shell variant.
func NewNativeAdapter(params providers.AdapterParams) (providers.Provider, error) {
	return newAdapter(params, false), nil
}

func newAdapter(params providers.AdapterParams, web bool) *adapter {
	cfg := params.AllConfig.PostHog
	return &adapter{
		cfg:          cfg,
		kind:         params.Kind,
		factory:      params.Factories.PostHog,
		loggers:      params.Loggers,
		web:          web,
		baseLogLevel: cfg.LogLevel.GetOrElse(params.AllConfig.Main.LogLevel.GetOrElse(ldlog.Info)),
		distinctID:   uuid.NewString(),
		registered:   make(map[string]ldvalue.Value),
		listeners:    make(map[int]func()),
	}
}

func (a *adapter) Kind() basictypes.ProviderKind {
	return basictypes.PostHogProvider
}

func (a *adapter) Capabilities() providers.Capabilities {
	return providers.Capabilities{FeatureFlags: true}
}

func (a *adapter) Init(ctx context.Context) error {
	a.mu.Lock()
	if a.initialized {
		a.mu.Unlock()
		a.loggers.Warn("Init called but this provider is already initialized")
		return nil
	}
	a.mu.Unlock()

	client, err := a.factory(sdks.PostHogParams{
		Config:  a.cfg,
		Kind:    a.kind,
		Loggers: a.loggers,
	})
	if err != nil {
		return fmt.Errorf("unable to create PostHog client: %w", err)
	}

	a.mu.Lock()
	a.client = client
	a.initialized = true
	if a.cfg.Autocapture {
		a.registered["$autocapture"] = ldvalue.Bool(true)
	}
	if a.cfg.SessionReplay {
		a.registered["$session_recording"] = ldvalue.Bool(true)
	}
	a.mu.Unlock()

	a.loggers.Infof("Initialized PostHog provider against %s", a.cfg.Host.String())
	// The initial flag set (bootstrap or fetched) is available now
	a.notifyFlagListeners()
	return nil
}

func (a *adapter) IsInitialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized
}

// SetDebug lowers the log level to Debug, or restores the configured level when the flag
// is cleared again.
func (a *adapter) SetDebug(enabled bool) {
	if enabled {
		a.loggers.SetMinLevel(ldlog.Debug)
	} else {
		a.loggers.SetMinLevel(a.baseLogLevel)
	}
}

func (a *adapter) TrackEvent(name string, properties ldvalue.Value) error {
	client, id, merged, err := a.eventData(properties)
	if err != nil {
		return err
	}
	return client.Capture(id, name, adapters.InterfaceMap(merged))
}

func (a *adapter) TrackView(name string, properties ldvalue.Value) error {
	client, id, merged, err := a.eventData(properties)
	if err != nil {
		return err
	}
	props := adapters.InterfaceMap(merged)
	if props == nil {
		props = make(map[string]interface{}, 1)
	}
	if a.web {
		props["$current_url"] = name
		return client.Capture(id, pageViewEvent, props)
	}
	props["$screen_name"] = name
	return client.Capture(id, screenViewEvent, props)
}

// Identify swaps the distinct id to the user id, linking the previous anonymous id so
// the backend can stitch the histories together.
func (a *adapter) Identify(userID string, properties ldvalue.Value) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	a.mu.Lock()
	previous := a.distinctID
	a.distinctID = userID
	a.mu.Unlock()

	if previous != userID {
		if err := client.Alias(previous, userID); err != nil {
			return err
		}
	}
	if err := client.Identify(userID, adapters.InterfaceMap(properties)); err != nil {
		return err
	}
	// Flags may evaluate differently for the identified user
	a.reloadFlags(client)
	a.notifyFlagListeners()
	return nil
}

func (a *adapter) SetUserProperties(properties ldvalue.Value) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	a.mu.Lock()
	id := a.distinctID
	a.mu.Unlock()
	return client.Identify(id, adapters.InterfaceMap(properties))
}

// Reset swaps to a fresh anonymous distinct id and drops the registered properties.
func (a *adapter) Reset() error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.distinctID = uuid.NewString()
	a.registered = make(map[string]ldvalue.Value)
	a.mu.Unlock()
	a.reloadFlags(client)
	a.notifyFlagListeners()
	return nil
}

func (a *adapter) TrackError(report basictypes.ErrorReport) error {
	client, id, merged, err := a.eventData(report.Metadata)
	if err != nil {
		return err
	}
	props := adapters.InterfaceMap(merged)
	if props == nil {
		props = make(map[string]interface{}, 4)
	}
	props["$exception_message"] = report.Message
	if report.Name != "" {
		props["$exception_type"] = report.Name
	}
	if report.Stack != "" {
		props["$exception_stack_trace_raw"] = report.Stack
	}
	props["fatal"] = report.Fatal
	return client.Capture(id, exceptionEvent, props)
}

func (a *adapter) StartTimer(string) error {
	return providers.ErrUnsupported
}

func (a *adapter) EndTimer(string, ldvalue.Value) error {
	return providers.ErrUnsupported
}

func (a *adapter) SetProperties(properties ldvalue.Value) error {
	if _, err := a.activeClient(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range properties.Keys(nil) {
		a.registered[key] = properties.GetByKey(key)
	}
	return nil
}

func (a *adapter) Properties() (ldvalue.Value, error) {
	if _, err := a.activeClient(); err != nil {
		return ldvalue.Null(), err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	builder := ldvalue.ObjectBuild()
	for key, value := range a.registered {
		builder.Set(key, value)
	}
	return builder.Build(), nil
}

func (a *adapter) RemoveProperty(key string) error {
	if _, err := a.activeClient(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.registered, key)
	return nil
}

func (a *adapter) ClearProperties() error {
	if _, err := a.activeClient(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.registered = make(map[string]ldvalue.Value)
	return nil
}

// FeatureFlag asks the wrapped client first and falls back to the configured bootstrap
// value when the client has no answer for the key.
func (a *adapter) FeatureFlag(key string) (ldvalue.Value, error) {
	client, err := a.activeClient()
	if err != nil {
		return ldvalue.Null(), err
	}
	a.mu.Lock()
	id := a.distinctID
	a.mu.Unlock()

	value, err := client.GetFeatureFlag(key, id)
	if err != nil || value == nil {
		if bootstrap, ok := a.cfg.ParsedBootstrapFlags[key]; ok {
			if err != nil {
				a.loggers.Debugf("Flag fetch for %q failed (%s); using bootstrap value", key, err)
			}
			return bootstrap, nil
		}
		return ldvalue.Null(), err
	}
	return ldvalue.CopyArbitraryValue(value), nil
}

func (a *adapter) IsFeatureEnabled(key string) (bool, error) {
	client, err := a.activeClient()
	if err != nil {
		return false, err
	}
	a.mu.Lock()
	id := a.distinctID
	a.mu.Unlock()

	enabled, err := client.IsFeatureEnabled(key, id)
	if err != nil {
		if bootstrap, ok := a.cfg.ParsedBootstrapFlags[key]; ok {
			a.loggers.Debugf("Flag fetch for %q failed (%s); using bootstrap value", key, err)
			return flagValueIsEnabled(bootstrap), nil
		}
		return false, err
	}
	return enabled, nil
}

// AllFeatureFlags overlays the client's flags on top of the bootstrap set, so bootstrap
// entries show through until the client knows better.
func (a *adapter) AllFeatureFlags() (ldvalue.Value, error) {
	client, err := a.activeClient()
	if err != nil {
		return ldvalue.Null(), err
	}
	a.mu.Lock()
	id := a.distinctID
	a.mu.Unlock()

	builder := ldvalue.ObjectBuild()
	for key, value := range a.cfg.ParsedBootstrapFlags {
		builder.Set(key, value)
	}
	fetched, err := client.AllFlags(id)
	if err != nil {
		if len(a.cfg.ParsedBootstrapFlags) == 0 {
			return ldvalue.Null(), err
		}
		a.loggers.Debugf("Flag fetch failed (%s); using bootstrap values only", err)
		return builder.Build(), nil
	}
	for key, value := range fetched {
		builder.Set(key, ldvalue.CopyArbitraryValue(value))
	}
	return builder.Build(), nil
}

func (a *adapter) OnFeatureFlagsChange(listener func()) (func(), error) {
	if _, err := a.activeClient(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	id := a.nextListener
	a.nextListener++
	a.listeners[id] = listener
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}, nil
}

// DistinctID implements providers.DistinctIDManager.
func (a *adapter) DistinctID() (string, error) {
	if _, err := a.activeClient(); err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.distinctID, nil
}

// Alias implements providers.DistinctIDManager.
func (a *adapter) Alias(alias string) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	a.mu.Lock()
	id := a.distinctID
	a.mu.Unlock()
	return client.Alias(id, alias)
}

// Flush is a no-op for PostHog: the wrapped SDK flushes on its own interval and on
// Close, and exposes no explicit flush.
func (a *adapter) Flush(context.Context) error {
	return providers.ErrUnsupported
}

func (a *adapter) Close() error {
	a.mu.Lock()
	client := a.client
	a.client = nil
	a.initialized = false
	a.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Close()
}

func (a *adapter) activeClient() (sdks.PostHogClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized || a.client == nil {
		return nil, providers.ErrNotInitialized
	}
	return a.client, nil
}

func (a *adapter) eventData(properties ldvalue.Value) (sdks.PostHogClient, string, ldvalue.Value, error) {
	client, err := a.activeClient()
	if err != nil {
		return nil, "", ldvalue.Null(), err
	}
	a.mu.Lock()
	id := a.distinctID
	merged := adapters.MergeProperties(a.registered, properties)
	a.mu.Unlock()
	return client, id, merged, nil
}

// reloadFlags forces the wrapped client to re-fetch its flag definitions after an
// identity change, so that listeners notified next observe fresh values. Best effort.
func (a *adapter) reloadFlags(client sdks.PostHogClient) {
	if err := client.ReloadFeatureFlags(); err != nil {
		a.loggers.Debugf("Feature flag reload failed: %s", err)
	}
}

func (a *adapter) notifyFlagListeners() {
	a.mu.Lock()
	listeners := make([]func(), 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()
	for _, l := range listeners {
		l()
	}
}

func flagValueIsEnabled(v ldvalue.Value) bool {
	switch v.Type() {
	case ldvalue.BoolType:
		return v.BoolValue()
	case ldvalue.StringType:
		return v.StringValue() != "" && v.StringValue() != "false"
	case ldvalue.NullType:
		return false
	default:
		return true
	}
}
