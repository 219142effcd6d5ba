// Package countly implements the Countly backend adapter in its web and native variants.
package countly

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

// adapter translates unified operations into Countly client calls. The two variants
// share this type: the native variant additionally runs an explicit session around the
// adapter's lifetime, while the web variant leaves session boundaries to the server's
// own heuristics.
//
// The userContext map is Countly's send-with-every-event store; it is merged into every
// outgoing event's segmentation, with event-local properties winning on collision.
type adapter struct {
	cfg             config.CountlyConfig
	kind            sdks.Kind
	factory         sdks.CountlyClientFactory
	loggers         ldlog.Loggers
	sessionTracking bool
	baseLogLevel    ldlog.LogLevel

	client      sdks.CountlyClient
	initialized bool
	userContext map[string]ldvalue.Value
	mu          sync.Mutex
}

// NewWebAdapter is the factory for the browser variant.
func NewWebAdapter(params providers.AdapterParams) (providers.Provider, error) {
	return newAdapter(params, false), nil
}

// NewNativeAdapter is the factory for the mobile app shell variant.
func NewNativeAdapter(params providers.AdapterParams) (providers.Provider, error) {
	return newAdapter(params, true), nil
}

func newAdapter(params providers.AdapterParams, sessionTracking bool) *adapter {
	cfg := params.AllConfig.Countly
	return &adapter{
		cfg:             cfg,
		kind:            params.Kind,
		factory:         params.Factories.Countly,
		loggers:         params.Loggers,
		sessionTracking: sessionTracking,
		baseLogLevel:    cfg.LogLevel.GetOrElse(params.AllConfig.Main.LogLevel.GetOrElse(ldlog.Info)),
		userContext:     make(map[string]ldvalue.Value),
	}
}

func (a *adapter) Kind() basictypes.ProviderKind {
	return basictypes.CountlyProvider
}

func (a *adapter) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		TimedEvents:        true,
		CrashReporting:     a.cfg.CrashReporting.GetOrElse(true),
		DeviceIDManagement: true,
	}
}

func (a *adapter) Init(ctx context.Context) error {
	a.mu.Lock()
	if a.initialized {
		a.mu.Unlock()
		a.loggers.Warn("Init called but this provider is already initialized")
		return nil
	}
	a.mu.Unlock()

	client, err := a.factory(sdks.CountlyParams{
		Config:  a.cfg,
		Kind:    a.kind,
		Loggers: a.loggers,
	})
	if err != nil {
		return fmt.Errorf("unable to create Countly client: %w", err)
	}

	if a.cfg.CountryCode != "" || a.cfg.City != "" || a.cfg.IPAddress != "" {
		_ = client.SetLocation(sdks.CountlyLocation{
			CountryCode: a.cfg.CountryCode,
			City:        a.cfg.City,
			IPAddress:   a.cfg.IPAddress,
		})
	}
	if a.sessionTracking {
		if err := client.BeginSession(); err != nil {
			_ = client.Close()
			return fmt.Errorf("unable to begin Countly session: %w", err)
		}
	}

	a.mu.Lock()
	a.client = client
	a.initialized = true
	a.mu.Unlock()
	a.loggers.Infof("Initialized Countly provider against %s", a.cfg.ServerURL.String())
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
	client, merged, err := a.eventData(properties)
	if err != nil {
		return err
	}
	return client.RecordEvent(sdks.CountlyEvent{
		Key:          name,
		Segmentation: adapters.Segmentation(merged),
	})
}

func (a *adapter) TrackView(name string, properties ldvalue.Value) error {
	client, merged, err := a.eventData(properties)
	if err != nil {
		return err
	}
	return client.RecordView(name, adapters.Segmentation(merged))
}

// Identify maps the unified identity operation onto Countly's device-id model: the user
// id becomes the device id, merging the anonymous history into it.
func (a *adapter) Identify(userID string, properties ldvalue.Value) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	if err := client.ChangeDeviceID(userID, true); err != nil {
		return err
	}
	if properties.Count() > 0 {
		return client.SetUserDetails(adapters.Segmentation(properties))
	}
	return nil
}

func (a *adapter) SetUserProperties(properties ldvalue.Value) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	return client.SetUserDetails(adapters.Segmentation(properties))
}

// Reset switches to a fresh anonymous device id without merging, and drops the stored
// user context.
func (a *adapter) Reset() error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.userContext = make(map[string]ldvalue.Value)
	a.mu.Unlock()
	return client.ChangeDeviceID(uuid.NewString(), false)
}

func (a *adapter) TrackError(report basictypes.ErrorReport) error {
	if !a.cfg.CrashReporting.GetOrElse(true) {
		return providers.ErrUnsupported
	}
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	message := report.Message
	if report.Name != "" {
		message = report.Name + ": " + report.Message
	}
	return client.RecordCrash(sdks.CountlyCrash{
		Error:  message,
		Stack:  report.Stack,
		Fatal:  report.Fatal,
		Custom: adapters.Segmentation(report.Metadata),
	})
}

func (a *adapter) StartTimer(name string) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	return client.StartTimedEvent(name)
}

func (a *adapter) EndTimer(name string, properties ldvalue.Value) error {
	client, merged, err := a.eventData(properties)
	if err != nil {
		return err
	}
	return client.EndTimedEvent(name, adapters.Segmentation(merged))
}

func (a *adapter) SetProperties(properties ldvalue.Value) error {
	if _, err := a.activeClient(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range properties.Keys(nil) {
		a.userContext[key] = properties.GetByKey(key)
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
	for key, value := range a.userContext {
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
	delete(a.userContext, key)
	return nil
}

func (a *adapter) ClearProperties() error {
	if _, err := a.activeClient(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userContext = make(map[string]ldvalue.Value)
	return nil
}

func (a *adapter) FeatureFlag(string) (ldvalue.Value, error) {
	return ldvalue.Null(), providers.ErrUnsupported
}

func (a *adapter) IsFeatureEnabled(string) (bool, error) {
	return false, providers.ErrUnsupported
}

func (a *adapter) AllFeatureFlags() (ldvalue.Value, error) {
	return ldvalue.Null(), providers.ErrUnsupported
}

func (a *adapter) OnFeatureFlagsChange(func()) (func(), error) {
	return nil, providers.ErrUnsupported
}

// SetConsent implements providers.ConsentManager.
func (a *adapter) SetConsent(given bool) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	return client.SetConsent(given)
}

// DeviceID implements providers.DeviceIDManager.
func (a *adapter) DeviceID() (string, error) {
	client, err := a.activeClient()
	if err != nil {
		return "", err
	}
	return client.DeviceID(), nil
}

// ChangeDeviceID implements providers.DeviceIDManager.
func (a *adapter) ChangeDeviceID(id string, merge bool) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	return client.ChangeDeviceID(id, merge)
}

func (a *adapter) Flush(ctx context.Context) error {
	client, err := a.activeClient()
	if err != nil {
		return err
	}
	return client.Flush(ctx)
}

func (a *adapter) Close() error {
	a.mu.Lock()
	client := a.client
	initialized := a.initialized
	a.client = nil
	a.initialized = false
	a.mu.Unlock()
	if client == nil {
		return nil
	}
	if initialized && a.sessionTracking {
		_ = client.EndSession()
	}
	return client.Close()
}

func (a *adapter) activeClient() (sdks.CountlyClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized || a.client == nil {
		return nil, providers.ErrNotInitialized
	}
	return a.client, nil
}

// eventData returns the active client along with the user context merged under the
// event-local properties.
func (a *adapter) eventData(properties ldvalue.Value) (sdks.CountlyClient, ldvalue.Value, error) {
	client, err := a.activeClient()
	if err != nil {
		return nil, ldvalue.Null(), err
	}
	a.mu.Lock()
	merged := adapters.MergeProperties(a.userContext, properties)
	a.mu.Unlock()
	return client, merged, nil
}
