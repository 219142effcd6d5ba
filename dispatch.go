package analytics

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mohitsharma90015656/unified-analytics/internal/basictypes"
)

// ErrorReport is the normalized form of an error passed to TrackError. Each provider
// represents it in its own terms: Countly as a crash report, PostHog as an exception
// event.
type ErrorReport struct {
	// Message is the error message. If empty it is replaced with "unknown error".
	Message string

	// Name classifies the error, typically as a Go error type name.
	Name string

	// Stack is a stack trace, if one is available.
	Stack string

	// Fatal marks the error as crash-level rather than handled.
	Fatal bool

	// Metadata is caller-supplied context, as an object value.
	Metadata ldvalue.Value
}

// TrackEvent sends a named event with optional properties to every active provider. Each
// provider merges its own stored global properties underneath; the event-local properties
// win on key collision.
func (a *Analytics) TrackEvent(name string, properties ldvalue.Value) {
	for _, p := range a.activeProxies() {
		p.TrackEvent(name, properties)
	}
}

// TrackView sends a screen/page view to every active provider. If screen view tracking
// has been disabled, nothing is dispatched at all.
func (a *Analytics) TrackView(name string, properties ldvalue.Value) {
	a.lock.Lock()
	enabled := a.trackScreenViews
	a.lock.Unlock()
	if !enabled {
		a.loggers.Debugf("Ignoring view %q: screen view tracking is disabled", name)
		return
	}
	for _, p := range a.activeProxies() {
		p.TrackView(name, properties)
	}
}

// Identify associates subsequent events with the given user id on every active provider,
// merging the anonymous history into it where the backend supports that.
func (a *Analytics) Identify(userID string, properties ldvalue.Value) {
	for _, p := range a.activeProxies() {
		p.Identify(userID, properties)
	}
}

// SetUserProperties attaches profile attributes to the current user on every active
// provider.
func (a *Analytics) SetUserProperties(properties ldvalue.Value) {
	for _, p := range a.activeProxies() {
		p.SetUserProperties(properties)
	}
}

// SetConsent grants or revokes consent for data collection on every active provider that
// gates collection behind consent. Providers without a consent concept skip it; the only
// backend with one here is Countly, when requiresConsent is configured.
func (a *Analytics) SetConsent(given bool) {
	for _, p := range a.activeProxies() {
		p.SetConsent(given)
	}
}

// Reset returns every active provider to an anonymous identity, typically on logout.
func (a *Analytics) Reset() {
	for _, p := range a.activeProxies() {
		p.Reset()
	}
}

// TrackError reports a handled error to every active provider, capturing the current
// stack trace. Metadata may be a null value if there is no extra context.
func (a *Analytics) TrackError(err error, metadata ldvalue.Value) {
	a.TrackErrorReport(NewErrorReport(err, false, metadata))
}

// TrackFatalError is TrackError with the report marked as crash-level.
func (a *Analytics) TrackFatalError(err error, metadata ldvalue.Value) {
	a.TrackErrorReport(NewErrorReport(err, true, metadata))
}

// TrackErrorReport dispatches a fully specified error report to every active provider.
func (a *Analytics) TrackErrorReport(report ErrorReport) {
	if report.Message == "" {
		report.Message = "unknown error"
	}
	normalized := basictypes.ErrorReport{
		Message:  report.Message,
		Name:     report.Name,
		Stack:    report.Stack,
		Fatal:    report.Fatal,
		Metadata: report.Metadata,
	}
	for _, p := range a.activeProxies() {
		p.TrackError(normalized)
	}
}

// NewErrorReport normalizes a Go error into an ErrorReport, deriving the name from the
// error's type and capturing the caller's stack trace.
func NewErrorReport(err error, fatal bool, metadata ldvalue.Value) ErrorReport {
	report := ErrorReport{
		Message:  "unknown error",
		Fatal:    fatal,
		Metadata: metadata,
		Stack:    string(debug.Stack()),
	}
	if err != nil {
		report.Message = err.Error()
		report.Name = errorName(err)
	}
	return report
}

// errorName derives a classification from the error's dynamic type. The unexported types
// behind errors.New and fmt.Errorf carry no information, so they yield an empty name.
func errorName(err error) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	if strings.HasPrefix(name, "errors.") || strings.HasPrefix(name, "fmt.") {
		return ""
	}
	return name
}

// StartTimer begins a named timed event on every active provider that supports timed
// events; the others are skipped.
func (a *Analytics) StartTimer(name string) {
	for _, p := range a.activeProxies() {
		if !p.Capabilities().TimedEvents {
			a.loggers.Debugf("Skipping startTimer for %s: timed events not supported", p.Kind())
			continue
		}
		p.StartTimer(name)
	}
}

// EndTimer completes a named timed event, recording its duration along with the given
// properties, on every active provider that supports timed events.
func (a *Analytics) EndTimer(name string, properties ldvalue.Value) {
	for _, p := range a.activeProxies() {
		if !p.Capabilities().TimedEvents {
			a.loggers.Debugf("Skipping endTimer for %s: timed events not supported", p.Kind())
			continue
		}
		p.EndTimer(name, properties)
	}
}

// SetGlobalProperties merges key/value pairs into every active provider's
// send-with-every-event store.
func (a *Analytics) SetGlobalProperties(properties ldvalue.Value) {
	for _, p := range a.activeProxies() {
		p.SetProperties(properties)
	}
}

// GlobalProperties returns the first active provider's send-with-every-event store, in
// the facade's fixed preference order. It is deliberately not a merge: writes fan out to
// all providers, so with more than one active provider the stores can diverge, and the
// caller sees only the preferred provider's view.
func (a *Analytics) GlobalProperties() ldvalue.Value {
	for _, p := range a.activeProxies() {
		if value, ok := p.Properties(); ok {
			return value
		}
	}
	return ldvalue.ObjectBuild().Build()
}

// RemoveGlobalProperty removes one key from every active provider's store.
func (a *Analytics) RemoveGlobalProperty(key string) {
	for _, p := range a.activeProxies() {
		p.RemoveProperty(key)
	}
}

// ClearGlobalProperties empties every active provider's store.
func (a *Analytics) ClearGlobalProperties() {
	for _, p := range a.activeProxies() {
		p.ClearProperties()
	}
}

// StartSession is a no-op kept for interface stability: both supported backends manage
// session boundaries themselves.
func (a *Analytics) StartSession() {}

// EndSession is a no-op for the same reason as StartSession.
func (a *Analytics) EndSession() {}
