package sdks

import (
	"context"
	"io"
	"time"
)

// CountlyEvent is one event submitted to the wrapped Countly client. Segmentation values
// are already coerced to strings by the adapter, since the Countly wire format requires
// stringly-typed segmentation.
type CountlyEvent struct {
	Key          string
	Count        int
	Sum          float64
	Duration     time.Duration
	Segmentation map[string]string
}

// CountlyCrash is a crash/error report in the wrapped Countly client's terms.
type CountlyCrash struct {
	Error  string
	Stack  string
	Fatal  bool
	Custom map[string]string
}

// CountlyLocation carries the optional location fields that Countly attaches to sessions.
type CountlyLocation struct {
	CountryCode string
	City        string
	IPAddress   string
}

// CountlyClient is the narrow contract for the wrapped Countly SDK client. The client
// owns all network I/O, queuing, and session heuristics; every method is fire-and-forget
// except Flush, which waits for queued data to be delivered.
type CountlyClient interface {
	io.Closer

	BeginSession() error
	EndSession() error

	RecordEvent(event CountlyEvent) error
	RecordView(name string, segmentation map[string]string) error

	StartTimedEvent(key string) error
	EndTimedEvent(key string, segmentation map[string]string) error

	SetUserDetails(custom map[string]string) error
	SetLocation(location CountlyLocation) error

	// DeviceID returns the device identifier currently used for event attribution.
	DeviceID() string

	// ChangeDeviceID switches to a new device identifier. If merge is true, the backend
	// is told to merge the history of the old identifier into the new one; otherwise the
	// new identifier starts fresh.
	ChangeDeviceID(id string, merge bool) error

	RecordCrash(crash CountlyCrash) error

	// SetConsent grants or revokes consent for data collection. When the client was
	// configured to require consent, nothing is delivered to the backend until consent
	// is granted; queued data is released at that point.
	SetConsent(given bool) error

	Flush(ctx context.Context) error
}

// PostHogClient is the narrow contract for the wrapped PostHog SDK client. Identity is a
// single distinct-id swap; the adapter owns the current distinct id and passes it on
// every call.
type PostHogClient interface {
	io.Closer

	Capture(distinctID, event string, properties map[string]interface{}) error
	Identify(distinctID string, properties map[string]interface{}) error
	Alias(previousID, distinctID string) error

	GetFeatureFlag(key, distinctID string) (interface{}, error)
	IsFeatureEnabled(key, distinctID string) (bool, error)
	AllFlags(distinctID string) (map[string]interface{}, error)
	ReloadFeatureFlags() error
}
