// Package sharedtest provides fake wrapped-SDK clients and configuration fixtures used by
// tests throughout the module. Nothing in this package should be imported by non-test
// code.
package sharedtest

import (
	"context"
	"sync"

	"github.com/mohitsharma90015656/unified-analytics/internal/sdks"
)

// ViewCall records one RecordView call on a FakeCountlyClient.
type ViewCall struct {
	Name         string
	Segmentation map[string]string
}

// TimedEventCall records one EndTimedEvent call on a FakeCountlyClient.
type TimedEventCall struct {
	Key          string
	Segmentation map[string]string
}

// DeviceIDChange records one ChangeDeviceID call on a FakeCountlyClient.
type DeviceIDChange struct {
	ID    string
	Merge bool
}

// FakeCountlyClient implements sdks.CountlyClient, recording every call. Setting FailWith
// makes every subsequent mutating call return that error, for failure-absorption tests.
type FakeCountlyClient struct {
	FailWith error

	deviceID       string
	Events         []sdks.CountlyEvent
	Views          []ViewCall
	Crashes        []sdks.CountlyCrash
	UserDetails    []map[string]string
	Locations      []sdks.CountlyLocation
	DeviceChanges  []DeviceIDChange
	TimersStarted  []string
	TimersEnded    []TimedEventCall
	Consents       []bool
	SessionsBegun  int
	SessionsEnded  int
	FlushCount     int
	Closed         bool
	lock           sync.Mutex
}

// NewFakeCountlyClient creates a fake with a fixed initial device id.
func NewFakeCountlyClient() *FakeCountlyClient {
	return &FakeCountlyClient{deviceID: "fake-device-id"}
}

// Factory returns a client factory that always hands out this fake.
func (c *FakeCountlyClient) Factory() sdks.CountlyClientFactory {
	return func(sdks.CountlyParams) (sdks.CountlyClient, error) {
		return c, nil
	}
}

func (c *FakeCountlyClient) BeginSession() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.SessionsBegun++
	return nil
}

func (c *FakeCountlyClient) EndSession() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.SessionsEnded++
	return nil
}

func (c *FakeCountlyClient) RecordEvent(event sdks.CountlyEvent) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.Events = append(c.Events, event)
	return nil
}

func (c *FakeCountlyClient) RecordView(name string, segmentation map[string]string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.Views = append(c.Views, ViewCall{Name: name, Segmentation: segmentation})
	return nil
}

func (c *FakeCountlyClient) StartTimedEvent(key string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.TimersStarted = append(c.TimersStarted, key)
	return nil
}

func (c *FakeCountlyClient) EndTimedEvent(key string, segmentation map[string]string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.TimersEnded = append(c.TimersEnded, TimedEventCall{Key: key, Segmentation: segmentation})
	return nil
}

func (c *FakeCountlyClient) SetUserDetails(custom map[string]string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.UserDetails = append(c.UserDetails, custom)
	return nil
}

func (c *FakeCountlyClient) SetLocation(location sdks.CountlyLocation) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.Locations = append(c.Locations, location)
	return nil
}

func (c *FakeCountlyClient) DeviceID() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.deviceID
}

func (c *FakeCountlyClient) ChangeDeviceID(id string, merge bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.deviceID = id
	c.DeviceChanges = append(c.DeviceChanges, DeviceIDChange{ID: id, Merge: merge})
	return nil
}

func (c *FakeCountlyClient) RecordCrash(crash sdks.CountlyCrash) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.Crashes = append(c.Crashes, crash)
	return nil
}

func (c *FakeCountlyClient) SetConsent(given bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.Consents = append(c.Consents, given)
	return nil
}

func (c *FakeCountlyClient) Flush(context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.FlushCount++
	return nil
}

func (c *FakeCountlyClient) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.Closed = true
	return nil
}

// IsClosed reads the closed state under the fake's lock, for assertions that poll while
// other goroutines may still be shutting the client down.
func (c *FakeCountlyClient) IsClosed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.Closed
}

// CaptureCall records one Capture call on a FakePostHogClient.
type CaptureCall struct {
	DistinctID string
	Event      string
	Properties map[string]interface{}
}

// IdentifyCall records one Identify call on a FakePostHogClient.
type IdentifyCall struct {
	DistinctID string
	Properties map[string]interface{}
}

// AliasCall records one Alias call on a FakePostHogClient.
type AliasCall struct {
	PreviousID string
	DistinctID string
}

// FakePostHogClient implements sdks.PostHogClient, recording every call. Flags is the
// flag set served by the flag methods; FlagErr makes them fail instead, and FailWith
// makes the capture-side methods fail.
type FakePostHogClient struct {
	FailWith error
	FlagErr  error
	Flags    map[string]interface{}

	Captures   []CaptureCall
	Identifies []IdentifyCall
	Aliases    []AliasCall
	Reloads    int
	Closed     bool
	lock       sync.Mutex
}

// NewFakePostHogClient creates a fake with an empty flag set.
func NewFakePostHogClient() *FakePostHogClient {
	return &FakePostHogClient{Flags: make(map[string]interface{})}
}

// Factory returns a client factory that always hands out this fake.
func (c *FakePostHogClient) Factory() sdks.PostHogClientFactory {
	return func(sdks.PostHogParams) (sdks.PostHogClient, error) {
		return c, nil
	}
}

func (c *FakePostHogClient) Capture(distinctID, event string, properties map[string]interface{}) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.Captures = append(c.Captures, CaptureCall{DistinctID: distinctID, Event: event, Properties: properties})
	return nil
}

func (c *FakePostHogClient) Identify(distinctID string, properties map[string]interface{}) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.Identifies = append(c.Identifies, IdentifyCall{DistinctID: distinctID, Properties: properties})
	return nil
}

func (c *FakePostHogClient) Alias(previousID, distinctID string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FailWith != nil {
		return c.FailWith
	}
	c.Aliases = append(c.Aliases, AliasCall{PreviousID: previousID, DistinctID: distinctID})
	return nil
}

func (c *FakePostHogClient) GetFeatureFlag(key, distinctID string) (interface{}, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FlagErr != nil {
		return nil, c.FlagErr
	}
	return c.Flags[key], nil
}

func (c *FakePostHogClient) IsFeatureEnabled(key, distinctID string) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FlagErr != nil {
		return false, c.FlagErr
	}
	value, ok := c.Flags[key]
	if !ok {
		return false, nil
	}
	if b, isBool := value.(bool); isBool {
		return b, nil
	}
	return true, nil
}

func (c *FakePostHogClient) AllFlags(distinctID string) (map[string]interface{}, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.FlagErr != nil {
		return nil, c.FlagErr
	}
	out := make(map[string]interface{}, len(c.Flags))
	for k, v := range c.Flags {
		out[k] = v
	}
	return out, nil
}

func (c *FakePostHogClient) ReloadFeatureFlags() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.Reloads++
	return nil
}

func (c *FakePostHogClient) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.Closed = true
	return nil
}
