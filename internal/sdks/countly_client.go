package sdks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mohitsharma90015656/unified-analytics/config"
)

const (
	countlyEndpointPath          = "/i"
	countlyFlushInterval         = time.Second * 30
	countlyEventCapacity         = 100
	countlyQueueSize             = 100
	countlyDefaultSessionTimeout = time.Minute
)

var errCountlyClientClosed = errors.New("countly client has been closed")

// countlyTransportClient is the default CountlyClient. Countly has no official Go SDK, so
// this is a minimal transport speaking the Countly HTTP ingestion protocol: a single
// worker goroutine drains an input queue in order, batching events and posting everything
// else immediately. Queuing and delivery details stay entirely inside this type.
type countlyTransportClient struct {
	baseURI         *url.URL
	appKey          config.AppKey
	sdkName         string
	loggers         ldlog.Loggers
	httpClient      *http.Client
	requiresConsent bool
	sessionInterval time.Duration

	deviceID      string
	timedEvents   map[string]time.Time
	sessionActive bool
	closed        bool
	mu            sync.Mutex

	inputCh   chan countlyMessage
	closerCh  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// countlyMessage is one unit of work for the delivery worker. For event messages the
// device id is stamped at enqueue time, so that events recorded before a device-id change
// stay attributed to the identity that was active when they happened.
type countlyMessage struct {
	event     *countlyEventJSON
	deviceID  string
	form      url.Values
	consent   *bool
	flushDone chan struct{}
}

type countlyEventJSON struct {
	Key          string            `json:"key"`
	Count        int               `json:"count"`
	Sum          float64           `json:"sum,omitempty"`
	Dur          float64           `json:"dur,omitempty"`
	Segmentation map[string]string `json:"segmentation,omitempty"`
	Timestamp    int64             `json:"timestamp"`
}

func newCountlyTransportClient(params CountlyParams) (CountlyClient, error) {
	baseURI := params.Config.ServerURL.Get()
	if baseURI == nil {
		return nil, errors.New("countly server URL is required")
	}

	deviceID := params.Config.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	c := &countlyTransportClient{
		baseURI:         baseURI,
		appKey:          params.Config.AppKey,
		sdkName:         params.Kind.SDKName(),
		loggers:         params.Loggers,
		httpClient:      &http.Client{Timeout: time.Second * 10},
		requiresConsent: params.Config.RequiresConsent,
		sessionInterval: params.Config.SessionTimeout.GetOrElse(countlyDefaultSessionTimeout),
		deviceID:        deviceID,
		timedEvents:     make(map[string]time.Time),
		inputCh:         make(chan countlyMessage, countlyQueueSize),
		closerCh:        make(chan struct{}),
	}

	c.wg.Add(1)
	go c.runWorker()

	return c, nil
}

func (c *countlyTransportClient) BeginSession() error {
	metrics, _ := json.Marshal(map[string]string{"_device": c.sdkName})
	err := c.post(url.Values{
		"begin_session": {"1"},
		"metrics":       {string(metrics)},
	})
	if err == nil {
		c.mu.Lock()
		c.sessionActive = true
		c.mu.Unlock()
	}
	return err
}

func (c *countlyTransportClient) EndSession() error {
	c.mu.Lock()
	c.sessionActive = false
	c.mu.Unlock()
	return c.post(url.Values{"end_session": {"1"}})
}

func (c *countlyTransportClient) sessionIsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionActive
}

// SetConsent grants or revokes consent. The worker applies it in queue order, so anything
// recorded before the grant is released and anything recorded after a revocation is held.
func (c *countlyTransportClient) SetConsent(given bool) error {
	return c.enqueue(countlyMessage{consent: &given})
}

func (c *countlyTransportClient) RecordEvent(event CountlyEvent) error {
	count := event.Count
	if count <= 0 {
		count = 1
	}
	return c.enqueue(countlyMessage{
		deviceID: c.DeviceID(),
		event: &countlyEventJSON{
			Key:          event.Key,
			Count:        count,
			Sum:          event.Sum,
			Dur:          event.Duration.Seconds(),
			Segmentation: event.Segmentation,
			Timestamp:    time.Now().UnixMilli(),
		},
	})
}

func (c *countlyTransportClient) RecordView(name string, segmentation map[string]string) error {
	seg := map[string]string{"name": name, "visit": "1"}
	for k, v := range segmentation {
		seg[k] = v
	}
	return c.RecordEvent(CountlyEvent{Key: "[CLY]_view", Segmentation: seg})
}

func (c *countlyTransportClient) StartTimedEvent(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errCountlyClientClosed
	}
	if _, exists := c.timedEvents[key]; exists {
		return fmt.Errorf("timed event %q is already running", key)
	}
	c.timedEvents[key] = time.Now()
	return nil
}

func (c *countlyTransportClient) EndTimedEvent(key string, segmentation map[string]string) error {
	c.mu.Lock()
	started, exists := c.timedEvents[key]
	delete(c.timedEvents, key)
	c.mu.Unlock()
	if !exists {
		return fmt.Errorf("timed event %q was never started", key)
	}
	return c.RecordEvent(CountlyEvent{
		Key:          key,
		Duration:     time.Since(started),
		Segmentation: segmentation,
	})
}

func (c *countlyTransportClient) SetUserDetails(custom map[string]string) error {
	details, err := json.Marshal(map[string]interface{}{"custom": custom})
	if err != nil {
		return err
	}
	return c.post(url.Values{"user_details": {string(details)}})
}

func (c *countlyTransportClient) SetLocation(location CountlyLocation) error {
	form := url.Values{}
	if location.CountryCode != "" {
		form.Set("country_code", location.CountryCode)
	}
	if location.City != "" {
		form.Set("city", location.City)
	}
	if location.IPAddress != "" {
		form.Set("ip_address", location.IPAddress)
	}
	if len(form) == 0 {
		return nil
	}
	return c.post(form)
}

func (c *countlyTransportClient) DeviceID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deviceID
}

func (c *countlyTransportClient) ChangeDeviceID(id string, merge bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errCountlyClientClosed
	}
	previous := c.deviceID
	c.deviceID = id
	c.mu.Unlock()

	if !merge || previous == id {
		return nil
	}
	// Telling the server the old identifier makes it merge that history into the new one.
	return c.post(url.Values{"old_device_id": {previous}})
}

func (c *countlyTransportClient) RecordCrash(crash CountlyCrash) error {
	body := map[string]interface{}{
		"_error":    crash.Error,
		"_nonfatal": !crash.Fatal,
	}
	if crash.Stack != "" {
		body["_error"] = crash.Error + "\n" + crash.Stack
	}
	if len(crash.Custom) != 0 {
		body["_custom"] = crash.Custom
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.post(url.Values{"crash": {string(encoded)}})
}

func (c *countlyTransportClient) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if err := c.enqueue(countlyMessage{flushDone: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *countlyTransportClient) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.closerCh)
		c.wg.Wait()
	})
	return nil
}

// post enqueues a non-event payload. The worker flushes any batched events first so that
// operations reach the server in the order they were issued.
func (c *countlyTransportClient) post(form url.Values) error {
	form.Set("device_id", c.DeviceID())
	return c.enqueue(countlyMessage{form: form})
}

func (c *countlyTransportClient) enqueue(m countlyMessage) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errCountlyClientClosed
	}
	c.mu.Unlock()
	select {
	case c.inputCh <- m:
		return nil
	default:
		c.loggers.Warn("Countly request queue is full; dropping data")
		return errors.New("countly request queue is full")
	}
}

func (c *countlyTransportClient) runWorker() {
	defer c.wg.Done()
	flushTicker := time.NewTicker(countlyFlushInterval)
	defer flushTicker.Stop()
	keepaliveTicker := time.NewTicker(c.sessionInterval)
	defer keepaliveTicker.Stop()

	var pending []countlyEventJSON
	var pendingDeviceID string
	var held []url.Values
	consented := !c.requiresConsent
	lastKeepalive := time.Now()

	// send delivers a form, or holds it while consent is required but not yet given.
	send := func(form url.Values) {
		if !consented {
			held = append(held, form)
			return
		}
		c.deliver(form)
	}

	flushEvents := func() {
		if len(pending) == 0 {
			return
		}
		encoded, err := json.Marshal(pending)
		pending = nil
		if err != nil {
			c.loggers.Errorf("Unable to marshal Countly events: %s", err)
			return
		}
		send(url.Values{"events": {string(encoded)}, "device_id": {pendingDeviceID}})
	}

	// Each batch is attributed to a single device id. A pending batch recorded under a
	// different id is flushed before the new event joins.
	appendEvent := func(m countlyMessage) {
		if len(pending) > 0 && m.deviceID != pendingDeviceID {
			flushEvents()
		}
		pendingDeviceID = m.deviceID
		pending = append(pending, *m.event)
	}

	applyConsent := func(given bool) {
		consented = given
		if !consented {
			return
		}
		for _, form := range held {
			c.deliver(form)
		}
		held = nil
	}

	for {
		select {
		case m := <-c.inputCh:
			switch {
			case m.event != nil:
				appendEvent(m)
				if len(pending) >= countlyEventCapacity {
					flushEvents()
				}
			case m.form != nil:
				flushEvents()
				send(m.form)
			case m.consent != nil:
				applyConsent(*m.consent)
			case m.flushDone != nil:
				flushEvents()
				close(m.flushDone)
			}
		case <-flushTicker.C:
			flushEvents()
		case <-keepaliveTicker.C:
			if c.sessionIsActive() {
				duration := strconv.Itoa(int(time.Since(lastKeepalive).Seconds()))
				send(url.Values{"session_duration": {duration}, "device_id": {c.DeviceID()}})
			}
			lastKeepalive = time.Now()
		case <-c.closerCh:
			// Drain anything that was queued before Close
			for {
				select {
				case m := <-c.inputCh:
					switch {
					case m.event != nil:
						appendEvent(m)
					case m.consent != nil:
						applyConsent(*m.consent)
					case m.flushDone != nil:
						close(m.flushDone)
					}
					continue
				default:
				}
				break
			}
			flushEvents()
			return
		}
	}
}

func (c *countlyTransportClient) deliver(form url.Values) {
	form.Set("app_key", string(c.appKey))
	form.Set("sdk_name", c.sdkName)
	form.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	endpoint := *c.baseURI
	endpoint.Path = strings.TrimSuffix(endpoint.Path, "/") + countlyEndpointPath

	resp, err := c.httpClient.PostForm(endpoint.String(), form)
	if err != nil {
		c.loggers.Warnf("Unable to deliver data to Countly: %s", err)
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		c.loggers.Warnf("Countly returned unexpected status %d", resp.StatusCode)
	}
}
