// Package analytics sends product analytics events to an external
// ingestion endpoint. Delivery is fire-and-forget; signup never fails
// because event capture failed.
package analytics

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"crewbase/internal/config"
)

// Event names emitted by the signup flows.
const (
	EventSignedUp           = "user signed up"
	EventJoinedOrganization = "user joined organization"
)

// Client captures analytics events for a distinct ID.
type Client interface {
	Capture(distinctID, event string, properties map[string]any)
	Identify(distinctID string, properties map[string]any)
}

// NewClient returns an HTTP-backed client when an endpoint is configured,
// and a no-op client otherwise.
func NewClient(cfg *config.Config) Client {
	if cfg.AnalyticsEndpoint == "" {
		log.Println("Analytics capture disabled (ANALYTICS_ENDPOINT not set)")
		return NoopClient{}
	}

	log.Printf("Analytics capture enabled (endpoint: %s)", cfg.AnalyticsEndpoint)
	return &HTTPClient{
		endpoint: cfg.AnalyticsEndpoint,
		apiKey:   cfg.AnalyticsAPIKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// HTTPClient posts capture events as JSON to the configured endpoint.
type HTTPClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type captureEvent struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Capture sends an event asynchronously (fire and forget with logging).
func (c *HTTPClient) Capture(distinctID, event string, properties map[string]any) {
	c.sendAsync(captureEvent{
		APIKey:     c.apiKey,
		Event:      event,
		DistinctID: distinctID,
		Properties: properties,
		Timestamp:  time.Now().UTC(),
	})
}

// Identify sends an identify call with user traits.
func (c *HTTPClient) Identify(distinctID string, properties map[string]any) {
	c.sendAsync(captureEvent{
		APIKey:     c.apiKey,
		Event:      "$identify",
		DistinctID: distinctID,
		Properties: map[string]any{"$set": properties},
		Timestamp:  time.Now().UTC(),
	})
}

func (c *HTTPClient) sendAsync(ev captureEvent) {
	go func() {
		body, err := json.Marshal(ev)
		if err != nil {
			log.Printf("Analytics: failed to encode event %q: %v", ev.Event, err)
			return
		}

		resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("Analytics: failed to send event %q: %v", ev.Event, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			log.Printf("Analytics: endpoint returned %d for event %q", resp.StatusCode, ev.Event)
		}
	}()
}

// NoopClient drops all events. Used when capture is not configured.
type NoopClient struct{}

// Capture implements Client.
func (NoopClient) Capture(string, string, map[string]any) {}

// Identify implements Client.
func (NoopClient) Identify(string, map[string]any) {}
