package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crewbase/internal/config"
)

func TestNewClient(t *testing.T) {
	if _, ok := NewClient(&config.Config{}).(NoopClient); !ok {
		t.Error("NewClient without endpoint should return NoopClient")
	}

	if _, ok := NewClient(&config.Config{AnalyticsEndpoint: "https://events.example.com/capture"}).(*HTTPClient); !ok {
		t.Error("NewClient with endpoint should return HTTPClient")
	}
}

func TestHTTPClientCapture(t *testing.T) {
	received := make(chan captureEvent, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev captureEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			t.Errorf("failed to decode event: %v", err)
		}
		received <- ev
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(&config.Config{
		AnalyticsEndpoint: srv.URL,
		AnalyticsAPIKey:   "test-key",
	})

	client.Capture("distinct-1", EventSignedUp, map[string]any{
		"is_first_user": true,
		"realm":         "hosted",
	})

	select {
	case ev := <-received:
		if ev.Event != EventSignedUp {
			t.Errorf("event = %q, want %q", ev.Event, EventSignedUp)
		}
		if ev.DistinctID != "distinct-1" {
			t.Errorf("distinct_id = %q, want distinct-1", ev.DistinctID)
		}
		if ev.APIKey != "test-key" {
			t.Errorf("api_key = %q, want test-key", ev.APIKey)
		}
		if ev.Properties["is_first_user"] != true {
			t.Errorf("is_first_user = %v, want true", ev.Properties["is_first_user"])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event received within 5s")
	}
}

func TestHTTPClientIdentify(t *testing.T) {
	received := make(chan captureEvent, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev captureEvent
		json.NewDecoder(r.Body).Decode(&ev)
		received <- ev
	}))
	defer srv.Close()

	client := NewClient(&config.Config{AnalyticsEndpoint: srv.URL})

	client.Identify("distinct-1", map[string]any{"email": "alice@hedgebox.net"})

	select {
	case ev := <-received:
		if ev.Event != "$identify" {
			t.Errorf("event = %q, want $identify", ev.Event)
		}
		set, ok := ev.Properties["$set"].(map[string]any)
		if !ok {
			t.Fatalf("$set missing from properties: %v", ev.Properties)
		}
		if set["email"] != "alice@hedgebox.net" {
			t.Errorf("$set.email = %v", set["email"])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event received within 5s")
	}
}

func TestNoopClientDoesNothing(t *testing.T) {
	// Must not panic
	var c NoopClient
	c.Capture("d", "e", nil)
	c.Identify("d", nil)
}
