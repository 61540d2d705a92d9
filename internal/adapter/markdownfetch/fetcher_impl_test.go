package markdownfetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestConfigured(t *testing.T) {
	if NewClient("", "", time.Second).Configured() {
		t.Error("Expected unconfigured without a base URL")
	}
	if !NewClient("https://fetch.test", "", time.Second).Configured() {
		t.Error("Expected configured with a base URL, key is optional")
	}
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/fetch" {
			t.Errorf("Expected /v1/fetch, got %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req["url"] != "https://example.com/a" {
			t.Errorf("Unexpected URL in request: %q", req["url"])
		}
		json.NewEncoder(w).Encode(map[string]string{"markdown": "# Heading\n\nBody text."})
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Second)
	markdown, err := c.Fetch(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if markdown != "# Heading\n\nBody text." {
		t.Errorf("Unexpected markdown: %q", markdown)
	}
}

func TestFetchSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fetch-key" {
			t.Error("Expected bearer token header")
		}
		json.NewEncoder(w).Encode(map[string]string{"markdown": "ok"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "fetch-key", time.Second)
	if _, err := c.Fetch(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestFetchErrorsCarryTheURL(t *testing.T) {
	const pageURL = "https://example.com/broken"

	t.Run("non-2xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream timeout", http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "", time.Second).Fetch(context.Background(), pageURL)
		if err == nil || !strings.Contains(err.Error(), pageURL) {
			t.Errorf("Expected the URL in the error, got %v", err)
		}
	})

	t.Run("service-reported error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"error": "navigation failed"})
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "", time.Second).Fetch(context.Background(), pageURL)
		if err == nil || !strings.Contains(err.Error(), pageURL) {
			t.Errorf("Expected the URL in the error, got %v", err)
		}
		if !strings.Contains(err.Error(), "navigation failed") {
			t.Errorf("Expected the service message in the error, got %v", err)
		}
	})

	t.Run("unreachable service", func(t *testing.T) {
		_, err := NewClient("http://127.0.0.1:1", "", 100*time.Millisecond).Fetch(context.Background(), pageURL)
		if err == nil || !strings.Contains(err.Error(), pageURL) {
			t.Errorf("Expected the URL in the error, got %v", err)
		}
	})
}
