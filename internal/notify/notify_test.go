package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewProviderSelection(t *testing.T) {
	if _, ok := New(Config{}).(logNotifier); !ok {
		t.Fatalf("empty provider should fall back to log")
	}
	if _, ok := New(Config{Provider: "noop"}).(noopNotifier); !ok {
		t.Fatalf("noop provider not selected")
	}
	if _, ok := New(Config{Provider: "webhook"}).(logNotifier); !ok {
		t.Fatalf("webhook without URL should fall back to log")
	}
	if _, ok := New(Config{Provider: "webhook", WebhookURL: "http://example.com"}).(webhookNotifier); !ok {
		t.Fatalf("webhook provider not selected")
	}
	if _, ok := New(Config{Provider: "https://example.com/hook"}).(webhookNotifier); !ok {
		t.Fatalf("URL provider should select webhook")
	}
}

func TestFailNotifier(t *testing.T) {
	if err := New(Config{Provider: "fail"}).Send(context.Background(), "0788000001", "hi"); err == nil {
		t.Fatalf("expected error from fail provider")
	}
}

func TestWebhookNotifier(t *testing.T) {
	var got map[string]string
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := New(Config{Provider: "webhook", WebhookURL: server.URL, WebhookToken: "tok"})
	if err := n.Send(context.Background(), "0788000001", "your turn"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["recipient"] != "0788000001" || got["message"] != "your turn" {
		t.Fatalf("unexpected payload: %v", got)
	}
	if auth != "Bearer tok" {
		t.Fatalf("unexpected auth header: %q", auth)
	}
}

func TestWebhookNotifierRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := New(Config{Provider: "webhook", WebhookURL: server.URL})
	if err := n.Send(context.Background(), "0788000001", "hi"); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
