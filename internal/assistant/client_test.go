package assistant

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker"
)

func TestClientComplete(t *testing.T) {
	requests := make(chan messagesRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") != apiVersion {
			t.Errorf("missing version header")
		}
		var req messagesRequest
		body, _ := io.ReadAll(r.Body)
		if err := sonic.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		requests <- req
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"hello there"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	c := NewClient(Options{URL: srv.URL, APIKey: "secret", Model: "m1", MaxTokens: 50}, logger)

	text, err := c.Complete(context.Background(), "be brief", []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("text = %q", text)
	}
	got := <-requests
	if got.Model != "m1" || got.MaxTokens != 50 || got.System != "be brief" || len(got.Messages) != 1 {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestClientReportsUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	c := NewClient(Options{URL: srv.URL}, logger)

	_, err := c.Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestClientBreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	c := NewClient(Options{URL: srv.URL}, logger)

	var err error
	for i := 0; i < 6; i++ {
		_, err = c.Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if n := calls.Load(); n != 4 {
		t.Fatalf("expected the breaker to stop calls after 4 failures, got %d", n)
	}
}

func TestClientNotConfigured(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := NewClient(Options{}, logger)

	if _, err := c.Complete(context.Background(), "", nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}
