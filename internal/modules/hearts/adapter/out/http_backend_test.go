package out_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adapter "finquest/internal/modules/hearts/adapter/out"
	"finquest/internal/platform/httpapi"
)

func TestGetHeartsDecodesWaitFields(t *testing.T) {
	t.Parallel()
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hearts": 3,
			"maxHearts": 5,
			"secondsUntilNextHeart": 42,
			"nextHeartAt": "2026-03-01T12:00:42Z",
			"fullHeartsAt": "2026-03-01T12:04:42Z"
		}`))
	}))
	defer server.Close()

	backend := adapter.NewHTTPBackend(httpapi.NewClient(server.URL, time.Second))
	state, err := backend.GetHearts(context.Background(), "learner-1")
	if err != nil {
		t.Fatalf("get hearts: %v", err)
	}
	if gotPath != "/v1/learners/learner-1/hearts" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if state.Hearts != 3 || state.MaxHearts != 5 {
		t.Fatalf("unexpected hearts: %+v", state)
	}
	if state.SecondsUntilNext == nil || *state.SecondsUntilNext != 42 {
		t.Fatalf("expected 42s wait, got %+v", state.SecondsUntilNext)
	}
	if state.NextHeartAt == nil || state.FullHeartsAt == nil {
		t.Fatalf("expected both timestamps decoded")
	}
}

func TestGetHeartsAtMaxOmitsWaitFields(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hearts": 5, "maxHearts": 5}`))
	}))
	defer server.Close()

	backend := adapter.NewHTTPBackend(httpapi.NewClient(server.URL, time.Second))
	state, err := backend.GetHearts(context.Background(), "learner-1")
	if err != nil {
		t.Fatalf("get hearts: %v", err)
	}
	if !state.AtMax() || state.SecondsUntilNext != nil {
		t.Fatalf("expected max hearts with nil wait, got %+v", state)
	}
}

func TestLoseHeartSurfacesServerRejection(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		http.Error(w, "no hearts left", http.StatusConflict)
	}))
	defer server.Close()

	backend := adapter.NewHTTPBackend(httpapi.NewClient(server.URL, time.Second))
	if err := backend.LoseHeart(context.Background(), "learner-1"); err == nil {
		t.Fatalf("expected conflict error")
	}
}
