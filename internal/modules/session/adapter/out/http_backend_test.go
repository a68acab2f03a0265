package out_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adapter "finquest/internal/modules/session/adapter/out"
	"finquest/internal/modules/session/domain"
	"finquest/internal/platform/httpapi"
)

func TestStartSessionMapsItemsAndDefaultsKind(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sessions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["learnerId"] != "learner-1" || req["length"] != float64(5) {
			t.Errorf("unexpected request payload: %v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sessionId": "sess-9",
			"items": [
				{"id": "q1", "kcId": "kc-a", "kind": "choice", "prompt": "What is APR?", "choices": ["a", "b"], "correctIndex": 1},
				{"id": "q2", "kcId": "kc-b", "kind": "voice", "prompt": "Say: compound interest"},
				{"id": "q3", "kcId": "kc-c", "kind": "mystery", "prompt": "?", "choices": ["a"], "correctIndex": 0}
			]
		}`))
	}))
	defer server.Close()

	backend := adapter.NewHTTPBackend(httpapi.NewClient(server.URL, time.Second))
	sessionID, items, err := backend.StartSession(context.Background(), "learner-1", 5)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if sessionID != "sess-9" || len(items) != 3 {
		t.Fatalf("unexpected session: %s items=%d", sessionID, len(items))
	}
	if items[0].Kind != domain.ItemChoice || items[0].CorrectIndex != 1 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Kind != domain.ItemVoice {
		t.Fatalf("expected voice item, got %+v", items[1])
	}
	// Unknown kinds degrade to choice rather than failing the lesson.
	if items[2].Kind != domain.ItemChoice {
		t.Fatalf("expected unknown kind mapped to choice, got %+v", items[2])
	}
}

func TestSubmitVoiceAnswerRoundTrip(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/answers/voice" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["audioBase64"] != "QUJD" || req["itemId"] != "q2" {
			t.Errorf("unexpected voice payload: %v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"isCorrect": true, "xpEarned": 15}`))
	}))
	defer server.Close()

	backend := adapter.NewHTTPBackend(httpapi.NewClient(server.URL, time.Second))
	result, err := backend.SubmitVoiceAnswer(context.Background(), domain.VoiceSubmission{
		LearnerID:   "learner-1",
		ItemID:      "q2",
		SessionID:   "sess-9",
		AudioBase64: "QUJD",
	})
	if err != nil {
		t.Fatalf("submit voice answer: %v", err)
	}
	if !result.IsCorrect || result.XPEarned != 15 {
		t.Fatalf("unexpected verdict: %+v", result)
	}
}

func TestLogInteractionPostsTelemetryFields(t *testing.T) {
	t.Parallel()
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	backend := adapter.NewHTTPBackend(httpapi.NewClient(server.URL, time.Second))
	err := backend.LogInteraction(context.Background(), domain.Interaction{
		AttemptID:      "attempt-1",
		LearnerID:      "learner-1",
		ItemID:         "q1",
		KCID:           "kc-a",
		SessionID:      "sess-9",
		IsCorrect:      true,
		ResponseValue:  "b",
		ResponseTimeMs: 850,
		InputMode:      domain.InputChoice,
	})
	if err != nil {
		t.Fatalf("log interaction: %v", err)
	}
	if got["attemptId"] != "attempt-1" || got["inputMode"] != "choice" || got["responseTimeMs"] != float64(850) {
		t.Fatalf("unexpected telemetry payload: %v", got)
	}
}
