// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type capturedRequest struct {
	path string
	auth string
	body map[string]any
}

func fakeUpstream(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &got.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

const completion = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "llama-3.1-8b-instant",
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  Try a short walk.  "}}]
}`

func TestOpenAI_Reply(t *testing.T) {
	srv, got := fakeUpstream(t, http.StatusOK, completion)
	p := NewOpenAI(OpenAIConfig{BaseURL: srv.URL, APIKey: "test-key", MaxRetries: 1})

	reply, err := p.Reply(context.Background(), "be kind", []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "I feel tense"},
	})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if reply != "Try a short walk." {
		t.Errorf("Expected trimmed reply, got %q", reply)
	}

	if got.path != "/chat/completions" {
		t.Errorf("Expected /chat/completions, got %s", got.path)
	}
	if got.auth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", got.auth)
	}
	if got.body["model"] != DefaultOpenAIModel {
		t.Errorf("Expected default model, got %v", got.body["model"])
	}

	var roles []string
	for _, m := range got.body["messages"].([]any) {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	if diff := cmp.Diff([]string{"system", "user", "assistant", "user"}, roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAI_EmptyReply(t *testing.T) {
	srv, _ := fakeUpstream(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"   "}}]}`)
	p := NewOpenAI(OpenAIConfig{BaseURL: srv.URL, APIKey: "k", MaxRetries: 1})

	_, err := p.Reply(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("Expected ErrEmptyReply, got %v", err)
	}
}

func TestOpenAI_UpstreamError(t *testing.T) {
	srv, _ := fakeUpstream(t, http.StatusBadRequest, `{"error":{"message":"bad model","type":"invalid_request_error"}}`)
	p := NewOpenAI(OpenAIConfig{BaseURL: srv.URL, APIKey: "k", MaxRetries: 1})

	if _, err := p.Reply(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Error("Expected an error for a failed upstream call")
	}
}

func TestGemini_Reply(t *testing.T) {
	srv, got := fakeUpstream(t, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Breathe slowly."}]}}]}`)
	p, err := NewGemini(context.Background(), GeminiConfig{APIKey: "k", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}

	reply, err := p.Reply(context.Background(), "be kind", []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "help"},
	})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if reply != "Breathe slowly." {
		t.Errorf("Unexpected reply %q", reply)
	}
	if !strings.Contains(got.path, DefaultGeminiModel+":generateContent") {
		t.Errorf("Unexpected upstream path %s", got.path)
	}

	contents := got.body["contents"].([]any)
	if len(contents) != 3 {
		t.Fatalf("Expected 3 contents, got %d", len(contents))
	}
	if role := contents[1].(map[string]any)["role"]; role != "model" {
		t.Errorf("Expected assistant turn to map to model, got %v", role)
	}
	if _, ok := got.body["systemInstruction"]; !ok {
		t.Error("Expected a system instruction")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		msgs    []Message
		wantErr error
	}{
		{"empty", nil, ErrNoMessages},
		{"bad role", []Message{{Role: "system", Content: "x"}}, ErrInvalidRole},
		{"ok", []Message{{Role: RoleUser, Content: "x"}, {Role: RoleAssistant, Content: "y"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.msgs); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTail(t *testing.T) {
	var msgs []Message
	for i := 0; i < 10; i++ {
		msgs = append(msgs, Message{Role: RoleUser, Content: string(rune('a' + i))})
	}
	tail := Tail(msgs, HistoryTurns)
	if len(tail) != 6 || tail[0].Content != "e" || tail[5].Content != "j" {
		t.Errorf("Unexpected tail %+v", tail)
	}
	if got := Tail(msgs[:3], HistoryTurns); len(got) != 3 {
		t.Errorf("Expected short history untouched, got %d", len(got))
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), Config{Provider: "carrier-pigeon"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Expected ErrUnknownBackend, got %v", err)
	}
}

func TestRoleForSender(t *testing.T) {
	if RoleForSender("user") != RoleUser || RoleForSender("bot") != RoleAssistant {
		t.Error("sender mapping is wrong")
	}
}
