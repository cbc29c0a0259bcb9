// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/mindmaze/chatbot"
	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/testutil"
)

type fakeBot struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	system string
	last   []chatbot.Message
}

func (b *fakeBot) Reply(ctx context.Context, system string, messages []chatbot.Message) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.system = system
	b.last = append([]chatbot.Message(nil), messages...)
	return b.reply, b.err
}

func (b *fakeBot) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func newTestChatHandler(t *testing.T, cfg cliparse.Config, bot chatbot.Provider) (*ChatHandler, store.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	h := NewChatHandler(st, cfg, testutil.DefaultLibrary(), bot)
	h.now = fixedClock(testNow)
	h.intn = func(int) int { return 0 }
	return h, st
}

func sendChat(t *testing.T, h *ChatHandler, uid, message string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.MakeRequest("POST", "/api/chat/messages", models.SendMessageRequest{Message: message}, nil)
	return serve(h.SendMessage, testutil.AsUser(req, uid))
}

func TestGetUsage(t *testing.T) {
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), &fakeBot{reply: "hi"})

	req := testutil.AsUser(testutil.MakeRequest("GET", "/api/chat/usage", nil, nil), "u1")
	w := serve(h.GetUsage, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.UsageResponse
	testutil.AssertJSON(t, w, &resp)
	want := models.UsageResponse{
		MessagesCount: 0,
		Remaining:     20,
		Limit:         20,
		UsageText:     "Chats left today: 20/20",
		NewDay:        true,
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("Usage mismatch (-want +got):\n%s", diff)
	}

	// The second visit on the same day is not a new day.
	w = serve(h.GetUsage, testutil.AsUser(testutil.MakeRequest("GET", "/api/chat/usage", nil, nil), "u1"))
	testutil.AssertJSON(t, w, &resp)
	if resp.NewDay {
		t.Error("Expected newDay false on second visit")
	}
}

func TestGetUsage_RequiresUser(t *testing.T) {
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), nil)

	w := serve(h.GetUsage, testutil.MakeRequest("GET", "/api/chat/usage", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestSendMessage(t *testing.T) {
	bot := &fakeBot{reply: "Take a slow breath with me."}
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), bot)

	w := sendChat(t, h, "u1", "  I feel stressed  ")
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SendMessageResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.UserMessage.Message != "I feel stressed" {
		t.Errorf("Expected trimmed user message, got %q", resp.UserMessage.Message)
	}
	if resp.BotMessage.Message != bot.reply {
		t.Errorf("Expected bot reply %q, got %q", bot.reply, resp.BotMessage.Message)
	}
	if resp.Remaining != 19 || resp.Fallback {
		t.Errorf("Expected remaining 19 without fallback, got %d fallback=%v", resp.Remaining, resp.Fallback)
	}
	if resp.UserMessage.ID == "" || resp.BotMessage.ID == "" {
		t.Error("Expected stored message IDs")
	}

	if bot.system != testutil.DefaultLibrary().Library().SystemPrompt {
		t.Error("Expected the wellness system prompt")
	}
	wantTurns := []chatbot.Message{{Role: chatbot.RoleUser, Content: "I feel stressed"}}
	if diff := cmp.Diff(wantTurns, bot.last); diff != "" {
		t.Errorf("Turns mismatch (-want +got):\n%s", diff)
	}

	w = serve(h.ListMessages, testutil.AsUser(testutil.MakeRequest("GET", "/api/chat/messages", nil, nil), "u1"))
	testutil.AssertStatus(t, w, http.StatusOK)
	var log models.MessagesResponse
	testutil.AssertJSON(t, w, &log)

	if log.Date != "2026-10-16" {
		t.Errorf("Expected date 2026-10-16, got %s", log.Date)
	}
	var senders []string
	for _, m := range log.Messages {
		senders = append(senders, m.Sender)
	}
	if !slices.Equal(senders, []string{models.SenderUser, models.SenderBot}) {
		t.Errorf("Expected user then bot, got %v", senders)
	}
}

func TestSendMessage_Empty(t *testing.T) {
	bot := &fakeBot{reply: "ok"}
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), bot)

	w := sendChat(t, h, "u1", "   ")
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	if bot.Calls() != 0 {
		t.Errorf("Expected no provider call, got %d", bot.Calls())
	}
}

func TestSendMessage_DailyLimit(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.DailyMessageLimit = 2
	bot := &fakeBot{reply: "ok"}
	h, _ := newTestChatHandler(t, cfg, bot)

	w := sendChat(t, h, "u1", "first")
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SendMessageResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Warning != "⚠️ Only 1 chats left today" {
		t.Errorf("Expected low quota warning, got %q", resp.Warning)
	}

	w = sendChat(t, h, "u1", "second")
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &resp)
	if !resp.Blocked || resp.Remaining != 0 {
		t.Errorf("Expected blocked after the last message, got %+v", resp)
	}

	w = sendChat(t, h, "u1", "third")
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)
	var limit models.LimitResponse
	testutil.AssertJSON(t, w, &limit)
	if limit.Message != testutil.DefaultLibrary().Library().LimitMessage {
		t.Errorf("Expected the daily limit message, got %q", limit.Message)
	}
	if bot.Calls() != 2 {
		t.Errorf("Expected 2 provider calls, got %d", bot.Calls())
	}

	// A different user has a separate counter.
	w = sendChat(t, h, "u2", "hello")
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestSendMessage_FallbackOnProviderError(t *testing.T) {
	bot := &fakeBot{err: errors.New("upstream down")}
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), bot)

	w := sendChat(t, h, "u1", "hello")
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SendMessageResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Fallback {
		t.Error("Expected fallback reply")
	}
	want := testutil.DefaultLibrary().Library().FallbackReplies[0]
	if resp.BotMessage.Message != want {
		t.Errorf("Expected %q, got %q", want, resp.BotMessage.Message)
	}
}

func TestSendMessage_NoProvider(t *testing.T) {
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), nil)

	w := sendChat(t, h, "u1", "hello")
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SendMessageResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Fallback {
		t.Error("Expected fallback reply without a provider")
	}
}

func TestSendMessage_HistoryWindow(t *testing.T) {
	bot := &fakeBot{reply: "ok"}
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), bot)

	for _, m := range []string{"one", "two", "three", "four"} {
		testutil.AssertStatus(t, sendChat(t, h, "u1", m), http.StatusOK)
	}
	testutil.AssertStatus(t, sendChat(t, h, "u1", "five"), http.StatusOK)

	if len(bot.last) != chatbot.HistoryTurns+1 {
		t.Fatalf("Expected %d turns, got %d", chatbot.HistoryTurns+1, len(bot.last))
	}
	if bot.last[0].Content != "two" || bot.last[0].Role != chatbot.RoleUser {
		t.Errorf("Expected window to start at \"two\", got %+v", bot.last[0])
	}
	if bot.last[1].Role != chatbot.RoleAssistant {
		t.Errorf("Expected bot turns as assistant, got %q", bot.last[1].Role)
	}
	if got := bot.last[len(bot.last)-1]; got.Content != "five" {
		t.Errorf("Expected the new message last, got %q", got.Content)
	}
}

func TestSendMessage_TopicGuard(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.ChatTopicGuard = true
	bot := &fakeBot{reply: "ok"}
	h, _ := newTestChatHandler(t, cfg, bot)

	w := sendChat(t, h, "u1", "what is the capital of peru")
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SendMessageResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.BotMessage.Message != testutil.DefaultLibrary().Library().BoundaryMessage {
		t.Errorf("Expected boundary message, got %q", resp.BotMessage.Message)
	}
	if bot.Calls() != 0 {
		t.Errorf("Expected no provider call, got %d", bot.Calls())
	}
	if resp.Remaining != 19 {
		t.Errorf("Expected guarded message to be counted, remaining %d", resp.Remaining)
	}
}

func TestProxy(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		bot        chatbot.Provider
		wantStatus int
	}{
		{
			name:       "valid conversation",
			body:       models.ProxyRequest{Messages: []models.ChatTurn{{Role: "user", Content: "hi"}}},
			bot:        &fakeBot{reply: "hello"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no messages",
			body:       models.ProxyRequest{},
			bot:        &fakeBot{reply: "hello"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad role",
			body:       models.ProxyRequest{Messages: []models.ChatTurn{{Role: "system", Content: "x"}}},
			bot:        &fakeBot{reply: "hello"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "provider failure",
			body:       models.ProxyRequest{Messages: []models.ChatTurn{{Role: "user", Content: "hi"}}},
			bot:        &fakeBot{err: errors.New("boom")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "no provider",
			body:       models.ProxyRequest{Messages: []models.ChatTurn{{Role: "user", Content: "hi"}}},
			bot:        nil,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestChatHandler(t, testutil.GetTestConfig(), tt.bot)

			w := serve(h.Proxy, testutil.MakeRequest("POST", "/api/chat", tt.body, nil))
			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantStatus == http.StatusOK {
				var resp models.ProxyResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Reply != "hello" {
					t.Errorf("Expected reply hello, got %q", resp.Reply)
				}
			}
		})
	}
}

func TestProxy_InvalidJSON(t *testing.T) {
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), &fakeBot{reply: "x"})

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader("{not json"))
	w := serve(h.Proxy, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestStreamMessages(t *testing.T) {
	h, _ := newTestChatHandler(t, testutil.GetTestConfig(), &fakeBot{reply: "ok"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.StreamMessages(w, testutil.AsUser(r, "u1"))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to dial stream: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snap models.MessagesResponse
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("Failed to read initial snapshot: %v", err)
	}
	if len(snap.Messages) != 0 {
		t.Fatalf("Expected empty log, got %d messages", len(snap.Messages))
	}

	testutil.AssertStatus(t, sendChat(t, h, "u1", "hello"), http.StatusOK)

	// Notifications may coalesce; read until both messages are visible.
	for len(snap.Messages) < 2 {
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("Failed to read update: %v", err)
		}
	}
	if snap.Messages[1].Sender != models.SenderBot {
		t.Errorf("Expected bot message last, got %q", snap.Messages[1].Sender)
	}
}
