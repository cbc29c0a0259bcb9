// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/mindmaze/chatbot"
	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/wellness"
)

const upstreamTimeout = 30 * time.Second

type ChatHandler struct {
	base
	lib   LibrarySource
	bot   chatbot.Provider
	sends *keyedMutex
	intn  func(int) int
}

func NewChatHandler(st store.Store, cfg cliparse.Config, lib LibrarySource, bot chatbot.Provider) *ChatHandler {
	return &ChatHandler{
		base:  newBase(st, cfg),
		lib:   lib,
		bot:   bot,
		sends: newKeyedMutex(),
		intn:  rand.IntN,
	}
}

func (h *ChatHandler) quota(used int) wellness.Quota {
	return wellness.Quota{Used: used, Limit: h.cfg.DailyMessageLimit}
}

// readUsage returns today's message count, creating the counter at zero.
func (h *ChatHandler) readUsage(ctx context.Context, uid, day string, now time.Time) (int, error) {
	path := store.UserPath(uid, store.ChatUsage, day)

	var usage models.ChatUsage
	found, err := h.getOptional(ctx, path, &usage)
	if err != nil {
		return 0, err
	}
	if found {
		return usage.MessagesCount, nil
	}

	err = h.store.Create(ctx, path, models.ChatUsage{Date: day, LastUpdate: now})
	if err != nil && !errors.Is(err, store.ErrExists) {
		return 0, fmt.Errorf("failed to create usage counter: %w", err)
	}
	return 0, nil
}

// GetUsage handles GET /api/chat/usage
func (h *ChatHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	now, day := h.clientNow(r)

	used, err := h.readUsage(r.Context(), user.UID, day, now)
	if err != nil {
		// A broken counter must not lock anyone out.
		slog.Error("failed to read chat usage", "uid", user.UID, "error", err)
		used = 0
	}

	newDay := false
	prefsPath := store.UserPath(user.UID, store.Settings, "preferences")
	var prefs models.Preferences
	if _, err := h.getOptional(r.Context(), prefsPath, &prefs); err != nil {
		slog.Error("failed to read preferences", "uid", user.UID, "error", err)
	} else if prefs.LastSeenDate != day {
		newDay = true
		prefs.LastSeenDate = day
		if prefs.Theme == "" {
			prefs.Theme = models.ThemeLight
		}
		if err := h.store.Set(r.Context(), prefsPath, prefs); err != nil {
			slog.Error("failed to update last seen date", "uid", user.UID, "error", err)
		}
	}

	q := h.quota(used)
	middleware.JSONResponse(w, http.StatusOK, models.UsageResponse{
		MessagesCount: used,
		Remaining:     q.Remaining(),
		Limit:         q.Limit,
		UsageText:     q.Text(),
		Warning:       q.Warning(),
		Blocked:       q.Blocked(),
		NewDay:        newDay,
	})
}

// GetTip handles GET /api/chat/tip
func (h *ChatHandler) GetTip(w http.ResponseWriter, r *http.Request) {
	now, _ := h.clientNow(r)
	middleware.JSONResponse(w, http.StatusOK, models.TipResponse{Tip: h.lib.Library().TipFor(now)})
}

func (h *ChatHandler) loadMessages(ctx context.Context, uid, day string) ([]models.ChatMessage, error) {
	snaps, err := h.store.List(ctx, store.UserPath(uid, store.ChatLogs, day, store.Messages), store.Query{})
	if err != nil {
		return nil, err
	}
	msgs := make([]models.ChatMessage, 0, len(snaps))
	for _, s := range snaps {
		var m models.ChatMessage
		if err := s.DataTo(&m); err != nil {
			return nil, err
		}
		m.ID = s.ID
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// ListMessages handles GET /api/chat/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	_, day := h.clientNow(r)

	msgs, err := h.loadMessages(r.Context(), user.UID, day)
	if err != nil {
		slog.Error("failed to load chat log", "uid", user.UID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load messages")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessagesResponse{Date: day, Messages: msgs})
}

// StreamMessages handles GET /api/chat/stream (WebSocket)
func (h *ChatHandler) StreamMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	_, day := h.clientNow(r)

	path := store.UserPath(user.UID, store.ChatLogs, day, store.Messages)
	serveStream(w, r, h.store, path, func(ctx context.Context) (any, error) {
		msgs, err := h.loadMessages(ctx, user.UID, day)
		if err != nil {
			return nil, err
		}
		return models.MessagesResponse{Date: day, Messages: msgs}, nil
	})
}

// SendMessage handles POST /api/chat/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	unlock := h.sends.Lock(user.UID)
	defer unlock()

	ctx := r.Context()
	now, day := h.clientNow(r)
	lib := h.lib.Library()

	used, err := h.readUsage(ctx, user.UID, day, now)
	if err != nil {
		slog.Error("failed to read chat usage", "uid", user.UID, "error", err)
		used = 0
	}
	if q := h.quota(used); q.Blocked() {
		middleware.JSONResponse(w, http.StatusTooManyRequests, models.LimitResponse{
			Error:     http.StatusText(http.StatusTooManyRequests),
			Message:   lib.LimitMessage,
			Remaining: 0,
			UsageText: q.Text(),
			Blocked:   true,
		})
		return
	}

	// History is read before the new message is stored so it is not sent twice.
	history, err := h.loadMessages(ctx, user.UID, day)
	if err != nil {
		slog.Error("failed to load chat history", "uid", user.UID, "error", err)
		history = nil
	}

	logPath := store.UserPath(user.UID, store.ChatLogs, day, store.Messages)
	userMsg := models.ChatMessage{Message: text, Sender: models.SenderUser, Timestamp: now}
	// A lost log entry must not cost the user a reply.
	if userMsg.ID, err = h.store.Add(ctx, logPath, userMsg); err != nil {
		slog.Error("failed to save user message", "uid", user.UID, "error", err)
	}

	count, err := h.store.Increment(ctx, store.UserPath(user.UID, store.ChatUsage, day), "messagesCount", 1,
		map[string]any{"date": day, "lastUpdate": now.Format(time.RFC3339Nano)})
	if err != nil {
		slog.Error("failed to increment chat usage", "uid", user.UID, "error", err)
		count = int64(used + 1)
	}

	reply, fallback := h.reply(ctx, user.UID, text, history)

	botMsg := models.ChatMessage{Message: reply, Sender: models.SenderBot, Timestamp: h.now().In(now.Location())}
	if botMsg.ID, err = h.store.Add(ctx, logPath, botMsg); err != nil {
		slog.Error("failed to save bot message", "uid", user.UID, "error", err)
	}

	slog.Info("chat message sent", "uid", user.UID, "count", count, "fallback", fallback)

	q := h.quota(int(count))
	middleware.JSONResponse(w, http.StatusOK, models.SendMessageResponse{
		UserMessage: userMsg,
		BotMessage:  botMsg,
		Remaining:   q.Remaining(),
		UsageText:   q.Text(),
		Warning:     q.Warning(),
		Blocked:     q.Blocked(),
		Fallback:    fallback,
	})
}

// reply asks the provider, falling back to a canned answer on any failure.
func (h *ChatHandler) reply(ctx context.Context, uid, text string, history []models.ChatMessage) (string, bool) {
	lib := h.lib.Library()

	if h.cfg.ChatTopicGuard && !wellness.IsWellnessRelated(text) {
		return lib.BoundaryMessage, false
	}
	if h.bot == nil {
		return lib.FallbackReply(h.intn), true
	}

	turns := make([]chatbot.Message, 0, len(history)+1)
	for _, m := range history {
		turns = append(turns, chatbot.Message{Role: chatbot.RoleForSender(m.Sender), Content: m.Message})
	}
	turns = chatbot.Tail(turns, chatbot.HistoryTurns)
	turns = append(turns, chatbot.Message{Role: chatbot.RoleUser, Content: text})

	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	reply, err := h.bot.Reply(ctx, lib.SystemPrompt, turns)
	if err != nil {
		slog.Warn("chat provider failed, using fallback", "uid", uid, "error", err)
		return lib.FallbackReply(h.intn), true
	}
	return reply, false
}

// Proxy handles POST /api/chat
func (h *ChatHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	var req models.ProxyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	turns := make([]chatbot.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		turns = append(turns, chatbot.Message{Role: m.Role, Content: m.Content})
	}
	if err := chatbot.Validate(turns); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.bot == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Chat provider is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	reply, err := h.bot.Reply(ctx, h.lib.Library().SystemPrompt, turns)
	if err != nil {
		slog.Error("chat proxy failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Chat provider request failed")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProxyResponse{Reply: reply})
}
