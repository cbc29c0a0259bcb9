// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Roles accepted in a conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryTurns is how many previous turns accompany a new message.
const HistoryTurns = 6

var (
	ErrEmptyReply     = errors.New("upstream returned an empty reply")
	ErrNoMessages     = errors.New("no messages to send")
	ErrInvalidRole    = errors.New("invalid message role")
	ErrUnknownBackend = errors.New("unknown chat provider")
)

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider produces an assistant reply for a conversation.
type Provider interface {
	Reply(ctx context.Context, system string, messages []Message) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string // "openai" or "gemini"
	APIKey   string
	BaseURL  string
	Model    string
}

// New builds the provider named in cfg.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai", "groq":
		return NewOpenAI(OpenAIConfig{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, Model: cfg.Model}), nil
	case "gemini":
		return NewGemini(ctx, GeminiConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Provider)
	}
}

// Validate checks roles and content of a conversation.
func Validate(messages []Message) error {
	if len(messages) == 0 {
		return ErrNoMessages
	}
	for i, m := range messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("%w at %d: %q", ErrInvalidRole, i, m.Role)
		}
	}
	return nil
}

// Tail returns the last n messages.
func Tail(messages []Message, n int) []Message {
	if n <= 0 || len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

// RoleForSender maps a stored chat sender ("user" or "bot") to a role.
func RoleForSender(sender string) string {
	if sender == "user" {
		return RoleUser
	}
	return RoleAssistant
}

func cleanReply(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyReply
	}
	return s, nil
}
