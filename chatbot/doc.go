// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package chatbot talks to the upstream language model behind the wellness chat.

Two providers implement Provider:

  - OpenAI: any OpenAI-compatible chat completions endpoint (Groq by default,
    model llama-3.1-8b-instant) through openai-go.
  - Gemini: the Gemini API through the genai SDK.

Callers pass the system prompt and the conversation as user/assistant turns;
the reply is trimmed and an empty reply is reported as ErrEmptyReply so the
caller can fall back to a canned response.

	p, err := chatbot.New(ctx, chatbot.Config{Provider: "openai", APIKey: key})
	reply, err := p.Reply(ctx, lib.SystemPrompt, chatbot.Tail(history, chatbot.HistoryTurns))
*/
package chatbot
