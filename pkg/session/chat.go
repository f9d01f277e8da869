package session

import (
	"context"
	"log/slog"

	"github.com/voxline/voxline/pkg/inference"
	"github.com/voxline/voxline/pkg/tools"
)

// System prompts for the two reasoning calls. The first call advertises
// tools and nudges the model toward the weather tool; the follow-up call
// after a tool result drops the nudge.
const (
	toolSystemPrompt = "You are a helpful voice assistant. Keep responses concise and natural for voice output. When the user asks about weather, use the get_weather tool to provide accurate current information."

	followUpSystemPrompt = "You are a helpful voice assistant. Keep responses concise and natural for voice output."
)

// Fallback replies. The reasoning step never fails: every error path
// produces speakable text.
const (
	fallbackNoContent = "I'm not sure how to respond to that."
	fallbackFailure   = "I'm having trouble processing your request. Please try again."
)

// Chat is the reasoning step for one session: it owns the conversation
// history and turns transcribed user text into a reply, executing at
// most one tool call per turn.
type Chat struct {
	llm      inference.Provider
	registry *tools.Registry
	history  *History
	logger   *slog.Logger
}

// NewChat creates a reasoning step over the given provider and tools.
func NewChat(llm inference.Provider, registry *tools.Registry, history *History, logger *slog.Logger) *Chat {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chat{
		llm:      llm,
		registry: registry,
		history:  history,
		logger:   logger.With("component", "session.chat"),
	}
}

// Reply runs one reasoning turn for the transcribed user text. It makes
// one reasoning call, or two when the model requests a tool: only the
// first requested tool call is executed, its result is appended to the
// history, and a follow-up call produces the spoken reply. Failures
// return the fixed fallback phrase; the history keeps whatever was
// appended before the failure.
func (c *Chat) Reply(ctx context.Context, userText string) string {
	c.history.Append(inference.NewUserMessage(userText))

	c.logger.Info("sending request to llm")
	resp, err := c.llm.Chat(ctx, &inference.ChatRequest{
		Messages:   c.history.Snapshot(toolSystemPrompt),
		Tools:      c.registry.Declarations(),
		ToolChoice: "auto",
	})
	if err != nil {
		c.logger.Error("llm request failed", "error", err)
		return fallbackFailure
	}

	msg := resp.Message
	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		result := c.registry.Execute(ctx, call.Name, call.Arguments)

		c.history.Append(
			inference.Message{Role: inference.RoleAssistant, ToolCalls: []inference.ToolCall{call}},
			inference.NewToolMessage(call.ID, call.Name, result),
		)

		c.logger.Info("sending follow-up request to llm", "tool", call.Name)
		resp, err = c.llm.Chat(ctx, &inference.ChatRequest{
			Messages:   c.history.Snapshot(followUpSystemPrompt),
			Tools:      c.registry.Declarations(),
			ToolChoice: "auto",
		})
		if err != nil {
			c.logger.Error("llm follow-up request failed", "error", err)
			return fallbackFailure
		}
		msg = resp.Message
	}

	reply := msg.Content
	if reply == "" {
		reply = fallbackNoContent
	}

	c.history.Append(inference.NewAssistantMessage(reply))
	c.logger.Info("llm response", "reply", reply)
	return reply
}
