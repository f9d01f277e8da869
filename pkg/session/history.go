// Package session implements per-connection conversation state: the
// bounded history, the reasoning step, the turn pipeline, and the actor
// that serializes everything a single connection does.
package session

import "github.com/voxline/voxline/pkg/inference"

// MaxHistory bounds the number of retained conversation entries.
const MaxHistory = 10

// History is the bounded conversation log for one session. It is owned
// by the session's actor goroutine and needs no locking.
type History struct {
	entries []inference.Message
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds messages to the log and trims it to MaxHistory.
func (h *History) Append(msgs ...inference.Message) {
	h.entries = append(h.entries, msgs...)
	h.trim()
}

// trim keeps the newest MaxHistory entries, then drops leading tool
// results whose originating assistant tool call fell outside the window.
// A log starting with an unpaired tool result is rejected by chat APIs.
func (h *History) trim() {
	if len(h.entries) > MaxHistory {
		h.entries = h.entries[len(h.entries)-MaxHistory:]
	}
	for len(h.entries) > 0 && h.entries[0].Role == inference.RoleTool {
		h.entries = h.entries[1:]
	}
}

// Snapshot returns the system prompt followed by a copy of the log,
// ready to send as a chat request.
func (h *History) Snapshot(systemPrompt string) []inference.Message {
	out := make([]inference.Message, 0, len(h.entries)+1)
	out = append(out, inference.NewSystemMessage(systemPrompt))
	out = append(out, h.entries...)
	return out
}

// Entries returns a copy of the log without a system prompt.
func (h *History) Entries() []inference.Message {
	out := make([]inference.Message, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear empties the log.
func (h *History) Clear() {
	h.entries = nil
}
