package chat

import (
	"strings"

	"github.com/Be1newinner/ship-chatbot/internal/ai"
)

const (
	// DefaultSystemInstruction matches the reference deployment.
	DefaultSystemInstruction = "You are a friendly chatbot."

	// DefaultContextTurns is the fixed lookback used when assembling
	// prompt context.
	DefaultContextTurns = 10

	// assistantDelimiter is the turn marker some backends echo back
	// verbatim in their output.
	assistantDelimiter = "<|assistant|>"
)

// BuildPrompt assembles the ordered model input: one system entry, then
// a user/assistant pair per prior turn in chronological order, then the
// new user message. The alternation is load-bearing for generation
// quality and transcript replay.
func BuildPrompt(systemInstruction string, prior []Turn, newMessage string) []ai.Message {
	msgs := make([]ai.Message, 0, 2+2*len(prior))
	msgs = append(msgs, ai.Message{Role: "system", Content: systemInstruction})
	for _, t := range prior {
		msgs = append(msgs,
			ai.Message{Role: "user", Content: t.Message},
			ai.Message{Role: "assistant", Content: t.Response},
		)
	}
	msgs = append(msgs, ai.Message{Role: "user", Content: newMessage})
	return msgs
}

// Sanitize strips echoed system/user turns from raw backend output by
// keeping only the text after the last assistant delimiter. If the
// delimiter is absent the trimmed raw text is returned unchanged.
func Sanitize(raw string) string {
	if i := strings.LastIndex(raw, assistantDelimiter); i >= 0 {
		return strings.TrimSpace(raw[i+len(assistantDelimiter):])
	}
	return strings.TrimSpace(raw)
}
