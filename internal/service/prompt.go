package service

import "github.com/raagapravija/Chatbot/internal/domain"

// systemInstruction is the fixed assistant persona wrapped around every
// prompt.
const systemInstruction = "You are a knowledgeable and helpful AI assistant. " +
	"Provide clear, confident answers to technical questions and general questions.\n" +
	"If a question is unclear, ask for clarification once. Otherwise, answer directly. " +
	"Do not ask follow-up questions unless specifically requested."

// BuildPrompt assembles the bounded payload for one model invocation: the
// system instruction, the last `window` history messages in chronological
// order, then the new user turn. Pure and deterministic, so prompts are
// reproducible given identical inputs.
func BuildPrompt(history []domain.Message, userTurn string, window int) []ChatMessage {
	if len(history) > window {
		history = history[len(history)-window:]
	}

	payload := make([]ChatMessage, 0, len(history)+2)
	payload = append(payload, ChatMessage{Role: "system", Content: systemInstruction})
	for _, m := range history {
		payload = append(payload, ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	payload = append(payload, ChatMessage{Role: "user", Content: userTurn})
	return payload
}
