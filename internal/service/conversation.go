package service

import (
	"context"
	"log/slog"

	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
)

// Fallback replies persisted in place of the assistant turn when the model
// call fails. The failure stays part of the conversation history.
const (
	fallbackGeneric        = "I encountered an error. Could you please repeat your question?"
	fallbackRateLimited    = "I'm receiving too many requests right now. Please try again in a moment."
	fallbackTimeout        = "That took longer than expected. Could you please try again?"
	fallbackUnavailable    = "The assistant is temporarily unavailable. Please try again shortly."
	fallbackDecommissioned = "The assistant is updating, please retry in a moment."
)

// ConversationService orchestrates one turn: record the user message,
// assemble bounded context, invoke the model once, record the reply.
type ConversationService struct {
	store  domain.Store
	client ModelClient
	naming *NamingService
	cfg    *config.Config
}

func NewConversationService(store domain.Store, client ModelClient, naming *NamingService, cfg *config.Config) *ConversationService {
	return &ConversationService{store: store, client: client, naming: naming, cfg: cfg}
}

// Respond runs one user turn against the active session and returns the text
// to display. A storage failure on the user-message write aborts the turn
// and is returned to the caller; a model failure is converted to a persisted
// fallback reply and is not an error.
func (s *ConversationService) Respond(ctx context.Context, state *domain.ConversationState, text string) (string, error) {
	history := state.Messages

	userMsg, err := s.store.AppendMessage(ctx, state.SessionID, state.UserID, domain.RoleUser, text)
	if err != nil {
		slog.Error("record user message", "session_id", state.SessionID, "error", err)
		return "", err
	}
	state.Messages = append(state.Messages, *userMsg)

	payload := BuildPrompt(history, text, s.cfg.ContextWindow)

	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	temperature := s.cfg.Temperature
	reply, err := s.client.Chat(reqCtx, payload, s.cfg.Model, &temperature)
	if err != nil {
		pe := domain.AsProviderError(err)
		slog.Error("model invocation failed", "session_id", state.SessionID, "kind", pe.Kind, "error", err)
		reply = fallbackFor(pe)
	}

	// Best effort: a lost assistant write should not take down the turn the
	// user already paid a model call for.
	assistantMsg, storeErr := s.store.AppendMessage(ctx, state.SessionID, state.UserID, domain.RoleAssistant, reply)
	if storeErr != nil {
		slog.Error("record assistant message", "session_id", state.SessionID, "error", storeErr)
		state.Messages = append(state.Messages, domain.Message{
			SessionID: state.SessionID,
			UserID:    state.UserID,
			Role:      domain.RoleAssistant,
			Content:   reply,
		})
	} else {
		state.Messages = append(state.Messages, *assistantMsg)
	}

	// Cosmetic, synchronous, never fails the turn.
	s.naming.MaybeRename(ctx, state.SessionID, state.Messages)

	return reply, nil
}

func fallbackFor(pe *domain.ProviderError) string {
	switch pe.Kind {
	case domain.ProviderDecommissioned:
		return fallbackDecommissioned
	case domain.ProviderRateLimited:
		return fallbackRateLimited
	case domain.ProviderTimeout:
		return fallbackTimeout
	case domain.ProviderUnavailable:
		return fallbackUnavailable
	default:
		return fallbackGeneric
	}
}
