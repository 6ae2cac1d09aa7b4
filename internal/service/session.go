package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
)

// SessionService is the session registry: it owns transitions of the active
// ConversationState and bridges it to the store.
type SessionService struct {
	store domain.Store
	cfg   *config.Config
}

func NewSessionService(store domain.Store, cfg *config.Config) *SessionService {
	return &SessionService{store: store, cfg: cfg}
}

// NewState mints a fresh session and returns a state holding only the cached
// greeting. The session row is materialized eagerly; if that write fails the
// state is still returned, since AppendMessage re-materializes the row on
// the first turn.
func (s *SessionService) NewState(ctx context.Context, userID domain.UserID) *domain.ConversationState {
	session := &domain.Session{
		ID:          domain.SessionID(uuid.NewString()),
		UserID:      userID,
		Name:        config.SentinelSessionName,
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		slog.Warn("eager session create failed, deferring to first message", "session_id", session.ID, "error", err)
	}

	return &domain.ConversationState{
		UserID:    userID,
		SessionID: session.ID,
		Messages: []domain.Message{{
			SessionID: session.ID,
			Role:      domain.RoleAssistant,
			Content:   config.DefaultGreeting,
		}},
	}
}

// Switch replaces the active session and cached messages with a stored
// conversation. Returns domain.ErrSessionNotFound when the id is unknown;
// the caller falls back to a fresh greeting state.
func (s *SessionService) Switch(ctx context.Context, state *domain.ConversationState, id domain.SessionID) error {
	if _, err := s.store.GetSession(ctx, id); err != nil {
		return err
	}
	msgs, err := s.store.GetMessages(ctx, id)
	if err != nil {
		return err
	}

	state.SessionID = id
	state.Messages = msgs
	return nil
}

// ListForDisplay combines the session list with per-session previews. One
// preview query per session; fine at single-user scale.
func (s *SessionService) ListForDisplay(ctx context.Context, userID domain.UserID) ([]domain.SessionListing, error) {
	infos, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	listings := make([]domain.SessionListing, 0, len(infos))
	for _, info := range infos {
		preview, err := s.store.Preview(ctx, info.ID)
		if err != nil {
			slog.Warn("preview failed", "session_id", info.ID, "error", err)
			preview = config.EmptyPreview
		}
		listings = append(listings, domain.SessionListing{
			ID:         info.ID,
			Name:       info.Name,
			Preview:    preview,
			LastUsedAt: info.LastUsedAt,
		})
	}
	return listings, nil
}

// Delete removes a session and its messages. Deleting the active session
// resets the state to a fresh greeting session.
func (s *SessionService) Delete(ctx context.Context, state *domain.ConversationState, id domain.SessionID) error {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	if state.SessionID == id {
		*state = *s.NewState(ctx, state.UserID)
	}
	return nil
}
