// Package memory provides an in-memory domain.Store, used by tests and as
// the CHAT_STORAGE_BACKEND=memory runtime backend. State is lost on exit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
	"github.com/raagapravija/Chatbot/internal/repository"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
	messages map[domain.SessionID][]domain.Message
	nextID   int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[domain.SessionID]*domain.Session),
		messages: make(map[domain.SessionID][]domain.Message),
		nextID:   1,
		now:      time.Now,
	}
}

func (s *Store) CreateSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return nil
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *Store) GetSession(_ context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *Store) AppendMessage(_ context.Context, sessionID domain.SessionID, userID domain.UserID, role domain.Role, content string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		s.sessions[sessionID] = &domain.Session{
			ID:        sessionID,
			UserID:    userID,
			Name:      config.SentinelSessionName,
			CreatedAt: s.now(),
		}
	}

	msg := domain.Message{
		ID:        s.nextID,
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.nextID++
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	return &msg, nil
}

func (s *Store) GetMessages(_ context.Context, sessionID domain.SessionID) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]domain.Message, len(s.messages[sessionID]))
	copy(msgs, s.messages[sessionID])
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (s *Store) ListSessions(_ context.Context, userID domain.UserID) ([]domain.SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var infos []domain.SessionInfo
	for id, sess := range s.sessions {
		if sess.UserID != userID {
			continue
		}
		lastUsed := sess.CreatedAt
		if msgs := s.messages[id]; len(msgs) > 0 {
			lastUsed = msgs[len(msgs)-1].CreatedAt
		}
		infos = append(infos, domain.SessionInfo{ID: id, Name: sess.Name, LastUsedAt: lastUsed})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastUsedAt.After(infos[j].LastUsedAt)
	})
	return infos, nil
}

func (s *Store) DeleteSession(_ context.Context, sessionID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	delete(s.messages, sessionID)
	return nil
}

func (s *Store) RenameSession(_ context.Context, sessionID domain.SessionID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		sess.Name = name
	}
	return nil
}

func (s *Store) Preview(_ context.Context, sessionID domain.SessionID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.messages[sessionID] {
		if m.Role == domain.RoleUser {
			return repository.TruncatePreview(m.Content), nil
		}
	}
	return config.EmptyPreview, nil
}
