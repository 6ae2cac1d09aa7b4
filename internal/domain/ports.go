package domain

import "context"

// Store defines session and message persistence. Implementations must keep
// each operation atomic; DeleteSession removes the session and all of its
// messages as one unit.
type Store interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id SessionID) (*Session, error)
	AppendMessage(ctx context.Context, sessionID SessionID, userID UserID, role Role, content string) (*Message, error)
	GetMessages(ctx context.Context, sessionID SessionID) ([]Message, error)
	ListSessions(ctx context.Context, userID UserID) ([]SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID SessionID) error
	RenameSession(ctx context.Context, sessionID SessionID, name string) error
	Preview(ctx context.Context, sessionID SessionID) (string, error)
}
