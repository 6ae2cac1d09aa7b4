package domain

import "time"

// Session is one persisted conversation thread. Name starts as the
// placeholder and is set at most once by the naming agent.
type Session struct {
	ID          SessionID
	UserID      UserID
	Name        string
	Model       string
	Temperature float64
	CreatedAt   time.Time
}

// SessionInfo is the store-level listing entry. LastUsedAt is derived from
// the newest message, falling back to session creation time while empty.
type SessionInfo struct {
	ID         SessionID
	Name       string
	LastUsedAt time.Time
}

// SessionListing is one sidebar entry: SessionInfo plus its preview text.
type SessionListing struct {
	ID         SessionID
	Name       string
	Preview    string
	LastUsedAt time.Time
}

// ConversationState carries the active user and session identity plus the
// cached message list shown to the UI. The cache is replaced wholesale on
// switch and never consulted by the store.
type ConversationState struct {
	UserID    UserID
	SessionID SessionID
	Messages  []Message
}
