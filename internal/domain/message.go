package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type (
	SessionID string
	UserID    string
)

// Message is one immutable turn entry. Messages are append-only and ordered
// within a session by CreatedAt, with ID breaking timestamp ties.
type Message struct {
	ID        int64
	SessionID SessionID
	UserID    UserID
	Role      Role
	Content   string
	CreatedAt time.Time
}
