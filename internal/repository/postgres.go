package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
)

// Postgres implements domain.Store over a pgx connection pool. Timestamps
// are assigned by the database at write time.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) CreateSession(ctx context.Context, session *domain.Session) error {
	err := s.pool.QueryRow(ctx, insertSession,
		string(session.ID),
		string(session.UserID),
		session.Name,
		session.Model,
		decimal.NewFromFloat(session.Temperature),
	).Scan(&session.CreatedAt)
	if err != nil {
		return domain.NewStorageError("create session", session.ID, err)
	}
	return nil
}

func (s *Postgres) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	var (
		sess domain.Session
		temp decimal.Decimal
	)
	err := s.pool.QueryRow(ctx, selectSession, string(id)).Scan(
		&sess.ID, &sess.UserID, &sess.Name, &sess.Model, &temp, &sess.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.NewStorageError("get session", id, err)
	}
	sess.Temperature = decimalToFloat(temp)
	return &sess, nil
}

// AppendMessage writes one immutable record. The session row is materialized
// in the same transaction when it does not exist yet, so a message can never
// reference a missing session.
func (s *Postgres) AppendMessage(ctx context.Context, sessionID domain.SessionID, userID domain.UserID, role domain.Role, content string) (*domain.Message, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.NewStorageError("append message", sessionID, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, ensureSession, string(sessionID), string(userID), config.SentinelSessionName); err != nil {
		return nil, domain.NewStorageError("append message", sessionID, fmt.Errorf("ensure session: %w", err))
	}

	msg := domain.Message{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
	}
	err = tx.QueryRow(ctx, insertMessage, string(sessionID), string(userID), string(role), content).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, domain.NewStorageError("append message", sessionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.NewStorageError("append message", sessionID, err)
	}
	return &msg, nil
}

func (s *Postgres) GetMessages(ctx context.Context, sessionID domain.SessionID) ([]domain.Message, error) {
	rows, err := s.pool.Query(ctx, selectMessages, string(sessionID))
	if err != nil {
		return nil, domain.NewStorageError("get messages", sessionID, err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, domain.NewStorageError("get messages", sessionID, err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("get messages", sessionID, err)
	}
	return msgs, nil
}

func (s *Postgres) ListSessions(ctx context.Context, userID domain.UserID) ([]domain.SessionInfo, error) {
	rows, err := s.pool.Query(ctx, selectSessionsByUser, string(userID))
	if err != nil {
		return nil, domain.NewStorageError("list sessions", "", err)
	}
	defer rows.Close()

	var infos []domain.SessionInfo
	for rows.Next() {
		var info domain.SessionInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.LastUsedAt); err != nil {
			return nil, domain.NewStorageError("list sessions", "", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list sessions", "", err)
	}
	return infos, nil
}

func (s *Postgres) DeleteSession(ctx context.Context, sessionID domain.SessionID) error {
	if _, err := s.pool.Exec(ctx, deleteSessionByID, string(sessionID)); err != nil {
		return domain.NewStorageError("delete session", sessionID, err)
	}
	return nil
}

func (s *Postgres) RenameSession(ctx context.Context, sessionID domain.SessionID, name string) error {
	if _, err := s.pool.Exec(ctx, updateSessionName, string(sessionID), name); err != nil {
		return domain.NewStorageError("rename session", sessionID, err)
	}
	return nil
}

// Preview returns the first user message truncated for the sidebar, or the
// empty-session placeholder when no user message exists yet.
func (s *Postgres) Preview(ctx context.Context, sessionID domain.SessionID) (string, error) {
	var content string
	err := s.pool.QueryRow(ctx, selectFirstUserMessage, string(sessionID)).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return config.EmptyPreview, nil
		}
		return "", domain.NewStorageError("preview", sessionID, err)
	}
	return TruncatePreview(content), nil
}

// TruncatePreview shortens content to the fixed sidebar display length.
func TruncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= config.PreviewLength {
		return content
	}
	return string(runes[:config.PreviewLength]) + "..."
}
