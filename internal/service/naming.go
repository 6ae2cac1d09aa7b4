package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
)

const namingInstruction = "Based on the following conversation snippets, generate a concise (3-5 word) " +
	"title that summarizes the main topic. Return ONLY the title, nothing else.\n\n" +
	"Conversation snippets:\n%s\n\nTitle:"

// NamingService derives a human-readable session title from the early user
// messages with one secondary model call. Naming is cosmetic: every failure
// is swallowed and the session keeps its placeholder name.
type NamingService struct {
	store  domain.Store
	client ModelClient
	model  string
}

func NewNamingService(store domain.Store, client ModelClient, model string) *NamingService {
	return &NamingService{store: store, client: client, model: model}
}

// MaybeRename renames the session once it holds at least two messages and
// still carries the placeholder name. Returns the new name and whether a
// rename happened.
func (n *NamingService) MaybeRename(ctx context.Context, sessionID domain.SessionID, messages []domain.Message) (string, bool) {
	if len(messages) < config.NamingThreshold {
		return "", false
	}

	session, err := n.store.GetSession(ctx, sessionID)
	if err != nil {
		slog.Debug("naming skipped: session lookup failed", "session_id", sessionID, "error", err)
		return "", false
	}
	if session.Name != config.SentinelSessionName {
		return "", false
	}

	var snippets []string
	for _, m := range messages {
		if m.Role != domain.RoleUser {
			continue
		}
		snippets = append(snippets, m.Content)
		if len(snippets) == config.NamingSourceMessages {
			break
		}
	}
	if len(snippets) == 0 {
		return "", false
	}

	prompt := fmt.Sprintf(namingInstruction, strings.Join(snippets, "\n"))
	raw, err := n.client.Chat(ctx, []ChatMessage{{Role: "user", Content: prompt}}, n.model, nil)
	if err != nil {
		slog.Debug("naming model call failed", "session_id", sessionID, "error", err)
		return "", false
	}

	name := cleanSessionName(raw)
	if name == "" || len([]rune(name)) > config.MaxSessionNameLen {
		return "", false
	}

	if err := n.store.RenameSession(ctx, sessionID, name); err != nil {
		slog.Debug("rename failed", "session_id", sessionID, "error", err)
		return "", false
	}

	slog.Info("session named", "session_id", sessionID, "name", name)
	return name, true
}

func cleanSessionName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.NewReplacer(`"`, "", "'", "", "`", "").Replace(name)
	return strings.TrimSpace(name)
}
