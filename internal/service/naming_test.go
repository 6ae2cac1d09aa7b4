package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
	"github.com/raagapravija/Chatbot/internal/repository/memory"
	"github.com/raagapravija/Chatbot/internal/service"
)

func seedSession(t *testing.T, store domain.Store, messageContents ...string) domain.SessionID {
	t.Helper()
	ctx := context.Background()

	id := domain.SessionID("session-1")
	err := store.CreateSession(ctx, &domain.Session{
		ID:     id,
		UserID: "user-1",
		Name:   config.SentinelSessionName,
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	for i, content := range messageContents {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		if _, err := store.AppendMessage(ctx, id, "user-1", role, content); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}
	return id
}

func messagesOf(t *testing.T, store domain.Store, id domain.SessionID) []domain.Message {
	t.Helper()
	msgs, err := store.GetMessages(context.Background(), id)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	return msgs
}

func TestMaybeRenameBelowThreshold(t *testing.T) {
	store := memory.NewStore()
	id := seedSession(t, store, "only one message")
	client := &fakeModelClient{replies: []string{"Should Not Be Used"}}
	naming := service.NewNamingService(store, client, "m")

	name, renamed := naming.MaybeRename(context.Background(), id, messagesOf(t, store, id))
	if renamed || name != "" {
		t.Fatalf("expected no rename below threshold, got %q", name)
	}
	if len(client.payloads) != 0 {
		t.Fatalf("naming model must not be invoked below threshold")
	}
}

func TestMaybeRenameSetsName(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	id := seedSession(t, store, "what is a hash table?", "a structure mapping keys to values")
	client := &fakeModelClient{replies: []string{"  \"Hash Table Basics\"  "}}
	naming := service.NewNamingService(store, client, "m")

	name, renamed := naming.MaybeRename(ctx, id, messagesOf(t, store, id))
	if !renamed {
		t.Fatal("expected a rename")
	}
	if name != "Hash Table Basics" {
		t.Fatalf("expected quotes and whitespace stripped, got %q", name)
	}

	sess, err := store.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess.Name != "Hash Table Basics" {
		t.Fatalf("rename not persisted, session name %q", sess.Name)
	}
}

func TestMaybeRenameRunsOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	id := seedSession(t, store, "first question", "first answer")
	client := &fakeModelClient{replies: []string{"First Title", "Second Title"}}
	naming := service.NewNamingService(store, client, "m")

	if _, renamed := naming.MaybeRename(ctx, id, messagesOf(t, store, id)); !renamed {
		t.Fatal("expected initial rename")
	}
	if _, renamed := naming.MaybeRename(ctx, id, messagesOf(t, store, id)); renamed {
		t.Fatal("rename must not re-trigger once the name is set")
	}
	if len(client.payloads) != 1 {
		t.Fatalf("expected exactly one naming invocation, got %d", len(client.payloads))
	}
}

func TestMaybeRenameSwallowsModelFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	id := seedSession(t, store, "question", "answer")
	client := &fakeModelClient{err: errors.New("naming model down")}
	naming := service.NewNamingService(store, client, "m")

	name, renamed := naming.MaybeRename(ctx, id, messagesOf(t, store, id))
	if renamed || name != "" {
		t.Fatalf("expected failure to be swallowed, got rename to %q", name)
	}

	sess, err := store.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess.Name != config.SentinelSessionName {
		t.Fatalf("session name changed on failure: %q", sess.Name)
	}
}

func TestMaybeRenameRejectsOversizedTitle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	id := seedSession(t, store, "question", "answer")
	client := &fakeModelClient{replies: []string{strings.Repeat("x", config.MaxSessionNameLen+1)}}
	naming := service.NewNamingService(store, client, "m")

	if _, renamed := naming.MaybeRename(ctx, id, messagesOf(t, store, id)); renamed {
		t.Fatal("oversized title must be rejected")
	}

	sess, _ := store.GetSession(ctx, id)
	if sess.Name != config.SentinelSessionName {
		t.Fatalf("session name changed despite rejection: %q", sess.Name)
	}
}

func TestMaybeRenameUsesOnlyEarlyUserMessages(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	id := seedSession(t, store,
		"first question", "first answer",
		"second question", "second answer",
		"third question", "third answer",
		"fourth question", "fourth answer",
	)
	client := &fakeModelClient{replies: []string{"Some Title"}}
	naming := service.NewNamingService(store, client, "m")

	if _, renamed := naming.MaybeRename(ctx, id, messagesOf(t, store, id)); !renamed {
		t.Fatal("expected rename")
	}

	prompt := client.payloads[0][0].Content
	for _, want := range []string{"first question", "second question", "third question"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("naming prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "fourth question") {
		t.Error("naming prompt must only use the first three user messages")
	}
	if strings.Contains(prompt, "first answer") {
		t.Error("naming prompt must only use user-role messages")
	}
}
