package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
	"github.com/raagapravija/Chatbot/internal/repository/memory"
	"github.com/raagapravija/Chatbot/internal/service"
)

func TestNewStateStartsWithGreeting(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := service.NewSessionService(store, testConfig())

	state := sessions.NewState(ctx, "user-1")

	if state.SessionID == "" {
		t.Fatal("expected a minted session id")
	}
	if len(state.Messages) != 1 || state.Messages[0].Content != config.DefaultGreeting {
		t.Fatalf("expected cached greeting as sole message, got %+v", state.Messages)
	}

	// Eager materialization: the session row exists before any message.
	sess, err := store.GetSession(ctx, state.SessionID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess.Name != config.SentinelSessionName {
		t.Fatalf("new session must carry the placeholder name, got %q", sess.Name)
	}

	// The greeting is display-only, never persisted.
	msgs, _ := store.GetMessages(ctx, state.SessionID)
	if len(msgs) != 0 {
		t.Fatalf("greeting leaked into the store: %+v", msgs)
	}
}

func TestSwitchLoadsStoredConversation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := service.NewSessionService(store, testConfig())

	old := sessions.NewState(ctx, "user-1")
	if _, err := store.AppendMessage(ctx, old.SessionID, "user-1", domain.RoleUser, "remember me"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	state := sessions.NewState(ctx, "user-1")
	if err := sessions.Switch(ctx, state, old.SessionID); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if state.SessionID != old.SessionID {
		t.Fatalf("active session not updated")
	}
	if len(state.Messages) != 1 || state.Messages[0].Content != "remember me" {
		t.Fatalf("cache not replaced with stored history: %+v", state.Messages)
	}
}

func TestSwitchUnknownSession(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := service.NewSessionService(store, testConfig())

	state := sessions.NewState(ctx, "user-1")
	before := state.SessionID

	err := sessions.Switch(ctx, state, "no-such-session")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if state.SessionID != before {
		t.Fatal("state must be untouched on failed switch")
	}
}

func TestDeleteActiveSessionResetsToGreeting(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := service.NewSessionService(store, testConfig())

	state := sessions.NewState(ctx, "user-1")
	deleted := state.SessionID
	if _, err := store.AppendMessage(ctx, deleted, "user-1", domain.RoleUser, "doomed"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	if err := sessions.Delete(ctx, state, deleted); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if state.SessionID == deleted {
		t.Fatal("expected a fresh session after deleting the active one")
	}
	if len(state.Messages) != 1 || state.Messages[0].Content != config.DefaultGreeting {
		t.Fatalf("expected default greeting as sole message, got %+v", state.Messages)
	}

	if _, err := store.GetSession(ctx, deleted); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("deleted session still present: %v", err)
	}
}

func TestDeleteInactiveSessionKeepsState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := service.NewSessionService(store, testConfig())

	other := sessions.NewState(ctx, "user-1")
	state := sessions.NewState(ctx, "user-1")
	active := state.SessionID

	if err := sessions.Delete(ctx, state, other.SessionID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if state.SessionID != active {
		t.Fatal("deleting another session must not reset the active state")
	}
}

func TestListForDisplayCombinesPreviews(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := service.NewSessionService(store, testConfig())

	empty := sessions.NewState(ctx, "user-1")
	used := sessions.NewState(ctx, "user-1")
	if _, err := store.AppendMessage(ctx, used.SessionID, "user-1", domain.RoleUser, "what is a hash table?"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	listings, err := sessions.ListForDisplay(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListForDisplay failed: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	// Most recently used first.
	if listings[0].ID != used.SessionID {
		t.Fatalf("expected most recently used session first, got %v", listings[0].ID)
	}
	if listings[0].Preview != "what is a hash table?" {
		t.Fatalf("unexpected preview %q", listings[0].Preview)
	}

	for _, l := range listings {
		if l.ID == empty.SessionID && l.Preview != config.EmptyPreview {
			t.Fatalf("empty session preview: got %q, want %q", l.Preview, config.EmptyPreview)
		}
	}
}
