package service_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/raagapravija/Chatbot/internal/domain"
	"github.com/raagapravija/Chatbot/internal/service"
)

func historyOf(n int) []domain.Message {
	msgs := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		msgs = append(msgs, domain.Message{
			ID:      int64(i + 1),
			Role:    role,
			Content: fmt.Sprintf("message %d", i+1),
		})
	}
	return msgs
}

func TestBuildPromptWindowsHistory(t *testing.T) {
	history := historyOf(10)

	payload := service.BuildPrompt(history, "new question", 5)

	// system + 5 windowed + user turn
	if len(payload) != 7 {
		t.Fatalf("expected 7 payload messages, got %d", len(payload))
	}
	if payload[0].Role != "system" {
		t.Fatalf("expected system message first, got role %q", payload[0].Role)
	}
	for i := 0; i < 5; i++ {
		want := fmt.Sprintf("message %d", i+6)
		if payload[i+1].Content != want {
			t.Errorf("payload[%d]: got %q, want %q", i+1, payload[i+1].Content, want)
		}
	}
	for _, m := range payload {
		for i := 1; i <= 5; i++ {
			if m.Content == fmt.Sprintf("message %d", i) {
				t.Errorf("evicted message %d leaked into payload", i)
			}
		}
	}
	last := payload[len(payload)-1]
	if last.Role != "user" || last.Content != "new question" {
		t.Fatalf("expected new user turn last, got %+v", last)
	}
}

func TestBuildPromptShortHistory(t *testing.T) {
	history := historyOf(2)

	payload := service.BuildPrompt(history, "hi", 5)

	if len(payload) != 4 {
		t.Fatalf("expected 4 payload messages, got %d", len(payload))
	}
	if payload[1].Content != "message 1" || payload[2].Content != "message 2" {
		t.Fatalf("history out of order: %+v", payload[1:3])
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	history := historyOf(8)

	a := service.BuildPrompt(history, "again", 5)
	b := service.BuildPrompt(history, "again", 5)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different payloads:\n%v\n%v", a, b)
	}
}

func TestBuildPromptRolesPreserved(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "question"},
		{Role: domain.RoleAssistant, Content: "answer"},
	}

	payload := service.BuildPrompt(history, "follow-up", 5)

	if payload[1].Role != "user" || payload[2].Role != "assistant" {
		t.Fatalf("roles not preserved: %+v", payload)
	}
}
