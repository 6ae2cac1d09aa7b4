// Package cli is the terminal front-end: a thin presentation layer over the
// session registry and response orchestrator.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/raagapravija/Chatbot/internal/domain"
	"github.com/raagapravija/Chatbot/internal/service"
)

var (
	youPrompt  = color.New(color.FgGreen, color.Bold).SprintFunc()
	botPrompt  = color.New(color.FgCyan, color.Bold).SprintFunc()
	infoText   = color.New(color.FgYellow).SprintFunc()
	activeMark = color.New(color.FgGreen).SprintFunc()
)

type REPL struct {
	sessions *service.SessionService
	conv     *service.ConversationService
	in       io.Reader
	out      io.Writer

	state    *domain.ConversationState
	listings []domain.SessionListing // last rendered list, indexed by /switch and /delete
}

func New(sessions *service.SessionService, conv *service.ConversationService, in io.Reader, out io.Writer) *REPL {
	return &REPL{sessions: sessions, conv: conv, in: in, out: out}
}

// Run starts the interactive loop. Nothing that happens inside a turn may
// crash the loop; classified failures become displayed messages.
func (r *REPL) Run(ctx context.Context, userID domain.UserID) error {
	r.state = r.sessions.NewState(ctx, userID)

	fmt.Fprintf(r.out, "%s %s\n", botPrompt("Assistant:"), r.state.Messages[0].Content)
	fmt.Fprintln(r.out, infoText("Commands: /sessions, /switch <n>, /new, /delete <n>, /quit"))

	scanner := bufio.NewScanner(r.in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintf(r.out, "\n%s ", youPrompt("You:"))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || strings.EqualFold(line, "exit") {
			return nil
		}

		r.handle(ctx, line)
	}
}

// handle processes one line of input, recovering from panics so a bad turn
// never kills the loop.
func (r *REPL) handle(ctx context.Context, line string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic recovered in turn", "panic", rec, "stack", string(debug.Stack()))
			fmt.Fprintln(r.out, infoText("Something went wrong. Please try again."))
		}
	}()

	if strings.HasPrefix(line, "/") {
		r.command(ctx, line)
		return
	}

	start := time.Now()
	reply, err := r.conv.Respond(ctx, r.state, line)
	if err != nil {
		fmt.Fprintln(r.out, infoText("I couldn't save your message. Please try again."))
		return
	}
	slog.Debug("turn processed", "session_id", r.state.SessionID, "duration", time.Since(start))

	fmt.Fprintf(r.out, "%s %s\n", botPrompt("Assistant:"), reply)
}

func (r *REPL) command(ctx context.Context, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/sessions":
		r.renderSessions(ctx)
	case "/new":
		r.state = r.sessions.NewState(ctx, r.state.UserID)
		fmt.Fprintf(r.out, "%s %s\n", botPrompt("Assistant:"), r.state.Messages[0].Content)
	case "/switch":
		r.switchTo(ctx, fields)
	case "/delete":
		r.deleteAt(ctx, fields)
	default:
		fmt.Fprintln(r.out, infoText("Unknown command. Try /sessions, /switch <n>, /new, /delete <n>, /quit."))
	}
}

func (r *REPL) renderSessions(ctx context.Context) {
	listings, err := r.sessions.ListForDisplay(ctx, r.state.UserID)
	if err != nil {
		slog.Error("list sessions", "error", err)
		fmt.Fprintln(r.out, infoText("Couldn't load your conversations right now."))
		return
	}
	r.listings = listings

	if len(listings) == 0 {
		fmt.Fprintln(r.out, infoText("No previous conversations"))
		return
	}
	fmt.Fprintln(r.out, "Chat history:")
	for i, l := range listings {
		marker := " "
		if l.ID == r.state.SessionID {
			marker = activeMark("*")
		}
		fmt.Fprintf(r.out, " %s [%d] %s — %s (%s)\n",
			marker, i+1, l.Name, l.Preview, l.LastUsedAt.Format("Jan 02, 15:04"))
	}
}

func (r *REPL) switchTo(ctx context.Context, fields []string) {
	listing, ok := r.pick(fields)
	if !ok {
		return
	}

	err := r.sessions.Switch(ctx, r.state, listing.ID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		// Stale sidebar entry; fall back to a fresh conversation.
		r.state = r.sessions.NewState(ctx, r.state.UserID)
		fmt.Fprintf(r.out, "%s %s\n", botPrompt("Assistant:"), r.state.Messages[0].Content)
	case err != nil:
		slog.Error("switch session", "session_id", listing.ID, "error", err)
		fmt.Fprintln(r.out, infoText("Sorry, I couldn't load that conversation."))
	default:
		fmt.Fprintf(r.out, "Switched to %q.\n", listing.Name)
		for _, m := range r.state.Messages {
			prompt := youPrompt("You:")
			if m.Role == domain.RoleAssistant {
				prompt = botPrompt("Assistant:")
			}
			fmt.Fprintf(r.out, "%s %s\n", prompt, m.Content)
		}
	}
}

func (r *REPL) deleteAt(ctx context.Context, fields []string) {
	listing, ok := r.pick(fields)
	if !ok {
		return
	}

	wasActive := listing.ID == r.state.SessionID
	if err := r.sessions.Delete(ctx, r.state, listing.ID); err != nil {
		slog.Error("delete session", "session_id", listing.ID, "error", err)
		fmt.Fprintln(r.out, infoText("Couldn't delete that conversation. Please try again."))
		return
	}
	fmt.Fprintf(r.out, "Deleted %q.\n", listing.Name)
	if wasActive {
		fmt.Fprintf(r.out, "%s %s\n", botPrompt("Assistant:"), r.state.Messages[0].Content)
	}
}

// pick resolves a 1-based index argument against the last rendered list.
func (r *REPL) pick(fields []string) (domain.SessionListing, bool) {
	if len(fields) < 2 {
		fmt.Fprintln(r.out, infoText("Give a session number; run /sessions to see them."))
		return domain.SessionListing{}, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > len(r.listings) {
		fmt.Fprintln(r.out, infoText("No such session; run /sessions to see the list."))
		return domain.SessionListing{}, false
	}
	return r.listings[n-1], true
}
