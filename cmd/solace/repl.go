package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/solacelabs/solace/internal/chat"
	"github.com/solacelabs/solace/internal/crisis"
	"github.com/solacelabs/solace/internal/prompt"
	"github.com/solacelabs/solace/internal/recall"
	"github.com/solacelabs/solace/modules/store/sqlite"
)

// localSessionID is the fixed session used by the single-user REPL, so a
// persisted snapshot from a previous run can be resumed.
const localSessionID = "local"

const crisisResources = "If things feel overwhelming, you can reach the 988 Suicide & Crisis Lifeline (call or text 988) any time."

type repl struct {
	orchestrator *chat.Orchestrator
	journal      recall.JournalStore
	facts        recall.FactStore
	snapshots    *sqlite.SnapshotStore
	persona      *prompt.Persona
	tone         prompt.Tone
	logger       *slog.Logger

	in  *bufio.Scanner
	out *os.File
}

func (r *repl) run(ctx context.Context) error {
	r.in = bufio.NewScanner(os.Stdin)
	r.out = os.Stdout

	r.restoreSnapshot(ctx)

	greeting, err := r.orchestrator.HandleGreeting(ctx, chat.GreetingRequest{
		SessionID: localSessionID,
		Tone:      r.tone,
		Persona:   r.persona,
	})
	if err != nil {
		return err
	}
	r.say(greeting.Message)
	r.printf("(Commands: /reset, /journal, /facts, /bye)\n\n")

	for {
		r.printf("> ")
		if !r.in.Scan() {
			// EOF closes the session like /bye, without mood prompts.
			r.printf("\n")
			return r.close(ctx, 3, 3, "")
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/bye":
			start := r.askMood("How were you feeling when we started? (1-5)")
			end := r.askMood("And how do you feel now? (1-5)")
			var feedback string
			if end < start {
				feedback = r.ask("I'm sorry today didn't help. What could have gone better? (enter to skip)")
			}
			return r.close(ctx, start, end, feedback)

		case line == "/reset":
			r.orchestrator.ResetSession(localSessionID)
			if r.snapshots != nil {
				if err := r.snapshots.DeleteSnapshot(ctx, localSessionID); err != nil {
					r.logger.Warn("snapshot delete failed", "error", err)
				}
			}
			r.printf("Conversation cleared.\n\n")

		case line == "/journal":
			r.showJournal(ctx)

		case line == "/facts":
			r.showFacts(ctx)

		default:
			r.turn(ctx, line)
		}
	}
}

func (r *repl) turn(ctx context.Context, message string) {
	resp, err := r.orchestrator.HandleTurn(ctx, chat.TurnRequest{
		SessionID: localSessionID,
		Message:   message,
		Tone:      r.tone,
		Persona:   r.persona,
	})
	if err != nil {
		if errors.Is(err, chat.ErrModelUnavailable) {
			r.printf("(I couldn't reach the model just now. Your message is saved; try again in a moment.)\n\n")
			return
		}
		r.printf("(Something went wrong: %v)\n\n", err)
		return
	}

	r.say(resp.Message)
	if resp.Crisis.Detected && resp.Crisis.Severity != crisis.SeverityNone {
		r.printf("%s\n\n", crisisResources)
	}
}

// close writes the journal entry, drops the persisted snapshot, and says
// goodbye.
func (r *repl) close(ctx context.Context, startMood, endMood int, feedback string) error {
	entry, err := r.orchestrator.CloseSession(ctx, chat.CloseRequest{
		SessionID:    localSessionID,
		StartMood:    startMood,
		EndMood:      endMood,
		UserFeedback: feedback,
	})
	if err != nil && !errors.Is(err, chat.ErrSessionNotFound) {
		return err
	}
	if err == nil && r.snapshots != nil {
		if err := r.snapshots.DeleteSnapshot(ctx, localSessionID); err != nil {
			r.logger.Warn("snapshot delete failed", "error", err)
		}
	}
	if err == nil && entry.Summary != "" {
		r.printf("Journal entry saved: %s\n", entry.Summary)
	}
	r.printf("Take care of yourself.\n")
	return nil
}

// restoreSnapshot resumes the previous run's conversation when a persisted
// snapshot exists.
func (r *repl) restoreSnapshot(ctx context.Context) {
	if r.snapshots == nil {
		return
	}
	state, err := r.snapshots.LoadSnapshot(ctx, localSessionID)
	if errors.Is(err, sqlite.ErrSnapshotNotFound) {
		return
	}
	if err != nil {
		r.logger.Warn("snapshot load failed", "error", err)
		return
	}
	if err := r.orchestrator.Restore(localSessionID, state); err != nil {
		r.logger.Warn("snapshot restore failed", "error", err)
		return
	}
	r.printf("(Resumed your previous conversation.)\n")
}

func (r *repl) showJournal(ctx context.Context) {
	entries, err := r.journal.Recent(ctx, 5)
	if err != nil {
		r.printf("(Couldn't read the journal: %v)\n\n", err)
		return
	}
	if len(entries) == 0 {
		r.printf("No journal entries yet.\n\n")
		return
	}

	r.printf("%s\n", recall.FormatJournal(entries, len(entries)))
	if stats, err := r.journal.Stats(ctx); err == nil && stats.TotalEntries > 0 {
		r.printf("Across %d sessions, mood moved %+.1f on average.\n", stats.TotalEntries, stats.AverageImprovement)
	}
	r.printf("\n")
}

func (r *repl) showFacts(ctx context.Context) {
	facts, err := r.facts.Recent(ctx, 0)
	if err != nil {
		r.printf("(Couldn't read remembered facts: %v)\n\n", err)
		return
	}
	if len(facts) == 0 {
		r.printf("Nothing remembered yet.\n\n")
		return
	}
	for _, f := range facts {
		line := fmt.Sprintf("- [%s] %s", f.Type, f.Content)
		if f.Context != "" {
			line += " (" + f.Context + ")"
		}
		r.printf("%s\n", line)
	}
	r.printf("\n")
}

// askMood reads a 1-5 rating, defaulting to 3 on bad input.
func (r *repl) askMood(question string) int {
	answer := r.ask(question)
	mood, err := strconv.Atoi(answer)
	if err != nil || mood < 1 || mood > 5 {
		return 3
	}
	return mood
}

func (r *repl) ask(question string) string {
	r.printf("%s ", question)
	if !r.in.Scan() {
		return ""
	}
	return strings.TrimSpace(r.in.Text())
}

func (r *repl) say(message string) {
	name := "Solace"
	if r.persona != nil && r.persona.Name != "" {
		name = r.persona.Name
	}
	r.printf("%s: %s\n\n", name, message)
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
