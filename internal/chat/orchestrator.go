package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/solacelabs/solace/internal/crisis"
	"github.com/solacelabs/solace/internal/memory"
	"github.com/solacelabs/solace/internal/prompt"
	"github.com/solacelabs/solace/internal/provider"
	"github.com/solacelabs/solace/internal/recall"
)

// Options configures an Orchestrator. Sessions and Provider are required;
// the rest degrade to no-ops when absent.
type Options struct {
	Sessions  memory.SessionStore
	Provider  provider.Provider
	Facts     recall.FactStore
	Journal   recall.JournalStore
	Detector  crisis.Detector
	Extractor recall.Extractor
	Config    Config
	Logger    *slog.Logger

	// Now overrides the clock, used for time-of-day greeting selection.
	Now func() time.Time
}

// Orchestrator drives one chat turn end to end: memory update, optional
// compaction, context assembly, the model call, and fallback handling.
type Orchestrator struct {
	sessions  memory.SessionStore
	provider  provider.Provider
	facts     recall.FactStore
	journal   recall.JournalStore
	detector  crisis.Detector
	extractor recall.Extractor
	config    Config
	logger    *slog.Logger
	now       func() time.Time
	metrics   Metrics

	// mu guards assistantTurns, the per-session counter driving fact
	// extraction cadence. Kept here rather than in memory.Conversation
	// because compaction truncates the turn slice the count would
	// otherwise be derived from.
	mu             sync.Mutex
	assistantTurns map[string]int
}

// New creates an Orchestrator from opts.
func New(opts Options) (*Orchestrator, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("chat: session store is required")
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("chat: provider is required")
	}
	if opts.Detector == nil {
		opts.Detector = crisis.NopDetector{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		sessions:       opts.Sessions,
		provider:       opts.Provider,
		facts:          opts.Facts,
		journal:        opts.Journal,
		detector:       opts.Detector,
		extractor:      opts.Extractor,
		config:         opts.Config.withDefaults(),
		logger:         opts.Logger,
		now:            opts.Now,
		assistantTurns: make(map[string]int),
	}, nil
}

// TurnRequest is one user message addressed to a session.
type TurnRequest struct {
	SessionID string
	Message   string
	Tone      prompt.Tone
	Persona   *prompt.Persona
}

// TurnResponse is the assistant reply plus the advisory crisis verdict for
// the user message that produced it.
type TurnResponse struct {
	SessionID string
	Message   string
	Crisis    crisis.Signal
	// Summarized reports whether this turn compacted older history.
	Summarized bool
	Usage      provider.TokenUsage
}

// HandleTurn processes one user message and returns the assistant reply.
//
// Invalid input is rejected before any memory mutation. A failed model call
// returns ErrModelUnavailable with the user turn already recorded, so the
// message is not lost on retry. A syntactically successful but empty model
// reply is replaced with a fixed fallback line which is committed to memory
// like any other assistant turn.
func (o *Orchestrator) HandleTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	if req.SessionID == "" || strings.TrimSpace(req.Message) == "" {
		return TurnResponse{}, fmt.Errorf("%w: session ID and message are required", ErrInvalidInput)
	}

	o.metrics.recordTurn()

	signal := o.detector.Detect(req.Message)
	if signal.Detected {
		o.logger.Warn("crisis language detected",
			"session_id", req.SessionID,
			"severity", signal.Severity)
	}

	sess, created := o.sessions.GetOrCreate(req.SessionID)
	if created {
		o.logger.Debug("session created", "session_id", req.SessionID)
	}
	sess.Lock()
	defer sess.Unlock()
	conv := sess.Conversation

	conv.AddTurn(provider.RoleUser, req.Message)

	summarized := o.maybeSummarize(ctx, req.SessionID, conv)

	system := prompt.Compose(req.Persona, req.Tone, o.contextBlocks(ctx))
	messages := o.assembleMessages(system, conv, signal)

	start := o.now()
	resp, err := o.provider.Complete(ctx, provider.CompletionRequest{
		Messages:    messages,
		MaxTokens:   o.config.MaxTokens,
		Temperature: provider.Temp(o.config.ChatTemperature),
	})
	if err != nil {
		o.metrics.recordError()
		return TurnResponse{}, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	o.metrics.recordCompletion(resp.Usage.TotalTokens, o.now().Sub(start))

	reply := resp.Content
	if strings.TrimSpace(reply) == "" {
		o.logger.Warn("empty model reply, using fallback", "session_id", req.SessionID)
		reply = prompt.FallbackReply
	}

	conv.AddTurn(provider.RoleAssistant, reply)
	o.sessions.Touch(req.SessionID)

	o.maybeExtract(ctx, req.SessionID, conv)

	return TurnResponse{
		SessionID:  req.SessionID,
		Message:    reply,
		Crisis:     signal,
		Summarized: summarized,
		Usage:      resp.Usage,
	}, nil
}

// maybeSummarize compacts older turns when the conversation has grown past
// the threshold. Failure is logged and absorbed: memory stays untouched and
// the compaction retries on the next qualifying turn.
func (o *Orchestrator) maybeSummarize(ctx context.Context, sessionID string, conv *memory.Conversation) bool {
	if !conv.ShouldSummarize() {
		return false
	}

	turns := conv.TurnsToSummarize()
	if len(turns) == 0 {
		return false
	}

	resp, err := o.provider.Complete(ctx, provider.CompletionRequest{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: prompt.SummarizationSystem},
			{Role: provider.RoleUser, Content: prompt.SummarizationPrompt(turns)},
		},
		MaxTokens:   o.config.SummaryMaxTokens,
		Temperature: provider.Temp(o.config.SummaryTemperature),
	})
	if err != nil {
		o.metrics.recordSummaryFailure()
		o.logger.Warn("summarization failed, keeping full history",
			"session_id", sessionID, "error", err)
		return false
	}

	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		o.metrics.recordSummaryFailure()
		o.logger.Warn("summarization returned empty text, keeping full history",
			"session_id", sessionID)
		return false
	}

	conv.CommitSummary(summary)
	o.metrics.recordSummary()
	o.logger.Info("conversation compacted",
		"session_id", sessionID,
		"compressed_turns", len(turns),
		"remaining_turns", conv.Len())
	return true
}

// contextBlocks assembles the remembered-facts and journal blocks injected
// into the system prompt. Store errors degrade to an empty block.
func (o *Orchestrator) contextBlocks(ctx context.Context) string {
	var blocks []string

	if o.facts != nil {
		facts, err := o.facts.Recent(ctx, 0)
		if err != nil {
			o.logger.Warn("fact lookup failed", "error", err)
		} else if block := recall.FormatFacts(recall.RankFacts(facts, o.config.FactLimit)); block != "" {
			blocks = append(blocks, block)
		}
	}

	if o.journal != nil {
		entries, err := o.journal.Recent(ctx, o.config.JournalEntries)
		if err != nil {
			o.logger.Warn("journal lookup failed", "error", err)
		} else if block := recall.FormatJournal(entries, o.config.JournalEntries); block != "" {
			blocks = append(blocks, block)
		}
	}

	return strings.Join(blocks, "\n\n")
}

// assembleMessages builds the ordered message list for a completion call:
// system prompt, rolling summaries, recent turns, and the crisis directive
// last so it lands closest to the reply. The directive exists only in the
// outbound request, never in stored memory.
func (o *Orchestrator) assembleMessages(system string, conv *memory.Conversation, signal crisis.Signal) []provider.Message {
	messages := []provider.Message{{Role: provider.RoleSystem, Content: system}}

	if summaries := conv.Summaries(); len(summaries) > 0 {
		messages = append(messages, provider.Message{
			Role:    provider.RoleSystem,
			Content: "Previous conversation summary:\n" + strings.Join(summaries, "\n\n"),
		})
	}

	messages = append(messages, conv.Messages()...)

	if signal.Detected {
		messages = append(messages, provider.Message{
			Role:    provider.RoleSystem,
			Content: prompt.CrisisDirective,
		})
	}

	return messages
}

// maybeExtract runs fact extraction after every Nth assistant turn,
// looking at a sliding window of recent user messages. Best-effort: any
// failure is logged and the turn result is unaffected.
func (o *Orchestrator) maybeExtract(ctx context.Context, sessionID string, conv *memory.Conversation) {
	if o.extractor == nil || o.facts == nil {
		return
	}

	o.mu.Lock()
	o.assistantTurns[sessionID]++
	due := o.assistantTurns[sessionID]%o.config.ExtractEvery == 0
	o.mu.Unlock()
	if !due {
		return
	}

	var userMessages []string
	for _, t := range conv.Turns() {
		if t.Role == provider.RoleUser {
			userMessages = append(userMessages, t.Content)
		}
	}
	if len(userMessages) > o.config.ExtractWindow {
		userMessages = userMessages[len(userMessages)-o.config.ExtractWindow:]
	}
	if len(userMessages) == 0 {
		return
	}

	facts, err := o.extractor.ExtractFacts(ctx, userMessages)
	if err != nil {
		o.metrics.recordExtractionFailure()
		o.logger.Warn("fact extraction failed", "session_id", sessionID, "error", err)
		return
	}

	for _, f := range facts {
		if _, err := o.facts.Save(ctx, f); err != nil {
			o.logger.Warn("fact save failed", "session_id", sessionID, "error", err)
		}
	}
	if len(facts) > 0 {
		o.logger.Debug("facts extracted", "session_id", sessionID, "count", len(facts))
	}
}

// GreetingRequest asks for an opening line for a session.
type GreetingRequest struct {
	SessionID string
	Tone      prompt.Tone
	Persona   *prompt.Persona
}

// HandleGreeting generates a context-aware opening line and records it as
// the session's first assistant turn. The greeting never fails: if the
// model is unreachable or replies with nothing, a fixed time-of-day line is
// used instead.
func (o *Orchestrator) HandleGreeting(ctx context.Context, req GreetingRequest) (TurnResponse, error) {
	if req.SessionID == "" {
		return TurnResponse{}, fmt.Errorf("%w: session ID is required", ErrInvalidInput)
	}

	sess, _ := o.sessions.GetOrCreate(req.SessionID)
	sess.Lock()
	defer sess.Unlock()
	hour := o.now().Hour()

	instruction := prompt.GreetingInstruction(req.Persona, req.Tone, o.contextBlocks(ctx), hour)
	resp, err := o.provider.Complete(ctx, provider.CompletionRequest{
		Messages:    []provider.Message{{Role: provider.RoleUser, Content: instruction}},
		MaxTokens:   o.config.GreetingMaxTokens,
		Temperature: provider.Temp(o.config.ChatTemperature),
	})

	greeting := strings.TrimSpace(resp.Content)
	if err != nil || greeting == "" {
		if err != nil {
			o.logger.Warn("greeting generation failed, using canned line",
				"session_id", req.SessionID, "error", err)
		}
		greeting = prompt.DefaultGreeting(hour)
	}

	sess.Conversation.AddTurn(provider.RoleAssistant, greeting)
	o.sessions.Touch(req.SessionID)

	return TurnResponse{SessionID: req.SessionID, Message: greeting, Usage: resp.Usage}, nil
}

// CloseRequest ends a session and records it to the journal.
type CloseRequest struct {
	SessionID string
	// StartMood and EndMood are self-reported 1-5 ratings. Out-of-range
	// values are clamped rather than rejected.
	StartMood int
	EndMood   int
	// UserFeedback is an optional free-text note, interpreted when the
	// mood declined over the session.
	UserFeedback string
}

// CloseSession summarizes the session into a journal entry, stores it, and
// removes the session. The model call is best-effort: if it fails or the
// reply cannot be parsed, a minimal entry is written so the session is
// still accounted for.
func (o *Orchestrator) CloseSession(ctx context.Context, req CloseRequest) (recall.JournalEntry, error) {
	if req.SessionID == "" {
		return recall.JournalEntry{}, fmt.Errorf("%w: session ID is required", ErrInvalidInput)
	}
	sess := o.sessions.Get(req.SessionID)
	if sess == nil {
		return recall.JournalEntry{}, fmt.Errorf("%w: %q", ErrSessionNotFound, req.SessionID)
	}

	sess.Lock()
	turns := sess.Conversation.Turns()
	sess.Unlock()

	startMood := clampMood(req.StartMood)
	endMood := clampMood(req.EndMood)
	entry := recall.JournalEntry{
		StartMood: startMood,
		EndMood:   endMood,
		TurnCount: len(turns),
	}

	if len(turns) > 0 {
		entry = o.journalEntryFromModel(ctx, req.SessionID, turns, entry)
	} else {
		entry.Summary = "Session ended before any conversation took place."
	}

	if req.UserFeedback != "" {
		entry.UserFeedback = req.UserFeedback
		if endMood < startMood && o.extractor != nil {
			interp, err := o.extractor.InterpretFeedback(ctx, req.UserFeedback)
			if err != nil {
				o.logger.Warn("feedback interpretation failed",
					"session_id", req.SessionID, "error", err)
			} else {
				entry.Interpretation = interp
			}
		}
	}

	if o.journal != nil {
		stored, err := o.journal.Add(ctx, entry)
		if err != nil {
			return recall.JournalEntry{}, fmt.Errorf("chat: journal write failed: %w", err)
		}
		entry = stored
	}

	o.dropSession(req.SessionID)
	o.logger.Info("session closed",
		"session_id", req.SessionID,
		"turns", entry.TurnCount,
		"mood_change", entry.MoodChange())
	return entry, nil
}

// clampMood forces a self-reported rating onto the 1-5 journal scale.
func clampMood(m int) int {
	if m < 1 {
		return 1
	}
	if m > 5 {
		return 5
	}
	return m
}

// journalEntryFromModel fills entry from a model-written session summary,
// degrading to a generic summary line when the call or parse fails.
func (o *Orchestrator) journalEntryFromModel(ctx context.Context, sessionID string, turns []memory.Turn, entry recall.JournalEntry) recall.JournalEntry {
	resp, err := o.provider.Complete(ctx, provider.CompletionRequest{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: prompt.JournalEntrySystem},
			{Role: provider.RoleUser, Content: prompt.JournalEntryPrompt(turns)},
		},
		MaxTokens:   o.config.SummaryMaxTokens,
		Temperature: provider.Temp(o.config.SummaryTemperature),
	})
	if err != nil {
		o.logger.Warn("journal summary generation failed",
			"session_id", sessionID, "error", err)
		entry.Summary = "User shared their thoughts and feelings."
		return entry
	}

	if parsed, ok := recall.ParseEntrySummary(resp.Content); ok {
		entry.Summary = parsed.Summary
		entry.KeyPoints = parsed.KeyPoints
		entry.Developments = parsed.Developments
		return entry
	}

	// Unstructured reply: keep the leading text as the summary.
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		text = "User shared their thoughts and feelings."
	}
	if len(text) > 200 {
		text = text[:200]
	}
	entry.Summary = text
	entry.KeyPoints = []string{"Conversation summary generated"}
	return entry
}

// ResetSession discards a session's memory without writing a journal entry.
func (o *Orchestrator) ResetSession(sessionID string) {
	o.dropSession(sessionID)
	o.logger.Debug("session reset", "session_id", sessionID)
}

func (o *Orchestrator) dropSession(sessionID string) {
	o.sessions.Delete(sessionID)
	o.mu.Lock()
	delete(o.assistantTurns, sessionID)
	o.mu.Unlock()
}

// Snapshot returns a deep copy of a session's memory state.
func (o *Orchestrator) Snapshot(sessionID string) (memory.State, error) {
	sess := o.sessions.Get(sessionID)
	if sess == nil {
		return memory.State{}, fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Conversation.Snapshot(), nil
}

// Restore loads persisted memory state into a session, creating it if
// needed.
func (o *Orchestrator) Restore(sessionID string, state memory.State) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session ID is required", ErrInvalidInput)
	}
	sess, _ := o.sessions.GetOrCreate(sessionID)
	sess.Lock()
	sess.Conversation.Restore(state)
	sess.Unlock()
	o.sessions.Touch(sessionID)
	return nil
}

// Metrics exposes the orchestrator's counters.
func (o *Orchestrator) Metrics() *Metrics {
	return &o.metrics
}
