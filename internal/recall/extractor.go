package recall

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/solacelabs/solace/internal/provider"
)

// Extractor analyzes recent user messages to pull out facts worth
// remembering, and interprets mood-drop feedback into improvement notes.
// Both operations are best-effort from the caller's perspective.
type Extractor interface {
	ExtractFacts(ctx context.Context, userMessages []string) ([]Fact, error)
	InterpretFeedback(ctx context.Context, feedback string) (string, error)
}

// LLMExtractor uses an LLM provider to analyze conversations.
type LLMExtractor struct {
	provider provider.Provider
}

// NewLLMExtractor creates an extractor backed by the given provider.
func NewLLMExtractor(p provider.Provider) *LLMExtractor {
	return &LLMExtractor{provider: p}
}

// Compile-time interface check.
var _ Extractor = (*LLMExtractor)(nil)

const extractionSystem = "You are a helpful assistant that extracts specific, important facts from conversations. Return ONLY valid JSON."

const extractionPrompt = `Analyze these recent user messages and extract ONLY NEW, SPECIFIC, and IMPORTANT information. Do not extract vague or general statements.

User messages:
%s

Extract the following types of facts if present (return empty arrays if not found):

1. People: names of people mentioned (friends, family, colleagues)
2. Places: specific locations mentioned (cities, venues, workplaces)
3. Things: important objects, items, or concepts (job, car, pet, hobby)
4. Events: specific events (test, interview, party, trip, meeting)
5. Moods: specific mood states mentioned (feeling anxious, happy, stressed)
6. Actions: things the user did or plans to do
7. Dates: time references, including what the date is about

Rules:
- Be SPECIFIC. Extract "test on Friday" not just "test"
- Extract IMPORTANT information only (not casual mentions)
- Importance: "high" for urgent/emotional items, "medium" for notable items, "low" for minor details

Return ONLY valid JSON in this exact format:
{"facts": [{"type": "event", "content": "job interview", "context": "at tech company", "importance": "high"}]}

If NO important facts are found, return: {"facts": []}

Response (JSON only):`

// extractedFacts mirrors the JSON shape the model is asked to return.
type extractedFacts struct {
	Facts []struct {
		Type       string `json:"type"`
		Content    string `json:"content"`
		Context    string `json:"context"`
		Importance string `json:"importance"`
	} `json:"facts"`
}

// ExtractFacts asks the model to pull facts out of recent user messages.
// A malformed or empty model response yields no facts, not an error;
// transport failures are returned for the caller to log and suppress.
func (e *LLMExtractor) ExtractFacts(ctx context.Context, userMessages []string) ([]Fact, error) {
	if len(userMessages) == 0 {
		return nil, nil
	}

	resp, err := e.provider.Complete(ctx, provider.CompletionRequest{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: extractionSystem},
			{Role: provider.RoleUser, Content: fmt.Sprintf(extractionPrompt, strings.Join(userMessages, "\n\n"))},
		},
		Temperature: provider.Temp(0.2),
		MaxTokens:   800,
	})
	if err != nil {
		return nil, fmt.Errorf("recall: fact extraction failed: %w", err)
	}

	return parseExtractedFacts(resp.Content), nil
}

// parseExtractedFacts decodes the model's JSON reply, dropping entries with
// unknown types or empty content. Undecodable output yields no facts.
func parseExtractedFacts(response string) []Fact {
	var decoded extractedFacts
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &decoded); err != nil {
		return nil
	}

	facts := make([]Fact, 0, len(decoded.Facts))
	for _, raw := range decoded.Facts {
		t := FactType(raw.Type)
		if !t.Valid() || strings.TrimSpace(raw.Content) == "" {
			continue
		}
		imp := Importance(raw.Importance)
		if imp != ImportanceLow && imp != ImportanceMedium && imp != ImportanceHigh {
			imp = ImportanceMedium
		}
		facts = append(facts, Fact{
			Type:       t,
			Content:    strings.TrimSpace(raw.Content),
			Context:    strings.TrimSpace(raw.Context),
			Importance: imp,
		})
	}
	return facts
}

const interpretSystem = "You are a helpful assistant that interprets user feedback to improve supportive conversations. Provide concise, actionable interpretations."

const interpretPrompt = `The user's mood dropped after a supportive conversation. They provided this feedback about how to improve:

"%s"

Please provide a concise interpretation (2-3 sentences) that:
1. Summarizes what the user wants (be specific about their needs)
2. Suggests concrete improvements for future conversations
3. Uses language like "User felt...", "Should improve by...", "Try to..."

Keep it brief and actionable.

Response (2-3 sentences only):`

// InterpretFeedback turns mood-drop feedback into a short improvement note
// for future sessions.
func (e *LLMExtractor) InterpretFeedback(ctx context.Context, feedback string) (string, error) {
	if strings.TrimSpace(feedback) == "" {
		return "", nil
	}

	resp, err := e.provider.Complete(ctx, provider.CompletionRequest{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: interpretSystem},
			{Role: provider.RoleUser, Content: fmt.Sprintf(interpretPrompt, feedback)},
		},
		Temperature: provider.Temp(0.3),
		MaxTokens:   300,
	})
	if err != nil {
		return "", fmt.Errorf("recall: feedback interpretation failed: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// NopExtractor is a no-op extractor for when extraction is disabled.
type NopExtractor struct{}

// Compile-time interface check.
var _ Extractor = (*NopExtractor)(nil)

// ExtractFacts always returns no facts.
func (NopExtractor) ExtractFacts(context.Context, []string) ([]Fact, error) { return nil, nil }

// InterpretFeedback always returns an empty note.
func (NopExtractor) InterpretFeedback(context.Context, string) (string, error) { return "", nil }
