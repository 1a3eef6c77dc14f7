package prompt

import (
	"fmt"
	"strings"

	"github.com/solacelabs/solace/internal/memory"
	"github.com/solacelabs/solace/internal/provider"
)

// SummarizationSystem frames the model for conversation compaction calls.
const SummarizationSystem = "You are a helpful assistant that creates concise, contextual summaries of conversations."

// JournalEntrySystem frames the model for journal-entry generation calls.
const JournalEntrySystem = "You are a helpful assistant that summarizes supportive conversations. Always respond with valid JSON only."

// renderTranscript flattens turns into "User: ... / Assistant: ..." lines.
func renderTranscript(turns []memory.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		speaker := "Assistant"
		if t.Role == provider.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+t.Content)
	}
	return strings.Join(lines, "\n\n")
}

// SummarizationPrompt builds the request that compresses older turns into a
// short summary blurb.
func SummarizationPrompt(turns []memory.Turn) string {
	return fmt.Sprintf(`Please create a concise summary of this conversation segment, focusing on:
1. Key topics and concerns discussed
2. Important emotions and feelings expressed
3. Any significant progress or insights
4. Context needed for continuity

Keep the summary brief but preserve emotional context and important details.

Conversation:
%s

Summary:`, renderTranscript(turns))
}

// JournalEntryPrompt builds the request that condenses a whole session into
// a structured journal entry (summary, key points, developments) as JSON.
func JournalEntryPrompt(turns []memory.Turn) string {
	return fmt.Sprintf(`Please analyze the following supportive conversation and create a journal entry. Provide:

1. A concise summary (2-3 sentences) focusing on:
   - What happened that day (important events the user mentioned)
   - How the user was feeling emotionally
   - The overall tone of the conversation

2. Key points discussed (3-5 specific topics or events mentioned)

3. Developments or insights (2-4 bullet points about progress, realizations, or emotional changes during the conversation)

Write as if this is a personal journal memo that captures the essence of the day.

Format your response as JSON with this structure:
{
  "summary": "concise memo-style summary here",
  "keyPoints": ["specific event or topic 1", "event or topic 2", "event or topic 3"],
  "developments": ["insight or progress 1", "insight or progress 2"]
}

Conversation:
%s

Response (JSON only):`, renderTranscript(turns))
}
