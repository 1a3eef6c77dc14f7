package recall

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// factSection defines one labeled block in the formatted fact context.
// Section order is fixed; empty sections are omitted entirely.
type factSection struct {
	factType  FactType
	label     string
	separator string
}

var factSections = []factSection{
	{FactPerson, "People", ", "},
	{FactPlace, "Places", ", "},
	{FactEvent, "Events", "; "},
	{FactMood, "Recent moods", ", "},
	{FactAction, "Actions/Goals", "; "},
	{FactThing, "Important things", ", "},
	{FactDate, "Important dates", "; "},
}

// FormatFacts renders facts (already ranked) as a context block grouped by
// type. Returns an empty string when facts is empty; callers treat an empty
// block as "omit this section", never as an error.
func FormatFacts(facts []Fact) string {
	if len(facts) == 0 {
		return ""
	}

	byType := make(map[FactType][]Fact, len(factSections))
	for _, f := range facts {
		byType[f.Type] = append(byType[f.Type], f)
	}

	var b strings.Builder
	b.WriteString("Remembered information about the user:")

	for _, sec := range factSections {
		group := byType[sec.factType]
		if len(group) == 0 {
			continue
		}
		rendered := make([]string, len(group))
		for i, f := range group {
			rendered[i] = renderFact(f)
		}
		b.WriteString("\n")
		b.WriteString(sec.label)
		b.WriteString(": ")
		b.WriteString(strings.Join(rendered, sec.separator))
	}

	b.WriteString("\n\nNaturally reference these facts in conversation when relevant. Ask follow-up questions about past events, moods, or goals.")
	return b.String()
}

// renderFact formats one fact: content, optional (context) suffix, and an
// importance tag on events.
func renderFact(f Fact) string {
	out := f.Content
	if f.Context != "" {
		out += " (" + f.Context + ")"
	}
	if f.Type == FactEvent {
		out += fmt.Sprintf(" [Importance: %s]", f.Importance)
	}
	return out
}

const journalSummaryPreview = 150

// FormatJournal renders the most recent journal entries (input assumed
// newest-first) as a context block. At most maxEntries are included; a
// count of omitted older entries is appended when truncated. Returns an
// empty string when entries is empty.
func FormatJournal(entries []JournalEntry, maxEntries int) string {
	if len(entries) == 0 || maxEntries <= 0 {
		return ""
	}

	shown := entries
	omitted := 0
	if len(entries) > maxEntries {
		shown = entries[:maxEntries]
		omitted = len(entries) - maxEntries
	}

	now := time.Now()
	parts := make([]string, 0, len(shown))
	for _, e := range shown {
		parts = append(parts, renderEntry(e, now))
	}

	out := "Recent journal entries:\n" + strings.Join(parts, "\n\n")
	if omitted > 0 {
		out += fmt.Sprintf("\n\n(+%d older entries not shown)", omitted)
	}
	return out
}

// renderEntry formats one journal entry with a relative-time label,
// mood transition, and the improvement note when present.
func renderEntry(e JournalEntry, now time.Time) string {
	var b strings.Builder
	b.WriteString(relativeDay(e.Timestamp, now))
	fmt.Fprintf(&b, " (mood %d → %d): ", e.StartMood, e.EndMood)
	b.WriteString(truncate(e.Summary, journalSummaryPreview))

	if len(e.KeyPoints) > 0 {
		b.WriteString("\n  Key points: ")
		b.WriteString(strings.Join(e.KeyPoints, "; "))
	}
	if len(e.Developments) > 0 {
		b.WriteString("\n  Developments: ")
		b.WriteString(strings.Join(e.Developments, "; "))
	}
	if e.Interpretation != "" {
		b.WriteString("\n  → Improvement note: ")
		b.WriteString(e.Interpretation)
	}
	return b.String()
}

// relativeDay labels a timestamp relative to now in whole days.
func relativeDay(ts, now time.Time) string {
	days := int(now.Sub(ts).Hours() / 24)
	switch {
	case days <= 0:
		return "earlier today"
	case days == 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// truncate cuts s to at most n bytes, backing off so the cut never lands
// inside a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
