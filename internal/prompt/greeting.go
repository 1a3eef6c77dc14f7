package prompt

import (
	"fmt"
	"strings"
)

// greetingPools holds canned openers per time-of-day band. Used as the
// local fallback when the model cannot produce a greeting.
var greetingPools = []struct {
	fromHour  int // inclusive
	greetings []string
}{
	{0, []string{
		"What has you up so late at this hour?",
		"Burning the midnight oil? What's on your mind?",
		"It's pretty late... everything okay?",
		"Can't sleep? I'm here to listen.",
		"What's keeping you awake tonight?",
	}},
	{4, []string{
		"You're up early! How are you feeling this morning?",
		"Good morning! What's on your mind to start the day?",
		"Early bird today? How did you sleep?",
		"Morning! How are you starting your day?",
		"Up with the sun? What's going through your mind?",
	}},
	{8, []string{
		"Good morning! How's your day going so far?",
		"Morning! What's happening in your world today?",
		"Hey there! How are you feeling this morning?",
		"Good to see you! How's your day starting?",
		"Morning! What would you like to talk about?",
	}},
	{12, []string{
		"Good afternoon! How's your day treating you?",
		"Hey! How are things going today?",
		"Afternoon check-in - how are you feeling?",
		"Hi there! What's on your mind this afternoon?",
		"How's your day been so far?",
	}},
	{17, []string{
		"Good evening! How was your day?",
		"Evening! Want to talk about your day?",
		"Hey! How are you doing this evening?",
		"Hi there! How did things go today?",
		"Evening - ready to unwind and chat?",
	}},
	{21, []string{
		"Good evening! How are you feeling tonight?",
		"Hey! How was your day today?",
		"Evening! What's on your mind as the day winds down?",
		"Hi there! Want to talk about how today went?",
		"How are you doing tonight?",
	}},
}

// DefaultGreeting returns a canned time-of-day opener for the given hour
// (0-23). Pure: the same hour always yields the same greeting.
func DefaultGreeting(hour int) string {
	if hour < 0 || hour > 23 {
		hour = 12
	}

	pool := greetingPools[0].greetings
	for _, band := range greetingPools {
		if hour >= band.fromHour {
			pool = band.greetings
		}
	}
	return pool[hour%len(pool)]
}

// timeOfDayLabel names the band an hour falls in, for greeting instructions.
func timeOfDayLabel(hour int) string {
	switch {
	case hour < 4:
		return "late night"
	case hour < 8:
		return "early morning"
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	case hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// GreetingInstruction builds the one-shot payload asking the model for an
// opening line. Unlike Compose, this is a single self-contained instruction
// rather than the standard system prompt.
func GreetingInstruction(persona *Persona, tone Tone, contextBlocks string, hour int) string {
	var b strings.Builder

	if persona != nil {
		fmt.Fprintf(&b, "You are %s. %s\n\n", persona.Name, persona.Personality)
	}
	b.WriteString(tone.intro())
	b.WriteString(roleLine)

	fmt.Fprintf(&b, "\n\nIt is currently %s. Write a single short, warm opening line to greet the user and invite them to share how they're doing.", timeOfDayLabel(hour))

	if contextBlocks != "" {
		b.WriteString(" If the remembered context below suggests something worth checking in on (a recent event, a mood they mentioned), reference it naturally.\n\n")
		b.WriteString(contextBlocks)
	}

	b.WriteString("\n\nRespond with the greeting only - no preamble, no quotes.")
	return b.String()
}
