// Package prompt builds the text sent to the model: the composed system
// prompt, summarization and journal-entry requests, greeting instructions,
// and the fixed crisis directive. Everything here is pure: same inputs,
// same text.
package prompt

// Tone is a selectable response style.
type Tone string

// Tone constants.
const (
	ToneEmpathetic Tone = "empathetic"
	ToneHumorous   Tone = "humorous"
	ToneBlunt      Tone = "blunt"
	ToneTherapist  Tone = "therapist-like"
)

// Persona is a named personality overlay applied to the system prompt.
type Persona struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
}

// toneIntros maps each tone to its opening paragraph. Unrecognized tones
// fall back to empathetic rather than failing.
var toneIntros = map[Tone]string{
	ToneEmpathetic: "You are a compassionate, deeply empathetic listener providing emotional support. You prioritize warmth, understanding, and emotional validation.",
	ToneHumorous:   "You are a supportive listener with a light-hearted, humorous touch. While you take their feelings seriously, you use gentle humor to lighten the mood when appropriate. Be playful but never dismissive.",
	ToneBlunt:      "You are a direct, honest listener who provides straightforward emotional support. You say things as they are without sugar-coating, but always remain respectful and supportive.",
	ToneTherapist:  "You are a thoughtful, professional listener who uses therapeutic techniques. You ask probing questions, identify patterns, and help them develop insight into their emotions and behaviors.",
}

// intro returns the opening paragraph for t, defaulting to empathetic.
func (t Tone) intro() string {
	if s, ok := toneIntros[t]; ok {
		return s
	}
	return toneIntros[ToneEmpathetic]
}
