// Package crisis classifies user messages for self-harm risk. The verdict
// is purely advisory: the orchestrator uses it to append an extra guidance
// directive to the model call and to surface the signal to the caller.
package crisis

import "strings"

// Severity grades a crisis signal.
type Severity string

// Severity constants.
const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// Signal is a classifier verdict on one message.
type Signal struct {
	Detected bool     `json:"detected"`
	Severity Severity `json:"severity"`
	// Concerns lists the matched indicators, for caller-side display.
	Concerns []string `json:"concerns,omitempty"`
}

// Detector classifies a message for crisis language.
type Detector interface {
	Detect(text string) Signal
}

// defaultKeywords are the indicators the product shipped with.
var defaultKeywords = []string{
	"suicide",
	"kill myself",
	"end my life",
	"want to die",
	"self harm",
	"hurt myself",
	"no reason to live",
	"better off dead",
	"can't go on",
	"ending it all",
	"take my own life",
}

// KeywordDetector flags messages containing known crisis phrases.
// Severity scales with the number of distinct matches: 1 → low,
// 2 → moderate, 3+ → high.
type KeywordDetector struct {
	keywords []string
}

// NewKeywordDetector creates a detector. An empty keyword list uses the
// built-in defaults.
func NewKeywordDetector(keywords []string) *KeywordDetector {
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	return &KeywordDetector{keywords: keywords}
}

// Compile-time interface check.
var _ Detector = (*KeywordDetector)(nil)

// Detect scans text case-insensitively for crisis phrases.
func (d *KeywordDetector) Detect(text string) Signal {
	lower := strings.ToLower(text)

	var found []string
	for _, kw := range d.keywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}

	if len(found) == 0 {
		return Signal{Severity: SeverityNone}
	}

	severity := SeverityLow
	switch {
	case len(found) >= 3:
		severity = SeverityHigh
	case len(found) == 2:
		severity = SeverityModerate
	}

	return Signal{Detected: true, Severity: severity, Concerns: found}
}

// NopDetector never detects anything; used when detection is disabled.
type NopDetector struct{}

// Compile-time interface check.
var _ Detector = (*NopDetector)(nil)

// Detect always returns a clear signal.
func (NopDetector) Detect(string) Signal {
	return Signal{Severity: SeverityNone}
}
