// Package intent classifies free-text input into one of a fixed set of
// intents using keyword substring matching.
package intent

import "unicbot/internal/keywords"

// Intent is the category an input is classified into.
type Intent string

const (
	Greeting     Intent = "greeting"
	Reschedule   Intent = "reschedule"
	Appointment  Intent = "appointment"
	StemQuestion Intent = "stem_question"
	Exit         Intent = "exit"
	Unknown      Intent = "unknown"
)

// All lists every intent, Unknown last.
var All = []Intent{Greeting, Reschedule, Appointment, StemQuestion, Exit, Unknown}

func (i Intent) String() string { return string(i) }

// Rule pairs an intent with the predicate that selects it.
type Rule struct {
	Intent  Intent
	Matches func(normalized string) bool
}

// KeywordRule matches when any keyword of set occurs in the normalized text.
func KeywordRule(in Intent, set keywords.Set) Rule {
	return Rule{Intent: in, Matches: set.FoundIn}
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier from an explicit rule order.
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// FromKeywords builds the standard classifier. Priority is fixed:
// greeting, reschedule, appointment, stem, exit.
func FromKeywords(sets keywords.Sets) *Classifier {
	return NewClassifier(
		KeywordRule(Greeting, sets.Greeting),
		KeywordRule(Reschedule, sets.Reschedule),
		KeywordRule(Appointment, sets.Appointment),
		KeywordRule(StemQuestion, sets.Stem),
		KeywordRule(Exit, sets.Exit),
	)
}

// Classify normalizes raw and returns the first matching intent, or Unknown.
func (c *Classifier) Classify(raw string) Intent {
	normalized := Normalize(raw)
	for _, r := range c.rules {
		if r.Matches != nil && r.Matches(normalized) {
			return r.Intent
		}
	}
	return Unknown
}

// Matches reports whether raw matches set under the classifier's matching
// rule: normalized text contains some keyword as a substring.
func Matches(raw string, set keywords.Set) bool {
	return set.FoundIn(Normalize(raw))
}

// Classify is a convenience for FromKeywords(sets).Classify(raw).
func Classify(raw string, sets keywords.Sets) Intent {
	return FromKeywords(sets).Classify(raw)
}
