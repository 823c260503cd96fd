// Package keywords loads the comma-separated keyword lists that drive intent
// classification.
package keywords

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const maxLineSize = 1024 * 1024

// Category names one of the five keyword lists.
type Category string

const (
	Greeting    Category = "greeting"
	Reschedule  Category = "reschedule"
	Appointment Category = "appointment"
	Stem        Category = "stem"
	Exit        Category = "exit"
)

// Categories lists every category in classification priority order.
var Categories = []Category{Greeting, Reschedule, Appointment, Stem, Exit}

// Set is an immutable set of lowercase keywords.
type Set map[string]struct{}

// New builds a Set from raw tokens, applying the same trimming and
// lowercasing as Parse.
func New(tokens ...string) Set {
	s := make(Set, len(tokens))
	for _, tok := range tokens {
		s.add(tok)
	}
	return s
}

func (s Set) add(tok string) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if tok == "" {
		return
	}
	s[tok] = struct{}{}
}

// Contains reports whether keyword is a member of the set.
func (s Set) Contains(keyword string) bool {
	_, ok := s[keyword]
	return ok
}

// Len returns the number of keywords.
func (s Set) Len() int { return len(s) }

// FoundIn reports whether any keyword occurs as a substring of text. The
// caller is expected to pass normalized text.
func (s Set) FoundIn(text string) bool {
	for kw := range s {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Parse reads a keyword-list source: every line is split on commas and each
// token is trimmed and lowercased. Empty tokens are dropped.
func Parse(r io.Reader) (Set, error) {
	s := Set{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		for _, tok := range strings.Split(sc.Text(), ",") {
			s.add(tok)
		}
	}
	if err := sc.Err(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// Load parses the keyword file at path. On any failure it returns an empty,
// usable Set together with the error so callers can report it and carry on.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("keyword file not found: %s: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return Set{}, fmt.Errorf("read keyword file %s: %w", path, err)
	}
	return s, nil
}

// Sets holds one keyword set per category.
type Sets struct {
	Greeting    Set
	Reschedule  Set
	Appointment Set
	Stem        Set
	Exit        Set
}

// Get returns the set for a category; unknown categories yield an empty set.
func (s Sets) Get(c Category) Set {
	switch c {
	case Greeting:
		return s.Greeting
	case Reschedule:
		return s.Reschedule
	case Appointment:
		return s.Appointment
	case Stem:
		return s.Stem
	case Exit:
		return s.Exit
	}
	return Set{}
}

// LoadAll loads every category from paths (keyed by category name). Missing
// or unreadable sources are logged and leave that category empty.
func LoadAll(log *slog.Logger, paths map[string]string) Sets {
	load := func(c Category) Set {
		path, ok := paths[string(c)]
		if !ok {
			log.Warn("no keyword source configured", "category", c)
			return Set{}
		}
		s, err := Load(path)
		if err != nil {
			log.Warn("keyword source unavailable; category will never match", "category", c, "path", path, "err", err)
			return s
		}
		log.Info("keywords loaded", "category", c, "path", path, "count", s.Len())
		return s
	}
	return Sets{
		Greeting:    load(Greeting),
		Reschedule:  load(Reschedule),
		Appointment: load(Appointment),
		Stem:        load(Stem),
		Exit:        load(Exit),
	}
}
