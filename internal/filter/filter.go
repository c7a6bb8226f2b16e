// Package filter derives the visible manufacturer list from a keyword and a
// first-letter predicate.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"vacciprofile/pkg/domain"
)

// State is the combined filter value. Both fields may be empty.
type State struct {
	Keyword string `json:"keyword"`
	Letter  string `json:"letter"`
}

// IsZero reports whether no filter is active.
func (s State) IsZero() bool {
	return s.Keyword == "" && s.Letter == ""
}

// ToggleLetter returns the state with letter applied: selecting the active
// letter clears it, any other letter replaces it.
func (s State) ToggleLetter(letter string) (State, error) {
	if !ValidLetter(letter) {
		return s, domain.ErrInvalidLetter
	}
	if s.Letter == letter {
		s.Letter = ""
	} else {
		s.Letter = letter
	}
	return s, nil
}

// ValidLetter reports whether letter is a single character in A-Z.
func ValidLetter(letter string) bool {
	return len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'Z'
}

// Letters returns the alphabet offered for first-letter filtering.
func Letters() []string {
	out := make([]string, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, string(c))
	}
	return out
}

// Apply returns the manufacturers matching st, preserving input order. A
// non-empty keyword keeps manufacturers whose name or description contains it
// ignoring case; a letter keeps names starting with exactly that letter. The
// result is never nil.
func Apply(all []domain.Manufacturer, st State) []domain.Manufacturer {
	out := make([]domain.Manufacturer, 0, len(all))
	fold := cases.Fold()
	keyword := fold.String(st.Keyword)
	for _, m := range all {
		if st.Keyword != "" &&
			!strings.Contains(fold.String(m.Name), keyword) &&
			!strings.Contains(fold.String(m.Description), keyword) {
			continue
		}
		if st.Letter != "" && !strings.HasPrefix(m.Name, st.Letter) {
			continue
		}
		out = append(out, m)
	}
	return out
}
