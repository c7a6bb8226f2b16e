// Package textfmt holds the stateless text helpers used when presenting
// catalogue entries.
package textfmt

import (
	"regexp"
	"strings"
)

// Fragment is a run of text, flagged when it is a scientific name that should
// be rendered emphasised.
type Fragment struct {
	Text       string `json:"text"`
	Scientific bool   `json:"scientific,omitempty"`
}

// Emphasize splits text on case-insensitive occurrences of any name in the
// vocabulary. Matches are leftmost, and when two names match at the same
// position the earlier vocabulary entry wins. Concatenating the fragments
// yields text unchanged; empty fragments are omitted.
func Emphasize(text string, names []string) []Fragment {
	if text == "" {
		return nil
	}
	re := vocabularyPattern(names)
	if re == nil {
		return []Fragment{{Text: text}}
	}
	var out []Fragment
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		if loc[0] > last {
			out = append(out, Fragment{Text: text[last:loc[0]]})
		}
		out = append(out, Fragment{Text: text[loc[0]:loc[1]], Scientific: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Fragment{Text: text[last:]})
	}
	return out
}

func vocabularyPattern(names []string) *regexp.Regexp {
	alts := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(n))
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
}

// Markdown renders fragments with scientific names in italics.
func Markdown(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		if f.Scientific {
			b.WriteString("_")
			b.WriteString(f.Text)
			b.WriteString("_")
			continue
		}
		b.WriteString(f.Text)
	}
	return b.String()
}

// ReadableLabel turns an attribute key such as "headOffice" into spaced text
// by inserting a space before every capital A-Z. The key "ceo" maps to "CEO".
func ReadableLabel(key string) string {
	if key == "ceo" {
		return "CEO"
	}
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteByte(c)
	}
	return b.String()
}
