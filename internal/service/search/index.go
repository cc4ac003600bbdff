package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stroyast/sales-agent/internal/model"
)

// Scoring weights. A whole-word hit outranks a substring hit, finding every
// query term earns a bonus, and longer display names pay a small penalty so
// that "Вагонка Штиль 13x115x6000 C" beats its more verbose siblings on the
// same terms.
const (
	wholeWordWeight = 10.0
	substringWeight = 5.0
	allTermsBonus   = 3.0
	lengthPenalty   = 0.01
)

type Ranked struct {
	Ref   model.ItemRef
	Score float64
}

// Tokenize normalizes free text into lowercase terms with punctuation and
// repeated whitespace collapsed.
func Tokenize(text string) []string {
	return strings.Fields(normalize(text))
}

// Rank scores every candidate against the query terms and returns them in
// descending score order. Ties break by shorter display name, then by the
// original candidate order (the sort is stable). With no query terms every
// candidate scores 0 and the original order is preserved; ranking is a no-op,
// not an error. Candidates that match nothing still appear with their
// length-penalty score; excluding non-positive scores is the resolver's call.
func Rank(candidates []model.ItemRef, terms []string) []Ranked {
	ranked := make([]Ranked, len(candidates))
	for i, c := range candidates {
		ranked[i] = Ranked{Ref: c, Score: score(c.DisplayName, terms)}
	}

	if len(terms) == 0 {
		return ranked
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return utf8.RuneCountInString(ranked[i].Ref.DisplayName) <
			utf8.RuneCountInString(ranked[j].Ref.DisplayName)
	})

	return ranked
}

func score(displayName string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}

	name := normalize(displayName)
	words := strings.Fields(name)

	var s float64
	allPresent := true
	for _, term := range terms {
		switch {
		case containsWord(words, term):
			s += wholeWordWeight
		case strings.Contains(name, term):
			s += substringWeight
		default:
			allPresent = false
		}
	}
	if allPresent {
		s += allTermsBonus
	}

	s -= lengthPenalty * float64(utf8.RuneCountInString(displayName))
	return s
}

func containsWord(words []string, term string) bool {
	for _, w := range words {
		if w == term {
			return true
		}
	}
	return false
}

func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
