package dataset

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// Score rates how well choice matches query on a 0..100 scale. It picks the
// best of a plain ratio, a partial (substring) ratio and token-order-insensitive
// ratios, scaling the partial ones down, so "array" scores high against
// "Array, Hash Table" but not against "Dynamic Programming".
func Score(query, choice string) int {
	p1, p2 := normalize(query), normalize(choice)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := ratio(p1, p2)
	shorter, longer := len(p1), len(p2)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	lenRatio := float64(longer) / float64(shorter)

	if lenRatio < 1.5 {
		tokenSort := ratio(sortTokens(p1), sortTokens(p2)) * 0.95
		tokenSet := tokenSetRatio(p1, p2, ratio) * 0.95
		return int(math.Round(max(base, tokenSort, tokenSet)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	partial := partialRatio(p1, p2) * partialScale
	partialSort := partialRatio(sortTokens(p1), sortTokens(p2)) * 0.95 * partialScale
	partialSet := tokenSetRatio(p1, p2, partialRatio) * 0.95 * partialScale
	return int(math.Round(max(base, partial, partialSort, partialSet)))
}

// ExtractOne returns the first choice with the highest Score and that score.
func ExtractOne(query string, choices []string) (string, int, bool) {
	best, bestScore, found := "", -1, false
	for _, c := range choices {
		if s := Score(query, c); s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, bestScore, found
}

func ratio(a, b string) float64 {
	return 100 * levenshtein.Similarity(a, b, nil)
}

// partialRatio slides the shorter string over the longer one and keeps the best window.
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	short := string(ra)
	best := 0.0
	for i := 0; i+len(ra) <= len(rb); i++ {
		if s := ratio(short, string(rb[i:i+len(ra)])); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSetRatio(a, b string, scorer func(string, string) float64) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	var common, onlyA, onlyB []string
	for t := range ta {
		if tb[t] {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if !ta[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	inter := strings.Join(common, " ")
	combinedA := strings.TrimSpace(inter + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(inter + " " + strings.Join(onlyB, " "))

	best := scorer(combinedA, combinedB)
	if inter != "" {
		best = max(best, scorer(inter, combinedA), scorer(inter, combinedB))
	}
	return best
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		out[t] = true
	}
	return out
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// normalize lowercases and turns every non-alphanumeric rune into a space.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
