package internal

import (
	"sort"
	"strings"
)

// Suggestion format strings
const (
	SuggestionPrefix    = "did you mean "
	SuggestionSeparator = ", "
	SuggestionLast      = " or "
	SuggestionSuffix    = "?"
)

// FindSimilarStrings returns up to maxSuggestions candidates close to target,
// closest first. Ties keep candidate order.
func FindSimilarStrings(target string, candidates []string, maxSuggestions int) []string {
	if len(candidates) == 0 || maxSuggestions <= 0 {
		return nil
	}

	// Candidates further away than this are not offered
	maxDistance := len(target) / 2
	if maxDistance < 2 {
		maxDistance = 2
	}

	type scored struct {
		str      string
		distance int
	}

	var similar []scored
	targetLower := strings.ToLower(target)
	for _, candidate := range candidates {
		// Case-insensitive edit distance
		dist := levenshteinDistance(targetLower, strings.ToLower(candidate))

		// Keep only candidates within the threshold
		if dist <= maxDistance {
			similar = append(similar, scored{str: candidate, distance: dist})
		}
	}

	// Closest first, stable so ties keep registration order
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].distance < similar[j].distance
	})

	// Cap at maxSuggestions
	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(similar) && i < maxSuggestions; i++ {
		result = append(result, similar[i].str)
	}
	return result
}

// levenshteinDistance computes the edit distance between two strings by rune
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two rolling rows of the distance matrix
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			// Cheapest of deletion, insertion and substitution
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		// Reuse the old row for the next pass
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// FormatSuggestions renders suggestions as "did you mean 'a', 'b' or 'c'?"
func FormatSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(SuggestionPrefix)
	for i, s := range suggestions {
		if i > 0 {
			if i == len(suggestions)-1 {
				sb.WriteString(SuggestionLast)
			} else {
				sb.WriteString(SuggestionSeparator)
			}
		}
		sb.WriteByte('\'')
		sb.WriteString(s)
		sb.WriteByte('\'')
	}
	sb.WriteString(SuggestionSuffix)
	return sb.String()
}
