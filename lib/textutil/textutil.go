package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// SnakeCase turns a label like "Avg. speed winner:" into "avg_speed_winner".
func SnakeCase(label string) string {
	label = strings.ToLower(label)
	label = nonWord.ReplaceAllString(label, "_")
	return strings.Trim(label, "_")
}

func matchKey(s string) string {
	return nonWord.ReplaceAllString(strings.ToLower(s), "")
}

// Closest returns the candidate most similar to `name` (Jaro-Winkler over
// names stripped of punctuation and spaces) along with its similarity in [0, 1].
func Closest(name string, candidates []string) (string, float64) {
	normalized := matchKey(name)

	best := ""
	var similarity float64
	for _, c := range candidates {
		sim := matchr.JaroWinkler(normalized, matchKey(c), false)
		if sim > similarity {
			similarity = sim
			best = c
		}
	}
	return best, similarity
}
