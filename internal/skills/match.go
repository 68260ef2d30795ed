// Package skills compares the skills a job requires with the skills a candidate has.
package skills

import (
	"strings"

	"github.com/jonathan/interview-coach/internal/parsing"
)

// Match is the outcome of comparing required and candidate skills
type Match struct {
	// Ratio is |required ∩ candidate| / |required|, 0 when nothing is required
	Ratio   float64  `json:"ratio"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Compare matches skills case-insensitively after canonicalizing names
// ("golang" and "Go" are the same skill). Duplicate required skills count once.
func Compare(required, candidate []string) Match {
	have := make(map[string]bool, len(candidate))
	for _, skill := range candidate {
		if key := skillKey(skill); key != "" {
			have[key] = true
		}
	}

	result := Match{Matched: []string{}, Missing: []string{}}
	seen := make(map[string]bool, len(required))
	for _, skill := range required {
		key := skillKey(skill)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		name := parsing.NormalizeSkillName(skill)
		if have[key] {
			result.Matched = append(result.Matched, name)
		} else {
			result.Missing = append(result.Missing, name)
		}
	}

	if len(seen) > 0 {
		result.Ratio = float64(len(result.Matched)) / float64(len(seen))
	}
	return result
}

// MatchRatio returns only the overlap ratio in [0,1]
func MatchRatio(required, candidate []string) float64 {
	return Compare(required, candidate).Ratio
}

func skillKey(skill string) string {
	return strings.ToLower(parsing.NormalizeSkillName(skill))
}
