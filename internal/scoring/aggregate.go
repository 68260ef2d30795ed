// Package scoring turns per-answer evaluations into session-level composites and improvement reports.
package scoring

import (
	"math"

	"github.com/jonathan/interview-coach/internal/types"
)

// Weights for the composite overall score
const (
	technicalWeight     = 0.4
	communicationWeight = 0.3
	jobMatchWeight      = 0.3
)

// PassingScore is the aggregate score a session needs to pass and the
// threshold below which a sub-score is reported as an improvement area.
const PassingScore = 70.0

// Sub-score names used in improvement areas
const (
	AreaTechnical     = "technical"
	AreaCommunication = "communication"
	AreaRelevance     = "relevance"
	AreaJobMatch      = "job_match"
	AreaOverall       = "overall"
)

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp limits v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OverallPerAnswer derives the per-answer overall score from its three components
func OverallPerAnswer(technical, communication, relevance float64) float64 {
	mean := (technical + communication + relevance) / 3
	return Clamp(Round1(mean), types.MinAnswerScore, types.MaxAnswerScore)
}

// Aggregate combines the evaluations of a session into one result.
// jobMatch is a skill-overlap ratio in [0,1]; nil means it is unavailable.
// Without a job match the weighted composite falls back to the unweighted overall mean.
func Aggregate(evals []types.AnswerEvaluation, jobMatch *float64) *types.AggregateScores {
	result := &types.AggregateScores{
		AnswerCount:      len(evals),
		ImprovementAreas: []types.ImprovementArea{},
		Strengths:        []string{},
		Weaknesses:       []string{},
		Recommendations:  []string{},
	}

	if len(evals) > 0 {
		var technical, communication, relevance, overall float64
		for _, e := range evals {
			technical += e.TechnicalScore
			communication += e.CommunicationScore
			relevance += e.RelevanceScore
			overall += e.OverallScore
		}
		n := float64(len(evals))
		result.Technical = scale(technical / n)
		result.Communication = scale(communication / n)
		result.Relevance = scale(relevance / n)
		result.Overall = scale(overall / n)
	}

	if jobMatch != nil {
		jm := Round1(Clamp(*jobMatch, 0, 1) * 100)
		result.JobMatch = &jm
		result.WeightedOverall = Round1(technicalWeight*result.Technical +
			communicationWeight*result.Communication +
			jobMatchWeight*jm)
	} else {
		result.WeightedOverall = result.Overall
	}

	result.PerformanceLevel = PerformanceLevel(result.WeightedOverall)
	result.Passing = result.WeightedOverall >= PassingScore
	result.ImprovementAreas = ImprovementAreas(result)

	seenStrength := make(map[string]bool)
	seenWeakness := make(map[string]bool)
	seenRecommendation := make(map[string]bool)
	for _, e := range evals {
		result.Strengths = appendUnique(result.Strengths, seenStrength, e.Strengths)
		result.Weaknesses = appendUnique(result.Weaknesses, seenWeakness, e.Weaknesses)
		result.Recommendations = appendUnique(result.Recommendations, seenRecommendation, e.Suggestions)
	}

	return result
}

// PerformanceLevel maps a 0-100 score onto its named band
func PerformanceLevel(score float64) string {
	switch {
	case score >= 90:
		return types.LevelExcellent
	case score >= 80:
		return types.LevelVeryGood
	case score >= 70:
		return types.LevelGood
	case score >= 60:
		return types.LevelFair
	default:
		return types.LevelNeedsImprovement
	}
}

// ImprovementAreas lists every named sub-score strictly below PassingScore with its gap.
// Job match is only considered when present. Relevance and the weighted overall are
// derived from answers, so they are only considered when AnswerCount > 0.
func ImprovementAreas(s *types.AggregateScores) []types.ImprovementArea {
	areas := []types.ImprovementArea{}
	if s == nil {
		return areas
	}

	check := func(name string, score float64) {
		if score < PassingScore {
			areas = append(areas, types.ImprovementArea{
				Area:  name,
				Score: score,
				Gap:   Round1(PassingScore - score),
			})
		}
	}

	answered := s.AnswerCount > 0

	check(AreaTechnical, s.Technical)
	check(AreaCommunication, s.Communication)
	if answered {
		check(AreaRelevance, s.Relevance)
	}
	if s.JobMatch != nil {
		check(AreaJobMatch, *s.JobMatch)
	}
	if answered {
		check(AreaOverall, s.WeightedOverall)
	}

	return areas
}

// scale converts a 0-10 mean to the 0-100 aggregate range
func scale(mean float64) float64 {
	return Clamp(Round1(mean*10), 0, 100)
}

// appendUnique appends items not yet seen, preserving first-occurrence order
func appendUnique(dst []string, seen map[string]bool, items []string) []string {
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		dst = append(dst, item)
	}
	return dst
}
