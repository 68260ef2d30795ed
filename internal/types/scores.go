package types

// Performance levels derived from the weighted overall score
const (
	LevelExcellent        = "Excellent"
	LevelVeryGood         = "Very Good"
	LevelGood             = "Good"
	LevelFair             = "Fair"
	LevelNeedsImprovement = "Needs Improvement"
)

// AggregateScores is the session-level composite, all scores on a 0-100 scale
type AggregateScores struct {
	Technical        float64           `json:"technical_score"`
	Communication    float64           `json:"communication_score"`
	Relevance        float64           `json:"relevance_score"`
	Overall          float64           `json:"overall_score"`
	JobMatch         *float64          `json:"job_match_score,omitempty"`
	WeightedOverall  float64           `json:"weighted_overall_score"`
	PerformanceLevel string            `json:"performance_level"`
	Passing          bool              `json:"passing"`
	AnswerCount      int               `json:"answer_count"`
	ImprovementAreas []ImprovementArea `json:"improvement_areas"`
	Strengths        []string          `json:"strengths"`
	Weaknesses       []string          `json:"weaknesses"`
	Recommendations  []string          `json:"recommendations"`
}

// ImprovementArea is a named sub-score under the passing threshold
type ImprovementArea struct {
	Area  string  `json:"area"`
	Score float64 `json:"current_score"`
	Gap   float64 `json:"improvement_needed"`
}
