package types

// Per-answer score bounds
const (
	MinAnswerScore = 0.0
	MaxAnswerScore = 10.0
)

// AnswerEvaluation is the model's assessment of a single answer
type AnswerEvaluation struct {
	TechnicalScore     float64  `json:"technical_score" mapstructure:"technical_score"`
	CommunicationScore float64  `json:"communication_score" mapstructure:"communication_score"`
	RelevanceScore     float64  `json:"relevance_score" mapstructure:"relevance_score"`
	OverallScore       float64  `json:"overall_score" mapstructure:"overall_score"` // derived, never taken from the model
	Feedback           string   `json:"feedback" mapstructure:"feedback"`
	Strengths          []string `json:"strengths" mapstructure:"strengths"`
	Weaknesses         []string `json:"weaknesses" mapstructure:"weaknesses"`
	Suggestions        []string `json:"suggestions" mapstructure:"suggestions"`
}

// FinalFeedback is the end-of-session summary generated once all answers are in
type FinalFeedback struct {
	OverallPerformance     string   `json:"overall_performance" mapstructure:"overall_performance"`
	TechnicalStrengths     []string `json:"technical_strengths" mapstructure:"technical_strengths"`
	CommunicationStrengths []string `json:"communication_strengths" mapstructure:"communication_strengths"`
	ImprovementAreas       []string `json:"improvement_areas" mapstructure:"improvement_areas"`
	Recommendations        []string `json:"recommendations" mapstructure:"recommendations"`
	NextSteps              []string `json:"next_steps" mapstructure:"next_steps"`
}

// ResumeExtraction holds the fields pulled out of résumé text
type ResumeExtraction struct {
	Skills          []string `json:"skills" mapstructure:"skills"`
	ExperienceYears int      `json:"experience_years" mapstructure:"experience_years"`
	EducationLevel  string   `json:"education_level" mapstructure:"education_level"`
	JobTitles       []string `json:"job_titles" mapstructure:"job_titles"`
	Companies       []string `json:"companies" mapstructure:"companies"`
	Summary         string   `json:"summary" mapstructure:"summary"`
	Strengths       []string `json:"strengths" mapstructure:"strengths"`
	Technologies    []string `json:"technologies" mapstructure:"technologies"`
}
