// Package types provides type definitions for structured data used throughout the interview-coach system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// QuestionType classifies what a question assesses
type QuestionType string

// Question types accepted from the model; anything else normalizes to QuestionTechnical
const (
	QuestionTechnical   QuestionType = "technical"
	QuestionBehavioral  QuestionType = "behavioral"
	QuestionSituational QuestionType = "situational"
	QuestionCompany     QuestionType = "company"
)

// Difficulty is the expected difficulty of a question
type Difficulty string

// Difficulty levels; anything else normalizes to DifficultyMedium
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultTimeLimitMinutes is used when the model omits or mangles time_limit_minutes
const DefaultTimeLimitMinutes = 3

// GeneratedQuestion is one interview question. Immutable once created.
type GeneratedQuestion struct {
	Question         string       `json:"question" mapstructure:"question"`
	Type             QuestionType `json:"type" mapstructure:"type"`
	Difficulty       Difficulty   `json:"difficulty" mapstructure:"difficulty"`
	ExpectedKeywords []string     `json:"expected_keywords" mapstructure:"expected_keywords"`
	TimeLimitMinutes int          `json:"time_limit_minutes" mapstructure:"time_limit_minutes"`
}

// NormalizeQuestionType maps loose model output onto the closed set of question types
func NormalizeQuestionType(s string) QuestionType {
	switch QuestionType(s) {
	case QuestionTechnical, QuestionBehavioral, QuestionSituational, QuestionCompany:
		return QuestionType(s)
	case "scenario":
		return QuestionSituational
	default:
		return QuestionTechnical
	}
}

// NormalizeDifficulty maps loose model output onto the closed set of difficulties
func NormalizeDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}
