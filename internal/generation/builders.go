package generation

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// Token budgets per call
const (
	questionListTokens int32 = 2048
	evaluationTokens   int32 = 1024
	feedbackTokens     int32 = 2048
	resumeTokens       int32 = 1024
	itemTokens         int32 = 256
)

// Question count bounds accepted from callers
const (
	MinQuestions     = 1
	MaxQuestions     = 10
	DefaultQuestions = 5
)

// typeRotation gives roughly 40% technical, 30% behavioral, 20% situational and 10% company questions
var typeRotation = []types.QuestionType{
	types.QuestionTechnical,
	types.QuestionBehavioral,
	types.QuestionTechnical,
	types.QuestionSituational,
	types.QuestionBehavioral,
	types.QuestionTechnical,
	types.QuestionCompany,
	types.QuestionTechnical,
	types.QuestionBehavioral,
	types.QuestionSituational,
}

// QuestionRequest describes the interview to prepare
type QuestionRequest struct {
	JobDescription string
	RoleTitle      string
	Requirements   []string
	Skills         []string
	Count          int
}

// Exchange is one answered question, used to summarize a session
type Exchange struct {
	Question   types.GeneratedQuestion
	Answer     string
	Evaluation types.AnswerEvaluation
}

// ClampQuestionCount limits n to [MinQuestions, MaxQuestions]; zero means DefaultQuestions
func ClampQuestionCount(n int) int {
	switch {
	case n == 0:
		return DefaultQuestions
	case n < MinQuestions:
		return MinQuestions
	case n > MaxQuestions:
		return MaxQuestions
	default:
		return n
	}
}

// PlannedQuestion returns the type and difficulty planned for question i of n.
// Difficulty rises through the interview: the first third is easy and the last third hard.
func PlannedQuestion(i, n int) types.GeneratedQuestion {
	difficulty := types.DifficultyMedium
	if n >= 3 {
		switch {
		case i < n/3:
			difficulty = types.DifficultyEasy
		case i >= n-n/3:
			difficulty = types.DifficultyHard
		}
	}
	return types.GeneratedQuestion{
		Type:             typeRotation[i%len(typeRotation)],
		Difficulty:       difficulty,
		ExpectedKeywords: []string{},
		TimeLimitMinutes: types.DefaultTimeLimitMinutes,
	}
}

// QuestionListSpec builds the spec for generating req.Count questions.
// Count is used as given; callers facing users should pass it through ClampQuestionCount.
func QuestionListSpec(req QuestionRequest) (*PromptSpec, error) {
	data := map[string]string{
		"Count":          fmt.Sprint(req.Count),
		"JobDescription": orNotSpecified(req.JobDescription),
		"Requirements":   orNotSpecified(strings.Join(req.Requirements, ", ")),
		"Skills":         orNotSpecified(strings.Join(req.Skills, ", ")),
	}

	instruction, err := prompts.Render(prompts.KeyQuestionList, data)
	if err != nil {
		return nil, err
	}
	freeForm, err := prompts.Render(prompts.KeyQuestionFreeForm, data)
	if err != nil {
		return nil, err
	}

	var items []ItemPrompt
	for i := 0; i < req.Count; i++ {
		meta := PlannedQuestion(i, req.Count)
		data["Type"] = string(meta.Type)
		data["Difficulty"] = string(meta.Difficulty)
		prompt, err := prompts.Render(prompts.KeyQuestionSingle, data)
		if err != nil {
			return nil, err
		}
		items = append(items, ItemPrompt{Prompt: prompt, Format: FormatText, Question: &meta})
	}

	return NewPromptSpec(SpecParams{
		Kind:                schemas.KindQuestionList,
		Instruction:         instruction,
		FreeFormInstruction: freeForm,
		Items:               items,
		Count:               req.Count,
		Tier:                llm.TierStandard,
		MaxOutputTokens:     questionListTokens,
		ItemMaxTokens:       itemTokens,
		Fallback:            Fallback{RoleTitle: req.RoleTitle, Skills: req.Skills},
	})
}

var evaluationFields = []struct {
	field  string
	format ItemFormat
	ask    string
}{
	{"technical_score", FormatNumber, "Rate the technical accuracy of the answer from 0 to 10. Reply with the number only."},
	{"communication_score", FormatNumber, "Rate how clear and well structured the answer is from 0 to 10. Reply with the number only."},
	{"relevance_score", FormatNumber, "Rate how well the answer addresses the question from 0 to 10. Reply with the number only."},
	{"feedback", FormatText, "Write two sentences of feedback for the candidate."},
	{"strengths", FormatList, "List what the candidate did well, one item per line."},
	{"weaknesses", FormatList, "List what the answer was missing, one item per line."},
	{"suggestions", FormatList, "List specific suggestions for a better answer, one item per line."},
}

// EvaluationSpec builds the spec for evaluating one answer
func EvaluationSpec(q types.GeneratedQuestion, answer string) (*PromptSpec, error) {
	keywords := "Not specified"
	if len(q.ExpectedKeywords) > 0 {
		keywords = strings.Join(q.ExpectedKeywords, ", ")
	}
	data := map[string]string{
		"Question": q.Question,
		"Type":     string(q.Type),
		"Answer":   orNotSpecified(answer),
		"Keywords": keywords,
	}

	instruction, err := prompts.Render(prompts.KeyEvaluation, data)
	if err != nil {
		return nil, err
	}

	items := make([]ItemPrompt, 0, len(evaluationFields))
	for _, f := range evaluationFields {
		data["Ask"] = f.ask
		prompt, err := prompts.Render(prompts.KeyEvaluationField, data)
		if err != nil {
			return nil, err
		}
		items = append(items, ItemPrompt{Field: f.field, Prompt: prompt, Format: f.format})
	}

	return NewPromptSpec(SpecParams{
		Kind:            schemas.KindAnswerEvaluation,
		Instruction:     instruction,
		Items:           items,
		Tier:            llm.TierStandard,
		MaxOutputTokens: evaluationTokens,
		ItemMaxTokens:   itemTokens,
		Fallback:        Fallback{Question: q.Question, Answer: answer},
	})
}

var feedbackFields = []struct {
	field  string
	format ItemFormat
	ask    string
}{
	{"overall_performance", FormatText, "Summarize the candidate's overall performance in two sentences."},
	{"technical_strengths", FormatList, "List the technical areas where the candidate excelled, one per line."},
	{"communication_strengths", FormatList, "List the candidate's communication strengths, one per line."},
	{"improvement_areas", FormatList, "List the areas the candidate should improve, one per line."},
	{"recommendations", FormatList, "List actionable recommendations, one per line."},
	{"next_steps", FormatList, "List next steps for the candidate's career development, one per line."},
}

// FeedbackSpec builds the spec for the end-of-session summary
func FeedbackSpec(exchanges []Exchange) (*PromptSpec, error) {
	data := map[string]string{"Transcript": Transcript(exchanges)}

	instruction, err := prompts.Render(prompts.KeyFeedback, data)
	if err != nil {
		return nil, err
	}

	items := make([]ItemPrompt, 0, len(feedbackFields))
	for _, f := range feedbackFields {
		data["Ask"] = f.ask
		prompt, err := prompts.Render(prompts.KeyFeedbackField, data)
		if err != nil {
			return nil, err
		}
		items = append(items, ItemPrompt{Field: f.field, Prompt: prompt, Format: f.format})
	}

	return NewPromptSpec(SpecParams{
		Kind:            schemas.KindFinalFeedback,
		Instruction:     instruction,
		Items:           items,
		Tier:            llm.TierAdvanced,
		MaxOutputTokens: feedbackTokens,
		ItemMaxTokens:   itemTokens,
	})
}

// ResumeSpec builds the spec for extracting a profile from résumé text
func ResumeSpec(resumeText string) (*PromptSpec, error) {
	schema := llm.ResumeExtractionSchema()

	items := make([]ItemPrompt, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		format := FormatText
		switch {
		case strings.HasPrefix(f.Type, "["):
			format = FormatList
		case f.Type == "number":
			format = FormatNumber
		}
		items = append(items, ItemPrompt{
			Field:  f.Name,
			Prompt: llm.FieldPrompt(schema, f, resumeText),
			Format: format,
		})
	}

	return NewPromptSpec(SpecParams{
		Kind:            schemas.KindResumeExtraction,
		Instruction:     llm.BuildExtractionPrompt(schema, resumeText),
		Items:           items,
		Tier:            llm.TierStandard,
		MaxOutputTokens: resumeTokens,
		ItemMaxTokens:   itemTokens,
		Fallback:        Fallback{ResumeText: resumeText},
	})
}

// Transcript renders answered questions as plain text for the feedback prompt
func Transcript(exchanges []Exchange) string {
	var sb strings.Builder
	for i, ex := range exchanges {
		fmt.Fprintf(&sb, "Q%d (%s, %s): %s\n", i+1, ex.Question.Type, ex.Question.Difficulty, ex.Question.Question)
		fmt.Fprintf(&sb, "Answer: %s\n", orNotSpecified(ex.Answer))
		fmt.Fprintf(&sb, "Scores: technical %.1f, communication %.1f, relevance %.1f, overall %.1f\n",
			ex.Evaluation.TechnicalScore, ex.Evaluation.CommunicationScore,
			ex.Evaluation.RelevanceScore, ex.Evaluation.OverallScore)
		if ex.Evaluation.Feedback != "" {
			fmt.Fprintf(&sb, "Feedback: %s\n", ex.Evaluation.Feedback)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
