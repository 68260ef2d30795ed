package generation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/interview-coach/internal/parsing"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// cannedQuestions are served in order by the static tier and pad short lists in the other tiers
var cannedQuestions = []types.GeneratedQuestion{
	{
		Question:         "Tell me about yourself and your relevant experience.",
		Type:             types.QuestionBehavioral,
		Difficulty:       types.DifficultyEasy,
		ExpectedKeywords: []string{"experience", "skills", "background"},
		TimeLimitMinutes: 3,
	},
	{
		Question:         "What interests you about this role?",
		Type:             types.QuestionCompany,
		Difficulty:       types.DifficultyEasy,
		ExpectedKeywords: []string{"passion", "growth", "challenge"},
		TimeLimitMinutes: 2,
	},
	{
		Question:         "Describe a challenging project you worked on.",
		Type:             types.QuestionBehavioral,
		Difficulty:       types.DifficultyMedium,
		ExpectedKeywords: []string{"problem", "solution", "outcome"},
		TimeLimitMinutes: 5,
	},
	{
		Question:         "How do you approach debugging a problem you have never seen before?",
		Type:             types.QuestionTechnical,
		Difficulty:       types.DifficultyMedium,
		ExpectedKeywords: []string{"reproduce", "logs", "hypothesis", "isolate"},
		TimeLimitMinutes: 4,
	},
	{
		Question:         "Tell me about a time you disagreed with a teammate. How did you resolve it?",
		Type:             types.QuestionBehavioral,
		Difficulty:       types.DifficultyMedium,
		ExpectedKeywords: []string{"listen", "compromise", "outcome"},
		TimeLimitMinutes: 4,
	},
	{
		Question:         "Imagine a release is due tomorrow and a critical bug appears. What do you do?",
		Type:             types.QuestionSituational,
		Difficulty:       types.DifficultyMedium,
		ExpectedKeywords: []string{"prioritize", "communicate", "rollback", "stakeholders"},
		TimeLimitMinutes: 4,
	},
	{
		Question:         "How do you make sure the code you ship is maintainable?",
		Type:             types.QuestionTechnical,
		Difficulty:       types.DifficultyMedium,
		ExpectedKeywords: []string{"tests", "review", "documentation", "readability"},
		TimeLimitMinutes: 3,
	},
	{
		Question:         "Walk me through how you would design a system that must keep working when a dependency fails.",
		Type:             types.QuestionTechnical,
		Difficulty:       types.DifficultyHard,
		ExpectedKeywords: []string{"timeouts", "retries", "fallback", "monitoring"},
		TimeLimitMinutes: 5,
	},
	{
		Question:         "If you joined and found the team's priorities unclear, how would you handle it?",
		Type:             types.QuestionSituational,
		Difficulty:       types.DifficultyHard,
		ExpectedKeywords: []string{"clarify", "align", "stakeholders"},
		TimeLimitMinutes: 4,
	},
	{
		Question:         "Where do you see yourself growing in the next two years?",
		Type:             types.QuestionCompany,
		Difficulty:       types.DifficultyEasy,
		ExpectedKeywords: []string{"goals", "learning", "impact"},
		TimeLimitMinutes: 2,
	},
}

var cannedEvaluation = types.AnswerEvaluation{
	TechnicalScore:     7.0,
	CommunicationScore: 7.0,
	RelevanceScore:     7.0,
	Feedback:           "Good answer with room for improvement. Consider providing more specific examples.",
	Strengths:          []string{"Clear communication", "Relevant experience"},
	Weaknesses:         []string{"Could be more specific", "Missing technical details"},
	Suggestions:        []string{"Provide specific examples", "Include metrics and results"},
}

var blankAnswerEvaluation = types.AnswerEvaluation{
	Feedback:    "No answer was given.",
	Strengths:   []string{},
	Weaknesses:  []string{"Question left unanswered"},
	Suggestions: []string{"Attempt every question, even with a partial answer"},
}

var cannedFeedback = types.FinalFeedback{
	OverallPerformance:     "Good performance with areas for improvement",
	TechnicalStrengths:     []string{"Problem-solving", "Technical knowledge"},
	CommunicationStrengths: []string{"Clear articulation", "Good structure"},
	ImprovementAreas:       []string{"More specific examples", "Technical depth"},
	Recommendations:        []string{"Practice technical questions", "Prepare STAR examples"},
	NextSteps:              []string{"Continue learning", "Practice interviews"},
}

// skillVocabulary is scanned by the static résumé extraction
var skillVocabulary = []string{
	"Go", "Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Ruby", "Rust", "Kotlin", "Swift", "PHP", "Scala",
	"React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring", "Rails",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Kafka", "RabbitMQ",
	"AWS", "GCP", "Azure", "Docker", "Kubernetes", "Terraform", "Linux", "Git",
	"Machine Learning", "Data Analysis", "REST", "GraphQL", "gRPC", "Microservices", "CI/CD",
	"Leadership", "Project Management", "Agile", "Scrum", "Communication",
}

var (
	experiencePattern = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)(?:\s+of)?\s+(?:professional\s+)?experience`)
	educationLevels   = []struct {
		level    string
		keywords []string
	}{
		{"PhD", []string{"phd", "ph.d", "doctorate"}},
		{"Master's", []string{"master", "msc", "m.s.", "mba"}},
		{"Bachelor's", []string{"bachelor", "bsc", "b.s.", "b.a."}},
		{"Associate", []string{"associate degree"}},
	}
)

const maxSkillQuestions = 2

// StaticQuestions returns exactly n canned questions, skill-specific ones first.
// The table is cycled when n exceeds it.
func StaticQuestions(fb Fallback, n int) []types.GeneratedQuestion {
	if n < 1 {
		return []types.GeneratedQuestion{}
	}

	pool := make([]types.GeneratedQuestion, 0, len(cannedQuestions)+2)
	for _, skill := range fb.Skills {
		if len(pool) == maxSkillQuestions {
			break
		}
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		pool = append(pool, types.GeneratedQuestion{
			Question:         fmt.Sprintf("Walk me through a project where you used %s. What was your role?", skill),
			Type:             types.QuestionTechnical,
			Difficulty:       types.DifficultyMedium,
			ExpectedKeywords: []string{strings.ToLower(skill), "design", "trade-offs"},
			TimeLimitMinutes: 4,
		})
	}
	pool = append(pool, cannedQuestions...)

	out := make([]types.GeneratedQuestion, n)
	for i := range out {
		out[i] = copyQuestion(pool[i%len(pool)])
	}
	return out
}

// padQuestions fills questions up to n from the canned table, skipping duplicates
func padQuestions(questions []types.GeneratedQuestion, fb Fallback, n int) []types.GeneratedQuestion {
	if len(questions) > n {
		return questions[:n]
	}
	if len(questions) == n {
		return questions
	}

	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		seen[strings.ToLower(q.Question)] = true
	}
	for _, q := range StaticQuestions(fb, n+len(questions)) {
		if len(questions) == n {
			break
		}
		if seen[strings.ToLower(q.Question)] {
			continue
		}
		seen[strings.ToLower(q.Question)] = true
		questions = append(questions, q)
	}
	// Only reachable when the canned pool is smaller than n
	for len(questions) < n {
		questions = append(questions, StaticQuestions(fb, len(questions)+1)[len(questions)])
	}
	return questions
}

// StaticEvaluation returns the canned evaluation; a blank answer scores zero
func StaticEvaluation(fb Fallback) types.AnswerEvaluation {
	if strings.TrimSpace(fb.Answer) == "" {
		return parsing.NormalizeEvaluation(copyEvaluation(blankAnswerEvaluation))
	}
	return parsing.NormalizeEvaluation(copyEvaluation(cannedEvaluation))
}

// StaticFeedback returns the canned end-of-session feedback
func StaticFeedback() types.FinalFeedback {
	f := cannedFeedback
	f.TechnicalStrengths = append([]string(nil), f.TechnicalStrengths...)
	f.CommunicationStrengths = append([]string(nil), f.CommunicationStrengths...)
	f.ImprovementAreas = append([]string(nil), f.ImprovementAreas...)
	f.Recommendations = append([]string(nil), f.Recommendations...)
	f.NextSteps = append([]string(nil), f.NextSteps...)
	return f
}

// StaticResume scans résumé text for known skills, years of experience and education level
func StaticResume(text string) types.ResumeExtraction {
	lower := strings.ToLower(text)

	var skills []string
	for _, skill := range skillVocabulary {
		if containsWord(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}

	years := 0
	for _, m := range experiencePattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > years {
			years = n
		}
	}

	education := ""
	for _, e := range educationLevels {
		for _, kw := range e.keywords {
			if strings.Contains(lower, kw) {
				education = e.level
				break
			}
		}
		if education != "" {
			break
		}
	}

	return parsing.NormalizeResume(types.ResumeExtraction{
		Skills:          skills,
		ExperienceYears: years,
		EducationLevel:  education,
		Technologies:    skills,
	})
}

// staticValue returns the canned value for spec's kind
func staticValue(spec *PromptSpec) parsing.Value {
	v := parsing.Value{Kind: spec.kind}
	switch spec.kind {
	case schemas.KindQuestionList:
		v.Questions = StaticQuestions(spec.fallback, spec.count)
	case schemas.KindAnswerEvaluation:
		e := StaticEvaluation(spec.fallback)
		v.Evaluation = &e
	case schemas.KindFinalFeedback:
		f := StaticFeedback()
		v.Feedback = &f
	default:
		r := StaticResume(spec.fallback.ResumeText)
		v.Resume = &r
	}
	return v
}

// containsWord reports whether word occurs in text delimited by non-alphanumerics.
// Both arguments must already be lower case.
func containsWord(text, word string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(word)
		if (idx == 0 || !isWordByte(text[idx-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '+' || b == '#'
}

func copyQuestion(q types.GeneratedQuestion) types.GeneratedQuestion {
	q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
	return q
}

func copyEvaluation(e types.AnswerEvaluation) types.AnswerEvaluation {
	e.Strengths = append([]string{}, e.Strengths...)
	e.Weaknesses = append([]string{}, e.Weaknesses...)
	e.Suggestions = append([]string{}, e.Suggestions...)
	return e
}
