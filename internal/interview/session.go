// Package interview owns the interview session lifecycle: question sequencing,
// answer evaluation and end-of-session scoring.
package interview

import (
	"errors"
	"time"

	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/types"
)

// Status is the lifecycle state of a session
type Status string

// Session states. Pending → InProgress → Completed, with Abandoned reachable from Pending or InProgress.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// IsValid reports whether s is one of the session states
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Answer is one submitted answer with its evaluation
type Answer struct {
	Index      int                    `json:"index" bson:"index"`
	Text       string                 `json:"text" bson:"text"`
	Evaluation types.AnswerEvaluation `json:"evaluation" bson:"evaluation"`
	AnsweredAt time.Time              `json:"answered_at" bson:"answered_at"`
}

// Session is one mock interview.
// Invariants: len(Answers) == CurrentIndex, and Status == Completed iff CurrentIndex == len(Questions).
type Session struct {
	ID           string                    `json:"id" bson:"_id"`
	Questions    []types.GeneratedQuestion `json:"questions" bson:"questions"`
	Answers      []Answer                  `json:"answers" bson:"answers"`
	CurrentIndex int                       `json:"current_index" bson:"current_index"`
	Status       Status                    `json:"status" bson:"status"`
	// JobMatch is the skill-overlap ratio in [0,1]; nil when the job listed no skills
	JobMatch    *float64               `json:"job_match,omitempty" bson:"job_match,omitempty"`
	Scores      *types.AggregateScores `json:"scores,omitempty" bson:"scores,omitempty"`
	Feedback    *types.FinalFeedback   `json:"feedback,omitempty" bson:"feedback,omitempty"`
	RoleTitle   string                 `json:"role_title,omitempty" bson:"role_title,omitempty"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
	StartedAt   *time.Time             `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	AbandonedAt *time.Time             `json:"abandoned_at,omitempty" bson:"abandoned_at,omitempty"`
}

// NewSession creates a pending session over a fixed question list
func NewSession(id string, questions []types.GeneratedQuestion, now time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, errors.New("a session needs at least one question")
	}

	qs := make([]types.GeneratedQuestion, len(questions))
	for i, q := range questions {
		q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
		qs[i] = q
	}

	return &Session{
		ID:        id,
		Questions: qs,
		Answers:   []Answer{},
		Status:    StatusPending,
		CreatedAt: now,
	}, nil
}

// Start moves a pending session to in progress. Starting an in-progress session is a no-op.
func (s *Session) Start(now time.Time) error {
	switch s.Status {
	case StatusInProgress:
		return nil
	case StatusPending:
		s.Status = StatusInProgress
		s.StartedAt = &now
		return nil
	default:
		return &InvalidTransitionError{Operation: "start", From: s.Status}
	}
}

// Abandon cancels a pending or in-progress session
func (s *Session) Abandon(now time.Time) error {
	if s.Status.IsTerminal() {
		return &InvalidTransitionError{Operation: "abandon", From: s.Status}
	}
	s.Status = StatusAbandoned
	s.AbandonedAt = &now
	return nil
}

// CurrentQuestion returns the question awaiting an answer.
// ok is false once every question has been answered.
func (s *Session) CurrentQuestion() (q types.GeneratedQuestion, ok bool) {
	if s.CurrentIndex >= len(s.Questions) {
		return types.GeneratedQuestion{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// CheckAnswer reports whether an answer for index may be submitted now
func (s *Session) CheckAnswer(index int) error {
	if s.Status != StatusInProgress {
		return &InvalidTransitionError{Operation: "answer", From: s.Status}
	}
	if index != s.CurrentIndex {
		return &InvalidAnswerIndexError{Got: index, Expected: s.CurrentIndex}
	}
	return nil
}

// RecordAnswer appends an evaluated answer and advances the index.
// After the last question the session is Completed; the caller then attaches scores and feedback.
func (s *Session) RecordAnswer(index int, text string, eval types.AnswerEvaluation, now time.Time) error {
	if err := s.CheckAnswer(index); err != nil {
		return err
	}

	s.Answers = append(s.Answers, Answer{Index: index, Text: text, Evaluation: eval, AnsweredAt: now})
	s.CurrentIndex++
	if s.CurrentIndex == len(s.Questions) {
		s.Status = StatusCompleted
		s.CompletedAt = &now
	}
	return nil
}

// Evaluations returns the per-answer evaluations in order
func (s *Session) Evaluations() []types.AnswerEvaluation {
	out := make([]types.AnswerEvaluation, len(s.Answers))
	for i, a := range s.Answers {
		out[i] = a.Evaluation
	}
	return out
}

// Progress is the share of questions answered, as a percentage with one decimal
func (s *Session) Progress() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return scoring.Round1(float64(s.CurrentIndex) / float64(len(s.Questions)) * 100)
}

// Duration is the time from start to completion, or to now for a running session
func (s *Session) Duration(now time.Time) time.Duration {
	if s.StartedAt == nil {
		return 0
	}
	end := now
	switch {
	case s.CompletedAt != nil:
		end = *s.CompletedAt
	case s.AbandonedAt != nil:
		end = *s.AbandonedAt
	}
	if end.Before(*s.StartedAt) {
		return 0
	}
	return end.Sub(*s.StartedAt)
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	c := *s
	c.Questions = make([]types.GeneratedQuestion, len(s.Questions))
	for i, q := range s.Questions {
		q.ExpectedKeywords = cloneSlice(q.ExpectedKeywords)
		c.Questions[i] = q
	}
	c.Answers = make([]Answer, len(s.Answers))
	for i, a := range s.Answers {
		a.Evaluation.Strengths = cloneSlice(a.Evaluation.Strengths)
		a.Evaluation.Weaknesses = cloneSlice(a.Evaluation.Weaknesses)
		a.Evaluation.Suggestions = cloneSlice(a.Evaluation.Suggestions)
		c.Answers[i] = a
	}
	c.JobMatch = copyPtr(s.JobMatch)
	c.StartedAt = copyPtr(s.StartedAt)
	c.CompletedAt = copyPtr(s.CompletedAt)
	c.AbandonedAt = copyPtr(s.AbandonedAt)
	if s.Scores != nil {
		scores := *s.Scores
		scores.JobMatch = copyPtr(s.Scores.JobMatch)
		scores.ImprovementAreas = cloneSlice(s.Scores.ImprovementAreas)
		scores.Strengths = cloneSlice(s.Scores.Strengths)
		scores.Weaknesses = cloneSlice(s.Scores.Weaknesses)
		scores.Recommendations = cloneSlice(s.Scores.Recommendations)
		c.Scores = &scores
	}
	if s.Feedback != nil {
		fb := *s.Feedback
		fb.TechnicalStrengths = cloneSlice(s.Feedback.TechnicalStrengths)
		fb.CommunicationStrengths = cloneSlice(s.Feedback.CommunicationStrengths)
		fb.ImprovementAreas = cloneSlice(s.Feedback.ImprovementAreas)
		fb.Recommendations = cloneSlice(s.Feedback.Recommendations)
		fb.NextSteps = cloneSlice(s.Feedback.NextSteps)
		c.Feedback = &fb
	}
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
