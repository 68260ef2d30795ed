package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/events"
	"github.com/jonathan/interview-coach/internal/generation"
	"github.com/jonathan/interview-coach/internal/logger"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/skills"
	"github.com/jonathan/interview-coach/internal/types"
)

// Generator produces structured values; *generation.Cascade implements it
type Generator interface {
	Generate(ctx context.Context, spec *generation.PromptSpec) (*generation.Output, error)
}

// CreateRequest describes the interview to prepare
type CreateRequest struct {
	JobDescription  string
	RoleTitle       string
	RequiredSkills  []string
	CandidateSkills []string
	// Count is clamped to [1,10]; zero means 5
	Count int
}

// SubmitResult is the outcome of one answer submission
type SubmitResult struct {
	Session    *Session
	Evaluation types.AnswerEvaluation
	Tier       generation.TierName
}

// Manager runs sessions. Operations on one session are serialized; different
// sessions proceed in parallel.
type Manager struct {
	gen    Generator
	store  Store
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
	newID  func() string

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is removed from Manager.locks once no caller holds or waits on it
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides session id generation
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithPublisher sets the lifecycle event publisher
func WithPublisher(p events.Publisher) Option {
	return func(m *Manager) { m.events = p }
}

// NewManager creates a manager. A nil store is replaced by a MemoryStore.
func NewManager(gen Generator, store Store, log *zap.Logger, opts ...Option) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	m := &Manager{
		gen:    gen,
		store:  store,
		events: events.Nop{},
		log:    logger.OrNop(log),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
		locks:  make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// lock acquires the mutex for one session and returns its release func
func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// CreateSession generates questions for req and stores a new pending session
func (m *Manager) CreateSession(ctx context.Context, req CreateRequest) (*Session, error) {
	spec, err := generation.QuestionListSpec(generation.QuestionRequest{
		JobDescription: req.JobDescription,
		RoleTitle:      req.RoleTitle,
		Requirements:   req.RequiredSkills,
		Skills:         req.CandidateSkills,
		Count:          generation.ClampQuestionCount(req.Count),
	})
	if err != nil {
		return nil, err
	}

	out, err := m.gen.Generate(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	s, err := NewSession(m.newID(), out.Questions, m.now())
	if err != nil {
		return nil, err
	}
	s.RoleTitle = strings.TrimSpace(req.RoleTitle)
	if len(req.RequiredSkills) > 0 {
		ratio := skills.MatchRatio(req.RequiredSkills, req.CandidateSkills)
		s.JobMatch = &ratio
	}

	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	m.log.Info("session created",
		zap.String(logger.FieldSession, s.ID),
		zap.Int("questions", len(s.Questions)),
		zap.String("tier", string(out.Tier)),
	)
	m.publish(ctx, events.SessionCreated, s)
	return s, nil
}

// Get returns a snapshot of a session
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Start moves a session to in progress
func (m *Manager) Start(ctx context.Context, id string) (*Session, error) {
	return m.transition(ctx, id, events.SessionStarted, func(s *Session) error {
		if s.Status == StatusInProgress {
			return errNoChange
		}
		return s.Start(m.now())
	})
}

// Abandon cancels a session
func (m *Manager) Abandon(ctx context.Context, id string) (*Session, error) {
	return m.transition(ctx, id, events.SessionAbandoned, func(s *Session) error {
		return s.Abandon(m.now())
	})
}

// errNoChange marks an idempotent transition that needs no write
var errNoChange = errors.New("no change")

func (m *Manager) transition(ctx context.Context, id string, ev events.Type, apply func(*Session) error) (*Session, error) {
	unlock := m.lock(id)
	defer unlock()

	current, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := apply(next); err != nil {
		if errors.Is(err, errNoChange) {
			return current, nil
		}
		return nil, err
	}

	if err := m.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.log.Info("session updated", zap.String(logger.FieldSession, id), zap.String("status", string(next.Status)))
	m.publish(ctx, ev, next)
	return next, nil
}

// CurrentQuestion returns the question awaiting an answer; ok is false once the session is completed
func (m *Manager) CurrentQuestion(ctx context.Context, id string) (q types.GeneratedQuestion, index int, ok bool, err error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return types.GeneratedQuestion{}, 0, false, err
	}
	q, ok = s.CurrentQuestion()
	return q, s.CurrentIndex, ok, nil
}

// SubmitAnswer evaluates the answer to question index and advances the session.
// The last answer completes the session: scores are aggregated and final feedback
// generated before this returns. On any error the stored session is unchanged.
func (m *Manager) SubmitAnswer(ctx context.Context, id string, index int, text string) (*SubmitResult, error) {
	unlock := m.lock(id)
	defer unlock()

	current, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.CheckAnswer(index); err != nil {
		return nil, err
	}

	question := current.Questions[index]
	spec, err := generation.EvaluationSpec(question, text)
	if err != nil {
		return nil, err
	}
	out, err := m.gen.Generate(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}
	eval := *out.Evaluation

	next := current.Clone()
	if err := next.RecordAnswer(index, text, eval, m.now()); err != nil {
		return nil, err
	}

	if next.Status == StatusCompleted {
		if err := m.finish(ctx, next); err != nil {
			return nil, err
		}
	}

	if err := m.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.log.Info("answer recorded",
		zap.String(logger.FieldSession, id),
		zap.Int("index", index),
		zap.Float64("overall_score", eval.OverallScore),
		zap.String("tier", string(out.Tier)),
	)
	m.publish(ctx, events.AnswerSubmitted, next)
	if next.Status == StatusCompleted {
		m.publish(ctx, events.SessionCompleted, next)
	}

	return &SubmitResult{Session: next, Evaluation: eval, Tier: out.Tier}, nil
}

// finish aggregates scores and generates final feedback for a just-completed session
func (m *Manager) finish(ctx context.Context, s *Session) error {
	s.Scores = scoring.Aggregate(s.Evaluations(), s.JobMatch)

	exchanges := make([]generation.Exchange, len(s.Answers))
	for i, a := range s.Answers {
		exchanges[i] = generation.Exchange{Question: s.Questions[a.Index], Answer: a.Text, Evaluation: a.Evaluation}
	}
	spec, err := generation.FeedbackSpec(exchanges)
	if err != nil {
		return err
	}
	out, err := m.gen.Generate(ctx, spec)
	if err != nil {
		return fmt.Errorf("generate final feedback: %w", err)
	}
	s.Feedback = out.Feedback
	return nil
}

// Delete removes a session
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.publish(ctx, events.SessionDeleted, &Session{ID: id})
	return nil
}

// ListSessions lists stored sessions when the store supports it
func (m *Manager) ListSessions(ctx context.Context, status Status, limit int) ([]Summary, error) {
	lister, ok := m.store.(Lister)
	if !ok {
		return nil, ErrListingUnsupported
	}
	return lister.ListSessions(ctx, status, limit)
}

// CountByStatus counts stored sessions per status when the store supports it
func (m *Manager) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	lister, ok := m.store.(Lister)
	if !ok {
		return nil, ErrListingUnsupported
	}
	return lister.CountByStatus(ctx)
}

// AnalyzeResume extracts a candidate profile from résumé text
func (m *Manager) AnalyzeResume(ctx context.Context, text string) (*types.ResumeExtraction, generation.TierName, error) {
	spec, err := generation.ResumeSpec(text)
	if err != nil {
		return nil, "", err
	}
	out, err := m.gen.Generate(ctx, spec)
	if err != nil {
		return nil, "", fmt.Errorf("analyze resume: %w", err)
	}
	return out.Resume, out.Tier, nil
}

func (m *Manager) publish(ctx context.Context, t events.Type, s *Session) {
	ev := events.Event{
		Type:         t,
		SessionID:    s.ID,
		Status:       string(s.Status),
		CurrentIndex: s.CurrentIndex,
		Total:        len(s.Questions),
		At:           m.now(),
	}
	if s.Scores != nil {
		score := s.Scores.WeightedOverall
		ev.Score = &score
	}
	if err := m.events.Publish(ctx, ev); err != nil {
		m.log.Warn("publish event failed",
			zap.String(logger.FieldSession, s.ID),
			zap.String("type", string(t)),
			zap.Error(err),
		)
	}
}
