package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/interview-coach/internal/generation"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/types"
)

// SessionResponse is a session snapshot with derived progress
type SessionResponse struct {
	*interview.Session
	QuestionCount   int     `json:"question_count"`
	Progress        float64 `json:"progress"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// QuestionResponse is the question awaiting an answer
type QuestionResponse struct {
	SessionID      string                  `json:"session_id"`
	QuestionIndex  int                     `json:"question_index"`
	TotalQuestions int                     `json:"total_questions"`
	Question       types.GeneratedQuestion `json:"question"`
}

// AnswerResponse is returned for every accepted answer
type AnswerResponse struct {
	SessionID     string                   `json:"session_id"`
	QuestionIndex int                      `json:"question_index"`
	Evaluation    types.AnswerEvaluation   `json:"evaluation"`
	Tier          generation.TierName      `json:"tier"`
	Status        interview.Status         `json:"status"`
	Progress      float64                  `json:"progress"`
	NextQuestion  *types.GeneratedQuestion `json:"next_question,omitempty"`
	Results       *ResultsResponse         `json:"results,omitempty"`
}

// AnswerResult pairs a question with the candidate's answer
type AnswerResult struct {
	Index      int                    `json:"index"`
	Question   string                 `json:"question"`
	Answer     string                 `json:"answer"`
	Evaluation types.AnswerEvaluation `json:"evaluation"`
}

// ResultsResponse is the report for a completed session
type ResultsResponse struct {
	SessionID       string                 `json:"session_id"`
	RoleTitle       string                 `json:"role_title,omitempty"`
	Scores          *types.AggregateScores `json:"scores"`
	Feedback        *types.FinalFeedback   `json:"feedback"`
	Answers         []AnswerResult         `json:"answers"`
	PassingScore    float64                `json:"passing_score"`
	DurationMinutes float64                `json:"duration_minutes"`
}

func newSessionResponse(s *interview.Session, now time.Time) *SessionResponse {
	return &SessionResponse{
		Session:         s,
		QuestionCount:   len(s.Questions),
		Progress:        s.Progress(),
		DurationMinutes: minutes(s.Duration(now)),
	}
}

func newResultsResponse(s *interview.Session, now time.Time) *ResultsResponse {
	answers := make([]AnswerResult, len(s.Answers))
	for i, a := range s.Answers {
		answers[i] = AnswerResult{
			Index:      a.Index,
			Question:   s.Questions[a.Index].Question,
			Answer:     a.Text,
			Evaluation: a.Evaluation,
		}
	}
	return &ResultsResponse{
		SessionID:       s.ID,
		RoleTitle:       s.RoleTitle,
		Scores:          s.Scores,
		Feedback:        s.Feedback,
		Answers:         answers,
		PassingScore:    scoring.PassingScore,
		DurationMinutes: minutes(s.Duration(now)),
	}
}

func minutes(d time.Duration) float64 {
	return scoring.Round1(d.Minutes())
}

// ListInterviewsResponse is the response for GET /interviews
type ListInterviewsResponse struct {
	Sessions []interview.Summary `json:"sessions"`
	Count    int                 `json:"count"`
	Limit    int                 `json:"limit"`
}

// InterviewStatsResponse is the response for GET /interviews/stats
type InterviewStatsResponse struct {
	Counts map[interview.Status]int64 `json:"counts"`
	Total  int64                      `json:"total"`
}

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleListInterviews lists recent sessions, newest first
func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	status := interview.Status(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		s.writeError(w, r, &ErrValidation{Field: "status", Message: "unknown status " + strconv.Quote(string(status))})
		return
	}
	limit := parseQueryInt(r, "limit", interview.DefaultListLimit, 100)

	sessions, err := s.manager.ListSessions(r.Context(), status, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ListInterviewsResponse{
		Sessions: sessions,
		Count:    len(sessions),
		Limit:    limit,
	})
}

// handleInterviewStats returns session counts per status
func (s *Server) handleInterviewStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.manager.CountByStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	s.jsonResponse(w, http.StatusOK, InterviewStatsResponse{Counts: counts, Total: total})
}

// handleCreateInterview generates questions and creates a pending session
func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req types.CreateInterviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	jobDescription := req.JobDescription
	if jobDescription == "" && req.JobURL != "" {
		doc, err := ingestion.FetchJobPosting(r.Context(), req.JobURL, s.fetch)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		jobDescription = doc.Text
	}

	session, err := s.manager.CreateSession(r.Context(), interview.CreateRequest{
		JobDescription:  jobDescription,
		RoleTitle:       req.RoleTitle,
		RequiredSkills:  req.RequiredSkills,
		CandidateSkills: req.CandidateSkills,
		Count:           req.QuestionCount,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Start {
		if session, err = s.manager.Start(r.Context(), session.ID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusCreated, newSessionResponse(session, s.now()))
}

// handleGetInterview returns a session snapshot
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(session, s.now()))
}

// handleDeleteInterview removes a session
func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStartInterview moves a pending session to in progress
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(session, s.now()))
}

// handleAbandonInterview abandons a pending or running session
func (s *Server) handleAbandonInterview(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.Abandon(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(session, s.now()))
}

// handleCurrentQuestion returns the question awaiting an answer
func (s *Server) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, err := s.manager.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q, ok := session.CurrentQuestion()
	if !ok {
		s.errorResponse(w, http.StatusConflict, "all questions have been answered")
		return
	}
	s.jsonResponse(w, http.StatusOK, QuestionResponse{
		SessionID:      id,
		QuestionIndex:  session.CurrentIndex,
		TotalQuestions: len(session.Questions),
		Question:       q,
	})
}

// handleSubmitAnswer evaluates an answer; the last answer also returns the results
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitAnswerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.manager.SubmitAnswer(r.Context(), r.PathValue("id"), *req.QuestionIndex, req.Answer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	session := result.Session
	resp := AnswerResponse{
		SessionID:     session.ID,
		QuestionIndex: *req.QuestionIndex,
		Evaluation:    result.Evaluation,
		Tier:          result.Tier,
		Status:        session.Status,
		Progress:      session.Progress(),
	}
	if next, ok := session.CurrentQuestion(); ok {
		resp.NextQuestion = &next
	}
	if session.Status == interview.StatusCompleted {
		resp.Results = newResultsResponse(session, s.now())
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleResults returns scores and feedback for a completed session
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if session.Status != interview.StatusCompleted {
		s.writeError(w, r, &interview.InvalidTransitionError{Operation: "report results for", From: session.Status})
		return
	}
	s.jsonResponse(w, http.StatusOK, newResultsResponse(session, s.now()))
}
