package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/generation"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
	"github.com/jonathan/interview-coach/internal/types"
)

func createInterview(t *testing.T, h http.Handler, body map[string]any) SessionResponse {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/interviews", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[SessionResponse](t, rec)
}

func TestInterviewFlow(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	h := s.Handler()

	created := createInterview(t, h, map[string]any{
		"role_title":       "Backend Engineer",
		"job_description":  "Build event-driven services in Go.",
		"required_skills":  []string{"Go", "Kafka"},
		"candidate_skills": []string{"go"},
		"question_count":   3,
	})
	require.NotNil(t, created.Session)
	id := created.ID
	assert.Equal(t, interview.StatusPending, created.Status)
	assert.Equal(t, 3, created.QuestionCount)
	assert.Equal(t, "Backend Engineer", created.RoleTitle)
	require.NotNil(t, created.JobMatch)
	assert.Equal(t, 0.5, *created.JobMatch)

	rec := doJSON(t, h, http.MethodPost, "/interviews/"+id+"/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, interview.StatusInProgress, decode[SessionResponse](t, rec).Status)

	rec = doJSON(t, h, http.MethodGet, "/interviews/"+id+"/results", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	for i := 0; i < 3; i++ {
		rec = doJSON(t, h, http.MethodGet, "/interviews/"+id+"/question", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		q := decode[QuestionResponse](t, rec)
		assert.Equal(t, i, q.QuestionIndex)
		assert.Equal(t, 3, q.TotalQuestions)
		assert.NotEmpty(t, q.Question.Question)

		rec = doJSON(t, h, http.MethodPost, "/interviews/"+id+"/answers", map[string]any{
			"question_index": i,
			"answer":         "I designed the consumer group and measured lag.",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		ans := decode[AnswerResponse](t, rec)
		assert.Equal(t, i, ans.QuestionIndex)
		assert.Equal(t, 7.0, ans.Evaluation.OverallScore)
		assert.Equal(t, generation.TierStatic, ans.Tier)

		if i < 2 {
			assert.Equal(t, interview.StatusInProgress, ans.Status)
			assert.NotNil(t, ans.NextQuestion)
			assert.Nil(t, ans.Results)
		} else {
			assert.Equal(t, interview.StatusCompleted, ans.Status)
			assert.Equal(t, 100.0, ans.Progress)
			assert.Nil(t, ans.NextQuestion)
			require.NotNil(t, ans.Results)
			assert.Equal(t, 64.0, ans.Results.Scores.WeightedOverall)
		}
	}

	rec = doJSON(t, h, http.MethodGet, "/interviews/"+id+"/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[ResultsResponse](t, rec)
	assert.Equal(t, id, results.SessionID)
	require.NotNil(t, results.Scores)
	assert.Equal(t, 70.0, results.Scores.Technical)
	assert.Equal(t, 64.0, results.Scores.WeightedOverall)
	assert.Equal(t, types.LevelFair, results.Scores.PerformanceLevel)
	assert.False(t, results.Scores.Passing)
	assert.Equal(t, 70.0, results.PassingScore)
	require.NotNil(t, results.Feedback)
	assert.NotEmpty(t, results.Feedback.OverallPerformance)
	require.Len(t, results.Answers, 3)
	assert.Equal(t, "I designed the consumer group and measured lag.", results.Answers[2].Answer)

	rec = doJSON(t, h, http.MethodGet, "/interviews/"+id+"/question", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/interviews/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[SessionResponse](t, rec)
	assert.Equal(t, interview.StatusCompleted, snapshot.Status)
	assert.Len(t, snapshot.Answers, 3)
}

func TestCreateInterview_StartImmediately(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)

	created := createInterview(t, s.Handler(), map[string]any{"role_title": "SRE", "start": true})
	assert.Equal(t, interview.StatusInProgress, created.Status)
	assert.Equal(t, generation.DefaultQuestions, created.QuestionCount)
	assert.Nil(t, created.JobMatch)
}

func TestCreateInterview_ClampsQuestionCount(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)

	for count, want := range map[int]int{-3: 1, 1: 1, 25: 10} {
		created := createInterview(t, s.Handler(), map[string]any{"role_title": "SRE", "question_count": count})
		assert.Equal(t, want, created.QuestionCount, "count %d", count)
	}
}

func TestCreateInterview_Validation(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)

	tests := []struct {
		name string
		body any
	}{
		{"invalid json", `{"role_title": `},
		{"no context", map[string]any{"question_count": 3}},
		{"bad url", map[string]any{"job_url": "not a url"}},
		{"empty skill", map[string]any{"role_title": "SRE", "required_skills": []string{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s.Handler(), http.MethodPost, "/interviews", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateInterview_FetchesJobURL(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><main><h1>Platform Engineer</h1><ul><li>Terraform</li></ul></main></body></html>`)
	}))
	defer posting.Close()

	// the posting is served on loopback
	s, _ := newTestServer(t, Config{Fetch: &ingestion.FetchOptions{Timeout: 5 * time.Second}}, nil)

	created := createInterview(t, s.Handler(), map[string]any{"job_url": posting.URL + "/jobs/1"})
	assert.Equal(t, interview.StatusPending, created.Status)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/interviews", map[string]any{"job_url": posting.URL + "/gone"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCreateInterview_RejectsPrivateJobURL(t *testing.T) {
	var hits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "<html><body>admin</body></html>")
	}))
	defer internal.Close()

	s, _ := newTestServer(t, Config{}, nil)

	for _, target := range []string{internal.URL + "/", "http://169.254.169.254/latest/meta-data/", "http://localhost:6379/"} {
		rec := doJSON(t, s.Handler(), http.MethodPost, "/interviews", map[string]any{"job_url": target})
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Zero(t, hits.Load())
}

func TestInterview_NotFound(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	h := s.Handler()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/interviews/missing"},
		{http.MethodDelete, "/interviews/missing"},
		{http.MethodPost, "/interviews/missing/start"},
		{http.MethodPost, "/interviews/missing/abandon"},
		{http.MethodGet, "/interviews/missing/question"},
		{http.MethodGet, "/interviews/missing/results"},
	} {
		rec := doJSON(t, h, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := doJSON(t, h, http.MethodPost, "/interviews/missing/answers", map[string]any{"question_index": 0, "answer": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAnswer_Conflicts(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	h := s.Handler()
	id := createInterview(t, h, map[string]any{"role_title": "SRE", "question_count": 2}).ID

	// pending sessions do not accept answers
	rec := doJSON(t, h, http.MethodPost, "/interviews/"+id+"/answers", map[string]any{"question_index": 0, "answer": "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending")

	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/interviews/"+id+"/start", nil).Code)

	rec = doJSON(t, h, http.MethodPost, "/interviews/"+id+"/answers", map[string]any{"question_index": 1, "answer": "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "expected 0")

	rec = doJSON(t, h, http.MethodPost, "/interviews/"+id+"/answers", map[string]any{"answer": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/interviews/"+id+"/answers", map[string]any{"question_index": -1, "answer": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/interviews/"+id, nil)
	assert.Empty(t, decode[SessionResponse](t, rec).Answers)
}

func TestSubmitAnswer_BlankAnswerScoresZero(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	h := s.Handler()
	id := createInterview(t, h, map[string]any{"role_title": "SRE", "question_count": 1, "start": true}).ID

	rec := doJSON(t, h, http.MethodPost, "/interviews/"+id+"/answers", map[string]any{"question_index": 0, "answer": "   "})
	require.Equal(t, http.StatusOK, rec.Code)
	ans := decode[AnswerResponse](t, rec)
	assert.Zero(t, ans.Evaluation.OverallScore)
	assert.Equal(t, interview.StatusCompleted, ans.Status)
}

func TestAbandonInterview(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	h := s.Handler()
	id := createInterview(t, h, map[string]any{"role_title": "SRE"}).ID

	rec := doJSON(t, h, http.MethodPost, "/interviews/"+id+"/abandon", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, interview.StatusAbandoned, decode[SessionResponse](t, rec).Status)

	assert.Equal(t, http.StatusConflict, doJSON(t, h, http.MethodPost, "/interviews/"+id+"/start", nil).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, h, http.MethodPost, "/interviews/"+id+"/abandon", nil).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, h, http.MethodGet, "/interviews/"+id+"/results", nil).Code)
}

func TestDeleteInterview(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	h := s.Handler()
	id := createInterview(t, h, map[string]any{"role_title": "SRE"}).ID

	rec := doJSON(t, h, http.MethodDelete, "/interviews/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodGet, "/interviews/"+id, nil).Code)
}

func TestListInterviews(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	h := s.Handler()
	createInterview(t, h, map[string]any{"role_title": "SRE"})
	started := createInterview(t, h, map[string]any{"role_title": "Backend", "start": true})

	rec := doJSON(t, h, http.MethodGet, "/interviews", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[ListInterviewsResponse](t, rec)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, interview.DefaultListLimit, list.Limit)

	rec = doJSON(t, h, http.MethodGet, "/interviews?status=in_progress&limit=500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode[ListInterviewsResponse](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, started.ID, list.Sessions[0].ID)
	assert.Equal(t, "Backend", list.Sessions[0].RoleTitle)
	assert.Equal(t, 100, list.Limit)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodGet, "/interviews?status=finished", nil).Code)
}

func TestInterviewStats(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	h := s.Handler()
	createInterview(t, h, map[string]any{"role_title": "SRE"})
	createInterview(t, h, map[string]any{"role_title": "SRE"})
	createInterview(t, h, map[string]any{"role_title": "Backend", "start": true})

	rec := doJSON(t, h, http.MethodGet, "/interviews/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode[InterviewStatsResponse](t, rec)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Counts[interview.StatusPending])
	assert.Equal(t, int64(1), stats.Counts[interview.StatusInProgress])
}

// storeOnly hides the listing methods of the wrapped store
type storeOnly struct{ interview.Store }

func TestListInterviews_Unsupported(t *testing.T) {
	cascade := generation.NewCascade(nil, generation.Options{Budget: -1}, nil)
	mgr := interview.NewManager(cascade, storeOnly{interview.NewMemoryStore()}, nil)
	s := New(Config{RateLimit: &ratelimit.Config{Enabled: false}}, mgr, nil)
	t.Cleanup(s.rateLimiter.Stop)
	h := s.Handler()

	assert.Equal(t, http.StatusNotImplemented, doJSON(t, h, http.MethodGet, "/interviews", nil).Code)
	assert.Equal(t, http.StatusNotImplemented, doJSON(t, h, http.MethodGet, "/interviews/stats", nil).Code)
}
