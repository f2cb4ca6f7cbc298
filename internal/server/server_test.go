package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/career-compass/internal/advisor"
	"github.com/jonathan/career-compass/internal/config"
	"github.com/jonathan/career-compass/internal/facade"
	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/server/ratelimit"
	"github.com/jonathan/career-compass/internal/storage"
	"github.com/jonathan/career-compass/internal/types"
)

const testAnalysis = `{"llmResponse": {
	"recommendedRole": "Data Scientist",
	"careerMatchScores": {"data_science": {"score": 88}, "software_development": {"score": 75}},
	"skillAnalysis": {"strengths": ["Statistics"], "areas_to_improve": ["Cloud"], "recommendations": ["Kaggle"]},
	"yourNextSteps": ["Finish a portfolio project"],
	"learningResources": {"data_science": ["Intro to Statistical Learning"]}
}}`

const testSummary = `{"topCareer": {"title": "Data Scientist", "matchScore": 88},
	"skillsAnalysis": {"strengths": ["Statistics"], "gaps": ["Cloud"], "recommendations": ["Kaggle"]},
	"nextSteps": ["Apply to internships"]}`

// stubClient answers by payload and prompt content.
type stubClient struct {
	calls atomic.Int64
	err   error
}

func (c *stubClient) Complete(_ context.Context, systemPrompt string, payload any) (string, error) {
	c.calls.Add(1)
	if c.err != nil {
		return "", c.err
	}
	if text, ok := payload.(string); ok {
		if strings.HasPrefix(text, "Generate job listings") {
			return `[{"id": "1", "title": "Analyst", "company": "Acme", "url": "https://jobs.example/1"}]`, nil
		}
		return "Start with SQL.", nil
	}
	if strings.Contains(systemPrompt, "topCareer") {
		return testSummary, nil
	}
	return testAnalysis, nil
}

func (c *stubClient) Model() string { return "stub" }
func (c *stubClient) Close() error  { return nil }

func disabledLimiter() *ratelimit.Limiter {
	return ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
}

func newTestServer(t *testing.T, client llm.Client, opts ...Option) *Server {
	t.Helper()
	adv := advisor.New(client, storage.NewMemory(), nil, nil)
	f := facade.New(adv, nil, facade.DefaultTTLs(), nil)
	opts = append([]Option{WithRateLimiter(disabledLimiter())}, opts...)
	s := New(Config{Port: 0, CORSOrigin: "http://localhost:3000"}, f, nil, opts...)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const validProfile = `{"educationLevel": "master", "interests": ["science"], "skills": {"Technical Skills": 12}, "experience": "mid"}`

func TestHealthAndPing(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET method works!", rec.Body.String())
}

func TestAnalyze(t *testing.T) {
	client := &stubClient{}
	h := newTestServer(t, client).Handler()

	rec := do(t, h, http.MethodPost, "/api", validProfile)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope types.AssessmentEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Data Scientist", envelope.LLMResponse.RecommendedRole)
	assert.Equal(t, 88, envelope.LLMResponse.CareerMatchScores["data_science"].Score)

	// The same profile is served from cache.
	rec = do(t, h, http.MethodPost, "/api", validProfile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, client.calls.Load())
}

func TestAnalyze_RejectsInvalidProfiles(t *testing.T) {
	client := &stubClient{}
	h := newTestServer(t, client).Handler()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "no education", body: `{"interests": ["science"], "skills": {}}`},
		{name: "no interests", body: `{"educationLevel": "phd", "interests": [], "skills": {}}`},
		{name: "skills not an object", body: `{"educationLevel": "phd", "interests": ["science"], "skills": [1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.False(t, body.Retryable)
		})
	}
	assert.Zero(t, client.calls.Load())
}

func TestSubmitAssessment_FailureIsRetryable(t *testing.T) {
	h := newTestServer(t, &stubClient{err: llm.ErrRemoteCallFailed}).Handler()

	rec := do(t, h, http.MethodPost, "/api/assessments", validProfile)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, advisor.SubmissionFailedMessage, body.Error)
	assert.True(t, body.Retryable)
}

func TestAssessmentLifecycle(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	owner := []string{middleware.ClientIDHeader, "client-1"}

	rec := do(t, h, http.MethodPost, "/api/assessments", validProfile, owner...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp types.AssessmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.AssessmentID)

	rec = do(t, h, http.MethodGet, "/api/assessments/history", "", owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []types.AssessmentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, 10, history[0].Data.Skills["Technical Skills"])

	// Another client sees nothing.
	rec = do(t, h, http.MethodGet, "/api/assessments/history", "", middleware.ClientIDHeader, "client-2")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/dashboard", "", owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(types.SourceReal), rec.Header().Get(ResultSourceHeader))
	var summary types.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "Data Science", summary.TopCareer.Title)

	rec = do(t, h, http.MethodDelete, "/api/assessments", "", owner...)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Retaking clears the last assessment but keeps history.
	rec = do(t, h, http.MethodGet, "/api/assessments/history", "", owner...)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 1)

	rec = do(t, h, http.MethodGet, "/api/dashboard", "", owner...)
	assert.Equal(t, string(types.SourceFallback), rec.Header().Get(ResultSourceHeader))
}

func TestDraft(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()

	rec := do(t, h, http.MethodGet, "/api/assessments/draft", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"draft": null}`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/api/assessments/draft", `{"educationLevel": "phd"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/assessments/draft", "")
	var draft DraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	require.NotNil(t, draft.Draft)
	assert.Equal(t, "phd", draft.Draft.EducationLevel)
}

func TestJobListings(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()

	rec := do(t, h, http.MethodGet, "/api/job/Data%20Analyst", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(types.SourceReal), rec.Header().Get(ResultSourceHeader))

	var listings []types.JobListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "Analyst", listings[0].Title)
}

func TestJobListings_FallbackOnModelFailure(t *testing.T) {
	h := newTestServer(t, &stubClient{err: errors.New("offline")}).Handler()

	rec := do(t, h, http.MethodGet, "/api/job/designer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(types.SourceFallback), rec.Header().Get(ResultSourceHeader))
}

func TestChat(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()

	rec := do(t, h, http.MethodPost, "/api/chat", `{"conversationId": "c1", "message": "How do I start?"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var exchange types.ChatExchange
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exchange))
	assert.Equal(t, "c1", exchange.ConversationID)
	assert.Equal(t, "Start with SQL.", exchange.BotMessage.Content)

	rec = do(t, h, http.MethodPost, "/api/chat", `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/chat/history/c1", "")
	var history []types.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.True(t, history[1].Timestamp.After(history[0].Timestamp))

	rec = do(t, h, http.MethodDelete, "/api/chat/history/c1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/chat/history/c1", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCareersAndBookmarks(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()

	rec := do(t, h, http.MethodGet, "/api/recommendations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []types.CareerRecommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	assert.NotEmpty(t, recs)

	rec = do(t, h, http.MethodGet, "/api/careers/data-analyst", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/careers/astronaut", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/careers/ux-designer/resources", "")
	var resources []types.LearningResource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resources))
	assert.NotEmpty(t, resources)

	for _, path := range []string{"/api/careers/ux-designer/save", "/api/careers/ux-designer/save"} {
		rec = do(t, h, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/careers/saved", "")
	assert.JSONEq(t, `{"saved": ["ux-designer"]}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/resources/ux-course-1/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/resources/saved", "")
	assert.JSONEq(t, `{"saved": ["ux-course-1"]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/jobs/saved", "")
	assert.JSONEq(t, `{"saved": []}`, rec.Body.String())
	rec = do(t, h, http.MethodPost, "/api/jobs/job-7/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/jobs/saved", "")
	assert.JSONEq(t, `{"saved": ["job-7"]}`, rec.Body.String())
}

func TestDashboardBundle(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()

	rec := do(t, h, http.MethodGet, "/api/dashboard/bundle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bundle types.DashboardBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
	assert.True(t, bundle.SummaryFallback)
	assert.NotEmpty(t, bundle.Careers)
}

func TestOptionsAndStats(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()

	rec := do(t, h, http.MethodGet, "/api/options", "")
	var options OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Len(t, options.EducationLevels, len(types.EducationLevels))
	assert.Len(t, options.SkillCategories, len(types.SkillCategories))

	do(t, h, http.MethodGet, "/api/job/designer", "")
	do(t, h, http.MethodGet, "/api/job/designer", "")

	rec = do(t, h, http.MethodGet, "/api/cache/stats", "")
	var stats facade.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()

	rec := do(t, h, http.MethodOptions, "/api/chat", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), middleware.ClientIDHeader)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/options", Method: "GET", Limit: 2, Window: time.Minute},
		},
	})
	h := newTestServer(t, &stubClient{}, WithRateLimiter(limiter)).Handler()

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/api/options", "", middleware.ClientIDHeader, "a")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do(t, h, http.MethodGet, "/api/options", "", middleware.ClientIDHeader, "a")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Buckets are per owner.
	rec = do(t, h, http.MethodGet, "/api/options", "", middleware.ClientIDHeader, "b")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health is never limited.
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	}
}

func TestJWTOwner(t *testing.T) {
	jwtCfg, err := (&config.Config{JWTSecret: "server-test-secret-with-at-least-32-bytes"}).JWT()
	require.NoError(t, err)
	service := NewJWTService(jwtCfg)
	h := newTestServer(t, &stubClient{}, WithJWT(service)).Handler()

	rec := do(t, h, http.MethodGet, "/api/careers/saved", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	token, _, err := service.GenerateToken("owner-9")
	require.NoError(t, err)
	auth := []string{"Authorization", "Bearer " + token}

	rec = do(t, h, http.MethodPost, "/api/careers/data-analyst/save", "", auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/careers/saved", "", auth...)
	assert.JSONEq(t, `{"saved": ["data-analyst"]}`, rec.Body.String())
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	adv := advisor.New(&stubClient{}, storage.NewMemory(), nil, nil)
	s := New(Config{}, facade.New(adv, nil, facade.DefaultTTLs(), nil), zap.New(core), WithRateLimiter(disabledLimiter()))
	t.Cleanup(s.Close)

	do(t, s.Handler(), http.MethodGet, "/api/options", "")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/options", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}
