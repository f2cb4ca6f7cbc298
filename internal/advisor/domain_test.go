package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/shaping"
	"github.com/jonathan/career-compass/internal/storage"
	"github.com/jonathan/career-compass/internal/types"
)

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{replies: []string{"Course Title: Data Science\n1. Introduction:"}}
	a, _ := newTestAdvisor(client)

	exchange, err := a.SendMessage(ctx, "owner", "", "  How do I become a data scientist?  ")
	require.NoError(t, err)

	assert.Equal(t, "default", exchange.ConversationID)
	assert.Equal(t, types.MessageUser, exchange.UserMessage.Type)
	assert.Equal(t, "How do I become a data scientist?", exchange.UserMessage.Content)
	assert.Equal(t, types.MessageBot, exchange.BotMessage.Type)
	assert.Equal(t, "Course Title: Data Science\n1. Introduction:", exchange.BotMessage.Content)
	assert.True(t, exchange.BotMessage.Timestamp.After(exchange.UserMessage.Timestamp),
		"a frozen clock still yields increasing timestamps")
	assert.Equal(t, "How do I become a data scientist?", client.payloads[0], "chat text is sent verbatim")

	history, err := a.ChatHistory(ctx, "owner", "default")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, exchange.UserMessage.ID, history[0].ID)
	assert.Equal(t, exchange.BotMessage.ID, history[1].ID)
}

func TestSendMessage_ConcurrentMessagesAreKept(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{replies: []string{"Start with SQL."}, delay: 10 * time.Millisecond}
	a := New(client, storage.NewMemory(), nil, nil)

	const senders = 20
	var wg sync.WaitGroup
	for i := range senders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.SendMessage(ctx, "u1", "c1", fmt.Sprintf("question %d", i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := a.ChatHistory(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Len(t, history, 2*senders)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, types.MessageUser, history[i].Type)
		assert.Equal(t, types.MessageBot, history[i+1].Type)
	}
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i].Timestamp.After(history[i-1].Timestamp))
	}
	assert.Zero(t, a.locks.Len())
}

func TestSaveCareerInterest_Concurrent(t *testing.T) {
	ctx := context.Background()
	a := New(&fakeClient{}, storage.NewMemory(), nil, nil)

	const savers = 20
	var wg sync.WaitGroup
	for i := range savers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.SaveCareerInterest(ctx, "owner", fmt.Sprintf("career-%d", i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	saved, err := a.SavedCareers(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, saved, savers)
}

func TestSendMessage_TransportErrorBecomesApology(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdvisor(&fakeClient{err: llm.ErrRemoteCallFailed})

	exchange, err := a.SendMessage(ctx, "owner", "career-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, shaping.ChatFallback, exchange.BotMessage.Content)
	assert.Equal(t, string(types.SourceFallback), exchange.BotMessage.Metadata["source"])

	history, err := a.ChatHistory(ctx, "owner", "career-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSendMessage_ConversationsAreSeparate(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdvisor(&fakeClient{replies: []string{"ok"}})

	_, err := a.SendMessage(ctx, "owner", "a", "first")
	require.NoError(t, err)
	_, err = a.SendMessage(ctx, "owner", "a", "second")
	require.NoError(t, err)
	_, err = a.SendMessage(ctx, "owner", "b", "other")
	require.NoError(t, err)

	historyA, err := a.ChatHistory(ctx, "owner", "a")
	require.NoError(t, err)
	require.Len(t, historyA, 4)
	for i := 1; i < len(historyA); i++ {
		assert.True(t, historyA[i].Timestamp.After(historyA[i-1].Timestamp))
	}

	require.NoError(t, a.ClearChatHistory(ctx, "owner", "a"))
	historyA, err = a.ChatHistory(ctx, "owner", "a")
	require.NoError(t, err)
	assert.Empty(t, historyA)

	historyB, err := a.ChatHistory(ctx, "owner", "b")
	require.NoError(t, err)
	assert.Len(t, historyB, 2)
}

func TestSendMessage_EmptyText(t *testing.T) {
	a, _ := newTestAdvisor(&fakeClient{})
	_, err := a.SendMessage(context.Background(), "owner", "", "   ")

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestJobListings(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{replies: []string{`[{"id": "1", "title": "Data Analyst at Initech", "url": "https://initech.example/1"}]`}}
	a, _ := newTestAdvisor(client)

	result, err := a.JobListings(ctx, " Data Analyst ")
	require.NoError(t, err)
	assert.False(t, result.IsFallback())
	require.Len(t, result.Value, 1)
	assert.Contains(t, client.prompts[0], `for the role "Data Analyst"`)
	assert.Contains(t, client.prompts[0], "Generate 5 realistic")
}

func TestJobListings_Fallback(t *testing.T) {
	a, _ := newTestAdvisor(&fakeClient{err: llm.ErrRemoteCallFailed})

	result, err := a.JobListings(context.Background(), "Nurse")
	require.NoError(t, err)
	assert.True(t, result.IsFallback())
	assert.ErrorIs(t, result.Err, llm.ErrRemoteCallFailed)
	assert.Equal(t, shaping.JobsFallback(), result.Value)

	_, err = a.JobListings(context.Background(), " ")
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestSavedJobs(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdvisor(&fakeClient{})

	_, err := a.SaveJob(ctx, "owner", "job-1")
	require.NoError(t, err)
	saved, err := a.SaveJob(ctx, "owner", "job-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"job-1"}, saved)

	saved, err = a.SavedJobs(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestDashboardSummary_NoAssessment(t *testing.T) {
	client := &fakeClient{}
	a, _ := newTestAdvisor(client)

	result, err := a.DashboardSummary(context.Background(), "owner")
	require.NoError(t, err)
	assert.True(t, result.IsFallback())
	assert.ErrorIs(t, result.Err, ErrNoAssessment)
	assert.Equal(t, "Software Developer", result.Value.TopCareer.Title)
	assert.Equal(t, 0, client.calls)
}

func TestDashboardSummary_PostProcessing(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{replies: []string{
		analysisReply,
		`{"topCareer": {"title": "Software Developer", "matchScore": 70},
		  "skillsAnalysis": {"strengths": ["Creativity"], "gaps": ["Prototyping"], "recommendations": ["Learn Figma"]},
		  "nextSteps": ["Build a case study"]}`,
	}}
	a, _ := newTestAdvisor(client)
	_, err := a.SubmitAssessment(ctx, "owner", validProfile())
	require.NoError(t, err)

	result, err := a.DashboardSummary(ctx, "owner")
	require.NoError(t, err)
	require.False(t, result.IsFallback(), "err: %v", result.Err)

	summary := result.Value
	assert.Equal(t, types.CareerMatch{Title: "UX UI Design", MatchScore: 92, Category: types.CategoryDesign}, summary.TopCareer)
	assert.Equal(t, types.ProgressMetrics{
		AssessmentComplete: true,
		ResourcesViewed:    3,
		SkillsImproved:     3,
		CareerExplored:     3,
	}, summary.ProgressMetrics)
	assert.Equal(t, []string{"Build a case study"}, summary.NextSteps)

	_, isAnalysis := client.payloads[1].(*types.AssessmentAnalysis)
	assert.True(t, isAnalysis, "the summary prompt receives the stored analysis")
}

func TestDashboardSummary_UnshapeableIsAllFallback(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{replies: []string{analysisReply, "not json at all"}}
	a, _ := newTestAdvisor(client)
	_, err := a.SubmitAssessment(ctx, "owner", validProfile())
	require.NoError(t, err)

	result, err := a.DashboardSummary(ctx, "owner")
	require.NoError(t, err)
	assert.True(t, result.IsFallback())
	assert.Equal(t, shaping.DashboardFallback(), result.Value, "never merged with real data")
}

func TestSummarize_TopCareer(t *testing.T) {
	summary := types.DashboardSummary{SkillsAnalysis: types.SkillsAnalysis{Strengths: []string{"a", "b"}}}
	analysis := &types.AssessmentAnalysis{
		CareerMatchScores: map[string]types.CareerScore{"A": {Score: 70}, "B": {Score: 92}, "C": {Score: 50}},
		LearningResources: map[string][]string{"A": {"x"}, "B": {"y", "z"}, "C": {}},
	}

	Summarize(&summary, analysis)

	assert.Equal(t, "B", summary.TopCareer.Title)
	assert.Equal(t, 92, summary.TopCareer.MatchScore)
	assert.Equal(t, types.CategoryGeneral, summary.TopCareer.Category)
	assert.Equal(t, 3, summary.ProgressMetrics.ResourcesViewed)
	assert.Equal(t, 3, summary.ProgressMetrics.CareerExplored)
	assert.Equal(t, 2, summary.ProgressMetrics.SkillsImproved, "falls back to the summary's strengths")
}

func TestPersonalize(t *testing.T) {
	recs := Personalize([]string{"technology"}, map[string]int{"Python scripting": 7, "SQL": 6, "React": 5})

	byID := make(map[string]types.CareerRecommendation, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
	}
	assert.Equal(t, 92, byID["ux-designer"].MatchScore)
	assert.Equal(t, 88+5+2, byID["frontend-developer"].MatchScore)
	assert.Equal(t, 82+5+4, byID["data-analyst"].MatchScore)
	assert.Equal(t, 85, byID["product-manager"].MatchScore)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].MatchScore, recs[i].MatchScore)
	}
}

func TestPersonalize_CapsAt100(t *testing.T) {
	recs := Personalize([]string{"design"}, map[string]int{
		"Design Thinking": 9, "Prototyping": 9, "User Research": 9, "Figma": 9,
	})
	assert.Equal(t, "ux-designer", recs[0].ID)
	assert.Equal(t, 100, recs[0].MatchScore)
}

func TestCareerDetailsAndSaved(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdvisor(&fakeClient{})
	require.NoError(t, a.SaveDraft(ctx, "owner", types.AssessmentProfile{Interests: []string{"business"}}))

	career, err := a.CareerDetails(ctx, "owner", "product-manager")
	require.NoError(t, err)
	assert.Equal(t, 88, career.MatchScore, "draft interests apply before any submission")

	_, err = a.CareerDetails(ctx, "owner", "astronaut")
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))

	_, err = a.SaveCareerInterest(ctx, "owner", "product-manager")
	require.NoError(t, err)
	saved, err := a.SavedCareers(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"product-manager"}, saved)
}

func TestCareerResources(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdvisor(&fakeClient{})

	resources := a.CareerResources("ux-designer")
	require.Len(t, resources, 3)
	resources[0].Title = "mutated"
	assert.NotEqual(t, "mutated", a.CareerResources("ux-designer")[0].Title)

	assert.NotNil(t, a.CareerResources("unknown"))
	assert.Empty(t, a.CareerResources("unknown"))

	_, err := a.SaveResource(ctx, "owner", "ux-course-1")
	require.NoError(t, err)
	saved, err := a.SavedResources(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"ux-course-1"}, saved)
}
