package advisor

import (
	"context"
	"errors"

	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/prompts"
	"github.com/jonathan/career-compass/internal/shaping"
	"github.com/jonathan/career-compass/internal/types"
)

// ErrNoAssessment is the fallback reason when an owner has not completed an assessment.
var ErrNoAssessment = errors.New("no completed assessment")

// DashboardSummary summarizes the last assessment for the results dashboard.
// The result is either entirely from the model or entirely the fallback.
func (a *Advisor) DashboardSummary(ctx context.Context, owner string) (shaping.Shaped[types.DashboardSummary], error) {
	record, err := a.LastAssessment(ctx, owner)
	if err != nil {
		return dashboardFallback(err), nil
	}
	if record == nil || record.Response.Analysis == nil {
		return dashboardFallback(ErrNoAssessment), nil
	}

	prompt, err := systemPrompt(prompts.KeySummary, nil, schemaRef(llm.DashboardSummarySchema()))
	if err != nil {
		return dashboardFallback(err), nil
	}

	raw, err := a.complete(ctx, shaping.DomainDashboard, prompt, record.Response.Analysis)
	if err != nil {
		return dashboardFallback(err), nil
	}

	shaped := a.shaper.Dashboard(raw)
	if shaped.IsFallback() {
		return shaped, nil
	}
	Summarize(&shaped.Value, record.Response.Analysis)
	return shaped, nil
}

// Summarize overwrites the model's top career and progress counters with values
// derived from the analysis: the highest-scoring career, the number of learning
// resources, the number of scored careers and the number of strengths.
func Summarize(summary *types.DashboardSummary, analysis *types.AssessmentAnalysis) {
	if key, score, ok := shaping.TopScore(analysis.CareerMatchScores); ok {
		title := types.HumanizeCareerKey(key)
		summary.TopCareer = types.CareerMatch{
			Title:      title,
			MatchScore: types.ClampMatchScore(score),
			Category:   types.CategoryFor(title),
		}
	}

	resources := 0
	for _, list := range analysis.LearningResources {
		resources += len(list)
	}

	strengths := len(analysis.SkillAnalysis.Strengths)
	if strengths == 0 {
		strengths = len(summary.SkillsAnalysis.Strengths)
	}

	summary.ProgressMetrics = types.ProgressMetrics{
		AssessmentComplete: true,
		ResourcesViewed:    resources,
		SkillsImproved:     strengths,
		CareerExplored:     len(analysis.CareerMatchScores),
	}
}

func dashboardFallback(err error) shaping.Shaped[types.DashboardSummary] {
	return shaping.Shaped[types.DashboardSummary]{
		Value:  shaping.DashboardFallback(),
		Source: types.SourceFallback,
		Err:    err,
	}
}
