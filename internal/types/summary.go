package types

// Source records whether a result came from the model or from a static fallback.
type Source string

// Source values carried with shaped results and cache entries.
const (
	SourceReal     Source = "real"
	SourceFallback Source = "fallback"
)

// DashboardSummary is the results dashboard header: top career, skills, progress and next steps.
type DashboardSummary struct {
	TopCareer       CareerMatch     `json:"topCareer"`
	SkillsAnalysis  SkillsAnalysis  `json:"skillsAnalysis"`
	ProgressMetrics ProgressMetrics `json:"progressMetrics"`
	NextSteps       []string        `json:"nextSteps"`
}

// SkillsAnalysis lists strengths, gaps and recommendations for the dashboard.
type SkillsAnalysis struct {
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// ProgressMetrics are counters derived from the shaped reply.
type ProgressMetrics struct {
	AssessmentComplete bool `json:"assessmentComplete"`
	ResourcesViewed    int  `json:"resourcesViewed"`
	SkillsImproved     int  `json:"skillsImproved"`
	CareerExplored     int  `json:"careerExplored"`
}

// DashboardBundle is everything the results page loads in one request.
type DashboardBundle struct {
	Summary         DashboardSummary              `json:"summary"`
	Careers         []CareerRecommendation        `json:"careers"`
	Resources       map[string][]LearningResource `json:"resources"`
	SavedResources  []string                      `json:"savedResources"`
	SummaryFallback bool                          `json:"summaryFallback"`
}
