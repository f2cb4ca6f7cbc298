package shaping

import "github.com/jonathan/career-compass/internal/types"

// ChatFallback is the bot reply used when the model cannot be reached or answers empty.
const ChatFallback = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// DashboardFallback returns the static dashboard summary.
func DashboardFallback() types.DashboardSummary {
	return types.DashboardSummary{
		TopCareer: types.CareerMatch{
			Title:      "Software Developer",
			MatchScore: 85,
			Category:   types.CategoryTechnology,
		},
		SkillsAnalysis: types.SkillsAnalysis{
			Strengths:       []string{"Problem Solving", "Technical Skills", "Analytical Thinking"},
			Gaps:            []string{"System Design", "Cloud Platforms", "Communication"},
			Recommendations: []string{"Build a portfolio project", "Learn a cloud platform", "Join a developer community"},
		},
		ProgressMetrics: types.ProgressMetrics{
			AssessmentComplete: true,
			ResourcesViewed:    0,
			SkillsImproved:     3,
			CareerExplored:     1,
		},
		NextSteps: []string{
			"Step 1: Strengthen programming fundamentals",
			"Step 2: Build two small projects",
			"Step 3: Contribute to open source",
			"Step 4: Apply for internships",
		},
	}
}

// AssessmentFallback returns the static analysis used when a reply cannot be shaped.
func AssessmentFallback() types.AssessmentAnalysis {
	return types.AssessmentAnalysis{
		RecommendedRole: "Software Developer",
		CareerMatchScores: map[string]types.CareerScore{
			"software_development": {Score: 85},
		},
		SkillAnalysis: types.SkillAnalysis{
			Strengths:       []string{"Problem Solving"},
			AreasToImprove:  []string{"Communication"},
			Recommendations: []string{"Retake the assessment later for a detailed analysis"},
		},
		YourNextSteps:     []string{"Step 1: Explore the career library"},
		LearningResources: map[string][]string{},
	}
}

// JobsFallback returns two sample listings.
func JobsFallback() []types.JobListing {
	return []types.JobListing{
		{
			ID:                    "sample-1",
			Title:                 "Junior Software Developer at Acme Corp in Bengaluru, India",
			Website:               "www.acme.example",
			URL:                   "https://www.acme.example/careers/junior-software-developer",
			Description:           "Work with a small product team to build and test web features.",
			CreatedAt:             "2025-01-01T00:00:00Z",
			PublishedAt:           "2025-01-01T00:00:00Z",
			EducationRequirements: "Bachelor's degree in Computer Science or equivalent experience.",
		},
		{
			ID:                    "sample-2",
			Title:                 "Associate Data Analyst at Globex in Pune, India",
			Website:               "www.globex.example",
			URL:                   "https://www.globex.example/jobs/associate-data-analyst",
			Description:           "Prepare dashboards and reports that help teams make decisions.",
			CreatedAt:             "2025-01-01T00:00:00Z",
			PublishedAt:           "2025-01-01T00:00:00Z",
			EducationRequirements: "Degree in Statistics, Mathematics or a related field.",
		},
	}
}
