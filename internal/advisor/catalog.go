package advisor

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/jonathan/career-compass/internal/storage"
	"github.com/jonathan/career-compass/internal/types"
)

// Interest boosts applied to catalog scores.
const (
	interestBoost         = 5
	businessInterestBoost = 3
	skillOverlapBoost     = 2
)

var careerCatalog = []types.CareerRecommendation{
	{
		ID:             "ux-designer",
		Title:          "UX Designer",
		Description:    "Create intuitive and engaging user experiences for digital products",
		MatchScore:     92,
		RequiredSkills: []string{"Design Thinking", "Prototyping", "User Research", "Figma"},
		SalaryRange:    "$65k - $120k",
		GrowthRate:     "13%",
		Category:       types.CategoryDesign,
	},
	{
		ID:             "frontend-developer",
		Title:          "Frontend Developer",
		Description:    "Build responsive and interactive web applications",
		MatchScore:     88,
		RequiredSkills: []string{"JavaScript", "React", "CSS", "HTML"},
		SalaryRange:    "$70k - $130k",
		GrowthRate:     "22%",
		Category:       types.CategoryTechnology,
	},
	{
		ID:             "product-manager",
		Title:          "Product Manager",
		Description:    "Guide product development from conception to launch",
		MatchScore:     85,
		RequiredSkills: []string{"Strategy", "Analytics", "Communication", "Leadership"},
		SalaryRange:    "$90k - $160k",
		GrowthRate:     "19%",
		Category:       types.CategoryBusiness,
	},
	{
		ID:             "data-analyst",
		Title:          "Data Analyst",
		Description:    "Transform data into actionable business insights",
		MatchScore:     82,
		RequiredSkills: []string{"SQL", "Python", "Statistics", "Visualization"},
		SalaryRange:    "$60k - $110k",
		GrowthRate:     "25%",
		Category:       types.CategoryTechnology,
	},
	{
		ID:             "marketing-specialist",
		Title:          "Digital Marketing Specialist",
		Description:    "Drive brand awareness and customer engagement through digital channels",
		MatchScore:     78,
		RequiredSkills: []string{"SEO", "Content Marketing", "Analytics", "Social Media"},
		SalaryRange:    "$45k - $85k",
		GrowthRate:     "10%",
		Category:       "Marketing",
	},
}

var resourceCatalog = map[string][]types.LearningResource{
	"ux-designer": {
		{ID: "ux-course-1", Title: "Complete UX Design Bootcamp", Provider: "Coursera", Type: "course", Duration: "6 weeks", Rating: 4.8, URL: "https://www.coursera.org/", Thumbnail: "/ux-design-course.png", Price: "$49/month"},
		{ID: "design-thinking-1", Title: "Design Thinking Fundamentals", Provider: "YouTube", Type: "video", Duration: "2 hours", Rating: 4.6, URL: "https://www.youtube.com/", Thumbnail: "/design-thinking-video.jpg", Price: "Free"},
		{ID: "figma-cert-1", Title: "Figma Professional Certification", Provider: "Udemy", Type: "certification", Duration: "4 weeks", Rating: 4.7, URL: "https://www.udemy.com/", Thumbnail: "/figma-certification.jpg", Price: "$89.99"},
	},
	"frontend-developer": {
		{ID: "frontend-roadmap-1", Title: "Frontend Developer Roadmap", Provider: "roadmap.sh", Type: "article", Duration: "Self-paced", Rating: 4.8, URL: "https://roadmap.sh/frontend", Thumbnail: "/frontend-roadmap.png", Price: "Free"},
		{ID: "react-course-1", Title: "React - The Complete Guide", Provider: "Udemy", Type: "course", Duration: "48 hours", Rating: 4.7, URL: "https://www.udemy.com/", Thumbnail: "/react-course.png", Price: "$84.99"},
	},
	"product-manager": {
		{ID: "pm-course-1", Title: "Digital Product Management", Provider: "Coursera", Type: "course", Duration: "5 weeks", Rating: 4.6, URL: "https://www.coursera.org/", Thumbnail: "/product-management.png", Price: "$49/month"},
		{ID: "pm-article-1", Title: "What Does a Product Manager Do?", Provider: "GeeksforGeeks", Type: "article", Duration: "15 minutes", Rating: 4.3, URL: "https://www.geeksforgeeks.org/", Thumbnail: "/pm-article.png", Price: "Free"},
	},
	"data-analyst": {
		{ID: "data-cert-1", Title: "Google Data Analytics Certificate", Provider: "Coursera", Type: "certification", Duration: "6 months", Rating: 4.8, URL: "https://www.coursera.org/", Thumbnail: "/data-analytics.png", Price: "$49/month"},
		{ID: "sql-course-1", Title: "SQL Tutorial", Provider: "W3Schools", Type: "course", Duration: "Self-paced", Rating: 4.5, URL: "https://www.w3schools.com/sql/", Thumbnail: "/sql-tutorial.png", Price: "Free"},
	},
	"marketing-specialist": {
		{ID: "marketing-cert-1", Title: "Fundamentals of Digital Marketing", Provider: "Google", Type: "certification", Duration: "40 hours", Rating: 4.7, URL: "https://skillshop.withgoogle.com/", Thumbnail: "/digital-marketing.png", Price: "Free"},
	},
}

// profileForScoring prefers the last submitted answers and falls back to the draft.
func (a *Advisor) profileForScoring(ctx context.Context, owner string) ([]string, map[string]int, error) {
	record, err := a.LastAssessment(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	if record != nil {
		return record.Data.Interests, record.Data.Skills, nil
	}

	draft, err := a.LoadDraft(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	if draft != nil {
		return draft.Interests, draft.Skills, nil
	}
	return nil, nil, nil
}

// Recommendations returns the catalog personalized by the owner's interests and skills,
// highest score first.
func (a *Advisor) Recommendations(ctx context.Context, owner string) ([]types.CareerRecommendation, error) {
	interests, skills, err := a.profileForScoring(ctx, owner)
	if err != nil {
		return nil, err
	}
	return Personalize(interests, skills), nil
}

// Personalize scores the catalog: +5 for a technology or design interest matching the
// category, +3 for business, +2 per required skill contained in a rated skill name.
// Scores are capped at 100. Ties keep catalog order.
func Personalize(interests []string, skills map[string]int) []types.CareerRecommendation {
	out := make([]types.CareerRecommendation, 0, len(careerCatalog))
	for _, career := range careerCatalog {
		rec := career
		rec.RequiredSkills = slices.Clone(career.RequiredSkills)

		score := rec.MatchScore
		switch {
		case rec.Category == types.CategoryTechnology && slices.Contains(interests, "technology"):
			score += interestBoost
		case rec.Category == types.CategoryDesign && slices.Contains(interests, "design"):
			score += interestBoost
		case rec.Category == types.CategoryBusiness && slices.Contains(interests, "business"):
			score += businessInterestBoost
		}

		for _, required := range rec.RequiredSkills {
			needle := strings.ToLower(required)
			for name := range skills {
				if strings.Contains(strings.ToLower(name), needle) {
					score += skillOverlapBoost
					break
				}
			}
		}

		rec.MatchScore = min(score, types.MaxMatchScore)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

// CareerDetails returns one personalized catalog entry.
func (a *Advisor) CareerDetails(ctx context.Context, owner, careerID string) (*types.CareerRecommendation, error) {
	recs, err := a.Recommendations(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID == careerID {
			return &recs[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "career", ID: careerID}
}

// SaveCareerInterest bookmarks a career.
func (a *Advisor) SaveCareerInterest(ctx context.Context, owner, careerID string) ([]string, error) {
	if strings.TrimSpace(careerID) == "" {
		return nil, &ValidationError{Field: "careerId", Message: "must not be empty"}
	}
	return a.addToSet(ctx, owner, storage.KeySavedCareers, careerID)
}

// SavedCareers lists bookmarked career ids.
func (a *Advisor) SavedCareers(ctx context.Context, owner string) ([]string, error) {
	return storage.List(ctx, a.store, owner, storage.KeySavedCareers)
}

// CareerResources returns learning resources for a career; unknown careers have none.
func (a *Advisor) CareerResources(careerID string) []types.LearningResource {
	resources, ok := resourceCatalog[careerID]
	if !ok {
		return []types.LearningResource{}
	}
	return slices.Clone(resources)
}

// SaveResource bookmarks a learning resource.
func (a *Advisor) SaveResource(ctx context.Context, owner, resourceID string) ([]string, error) {
	if strings.TrimSpace(resourceID) == "" {
		return nil, &ValidationError{Field: "resourceId", Message: "must not be empty"}
	}
	return a.addToSet(ctx, owner, storage.KeySavedResources, resourceID)
}

// SavedResources lists bookmarked resource ids.
func (a *Advisor) SavedResources(ctx context.Context, owner string) ([]string, error) {
	return storage.List(ctx, a.store, owner, storage.KeySavedResources)
}
