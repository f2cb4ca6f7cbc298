package types

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Score bounds for career matches.
const (
	MinMatchScore = 0
	MaxMatchScore = 100
)

// Category labels derived from a career title.
const (
	CategoryDesign     = "Design"
	CategoryTechnology = "Technology"
	CategoryBusiness   = "Business"
	CategoryAnalytics  = "Analytics"
	CategoryManagement = "Management"
	CategoryGeneral    = "General"
)

// CareerMatch is a career title with its match score and derived category.
type CareerMatch struct {
	Title      string `json:"title"`
	MatchScore int    `json:"matchScore"`
	Category   string `json:"category"`
}

// categoryKeywords is checked in order; the first keyword found in the title wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryDesign, []string{"design", "ux", "ui"}},
	{CategoryAnalytics, []string{"data", "analyst", "analysis", "analytics"}},
	{CategoryManagement, []string{"manage", "product", "project"}},
	{CategoryBusiness, []string{"business", "marketing", "sales"}},
	{CategoryTechnology, []string{"software", "developer", "engineer", "cloud", "cyber", "security", "development", "programming", "artificial"}},
}

// CategoryFor derives a category label by keyword matching on a career title.
func CategoryFor(title string) string {
	normalized := strings.ToLower(strings.ReplaceAll(title, "_", " "))
	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return r == ' ' || r == '/' || r == '-' || r == '&' || r == ','
	})
	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			for _, word := range words {
				if strings.HasPrefix(word, keyword) {
					return group.category
				}
			}
		}
	}
	return CategoryGeneral
}

// ClampMatchScore normalizes a score into the 0-100 range.
func ClampMatchScore(score int) int {
	return min(max(score, MinMatchScore), MaxMatchScore)
}

// HumanizeCareerKey turns a model key such as "ux_ui_design" into "UX UI Design".
func HumanizeCareerKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, part := range parts {
		switch strings.ToLower(part) {
		case "ux", "ui", "ai":
			parts[i] = strings.ToUpper(part)
		default:
			first, size := utf8.DecodeRuneInString(part)
			parts[i] = string(unicode.ToUpper(first)) + strings.ToLower(part[size:])
		}
	}
	return strings.Join(parts, " ")
}

// CareerRecommendation is a catalog career with a personalized score.
type CareerRecommendation struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	MatchScore     int      `json:"matchScore"`
	RequiredSkills []string `json:"requiredSkills"`
	SalaryRange    string   `json:"salaryRange"`
	GrowthRate     string   `json:"growthRate"`
	Category       string   `json:"category"`
}

// LearningResource is a course, video, article or certification for a career.
type LearningResource struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Provider  string  `json:"provider"`
	Type      string  `json:"type"`
	Duration  string  `json:"duration"`
	Rating    float64 `json:"rating"`
	URL       string  `json:"url"`
	Thumbnail string  `json:"thumbnail"`
	Price     string  `json:"price"`
}
