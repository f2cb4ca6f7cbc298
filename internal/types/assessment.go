// Package types provides type definitions for structured data used throughout the career advisor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// Skill ratings are collected on a 1-10 scale.
const (
	MinSkillRating = 1
	MaxSkillRating = 10
)

// AssessmentProfile is the answer set collected by the assessment wizard.
// Preferences holds JSON values, so numbers read back from storage are float64.
type AssessmentProfile struct {
	EducationLevel string         `json:"educationLevel" yaml:"educationLevel" validate:"required"`
	Interests      []string       `json:"interests" yaml:"interests" validate:"required,min=1"`
	Skills         map[string]int `json:"skills" yaml:"skills" validate:"required"`
	Experience     string         `json:"experience" yaml:"experience"`
	Preferences    map[string]any `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

// Validate reports whether the profile can be submitted: a non-empty education level,
// at least one interest and a skills map (which may be empty).
func (p *AssessmentProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ValidateAssessmentJSON applies the submission rule to an untyped JSON document.
// It rejects documents whose skills value is present but not an object, which the
// typed validator cannot observe after decoding.
func ValidateAssessmentJSON(raw []byte) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return false
	}

	education := doc.Get("educationLevel")
	if education.Type != gjson.String || education.Str == "" {
		return false
	}

	interests := doc.Get("interests")
	if !interests.IsArray() || len(interests.Array()) == 0 {
		return false
	}

	return doc.Get("skills").IsObject()
}

// ClampSkillRating normalizes a rating into the 1-10 scale.
func ClampSkillRating(rating int) int {
	return min(max(rating, MinSkillRating), MaxSkillRating)
}

// AssessmentPayload is the snake_case form of a profile sent to the model.
type AssessmentPayload struct {
	EducationLevel string         `json:"education_level"`
	Interests      []string       `json:"interests"`
	Skills         map[string]int `json:"skills"`
	Experience     string         `json:"experience"`
	Preferences    map[string]any `json:"preferences"`
	Timestamp      string         `json:"timestamp"`
}

// ToPayload transforms the profile for the model, clamping skill ratings.
func (p *AssessmentProfile) ToPayload(now time.Time) AssessmentPayload {
	skills := make(map[string]int, len(p.Skills))
	for name, rating := range p.Skills {
		skills[name] = ClampSkillRating(rating)
	}
	return AssessmentPayload{
		EducationLevel: p.EducationLevel,
		Interests:      p.Interests,
		Skills:         skills,
		Experience:     p.Experience,
		Preferences:    p.Preferences,
		Timestamp:      now.UTC().Format(time.RFC3339),
	}
}

// CareerScore is a single entry of the model's career match map.
type CareerScore struct {
	Score int `json:"score"`
}

// SkillAnalysis is the model's analysis of strengths and gaps.
type SkillAnalysis struct {
	Strengths       []string `json:"strengths"`
	AreasToImprove  []string `json:"areas_to_improve"`
	Recommendations []string `json:"recommendations"`
}

// AssessmentAnalysis is the shaped reply to an assessment prompt.
type AssessmentAnalysis struct {
	RecommendedRole   string                 `json:"recommendedRole"`
	CareerMatchScores map[string]CareerScore `json:"careerMatchScores"`
	SkillAnalysis     SkillAnalysis          `json:"skillAnalysis"`
	YourNextSteps     []string               `json:"yourNextSteps"`
	LearningResources map[string][]string    `json:"learningResources"`
}

// AssessmentEnvelope wraps an analysis the way the proxy endpoint returns it.
type AssessmentEnvelope struct {
	LLMResponse AssessmentAnalysis `json:"llmResponse"`
}

// AssessmentResponse is returned after a successful submission.
type AssessmentResponse struct {
	Success         bool                `json:"success"`
	AssessmentID    string              `json:"assessmentId"`
	Message         string              `json:"message"`
	Recommendations []CareerMatch       `json:"recommendations,omitempty"`
	Analysis        *AssessmentAnalysis `json:"analysis,omitempty"`
}

// AssessmentRecord is what gets persisted as the last completed assessment.
type AssessmentRecord struct {
	Data      AssessmentPayload  `json:"data"`
	Response  AssessmentResponse `json:"response"`
	Timestamp time.Time          `json:"timestamp"`
}

// EducationLevels lists the education options offered by the wizard.
var EducationLevels = []Option{
	{Value: "high-school", Label: "High School"},
	{Value: "associate", Label: "Associate Degree"},
	{Value: "bachelor", Label: "Bachelor's Degree"},
	{Value: "master", Label: "Master's Degree"},
	{Value: "phd", Label: "PhD/Doctorate"},
	{Value: "bootcamp", Label: "Bootcamp/Certificate"},
	{Value: "self-taught", Label: "Self-Taught"},
}

// InterestCategories lists the interest options offered by the wizard.
var InterestCategories = []Option{
	{Value: "technology", Label: "Technology"},
	{Value: "design", Label: "Design"},
	{Value: "healthcare", Label: "Healthcare"},
	{Value: "business", Label: "Business"},
	{Value: "education", Label: "Education"},
	{Value: "finance", Label: "Finance"},
	{Value: "marketing", Label: "Marketing"},
	{Value: "science", Label: "Science"},
}

// SkillCategories lists the skills the wizard asks users to rate.
var SkillCategories = []string{
	"Communication",
	"Leadership",
	"Problem Solving",
	"Creativity",
	"Technical Skills",
	"Analytical Thinking",
	"Teamwork",
	"Time Management",
	"Adaptability",
	"Critical Thinking",
}

// Option is a value/label pair for a fixed choice list.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
