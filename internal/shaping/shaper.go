// Package shaping turns raw model replies into domain values.
// A reply that cannot be parsed, or lacks every required field, is replaced by the
// domain's static fallback; callers never receive a partially filled result.
package shaping

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/schemas"
	"github.com/jonathan/career-compass/internal/types"
)

// ErrMalformed matches every ShapeError.
var ErrMalformed = errors.New("malformed model reply")

// Domain names used in errors and logs.
const (
	DomainAssessment = "assessment"
	DomainDashboard  = "dashboard"
	DomainJobs       = "jobs"
	DomainChat       = "chat"
)

// ShapeError explains why a reply was replaced by a fallback.
type ShapeError struct {
	Domain string
	Reason string
	Cause  error
}

func (e *ShapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s reply unusable: %s: %v", e.Domain, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s reply unusable: %s", e.Domain, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrMalformed) true for every ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrMalformed
}

// Shaped is a domain value together with where it came from.
// Err is set only when Source is fallback.
type Shaped[T any] struct {
	Value  T
	Source types.Source
	Err    error
}

// IsFallback reports whether Value is the static fallback.
func (s Shaped[T]) IsFallback() bool {
	return s.Source == types.SourceFallback
}

// Shaper parses model replies for each domain.
type Shaper struct {
	logger *zap.Logger
}

// New creates a Shaper. A nil logger discards fallback warnings.
func New(logger *zap.Logger) *Shaper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shaper{logger: logger}
}

func genuine[T any](v T) Shaped[T] {
	return Shaped[T]{Value: v, Source: types.SourceReal}
}

func fallback[T any](s *Shaper, domain string, v T, err *ShapeError) Shaped[T] {
	err.Domain = domain
	s.logger.Warn("using fallback for model reply",
		zap.String("domain", domain),
		zap.String("reason", err.Reason),
		zap.Error(err.Cause),
	)
	return Shaped[T]{Value: v, Source: types.SourceFallback, Err: err}
}

// parse cleans the reply and checks it against the domain schema.
func parse(raw string, schema schemas.Name, unwrap string) (gjson.Result, *ShapeError) {
	clean := llm.CleanJSONBlock(raw)
	if clean == "" {
		return gjson.Result{}, &ShapeError{Reason: "empty reply"}
	}
	if !gjson.Valid(clean) {
		return gjson.Result{}, &ShapeError{Reason: "reply is not JSON"}
	}

	doc := gjson.Parse(clean)
	if unwrap != "" {
		if inner := doc.Get(unwrap); inner.IsObject() {
			doc = inner
		}
	}

	if err := schemas.Validate(schema, doc.Raw); err != nil {
		return gjson.Result{}, &ShapeError{Reason: "required fields missing", Cause: err}
	}
	return doc, nil
}

// Assessment shapes an assessment analysis. Replies wrapped in {"llmResponse": ...} are unwrapped.
func (s *Shaper) Assessment(raw string) Shaped[types.AssessmentAnalysis] {
	doc, shapeErr := parse(raw, schemas.AssessmentAnalysis, "llmResponse")
	if shapeErr != nil {
		return fallback(s, DomainAssessment, AssessmentFallback(), shapeErr)
	}

	analysis := types.AssessmentAnalysis{
		RecommendedRole:   stringValue(doc.Get("recommendedRole")),
		CareerMatchScores: map[string]types.CareerScore{},
		LearningResources: map[string][]string{},
	}

	doc.Get("careerMatchScores").ForEach(func(key, value gjson.Result) bool {
		scoreField := value
		if value.IsObject() {
			scoreField = value.Get("score")
		}
		if score, ok := intValue(scoreField); ok {
			analysis.CareerMatchScores[key.String()] = types.CareerScore{Score: types.ClampMatchScore(score)}
		}
		return true
	})

	skills := doc.Get("skillAnalysis")
	analysis.SkillAnalysis = types.SkillAnalysis{
		Strengths:       stringList(skills.Get("strengths")),
		AreasToImprove:  stringList(firstOf(skills, "areas_to_improve", "areasToImprove")),
		Recommendations: stringList(skills.Get("recommendations")),
	}
	analysis.YourNextSteps = stringList(firstOf(doc, "yourNextSteps", "nextSteps"))

	doc.Get("learningResources").ForEach(func(key, value gjson.Result) bool {
		analysis.LearningResources[key.String()] = stringList(value)
		return true
	})

	if analysis.RecommendedRole == "" {
		if key, _, ok := TopScore(analysis.CareerMatchScores); ok {
			analysis.RecommendedRole = types.HumanizeCareerKey(key)
		}
	}

	return genuine(analysis)
}

// Dashboard shapes a dashboard summary.
func (s *Shaper) Dashboard(raw string) Shaped[types.DashboardSummary] {
	doc, shapeErr := parse(raw, schemas.DashboardSummary, "")
	if shapeErr != nil {
		return fallback(s, DomainDashboard, DashboardFallback(), shapeErr)
	}

	top := doc.Get("topCareer")
	title := stringValue(top.Get("title"))
	score, _ := intValue(top.Get("matchScore"))
	category := stringValue(top.Get("category"))
	if category == "" {
		category = types.CategoryFor(title)
	}

	skills := doc.Get("skillsAnalysis")
	metrics := doc.Get("progressMetrics")
	summary := types.DashboardSummary{
		TopCareer: types.CareerMatch{
			Title:      title,
			MatchScore: types.ClampMatchScore(score),
			Category:   category,
		},
		SkillsAnalysis: types.SkillsAnalysis{
			Strengths:       stringList(skills.Get("strengths")),
			Gaps:            stringList(firstOf(skills, "gaps", "areas_to_improve")),
			Recommendations: stringList(skills.Get("recommendations")),
		},
		ProgressMetrics: types.ProgressMetrics{
			AssessmentComplete: boolValue(metrics.Get("assessmentComplete")),
			ResourcesViewed:    nonNegative(metrics.Get("resourcesViewed")),
			SkillsImproved:     nonNegative(metrics.Get("skillsImproved")),
			CareerExplored:     nonNegative(metrics.Get("careerExplored")),
		},
		NextSteps: stringList(doc.Get("nextSteps")),
	}
	return genuine(summary)
}

// Jobs shapes a job listing array. A bare array or {"jobs": [...]} is accepted.
// Entries with neither a title nor a url are dropped; duplicate ids are kept.
func (s *Shaper) Jobs(raw string) Shaped[[]types.JobListing] {
	doc, shapeErr := parse(raw, schemas.JobListings, "")
	if shapeErr != nil {
		return fallback(s, DomainJobs, JobsFallback(), shapeErr)
	}
	if !doc.IsArray() {
		doc = doc.Get("jobs")
	}

	listings := []types.JobListing{}
	for _, item := range doc.Array() {
		job := types.JobListing{
			ID:                    stringValue(item.Get("id")),
			Title:                 stringValue(item.Get("title")),
			Website:               stringValue(item.Get("website")),
			URL:                   stringValue(item.Get("url")),
			Description:           flattenHTML(stringValue(item.Get("description"))),
			CreatedAt:             stringValue(item.Get("created_at")),
			PublishedAt:           stringValue(item.Get("published_at")),
			EducationRequirements: flattenHTML(stringValue(item.Get("education_requirements"))),
		}
		if job.Title == "" && job.URL == "" {
			continue
		}
		listings = append(listings, job)
	}

	if len(listings) == 0 {
		return fallback(s, DomainJobs, JobsFallback(), &ShapeError{Reason: "no usable listings"})
	}
	return genuine(listings)
}

// Chat extracts the bot reply text. The chat prompt asks for plain text, but a JSON
// object carrying content or message.content is unwrapped.
func (s *Shaper) Chat(raw string) Shaped[string] {
	text := strings.TrimSpace(raw)
	if text == "" {
		return fallback(s, DomainChat, ChatFallback, &ShapeError{Reason: "empty reply"})
	}

	if clean := llm.CleanJSONBlock(text); strings.HasPrefix(clean, "{") && gjson.Valid(clean) {
		doc := gjson.Parse(clean)
		if content := stringValue(firstOf(doc, "content", "message.content")); content != "" {
			return genuine(content)
		}
	}
	return genuine(text)
}

// TopScore returns the highest scoring career key. Ties go to the key that sorts first.
func TopScore(scores map[string]types.CareerScore) (string, int, bool) {
	keys := make([]string, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		return "", 0, false
	}
	best := keys[0]
	for _, key := range keys[1:] {
		if scores[key].Score > scores[best].Score {
			best = key
		}
	}
	return best, scores[best].Score, true
}

func nonNegative(r gjson.Result) int {
	n, _ := intValue(r)
	return max(n, 0)
}
