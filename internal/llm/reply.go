// Package llm - reply.go describes the JSON shape expected back from the model.
package llm

import (
	"fmt"
	"strings"
)

// ReplySchema defines the structure a model reply should follow.
type ReplySchema struct {
	Name   string       // Schema name (e.g., "DashboardSummary")
	Array  bool         // Whether the reply is a JSON array of objects
	Fields []ReplyField // Expected output fields
}

// ReplyField defines a single field in the reply.
type ReplyField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[\"string\"]", "number 0-100"
	Description string // Description for the model
	Required    bool
}

// BuildSystemPrompt appends the reply structure and output rules to a task description.
func BuildSystemPrompt(description string, schema ReplySchema) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(description))
	sb.WriteString("\n\n")

	open, closing := "{", "}"
	if schema.Array {
		open, closing = "[{", "}]"
	}

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(open)
	sb.WriteString("\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(closing)
	sb.WriteString("\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Scores are integers between 0 and 100.\n")
	sb.WriteString("- Return ONLY the JSON, no markdown, no explanation, no code blocks.\n")

	return sb.String()
}

// --- Predefined Schemas ---

// AssessmentAnalysisSchema is the reply shape for an assessment analysis.
func AssessmentAnalysisSchema() ReplySchema {
	return ReplySchema{
		Name: "AssessmentAnalysis",
		Fields: []ReplyField{
			{Name: "recommendedRole", Description: "Single best-fit career title", Required: true},
			{Name: "careerMatchScores", Type: "{\"career_key\": {\"score\": number}}", Description: "Scored careers keyed in snake_case", Required: true},
			{Name: "skillAnalysis", Type: "{\"strengths\": [\"string\"], \"areas_to_improve\": [\"string\"], \"recommendations\": [\"string\"]}", Required: true},
			{Name: "yourNextSteps", Type: "[\"string\"]", Description: "Concrete actions for the next month", Required: true},
			{Name: "learningResources", Type: "{\"career_key\": [\"string\"]}", Description: "Courses or books per career"},
		},
	}
}

// DashboardSummarySchema is the reply shape for the dashboard summary.
func DashboardSummarySchema() ReplySchema {
	return ReplySchema{
		Name: "DashboardSummary",
		Fields: []ReplyField{
			{Name: "topCareer", Type: "{\"title\": \"string\", \"matchScore\": number, \"category\": \"string\"}", Required: true},
			{Name: "skillsAnalysis", Type: "{\"strengths\": [\"string\"], \"gaps\": [\"string\"], \"recommendations\": [\"string\"]}", Required: true},
			{Name: "progressMetrics", Type: "{\"assessmentComplete\": boolean, \"resourcesViewed\": number, \"skillsImproved\": number, \"careerExplored\": number}"},
			{Name: "nextSteps", Type: "[\"string\"]", Required: true},
		},
	}
}

// JobListingsSchema is the reply shape for job listings.
func JobListingsSchema() ReplySchema {
	return ReplySchema{
		Name:  "JobListings",
		Array: true,
		Fields: []ReplyField{
			{Name: "id", Required: true},
			{Name: "title", Required: true},
			{Name: "website", Description: "Company or board name"},
			{Name: "url", Description: "Link to the posting"},
			{Name: "description", Description: "Plain text, no HTML"},
			{Name: "created_at", Description: "ISO-8601 timestamp"},
			{Name: "published_at", Description: "ISO-8601 timestamp"},
			{Name: "education_requirements"},
		},
	}
}
