// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-compass/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer renders advisor results as boxed text.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// writeList writes up to maxItemsToShow bullet items under heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

func sourceTag(source types.Source) string {
	if source == types.SourceFallback {
		return " (fallback)"
	}
	return ""
}

// PrintAnalysis outputs the model's assessment analysis with matches ranked by score.
func (p *Printer) PrintAnalysis(analysis *types.AssessmentAnalysis, matches []types.CareerMatch) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommended role: %s\n\n", analysis.RecommendedRole)

	if len(matches) > 0 {
		sb.WriteString("Career matches:\n")
		count := min(len(matches), maxItemsToShow)
		for i, m := range matches[:count] {
			fmt.Fprintf(&sb, "  #%d %-30s %3d%%  [%s]\n", i+1, m.Title, m.MatchScore, m.Category)
		}
		sb.WriteString("\n")
	}

	writeList(&sb, "Strengths", analysis.SkillAnalysis.Strengths)
	writeList(&sb, "Areas to improve", analysis.SkillAnalysis.AreasToImprove)
	writeList(&sb, "Next steps", analysis.YourNextSteps)

	p.printBox("ASSESSMENT ANALYSIS", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintDashboard outputs the dashboard summary.
func (p *Printer) PrintDashboard(summary *types.DashboardSummary, source types.Source) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Top career: %s (%d%%)\n", summary.TopCareer.Title, summary.TopCareer.MatchScore)
	fmt.Fprintf(&sb, "Category:   %s\n\n", summary.TopCareer.Category)

	m := summary.ProgressMetrics
	fmt.Fprintf(&sb, "Resources: %d  Careers explored: %d  Skills: %d\n\n",
		m.ResourcesViewed, m.CareerExplored, m.SkillsImproved)

	writeList(&sb, "Strengths", summary.SkillsAnalysis.Strengths)
	writeList(&sb, "Gaps", summary.SkillsAnalysis.Gaps)
	writeList(&sb, "Next steps", summary.NextSteps)

	p.printBox("DASHBOARD"+sourceTag(source), strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintJobListings outputs listings for a role.
func (p *Printer) PrintJobListings(role string, listings []types.JobListing, source types.Source) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Role: %s\n", role)
	if len(listings) == 0 {
		sb.WriteString("\nNo listings found.")
	}

	for i, job := range listings {
		fmt.Fprintf(&sb, "\n%s\n", job.Title)
		if job.Website != "" {
			fmt.Fprintf(&sb, "  %s\n", job.Website)
		}
		if job.URL != "" {
			fmt.Fprintf(&sb, "  %s\n", job.URL)
		}
		if job.EducationRequirements != "" {
			fmt.Fprintf(&sb, "  Education: %s\n", job.EducationRequirements)
		}
		if i == maxItemsToShow-1 && len(listings) > maxItemsToShow {
			fmt.Fprintf(&sb, "\n... and %d more listings\n", len(listings)-maxItemsToShow)
			break
		}
	}

	p.printBox("JOB LISTINGS"+sourceTag(source), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the top personalized careers.
func (p *Printer) PrintRecommendations(recs []types.CareerRecommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(recs), maxItemsToShow)
	for i, rec := range recs[:count] {
		fmt.Fprintf(&sb, "#%d  %s  %d%%\n", i+1, rec.Title, rec.MatchScore)
		fmt.Fprintf(&sb, "    %s, %s growth\n", rec.SalaryRange, rec.GrowthRate)
		if len(rec.RequiredSkills) > 0 {
			fmt.Fprintf(&sb, "    Skills: %s\n", strings.Join(rec.RequiredSkills, ", "))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RECOMMENDED CAREERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintChatExchange outputs one question and its answer.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintChatExchange(exchange types.ChatExchange) {
	fmt.Fprintf(p.out, "you> %s\n", exchange.UserMessage.Content)
	fmt.Fprintf(p.out, "bot> %s\n", exchange.BotMessage.Content)
}
