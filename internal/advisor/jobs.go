package advisor

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/prompts"
	"github.com/jonathan/career-compass/internal/shaping"
	"github.com/jonathan/career-compass/internal/storage"
	"github.com/jonathan/career-compass/internal/types"
)

// JobsPerRequest is how many listings the model is asked for.
const JobsPerRequest = 5

// JobListings asks the model for listings for role. Any failure yields the fallback listings.
func (a *Advisor) JobListings(ctx context.Context, role string) (shaping.Shaped[[]types.JobListing], error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return shaping.Shaped[[]types.JobListing]{}, &ValidationError{Field: "role", Message: "must not be empty"}
	}

	prompt, err := systemPrompt(prompts.KeyJobs, map[string]string{
		"Role":  role,
		"Count": strconv.Itoa(JobsPerRequest),
	}, schemaRef(llm.JobListingsSchema()))
	if err != nil {
		return jobsFallback(err), nil
	}

	raw, err := a.complete(ctx, shaping.DomainJobs, prompt, "Generate job listings for the role: "+role)
	if err != nil {
		return jobsFallback(err), nil
	}
	return a.shaper.Jobs(raw), nil
}

func jobsFallback(err error) shaping.Shaped[[]types.JobListing] {
	return shaping.Shaped[[]types.JobListing]{
		Value:  shaping.JobsFallback(),
		Source: types.SourceFallback,
		Err:    err,
	}
}

// SaveJob bookmarks a job listing id.
func (a *Advisor) SaveJob(ctx context.Context, owner, jobID string) ([]string, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, &ValidationError{Field: "jobId", Message: "must not be empty"}
	}
	return a.addToSet(ctx, owner, storage.KeySavedJobs, jobID)
}

// SavedJobs lists bookmarked job ids.
func (a *Advisor) SavedJobs(ctx context.Context, owner string) ([]string, error) {
	return storage.List(ctx, a.store, owner, storage.KeySavedJobs)
}
