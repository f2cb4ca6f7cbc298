package facade

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/career-compass/internal/advisor"
	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/types"
)

// Facade serves advisor operations through the cache.
type Facade struct {
	advisor *advisor.Advisor
	cache   *cache.Store
	group   singleflight.Group
	logger  *zap.Logger
	ttl     TTLs
	stats   counters

	// submissions maps an owner to the cache key of their latest submission.
	subMu       sync.Mutex
	submissions map[string]string
}

// New wraps adv. A nil store gets a fresh one and a nil logger discards output.
func New(adv *advisor.Advisor, store *cache.Store, ttl TTLs, logger *zap.Logger) *Facade {
	if store == nil {
		store = cache.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Facade{
		advisor:     adv,
		cache:       store,
		logger:      logger,
		ttl:         ttl,
		submissions: make(map[string]string),
	}
}

// Advisor exposes the wrapped advisor for uncached operations.
func (f *Facade) Advisor() *advisor.Advisor {
	return f.advisor
}

// Stats returns the current counters.
func (f *Facade) Stats() Stats {
	return Stats{
		Hits:      f.stats.hits.Load(),
		Misses:    f.stats.misses.Load(),
		Coalesced: f.stats.coalesced.Load(),
		Entries:   f.cache.Len(),
	}
}

type ownerInput struct {
	Owner string `json:"owner"`
}

type submissionInput struct {
	Owner   string                  `json:"owner"`
	Profile types.AssessmentProfile `json:"profile"`
}

// AnalyzeProfile proxies a profile to the model, caching by profile content.
func (f *Facade) AnalyzeProfile(ctx context.Context, profile types.AssessmentProfile) (types.AssessmentEnvelope, error) {
	envelope, _, err := cached(ctx, f, AdapterAssessment, profile, f.ttl.Assessment,
		func(ctx context.Context) (types.AssessmentEnvelope, types.Source, error) {
			env, err := f.advisor.AnalyzeProfile(ctx, profile)
			return env, types.SourceReal, err
		})
	return envelope, err
}

// SubmitAssessment submits a profile for owner. Repeating the owner's latest
// submission within the assessment TTL returns the earlier response without calling
// the model or storing another record. A different submission or a retake in between
// makes the next one reach the advisor again.
func (f *Facade) SubmitAssessment(ctx context.Context, owner string, profile types.AssessmentProfile) (*types.AssessmentResponse, error) {
	input := submissionInput{Owner: owner, Profile: profile}
	key, err := Key(AdapterSubmission, input)
	if err != nil {
		return nil, err
	}
	response, _, err := cached(ctx, f, AdapterSubmission, input, f.ttl.Assessment,
		func(ctx context.Context) (*types.AssessmentResponse, types.Source, error) {
			sub, err := f.advisor.SubmitAssessment(ctx, owner, profile)
			if err != nil {
				return nil, "", err
			}
			return sub.Response, types.SourceReal, nil
		})
	if err != nil {
		return nil, err
	}
	f.invalidateOwner(owner)
	f.rememberSubmission(owner, key)
	return response, nil
}

// rememberSubmission records key as owner's latest submission and drops the
// cached response of the one before it.
func (f *Facade) rememberSubmission(owner, key string) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	if prev, ok := f.submissions[owner]; ok && prev != key {
		f.cache.Invalidate(prev)
	}
	f.submissions[owner] = key
}

func (f *Facade) forgetSubmission(owner string) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	if prev, ok := f.submissions[owner]; ok {
		f.cache.Invalidate(prev)
		delete(f.submissions, owner)
	}
}

// SaveDraft stores a draft and drops cached views derived from it.
func (f *Facade) SaveDraft(ctx context.Context, owner string, profile types.AssessmentProfile) error {
	if err := f.advisor.SaveDraft(ctx, owner, profile); err != nil {
		return err
	}
	f.invalidate(AdapterRecommendations, ownerInput{Owner: owner})
	return nil
}

// RetakeAssessment clears the owner's assessment state and cached views.
func (f *Facade) RetakeAssessment(ctx context.Context, owner string) error {
	if err := f.advisor.RetakeAssessment(ctx, owner); err != nil {
		return err
	}
	f.invalidateOwner(owner)
	f.forgetSubmission(owner)
	return nil
}

func (f *Facade) invalidateOwner(owner string) {
	in := ownerInput{Owner: owner}
	f.invalidate(AdapterDashboard, in)
	f.invalidate(AdapterRecommendations, in)
	f.invalidate(AdapterAssessmentHistory, in)
}

// AssessmentHistory lists past assessments, newest first.
func (f *Facade) AssessmentHistory(ctx context.Context, owner string) ([]types.AssessmentRecord, error) {
	history, _, err := cached(ctx, f, AdapterAssessmentHistory, ownerInput{Owner: owner}, f.ttl.Default,
		func(ctx context.Context) ([]types.AssessmentRecord, types.Source, error) {
			records, err := f.advisor.AssessmentHistory(ctx, owner)
			return records, types.SourceReal, err
		})
	return history, err
}

// DashboardSummary returns the owner's dashboard summary and whether it is real or fallback.
func (f *Facade) DashboardSummary(ctx context.Context, owner string) (types.DashboardSummary, types.Source, error) {
	return cached(ctx, f, AdapterDashboard, ownerInput{Owner: owner}, f.ttl.Dashboard,
		func(ctx context.Context) (types.DashboardSummary, types.Source, error) {
			shaped, err := f.advisor.DashboardSummary(ctx, owner)
			if err != nil {
				return types.DashboardSummary{}, "", err
			}
			return shaped.Value, shaped.Source, nil
		})
}

// JobListings returns listings for role.
func (f *Facade) JobListings(ctx context.Context, role string) ([]types.JobListing, types.Source, error) {
	return cached(ctx, f, AdapterJobs, role, f.ttl.Jobs,
		func(ctx context.Context) ([]types.JobListing, types.Source, error) {
			shaped, err := f.advisor.JobListings(ctx, role)
			if err != nil {
				return nil, "", err
			}
			return shaped.Value, shaped.Source, nil
		})
}

// Recommendations returns the owner's personalized career list.
func (f *Facade) Recommendations(ctx context.Context, owner string) ([]types.CareerRecommendation, error) {
	recs, _, err := cached(ctx, f, AdapterRecommendations, ownerInput{Owner: owner}, f.ttl.Recommendations,
		func(ctx context.Context) ([]types.CareerRecommendation, types.Source, error) {
			recs, err := f.advisor.Recommendations(ctx, owner)
			return recs, types.SourceReal, err
		})
	return recs, err
}

// CareerDetails returns one personalized career.
func (f *Facade) CareerDetails(ctx context.Context, owner, careerID string) (*types.CareerRecommendation, error) {
	input := struct {
		Owner    string `json:"owner"`
		CareerID string `json:"careerId"`
	}{owner, careerID}
	career, _, err := cached(ctx, f, AdapterCareer, input, f.ttl.Default,
		func(ctx context.Context) (*types.CareerRecommendation, types.Source, error) {
			career, err := f.advisor.CareerDetails(ctx, owner, careerID)
			return career, types.SourceReal, err
		})
	return career, err
}

// DashboardBundle loads the summary, recommendations, saved resources and each
// recommended career's resources concurrently.
func (f *Facade) DashboardBundle(ctx context.Context, owner string) (*types.DashboardBundle, error) {
	start := time.Now()
	bundle := &types.DashboardBundle{Resources: make(map[string][]types.LearningResource)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, source, err := f.DashboardSummary(gctx, owner)
		if err != nil {
			return err
		}
		bundle.Summary = summary
		bundle.SummaryFallback = source == types.SourceFallback
		return nil
	})

	g.Go(func() error {
		recs, err := f.Recommendations(gctx, owner)
		if err != nil {
			return err
		}
		bundle.Careers = recs
		for _, rec := range recs {
			bundle.Resources[rec.ID] = f.advisor.CareerResources(rec.ID)
		}
		return nil
	})

	g.Go(func() error {
		saved, err := f.advisor.SavedResources(gctx, owner)
		if err != nil {
			return err
		}
		bundle.SavedResources = saved
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	f.logger.Debug("dashboard bundle loaded",
		zap.String("owner", owner),
		zap.Int("careers", len(bundle.Careers)),
		zap.Duration("duration", time.Since(start)),
	)
	return bundle, nil
}
