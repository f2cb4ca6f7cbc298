package advisor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/prompts"
	"github.com/jonathan/career-compass/internal/shaping"
	"github.com/jonathan/career-compass/internal/storage"
	"github.com/jonathan/career-compass/internal/types"
)

// maxHistory bounds the stored assessment history.
const maxHistory = 20

// SubmissionState is a step of the assessment submission flow.
type SubmissionState string

// Submission states. Failed may be retried; Succeeded is terminal.
const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

var transitions = map[SubmissionState][]SubmissionState{
	StateIdle:       {StateValidating},
	StateValidating: {StateSubmitting, StateFailed},
	StateSubmitting: {StateSucceeded, StateFailed},
	StateFailed:     {StateValidating},
}

// ErrInvalidTransition is returned when a submission is driven out of order.
var ErrInvalidTransition = errors.New("invalid submission state transition")

// Submission tracks one assessment through validation and submission.
type Submission struct {
	Profile  types.AssessmentProfile
	State    SubmissionState
	History  []SubmissionState
	Response *types.AssessmentResponse
	Err      error
}

// NewSubmission starts a submission in the idle state.
func NewSubmission(profile types.AssessmentProfile) *Submission {
	return &Submission{Profile: profile, State: StateIdle, History: []SubmissionState{StateIdle}}
}

// CanRetry reports whether the submission failed with a retryable error.
func (s *Submission) CanRetry() bool {
	return s.State == StateFailed && Retryable(s.Err)
}

func (s *Submission) transition(to SubmissionState) error {
	for _, allowed := range transitions[s.State] {
		if allowed == to {
			s.State = to
			s.History = append(s.History, to)
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
}

func (s *Submission) fail(err error) error {
	s.Err = err
	if tErr := s.transition(StateFailed); tErr != nil {
		return tErr
	}
	return err
}

// SaveDraft persists the in-progress wizard answers.
func (a *Advisor) SaveDraft(ctx context.Context, owner string, profile types.AssessmentProfile) error {
	if err := a.store.Set(ctx, owner, storage.KeyAssessmentDraft, profile); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// LoadDraft returns the saved draft, if any.
func (a *Advisor) LoadDraft(ctx context.Context, owner string) (*types.AssessmentProfile, error) {
	var profile types.AssessmentProfile
	found, err := a.store.Get(ctx, owner, storage.KeyAssessmentDraft, &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &profile, nil
}

// SubmitAssessment validates and submits a profile in one pass.
func (a *Advisor) SubmitAssessment(ctx context.Context, owner string, profile types.AssessmentProfile) (*Submission, error) {
	sub := NewSubmission(profile)
	return sub, a.Submit(ctx, owner, sub)
}

// Submit drives sub from idle or failed to succeeded or failed.
// Validation failures are returned as *ValidationError; model, shaping and storage
// failures as *SubmissionError.
func (a *Advisor) Submit(ctx context.Context, owner string, sub *Submission) error {
	if err := sub.transition(StateValidating); err != nil {
		return err
	}
	sub.Err = nil

	if err := sub.Profile.Validate(); err != nil {
		return sub.fail(validationFromStruct(err))
	}

	if err := sub.transition(StateSubmitting); err != nil {
		return err
	}

	payload := sub.Profile.ToPayload(a.now())
	analysis, err := a.analyze(ctx, payload)
	if err != nil {
		a.logger.Warn("assessment submission failed", zap.String("owner", owner), zap.Error(err))
		return sub.fail(&SubmissionError{Cause: err})
	}

	response := types.AssessmentResponse{
		Success:         true,
		AssessmentID:    a.newID(),
		Message:         "Assessment submitted successfully",
		Recommendations: RankMatches(analysis.CareerMatchScores),
		Analysis:        &analysis,
	}
	record := types.AssessmentRecord{Data: payload, Response: response, Timestamp: a.now().UTC()}

	if err := a.persistRecord(ctx, owner, record); err != nil {
		return sub.fail(&SubmissionError{Cause: err})
	}

	sub.Response = &response
	if err := sub.transition(StateSucceeded); err != nil {
		return err
	}
	a.logger.Info("assessment submitted",
		zap.String("owner", owner),
		zap.String("assessment_id", response.AssessmentID),
		zap.String("recommended_role", analysis.RecommendedRole),
	)
	return nil
}

// AnalyzeProfile sends a profile to the model and returns the shaped analysis
// wrapped the way the proxy endpoint reports it. Nothing is persisted.
func (a *Advisor) AnalyzeProfile(ctx context.Context, profile types.AssessmentProfile) (types.AssessmentEnvelope, error) {
	if err := profile.Validate(); err != nil {
		return types.AssessmentEnvelope{}, validationFromStruct(err)
	}
	analysis, err := a.analyze(ctx, profile.ToPayload(a.now()))
	if err != nil {
		return types.AssessmentEnvelope{}, &SubmissionError{Cause: err}
	}
	return types.AssessmentEnvelope{LLMResponse: analysis}, nil
}

func (a *Advisor) analyze(ctx context.Context, payload types.AssessmentPayload) (types.AssessmentAnalysis, error) {
	prompt, err := systemPrompt(prompts.KeyAssessment, nil, schemaRef(llm.AssessmentAnalysisSchema()))
	if err != nil {
		return types.AssessmentAnalysis{}, err
	}
	raw, err := a.complete(ctx, shaping.DomainAssessment, prompt, payload)
	if err != nil {
		return types.AssessmentAnalysis{}, err
	}
	shaped := a.shaper.Assessment(raw)
	if shaped.IsFallback() {
		return types.AssessmentAnalysis{}, shaped.Err
	}
	return shaped.Value, nil
}

func (a *Advisor) persistRecord(ctx context.Context, owner string, record types.AssessmentRecord) error {
	if err := a.store.Set(ctx, owner, storage.KeyLastAssessment, record); err != nil {
		return fmt.Errorf("failed to save last assessment: %w", err)
	}

	unlock := a.locks.Lock(owner, storage.KeyAssessmentHistory)
	defer unlock()

	var history []types.AssessmentRecord
	if _, err := a.store.Get(ctx, owner, storage.KeyAssessmentHistory, &history); err != nil {
		return fmt.Errorf("failed to load assessment history: %w", err)
	}
	history = append(history, record)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	if err := a.store.Set(ctx, owner, storage.KeyAssessmentHistory, history); err != nil {
		return fmt.Errorf("failed to save assessment history: %w", err)
	}

	if err := a.store.Remove(ctx, owner, storage.KeyAssessmentDraft); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

// LastAssessment returns the most recent completed assessment, if any.
func (a *Advisor) LastAssessment(ctx context.Context, owner string) (*types.AssessmentRecord, error) {
	var record types.AssessmentRecord
	found, err := a.store.Get(ctx, owner, storage.KeyLastAssessment, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to load last assessment: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &record, nil
}

// AssessmentHistory returns completed assessments, newest first.
// An owner with only a last assessment gets a one-element history.
func (a *Advisor) AssessmentHistory(ctx context.Context, owner string) ([]types.AssessmentRecord, error) {
	var history []types.AssessmentRecord
	if _, err := a.store.Get(ctx, owner, storage.KeyAssessmentHistory, &history); err != nil {
		return nil, fmt.Errorf("failed to load assessment history: %w", err)
	}

	if len(history) == 0 {
		last, err := a.LastAssessment(ctx, owner)
		if err != nil {
			return nil, err
		}
		if last == nil {
			return []types.AssessmentRecord{}, nil
		}
		return []types.AssessmentRecord{*last}, nil
	}

	out := make([]types.AssessmentRecord, len(history))
	for i, record := range history {
		out[len(history)-1-i] = record
	}
	return out, nil
}

// RetakeAssessment clears the draft and the last assessment. History is kept.
func (a *Advisor) RetakeAssessment(ctx context.Context, owner string) error {
	for _, key := range []string{storage.KeyAssessmentDraft, storage.KeyLastAssessment} {
		if err := a.store.Remove(ctx, owner, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	a.logger.Info("assessment cleared for retake", zap.String("owner", owner))
	return nil
}

// RankMatches turns a score map into matches sorted by score, highest first.
// Equal scores are ordered by key.
func RankMatches(scores map[string]types.CareerScore) []types.CareerMatch {
	keys := make([]string, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := scores[keys[i]].Score, scores[keys[j]].Score
		if si != sj {
			return si > sj
		}
		return keys[i] < keys[j]
	})

	matches := make([]types.CareerMatch, 0, len(keys))
	for _, key := range keys {
		title := types.HumanizeCareerKey(key)
		matches = append(matches, types.CareerMatch{
			Title:      title,
			MatchScore: types.ClampMatchScore(scores[key].Score),
			Category:   types.CategoryFor(title),
		})
	}
	return matches
}
