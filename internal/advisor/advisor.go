// Package advisor implements the career advisor operations: assessment submission,
// chat, job listings, the dashboard summary and the static career catalog.
// Each model-backed operation builds a prompt, calls the model, shapes the reply
// and applies domain post-processing.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/prompts"
	"github.com/jonathan/career-compass/internal/shaping"
	"github.com/jonathan/career-compass/internal/storage"
)

// Advisor holds the collaborators shared by every operation.
type Advisor struct {
	client llm.Client
	store  storage.Durable
	locks  *storage.Locks
	shaper *shaping.Shaper
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) { a.now = now }
}

// WithIDGenerator overrides how message and assessment ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(a *Advisor) { a.newID = newID }
}

// New creates an Advisor. A nil shaper or logger gets a default.
func New(client llm.Client, store storage.Durable, shaper *shaping.Shaper, logger *zap.Logger, opts ...Option) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shaper == nil {
		shaper = shaping.New(logger)
	}
	a := &Advisor{
		client: client,
		store:  store,
		locks:  storage.NewLocks(),
		shaper: shaper,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// systemPrompt loads an advisor prompt and appends the reply structure when one is given.
func systemPrompt(key string, data map[string]string, schema *llm.ReplySchema) (string, error) {
	text, err := prompts.Advisor(key, data)
	if err != nil {
		return "", fmt.Errorf("failed to load %s prompt: %w", key, err)
	}
	if schema == nil {
		return text, nil
	}
	return llm.BuildSystemPrompt(text, *schema), nil
}

func schemaRef(s llm.ReplySchema) *llm.ReplySchema {
	return &s
}

// addToSet appends item to the owner's list at key while holding that key's lock.
func (a *Advisor) addToSet(ctx context.Context, owner, key, item string) ([]string, error) {
	unlock := a.locks.Lock(owner, key)
	defer unlock()
	return storage.AddToSet(ctx, a.store, owner, key, item)
}

// complete calls the model and logs transport failures.
func (a *Advisor) complete(ctx context.Context, op, prompt string, payload any) (string, error) {
	start := a.now()
	raw, err := a.client.Complete(ctx, prompt, payload)
	if err != nil {
		a.logger.Error("model call failed",
			zap.String("operation", op),
			zap.String("model", a.client.Model()),
			zap.Error(err),
		)
		return "", err
	}
	a.logger.Debug("model call completed",
		zap.String("operation", op),
		zap.Duration("elapsed", a.now().Sub(start)),
		zap.Int("reply_bytes", len(raw)),
	)
	return raw, nil
}
