// Package storage defines the durable per-client key/value surface used for drafts,
// chat history, saved items and the last completed assessment.
package storage

import (
	"context"
	"fmt"
)

// Well-known keys.
const (
	KeyAssessmentDraft   = "assessment-data"
	KeyLastAssessment    = "last-assessment"
	KeyAssessmentHistory = "assessment-history"
	KeySavedCareers      = "saved-careers"
	KeySavedResources    = "saved-resources"
	KeySavedJobs         = "saved-jobs"
)

// ChatKey returns the history key for a conversation; an empty id maps to "default".
func ChatKey(conversationID string) string {
	if conversationID == "" {
		conversationID = "default"
	}
	return "chat-" + conversationID
}

// Durable stores JSON-serialized values per owner. Get returns false when the key is absent.
type Durable interface {
	Get(ctx context.Context, owner, key string, dst any) (bool, error)
	Set(ctx context.Context, owner, key string, value any) error
	Remove(ctx context.Context, owner, key string) error
}

// DecodeError reports a stored value that no longer matches the requested shape.
type DecodeError struct {
	Key   string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode stored value %s: %v", e.Key, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// AddToSet appends item to the string list stored at key unless it is already present.
func AddToSet(ctx context.Context, d Durable, owner, key, item string) ([]string, error) {
	var items []string
	if _, err := d.Get(ctx, owner, key, &items); err != nil {
		return nil, err
	}
	for _, existing := range items {
		if existing == item {
			return items, nil
		}
	}
	items = append(items, item)
	if err := d.Set(ctx, owner, key, items); err != nil {
		return nil, err
	}
	return items, nil
}

// List reads the string list stored at key, returning an empty list when absent.
func List(ctx context.Context, d Durable, owner, key string) ([]string, error) {
	items := []string{}
	if _, err := d.Get(ctx, owner, key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
