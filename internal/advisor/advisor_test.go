package advisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/storage"
	"github.com/jonathan/career-compass/internal/types"
)

// fakeClient returns scripted replies in order and records every call.
type fakeClient struct {
	mu       sync.Mutex
	replies  []string
	err      error
	calls    int
	prompts  []string
	payloads []any
	// delay and release hold each call before it is recorded.
	delay   time.Duration
	release chan struct{}
	started chan struct{}
}

func (f *fakeClient) Complete(ctx context.Context, systemPrompt string, userPayload any) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, systemPrompt)
	f.payloads = append(f.payloads, userPayload)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeClient) Model() string { return "fake-model" }
func (f *fakeClient) Close() error  { return nil }

var testNow = time.Date(2025, 9, 12, 8, 0, 0, 0, time.UTC)

func newTestAdvisor(client llm.Client) (*Advisor, *storage.Memory) {
	store := storage.NewMemory()
	seq := 0
	a := New(client, store, nil, nil,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	return a, store
}

func validProfile() types.AssessmentProfile {
	return types.AssessmentProfile{
		EducationLevel: "bachelor",
		Interests:      []string{"technology", "design"},
		Skills:         map[string]int{"Communication": 8, "Technical Skills": 12, "Creativity": 0},
		Experience:     "entry",
	}
}

const analysisReply = `{"llmResponse": {
	"recommendedRole": "UX Designer",
	"careerMatchScores": {
		"software_development": {"score": 70},
		"ux_ui_design": {"score": 92},
		"data_science": {"score": 50}
	},
	"skillAnalysis": {
		"strengths": ["Creativity", "Communication", "Empathy"],
		"areas_to_improve": ["Prototyping"],
		"recommendations": ["Learn Figma"]
	},
	"yourNextSteps": ["Step 1: Take a UX course"],
	"learningResources": {
		"ux_ui_design": ["Google UX Certificate", "Don't Make Me Think"],
		"software_development": ["The Odin Project"]
	}
}}`
