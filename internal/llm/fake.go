// ABOUTME: FakeGateway is a scripted in-process gateway for tests and offline runs
// ABOUTME: Records every rendered prompt and delegates answers to a responder function
package llm

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Responder produces the completion for a rendered prompt
type Responder func(ctx context.Context, prompt string) (string, error)

// FakeGateway answers prompts with a Responder
type FakeGateway struct {
	respond Responder
	calls   atomic.Int64

	mu      sync.Mutex
	prompts []string
}

// NewFakeGateway creates a fake. A nil responder answers "None" to everything.
func NewFakeGateway(respond Responder) *FakeGateway {
	if respond == nil {
		respond = StaticResponder("None")
	}
	return &FakeGateway{respond: respond}
}

// Name returns "fake"
func (f *FakeGateway) Name() string {
	return "fake"
}

// Invoke renders the template, records it and asks the responder
func (f *FakeGateway) Invoke(ctx context.Context, template string, vars map[string]string) (string, error) {
	prompt := Render(template, vars)
	f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.respond(ctx, prompt)
}

// Calls returns the number of Invoke calls so far
func (f *FakeGateway) Calls() int {
	return int(f.calls.Load())
}

// Prompts returns a copy of every rendered prompt seen so far
func (f *FakeGateway) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

// StaticResponder always answers text
func StaticResponder(text string) Responder {
	return func(context.Context, string) (string, error) {
		return text, nil
	}
}

// MarkerResponder answers with the value of the first marker found in the
// prompt, checking markers longest first so specific markers win.
// Prompts with no marker get fallback.
func MarkerResponder(answers map[string]string, fallback string) Responder {
	markers := make([]string, 0, len(answers))
	for m := range answers {
		markers = append(markers, m)
	}
	sort.Slice(markers, func(i, j int) bool {
		if len(markers[i]) != len(markers[j]) {
			return len(markers[i]) > len(markers[j])
		}
		return markers[i] < markers[j]
	})
	return func(_ context.Context, prompt string) (string, error) {
		for _, m := range markers {
			if strings.Contains(prompt, m) {
				return answers[m], nil
			}
		}
		return fallback, nil
	}
}
