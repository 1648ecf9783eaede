package services

import (
	"context"
	"strings"
	"sync"
)

// fakeInference routes prompts by keyword and counts calls.
type fakeInference struct {
	mu       sync.Mutex
	generate func(prompt string) (string, error)
	embed    func(text string) ([]float32, error)
	calls    int
	embeds   int
}

func (f *fakeInference) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.generate == nil {
		return "", nil
	}
	return f.generate(prompt)
}

func (f *fakeInference) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embeds++
	f.mu.Unlock()
	if f.embed == nil {
		return []float32{1, 0}, nil
	}
	return f.embed(text)
}

func (f *fakeInference) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeInference) embedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.embeds
}

func byPromptKind(verbs, achievements string) func(string) (string, error) {
	return func(prompt string) (string, error) {
		if strings.Contains(prompt, "action verb") {
			return verbs, nil
		}
		return achievements, nil
	}
}
