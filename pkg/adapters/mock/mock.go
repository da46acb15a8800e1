// Package mock provides scripted implementations of the LLM and search
// ports for tests and offline runs.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/quentel/fitflow/pkg/ports"
)

// Rule maps a prompt substring to a canned response. Rules are checked
// in order and the first match wins.
type Rule struct {
	Match    string
	Response string
	Err      error
}

// Completer replays scripted responses and records every prompt it sees.
type Completer struct {
	mu      sync.Mutex
	rules   []Rule
	prompts []string
}

// NewCompleter creates a Completer with the given rules.
func NewCompleter(rules ...Rule) *Completer {
	return &Completer{rules: rules}
}

// Add appends a rule after construction.
func (c *Completer) Add(rule Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, rule)
}

// Complete implements ports.Completer.
func (c *Completer) Complete(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	for _, r := range c.rules {
		if strings.Contains(prompt, r.Match) {
			if r.Err != nil {
				return "", r.Err
			}
			return r.Response, nil
		}
	}
	return "", fmt.Errorf("mock: no rule matches prompt %q", truncate(prompt, 80))
}

// Prompts returns a copy of every prompt received so far.
func (c *Completer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// CallCount returns how many completions were requested.
func (c *Completer) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Searcher returns a fixed result set, or a fixed error.
type Searcher struct {
	mu      sync.Mutex
	Results []ports.SearchResult
	Err     error
	queries []string
}

// NewSearcher creates a Searcher that returns the given results.
func NewSearcher(results ...ports.SearchResult) *Searcher {
	return &Searcher{Results: results}
}

// Search implements ports.Searcher.
func (s *Searcher) Search(_ context.Context, query string, limit int) ([]ports.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.Err != nil {
		return nil, s.Err
	}
	results := s.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	out := make([]ports.SearchResult, len(results))
	copy(out, results)
	return out, nil
}

// Queries returns a copy of every query received so far.
func (s *Searcher) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// ArtifactRecorder captures rendered artifacts in memory.
type ArtifactRecorder struct {
	mu       sync.Mutex
	Contents map[string]string
}

// NewArtifactRecorder creates an empty recorder.
func NewArtifactRecorder() *ArtifactRecorder {
	return &ArtifactRecorder{Contents: make(map[string]string)}
}

// Write implements ports.ArtifactStore.
func (a *ArtifactRecorder) Write(_ context.Context, name string, content []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Contents[name] = string(content)
	return fmt.Sprintf("Successfully saved plan to %s", name), nil
}

// Get returns the recorded content for name.
func (a *ArtifactRecorder) Get(name string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.Contents[name]
	return c, ok
}
