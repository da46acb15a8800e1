package fitflow

import (
	"context"
	"log/slog"

	"github.com/quentel/fitflow/internal/logging"
	"github.com/quentel/fitflow/internal/steps"
	"github.com/quentel/fitflow/internal/workflow"
	"github.com/quentel/fitflow/pkg/adapters/file"
	"github.com/quentel/fitflow/pkg/adapters/memory"
	"github.com/quentel/fitflow/pkg/adapters/openai"
	"github.com/quentel/fitflow/pkg/adapters/tavily"
	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/ports"
	"github.com/quentel/fitflow/pkg/session"
)

// Version is the library version, surfaced by the CLI.
const Version = "0.1.0"

// DefaultModel is the completion model used unless WithCompleter
// overrides the adapter entirely.
const DefaultModel = "gpt-4o-mini"

// Coach is the high-level entry point for the library. It wraps the
// workflow engine and provides a simplified API for consumers.
type Coach struct {
	engine   *workflow.Engine
	sessions *session.Manager

	store     ports.StateStore
	locker    ports.DistributedLocker
	completer ports.Completer
	searcher  ports.Searcher
	artifacts ports.ArtifactStore
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	model     string
	maxRevs   int
}

// Option defines a functional option for configuring the Coach.
type Option func(*Coach)

// WithStore injects a session checkpoint store (default: in-memory).
func WithStore(store ports.StateStore) Option {
	return func(c *Coach) {
		c.store = store
	}
}

// WithLocker enables distributed session locking for multi-replica use.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(c *Coach) {
		c.locker = locker
	}
}

// WithCompleter injects the LLM adapter (default: OpenAI).
func WithCompleter(completer ports.Completer) Option {
	return func(c *Coach) {
		c.completer = completer
	}
}

// WithSearcher injects the web search adapter (default: Tavily).
func WithSearcher(searcher ports.Searcher) Option {
	return func(c *Coach) {
		c.searcher = searcher
	}
}

// WithArtifactStore injects where approved plans are written (default:
// the current directory).
func WithArtifactStore(artifacts ports.ArtifactStore) Option {
	return func(c *Coach) {
		c.artifacts = artifacts
	}
}

// WithModel selects the OpenAI model for the default completer.
func WithModel(model string) Option {
	return func(c *Coach) {
		c.model = model
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coach) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Coach) {
		c.hooks = hooks
	}
}

// WithMaxRevisions overrides the revision cap per session.
func WithMaxRevisions(n int) Option {
	return func(c *Coach) {
		c.maxRevs = n
	}
}

// New initializes a Coach. Without options it checkpoints sessions in
// memory, talks to OpenAI and Tavily using keys from the environment,
// and writes approved plans to the current directory.
func New(opts ...Option) (*Coach, error) {
	c := &Coach{
		logger: logging.NewNop(),
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		c.store = memory.New()
	}
	if c.completer == nil {
		c.completer = openai.New(c.model)
	}
	if c.searcher == nil {
		c.searcher = tavily.New()
	}
	if c.artifacts == nil {
		c.artifacts = file.NewArtifactStore(".")
	}

	sessionOpts := []session.Option{session.WithLogger(c.logger)}
	if c.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(c.locker))
	}
	c.sessions = session.NewManager(c.store, sessionOpts...)

	engineOpts := []workflow.Option{
		workflow.WithLogger(c.logger),
		workflow.WithHooks(c.hooks),
	}
	if c.maxRevs > 0 {
		engineOpts = append(engineOpts, workflow.WithMaxRevisions(c.maxRevs))
	}

	engine, err := workflow.New(c.sessions, &steps.Toolbox{
		LLM:       c.completer,
		Search:    c.searcher,
		Artifacts: c.artifacts,
		Logger:    c.logger,
	}, engineOpts...)
	if err != nil {
		return nil, err
	}
	c.engine = engine
	return c, nil
}

// Generate starts a new coaching session from a free-text goal
// description and runs it to the approval point (or a terminal state).
func (c *Coach) Generate(ctx context.Context, userInput string, includeYouTube bool) (string, *domain.WorkflowState, error) {
	return c.engine.Start(ctx, userInput, includeYouTube)
}

// Peek returns the last checkpoint of a session without advancing it.
func (c *Coach) Peek(ctx context.Context, sessionID string) (*domain.WorkflowState, error) {
	return c.engine.Peek(ctx, sessionID)
}

// Resume merges a patch into a paused session and continues execution.
// Most callers want Approve or RequestChanges instead.
func (c *Coach) Resume(ctx context.Context, sessionID string, patch map[string]any) (*domain.WorkflowState, error) {
	return c.engine.Resume(ctx, sessionID, patch)
}

// Approve accepts the drafted schedule and persists the plan artifact.
func (c *Coach) Approve(ctx context.Context, sessionID string) (*domain.WorkflowState, error) {
	return c.engine.Resume(ctx, sessionID, map[string]any{"feedback": domain.FeedbackApprove})
}

// RequestChanges sends revision feedback and re-drafts the schedule.
func (c *Coach) RequestChanges(ctx context.Context, sessionID, feedback string) (*domain.WorkflowState, error) {
	return c.engine.Resume(ctx, sessionID, map[string]any{"feedback": feedback})
}

// Sessions lists the IDs of stored sessions.
func (c *Coach) Sessions(ctx context.Context) ([]string, error) {
	return c.sessions.List(ctx)
}

// Delete removes a session checkpoint.
func (c *Coach) Delete(ctx context.Context, sessionID string) error {
	return c.sessions.Delete(ctx, sessionID)
}

// Manager exposes the underlying session manager for embedding in
// transports that need listing and deletion.
func (c *Coach) Manager() *session.Manager {
	return c.sessions
}

// Engine exposes the underlying workflow engine.
func (c *Coach) Engine() *workflow.Engine {
	return c.engine
}
