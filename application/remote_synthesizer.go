package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"code-command-generator/domain"
)

// DefaultAttemptTimeout bounds a single provider attempt.
const DefaultAttemptTimeout = 30 * time.Second

// FallbackChain implements domain.RemoteSynthesizer by trying providers in
// order until one returns usable text.
type FallbackChain struct {
	providers []domain.Provider
	timeout   time.Duration
	cache     domain.ArtifactCache
	store     domain.ArtifactStore
	embedder  domain.EmbeddingClient
	threshold float32
	logger    *zap.Logger
}

// ChainOption customises a FallbackChain.
type ChainOption func(*FallbackChain)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ChainOption {
	return func(c *FallbackChain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCache enables the exact-match artifact cache.
func WithCache(cache domain.ArtifactCache) ChainOption {
	return func(c *FallbackChain) { c.cache = cache }
}

// WithArtifactStore enables reuse of artifacts synthesized for near-identical
// snippets. Records scoring below threshold are ignored.
func WithArtifactStore(store domain.ArtifactStore, embedder domain.EmbeddingClient, threshold float32) ChainOption {
	return func(c *FallbackChain) {
		c.store = store
		c.embedder = embedder
		c.threshold = threshold
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ChainOption {
	return func(c *FallbackChain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewFallbackChain creates a chain over providers, tried in the given order.
//
// Without options each attempt is bounded by DefaultAttemptTimeout, nothing is
// cached and a no-op logger is used.
//
// Parameters:
//   - providers: The providers to try, first to last. May be empty.
//   - opts: Optional timeout, cache, artifact store and logger settings.
//
// Returns:
//   - *FallbackChain: The chain, ready to use as a domain.RemoteSynthesizer.
func NewFallbackChain(providers []domain.Provider, opts ...ChainOption) *FallbackChain {
	c := &FallbackChain{
		providers: providers,
		timeout:   DefaultAttemptTimeout,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Providers returns the configured provider names, in order.
func (c *FallbackChain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// RequestSynthesis implements domain.RemoteSynthesizer. Each provider is
// attempted once; the last failure is returned when all of them fail.
func (c *FallbackChain) RequestSynthesis(ctx context.Context, req domain.SynthesisRequest) (string, error) {
	if err := req.Snippet.Validate(); err != nil {
		return "", err
	}
	if len(c.providers) == 0 {
		return "", domain.NewNoProvider()
	}

	key := cacheKey(req)
	if c.cache != nil {
		if artifact, ok := c.cache.Get(key); ok {
			c.logger.Debug("artifact cache hit", zap.String("snippet_id", req.Snippet.ID))
			return artifact, nil
		}
	}

	embedding := c.embed(ctx, req)
	if artifact, ok := c.recall(ctx, req, embedding); ok {
		if c.cache != nil {
			c.cache.Add(key, artifact)
		}
		return artifact, nil
	}

	prompt := BuildPrompt(req)
	singleLine := req.Kind == domain.ArtifactComment

	var lastErr error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return "", domain.NewProviderFailure(domain.ErrTimeout, p.Name(), err)
		}

		artifact, err := c.attempt(ctx, p, prompt, singleLine)
		if err != nil {
			c.logger.Warn("provider attempt failed",
				zap.String("snippet_id", req.Snippet.ID),
				zap.String("provider", p.Name()),
				zap.String("code", string(domain.CodeOf(err))),
				zap.Error(err))
			lastErr = err
			continue
		}

		if singleLine {
			artifact = domain.EnsureCommentLine(artifact, req.Language)
		}
		c.logger.Debug("provider produced artifact",
			zap.String("snippet_id", req.Snippet.ID),
			zap.String("provider", p.Name()))

		if c.cache != nil {
			c.cache.Add(key, artifact)
		}
		c.remember(ctx, req, embedding, artifact)
		return artifact, nil
	}
	return "", lastErr
}

func (c *FallbackChain) attempt(ctx context.Context, p domain.Provider, prompt string, singleLine bool) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := p.Attempt(attemptCtx, prompt)
	if err != nil {
		var gErr *domain.GeneratorError
		if errors.As(err, &gErr) {
			failure := *gErr
			if failure.Provider == "" {
				failure.Provider = p.Name()
			}
			return "", &failure
		}
		code := domain.ErrUnknown
		if errors.Is(err, context.DeadlineExceeded) {
			code = domain.ErrTimeout
		}
		return "", domain.NewProviderFailure(code, p.Name(), err)
	}

	artifact, err := domain.SanitizeResponse(raw, singleLine)
	if err != nil {
		return "", domain.NewEmptyResponse(p.Name())
	}
	return artifact, nil
}

func (c *FallbackChain) embed(ctx context.Context, req domain.SynthesisRequest) domain.Embedding {
	if c.store == nil || c.embedder == nil {
		return nil
	}
	embeddings, err := c.embedder.GenerateEmbeddings(ctx, []string{req.Snippet.Content})
	if err != nil || len(embeddings) == 0 {
		c.logger.Warn("failed to embed snippet", zap.String("snippet_id", req.Snippet.ID), zap.Error(err))
		return nil
	}
	return embeddings[0]
}

// recall looks for an artifact stored for a near-identical snippet.
func (c *FallbackChain) recall(ctx context.Context, req domain.SynthesisRequest, embedding domain.Embedding) (string, bool) {
	if embedding == nil {
		return "", false
	}
	const topK = 3
	records, err := c.store.Query(ctx, embedding, topK)
	if err != nil {
		c.logger.Warn("artifact store query failed", zap.Error(err))
		return "", false
	}
	for _, r := range records {
		if r.Score >= c.threshold && r.Kind == req.Kind && r.Language == req.Language && r.Artifact != "" {
			c.logger.Debug("artifact store hit",
				zap.String("snippet_id", req.Snippet.ID),
				zap.String("record_id", r.ID),
				zap.Float32("score", r.Score))
			return r.Artifact, true
		}
	}
	return "", false
}

func (c *FallbackChain) remember(ctx context.Context, req domain.SynthesisRequest, embedding domain.Embedding, artifact string) {
	if embedding == nil {
		return
	}
	err := c.store.Upsert(ctx, []domain.ArtifactRecord{{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		Language:  req.Language,
		Content:   req.Snippet.Content,
		FilePath:  req.Snippet.FilePath,
		Artifact:  artifact,
		Embedding: embedding,
	}})
	if err != nil {
		c.logger.Warn("artifact store upsert failed", zap.Error(err))
	}
}

// cacheKey identifies a request by kind, language, file name and content.
func cacheKey(req domain.SynthesisRequest) string {
	h := sha256.New()
	for _, part := range []string{string(req.Kind), string(req.Language), req.Snippet.FileName(), req.Snippet.Content} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
