package application

import (
	"context"

	"go.uber.org/zap"

	"code-command-generator/domain"
)

// RemotePolicy decides when the remote synthesizer is consulted.
type RemotePolicy string

const (
	// RemoteNever uses rule-based synthesis only.
	RemoteNever RemotePolicy = "never"
	// RemoteAuto asks the remote synthesizer only for unclassified snippets.
	RemoteAuto RemotePolicy = "auto"
	// RemoteAlways always asks the remote synthesizer.
	RemoteAlways RemotePolicy = "always"
)

// ParseRemotePolicy validates a policy name. Empty means auto.
func ParseRemotePolicy(s string) (RemotePolicy, error) {
	switch RemotePolicy(s) {
	case RemoteNever, RemoteAuto, RemoteAlways:
		return RemotePolicy(s), nil
	case "":
		return RemoteAuto, nil
	}
	return "", domain.NewInvalidRequest("remote must be never, auto or always, got " + s)
}

// Source values reported in a Result.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Request describes one generation.
type Request struct {
	Snippet  domain.Snippet
	Language domain.LanguageTag
	Kind     domain.ArtifactKind
	Remote   RemotePolicy
}

// Result is a generated artifact and how it was produced.
type Result struct {
	SnippetID string              `json:"snippet_id"`
	Kind      domain.ArtifactKind `json:"kind"`
	Artifact  string              `json:"artifact"`
	Category  domain.Category     `json:"category"`
	Source    string              `json:"source"`
}

// GeneratorService turns snippets into commands or comments.
type GeneratorService struct {
	remote domain.RemoteSynthesizer
	logger *zap.Logger
}

// NewGeneratorService creates a GeneratorService. remote may be nil, in
// which case only rule-based synthesis is available.
func NewGeneratorService(remote domain.RemoteSynthesizer, logger *zap.Logger) *GeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{remote: remote, logger: logger}
}

// Classify validates the snippet and returns its classification.
func (s *GeneratorService) Classify(snippet domain.Snippet, lang domain.LanguageTag) (domain.Classification, error) {
	if err := snippet.Validate(); err != nil {
		return domain.Classification{}, err
	}
	return domain.Classify(snippet.Content, lang), nil
}

// Generate produces the requested artifact.
//
// Empty snippets are rejected before classification. The snippet is then
// classified and an artifact synthesized locally. Depending on req.Remote the
// remote synthesizer may be asked instead: always for RemoteAlways, and only
// for unclassified code under RemoteAuto. Remote failures are returned to the
// caller and never replaced by the local artifact.
//
// Parameters:
//   - ctx: The context for any remote call.
//   - req: The snippet, its language, the artifact kind and the remote policy.
//
// Returns:
//   - Result: The artifact with its category and source ("local" or "remote").
//   - error: A *domain.GeneratorError for empty input, a missing provider or a
//     remote failure.
func (s *GeneratorService) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.Snippet.Validate(); err != nil {
		return Result{}, err
	}
	if req.Kind == "" {
		req.Kind = domain.ArtifactCommand
	}
	if req.Remote == "" {
		req.Remote = RemoteAuto
	}

	classification := domain.Classify(req.Snippet.Content, req.Language)
	result := Result{
		SnippetID: req.Snippet.ID,
		Kind:      req.Kind,
		Category:  classification.Category,
		Source:    SourceLocal,
	}

	logger := s.logger.With(
		zap.String("snippet_id", req.Snippet.ID),
		zap.String("language", string(req.Language)),
		zap.String("kind", string(req.Kind)),
		zap.String("category", string(classification.Category)))

	if s.useRemote(req.Remote, classification) {
		if s.remote == nil {
			return Result{}, domain.NewNoProvider()
		}
		logger.Debug("requesting remote synthesis", zap.String("policy", string(req.Remote)))
		artifact, err := s.remote.RequestSynthesis(ctx, domain.SynthesisRequest{
			Snippet:  req.Snippet,
			Language: req.Language,
			Kind:     req.Kind,
		})
		if err != nil {
			logger.Warn("remote synthesis failed", zap.Error(err))
			return Result{}, err
		}
		result.Artifact = artifact
		result.Source = SourceRemote
		return result, nil
	}

	switch req.Kind {
	case domain.ArtifactComment:
		result.Artifact = domain.SynthesizeCommentFor(req.Snippet.Content, req.Language)
	default:
		result.Artifact = domain.SynthesizeCommand(req.Snippet, req.Language)
	}
	logger.Debug("generated local artifact")
	return result, nil
}

func (s *GeneratorService) useRemote(policy RemotePolicy, c domain.Classification) bool {
	switch policy {
	case RemoteAlways:
		return true
	case RemoteAuto:
		return s.remote != nil && c.Category == domain.CategoryUnclassified
	}
	return false
}
