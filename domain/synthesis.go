package domain

import "context"

// ArtifactKind selects what a synthesis produces.
type ArtifactKind string

const (
	ArtifactCommand ArtifactKind = "command"
	ArtifactComment ArtifactKind = "comment"
)

// ParseArtifactKind validates a kind name.
func ParseArtifactKind(s string) (ArtifactKind, error) {
	switch ArtifactKind(s) {
	case ArtifactCommand, ArtifactComment:
		return ArtifactKind(s), nil
	case "":
		return ArtifactCommand, nil
	}
	return "", NewInvalidRequest("unknown artifact kind: " + s)
}

// SynthesisRequest is what a remote synthesizer receives.
type SynthesisRequest struct {
	Snippet  Snippet
	Language LanguageTag
	Kind     ArtifactKind
}

// Provider is one remote text-generation endpoint.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// Attempt sends the prompt once and returns the raw reply text.
	// Failures should be *GeneratorError values carrying a failure code.
	Attempt(ctx context.Context, prompt string) (string, error)
}

// RemoteSynthesizer produces an artifact through remote providers.
type RemoteSynthesizer interface {
	RequestSynthesis(ctx context.Context, req SynthesisRequest) (string, error)
}
