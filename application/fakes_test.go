package application

import (
	"context"
	"errors"
	"io"
	"sync"

	"code-command-generator/domain"
)

// fakeProvider answers with a canned reply or error and records prompts.
type fakeProvider struct {
	name    string
	reply   string
	err     error
	block   bool
	prompts []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Attempt(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.reply, p.err
}

// fakeRemote is a domain.RemoteSynthesizer with a canned answer.
type fakeRemote struct {
	artifact string
	err      error
	requests []domain.SynthesisRequest
}

func (r *fakeRemote) RequestSynthesis(_ context.Context, req domain.SynthesisRequest) (string, error) {
	r.requests = append(r.requests, req)
	return r.artifact, r.err
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMapCache() *mapCache { return &mapCache{items: make(map[string]string)} }

func (c *mapCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Add(key, artifact string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = artifact
}

type fakeEmbedder struct {
	err error
}

func (e fakeEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([]domain.Embedding, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([]domain.Embedding, len(texts))
	for i := range texts {
		out[i] = domain.Embedding{1, 0, 0}
	}
	return out, nil
}

type fakeStore struct {
	hits     []domain.ArtifactRecord
	queryErr error
	upserted []domain.ArtifactRecord
}

func (s *fakeStore) Upsert(_ context.Context, records []domain.ArtifactRecord) error {
	s.upserted = append(s.upserted, records...)
	return nil
}

func (s *fakeStore) Query(_ context.Context, _ domain.Embedding, k int) ([]domain.ArtifactRecord, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if len(s.hits) > k {
		return s.hits[:k], nil
	}
	return s.hits, nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type insertCall struct {
	path  string
	line  int
	lines []string
}

type fakeEditor struct {
	calls []insertCall
}

func (e *fakeEditor) InsertAbove(path string, line int, lines []string) error {
	e.calls = append(e.calls, insertCall{path, line, lines})
	return nil
}

type fakeRunner struct {
	commands []string
	output   string
	err      error
}

func (r *fakeRunner) Run(_ context.Context, command string, out io.Writer) error {
	r.commands = append(r.commands, command)
	_, _ = io.WriteString(out, r.output)
	return r.err
}

// fakeReader serves file contents from a map; missing paths fail.
type fakeReader map[string]string

func (f fakeReader) ReadSource(path string) (string, error) {
	if c, ok := f[path]; ok {
		return c, nil
	}
	return "", errors.New("unreadable: " + path)
}
