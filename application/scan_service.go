package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"code-command-generator/domain"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
}

// SourceReader reads a whole source file.
type SourceReader interface {
	ReadSource(path string) (string, error)
}

// ScanOptions controls a directory scan.
type ScanOptions struct {
	Include []string
	Exclude []string
	Kind    domain.ArtifactKind
	Remote  RemotePolicy
}

// ScanResult is the outcome for one file.
type ScanResult struct {
	Path     string             `json:"path"`
	Language domain.LanguageTag `json:"language"`
	Result   Result             `json:"result"`
	Error    string             `json:"error,omitempty"`
}

// ScanReport summarises a scan.
type ScanReport struct {
	Results   []ScanResult   `json:"results"`
	Skipped   int            `json:"skipped"`
	Failed    int            `json:"failed"`
	FileStats map[string]int `json:"file_stats"`
}

// ScanService generates an artifact for every matching file in a tree.
type ScanService struct {
	generator *GeneratorService
	reader    SourceReader
	logger    *zap.Logger
}

// NewScanService creates a new ScanService.
func NewScanService(generator *GeneratorService, reader SourceReader, logger *zap.Logger) *ScanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{generator: generator, reader: reader, logger: logger}
}

// ScanDirectory walks rootDir and generates one artifact per matching file,
// treating each file as a whole-document snippet. Per-file failures are
// recorded in the report; only walk errors and cancellation abort the scan.
func (s *ScanService) ScanDirectory(ctx context.Context, rootDir string, opts ScanOptions) (*ScanReport, error) {
	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, domain.NewInvalidRequest("invalid pattern: " + p)
		}
	}
	if opts.Remote == "" {
		opts.Remote = RemoteNever
	}

	s.logger.Info("starting scan", zap.String("root", rootDir))
	report := &ScanReport{FileStats: make(map[string]int)}

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != rootDir && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(opts.Include, rel) || matchesAny(opts.Exclude, rel) {
			report.Skipped++
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = "(no extension)"
		}
		report.FileStats[ext]++

		report.Results = append(report.Results, s.scanFile(ctx, path, opts))
		if report.Results[len(report.Results)-1].Error != "" {
			report.Failed++
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("error walking directory %s: %w", rootDir, err)
	}

	sort.Slice(report.Results, func(i, j int) bool { return report.Results[i].Path < report.Results[j].Path })
	s.logger.Info("scan complete",
		zap.Int("files", len(report.Results)),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return report, nil
}

func (s *ScanService) scanFile(ctx context.Context, path string, opts ScanOptions) ScanResult {
	lang := domain.LanguageFromPath(path)
	out := ScanResult{Path: path, Language: lang}

	content, err := s.reader.ReadSource(path)
	if err != nil {
		s.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
		out.Error = err.Error()
		return out
	}

	result, err := s.generator.Generate(ctx, Request{
		Snippet:  domain.NewSnippet(content, path, 1),
		Language: lang,
		Kind:     opts.Kind,
		Remote:   opts.Remote,
	})
	if err != nil {
		out.Error = scanErrorText(err)
		return out
	}
	out.Result = result
	return out
}

// scanErrorText reports an empty file plainly; the user message for NO_CODE
// talks about an editor selection.
func scanErrorText(err error) string {
	var gErr *domain.GeneratorError
	if errors.As(err, &gErr) && gErr.Code == domain.ErrNoCode {
		return gErr.Message
	}
	return domain.UserMessage(err)
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
