package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxSourceSize is the largest file read as a snippet source.
const maxSourceSize = 10 * 1024 * 1024

// knownTextExtensions are never treated as binary.
var knownTextExtensions = map[string]bool{
	".txt": true, ".md": true, ".json": true, ".xml": true, ".html": true, ".css": true,
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".go": true, ".c": true, ".cpp": true, ".h": true, ".java": true,
	".sh": true, ".bat": true, ".ps1": true, ".yaml": true, ".yml": true, ".toml": true,
	".ini": true, ".cfg": true, ".rb": true, ".php": true, ".rs": true, ".cs": true,
}

// SourceFiles reads snippet sources from disk and writes inserted comments back.
type SourceFiles struct{}

// ReadSource returns the content of a text file. Binary and oversized files are rejected.
func (SourceFiles) ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if len(data) > maxSourceSize {
		return "", fmt.Errorf("file too large (>10MB): %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !knownTextExtensions[ext] && isBinary(data) {
		return "", fmt.Errorf("skipping binary file: %s", path)
	}

	return string(data), nil
}

// ReadSelection returns lines start..end (1-based, inclusive) of the file.
// end <= 0 selects through the last line.
func (f SourceFiles) ReadSelection(path string, start, end int) (string, error) {
	content, err := f.ReadSource(path)
	if err != nil {
		return "", err
	}
	if start < 1 {
		start = 1
	}

	lines := strings.Split(content, "\n")
	if strings.HasSuffix(content, "\n") {
		lines = lines[:len(lines)-1]
	}
	if end <= 0 || end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return "", fmt.Errorf("selection %d:%d is outside %s (%d lines)", start, end, path, len(lines))
	}
	return strings.Join(lines[start-1:end], "\n"), nil
}

// InsertAbove inserts lines before the given 1-based line of the file.
// A line past the end appends to the file.
func (SourceFiles) InsertAbove(path string, line int, newLines []string) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read existing file: %w", err)
	}

	lines := strings.SplitAfter(string(content), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	idx := line - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(lines) {
		idx = len(lines)
	}
	if idx == len(lines) && idx > 0 && !strings.HasSuffix(lines[idx-1], "\n") {
		lines[idx-1] += "\n"
	}

	var b strings.Builder
	for _, l := range lines[:idx] {
		b.WriteString(l)
	}
	for _, l := range newLines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	for _, l := range lines[idx:] {
		b.WriteString(l)
	}

	if err := os.WriteFile(path, []byte(b.String()), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write file after insertion: %w", err)
	}
	return nil
}

// isBinary does a check to determine if data might be a binary file.
func isBinary(data []byte) bool {
	checkSize := min(1000, len(data))

	// UTF-8 BOM
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return false
	}

	// For short files (less than 32 bytes), assume they're text
	if checkSize < 32 {
		return false
	}

	controlCount := 0
	extendedASCIICount := 0
	nullCount := 0

	for i := 0; i < checkSize; i++ {
		b := data[i]
		if b == 0 {
			nullCount++
		} else if b < 9 || (b > 13 && b < 32 && b != 27) {
			controlCount++
		} else if b >= 128 && b <= 159 {
			extendedASCIICount++
		}
	}

	if looksLikeSource(data) {
		return nullCount > checkSize/50
	}

	return (nullCount > checkSize/1000) || (controlCount > checkSize/100) || (extendedASCIICount > checkSize/50)
}

// looksLikeSource checks the head of data for common source markers.
func looksLikeSource(data []byte) bool {
	markers := []string{
		"<!doctype", "<html", "<?xml", "{", "[", "//", "/*", "#!", "import ", "package ", "using ",
		"function ", "class ", "def ", "var ", "const ", "let ", "from ", "# ",
	}
	head := strings.ToLower(string(data[:min(100, len(data))]))
	for _, m := range markers {
		if strings.Contains(head, m) {
			return true
		}
	}
	return false
}
