package utils

import (
	"os"
	"path/filepath"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/parser"
)

// ParsedFile is a scanned Swift file together with its parse warnings
type ParsedFile struct {
	File        *models.SourceFile
	Diagnostics *spyerrors.Diagnostics
}

// FileReader reads and scans Swift files, caching results until the file changes
type FileReader struct {
	parser       *parser.Parser
	parseCache   *Cache[string, ParsedFile]
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		parser:       parser.NewParser(),
		parseCache:   NewCache[string, ParsedFile](),
		contentCache: NewCache[string, string](),
	}
}

// ParseSwiftFile scans a Swift file for @Spyable declarations
func (fr *FileReader) ParseSwiftFile(filePath string) (ParsedFile, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return ParsedFile{}, err
	}

	if cached, ok := fr.parseCache.Lookup(cleanPath); ok {
		return cached, nil
	}

	content, err := fr.ReadFile(cleanPath)
	if err != nil {
		return ParsedFile{}, err
	}
	file, diags, err := fr.parser.ParseSource(cleanPath, content)
	if err != nil {
		return ParsedFile{}, err
	}

	parsed := ParsedFile{File: file, Diagnostics: diags}
	_ = fr.parseCache.SetForFile(cleanPath, parsed, cleanPath)
	return parsed, nil
}

// ReadFile reads a file's content with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, ok := fr.contentCache.Lookup(cleanPath); ok {
		return cached, nil
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", spyerrors.WrapFileSystemError("read", cleanPath, err)
	}
	content := string(data)
	_ = fr.contentCache.SetForFile(cleanPath, content, cleanPath)
	return content, nil
}

// Invalidate drops cached results for a file
func (fr *FileReader) Invalidate(filePath string) {
	cleanPath := filepath.Clean(filePath)
	fr.parseCache.Delete(cleanPath)
	fr.contentCache.Delete(cleanPath)
}

// ClearCache drops every cached result
func (fr *FileReader) ClearCache() {
	fr.parseCache.Clear()
	fr.contentCache.Clear()
}

// CacheStats returns the parse cache counters
func (fr *FileReader) CacheStats() CacheStats {
	return fr.parseCache.Stats()
}

func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", spyerrors.New(spyerrors.FileSystemErrorCode, "file path cannot be empty")
	}
	return filepath.Clean(filePath), nil
}
