package utils

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
)

// GeneratedHeader is the first line of every file spyable writes
const GeneratedHeader = "// Code generated by spyable. DO NOT EDIT."

// FileProcessor provides utilities for walking Swift source trees
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{fileReader: NewFileReader()}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{fileReader: reader}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// SwiftFileFilter matches .swift files
func SwiftFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), ".swift")
	}
}

// ExcludeFilter wraps filter, rejecting paths matching any glob. Patterns
// are matched against the slash-separated path and the base name.
func ExcludeFilter(filter FileFilter, patterns []string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if MatchesAny(path, patterns) {
			return false
		}
		return filter(path, info)
	}
}

// MatchesAny reports whether path matches one of the glob patterns
func MatchesAny(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if dir := strings.TrimSuffix(pattern, "/**"); dir != pattern {
			if slashed == dir || strings.HasPrefix(slashed, dir+"/") || strings.Contains(slashed, "/"+dir+"/") {
				return true
			}
		}
	}
	return false
}

// DefaultDirectoryFilter skips build output, dependency checkouts and hidden directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"DerivedData":  true,
		"Pods":         true,
		"Carthage":     true,
		"node_modules": true,
		"build":        true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles walks a directory tree and returns matching files in lexical order
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return spyerrors.WrapFileSystemError("walk", path, err)
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})

	sort.Strings(matched)
	return matched, err
}

// SwiftFiles returns the hand-written Swift files under rootDir
func (fp *FileProcessor) SwiftFiles(rootDir string, exclude []string) ([]string, error) {
	files, err := fp.WalkFiles(rootDir, FileWalkOptions{
		FileFilter:      ExcludeFilter(SwiftFileFilter(), exclude),
		DirectoryFilter: DefaultDirectoryFilter(),
	})
	if err != nil {
		return nil, err
	}

	out := files[:0]
	for _, file := range files {
		generated, err := IsGenerated(file)
		if err != nil {
			return nil, err
		}
		if !generated {
			out = append(out, file)
		}
	}
	return out, nil
}

// GeneratedFiles returns every file under rootDir carrying the generated header
func (fp *FileProcessor) GeneratedFiles(rootDir string) ([]string, error) {
	files, err := fp.WalkFiles(rootDir, FileWalkOptions{
		FileFilter:      SwiftFileFilter(),
		DirectoryFilter: DefaultDirectoryFilter(),
		SkipErrors:      true,
	})
	if err != nil {
		return nil, err
	}

	var generated []string
	for _, file := range files {
		ok, err := IsGenerated(file)
		if err != nil {
			return nil, err
		}
		if ok {
			generated = append(generated, file)
		}
	}
	return generated, nil
}

// IsGenerated reports whether the file's first line is the generated header
func IsGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, spyerrors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()) == GeneratedHeader, nil
}

// RemoveFiles deletes files and returns the ones removed before any failure
func (fp *FileProcessor) RemoveFiles(paths []string) ([]string, error) {
	var removed []string
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, spyerrors.WrapFileSystemError("remove", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// GetFileReader returns the underlying FileReader
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
