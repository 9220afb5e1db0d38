package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/utils"
)

// RecursiveSuffix marks a directory argument that is scanned recursively
const RecursiveSuffix = "/..."

// DirectoryScanner resolves command-line targets to Swift source files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
	exclude       []string
}

// NewDirectoryScanner creates a new directory scanner skipping files that match exclude
func NewDirectoryScanner(processor *utils.FileProcessor, exclude []string) *DirectoryScanner {
	if processor == nil {
		processor = utils.NewFileProcessor()
	}
	return &DirectoryScanner{fileProcessor: processor, exclude: exclude}
}

// ScanTargets returns the absolute, de-duplicated, sorted source files named
// by targets. "dir/..." scans recursively, a plain directory only its direct
// files, and a file path is used as is.
func (s *DirectoryScanner) ScanTargets(targets []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(paths ...string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}

	for _, target := range targets {
		recursive := strings.HasSuffix(target, RecursiveSuffix) || target == "..."
		base := strings.TrimSuffix(strings.TrimSuffix(target, RecursiveSuffix), "...")
		if base == "" {
			base = "."
		}

		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, spyerrors.WrapFileSystemError("resolve", base, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, spyerrors.WrapFileSystemError("stat", base, err)
		}

		switch {
		case !info.IsDir():
			add(abs)
		case recursive:
			found, err := s.fileProcessor.SwiftFiles(abs, s.exclude)
			if err != nil {
				return nil, err
			}
			add(found...)
		default:
			found, err := s.directFiles(abs)
			if err != nil {
				return nil, err
			}
			add(found...)
		}
	}

	sort.Strings(files)
	return files, nil
}

// directFiles lists the Swift sources directly inside dir
func (s *DirectoryScanner) directFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, spyerrors.WrapFileSystemError("read", dir, err)
	}
	filter := utils.ExcludeFilter(utils.SwiftFileFilter(), s.exclude)

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() || !filter(path, entry) {
			continue
		}
		if generated, err := utils.IsGenerated(path); err == nil && generated {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// ScanRoots returns the directories named by targets, with the recursive
// suffix removed. File targets resolve to their directory.
func ScanRoots(targets []string) ([]string, error) {
	var roots []string
	seen := make(map[string]bool)
	for _, target := range targets {
		base := strings.TrimSuffix(strings.TrimSuffix(target, RecursiveSuffix), "...")
		if base == "" {
			base = "."
		}
		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, spyerrors.WrapFileSystemError("resolve", base, err)
		}
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		if !seen[abs] {
			seen[abs] = true
			roots = append(roots, abs)
		}
	}
	return roots, nil
}
