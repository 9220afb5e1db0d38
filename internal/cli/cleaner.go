package cli

import (
	"github.com/toyz/spyable/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{fileProcessor: utils.NewFileProcessor()}
}

// CleanGeneratedFiles removes every file carrying the generated header
// under the target directories and returns the removed paths. With dryRun
// the files are only listed.
func (c *Cleaner) CleanGeneratedFiles(targets []string, dryRun bool) ([]string, error) {
	roots, err := ScanRoots(targets)
	if err != nil {
		return nil, err
	}

	var found []string
	seen := make(map[string]bool)
	for _, root := range roots {
		files, err := c.fileProcessor.GeneratedFiles(root)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if !seen[file] {
				seen[file] = true
				found = append(found, file)
			}
		}
	}

	if dryRun {
		return found, nil
	}
	return c.fileProcessor.RemoveFiles(found)
}
