package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsTemporaryFile checks whether the path looks like an editor scratch or
// swap file that should not be tracked.
func IsTemporaryFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, ".tmp") ||
		strings.HasSuffix(name, ".swp") ||
		strings.HasSuffix(name, "~") ||
		strings.HasPrefix(name, ".")
}

// ListFiles returns every regular file under folder.
func ListFiles(folder string) ([]string, error) {
	var files []string
	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get file list: %v", err)
	}

	return files, nil
}
