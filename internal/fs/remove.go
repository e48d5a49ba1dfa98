package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// RemovePath deletes path if it exists. Directories are removed with all of
// their contents, anything else is unlinked. A path that does not exist is
// not an error, so calling RemovePath repeatedly is safe.
//
// It reports whether something was removed.
func RemovePath(path string) (bool, error) {
	// Lstat so that a symlink to a directory is unlinked rather than followed.
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return false, fmt.Errorf("remove directory %s: %w", path, err)
		}
		return true, nil
	}

	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("remove file %s: %w", path, err)
	}
	return true, nil
}
