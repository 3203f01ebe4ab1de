package operations

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrFileSystem marks failures to read, write or delete local files.
var ErrFileSystem = errors.New("filesystem operation failed")

// ErrInvalidSelection indicates a menu index that is not a number or is out
// of range.
var ErrInvalidSelection = errors.New("invalid selection")

func fsError(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrFileSystem)
}

// EnsureDirectoryExist creates dirPath and any missing parents.
func EnsureDirectoryExist(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fsError(err, "create backup directory %q", dirPath)
	}
	return nil
}

// RemoveFile deletes path. A file that is already gone is not an error.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fsError(err, "remove %q", path)
	}
	return nil
}
