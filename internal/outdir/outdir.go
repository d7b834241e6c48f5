// Package outdir makes sure the report output directory exists.
package outdir

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// DirPerm is the permission used for created directories.
const DirPerm os.FileMode = 0o750

var (
	// ErrNotDirectory is returned when the output path exists but is not a directory.
	ErrNotDirectory = errors.New("output path exists but is not a directory")

	// ErrCreateDirectory is returned when the output directory cannot be created.
	ErrCreateDirectory = errors.New("could not create output directory")
)

// Ensure creates dir (and missing parents) unless it already exists.
// created reports whether this call created it. An existing directory is
// left untouched.
func Ensure(fs afero.Fs, dir string) (created bool, err error) {
	info, err := fs.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("%w: %s: %w", ErrCreateDirectory, dir, err)
	}

	if err := fs.MkdirAll(dir, DirPerm); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCreateDirectory, dir, err)
	}
	return true, nil
}
