package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	reportDirPermissions  os.FileMode = 0755
	reportFilePermissions os.FileMode = 0644
)

func nopClose() error { return nil }

// GetWriter returns defaultWriter when outputFile is blank. Otherwise it creates or truncates the file, along with
// any missing parent directories, and returns a function that closes it.
func GetWriter(fs afero.Fs, defaultWriter io.Writer, outputFile string) (io.Writer, func() error, error) {
	path := strings.TrimSpace(outputFile)
	if path == "" {
		return defaultWriter, nopClose, nil
	}

	if err := ensureDir(fs, filepath.Dir(path)); err != nil {
		return nil, nopClose, err
	}

	f, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, reportFilePermissions)
	if err != nil {
		return nil, nopClose, fmt.Errorf("unable to create report file: %w", err)
	}
	return f, f.Close, nil
}

func ensureDir(fs afero.Fs, dir string) error {
	info, err := fs.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := fs.MkdirAll(dir, reportDirPermissions); err != nil {
			return fmt.Errorf("unable to create report directory: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("unable to inspect report directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("output path does not contain a valid directory: %s", dir)
	}
	return nil
}
