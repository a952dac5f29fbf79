package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OutputWriteError reports that the rendered table could not be written.
// Earlier output at the same path is left in place.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error {
	return e.Err
}

// WriteFile renders into a temporary file next to path and renames it over
// path once rendering succeeded, so a failed run never leaves a truncated
// table behind.
func WriteFile(path string, render func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := render(tmp); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}

	return nil
}
