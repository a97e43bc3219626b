// Package template loads HTML email bodies from the filesystem.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNotFound is returned when the template file does not exist.
var ErrNotFound = errors.New("template file not found")

// Load reads the file at path and returns its contents as a UTF-8 string,
// verbatim. There is no template engine; the file is the body.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read template file: %w", err)
	}
	return string(data), nil
}
