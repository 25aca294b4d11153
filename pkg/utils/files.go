package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MakeDir creates a directory with all parent directories
func MakeDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ReadInput resolves a command-line argument to its text.
//
//	"-"      reads all of stdin
//	"@path"  reads the named file
//	other    is returned as-is
//
// Surrounding whitespace is trimmed in every case.
func ReadInput(arg string, stdin io.Reader) (string, error) {
	switch {
	case arg == "-":
		if stdin == nil {
			return "", fmt.Errorf("no stdin available")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", arg[1:], err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return strings.TrimSpace(arg), nil
	}
}

// WriteFileAtomic writes data to a temporary file in the target directory and
// renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := MakeDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move file from %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
