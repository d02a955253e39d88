package utils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CreateFile will create a file at the given path and file name combination. If the path is the empty string, the
// file will be created in the current working directory
func CreateFile(path string, fileName string) (*os.File, error) {
	filePath := fileName
	if path != "" {
		// Make the directory, if it does not exist already
		if err := MakeDirectory(path); err != nil {
			return nil, err
		}
		filePath = filepath.Join(path, fileName)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return file, nil
}

// MakeDirectory creates a directory at the given path, including any parents, if it does not exist yet.
// Returns an error if the path exists and is not a directory.
func MakeDirectory(dirToMake string) error {
	info, err := os.Stat(dirToMake)
	if err == nil {
		if !info.IsDir() {
			return errors.Errorf("cannot create directory %q: a file with that name exists", dirToMake)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.MkdirAll(dirToMake, 0755))
}

// ReadFile reads the entire file at path, annotating any failure with a stack trace.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}
