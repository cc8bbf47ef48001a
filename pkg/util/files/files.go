package files

import (
	"fmt"
	"os"
	"path/filepath"
)

func Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	} else {
		return false, fmt.Errorf("Failed to determine if %s exists: %w", path, err)
	}
}

func IsDir(path string) (bool, error) {
	file, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return file.Mode().IsDir(), nil
}

// FirstRegular returns the first of names that is a regular file in dir, or
// "" if none is.
func FirstRegular(dir string, names ...string) (string, error) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		exists, err := Exists(path)
		if err != nil {
			return "", err
		}
		if !exists {
			continue
		}
		isDir, err := IsDir(path)
		if err != nil {
			return "", err
		}
		if !isDir {
			return path, nil
		}
	}
	return "", nil
}
