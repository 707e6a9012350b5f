// Package envfile implements a key=value configuration file that can be updated in place.
//
// Reads are delegated to godotenv so that quoting, comments and 'export' prefixes follow the
// usual .env conventions. Updates rewrite only the line for the updated key: every other line,
// including comments and blank lines, is preserved byte for byte and in the same order.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns all the key/value pairs in the file.
func (s *Store) Load() (map[string]string, error) {
	values, err := godotenv.Read(s.path)
	if err != nil {
		return nil, fmt.Errorf("error reading %v (%w)", s.path, err)
	}

	return values, nil
}

// Get returns the value for key, or an empty string if the key is not defined.
func (s *Store) Get(key string) (string, error) {
	values, err := s.Load()
	if err != nil {
		return "", err
	}

	return values[key], nil
}

// Set replaces the line for key with key=value, appending it if the key is not already defined.
// The file is replaced atomically so a failed update leaves the original file intact.
func (s *Store) Set(key, value string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "=: \t\r\n") {
		return fmt.Errorf("invalid key '%v'", key)
	}

	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("invalid value for key '%v' - multiline values are not supported", key)
	}

	unlock, err := lock(s.path + ".lock")
	if err != nil {
		return fmt.Errorf("error locking %v (%w)", s.path, err)
	}

	defer unlock()

	mode := fs.FileMode(0600)
	b, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	return s.write(update(b, key, value), mode)
}

func (s *Store) write(b []byte, mode fs.FileMode) error {
	dir, file := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+file+".*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(b); err != nil {
		return err
	} else if err := tmp.Sync(); err != nil {
		return err
	} else if err := tmp.Close(); err != nil {
		return err
	} else if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// update replaces the value of every line that defines key, in any of the forms godotenv reads
// ('KEY=v', 'KEY = v', 'export KEY=v', 'KEY: v'), keeping the line's own prefix and line ending.
// The key is appended if no line defines it.
func update(b []byte, key, value string) []byte {
	definition := regexp.MustCompile(`^(\s*(?:export\s+)?` + regexp.QuoteMeta(key) + `\s*[=:]\s*)`)

	var out strings.Builder
	found := false

	for _, line := range strings.SplitAfter(string(b), "\n") {
		if line == "" {
			continue
		}

		match := definition.FindStringSubmatch(line)
		if match == nil {
			out.WriteString(line)
			continue
		}

		found = true
		replacement := match[1] + value
		switch {
		case strings.HasSuffix(line, "\r\n"):
			out.WriteString(replacement + "\r\n")
		case strings.HasSuffix(line, "\n"):
			out.WriteString(replacement + "\n")
		default:
			out.WriteString(replacement)
		}
	}

	if !found {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteString("\n")
		}

		out.WriteString(key + "=" + value + "\n")
	}

	return []byte(out.String())
}
