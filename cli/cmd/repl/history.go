package repl

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// baseHistory is the file name of the persisted input history.
const baseHistory = "history.utf8"

// History is a persistent, append-only input history.
type History struct {
	path    string
	entries []string
}

// NewHistory creates a History backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads all persisted entries. A missing file is not an error.
func (h *History) Load() error {
	f, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}

	return s.Err()
}

// Write appends one entry in memory and to the backing file.
// Consecutive duplicates are dropped.
func (h *History) Write(entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	h.entries = append(h.entries, entry)

	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(
		h.path,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0o600,
	)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = f.WriteString(entry + "\n")

	return err
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Get returns the entry at index i, or an empty string when out of range.
func (h *History) Get(i int) string {
	if i < 0 || i >= len(h.entries) {
		return ""
	}

	return h.entries[i]
}
