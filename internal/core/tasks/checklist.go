package tasks

import (
	"bufio"
	"os"
	"strings"
)

// uncheckedPrefix matches actionable checklist lines. Checked lines
// ("- [x] ") and anything else are ignored.
const uncheckedPrefix = "- [ ] "

// Checklist reads the markdown-checkbox fallback task source. Every
// call re-reads the file; a missing or malformed file behaves as empty.
type Checklist struct {
	path string
}

// NewChecklist creates a checklist reader for the given file.
func NewChecklist(path string) *Checklist {
	return &Checklist{path: path}
}

// Path returns the checklist file path.
func (c *Checklist) Path() string { return c.path }

// Exists reports whether the checklist file is present.
func (c *Checklist) Exists() bool {
	if c.path == "" {
		return false
	}
	info, err := os.Stat(c.path)
	return err == nil && !info.IsDir()
}

// ReadyCount returns the number of unchecked lines.
func (c *Checklist) ReadyCount() int {
	count := 0
	c.scan(func(string) bool {
		count++
		return true
	})
	return count
}

// Next returns the title of the first unchecked line. File order is
// priority order.
func (c *Checklist) Next() (string, bool) {
	var title string
	found := false
	c.scan(func(t string) bool {
		title = t
		found = true
		return false
	})
	return title, found
}

// scan calls fn with the title of each unchecked line until fn returns
// false. Read failures behave as an empty checklist.
func (c *Checklist) scan(fn func(title string) bool) {
	f, err := os.Open(c.path)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, uncheckedPrefix) {
			continue
		}
		title := strings.TrimSpace(strings.TrimPrefix(line, uncheckedPrefix))
		if !fn(title) {
			return
		}
	}
}
