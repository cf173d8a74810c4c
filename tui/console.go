package tui

import (
	"strings"
	"sync"
)

// Console keeps the last lines written to it, for the debug pane
type Console struct {
	mu    sync.Mutex
	lines []string
	size  int
}

func NewConsole(size int) *Console {
	return &Console{size: size}
}

// Write splits p into lines; a partial trailing line is kept as its own line
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		c.lines = append(c.lines, l)
	}
	if over := len(c.lines) - c.size; over > 0 {
		c.lines = append([]string(nil), c.lines[over:]...)
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines, oldest first
func (c *Console) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}
