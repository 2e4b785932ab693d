package text

import "fmt"

// Console keeps the most recent rows lines of a scrolling log
type Console struct {
	rows  int
	lines []string
}

// NewConsole returns a console holding at most rows lines
func NewConsole(rows int) *Console {
	if rows < 1 {
		rows = 1
	}
	return &Console{rows: rows}
}

// Println appends a line, dropping the oldest once full
func (c *Console) Println(line string) {
	c.lines = append(c.lines, line)
	if over := len(c.lines) - c.rows; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
}

// Printf formats and appends a line
func (c *Console) Printf(format string, args ...any) {
	c.Println(fmt.Sprintf(format, args...))
}

// Lines returns the visible lines, oldest first
func (c *Console) Lines() []string {
	return c.lines
}
