// ABOUTME: Terminal presentation for interactive commands
// ABOUTME: Prints notifications, the unit being read and live captions with fatih/color

package main

import (
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"digests-a11y/core/domain"

	"github.com/fatih/color"
)

// Color scheme for the CLI
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	captionColor = color.New(color.FgHiWhite)
	dimColor     = color.New(color.Faint)
)

// captionWidth is how much trailing transcript fits on the caption line
const captionWidth = 100

// terminal is the highlighter and notification sink of interactive commands
type terminal struct {
	mu   sync.Mutex
	out  io.Writer
	seen map[string]bool

	// live is true while the caption line is being redrawn in place
	live bool
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out, seen: make(map[string]bool)}
}

// Notifications prints entries that were not shown before
func (t *terminal) Notifications(list []domain.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := make(map[string]bool, len(list))
	for _, n := range list {
		current[n.ID] = true
		if t.seen[n.ID] {
			continue
		}
		t.breakLineLocked()
		severityColor(n.Severity).Fprintf(t.out, "%s %s\n", severityIcon(n.Severity), n.Message)
	}
	t.seen = current
}

// Highlight shows which unit is being read
func (t *terminal) Highlight(unit domain.SpeakableUnit) {
	t.mu.Lock()
	defer t.mu.Unlock()
	dimColor.Fprintf(t.out, "» %s\n", domain.Preview(unit.Text))
}

// ClearHighlight has nothing to undo on a scrolling terminal
func (t *terminal) ClearHighlight() {}

// Caption redraws the live caption line with the tail of the transcript
func (t *terminal) Caption(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := utf8.RuneCountInString(text); n > captionWidth {
		text = "…" + string([]rune(text)[n-captionWidth:])
	}
	fmt.Fprint(t.out, "\r\033[K")
	captionColor.Fprint(t.out, text)
	t.live = true
}

// Println prints a line, ending the caption line first
func (t *terminal) Println(c *color.Color, format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.breakLineLocked()
	c.Fprintf(t.out, format+"\n", args...)
}

func (t *terminal) breakLineLocked() {
	if t.live {
		fmt.Fprintln(t.out)
		t.live = false
	}
}

func severityColor(s domain.Severity) *color.Color {
	switch s {
	case domain.SeveritySuccess:
		return successColor
	case domain.SeverityWarning:
		return warningColor
	case domain.SeverityError:
		return errorColor
	default:
		return infoColor
	}
}

func severityIcon(s domain.Severity) string {
	switch s {
	case domain.SeveritySuccess:
		return "✅"
	case domain.SeverityWarning:
		return "⚠️"
	case domain.SeverityError:
		return "❌"
	default:
		return "ℹ️"
	}
}
