package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// RunHandler implements streamers.RunHandler for terminal output. Command
// confirmations print as-is; natural-language answers render as markdown
// through glamour.
type RunHandler struct {
	mu       sync.Mutex
	spinner  *spinner
	renderer *glamour.TermRenderer
}

// NewRunHandler creates a new CLI run handler
func NewRunHandler() *RunHandler {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	return &RunHandler{
		spinner:  newSpinner(),
		renderer: renderer,
	}
}

func (s *RunHandler) RunStarted(taskCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%s=== Running %d task(s) ===%s\n", ColorBold, ColorCyan, taskCount, ColorReset)
}

func (s *RunHandler) RunCompleted(taskCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%s=== Run completed: %d task(s) ===%s\n", ColorBold, ColorGreen, taskCount, ColorReset)
}

func (s *RunHandler) TaskStarted(index int, task string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("\n%s%s--- Task %d ---%s\n", ColorBold, ColorCyan, index+1, ColorReset)
	fmt.Printf("%s%s%s\n", ColorGray, task, ColorReset)
}

func (s *RunHandler) TaskInterpreting(index int, personaID string) {
	s.spinner.Start(fmt.Sprintf("Interpreting as %s%s%s...", ColorBold, personaID, ColorReset))
}

func (s *RunHandler) TaskCompleted(index int, message string) {
	s.spinner.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("%s✓%s %s\n", ColorGreen, ColorReset, s.renderOutcome(message))
}

func (s *RunHandler) TaskFailed(index int, err error) {
	s.spinner.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf("%s%s✗ Task %d failed: %v%s\n", ColorBold, ColorRed, index+1, err, ColorReset)
}

// renderOutcome formats a task's output for the terminal. Batch payloads and
// bare values print verbatim (truncated); anything that reads like prose goes
// through the markdown renderer.
func (s *RunHandler) renderOutcome(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return truncate(trimmed, 600)
	}
	if s.renderer != nil && strings.ContainsAny(trimmed, "\n#*`") {
		if out, err := s.renderer.Render(trimmed); err == nil {
			return strings.TrimSpace(out)
		}
	}
	return truncate(trimmed, 600)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
