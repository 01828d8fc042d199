package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a one-line status on a terminal until Stop is called or
// its context ends. The status text can change while it runs.
type Spinner struct {
	ctx context.Context
	out io.Writer

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing
	running bool
	quit    chan struct{}
	exited  chan struct{}
}

// newSpinner draws on stderr.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{ctx: ctx, out: w, message: message, quit: make(chan struct{})}
}

// SetMessage replaces the status text from the next frame on.
func (s *Spinner) SetMessage(format string, args ...any) {
	s.mu.Lock()
	s.message = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

// Start begins drawing. Only the first call has an effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.isStopped() {
		return
	}
	s.running = true
	s.exited = make(chan struct{})
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	s.width = max(s.width, lipgloss.Width(line))
	fmt.Fprint(s.out, "\r"+line)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprint(s.out, "\r"+strings.Repeat(" ", s.width)+"\r")
		s.width = 0
	}
}

// isStopped must be called with mu held.
func (s *Spinner) isStopped() bool {
	select {
	case <-s.quit:
		return true
	default:
		return false
	}
}

// Stop ends the animation and erases the line. Repeated calls and calls
// without Start are no-ops.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.isStopped() {
		s.mu.Unlock()
		return
	}
	close(s.quit)
	exited := s.exited
	s.mu.Unlock()

	if exited != nil {
		<-exited
	}
	s.clear()
}
