package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/boreholelog/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on stderr until stopped or until its
// context ends. The message can change while it runs.
type Spinner struct {
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started atomic.Bool

	mu      sync.Mutex
	message string
	width   int // widest message drawn, for clearing
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, out io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     out,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if s.started.Swap(true) {
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				if n := len(s.message) + 2; n > s.width {
					s.width = n
				}
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// SetMessage replaces the text next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+2))
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// =============================================================================
// Pipeline progress
// =============================================================================

// spinnerHooks reports page progress on a spinner while a render runs.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
	pages   atomic.Int64
}

func (h *spinnerHooks) OnLayoutStart(_ context.Context, borehole string, pages int) {
	h.pages.Store(int64(pages))
	h.spinner.SetMessage(fmt.Sprintf("Laying out %s (%d pages)...", borehole, pages))
}

func (h *spinnerHooks) OnPageComplete(_ context.Context, borehole string, page int, _ time.Duration, _ error) {
	h.spinner.SetMessage(fmt.Sprintf("Rendered %s page %d of %d...", borehole, page, h.pages.Load()))
}

// trackProgress routes pipeline events to s until the returned function is
// called.
func trackProgress(s *Spinner) (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(&spinnerHooks{spinner: s})
	return func() { observability.SetPipelineHooks(prev) }
}
