// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

const (
	// SpinnerLine is a simple line spinner.
	SpinnerLine SpinnerType = iota
	// SpinnerDot is a dot spinner.
	SpinnerDot
	// SpinnerMiniDot is a mini dot spinner.
	SpinnerMiniDot
	// SpinnerJump is a jumping spinner.
	SpinnerJump
	// SpinnerPulse is a pulsing spinner.
	SpinnerPulse
	// SpinnerPoints is a points spinner.
	SpinnerPoints
	// SpinnerMeter is a meter spinner.
	SpinnerMeter
	// SpinnerEllipsis is an ellipsis spinner.
	SpinnerEllipsis
)

// defaultFrameInterval applies to frames given without a delay.
const defaultFrameInterval = 100 * time.Millisecond

// ErrInvalidSpinnerType is the sentinel error wrapped by InvalidSpinnerTypeError.
var ErrInvalidSpinnerType = errors.New("invalid spinner type")

type (
	// SpinnerType represents the type of spinner animation.
	SpinnerType int

	// InvalidSpinnerTypeError is returned when a spinner name is not known.
	InvalidSpinnerTypeError struct {
		Value string
	}

	// Spinner animates frames in place at the current cursor position. Each
	// frame is erased with backspaces before the next one is drawn, so text
	// written before Start stays on the line.
	Spinner struct {
		out   io.Writer
		spin  bspinner.Spinner
		style lipgloss.Style

		mu      sync.Mutex
		stop    chan struct{}
		done    chan struct{}
		drawn   int
		running bool
	}

	// SpinnerOption configures a Spinner.
	SpinnerOption func(*Spinner)
)

// Error implements the error interface.
func (e *InvalidSpinnerTypeError) Error() string {
	return fmt.Sprintf("invalid spinner type %q (valid: %s)", e.Value, strings.Join(SpinnerTypeNames(), ", "))
}

// Unwrap returns ErrInvalidSpinnerType so callers can use errors.Is for programmatic detection.
func (e *InvalidSpinnerTypeError) Unwrap() error { return ErrInvalidSpinnerType }

// String returns the name of the SpinnerType (e.g., "line", "dot").
func (t SpinnerType) String() string {
	names := SpinnerTypeNames()
	if int(t) >= 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// ParseSpinnerType parses a spinner name.
func ParseSpinnerType(s string) (SpinnerType, error) {
	for i, name := range SpinnerTypeNames() {
		if name == s {
			return SpinnerType(i), nil
		}
	}
	return 0, &InvalidSpinnerTypeError{Value: s}
}

// SpinnerTypeNames returns the list of available spinner type names, in
// SpinnerType order.
func SpinnerTypeNames() []string {
	return []string{"line", "dot", "minidot", "jump", "pulse", "points", "meter", "ellipsis"}
}

// frames converts SpinnerType to bubbles spinner frames.
func (t SpinnerType) frames() bspinner.Spinner {
	switch t {
	case SpinnerDot:
		return bspinner.Dot
	case SpinnerMiniDot:
		return bspinner.MiniDot
	case SpinnerJump:
		return bspinner.Jump
	case SpinnerPulse:
		return bspinner.Pulse
	case SpinnerPoints:
		return bspinner.Points
	case SpinnerMeter:
		return bspinner.Meter
	case SpinnerEllipsis:
		return bspinner.Ellipsis
	default:
		return bspinner.Line
	}
}

// WithType selects the animation.
func WithType(t SpinnerType) SpinnerOption {
	return func(s *Spinner) {
		s.spin = t.frames()
	}
}

// withFrames sets custom frames and the delay between them.
func withFrames(interval time.Duration, frames ...string) SpinnerOption {
	return func(s *Spinner) {
		s.spin = bspinner.Spinner{Frames: frames, FPS: interval}
	}
}

// WithStyle sets the style applied to every frame.
func WithStyle(style lipgloss.Style) SpinnerOption {
	return func(s *Spinner) {
		s.style = style
	}
}

// NewSpinner creates a stopped spinner drawing on out.
func NewSpinner(out io.Writer, opts ...SpinnerOption) *Spinner {
	s := &Spinner{
		out:   out,
		spin:  bspinner.MiniDot,
		style: lipgloss.NewStyle(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start draws the first frame and animates the rest until Stop. Starting a
// running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || len(s.spin.Frames) == 0 {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.draw(0)

	go s.loop(s.stop, s.done)
}

// Stop halts the animation and erases the last frame.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	s.erase()
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := s.spin.FPS
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			frame = (frame + 1) % len(s.spin.Frames)
			s.mu.Lock()
			s.erase()
			s.draw(frame)
			s.mu.Unlock()
		}
	}
}

// draw writes frame i; the caller holds mu.
func (s *Spinner) draw(i int) {
	f := s.spin.Frames[i]
	s.drawn = lipgloss.Width(f)
	fmt.Fprint(s.out, s.style.Render(f))
}

// erase backs over the last frame; the caller holds mu.
func (s *Spinner) erase() {
	if s.drawn == 0 {
		return
	}
	blank := strings.Repeat(" ", s.drawn)
	back := strings.Repeat("\b", s.drawn)
	fmt.Fprint(s.out, back+blank+back)
	s.drawn = 0
}
