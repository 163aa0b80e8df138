package gotdir

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// PopupRenderer draws the translation in a framed box, the terminal stand-in
// for an editor popup.
type PopupRenderer struct {
	w        io.Writer
	maxWidth int
	mu       sync.Mutex
}

// NewPopupRenderer creates a popup surface writing to w. Lines wider than
// maxWidth cells are wrapped; maxWidth <= 0 selects 72.
func NewPopupRenderer(w io.Writer, maxWidth int) *PopupRenderer {
	if maxWidth <= 0 {
		maxWidth = 72
	}
	return &PopupRenderer{w: w, maxWidth: maxWidth}
}

// Render implements Renderer.
func (p *PopupRenderer) Render(ctx context.Context, res *Result) error {
	var lines []string
	for _, line := range strings.Split(res.Translation, "\n") {
		wrapped := runewidth.Wrap(line, p.maxWidth)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	if res.Original != "" {
		lines = append(lines, "", runewidth.Truncate("(corrected from: "+res.Original+")", p.maxWidth, "…"))
	}

	title := " " + res.Direction().String() + " "
	width := runewidth.StringWidth(title)
	for _, l := range lines {
		if lw := runewidth.StringWidth(l); lw > width {
			width = lw
		}
	}

	var b strings.Builder
	b.WriteString("┌─" + title + strings.Repeat("─", width-runewidth.StringWidth(title)) + "─┐\n")
	for _, l := range lines {
		b.WriteString("│ " + runewidth.FillRight(l, width) + " │\n")
	}
	b.WriteString("└" + strings.Repeat("─", width+2) + "┘\n")

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.w, b.String()); err != nil {
		return &RenderError{Surface: "popup", Cause: err}
	}
	return nil
}

// EchoRenderer prints the translation as a plain stream, the stand-in for the
// editor's echo area.
type EchoRenderer struct {
	w  io.Writer
	mu sync.Mutex
}

// NewEchoRenderer creates an echo surface writing to w.
func NewEchoRenderer(w io.Writer) *EchoRenderer {
	return &EchoRenderer{w: w}
}

// Render implements Renderer.
func (e *EchoRenderer) Render(ctx context.Context, res *Result) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if res.Original != "" {
		_, err = fmt.Fprintf(e.w, "[%s] %s\n(corrected from: %s)\n", res.Direction(), res.Translation, res.Original)
	} else {
		_, err = fmt.Fprintf(e.w, "[%s] %s\n", res.Direction(), res.Translation)
	}
	if err != nil {
		return &RenderError{Surface: "echo", Cause: err}
	}
	return nil
}

// ThresholdRenderer sends translations shorter than Threshold runes to the
// popup surface and longer ones to the echo surface.
type ThresholdRenderer struct {
	Threshold int
	Popup     Renderer
	Echo      Renderer
}

// NewThresholdRenderer creates a ThresholdRenderer with popup and echo surfaces
// on w. A threshold <= 0 selects DefaultPopupThreshold.
func NewThresholdRenderer(w io.Writer, threshold int) *ThresholdRenderer {
	if threshold <= 0 {
		threshold = DefaultPopupThreshold
	}
	return &ThresholdRenderer{
		Threshold: threshold,
		Popup:     NewPopupRenderer(w, 0),
		Echo:      NewEchoRenderer(w),
	}
}

// Surface returns "popup" or "echo" for the given result.
func (t *ThresholdRenderer) Surface(res *Result) string {
	if utf8.RuneCountInString(res.Translation) < t.Threshold {
		return "popup"
	}
	return "echo"
}

// Render implements Renderer.
func (t *ThresholdRenderer) Render(ctx context.Context, res *Result) error {
	if t.Surface(res) == "popup" {
		return t.Popup.Render(ctx, res)
	}
	return t.Echo.Render(ctx, res)
}

var (
	_ Renderer = (*PopupRenderer)(nil)
	_ Renderer = (*EchoRenderer)(nil)
	_ Renderer = (*ThresholdRenderer)(nil)
)
