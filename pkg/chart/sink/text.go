package sink

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/barchart/pkg/chart"
)

// eighths are the partial block glyphs, from one eighth to a full cell.
var eighths = []rune{'▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// TextOption configures terminal rendering.
type TextOption func(*textRenderer)

type textRenderer struct {
	width int
	plain bool
}

// WithColumns sets the widest bar in terminal cells (default 40).
func WithColumns(n int) TextOption { return func(r *textRenderer) { r.width = n } }

// WithPlain disables ANSI styling.
func WithPlain() TextOption { return func(r *textRenderer) { r.plain = true } }

// RenderText draws f as horizontal bars, one line per category in domain
// order. Bar length follows the animated height, so successive frames of a
// transition render as a terminal animation.
func RenderText(f chart.Frame, opts ...TextOption) string {
	r := textRenderer{width: 40}
	for _, opt := range opts {
		opt(&r)
	}

	barStyle := lipgloss.NewStyle()
	dim := lipgloss.NewStyle()
	if !r.plain {
		fill := fillColor("")
		if len(f.Bars) > 0 {
			fill = fillColor(f.Bars[0].Fill)
		}
		barStyle = barStyle.Foreground(lipgloss.Color(hexColor(fill)))
		dim = dim.Faint(true)
	}

	keyWidth := 0
	for _, b := range f.Bars {
		keyWidth = max(keyWidth, utf8.RuneCountInString(b.Key))
	}

	var sb strings.Builder
	if len(f.Labels) > 1 {
		fmt.Fprintf(&sb, "%s by %s\n", f.Labels[1].Text, f.Labels[0].Text)
	}
	for _, b := range f.Bars {
		cells := 0.0
		if f.Height > 0 {
			cells = b.Height / f.Height * float64(r.width)
		}
		bar := blocks(cells)
		pad := strings.Repeat(" ", max(0, r.width-utf8.RuneCountInString(bar)))
		fmt.Fprintf(&sb, "%-*s %s%s %s\n", keyWidth, b.Key, barStyle.Render(bar), pad, dim.Render(formatValue(b.Value)))
	}
	if tip := f.Tooltip; tip.Visible() {
		fmt.Fprintf(&sb, "%s\n", dim.Render("» "+tip.Text))
	}
	return sb.String()
}

// blocks renders a bar of n cells at eighth-cell resolution.
func blocks(n float64) string {
	if n <= 0 || math.IsNaN(n) {
		return ""
	}
	eights := int(math.Round(n * 8))
	full, rem := eights/8, eights%8
	s := strings.Repeat(string(eighths[7]), full)
	if rem > 0 {
		s += string(eighths[rem-1])
	}
	return s
}
