package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/barchart/pkg/chart"
)

const (
	tickSize     = 6.0
	tickFontSize = 10.0
	fontFamily   = "sans-serif"
)

const tooltipCSS = `
    .bar { transition: opacity 0.2s ease; }
    .bar:hover { opacity: 0.8; }
    .tooltip { pointer-events: none; transition: opacity 0.2s ease; }`

// tooltipJS mirrors the engine's shared tooltip: text is the active measure
// and the hovered bar's value, offset (10, -28) from the pointer.
const tooltipJS = `
    const plot = document.querySelector('.plot');
    const tip = document.querySelector('.tooltip');
    const tipText = tip.querySelector('text');
    const measure = plot.dataset.measure;
    document.querySelectorAll('.bar').forEach(el => {
      el.addEventListener('mouseenter', ev => {
        const p = plot.getScreenCTM().inverse();
        const pt = new DOMPoint(ev.clientX, ev.clientY).matrixTransform(p);
        tipText.textContent = measure + ': ' + el.dataset.value;
        tip.setAttribute('transform', 'translate(' + (pt.x + 10) + ',' + (pt.y - 28) + ')');
        tip.style.opacity = 1;
      });
      el.addEventListener('mouseleave', () => { tip.style.opacity = 0; });
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title       string
	fontFamily  string
	interactive bool
}

// WithTitle adds a <title> element.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithFontFamily overrides the sans-serif default for all text.
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }

// WithInteractive embeds a hover script that drives the tooltip in the
// browser, so a static export still responds to the pointer.
func WithInteractive() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG draws f as a standalone SVG document.
func RenderSVG(f chart.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{fontFamily: fontFamily}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := f.TotalWidth(), f.TotalHeight()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		w, h, w, h, EscapeXML(r.fontFamily))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", EscapeXML(r.title))
	}

	fmt.Fprintf(&buf, `  <g class="plot" transform="translate(%.2f,%.2f)" data-measure="%s">`+"\n",
		f.Margin.Left, f.Margin.Top, EscapeXML(measureLabel(f)))
	renderBars(&buf, f)
	renderCategoryAxis(&buf, f)
	renderValueAxis(&buf, f)
	renderLabels(&buf, f)
	renderTooltip(&buf, f, r.interactive)
	buf.WriteString("  </g>\n")

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tooltipCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", tooltipJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func measureLabel(f chart.Frame) string {
	if len(f.Labels) > 1 {
		return f.Labels[1].Text
	}
	return ""
}

func renderBars(buf *bytes.Buffer, f chart.Frame) {
	for _, b := range f.Bars {
		fmt.Fprintf(buf, `    <rect class="bar" id="bar-%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" data-value="%s"/>`+"\n",
			EscapeXML(b.Key), b.X, b.Y, b.Width, b.Height, EscapeXML(b.Fill), formatValue(b.Value))
	}
}

func renderCategoryAxis(buf *bytes.Buffer, f chart.Frame) {
	fmt.Fprintf(buf, `    <g class="axis axis-bottom" transform="translate(0,%.2f)" fill="none" font-size="%.0f" text-anchor="middle">`+"\n",
		f.Height, tickFontSize)
	fmt.Fprintf(buf, `      <path class="domain" stroke="currentColor" d="M0,%.0fV0H%.2fV%.0f"/>`+"\n", tickSize, f.Width, tickSize)
	for _, tk := range f.CategoryAxis.Ticks {
		fmt.Fprintf(buf, `      <g class="tick" opacity="%.3f" transform="translate(%.2f,0)">`, tk.Opacity, tk.Pos)
		fmt.Fprintf(buf, `<line stroke="currentColor" y2="%.0f"/>`, tickSize)
		fmt.Fprintf(buf, `<text fill="currentColor" y="9" dy="0.71em" transform="rotate(-45)" text-anchor="end">%s</text></g>`+"\n",
			EscapeXML(tk.Label))
	}
	buf.WriteString("    </g>\n")
}

func renderValueAxis(buf *bytes.Buffer, f chart.Frame) {
	fmt.Fprintf(buf, `    <g class="axis axis-left" fill="none" font-size="%.0f" text-anchor="end">`+"\n", tickFontSize)
	fmt.Fprintf(buf, `      <path class="domain" stroke="currentColor" d="M-%.0f,%.2fH0V0H-%.0f"/>`+"\n", tickSize, f.Height, tickSize)
	for _, tk := range f.ValueAxis.Ticks {
		fmt.Fprintf(buf, `      <g class="tick" opacity="%.3f" transform="translate(0,%.2f)">`, tk.Opacity, tk.Pos)
		fmt.Fprintf(buf, `<line stroke="currentColor" x2="-%.0f"/>`, tickSize)
		fmt.Fprintf(buf, `<text fill="currentColor" x="-9" dy="0.32em">%s</text></g>`+"\n", EscapeXML(tk.Label))
	}
	buf.WriteString("    </g>\n")
}

func renderLabels(buf *bytes.Buffer, f chart.Frame) {
	for _, l := range f.Labels {
		fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" text-anchor="%s">%s</text>`+"\n",
			l.X, l.Y, EscapeXML(l.Anchor), EscapeXML(l.Text))
	}
}

// renderTooltip draws the tooltip group. Interactive documents always carry it
// so the script has something to move; static ones only when it is showing.
func renderTooltip(buf *bytes.Buffer, f chart.Frame, interactive bool) {
	tip := f.Tooltip
	if !tip.Visible() && !interactive {
		return
	}
	width := 8 + float64(len(tip.Text))*6.5
	fmt.Fprintf(buf, `    <g class="tooltip" opacity="%.3f" transform="translate(%.2f,%.2f)">`, tip.Opacity, tip.X, tip.Y)
	fmt.Fprintf(buf, `<rect width="%.1f" height="20" rx="3" fill="white" stroke="black"/>`, width)
	fmt.Fprintf(buf, `<text x="4" y="14" font-size="12">%s</text></g>`+"\n", EscapeXML(tip.Text))
}

func formatValue(v float64) string {
	return chart.Number(v).String()
}
