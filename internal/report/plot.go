package report

import (
	"fmt"
	"io"
	"strings"

	"crqa/internal/recurrence"
)

// SVG constants for plot generation.
const (
	svgVersion   = "1.1"
	svgNamespace = "http://www.w3.org/2000/svg"
)

// PlotConfig specifies options for recurrence plot rendering.
type PlotConfig struct {
	// Title is displayed above the plot.
	Title string
	// CellSize is the edge length of one matrix cell in pixels.
	// Default: chosen so the plot area is about 480px wide, at least 2px.
	CellSize int
	// Padding is the margin around the plot area.
	// Default: 60
	Padding int
	// TheilerWindow shades the excluded band around the line of incidence.
	// Default: 1 (main diagonal only)
	TheilerWindow int
	// Colors for recurrent points, excluded cells, and the background.
	PointColor      string
	WindowColor     string
	BackgroundColor string
	FontFamily      string
}

// DefaultPlotConfig returns a PlotConfig with sensible defaults.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Padding:         60,
		TheilerWindow:   1,
		PointColor:      "#1f2937",
		WindowColor:     "#fde68a",
		BackgroundColor: "#ffffff",
		FontFamily:      "Arial, sans-serif",
	}
}

// RecurrencePlotSVG renders the matrix as an SVG document. Rows (parent
// timepoints) run top to bottom and columns (child timepoints) left to right.
// An all-false matrix renders as an empty grid.
func RecurrencePlotSVG(m *recurrence.Matrix, cfg PlotConfig) string {
	defaults := DefaultPlotConfig()
	if cfg.Padding <= 0 {
		cfg.Padding = defaults.Padding
	}
	if cfg.TheilerWindow < 1 {
		cfg.TheilerWindow = defaults.TheilerWindow
	}
	if cfg.PointColor == "" {
		cfg.PointColor = defaults.PointColor
	}
	if cfg.WindowColor == "" {
		cfg.WindowColor = defaults.WindowColor
	}
	if cfg.BackgroundColor == "" {
		cfg.BackgroundColor = defaults.BackgroundColor
	}
	if cfg.FontFamily == "" {
		cfg.FontFamily = defaults.FontFamily
	}

	n := 0
	if m != nil {
		n = m.Size()
	}
	cell := cfg.CellSize
	if cell <= 0 {
		cell = 2
		if n > 0 && 480/n > cell {
			cell = 480 / n
		}
	}
	plot := n * cell
	width := plot + 2*cfg.Padding
	height := plot + 2*cfg.Padding

	var sb strings.Builder
	fmt.Fprintf(&sb, "<svg xmlns=\"%s\" version=\"%s\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		svgNamespace, svgVersion, width, height, width, height)
	fmt.Fprintf(&sb, "  <rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", cfg.BackgroundColor)
	if cfg.Title != "" {
		fmt.Fprintf(&sb, "  <text x=\"%d\" y=\"%d\" font-family=\"%s\" font-size=\"16\" text-anchor=\"middle\">%s</text>\n",
			width/2, cfg.Padding/2, escapeXML(cfg.FontFamily), escapeXML(cfg.Title))
	}

	fmt.Fprintf(&sb, "  <g transform=\"translate(%d,%d)\">\n", cfg.Padding, cfg.Padding)
	fmt.Fprintf(&sb, "    <g class=\"theiler-window\" fill=\"%s\">\n", cfg.WindowColor)
	for i := 0; i < n; i++ {
		lo := max(0, i-cfg.TheilerWindow+1)
		hi := min(n-1, i+cfg.TheilerWindow-1)
		fmt.Fprintf(&sb, "      <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\"/>\n",
			lo*cell, i*cell, (hi-lo+1)*cell, cell)
	}
	sb.WriteString("    </g>\n")

	fmt.Fprintf(&sb, "    <g class=\"recurrence\" fill=\"%s\">\n", cfg.PointColor)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.At(i, j) {
				fmt.Fprintf(&sb, "      <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\"/>\n", j*cell, i*cell, cell, cell)
			}
		}
	}
	sb.WriteString("    </g>\n")
	fmt.Fprintf(&sb, "    <rect width=\"%d\" height=\"%d\" fill=\"none\" stroke=\"#374151\" stroke-width=\"1\"/>\n", plot, plot)
	sb.WriteString("  </g>\n")

	fmt.Fprintf(&sb, "  <text x=\"%d\" y=\"%d\" font-family=\"%s\" font-size=\"12\" text-anchor=\"middle\">Child timepoint</text>\n",
		cfg.Padding+plot/2, height-cfg.Padding/3, escapeXML(cfg.FontFamily))
	fmt.Fprintf(&sb, "  <text x=\"%d\" y=\"%d\" font-family=\"%s\" font-size=\"12\" text-anchor=\"middle\" transform=\"rotate(-90, %d, %d)\">Parent timepoint</text>\n",
		cfg.Padding/3, cfg.Padding+plot/2, escapeXML(cfg.FontFamily), cfg.Padding/3, cfg.Padding+plot/2)
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteTextPlot renders the matrix as characters: '#' recurrent, '\' the
// line of incidence, '.' otherwise. Row 0 is printed first.
func WriteTextPlot(w io.Writer, m *recurrence.Matrix) error {
	if m == nil {
		return nil
	}
	n := m.Size()
	line := make([]byte, n+1)
	line[n] = '\n'
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case m.At(i, j):
				line[j] = '#'
			case i == j:
				line[j] = '\\'
			default:
				line[j] = '.'
			}
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// escapeXML escapes special characters for XML/SVG content.
func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
