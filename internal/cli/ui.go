package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// uiOut receives status lines. Tables may be going to stdout, so status
// never does.
var uiOut io.Writer = os.Stderr

func printSuccess(format string, args ...any) {
	fmt.Fprintln(uiOut, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(uiOut, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(uiOut, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints "→ path" for a written output.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printStats prints feature counts and cache status on one line, for
// example "  1 gene · 2 CDS · 3 segments · fresh".
func printStats(genes, cdses, segments int, cached bool) {
	parts := []string{styleCached.Render("cached")}
	if !cached {
		parts = []string{
			styleNumber.Render(plural(genes, "gene", "genes")),
			styleNumber.Render(plural(cdses, "CDS", "CDS")),
			styleNumber.Render(plural(segments, "segment", "segments")),
			styleComputed.Render("fresh"),
		}
	}
	fmt.Fprintln(uiOut, "  "+strings.Join(parts, styleDim.Render(" · ")))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
