package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/posterkit/pkg/convert"
)

var (
	colorCyan  = lipgloss.Color("36")  // primary
	colorGreen = lipgloss.Color("35")  // success, selection
	colorAmber = lipgloss.Color("220") // warnings
	colorRed   = lipgloss.Color("167") // errors
	colorBlue  = lipgloss.Color("75")  // links, commands
	colorWhite = lipgloss.Color("255") // values
	colorGray  = lipgloss.Color("245") // headers, secondary
	colorDim   = lipgloss.Color("240") // borders, muted
)

// Styles shared by commands and tables.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleHeader    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorAmber)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh       = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	sep         = " · "
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file under the preceding status line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// renderStatsLine formats poster size, elapsed time and cache status, e.g.
// "2550×3300 px · 412ms · fresh".
func renderStatsLine(w, h int, elapsed time.Duration, cached bool) string {
	var parts []string
	if w > 0 && h > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d×%d px", w, h)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		if elapsed > 0 {
			parts = append(parts, StyleDim.Render(elapsed.Round(time.Millisecond).String()))
		}
		parts = append(parts, styleFresh.Render("fresh"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(sep))
}

func printRenderStats(w, h int, elapsed time.Duration, cached bool) {
	fmt.Println(renderStatsLine(w, h, elapsed, cached))
}

// printConvertReport prints one line per converted, skipped or failed file.
func printConvertReport(r *convert.Report) {
	if len(r.Results) == 0 {
		printInfo("No .pptx or .pdf files in %s", r.Dir)
		return
	}
	for _, res := range r.Results {
		name := filepath.Base(res.Source)
		switch res.Status {
		case convert.StatusConverted:
			printSuccess("%s %s", name, StyleDim.Render(res.Duration.Round(time.Millisecond).String()))
			printFile(res.Output)
		case convert.StatusSkipped:
			printWarning("%s skipped: %s", name, res.Reason)
		case convert.StatusFailed:
			printError("%s: %v", name, res.Err)
		}
	}
}
