package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Cyan and gray carry most output; yellow is reserved for stars
// and warnings.
var (
	colorCyan   = lipgloss.Color("38")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("221")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle is used for chart titles and headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim is used for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue is used for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber is used for counts and sizes.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleWarning is used for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleOK       = lipgloss.NewStyle().Foreground(colorGreen)
	styleMuted    = lipgloss.NewStyle().Foreground(colorGray)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleSpinner  = lipgloss.NewStyle().Foreground(colorYellow)
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// stdout receives status output. Tests swap it.
var stdout io.Writer = os.Stdout

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleOK.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, StyleWarning.Render("! "+fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleMuted.Render("›")+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints where an artifact was written.
func printFile(location string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(location))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printStats(markers, segments int, cached bool) {
	fmt.Fprintln(stdout, statsLine(markers, segments, cached))
}

// statsLine summarises a chart: "  412 stars · 87 segments · fresh".
func statsLine(markers, segments int, cached bool) string {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d stars", markers))}
	if segments > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d segments", segments)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
