package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-pass-vault/internal/generator"
)

const (
	meterWidth = 20
	fairScore  = 40
)

var (
	weakStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	fairStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	strongStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	emptyStyle  = lipgloss.NewStyle().Faint(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// renderMeter draws a one-line bar for st, e.g. "██████░░░░ 60/100 fair".
func renderMeter(st generator.Strength) string {
	style, label := weakStyle, "weak"
	switch {
	case st.IsStrong:
		style, label = strongStyle, "strong"
	case st.Score >= fairScore:
		style, label = fairStyle, "fair"
	}

	filled := st.Score * meterWidth / 100
	bar := style.Render(strings.Repeat("█", filled)) + emptyStyle.Render(strings.Repeat("░", meterWidth-filled))

	return fmt.Sprintf("%s %3d/100 %s", bar, st.Score, style.Render(label))
}

// renderStrength is the meter followed by feedback and the zxcvbn
// estimate.
func renderStrength(st generator.Strength) string {
	var sb strings.Builder
	sb.WriteString(renderMeter(st))
	sb.WriteString("\n")
	for _, f := range st.Feedback {
		sb.WriteString("  - ")
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render(fmt.Sprintf("entropy ≈ %.0f bits, offline crack time: %s", st.EntropyBits, st.CrackTime)))
	sb.WriteString("\n")
	return sb.String()
}
