package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleOrange = lipgloss.NewStyle().Foreground(ColorOrange)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SeverityColor returns the style for a reconciliation severity.
func SeverityColor(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityCritical:
		return StyleRed
	case domain.SeverityMajor:
		return StyleOrange
	case domain.SeverityMinor:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// SeverityIndicator returns a colored marker such as "● CRITICAL".
func SeverityIndicator(s domain.Severity) string {
	label := strings.ToUpper(string(s))
	if s == "" || s == domain.SeverityNone {
		label = "OK"
	}
	return SeverityColor(s).Render("● " + label)
}

// StatusPill returns a colored indicator for a workflow status.
func StatusPill(s domain.Status) string {
	label := strings.ReplaceAll(string(s), "_", " ")
	switch s {
	case domain.StatusDraft:
		return StyleBlue.Render("○ " + label)
	case domain.StatusSubmitted, domain.StatusUnderReview:
		return StyleYellow.Render("◐ " + label)
	case domain.StatusApprovedByAgency, domain.StatusApprovedByCentral, domain.StatusInProgress:
		return StyleGreen.Render("● " + label)
	case domain.StatusReturned:
		return StyleRed.Render("↺ " + label)
	case domain.StatusLocked, domain.StatusCompleted:
		return StyleDim.Render("✔ " + label)
	default:
		return StyleDim.Render(label)
	}
}

// KindBadge returns a purple label for an entity kind.
func KindBadge(k domain.EntityKind) string {
	switch k {
	case domain.KindProject:
		return StylePurple.Render("Project")
	case domain.KindWorkProgramme:
		return StylePurple.Render("Work Programme")
	case domain.KindProcurementPlan:
		return StylePurple.Render("Procurement Plan")
	default:
		return StyleDim.Render(string(k))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
