package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CheckStatus is the outcome of one doctor check.
type CheckStatus int

const (
	CheckOK CheckStatus = iota
	CheckWarn
	CheckFail
)

type DoctorRenderer struct {
	theme *Theme
}

func NewDoctorRenderer(theme *Theme) *DoctorRenderer {
	return &DoctorRenderer{theme: theme}
}

type DoctorReport struct {
	Sections []DoctorSection
}

// OK reports whether no check failed. Warnings do not count.
func (r DoctorReport) OK() bool {
	for _, s := range r.Sections {
		for _, c := range s.Checks {
			if c.Status == CheckFail {
				return false
			}
		}
	}
	return true
}

type DoctorSection struct {
	Title  string
	Icon   string
	Checks []DoctorCheck
}

type DoctorCheck struct {
	Name   string
	Status CheckStatus
	Detail string
}

func (r *DoctorRenderer) Render(report DoctorReport) string {
	header := r.renderHeader(report.OK())

	sections := make([]string, 0, len(report.Sections))
	for _, s := range report.Sections {
		sections = append(sections, r.renderSection(s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(sections, "\n\n"))
}

func (r *DoctorRenderer) renderHeader(ok bool) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	statusStyle := r.theme.SuccessStyle
	statusText := "OK"
	if !ok {
		statusStyle = r.theme.WarningStyle
		statusText = "Needs attention"
	}

	title := fmt.Sprintf("%s %s", iconStyle.Render(IconDoctor), r.theme.Title.Render("Doctor"))
	badge := r.theme.BadgeMuted.Render(statusStyle.Render(statusText))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)
}

func (r *DoctorRenderer) renderSection(s DoctorSection) string {
	lines := make([]string, 0, len(s.Checks))
	for _, c := range s.Checks {
		lines = append(lines, r.renderCheck(c))
	}

	icon := s.Icon
	if icon == "" {
		icon = IconPackage
	}
	head := r.theme.BoxHeader.Render(fmt.Sprintf("%s %s", r.theme.Highlight.Render(icon), s.Title))
	return r.theme.Box.Render(head + "\n" + strings.Join(lines, "\n"))
}

func (r *DoctorRenderer) renderCheck(c DoctorCheck) string {
	icon, style, status := IconCheck, r.theme.SuccessStyle, "OK"
	switch c.Status {
	case CheckWarn:
		icon, style, status = IconWarning, r.theme.WarningStyle, "Warning"
	case CheckFail:
		icon, style, status = IconX, r.theme.ErrorStyle, "Failed"
	}

	line := fmt.Sprintf("%s %s %s", style.Render(icon), r.theme.Normal.Render(c.Name), r.theme.BadgeMuted.Render(style.Render(status)))
	if c.Detail != "" {
		line += "\n  " + r.theme.Subtle.Render(c.Detail)
	}
	return line
}
