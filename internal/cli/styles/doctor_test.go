package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/flurx/internal/cli/styles"
)

func TestDoctorReport_OK(t *testing.T) {
	report := styles.DoctorReport{Sections: []styles.DoctorSection{{
		Title: "Runtime",
		Checks: []styles.DoctorCheck{
			{Name: "Chromium", Status: styles.CheckOK},
			{Name: "Clipboard", Status: styles.CheckWarn},
		},
	}}}
	assert.True(t, report.OK())

	report.Sections[0].Checks = append(report.Sections[0].Checks, styles.DoctorCheck{Name: "Local root", Status: styles.CheckFail})
	assert.False(t, report.OK())
}

func TestDoctorRenderer_Render(t *testing.T) {
	out := styles.NewDoctorRenderer(styles.NewTheme()).Render(styles.DoctorReport{Sections: []styles.DoctorSection{{
		Title:  "Protocol",
		Checks: []styles.DoctorCheck{{Name: "Local root", Status: styles.CheckFail, Detail: "assets/ui is missing"}},
	}}})

	assert.Contains(t, out, "Doctor")
	assert.Contains(t, out, "Needs attention")
	assert.Contains(t, out, "Local root")
	assert.Contains(t, out, "assets/ui is missing")
}
