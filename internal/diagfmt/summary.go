package diagfmt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"c0/internal/diag"
)

var (
	summaryOkStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	summaryFailStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	summaryDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Summary renders the end-of-build banner: compile status plus error
// and warning counts. It is written after the plain diagnostic stream
// so piped output stays parseable line by line.
func Summary(w io.Writer, bag *diag.Bag) {
	errors, warnings := 0, 0
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errors++
		case d.Severity == diag.SevWarning:
			warnings++
		}
	}

	status := summaryOkStyle.Render("BUILD OK")
	if errors > 0 {
		status = summaryFailStyle.Render("BUILD FAILED")
	}
	counts := summaryDimStyle.Render(fmt.Sprintf("%d error(s), %d warning(s)", errors, warnings))
	fmt.Fprintf(w, "%s  %s\n", status, counts)
}
