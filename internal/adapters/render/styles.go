package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/reqs/internal/core/domain"
)

var (
	colorIris  = lipgloss.Color("#5D3FD3")
	colorSlate = lipgloss.Color("#667085")
	colorRed   = lipgloss.Color("196")
	colorAmber = lipgloss.Color("214")
	colorGreen = lipgloss.Color("42")
)

// styles are bound to a writer so that color is only emitted to terminals.
type styles struct {
	header   lipgloss.Style
	muted    lipgloss.Style
	severity map[domain.Severity]lipgloss.Style
	status   map[domain.StateStatus]lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Foreground(colorIris).Bold(true),
		muted:  r.NewStyle().Foreground(colorSlate),
		severity: map[domain.Severity]lipgloss.Style{
			domain.SeverityInfo:    r.NewStyle().Foreground(colorSlate),
			domain.SeverityWarning: r.NewStyle().Foreground(colorAmber),
			domain.SeverityError:   r.NewStyle().Foreground(colorRed).Bold(true),
		},
		status: map[domain.StateStatus]lipgloss.Style{
			domain.StatusUnchanged:   r.NewStyle().Foreground(colorGreen),
			domain.StatusReformatted: r.NewStyle().Foreground(colorSlate),
			domain.StatusModified:    r.NewStyle().Foreground(colorAmber),
			domain.StatusUntracked:   r.NewStyle().Foreground(colorRed),
		},
	}
}
