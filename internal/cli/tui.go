package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PageBrowser - interactive page and segment viewer
// =============================================================================

// PageBrowser is the bubbletea model behind inspect --tui. The left pane
// lists pages; the right pane shows the segments of the current page.
type PageBrowser struct {
	ID     string
	Pages  []*layout.Page
	Cursor int // current page index
	Offset int // first visible segment row
	Height int // visible segment rows
}

func newPageBrowser(res *pipeline.Result) PageBrowser {
	return PageBrowser{ID: res.Borehole.ID, Pages: res.Pages, Height: 15}
}

func (m PageBrowser) Init() tea.Cmd {
	return nil
}

func (m PageBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "pgup":
			if m.Cursor > 0 {
				m.Cursor--
				m.Offset = 0
			}
		case "right", "l", "pgdown":
			if m.Cursor < len(m.Pages)-1 {
				m.Cursor++
				m.Offset = 0
			}
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j":
			if n := m.segments(); m.Offset < n-m.Height {
				m.Offset++
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor, m.Offset = len(m.Pages)-1, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PageBrowser) segments() int {
	if len(m.Pages) == 0 {
		return 0
	}
	return len(m.Pages[m.Cursor].Segments)
}

func (m PageBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Borehole " + m.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ page  ↑/↓ scroll  q quit"))
	b.WriteString("\n\n")

	if len(m.Pages) == 0 {
		b.WriteString(listDimStyle.Render("no pages"))
		return b.String()
	}

	var list strings.Builder
	for i, p := range m.Pages {
		line := fmt.Sprintf("%3d  %7s – %-7s", p.Spec.Number, layout.FormatDepth(p.Spec.Top), layout.FormatDepth(p.Spec.Bottom))
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸" + line))
		} else {
			list.WriteString(listNormalStyle.Render(" " + line))
		}
		list.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", m.segmentView()))
	b.WriteString("\n")
	p := m.Pages[m.Cursor]
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [page %d/%d · %d segments]", p.Spec.Number, p.Count, len(p.Segments))))

	return b.String()
}

func (m PageBrowser) segmentView() string {
	p := m.Pages[m.Cursor]
	end := m.Offset + m.Height
	if end > len(p.Segments) {
		end = len(p.Segments)
	}
	rows := [][]string{}
	for _, s := range p.Segments[m.Offset:end] {
		rows = append(rows, []string{
			s.Interval.Code,
			layout.FormatDepth(s.Top),
			layout.FormatDepth(s.Bottom),
			clip(s.Interval.Description, descWidth),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Code", "Top", "Base", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row >= len(p.Segments) {
				return listNormalStyle
			}
			seg := p.Segments[m.Offset+row]
			cut := (col == 1 && !seg.TrueTop) || (col == 2 && !seg.TrueBottom)
			if cut {
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}
