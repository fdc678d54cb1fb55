package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

func browserPages() []*layout.Page {
	seg := func(top, bottom float64, code string) layout.Segment {
		return layout.Segment{Interval: strata.Interval{Top: top, Base: bottom, Code: code, Description: "CLAY " + code},
			Top: top, Bottom: bottom, TrueTop: true, TrueBottom: true}
	}
	return []*layout.Page{
		{Spec: layout.PageSpec{Number: 1, Top: 0, Bottom: 10}, Count: 2, Segments: []layout.Segment{seg(0, 4, "101"), seg(4, 10, "201")}},
		{Spec: layout.PageSpec{Number: 2, Top: 10, Bottom: 20}, Count: 2, Segments: []layout.Segment{seg(10, 15, "301")}},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPageBrowserNavigation(t *testing.T) {
	var m tea.Model = PageBrowser{ID: "BH01", Pages: browserPages(), Height: 1}

	m, _ = m.Update(key("j"))
	if got := m.(PageBrowser).Offset; got != 1 {
		t.Errorf("offset after scroll = %d, want 1", got)
	}
	m, _ = m.Update(key("j"))
	if got := m.(PageBrowser).Offset; got != 1 {
		t.Errorf("offset past end = %d, want 1", got)
	}

	m, _ = m.Update(key("right"))
	b := m.(PageBrowser)
	if b.Cursor != 1 || b.Offset != 0 {
		t.Errorf("after right: cursor=%d offset=%d", b.Cursor, b.Offset)
	}
	m, _ = m.Update(key("right"))
	if m.(PageBrowser).Cursor != 1 {
		t.Error("cursor moved past the last page")
	}
	m, _ = m.Update(key("g"))
	if m.(PageBrowser).Cursor != 0 {
		t.Error("home did not return to page 1")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestPageBrowserView(t *testing.T) {
	m := PageBrowser{ID: "BH01", Pages: browserPages(), Height: 10}
	view := m.View()
	for _, want := range []string{"Borehole BH01", "CLAY 101", "page 1/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if v := (PageBrowser{ID: "BH02"}).View(); !strings.Contains(v, "no pages") {
		t.Errorf("empty view = %q", v)
	}
}
