package cli

import (
	"fmt"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mverhagen/bpdoc/pkg/registry"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// AssetListModel - Interactive asset selection
// =============================================================================

// AssetListModel is the bubbletea model for interactive asset selection.
// It scrolls through the repository listing and records the handle picked
// with enter.
type AssetListModel struct {
	Assets   []registry.Handle
	Cursor   int
	Selected *registry.Handle
	Height   int
	Offset   int
}

// NewAssetListModel creates a new asset list model.
func NewAssetListModel(assets []registry.Handle) AssetListModel {
	return AssetListModel{
		Assets: assets,
		Height: 15,
	}
}

func (m AssetListModel) Init() tea.Cmd {
	return nil
}

func (m AssetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Assets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Assets) > 0 {
				h := m.Assets[m.Cursor]
				m.Selected = &h
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m AssetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Blueprint"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ export  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Assets) {
		end = len(m.Assets)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		h := m.Assets[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		folder := path.Dir(h.Path)
		if folder == "." || folder == "/" {
			folder = "—"
		}

		rows = append(rows, []string{cursor, h.Name, folder, string(h.Kind)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Folder", "Kind").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Assets))))

	return b.String()
}

// runAssetPicker shows the interactive picker and returns the handle the
// user selected. ok is false when the user quit without selecting.
func runAssetPicker(assets []registry.Handle) (registry.Handle, bool, error) {
	final, err := tea.NewProgram(NewAssetListModel(assets)).Run()
	if err != nil {
		return registry.Handle{}, false, err
	}
	m, ok := final.(AssetListModel)
	if !ok || m.Selected == nil {
		return registry.Handle{}, false, nil
	}
	return *m.Selected, true, nil
}
