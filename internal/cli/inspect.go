package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/skommel/mindweave/pkg/mindmap"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command for browsing a map interactively.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [map.json]",
		Short: "Browse a map's nodes interactively",
		Long: `Browse a map's nodes interactively.

The inspect command opens a terminal browser over the map: navigate nodes
with the arrow keys, press enter to open a node's detail view (description,
examples, scores, position), and q to quit. Both map.json and document.json
files are accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

// runInspect loads the map and starts the browser.
func runInspect(input string) error {
	m, err := mindmap.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}
	if m.NodeCount() == 0 {
		printInfo("Map is empty")
		return nil
	}

	model := NewNodeBrowserModel(m)
	_, err = tea.NewProgram(model).Run()
	return err
}

// =============================================================================
// NodeBrowserModel - Interactive node browser
// =============================================================================

// NodeBrowserModel is the bubbletea model for browsing map nodes.
type NodeBrowserModel struct {
	Map    *mindmap.Map
	Nodes  []*mindmap.Node
	Cursor int
	Height int
	Offset int
	Detail bool
}

// NewNodeBrowserModel creates a browser over the map's nodes in builder order.
func NewNodeBrowserModel(m *mindmap.Map) NodeBrowserModel {
	return NodeBrowserModel{
		Map:    m,
		Nodes:  m.Nodes(),
		Height: 15,
	}
}

func (m NodeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NodeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeBrowserModel) View() string {
	if m.Detail {
		return m.detailView()
	}
	return m.listView()
}

// listView renders the scrollable node table.
func (m NodeBrowserModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Map Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		parent := n.ParentID
		if parent == "" {
			parent = "—"
		}

		rows = append(rows, []string{
			cursor,
			n.Label,
			n.Type,
			fmt.Sprintf("%d", n.Level),
			parent,
			fmt.Sprintf("%d", n.Metadata.Connections),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Label", "Type", "Level", "Parent", "Links").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.Cursor
			isRoot := m.Nodes[actualIdx].IsRoot()

			base := lipgloss.NewStyle()
			if isCurrent {
				return base.Foreground(colorCyan).Bold(true)
			}
			if isRoot {
				return base.Foreground(colorGreen)
			}
			if col >= 2 {
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d edges", m.Cursor+1, len(m.Nodes), m.Map.EdgeCount())))

	return b.String()
}

// detailView renders a single node's full record.
func (m NodeBrowserModel) detailView() string {
	n := m.Nodes[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(n.Label))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	b.WriteString("\n\n")

	rows := [][]string{
		{"ID", n.ID},
		{"Type", n.Type},
		{"Level", fmt.Sprintf("%d", n.Level)},
	}
	if n.ParentID != "" {
		rows = append(rows, []string{"Parent", n.ParentID})
	}
	if len(n.Children) > 0 {
		rows = append(rows, []string{"Children", strings.Join(n.Children, ", ")})
	}
	if n.Description != "" {
		rows = append(rows, []string{"Description", n.Description})
	}
	if len(n.Examples) > 0 {
		rows = append(rows, []string{"Examples", strings.Join(n.Examples, "; ")})
	}
	if n.Category != "" {
		rows = append(rows, []string{"Category", n.Category})
	}
	if len(n.Tags) > 0 {
		rows = append(rows, []string{"Tags", strings.Join(n.Tags, ", ")})
	}
	rows = append(rows,
		[]string{"Importance", fmt.Sprintf("%.2f", n.Metadata.Importance)},
		[]string{"Complexity", fmt.Sprintf("%.2f", n.Metadata.Complexity)},
		[]string{"Connections", fmt.Sprintf("%d", n.Metadata.Connections)},
	)
	if n.Positioned() {
		rows = append(rows,
			[]string{"Position", fmt.Sprintf("(%.0f, %.0f)", n.Position.X, n.Position.Y)},
			[]string{"Size", fmt.Sprintf("%.0f × %.0f", n.Size.Width, n.Size.Height)},
		)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	return b.String()
}
