package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nodeflowhq/nodeflow/pkg/command"
	"github.com/nodeflowhq/nodeflow/pkg/history"
	"github.com/nodeflowhq/nodeflow/pkg/model"
	"github.com/nodeflowhq/nodeflow/pkg/session"
)

// Editor styles
var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	editNormalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	editDimStyle      = lipgloss.NewStyle().Faint(true)
	editStatusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// moveStep is how far arrow-moves shift a node, in scene units.
const moveStep = 10.0

// newEditCmd creates the "edit" command: an interactive terminal editor
// driving the command stack.
func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <session.json>",
		Short: "Edit a session interactively with undo/redo",
		Long: `Edit opens a terminal editor on a session file. Every change goes
through the undo/redo stack:

  j/k      select node
  H/J/K/L  move the selected node
  d        delete the selected node (with its connections)
  u / r    undo / redo
  s        save
  q        quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := session.ReadFile(args[0])
			if err != nil {
				return err
			}

			m := newEditorModel(args[0], g)
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if em, ok := final.(editorModel); ok && em.err != nil {
				return em.err
			}
			return nil
		},
	}
	return cmd
}

// editorModel is the bubbletea model for the interactive editor.
type editorModel struct {
	path   string
	graph  *model.Graph
	hist   *history.Stack
	sync   command.ViewSync
	nodes  []*model.Node
	cursor int
	offset int
	height int
	status string
	dirty  bool
	err    error
}

func newEditorModel(path string, g *model.Graph) editorModel {
	return editorModel{
		path:   path,
		graph:  g,
		hist:   history.New(),
		sync:   command.NoopViewSync{},
		nodes:  g.Nodes(),
		height: 15,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Height > 8 {
			m.height = msg.Height - 6
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "K", "J", "H", "L":
			m = m.moveSelected(msg.String())
		case "d":
			m = m.deleteSelected()
		case "u":
			label := m.hist.UndoLabel()
			if label == "" {
				m.status = "nothing to undo"
				break
			}
			if err := m.hist.Undo(); err != nil {
				m.status = err.Error()
				break
			}
			m.status = "undid: " + label
			m = m.refresh()
		case "r":
			label := m.hist.RedoLabel()
			if label == "" {
				m.status = "nothing to redo"
				break
			}
			if err := m.hist.Redo(); err != nil {
				m.status = err.Error()
				break
			}
			m.status = "redid: " + label
			m = m.refresh()
		case "s":
			if err := session.WriteFile(m.graph, m.path); err != nil {
				m.status = err.Error()
				break
			}
			m.dirty = false
			m.status = "saved " + m.path
		}
	}
	return m, nil
}

func (m editorModel) moveSelected(key string) editorModel {
	if len(m.nodes) == 0 {
		return m
	}
	n := m.nodes[m.cursor]
	prev := n.Pos()
	pos := prev
	switch key {
	case "K":
		pos[1] -= moveStep
	case "J":
		pos[1] += moveStep
	case "H":
		pos[0] -= moveStep
	case "L":
		pos[0] += moveStep
	}
	if err := m.hist.Push(command.NewMoveNode(m.graph, m.sync, n, pos, prev)); err != nil {
		m.status = err.Error()
		return m
	}
	m.dirty = true
	m.status = fmt.Sprintf("moved %s to %.0f, %.0f", displayName(n), pos[0], pos[1])
	return m
}

func (m editorModel) deleteSelected() editorModel {
	if len(m.nodes) == 0 {
		return m
	}
	n := m.nodes[m.cursor]
	cmd, err := command.NewRemoveNode(m.graph, m.sync, n)
	if err != nil {
		m.status = err.Error()
		return m
	}
	if err := m.hist.Push(cmd); err != nil {
		m.status = err.Error()
		return m
	}
	m.dirty = true
	m.status = "deleted " + displayName(n)
	return m.refresh()
}

// refresh re-reads the node list from the graph and clamps the cursor.
func (m editorModel) refresh() editorModel {
	m.nodes = m.graph.Nodes()
	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	return m
}

func (m editorModel) View() string {
	title := m.path
	if m.dirty {
		title += " *"
	}
	s := editSelectedStyle.Render(title) + "\n\n"

	if len(m.nodes) == 0 {
		s += editDimStyle.Render("(empty graph)") + "\n"
	}

	end := min(m.offset+m.height, len(m.nodes))
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		pos := n.Pos()
		line := fmt.Sprintf("%-20s %7.1f %7.1f  %d in / %d out",
			displayName(n), pos[0], pos[1], len(n.Inputs), len(n.Outputs))
		if i == m.cursor {
			s += editSelectedStyle.Render("> "+line) + "\n"
		} else {
			s += editNormalStyle.Render("  "+line) + "\n"
		}
	}

	s += "\n"
	if m.status != "" {
		s += editStatusStyle.Render(m.status) + "\n"
	}
	hints := "j/k select · H/J/K/L move · d delete · u undo"
	if label := m.hist.UndoLabel(); label != "" {
		hints += " (" + label + ")"
	}
	hints += " · r redo"
	if label := m.hist.RedoLabel(); label != "" {
		hints += " (" + label + ")"
	}
	hints += " · s save · q quit"
	s += editDimStyle.Render(hints) + "\n"
	return s
}

func displayName(n *model.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
