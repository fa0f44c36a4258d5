package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skovert/folio/pkg/content"
)

// Editor styles
var (
	editorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editorDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editorDirtyStyle    = lipgloss.NewStyle().Foreground(colorYellow)
)

// editorRow is one navigable line of the flattened content tree.
type editorRow struct {
	path  content.Path
	depth int
	kind  content.Kind
	value string // scalar preview, empty for containers
}

// flattenRows walks the tree depth-first into navigable rows. Mapping keys
// are visited in sorted order, list elements in index order. Containers get
// their own row above their children.
func flattenRows(root content.Node) []editorRow {
	var rows []editorRow
	var walk func(node content.Node, path content.Path, depth int)
	walk = func(node content.Node, path content.Path, depth int) {
		indent := depth - 1
		if indent < 0 {
			indent = 0
		}
		switch node.Kind() {
		case content.KindMap:
			if depth > 0 {
				rows = append(rows, editorRow{path: path, depth: indent, kind: content.KindMap})
			}
			for _, k := range node.Keys() {
				child, _ := node.Child(k)
				walk(child, path.Child(content.Key(k)), depth+1)
			}
		case content.KindList:
			rows = append(rows, editorRow{path: path, depth: indent, kind: content.KindList})
			for i := 0; i < node.Len(); i++ {
				item, _ := node.Index(i)
				walk(item, path.Child(content.Index(i)), depth+1)
			}
		default:
			rows = append(rows, editorRow{path: path, depth: indent, kind: content.KindString, value: node.Scalar()})
		}
	}
	walk(root, nil, 0)
	return rows
}

// editorMode is the current input state of the editor.
type editorMode int

const (
	modeBrowse editorMode = iota
	modeEditValue
	modeAddKey
	modeAddValue
)

// EditorModel is the bubbletea model for the interactive content editor.
type EditorModel struct {
	tree   content.Node
	rows   []editorRow
	cursor int
	offset int
	height int

	mode   editorMode
	input  textinput.Model
	addKey string // pending key while in modeAddValue

	dirty bool
	err   error

	// Save reports whether the user asked for the edited tree to be
	// persisted on exit.
	Save bool
}

// NewEditorModel creates an editor over the given content tree.
func NewEditorModel(tree content.Node) EditorModel {
	ti := textinput.New()
	ti.CharLimit = 512
	return EditorModel{
		tree:   tree,
		rows:   flattenRows(tree),
		height: 20,
		input:  ti,
	}
}

// Tree returns the current (possibly edited) content tree.
func (m EditorModel) Tree() content.Node {
	return m.tree
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeBrowse {
			return m.updateBrowse(msg)
		}
		return m.updateInput(msg)
	}
	return m, nil
}

func (m EditorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "ctrl+c":
		m.Save = false
		m.dirty = false
		return m, tea.Quit
	case "s":
		m.Save = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case "enter":
		if row, ok := m.currentRow(); ok && row.kind == content.KindString {
			m.mode = modeEditValue
			m.input.SetValue(row.value)
			m.input.Focus()
		}
	case "a":
		row, ok := m.currentRow()
		if !ok {
			break
		}
		switch row.kind {
		case content.KindMap:
			m.mode = modeAddKey
			m.input.SetValue("")
			m.input.Focus()
		case content.KindList:
			// Lists get the new element appended directly.
			node, err := content.Get(m.tree, row.path)
			if err != nil {
				m.err = err
				break
			}
			appendPath := row.path.Child(content.Index(node.Len()))
			tree, err := content.Set(m.tree, appendPath, content.String(""))
			if err != nil {
				m.err = err
				break
			}
			m.applyTree(tree, appendPath)
		}
	case "d":
		row, ok := m.currentRow()
		if !ok || len(row.path) == 0 {
			break
		}
		tree, err := content.Delete(m.tree, row.path)
		if err != nil {
			m.err = err
			break
		}
		m.applyTree(tree, nil)
	}
	return m, nil
}

func (m EditorModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		switch m.mode {
		case modeEditValue:
			row, _ := m.currentRow()
			tree, err := content.Set(m.tree, row.path, content.String(value))
			if err != nil {
				m.err = err
			} else {
				m.applyTree(tree, row.path)
			}
			m.mode = modeBrowse
			m.input.Blur()
		case modeAddKey:
			if value == "" {
				m.mode = modeBrowse
				m.input.Blur()
				break
			}
			m.addKey = value
			m.mode = modeAddValue
			m.input.SetValue("")
		case modeAddValue:
			row, _ := m.currentRow()
			newPath := row.path.Child(content.Key(m.addKey))
			tree, err := content.Set(m.tree, newPath, content.String(value))
			if err != nil {
				m.err = err
			} else {
				m.applyTree(tree, newPath)
			}
			m.mode = modeBrowse
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyTree swaps in an edited tree, reflattens and moves the cursor to
// focus (or keeps it in range when focus is nil).
func (m *EditorModel) applyTree(tree content.Node, focus content.Path) {
	m.tree = tree
	m.rows = flattenRows(tree)
	m.dirty = true

	if focus != nil {
		want := focus.String()
		for i, row := range m.rows {
			if row.path.String() == want {
				m.cursor = i
				break
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m EditorModel) currentRow() (editorRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return editorRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m EditorModel) View() string {
	var b strings.Builder

	title := "Content Editor"
	if m.dirty {
		title += " " + editorDirtyStyle.Render("(unsaved)")
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render("↑/↓ navigate  ⏎ edit  a add  d delete  s save+quit  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		indent := strings.Repeat("  ", row.depth)

		label := row.path.String()
		if n := len(row.path); n > 0 {
			label = row.path.Leaf().String()
		}

		var line string
		switch row.kind {
		case content.KindMap:
			line = fmt.Sprintf("%s%s", indent, label+":")
		case content.KindList:
			line = fmt.Sprintf("%s%s", indent, label+" []")
		default:
			value := row.value
			if i == m.cursor && m.mode == modeEditValue {
				value = m.input.View()
			}
			line = fmt.Sprintf("%s%s: %s", indent, label, value)
		}

		if i == m.cursor {
			b.WriteString(editorSelectedStyle.Render("› " + line))
		} else {
			b.WriteString(editorNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAddKey:
		b.WriteString("\n" + StyleHighlight.Render("new key: ") + m.input.View())
	case modeAddValue:
		b.WriteString("\n" + StyleHighlight.Render(m.addKey+" = ") + m.input.View())
	}
	if m.err != nil {
		b.WriteString("\n" + styleIconError.Render(iconError) + " " + m.err.Error())
	}

	return b.String()
}
