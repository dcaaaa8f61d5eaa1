package blueprint

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg carries one scheduler interrupt deadline.
type tickMsg time.Time

// Program adapts a Root to a bubbletea model. The tea event loop is the
// controller's single thread: resize, ticks, key events and the script
// evaluation they trigger all arrive through Update, so no locking is
// needed anywhere in the tree or bridge.
//
// Keys: ctrl+r tears the context down and re-evaluates the stored script
// body; ctrl+c quits. Everything else is forwarded to the script as a
// keyDown event.
type Program struct {
	root   *Root
	script string

	width, height int
}

// NewProgram wraps root and the script body it should evaluate.
func NewProgram(root *Root, script string) Program {
	return Program{root: root, script: script}
}

// Init evaluates the script and schedules the first tick.
func (p Program) Init() tea.Cmd {
	p.root.EvalScript(p.script) // failures are logged, not fatal
	return p.tickCmd()
}

// Update drives the controller from tea messages.
func (p Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.root.Resize(float64(msg.Width), float64(msg.Height))
		return p, nil

	case tickMsg:
		p.root.Tick()
		return p, p.tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			p.root.Close()
			return p, tea.Quit
		case "ctrl+r":
			p.root.Reload()
			p.root.Resize(float64(p.width), float64(p.height))
			p.root.EvalScript(p.script)
			return p, nil
		default:
			p.root.DispatchEvent("keyDown", String(msg.String()))
			return p, nil
		}
	}
	return p, nil
}

// View paints the current tree.
func (p Program) View() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}
	return p.root.Render(p.width, p.height)
}

func (p Program) tickCmd() tea.Cmd {
	return tea.Tick(p.root.TickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
