package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/rtc-registry/native"
	"github.com/wippyai/rtc-registry/resource"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type row struct {
	kind   resource.Kind
	handle resource.Handle
}

type interactiveModel struct {
	n      *native.Native
	input  textinput.Model
	rows   []row
	result string
	failed bool
}

type opResultMsg struct {
	err    error
	result string
}

func runInteractive(log *zap.Logger) error {
	n := native.New(native.WithLogger(log))
	if err := n.Init(); err != nil {
		return err
	}
	defer n.Close()

	input := textinput.New()
	input.Placeholder = `command, e.g. "registry" or "config {}"`
	input.Focus()

	m := &interactiveModel{n: n, input: input}
	m.refresh()

	_, err := tea.NewProgram(m).Run()
	return err
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			cmd := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd == "quit" || cmd == "q" {
				return m, tea.Quit
			}
			return m, m.execute(cmd)
		}
	case opResultMsg:
		if msg.err != nil {
			m.failed = true
			m.result = msg.err.Error()
		} else {
			m.failed = false
			m.result = msg.result
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("rtc-registry inspector"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(helpStyle.Render("  (no live resources)"))
		b.WriteString("\n")
	}
	for _, r := range m.rows {
		b.WriteString("  ")
		b.WriteString(handleStyle.Render(fmt.Sprintf("%6d", r.handle)))
		b.WriteString("  ")
		b.WriteString(kindStyle.Render(r.kind.String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.result != "" {
		style := resultStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(m.result))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		"commands: config <json> | registry | media <reg> [json] | api <me> [json] | pc <api> [cfg] | q"))
	b.WriteString("\n")

	return b.String()
}

func (m *interactiveModel) refresh() {
	m.rows = m.rows[:0]
	m.n.Table().Each(func(h resource.Handle, k resource.Kind, _ any) bool {
		m.rows = append(m.rows, row{kind: k, handle: h})
		return true
	})
	sort.Slice(m.rows, func(i, j int) bool { return m.rows[i].handle < m.rows[j].handle })
}

// execute parses and runs one inspector command as a tea command, so slow
// constructors never freeze the view.
func (m *interactiveModel) execute(cmd string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		verb, rest, _ := strings.Cut(cmd, " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "":
			return opResultMsg{result: ""}

		case "config":
			h, err := m.n.NewConfig(ctx, []byte(rest))
			if err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{result: fmt.Sprintf("configuration %d", h)}

		case "registry":
			h, err := m.n.NewRegistry(ctx)
			if err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{result: fmt.Sprintf("registry %d", h)}

		case "media":
			dep, raw, err := splitHandleArg(rest)
			if err != nil {
				return opResultMsg{err: err}
			}
			h, err := m.n.NewMediaEngine(ctx, dep, raw)
			if err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{result: fmt.Sprintf("media engine %d", h)}

		case "api":
			dep, raw, err := splitHandleArg(rest)
			if err != nil {
				return opResultMsg{err: err}
			}
			h, err := m.n.NewAPI(ctx, dep, raw)
			if err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{result: fmt.Sprintf("api %d", h)}

		case "pc":
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				return opResultMsg{err: fmt.Errorf("pc needs an api handle")}
			}
			dep, err := strconv.ParseUint(fields[0], 10, 64)
			if err != nil {
				return opResultMsg{err: fmt.Errorf("bad api handle %q", fields[0])}
			}
			var raw []byte
			if len(fields) > 1 {
				cfg, err := strconv.ParseUint(fields[1], 10, 64)
				if err != nil {
					return opResultMsg{err: fmt.Errorf("bad config handle %q", fields[1])}
				}
				raw, _ = json.Marshal(native.PeerConnectionSettings{Config: cfg})
			}
			h, err := m.n.NewPeerConnection(ctx, resource.Handle(dep), raw)
			if err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{result: fmt.Sprintf("peer connection %d", h)}

		default:
			return opResultMsg{err: fmt.Errorf("unknown command %q", verb)}
		}
	}
}

// splitHandleArg parses "<handle> [settings json]".
func splitHandleArg(s string) (resource.Handle, []byte, error) {
	if s == "" {
		return 0, nil, fmt.Errorf("missing dependency handle")
	}
	first, rest, _ := strings.Cut(s, " ")
	h, err := strconv.ParseUint(first, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("bad handle %q", first)
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return resource.Handle(h), nil, nil
	}
	return resource.Handle(h), []byte(rest), nil
}
