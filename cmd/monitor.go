// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ed64dev/edlink/pkg/edlink"
	"github.com/ed64dev/edlink/pkg/unf"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive debug console for running homebrew",
	Long: `Full-screen console over the UNFLoader-style debug stream.

Incoming text packets scroll in the log pane; the input line sends text
packets back to the console, which homebrew can read as commands. Binary
payloads are summarized rather than displayed.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

// Messages

type unfPacketMsg struct {
	packet *unf.Packet
}

type streamErrMsg struct {
	err error
}

type monitorTickMsg time.Time

// monitorModel is the Bubble Tea model for the debug console.
type monitorModel struct {
	stream   edlink.Transport
	connInfo string

	vp       viewport.Model
	input    textinput.Model
	lines    []string
	maxLines int

	packets   int
	bytesIn   int
	heartbeat *unf.Heartbeat

	width    int
	height   int
	ready    bool
	quitting bool
	fatalErr error
}

func newMonitorModel(stream edlink.Transport, connInfo string) monitorModel {
	input := textinput.New()
	input.Placeholder = "text to send to the console"
	input.Prompt = "> "
	input.CharLimit = 256
	input.Focus()

	return monitorModel{
		stream:   stream,
		connInfo: connInfo,
		input:    input,
		maxLines: 2000,
		width:    80,
		height:   24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		monitorTickCmd(),
		textinput.Blink,
		tea.EnterAltScreen,
	)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			text := m.input.Value()
			if text != "" {
				m.sendText(text)
				m.input.Reset()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := m.height - 6
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.vp = viewport.New(m.width-4, logHeight)
			m.ready = true
		} else {
			m.vp.Width = m.width - 4
			m.vp.Height = logHeight
		}
		m.refreshLog()

	case monitorTickMsg:
		return m, monitorTickCmd()

	case unfPacketMsg:
		m.packets++
		m.bytesIn += len(msg.packet.Data)
		m.consume(msg.packet)
		m.refreshLog()

	case streamErrMsg:
		m.fatalErr = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.vp, cmd = m.vp.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// consume folds one packet into the log pane.
func (m *monitorModel) consume(pkt *unf.Packet) {
	switch pkt.Type {
	case unf.TypeText:
		text := strings.TrimRight(string(pkt.Data), "\n")
		m.lines = append(m.lines, strings.Split(text, "\n")...)

	case unf.TypeHeartbeat:
		if hb, err := unf.ParseHeartbeat(pkt.Data); err == nil {
			m.heartbeat = hb
		}

	default:
		m.lines = append(m.lines, fmt.Sprintf("[%s packet, %d bytes]", pkt.Type, len(pkt.Data)))
	}

	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
}

func (m *monitorModel) refreshLog() {
	if !m.ready {
		return
	}
	atBottom := m.vp.AtBottom()
	m.vp.SetContent(strings.Join(m.lines, "\n"))
	if atBottom {
		m.vp.GotoBottom()
	}
}

// sendText frames text as an outgoing packet. Write errors surface in
// the log pane rather than killing the session.
func (m *monitorModel) sendText(text string) {
	pkt, err := unf.Encode(unf.TypeText, []byte(text))
	if err != nil {
		m.lines = append(m.lines, fmt.Sprintf("[send error: %v]", err))
		return
	}
	if _, err := m.stream.Write(pkt); err != nil {
		m.lines = append(m.lines, fmt.Sprintf("[send error: %v]", err))
		return
	}
	m.lines = append(m.lines, "> "+text)
	m.refreshLog()
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if !m.ready {
		return "Starting up..."
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("EDLINK - DEBUG CONSOLE"))
	s.WriteString("\n")

	status := fmt.Sprintf("%s | %d packets, %d bytes", m.connInfo, m.packets, m.bytesIn)
	if m.heartbeat != nil {
		status += fmt.Sprintf(" | protocol v%d", m.heartbeat.ProtocolVersion)
	}
	status += " | Esc to quit"
	s.WriteString(headerStyle.Render(status))
	s.WriteString("\n")

	s.WriteString(boxStyle.Render(m.vp.View()))
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")

	return s.String()
}

func runMonitor(cmd *cobra.Command, args []string) error {
	stream, info, cleanup, err := openStream(time.Second)
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(newMonitorModel(stream, info), tea.WithAltScreen())

	// Feed packets from the stream into the UI. The goroutine exits with
	// the process: closing the transport on cleanup unblocks the read.
	go func() {
		for {
			pkt, err := unf.ReadPacket(stream)
			if err != nil {
				p.Send(streamErrMsg{err: err})
				return
			}
			p.Send(unfPacketMsg{packet: pkt})
		}
	}()

	model, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := model.(monitorModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}
