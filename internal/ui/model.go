// ABOUTME: Bubbletea model for player TUI
// ABOUTME: Defines playback status state and update logic
package ui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Input
	file    string
	session string

	// Output
	backend  string
	device   string
	hostAPI  string
	latency  time.Duration
	fpb      int
	channels int

	sampleRate int

	// Playback
	state    string
	frames   int64
	writes   int64
	polls    int64
	skipped  int64
	position time.Duration
	err      string

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderStreamInfo()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders the file and playback state
func (m Model) renderHeader() string {
	name := "(none)"
	if m.file != "" {
		name = filepath.Base(m.file)
	}

	return fmt.Sprintf(`┌─ mp3play ────────────────────────────────────────────┐
│ File:   %-44s │
│ State:  %-44s │
├──────────────────────────────────────────────────────┤
`, truncate(name, 44), truncate(m.stateText(), 44))
}

func (m Model) stateText() string {
	if m.err != "" {
		return "error: " + m.err
	}
	return m.state
}

// renderStreamInfo renders the negotiated output stream
func (m Model) renderStreamInfo() string {
	if m.sampleRate == 0 {
		return "│ No stream                                            │\n"
	}

	s := fmt.Sprintf("│ Output: %-44s │\n", truncate(m.backend, 44))
	s += fmt.Sprintf("│ Device: %-44s │\n", truncate(m.device, 44))
	s += fmt.Sprintf("│ Format: %-44s │\n",
		fmt.Sprintf("%dHz %s, %d frames/buffer, %v", m.sampleRate, channelName(m.channels), m.fpb, m.latency))

	return s
}

// renderStats renders playback statistics
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Position: %-42s │
│ Frames: %-8d Writes: %-8d Skipped: %-10d │
│                                                      │
`, formatPosition(m.position), m.frames, m.writes, m.skipped)
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ d:Debug  q:Quit                                      │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Session:   %-39s │
│   Host API:  %-39s │
│   Polls:     %-39d │
`, truncate(m.session, 39), truncate(m.hostAPI, 39), m.polls)
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.File != "" {
		m.file = msg.File
	}
	if msg.Session != "" {
		m.session = msg.Session
	}
	if msg.SampleRate != 0 {
		m.backend = msg.Backend
		m.device = msg.Device
		m.hostAPI = msg.HostAPI
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.fpb = msg.FramesPerBuffer
		m.latency = msg.Latency
	}
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Stats {
		m.frames = msg.Frames
		m.writes = msg.Writes
		m.polls = msg.Polls
		m.skipped = msg.Skipped
		m.position = msg.Position
	}
	if msg.Err != "" {
		m.err = msg.Err
	}
}

// StatusMsg updates TUI state; zero fields leave the current value alone
type StatusMsg struct {
	File    string
	Session string

	Backend         string
	Device          string
	HostAPI         string
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	Latency         time.Duration

	State string

	// Stats marks the counters below as set
	Stats    bool
	Frames   int64
	Writes   int64
	Polls    int64
	Skipped  int64
	Position time.Duration

	Err string
}

// Utility functions
func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

func formatPosition(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
