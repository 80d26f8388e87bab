package tui

import (
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nvasile/blockfall/internal/engine"
	"github.com/nvasile/blockfall/internal/netclient"
	"github.com/nvasile/blockfall/internal/protocol"
	"github.com/nvasile/blockfall/internal/replay"
)

// --- Custom tea.Msg types ---

type GameTickMsg time.Time
type SnapshotTickMsg time.Time

// --- Modes ---

type Mode int

const (
	// ModePlay runs a locally owned game, optionally streaming snapshots.
	ModePlay Mode = iota

	// ModeReplay drives the engine from a recorded input trace.
	ModeReplay

	// ModeWatch renders remote streams only; no local game.
	ModeWatch
)

// --- Model ---

type Model struct {
	mode Mode
	eng  *engine.Engine

	// Play mode
	rec      *replay.Recorder
	savePath string
	saved    bool
	pending  engine.Input

	// Replay mode
	player *replay.Player

	// Network (nil when purely local)
	client    *netclient.Client
	name      string
	sessionID string
	streams   []protocol.GameSnapshot
	roster    []protocol.StreamerInfo

	width  int
	height int

	err          error
	disconnected bool
}

// NewPlayModel creates a model that plays a local game. A non-nil client
// streams snapshots to a relay; savePath, when set, writes the input trace
// there once the game ends.
func NewPlayModel(eng *engine.Engine, name string, client *netclient.Client, savePath string) Model {
	return Model{
		mode:     ModePlay,
		eng:      eng,
		rec:      replay.NewRecorder(eng.Config()),
		savePath: savePath,
		client:   client,
		name:     name,
	}
}

// NewReplayModel creates a model that plays back a recording.
func NewReplayModel(player *replay.Player) Model {
	return Model{
		mode:   ModeReplay,
		eng:    player.Engine(),
		player: player,
	}
}

// NewWatchModel creates a model that only renders remote streams.
func NewWatchModel(name string, client *netclient.Client) Model {
	return Model{
		mode:   ModeWatch,
		client: client,
		name:   name,
	}
}

func (m Model) Init() tea.Cmd {
	switch m.mode {
	case ModeWatch:
		return nil
	default:
		cmds := []tea.Cmd{gameTickCmd(m.tickInterval())}
		if m.client != nil {
			cmds = append(cmds, snapshotTickCmd())
		}
		return tea.Batch(cmds...)
	}
}

// tickInterval is the engine cadence; the tick duration the whole timing
// model is expressed in.
func (m Model) tickInterval() time.Duration {
	return time.Duration(m.eng.Config().MsPerTick) * time.Millisecond
}

func gameTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return GameTickMsg(t)
	})
}

func snapshotTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SnapshotTickMsg(t)
	})
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case GameTickMsg:
		return m.handleGameTick()
	case SnapshotTickMsg:
		return m.handleSnapshotTick()

	case netclient.ConnectedMsg:
		m.sessionID = msg.SessionID
		return m, nil
	case netclient.DisconnectedMsg:
		m.disconnected = true
		m.err = msg.Err
		return m, nil
	case netclient.ServerMsg:
		return m.handleServerMsg(msg)
	}
	return m, nil
}

func (m Model) handleServerMsg(msg netclient.ServerMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case protocol.MsgRoster:
		var payload protocol.RosterPayload
		if json.Unmarshal(msg.Raw, &payload) == nil {
			m.roster = payload.Streamers
		}
	case protocol.MsgStreamUpdate:
		var payload protocol.StreamUpdatePayload
		if json.Unmarshal(msg.Raw, &payload) == nil {
			m.streams = payload.Games
		}
	}
	return m, nil
}

// --- Key handling ---

// handleKeyPress folds key events into the Input consumed by the next
// engine tick. Keyboards deliver edges, so everything here is expressed as
// per-press amounts; holding a key relies on terminal auto-repeat.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.client != nil {
			m.client.Close()
		}
		if m.mode == ModePlay {
			// Mark the abandonment in the trace too.
			m.pending.Flags |= engine.InputQuit
			m.eng.Tick(m.pending)
			m.rec.Record(m.pending)
		}
		return m, tea.Quit
	}

	if m.mode != ModePlay {
		return m, nil
	}

	cfg := m.eng.Config()
	m.pending.NewKeys++

	switch msg.String() {
	case "left", "h":
		m.pending.Movement--
		m.pending.Flags |= engine.InputFinesseMove
	case "right", "l":
		m.pending.Movement++
		m.pending.Flags |= engine.InputFinesseMove
	case "down", "j":
		m.pending.Gravity = engine.Fixed(cfg.MsPerTick) * cfg.SoftDropGravity
	case "x", "up":
		m.pending.Rotation = engine.RotClockwise
		m.pending.Flags |= engine.InputFinesseRotate
		m.pending.Keys |= engine.KeyRotCW
	case "z":
		m.pending.Rotation = engine.RotAnticlockwise
		m.pending.Flags |= engine.InputFinesseRotate
		m.pending.Keys |= engine.KeyRotCCW
	case "a":
		m.pending.Rotation = engine.RotHalfTurn
		m.pending.Flags |= engine.InputFinesseRotate
		m.pending.Keys |= engine.KeyRotHalf
	case " ":
		m.pending.Flags |= engine.InputHardDrop
		m.pending.Gravity = engine.Fix(cfg.FieldHeight)
	case "c":
		m.pending.Flags |= engine.InputHold
		m.pending.Keys |= engine.KeyHold
	case "r":
		m.eng.Reset()
		m.rec = replay.NewRecorder(m.eng.Config())
		m.saved = false
		m.pending = engine.Input{}
	}

	return m, nil
}

// --- Tick handling ---

func (m Model) handleGameTick() (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModePlay:
		in := m.pending
		m.pending = engine.Input{}

		m.eng.Tick(in)
		m.rec.Record(in)

		if m.eng.State == engine.StateGameOver && m.savePath != "" && !m.saved {
			m.saved = true
			if err := m.rec.Save(m.savePath); err != nil {
				m.err = err
			}
		}

	case ModeReplay:
		m.player.Step()
	}

	return m, gameTickCmd(m.tickInterval())
}

func (m Model) handleSnapshotTick() (tea.Model, tea.Cmd) {
	if m.client != nil && m.mode == ModePlay {
		snap := buildSnapshot(m.eng)
		m.client.Send(protocol.Envelope{
			Type:    protocol.MsgSnapshot,
			Payload: snap,
		})
	}
	return m, snapshotTickCmd()
}

// buildSnapshot flattens the visible board, active piece composited in, into
// a wire snapshot.
func buildSnapshot(e *engine.Engine) protocol.GameSnapshot {
	cfg := e.Config()
	board := make([]int, cfg.FieldHeight*cfg.FieldWidth)
	for y := 0; y < cfg.FieldHeight; y++ {
		for x := 0; x < cfg.FieldWidth; x++ {
			board[y*cfg.FieldWidth+x] = int(e.Board[y][x])
		}
	}
	if e.Piece != engine.PieceNone {
		for _, b := range engine.PieceBlocks(cfg.RotationSystem, e.Piece, e.X, e.Y, e.Theta) {
			if b.Y >= 0 && b.Y < cfg.FieldHeight && b.X >= 0 && b.X < cfg.FieldWidth {
				board[b.Y*cfg.FieldWidth+b.X] = int(e.Piece.Cell())
			}
		}
	}

	return protocol.GameSnapshot{
		State:        e.State.String(),
		Board:        board,
		FieldWidth:   cfg.FieldWidth,
		FieldHeight:  cfg.FieldHeight,
		LinesCleared: e.LinesCleared,
		BlocksPlaced: e.BlocksPlaced,
		Finesse:      e.Finesse,
		TotalTicks:   e.TotalTicks,
	}
}

// --- View ---

func (m Model) View() string {
	if m.disconnected {
		return m.renderCentered("Disconnected from relay.\nPress Ctrl+C to exit.")
	}

	if m.mode == ModeWatch {
		return m.renderCentered(RenderStreams(m.streams, m.roster))
	}

	board := RenderBoard(m.eng)
	side := RenderSidePanel(m.eng, m.mode == ModeReplay)

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(20).Render(side),
		lipgloss.NewStyle().Padding(0, 2).Render(board),
	)

	if len(m.streams) > 0 {
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			content,
			lipgloss.NewStyle().Padding(0, 2).Render(RenderStreams(m.streams, m.roster)),
		)
	}

	return m.renderCentered(content)
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
