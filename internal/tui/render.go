package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nvasile/blockfall/internal/engine"
	"github.com/nvasile/blockfall/internal/protocol"
)

var (
	// One color per piece type, indexed by engine.Piece.
	pieceColors = []string{"51", "21", "208", "226", "46", "201", "196"}

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	miniBoardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	ghostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func pieceStyle(p engine.Piece) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(pieceColors[p]))
}

// RenderBoard draws the visible playfield: locked cells, the active piece
// and its ghost at the hard-drop row. Hidden rows at the top are skipped.
func RenderBoard(e *engine.Engine) string {
	cfg := e.Config()

	type overlay struct {
		char  string
		style lipgloss.Style
	}
	cells := make(map[engine.Coord]overlay)

	if e.Piece != engine.PieceNone {
		for _, b := range engine.PieceBlocks(cfg.RotationSystem, e.Piece, e.X, e.HardDropY, e.Theta) {
			cells[b] = overlay{char: "[]", style: ghostStyle}
		}
		for _, b := range engine.PieceBlocks(cfg.RotationSystem, e.Piece, e.X, e.Y, e.Theta) {
			cells[b] = overlay{char: "██", style: pieceStyle(e.Piece)}
		}
	}

	var sb strings.Builder
	for y := cfg.FieldHidden; y < cfg.FieldHeight; y++ {
		for x := 0; x < cfg.FieldWidth; x++ {
			if ov, ok := cells[engine.Coord{X: x, Y: y}]; ok {
				sb.WriteString(ov.style.Render(ov.char))
				continue
			}
			if p := engine.CellPiece(e.Board[y][x]); p != engine.PieceNone {
				sb.WriteString(pieceStyle(p).Render("██"))
			} else {
				sb.WriteString("  ")
			}
		}
		if y < cfg.FieldHeight-1 {
			sb.WriteString("\n")
		}
	}

	return boardStyle.Render(sb.String())
}

// RenderPiece draws a piece in its spawn orientation, for hold and preview
// panels.
func RenderPiece(id engine.RotationSystemID, p engine.Piece) string {
	if p == engine.PieceNone {
		return "  --"
	}

	// Normalize offsets into a small local grid.
	blocks := engine.PieceBlocks(id, p, 0, 0, 0)
	minX, minY := blocks[0].X, blocks[0].Y
	for _, b := range blocks[1:] {
		minX = min(minX, b.X)
		minY = min(minY, b.Y)
	}

	var grid [4][4]bool
	maxY := 0
	for _, b := range blocks {
		grid[b.Y-minY][b.X-minX] = true
		maxY = max(maxY, b.Y-minY)
	}

	style := pieceStyle(p)
	var sb strings.Builder
	for y := 0; y <= maxY; y++ {
		for x := 0; x < 4; x++ {
			if grid[y][x] {
				sb.WriteString(style.Render("██"))
			} else {
				sb.WriteString("  ")
			}
		}
		if y < maxY {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderSidePanel draws hold, preview and counters.
func RenderSidePanel(e *engine.Engine, replaying bool) string {
	cfg := e.Config()

	var sb strings.Builder
	title := "BLOCKFALL"
	if replaying {
		title = "REPLAY"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("Hold"))
	sb.WriteString("\n")
	sb.WriteString(RenderPiece(cfg.RotationSystem, e.HoldPiece))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("Next"))
	sb.WriteString("\n")
	for i := 0; i < cfg.NextPieceCount; i++ {
		sb.WriteString(RenderPiece(cfg.RotationSystem, e.Preview[i]))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "%s %d/%d\n", labelStyle.Render("Lines"), e.LinesCleared, cfg.Goal)
	fmt.Fprintf(&sb, "%s %d\n", labelStyle.Render("Pieces"), e.BlocksPlaced)
	fmt.Fprintf(&sb, "%s %d\n", labelStyle.Render("Finesse"), e.Finesse)
	fmt.Fprintf(&sb, "%s %d\n", labelStyle.Render("Keys"), e.TotalKeysPressed)

	switch e.State {
	case engine.StateReady:
		sb.WriteString("\n" + bannerStyle.Render("READY"))
	case engine.StateGo:
		sb.WriteString("\n" + bannerStyle.Render("GO"))
	case engine.StateGameOver:
		if e.LinesCleared >= cfg.Goal {
			sb.WriteString("\n" + bannerStyle.Render("FINISHED"))
		} else {
			sb.WriteString("\n" + bannerStyle.Render("GAME OVER"))
		}
		sb.WriteString("\n" + labelStyle.Render("r to restart"))
	}

	return sb.String()
}

// RenderStreams draws small boards for every remote game.
func RenderStreams(games []protocol.GameSnapshot, roster []protocol.StreamerInfo) string {
	if len(games) == 0 {
		if len(roster) == 0 {
			return labelStyle.Render("No streams.")
		}
		var sb strings.Builder
		sb.WriteString(labelStyle.Render("Streamers:"))
		for _, s := range roster {
			fmt.Fprintf(&sb, "\n  %s", s.Name)
		}
		return sb.String()
	}

	panels := make([]string, 0, len(games))
	for _, g := range games {
		panels = append(panels, renderMiniBoard(g))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// renderMiniBoard draws one remote snapshot at single-cell width.
func renderMiniBoard(g protocol.GameSnapshot) string {
	var sb strings.Builder
	for y := 0; y < g.FieldHeight; y++ {
		for x := 0; x < g.FieldWidth; x++ {
			v := int8(g.Board[y*g.FieldWidth+x])
			if p := engine.CellPiece(v); p != engine.PieceNone {
				sb.WriteString(pieceStyle(p).Render("█"))
			} else {
				sb.WriteString(" ")
			}
		}
		if y < g.FieldHeight-1 {
			sb.WriteString("\n")
		}
	}

	label := fmt.Sprintf("%s  %d lines", g.Name, g.LinesCleared)
	if g.State == "game_over" {
		label += "  (over)"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		miniBoardStyle.Render(sb.String()),
		labelStyle.Render(label),
	)
}
