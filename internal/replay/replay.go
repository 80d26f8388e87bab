// Package replay records and plays back games. A recording is the full game
// configuration (seed included) plus the ordered input trace; because the
// engine is deterministic, that is sufficient to reproduce a game tick for
// tick.
package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nvasile/blockfall/internal/engine"
	"github.com/nvasile/blockfall/internal/randomizer"
)

// Recording is the persisted replay format.
type Recording struct {
	Config engine.Config  `json:"config"`
	Inputs []engine.Input `json:"inputs"`
}

// Recorder captures one game as it is played. Feed it the same Inputs, in
// the same order, that the engine ticks on.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording for a game with the given configuration.
func NewRecorder(cfg engine.Config) *Recorder {
	return &Recorder{rec: Recording{Config: cfg}}
}

// Record appends one tick's input to the trace.
func (r *Recorder) Record(in engine.Input) {
	r.rec.Inputs = append(r.rec.Inputs, in)
}

// Len returns the number of recorded ticks.
func (r *Recorder) Len() int {
	return len(r.rec.Inputs)
}

// Recording returns the captured trace.
func (r *Recorder) Recording() Recording {
	return r.rec
}

// Save writes the recording as JSON.
func (r *Recorder) Save(path string) error {
	return r.rec.Save(path)
}

// Save writes the recording as JSON.
func (rec Recording) Save(path string) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("replay: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("replay: write %s: %w", path, err)
	}
	return nil
}

// Load reads a recording saved by Save.
func Load(path string) (Recording, error) {
	var rec Recording
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("replay: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("replay: decode %s: %w", path, err)
	}
	return rec, nil
}

// Player replays a recording into a fresh engine, one recorded tick per
// Step.
type Player struct {
	eng *engine.Engine
	rec Recording
	pos int
}

// NewPlayer builds the engine described by the recording's configuration.
func NewPlayer(rec Recording) *Player {
	rand := randomizer.New(rec.Config.Randomizer, rec.Config.Seed)
	return &Player{
		eng: engine.New(rec.Config, rand),
		rec: rec,
	}
}

// Engine exposes the replayed game state for rendering or inspection.
func (p *Player) Engine() *engine.Engine {
	return p.eng
}

// Step ticks the engine with the next recorded input, reporting whether any
// trace remains.
func (p *Player) Step() bool {
	if p.pos >= len(p.rec.Inputs) {
		return false
	}
	p.eng.Tick(p.rec.Inputs[p.pos])
	p.pos++
	return p.pos < len(p.rec.Inputs)
}

// RunToEnd replays the remaining trace.
func (p *Player) RunToEnd() {
	for p.Step() {
	}
}
