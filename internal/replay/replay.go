// Package replay records and loads match recordings. A recording holds the
// seed, the configuration and every human input; re-running them through the
// simulation must reproduce the match exactly.
package replay

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
)

// FormatVersion is bumped whenever the recording layout changes.
const FormatVersion = 1

// ErrMismatch is returned when a re-run diverges from the recording.
var ErrMismatch = errors.New("replay: simulation diverged from recording")

// ErrVersion is returned for recordings written by an incompatible version.
var ErrVersion = errors.New("replay: unsupported format version")

// Frame is the human input of one tick. Ticks without input are not stored.
type Frame struct {
	Tick    int     `msgpack:"t"`
	Intents []uint8 `msgpack:"i,omitempty"` // Intent bits per human slot
	Serve   bool    `msgpack:"s,omitempty"`
}

// Summary is the final state of a recorded run.
type Summary struct {
	Ticks     int               `msgpack:"ticks"`
	Digest    string            `msgpack:"digest"`
	ScoreA    int               `msgpack:"score_a"`
	ScoreB    int               `msgpack:"score_b"`
	SetsA     int               `msgpack:"sets_a"`
	SetsB     int               `msgpack:"sets_b"`
	SetScores []volley.SetScore `msgpack:"set_scores"`
	Winner    volley.Side       `msgpack:"winner"`
}

// Recording is the on-disk replay.
type Recording struct {
	Version   int                 `msgpack:"version"`
	ID        string              `msgpack:"id"`
	GameID    string              `msgpack:"game"`
	Seed      int64               `msgpack:"seed"`
	Humans    int                 `msgpack:"humans"`
	TickRate  int                 `msgpack:"tick_rate"`
	Config    config.VolleyConfig `msgpack:"config"`
	CreatedAt time.Time           `msgpack:"created_at"`
	Frames    []Frame             `msgpack:"frames"`
	Final     Summary             `msgpack:"final"`
}

// Recorder accumulates frames while a match is played.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording for a match built from these inputs.
func NewRecorder(gameID string, seed int64, humans, tickRate int, cfg config.VolleyConfig) *Recorder {
	return &Recorder{rec: Recording{
		Version:   FormatVersion,
		ID:        uuid.NewString(),
		GameID:    gameID,
		Seed:      seed,
		Humans:    humans,
		TickRate:  tickRate,
		Config:    cfg,
		CreatedAt: time.Now().UTC(),
	}}
}

// Record stores the human input applied before the given tick.
func (r *Recorder) Record(tick int, intents []core.Intent, serve bool) {
	var bits []uint8
	active := false
	for _, in := range intents {
		bits = append(bits, in.Bits())
		if !in.IsZero() {
			active = true
		}
	}
	if !active && !serve {
		return
	}
	r.rec.Frames = append(r.rec.Frames, Frame{Tick: tick, Intents: bits, Serve: serve})
}

// Finish seals the recording with the final state of the run.
func (r *Recorder) Finish(snap volley.Snapshot) (*Recording, error) {
	sum, err := Summarize(snap)
	if err != nil {
		return nil, err
	}
	r.rec.Final = sum
	rec := r.rec
	return &rec, nil
}

// Summarize condenses a snapshot into the fields compared on verification.
func Summarize(snap volley.Snapshot) (Summary, error) {
	digest, err := Digest(snap)
	if err != nil {
		return Summary{}, err
	}
	m := snap.Match
	return Summary{
		Ticks:     snap.Tick,
		Digest:    digest,
		ScoreA:    m.ScoreA,
		ScoreB:    m.ScoreB,
		SetsA:     m.SetsWonA,
		SetsB:     m.SetsWonB,
		SetScores: m.SetScores,
		Winner:    m.Winner,
	}, nil
}

// Digest hashes the msgpack encoding of a snapshot. Equal digests mean the
// simulations agree bit for bit.
func Digest(snap volley.Snapshot) (string, error) {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("replay: encode snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Index maps ticks to frames for playback.
func (rec *Recording) Index() map[int]Frame {
	idx := make(map[int]Frame, len(rec.Frames))
	for _, f := range rec.Frames {
		idx[f.Tick] = f
	}
	return idx
}

// Encode writes the recording to w.
func Encode(w io.Writer, rec *Recording) error {
	if err := msgpack.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Decode reads a recording from r.
func Decode(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return &rec, nil
}

// Save writes the recording to path, creating parent directories.
func Save(path string, rec *Recording) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("replay: cannot create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: cannot create %s: %w", path, err)
	}
	if err := Encode(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
