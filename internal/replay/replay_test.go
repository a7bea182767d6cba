package replay

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
)

func testSnapshot(t *testing.T) volley.Snapshot {
	t.Helper()
	sim, err := volley.New(config.DefaultVolleyConfig(), 7, 1)
	if err != nil {
		t.Fatalf("volley.New() failed: %v", err)
	}
	sim.RequestServe(volley.SideA)
	for range 30 {
		sim.Tick(1.0 / 60)
	}
	return sim.Snapshot()
}

func TestRecordSkipsIdleTicks(t *testing.T) {
	r := NewRecorder("volley", 7, 2, 60, config.DefaultVolleyConfig())

	r.Record(0, []core.Intent{{}, {}}, false)
	r.Record(1, []core.Intent{{MoveLeft: true}, {}}, false)
	r.Record(2, []core.Intent{{}, {}}, true)
	r.Record(3, nil, false)

	rec, err := r.Finish(testSnapshot(t))
	if err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	if len(rec.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d: %+v", len(rec.Frames), rec.Frames)
	}
	if rec.Frames[0].Tick != 1 || rec.Frames[0].Intents[0] != (core.Intent{MoveLeft: true}).Bits() {
		t.Errorf("unexpected first frame %+v", rec.Frames[0])
	}
	if !rec.Frames[1].Serve {
		t.Error("serve frame lost")
	}

	idx := rec.Index()
	if _, ok := idx[2]; !ok {
		t.Error("Index missing tick 2")
	}
	if _, ok := idx[0]; ok {
		t.Error("Index has idle tick 0")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := NewRecorder("beach", 99, 1, 30, config.DefaultBeachConfig())
	r.Record(4, []core.Intent{{Jump: true, Strike: true}}, true)
	rec, err := r.Finish(testSnapshot(t))
	if err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "replays", "match.vrep")
	if err := Save(path, rec); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if got.ID != rec.ID || got.GameID != "beach" || got.Seed != 99 || got.Humans != 1 || got.TickRate != 30 {
		t.Errorf("header mismatch: %+v", got)
	}
	if got.Final.Digest != rec.Final.Digest || got.Final.Ticks != rec.Final.Ticks {
		t.Errorf("final mismatch: %+v vs %+v", got.Final, rec.Final)
	}
	if len(got.Config.Rules.Roster) != 2 {
		t.Errorf("config not preserved: %v", got.Config.Rules.Roster)
	}
	if in := core.IntentFromBits(got.Frames[0].Intents[0]); !in.Jump || !in.Strike || in.MoveLeft {
		t.Errorf("intent bits decoded to %v", in)
	}
}

func TestDecodeRejectsOtherVersions(t *testing.T) {
	data, err := msgpack.Marshal(&Recording{Version: FormatVersion + 1, GameID: "volley"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decode(bytes.NewReader(data))
	if !errors.Is(err, ErrVersion) {
		t.Errorf("expected ErrVersion, got %v", err)
	}

	if _, err := Decode(bytes.NewReader([]byte("not msgpack"))); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestDigestTracksState(t *testing.T) {
	snap := testSnapshot(t)

	a, err := Digest(snap)
	if err != nil {
		t.Fatalf("Digest() failed: %v", err)
	}
	b, _ := Digest(snap)
	if a != b {
		t.Error("digest is not stable")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256, got %q", a)
	}

	snap.Ball.Pos.X += 1e-9
	c, _ := Digest(snap)
	if c == a {
		t.Error("digest ignored a ball position change")
	}
}
