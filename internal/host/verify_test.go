package host

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/replay"
)

func recordMatch(t *testing.T, cfg config.VolleyConfig, mode Mode, seed int64) (*Driver, *replay.Recording) {
	t.Helper()
	d, err := NewDriver(cfg, Options{GameID: "volley", Seed: seed, Mode: mode, TickRate: 60, Record: true})
	require.NoError(t, err)
	playScripted(d)

	rec, err := d.Recording()
	require.NoError(t, err)
	require.NotNil(t, rec)
	return d, rec
}

func TestRecordingVerifies(t *testing.T) {
	for _, mode := range []Mode{ModeCPU, ModeHotseat, ModeDemo} {
		t.Run(string(mode), func(t *testing.T) {
			d, rec := recordMatch(t, onePointMatch(), mode, 21)

			assert.Equal(t, mode.Humans(), rec.Humans)
			assert.Equal(t, d.Sim().Ticks(), rec.Final.Ticks)
			if mode != ModeDemo {
				assert.NotEmpty(t, rec.Frames)
			}

			got, err := Verify(rec)
			require.NoError(t, err)
			assert.Equal(t, rec.Final, got)
		})
	}
}

func TestRecordingSurvivesEncoding(t *testing.T) {
	_, rec := recordMatch(t, onePointMatch(), ModeCPU, 4)

	var buf bytes.Buffer
	require.NoError(t, replay.Encode(&buf, rec))
	decoded, err := replay.Decode(&buf)
	require.NoError(t, err)

	_, err = Verify(decoded)
	assert.NoError(t, err)
}

func TestVerifyDetectsTampering(t *testing.T) {
	_, rec := recordMatch(t, onePointMatch(), ModeCPU, 8)

	t.Run("seed", func(t *testing.T) {
		bad := *rec
		bad.Seed++
		_, err := Verify(&bad)
		assert.ErrorIs(t, err, replay.ErrMismatch)
	})

	t.Run("digest", func(t *testing.T) {
		bad := *rec
		bad.Final.Digest = "0000"
		_, err := Verify(&bad)
		assert.ErrorIs(t, err, replay.ErrMismatch)
	})

	t.Run("length", func(t *testing.T) {
		bad := *rec
		bad.Final.Ticks += 10
		_, err := Verify(&bad)
		assert.ErrorIs(t, err, replay.ErrMismatch)
	})
}

func TestPlaybackCallsOnTick(t *testing.T) {
	_, rec := recordMatch(t, onePointMatch(), ModeDemo, 2)

	calls := 0
	d, err := Playback(rec, func(*Driver) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, rec.Final.Ticks, calls)
	assert.Equal(t, rec.Final.Ticks, d.Sim().Ticks())
}
