package collectors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePlayerMetadata(t *testing.T) {
	status, ok := parsePlayerMetadata("spotify|Black Sands|Bonobo|Playing\n")
	require.True(t, ok)
	require.Equal(t, "spotify", status.SourceName)
	require.Equal(t, "Black Sands", status.TrackTitle)
	require.Equal(t, "Bonobo", status.Artist)
	require.True(t, status.Playing)
}

func TestParsePlayerMetadataPaused(t *testing.T) {
	status, ok := parsePlayerMetadata("firefox|Some Stream|Someone|Paused\n")
	require.True(t, ok)
	require.False(t, status.Playing)
}

func TestParsePlayerMetadataRejectsJunk(t *testing.T) {
	for name, out := range map[string]string{
		"empty":        "",
		"whitespace":   "   \n",
		"no players":   "No players found\n",
		"short record": "spotify|title\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := parsePlayerMetadata(out)
			require.False(t, ok)
		})
	}
}

func TestAudioStatusFallsBackWhenPlayerctlFails(t *testing.T) {
	runner := newFakeRunner()
	runner.errors["playerctl metadata --format {{ playerName }}|{{ title }}|{{ artist }}|{{ status }}"] = errors.New("exit status 1")

	c := NewAudioCollector(runner)
	status, err := c.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, "No source", status.SourceName)
	require.Equal(t, "Unknown", status.TrackTitle)
	require.False(t, status.Playing)
}

const pactlVolumeFixture = `Volume: front-left: 39321 /  60% / -13.32 dB,   front-right: 39321 /  60% / -13.32 dB
        balance 0.00
`

func TestParseSinkVolume(t *testing.T) {
	require.Equal(t, 60, parseSinkVolume(pactlVolumeFixture))
}

func TestParseSinkVolumeClampsBoostedSinks(t *testing.T) {
	require.Equal(t, 100, parseSinkVolume("Volume: mono: 98304 / 150% / 10.57 dB\n"))
}

func TestParseSinkVolumeDefaultsWithoutVolumeLine(t *testing.T) {
	require.Equal(t, 50, parseSinkVolume("something unexpected\n"))
}

func TestVolumeReadsLevelAndMute(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["pactl get-sink-volume @DEFAULT_SINK@"] = pactlVolumeFixture
	runner.responses["pactl get-sink-mute @DEFAULT_SINK@"] = "Mute: yes\n"

	c := NewAudioCollector(runner)
	volume, err := c.Volume(context.Background())
	require.NoError(t, err)
	require.Equal(t, 60, volume.LevelPercent)
	require.True(t, volume.Muted)
}

func TestVolumePropagatesPactlFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.errors["pactl get-sink-volume @DEFAULT_SINK@"] = errors.New("pa_context_connect() failed")

	c := NewAudioCollector(runner)
	_, err := c.Volume(context.Background())
	require.Error(t, err)
}
