package collectors

import (
	"context"
	"strconv"
	"strings"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// playerctlFormat keeps the four fields pipe-separated so a single
// invocation covers the whole status.
const playerctlFormat = "{{ playerName }}|{{ title }}|{{ artist }}|{{ status }}"

// AudioCollector reads MPRIS player metadata and PulseAudio sink state.
type AudioCollector struct {
	runner Runner
}

func NewAudioCollector(runner Runner) *AudioCollector {
	return &AudioCollector{runner: runner}
}

// Status queries the active MPRIS player. No player (or no playerctl at
// all) is a normal desktop condition, reported as the "No source" default
// rather than an error.
func (c *AudioCollector) Status(ctx context.Context) (state.AudioStatus, error) {
	out, err := c.runner.Run(ctx, "playerctl", "metadata", "--format", playerctlFormat)
	if err != nil {
		return state.Defaults().AudioStatus, nil
	}

	status, ok := parsePlayerMetadata(out)
	if !ok {
		return state.Defaults().AudioStatus, nil
	}
	return status, nil
}

func parsePlayerMetadata(out string) (state.AudioStatus, bool) {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" || strings.Contains(trimmed, "No players found") {
		return state.AudioStatus{}, false
	}

	parts := strings.Split(trimmed, "|")
	if len(parts) < 4 {
		return state.AudioStatus{}, false
	}

	return state.AudioStatus{
		SourceName: parts[0],
		TrackTitle: parts[1],
		Artist:     parts[2],
		Playing:    parts[3] == "Playing",
	}, true
}

// Volume reads the default sink's level and mute flag via pactl. Unlike
// Status, a pactl failure is an error: without PulseAudio there is no
// meaningful volume to report and the stale value should stand.
func (c *AudioCollector) Volume(ctx context.Context) (state.VolumeState, error) {
	volumeOut, err := c.runner.Run(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@")
	if err != nil {
		return state.VolumeState{}, err
	}

	muteOut, err := c.runner.Run(ctx, "pactl", "get-sink-mute", "@DEFAULT_SINK@")
	if err != nil {
		return state.VolumeState{}, err
	}

	return state.VolumeState{
		LevelPercent: parseSinkVolume(volumeOut),
		Muted:        strings.HasSuffix(strings.TrimSpace(muteOut), "yes"),
	}, nil
}

// parseSinkVolume finds the first percentage token on the Volume line,
// capped at 100. pactl can report above 100 for boosted sinks.
func parseSinkVolume(out string) int {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Volume:") {
			continue
		}
		for _, field := range strings.Fields(line) {
			if !strings.HasSuffix(field, "%") {
				continue
			}
			if level, err := strconv.Atoi(strings.TrimSuffix(field, "%")); err == nil {
				if level > 100 {
					return 100
				}
				if level < 0 {
					return 0
				}
				return level
			}
		}
	}
	return 50
}
