package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsSentinels(t *testing.T) {
	agg := Defaults()

	require.Equal(t, "user", agg.UserInfo.Username)
	require.Nil(t, agg.UserInfo.DisplayName)
	require.Equal(t, "user@example.com", agg.UserInfo.Email)
	require.Equal(t, "https://github.com", agg.UserInfo.GithubURL)

	require.Equal(t, "Loading...", agg.SystemInfo.OSName)
	require.Equal(t, "Loading...", agg.SystemInfo.Hostname)
	require.Equal(t, "Loading...", agg.SystemInfo.CPUModel)
	require.Zero(t, agg.SystemInfo.CPUCores)
	require.Zero(t, agg.SystemInfo.RAMTotalBytes)

	require.NotNil(t, agg.StorageInfo)
	require.Empty(t, agg.StorageInfo)

	require.Equal(t, "Loading...", agg.NetworkStatus.Interface)
	require.Equal(t, "0.0.0.0", agg.NetworkStatus.IPAddress)
	require.Nil(t, agg.NetworkStatus.SSID)
	require.Equal(t, "disconnected", agg.NetworkStatus.LinkState)

	require.Equal(t, "No source", agg.AudioStatus.SourceName)
	require.Equal(t, "Unknown", agg.AudioStatus.TrackTitle)
	require.Equal(t, "Unknown", agg.AudioStatus.Artist)
	require.False(t, agg.AudioStatus.Playing)

	require.Equal(t, 50, agg.VolumeState.LevelPercent)
	require.False(t, agg.VolumeState.Muted)

	require.Equal(t, "Loading...", agg.WeatherInfo.LocationDisplay)
	require.Equal(t, 0, agg.WeatherInfo.TemperatureC)
	require.Equal(t, "Unknown", agg.WeatherInfo.Condition)
	require.Nil(t, agg.WeatherInfo.IconName)

	require.Len(t, agg.LauncherShortcuts.LeftLinks, 3)
	require.Equal(t, "GitHub", agg.LauncherShortcuts.LeftLinks[0].Label)
	require.Equal(t, "rofi -show drun", agg.LauncherShortcuts.RofiCommand)

	require.False(t, agg.Toggles.WifiEnabled)
	require.False(t, agg.Toggles.VPNConnected)
	require.False(t, agg.Toggles.BluetoothEnabled)

	require.Len(t, agg.VisualizerData.FrequencyBands, DefaultBandCount)
	for _, band := range agg.VisualizerData.FrequencyBands {
		require.Zero(t, band)
	}
	require.Equal(t, 44100, agg.VisualizerData.SampleRate)
	require.Equal(t, DefaultBandCount, agg.VisualizerData.BandCount)
}

func TestAggregateJSONShape(t *testing.T) {
	data, err := json.Marshal(Defaults())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{
		"user_info", "system_info", "storage_info", "network_status",
		"network_traffic", "audio_status", "volume_state", "weather_info",
		"launcher_shortcuts", "toggles", "visualizer_data",
	} {
		require.Contains(t, decoded, key)
	}

	// Optional fields serialize as explicit nulls, empty storage as [],
	// matching what front-end deserializers expect.
	var user map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["user_info"], &user))
	require.Equal(t, "null", string(user["display_name"]))
	require.Equal(t, "null", string(user["avatar_path"]))
	require.Equal(t, "[]", string(decoded["storage_info"]))
}

func TestAggregateJSONRoundTrip(t *testing.T) {
	agg := Defaults()
	agg.SystemInfo.OSName = "Onyx OSV 2.1"
	agg.SystemInfo.CPUCores = 16
	agg.NetworkStatus.SSID = StringPtr("homelab-5g")
	agg.StorageInfo = []DiskInfo{
		{Device: "/dev/nvme0n1p2", Mountpoint: "/", FSType: "ext4", UsedBytes: 1 << 34, TotalBytes: 1 << 39},
	}

	data, err := json.Marshal(agg)
	require.NoError(t, err)

	var back Aggregate
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, agg, back)
}

func TestCloneIsolation(t *testing.T) {
	orig := Defaults()
	orig.NetworkStatus.SSID = StringPtr("original")
	orig.StorageInfo = []DiskInfo{{Device: "/dev/sda1", Mountpoint: "/"}}

	cp := orig.Clone()

	*cp.NetworkStatus.SSID = "tampered"
	cp.StorageInfo[0].Device = "/dev/tampered"
	cp.LauncherShortcuts.LeftLinks[0].Label = "tampered"
	cp.VisualizerData.FrequencyBands[0] = 99.9

	require.Equal(t, "original", *orig.NetworkStatus.SSID)
	require.Equal(t, "/dev/sda1", orig.StorageInfo[0].Device)
	require.Equal(t, "GitHub", orig.LauncherShortcuts.LeftLinks[0].Label)
	require.Zero(t, orig.VisualizerData.FrequencyBands[0])
}
