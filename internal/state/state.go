// Package state holds the daemon's aggregate status record and the
// concurrency-safe store that periodic collectors write into and IPC
// handlers read from.
package state

// Aggregate is the full status record exposed over IPC. Each sub-record is
// owned by exactly one periodic task; tasks never write outside their domain.
// JSON field names are part of the wire protocol and must stay stable.
type Aggregate struct {
	UserInfo          UserInfo        `json:"user_info"`
	SystemInfo        SystemInfo      `json:"system_info"`
	StorageInfo       []DiskInfo      `json:"storage_info"`
	NetworkStatus     NetworkStatus   `json:"network_status"`
	NetworkTraffic    NetworkTraffic  `json:"network_traffic"`
	AudioStatus       AudioStatus     `json:"audio_status"`
	VolumeState       VolumeState     `json:"volume_state"`
	WeatherInfo       WeatherInfo     `json:"weather_info"`
	LauncherShortcuts Shortcuts       `json:"launcher_shortcuts"`
	Toggles           Toggles         `json:"toggles"`
	VisualizerData    VisualizerData  `json:"visualizer_data"`
}

// UserInfo identifies the desktop session owner.
type UserInfo struct {
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	Email       string  `json:"email"`
	GithubURL   string  `json:"github_url"`
	AvatarPath  *string `json:"avatar_path"`
}

// SystemInfo is a point-in-time hardware and OS snapshot.
type SystemInfo struct {
	OSName         string  `json:"os_name"`
	Hostname       string  `json:"hostname"`
	CPUModel       string  `json:"cpu_model"`
	CPUCores       int     `json:"cpu_cores"`
	CPUFreqGHz     float64 `json:"cpu_freq_ghz"`
	CPULoadPercent float64 `json:"cpu_load_percent"`
	RAMUsedBytes   uint64  `json:"ram_used_bytes"`
	RAMTotalBytes  uint64  `json:"ram_total_bytes"`
	GPUVendor      string  `json:"gpu_vendor"`
	GPUModel       string  `json:"gpu_model"`
	GPUVRAMUsed    uint64  `json:"gpu_vram_used_bytes"`
	GPUVRAMTotal   uint64  `json:"gpu_vram_total_bytes"`
}

// DiskInfo describes one mounted filesystem. The storage list is replaced
// wholesale on every refresh, never merged entry by entry.
type DiskInfo struct {
	Device     string `json:"device"`
	Mountpoint string `json:"mountpoint"`
	FSType     string `json:"fs_type"`
	UsedBytes  uint64 `json:"used_bytes"`
	TotalBytes uint64 `json:"total_bytes"`
}

// NetworkStatus describes the active interface.
type NetworkStatus struct {
	Interface string  `json:"interface"`
	IPAddress string  `json:"ip_address"`
	SSID      *string `json:"ssid"`
	LinkState string  `json:"link_state"`
}

// NetworkTraffic carries receive/transmit rates derived from a
// previous-sample baseline held privately by the network task.
type NetworkTraffic struct {
	Interface string  `json:"interface"`
	RxKbps    float64 `json:"rx_kbps"`
	TxKbps    float64 `json:"tx_kbps"`
}

// AudioStatus describes the current media player source.
type AudioStatus struct {
	SourceName string `json:"source_name"`
	TrackTitle string `json:"track_title"`
	Artist     string `json:"artist"`
	Playing    bool   `json:"playing"`
}

// VolumeState is the default sink's level and mute flag.
type VolumeState struct {
	LevelPercent int  `json:"level_percent"`
	Muted        bool `json:"muted"`
}

// WeatherInfo is the latest weather observation, or a fallback placeholder
// when the provider is unreachable.
type WeatherInfo struct {
	LocationDisplay string  `json:"location_display"`
	TemperatureC    int     `json:"temperature_c"`
	Condition       string  `json:"condition"`
	IconName        *string `json:"icon_name"`
}

// Shortcuts is seeded once from configuration at startup and never
// refreshed afterwards.
type Shortcuts struct {
	LeftLinks   []LinkButton `json:"left_links"`
	RofiCommand string       `json:"rofi_command"`
}

// LinkButton is one launcher link entry.
type LinkButton struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	IconName string `json:"icon_name"`
}

// Toggles mirrors the radio/VPN switch states.
type Toggles struct {
	WifiEnabled      bool `json:"wifi_enabled"`
	VPNConnected     bool `json:"vpn_connected"`
	BluetoothEnabled bool `json:"bluetooth_enabled"`
}

// VisualizerData carries audio spectrum bands for the front-end visualizer.
type VisualizerData struct {
	FrequencyBands []float64 `json:"frequency_bands"`
	SampleRate     int       `json:"sample_rate"`
	BandCount      int       `json:"band_count"`
}

// DefaultBandCount is the visualizer band count used until real spectrum
// data arrives.
const DefaultBandCount = 32

// Defaults returns the aggregate as it exists before any task has run:
// "Loading..." sentinels for slow-to-arrive strings, zeroed numbers, and
// the stock shortcut set. Front-ends render these directly, so the exact
// values are load-bearing.
func Defaults() Aggregate {
	return Aggregate{
		UserInfo: UserInfo{
			Username:  "user",
			Email:     "user@example.com",
			GithubURL: "https://github.com",
		},
		SystemInfo: SystemInfo{
			OSName:    "Loading...",
			Hostname:  "Loading...",
			CPUModel:  "Loading...",
			GPUVendor: "Loading...",
			GPUModel:  "Loading...",
		},
		StorageInfo: []DiskInfo{},
		NetworkStatus: NetworkStatus{
			Interface: "Loading...",
			IPAddress: "0.0.0.0",
			LinkState: "disconnected",
		},
		NetworkTraffic: NetworkTraffic{},
		AudioStatus: AudioStatus{
			SourceName: "No source",
			TrackTitle: "Unknown",
			Artist:     "Unknown",
			Playing:    false,
		},
		VolumeState: VolumeState{
			LevelPercent: 50,
			Muted:        false,
		},
		WeatherInfo: WeatherInfo{
			LocationDisplay: "Loading...",
			TemperatureC:    0,
			Condition:       "Unknown",
		},
		LauncherShortcuts: Shortcuts{
			LeftLinks: []LinkButton{
				{Label: "GitHub", URL: "https://github.com", IconName: "github"},
				{Label: "Mail", URL: "https://protonmail.com", IconName: "mail"},
				{Label: "OSV", URL: "https://onyxdigital.dev/OnyxOSV", IconName: "osv"},
			},
			RofiCommand: "rofi -show drun",
		},
		Toggles: Toggles{},
		VisualizerData: VisualizerData{
			FrequencyBands: make([]float64, DefaultBandCount),
			SampleRate:     44100,
			BandCount:      DefaultBandCount,
		},
	}
}

// Clone returns a deep copy safe to hand to another goroutine. Slices and
// pointer fields are reallocated so a snapshot holder can never reach back
// into the store's record.
func (a Aggregate) Clone() Aggregate {
	out := a

	out.UserInfo.DisplayName = cloneStringPtr(a.UserInfo.DisplayName)
	out.UserInfo.AvatarPath = cloneStringPtr(a.UserInfo.AvatarPath)
	out.NetworkStatus.SSID = cloneStringPtr(a.NetworkStatus.SSID)
	out.WeatherInfo.IconName = cloneStringPtr(a.WeatherInfo.IconName)

	if a.StorageInfo != nil {
		out.StorageInfo = make([]DiskInfo, len(a.StorageInfo))
		copy(out.StorageInfo, a.StorageInfo)
	}
	if a.LauncherShortcuts.LeftLinks != nil {
		out.LauncherShortcuts.LeftLinks = make([]LinkButton, len(a.LauncherShortcuts.LeftLinks))
		copy(out.LauncherShortcuts.LeftLinks, a.LauncherShortcuts.LeftLinks)
	}
	if a.VisualizerData.FrequencyBands != nil {
		out.VisualizerData.FrequencyBands = make([]float64, len(a.VisualizerData.FrequencyBands))
		copy(out.VisualizerData.FrequencyBands, a.VisualizerData.FrequencyBands)
	}

	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StringPtr is a convenience for the optional string fields above.
func StringPtr(s string) *string {
	return &s
}
