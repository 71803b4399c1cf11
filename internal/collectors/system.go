package collectors

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// osReleasePaths are tried in order; the distro-specific file wins when the
// machine runs the in-house OS image.
var osReleasePaths = []string{"/etc/onyx-osv-release", "/etc/os-release"}

// SystemCollector samples OS identity, CPU, RAM, and GPU. The CPU load
// baseline from the previous tick is private to this collector.
type SystemCollector struct {
	runner  Runner
	prevCPU cpuTimes
}

type cpuTimes struct {
	total uint64
	idle  uint64
	valid bool
}

func NewSystemCollector(runner Runner) *SystemCollector {
	return &SystemCollector{runner: runner}
}

// Collect gathers one full system snapshot.
func (c *SystemCollector) Collect(ctx context.Context) (state.SystemInfo, error) {
	info := state.SystemInfo{
		OSName:   c.osName(ctx),
		Hostname: hostname(),
	}

	if content, err := os.ReadFile("/proc/cpuinfo"); err == nil {
		info.CPUModel, info.CPUFreqGHz, info.CPUCores = parseCPUInfo(string(content))
	} else {
		return state.SystemInfo{}, err
	}

	if content, err := os.ReadFile("/proc/stat"); err == nil {
		load, sample := cpuLoad(string(content), c.prevCPU)
		info.CPULoadPercent = load
		c.prevCPU = sample
	} else {
		return state.SystemInfo{}, err
	}

	if content, err := os.ReadFile("/proc/meminfo"); err == nil {
		info.RAMUsedBytes, info.RAMTotalBytes = parseMemInfo(string(content))
	} else {
		return state.SystemInfo{}, err
	}

	// GPU enumeration is best effort; boxes without lspci report Unknown.
	if out, err := c.runner.Run(ctx, "lspci"); err == nil {
		info.GPUVendor, info.GPUModel = parseGPU(out)
	} else {
		info.GPUVendor, info.GPUModel = "Unknown", "Unknown GPU"
	}

	return info, nil
}

func (c *SystemCollector) osName(ctx context.Context) string {
	for _, path := range osReleasePaths {
		if content, err := os.ReadFile(path); err == nil {
			if name := parseOSRelease(string(content)); name != "" {
				return name
			}
		}
	}
	// Boxes without a release file still have a kernel name.
	if out, err := c.runner.Run(ctx, "uname", "-s"); err == nil {
		if name := strings.TrimSpace(out); name != "" {
			return name
		}
	}
	return "Unknown OS"
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}

// parseOSRelease extracts PRETTY_NAME from an os-release style file.
func parseOSRelease(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			name := strings.TrimPrefix(line, "PRETTY_NAME=")
			return strings.Trim(name, `"`)
		}
	}
	return ""
}

// parseCPUInfo reads the model name, frequency in GHz, and logical core
// count out of /proc/cpuinfo.
func parseCPUInfo(content string) (model string, freqGHz float64, cores int) {
	model = "Unknown CPU"
	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "processor"):
			cores++
		case strings.HasPrefix(line, "model name") && model == "Unknown CPU":
			if parts := strings.SplitN(line, ":", 2); len(parts) == 2 {
				model = strings.TrimSpace(parts[1])
			}
		case strings.HasPrefix(line, "cpu MHz") && freqGHz == 0:
			if parts := strings.SplitN(line, ":", 2); len(parts) == 2 {
				if mhz, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
					freqGHz = mhz / 1000.0
				}
			}
		}
	}
	return model, freqGHz, cores
}

// cpuLoad computes the busy percentage over the window since the previous
// sample. The very first call has no baseline and falls back to the
// since-boot average.
func cpuLoad(content string, prev cpuTimes) (float64, cpuTimes) {
	cur := parseCPUTotals(content)
	if !cur.valid {
		return 0, prev
	}

	baseTotal, baseIdle := uint64(0), uint64(0)
	if prev.valid {
		baseTotal, baseIdle = prev.total, prev.idle
	}

	if cur.total < baseTotal || cur.idle < baseIdle {
		return 0, cur
	}
	totalDelta := cur.total - baseTotal
	idleDelta := cur.idle - baseIdle
	// iowait accounting can make idle outpace total across a short window.
	if totalDelta == 0 || idleDelta > totalDelta {
		return 0, cur
	}

	return float64(totalDelta-idleDelta) / float64(totalDelta) * 100, cur
}

func parseCPUTotals(content string) cpuTimes {
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			return cpuTimes{}
		}

		var sample cpuTimes
		for i := 1; i < len(fields) && i < 9; i++ {
			val, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				continue
			}
			sample.total += val
			if i == 4 { // idle column
				sample.idle = val
			}
		}
		sample.valid = true
		return sample
	}
	return cpuTimes{}
}

// parseMemInfo derives used/total bytes from /proc/meminfo. Values there
// are in kB; used is total minus MemAvailable, the kernel's own estimate.
func parseMemInfo(content string) (used, total uint64) {
	var available uint64
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = kb * 1024
		case "MemAvailable:":
			available = kb * 1024
		}
	}
	if total >= available {
		used = total - available
	}
	return used, total
}

// parseGPU picks the first VGA/3D controller out of lspci output and maps
// it to a vendor bucket. VRAM figures need vendor tooling and stay zero.
func parseGPU(lspciOut string) (vendor, model string) {
	for _, line := range strings.Split(lspciOut, "\n") {
		if !strings.Contains(line, "VGA") && !strings.Contains(line, "3D controller") {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		model = strings.TrimSpace(parts[2])
		switch {
		case strings.Contains(model, "NVIDIA"):
			return "NVIDIA", model
		case strings.Contains(model, "AMD"), strings.Contains(model, "Radeon"):
			return "AMD", model
		case strings.Contains(model, "Intel"):
			return "Intel", model
		default:
			return "Unknown", model
		}
	}
	return "Unknown", "Unknown GPU"
}
