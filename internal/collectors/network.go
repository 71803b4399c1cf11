package collectors

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// NetworkCollector probes the default-route interface and derives traffic
// rates from /proc/net/dev byte counters. The previous-sample baselines are
// private to the collector, keyed by interface name.
type NetworkCollector struct {
	runner    Runner
	baselines map[string]trafficCounters
}

type trafficCounters struct {
	rxBytes uint64
	txBytes uint64
}

func NewNetworkCollector(runner Runner) *NetworkCollector {
	return &NetworkCollector{
		runner:    runner,
		baselines: make(map[string]trafficCounters),
	}
}

// Status resolves the interface carrying the default route and its source
// address. Wireless interfaces are additionally asked for their SSID. With
// no route to probe, the disconnected placeholder is returned instead of an
// error so the front-end shows "disconnected" rather than stale data.
func (c *NetworkCollector) Status(ctx context.Context) (state.NetworkStatus, error) {
	out, err := c.runner.Run(ctx, "ip", "route", "get", "8.8.8.8")
	if err != nil {
		return state.NetworkStatus{}, err
	}

	iface, ip, ok := parseRoute(out)
	if !ok {
		return state.Defaults().NetworkStatus, nil
	}

	status := state.NetworkStatus{
		Interface: iface,
		IPAddress: ip,
		LinkState: "connected",
	}
	if strings.HasPrefix(iface, "wl") {
		if ssid, err := c.runner.Run(ctx, "iwgetid", "-r", iface); err == nil {
			trimmed := strings.TrimSpace(ssid)
			if trimmed != "" {
				status.SSID = state.StringPtr(trimmed)
			}
		}
	}
	return status, nil
}

// parseRoute pulls the dev and src tokens out of `ip route get` output.
func parseRoute(out string) (iface, ip string, ok bool) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "dev ") || !strings.Contains(line, "src ") {
			continue
		}

		iface, ip = "unknown", "0.0.0.0"
		fields := strings.Fields(line)
		for i, field := range fields {
			if field == "dev" && i+1 < len(fields) {
				iface = fields[i+1]
			}
			if field == "src" && i+1 < len(fields) {
				ip = fields[i+1]
			}
		}
		return iface, ip, true
	}
	return "", "", false
}

// Traffic reports the byte delta since the previous sample for iface,
// scaled to kilobytes. The first observation of an interface has no
// baseline and reports zero; a counter that moved backwards (reset or
// wrap) also reports zero rather than a negative rate.
func (c *NetworkCollector) Traffic(iface string) (state.NetworkTraffic, error) {
	content, err := os.ReadFile("/proc/net/dev")
	if err != nil {
		return state.NetworkTraffic{}, err
	}

	traffic := state.NetworkTraffic{Interface: iface}
	cur, found := parseInterfaceCounters(string(content), iface)
	if !found {
		return traffic, nil
	}

	if prev, seen := c.baselines[iface]; seen {
		traffic.RxKbps = saturatingDeltaKB(cur.rxBytes, prev.rxBytes)
		traffic.TxKbps = saturatingDeltaKB(cur.txBytes, prev.txBytes)
	}
	c.baselines[iface] = cur

	return traffic, nil
}

func saturatingDeltaKB(cur, prev uint64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / 1024.0
}

// parseInterfaceCounters finds iface's receive/transmit byte columns in
// /proc/net/dev. The interface name and first counter can share a token
// when the number is wide, so the line is split on the colon first.
func parseInterfaceCounters(content, iface string) (trafficCounters, bool) {
	for _, line := range strings.Split(content, "\n") {
		name, rest, found := strings.Cut(strings.TrimSpace(line), ":")
		if !found || name != iface {
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) < 9 {
			return trafficCounters{}, false
		}

		rx, _ := strconv.ParseUint(fields[0], 10, 64)
		tx, _ := strconv.ParseUint(fields[8], 10, 64)
		return trafficCounters{rxBytes: rx, txBytes: tx}, true
	}
	return trafficCounters{}, false
}
