package collectors

import (
	"context"
	"strings"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// TogglesCollector samples the wifi/bluetooth/VPN switch states from the
// NetworkManager and BlueZ CLIs.
type TogglesCollector struct {
	runner Runner
}

func NewTogglesCollector(runner Runner) *TogglesCollector {
	return &TogglesCollector{runner: runner}
}

// Collect fails wholesale when any probe fails, leaving the previous
// toggle states in place.
func (c *TogglesCollector) Collect(ctx context.Context) (state.Toggles, error) {
	wifiOut, err := c.runner.Run(ctx, "nmcli", "radio", "wifi")
	if err != nil {
		return state.Toggles{}, err
	}

	btOut, err := c.runner.Run(ctx, "bluetoothctl", "show")
	if err != nil {
		return state.Toggles{}, err
	}

	vpnOut, err := c.runner.Run(ctx, "nmcli", "connection", "show", "--active")
	if err != nil {
		return state.Toggles{}, err
	}

	return state.Toggles{
		WifiEnabled:      strings.TrimSpace(wifiOut) == "enabled",
		BluetoothEnabled: strings.Contains(btOut, "Powered: yes"),
		VPNConnected:     strings.Contains(vpnOut, "vpn") || strings.Contains(vpnOut, "tun"),
	}, nil
}
