// Package actions executes the control side of the IPC surface: volume and
// mute, radio toggles, power transitions, and app/URL launches. Everything
// shells out to the session's own tools, so the capability interfaces exist
// mainly to let the dispatcher be tested without touching the machine.
package actions

import (
	"context"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
)

// AudioController adjusts the default sink.
type AudioController interface {
	SetVolume(ctx context.Context, percent int) error
	ToggleMute(ctx context.Context) (bool, error)
}

// NetworkController flips radio and VPN state. Each toggle returns the new
// state after the flip.
type NetworkController interface {
	ToggleWifi(ctx context.Context) (bool, error)
	ToggleBluetooth(ctx context.Context) (bool, error)
	ToggleVPN(ctx context.Context, name string) (bool, error)
}

// PowerController ends the session or the machine.
type PowerController interface {
	Logout(ctx context.Context) error
	Reboot(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Launcher starts desktop programs without waiting for them to exit.
type Launcher interface {
	LaunchAppMenu(ctx context.Context, command string) error
	LaunchURL(ctx context.Context, url, browserCommand string) error
}

// Controller is the exec-backed implementation of every capability
// interface.
type Controller struct {
	runner Runner
}

var (
	_ AudioController   = (*Controller)(nil)
	_ NetworkController = (*Controller)(nil)
	_ PowerController   = (*Controller)(nil)
	_ Launcher          = (*Controller)(nil)
)

// NewController builds a Controller. A nil runner selects the os/exec
// backed one.
func NewController(runner Runner) *Controller {
	if runner == nil {
		runner = NewRunner()
	}
	return &Controller{runner: runner}
}

// SetVolume sets the default sink's volume. Values outside [0, 100] are
// clamped; the dispatcher rejects them before they reach here, so the clamp
// only matters for direct callers.
func (c *Controller) SetVolume(ctx context.Context, percent int) error {
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	_, err := c.runner.Run(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", strconv.Itoa(percent)+"%")
	if err != nil {
		return apperrors.ActionFailed("set-volume", err)
	}
	return nil
}

// ToggleMute flips the default sink's mute flag and reports the state the
// sink ended up in.
func (c *Controller) ToggleMute(ctx context.Context) (bool, error) {
	if _, err := c.runner.Run(ctx, "pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle"); err != nil {
		return false, apperrors.ActionFailed("toggle-mute", err)
	}
	out, err := c.runner.Run(ctx, "pactl", "get-sink-mute", "@DEFAULT_SINK@")
	if err != nil {
		return false, apperrors.ActionFailed("toggle-mute", err)
	}
	return strings.HasSuffix(strings.TrimSpace(out), "yes"), nil
}

// ToggleWifi flips the wifi radio and returns the new state.
func (c *Controller) ToggleWifi(ctx context.Context) (bool, error) {
	out, err := c.runner.Run(ctx, "nmcli", "radio", "wifi")
	if err != nil {
		return false, apperrors.ActionFailed("toggle-wifi", err)
	}
	enabled := strings.TrimSpace(out) == "enabled"

	next := "on"
	if enabled {
		next = "off"
	}
	if _, err := c.runner.Run(ctx, "nmcli", "radio", "wifi", next); err != nil {
		return false, apperrors.ActionFailed("toggle-wifi", err)
	}
	return !enabled, nil
}

// ToggleBluetooth flips the bluetooth controller power and returns the new
// state.
func (c *Controller) ToggleBluetooth(ctx context.Context) (bool, error) {
	out, err := c.runner.Run(ctx, "bluetoothctl", "show")
	if err != nil {
		return false, apperrors.ActionFailed("toggle-bluetooth", err)
	}
	powered := strings.Contains(out, "Powered: yes")

	next := "on"
	if powered {
		next = "off"
	}
	if _, err := c.runner.Run(ctx, "bluetoothctl", "power", next); err != nil {
		return false, apperrors.ActionFailed("toggle-bluetooth", err)
	}
	return !powered, nil
}

// ToggleVPN brings the named NetworkManager connection up or down, keyed on
// whether it currently appears in the active connection list.
func (c *Controller) ToggleVPN(ctx context.Context, name string) (bool, error) {
	out, err := c.runner.Run(ctx, "nmcli", "connection", "show", "--active")
	if err != nil {
		return false, apperrors.ActionFailed("toggle-vpn", err)
	}
	active := strings.Contains(out, name)

	verb := "up"
	if active {
		verb = "down"
	}
	if _, err := c.runner.Run(ctx, "nmcli", "connection", verb, name); err != nil {
		return false, apperrors.ActionFailed("toggle-vpn", err)
	}
	return !active, nil
}

// Logout terminates the invoking user's login session.
func (c *Controller) Logout(ctx context.Context) error {
	user := os.Getenv("USER")
	if user == "" {
		user = "user"
	}
	if _, err := c.runner.Run(ctx, "loginctl", "terminate-user", user); err != nil {
		return apperrors.ActionFailed("logout", err)
	}
	return nil
}

// Reboot restarts the machine.
func (c *Controller) Reboot(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, "systemctl", "reboot"); err != nil {
		return apperrors.ActionFailed("reboot", err)
	}
	return nil
}

// Shutdown powers the machine off.
func (c *Controller) Shutdown(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, "systemctl", "poweroff"); err != nil {
		return apperrors.ActionFailed("shutdown", err)
	}
	return nil
}

// LaunchAppMenu spawns the configured launcher command through a shell and
// does not wait for it.
func (c *Controller) LaunchAppMenu(_ context.Context, command string) error {
	if err := c.runner.Start("sh", "-c", command); err != nil {
		return apperrors.ActionFailed("launch-app-menu", err)
	}
	return nil
}

// LaunchURL opens url with the configured browser and does not wait for it.
func (c *Controller) LaunchURL(_ context.Context, url, browserCommand string) error {
	if err := c.runner.Start(browserCommand, url); err != nil {
		return apperrors.ActionFailed("launch-url", err)
	}
	return nil
}
