package actions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
)

// fakeRunner serves canned stdout keyed by the full command line and
// records every call in order.
type fakeRunner struct {
	responses map[string]string
	errors    map[string]error
	calls     []string
	spawned   []string
	spawnErr  error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errors[key]; ok {
		return "", err
	}
	return f.responses[key], nil
}

func (f *fakeRunner) Start(name string, args ...string) error {
	f.spawned = append(f.spawned, strings.Join(append([]string{name}, args...), " "))
	return f.spawnErr
}

func (f *fakeRunner) called(key string) bool {
	for _, call := range f.calls {
		if call == key {
			return true
		}
	}
	return false
}

func TestSetVolumePassesPercentThrough(t *testing.T) {
	runner := newFakeRunner()
	ctl := NewController(runner)

	require.NoError(t, ctl.SetVolume(context.Background(), 35))
	require.True(t, runner.called("pactl set-sink-volume @DEFAULT_SINK@ 35%"))
}

func TestSetVolumeClampsOutOfRangeValues(t *testing.T) {
	runner := newFakeRunner()
	ctl := NewController(runner)

	require.NoError(t, ctl.SetVolume(context.Background(), 150))
	require.True(t, runner.called("pactl set-sink-volume @DEFAULT_SINK@ 100%"))

	require.NoError(t, ctl.SetVolume(context.Background(), -5))
	require.True(t, runner.called("pactl set-sink-volume @DEFAULT_SINK@ 0%"))
}

func TestToggleMuteReportsResultingState(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["pactl get-sink-mute @DEFAULT_SINK@"] = "Mute: yes\n"
	ctl := NewController(runner)

	muted, err := ctl.ToggleMute(context.Background())
	require.NoError(t, err)
	require.True(t, muted)
	require.Equal(t, []string{
		"pactl set-sink-mute @DEFAULT_SINK@ toggle",
		"pactl get-sink-mute @DEFAULT_SINK@",
	}, runner.calls)

	runner.responses["pactl get-sink-mute @DEFAULT_SINK@"] = "Mute: no\n"
	muted, err = ctl.ToggleMute(context.Background())
	require.NoError(t, err)
	require.False(t, muted)
}

func TestToggleWifiFlipsCurrentState(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["nmcli radio wifi"] = "enabled\n"
	ctl := NewController(runner)

	enabled, err := ctl.ToggleWifi(context.Background())
	require.NoError(t, err)
	require.False(t, enabled)
	require.True(t, runner.called("nmcli radio wifi off"))

	runner.responses["nmcli radio wifi"] = "disabled\n"
	enabled, err = ctl.ToggleWifi(context.Background())
	require.NoError(t, err)
	require.True(t, enabled)
	require.True(t, runner.called("nmcli radio wifi on"))
}

func TestToggleBluetoothFlipsCurrentState(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["bluetoothctl show"] = "Controller AA:BB\n\tPowered: yes\n"
	ctl := NewController(runner)

	powered, err := ctl.ToggleBluetooth(context.Background())
	require.NoError(t, err)
	require.False(t, powered)
	require.True(t, runner.called("bluetoothctl power off"))
}

func TestToggleVPNMatchesConnectionByName(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["nmcli connection show --active"] = "office-vpn  uuid  vpn  wlan0\n"
	ctl := NewController(runner)

	connected, err := ctl.ToggleVPN(context.Background(), "office-vpn")
	require.NoError(t, err)
	require.False(t, connected)
	require.True(t, runner.called("nmcli connection down office-vpn"))

	runner.responses["nmcli connection show --active"] = "HomeWifi  uuid  wifi  wlan0\n"
	connected, err = ctl.ToggleVPN(context.Background(), "office-vpn")
	require.NoError(t, err)
	require.True(t, connected)
	require.True(t, runner.called("nmcli connection up office-vpn"))
}

func TestToggleQueriesFailWithoutFlipping(t *testing.T) {
	runner := newFakeRunner()
	runner.errors["nmcli radio wifi"] = errors.New("nmcli missing")
	ctl := NewController(runner)

	_, err := ctl.ToggleWifi(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsCategory(err, apperrors.CategoryAction))
	require.Len(t, runner.calls, 1)
}

func TestPowerCommands(t *testing.T) {
	t.Setenv("USER", "kara")
	runner := newFakeRunner()
	ctl := NewController(runner)

	require.NoError(t, ctl.Logout(context.Background()))
	require.True(t, runner.called("loginctl terminate-user kara"))

	require.NoError(t, ctl.Reboot(context.Background()))
	require.True(t, runner.called("systemctl reboot"))

	require.NoError(t, ctl.Shutdown(context.Background()))
	require.True(t, runner.called("systemctl poweroff"))
}

func TestLogoutFallsBackToDefaultUser(t *testing.T) {
	t.Setenv("USER", "")
	runner := newFakeRunner()
	ctl := NewController(runner)

	require.NoError(t, ctl.Logout(context.Background()))
	require.True(t, runner.called("loginctl terminate-user user"))
}

func TestLaunchAppMenuSpawnsThroughShell(t *testing.T) {
	runner := newFakeRunner()
	ctl := NewController(runner)

	require.NoError(t, ctl.LaunchAppMenu(context.Background(), "rofi -show drun"))
	require.Equal(t, []string{"sh -c rofi -show drun"}, runner.spawned)
	require.Empty(t, runner.calls)
}

func TestLaunchURLSpawnsBrowser(t *testing.T) {
	runner := newFakeRunner()
	ctl := NewController(runner)

	require.NoError(t, ctl.LaunchURL(context.Background(), "https://example.com", "firefox"))
	require.Equal(t, []string{"firefox https://example.com"}, runner.spawned)
}

func TestLaunchFailureWrapsAsActionError(t *testing.T) {
	runner := newFakeRunner()
	runner.spawnErr = errors.New("no such binary")
	ctl := NewController(runner)

	err := ctl.LaunchURL(context.Background(), "https://example.com", "firefox")
	require.Error(t, err)
	require.True(t, apperrors.IsCategory(err, apperrors.CategoryAction))
}
