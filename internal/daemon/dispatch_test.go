package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/ipc"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// fakeActions implements every action capability and records what it was
// asked to do.
type fakeActions struct {
	volume    int
	volumeErr error

	muted   bool
	muteErr error

	wifi         bool
	wifiErr      error
	bluetooth    bool
	bluetoothErr error
	vpnName      string
	vpn          bool
	vpnErr       error

	loggedOut bool
	rebooted  bool
	shutDown  bool
	powerErr  error

	menuCommand string
	launchedURL string
	browser     string
	launchErr   error
}

func (f *fakeActions) SetVolume(_ context.Context, percent int) error {
	f.volume = percent
	return f.volumeErr
}

func (f *fakeActions) ToggleMute(context.Context) (bool, error) {
	return f.muted, f.muteErr
}

func (f *fakeActions) ToggleWifi(context.Context) (bool, error) {
	return f.wifi, f.wifiErr
}

func (f *fakeActions) ToggleBluetooth(context.Context) (bool, error) {
	return f.bluetooth, f.bluetoothErr
}

func (f *fakeActions) ToggleVPN(_ context.Context, name string) (bool, error) {
	f.vpnName = name
	return f.vpn, f.vpnErr
}

func (f *fakeActions) Logout(context.Context) error {
	f.loggedOut = true
	return f.powerErr
}

func (f *fakeActions) Reboot(context.Context) error {
	f.rebooted = true
	return f.powerErr
}

func (f *fakeActions) Shutdown(context.Context) error {
	f.shutDown = true
	return f.powerErr
}

func (f *fakeActions) LaunchAppMenu(_ context.Context, command string) error {
	f.menuCommand = command
	return f.launchErr
}

func (f *fakeActions) LaunchURL(_ context.Context, url, browserCommand string) error {
	f.launchedURL = url
	f.browser = browserCommand
	return f.launchErr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDispatcher(cfg *config.Config, store *state.Store, fake *fakeActions) *Dispatcher {
	return NewDispatcher(DispatcherDeps{
		Config:   cfg,
		Store:    store,
		Audio:    fake,
		Network:  fake,
		Power:    fake,
		Launcher: fake,
		Logger:   quietLogger(),
	})
}

func TestDispatchToggleOverlayAcknowledges(t *testing.T) {
	d := newTestDispatcher(config.Defaults(), state.NewStore(), &fakeActions{})

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdToggleOverlay})
	require.Equal(t, ipc.RespSuccess, resp.Kind)
}

func TestDispatchGetStateReturnsSnapshot(t *testing.T) {
	cfg := config.Defaults()
	store := state.NewStore()
	seedShortcuts(store, cfg)
	d := newTestDispatcher(cfg, store, &fakeActions{})

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdGetState})
	require.Equal(t, ipc.RespState, resp.Kind)
	require.NotNil(t, resp.State)
	require.Equal(t, "Loading...", resp.State.SystemInfo.OSName)
	require.Equal(t, cfg.Shortcuts.RofiCommand, resp.State.LauncherShortcuts.RofiCommand)
	require.Len(t, resp.State.LauncherShortcuts.LeftLinks, len(cfg.Shortcuts.LeftLinks))
}

func TestDispatchSetVolumeValidatesRange(t *testing.T) {
	fake := &fakeActions{}
	d := newTestDispatcher(config.Defaults(), state.NewStore(), fake)

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdSetVolume, Volume: 150})
	require.Equal(t, ipc.RespError, resp.Kind)
	require.Contains(t, resp.Message, "out of range")
	require.Zero(t, fake.volume, "rejected command must not reach the action layer")

	resp = d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdSetVolume, Volume: -1})
	require.Equal(t, ipc.RespError, resp.Kind)

	resp = d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdSetVolume, Volume: 100})
	require.Equal(t, ipc.RespSuccess, resp.Kind)
	require.Equal(t, 100, fake.volume)

	resp = d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdSetVolume, Volume: 0})
	require.Equal(t, ipc.RespSuccess, resp.Kind)
	require.Equal(t, 0, fake.volume)
}

func TestDispatchTogglesReturnToggleResult(t *testing.T) {
	fake := &fakeActions{muted: true, wifi: false, bluetooth: true, vpn: true}
	d := newTestDispatcher(config.Defaults(), state.NewStore(), fake)

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdToggleMute})
	require.Equal(t, ipc.RespToggleResult, resp.Kind)
	require.True(t, resp.Toggled)

	resp = d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdToggleWifi})
	require.Equal(t, ipc.RespToggleResult, resp.Kind)
	require.False(t, resp.Toggled)

	resp = d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdToggleBluetooth})
	require.Equal(t, ipc.RespToggleResult, resp.Kind)
	require.True(t, resp.Toggled)
}

func TestDispatchToggleVpnUsesConfiguredName(t *testing.T) {
	cfg := config.Defaults()
	cfg.Network.VPNName = "office-vpn"
	fake := &fakeActions{vpn: true}
	d := newTestDispatcher(cfg, state.NewStore(), fake)

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdToggleVpn})
	require.Equal(t, ipc.RespToggleResult, resp.Kind)
	require.Equal(t, "office-vpn", fake.vpnName)
}

func TestDispatchToggleVpnDefaultsName(t *testing.T) {
	fake := &fakeActions{}
	d := newTestDispatcher(config.Defaults(), state.NewStore(), fake)

	d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdToggleVpn})
	require.Equal(t, "vpn", fake.vpnName)
}

func TestDispatchPowerCommands(t *testing.T) {
	fake := &fakeActions{}
	d := newTestDispatcher(config.Defaults(), state.NewStore(), fake)

	require.Equal(t, ipc.RespSuccess, d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdLogout}).Kind)
	require.True(t, fake.loggedOut)

	require.Equal(t, ipc.RespSuccess, d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdReboot}).Kind)
	require.True(t, fake.rebooted)

	require.Equal(t, ipc.RespSuccess, d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdShutdown}).Kind)
	require.True(t, fake.shutDown)
}

func TestDispatchLaunchRofiUsesConfiguredCommand(t *testing.T) {
	cfg := config.Defaults()
	fake := &fakeActions{}
	d := newTestDispatcher(cfg, state.NewStore(), fake)

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdLaunchRofi})
	require.Equal(t, ipc.RespSuccess, resp.Kind)
	require.Equal(t, cfg.Shortcuts.RofiCommand, fake.menuCommand)
}

func TestDispatchLaunchURLValidation(t *testing.T) {
	fake := &fakeActions{}
	d := newTestDispatcher(config.Defaults(), state.NewStore(), fake)

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdLaunchURL, URL: ""})
	require.Equal(t, ipc.RespError, resp.Kind)
	require.Contains(t, resp.Message, "must not be empty")

	resp = d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdLaunchURL, URL: "ftp://x"})
	require.Equal(t, ipc.RespError, resp.Kind)
	require.Contains(t, resp.Message, "http:// or https://")
	require.Empty(t, fake.launchedURL)

	resp = d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdLaunchURL, URL: "https://example.com"})
	require.Equal(t, ipc.RespSuccess, resp.Kind)
	require.Equal(t, "https://example.com", fake.launchedURL)
	require.Equal(t, "firefox", fake.browser)
}

func TestDispatchActionFailureBecomesErrorResponse(t *testing.T) {
	fake := &fakeActions{wifiErr: errors.New("nmcli not found")}
	d := newTestDispatcher(config.Defaults(), state.NewStore(), fake)

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: ipc.CmdToggleWifi})
	require.Equal(t, ipc.RespError, resp.Kind)
	require.Contains(t, resp.Message, "nmcli not found")
}

func TestDispatchUnknownCommandKind(t *testing.T) {
	d := newTestDispatcher(config.Defaults(), state.NewStore(), &fakeActions{})

	resp := d.Dispatch(context.Background(), ipc.Command{Kind: "Bogus"})
	require.Equal(t, ipc.RespError, resp.Kind)
}
