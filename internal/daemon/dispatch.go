package daemon

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/actions"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/ipc"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/logfields"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/metrics"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// DispatcherDeps carries the collaborators one command dispatch can touch.
type DispatcherDeps struct {
	Config   *config.Config
	Store    *state.Store
	Audio    actions.AudioController
	Network  actions.NetworkController
	Power    actions.PowerController
	Launcher actions.Launcher
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// Dispatcher validates one decoded command and produces exactly one
// response. Reads go to the store, controls to the action collaborators;
// an action failure becomes an Error response, never a dropped connection.
type Dispatcher struct {
	deps DispatcherDeps
}

// NewDispatcher builds a dispatcher from its collaborators.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	return &Dispatcher{deps: deps}
}

// Dispatch routes cmd and reports the outcome to the recorder.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd ipc.Command) ipc.Response {
	start := time.Now()
	resp := d.dispatch(ctx, cmd)

	d.deps.Recorder.ObserveRequestDuration(string(cmd.Kind), time.Since(start))
	result := metrics.ResultSuccess
	if resp.Kind == ipc.RespError {
		result = metrics.ResultFailed
		d.deps.Logger.Warn("Command failed",
			logfields.Command(string(cmd.Kind)),
			slog.String("reason", resp.Message))
	}
	d.deps.Recorder.IncCommandResult(string(cmd.Kind), result)
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd ipc.Command) ipc.Response {
	switch cmd.Kind {
	case ipc.CmdToggleOverlay:
		// The overlay lives in the front-end; acknowledging is enough.
		return ipc.Success()

	case ipc.CmdGetState:
		return ipc.StateOf(d.deps.Store.Snapshot())

	case ipc.CmdSetVolume:
		if cmd.Volume < 0 || cmd.Volume > 100 {
			return ipc.Errorf("volume %d out of range (expected 0-100)", cmd.Volume)
		}
		if err := d.deps.Audio.SetVolume(ctx, cmd.Volume); err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.Success()

	case ipc.CmdToggleMute:
		muted, err := d.deps.Audio.ToggleMute(ctx)
		if err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.ToggleResult(muted)

	case ipc.CmdToggleWifi:
		enabled, err := d.deps.Network.ToggleWifi(ctx)
		if err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.ToggleResult(enabled)

	case ipc.CmdToggleBluetooth:
		enabled, err := d.deps.Network.ToggleBluetooth(ctx)
		if err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.ToggleResult(enabled)

	case ipc.CmdToggleVpn:
		connected, err := d.deps.Network.ToggleVPN(ctx, d.deps.Config.VPNName())
		if err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.ToggleResult(connected)

	case ipc.CmdLogout:
		if err := d.deps.Power.Logout(ctx); err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.Success()

	case ipc.CmdReboot:
		if err := d.deps.Power.Reboot(ctx); err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.Success()

	case ipc.CmdShutdown:
		if err := d.deps.Power.Shutdown(ctx); err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.Success()

	case ipc.CmdLaunchRofi:
		if err := d.deps.Launcher.LaunchAppMenu(ctx, d.deps.Config.Shortcuts.RofiCommand); err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.Success()

	case ipc.CmdLaunchURL:
		if msg := validateLaunchURL(cmd.URL); msg != "" {
			return ipc.Errorf("%s", msg)
		}
		if err := d.deps.Launcher.LaunchURL(ctx, cmd.URL, d.deps.Config.Shortcuts.BrowserCommand); err != nil {
			return ipc.ErrorFrom(err)
		}
		return ipc.Success()

	default:
		return ipc.Errorf("unknown command %q", cmd.Kind)
	}
}

// validateLaunchURL enforces the http(s) scheme so the browser is never
// handed an arbitrary local path or protocol.
func validateLaunchURL(url string) string {
	if url == "" {
		return "launch url must not be empty"
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "launch url must start with http:// or https://"
	}
	return ""
}
