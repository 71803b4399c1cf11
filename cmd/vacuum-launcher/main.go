package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/daemon"
	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/ipc"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to the per-user config dir)"`
	Socket  string           `short:"s" help:"Override the daemon control socket path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Daemon struct {
		DebugAddr string `help:"Expose /healthz and /metrics on this local address"`
	} `cmd:"" help:"Run the status collection and control daemon"`

	GetState struct{} `cmd:"" help:"Print the daemon's current state snapshot as JSON"`

	SetVolume struct {
		Percent int `arg:"" help:"Volume percentage (0-100)"`
	} `cmd:"" help:"Set the default sink volume"`

	ToggleMute      struct{} `cmd:"" help:"Toggle the default sink mute state"`
	ToggleWifi      struct{} `cmd:"" help:"Toggle the wifi radio"`
	ToggleBluetooth struct{} `cmd:"" help:"Toggle the bluetooth controller"`
	ToggleVpn       struct{} `cmd:"" help:"Toggle the configured VPN connection"`
	ToggleOverlay   struct{} `cmd:"" help:"Ask the front-end overlay to show or hide"`

	LaunchRofi struct{} `cmd:"" help:"Open the application menu"`
	LaunchURL  struct {
		URL string `arg:"" help:"Address to open (must be http:// or https://)"`
	} `cmd:"" help:"Open a URL in the configured browser"`

	Logout   struct{} `cmd:"" help:"End the desktop session"`
	Reboot   struct{} `cmd:"" help:"Reboot the machine"`
	Shutdown struct{} `cmd:"" help:"Power the machine off"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("vacuum-launcher"),
		kong.Description("Status collection and control daemon for the Vacuum desktop shell."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version})

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cliErrors := apperrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	// Execute command
	switch ctx.Command() {
	case "daemon":
		cliErrors.HandleError(runDaemon())
	case "get-state":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdGetState}))
	case "set-volume <percent>":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdSetVolume, Volume: CLI.SetVolume.Percent}))
	case "toggle-mute":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdToggleMute}))
	case "toggle-wifi":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdToggleWifi}))
	case "toggle-bluetooth":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdToggleBluetooth}))
	case "toggle-vpn":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdToggleVpn}))
	case "toggle-overlay":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdToggleOverlay}))
	case "launch-rofi":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdLaunchRofi}))
	case "launch-url <url>":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdLaunchURL, URL: CLI.LaunchURL.URL}))
	case "logout":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdLogout}))
	case "reboot":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdReboot}))
	case "shutdown":
		cliErrors.HandleError(runClient(ipc.Command{Kind: ipc.CmdShutdown}))
	}
}

func runDaemon() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	// Create main context for the daemon
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(daemon.Options{
		Config:     cfg,
		Logger:     slog.Default(),
		SocketPath: CLI.Socket,
		DebugAddr:  CLI.Daemon.DebugAddr,
	})
	if err != nil {
		return err
	}

	// Start daemon in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	// Wait for either error or shutdown signal
	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping daemon...")
	}

	// Stop daemon gracefully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	return d.Stop(stopCtx)
}

// runClient sends one command to the running daemon and renders the reply.
func runClient(cmd ipc.Command) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := ipc.Send(ctx, socketPath(), cmd)
	if err != nil {
		return err
	}

	switch resp.Kind {
	case ipc.RespSuccess:
		fmt.Println("ok")
		return nil
	case ipc.RespToggleResult:
		if resp.Toggled {
			fmt.Println("enabled")
		} else {
			fmt.Println("disabled")
		}
		return nil
	case ipc.RespState:
		out, err := json.MarshalIndent(resp.State, "", "  ")
		if err != nil {
			return apperrors.Wrap(err, apperrors.CategoryInternal, apperrors.SeverityError, "failed to render state snapshot")
		}
		fmt.Println(string(out))
		return nil
	case ipc.RespError:
		return apperrors.New(apperrors.CategoryAction, apperrors.SeverityError, resp.Message)
	default:
		return apperrors.New(apperrors.CategoryIPC, apperrors.SeverityError,
			fmt.Sprintf("unexpected response kind %q", resp.Kind))
	}
}

func socketPath() string {
	if CLI.Socket != "" {
		return CLI.Socket
	}
	return ipc.SocketPath()
}
