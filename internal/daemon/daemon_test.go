package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/ipc"
)

func waitForStatus(t *testing.T, d *Daemon, want Status) {
	t.Helper()
	require.Eventually(t, func() bool { return d.GetStatus() == want },
		5*time.Second, 10*time.Millisecond, "daemon never reached status %s", want)
}

func TestDaemonLifecycle(t *testing.T) {
	recorder := newTestRecorder()
	d, err := New(Options{
		Config:     config.Defaults(),
		Logger:     quietLogger(),
		SocketPath: filepath.Join(t.TempDir(), "vacuum-launcher.sock"),
		Recorder:   recorder,
	})
	require.NoError(t, err)
	require.Equal(t, StatusStopped, d.GetStatus())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- d.Start(ctx) }()

	waitForStatus(t, d, StatusRunning)

	// A second Start on a running daemon is refused.
	err = d.Start(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not in stopped state")

	resp, err := ipc.Send(ctx, d.SocketPath(), ipc.Command{Kind: ipc.CmdGetState})
	require.NoError(t, err)
	require.Equal(t, ipc.RespState, resp.Kind)
	require.NotNil(t, resp.State)
	require.Equal(t, "rofi -show drun", resp.State.LauncherShortcuts.RofiCommand)
	require.Equal(t, 32, resp.State.VisualizerData.BandCount)

	// Out-of-range volume is rejected at the dispatch layer, before any
	// audio tooling would run.
	resp, err = ipc.Send(ctx, d.SocketPath(), ipc.Command{Kind: ipc.CmdSetVolume, Volume: 150})
	require.NoError(t, err)
	require.Equal(t, ipc.RespError, resp.Kind)
	require.Contains(t, resp.Message, "out of range")

	resp, err = ipc.Send(ctx, d.SocketPath(), ipc.Command{Kind: ipc.CmdToggleOverlay})
	require.NoError(t, err)
	require.Equal(t, ipc.RespSuccess, resp.Kind)

	recorder.mu.Lock()
	connections := recorder.connections
	recorder.mu.Unlock()
	require.GreaterOrEqual(t, connections, 3)

	// Handlers close shortly after the client reads its reply; the active
	// gauge must drain back to zero.
	require.Eventually(t, func() bool {
		recorder.mu.Lock()
		defer recorder.mu.Unlock()
		return recorder.active == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err, "canceled run should end cleanly")
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after context cancellation")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, d.Stop(stopCtx))
	require.Equal(t, StatusStopped, d.GetStatus())

	_, err = os.Stat(d.SocketPath())
	require.True(t, os.IsNotExist(err), "socket file should be gone after shutdown")
}

func TestDaemonRequiresConfig(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	require.True(t, apperrors.IsCategory(err, apperrors.CategoryDaemon))
}

func TestDaemonRefusesSecondInstance(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "vacuum-launcher.sock")

	first, err := New(Options{
		Config:     config.Defaults(),
		Logger:     quietLogger(),
		SocketPath: socketPath,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- first.Start(ctx) }()
	waitForStatus(t, first, StatusRunning)
	t.Cleanup(func() {
		cancel()
		<-errCh
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = first.Stop(stopCtx)
	})

	second, err := New(Options{
		Config:     config.Defaults(),
		Logger:     quietLogger(),
		SocketPath: socketPath,
	})
	require.NoError(t, err)

	err = second.Start(ctx)
	require.Error(t, err)
	require.True(t, apperrors.IsCategory(err, apperrors.CategoryIPC))
	require.Contains(t, err.Error(), "another instance is already running")
	require.Equal(t, StatusError, second.GetStatus())

	// The losing instance must not have disturbed the winner.
	resp, err := ipc.Send(ctx, first.SocketPath(), ipc.Command{Kind: ipc.CmdGetState})
	require.NoError(t, err)
	require.Equal(t, ipc.RespState, resp.Kind)
}
