// Package daemon wires the state store, the collection scheduler, and the
// IPC socket server into one long-running service with an explicit
// start/stop lifecycle.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/actions"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/ipc"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/logfields"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/metrics"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/version"
)

// Status represents the current lifecycle state of the daemon.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// Options configures a Daemon. Config is required; everything else has a
// working default.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// SocketPath overrides the runtime-dir socket location. Tests point
	// this at a temporary directory.
	SocketPath string

	// DebugAddr enables the local debug HTTP endpoint (/healthz, /metrics)
	// when non-empty, overriding the config file's daemon.debug_addr. Off
	// by default.
	DebugAddr string

	// Recorder overrides the metrics backend selected from DebugAddr.
	Recorder metrics.Recorder
}

// Daemon is the long-running launcher service.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder

	store     *state.Store
	scheduler *Scheduler
	server    *SocketServer
	debug     *http.Server

	status    atomic.Value // Status
	startTime time.Time
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// New creates a daemon instance from Options.
func New(opts Options) (*Daemon, error) {
	if opts.Config == nil {
		return nil, apperrors.New(apperrors.CategoryDaemon, apperrors.SeverityFatal, "configuration is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	socketPath := opts.SocketPath
	if socketPath == "" {
		socketPath = ipc.SocketPath()
	}
	debugAddr := opts.DebugAddr
	if debugAddr == "" {
		debugAddr = opts.Config.Daemon.DebugAddr
	}

	var registry *prom.Registry
	recorder := opts.Recorder
	if recorder == nil {
		if debugAddr != "" {
			registry = prom.NewRegistry()
			recorder = metrics.NewPrometheusRecorder(registry)
		} else {
			recorder = metrics.NoopRecorder{}
		}
	}

	store := state.NewStore()

	set := newTaskSet(opts.Config, logger)
	scheduler, err := NewScheduler(store, set.tasks(), logger, recorder)
	if err != nil {
		return nil, err
	}

	controller := actions.NewController(nil)
	dispatcher := NewDispatcher(DispatcherDeps{
		Config:   opts.Config,
		Store:    store,
		Audio:    controller,
		Network:  controller,
		Power:    controller,
		Launcher: controller,
		Logger:   logger,
		Recorder: recorder,
	})

	server := NewSocketServer(ServerConfig{
		Path:      socketPath,
		MaxConns:  opts.Config.Daemon.MaxConnections,
		IOTimeout: opts.Config.IOTimeout(),
	}, dispatcher, logger, recorder)

	d := &Daemon{
		cfg:       opts.Config,
		logger:    logger,
		recorder:  recorder,
		store:     store,
		scheduler: scheduler,
		server:    server,
		stopChan:  make(chan struct{}),
	}
	d.status.Store(StatusStopped)

	if debugAddr != "" {
		d.debug = d.newDebugServer(debugAddr, registry)
	}

	return d, nil
}

// Start brings up the IPC server and the collection scheduler, then blocks
// until the context is canceled or Stop is called. The returned error is
// nil for a normal shutdown.
func (d *Daemon) Start(ctx context.Context) error {
	if d.GetStatus() != StatusStopped {
		return apperrors.DaemonError(fmt.Sprintf("daemon is not in stopped state: %s", d.GetStatus()))
	}
	d.status.Store(StatusStarting)
	d.startTime = time.Now()

	d.logger.Info("Starting vacuum-launcher daemon",
		slog.String("version", version.Version))

	// Shortcuts are config-derived and immutable; write them before any
	// reader or tick can observe the store.
	seedShortcuts(d.store, d.cfg)

	if err := d.server.Start(ctx); err != nil {
		d.status.Store(StatusError)
		return err
	}

	if err := d.scheduler.Start(ctx); err != nil {
		d.status.Store(StatusError)
		if stopErr := d.server.Stop(context.Background()); stopErr != nil {
			d.logger.Error("Failed to stop socket server", logfields.Error(stopErr))
		}
		return err
	}

	if d.debug != nil {
		go func() {
			if err := d.debug.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.logger.Error("Debug endpoint failed", logfields.Error(err))
			}
		}()
		d.logger.Info("Debug endpoint enabled", slog.String("addr", d.debug.Addr))
	}

	d.status.Store(StatusRunning)
	d.logger.Info("Daemon running",
		logfields.Socket(d.server.Path()),
		slog.String("weather_location", d.cfg.Weather.Location),
		slog.Int("weather_interval_min", d.cfg.WeatherInterval()))

	select {
	case <-ctx.Done():
		d.logger.Info("Run context canceled, daemon stopping")
	case <-d.stopChan:
		d.logger.Info("Stop requested, daemon stopping")
	}

	d.status.Store(StatusStopping)
	return nil
}

// Stop gracefully shuts down the daemon. Components stop in reverse start
// order; each failure is logged and the rest still stop.
func (d *Daemon) Stop(ctx context.Context) error {
	current := d.GetStatus()
	if current == StatusStopped {
		return nil
	}
	d.stopOnce.Do(func() { close(d.stopChan) })

	if d.debug != nil {
		if err := d.debug.Shutdown(ctx); err != nil {
			d.logger.Error("Failed to stop debug endpoint", logfields.Error(err))
		}
	}

	if err := d.scheduler.Stop(ctx); err != nil {
		d.logger.Error("Failed to stop scheduler", logfields.Error(err))
	}

	if err := d.server.Stop(ctx); err != nil {
		d.logger.Error("Failed to stop socket server", logfields.Error(err))
	}

	d.status.Store(StatusStopped)
	d.logger.Info("Daemon stopped",
		slog.Duration("uptime", time.Since(d.startTime)),
		slog.Uint64("state_version", d.store.Version()))
	return nil
}

// GetStatus returns the current daemon lifecycle status.
func (d *Daemon) GetStatus() Status {
	status, ok := d.status.Load().(Status)
	if !ok {
		return StatusError
	}
	return status
}

// SocketPath returns the path the IPC server claims.
func (d *Daemon) SocketPath() string {
	return d.server.Path()
}

// newDebugServer exposes liveness and metrics on a local address for
// troubleshooting. Never reachable unless explicitly configured.
func (d *Daemon) newDebugServer(addr string, registry *prom.Registry) *http.Server {
	mux := http.NewServeMux()
	if registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         string(d.GetStatus()),
			"version":        version.Version,
			"state_version":  d.store.Version(),
			"uptime_seconds": int(time.Since(d.startTime).Seconds()),
		})
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
