package daemon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/collectors"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/weather"
)

// Cadences for the periodic collection tasks. Weather runs on the
// configured interval instead.
const (
	systemInterval     = 5 * time.Second
	networkInterval    = 2 * time.Second
	audioInterval      = time.Second
	visualizerInterval = time.Second
)

// taskSet owns the collectors and builds the periodic tasks over them.
type taskSet struct {
	cfg        *config.Config
	system     *collectors.SystemCollector
	storage    *collectors.StorageCollector
	user       *collectors.UserCollector
	toggles    *collectors.TogglesCollector
	network    *collectors.NetworkCollector
	audio      *collectors.AudioCollector
	visualizer *collectors.Visualizer
	weather    *weather.Client
}

func newTaskSet(cfg *config.Config, logger *slog.Logger) *taskSet {
	runner := collectors.NewRunner()
	return &taskSet{
		cfg:        cfg,
		system:     collectors.NewSystemCollector(runner),
		storage:    collectors.NewStorageCollector(),
		user:       collectors.NewUserCollector(cfg),
		toggles:    collectors.NewTogglesCollector(runner),
		network:    collectors.NewNetworkCollector(runner),
		audio:      collectors.NewAudioCollector(runner),
		visualizer: collectors.NewVisualizer(state.DefaultBandCount),
		weather:    weather.NewClient(cfg.Weather.APIKey, logger),
	}
}

func (t *taskSet) tasks() []Task {
	return []Task{
		{Name: "system", Interval: systemInterval, Tick: t.systemTick},
		{Name: "network", Interval: networkInterval, Tick: t.networkTick},
		{Name: "audio", Interval: audioInterval, Tick: t.audioTick},
		{Name: "visualizer", Interval: visualizerInterval, Tick: t.visualizerTick},
		{Name: "weather", Interval: time.Duration(t.cfg.WeatherInterval()) * time.Minute, Tick: t.weatherTick},
	}
}

// systemTick refreshes the slow-moving domains together: machine stats,
// storage, user identity, and radio toggle state. Each domain fails
// independently; the ones that succeeded still commit.
func (t *taskSet) systemTick(ctx context.Context) (func(*state.Aggregate), error) {
	var (
		applies []func(*state.Aggregate)
		errs    []error
	)

	if info, err := t.system.Collect(ctx); err != nil {
		errs = append(errs, err)
	} else {
		applies = append(applies, func(a *state.Aggregate) { a.SystemInfo = info })
	}

	if disks, err := t.storage.Collect(); err != nil {
		errs = append(errs, err)
	} else {
		applies = append(applies, func(a *state.Aggregate) { a.StorageInfo = disks })
	}

	if info, err := t.user.Collect(); err != nil {
		errs = append(errs, err)
	} else {
		applies = append(applies, func(a *state.Aggregate) { a.UserInfo = info })
	}

	if toggles, err := t.toggles.Collect(ctx); err != nil {
		errs = append(errs, err)
	} else {
		applies = append(applies, func(a *state.Aggregate) { a.Toggles = toggles })
	}

	return merge(applies), errors.Join(errs...)
}

// networkTick resolves the link status first, then samples traffic on the
// interface carrying the default route (or the configured override). A
// traffic failure keeps the previous rates but still commits the status.
func (t *taskSet) networkTick(ctx context.Context) (func(*state.Aggregate), error) {
	status, err := t.network.Status(ctx)
	if err != nil {
		return nil, err
	}

	iface := status.Interface
	if t.cfg.Network.MonitorInterface != "" {
		iface = t.cfg.Network.MonitorInterface
	}
	traffic, trafficErr := t.network.Traffic(iface)

	return func(a *state.Aggregate) {
		a.NetworkStatus = status
		if trafficErr == nil {
			a.NetworkTraffic = traffic
		}
	}, trafficErr
}

func (t *taskSet) audioTick(ctx context.Context) (func(*state.Aggregate), error) {
	var (
		applies []func(*state.Aggregate)
		errs    []error
	)

	if status, err := t.audio.Status(ctx); err != nil {
		errs = append(errs, err)
	} else {
		applies = append(applies, func(a *state.Aggregate) { a.AudioStatus = status })
	}

	if volume, err := t.audio.Volume(ctx); err != nil {
		errs = append(errs, err)
	} else {
		applies = append(applies, func(a *state.Aggregate) { a.VolumeState = volume })
	}

	return merge(applies), errors.Join(errs...)
}

func (t *taskSet) visualizerTick(context.Context) (func(*state.Aggregate), error) {
	data := t.visualizer.Collect()
	return func(a *state.Aggregate) { a.VisualizerData = data }, nil
}

func (t *taskSet) weatherTick(ctx context.Context) (func(*state.Aggregate), error) {
	info, err := t.weather.Fetch(ctx, t.cfg)
	if err != nil {
		return nil, err
	}
	return func(a *state.Aggregate) { a.WeatherInfo = info }, nil
}

// merge folds per-domain mutations into one store write.
func merge(applies []func(*state.Aggregate)) func(*state.Aggregate) {
	if len(applies) == 0 {
		return nil
	}
	return func(a *state.Aggregate) {
		for _, apply := range applies {
			apply(a)
		}
	}
}

// seedShortcuts copies the configured launcher links into the store before
// any task runs. Shortcuts never change after startup.
func seedShortcuts(store *state.Store, cfg *config.Config) {
	store.Seed(func(a *state.Aggregate) {
		links := make([]state.LinkButton, 0, len(cfg.Shortcuts.LeftLinks))
		for _, link := range cfg.Shortcuts.LeftLinks {
			links = append(links, state.LinkButton{
				Label:    link.Label,
				URL:      link.URL,
				IconName: link.IconName,
			})
		}
		a.LauncherShortcuts.LeftLinks = links
		a.LauncherShortcuts.RofiCommand = cfg.Shortcuts.RofiCommand
	})
}
