package controller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"

	api "github.com/oshokin/motion-controller/internal/api/grpc/mechanism"
	"github.com/oshokin/motion-controller/internal/config"
	core "github.com/oshokin/motion-controller/internal/controller"
	"github.com/oshokin/motion-controller/internal/hardware"
	"github.com/oshokin/motion-controller/internal/logger"
	"github.com/oshokin/motion-controller/internal/remote"
	repository "github.com/oshokin/motion-controller/internal/repository/status"
)

// Options controls the controller process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Hardware overrides the configured device backend when set.
	Hardware string
	// BridgeAddress overrides the configured bridge listen address when set.
	BridgeAddress string
	// SkipInstanceCheck disables the single-instance guard.
	SkipInstanceCheck bool
}

// Run drives the mechanism until ctx is canceled.
//
//nolint:funlen // Start-up wiring reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "motion-controller")

	cfg, err := loadSettings(opts)
	if err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	if !opts.SkipInstanceCheck {
		if err = ensureSingleInstance(); err != nil {
			return err
		}
	}

	var (
		queue = remote.NewQueue(remote.DefaultQueueCapacity)
		repo  = repository.NewMemoryRepository()
		clock = hardware.NewSystemClock()
	)

	devices, closeDevices, err := openDevices(ctx, cfg, clock, queue)
	if err != nil {
		return err
	}
	defer closeDevices()

	machine, err := core.New(devices, controllerOptions(cfg))
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	// Wait runs after cancel so background sources see the stop.
	var wg sync.WaitGroup
	defer wg.Wait()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Remote.Source == config.RemoteSourceLIRC {
		lirc, err := remote.DialLIRC(runCtx, cfg.Remote.LIRCSocket, queue)
		if err != nil {
			return fmt.Errorf("connect remote receiver: %w", err)
		}

		wg.Go(func() {
			if err := lirc.Run(runCtx); err != nil {
				logger.ErrorKV(runCtx, "Remote receiver stopped", "error", err)
			}
		})
	}

	if cfg.Bridge.Address != "" {
		var buttons api.ButtonSink
		if cfg.Remote.Source == config.RemoteSourceBridge {
			buttons = queue
		}

		lis, err := listen(runCtx, cfg.Bridge.Address)
		if err != nil {
			return err
		}

		srv := api.NewServer(repo, buttons)

		wg.Go(func() {
			if err := serveBridge(runCtx, lis, srv); err != nil {
				logger.ErrorKV(runCtx, "Remote bridge stopped", "error", err)
			}
		})
	}

	logger.InfoKV(ctx, "Motion controller running",
		"hardware", cfg.Hardware,
		"remote_source", cfg.Remote.Source,
		"bridge_address", cfg.Bridge.Address,
		"poll_interval", cfg.PollInterval)

	loop(runCtx, machine, repo, cfg.PollInterval)

	return nil
}

// loadSettings reads the settings file and applies command line overrides.
func loadSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.Hardware != "" {
		cfg.Hardware = opts.Hardware
	}

	if opts.BridgeAddress != "" {
		cfg.Bridge.Address = opts.BridgeAddress
	}

	if err = config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return cfg, nil
}

// loop ticks the state machine every interval and publishes what changed.
// It returns after the outputs were switched off following cancellation.
func loop(ctx context.Context, machine *core.Controller, repo repository.Repository, interval time.Duration) {
	publish := func(ctx context.Context) {
		if err := repo.Save(ctx, machine.Snapshot()); err != nil {
			logger.ErrorKV(ctx, "Failed to publish status", "error", err)
		}
	}

	machine.Start(ctx)
	publish(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			stopCtx := context.WithoutCancel(ctx)

			machine.Shutdown(stopCtx)
			publish(stopCtx)

			return
		case <-ticker.C:
			if machine.Tick(ctx) {
				publish(ctx)
			}
		}
	}
}

// listen opens the bridge TCP listener.
func listen(ctx context.Context, address string) (net.Listener, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	return lis, nil
}

// serveBridge serves the gRPC bridge on lis until ctx is canceled.
func serveBridge(ctx context.Context, lis net.Listener, srv api.MechanismServiceServer) error {
	ctx = logger.WithName(ctx, "bridge")

	grpcServer := grpc.NewServer()
	api.RegisterMechanismServiceServer(grpcServer, srv)

	logger.InfoKV(ctx, "Remote bridge listening", "listen_address", lis.Addr().String())

	// Closed after GracefulStop returns so Serve's caller sees a full stop.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Remote bridge stopped")

	return nil
}
