// Package app wires the arbiter, its MQTT bridge and the metrics pipeline
// into a runnable service.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/kilianp07/robocmd/config"
	"github.com/kilianp07/robocmd/core/command"
	coremetrics "github.com/kilianp07/robocmd/core/metrics"
	"github.com/kilianp07/robocmd/core/topic"
	"github.com/kilianp07/robocmd/infra/logger"
	"github.com/kilianp07/robocmd/infra/metrics"
	"github.com/kilianp07/robocmd/infra/mqtt"
	"github.com/kilianp07/robocmd/infra/tracing"
	"github.com/kilianp07/robocmd/internal/eventbus"
)

// Service orchestrates the arbiter and its connectors.
type Service struct {
	Arbiter *command.Arbiter
	Manager *Manager

	domain      *topic.Domain
	client      *mqtt.Client
	bridge      *mqtt.Bridge
	bus         *eventbus.Bus
	sink        coremetrics.MetricsSink
	log         logger.Logger
	promEnabled bool
	promPort    string
	tracingCfg  tracing.Config
	logFile     io.Closer
}

// New creates a Service from the configuration and connects to the broker.
func New(cfg *config.Config) (*Service, error) {
	logFile, err := setupLogFile(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	client, err := mqtt.NewClient(cfg.MQTT)
	if err != nil {
		closeLogFile(logFile)
		return nil, fmt.Errorf("mqtt client: %w", err)
	}
	svc, err := newService(cfg, client)
	if err != nil {
		client.Disconnect()
		closeLogFile(logFile)
		return nil, err
	}
	svc.logFile = logFile
	return svc, nil
}

// setupLogFile mirrors the logs to the configured rotated file.
func setupLogFile(c config.LoggingConfig) (io.Closer, error) {
	if c.File == "" {
		return nil, nil
	}
	w, err := logger.NewRotatingFile(c.File, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(w)
	return w, nil
}

func closeLogFile(c io.Closer) {
	if c == nil {
		return
	}
	logger.SetOutput(nil)
	_ = c.Close()
}

// newService assembles the service. A nil client runs the arbiter without
// the MQTT bridge.
func newService(cfg *config.Config, client *mqtt.Client) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	promEnabled := false
	for _, s := range cfg.Metrics.Sinks {
		if s.Type == "prometheus" {
			promEnabled = cfg.Metrics.PrometheusPort != ""
		}
	}

	bus := eventbus.New()
	domain := topic.NewDomain("robocmd")
	opts := []command.Option{
		command.WithDomain(domain),
		command.WithLogger(logger.New("command")),
		command.WithBus(bus),
	}
	if cfg.Command.ResetOnModeSwitch {
		opts = append(opts, command.WithResetOnModeSwitch())
	}
	arb, err := command.New(cfg.Command.InitialMode(), cfg.Command.Topics(), opts...)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("arbiter: %w", err)
	}

	svc := &Service{
		Arbiter:     arb,
		Manager:     NewManager(cfg.Command.MonitorInterval(), logg),
		domain:      domain,
		client:      client,
		bus:         bus,
		sink:        sink,
		log:         logg,
		promEnabled: promEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
		tracingCfg:  cfg.Tracing,
	}
	svc.Manager.Register(arb)
	if client != nil {
		if svc.bridge, err = mqtt.NewBridge(client, arb, domain); err != nil {
			bus.Close()
			return nil, fmt.Errorf("mqtt bridge: %w", err)
		}
	}
	return svc, nil
}

// Domain returns the topic domain shared by the arbiter and its sources.
func (s *Service) Domain() *topic.Domain { return s.domain }

// Bus returns the observability event bus.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	shutdown, err := tracing.Init(ctx, s.tracingCfg)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer tracing.ShutdownWithTimeout(shutdown)

	done := metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.bridge != nil {
		if err := s.bridge.Start(); err != nil {
			return fmt.Errorf("mqtt bridge: %w", err)
		}
	}
	s.log.Infof("service running in %s mode", s.Arbiter.Mode())
	s.Manager.Run(ctx)
	<-done
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.client != nil {
		s.client.Disconnect()
	}
	s.bus.Close()
	if c, ok := s.sink.(coremetrics.Closer); ok {
		c.Close()
	}
	closeLogFile(s.logFile)
	return nil
}
