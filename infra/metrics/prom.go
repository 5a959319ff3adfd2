package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/robocmd/core/metrics"
)

// PromSink records arbitration activity in Prometheus metrics.
type PromSink struct {
	ingest       *prometheus.CounterVec
	arbitrations *prometheus.CounterVec
	faults       prometheus.Counter
	modeSwitches *prometheus.CounterVec
	online       prometheus.Gauge
	mode         prometheus.Gauge
	magnitude    prometheus.Gauge
	fire         prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered under the same name are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.ingest, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robocmd_ingest_total",
		Help: "Source messages handled by the ingestion router",
	}, []string{"topic", "source", "dropped"})); err != nil {
		return nil, err
	}
	if s.arbitrations, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robocmd_arbitrations_total",
		Help: "Arbitration passes per control mode",
	}, []string{"mode"})); err != nil {
		return nil, err
	}
	if s.faults, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "robocmd_lost_control_total",
		Help: "Times the remote source was lost",
	})); err != nil {
		return nil, err
	}
	if s.modeSwitches, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robocmd_mode_switches_total",
		Help: "Control mode changes",
	}, []string{"from", "to"})); err != nil {
		return nil, err
	}
	if s.online, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "robocmd_online",
		Help: "1 while the remote source is live",
	})); err != nil {
		return nil, err
	}
	if s.mode, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "robocmd_mode",
		Help: "Active control mode (0 operator, 1 autonomous)",
	})); err != nil {
		return nil, err
	}
	if s.magnitude, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "robocmd_chassis_command_magnitude",
		Help: "Norm of the last published chassis command",
	})); err != nil {
		return nil, err
	}
	if s.fire, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "robocmd_fire_command",
		Help: "1 while the last launcher command requests fire",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// RecordArbitration updates the per-pass counters and output gauges.
func (s *PromSink) RecordArbitration(rec coremetrics.ArbitrationRecord) error {
	s.arbitrations.WithLabelValues(rec.Mode.String()).Inc()
	s.online.Set(boolGauge(rec.Online))
	s.mode.Set(float64(rec.Mode))
	s.magnitude.Set(rec.Magnitude)
	s.fire.Set(boolGauge(rec.Fire))
	return nil
}

// RecordIngest counts ingested messages.
func (s *PromSink) RecordIngest(rec coremetrics.IngestRecord) error {
	s.ingest.WithLabelValues(rec.Topic, rec.Source.String(), strconv.FormatBool(rec.Dropped)).Inc()
	return nil
}

// RecordFault counts lost-control events.
func (s *PromSink) RecordFault(coremetrics.FaultRecord) error {
	s.faults.Inc()
	s.online.Set(0)
	return nil
}

// RecordModeSwitch counts mode changes.
func (s *PromSink) RecordModeSwitch(rec coremetrics.ModeSwitchRecord) error {
	s.modeSwitches.WithLabelValues(rec.From.String(), rec.To.String()).Inc()
	s.mode.Set(float64(rec.To))
	return nil
}
