package metrics

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/robocmd/core/model"
)

// ArbitrationRecord is one arbitration pass as seen by the sinks.
type ArbitrationRecord struct {
	Mode      model.Mode
	Chassis   model.ChassisCMD
	Gimbal    model.GimbalCMD
	Fire      bool
	Online    bool
	Magnitude float64
	Time      time.Time
}

// MetricsSink records arbitration results for observability purposes.
type MetricsSink interface {
	RecordArbitration(rec ArbitrationRecord) error
}

// IngestRecord describes a message handled by the ingestion router.
type IngestRecord struct {
	Topic   string
	Source  model.SourceID
	Dropped bool
	Time    time.Time
}

// IngestRecorder records ingested messages.
type IngestRecorder interface {
	RecordIngest(rec IngestRecord) error
}

// FaultRecord describes a loss of the primary source.
type FaultRecord struct {
	EventID uint32
	Time    time.Time
}

// FaultRecorder records fault events.
type FaultRecorder interface {
	RecordFault(rec FaultRecord) error
}

// ModeSwitchRecord describes a policy change.
type ModeSwitchRecord struct {
	From model.Mode
	To   model.Mode
	Time time.Time
}

// ModeSwitchRecorder records mode switches.
type ModeSwitchRecorder interface {
	RecordModeSwitch(rec ModeSwitchRecord) error
}

// ChassisMagnitude is the Euclidean norm of the chassis rate intent.
func ChassisMagnitude(c model.ChassisCMD) float64 {
	return floats.Norm([]float64{float64(c.X), float64(c.Y), float64(c.Z)}, 2)
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordArbitration(ArbitrationRecord) error { return nil }
func (NopSink) RecordIngest(IngestRecord) error           { return nil }
func (NopSink) RecordFault(FaultRecord) error             { return nil }
func (NopSink) RecordModeSwitch(ModeSwitchRecord) error   { return nil }
