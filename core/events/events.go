package events

import (
	"time"

	"github.com/kilianp07/robocmd/core/model"
)

// IngestEvent is published for every message handled by the ingestion router.
// Dropped is set when the message did not update a slot; Source then holds
// whatever id the payload carried, or zero for non-intent payloads.
type IngestEvent struct {
	Topic   string
	Source  model.SourceID
	Dropped bool
	Time    time.Time
}

// ArbitrationEvent is published after each arbitration pass.
type ArbitrationEvent struct {
	Mode     model.Mode
	Chassis  model.ChassisCMD
	Gimbal   model.GimbalCMD
	Launcher model.LauncherCMD
	Online   bool
	Time     time.Time
}

// FaultEvent is published when the primary source is lost.
type FaultEvent struct {
	EventID uint32
	Time    time.Time
}

// ModeEvent is published when the arbitration policy changes.
type ModeEvent struct {
	From model.Mode
	To   model.Mode
	Time time.Time
}
