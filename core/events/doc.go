// Package events defines the observability events the command core emits on
// the event bus.
//
// Available event types:
//   - IngestEvent: a source message reached the ingestion router
//   - ArbitrationEvent: one arbitration pass and its published outputs
//   - FaultEvent: loss of the primary source
//   - ModeEvent: the arbitration policy was switched
package events
