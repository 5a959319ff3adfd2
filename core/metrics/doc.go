// Package metrics defines the sinks that record command arbitration activity.
//
// A MetricsSink records every arbitration pass; sinks may also implement the
// optional recorder interfaces for ingestion, faults and mode switches.
// Sinks are built from configuration through the factory registry and are
// combined with NewMultiSink when more than one is configured.
package metrics
