// Package metrics provides the Prometheus and InfluxDB sinks, the /metrics
// HTTP endpoint and the collector that drains command events from the bus.
package metrics
