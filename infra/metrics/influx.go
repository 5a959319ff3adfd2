package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/robocmd/core/metrics"
	"github.com/kilianp07/robocmd/infra/logger"
)

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes arbitration records to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

func arbitrationPoint(rec coremetrics.ArbitrationRecord) *write.Point {
	return write.NewPointWithMeasurement("arbitration").
		AddTag("mode", rec.Mode.String()).
		AddTag("component", "command").
		AddField("chassis_x", round3(float64(rec.Chassis.X))).
		AddField("chassis_y", round3(float64(rec.Chassis.Y))).
		AddField("chassis_z", round3(float64(rec.Chassis.Z))).
		AddField("yaw", round3(rec.Gimbal.Yaw.Value())).
		AddField("pitch", round3(rec.Gimbal.Pitch.Value())).
		AddField("roll", round3(rec.Gimbal.Roll.Value())).
		AddField("magnitude", round3(rec.Magnitude)).
		AddField("fire", rec.Fire).
		AddField("online", rec.Online).
		SetTime(rec.Time)
}

// RecordArbitration writes one point per arbitration pass.
func (s *InfluxSink) RecordArbitration(rec coremetrics.ArbitrationRecord) error {
	return s.write(arbitrationPoint(rec))
}

// RecordFault writes a lost-control point.
func (s *InfluxSink) RecordFault(rec coremetrics.FaultRecord) error {
	p := write.NewPointWithMeasurement("lost_control").
		AddTag("component", "command").
		AddField("event_id", int64(rec.EventID)).
		SetTime(rec.Time)
	return s.write(p)
}

// RecordModeSwitch writes a mode change point.
func (s *InfluxSink) RecordModeSwitch(rec coremetrics.ModeSwitchRecord) error {
	p := write.NewPointWithMeasurement("mode_switch").
		AddTag("component", "command").
		AddTag("from", rec.From.String()).
		AddTag("to", rec.To.String()).
		AddField("mode", int64(rec.To)).
		SetTime(rec.Time)
	return s.write(p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
