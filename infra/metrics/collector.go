package metrics

import (
	"context"

	"github.com/kilianp07/robocmd/core/events"
	coremetrics "github.com/kilianp07/robocmd/core/metrics"
	"github.com/kilianp07/robocmd/infra/logger"
	"github.com/kilianp07/robocmd/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed. The returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) error {
	switch e := ev.(type) {
	case events.ArbitrationEvent:
		return sink.RecordArbitration(coremetrics.ArbitrationRecord{
			Mode:      e.Mode,
			Chassis:   e.Chassis,
			Gimbal:    e.Gimbal,
			Fire:      e.Launcher.IsFire,
			Online:    e.Online,
			Magnitude: coremetrics.ChassisMagnitude(e.Chassis),
			Time:      e.Time,
		})
	case events.IngestEvent:
		if r, ok := sink.(coremetrics.IngestRecorder); ok {
			return r.RecordIngest(coremetrics.IngestRecord{Topic: e.Topic, Source: e.Source, Dropped: e.Dropped, Time: e.Time})
		}
	case events.FaultEvent:
		if r, ok := sink.(coremetrics.FaultRecorder); ok {
			return r.RecordFault(coremetrics.FaultRecord{EventID: e.EventID, Time: e.Time})
		}
	case events.ModeEvent:
		if r, ok := sink.(coremetrics.ModeSwitchRecorder); ok {
			return r.RecordModeSwitch(coremetrics.ModeSwitchRecord{From: e.From, To: e.To, Time: e.Time})
		}
	}
	return nil
}
