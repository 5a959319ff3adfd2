package command

import (
	"github.com/kilianp07/robocmd/core/events"
	"github.com/kilianp07/robocmd/core/model"
	"github.com/kilianp07/robocmd/core/topic"
)

// RegisterController attaches a source topic to the arbiter. Payloads that
// are, or convert to, a ControlIntent update the matching slot; every payload
// is forwarded to the input topic.
func RegisterController[T any](a *Arbiter, src *topic.Topic[T]) {
	name := src.Name()
	src.RegisterCallback(func(inISR bool, v T) {
		a.Ingest(inISR, Inbound{Topic: name, Payload: v})
	})
}

// Ingest records msg in its source slot and forwards it to the input topic.
// Messages with an unknown source id leave the slots untouched.
func (a *Arbiter) Ingest(inISR bool, msg Inbound) {
	intent, ok := asIntent(msg.Payload)
	stored := ok && intent.Source.Valid()
	if stored {
		a.mu.Lock()
		a.slots[intent.Source] = intent
		// Only the remote source drives the online flag.
		if intent.Source == model.SourceRemote && intent.ChassisOnline {
			a.online = true
		}
		a.mu.Unlock()
	} else {
		a.log.Debugf("ingest %s: slot untouched", msg.Topic)
	}
	a.emit(events.IngestEvent{Topic: msg.Topic, Source: intent.Source, Dropped: !stored, Time: a.now()})

	if inISR {
		a.in.PublishFromISR(msg)
	} else {
		a.in.Publish(msg)
	}
}

func asIntent(payload any) (model.ControlIntent, bool) {
	switch p := payload.(type) {
	case model.ControlIntent:
		return p, true
	case *model.ControlIntent:
		if p == nil {
			return model.ControlIntent{}, false
		}
		return *p, true
	case model.IntentProvider:
		return p.ControlIntent(), true
	default:
		return model.ControlIntent{}, false
	}
}
