package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/robocmd/core/events"
	"github.com/kilianp07/robocmd/core/model"
	"github.com/kilianp07/robocmd/core/topic"
	"github.com/kilianp07/robocmd/internal/eventbus"
)

// captureBus keeps every arbitration event without dropping any.
type captureBus struct {
	mu  sync.Mutex
	got []events.ArbitrationEvent
}

func (b *captureBus) Publish(ev eventbus.Event) {
	if a, ok := ev.(events.ArbitrationEvent); ok {
		b.mu.Lock()
		b.got = append(b.got, a)
		b.mu.Unlock()
	}
}

func (b *captureBus) Subscribe() <-chan eventbus.Event { return nil }
func (b *captureBus) Unsubscribe(<-chan eventbus.Event) {}
func (b *captureBus) Close()                            {}

func (b *captureBus) events() []events.ArbitrationEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.ArbitrationEvent(nil), b.got...)
}

func TestConcurrentDeliveryStaysConsistent(t *testing.T) {
	bus := &captureBus{}
	d := topic.NewDomain("concurrent")
	arb, err := New(model.ModeOperator, DefaultTopics(), WithDomain(d), WithBus(bus))
	require.NoError(t, err)
	rc, err := topic.New[model.ControlIntent](d, "rc_cmd")
	require.NoError(t, err)
	ai, err := topic.New[model.ControlIntent](d, "ai_cmd")
	require.NoError(t, err)
	RegisterController(arb, rc)
	RegisterController(arb, ai)

	rcIntent := remote(1, 0, 0, true, true)
	aiIntent := autonomous(2, 0, 0, true, true, true)
	rc.Publish(rcIntent)
	ai.Publish(aiIntent)

	const rounds = 200
	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				rc.Publish(rcIntent)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				ai.Publish(aiIntent)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				m := model.ModeOperator
				if i%2 == 0 {
					m = model.ModeAutonomous
				}
				assert.NoError(t, arb.SetMode(m))
			}
		}()
	}
	wg.Wait()

	got := bus.events()
	require.Len(t, got, 2+2*2*rounds)
	for i, ev := range got {
		switch ev.Mode {
		case model.ModeOperator:
			assert.Equal(t, rcIntent.Chassis, ev.Chassis, "event %d", i)
			assert.Equal(t, rcIntent.Gimbal, ev.Gimbal, "event %d", i)
		case model.ModeAutonomous:
			assert.Equal(t, aiIntent.Chassis, ev.Chassis, "event %d", i)
			assert.Equal(t, aiIntent.Gimbal, ev.Gimbal, "event %d", i)
		default:
			t.Fatalf("event %d: unexpected mode %s", i, ev.Mode)
		}
		assert.True(t, ev.Launcher.IsFire, "event %d", i)
		assert.True(t, ev.Online, "event %d", i)
	}
}
