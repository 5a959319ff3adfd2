package command

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/robocmd/core/model"
	"github.com/kilianp07/robocmd/core/topic"
)

// recorder collects output triples. The arbiter publishes gimbal first, so
// a gimbal delivery opens a new triple.
type recorder struct {
	out []Output
}

func (r *recorder) attach(a *Arbiter) {
	a.GimbalTopic().RegisterCallback(func(_ bool, g model.GimbalCMD) {
		r.out = append(r.out, Output{Gimbal: g})
	})
	a.ChassisTopic().RegisterCallback(func(_ bool, c model.ChassisCMD) {
		r.out[len(r.out)-1].Chassis = c
	})
	a.LauncherTopic().RegisterCallback(func(_ bool, l model.LauncherCMD) {
		r.out[len(r.out)-1].Launcher = l
	})
}

func (r *recorder) last(t *testing.T) Output {
	t.Helper()
	require.NotEmpty(t, r.out, "nothing published")
	return r.out[len(r.out)-1]
}

type fixture struct {
	arb *Arbiter
	rc  *topic.Topic[model.ControlIntent]
	ai  *topic.Topic[model.ControlIntent]
	rec *recorder
}

func newFixture(t *testing.T, mode model.Mode, opts ...Option) *fixture {
	t.Helper()
	d := topic.NewDomain("test")
	opts = append([]Option{WithDomain(d)}, opts...)
	arb, err := New(mode, DefaultTopics(), opts...)
	require.NoError(t, err)

	rc, err := topic.New[model.ControlIntent](d, "rc_cmd")
	require.NoError(t, err)
	ai, err := topic.New[model.ControlIntent](d, "ai_cmd")
	require.NoError(t, err)
	RegisterController(arb, rc)
	RegisterController(arb, ai)

	rec := &recorder{}
	rec.attach(arb)
	return &fixture{arb: arb, rc: rc, ai: ai, rec: rec}
}

func remote(x, y, z float32, fire, online bool) model.ControlIntent {
	return model.ControlIntent{
		Source:        model.SourceRemote,
		Chassis:       model.ChassisCMD{X: x, Y: y, Z: z},
		Gimbal:        model.GimbalCMD{Yaw: model.NewCycleValue(0.5)},
		Launcher:      model.LauncherCMD{IsFire: fire},
		ChassisOnline: online,
		GimbalOnline:  online,
	}
}

func autonomous(x, y, z float32, fire, chassisOnline, gimbalOnline bool) model.ControlIntent {
	return model.ControlIntent{
		Source:        model.SourceAutonomous,
		Chassis:       model.ChassisCMD{X: x, Y: y, Z: z},
		Gimbal:        model.GimbalCMD{Yaw: model.NewCycleValue(2), Pitch: model.NewCycleValue(0.25)},
		Launcher:      model.LauncherCMD{IsFire: fire},
		ChassisOnline: chassisOnline,
		GimbalOnline:  gimbalOnline,
	}
}
