package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/robocmd/core/model"
)

func TestOperatorPolicyIgnoresAutonomous(t *testing.T) {
	f := newFixture(t, model.ModeOperator)
	f.rc.Publish(remote(1, 0, 0, true, true))
	f.ai.Publish(autonomous(9, 9, 9, true, true, true))

	got := f.rec.last(t)
	assert.Equal(t, model.ChassisCMD{X: 1}, got.Chassis)
	assert.True(t, got.Launcher.IsFire)
	assert.Equal(t, remote(1, 0, 0, true, true).Gimbal, got.Gimbal)
}

func TestAutonomousChassisFailover(t *testing.T) {
	f := newFixture(t, model.ModeAutonomous)
	f.rc.Publish(remote(1, 2, 3, false, true))
	f.ai.Publish(autonomous(7, 8, 9, false, false, true))

	got := f.rec.last(t)
	assert.Equal(t, model.ChassisCMD{X: 1, Y: 2, Z: 3}, got.Chassis)

	f.ai.Publish(autonomous(7, 8, 9, false, true, true))
	assert.Equal(t, model.ChassisCMD{X: 7, Y: 8, Z: 9}, f.rec.last(t).Chassis)
}

func TestAutonomousGimbalFailover(t *testing.T) {
	rc := remote(0, 0, 0, false, true)
	ai := autonomous(0, 0, 0, false, true, false)
	var s Slots
	s[model.SourceRemote] = rc
	s[model.SourceAutonomous] = ai

	assert.Equal(t, rc.Gimbal, Arbitrate(model.ModeAutonomous, &s).Gimbal)
	s[model.SourceAutonomous].GimbalOnline = true
	assert.Equal(t, ai.Gimbal, Arbitrate(model.ModeAutonomous, &s).Gimbal)
}

func TestAutonomousFireInterlock(t *testing.T) {
	cases := []struct {
		rc, ai, want bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, c := range cases {
		var s Slots
		s[model.SourceRemote] = remote(0, 0, 0, c.rc, true)
		s[model.SourceAutonomous] = autonomous(0, 0, 0, c.ai, true, true)
		assert.Equal(t, c.want, Arbitrate(model.ModeAutonomous, &s).Launcher.IsFire, "rc=%v ai=%v", c.rc, c.ai)
	}
}

func TestAutonomousFireFailsClosedWithoutAI(t *testing.T) {
	f := newFixture(t, model.ModeAutonomous)
	f.rc.Publish(remote(0, 0, 0, true, true))
	assert.False(t, f.rec.last(t).Launcher.IsFire)
}

func TestArbitrateUnknownModeUsesOperator(t *testing.T) {
	var s Slots
	s[model.SourceRemote] = remote(4, 0, 0, true, true)
	s[model.SourceAutonomous] = autonomous(9, 0, 0, true, true, true)
	assert.Equal(t, Arbitrate(model.ModeOperator, &s), Arbitrate(model.Mode(42), &s))
}

func TestOperatorIdempotentDelivery(t *testing.T) {
	f := newFixture(t, model.ModeOperator)
	f.rc.Publish(remote(1, 0, 0, true, true))
	msg := Inbound{Topic: "rc_cmd", Payload: remote(1, 0, 0, true, true)}
	f.arb.InputTopic().Publish(msg)
	f.arb.InputTopic().Publish(msg)

	require.Len(t, f.rec.out, 3)
	if diff := cmp.Diff(f.rec.out[1], f.rec.out[2]); diff != "" {
		t.Errorf("repeated delivery differs (-first +second):\n%s", diff)
	}
}

func TestOneTriplePerDelivery(t *testing.T) {
	f := newFixture(t, model.ModeAutonomous)
	var chassis, gimbal, launcher int
	f.arb.ChassisTopic().RegisterCallback(func(bool, model.ChassisCMD) { chassis++ })
	f.arb.GimbalTopic().RegisterCallback(func(bool, model.GimbalCMD) { gimbal++ })
	f.arb.LauncherTopic().RegisterCallback(func(bool, model.LauncherCMD) { launcher++ })

	for i := 0; i < 5; i++ {
		f.rc.Publish(remote(float32(i), 0, 0, false, true))
	}
	assert.Equal(t, []int{5, 5, 5}, []int{chassis, gimbal, launcher})
}

func TestEndToEndAutonomousScenario(t *testing.T) {
	f := newFixture(t, model.ModeAutonomous)
	rc := remote(1, 0.5, 0, false, true)
	ai := autonomous(3, 3, 3, false, false, true)
	f.rc.Publish(rc)
	f.ai.Publish(ai)

	got := f.rec.last(t)
	assert.Equal(t, rc.Chassis, got.Chassis)
	assert.Equal(t, ai.Gimbal, got.Gimbal)
	assert.False(t, got.Launcher.IsFire)
	assert.True(t, f.arb.Online())
}
