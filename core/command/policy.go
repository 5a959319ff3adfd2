package command

import "github.com/kilianp07/robocmd/core/model"

// Output is the command triple published after each arbitration pass.
type Output struct {
	Gimbal   model.GimbalCMD
	Chassis  model.ChassisCMD
	Launcher model.LauncherCMD
}

// Slots is the per-source intent table.
type Slots = [model.SourceCount]model.ControlIntent

// Policy computes the output triple from the slot table.
type Policy func(s *Slots) Output

var policies = [model.ModeCount]Policy{
	model.ModeOperator:   operatorPolicy,
	model.ModeAutonomous: autonomousPolicy,
}

// Arbitrate evaluates the policy bound to mode.
func Arbitrate(mode model.Mode, s *Slots) Output {
	if !mode.Valid() {
		mode = model.ModeOperator
	}
	return policies[mode](s)
}

// operatorPolicy passes the remote intent through and ignores the autonomous slot.
func operatorPolicy(s *Slots) Output {
	rc := &s[model.SourceRemote]
	return Output{Gimbal: rc.Gimbal, Chassis: rc.Chassis, Launcher: rc.Launcher}
}

// autonomousPolicy prefers the autonomous source per domain while it is
// online. Firing needs both sources to request it.
func autonomousPolicy(s *Slots) Output {
	rc := &s[model.SourceRemote]
	ai := &s[model.SourceAutonomous]

	out := Output{Chassis: rc.Chassis, Gimbal: rc.Gimbal}
	if ai.ChassisOnline {
		out.Chassis = ai.Chassis
	}
	if ai.GimbalOnline {
		out.Gimbal = ai.Gimbal
	}
	out.Launcher.IsFire = ai.Launcher.IsFire && rc.Launcher.IsFire
	return out
}
