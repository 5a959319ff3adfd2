package command

import (
	"fmt"

	"github.com/kilianp07/robocmd/core/events"
	"github.com/kilianp07/robocmd/core/model"
)

func (a *Arbiter) registerModeEvents() {
	h := func(_ bool, id uint32) {
		if id >= uint32(model.ModeCount) {
			return
		}
		if err := a.SetMode(model.Mode(id)); err != nil {
			a.log.Warnf("mode event %d: %v", id, err)
		}
	}
	for m := model.Mode(0); m < model.ModeCount; m++ {
		a.events.Register(uint32(m), h)
	}
}

// SetMode replaces the active policy. The swap happens between two
// arbitration passes, never during one.
func (a *Arbiter) SetMode(m model.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("command: set mode %d: %w", m, ErrInvalidMode)
	}
	a.mu.Lock()
	prev := a.mode
	a.mode = m
	if a.resetOnSwitch && m == model.ModeAutonomous && prev != m {
		a.slots[model.SourceAutonomous] = model.ControlIntent{Source: model.SourceAutonomous}
	}
	a.mu.Unlock()

	if prev == m {
		a.log.Debugf("mode already %s", m)
		return nil
	}
	a.log.Infof("control mode %s -> %s", prev, m)
	a.emit(events.ModeEvent{From: prev, To: m, Time: a.now()})
	return nil
}

// RequestMode raises the mode event for m on the arbiter's dispatcher.
func (a *Arbiter) RequestMode(m model.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("command: request mode %d: %w", m, ErrInvalidMode)
	}
	a.events.Active(uint32(m))
	return nil
}

// observeLiveness updates the online flag from the remote slot and reports
// whether a true to false edge happened. Callers hold a.mu.
func (a *Arbiter) observeLiveness() bool {
	remoteOnline := a.slots[model.SourceRemote].ChassisOnline
	if !remoteOnline && a.online {
		a.online = false
		return true
	}
	if remoteOnline {
		a.online = true
	}
	return false
}

func (a *Arbiter) raiseFault(inISR bool) {
	a.log.Warnf("remote control lost")
	if inISR {
		a.events.ActiveFromISR(EventLostControl)
	} else {
		a.events.Active(EventLostControl)
	}
	a.emit(events.FaultEvent{EventID: EventLostControl, Time: a.now()})
}
