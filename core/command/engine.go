package command

import "github.com/kilianp07/robocmd/core/events"

// arbitrate runs once per message on the input topic.
func (a *Arbiter) arbitrate(inISR bool, _ Inbound) {
	a.mu.Lock()
	lost := a.observeLiveness()
	mode := a.mode
	slots := a.slots
	online := a.online
	a.mu.Unlock()

	// Handlers run unlocked so they may call back into the arbiter.
	if lost {
		a.raiseFault(inISR)
	}

	out := Arbitrate(mode, &slots)
	if inISR {
		a.gimbal.PublishFromISR(out.Gimbal)
		a.chassis.PublishFromISR(out.Chassis)
		a.launcher.PublishFromISR(out.Launcher)
	} else {
		a.gimbal.Publish(out.Gimbal)
		a.chassis.Publish(out.Chassis)
		a.launcher.Publish(out.Launcher)
	}
	a.emit(events.ArbitrationEvent{
		Mode:     mode,
		Chassis:  out.Chassis,
		Gimbal:   out.Gimbal,
		Launcher: out.Launcher,
		Online:   online,
		Time:     a.now(),
	})
}
