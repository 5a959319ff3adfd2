package command

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/robocmd/core/event"
	"github.com/kilianp07/robocmd/core/logger"
	"github.com/kilianp07/robocmd/core/model"
	"github.com/kilianp07/robocmd/core/topic"
	"github.com/kilianp07/robocmd/internal/eventbus"
)

// EventLostControl is raised when the remote source goes offline.
const EventLostControl uint32 = 0x13212509

// InputTopicName is the name of the aggregation topic.
const InputTopicName = "cmd_data_in"

var (
	// ErrInvalidMode is returned for a mode outside the known set.
	ErrInvalidMode = errors.New("invalid control mode")
	// ErrEmptyTopic is returned when an output topic name is missing.
	ErrEmptyTopic = errors.New("output topic name is empty")
)

// Topics names the three outbound command topics.
type Topics struct {
	Chassis  string
	Gimbal   string
	Launcher string
}

// DefaultTopics returns the conventional topic names.
func DefaultTopics() Topics {
	return Topics{Chassis: "chassis_cmd", Gimbal: "gimbal_cmd", Launcher: "launcher_cmd"}
}

// Inbound is a raw source message as forwarded to the input topic.
type Inbound struct {
	Topic   string
	Payload any
}

// Arbiter is the command arbitration core.
type Arbiter struct {
	mu     sync.Mutex
	mode   model.Mode
	online bool
	slots  [model.SourceCount]model.ControlIntent

	resetOnSwitch bool

	events   *event.Dispatcher
	in       *topic.Topic[Inbound]
	chassis  *topic.Topic[model.ChassisCMD]
	gimbal   *topic.Topic[model.GimbalCMD]
	launcher *topic.Topic[model.LauncherCMD]

	domain *topic.Domain
	log    logger.Logger
	bus    eventbus.EventBus
	now    func() time.Time
}

// Option configures an Arbiter.
type Option func(*Arbiter)

// WithDomain creates the arbiter's topics in d instead of a private domain.
func WithDomain(d *topic.Domain) Option {
	return func(a *Arbiter) {
		if d != nil {
			a.domain = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Arbiter) {
		if l != nil {
			a.log = l
		}
	}
}

// WithBus publishes observability events on bus.
func WithBus(bus eventbus.EventBus) Option {
	return func(a *Arbiter) { a.bus = bus }
}

// WithResetOnModeSwitch clears the autonomous slot whenever the arbiter
// switches into autonomous mode, so stale autonomous data is never used.
func WithResetOnModeSwitch() Option {
	return func(a *Arbiter) { a.resetOnSwitch = true }
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(a *Arbiter) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an arbiter bound to the given initial mode.
func New(mode model.Mode, topics Topics, opts ...Option) (*Arbiter, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("command: mode %d: %w", mode, ErrInvalidMode)
	}
	if topics.Chassis == "" || topics.Gimbal == "" || topics.Launcher == "" {
		return nil, fmt.Errorf("command: %w", ErrEmptyTopic)
	}
	a := &Arbiter{
		mode:   mode,
		events: event.NewDispatcher(),
		log:    logger.Nop{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	if a.domain == nil {
		a.domain = topic.NewDomain("command")
	}

	var err error
	if a.in, err = topic.New[Inbound](a.domain, InputTopicName); err != nil {
		return nil, fmt.Errorf("command: input topic: %w", err)
	}
	if a.chassis, err = topic.New[model.ChassisCMD](a.domain, topics.Chassis); err != nil {
		return nil, fmt.Errorf("command: chassis topic: %w", err)
	}
	if a.gimbal, err = topic.New[model.GimbalCMD](a.domain, topics.Gimbal); err != nil {
		return nil, fmt.Errorf("command: gimbal topic: %w", err)
	}
	if a.launcher, err = topic.New[model.LauncherCMD](a.domain, topics.Launcher); err != nil {
		return nil, fmt.Errorf("command: launcher topic: %w", err)
	}

	a.registerModeEvents()
	a.in.RegisterCallback(a.arbitrate)
	a.log.Infof("command arbiter started in %s mode", mode)
	return a, nil
}

// Mode returns the active control mode.
func (a *Arbiter) Mode() model.Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Online reports whether the remote source is considered live.
func (a *Arbiter) Online() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.online
}

// Slot returns a copy of the slot held for src.
func (a *Arbiter) Slot(src model.SourceID) (model.ControlIntent, bool) {
	if !src.Valid() {
		return model.ControlIntent{}, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.slots[src], true
}

// Event returns the dispatcher carrying the mode and fault events.
func (a *Arbiter) Event() *event.Dispatcher { return a.events }

// InputTopic returns the aggregation topic.
func (a *Arbiter) InputTopic() *topic.Topic[Inbound] { return a.in }

// ChassisTopic returns the outbound chassis command topic.
func (a *Arbiter) ChassisTopic() *topic.Topic[model.ChassisCMD] { return a.chassis }

// GimbalTopic returns the outbound gimbal command topic.
func (a *Arbiter) GimbalTopic() *topic.Topic[model.GimbalCMD] { return a.gimbal }

// LauncherTopic returns the outbound launcher command topic.
func (a *Arbiter) LauncherTopic() *topic.Topic[model.LauncherCMD] { return a.launcher }

// Name identifies the arbiter to the application manager.
func (a *Arbiter) Name() string { return "command" }

// OnMonitor is the periodic monitor hook. Liveness is tracked through the
// fault event, so there is nothing to poll.
func (a *Arbiter) OnMonitor() {}

func (a *Arbiter) emit(ev eventbus.Event) {
	if a.bus != nil {
		a.bus.Publish(ev)
	}
}
