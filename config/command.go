package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/robocmd/core/command"
	"github.com/kilianp07/robocmd/core/model"
)

// CommandConfig configures the arbiter.
type CommandConfig struct {
	// Mode is the initial control mode: "operator" or "autonomous".
	Mode          string `json:"mode"`
	ChassisTopic  string `json:"chassis_topic"`
	GimbalTopic   string `json:"gimbal_topic"`
	LauncherTopic string `json:"launcher_topic"`
	// ResetOnModeSwitch clears the autonomous slot when switching to
	// autonomous mode.
	ResetOnModeSwitch bool `json:"reset_on_mode_switch"`
	// MonitorIntervalMS is the period of the application monitor loop.
	MonitorIntervalMS int `json:"monitor_interval_ms"`
}

// SetDefaults applies sane defaults.
func (c *CommandConfig) SetDefaults() {
	def := command.DefaultTopics()
	if c.Mode == "" {
		c.Mode = model.ModeOperator.String()
	}
	if c.ChassisTopic == "" {
		c.ChassisTopic = def.Chassis
	}
	if c.GimbalTopic == "" {
		c.GimbalTopic = def.Gimbal
	}
	if c.LauncherTopic == "" {
		c.LauncherTopic = def.Launcher
	}
	if c.MonitorIntervalMS == 0 {
		c.MonitorIntervalMS = 1000
	}
}

// Validate checks mandatory fields.
func (c CommandConfig) Validate() error {
	if _, err := model.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.ChassisTopic == "" || c.GimbalTopic == "" || c.LauncherTopic == "" {
		return fmt.Errorf("output topics are required")
	}
	seen := map[string]bool{command.InputTopicName: true}
	for _, t := range []string{c.ChassisTopic, c.GimbalTopic, c.LauncherTopic} {
		if seen[t] {
			return fmt.Errorf("duplicate topic name %q", t)
		}
		seen[t] = true
	}
	if c.MonitorIntervalMS < 0 {
		return fmt.Errorf("monitor_interval_ms must be positive")
	}
	return nil
}

// InitialMode returns the parsed initial mode.
func (c CommandConfig) InitialMode() model.Mode {
	m, err := model.ParseMode(c.Mode)
	if err != nil {
		return model.ModeOperator
	}
	return m
}

// Topics returns the arbiter output topic names.
func (c CommandConfig) Topics() command.Topics {
	return command.Topics{Chassis: c.ChassisTopic, Gimbal: c.GimbalTopic, Launcher: c.LauncherTopic}
}

// MonitorInterval returns the monitor period.
func (c CommandConfig) MonitorInterval() time.Duration {
	return time.Duration(c.MonitorIntervalMS) * time.Millisecond
}
