package model

import (
	"fmt"
	"strings"
)

// SourceID identifies an independent producer of control intent.
type SourceID uint8

const (
	SourceRemote SourceID = iota
	SourceAutonomous
	// SourceCount is the number of known sources. It sizes the slot table.
	SourceCount
)

// Valid reports whether s is a known source.
func (s SourceID) Valid() bool { return s < SourceCount }

// String returns a human-readable representation of the source.
func (s SourceID) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceAutonomous:
		return "autonomous"
	default:
		return "unknown"
	}
}

// ParseSource converts a source name into a SourceID.
func ParseSource(s string) (SourceID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote", "rc":
		return SourceRemote, nil
	case "autonomous", "ai":
		return SourceAutonomous, nil
	default:
		return 0, fmt.Errorf("unknown source %q", s)
	}
}

// ChassisCMD carries translational (X, Y) and rotational (Z) rate intents.
type ChassisCMD struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// GimbalCMD carries the gimbal orientation intent.
type GimbalCMD struct {
	Yaw   CycleValue `json:"yaw"`
	Pitch CycleValue `json:"pitch"`
	Roll  CycleValue `json:"roll"`
}

// LauncherCMD carries the fire request.
type LauncherCMD struct {
	IsFire bool `json:"is_fire"`
}

// ControlIntent is the full record a source produces. Slots holding it are
// always replaced as a whole.
type ControlIntent struct {
	Gimbal        GimbalCMD   `json:"gimbal"`
	Chassis       ChassisCMD  `json:"chassis"`
	Launcher      LauncherCMD `json:"launcher"`
	ChassisOnline bool        `json:"chassis_online"`
	GimbalOnline  bool        `json:"gimbal_online"`
	Source        SourceID    `json:"source"`
}

// IntentProvider is implemented by source-specific payloads that can be
// converted to a ControlIntent.
type IntentProvider interface {
	ControlIntent() ControlIntent
}
