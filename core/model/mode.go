package model

import (
	"fmt"
	"strings"
)

// Mode selects the arbitration policy.
type Mode uint8

const (
	ModeOperator Mode = iota
	ModeAutonomous
	// ModeCount is the number of modes. It sizes the policy table.
	ModeCount
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m < ModeCount }

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeOperator:
		return "operator"
	case ModeAutonomous:
		return "autonomous"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "operator", "op", "op_ctrl":
		return ModeOperator, nil
	case "autonomous", "auto", "auto_ctrl":
		return ModeAutonomous, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}
