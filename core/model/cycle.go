package model

import (
	"encoding/json"
	"math"
)

const fullTurn = 2 * math.Pi

// CycleValue is an angle in radians kept in the range [0, 2π).
// Arithmetic on it wraps instead of accumulating.
type CycleValue float32

// NewCycleValue normalizes rad into [0, 2π).
func NewCycleValue(rad float64) CycleValue {
	c := CycleValue(normalize(rad))
	// Rounding to float32 can land exactly on a full turn.
	if float64(c) >= fullTurn {
		return 0
	}
	return c
}

func normalize(rad float64) float64 {
	if math.IsNaN(rad) || math.IsInf(rad, 0) {
		return 0
	}
	v := math.Mod(rad, fullTurn)
	if v < 0 {
		v += fullTurn
	}
	if v >= fullTurn {
		v = 0
	}
	return v
}

// Value returns the angle in radians.
func (c CycleValue) Value() float64 { return float64(c) }

// Add returns c+rad wrapped into [0, 2π).
func (c CycleValue) Add(rad float64) CycleValue {
	return NewCycleValue(float64(c) + rad)
}

// Sub returns the shortest signed rotation from o to c, in [-π, π).
func (c CycleValue) Sub(o CycleValue) float64 {
	d := normalize(float64(c) - float64(o))
	if d >= math.Pi {
		d -= fullTurn
	}
	return d
}

// UnmarshalJSON decodes a number of radians and normalizes it.
func (c *CycleValue) UnmarshalJSON(b []byte) error {
	var rad float64
	if err := json.Unmarshal(b, &rad); err != nil {
		return err
	}
	*c = NewCycleValue(rad)
	return nil
}
