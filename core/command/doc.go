// Package command arbitrates control intents from independent sources and
// republishes one authoritative command per actuator domain.
//
// An Arbiter owns a fixed table with one ControlIntent slot per source.
// Source topics are attached with RegisterController; every message they
// carry replaces the matching slot and is forwarded to the arbiter's input
// topic, whose single subscriber evaluates the active policy and publishes
// the chassis, gimbal and launcher commands.
//
// Mode changes go through SetMode, or through the mode event ids on the
// arbiter's event dispatcher. A loss of the remote source raises
// EventLostControl on the same dispatcher.
package command
