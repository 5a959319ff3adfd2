package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kilianp07/robocmd/core/model"
)

// ModeRequest is the JSON form of a mode change request. A bare string
// payload such as "autonomous" is accepted as well.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// FaultMessage is published when the remote source is lost.
type FaultMessage struct {
	ID        string `json:"id"`
	EventID   uint32 `json:"event_id"`
	Timestamp int64  `json:"timestamp"`
}

// DecodeIntent parses a source payload. When the payload has no "source"
// field the intent is attributed to def.
func DecodeIntent(payload []byte, def model.SourceID) (model.ControlIntent, error) {
	var ci model.ControlIntent
	if err := json.Unmarshal(payload, &ci); err != nil {
		return ci, fmt.Errorf("decode intent: %w", err)
	}
	var hdr struct {
		Source *model.SourceID `json:"source"`
	}
	if err := json.Unmarshal(payload, &hdr); err != nil {
		return ci, fmt.Errorf("decode intent: %w", err)
	}
	if hdr.Source == nil {
		ci.Source = def
	}
	return ci, nil
}

// DecodeMode parses a mode request payload.
func DecodeMode(payload []byte) (model.Mode, error) {
	var req ModeRequest
	if err := json.Unmarshal(payload, &req); err == nil && req.Mode != "" {
		return model.ParseMode(req.Mode)
	}
	var s string
	if err := json.Unmarshal(payload, &s); err == nil {
		return model.ParseMode(s)
	}
	return model.ParseMode(strings.TrimSpace(string(payload)))
}
