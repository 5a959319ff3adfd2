package mqtt

import (
	"fmt"

	"github.com/kilianp07/robocmd/core/model"
)

// PublishIntent sends intent on the MQTT topic configured for its source.
func PublishIntent(c *Client, intent model.ControlIntent) error {
	cfg := c.Config()
	for name, t := range cfg.SourceTopics {
		src, err := model.ParseSource(name)
		if err != nil || src != intent.Source {
			continue
		}
		return c.PublishJSONWait(t, cfg.qos("source"), intent)
	}
	return fmt.Errorf("no topic configured for source %s", intent.Source)
}

// PublishMode sends a mode request.
func PublishMode(c *Client, m model.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("invalid mode %d", m)
	}
	cfg := c.Config()
	return c.PublishJSONWait(cfg.ModeTopic, cfg.qos("mode"), ModeRequest{Mode: m.String()})
}
