package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/robocmd/core/model"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `command:
  mode: "autonomous"
  reset_on_mode_switch: true
  monitor_interval_ms: 250
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  qos:
    command: 1
  source_topics:
    rc: "bench/rc"
    ai: "bench/ai"
metrics:
  prometheus_port: ":2112"
  sinks:
    - type: "nop"
logging:
  level: "debug"
tracing:
  enabled: true
  sample_ratio: 0.5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"mode", cfg.Command.InitialMode(), model.ModeAutonomous},
		{"reset", cfg.Command.ResetOnModeSwitch, true},
		{"monitor", cfg.Command.MonitorInterval(), 250 * time.Millisecond},
		{"chassis_topic", cfg.Command.ChassisTopic, "chassis_cmd"},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"username", cfg.MQTT.Username, "user"},
		{"password", cfg.MQTT.Password, "pass"},
		{"qos", cfg.MQTT.QoS["command"], byte(1)},
		{"rc_topic", cfg.MQTT.SourceTopics["rc"], "bench/rc"},
		{"mode_topic", cfg.MQTT.ModeTopic, "robocmd/mode"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"prometheus_port", cfg.Metrics.PrometheusPort, ":2112"},
		{"level", cfg.Logging.Level, "debug"},
		{"tracing", cfg.Tracing.Enabled, true},
		{"tracing_ratio", cfg.Tracing.SampleRatio, 0.5},
		{"tracing_exporter", cfg.Tracing.Exporter, "stdout"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadJSONWithEnvOverride(t *testing.T) {
	path := writeFile(t, "config.json", `{"mqtt":{"broker":"tcp://a:1883"}}`)
	t.Setenv("K_MQTT__BROKER", "tcp://b:1883")
	t.Setenv("K_COMMAND__MODE", "auto")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://b:1883", cfg.MQTT.Broker)
	assert.Equal(t, model.ModeAutonomous, cfg.Command.InitialMode())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", ""))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidSections(t *testing.T) {
	tests := map[string]string{
		"mode":      "command:\n  mode: manual\nmqtt:\n  broker: tcp://a:1883\n",
		"broker":    "command:\n  mode: operator\n",
		"duplicate": "command:\n  chassis_topic: x\n  gimbal_topic: x\nmqtt:\n  broker: tcp://a:1883\n",
		"input":     "command:\n  launcher_topic: cmd_data_in\nmqtt:\n  broker: tcp://a:1883\n",
		"level":     "mqtt:\n  broker: tcp://a:1883\nlogging:\n  level: loud\n",
		"tracing":   "mqtt:\n  broker: tcp://a:1883\ntracing:\n  enabled: true\n  exporter: zipkin\n",
		"rotation":  "mqtt:\n  broker: tcp://a:1883\nlogging:\n  max_backups: -1\n",
		"sink":      "mqtt:\n  broker: tcp://a:1883\nmetrics:\n  sinks:\n    - conf: {}\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}
}
