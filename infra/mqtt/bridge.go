package mqtt

import (
	"context"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kilianp07/robocmd/core/command"
	"github.com/kilianp07/robocmd/core/model"
	"github.com/kilianp07/robocmd/core/topic"
	"github.com/kilianp07/robocmd/infra/logger"
)

const tracerName = "github.com/kilianp07/robocmd/infra/mqtt"

// ErrSourceMismatch is reported when a payload names a source other than the
// one its topic is routed to.
var ErrSourceMismatch = errors.New("intent source does not match topic")

type sourceRoute struct {
	source model.SourceID
	local  *topic.Topic[model.ControlIntent]
}

// Bridge connects an arbiter to the broker.
type Bridge struct {
	client  *Client
	arb     *command.Arbiter
	sources map[string]sourceRoute
	log     logger.Logger
}

// NewBridge creates one local source topic per configured MQTT source topic
// in d, attaches them to arb and mirrors the arbiter outputs to the broker.
func NewBridge(client *Client, arb *command.Arbiter, d *topic.Domain) (*Bridge, error) {
	if client == nil || arb == nil || d == nil {
		return nil, fmt.Errorf("mqtt bridge: nil parameter provided to NewBridge")
	}
	cfg := client.Config()
	b := &Bridge{
		client:  client,
		arb:     arb,
		sources: make(map[string]sourceRoute, len(cfg.SourceTopics)),
		log:     logger.New("mqtt_bridge"),
	}
	for name, mqttTopic := range cfg.SourceTopics {
		src, err := model.ParseSource(name)
		if err != nil {
			return nil, fmt.Errorf("mqtt bridge: %w", err)
		}
		local, err := topic.New[model.ControlIntent](d, "mqtt_"+src.String())
		if err != nil {
			return nil, fmt.Errorf("mqtt bridge: %w", err)
		}
		command.RegisterController(arb, local)
		b.sources[mqttTopic] = sourceRoute{source: src, local: local}
	}

	qos := cfg.qos("command")
	prefix := cfg.CommandPrefix
	arb.ChassisTopic().RegisterCallback(func(_ bool, c model.ChassisCMD) {
		b.publish(prefix+"/"+arb.ChassisTopic().Name(), qos, c)
	})
	arb.GimbalTopic().RegisterCallback(func(_ bool, g model.GimbalCMD) {
		b.publish(prefix+"/"+arb.GimbalTopic().Name(), qos, g)
	})
	arb.LauncherTopic().RegisterCallback(func(_ bool, l model.LauncherCMD) {
		b.publish(prefix+"/"+arb.LauncherTopic().Name(), qos, l)
	})
	arb.Event().Register(command.EventLostControl, func(_ bool, id uint32) {
		b.publish(cfg.FaultTopic, cfg.qos("fault"), FaultMessage{
			ID:        uuid.NewString(),
			EventID:   id,
			Timestamp: time.Now().UnixMilli(),
		})
	})
	return b, nil
}

// Start subscribes to the source and mode topics.
func (b *Bridge) Start() error {
	cfg := b.client.Config()
	for mqttTopic, r := range b.sources {
		if err := b.client.Subscribe(mqttTopic, cfg.qos("source"), b.sourceHandler(r)); err != nil {
			return err
		}
		b.log.Infof("forwarding %s to %s source", mqttTopic, r.source)
	}
	return b.client.Subscribe(cfg.ModeTopic, cfg.qos("mode"), b.onMode)
}

func (b *Bridge) sourceHandler(r sourceRoute) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		_, span := otel.Tracer(tracerName).Start(context.Background(), "mqtt.source",
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("messaging.destination", msg.Topic()),
				attribute.String("robocmd.source", r.source.String()),
			))
		defer span.End()

		intent, err := DecodeIntent(msg.Payload(), r.source)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode")
			b.log.Warnf("%s: %v", msg.Topic(), err)
			return
		}
		if intent.Source != r.source {
			err := fmt.Errorf("%w: payload %s, topic %s", ErrSourceMismatch, intent.Source, r.source)
			span.RecordError(err)
			span.SetStatus(codes.Error, "source mismatch")
			b.log.Warnf("%s: %v", msg.Topic(), err)
			return
		}
		r.local.Publish(intent)
	}
}

func (b *Bridge) onMode(_ paho.Client, msg paho.Message) {
	_, span := otel.Tracer(tracerName).Start(context.Background(), "mqtt.mode",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	m, err := DecodeMode(msg.Payload())
	if err == nil {
		span.SetAttributes(attribute.String("robocmd.mode", m.String()))
		err = b.arb.RequestMode(m)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mode request")
		b.log.Warnf("mode request: %v", err)
	}
}

func (b *Bridge) publish(topic string, qos byte, v any) {
	err := b.client.PublishJSON(topic, qos, v)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotConnected):
		b.log.Debugf("publish %s skipped: %v", topic, err)
	default:
		b.log.Errorf("publish %s: %v", topic, err)
	}
}
