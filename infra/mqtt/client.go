package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/robocmd/core/model"
	"github.com/kilianp07/robocmd/infra/logger"
)

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt client not connected")

// Config defines the connection parameters and topic layout of the bridge.
type Config struct {
	Broker     string          `json:"broker"`
	ClientID   string          `json:"client_id"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	UseTLS     bool            `json:"use_tls"`
	ClientCert string          `json:"client_cert"`
	ClientKey  string          `json:"client_key"`
	CABundle   string          `json:"ca_bundle"`
	AuthMethod string          `json:"auth_method"`
	QoS        map[string]byte `json:"qos"`
	LWTTopic   string          `json:"lwt_topic"`
	LWTPayload string          `json:"lwt_payload"`
	LWTQoS     byte            `json:"lwt_qos"`
	LWTRetain  bool            `json:"lwt_retain"`
	MaxRetries int             `json:"max_retries"`
	BackoffMS  int             `json:"backoff_ms"`

	// SourceTopics maps a source name ("remote", "autonomous") to the MQTT
	// topic carrying its control intents.
	SourceTopics map[string]string `json:"source_topics"`
	// ModeTopic carries mode requests.
	ModeTopic string `json:"mode_topic"`
	// FaultTopic receives lost-control notifications.
	FaultTopic string `json:"fault_topic"`
	// CommandPrefix is prepended to the chassis, gimbal and launcher
	// command topics.
	CommandPrefix string `json:"command_prefix"`

	TLSConfig *tls.Config `json:"-"`
}

// SetDefaults fills the topic layout and generates a client id when missing.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "robocmd-" + uuid.NewString()
	}
	if len(c.SourceTopics) == 0 {
		c.SourceTopics = map[string]string{
			"remote":     "robocmd/source/remote",
			"autonomous": "robocmd/source/autonomous",
		}
	}
	if c.ModeTopic == "" {
		c.ModeTopic = "robocmd/mode"
	}
	if c.FaultTopic == "" {
		c.FaultTopic = "robocmd/fault"
	}
	if c.CommandPrefix == "" {
		c.CommandPrefix = "robocmd/cmd"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt: broker is required")
	}
	for name := range c.SourceTopics {
		if _, err := model.ParseSource(name); err != nil {
			return fmt.Errorf("mqtt: source_topics: %w", err)
		}
	}
	return nil
}

func (c Config) qos(kind string) byte {
	if q, ok := c.QoS[kind]; ok {
		return q
	}
	return 0
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

type route struct {
	qos     byte
	handler paho.MessageHandler
}

// Client wraps a Paho connection and re-subscribes its routes on reconnect.
type Client struct {
	cli pahoClient
	cfg Config
	log logger.Logger

	mu     sync.Mutex
	routes map[string]route
}

// NewClient connects to the MQTT broker.
func NewClient(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{cfg: cfg, log: logger.New("mqtt_client"), routes: make(map[string]route)}

	opts.OnConnect = func(_ paho.Client) {
		c.log.Infof("MQTT connected")
		c.mu.Lock()
		routes := make(map[string]route, len(c.routes))
		for t, r := range c.routes {
			routes[t] = r
		}
		c.mu.Unlock()
		for t, r := range routes {
			if token := c.cli.Subscribe(t, r.qos, r.handler); token.Wait() && token.Error() != nil {
				c.log.Errorf("subscribe %s: %v", t, token.Error())
			}
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		c.log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		c.log.Warnf("reconnecting to MQTT broker")
	}
	cli := newMQTTClient(opts)
	c.cli = cli
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return c, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() Config { return c.cfg }

// Subscribe registers h for topic. The route survives reconnects.
func (c *Client) Subscribe(topic string, qos byte, h paho.MessageHandler) error {
	c.mu.Lock()
	c.routes[topic] = route{qos: qos, handler: h}
	c.mu.Unlock()
	if !c.cli.IsConnected() {
		return nil
	}
	token := c.cli.Subscribe(topic, qos, h)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	return nil
}

// PublishJSON encodes v and hands it to the client without waiting for
// delivery. It is safe to call from message handlers.
func (c *Client) PublishJSON(topic string, qos byte, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if !c.cli.IsConnected() {
		return ErrNotConnected
	}
	token := c.cli.Publish(topic, qos, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	default:
		return nil
	}
}

// PublishJSONWait publishes v and waits for completion, retrying with
// exponential backoff.
func (c *Client) PublishJSONWait(topic string, qos byte, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	retries := c.cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	backoff := time.Duration(c.cfg.BackoffMS) * time.Millisecond
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	var publishErr error
	for attempt := 0; attempt <= retries; attempt++ {
		token := c.cli.Publish(topic, qos, false, payload)
		token.Wait()
		if publishErr = token.Error(); publishErr == nil {
			c.log.Infof("published to %s", topic)
			return nil
		}
		c.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(backoff * time.Duration(1<<attempt))
	}
	return publishErr
}

// Disconnect gracefully closes the MQTT connection.
func (c *Client) Disconnect() {
	if c.cli != nil && c.cli.IsConnected() {
		c.cli.Disconnect(250)
	}
}
