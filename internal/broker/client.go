package broker

import (
	"encoding/json"
	"fmt"

	"motion_dashboard/internal/logger"
	"motion_dashboard/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config holds the MQTT connection settings and the two topics the ESP32
// publishes on: a plain-string alarm topic and a JSON system topic.
type Config struct {
	Broker      string
	ClientID    string
	User        string
	Password    string
	AlarmTopic  string
	SystemTopic string
}

// Client wraps the paho MQTT client. It is a passive callback target:
// reconnects and redelivery are paho's responsibility.
type Client struct {
	client mqtt.Client
	config Config
	log    *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.User != "" {
		opts.SetUsername(cfg.User)
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		log.Infow("connected to mqtt broker", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		log.Warnw("lost connection to mqtt broker", "err", err)
	})

	return &Client{
		client: mqtt.NewClient(opts),
		config: cfg,
		log:    log,
	}
}

func (c *Client) Connect() error {
	token := c.client.Connect()
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// SubscribeAlarms delivers each alarm payload as a raw string.
// Empty payloads are dropped; everything else is passed through verbatim.
func (c *Client) SubscribeAlarms(handle func(message string)) error {
	token := c.client.Subscribe(c.config.AlarmTopic, 0, func(client mqtt.Client, msg mqtt.Message) {
		payload := string(msg.Payload())
		if payload == "" {
			return
		}
		handle(payload)
	})

	if token.Wait() && token.Error() != nil {
		return token.Error()
	}

	c.log.Infow("subscribed", "topic", c.config.AlarmTopic)
	return nil
}

// SubscribeSystem decodes system pushes into a partial status patch.
// Payloads that are not JSON objects are ignored without surfacing an error.
func (c *Client) SubscribeSystem(handle func(patch models.SystemPatch)) error {
	token := c.client.Subscribe(c.config.SystemTopic, 0, func(client mqtt.Client, msg mqtt.Message) {
		var patch models.SystemPatch
		if err := json.Unmarshal(msg.Payload(), &patch); err != nil {
			c.log.Debugw("ignoring malformed system payload", "err", err)
			return
		}
		handle(patch)
	})

	if token.Wait() && token.Error() != nil {
		return token.Error()
	}

	c.log.Infow("subscribed", "topic", c.config.SystemTopic)
	return nil
}

// PublishSystem writes the full system object to the system topic, retained,
// so the subscription loop (and any late subscriber) picks it up.
func (c *Client) PublishSystem(status models.SystemStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal system state: %w", err)
	}

	token := c.client.Publish(c.config.SystemTopic, 0, true, data)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}
