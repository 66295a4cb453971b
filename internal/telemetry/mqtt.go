// Package telemetry publishes grant outcomes, moderation alerts and
// heartbeats to an MQTT broker.
package telemetry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/config"
	"github.com/frontline-pass/frontline/internal/events"
	"github.com/frontline-pass/frontline/internal/util"
)

// Topic suffixes, appended to the configured prefix.
const (
	TopicVipGranted   = "vip/granted"
	TopicVipFailed    = "vip/failed"
	TopicRegistered   = "players/registered"
	TopicDuplicate    = "moderation/duplicate"
	TopicHeartbeat    = "status/heartbeat"
	TopicAdmin        = "admin"
	publishQoS        = 1
	disconnectQuiesce = 5000
)

// ErrDisabled is returned when no broker is configured.
var ErrDisabled = errors.New("MQTT is disabled")

// MQTTPublisher forwards bus events to MQTT topics.
type MQTTPublisher struct {
	client   mqtt.Client
	prefix   string
	bus      *events.EventBus
	metadata map[string]interface{}
	logger   zerolog.Logger
}

// NewMQTTPublisher configures a paho client for cfg. The connection is made
// by Start.
func NewMQTTPublisher(cfg config.MQTTConfig, bus *events.EventBus) (*MQTTPublisher, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	broker, err := url.Parse(cfg.Broker)
	if err != nil || broker.Host == "" {
		return nil, fmt.Errorf("invalid MQTT broker %q: expected scheme://host:port", cfg.Broker)
	}

	sysInfo := util.GetSystemInfo()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("frontline-%s", sysInfo.Hostname)
	}
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetCleanSession(true)

	switch broker.Scheme {
	case "ssl", "tls", "mqtts", "wss":
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	p := newPublisher(nil, cfg.TopicPrefix, bus, sysInfo)

	opts.SetOnConnectHandler(func(mqtt.Client) {
		p.logger.Info().Str("broker", broker.Host).Msg("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.logger.Warn().Err(err).Msg("mqtt connection lost")
	})

	p.client = mqtt.NewClient(opts)
	return p, nil
}

func newPublisher(client mqtt.Client, prefix string, bus *events.EventBus, sysInfo util.SystemInfo) *MQTTPublisher {
	return &MQTTPublisher{
		client: client,
		prefix: strings.Trim(prefix, "/"),
		bus:    bus,
		metadata: map[string]interface{}{
			"hostname": sysInfo.Hostname,
			"os":       sysInfo.OS,
			"app":      "frontline",
		},
		logger: util.ComponentLogger("mqtt"),
	}
}

// Start connects, subscribes to the bus and blocks until ctx is cancelled,
// then announces shutdown and disconnects.
func (p *MQTTPublisher) Start(ctx context.Context) error {
	token := p.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect failed: %w", token.Error())
	}

	p.subscribeEvents()
	defer p.unsubscribeEvents()

	<-ctx.Done()

	p.PublishShutdown()
	p.client.Disconnect(disconnectQuiesce)
	p.logger.Info().Msg("mqtt disconnected")
	return nil
}

var subscriptions = []struct {
	event events.EventType
	topic string
}{
	{events.EventVipGranted, TopicVipGranted},
	{events.EventVipGrantFailed, TopicVipFailed},
	{events.EventPlayerRegistered, TopicRegistered},
	{events.EventDuplicatePlayerID, TopicDuplicate},
	{events.EventHeartbeat, TopicHeartbeat},
	{events.EventConfigChanged, TopicAdmin},
}

func (p *MQTTPublisher) subscribeEvents() {
	for _, s := range subscriptions {
		topic := s.topic
		p.bus.Subscribe(s.event, "mqtt."+topic, func(_ context.Context, e events.Event) error {
			p.publish(topic, string(e.Type), e.Payload)
			return nil
		})
	}
}

func (p *MQTTPublisher) unsubscribeEvents() {
	for _, s := range subscriptions {
		p.bus.Unsubscribe(s.event, "mqtt."+s.topic)
	}
}

// Topic returns the full topic name for suffix.
func (p *MQTTPublisher) Topic(suffix string) string {
	if p.prefix == "" {
		return suffix
	}
	return p.prefix + "/" + suffix
}

func (p *MQTTPublisher) publish(suffix, event string, payload interface{}) {
	if !p.client.IsConnected() {
		return
	}

	topic := p.Topic(suffix)
	data, err := json.Marshal(p.buildMessage(event, payload))
	if err != nil {
		p.logger.Warn().Err(err).Str("topic", topic).Msg("failed to marshal mqtt message")
		return
	}

	token := p.client.Publish(topic, publishQoS, false, data)
	go func() {
		token.Wait()
		if token.Error() != nil {
			p.logger.Warn().Err(token.Error()).Str("topic", topic).Msg("mqtt publish failed")
		}
	}()
}

func (p *MQTTPublisher) buildMessage(event string, payload interface{}) map[string]interface{} {
	msg := make(map[string]interface{}, len(p.metadata)+3)
	for k, v := range p.metadata {
		msg[k] = v
	}
	msg["event"] = event
	msg["payload"] = payload
	msg["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return msg
}

// PublishShutdown announces that the service is stopping.
func (p *MQTTPublisher) PublishShutdown() {
	p.publish(TopicAdmin, string(events.EventShutdown), nil)
}
