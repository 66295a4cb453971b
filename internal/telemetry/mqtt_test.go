package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontline-pass/frontline/internal/config"
	"github.com/frontline-pass/frontline/internal/events"
	"github.com/frontline-pass/frontline/internal/util"
)

type doneToken struct{ err error }

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Error() error                   { return t.err }
func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic   string
	payload []byte
}

// fakeClient records publishes. Methods the publisher never calls are left
// to the embedded nil interface.
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	connected    bool
	connectErr   error
	published    []message
	disconnected bool
}

func (c *fakeClient) Connect() mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = c.connectErr == nil
	return &doneToken{err: c.connectErr}
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, message{topic: topic, payload: payload.([]byte)})
	return &doneToken{}
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.disconnected = true
}

func (c *fakeClient) messages() []message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]message(nil), c.published...)
}

func TestNewMQTTPublisherDisabled(t *testing.T) {
	_, err := NewMQTTPublisher(config.MQTTConfig{}, events.NewEventBus())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewMQTTPublisherRejectsBareHost(t *testing.T) {
	_, err := NewMQTTPublisher(config.MQTTConfig{Broker: "broker.local"}, events.NewEventBus())
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	p := newPublisher(&fakeClient{}, "/frontline/", nil, util.SystemInfo{})
	assert.Equal(t, "frontline/vip/granted", p.Topic(TopicVipGranted))

	p = newPublisher(&fakeClient{}, "", nil, util.SystemInfo{})
	assert.Equal(t, "admin", p.Topic(TopicAdmin))
}

func TestPublisherForwardsEvents(t *testing.T) {
	client := &fakeClient{}
	bus := events.NewEventBus()
	defer bus.Stop()

	p := newPublisher(client, "frontline", bus, util.SystemInfo{Hostname: "node-1"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Start(ctx) }()

	require.Eventually(t, func() bool {
		return bus.HandlerCount(events.EventVipGranted) == 1
	}, time.Second, 5*time.Millisecond)

	bus.Emit(ctx, events.Event{Type: events.EventVipGranted, Payload: events.VipGrantPayload{
		RequestID: "req-1",
		PlayerID:  "7656",
		Channel:   events.ChannelRcon,
	}})
	bus.Emit(ctx, events.Event{Type: events.EventDuplicatePlayerID, Payload: events.DuplicatePlayerPayload{
		UserID: "u2", PlayerID: "7656", ExistingOwner: "u1",
	}})
	bus.Wait()

	cancel()
	require.NoError(t, <-done)

	msgs := client.messages()
	require.Len(t, msgs, 3)

	byTopic := map[string]map[string]any{}
	for _, m := range msgs {
		var body map[string]any
		require.NoError(t, json.Unmarshal(m.payload, &body))
		byTopic[m.topic] = body
	}

	granted := byTopic["frontline/vip/granted"]
	require.NotNil(t, granted)
	assert.Equal(t, "node-1", granted["hostname"])
	assert.Equal(t, "vip_granted", granted["event"])
	assert.Equal(t, "rcon", granted["payload"].(map[string]any)["channel"])

	dup := byTopic["frontline/moderation/duplicate"]
	require.NotNil(t, dup)
	assert.Equal(t, "u1", dup["payload"].(map[string]any)["existing_owner"])

	assert.Equal(t, "shutdown", byTopic["frontline/admin"]["event"])
	assert.True(t, client.disconnected)
	assert.Zero(t, bus.HandlerCount(events.EventVipGranted))
}

func TestPublisherSkipsWhenDisconnected(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, "x", nil, util.SystemInfo{})
	p.publish(TopicHeartbeat, "heartbeat", nil)
	assert.Empty(t, client.messages())
}

func TestStartConnectFailure(t *testing.T) {
	client := &fakeClient{connectErr: errors.New("connection refused")}
	p := newPublisher(client, "x", events.NewEventBus(), util.SystemInfo{})
	err := p.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
