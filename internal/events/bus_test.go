package events

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitReachesEverySubscriber(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop()

	var calls atomic.Int32
	for _, name := range []string{"a", "b"} {
		bus.Subscribe(EventVipGranted, name, func(ctx context.Context, e Event) error {
			payload, ok := e.Payload.(VipGrantPayload)
			require.True(t, ok)
			assert.Equal(t, "76561198", payload.PlayerID)
			calls.Add(1)
			return nil
		})
	}

	bus.Emit(context.Background(), Event{Type: EventVipGranted, Payload: VipGrantPayload{PlayerID: "76561198"}})
	bus.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmitSurvivesCancelledContext(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop()

	var seen atomic.Bool
	bus.Subscribe(EventVipGranted, "ctx", func(ctx context.Context, e Event) error {
		seen.Store(ctx.Err() == nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Emit(ctx, Event{Type: EventVipGranted})
	bus.Wait()
	assert.True(t, seen.Load())
}

func TestPanickingHandlerIsContained(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop()

	var after atomic.Bool
	bus.Subscribe(EventHeartbeat, "panics", func(context.Context, Event) error { panic("nope") })
	bus.Subscribe(EventHeartbeat, "ok", func(context.Context, Event) error {
		after.Store(true)
		return nil
	})

	bus.Emit(context.Background(), Event{Type: EventHeartbeat})
	bus.Wait()
	assert.True(t, after.Load())
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop()

	bus.Subscribe(EventShutdown, "one", func(context.Context, Event) error { return nil })
	bus.Subscribe(EventShutdown, "two", func(context.Context, Event) error { return nil })
	bus.Unsubscribe(EventShutdown, "one")
	assert.Equal(t, 1, bus.HandlerCount(EventShutdown))
}

func TestStoppedBusDropsEvents(t *testing.T) {
	bus := NewEventBus()

	var calls atomic.Int32
	bus.Subscribe(EventVipGrantFailed, "count", func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})

	bus.Stop()
	bus.Stop()
	bus.Emit(context.Background(), Event{Type: EventVipGrantFailed})
	bus.Wait()
	assert.Zero(t, calls.Load())
}

func TestGrantChannelJSON(t *testing.T) {
	b, err := ChannelRcon.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"rcon"`, string(b))
	assert.Equal(t, "none", GrantChannel(42).String())
}
