package logger_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/TheAndersMadsen/shopify-monitor/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBroadcaster() *logger.Broadcaster {
	return logger.NewBroadcaster(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBroadcaster_Subscribe(t *testing.T) {
	bcast := newBroadcaster()

	events, unsubscribe := bcast.Subscribe(4)
	defer unsubscribe()

	bcast.Info("Checking https://kith.com...")
	bcast.Success("Sent webhook for Oxford Shirt")
	bcast.Warning("Monitor is already running")
	bcast.Error("Monitor error: boom")

	levels := []logger.Level{
		logger.LevelInfo,
		logger.LevelSuccess,
		logger.LevelWarning,
		logger.LevelError,
	}
	for _, expected := range levels {
		event := <-events
		assert.Equal(t, expected, event.Level)
		assert.NotEmpty(t, event.Message)
		assert.False(t, event.Timestamp.IsZero())
	}
}

// TestBroadcaster_SlowListener verifies that a full subscriber buffer never
// blocks the publisher; overflow events are dropped.
func TestBroadcaster_SlowListener(t *testing.T) {
	bcast := newBroadcaster()

	events, unsubscribe := bcast.Subscribe(1)
	defer unsubscribe()

	bcast.Info("first")
	bcast.Info("second") // buffer full, must not block

	event := <-events
	assert.Equal(t, "first", event.Message)

	select {
	case extra, open := <-events:
		require.False(t, open, "unexpected buffered event: %v", extra)
	default:
		// dropped as expected
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	bcast := newBroadcaster()

	events, unsubscribe := bcast.Subscribe(1)
	unsubscribe()

	// Publishing after unsubscribe must not panic on the closed channel.
	bcast.Info("after unsubscribe")

	_, open := <-events
	assert.False(t, open, "channel should be closed after unsubscribe")

	// Unsubscribing twice is safe.
	unsubscribe()
}
