// Package logger provides the severity-tagged status line broadcast the
// monitor emits for human-facing surfaces. Every event is written to the
// structured logger and fanned out to any subscribed listeners without
// ever blocking the caller.
package logger

import (
	"log/slog"
	"sync"
	"time"
)

// Level - severity of a broadcast status line.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is one broadcast status line.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     Level     `json:"type"`
}

// Broadcaster fans status lines out to an open set of listeners. It has no
// knowledge of listener lifecycle beyond the unsubscribe function handed
// out by Subscribe.
type Broadcaster struct {
	log *slog.Logger

	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

func NewBroadcaster(log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		log:         log,
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a listener and returns its event channel together
// with an unsubscribe function. Events are dropped, not queued, when the
// listener falls behind the buffer.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	events := make(chan Event, buffer)

	b.mu.Lock()
	b.subscribers[events] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, found := b.subscribers[events]; found {
			delete(b.subscribers, events)
			close(events)
		}
	}

	return events, unsubscribe
}

// Info broadcasts an informational status line.
func (b *Broadcaster) Info(message string) { b.publish(LevelInfo, message) }

// Success broadcasts a status line for a completed action.
func (b *Broadcaster) Success(message string) { b.publish(LevelSuccess, message) }

// Warning broadcasts a status line for a condition worth attention.
func (b *Broadcaster) Warning(message string) { b.publish(LevelWarning, message) }

// Error broadcasts a status line for a failure.
func (b *Broadcaster) Error(message string) { b.publish(LevelError, message) }

func (b *Broadcaster) publish(level Level, message string) {
	switch level {
	case LevelWarning:
		b.log.Warn(message)
	case LevelError:
		b.log.Error(message)
	default:
		b.log.Info(message, "level", string(level))
	}

	event := Event{Timestamp: time.Now().UTC(), Message: message, Level: level}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for subscriber := range b.subscribers {
		select {
		case subscriber <- event:
		default: // slow listener, drop rather than stall the monitor
		}
	}
}
