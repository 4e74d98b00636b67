// Package monitor drives the polling loop: one sequential cycle over all
// configured storefronts, diffing fetched catalogs against the persisted
// state and notifying on changes.
package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/TheAndersMadsen/shopify-monitor/internal/config"
	"github.com/TheAndersMadsen/shopify-monitor/internal/diff"
	"github.com/TheAndersMadsen/shopify-monitor/internal/logger"
	"github.com/TheAndersMadsen/shopify-monitor/internal/models"
	"github.com/TheAndersMadsen/shopify-monitor/internal/notify"
	"github.com/TheAndersMadsen/shopify-monitor/internal/repository"
)

// State - the run state of the monitor loop.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

const (
	// errorBackoff is the pause after a cycle-level failure before the
	// next attempt.
	errorBackoff = 5 * time.Second
	// restartDelay lets a stop settle before the delayed start of a restart.
	restartDelay = time.Second
)

// ProductSource fetches the current catalog for one storefront.
type ProductSource interface {
	Products(ctx context.Context, baseURL, userAgent string) ([]models.Product, error)
}

// SettingsSource provides the live configuration, re-read every cycle.
type SettingsSource interface {
	Load() *config.Settings
}

// Monitor owns the polling loop lifecycle. At most one loop goroutine runs
// at a time; Start, Stop, Restart and Status are safe to call from any
// goroutine.
type Monitor struct {
	bcast     *logger.Broadcaster
	settings  SettingsSource
	repo      repository.StateRepository
	source    ProductSource
	notifiers []notify.Notifier

	backoff    time.Duration
	startDelay time.Duration

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

func NewMonitor(
	bcast *logger.Broadcaster,
	settings SettingsSource,
	repo repository.StateRepository,
	source ProductSource,
	notifiers ...notify.Notifier,
) *Monitor {
	return &Monitor{
		bcast:      bcast,
		settings:   settings,
		repo:       repo,
		source:     source,
		notifiers:  notifiers,
		backoff:    errorBackoff,
		startDelay: restartDelay,
		state:      StateIdle,
	}
}

// Status returns the current run state.
func (m *Monitor) Status() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start launches the polling loop. Starting an already-running monitor is
// a warning, not an error, and leaves the running loop untouched.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		m.bcast.Warning("Monitor is already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.state = StateRunning
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	m.bcast.Info("Starting Shopify Monitor")

	go m.run(ctx, done)
}

// Stop requests cancellation and waits until the loop observes it. The
// loop finishes the unit of work it is on; nothing is rolled back.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return
	}
	m.state = StateStopping
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	m.bcast.Info("Stopping monitor...")
	cancel()
	<-done
}

// Restart stops the loop, waits a short fixed delay for the stop to
// settle, then starts it again. Used after configuration changes so the
// new site list and interval take effect promptly.
func (m *Monitor) Restart() {
	m.Stop()
	time.AfterFunc(m.startDelay, m.Start)
}

// run is the loop goroutine. It only exits on cancellation; every cycle
// failure is logged and followed by a backoff.
func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		m.mu.Lock()
		m.state = StateIdle
		m.mu.Unlock()
		m.bcast.Info("Monitor stopped")
	}()

	state, err := m.repo.LoadAll(ctx)
	if err != nil {
		m.bcast.Error("Database corrupted, starting fresh.")
		state = make(models.StoreState)
	}

	firstCycle := true
	for ctx.Err() == nil {
		if err = m.cycle(ctx, state, &firstCycle); err != nil {
			m.bcast.Error(fmt.Sprintf("Monitor error: %v", err))
			if !m.pause(ctx, m.backoff) {
				return
			}
			continue
		}

		// Re-read the settings so an interval edit made during the cycle
		// applies to this sleep already.
		settings := m.settings.Load()
		if !m.pause(ctx, time.Duration(settings.DelayMS)*time.Millisecond) {
			return
		}
	}
}

// cycle runs one full pass over all configured storefronts. A stop signal
// observed mid-cycle ends the pass without persisting partial progress.
func (m *Monitor) cycle(ctx context.Context, state models.StoreState, firstCycle *bool) error {
	settings := m.settings.Load()

	if *firstCycle {
		m.bcast.Info(fmt.Sprintf("Monitoring %d sites. Interval: %dms", len(settings.Sites), settings.DelayMS))
		*firstCycle = false
	}

	for _, site := range settings.Sites {
		if ctx.Err() != nil {
			return nil
		}

		if state[site] == nil {
			state[site] = make(models.SiteState)
		}

		m.bcast.Info(fmt.Sprintf("Checking %s...", site))

		products, err := m.source.Products(ctx, site, settings.UserAgent)
		if err != nil {
			// One storefront failing must not abort the cycle; the next
			// cycle is the retry.
			m.bcast.Error(fmt.Sprintf("Error fetching %s: %v", site, err))
			continue
		}

		// Cold start: a storefront with no stored snapshots before this
		// cycle gets its catalog recorded without a notification burst.
		coldStart := len(state[site]) == 0

		for _, product := range products {
			if ctx.Err() != nil {
				return nil
			}
			m.handleProduct(ctx, state, site, product, settings.WebhookURL, coldStart)
		}
	}

	if ctx.Err() != nil {
		return nil
	}

	if err := m.repo.SaveAll(ctx, state); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	return nil
}

// handleProduct diffs one fetched product against its snapshot, notifies
// on a change and writes the fresh snapshot into the in-memory state. The
// store is updated even when notification was suppressed or failed, so a
// change is never re-notified.
func (m *Monitor) handleProduct(
	ctx context.Context,
	state models.StoreState,
	site string,
	product models.Product,
	webhookURL string,
	coldStart bool,
) {
	productID := strconv.FormatInt(product.ID, 10)

	var prev *models.ProductSnapshot
	if snapshot, found := state[site][productID]; found {
		prev = &snapshot
	}

	result := diff.Classify(product, prev)

	switch result.Kind {
	case diff.KindNew:
		m.bcast.Success(fmt.Sprintf("New Product: %s", product.Title))
		if !coldStart {
			m.dispatch(ctx, notify.Event{
				Site:    site,
				Product: product,
				Kind:    models.EventNew,
				Target:  webhookURL,
			})
		}
		state[site][productID] = models.Snapshot(product)
	case diff.KindUpdate:
		m.bcast.Success(fmt.Sprintf("Update: %s - %s", product.Title, strings.Join(result.Lines, ", ")))
		m.dispatch(ctx, notify.Event{
			Site:    site,
			Product: product,
			Kind:    models.EventUpdate,
			Changes: strings.Join(result.Lines, "\n"),
			Target:  webhookURL,
		})
		state[site][productID] = models.Snapshot(product)
	case diff.KindNone:
		// Common case: nothing to do for this product.
	}
}

// dispatch fans the event out to every configured channel. Delivery is
// best-effort with one attempt; the notifiers log their own failures.
func (m *Monitor) dispatch(ctx context.Context, event notify.Event) {
	for _, notifier := range m.notifiers {
		_ = notifier.Send(ctx, event)
	}
}

// pause sleeps for the given duration, returning early (false) when the
// stop signal fires.
func (m *Monitor) pause(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
