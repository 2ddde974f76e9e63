package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"vliz-backend/internal/logstore"
	"vliz-backend/internal/model"
	"vliz-backend/internal/state"
)

// Notifier receives the sync engine's side effects. NewMessages fires at
// most once per poll tick per channel, never once per message.
type Notifier interface {
	NewMessages(channel model.Channel, count int)
	MaintenanceChanged(enabled bool)
}

// Engine polls the shared log on a fixed interval, scans the unseen suffix
// for control commands and raises channel notifications.
//
// All per-viewer state lives in the injected ClientState; the cursor
// (count of records already scanned for commands) survives restarts so an
// old maintenance command never re-fires.
type Engine struct {
	store    logstore.Store
	state    *state.ClientState
	notify   Notifier
	interval time.Duration

	mu            sync.Mutex
	activeChannel model.Channel
	prevSupport   int
	prevPublic    int
}

func NewEngine(store logstore.Store, st *state.ClientState, notify Notifier, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Engine{
		store:         store,
		state:         st,
		notify:        notify,
		interval:      interval,
		activeChannel: model.ChannelSupport,
	}
}

// SetActiveChannel records which channel the viewer is looking at; new
// message notifications fire only for that channel.
func (e *Engine) SetActiveChannel(ch model.Channel) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeChannel = ch
}

// Run polls until ctx is cancelled. Ticks execute on this goroutine one at
// a time: a slow fetch delays the next tick, it never overlaps it, and the
// ticker drops missed ticks rather than queueing them.
func (e *Engine) Run(ctx context.Context) {
	e.Tick(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Tick performs one poll cycle. Fetch failures are logged and otherwise
// ignored; the last-known-good view stands until the next tick.
func (e *Engine) Tick(ctx context.Context) {
	records, err := e.store.GetAll(ctx)
	if err != nil {
		log.Printf("[sync] fetch failed: %v", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cursor := e.state.LastProcessedCount()
	if len(records) < cursor {
		// Log was cleared or truncated externally. Resynchronize without
		// firing notifications or replaying commands.
		if err := e.state.SetLastProcessedCount(len(records)); err != nil {
			log.Printf("[sync] persist cursor: %v", err)
		}
		e.prevSupport, e.prevPublic = 0, 0
		return
	}

	cls := Classify(records)

	if e.applyCommands(cls.Commands, cursor) {
		// A maintenance transition forces a view reload; channel counts
		// restart with it, so skip notification bookkeeping this tick.
		e.advanceCursor(len(records))
		e.prevSupport, e.prevPublic = len(cls.Support), len(cls.Public)
		return
	}
	e.advanceCursor(len(records))

	e.raise(model.ChannelSupport, e.prevSupport, len(cls.Support))
	e.raise(model.ChannelPublic, e.prevPublic, len(cls.Public))
	e.prevSupport, e.prevPublic = len(cls.Support), len(cls.Public)
}

// applyCommands scans commands in the unseen suffix. At most one
// transition fires per tick; the first match in log order wins and the
// rest of the batch is dropped (the cursor still advances past it).
func (e *Engine) applyCommands(commands []model.Command, cursor int) bool {
	for _, cmd := range commands {
		if cmd.Index < cursor {
			continue
		}
		switch cmd.Text {
		case CommandMaintenanceOn:
			e.transition(true)
			return true
		case CommandMaintenanceOff:
			e.transition(false)
			return true
		}
	}
	return false
}

func (e *Engine) transition(enabled bool) {
	if err := e.state.SetMaintenance(enabled); err != nil {
		log.Printf("[sync] persist maintenance flag: %v", err)
	}
	log.Printf("[sync] maintenance mode: %v", enabled)
	e.notify.MaintenanceChanged(enabled)
}

// raise fires one notification when a channel grew. The prev>0 guard
// suppresses the storm that would otherwise fire when the whole history
// streams in on first load.
func (e *Engine) raise(ch model.Channel, prev, now int) {
	if now <= prev || prev == 0 {
		return
	}
	if e.activeChannel != ch {
		return
	}
	if !e.state.SoundEnabled() {
		return
	}
	e.notify.NewMessages(ch, now-prev)
}

func (e *Engine) advanceCursor(n int) {
	if err := e.state.SetLastProcessedCount(n); err != nil {
		log.Printf("[sync] persist cursor: %v", err)
	}
}
