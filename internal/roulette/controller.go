package roulette

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dinnerroulette/internal/random"
	"github.com/cory-johannsen/dinnerroulette/internal/storage"
)

// Default timings of a roll.
const (
	DefaultSpinDuration  = 2000 * time.Millisecond
	DefaultCycleInterval = 100 * time.Millisecond
)

var (
	// ErrRollInProgress is returned by Roll while a roll is already animating.
	ErrRollInProgress = errors.New("roulette: roll already in progress")
	// ErrClosed is returned by Roll after Close.
	ErrClosed = errors.New("roulette: controller closed")
)

// State is the picker's state machine position.
type State int

const (
	// StateIdle shows the last result (if any) and accepts a roll.
	StateIdle State = iota
	// StateRolling cycles through the pool until the spin duration elapses.
	StateRolling
)

// String returns "idle" or "rolling".
func (s State) String() string {
	if s == StateRolling {
		return "rolling"
	}
	return "idle"
}

// Snapshot is an immutable view of the controller after a state change.
type Snapshot struct {
	State State
	// Selected is the current result; empty while rolling or before any roll.
	Selected string
	// Pool is the set of options eligible in the current or last roll.
	Pool []string
	// CycleIndex is the animation cursor into Pool.
	CycleIndex int
	// RollID identifies the current or last roll; uuid.Nil before the first roll.
	RollID uuid.UUID
}

// HasSelection reports whether a result is being displayed.
func (s Snapshot) HasSelection() bool { return s.Selected != "" }

// Cycling returns the option shown by the rolling animation.
func (s Snapshot) Cycling() string {
	if len(s.Pool) == 0 {
		return ""
	}
	return s.Pool[s.CycleIndex%len(s.Pool)]
}

// TriggerEnabled reports whether the roll trigger should accept input.
func (s Snapshot) TriggerEnabled() bool { return s.State == StateIdle }

// Config holds the controller's dependencies and timings.
type Config struct {
	// Menu overrides the fixed option set; nil uses Menu().
	Menu          []string
	SpinDuration  time.Duration
	CycleInterval time.Duration
	Store         storage.Store
	Source        random.Source
	Logger        *zap.Logger
}

// roll is the state owned by one Idle→Rolling→Idle cycle. The pool is captured
// at roll start and never re-read from shared state.
type roll struct {
	id   uuid.UUID
	pool []string
	last string
}

// Controller is the dinner picker state machine.
//
// Controller is safe for concurrent use.
type Controller struct {
	menu   []string
	spin   time.Duration
	cycle  time.Duration
	store  storage.Store
	src    random.Source
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State
	selected    string
	pool        []string
	cycleIndex  int
	rollID      uuid.UUID
	closed      bool
	subscribers map[chan<- Snapshot]struct{}
}

// NewController creates an Idle controller with no selection.
//
// Precondition: cfg.Store, cfg.Source and cfg.Logger must be non-nil.
// Postcondition: Returns an Idle controller; zero timings are replaced by the defaults.
func NewController(cfg Config) *Controller {
	m := cfg.Menu
	if m == nil {
		m = Menu()
	}
	spin := cfg.SpinDuration
	if spin <= 0 {
		spin = DefaultSpinDuration
	}
	cycle := cfg.CycleInterval
	if cycle <= 0 {
		cycle = DefaultCycleInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		menu:        slices.Clone(m),
		spin:        spin,
		cycle:       cycle,
		store:       cfg.Store,
		src:         cfg.Source,
		logger:      cfg.Logger,
		ctx:         ctx,
		cancel:      cancel,
		state:       StateIdle,
		pool:        slices.Clone(m),
		subscribers: make(map[chan<- Snapshot]struct{}),
	}
}

// lastChoice reads the persisted last choice. Values that are not on the menu
// are treated as absent.
func (c *Controller) lastChoice(ctx context.Context) string {
	v, ok, err := c.store.Get(ctx, storage.LastPickedKey)
	if err != nil {
		c.logger.Warn("reading last choice failed",
			zap.String("key", storage.LastPickedKey),
			zap.Error(err),
		)
		return ""
	}
	if !ok {
		return ""
	}
	if !OnMenu(c.menu, v) {
		c.logger.Warn("ignoring stored choice not on the menu",
			zap.String("key", storage.LastPickedKey),
			zap.String("value", v),
		)
		return ""
	}
	return v
}

// Restore displays the persisted last choice, if any, without rolling.
//
// Postcondition: State is unchanged; Selected holds the stored value when it
// is on the menu.
func (c *Controller) Restore(ctx context.Context) {
	last := c.lastChoice(ctx)
	if last == "" {
		return
	}

	c.mu.Lock()
	if c.closed || c.state == StateRolling {
		c.mu.Unlock()
		return
	}
	c.selected = last
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("restored last choice", zap.String("dinner", last))
	c.publish(snap)
}

// Roll starts a roll. The result is observed through Snapshot and Subscribe.
//
// Precondition: ctx bounds the read of the last choice only.
// Postcondition: On nil error the controller is Rolling and will return to
// Idle with a new selection after the spin duration. A call while Rolling
// returns ErrRollInProgress and changes nothing.
func (c *Controller) Roll(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StateRolling {
		c.mu.Unlock()
		return ErrRollInProgress
	}
	// Claim the state before the store read so a concurrent Roll is rejected.
	c.state = StateRolling
	c.selected = ""
	c.mu.Unlock()

	last := c.lastChoice(ctx)
	pool, excluded := Available(c.menu, last)
	if !excluded && last != "" {
		c.logger.Debug("exclusion skipped",
			zap.String("last", last),
			zap.Error(ErrEmptyPool),
		)
	}
	r := &roll{id: uuid.New(), pool: pool, last: last}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pool = r.pool
	c.cycleIndex = 0
	c.rollID = r.id
	snap := c.snapshotLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Info("roll started",
		zap.Stringer("roll_id", r.id),
		zap.String("excluded", last),
		zap.Strings("pool", r.pool),
	)
	c.publish(snap)

	go c.run(r)
	return nil
}

// run drives one roll: a cycle ticker until the spin timer fires.
func (c *Controller) run(r *roll) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cycle)
	defer ticker.Stop()
	timer := time.NewTimer(c.spin)
	defer timer.Stop()

	for {
		select {
		case <-ticker.C:
			c.advance(r)
		case <-timer.C:
			c.finish(r)
			return
		case <-c.ctx.Done():
			c.logger.Debug("roll cancelled", zap.Stringer("roll_id", r.id))
			return
		}
	}
}

func (c *Controller) advance(r *roll) {
	c.mu.Lock()
	if c.closed || c.rollID != r.id || len(r.pool) == 0 {
		c.mu.Unlock()
		return
	}
	c.cycleIndex = (c.cycleIndex + 1) % len(r.pool)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
}

func (c *Controller) finish(r *roll) {
	choice, err := Pick(r.pool, c.src)
	if err != nil {
		// Available never yields an empty pool for a non-empty menu.
		c.logger.Error("roll produced no choice", zap.Stringer("roll_id", r.id), zap.Error(err))
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.state = StateIdle
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(snap)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.store.Set(c.ctx, storage.LastPickedKey, choice); err != nil {
		c.logger.Warn("persisting choice failed",
			zap.Stringer("roll_id", r.id),
			zap.String("dinner", choice),
			zap.Error(err),
		)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.selected = choice
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("roll finished",
		zap.Stringer("roll_id", r.id),
		zap.String("dinner", choice),
	)
	c.publish(snap)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// TriggerEnabled reports whether a Roll would currently be accepted.
func (c *Controller) TriggerEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateIdle && !c.closed
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:      c.state,
		Selected:   c.selected,
		Pool:       slices.Clone(c.pool),
		CycleIndex: c.cycleIndex,
		RollID:     c.rollID,
	}
}

// Subscribe registers ch to receive a Snapshot after every state change.
// If ch is full, the snapshot is dropped for that subscriber (non-blocking).
//
// Precondition: ch must not be nil.
func (c *Controller) Subscribe(ch chan<- Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers[ch] = struct{}{}
}

// Unsubscribe removes ch from the subscriber list.
func (c *Controller) Unsubscribe(ch chan<- Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscribers, ch)
}

func (c *Controller) publish(snap Snapshot) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	subs := make([]chan<- Snapshot, 0, len(c.subscribers))
	for ch := range c.subscribers {
		subs = append(subs, ch)
	}
	c.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close cancels any in-flight roll and waits for its goroutine to exit.
// Calling Close more than once is safe.
//
// Postcondition: No state change, store write, or snapshot delivery happens
// after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.subscribers = make(map[chan<- Snapshot]struct{})
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
