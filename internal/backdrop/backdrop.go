// Package backdrop animates the decorative floating labels behind the picker.
// It has no interaction with the picker's state.
package backdrop

import (
	"slices"
	"sync"
	"time"

	"github.com/cory-johannsen/dinnerroulette/internal/random"
)

// DefaultInterval is how often labels are repositioned.
const DefaultInterval = 5000 * time.Millisecond

// Position places one label. X and Y are percentages of the container in
// [0, 100); Rotation is in degrees in [0, 360).
type Position struct {
	X        float64
	Y        float64
	Rotation float64
}

// Generate draws an independent Position for each label.
//
// Postcondition: len(result) == len(labels); every coordinate is within its bound.
func Generate(labels []string, src random.Source) []Position {
	out := make([]Position, len(labels))
	for i := range labels {
		out[i] = Position{
			X:        src.Float64() * 100,
			Y:        src.Float64() * 100,
			Rotation: src.Float64() * 360,
		}
	}
	return out
}

// Decoration regenerates label positions on a fixed interval and broadcasts
// each new layout to subscribers.
type Decoration struct {
	labels   []string
	src      random.Source
	interval time.Duration

	mu          sync.Mutex
	positions   []Position
	generation  int
	subscribers map[chan<- []Position]struct{}
}

// NewDecoration creates a stopped Decoration with an initial layout already
// generated.
//
// Precondition: src must be non-nil; interval > 0.
func NewDecoration(labels []string, src random.Source, interval time.Duration) *Decoration {
	d := &Decoration{
		labels:      slices.Clone(labels),
		src:         src,
		interval:    interval,
		subscribers: make(map[chan<- []Position]struct{}),
	}
	d.positions = Generate(d.labels, d.src)
	return d
}

// Labels returns the decorated labels in position order.
func (d *Decoration) Labels() []string {
	return slices.Clone(d.labels)
}

// Current returns the latest layout.
func (d *Decoration) Current() []Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.positions)
}

// Generation counts regenerations since construction.
func (d *Decoration) Generation() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Subscribe registers ch to receive each new layout.
// If ch is full, the layout is dropped for that subscriber (non-blocking).
//
// Precondition: ch must not be nil.
func (d *Decoration) Subscribe(ch chan<- []Position) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[ch] = struct{}{}
}

// Unsubscribe removes ch from the subscriber list.
func (d *Decoration) Unsubscribe(ch chan<- []Position) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subscribers, ch)
}

// Start launches the regeneration goroutine and returns a stop function.
// Calling stop() is idempotent and waits for the goroutine to exit.
//
// Postcondition: Positions are regenerated every interval until stop() is called.
func (d *Decoration) Start() (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	var once sync.Once
	go func() {
		defer close(exited)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.regenerate()
			case <-done:
				return
			}
		}
	}()
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}

func (d *Decoration) regenerate() {
	next := Generate(d.labels, d.src)

	d.mu.Lock()
	d.positions = next
	d.generation++
	subs := make([]chan<- []Position, 0, len(d.subscribers))
	for ch := range d.subscribers {
		subs = append(subs, ch)
	}
	d.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- slices.Clone(next):
		default:
		}
	}
}
