package topic

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrDuplicateName is returned when a topic name is already taken in a domain.
	ErrDuplicateName = errors.New("topic name already exists")
	// ErrEmptyName is returned when creating a topic without a name.
	ErrEmptyName = errors.New("topic name is empty")
)

// Callback receives a published value. inISR reports whether the publisher
// flagged the delivery as coming from an interrupt-like context.
type Callback[T any] func(inISR bool, v T)

// Domain groups topics and keeps their names unique.
type Domain struct {
	name  string
	mu    sync.Mutex
	names map[string]struct{}
}

// NewDomain creates an empty domain.
func NewDomain(name string) *Domain {
	return &Domain{name: name, names: make(map[string]struct{})}
}

// Name returns the domain name.
func (d *Domain) Name() string { return d.name }

// Has reports whether a topic with the given name exists in the domain.
func (d *Domain) Has(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.names[name]
	return ok
}

func (d *Domain) claim(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.names[name]; ok {
		return fmt.Errorf("%s/%s: %w", d.name, name, ErrDuplicateName)
	}
	d.names[name] = struct{}{}
	return nil
}

// Topic is a named channel carrying values of type T.
type Topic[T any] struct {
	name string

	mu   sync.RWMutex
	subs []Callback[T]

	lastMu  sync.Mutex
	last    T
	hasLast bool

	published atomic.Uint64
}

// New creates a topic in the domain.
func New[T any](d *Domain, name string) (*Topic[T], error) {
	if err := d.claim(name); err != nil {
		return nil, err
	}
	return &Topic[T]{name: name}, nil
}

// Name returns the topic name.
func (t *Topic[T]) Name() string { return t.name }

// RegisterCallback adds a subscriber. It is safe to call from within a callback.
func (t *Topic[T]) RegisterCallback(cb Callback[T]) {
	if cb == nil {
		return
	}
	t.mu.Lock()
	// Copy on write so in-flight publishes keep iterating their own snapshot.
	subs := make([]Callback[T], len(t.subs), len(t.subs)+1)
	copy(subs, t.subs)
	t.subs = append(subs, cb)
	t.mu.Unlock()
}

// Publish delivers v to every subscriber synchronously.
func (t *Topic[T]) Publish(v T) { t.publish(false, v) }

// PublishFromISR is Publish with the interrupt-context flag set.
func (t *Topic[T]) PublishFromISR(v T) { t.publish(true, v) }

func (t *Topic[T]) publish(inISR bool, v T) {
	t.lastMu.Lock()
	t.last = v
	t.hasLast = true
	t.lastMu.Unlock()
	t.published.Add(1)

	t.mu.RLock()
	subs := t.subs
	t.mu.RUnlock()
	for _, cb := range subs {
		cb(inISR, v)
	}
}

// Last returns the most recently published value.
func (t *Topic[T]) Last() (T, bool) {
	t.lastMu.Lock()
	defer t.lastMu.Unlock()
	return t.last, t.hasLast
}

// Published returns the number of values published on the topic.
func (t *Topic[T]) Published() uint64 { return t.published.Load() }
