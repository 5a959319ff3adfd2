// Package event maps integer event identifiers to registered handlers and
// raises them synchronously.
package event

import (
	"errors"
	"sync"
)

// MaxBindings is the capacity of a dispatcher's forwarding table.
const MaxBindings = 16

var (
	// ErrBindTableFull is returned when a dispatcher has no free forwarding slot.
	ErrBindTableFull = errors.New("event bind table full")
	// ErrSelfBind is returned when an event would be forwarded to itself.
	ErrSelfBind = errors.New("event bound to itself")
	// ErrBindCycle is returned when a binding would close a forwarding loop.
	ErrBindCycle = errors.New("event binding forms a cycle")
)

// maxForwardDepth bounds a forwarding chain raised from one Active call.
const maxForwardDepth = MaxBindings

// Handler is invoked when a registered event is raised.
type Handler func(inISR bool, id uint32)

type binding struct {
	srcID  uint32
	dstID  uint32
	target *Dispatcher
}

// Dispatcher holds the handlers registered per event id.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[uint32][]Handler
	binds    [MaxBindings]binding
	nbinds   int
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[uint32][]Handler)}
}

// Register adds h to the handlers of id.
func (d *Dispatcher) Register(id uint32, h Handler) {
	if h == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = make(map[uint32][]Handler)
	}
	cur := d.handlers[id]
	next := make([]Handler, len(cur), len(cur)+1)
	copy(next, cur)
	d.handlers[id] = append(next, h)
}

// Active raises id on every handler registered for it, then on every bound
// target event.
func (d *Dispatcher) Active(id uint32) { d.active(false, id, 0) }

// ActiveFromISR is Active with the interrupt-context flag set.
func (d *Dispatcher) ActiveFromISR(id uint32) { d.active(true, id, 0) }

func (d *Dispatcher) active(inISR bool, id uint32, depth int) {
	d.mu.RLock()
	hs := d.handlers[id]
	var fwd [MaxBindings]binding
	n := 0
	for i := 0; i < d.nbinds; i++ {
		if d.binds[i].srcID == id {
			fwd[n] = d.binds[i]
			n++
		}
	}
	d.mu.RUnlock()

	for _, h := range hs {
		h(inISR, id)
	}
	if depth >= maxForwardDepth {
		return
	}
	for i := 0; i < n; i++ {
		fwd[i].target.active(inISR, fwd[i].dstID, depth+1)
	}
}

// Bind forwards srcID raised on src to dstID on d. The mapping lives in a
// fixed table owned by src. A binding that would let dstID on d reach srcID
// on src again is rejected.
func (d *Dispatcher) Bind(src *Dispatcher, srcID, dstID uint32) error {
	if src == d && srcID == dstID {
		return ErrSelfBind
	}
	if reaches(d, dstID, src, srcID) {
		return ErrBindCycle
	}
	src.mu.Lock()
	defer src.mu.Unlock()
	if src.nbinds == MaxBindings {
		return ErrBindTableFull
	}
	src.binds[src.nbinds] = binding{srcID: srcID, dstID: dstID, target: d}
	src.nbinds++
	return nil
}

// Registered reports the number of handlers for id.
func (d *Dispatcher) Registered(id uint32) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[id])
}

type node struct {
	d  *Dispatcher
	id uint32
}

// reaches reports whether raising fromID on from forwards, directly or
// through other bindings, to toID on to.
func reaches(from *Dispatcher, fromID uint32, to *Dispatcher, toID uint32) bool {
	seen := make(map[node]bool)
	stack := []node{{from, fromID}}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.d == to && n.id == toID {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		n.d.mu.RLock()
		for i := 0; i < n.d.nbinds; i++ {
			if b := n.d.binds[i]; b.srcID == n.id {
				stack = append(stack, node{b.target, b.dstID})
			}
		}
		n.d.mu.RUnlock()
	}
	return false
}
