/*
notify.go - Change notification (push model)

PURPOSE:
  After every successful mutating operation the manager emits exactly one
  "trips updated for vehicle X" signal. Consumers (summary coordinator,
  sensor layers) re-read state on the signal; the engine never pushes
  field-level deltas and never relies on polling intervals for correctness.
*/
package trips

import "sync"

// Notifier receives one signal per committed mutation.
type Notifier interface {
	TripsUpdated(vehicleID string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(vehicleID string)

func (f NotifierFunc) TripsUpdated(vehicleID string) { f(vehicleID) }

// Dispatcher fans one signal out to any number of subscribers, synchronously.
type Dispatcher struct {
	mu   sync.RWMutex
	subs map[int]func(string)
	next int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[int]func(string))}
}

// Subscribe registers fn and returns a cancel function.
func (d *Dispatcher) Subscribe(fn func(vehicleID string)) (cancel func()) {
	d.mu.Lock()
	id := d.next
	d.next++
	d.subs[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// TripsUpdated delivers the signal to every subscriber.
func (d *Dispatcher) TripsUpdated(vehicleID string) {
	d.mu.RLock()
	fns := make([]func(string), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(vehicleID)
	}
}

var _ Notifier = (*Dispatcher)(nil)
