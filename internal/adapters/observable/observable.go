package observable

import (
	"fmt"
	"sync"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// Fanout is the reference Observable: listeners are invoked synchronously,
// in registration order, after every successful state change. A listener
// panic is recovered and logged; it never reaches the scheduler.
type Fanout struct {
	mu      sync.RWMutex
	next    transfer.SubscriptionID
	entries map[transfer.SubscriptionID]transfer.Listener
	order   []transfer.SubscriptionID
	monitor transfer.Monitor
}

// NewFanout creates an Observable that logs listener failures via monitor.
func NewFanout(monitor transfer.Monitor) *Fanout {
	return &Fanout{
		entries: make(map[transfer.SubscriptionID]transfer.Listener),
		monitor: monitor,
	}
}

var _ transfer.Observable = (*Fanout)(nil)

// RegisterListener appends l to the fan-out list and returns a token for
// later removal.
func (f *Fanout) RegisterListener(l transfer.Listener) transfer.SubscriptionID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := f.next
	f.entries[id] = l
	f.order = append(f.order, id)
	return id
}

// UnregisterListener removes the listener registered under id, if any.
func (f *Fanout) UnregisterListener(id transfer.SubscriptionID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[id]; !ok {
		return
	}
	delete(f.entries, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// InvokeForEach delivers event to every registered listener, in
// registration order.
func (f *Fanout) InvokeForEach(event transfer.Event) {
	f.mu.RLock()
	listeners := make([]transfer.Listener, 0, len(f.order))
	for _, id := range f.order {
		listeners = append(listeners, f.entries[id])
	}
	f.mu.RUnlock()

	for _, l := range listeners {
		f.invokeOne(l, event)
	}
}

func (f *Fanout) invokeOne(l transfer.Listener, event transfer.Event) {
	defer func() {
		if r := recover(); r != nil {
			f.monitor.Log("error", "observable listener panicked", map[string]interface{}{
				"process": event.ProcessID,
				"panic":   fmt.Sprintf("%v", r),
			})
		}
	}()
	l(event)
}
