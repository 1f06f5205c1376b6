// Package settings provides the key-value configuration store the engine
// reads and writes, with per-key change notification and batched writes.
package settings

import (
	"log/slog"
	"sync"
)

// Subscription identifies one registered change callback.
type Subscription uint64

// ChangeFunc is invoked with the key that changed. Callbacks run on the
// goroutine that performed the write (or the commit, for batched writes).
type ChangeFunc func(key string)

// Store is the engine-facing configuration surface. Typed getters never
// fail: a missing key or an unavailable backend yields the registered
// default for that key.
type Store interface {
	GetBool(key string) bool
	GetInt(key string) int
	GetDouble(key string) float64
	GetString(key string) string

	SetBool(key string, v bool)
	SetInt(key string, v int)
	SetDouble(key string, v float64)
	SetString(key string, v string)

	Subscribe(key string, fn ChangeFunc) Subscription
	Unsubscribe(sub Subscription)

	// BeginBatch suppresses change notification until CommitBatch, which
	// dispatches one notification per distinct key written in the batch.
	BeginBatch()
	CommitBatch()
}

// notifier implements the subscription and batch bookkeeping shared by the
// memory and sqlite stores.
type notifier struct {
	mu      sync.Mutex
	nextSub Subscription
	subs    map[string]map[Subscription]ChangeFunc
	subKey  map[Subscription]string

	batching bool
	pending  map[string]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		subs:   make(map[string]map[Subscription]ChangeFunc),
		subKey: make(map[Subscription]string),
	}
}

func (n *notifier) subscribe(key string, fn ChangeFunc) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextSub++
	sub := n.nextSub
	if n.subs[key] == nil {
		n.subs[key] = make(map[Subscription]ChangeFunc)
	}
	n.subs[key][sub] = fn
	n.subKey[sub] = key
	return sub
}

func (n *notifier) unsubscribe(sub Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	key, ok := n.subKey[sub]
	if !ok {
		return
	}
	delete(n.subKey, sub)
	delete(n.subs[key], sub)
	if len(n.subs[key]) == 0 {
		delete(n.subs, key)
	}
}

func (n *notifier) begin() {
	n.mu.Lock()
	n.batching = true
	n.pending = make(map[string]struct{})
	n.mu.Unlock()
}

func (n *notifier) commit() {
	n.mu.Lock()
	keys := n.pending
	n.batching = false
	n.pending = nil
	n.mu.Unlock()
	for key := range keys {
		n.notify(key)
	}
}

// changed records a write; outside a batch it dispatches immediately.
func (n *notifier) changed(key string) {
	n.mu.Lock()
	if n.batching {
		n.pending[key] = struct{}{}
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()
	n.notify(key)
}

// notify calls subscribers without holding the lock, so a callback may
// subscribe, unsubscribe, or write settings itself.
func (n *notifier) notify(key string) {
	n.mu.Lock()
	fns := make([]ChangeFunc, 0, len(n.subs[key]))
	for _, fn := range n.subs[key] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}

func defaultBool(key string) bool {
	if v, ok := Defaults[key].(bool); ok {
		return v
	}
	return false
}

func defaultInt(key string) int {
	if v, ok := Defaults[key].(int); ok {
		return v
	}
	return 0
}

func defaultDouble(key string) float64 {
	switch v := Defaults[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func defaultString(key string) string {
	if v, ok := Defaults[key].(string); ok {
		return v
	}
	return ""
}

func logFallback(logger *slog.Logger, key string, err error) {
	if logger != nil {
		logger.Warn("settings read failed, using default", "key", key, "err", err)
	}
}
