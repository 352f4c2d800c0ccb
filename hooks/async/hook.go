// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/depcache"
//	"github.com/unkn0wn-root/depcache/codec"
//	asynchook "github.com/unkn0wn-root/depcache/hooks/async"
//	"github.com/unkn0wn-root/depcache/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery:   10, // sample logs: ~every 10th self-heal
//	    DepChangedEvery: 1,  // log every dependency-driven miss
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cache, _ := depcache.New[User](depcache.Options[User]{
//	    Store:     store,
//	    Codec:     codec.JSON[User]{},
//	    KeyPrefix: "user",
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/depcache"
)

// Hooks decouples hook callbacks from the caller's hot path: events are
// queued and replayed on worker goroutines, and dropped when the queue is
// full rather than blocking a cache operation.
type Hooks struct {
	inner depcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ depcache.Hooks = (*Hooks)(nil)

func New(inner depcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHeal(k, r string)       { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) DependencyChanged(k string) { h.try(func() { h.inner.DependencyChanged(k) }) }
func (h *Hooks) AddSkippedExisting(k string) {
	h.try(func() { h.inner.AddSkippedExisting(k) })
}
func (h *Hooks) StoreSetRejected(k string, m bool) {
	h.try(func() { h.inner.StoreSetRejected(k, m) })
}
