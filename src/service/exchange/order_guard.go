package exchange

import (
	"sync"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

// OrderGuardian serializes order registration. Only one goroutine at a time
// may hold an acquired guard between AcquireGuard and Enter, which closes
// the window where an executionReport could arrive for an order the bot has
// not registered yet.
type OrderGuardian struct {
	registrationMutex sync.Mutex

	pendingMutex sync.Mutex
	pending      map[model.OrderTag]struct{}
}

func NewOrderGuardian() *OrderGuardian {
	return &OrderGuardian{
		pending: make(map[model.OrderTag]struct{}),
	}
}

// AcquireGuard blocks until the registration mutex is free and returns a
// guard bound to it. The caller must finish with exactly one of Enter or
// Discard.
func (g *OrderGuardian) AcquireGuard() *OrderGuard {
	g.registrationMutex.Lock()

	return &OrderGuard{guardian: g}
}

// PendingTags snapshots the orders currently under guard, used to reconcile
// their state after a stream reconnect.
func (g *OrderGuardian) PendingTags() []model.OrderTag {
	g.pendingMutex.Lock()
	defer g.pendingMutex.Unlock()

	tags := make([]model.OrderTag, 0, len(g.pending))
	for tag := range g.pending {
		tags = append(tags, tag)
	}

	return tags
}

func (g *OrderGuardian) addPending(tag model.OrderTag) {
	g.pendingMutex.Lock()
	defer g.pendingMutex.Unlock()

	g.pending[tag] = struct{}{}
}

func (g *OrderGuardian) removePending(tag model.OrderTag) {
	g.pendingMutex.Lock()
	defer g.pendingMutex.Unlock()

	delete(g.pending, tag)
}

// OrderGuard tracks a single order placement. Usage:
//
//	guard := guardian.AcquireGuard()
//	order, err := api.CreateOrder(params)
//	if err != nil {
//	    guard.Discard()
//	    return err
//	}
//	guard.SetOrder(order.Symbol, order.OrderId)
//	guard.Enter()
//	defer guard.Release()
type OrderGuard struct {
	guardian *OrderGuardian
	tag      model.OrderTag
	hasOrder bool
	entered  bool
	released bool
}

func (g *OrderGuard) SetOrder(symbol string, orderId int64) {
	g.tag = model.OrderTag{Symbol: symbol, OrderId: orderId}
	g.hasOrder = true
}

// Enter registers the order as pending and reopens registration for other
// goroutines. Entering without a prior SetOrder is a programming error.
func (g *OrderGuard) Enter() {
	if !g.hasOrder {
		panic("OrderGuard: Enter called before SetOrder")
	}
	if g.entered {
		panic("OrderGuard: Enter called twice")
	}

	g.entered = true
	g.guardian.addPending(g.tag)
	g.guardian.registrationMutex.Unlock()
}

// Release removes the pending registration once the order reached a
// terminal state. Safe to call multiple times via defer.
func (g *OrderGuard) Release() {
	if !g.entered || g.released {
		return
	}

	g.released = true
	g.guardian.removePending(g.tag)
}

// Discard abandons the guard on a failed placement without registering
// anything.
func (g *OrderGuard) Discard() {
	if g.entered || g.released {
		return
	}

	g.released = true
	g.guardian.registrationMutex.Unlock()
}
