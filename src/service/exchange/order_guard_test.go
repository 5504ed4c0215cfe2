package exchange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

func TestOrderGuardRegistersPendingOrder(t *testing.T) {
	assertion := assert.New(t)
	guardian := NewOrderGuardian()

	guard := guardian.AcquireGuard()
	guard.SetOrder("ETHUSDT", 100)
	guard.Enter()

	assertion.Equal([]model.OrderTag{{Symbol: "ETHUSDT", OrderId: 100}}, guardian.PendingTags())

	guard.Release()
	assertion.Empty(guardian.PendingTags())
}

func TestOrderGuardReleaseIsIdempotent(t *testing.T) {
	assertion := assert.New(t)
	guardian := NewOrderGuardian()

	guard := guardian.AcquireGuard()
	guard.SetOrder("ETHUSDT", 100)
	guard.Enter()
	guard.Release()
	guard.Release()

	assertion.Empty(guardian.PendingTags())
}

func TestOrderGuardEnterWithoutOrderPanics(t *testing.T) {
	assertion := assert.New(t)
	guardian := NewOrderGuardian()

	guard := guardian.AcquireGuard()
	defer guard.Discard()

	assertion.Panics(func() {
		guard.Enter()
	})
}

func TestOrderGuardSerializesRegistration(t *testing.T) {
	assertion := assert.New(t)
	guardian := NewOrderGuardian()

	first := guardian.AcquireGuard()

	acquired := make(chan *OrderGuard)
	go func() {
		acquired <- guardian.AcquireGuard()
	}()

	select {
	case <-acquired:
		assertion.Fail("second guard acquired while the first one was held")
	case <-time.After(50 * time.Millisecond):
	}

	first.SetOrder("ETHUSDT", 1)
	first.Enter()
	defer first.Release()

	second := <-acquired
	second.SetOrder("BNBUSDT", 2)
	second.Enter()
	defer second.Release()

	assertion.Len(guardian.PendingTags(), 2)
}

func TestOrderGuardDiscardUnblocksNextGuard(t *testing.T) {
	assertion := assert.New(t)
	guardian := NewOrderGuardian()

	guard := guardian.AcquireGuard()
	guard.Discard()

	next := guardian.AcquireGuard()
	next.SetOrder("ETHUSDT", 5)
	next.Enter()
	defer next.Release()

	assertion.Len(guardian.PendingTags(), 1)
}
