package exchange

import (
	"sync"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

// ExchangeCache holds the stream-synchronized view of the exchange: last
// ticker prices, free balances and order states. Entries are never evicted
// by age. Prices of symbols that stop trading keep their last value, while
// balances are invalidated explicitly whenever a balance-changing event
// starts.
//
// The balance map is the only clear-then-refill structure, so every balance
// access goes through a single mutex via WithBalances. Ticker and order
// maps are keyed upserts and tolerate interleaved readers.
type ExchangeCache struct {
	tickerMutex sync.RWMutex
	tickers     map[string]float64

	orderMutex sync.RWMutex
	orders     map[int64]model.BinanceOrder

	balanceMutex sync.Mutex
	balances     map[string]float64

	nonExistentMutex   sync.RWMutex
	nonExistentTickers map[string]bool
}

func NewExchangeCache() *ExchangeCache {
	return &ExchangeCache{
		tickers:            make(map[string]float64),
		orders:             make(map[int64]model.BinanceOrder),
		balances:           make(map[string]float64),
		nonExistentTickers: make(map[string]bool),
	}
}

func (e *ExchangeCache) GetTicker(symbol string) (float64, bool) {
	e.tickerMutex.RLock()
	defer e.tickerMutex.RUnlock()

	price, ok := e.tickers[symbol]

	return price, ok
}

func (e *ExchangeCache) SetTicker(symbol string, price float64) {
	e.tickerMutex.Lock()
	defer e.tickerMutex.Unlock()

	e.tickers[symbol] = price
}

func (e *ExchangeCache) SetTickers(prices []model.WSTickerPrice) {
	e.tickerMutex.Lock()
	defer e.tickerMutex.Unlock()

	for _, ticker := range prices {
		e.tickers[ticker.Symbol] = ticker.Price
	}
}

func (e *ExchangeCache) GetOrder(orderId int64) *model.BinanceOrder {
	e.orderMutex.RLock()
	defer e.orderMutex.RUnlock()

	order, ok := e.orders[orderId]
	if !ok {
		return nil
	}

	return &order
}

func (e *ExchangeCache) UpsertOrder(order model.BinanceOrder) {
	e.orderMutex.Lock()
	defer e.orderMutex.Unlock()

	e.orders[order.OrderId] = order
}

// WithBalances runs fn while holding the balance lock. A clear-then-refill
// sequence must happen entirely inside one call: a reader observing a
// cleared but not yet refilled map would see a zero balance and misprice a
// trade.
func (e *ExchangeCache) WithBalances(fn func(balances map[string]float64)) {
	e.balanceMutex.Lock()
	defer e.balanceMutex.Unlock()

	fn(e.balances)
}

func (e *ExchangeCache) GetBalance(asset string) (float64, bool) {
	var amount float64
	var ok bool

	e.WithBalances(func(balances map[string]float64) {
		amount, ok = balances[asset]
	})

	return amount, ok
}

func (e *ExchangeCache) SetBalance(asset string, amount float64) {
	e.WithBalances(func(balances map[string]float64) {
		balances[asset] = amount
	})
}

func (e *ExchangeCache) InvalidateBalance(asset string) {
	e.WithBalances(func(balances map[string]float64) {
		delete(balances, asset)
	})
}

func (e *ExchangeCache) ClearBalances() {
	e.WithBalances(func(balances map[string]float64) {
		for asset := range balances {
			delete(balances, asset)
		}
	})
}

// ReplaceBalances atomically swaps the whole balance view for a fresh
// account snapshot.
func (e *ExchangeCache) ReplaceBalances(snapshot map[string]float64) {
	e.WithBalances(func(balances map[string]float64) {
		for asset := range balances {
			delete(balances, asset)
		}
		for asset, amount := range snapshot {
			balances[asset] = amount
		}
	})
}

// MarkTickerNonExistent remembers a symbol confirmed absent from the
// exchange so it is never refetched.
func (e *ExchangeCache) MarkTickerNonExistent(symbol string) {
	e.nonExistentMutex.Lock()
	defer e.nonExistentMutex.Unlock()

	e.nonExistentTickers[symbol] = true
}

func (e *ExchangeCache) IsTickerNonExistent(symbol string) bool {
	e.nonExistentMutex.RLock()
	defer e.nonExistentMutex.RUnlock()

	return e.nonExistentTickers[symbol]
}
