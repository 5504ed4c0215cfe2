package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

func newPaperBackend() (*PaperOrderBalanceManager, *ExchangeManagerMock, *TimeServiceMock) {
	exchangeManager := new(ExchangeManagerMock)
	timeService := new(TimeServiceMock)
	cache := NewExchangeCache()

	return NewPaperOrderBalanceManager(exchangeManager, cache, timeService), exchangeManager, timeService
}

func ethUsdtSymbol() *model.ExchangeSymbol {
	return &model.ExchangeSymbol{
		Symbol:     "ETHUSDT",
		Status:     "TRADING",
		BaseAsset:  "ETH",
		QuoteAsset: "USDT",
	}
}

func TestPaperBackendFillsMarketBuyInstantly(t *testing.T) {
	assertion := assert.New(t)
	backend, exchangeManager, timeService := newPaperBackend()
	backend.Deposit("USDT", 1000.00)

	exchangeManager.On("GetExchangeSymbol", "ETHUSDT").Return(ethUsdtSymbol(), nil)
	exchangeManager.On("GetTickerPrice", "ETHUSDT").Return(2000.00, nil)
	timeService.On("GetNowUnix").Return(1700000000)

	order, err := backend.CreateOrder(map[string]string{
		"symbol":        "ETHUSDT",
		"side":          "BUY",
		"type":          "MARKET",
		"quoteOrderQty": "1000",
	})
	assertion.NoError(err)
	assertion.True(order.IsFilled())
	assertion.Equal(0.50, order.ExecutedQty)
	assertion.Equal(1000.00, order.CummulativeQuoteQty)

	usdt, _ := backend.GetAssetBalance("USDT", false)
	assertion.Equal(0.00, usdt)

	eth, _ := backend.GetAssetBalance("ETH", false)
	assertion.Equal(0.50, eth)

	// The fill is visible to the rest of the pipeline through the cache.
	cached := backend.Cache.GetOrder(order.OrderId)
	assertion.NotNil(cached)
	assertion.True(cached.IsFilled())
}

func TestPaperBackendFillsLimitSellAtOrderPrice(t *testing.T) {
	assertion := assert.New(t)
	backend, exchangeManager, timeService := newPaperBackend()
	backend.Deposit("ETH", 0.50)

	exchangeManager.On("GetExchangeSymbol", "ETHUSDT").Return(ethUsdtSymbol(), nil)
	timeService.On("GetNowUnix").Return(1700000000)

	order, err := backend.CreateOrder(map[string]string{
		"symbol":      "ETHUSDT",
		"side":        "SELL",
		"type":        "LIMIT",
		"timeInForce": "GTC",
		"quantity":    "0.5",
		"price":       "2100",
	})
	assertion.NoError(err)
	assertion.True(order.IsFilled())

	usdt, _ := backend.GetAssetBalance("USDT", false)
	assertion.Equal(1050.00, usdt)

	eth, _ := backend.GetAssetBalance("ETH", false)
	assertion.Equal(0.00, eth)
}

func TestPaperBackendRejectsOverdraft(t *testing.T) {
	assertion := assert.New(t)
	backend, exchangeManager, _ := newPaperBackend()
	backend.Deposit("USDT", 100.00)

	exchangeManager.On("GetExchangeSymbol", "ETHUSDT").Return(ethUsdtSymbol(), nil)
	exchangeManager.On("GetTickerPrice", "ETHUSDT").Return(2000.00, nil)

	_, err := backend.CreateOrder(map[string]string{
		"symbol":        "ETHUSDT",
		"side":          "BUY",
		"type":          "MARKET",
		"quoteOrderQty": "1000",
	})
	assertion.Error(err)

	usdt, _ := backend.GetAssetBalance("USDT", false)
	assertion.Equal(100.00, usdt)
}
