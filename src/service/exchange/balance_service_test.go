package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

func TestBalanceServiceServesFromCache(t *testing.T) {
	assertion := assert.New(t)
	cache := NewExchangeCache()
	cache.SetBalance("ETH", 10.00)

	binance := new(ExchangeAccountAPIMock)

	service := BalanceService{Binance: binance, Cache: cache}

	balance, err := service.GetAssetBalance("ETH", false)
	assertion.NoError(err)
	assertion.Equal(10.00, balance)

	binance.AssertNotCalled(t, "GetAccountStatus")
}

func TestBalanceServiceCacheOnlyMissReturnsZero(t *testing.T) {
	assertion := assert.New(t)
	cache := NewExchangeCache()

	binance := new(ExchangeAccountAPIMock)

	service := BalanceService{Binance: binance, Cache: cache}

	balance, err := service.GetAssetBalance("ETH", true)
	assertion.NoError(err)
	assertion.Equal(0.00, balance)

	binance.AssertNotCalled(t, "GetAccountStatus")
}

func TestBalanceServiceRefetchesAccountOnMiss(t *testing.T) {
	assertion := assert.New(t)
	cache := NewExchangeCache()
	cache.SetBalance("DOGE", 500.00)

	binance := new(ExchangeAccountAPIMock)
	binance.On("GetAccountStatus").Return(&model.AccountStatus{
		Balances: []model.Balance{
			{Asset: "ETH", Free: 10.00, Locked: 0.00},
			{Asset: "USDT", Free: 150.00, Locked: 0.00},
		},
	}, nil)

	service := BalanceService{Binance: binance, Cache: cache}

	balance, err := service.GetAssetBalance("ETH", false)
	assertion.NoError(err)
	assertion.Equal(10.00, balance)

	// The whole snapshot replaces the cached view.
	_, ok := cache.GetBalance("DOGE")
	assertion.False(ok)

	usdt, _ := cache.GetBalance("USDT")
	assertion.Equal(150.00, usdt)

	binance.AssertExpectations(t)
}
