package strategy

import (
	"github.com/stretchr/testify/mock"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

type CoinStorageMock struct {
	mock.Mock
}

func (m *CoinStorageMock) SetCoins(symbols []string) error {
	args := m.Called(symbols)
	return args.Error(0)
}
func (m *CoinStorageMock) GetEnabledCoins() []model.Coin {
	args := m.Called()
	return args.Get(0).([]model.Coin)
}
func (m *CoinStorageMock) GetPairs() []model.Pair {
	args := m.Called()
	return args.Get(0).([]model.Pair)
}
func (m *CoinStorageMock) GetPairsFrom(fromCoin string) []model.Pair {
	args := m.Called(fromCoin)
	return args.Get(0).([]model.Pair)
}
func (m *CoinStorageMock) GetPairsTo(toCoin string) []model.Pair {
	args := m.Called(toCoin)
	return args.Get(0).([]model.Pair)
}
func (m *CoinStorageMock) SetPairRatio(pairId int64, ratio float64) error {
	args := m.Called(pairId, ratio)
	return args.Error(0)
}
func (m *CoinStorageMock) GetPairsWithoutRatio() []model.Pair {
	args := m.Called()
	return args.Get(0).([]model.Pair)
}
func (m *CoinStorageMock) GetCurrentCoin() *model.Coin {
	args := m.Called()
	coin := args.Get(0)
	if coin == nil {
		return nil
	}
	return coin.(*model.Coin)
}
func (m *CoinStorageMock) SetCurrentCoin(symbol string) error {
	args := m.Called(symbol)
	return args.Error(0)
}

type ExchangeManagerMock struct {
	mock.Mock
}

func (m *ExchangeManagerMock) GetExchangeSymbol(symbol string) (*model.ExchangeSymbol, error) {
	args := m.Called(symbol)
	exchangeSymbol := args.Get(0)
	if exchangeSymbol == nil {
		return nil, args.Error(1)
	}
	return exchangeSymbol.(*model.ExchangeSymbol), args.Error(1)
}
func (m *ExchangeManagerMock) GetStepExponent(symbol string) (int64, error) {
	args := m.Called(symbol)
	return args.Get(0).(int64), args.Error(1)
}
func (m *ExchangeManagerMock) GetMinNotional(symbol string) (float64, error) {
	args := m.Called(symbol)
	return args.Get(0).(float64), args.Error(1)
}
func (m *ExchangeManagerMock) GetTickerPrice(symbol string) (float64, error) {
	args := m.Called(symbol)
	return args.Get(0).(float64), args.Error(1)
}
func (m *ExchangeManagerMock) GetTradeFee(symbol string) (float64, error) {
	args := m.Called(symbol)
	return args.Get(0).(float64), args.Error(1)
}
func (m *ExchangeManagerMock) GetFee(originCoin string, bridge string, selling bool) float64 {
	args := m.Called(originCoin, bridge, selling)
	return args.Get(0).(float64)
}
func (m *ExchangeManagerMock) IsBnbBurnEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}
func (m *ExchangeManagerMock) SellQuantity(originCoin string, bridge string) (float64, error) {
	args := m.Called(originCoin, bridge)
	return args.Get(0).(float64), args.Error(1)
}
func (m *ExchangeManagerMock) BuyQuantity(originCoin string, bridge string, bridgeBalance float64, fromCoinPrice float64) (float64, error) {
	args := m.Called(originCoin, bridge, bridgeBalance, fromCoinPrice)
	return args.Get(0).(float64), args.Error(1)
}
func (m *ExchangeManagerMock) Retry(callback func() error) error {
	m.Called()
	return callback()
}

type OrderExecutorMock struct {
	mock.Mock
}

func (m *OrderExecutorMock) BuyAlt(originCoin string, bridge string, decisionPrice float64) (*model.BinanceOrder, error) {
	args := m.Called(originCoin, bridge, decisionPrice)
	order := args.Get(0)
	if order == nil {
		return nil, args.Error(1)
	}
	return order.(*model.BinanceOrder), args.Error(1)
}
func (m *OrderExecutorMock) SellAlt(originCoin string, bridge string, decisionPrice float64) (*model.BinanceOrder, error) {
	args := m.Called(originCoin, bridge, decisionPrice)
	order := args.Get(0)
	if order == nil {
		return nil, args.Error(1)
	}
	return order.(*model.BinanceOrder), args.Error(1)
}

type ScoutLoggerMock struct {
	mock.Mock
}

func (m *ScoutLoggerMock) LogScout(scout model.ScoutHistory) error {
	args := m.Called(scout)
	return args.Error(0)
}

type BackendMock struct {
	mock.Mock
}

func (m *BackendMock) CreateOrder(params map[string]string) (model.BinanceOrder, error) {
	args := m.Called(params)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *BackendMock) QueryOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	args := m.Called(symbol, orderId)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *BackendMock) CancelOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	args := m.Called(symbol, orderId)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *BackendMock) GetAssetBalance(asset string, cacheOnly bool) (float64, error) {
	args := m.Called(asset, cacheOnly)
	return args.Get(0).(float64), args.Error(1)
}
func (m *BackendMock) InvalidateBalanceCache(asset string) {
	m.Called(asset)
}
