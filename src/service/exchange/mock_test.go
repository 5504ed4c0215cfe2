package exchange

import (
	"github.com/stretchr/testify/mock"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

type ExchangeOrderAPIMock struct {
	mock.Mock
}

func (m *ExchangeOrderAPIMock) CreateOrder(params map[string]string) (model.BinanceOrder, error) {
	args := m.Called(params)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *ExchangeOrderAPIMock) QueryOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	args := m.Called(symbol, orderId)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *ExchangeOrderAPIMock) CancelOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	args := m.Called(symbol, orderId)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *ExchangeOrderAPIMock) GetOpenedOrders() ([]model.BinanceOrder, error) {
	args := m.Called()
	return args.Get(0).([]model.BinanceOrder), args.Error(1)
}

type ExchangeAccountAPIMock struct {
	mock.Mock
}

func (m *ExchangeAccountAPIMock) GetAccountStatus() (*model.AccountStatus, error) {
	args := m.Called()
	status := args.Get(0)
	if status == nil {
		return nil, args.Error(1)
	}
	return status.(*model.AccountStatus), args.Error(1)
}
func (m *ExchangeAccountAPIMock) GetTradeFees() ([]model.TradeFee, error) {
	args := m.Called()
	return args.Get(0).([]model.TradeFee), args.Error(1)
}
func (m *ExchangeAccountAPIMock) GetBnbBurnStatus() (*model.BnbBurnStatus, error) {
	args := m.Called()
	status := args.Get(0)
	if status == nil {
		return nil, args.Error(1)
	}
	return status.(*model.BnbBurnStatus), args.Error(1)
}

type ExchangePriceAPIMock struct {
	mock.Mock
}

func (m *ExchangePriceAPIMock) GetTickerPrices() ([]model.WSTickerPrice, error) {
	args := m.Called()
	return args.Get(0).([]model.WSTickerPrice), args.Error(1)
}
func (m *ExchangePriceAPIMock) GetExchangeInfo(symbols []string) (*model.ExchangeInfo, error) {
	args := m.Called(symbols)
	info := args.Get(0)
	if info == nil {
		return nil, args.Error(1)
	}
	return info.(*model.ExchangeInfo), args.Error(1)
}

type ExchangeStreamAPIMock struct {
	mock.Mock
}

func (m *ExchangeStreamAPIMock) CreateListenKey() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
func (m *ExchangeStreamAPIMock) KeepAliveListenKey(listenKey string) error {
	args := m.Called(listenKey)
	return args.Error(0)
}

type BalanceServiceMock struct {
	mock.Mock
}

func (m *BalanceServiceMock) GetAssetBalance(asset string, cacheOnly bool) (float64, error) {
	args := m.Called(asset, cacheOnly)
	return args.Get(0).(float64), args.Error(1)
}
func (m *BalanceServiceMock) InvalidateBalanceCache(asset string) {
	m.Called(asset)
}

type TimeServiceMock struct {
	mock.Mock
}

func (m *TimeServiceMock) WaitSeconds(seconds int64) {
	m.Called(seconds)
}
func (m *TimeServiceMock) WaitMilliseconds(milliseconds int64) {
	m.Called(milliseconds)
}
func (m *TimeServiceMock) GetNowUnix() int64 {
	args := m.Called()
	return int64(args.Int(0))
}
func (m *TimeServiceMock) GetNowDateTimeString() string {
	args := m.Called()
	return args.String(0)
}
func (m *TimeServiceMock) GetNowDiffMinutes(unixTimeMilli int64) float64 {
	args := m.Called(unixTimeMilli)
	return args.Get(0).(float64)
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

type OrderBalanceManagerMock struct {
	mock.Mock
}

func (m *OrderBalanceManagerMock) CreateOrder(params map[string]string) (model.BinanceOrder, error) {
	args := m.Called(params)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *OrderBalanceManagerMock) QueryOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	args := m.Called(symbol, orderId)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *OrderBalanceManagerMock) CancelOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	args := m.Called(symbol, orderId)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *OrderBalanceManagerMock) GetAssetBalance(asset string, cacheOnly bool) (float64, error) {
	args := m.Called(asset, cacheOnly)
	return args.Get(0).(float64), args.Error(1)
}
func (m *OrderBalanceManagerMock) InvalidateBalanceCache(asset string) {
	m.Called(asset)
}

type TradeRecorderMock struct {
	mock.Mock
}

func (m *TradeRecorderMock) StartTradeLog(altCoin string, cryptoCoin string, selling bool) (int64, error) {
	args := m.Called(altCoin, cryptoCoin, selling)
	return int64(args.Int(0)), args.Error(1)
}
func (m *TradeRecorderMock) SetOrdered(tradeId int64, altStartingBalance float64, cryptoStartingBalance float64, altTradeAmount float64) error {
	args := m.Called(tradeId, altStartingBalance, cryptoStartingBalance, altTradeAmount)
	return args.Error(0)
}
func (m *TradeRecorderMock) SetComplete(tradeId int64, cryptoTradeAmount float64) error {
	args := m.Called(tradeId, cryptoTradeAmount)
	return args.Error(0)
}

type CallbackManagerMock struct {
	mock.Mock
}

func (m *CallbackManagerMock) Error(bot *model.Bot, message string) {
	m.Called(bot, message)
}
func (m *CallbackManagerMock) BuyOrder(bot *model.Bot, order model.BinanceOrder) {
	m.Called(bot, order)
}
func (m *CallbackManagerMock) SellOrder(bot *model.Bot, order model.BinanceOrder) {
	m.Called(bot, order)
}
