package exchange

import (
	"fmt"
	"strconv"
	"sync"

	"gitlab.com/open-soft/go-coin-jumper/src/client"
	"gitlab.com/open-soft/go-coin-jumper/src/model"
	"gitlab.com/open-soft/go-coin-jumper/src/utils"
)

// OrderBalanceManagerInterface is the execution backend of the trading
// loop. The live implementation talks to Binance, the paper one simulates
// fills against cached prices so strategies run unchanged without funds.
type OrderBalanceManagerInterface interface {
	CreateOrder(params map[string]string) (model.BinanceOrder, error)
	QueryOrder(symbol string, orderId int64) (model.BinanceOrder, error)
	CancelOrder(symbol string, orderId int64) (model.BinanceOrder, error)
	GetAssetBalance(asset string, cacheOnly bool) (float64, error)
	InvalidateBalanceCache(asset string)
}

type OrderBalanceManager struct {
	Binance        client.ExchangeOrderAPIInterface
	BalanceService BalanceServiceInterface
}

func (m *OrderBalanceManager) CreateOrder(params map[string]string) (model.BinanceOrder, error) {
	return m.Binance.CreateOrder(params)
}

func (m *OrderBalanceManager) QueryOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	return m.Binance.QueryOrder(symbol, orderId)
}

func (m *OrderBalanceManager) CancelOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	return m.Binance.CancelOrder(symbol, orderId)
}

func (m *OrderBalanceManager) GetAssetBalance(asset string, cacheOnly bool) (float64, error) {
	return m.BalanceService.GetAssetBalance(asset, cacheOnly)
}

func (m *OrderBalanceManager) InvalidateBalanceCache(asset string) {
	m.BalanceService.InvalidateBalanceCache(asset)
}

// PaperOrderBalanceManager keeps a private wallet and fills every order
// instantly at the current cached price. Filled orders are pushed into the
// shared ExchangeCache so the rest of the pipeline observes them the same
// way it observes stream events.
type PaperOrderBalanceManager struct {
	Exchange    ExchangeManagerInterface
	Cache       *ExchangeCache
	TimeService utils.TimeServiceInterface

	mutex       sync.Mutex
	balances    map[string]float64
	nextOrderId int64
}

func NewPaperOrderBalanceManager(
	exchange ExchangeManagerInterface,
	cache *ExchangeCache,
	timeService utils.TimeServiceInterface,
) *PaperOrderBalanceManager {
	return &PaperOrderBalanceManager{
		Exchange:    exchange,
		Cache:       cache,
		TimeService: timeService,
		balances:    make(map[string]float64),
	}
}

// Deposit credits the paper wallet, used once at startup to seed the
// bridge balance.
func (m *PaperOrderBalanceManager) Deposit(asset string, amount float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.balances[asset] += amount
}

func (m *PaperOrderBalanceManager) CreateOrder(params map[string]string) (model.BinanceOrder, error) {
	symbol := params["symbol"]

	exchangeSymbol, err := m.Exchange.GetExchangeSymbol(symbol)
	if err != nil {
		return model.BinanceOrder{}, err
	}

	price, err := m.executionPrice(symbol, params)
	if err != nil {
		return model.BinanceOrder{}, err
	}

	quantity, err := m.executionQuantity(params, price)
	if err != nil {
		return model.BinanceOrder{}, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	quoteAmount := quantity * price

	switch params["side"] {
	case model.OrderSideBuy:
		if m.balances[exchangeSymbol.QuoteAsset] < quoteAmount {
			return model.BinanceOrder{}, fmt.Errorf("[%s] insufficient %s balance", symbol, exchangeSymbol.QuoteAsset)
		}

		m.balances[exchangeSymbol.QuoteAsset] -= quoteAmount
		m.balances[exchangeSymbol.BaseAsset] += quantity
	case model.OrderSideSell:
		if m.balances[exchangeSymbol.BaseAsset] < quantity {
			return model.BinanceOrder{}, fmt.Errorf("[%s] insufficient %s balance", symbol, exchangeSymbol.BaseAsset)
		}

		m.balances[exchangeSymbol.BaseAsset] -= quantity
		m.balances[exchangeSymbol.QuoteAsset] += quoteAmount
	default:
		return model.BinanceOrder{}, fmt.Errorf("[%s] unsupported order side %s", symbol, params["side"])
	}

	m.nextOrderId++

	order := model.BinanceOrder{
		OrderId:             m.nextOrderId,
		Symbol:              symbol,
		TransactTime:        m.TimeService.GetNowUnix() * 1000,
		Price:               price,
		OrigQty:             quantity,
		ExecutedQty:         quantity,
		CummulativeQuoteQty: quoteAmount,
		Status:              model.OrderStatusFilled,
		Type:                params["type"],
		Side:                params["side"],
		Timestamp:           m.TimeService.GetNowUnix() * 1000,
	}

	m.Cache.UpsertOrder(order)

	return order, nil
}

func (m *PaperOrderBalanceManager) QueryOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	order := m.Cache.GetOrder(orderId)
	if order == nil {
		return model.BinanceOrder{}, fmt.Errorf("[%s] paper order %d is not found", symbol, orderId)
	}

	return *order, nil
}

// CancelOrder never fires in paper mode because every order fills
// instantly, it exists only to satisfy the backend contract.
func (m *PaperOrderBalanceManager) CancelOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	return model.BinanceOrder{}, fmt.Errorf("[%s] paper order %d can not be canceled", symbol, orderId)
}

func (m *PaperOrderBalanceManager) GetAssetBalance(asset string, _ bool) (float64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.balances[asset], nil
}

func (m *PaperOrderBalanceManager) InvalidateBalanceCache(_ string) {
}

func (m *PaperOrderBalanceManager) executionPrice(symbol string, params map[string]string) (float64, error) {
	if raw, ok := params["price"]; ok {
		return strconv.ParseFloat(raw, 64)
	}

	return m.Exchange.GetTickerPrice(symbol)
}

func (m *PaperOrderBalanceManager) executionQuantity(params map[string]string, price float64) (float64, error) {
	if raw, ok := params["quantity"]; ok {
		return strconv.ParseFloat(raw, 64)
	}

	if raw, ok := params["quoteOrderQty"]; ok {
		quoteQty, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0.00, err
		}
		if price <= 0.00 {
			return 0.00, fmt.Errorf("[%s] no price to convert quote quantity", params["symbol"])
		}

		return quoteQty / price, nil
	}

	return 0.00, fmt.Errorf("[%s] order quantity is missing", params["symbol"])
}
