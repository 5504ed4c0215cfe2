package exchange

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
	"gitlab.com/open-soft/go-coin-jumper/src/utils"
)

const (
	orderPollSeconds        = 1
	orderRestRefreshSeconds = 30
	balancePollSeconds      = 1
	balancePollMaxAttempts  = 60

	// Tolerance applied to the current price before a stale partial buy is
	// given up on. Matches one taker fee so a marginal move does not churn
	// orders.
	partialBuyCancelTolerance = 0.001
)

type TradeRecorderInterface interface {
	StartTradeLog(altCoin string, cryptoCoin string, selling bool) (int64, error)
	SetOrdered(tradeId int64, altStartingBalance float64, cryptoStartingBalance float64, altTradeAmount float64) error
	SetComplete(tradeId int64, cryptoTradeAmount float64) error
}

type CallbackManagerInterface interface {
	Error(bot *model.Bot, message string)
	BuyOrder(bot *model.Bot, order model.BinanceOrder)
	SellOrder(bot *model.Bot, order model.BinanceOrder)
}

// OrderExecutor turns a jump decision into exchange orders and babysits
// them to a terminal state. Every placement runs under an OrderGuard so the
// stream worker can never observe an unregistered order of ours.
type OrderExecutor struct {
	Config        *model.BotConfig
	CurrentBot    *model.Bot
	Backend       OrderBalanceManagerInterface
	Exchange      ExchangeManagerInterface
	Cache         *ExchangeCache
	Guardian      *OrderGuardian
	Formatter     *utils.Formatter
	TimeService   utils.TimeServiceInterface
	TradeRecorder TradeRecorderInterface
	Callback      CallbackManagerInterface
}

// BuyAlt converts the free bridge balance into originCoin. decisionPrice is
// the ticker price the jump decision was scored at, zero skips the staleness
// check. Returns the terminal order when at least part of it filled, nil
// result with nil error when no trade happened.
func (e *OrderExecutor) BuyAlt(originCoin string, bridge string, decisionPrice float64) (*model.BinanceOrder, error) {
	symbol := originCoin + bridge

	tradeId, err := e.TradeRecorder.StartTradeLog(originCoin, bridge, false)
	if err != nil {
		log.Printf("[%s] trade log: %s", symbol, err.Error())
	}

	originBalance, err := e.Backend.GetAssetBalance(originCoin, false)
	if err != nil {
		return nil, err
	}

	bridgeBalance, err := e.Backend.GetAssetBalance(bridge, false)
	if err != nil {
		return nil, err
	}

	fromCoinPrice, err := e.Exchange.GetTickerPrice(symbol)
	if err != nil {
		return nil, err
	}

	if e.decisionPriceDrifted(symbol, model.OrderSideBuy, decisionPrice, fromCoinPrice) {
		return nil, nil
	}

	quantity, err := e.Exchange.BuyQuantity(originCoin, bridge, bridgeBalance, fromCoinPrice)
	if err != nil {
		return nil, err
	}

	err = e.checkMinNotional(symbol, quantity, fromCoinPrice)
	if err != nil {
		return nil, err
	}

	guard := e.Guardian.AcquireGuard()

	var order model.BinanceOrder
	err = e.Exchange.Retry(func() error {
		created, orderErr := e.Backend.CreateOrder(e.buyParams(symbol, quantity, fromCoinPrice))
		if orderErr != nil {
			return orderErr
		}

		order = created

		return nil
	})
	if err != nil {
		guard.Discard()
		e.Callback.Error(e.CurrentBot, fmt.Sprintf("[%s] BUY order failed: %s", symbol, err.Error()))

		return nil, err
	}

	guard.SetOrder(order.Symbol, order.OrderId)
	guard.Enter()
	defer guard.Release()

	e.Cache.UpsertOrder(order)
	log.Printf("[%s] BUY order %d placed, price %f, quantity %f", symbol, order.OrderId, fromCoinPrice, quantity)

	_ = e.TradeRecorder.SetOrdered(tradeId, originBalance, bridgeBalance, quantity)

	final := e.waitForOrder(order, fromCoinPrice)

	if !final.IsFilled() && !final.HasExecutedQuantity() {
		log.Printf("[%s] BUY order %d ended %s without a fill", symbol, final.OrderId, final.Status)

		return nil, nil
	}

	e.waitForBalanceIncrease(originCoin, originBalance)

	_ = e.TradeRecorder.SetComplete(tradeId, final.CummulativeQuoteQty)
	e.Callback.BuyOrder(e.CurrentBot, final)
	log.Printf("[%s] BUY order %d is %s, executed %f", symbol, final.OrderId, final.Status, final.ExecutedQty)

	return &final, nil
}

// SellAlt converts the whole free originCoin balance back into the bridge.
func (e *OrderExecutor) SellAlt(originCoin string, bridge string, decisionPrice float64) (*model.BinanceOrder, error) {
	symbol := originCoin + bridge

	tradeId, err := e.TradeRecorder.StartTradeLog(originCoin, bridge, true)
	if err != nil {
		log.Printf("[%s] trade log: %s", symbol, err.Error())
	}

	originBalance, err := e.Backend.GetAssetBalance(originCoin, false)
	if err != nil {
		return nil, err
	}

	bridgeBalance, err := e.Backend.GetAssetBalance(bridge, false)
	if err != nil {
		return nil, err
	}

	fromCoinPrice, err := e.Exchange.GetTickerPrice(symbol)
	if err != nil {
		return nil, err
	}

	if e.decisionPriceDrifted(symbol, model.OrderSideSell, decisionPrice, fromCoinPrice) {
		return nil, nil
	}

	quantity, err := e.Exchange.SellQuantity(originCoin, bridge)
	if err != nil {
		return nil, err
	}

	err = e.checkMinNotional(symbol, quantity, fromCoinPrice)
	if err != nil {
		return nil, err
	}

	guard := e.Guardian.AcquireGuard()

	var order model.BinanceOrder
	err = e.Exchange.Retry(func() error {
		created, orderErr := e.Backend.CreateOrder(e.sellParams(symbol, quantity, fromCoinPrice))
		if orderErr != nil {
			return orderErr
		}

		order = created

		return nil
	})
	if err != nil {
		guard.Discard()
		e.Callback.Error(e.CurrentBot, fmt.Sprintf("[%s] SELL order failed: %s", symbol, err.Error()))

		return nil, err
	}

	guard.SetOrder(order.Symbol, order.OrderId)
	guard.Enter()
	defer guard.Release()

	e.Cache.UpsertOrder(order)
	log.Printf("[%s] SELL order %d placed, price %f, quantity %f", symbol, order.OrderId, fromCoinPrice, quantity)

	_ = e.TradeRecorder.SetOrdered(tradeId, originBalance, bridgeBalance, quantity)

	final := e.waitForOrder(order, fromCoinPrice)

	if !final.IsFilled() && !final.HasExecutedQuantity() {
		log.Printf("[%s] SELL order %d ended %s without a fill", symbol, final.OrderId, final.Status)

		return nil, nil
	}

	e.waitForBalanceDecrease(originCoin, originBalance)

	_ = e.TradeRecorder.SetComplete(tradeId, final.CummulativeQuoteQty)
	e.Callback.SellOrder(e.CurrentBot, final)
	log.Printf("[%s] SELL order %d is %s, executed %f", symbol, final.OrderId, final.Status, final.ExecutedQty)

	return &final, nil
}

func (e *OrderExecutor) buyParams(symbol string, quantity float64, price float64) map[string]string {
	if e.Config.BuyOrderType == model.OrderTypeMarket {
		return map[string]string{
			"symbol":           symbol,
			"side":             model.OrderSideBuy,
			"type":             model.OrderTypeMarket,
			"quoteOrderQty":    e.Formatter.FloatAsDecimalString(quantity * price),
			"newClientOrderId": uuid.New().String(),
		}
	}

	return map[string]string{
		"symbol":           symbol,
		"side":             model.OrderSideBuy,
		"type":             model.OrderTypeLimit,
		"timeInForce":      "GTC",
		"quantity":         e.Formatter.FloatAsDecimalString(quantity),
		"price":            e.Formatter.FloatAsDecimalString(price),
		"newClientOrderId": uuid.New().String(),
	}
}

func (e *OrderExecutor) sellParams(symbol string, quantity float64, price float64) map[string]string {
	if e.Config.SellOrderType == model.OrderTypeMarket {
		return map[string]string{
			"symbol":           symbol,
			"side":             model.OrderSideSell,
			"type":             model.OrderTypeMarket,
			"quantity":         e.Formatter.FloatAsDecimalString(quantity),
			"newClientOrderId": uuid.New().String(),
		}
	}

	return map[string]string{
		"symbol":           symbol,
		"side":             model.OrderSideSell,
		"type":             model.OrderTypeLimit,
		"timeInForce":      "GTC",
		"quantity":         e.Formatter.FloatAsDecimalString(quantity),
		"price":            e.Formatter.FloatAsDecimalString(price),
		"newClientOrderId": uuid.New().String(),
	}
}

// decisionPriceDrifted reports whether the market left the configured band
// between the scouting decision and the placement. A stale signal is not
// chased, the caller goes back to scouting instead.
func (e *OrderExecutor) decisionPriceDrifted(symbol string, side string, decisionPrice float64, currentPrice float64) bool {
	if decisionPrice <= 0.00 {
		return false
	}

	if side == model.OrderSideBuy && currentPrice > decisionPrice*(1+e.Config.BuyMaxPriceChange) {
		log.Printf("[%s] BUY aborted, price drifted %f -> %f since the decision", symbol, decisionPrice, currentPrice)

		return true
	}

	if side == model.OrderSideSell && currentPrice < decisionPrice*(1-e.Config.SellMaxPriceChange) {
		log.Printf("[%s] SELL aborted, price drifted %f -> %f since the decision", symbol, decisionPrice, currentPrice)

		return true
	}

	return false
}

func (e *OrderExecutor) checkMinNotional(symbol string, quantity float64, price float64) error {
	minNotional, err := e.Exchange.GetMinNotional(symbol)
	if err != nil {
		return err
	}

	if quantity*price < minNotional {
		return fmt.Errorf("[%s] order value %f is below the minimal notional %f", symbol, quantity*price, minNotional)
	}

	return nil
}

// waitForOrder polls the cached order state until it is terminal. The stream
// is the primary source, a silent stream is backstopped by a periodic REST
// refresh. Limit orders that overstay their timeout or drift too far off the
// placement price get canceled here.
func (e *OrderExecutor) waitForOrder(placed model.BinanceOrder, placedPrice float64) model.BinanceOrder {
	order := placed

	var silentSeconds int64

	for {
		cached := e.Cache.GetOrder(placed.OrderId)
		if cached != nil {
			order = *cached
		}

		if silentSeconds >= orderRestRefreshSeconds {
			silentSeconds = 0

			fetched, err := e.Backend.QueryOrder(order.Symbol, placed.OrderId)
			if err == nil {
				order = fetched
				e.Cache.UpsertOrder(fetched)
			}
		}

		if order.IsFilled() || order.IsCanceled() || order.IsExpired() {
			return order
		}

		if e.priceDriftedAway(order, placedPrice) || e.shouldCancelOrder(order) {
			return e.cancelAndFlatten(order)
		}

		e.TimeService.WaitSeconds(orderPollSeconds)
		silentSeconds += orderPollSeconds
	}
}

// priceDriftedAway reports whether the market moved beyond the configured
// band since placement, making the resting limit order unlikely to fill at
// an acceptable ratio.
func (e *OrderExecutor) priceDriftedAway(order model.BinanceOrder, placedPrice float64) bool {
	currentPrice, err := e.Exchange.GetTickerPrice(order.Symbol)
	if err != nil {
		return false
	}

	if order.IsBuy() {
		return currentPrice > placedPrice*(1+e.Config.BuyMaxPriceChange)
	}

	return currentPrice < placedPrice*(1-e.Config.SellMaxPriceChange)
}

func (e *OrderExecutor) shouldCancelOrder(order model.BinanceOrder) bool {
	timeout := e.Config.BuyTimeoutMinutes
	if order.IsSell() {
		timeout = e.Config.SellTimeoutMinutes
	}

	if timeout <= 0 {
		return false
	}

	minutes := e.TimeService.GetNowDiffMinutes(order.TransactTime)
	if minutes <= timeout {
		return false
	}

	if order.IsNew() {
		return true
	}

	if !order.IsPartiallyFilled() {
		return false
	}

	if order.IsSell() {
		return true
	}

	// A partial buy is only abandoned when the market ran away upward,
	// otherwise the rest may still fill at the better price.
	currentPrice, err := e.Exchange.GetTickerPrice(order.Symbol)
	if err != nil {
		return false
	}

	return currentPrice*(1-partialBuyCancelTolerance) > order.Price
}

// cancelAndFlatten cancels a stale order. A partially filled buy leaves the
// wallet holding an unwanted stub of the base asset, which is flattened
// right back into the quote with a market sell.
func (e *OrderExecutor) cancelAndFlatten(order model.BinanceOrder) model.BinanceOrder {
	log.Printf("[%s] canceling order %d in state %s", order.Symbol, order.OrderId, order.Status)

	canceled := order
	err := e.Exchange.Retry(func() error {
		result, cancelErr := e.Backend.CancelOrder(order.Symbol, order.OrderId)
		if cancelErr != nil {
			return cancelErr
		}

		canceled = result

		return nil
	})
	if err != nil {
		log.Printf("[%s] cancel order %d: %s", order.Symbol, order.OrderId, err.Error())
		e.Callback.Error(e.CurrentBot, fmt.Sprintf("[%s] cancel order %d failed: %s", order.Symbol, order.OrderId, err.Error()))

		return canceled
	}

	e.Cache.UpsertOrder(canceled)

	if canceled.IsBuy() && canceled.HasExecutedQuantity() {
		e.flattenPartialBuy(canceled)
	}

	return canceled
}

func (e *OrderExecutor) flattenPartialBuy(order model.BinanceOrder) {
	stepExponent, err := e.Exchange.GetStepExponent(order.Symbol)
	if err != nil {
		log.Printf("[%s] flatten partial fill: %s", order.Symbol, err.Error())

		return
	}

	quantity := e.Formatter.TruncateQuantity(order.GetExecutedQuantity(), stepExponent)
	if quantity <= 0 {
		return
	}

	log.Printf("[%s] selling back partially filled quantity %f", order.Symbol, quantity)

	err = e.Exchange.Retry(func() error {
		_, sellErr := e.Backend.CreateOrder(map[string]string{
			"symbol":           order.Symbol,
			"side":             model.OrderSideSell,
			"type":             model.OrderTypeMarket,
			"quantity":         e.Formatter.FloatAsDecimalString(quantity),
			"newClientOrderId": uuid.New().String(),
		})

		return sellErr
	})
	if err != nil {
		e.Callback.Error(e.CurrentBot, fmt.Sprintf("[%s] flatten of order %d failed: %s", order.Symbol, order.OrderId, err.Error()))
	}
}

// Binance reports fills on the stream slightly before the funds settle into
// the account. The post-trade balance has to move before the next leg reads
// it, otherwise the jump would be sized on stale funds.
func (e *OrderExecutor) waitForBalanceIncrease(asset string, startingBalance float64) {
	e.waitForBalance(asset, func(balance float64) bool {
		return balance > startingBalance
	})
}

func (e *OrderExecutor) waitForBalanceDecrease(asset string, startingBalance float64) {
	e.waitForBalance(asset, func(balance float64) bool {
		return balance < startingBalance
	})
}

func (e *OrderExecutor) waitForBalance(asset string, settled func(balance float64) bool) {
	for attempt := 0; attempt < balancePollMaxAttempts; attempt++ {
		e.Backend.InvalidateBalanceCache(asset)

		balance, err := e.Backend.GetAssetBalance(asset, false)
		if err == nil && settled(balance) {
			return
		}

		e.TimeService.WaitSeconds(balancePollSeconds)
	}

	log.Printf("[%s] balance did not settle after %d checks", asset, balancePollMaxAttempts)
}
