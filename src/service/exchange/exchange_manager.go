package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"gitlab.com/open-soft/go-coin-jumper/src/client"
	"gitlab.com/open-soft/go-coin-jumper/src/model"
	"gitlab.com/open-soft/go-coin-jumper/src/utils"
)

const (
	retryAttempts    = 20
	retryWaitSeconds = 1
	bnbFeeDiscount   = 0.75
	fallbackFee      = 0.001
)

var ErrTickerNotFound = errors.New("ticker is not found on the exchange")

type ExchangeManagerInterface interface {
	GetExchangeSymbol(symbol string) (*model.ExchangeSymbol, error)
	GetStepExponent(symbol string) (int64, error)
	GetMinNotional(symbol string) (float64, error)
	GetTickerPrice(symbol string) (float64, error)
	GetTradeFee(symbol string) (float64, error)
	GetFee(originCoin string, bridge string, selling bool) float64
	IsBnbBurnEnabled() bool
	SellQuantity(originCoin string, bridge string) (float64, error)
	BuyQuantity(originCoin string, bridge string, bridgeBalance float64, fromCoinPrice float64) (float64, error)
	Retry(callback func() error) error
}

// ExchangeManager wraps the Binance REST surface with the caching and retry
// policy the trading loop depends on. Slow-moving metadata (symbol filters,
// trade fees) lives in redis with long TTLs, prices come from the stream
// cache first and REST only on a miss.
type ExchangeManager struct {
	RDB            *redis.Client
	Ctx            *context.Context
	Binance        client.ExchangePriceAPIInterface
	AccountAPI     client.ExchangeAccountAPIInterface
	Cache          *ExchangeCache
	BalanceService BalanceServiceInterface
	Formatter      *utils.Formatter
	TimeService    utils.TimeServiceInterface
	CurrentBot     *model.Bot

	// UseBnbBurn gates the BNB fee discount logic entirely, regardless of
	// the account setting on the exchange.
	UseBnbBurn bool
}

// Retry runs callback until it succeeds or the attempt budget is spent,
// pausing between attempts. Binance replies with transient errors around
// balance settlement and rate limits, most resolve within seconds.
func (e *ExchangeManager) Retry(callback func() error) error {
	var err error

	for attempt := 0; attempt < retryAttempts; attempt++ {
		err = callback()
		if err == nil {
			return nil
		}

		log.Printf("retryable call failed (attempt %d): %s", attempt+1, err.Error())
		e.TimeService.WaitSeconds(retryWaitSeconds)
	}

	return err
}

func (e *ExchangeManager) GetExchangeSymbol(symbol string) (*model.ExchangeSymbol, error) {
	cacheKey := fmt.Sprintf("exchange-symbol-%s-bot-%d", symbol, e.CurrentBot.Id)
	cached := e.RDB.Get(*e.Ctx, cacheKey).Val()

	if len(cached) > 0 {
		var exchangeSymbol model.ExchangeSymbol
		err := json.Unmarshal([]byte(cached), &exchangeSymbol)
		if err == nil {
			return &exchangeSymbol, nil
		}
	}

	exchangeInfo, err := e.Binance.GetExchangeInfo([]string{symbol})
	if err != nil {
		return nil, err
	}

	for _, exchangeSymbol := range exchangeInfo.Symbols {
		if exchangeSymbol.Symbol == symbol {
			encoded, _ := json.Marshal(exchangeSymbol)
			e.RDB.Set(*e.Ctx, cacheKey, string(encoded), time.Hour*12)

			return &exchangeSymbol, nil
		}
	}

	return nil, fmt.Errorf("[%s] symbol is not listed on the exchange", symbol)
}

// GetStepExponent returns the decimal precision allowed for order quantity
// on the symbol, derived from the LOT_SIZE step.
func (e *ExchangeManager) GetStepExponent(symbol string) (int64, error) {
	exchangeSymbol, err := e.GetExchangeSymbol(symbol)
	if err != nil {
		return 0, err
	}

	for _, filter := range exchangeSymbol.Filters {
		if filter.FilterType == model.BinanceExchangeFilterTypeLotSize && filter.StepSize != nil {
			return e.Formatter.StepSizeExponent(*filter.StepSize), nil
		}
	}

	return 0, fmt.Errorf("[%s] LOT_SIZE filter is missing", symbol)
}

func (e *ExchangeManager) GetMinNotional(symbol string) (float64, error) {
	exchangeSymbol, err := e.GetExchangeSymbol(symbol)
	if err != nil {
		return 0.00, err
	}

	for _, filter := range exchangeSymbol.Filters {
		if filter.FilterType == model.BinanceExchangeFilterTypeNotional && filter.MinNotional != nil {
			var minNotional float64
			_, err = fmt.Sscanf(*filter.MinNotional, "%f", &minNotional)

			return minNotional, err
		}
	}

	return 0.00, fmt.Errorf("[%s] NOTIONAL filter is missing", symbol)
}

// GetTickerPrice serves prices cache-first. On a miss it refreshes the whole
// ticker book in one REST call, so a cold start resolves every symbol at
// once. A symbol still missing after the refresh does not trade on the
// exchange and is remembered as such permanently.
func (e *ExchangeManager) GetTickerPrice(symbol string) (float64, error) {
	if e.Cache.IsTickerNonExistent(symbol) {
		return 0.00, ErrTickerNotFound
	}

	price, ok := e.Cache.GetTicker(symbol)
	if ok {
		return price, nil
	}

	tickers, err := e.Binance.GetTickerPrices()
	if err != nil {
		return 0.00, err
	}

	e.Cache.SetTickers(tickers)

	price, ok = e.Cache.GetTicker(symbol)
	if !ok {
		e.Cache.MarkTickerNonExistent(symbol)

		return 0.00, ErrTickerNotFound
	}

	return price, nil
}

func (e *ExchangeManager) GetTradeFee(symbol string) (float64, error) {
	cacheKey := fmt.Sprintf("trade-fees-bot-%d", e.CurrentBot.Id)
	cached := e.RDB.Get(*e.Ctx, cacheKey).Val()

	fees := make([]model.TradeFee, 0)

	if len(cached) > 0 {
		_ = json.Unmarshal([]byte(cached), &fees)
	}

	if len(fees) == 0 {
		fetched, err := e.AccountAPI.GetTradeFees()
		if err != nil {
			return 0.00, err
		}

		fees = fetched
		encoded, _ := json.Marshal(fees)
		e.RDB.Set(*e.Ctx, cacheKey, string(encoded), time.Hour*12)
	}

	for _, fee := range fees {
		if fee.Symbol == symbol {
			return fee.TakerCommission, nil
		}
	}

	return 0.00, fmt.Errorf("[%s] trade fee is not available", symbol)
}

func (e *ExchangeManager) IsBnbBurnEnabled() bool {
	if !e.UseBnbBurn {
		return false
	}

	cacheKey := fmt.Sprintf("bnb-burn-bot-%d", e.CurrentBot.Id)
	cached := e.RDB.Get(*e.Ctx, cacheKey).Val()

	if len(cached) > 0 {
		var status model.BnbBurnStatus
		err := json.Unmarshal([]byte(cached), &status)
		if err == nil {
			return status.SpotBNBBurn
		}
	}

	status, err := e.AccountAPI.GetBnbBurnStatus()
	if err != nil {
		log.Printf("BNB burn status: %s", err.Error())

		return false
	}

	encoded, _ := json.Marshal(status)
	e.RDB.Set(*e.Ctx, cacheKey, string(encoded), time.Second*60)

	return status.SpotBNBBurn
}

// GetFee returns the effective taker fee for trading originCoin against the
// bridge. With BNB burn active Binance discounts the fee by 25%, but only
// when the BNB balance actually covers the discounted fee of this trade.
// Any lookup failure degrades to the undiscounted fee.
func (e *ExchangeManager) GetFee(originCoin string, bridge string, selling bool) float64 {
	baseFee, err := e.GetTradeFee(originCoin + bridge)
	if err != nil {
		log.Printf("[%s%s] fee lookup: %s", originCoin, bridge, err.Error())

		return fallbackFee
	}

	if !e.IsBnbBurnEnabled() {
		return baseFee
	}

	var amountTrading float64
	if selling {
		amountTrading, err = e.SellQuantity(originCoin, bridge)
	} else {
		fromCoinPrice, priceErr := e.GetTickerPrice(originCoin + bridge)
		if priceErr != nil {
			return baseFee
		}

		bridgeBalance, balanceErr := e.BalanceService.GetAssetBalance(bridge, false)
		if balanceErr != nil {
			return baseFee
		}

		amountTrading, err = e.BuyQuantity(originCoin, bridge, bridgeBalance, fromCoinPrice)
	}
	if err != nil {
		return baseFee
	}

	feeAmount := amountTrading * baseFee * bnbFeeDiscount

	feeAmountBnb := feeAmount
	if originCoin != "BNB" {
		originPrice, priceErr := e.GetTickerPrice(originCoin + "BNB")
		if priceErr != nil {
			return baseFee
		}

		feeAmountBnb = feeAmount * originPrice
	}

	bnbBalance, err := e.BalanceService.GetAssetBalance("BNB", false)
	if err != nil || bnbBalance < feeAmountBnb {
		return baseFee
	}

	return baseFee * bnbFeeDiscount
}

// SellQuantity is the whole free balance of originCoin truncated to the
// LOT_SIZE step of its bridge pair.
func (e *ExchangeManager) SellQuantity(originCoin string, bridge string) (float64, error) {
	balance, err := e.BalanceService.GetAssetBalance(originCoin, false)
	if err != nil {
		return 0.00, err
	}

	stepExponent, err := e.GetStepExponent(originCoin + bridge)
	if err != nil {
		return 0.00, err
	}

	return e.Formatter.TruncateQuantity(balance, stepExponent), nil
}

// BuyQuantity converts the available bridge balance into base quantity at
// fromCoinPrice, truncated to the LOT_SIZE step.
func (e *ExchangeManager) BuyQuantity(originCoin string, bridge string, bridgeBalance float64, fromCoinPrice float64) (float64, error) {
	if fromCoinPrice <= 0.00 {
		return 0.00, fmt.Errorf("[%s%s] price must be positive", originCoin, bridge)
	}

	stepExponent, err := e.GetStepExponent(originCoin + bridge)
	if err != nil {
		return 0.00, err
	}

	factor := math.Pow(10, float64(stepExponent))

	return math.Floor(bridgeBalance*factor/fromCoinPrice) / factor, nil
}
