package strategy

import (
	"log"
	"strconv"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
	"gitlab.com/open-soft/go-coin-jumper/src/repository"
	"gitlab.com/open-soft/go-coin-jumper/src/service/exchange"
)

type OrderExecutorInterface interface {
	BuyAlt(originCoin string, bridge string, decisionPrice float64) (*model.BinanceOrder, error)
	SellAlt(originCoin string, bridge string, decisionPrice float64) (*model.BinanceOrder, error)
}

type ScoutLoggerInterface interface {
	LogScout(scout model.ScoutHistory) error
}

// PairScore is a scouted jump candidate. Score is the margin by which the
// fee-adjusted price ratio beats the pair's stored baseline, positive means
// the jump grows the holding. The prices the decision was scored at travel
// with it so the executor can refuse a signal gone stale.
type PairScore struct {
	Pair      model.Pair
	Score     float64
	FromPrice float64
	ToPrice   float64
}

// AutoTrader implements the coin rotation itself: baseline bookkeeping,
// scouting and the two-leg jump through the bridge. Strategies compose it
// and decide when each piece runs.
type AutoTrader struct {
	Config   *model.BotConfig
	Exchange exchange.ExchangeManagerInterface
	Executor OrderExecutorInterface
	Backend  exchange.OrderBalanceManagerInterface
	Coins    repository.CoinStorageInterface
	Scouts   ScoutLoggerInterface
}

// InitializeTradeThresholds seeds a baseline ratio for every pair that has
// none yet, from the current bridge prices of both coins.
func (a *AutoTrader) InitializeTradeThresholds() {
	bridge := a.Config.BridgeSymbol

	for _, pair := range a.Coins.GetPairsWithoutRatio() {
		fromPrice, err := a.Exchange.GetTickerPrice(pair.FromCoin + bridge)
		if err != nil {
			log.Printf("[%s%s] threshold init: %s", pair.FromCoin, bridge, err.Error())
			continue
		}

		toPrice, err := a.Exchange.GetTickerPrice(pair.ToCoin + bridge)
		if err != nil {
			log.Printf("[%s%s] threshold init: %s", pair.ToCoin, bridge, err.Error())
			continue
		}

		if toPrice <= 0.00 {
			continue
		}

		err = a.Coins.SetPairRatio(pair.Id, fromPrice/toPrice)
		if err == nil {
			log.Printf("[%s -> %s] baseline ratio initialized: %f", pair.FromCoin, pair.ToCoin, fromPrice/toPrice)
		}
	}
}

// UpdateTradeThreshold rewrites the baselines of all pairs leading into the
// freshly bought coin, anchored at its actual purchase price.
func (a *AutoTrader) UpdateTradeThreshold(coin string, coinPrice float64) {
	if coinPrice <= 0.00 {
		return
	}

	bridge := a.Config.BridgeSymbol

	for _, pair := range a.Coins.GetPairsTo(coin) {
		fromPrice, err := a.Exchange.GetTickerPrice(pair.FromCoin + bridge)
		if err != nil {
			log.Printf("[%s%s] threshold update: %s", pair.FromCoin, bridge, err.Error())
			continue
		}

		_ = a.Coins.SetPairRatio(pair.Id, fromPrice/coinPrice)
	}
}

// ScoutBestJump evaluates every pair leaving the current coin and returns
// the highest positive score, or nil when no jump beats its baseline after
// fees. All candidates are compared before choosing, a merely-first
// profitable pair is not automatically the best one.
func (a *AutoTrader) ScoutBestJump(currentCoin string, currentCoinPrice float64) *PairScore {
	bridge := a.Config.BridgeSymbol

	var best *PairScore

	for _, pair := range a.Coins.GetPairsFrom(currentCoin) {
		if !pair.HasRatio() {
			continue
		}

		otherCoinPrice, err := a.Exchange.GetTickerPrice(pair.ToCoin + bridge)
		if err != nil || otherCoinPrice <= 0.00 {
			continue
		}

		_ = a.Scouts.LogScout(model.ScoutHistory{
			PairId:           pair.Id,
			FromCoin:         pair.FromCoin,
			ToCoin:           pair.ToCoin,
			BaselineRatio:    pair.GetRatio(),
			CurrentCoinPrice: currentCoinPrice,
			OtherCoinPrice:   otherCoinPrice,
		})

		ratio := currentCoinPrice / otherCoinPrice
		fee := a.legFee(pair.FromCoin, true) + a.legFee(pair.ToCoin, false)
		adjusted := ratio - fee*a.Config.ScoutMultiplier*ratio
		score := adjusted - pair.GetRatio()

		if score <= 0.00 {
			continue
		}

		if best == nil || score > best.Score {
			best = &PairScore{
				Pair:      pair,
				Score:     score,
				FromPrice: currentCoinPrice,
				ToPrice:   otherCoinPrice,
			}
		}
	}

	return best
}

// JumpToBestCoin performs the rotation when the scout finds a winner.
func (a *AutoTrader) JumpToBestCoin(currentCoin string, currentCoinPrice float64) {
	best := a.ScoutBestJump(currentCoin, currentCoinPrice)
	if best == nil {
		return
	}

	log.Printf(
		"[%s -> %s] jump found, score %f, executing",
		best.Pair.FromCoin,
		best.Pair.ToCoin,
		best.Score,
	)

	a.TransactionThroughBridge(best.Pair, best.FromPrice, best.ToPrice)
}

// TransactionThroughBridge sells the source coin into the bridge and buys
// the target from the proceeds. The current coin only moves forward once
// the buy leg filled, a failed buy leaves the wallet parked in the bridge
// for BridgeScout to recover.
func (a *AutoTrader) TransactionThroughBridge(pair model.Pair, fromCoinPrice float64, toCoinPrice float64) {
	bridge := a.Config.BridgeSymbol

	sellOrder, err := a.Executor.SellAlt(pair.FromCoin, bridge, fromCoinPrice)
	if err != nil || sellOrder == nil {
		log.Printf("[%s%s] jump aborted, sell leg did not fill", pair.FromCoin, bridge)
		return
	}

	buyOrder, err := a.Executor.BuyAlt(pair.ToCoin, bridge, toCoinPrice)
	if err != nil || buyOrder == nil {
		log.Printf("[%s%s] buy leg failed, going back to scouting mode", pair.ToCoin, bridge)
		return
	}

	_ = a.Coins.SetCurrentCoin(pair.ToCoin)

	buyPrice := buyOrder.Price
	if buyPrice <= 0.00 && buyOrder.ExecutedQty > 0.00 {
		// Market fills report price 0, derive it from the totals.
		buyPrice = buyOrder.CummulativeQuoteQty / buyOrder.ExecutedQty
	}

	a.UpdateTradeThreshold(pair.ToCoin, buyPrice)
}

// BridgeScout buys back into the cheapest eligible coin when the wallet is
// sitting on a usable bridge balance, which happens after a buy leg failed
// mid-jump.
func (a *AutoTrader) BridgeScout() *model.Coin {
	bridge := a.Config.BridgeSymbol

	bridgeBalance, err := a.Backend.GetAssetBalance(bridge, false)
	if err != nil {
		log.Printf("[%s] bridge scout: %s", bridge, err.Error())
		return nil
	}

	for _, coin := range a.Coins.GetEnabledCoins() {
		symbol := coin.Symbol + bridge

		price, err := a.Exchange.GetTickerPrice(symbol)
		if err != nil || price <= 0.00 {
			continue
		}

		minNotional, err := a.Exchange.GetMinNotional(symbol)
		if err != nil {
			continue
		}

		coinBalance, err := a.Backend.GetAssetBalance(coin.Symbol, false)
		if err != nil {
			continue
		}

		if coinBalance*price > minNotional {
			// Already invested in this coin.
			continue
		}

		if bridgeBalance <= minNotional {
			return nil
		}

		log.Printf("[%s] bridge scout buys %s", bridge, coin.Symbol)

		order, err := a.Executor.BuyAlt(coin.Symbol, bridge, price)
		if err != nil || order == nil {
			continue
		}

		_ = a.Coins.SetCurrentCoin(coin.Symbol)

		return &coin
	}

	return nil
}

func (a *AutoTrader) legFee(coin string, selling bool) float64 {
	if a.Config.IsAutoFee() {
		return a.Exchange.GetFee(coin, a.Config.BridgeSymbol, selling)
	}

	fee, err := strconv.ParseFloat(a.Config.TradeFee, 64)
	if err != nil {
		return 0.001
	}

	return fee
}
