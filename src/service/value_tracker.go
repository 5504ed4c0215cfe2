package service

import (
	"log"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
	"gitlab.com/open-soft/go-coin-jumper/src/repository"
	"gitlab.com/open-soft/go-coin-jumper/src/service/exchange"
)

// ValueTracker snapshots the wallet value of every enabled coin so the
// dashboard can chart performance over time.
type ValueTracker struct {
	Config   *model.BotConfig
	Backend  exchange.OrderBalanceManagerInterface
	Exchange exchange.ExchangeManagerInterface
	Coins    repository.CoinStorageInterface
	Trades   *repository.TradeRepository
}

func (v *ValueTracker) UpdateValues() {
	for _, coin := range v.Coins.GetEnabledCoins() {
		balance, err := v.Backend.GetAssetBalance(coin.Symbol, false)
		if err != nil {
			log.Printf("[%s] value update: %s", coin.Symbol, err.Error())
			continue
		}

		if balance == 0.00 {
			continue
		}

		value := model.CoinValue{
			Coin:     coin.Symbol,
			Balance:  balance,
			UsdValue: v.valueIn(coin.Symbol, "USDT", balance),
			BtcValue: v.valueIn(coin.Symbol, "BTC", balance),
		}

		err = v.Trades.SaveCoinValue(value)
		if err != nil {
			log.Printf("[%s] value update: %s", coin.Symbol, err.Error())
		}
	}
}

func (v *ValueTracker) valueIn(coin string, quote string, balance float64) *float64 {
	if coin == quote {
		return &balance
	}

	price, err := v.Exchange.GetTickerPrice(coin + quote)
	if err != nil {
		return nil
	}

	value := balance * price

	return &value
}
