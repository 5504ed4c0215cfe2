package repository

import (
	"context"
	"database/sql"
	"log"

	"github.com/redis/go-redis/v9"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

// TradeRepository is the trade ledger plus the scout and portfolio value
// history behind the dashboard.
type TradeRepository struct {
	DB          *sql.DB
	RDB         *redis.Client
	Ctx         *context.Context
	CurrentBot  *model.Bot
	TimeService TimeProviderInterface
}

func (t *TradeRepository) StartTradeLog(altCoin string, cryptoCoin string, selling bool) (int64, error) {
	res, err := t.DB.Exec(`
		INSERT INTO trade_history SET
			alt_coin = ?,
			crypto_coin = ?,
			selling = ?,
			state = ?,
			bot_id = ?,
			datetime = ?`,
		altCoin,
		cryptoCoin,
		selling,
		model.TradeStateStarting,
		t.CurrentBot.Id,
		t.TimeService.GetNowDateTimeString(),
	)

	if err != nil {
		log.Println(err)
		return 0, err
	}

	return res.LastInsertId()
}

func (t *TradeRepository) SetOrdered(tradeId int64, altStartingBalance float64, cryptoStartingBalance float64, altTradeAmount float64) error {
	_, err := t.DB.Exec(`
		UPDATE trade_history h SET
			h.state = ?,
			h.alt_starting_balance = ?,
			h.crypto_starting_balance = ?,
			h.alt_trade_amount = ?
		WHERE h.id = ?`,
		model.TradeStateOrdered,
		altStartingBalance,
		cryptoStartingBalance,
		altTradeAmount,
		tradeId,
	)

	if err != nil {
		log.Println(err)
		return err
	}

	return nil
}

func (t *TradeRepository) SetComplete(tradeId int64, cryptoTradeAmount float64) error {
	_, err := t.DB.Exec(`
		UPDATE trade_history h SET
			h.state = ?,
			h.crypto_trade_amount = ?
		WHERE h.id = ?`,
		model.TradeStateComplete,
		cryptoTradeAmount,
		tradeId,
	)

	if err != nil {
		log.Println(err)
		return err
	}

	return nil
}

func (t *TradeRepository) GetTradeHistory(limit int64) []model.TradeLog {
	trades := make([]model.TradeLog, 0)

	res, err := t.DB.Query(`
		SELECT
			h.id as Id,
			h.alt_coin as AltCoin,
			h.crypto_coin as CryptoCoin,
			h.selling as Selling,
			h.state as State,
			h.alt_starting_balance as AltStartingBalance,
			h.crypto_starting_balance as CryptoStartingBalance,
			h.alt_trade_amount as AltTradeAmount,
			h.crypto_trade_amount as CryptoTradeAmount,
			h.datetime as DateTime
		FROM trade_history h
		WHERE h.bot_id = ?
		ORDER BY h.id DESC
		LIMIT ?`,
		t.CurrentBot.Id,
		limit,
	)

	if err != nil {
		log.Println(err)
		return trades
	}

	defer res.Close()

	for res.Next() {
		var trade model.TradeLog
		err = res.Scan(
			&trade.Id,
			&trade.AltCoin,
			&trade.CryptoCoin,
			&trade.Selling,
			&trade.State,
			&trade.AltStartingBalance,
			&trade.CryptoStartingBalance,
			&trade.AltTradeAmount,
			&trade.CryptoTradeAmount,
			&trade.DateTime,
		)
		if err != nil {
			log.Println(err)
			continue
		}

		trades = append(trades, trade)
	}

	return trades
}

func (t *TradeRepository) LogScout(scout model.ScoutHistory) error {
	_, err := t.DB.Exec(`
		INSERT INTO scout_history SET
			pair_id = ?,
			from_coin = ?,
			to_coin = ?,
			baseline_ratio = ?,
			current_coin_price = ?,
			other_coin_price = ?,
			bot_id = ?,
			datetime = ?`,
		scout.PairId,
		scout.FromCoin,
		scout.ToCoin,
		scout.BaselineRatio,
		scout.CurrentCoinPrice,
		scout.OtherCoinPrice,
		t.CurrentBot.Id,
		t.TimeService.GetNowDateTimeString(),
	)

	if err != nil {
		log.Println(err)
		return err
	}

	return nil
}

func (t *TradeRepository) GetScoutHistory(limit int64) []model.ScoutHistory {
	scouts := make([]model.ScoutHistory, 0)

	res, err := t.DB.Query(`
		SELECT
			s.id as Id,
			s.pair_id as PairId,
			s.from_coin as FromCoin,
			s.to_coin as ToCoin,
			s.baseline_ratio as BaselineRatio,
			s.current_coin_price as CurrentCoinPrice,
			s.other_coin_price as OtherCoinPrice,
			s.datetime as DateTime
		FROM scout_history s
		WHERE s.bot_id = ?
		ORDER BY s.id DESC
		LIMIT ?`,
		t.CurrentBot.Id,
		limit,
	)

	if err != nil {
		log.Println(err)
		return scouts
	}

	defer res.Close()

	for res.Next() {
		var scout model.ScoutHistory
		err = res.Scan(
			&scout.Id,
			&scout.PairId,
			&scout.FromCoin,
			&scout.ToCoin,
			&scout.BaselineRatio,
			&scout.CurrentCoinPrice,
			&scout.OtherCoinPrice,
			&scout.DateTime,
		)
		if err != nil {
			log.Println(err)
			continue
		}

		scouts = append(scouts, scout)
	}

	return scouts
}

// PruneScoutHistory drops scout rows older than the retention window. The
// scout inserts one row per pair on every tick, without pruning the table
// dominates the database within days.
func (t *TradeRepository) PruneScoutHistory(hours float64) error {
	_, err := t.DB.Exec(`
		DELETE FROM scout_history
		WHERE bot_id = ? AND datetime < NOW() - INTERVAL ? HOUR`,
		t.CurrentBot.Id,
		hours,
	)

	if err != nil {
		log.Println(err)
		return err
	}

	return nil
}

func (t *TradeRepository) SaveCoinValue(value model.CoinValue) error {
	_, err := t.DB.Exec(`
		INSERT INTO coin_value_history SET
			coin = ?,
			balance = ?,
			usd_value = ?,
			btc_value = ?,
			bot_id = ?,
			datetime = ?`,
		value.Coin,
		value.Balance,
		value.UsdValue,
		value.BtcValue,
		t.CurrentBot.Id,
		t.TimeService.GetNowDateTimeString(),
	)

	if err != nil {
		log.Println(err)
		return err
	}

	return nil
}

func (t *TradeRepository) GetCoinValueHistory(coin string, limit int64) []model.CoinValue {
	values := make([]model.CoinValue, 0)

	res, err := t.DB.Query(`
		SELECT
			v.id as Id,
			v.coin as Coin,
			v.balance as Balance,
			v.usd_value as UsdValue,
			v.btc_value as BtcValue,
			v.datetime as DateTime
		FROM coin_value_history v
		WHERE v.bot_id = ? AND v.coin = ?
		ORDER BY v.id DESC
		LIMIT ?`,
		t.CurrentBot.Id,
		coin,
		limit,
	)

	if err != nil {
		log.Println(err)
		return values
	}

	defer res.Close()

	for res.Next() {
		var value model.CoinValue
		err = res.Scan(
			&value.Id,
			&value.Coin,
			&value.Balance,
			&value.UsdValue,
			&value.BtcValue,
			&value.DateTime,
		)
		if err != nil {
			log.Println(err)
			continue
		}

		values = append(values, value)
	}

	return values
}
