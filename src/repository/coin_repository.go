package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

type CoinStorageInterface interface {
	SetCoins(symbols []string) error
	GetEnabledCoins() []model.Coin
	GetPairs() []model.Pair
	GetPairsFrom(fromCoin string) []model.Pair
	GetPairsTo(toCoin string) []model.Pair
	SetPairRatio(pairId int64, ratio float64) error
	GetPairsWithoutRatio() []model.Pair
	GetCurrentCoin() *model.Coin
	SetCurrentCoin(symbol string) error
}

// CoinRepository persists the jumpable coin list, the pair ratio matrix and
// the current coin history.
type CoinRepository struct {
	DB          *sql.DB
	RDB         *redis.Client
	Ctx         *context.Context
	CurrentBot  *model.Bot
	TimeService TimeProviderInterface
}

type TimeProviderInterface interface {
	GetNowDateTimeString() string
}

// SetCoins reconciles the coin table with the configured list and creates
// the missing pair rows of the full from/to matrix. Coins removed from the
// configuration are disabled, not deleted, their ratio history stays
// intact.
func (c *CoinRepository) SetCoins(symbols []string) error {
	_, err := c.DB.Exec(`UPDATE coins c SET c.enabled = 0 WHERE c.bot_id = ?`, c.CurrentBot.Id)
	if err != nil {
		log.Println(err)
		return err
	}

	for _, symbol := range symbols {
		_, err = c.DB.Exec(`
			INSERT INTO coins SET
				symbol = ?,
				bot_id = ?,
				enabled = 1
			ON DUPLICATE KEY UPDATE enabled = 1`,
			symbol,
			c.CurrentBot.Id,
		)
		if err != nil {
			log.Println(err)
			return err
		}
	}

	for _, fromCoin := range symbols {
		for _, toCoin := range symbols {
			if fromCoin == toCoin {
				continue
			}

			_, err = c.DB.Exec(`
				INSERT IGNORE INTO pairs SET
					from_coin = ?,
					to_coin = ?,
					bot_id = ?,
					ratio = NULL`,
				fromCoin,
				toCoin,
				c.CurrentBot.Id,
			)
			if err != nil {
				log.Println(err)
				return err
			}
		}
	}

	return nil
}

func (c *CoinRepository) GetEnabledCoins() []model.Coin {
	coins := make([]model.Coin, 0)

	res, err := c.DB.Query(`
		SELECT
			c.symbol as Symbol,
			c.enabled as Enabled
		FROM coins c
		WHERE c.bot_id = ? AND c.enabled = 1
		ORDER BY c.symbol`, c.CurrentBot.Id,
	)

	if err != nil {
		log.Println(err)
		return coins
	}

	defer res.Close()

	for res.Next() {
		var coin model.Coin
		err = res.Scan(&coin.Symbol, &coin.Enabled)
		if err != nil {
			log.Println(err)
			continue
		}

		coins = append(coins, coin)
	}

	return coins
}

func (c *CoinRepository) GetPairs() []model.Pair {
	pairs := make([]model.Pair, 0)

	res, err := c.DB.Query(`
		SELECT
			p.id as Id,
			p.from_coin as FromCoin,
			p.to_coin as ToCoin,
			p.ratio as Ratio
		FROM pairs p
		WHERE p.bot_id = ?
		ORDER BY p.from_coin, p.to_coin`,
		c.CurrentBot.Id,
	)

	if err != nil {
		log.Println(err)
		return pairs
	}

	defer res.Close()

	for res.Next() {
		var pair model.Pair
		err = res.Scan(&pair.Id, &pair.FromCoin, &pair.ToCoin, &pair.Ratio)
		if err != nil {
			log.Println(err)
			continue
		}

		pairs = append(pairs, pair)
	}

	return pairs
}

func (c *CoinRepository) GetPairsFrom(fromCoin string) []model.Pair {
	pairs := make([]model.Pair, 0)

	res, err := c.DB.Query(`
		SELECT
			p.id as Id,
			p.from_coin as FromCoin,
			p.to_coin as ToCoin,
			p.ratio as Ratio
		FROM pairs p
		INNER JOIN coins c ON c.symbol = p.to_coin AND c.bot_id = p.bot_id
		WHERE p.from_coin = ? AND p.bot_id = ? AND c.enabled = 1
		ORDER BY p.to_coin`,
		fromCoin,
		c.CurrentBot.Id,
	)

	if err != nil {
		log.Println(err)
		return pairs
	}

	defer res.Close()

	for res.Next() {
		var pair model.Pair
		err = res.Scan(&pair.Id, &pair.FromCoin, &pair.ToCoin, &pair.Ratio)
		if err != nil {
			log.Println(err)
			continue
		}

		pairs = append(pairs, pair)
	}

	return pairs
}

func (c *CoinRepository) GetPairsTo(toCoin string) []model.Pair {
	pairs := make([]model.Pair, 0)

	res, err := c.DB.Query(`
		SELECT
			p.id as Id,
			p.from_coin as FromCoin,
			p.to_coin as ToCoin,
			p.ratio as Ratio
		FROM pairs p
		INNER JOIN coins c ON c.symbol = p.from_coin AND c.bot_id = p.bot_id
		WHERE p.to_coin = ? AND p.bot_id = ? AND c.enabled = 1
		ORDER BY p.from_coin`,
		toCoin,
		c.CurrentBot.Id,
	)

	if err != nil {
		log.Println(err)
		return pairs
	}

	defer res.Close()

	for res.Next() {
		var pair model.Pair
		err = res.Scan(&pair.Id, &pair.FromCoin, &pair.ToCoin, &pair.Ratio)
		if err != nil {
			log.Println(err)
			continue
		}

		pairs = append(pairs, pair)
	}

	return pairs
}

func (c *CoinRepository) GetPairsWithoutRatio() []model.Pair {
	pairs := make([]model.Pair, 0)

	res, err := c.DB.Query(`
		SELECT
			p.id as Id,
			p.from_coin as FromCoin,
			p.to_coin as ToCoin,
			p.ratio as Ratio
		FROM pairs p
		INNER JOIN coins cf ON cf.symbol = p.from_coin AND cf.bot_id = p.bot_id
		INNER JOIN coins ct ON ct.symbol = p.to_coin AND ct.bot_id = p.bot_id
		WHERE p.bot_id = ? AND p.ratio IS NULL AND cf.enabled = 1 AND ct.enabled = 1`,
		c.CurrentBot.Id,
	)

	if err != nil {
		log.Println(err)
		return pairs
	}

	defer res.Close()

	for res.Next() {
		var pair model.Pair
		err = res.Scan(&pair.Id, &pair.FromCoin, &pair.ToCoin, &pair.Ratio)
		if err != nil {
			log.Println(err)
			continue
		}

		pairs = append(pairs, pair)
	}

	return pairs
}

func (c *CoinRepository) SetPairRatio(pairId int64, ratio float64) error {
	_, err := c.DB.Exec(`UPDATE pairs p SET p.ratio = ? WHERE p.id = ?`, ratio, pairId)

	if err != nil {
		log.Println(err)
		return err
	}

	return nil
}

func (c *CoinRepository) GetCurrentCoin() *model.Coin {
	cached := c.RDB.Get(*c.Ctx, c.getCurrentCoinCacheKey()).Val()

	if len(cached) > 0 {
		var coin model.Coin
		err := json.Unmarshal([]byte(cached), &coin)
		if err == nil {
			return &coin
		}
	}

	var coin model.Coin

	err := c.DB.QueryRow(`
		SELECT
			h.coin as Symbol
		FROM current_coin_history h
		WHERE h.bot_id = ?
		ORDER BY h.id DESC
		LIMIT 1`, c.CurrentBot.Id,
	).Scan(&coin.Symbol)

	if err != nil {
		if err != sql.ErrNoRows {
			log.Println(err)
		}

		return nil
	}

	coin.Enabled = true

	encoded, err := json.Marshal(coin)
	if err == nil {
		c.RDB.Set(*c.Ctx, c.getCurrentCoinCacheKey(), string(encoded), time.Minute)
	}

	return &coin
}

func (c *CoinRepository) SetCurrentCoin(symbol string) error {
	_, err := c.DB.Exec(`
		INSERT INTO current_coin_history SET
			coin = ?,
			bot_id = ?,
			datetime = ?`,
		symbol,
		c.CurrentBot.Id,
		c.TimeService.GetNowDateTimeString(),
	)

	if err != nil {
		log.Println(err)
		return err
	}

	c.RDB.Del(*c.Ctx, c.getCurrentCoinCacheKey())

	return nil
}

func (c *CoinRepository) getCurrentCoinCacheKey() string {
	return fmt.Sprintf("current-coin-bot-%d", c.CurrentBot.Id)
}
