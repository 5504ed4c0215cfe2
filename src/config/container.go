package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gitlab.com/open-soft/go-coin-jumper/src/client"
	"gitlab.com/open-soft/go-coin-jumper/src/controller"
	"gitlab.com/open-soft/go-coin-jumper/src/model"
	"gitlab.com/open-soft/go-coin-jumper/src/repository"
	"gitlab.com/open-soft/go-coin-jumper/src/service"
	"gitlab.com/open-soft/go-coin-jumper/src/service/exchange"
	"gitlab.com/open-soft/go-coin-jumper/src/service/strategy"
	"gitlab.com/open-soft/go-coin-jumper/src/utils"
)

func InitServiceContainer() Container {
	db, err := sql.Open("mysql", os.Getenv("DATABASE_DSN"))
	if err != nil {
		log.Fatal(fmt.Sprintf("MySQL can't connect: %s", err.Error()))
	}

	db.SetMaxIdleConns(64)
	db.SetMaxOpenConns(64)
	db.SetConnMaxLifetime(time.Minute)

	var ctx = context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_DSN"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	httpClient := client.HttpClient{}
	binance := client.Binance{
		ApiKey:         os.Getenv("BINANCE_API_KEY"),
		ApiSecret:      os.Getenv("BINANCE_API_SECRET"),
		DestinationURI: envString("BINANCE_API_DSN", "https://api.binance.com"),
		HttpClient:     &httpClient,
	}

	botRepository := repository.BotRepository{
		DB:  db,
		RDB: rdb,
		Ctx: &ctx,
	}

	currentBot := botRepository.GetCurrentBot()
	if currentBot == nil {
		botUuid := os.Getenv("BOT_UUID")

		err = botRepository.Create(model.Bot{BotUuid: botUuid})
		if err != nil {
			panic(err)
		}

		currentBot = botRepository.GetCurrentBot()
		if currentBot == nil {
			panic(fmt.Sprintf("Can't initialize bot: %s", botUuid))
		}
	}

	// Primes the bot cache so later lookups skip the database.
	cachedBot := botRepository.GetCurrentBotCached(currentBot.Id)
	currentBot = &cachedBot

	botConfig := parseBotConfig()

	timeService := utils.TimeHelper{}
	formatter := utils.Formatter{}

	cache := exchange.NewExchangeCache()
	guardian := exchange.NewOrderGuardian()

	balanceService := exchange.BalanceService{
		Binance: &binance,
		Cache:   cache,
	}

	exchangeManager := exchange.ExchangeManager{
		RDB:            rdb,
		Ctx:            &ctx,
		Binance:        &binance,
		AccountAPI:     &binance,
		Cache:          cache,
		BalanceService: &balanceService,
		Formatter:      &formatter,
		TimeService:    &timeService,
		CurrentBot:     currentBot,
		UseBnbBurn:     botConfig.UseBnbBurn,
	}

	var backend exchange.OrderBalanceManagerInterface
	if envBool("PAPER_TRADING", false) {
		paperBackend := exchange.NewPaperOrderBalanceManager(&exchangeManager, cache, &timeService)
		paperBackend.Deposit(botConfig.BridgeSymbol, envFloat("PAPER_BALANCE", 10000.00))
		backend = paperBackend
		log.Printf("paper trading mode is enabled")
	} else {
		backend = &exchange.OrderBalanceManager{
			Binance:        &binance,
			BalanceService: &balanceService,
		}
	}

	callbackManager := service.CallbackManager{
		CallbackHost: os.Getenv("CALLBACK_DSN"),
		HttpClient:   &httpClient,
		TimeService:  &timeService,
	}

	coinRepository := repository.CoinRepository{
		DB:          db,
		RDB:         rdb,
		Ctx:         &ctx,
		CurrentBot:  currentBot,
		TimeService: &timeService,
	}

	tradeRepository := repository.TradeRepository{
		DB:          db,
		RDB:         rdb,
		Ctx:         &ctx,
		CurrentBot:  currentBot,
		TimeService: &timeService,
	}

	orderExecutor := exchange.OrderExecutor{
		Config:        &botConfig,
		CurrentBot:    currentBot,
		Backend:       backend,
		Exchange:      &exchangeManager,
		Cache:         cache,
		Guardian:      guardian,
		Formatter:     &formatter,
		TimeService:   &timeService,
		TradeRecorder: &tradeRepository,
		Callback:      &callbackManager,
	}

	autoTrader := strategy.AutoTrader{
		Config:   &botConfig,
		Exchange: &exchangeManager,
		Executor: &orderExecutor,
		Backend:  backend,
		Coins:    &coinRepository,
		Scouts:   &tradeRepository,
	}

	scoutStrategy, err := strategy.Resolve(botConfig.Strategy, &autoTrader, &coinRepository)
	if err != nil {
		log.Fatal(err)
	}

	streamProcessor := exchange.StreamProcessor{
		Binance:       &binance,
		OrderAPI:      &binance,
		Cache:         cache,
		Guardian:      guardian,
		StreamAddress: envString("BINANCE_STREAM_DSN", "wss://stream.binance.com:9443"),
	}

	valueTracker := service.ValueTracker{
		Config:   &botConfig,
		Backend:  backend,
		Exchange: &exchangeManager,
		Coins:    &coinRepository,
		Trades:   &tradeRepository,
	}

	botController := controller.BotController{
		CurrentBot:      currentBot,
		Config:          &botConfig,
		CoinRepository:  &coinRepository,
		TradeRepository: &tradeRepository,
	}

	return Container{
		Db:              db,
		CurrentBot:      currentBot,
		BotConfig:       &botConfig,
		TimeService:     &timeService,
		Binance:         &binance,
		Cache:           cache,
		Guardian:        guardian,
		BalanceService:  &balanceService,
		ExchangeManager: &exchangeManager,
		Backend:         backend,
		CallbackManager: &callbackManager,
		CoinRepository:  &coinRepository,
		TradeRepository: &tradeRepository,
		OrderExecutor:   &orderExecutor,
		AutoTrader:      &autoTrader,
		Strategy:        scoutStrategy,
		StreamProcessor: &streamProcessor,
		ValueTracker:    &valueTracker,
		BotController:   &botController,
	}
}

type Container struct {
	Db              *sql.DB
	CurrentBot      *model.Bot
	BotConfig       *model.BotConfig
	TimeService     *utils.TimeHelper
	Binance         *client.Binance
	Cache           *exchange.ExchangeCache
	Guardian        *exchange.OrderGuardian
	BalanceService  *exchange.BalanceService
	ExchangeManager *exchange.ExchangeManager
	Backend         exchange.OrderBalanceManagerInterface
	CallbackManager *service.CallbackManager
	CoinRepository  *repository.CoinRepository
	TradeRepository *repository.TradeRepository
	OrderExecutor   *exchange.OrderExecutor
	AutoTrader      *strategy.AutoTrader
	Strategy        strategy.ScoutStrategyInterface
	StreamProcessor *exchange.StreamProcessor
	ValueTracker    *service.ValueTracker
	BotController   *controller.BotController
}

func (c *Container) StartHttpServer() {
	http.HandleFunc("/health/check", c.BotController.GetHealthCheck)
	http.HandleFunc("/coin/current", c.BotController.GetCurrentCoin)
	http.HandleFunc("/coin/list", c.BotController.GetCoinList)
	http.HandleFunc("/pair/list", c.BotController.GetPairList)
	http.HandleFunc("/trade/history", c.BotController.GetTradeHistory)
	http.HandleFunc("/scout/history", c.BotController.GetScoutHistory)
	http.HandleFunc("/value/history", c.BotController.GetCoinValueHistory)

	go func() {
		_ = http.ListenAndServe(":8080", nil)
	}()
}

func parseBotConfig() model.BotConfig {
	supportedCoins := make([]string, 0)
	for _, symbol := range strings.Split(envString("SUPPORTED_COIN_LIST", ""), ",") {
		symbol = strings.TrimSpace(strings.ToUpper(symbol))
		if symbol != "" {
			supportedCoins = append(supportedCoins, symbol)
		}
	}

	if len(supportedCoins) == 0 {
		panic("'SUPPORTED_COIN_LIST' variable must be set!")
	}

	return model.BotConfig{
		BridgeSymbol:           envString("BRIDGE_SYMBOL", "USDT"),
		SupportedCoins:         supportedCoins,
		CurrentCoinSymbol:      strings.ToUpper(os.Getenv("CURRENT_COIN_SYMBOL")),
		Strategy:               envString("STRATEGY", strategy.StrategyDefault),
		TradeFee:               envString("SCOUT_TRANSACTION_FEE", "auto"),
		ScoutMultiplier:        envFloat("SCOUT_MULTIPLIER", 5.00),
		ScoutSleepTime:         envInt("SCOUT_SLEEP_TIME", 5),
		BuyOrderType:           envString("BUY_ORDER_TYPE", model.OrderTypeLimit),
		SellOrderType:          envString("SELL_ORDER_TYPE", model.OrderTypeLimit),
		BuyTimeoutMinutes:      envFloat("BUY_TIMEOUT", 0.00),
		SellTimeoutMinutes:     envFloat("SELL_TIMEOUT", 0.00),
		BuyMaxPriceChange:      envFloat("BUY_MAX_PRICE_CHANGE", 0.005),
		SellMaxPriceChange:     envFloat("SELL_MAX_PRICE_CHANGE", 0.005),
		UseBnbBurn:             envBool("USE_BNB_BURN", true),
		ScoutHistoryPruneHours: envFloat("SCOUT_HISTORY_PRUNE_TIME", 1.00),
	}
}

func envString(name string, fallback string) string {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}

	return value
}

func envFloat(name string, fallback float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(name), 64)
	if err != nil {
		return fallback
	}

	return value
}

func envInt(name string, fallback int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(name), 10, 64)
	if err != nil {
		return fallback
	}

	return value
}

func envBool(name string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(name))
	if err != nil {
		return fallback
	}

	return value
}
