package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

func ratio(value float64) *float64 {
	return &value
}

func fixedFeeConfig() *model.BotConfig {
	return &model.BotConfig{
		BridgeSymbol:    "USDT",
		SupportedCoins:  []string{"ETH", "BNB", "DOGE"},
		TradeFee:        "0.001",
		ScoutMultiplier: 5.00,
	}
}

func newTestTrader(config *model.BotConfig) (*AutoTrader, *ExchangeManagerMock, *OrderExecutorMock, *BackendMock, *CoinStorageMock, *ScoutLoggerMock) {
	exchangeManager := new(ExchangeManagerMock)
	executor := new(OrderExecutorMock)
	backend := new(BackendMock)
	coins := new(CoinStorageMock)
	scouts := new(ScoutLoggerMock)

	trader := &AutoTrader{
		Config:   config,
		Exchange: exchangeManager,
		Executor: executor,
		Backend:  backend,
		Coins:    coins,
		Scouts:   scouts,
	}

	return trader, exchangeManager, executor, backend, coins, scouts
}

// ETH at 2000 and BNB at 400 gives a price ratio of 5. With two 0.1% fee
// legs and a multiplier of 5 the adjusted ratio is 4.95, so a baseline of
// 5.05 must not trigger a jump.
func TestScoutDoesNotJumpBelowBaseline(t *testing.T) {
	assertion := assert.New(t)
	trader, exchangeManager, _, _, coins, scouts := newTestTrader(fixedFeeConfig())

	coins.On("GetPairsFrom", "ETH").Return([]model.Pair{
		{Id: 1, FromCoin: "ETH", ToCoin: "BNB", Ratio: ratio(5.05)},
	})
	exchangeManager.On("GetTickerPrice", "BNBUSDT").Return(400.00, nil)
	scouts.On("LogScout", mock.Anything).Return(nil)

	best := trader.ScoutBestJump("ETH", 2000.00)
	assertion.Nil(best)
}

func TestScoutFindsJumpAboveBaseline(t *testing.T) {
	assertion := assert.New(t)
	trader, exchangeManager, _, _, coins, scouts := newTestTrader(fixedFeeConfig())

	coins.On("GetPairsFrom", "ETH").Return([]model.Pair{
		{Id: 1, FromCoin: "ETH", ToCoin: "BNB", Ratio: ratio(4.80)},
	})
	exchangeManager.On("GetTickerPrice", "BNBUSDT").Return(400.00, nil)
	scouts.On("LogScout", mock.Anything).Return(nil)

	best := trader.ScoutBestJump("ETH", 2000.00)
	assertion.NotNil(best)
	assertion.Equal("BNB", best.Pair.ToCoin)
	assertion.InDelta(0.15, best.Score, 0.0000001)
}

// All candidates are compared, the winner is the highest score and not the
// first profitable pair in iteration order.
func TestScoutPicksBestOfSeveralCandidates(t *testing.T) {
	assertion := assert.New(t)
	trader, exchangeManager, _, _, coins, scouts := newTestTrader(fixedFeeConfig())

	coins.On("GetPairsFrom", "ETH").Return([]model.Pair{
		{Id: 1, FromCoin: "ETH", ToCoin: "DOGE", Ratio: ratio(24990.00)},
		{Id: 2, FromCoin: "ETH", ToCoin: "BNB", Ratio: ratio(4.80)},
	})
	// DOGE at 0.08: ratio 25000, adjusted 24750, score is negative.
	exchangeManager.On("GetTickerPrice", "DOGEUSDT").Return(0.08, nil)
	exchangeManager.On("GetTickerPrice", "BNBUSDT").Return(400.00, nil)
	scouts.On("LogScout", mock.Anything).Return(nil)

	best := trader.ScoutBestJump("ETH", 2000.00)
	assertion.NotNil(best)
	assertion.Equal("BNB", best.Pair.ToCoin)
}

func TestScoutSkipsPairsWithoutBaseline(t *testing.T) {
	assertion := assert.New(t)
	trader, exchangeManager, _, _, coins, scouts := newTestTrader(fixedFeeConfig())

	coins.On("GetPairsFrom", "ETH").Return([]model.Pair{
		{Id: 1, FromCoin: "ETH", ToCoin: "BNB"},
	})

	best := trader.ScoutBestJump("ETH", 2000.00)
	assertion.Nil(best)

	exchangeManager.AssertNotCalled(t, "GetTickerPrice", mock.Anything)
	scouts.AssertNotCalled(t, "LogScout", mock.Anything)
}

func TestTransactionThroughBridgeRotatesCurrentCoin(t *testing.T) {
	trader, exchangeManager, executor, _, coins, _ := newTestTrader(fixedFeeConfig())

	pair := model.Pair{Id: 2, FromCoin: "ETH", ToCoin: "BNB", Ratio: ratio(4.80)}

	executor.On("SellAlt", "ETH", "USDT", 2000.00).Return(&model.BinanceOrder{
		OrderId: 1,
		Symbol:  "ETHUSDT",
		Status:  model.OrderStatusFilled,
	}, nil)
	executor.On("BuyAlt", "BNB", "USDT", 400.00).Return(&model.BinanceOrder{
		OrderId:             2,
		Symbol:              "BNBUSDT",
		Price:               400.00,
		ExecutedQty:         2.50,
		CummulativeQuoteQty: 1000.00,
		Status:              model.OrderStatusFilled,
	}, nil)
	coins.On("SetCurrentCoin", "BNB").Return(nil)

	// Baselines into the bought coin are re-anchored at its buy price.
	coins.On("GetPairsTo", "BNB").Return([]model.Pair{
		{Id: 5, FromCoin: "ETH", ToCoin: "BNB", Ratio: ratio(4.80)},
	})
	exchangeManager.On("GetTickerPrice", "ETHUSDT").Return(2000.00, nil)
	coins.On("SetPairRatio", int64(5), 5.00).Return(nil)

	trader.TransactionThroughBridge(pair, 2000.00, 400.00)

	executor.AssertExpectations(t)
	coins.AssertExpectations(t)
}

func TestTransactionThroughBridgeKeepsCoinWhenBuyFails(t *testing.T) {
	trader, _, executor, _, coins, _ := newTestTrader(fixedFeeConfig())

	pair := model.Pair{Id: 2, FromCoin: "ETH", ToCoin: "BNB", Ratio: ratio(4.80)}

	executor.On("SellAlt", "ETH", "USDT", 2000.00).Return(&model.BinanceOrder{
		OrderId: 1,
		Symbol:  "ETHUSDT",
		Status:  model.OrderStatusFilled,
	}, nil)
	executor.On("BuyAlt", "BNB", "USDT", 400.00).Return(nil, nil)

	trader.TransactionThroughBridge(pair, 2000.00, 400.00)

	coins.AssertNotCalled(t, "SetCurrentCoin", mock.Anything)
}

func TestTransactionThroughBridgeAbortsWhenSellFails(t *testing.T) {
	trader, _, executor, _, coins, _ := newTestTrader(fixedFeeConfig())

	pair := model.Pair{Id: 2, FromCoin: "ETH", ToCoin: "BNB", Ratio: ratio(4.80)}

	executor.On("SellAlt", "ETH", "USDT", 2000.00).Return(nil, nil)

	trader.TransactionThroughBridge(pair, 2000.00, 400.00)

	executor.AssertNotCalled(t, "BuyAlt", mock.Anything, mock.Anything, mock.Anything)
	coins.AssertNotCalled(t, "SetCurrentCoin", mock.Anything)
}

func TestInitializeTradeThresholdsSeedsMissingRatios(t *testing.T) {
	trader, exchangeManager, _, _, coins, _ := newTestTrader(fixedFeeConfig())

	coins.On("GetPairsWithoutRatio").Return([]model.Pair{
		{Id: 1, FromCoin: "ETH", ToCoin: "BNB"},
	})
	exchangeManager.On("GetTickerPrice", "ETHUSDT").Return(2000.00, nil)
	exchangeManager.On("GetTickerPrice", "BNBUSDT").Return(400.00, nil)
	coins.On("SetPairRatio", int64(1), 5.00).Return(nil)

	trader.InitializeTradeThresholds()

	coins.AssertExpectations(t)
}

func TestBridgeScoutBuysBackIntoFirstAffordableCoin(t *testing.T) {
	assertion := assert.New(t)
	trader, exchangeManager, executor, backend, coins, _ := newTestTrader(fixedFeeConfig())

	backend.On("GetAssetBalance", "USDT", false).Return(1000.00, nil)
	coins.On("GetEnabledCoins").Return([]model.Coin{
		{Symbol: "ETH", Enabled: true},
		{Symbol: "BNB", Enabled: true},
	})
	exchangeManager.On("GetTickerPrice", "ETHUSDT").Return(2000.00, nil)
	exchangeManager.On("GetMinNotional", "ETHUSDT").Return(10.00, nil)
	backend.On("GetAssetBalance", "ETH", false).Return(0.00, nil)
	executor.On("BuyAlt", "ETH", "USDT", 2000.00).Return(&model.BinanceOrder{
		OrderId: 1,
		Symbol:  "ETHUSDT",
		Status:  model.OrderStatusFilled,
	}, nil)
	coins.On("SetCurrentCoin", "ETH").Return(nil)

	coin := trader.BridgeScout()
	assertion.NotNil(coin)
	assertion.Equal("ETH", coin.Symbol)

	executor.AssertExpectations(t)
}

func TestBridgeScoutSkipsCoinsAlreadyHeld(t *testing.T) {
	assertion := assert.New(t)
	trader, exchangeManager, executor, backend, coins, _ := newTestTrader(fixedFeeConfig())

	backend.On("GetAssetBalance", "USDT", false).Return(5.00, nil)
	coins.On("GetEnabledCoins").Return([]model.Coin{
		{Symbol: "ETH", Enabled: true},
	})
	exchangeManager.On("GetTickerPrice", "ETHUSDT").Return(2000.00, nil)
	exchangeManager.On("GetMinNotional", "ETHUSDT").Return(10.00, nil)

	// 0.5 ETH at 2000 is well above the minimal notional, the wallet is
	// still invested.
	backend.On("GetAssetBalance", "ETH", false).Return(0.50, nil)

	coin := trader.BridgeScout()
	assertion.Nil(coin)

	executor.AssertNotCalled(t, "BuyAlt", mock.Anything, mock.Anything, mock.Anything)
}
