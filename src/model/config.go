package model

// BotConfig is the read-only trading configuration, loaded from the
// environment at startup.
type BotConfig struct {
	BridgeSymbol      string
	SupportedCoins    []string
	CurrentCoinSymbol string
	Strategy          string

	// TradeFee is a fixed per-leg fee rate or "auto" to derive the taker
	// fee from the exchange.
	TradeFee        string
	ScoutMultiplier float64
	ScoutSleepTime  int64

	BuyOrderType  string
	SellOrderType string

	BuyTimeoutMinutes  float64
	SellTimeoutMinutes float64

	BuyMaxPriceChange  float64
	SellMaxPriceChange float64

	UseBnbBurn             bool
	ScoutHistoryPruneHours float64
}

func (c *BotConfig) IsAutoFee() bool {
	return c.TradeFee == "auto"
}
