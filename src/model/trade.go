package model

const (
	TradeStateStarting = "starting"
	TradeStateOrdered  = "ordered"
	TradeStateComplete = "complete"
)

// TradeLog is one leg of a rotation, persisted for audit and for the
// scout's fee bookkeeping.
type TradeLog struct {
	Id                    int64    `json:"id"`
	AltCoin               string   `json:"altCoin"`
	CryptoCoin            string   `json:"cryptoCoin"`
	Selling               bool     `json:"selling"`
	State                 string   `json:"state"`
	AltStartingBalance    *float64 `json:"altStartingBalance"`
	CryptoStartingBalance *float64 `json:"cryptoStartingBalance"`
	AltTradeAmount        *float64 `json:"altTradeAmount"`
	CryptoTradeAmount     *float64 `json:"cryptoTradeAmount"`
	DateTime              string   `json:"dateTime"`
}

type ScoutHistory struct {
	Id               int64   `json:"id"`
	PairId           int64   `json:"pairId"`
	FromCoin         string  `json:"fromCoin"`
	ToCoin           string  `json:"toCoin"`
	BaselineRatio    float64 `json:"baselineRatio"`
	CurrentCoinPrice float64 `json:"currentCoinPrice"`
	OtherCoinPrice   float64 `json:"otherCoinPrice"`
	DateTime         string  `json:"dateTime"`
}

type CoinValue struct {
	Id       int64    `json:"id"`
	Coin     string   `json:"coin"`
	Balance  float64  `json:"balance"`
	UsdValue *float64 `json:"usdValue"`
	BtcValue *float64 `json:"btcValue"`
	DateTime string   `json:"dateTime"`
}
