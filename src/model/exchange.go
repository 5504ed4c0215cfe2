package model

type Balance struct {
	Asset  string  `json:"asset"`
	Free   float64 `json:"free,string"`
	Locked float64 `json:"locked,string"`
}

type AccountStatus struct {
	Balances []Balance `json:"balances"`
}

type WSTickerPrice struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price,string"`
}

const (
	BinanceExchangeFilterTypeLotSize  = "LOT_SIZE"
	BinanceExchangeFilterTypeNotional = "NOTIONAL"
	BinanceExchangeFilterTypePrice    = "PRICE_FILTER"
)

type ExchangeFilter struct {
	FilterType  string  `json:"filterType"`
	MinPrice    *string `json:"minPrice,omitempty"`
	TickSize    *string `json:"tickSize,omitempty"`
	MinQuantity *string `json:"minQty,omitempty"`
	MaxQuantity *string `json:"maxQty,omitempty"`
	StepSize    *string `json:"stepSize,omitempty"`
	MinNotional *string `json:"minNotional,omitempty"`
}

type ExchangeSymbol struct {
	Symbol     string           `json:"symbol"`
	Status     string           `json:"status"`
	BaseAsset  string           `json:"baseAsset"`
	QuoteAsset string           `json:"quoteAsset"`
	Filters    []ExchangeFilter `json:"filters"`
}

type ExchangeInfo struct {
	Symbols []ExchangeSymbol `json:"symbols"`
}

type TradeFee struct {
	Symbol          string  `json:"symbol"`
	TakerCommission float64 `json:"takerCommission,string"`
	MakerCommission float64 `json:"makerCommission,string"`
}

type BnbBurnStatus struct {
	SpotBNBBurn bool `json:"spotBNBBurn"`
}

type ListenKey struct {
	ListenKey string `json:"listenKey"`
}

type BinanceError struct {
	Code    int64  `json:"code"`
	Message string `json:"msg"`
}
