package model

const (
	OrderStatusNew             = "NEW"
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED"
	OrderStatusFilled          = "FILLED"
	OrderStatusCanceled        = "CANCELED"

	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"

	OrderTypeLimit  = "LIMIT"
	OrderTypeMarket = "MARKET"
)

type BinanceOrder struct {
	OrderId             int64   `json:"orderId"`
	Symbol              string  `json:"symbol"`
	TransactTime        int64   `json:"transactTime"`
	Price               float64 `json:"price,string"`
	OrigQty             float64 `json:"origQty,string"`
	ExecutedQty         float64 `json:"executedQty,string"`
	CummulativeQuoteQty float64 `json:"cummulativeQuoteQty,string"`
	Status              string  `json:"status"`
	Type                string  `json:"type"`
	Side                string  `json:"side"`
	Timestamp           int64   `json:"time"`
}

func (b *BinanceOrder) IsBuy() bool {
	return b.Side == OrderSideBuy
}

func (b *BinanceOrder) IsSell() bool {
	return b.Side == OrderSideSell
}

func (b *BinanceOrder) IsNew() bool {
	return b.Status == OrderStatusNew
}

func (b *BinanceOrder) IsFilled() bool {
	return b.Status == OrderStatusFilled
}

func (b *BinanceOrder) IsCanceled() bool {
	return b.Status == OrderStatusCanceled
}

func (b *BinanceOrder) IsExpired() bool {
	return b.Status == "EXPIRED" || b.Status == "EXPIRED_IN_MATCH"
}

func (b *BinanceOrder) IsPartiallyFilled() bool {
	return b.Status == OrderStatusPartiallyFilled
}

func (b *BinanceOrder) HasExecutedQuantity() bool {
	return b.ExecutedQty > 0
}

func (b *BinanceOrder) GetExecutedQuantity() float64 {
	return b.ExecutedQty
}

// OrderTag identifies an in-flight order in the pending set between the
// placement call and the first fill report observed on the stream.
type OrderTag struct {
	Symbol  string
	OrderId int64
}
