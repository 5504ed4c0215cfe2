package model

// Raw payloads of the Binance user data stream and the market miniTicker
// stream. The event discriminator is the "e" field.

const (
	EventExecutionReport         = "executionReport"
	EventBalanceUpdate           = "balanceUpdate"
	EventOutboundAccountPosition = "outboundAccountPosition"
	EventMiniTicker              = "24hrMiniTicker"
)

type StreamEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
}

type ExecutionReportEvent struct {
	EventType           string  `json:"e"`
	EventTime           int64   `json:"E"`
	Symbol              string  `json:"s"`
	Side                string  `json:"S"`
	OrderType           string  `json:"o"`
	OrderId             int64   `json:"i"`
	Price               float64 `json:"p,string"`
	OrigQty             float64 `json:"q,string"`
	ExecutedQty         float64 `json:"z,string"`
	CummulativeQuoteQty float64 `json:"Z,string"`
	Status              string  `json:"X"`
	CreationTime        int64   `json:"O"`
	TransactionTime     int64   `json:"T"`
}

func (e *ExecutionReportEvent) ToBinanceOrder() BinanceOrder {
	return BinanceOrder{
		OrderId:             e.OrderId,
		Symbol:              e.Symbol,
		TransactTime:        e.CreationTime,
		Price:               e.Price,
		OrigQty:             e.OrigQty,
		ExecutedQty:         e.ExecutedQty,
		CummulativeQuoteQty: e.CummulativeQuoteQty,
		Status:              e.Status,
		Type:                e.OrderType,
		Side:                e.Side,
		Timestamp:           e.TransactionTime,
	}
}

type BalanceUpdateEvent struct {
	EventType string  `json:"e"`
	EventTime int64   `json:"E"`
	Asset     string  `json:"a"`
	Delta     float64 `json:"d,string"`
}

type EventBalance struct {
	Asset  string  `json:"a"`
	Free   float64 `json:"f,string"`
	Locked float64 `json:"l,string"`
}

type OutboundAccountPositionEvent struct {
	EventType string         `json:"e"`
	EventTime int64          `json:"E"`
	Balances  []EventBalance `json:"B"`
}

type MiniTickerEvent struct {
	EventType  string  `json:"e"`
	EventTime  int64   `json:"E"`
	Symbol     string  `json:"s"`
	ClosePrice float64 `json:"c,string"`
}
