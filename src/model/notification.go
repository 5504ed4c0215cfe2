package model

type ErrorNotification struct {
	BotId        int64  `json:"botId"`
	ErrorMessage string `json:"errorMessage"`
}

type OrderNotification struct {
	BotId     int64   `json:"botId"`
	Symbol    string  `json:"symbol"`
	Operation string  `json:"operation"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	DateTime  string  `json:"dateTime"`
}
