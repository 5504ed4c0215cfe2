package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

type ExchangeOrderAPIInterface interface {
	CreateOrder(params map[string]string) (model.BinanceOrder, error)
	QueryOrder(symbol string, orderId int64) (model.BinanceOrder, error)
	CancelOrder(symbol string, orderId int64) (model.BinanceOrder, error)
	GetOpenedOrders() ([]model.BinanceOrder, error)
}

type ExchangeAccountAPIInterface interface {
	GetAccountStatus() (*model.AccountStatus, error)
	GetTradeFees() ([]model.TradeFee, error)
	GetBnbBurnStatus() (*model.BnbBurnStatus, error)
}

type ExchangePriceAPIInterface interface {
	GetTickerPrices() ([]model.WSTickerPrice, error)
	GetExchangeInfo(symbols []string) (*model.ExchangeInfo, error)
}

type ExchangeStreamAPIInterface interface {
	CreateListenKey() (string, error)
	KeepAliveListenKey(listenKey string) error
}

type Binance struct {
	ApiKey         string
	ApiSecret      string
	DestinationURI string

	HttpClient *HttpClient
}

func (b *Binance) GetExchangeInfo(symbols []string) (*model.ExchangeInfo, error) {
	query := ""
	if len(symbols) > 0 {
		encoded, _ := json.Marshal(symbols)
		query = fmt.Sprintf("?symbols=%s", url.QueryEscape(string(encoded)))
	}

	response, err := b.HttpClient.Get(fmt.Sprintf("%s/api/v3/exchangeInfo%s", b.DestinationURI, query), nil)
	if err != nil {
		return nil, err
	}

	var exchangeInfo model.ExchangeInfo
	err = json.Unmarshal(response, &exchangeInfo)
	if err != nil {
		return nil, err
	}

	return &exchangeInfo, nil
}

func (b *Binance) GetTickerPrices() ([]model.WSTickerPrice, error) {
	response, err := b.HttpClient.Get(fmt.Sprintf("%s/api/v3/ticker/price", b.DestinationURI), nil)
	if err != nil {
		return nil, err
	}

	tickers := make([]model.WSTickerPrice, 0)
	err = json.Unmarshal(response, &tickers)
	if err != nil {
		return nil, err
	}

	return tickers, nil
}

func (b *Binance) GetAccountStatus() (*model.AccountStatus, error) {
	response, err := b.HttpClient.Get(b.signedUrl("/api/v3/account", url.Values{}), b.authHeaders())
	if err != nil {
		return nil, err
	}

	var account model.AccountStatus
	err = json.Unmarshal(response, &account)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (b *Binance) GetTradeFees() ([]model.TradeFee, error) {
	response, err := b.HttpClient.Get(b.signedUrl("/sapi/v1/asset/tradeFee", url.Values{}), b.authHeaders())
	if err != nil {
		return nil, err
	}

	fees := make([]model.TradeFee, 0)
	err = json.Unmarshal(response, &fees)
	if err != nil {
		return nil, err
	}

	return fees, nil
}

func (b *Binance) GetBnbBurnStatus() (*model.BnbBurnStatus, error) {
	response, err := b.HttpClient.Get(b.signedUrl("/sapi/v1/bnbBurn", url.Values{}), b.authHeaders())
	if err != nil {
		return nil, err
	}

	var status model.BnbBurnStatus
	err = json.Unmarshal(response, &status)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

func (b *Binance) CreateOrder(params map[string]string) (model.BinanceOrder, error) {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}

	response, err := b.HttpClient.Post(b.signedUrl("/api/v3/order", values), nil, b.authHeaders())
	if err != nil {
		return model.BinanceOrder{}, err
	}

	var order model.BinanceOrder
	err = json.Unmarshal(response, &order)
	if err != nil {
		return model.BinanceOrder{}, err
	}

	return order, nil
}

func (b *Binance) QueryOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	values := url.Values{}
	values.Set("symbol", symbol)
	values.Set("orderId", fmt.Sprintf("%d", orderId))

	response, err := b.HttpClient.Get(b.signedUrl("/api/v3/order", values), b.authHeaders())
	if err != nil {
		return model.BinanceOrder{}, err
	}

	var order model.BinanceOrder
	err = json.Unmarshal(response, &order)
	if err != nil {
		return model.BinanceOrder{}, err
	}

	return order, nil
}

func (b *Binance) CancelOrder(symbol string, orderId int64) (model.BinanceOrder, error) {
	values := url.Values{}
	values.Set("symbol", symbol)
	values.Set("orderId", fmt.Sprintf("%d", orderId))

	response, err := b.HttpClient.Delete(b.signedUrl("/api/v3/order", values), b.authHeaders())
	if err != nil {
		return model.BinanceOrder{}, err
	}

	var order model.BinanceOrder
	err = json.Unmarshal(response, &order)
	if err != nil {
		return model.BinanceOrder{}, err
	}

	return order, nil
}

func (b *Binance) GetOpenedOrders() ([]model.BinanceOrder, error) {
	response, err := b.HttpClient.Get(b.signedUrl("/api/v3/openOrders", url.Values{}), b.authHeaders())
	if err != nil {
		return nil, err
	}

	orders := make([]model.BinanceOrder, 0)
	err = json.Unmarshal(response, &orders)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (b *Binance) CreateListenKey() (string, error) {
	response, err := b.HttpClient.Post(fmt.Sprintf("%s/api/v3/userDataStream", b.DestinationURI), nil, b.authHeaders())
	if err != nil {
		return "", err
	}

	var listenKey model.ListenKey
	err = json.Unmarshal(response, &listenKey)
	if err != nil {
		return "", err
	}

	return listenKey.ListenKey, nil
}

func (b *Binance) KeepAliveListenKey(listenKey string) error {
	address := fmt.Sprintf("%s/api/v3/userDataStream?listenKey=%s", b.DestinationURI, url.QueryEscape(listenKey))
	_, err := b.HttpClient.Put(address, nil, b.authHeaders())

	return err
}

func (b *Binance) authHeaders() map[string]string {
	return map[string]string{
		"X-MBX-APIKEY": b.ApiKey,
	}
}

// signedUrl appends the request timestamp and the HMAC SHA256 signature the
// private endpoints require. The signature covers the encoded query exactly
// as transmitted.
func (b *Binance) signedUrl(path string, values url.Values) string {
	values.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	query := values.Encode()

	return fmt.Sprintf("%s%s?%s&signature=%s", b.DestinationURI, path, query, b.sign(query))
}

func (b *Binance) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(b.ApiSecret))
	mac.Write([]byte(payload))

	return fmt.Sprintf("%x", mac.Sum(nil))
}
