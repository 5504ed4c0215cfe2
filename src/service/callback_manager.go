package service

import (
	"encoding/json"
	"fmt"
	"log"

	"gitlab.com/open-soft/go-coin-jumper/src/client"
	"gitlab.com/open-soft/go-coin-jumper/src/model"
	"gitlab.com/open-soft/go-coin-jumper/src/utils"
)

// CallbackManager posts trade and error notifications to an external
// webhook. With no host configured it degrades to log lines, the trading
// loop never depends on delivery.
type CallbackManager struct {
	CallbackHost string
	HttpClient   *client.HttpClient
	TimeService  utils.TimeServiceInterface
}

func (c *CallbackManager) Error(bot *model.Bot, message string) {
	log.Printf("bot error: %s", message)

	encoded, _ := json.Marshal(model.ErrorNotification{
		BotId:        bot.Id,
		ErrorMessage: message,
	})

	c.send("/callback/error", encoded)
}

func (c *CallbackManager) BuyOrder(bot *model.Bot, order model.BinanceOrder) {
	c.orderNotification(bot, order)
}

func (c *CallbackManager) SellOrder(bot *model.Bot, order model.BinanceOrder) {
	c.orderNotification(bot, order)
}

func (c *CallbackManager) orderNotification(bot *model.Bot, order model.BinanceOrder) {
	encoded, _ := json.Marshal(model.OrderNotification{
		BotId:     bot.Id,
		Symbol:    order.Symbol,
		Operation: order.Side,
		Price:     order.Price,
		Quantity:  order.ExecutedQty,
		DateTime:  c.TimeService.GetNowDateTimeString(),
	})

	c.send("/callback/order", encoded)
}

func (c *CallbackManager) send(path string, message []byte) {
	if c.CallbackHost == "" {
		return
	}

	_, err := c.HttpClient.Post(fmt.Sprintf("%s/public%s", c.CallbackHost, path), message, nil)
	if err != nil {
		log.Printf("callback %s failed: %s", path, err.Error())
	}
}
