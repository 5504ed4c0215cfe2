package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"gitlab.com/open-soft/go-coin-jumper/src/model"
	"gitlab.com/open-soft/go-coin-jumper/src/repository"
)

const defaultHistoryLimit = 200

// BotController is the read-only dashboard API. It only reports, all
// trading decisions stay inside the scheduler loops.
type BotController struct {
	CurrentBot      *model.Bot
	Config          *model.BotConfig
	CoinRepository  *repository.CoinRepository
	TradeRepository *repository.TradeRepository
}

func (b *BotController) GetHealthCheck(w http.ResponseWriter, req *http.Request) {
	if !b.authorize(w, req) {
		return
	}

	currentCoin := ""
	if coin := b.CoinRepository.GetCurrentCoin(); coin != nil {
		currentCoin = coin.Symbol
	}

	encoded, _ := json.Marshal(map[string]interface{}{
		"status":      "ok",
		"botUuid":     b.CurrentBot.BotUuid,
		"bridge":      b.Config.BridgeSymbol,
		"currentCoin": currentCoin,
		"strategy":    b.Config.Strategy,
	})
	fmt.Fprintf(w, string(encoded))
}

func (b *BotController) GetCurrentCoin(w http.ResponseWriter, req *http.Request) {
	if !b.authorize(w, req) {
		return
	}

	coin := b.CoinRepository.GetCurrentCoin()
	if coin == nil {
		http.Error(w, "Current coin is not set", http.StatusNotFound)

		return
	}

	encoded, _ := json.Marshal(coin)
	fmt.Fprintf(w, string(encoded))
}

func (b *BotController) GetCoinList(w http.ResponseWriter, req *http.Request) {
	if !b.authorize(w, req) {
		return
	}

	encoded, _ := json.Marshal(b.CoinRepository.GetEnabledCoins())
	fmt.Fprintf(w, string(encoded))
}

func (b *BotController) GetPairList(w http.ResponseWriter, req *http.Request) {
	if !b.authorize(w, req) {
		return
	}

	encoded, _ := json.Marshal(b.CoinRepository.GetPairs())
	fmt.Fprintf(w, string(encoded))
}

func (b *BotController) GetTradeHistory(w http.ResponseWriter, req *http.Request) {
	if !b.authorize(w, req) {
		return
	}

	encoded, _ := json.Marshal(b.TradeRepository.GetTradeHistory(b.limit(req)))
	fmt.Fprintf(w, string(encoded))
}

func (b *BotController) GetScoutHistory(w http.ResponseWriter, req *http.Request) {
	if !b.authorize(w, req) {
		return
	}

	encoded, _ := json.Marshal(b.TradeRepository.GetScoutHistory(b.limit(req)))
	fmt.Fprintf(w, string(encoded))
}

func (b *BotController) GetCoinValueHistory(w http.ResponseWriter, req *http.Request) {
	if !b.authorize(w, req) {
		return
	}

	coin := req.URL.Query().Get("coin")
	if coin == "" {
		http.Error(w, "Coin is required", http.StatusBadRequest)

		return
	}

	encoded, _ := json.Marshal(b.TradeRepository.GetCoinValueHistory(coin, b.limit(req)))
	fmt.Fprintf(w, string(encoded))
}

func (b *BotController) authorize(w http.ResponseWriter, req *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	botUuid := req.URL.Query().Get("botUuid")

	if botUuid != b.CurrentBot.BotUuid {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return false
	}

	return true
}

func (b *BotController) limit(req *http.Request) int64 {
	raw := req.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit
	}

	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return defaultHistoryLimit
	}

	return limit
}
