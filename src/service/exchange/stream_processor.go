package exchange

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"gitlab.com/open-soft/go-coin-jumper/src/client"
	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

const listenKeyKeepAliveSeconds = 30 * 60

// StreamProcessor owns the two Binance websocket streams and keeps
// ExchangeCache synchronized with them. A single worker consumes both
// sockets, so cache updates for a given stream arrive in order.
type StreamProcessor struct {
	Binance       client.ExchangeStreamAPIInterface
	OrderAPI      client.ExchangeOrderAPIInterface
	Cache         *ExchangeCache
	Guardian      *OrderGuardian
	StreamAddress string

	eventChannel    chan []byte
	userDataStream  *client.StreamConnection
	tickerStream    *client.StreamConnection
	keepAliveClosed chan struct{}

	// listenKey is written by the reconnecting dial goroutine and read by
	// the keepalive loop.
	listenKeyMutex sync.Mutex
	listenKey      string
}

// Start opens the user-data and miniTicker streams and launches the event
// worker plus the listen key keepalive loop.
func (s *StreamProcessor) Start() {
	s.eventChannel = make(chan []byte, 1024)
	s.keepAliveClosed = make(chan struct{})

	go s.processEvents()
	go s.keepAliveLoop()

	s.userDataStream = client.Listen(func() string {
		listenKey, err := s.Binance.CreateListenKey()
		if err != nil {
			log.Printf("Binance WS, listen key: %s", err.Error())
			return s.StreamAddress
		}

		s.setListenKey(listenKey)

		return s.StreamAddress + "/ws/" + listenKey
	}, s.eventChannel, s.onUserDataConnect)

	s.tickerStream = client.Listen(func() string {
		return s.StreamAddress + "/ws/!miniTicker@arr"
	}, s.eventChannel, func() {
		log.Printf("Binance WS, miniTicker stream connected")
	})
}

func (s *StreamProcessor) Stop() {
	if s.userDataStream != nil {
		s.userDataStream.Close()
	}
	if s.tickerStream != nil {
		s.tickerStream.Close()
	}
	if s.keepAliveClosed != nil {
		close(s.keepAliveClosed)
	}
}

// onUserDataConnect runs after every successful user-data dial. Events may
// have been lost while disconnected, so pending orders are reconciled over
// REST and cached balances are dropped until the next account snapshot.
func (s *StreamProcessor) onUserDataConnect() {
	log.Printf("Binance WS, user data stream connected")

	for _, tag := range s.Guardian.PendingTags() {
		order, err := s.OrderAPI.QueryOrder(tag.Symbol, tag.OrderId)
		if err != nil {
			log.Printf("[%s] order %d reconciliation failed: %s", tag.Symbol, tag.OrderId, err.Error())
			continue
		}

		s.Cache.UpsertOrder(order)
	}

	s.Cache.ClearBalances()
}

func (s *StreamProcessor) setListenKey(listenKey string) {
	s.listenKeyMutex.Lock()
	defer s.listenKeyMutex.Unlock()

	s.listenKey = listenKey
}

func (s *StreamProcessor) currentListenKey() string {
	s.listenKeyMutex.Lock()
	defer s.listenKeyMutex.Unlock()

	return s.listenKey
}

// keepAliveLoop refreshes the listen key every half hour. Stop interrupts
// the wait immediately, a shutdown never hangs on the next refresh.
func (s *StreamProcessor) keepAliveLoop() {
	ticker := time.NewTicker(listenKeyKeepAliveSeconds * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.keepAliveClosed:
			return
		case <-ticker.C:
		}

		listenKey := s.currentListenKey()
		if listenKey == "" {
			continue
		}

		err := s.Binance.KeepAliveListenKey(listenKey)
		if err != nil {
			log.Printf("Binance WS, listen key keepalive: %s", err.Error())
		}
	}
}

func (s *StreamProcessor) processEvents() {
	for message := range s.eventChannel {
		s.ProcessMessage(message)
	}
}

// ProcessMessage demultiplexes one raw stream payload into a cache update.
func (s *StreamProcessor) ProcessMessage(message []byte) {
	raw := string(message)

	switch {
	case strings.Contains(raw, "\""+model.EventExecutionReport+"\""):
		var event model.ExecutionReportEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("Binance WS, executionReport: %s", err.Error())
			return
		}

		s.Cache.UpsertOrder(event.ToBinanceOrder())
	case strings.Contains(raw, "\""+model.EventBalanceUpdate+"\""):
		var event model.BalanceUpdateEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("Binance WS, balanceUpdate: %s", err.Error())
			return
		}

		// A delta without the resulting total cannot be applied safely,
		// the asset is refetched on next use instead.
		s.Cache.InvalidateBalance(event.Asset)
	case strings.Contains(raw, "\""+model.EventOutboundAccountPosition+"\""):
		var event model.OutboundAccountPositionEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("Binance WS, outboundAccountPosition: %s", err.Error())
			return
		}

		snapshot := make(map[string]float64)
		for _, balance := range event.Balances {
			snapshot[balance.Asset] = balance.Free
		}

		s.Cache.ReplaceBalances(snapshot)
	case strings.Contains(raw, "\""+model.EventMiniTicker+"\""):
		tickers := make([]model.MiniTickerEvent, 0)
		if err := json.Unmarshal(message, &tickers); err != nil {
			log.Printf("Binance WS, miniTicker: %s", err.Error())
			return
		}

		prices := make([]model.WSTickerPrice, 0, len(tickers))
		for _, ticker := range tickers {
			prices = append(prices, model.WSTickerPrice{
				Symbol: ticker.Symbol,
				Price:  ticker.ClosePrice,
			})
		}

		s.Cache.SetTickers(prices)
	default:
		log.Printf("Binance WS, skipped event: %s", raw)
	}
}
