package strategy

import (
	"fmt"
	"log"
	"math/rand"
	"sync"

	"gitlab.com/open-soft/go-coin-jumper/src/repository"
)

// DefaultStrategy rotates a single holding across the configured coin list
// through the bridge.
type DefaultStrategy struct {
	Trader *AutoTrader
	Coins  repository.CoinStorageInterface

	// tickMutex serializes decision ticks. A bridge recovery must never
	// interleave with a jump in flight, both spend the same bridge balance.
	tickMutex sync.Mutex
}

func (s *DefaultStrategy) Initialize() error {
	err := s.Coins.SetCoins(s.Trader.Config.SupportedCoins)
	if err != nil {
		return err
	}

	err = s.initializeCurrentCoin()
	if err != nil {
		return err
	}

	s.Trader.InitializeTradeThresholds()

	return nil
}

// Scout runs one decision tick for the coin currently held.
func (s *DefaultStrategy) Scout() {
	s.tickMutex.Lock()
	defer s.tickMutex.Unlock()

	currentCoin := s.Coins.GetCurrentCoin()
	if currentCoin == nil {
		log.Printf("no current coin, skipping scouting")
		return
	}

	symbol := currentCoin.Symbol + s.Trader.Config.BridgeSymbol

	price, err := s.Trader.Exchange.GetTickerPrice(symbol)
	if err != nil {
		log.Printf("[%s] skipping scouting, no price: %s", symbol, err.Error())
		return
	}

	s.Trader.JumpToBestCoin(currentCoin.Symbol, price)
}

func (s *DefaultStrategy) BridgeScout() {
	s.tickMutex.Lock()
	defer s.tickMutex.Unlock()

	currentCoin := s.Coins.GetCurrentCoin()
	if currentCoin != nil {
		symbol := currentCoin.Symbol + s.Trader.Config.BridgeSymbol

		price, err := s.Trader.Exchange.GetTickerPrice(symbol)
		if err == nil {
			balance, balanceErr := s.Trader.Backend.GetAssetBalance(currentCoin.Symbol, false)
			minNotional, notionalErr := s.Trader.Exchange.GetMinNotional(symbol)

			if balanceErr == nil && notionalErr == nil && balance*price > minNotional {
				// Still holding the current coin, nothing to recover.
				return
			}
		}
	}

	s.Trader.BridgeScout()
}

// initializeCurrentCoin makes sure the rotation has a starting coin. With
// no coin persisted and none configured a random supported coin is chosen
// and bought in.
func (s *DefaultStrategy) initializeCurrentCoin() error {
	if s.Coins.GetCurrentCoin() != nil {
		return nil
	}

	symbol := s.Trader.Config.CurrentCoinSymbol
	configured := symbol != ""

	if !configured {
		symbol = s.Trader.Config.SupportedCoins[rand.Intn(len(s.Trader.Config.SupportedCoins))]
		log.Printf("[%s] current coin chosen at random", symbol)
	}

	if !s.isSupported(symbol) {
		return fmt.Errorf("[%s] current coin is not in the supported coin list", symbol)
	}

	err := s.Coins.SetCurrentCoin(symbol)
	if err != nil {
		return err
	}

	if !configured {
		log.Printf("[%s] purchasing to begin trading", symbol)

		_, err = s.Trader.Executor.BuyAlt(symbol, s.Trader.Config.BridgeSymbol, 0.00)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *DefaultStrategy) isSupported(symbol string) bool {
	for _, supported := range s.Trader.Config.SupportedCoins {
		if supported == symbol {
			return true
		}
	}

	return false
}
