package strategy

import (
	"fmt"

	"gitlab.com/open-soft/go-coin-jumper/src/repository"
)

const StrategyDefault = "default"

// ScoutStrategyInterface is one rotation policy. Initialize runs once at
// startup, Scout on every tick, BridgeScout periodically to recover a
// wallet stranded in the bridge.
type ScoutStrategyInterface interface {
	Initialize() error
	Scout()
	BridgeScout()
}

// Resolve maps the configured strategy name to an implementation.
func Resolve(name string, trader *AutoTrader, coins repository.CoinStorageInterface) (ScoutStrategyInterface, error) {
	switch name {
	case StrategyDefault, "":
		return &DefaultStrategy{Trader: trader, Coins: coins}, nil
	}

	return nil, fmt.Errorf("[%s] unknown strategy", name)
}
