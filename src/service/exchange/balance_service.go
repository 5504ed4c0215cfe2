package exchange

import (
	"gitlab.com/open-soft/go-coin-jumper/src/client"
	"gitlab.com/open-soft/go-coin-jumper/src/model"
)

type BalanceServiceInterface interface {
	GetAssetBalance(asset string, cacheOnly bool) (float64, error)
	InvalidateBalanceCache(asset string)
}

// BalanceService resolves free balances from the stream-synchronized cache
// and falls back to a REST account snapshot when the cache has no entry for
// the asset.
type BalanceService struct {
	Binance client.ExchangeAccountAPIInterface
	Cache   *ExchangeCache
}

func (b *BalanceService) GetAssetBalance(asset string, cacheOnly bool) (float64, error) {
	cached, ok := b.Cache.GetBalance(asset)
	if ok {
		return cached, nil
	}

	if cacheOnly {
		return 0.00, nil
	}

	account, err := b.Binance.GetAccountStatus()
	if err != nil {
		return 0.00, err
	}

	b.Cache.ReplaceBalances(accountSnapshot(account))

	amount, _ := b.Cache.GetBalance(asset)

	return amount, nil
}

func (b *BalanceService) InvalidateBalanceCache(asset string) {
	b.Cache.InvalidateBalance(asset)
}

func accountSnapshot(account *model.AccountStatus) map[string]float64 {
	snapshot := make(map[string]float64, len(account.Balances))
	for _, balance := range account.Balances {
		snapshot[balance.Asset] = balance.Free
	}

	return snapshot
}
