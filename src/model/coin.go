package model

// Coin is a tradeable asset from the configured universe. Identity is the
// ticker symbol, equality is symbol equality.
type Coin struct {
	Symbol  string `json:"symbol"`
	Enabled bool   `json:"enabled"`
}

// Pair is an ordered (from, to) combination of coins. Ratio is the
// last-observed fromPrice/toPrice baseline used as the rotation threshold,
// nil until initialized.
type Pair struct {
	Id       int64    `json:"id"`
	FromCoin string   `json:"fromCoin"`
	ToCoin   string   `json:"toCoin"`
	Ratio    *float64 `json:"ratio"`
}

func (p *Pair) HasRatio() bool {
	return p.Ratio != nil
}

func (p *Pair) GetRatio() float64 {
	if p.Ratio == nil {
		return 0.00
	}

	return *p.Ratio
}
