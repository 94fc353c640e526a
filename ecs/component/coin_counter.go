package component

// CoinCounter tallies coins emitted by question blocks.
type CoinCounter struct {
	Count int
}

var CoinCounterComponent = NewComponent[CoinCounter]()
