package app

// MinPlayersToStartGame is the smallest roster a scorecard accepts.
// Dealer rotation and the dealer-last turn order need at least two seats.
const MinPlayersToStartGame = 2

// Defaults applied when a caller supplies no configuration.
const (
	DefaultMaxCardsDealt = 10
	DefaultBidPoints     = 10
)

// DefaultConfig returns the configuration used for a brand new scorecard.
func DefaultConfig() Config {
	return Config{MaxCardsDealtByUser: DefaultMaxCardsDealt, BidPoints: DefaultBidPoints}
}
