package domain

// DeckSize is the number of cards in the deck the schedule is dealt from.
const DeckSize = 52

// ActualMaxCards clamps the requested maximum to what the deck can deal to every player.
// A non-positive player count skips the clamp.
func ActualMaxCards(playerCount, maxCards int) int {
	if playerCount <= 0 {
		return maxCards
	}
	limit := DeckSize / playerCount
	if maxCards > limit {
		return limit
	}
	if maxCards < 1 && limit >= 1 {
		return 1
	}
	return maxCards
}

// BuildSchedule returns the ordered rounds of a game: cards dealt descend from the
// actual maximum to 1, then climb back from 2 to the maximum.
// It returns nil when not even a one-card round can be dealt.
func BuildSchedule(playerCount, maxCards int) []Round {
	top := ActualMaxCards(playerCount, maxCards)
	if top < 1 {
		return nil
	}

	rounds := make([]Round, 0, 2*top-1)
	for cards := top; cards >= 1; cards-- {
		rounds = append(rounds, Round{Number: len(rounds) + 1, CardsDealt: cards})
	}
	for cards := 2; cards <= top; cards++ {
		rounds = append(rounds, Round{Number: len(rounds) + 1, CardsDealt: cards, IsUpRound: true})
	}
	return rounds
}
