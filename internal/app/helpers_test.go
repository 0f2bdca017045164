package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ohhell/internal/domain"
)

type entry struct {
	id    domain.PlayerID
	value int
}

func threePlayers() []domain.Player {
	return []domain.Player{{ID: "A", Name: "Ann"}, {ID: "B", Name: "Ben"}, {ID: "C", Name: "Cat"}}
}

// newScoringGame starts a three-seat game and selects dealer.
func newScoringGame(t *testing.T, maxCards, bidPoints int, dealer domain.PlayerID) (*Service, *Game) {
	t.Helper()
	svc := NewService(nil)
	game, _, err := svc.StartGame(threePlayers(), Config{MaxCardsDealtByUser: maxCards, BidPoints: bidPoints})
	require.NoError(t, err)
	_, err = svc.SelectDealer(game, dealer)
	require.NoError(t, err)
	return svc, game
}

func bidAll(t *testing.T, svc *Service, game *Game, bids ...entry) {
	t.Helper()
	for _, b := range bids {
		_, err := svc.SubmitBid(game, b.id, b.value)
		require.NoError(t, err, "bid %s=%d", b.id, b.value)
	}
}

func takeAll(t *testing.T, svc *Service, game *Game, takens ...entry) {
	t.Helper()
	for _, tk := range takens {
		_, err := svc.SubmitTaken(game, tk.id, tk.value)
		require.NoError(t, err, "taken %s=%d", tk.id, tk.value)
	}
}

// playRound bids, confirms and records tricks for the live round.
func playRound(t *testing.T, svc *Service, game *Game, bids, takens []entry) {
	t.Helper()
	bidAll(t, svc, game, bids...)
	_, err := svc.ConfirmBids(game)
	require.NoError(t, err)
	takeAll(t, svc, game, takens...)
}

// roundOne plays round 1 of a 3-seat, max-2 game dealt by A: B 1/1, C 0/0, A 2/1.
func roundOne(t *testing.T, svc *Service, game *Game) {
	t.Helper()
	playRound(t, svc, game,
		[]entry{{"B", 1}, {"C", 0}, {"A", 2}},
		[]entry{{"B", 1}, {"C", 0}, {"A", 1}},
	)
}

func requireLedgerConsistent(t *testing.T, game *Game) {
	t.Helper()
	require.True(t, game.Ledger.Consistent(), "ledger totals drifted from round scores")
}
