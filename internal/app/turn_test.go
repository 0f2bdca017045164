package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohhell/internal/domain"
)

func TestTurnCycling(t *testing.T) {
	svc, game := newScoringGame(t, 1, 10, "A")
	require.Equal(t, 1, game.Schedule[0].CardsDealt)

	for _, id := range []domain.PlayerID{"B", "C", "A"} {
		require.True(t, game.Cursor.Awaits(id), "expected %s to bid, cursor %+v", id, game.Cursor)
		_, err := svc.SubmitBid(game, id, 0)
		require.NoError(t, err)
	}
	assert.True(t, game.Cursor.Complete)
	assert.Equal(t, domain.ModeBidding, game.Mode, "bidding must wait for confirmation")
	assert.False(t, game.BidsConfirmed)
}

func TestSubmitBidRejections(t *testing.T) {
	svc, game := newScoringGame(t, 2, 10, "A")
	before := game.Clone()

	_, err := svc.SubmitBid(game, "C", 0)
	assert.ErrorIs(t, err, ErrOutOfTurn)

	_, err = svc.SubmitBid(game, "B", 3)
	assert.ErrorIs(t, err, domain.ErrBidOutOfRange)

	_, err = svc.SubmitTaken(game, "B", 0)
	assert.ErrorIs(t, err, ErrInvalidPhase)

	_, err = svc.ConfirmBids(game)
	assert.ErrorIs(t, err, ErrInvalidPhase)

	_, err = svc.AdvanceRound(game)
	assert.ErrorIs(t, err, ErrInvalidPhase)

	assert.Equal(t, before, game, "rejected operations must not mutate")
}

func TestEndToEndThreePlayers(t *testing.T) {
	svc, game := newScoringGame(t, 2, 10, "A")
	assert.Equal(t, []int{2, 1, 2}, []int{game.Schedule[0].CardsDealt, game.Schedule[1].CardsDealt, game.Schedule[2].CardsDealt})

	// Round 1: A deals two cards.
	bidAll(t, svc, game, entry{"B", 1}, entry{"C", 0})
	_, err := svc.SubmitBid(game, "A", 1)
	require.ErrorIs(t, err, domain.ErrDealerBidSum)
	assert.Equal(t, []int{0, 2}, svc.LegalBids(game, "A"))
	assert.True(t, svc.IsBidInvalid(game, "A", 1))
	bidAll(t, svc, game, entry{"A", 2})

	_, err = svc.ConfirmBids(game)
	require.NoError(t, err)
	require.True(t, game.Cursor.Awaits("B"))

	takeAll(t, svc, game, entry{"B", 1}, entry{"C", 0})
	_, err = svc.SubmitTaken(game, "A", 2)
	require.ErrorIs(t, err, domain.ErrDealerTakenSum)
	assert.Equal(t, []int{1}, svc.LegalTaken(game, "A"))
	evs, err := svc.SubmitTaken(game, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, EventRoundCompleted, evs[len(evs)-1].Kind)

	assert.Equal(t, 11, game.Ledger.Player("B").TotalScore)
	assert.Equal(t, 10, game.Ledger.Player("C").TotalScore)
	assert.Equal(t, 0, game.Ledger.Player("A").TotalScore)
	requireLedgerConsistent(t, game)

	// Round 2: B deals one card.
	_, err = svc.AdvanceRound(game)
	require.NoError(t, err)
	assert.Equal(t, 2, game.CurrentRound)
	assert.Equal(t, domain.PlayerID("B"), game.DealerID)
	assert.Equal(t, domain.PlayerID("C"), game.FirstActorID)
	assert.True(t, game.Cursor.Awaits("C"))
	playRound(t, svc, game,
		[]entry{{"C", 1}, {"A", 0}, {"B", 1}},
		[]entry{{"C", 1}, {"A", 0}, {"B", 0}},
	)
	assert.False(t, game.IsGameOver())

	// Round 3: C deals two cards.
	_, err = svc.AdvanceRound(game)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID("C"), game.DealerID)
	bidAll(t, svc, game, entry{"A", 0}, entry{"B", 0})
	_, err = svc.ConfirmBids(game)
	require.ErrorIs(t, err, ErrInvalidPhase)
	bidAll(t, svc, game, entry{"C", 1})
	_, err = svc.ConfirmBids(game)
	require.NoError(t, err)
	takeAll(t, svc, game, entry{"A", 1}, entry{"B", 0})
	evs, err = svc.SubmitTaken(game, "C", 1)
	require.NoError(t, err)

	assert.True(t, game.IsGameOver())
	assert.Equal(t, EventGameOver, evs[len(evs)-1].Kind)
	assert.Equal(t, GameOverPayload{Leaders: []domain.PlayerID{"C"}, Score: 32}, evs[len(evs)-1].Payload)
	assert.Equal(t, 10, game.Ledger.Player("A").TotalScore)
	assert.Equal(t, 21, game.Ledger.Player("B").TotalScore)
	assert.Equal(t, 32, game.Ledger.Player("C").TotalScore)
	requireLedgerConsistent(t, game)

	// Advancing past the final round is a no-op.
	before := game.Clone()
	evs, err = svc.AdvanceRound(game)
	require.NoError(t, err)
	assert.Empty(t, evs)
	assert.Equal(t, before, game)
}

func TestTotalInvariantAfterEveryEntry(t *testing.T) {
	svc, game := newScoringGame(t, 3, 7, "B")
	for game.CurrentRound <= game.LastRound() {
		round, _ := game.Round(game.CurrentRound)
		for !game.Cursor.Complete {
			seat := game.Cursor.Seat
			legal := svc.LegalBids(game, seat)
			require.NotEmpty(t, legal)
			_, err := svc.SubmitBid(game, seat, legal[len(legal)/2])
			require.NoError(t, err)
			requireLedgerConsistent(t, game)
		}
		_, err := svc.ConfirmBids(game)
		require.NoError(t, err)
		for !game.Cursor.Complete {
			seat := game.Cursor.Seat
			legal := svc.LegalTaken(game, seat)
			require.NotEmpty(t, legal, "round %d (%d cards) seat %s", round.Number, round.CardsDealt, seat)
			_, err := svc.SubmitTaken(game, seat, legal[0])
			require.NoError(t, err)
			requireLedgerConsistent(t, game)
		}
		if game.CurrentRound == game.LastRound() {
			break
		}
		_, err = svc.AdvanceRound(game)
		require.NoError(t, err)
	}
	assert.True(t, game.IsGameOver())
}
