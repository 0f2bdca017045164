package app

import (
	"fmt"

	"ohhell/internal/domain"
)

// UndoPreviousEntry steps the live cursor back by exactly one entry.
//
// At the first bidder of a later round the call only moves back to the previous round's
// completed taking cycle; the following call clears that round's dealer.
func (s *Service) UndoPreviousEntry(game *Game) ([]Event, error) {
	switch {
	case game.Phase != domain.PhaseScoring:
		return nil, s.reject("undo", fmt.Errorf("%w: phase %s", ErrNothingToUndo, game.Phase))
	case game.Edit != nil:
		return nil, s.reject("undo", ErrEditing)
	}

	round := game.CurrentRound

	// Cycle complete: the dealer entered last, so the dealer is cleared.
	if game.Cursor.Complete {
		return s.undoSeat(game, game.DealerID)
	}

	if game.Cursor.Seat != game.FirstActorID {
		return s.undoSeat(game, domain.PrevSeat(game.PlayerOrder, game.Cursor.Seat))
	}

	if game.Mode == domain.ModeTaking {
		for _, id := range game.PlayerOrder {
			if err := game.Ledger.ClearTaken(id, round); err != nil {
				return nil, s.reject("undo", err)
			}
		}
		game.Mode = domain.ModeBidding
		game.BidsConfirmed = false
		game.Cursor = awaiting(game.DealerID)
		s.log.Debug("game %s: round %d back to bidding, takens cleared", game.ID, round)
		return []Event{{
			Kind:    EventEntryUndone,
			Payload: EntryUndonePayload{Round: round, Mode: domain.ModeTaking, Bulk: true},
		}}, nil
	}

	if round <= 1 {
		return nil, s.reject("undo", fmt.Errorf("%w: round 1 has no entries", ErrNothingToUndo))
	}

	game.CurrentRound--
	game.DealerID = domain.PrevSeat(game.PlayerOrder, game.DealerID)
	game.FirstActorID = domain.NextSeat(game.PlayerOrder, game.DealerID)
	game.Mode = domain.ModeTaking
	game.BidsConfirmed = true
	game.Cursor = cycleComplete()
	s.log.Debug("game %s: rewound to round %d", game.ID, game.CurrentRound)
	return []Event{{Kind: EventRoundRewound, Payload: RoundRewoundPayload{Round: game.CurrentRound}}}, nil
}

func (s *Service) undoSeat(game *Game, seat domain.PlayerID) ([]Event, error) {
	var err error
	if game.Mode == domain.ModeBidding {
		err = game.Ledger.ClearBid(seat, game.CurrentRound)
	} else {
		err = game.Ledger.ClearTaken(seat, game.CurrentRound)
	}
	if err != nil {
		return nil, s.reject("undo", err)
	}
	game.Cursor = awaiting(seat)
	s.log.Debug("game %s: cleared %s of %s in round %d", game.ID, game.Mode, seat, game.CurrentRound)
	return []Event{{
		Kind:    EventEntryUndone,
		Payload: EntryUndonePayload{PlayerID: seat, Round: game.CurrentRound, Mode: game.Mode},
	}}, nil
}
