package app

import (
	"fmt"

	"ohhell/internal/domain"
)

// SubmitBid records a bid for the awaiting seat, or for the edited seat while an edit session is active.
func (s *Service) SubmitBid(game *Game, player domain.PlayerID, value int) ([]Event, error) {
	if game.Edit != nil {
		return s.submitEditValue(game, domain.ModeBidding, player, value)
	}
	if err := s.checkLiveInput(game, domain.ModeBidding, player); err != nil {
		return nil, s.reject("submit bid", err)
	}
	round, _ := game.Round(game.CurrentRound)
	if err := domain.CheckBid(round, value, player, game.liveSeating(), game.Ledger); err != nil {
		return nil, s.reject("submit bid", err)
	}
	if err := game.Ledger.SetBid(player, round.Number, value); err != nil {
		return nil, s.reject("submit bid", err)
	}

	game.Cursor = s.nextCursor(game, player)
	s.log.Debug("game %s: %s bid %d in round %d", game.ID, player, value, round.Number)
	return []Event{{
		Kind: EventBidRecorded,
		Payload: EntryRecordedPayload{
			PlayerID:  player,
			Round:     round.Number,
			Value:     value,
			NextActor: game.Cursor.Seat,
		},
	}}, nil
}

// SubmitTaken records tricks taken for the awaiting seat, or for the edited seat while an edit session is active.
func (s *Service) SubmitTaken(game *Game, player domain.PlayerID, value int) ([]Event, error) {
	if game.Edit != nil {
		return s.submitEditValue(game, domain.ModeTaking, player, value)
	}
	if err := s.checkLiveInput(game, domain.ModeTaking, player); err != nil {
		return nil, s.reject("submit taken", err)
	}
	round, _ := game.Round(game.CurrentRound)
	if err := domain.CheckTaken(round, value, player, game.liveSeating(), game.Ledger); err != nil {
		return nil, s.reject("submit taken", err)
	}
	if err := game.Ledger.SetTaken(player, round.Number, value); err != nil {
		return nil, s.reject("submit taken", err)
	}

	game.Cursor = s.nextCursor(game, player)
	events := []Event{{
		Kind: EventTakenRecorded,
		Payload: EntryRecordedPayload{
			PlayerID:  player,
			Round:     round.Number,
			Value:     value,
			NextActor: game.Cursor.Seat,
		},
	}}
	if game.Cursor.Complete {
		events = append(events, Event{Kind: EventRoundCompleted, Payload: RoundCompletedPayload{Round: round.Number}})
		if game.IsGameOver() {
			leaders, score := leaders(game.Ledger)
			s.log.Info("game %s over: leaders %v with %d", game.ID, leaders, score)
			events = append(events, Event{Kind: EventGameOver, Payload: GameOverPayload{Leaders: leaders, Score: score}})
		}
	}
	return events, nil
}

func (s *Service) checkLiveInput(game *Game, mode domain.Mode, player domain.PlayerID) error {
	if game.Phase != domain.PhaseScoring {
		return fmt.Errorf("%w: phase %s", ErrInvalidPhase, game.Phase)
	}
	if game.Mode != mode {
		return fmt.Errorf("%w: mode is %s", ErrInvalidPhase, game.Mode)
	}
	if mode == domain.ModeTaking && !game.BidsConfirmed {
		return fmt.Errorf("%w: bids not confirmed", ErrInvalidPhase)
	}
	if game.Cursor.Complete {
		return fmt.Errorf("%w: every seat has entered a %s value", ErrInvalidPhase, mode)
	}
	if !game.hasPlayer(player) {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, player)
	}
	if !game.Cursor.Awaits(player) {
		return fmt.Errorf("%w: awaiting %s, got %s", ErrOutOfTurn, game.Cursor.Seat, player)
	}
	return nil
}

// nextCursor moves one seat on; returning to the first actor completes the cycle.
func (s *Service) nextCursor(game *Game, from domain.PlayerID) Cursor {
	next := domain.NextSeat(game.PlayerOrder, from)
	if next == game.FirstActorID {
		return cycleComplete()
	}
	return awaiting(next)
}

// ConfirmBids closes bidding and opens taking at the first actor.
func (s *Service) ConfirmBids(game *Game) ([]Event, error) {
	switch {
	case game.Phase != domain.PhaseScoring:
		return nil, s.reject("confirm bids", fmt.Errorf("%w: phase %s", ErrInvalidPhase, game.Phase))
	case game.Edit != nil:
		return nil, s.reject("confirm bids", ErrEditing)
	case game.Mode != domain.ModeBidding || game.BidsConfirmed:
		return nil, s.reject("confirm bids", fmt.Errorf("%w: bids already confirmed", ErrInvalidPhase))
	case !game.Cursor.Complete:
		return nil, s.reject("confirm bids", fmt.Errorf("%w: awaiting bid from %s", ErrInvalidPhase, game.Cursor.Seat))
	}

	game.BidsConfirmed = true
	game.Mode = domain.ModeTaking
	game.Cursor = awaiting(game.FirstActorID)
	return []Event{{
		Kind:    EventBidsConfirmed,
		Payload: BidsConfirmedPayload{Round: game.CurrentRound, FirstActor: game.FirstActorID},
	}}, nil
}

// AdvanceRound rotates the dealer and opens bidding for the next round.
// On the final round it leaves the game over and emits nothing.
func (s *Service) AdvanceRound(game *Game) ([]Event, error) {
	switch {
	case game.Phase != domain.PhaseScoring:
		return nil, s.reject("advance round", fmt.Errorf("%w: phase %s", ErrInvalidPhase, game.Phase))
	case game.Edit != nil:
		return nil, s.reject("advance round", ErrEditing)
	case game.Mode != domain.ModeTaking || !game.BidsConfirmed || !game.Cursor.Complete:
		return nil, s.reject("advance round", fmt.Errorf("%w: round %d not fully recorded", ErrInvalidPhase, game.CurrentRound))
	}
	if game.CurrentRound >= game.LastRound() {
		game.Cursor = cycleComplete()
		s.log.Debug("game %s: advance on final round ignored", game.ID)
		return nil, nil
	}

	game.CurrentRound++
	game.DealerID = domain.NextSeat(game.PlayerOrder, game.DealerID)
	game.FirstActorID = domain.NextSeat(game.PlayerOrder, game.DealerID)
	game.Cursor = awaiting(game.FirstActorID)
	game.Mode = domain.ModeBidding
	game.BidsConfirmed = false

	round, _ := game.Round(game.CurrentRound)
	s.log.Debug("game %s: round %d, %d cards, dealer %s", game.ID, round.Number, round.CardsDealt, game.DealerID)
	return []Event{{
		Kind: EventRoundAdvanced,
		Payload: RoundAdvancedPayload{
			Round:      round.Number,
			CardsDealt: round.CardsDealt,
			Dealer:     game.DealerID,
			FirstActor: game.FirstActorID,
		},
	}}, nil
}

// LegalBids lists the bids player may enter right now; nil when player is not the seat taking input.
func (s *Service) LegalBids(game *Game, player domain.PlayerID) []int {
	round, mode, seat, actor, ok := game.inputContext()
	if !ok || mode != domain.ModeBidding || actor != player {
		return nil
	}
	return domain.LegalBids(round, player, seat, game.Ledger)
}

// LegalTaken lists the trick counts player may enter right now; nil when player is not the seat taking input.
func (s *Service) LegalTaken(game *Game, player domain.PlayerID) []int {
	round, mode, seat, actor, ok := game.inputContext()
	if !ok || mode != domain.ModeTaking || actor != player {
		return nil
	}
	return domain.LegalTaken(round, player, seat, game.Ledger)
}

// IsBidInvalid reports whether value would be rejected as player's bid in the round taking input.
// It ignores turn order so a caller can grey out choices for any seat.
func (s *Service) IsBidInvalid(game *Game, player domain.PlayerID, value int) bool {
	round, _, seat, _, _ := game.inputContext()
	if round.Number == 0 || game.Ledger == nil {
		return true
	}
	return domain.CheckBid(round, value, player, seat, game.Ledger) != nil
}

// IsTakenInvalid reports whether value would be rejected as player's tricks in the round taking input.
func (s *Service) IsTakenInvalid(game *Game, player domain.PlayerID, value int) bool {
	round, _, seat, _, _ := game.inputContext()
	if round.Number == 0 || game.Ledger == nil {
		return true
	}
	return domain.CheckTaken(round, value, player, seat, game.Ledger) != nil
}

func leaders(l *domain.Ledger) ([]domain.PlayerID, int) {
	best := 0
	var out []domain.PlayerID
	for i, pl := range l.Players {
		switch {
		case i == 0 || pl.TotalScore > best:
			best = pl.TotalScore
			out = []domain.PlayerID{pl.PlayerID}
		case pl.TotalScore == best:
			out = append(out, pl.PlayerID)
		}
	}
	return out, best
}
