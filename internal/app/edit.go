package app

import (
	"fmt"

	"ohhell/internal/domain"
)

// EnterEdit opens a review of every seat of a recorded round.
// round 0 means the live round; an empty mode means the live mode for the live round
// and bidding for a past round. The live cursor is never moved; only the session points elsewhere.
func (s *Service) EnterEdit(game *Game, round int, mode domain.Mode) ([]Event, error) {
	switch {
	case game.Phase != domain.PhaseScoring:
		return nil, s.reject("enter edit", fmt.Errorf("%w: phase %s", ErrInvalidPhase, game.Phase))
	case game.Edit != nil:
		return nil, s.reject("enter edit", ErrEditing)
	case !game.Cursor.Complete:
		return nil, s.reject("enter edit", fmt.Errorf("%w: round %d has an entry in progress", ErrInvalidPhase, game.CurrentRound))
	}

	live := game.CurrentRound
	if round == 0 {
		round = live
	}
	if round < 1 || round > live {
		return nil, s.reject("enter edit", fmt.Errorf("%w: round %d not yet played", ErrInvalidPhase, round))
	}
	if mode == "" {
		mode = domain.ModeBidding
		if round == live {
			mode = game.Mode
		}
	}
	if !mode.Valid() {
		return nil, s.reject("enter edit", fmt.Errorf("%w: unknown mode %q", ErrInvalidPhase, mode))
	}
	if round == live && mode == domain.ModeTaking && game.Mode == domain.ModeBidding {
		return nil, s.reject("enter edit", fmt.Errorf("%w: round %d has no tricks recorded", ErrInvalidPhase, round))
	}

	seat := game.seatingFor(round)
	session := &EditSession{
		Round:      round,
		Mode:       mode,
		Dealer:     seat.Dealer,
		FirstActor: seat.FirstActor,
		Seat:       seat.FirstActor,
	}
	if round != live || mode != game.Mode {
		session.Saved = &SavedCursor{Round: live, Mode: game.Mode, BidsConfirmed: game.BidsConfirmed}
	}
	game.Edit = session

	s.log.Debug("game %s: editing round %d %s", game.ID, round, mode)
	return []Event{{
		Kind:    EventEditStarted,
		Payload: EditStartedPayload{Round: round, Mode: mode, Seat: session.Seat},
	}}, nil
}

// SetActiveEdit switches between reviewing and changing the edited seat's value.
func (s *Service) SetActiveEdit(game *Game, active bool) ([]Event, error) {
	if game.Edit == nil {
		return nil, s.reject("set active edit", ErrNotEditing)
	}
	game.Edit.Active = active
	return nil, nil
}

func (s *Service) submitEditValue(game *Game, mode domain.Mode, player domain.PlayerID, value int) ([]Event, error) {
	e := game.Edit
	op := "edit " + string(mode)
	switch {
	case e.Mode != mode:
		return nil, s.reject(op, fmt.Errorf("%w: editing %s", ErrInvalidPhase, e.Mode))
	case !e.Active:
		return nil, s.reject(op, fmt.Errorf("%w: edit is in review", ErrInvalidPhase))
	case !game.hasPlayer(player):
		return nil, s.reject(op, fmt.Errorf("%w: %s", ErrUnknownPlayer, player))
	case player != e.Seat:
		return nil, s.reject(op, fmt.Errorf("%w: editing %s, got %s", ErrOutOfTurn, e.Seat, player))
	}

	round, _ := game.Round(e.Round)
	seat := domain.Seating{Order: game.PlayerOrder, Dealer: e.Dealer, FirstActor: e.FirstActor}
	var err error
	if mode == domain.ModeBidding {
		if err = domain.CheckBid(round, value, player, seat, game.Ledger); err == nil {
			err = game.Ledger.SetBid(player, round.Number, value)
		}
	} else {
		if err = domain.CheckTaken(round, value, player, seat, game.Ledger); err == nil {
			err = game.Ledger.SetTaken(player, round.Number, value)
		}
	}
	if err != nil {
		return nil, s.reject(op, err)
	}

	e.Active = false
	return []Event{{
		Kind:    EventEditValueChanged,
		Payload: EditValueChangedPayload{PlayerID: player, Round: round.Number, Mode: mode, Value: value},
	}}, nil
}

// CanKeep reports whether the edited seat's stored value may be kept.
// Only the dealer can be blocked: after edits to earlier seats its value may break the round's aggregate rule.
func (s *Service) CanKeep(game *Game) bool {
	e := game.Edit
	if e == nil {
		return false
	}
	if e.Seat != e.Dealer {
		return true
	}
	round, _ := game.Round(e.Round)
	seat := domain.Seating{Order: game.PlayerOrder, Dealer: e.Dealer, FirstActor: e.FirstActor}
	if e.Mode == domain.ModeBidding {
		bid := game.Ledger.Bid(e.Dealer, e.Round)
		return bid != nil && domain.CheckBid(round, *bid, e.Dealer, seat, game.Ledger) == nil
	}
	taken := game.Ledger.Taken(e.Dealer, e.Round)
	return taken != nil && domain.CheckTaken(round, *taken, e.Dealer, seat, game.Ledger) == nil
}

// KeepAndNext keeps the edited seat's value and moves to the next seat.
// Passing the last seat closes the session.
func (s *Service) KeepAndNext(game *Game) ([]Event, error) {
	e := game.Edit
	switch {
	case e == nil:
		return nil, s.reject("keep and next", ErrNotEditing)
	case e.Active:
		return nil, s.reject("keep and next", fmt.Errorf("%w: value under edit", ErrInvalidPhase))
	case !s.CanKeep(game):
		return nil, s.reject("keep and next", fmt.Errorf("%w: %s in round %d", ErrKeepBlocked, e.Seat, e.Round))
	}

	next := domain.NextSeat(game.PlayerOrder, e.Seat)
	if next == e.FirstActor {
		return s.finishEdit(game, false), nil
	}
	e.Seat = next
	return []Event{{
		Kind:    EventEditSeatAdvanced,
		Payload: EditSeatAdvancedPayload{Round: e.Round, Seat: next},
	}}, nil
}

// CancelEdit ends the session. Values already changed stay changed.
func (s *Service) CancelEdit(game *Game) ([]Event, error) {
	if game.Edit == nil {
		return nil, s.reject("cancel edit", ErrNotEditing)
	}
	return s.finishEdit(game, true), nil
}

func (s *Service) finishEdit(game *Game, cancelled bool) []Event {
	e := game.Edit
	if e.Saved != nil {
		game.CurrentRound = e.Saved.Round
		game.Mode = e.Saved.Mode
		game.BidsConfirmed = e.Saved.BidsConfirmed
	}
	game.Edit = nil
	s.log.Debug("game %s: edit of round %d finished (cancelled=%v)", game.ID, e.Round, cancelled)
	return []Event{{
		Kind:    EventEditFinished,
		Payload: EditFinishedPayload{Round: e.Round, Mode: e.Mode, Cancelled: cancelled},
	}}
}
