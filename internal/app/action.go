package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"ohhell/internal/domain"
)

// ActionType names one operation of the mutation surface.
type ActionType string

const (
	ActionStartGame    ActionType = "start_game"
	ActionReset        ActionType = "reset"
	ActionSelectDealer ActionType = "select_dealer"
	ActionBid          ActionType = "bid"
	ActionTaken        ActionType = "taken"
	ActionConfirmBids  ActionType = "confirm_bids"
	ActionAdvanceRound ActionType = "advance_round"
	ActionEnterEdit    ActionType = "enter_edit"
	ActionSetActive    ActionType = "set_active_edit"
	ActionKeepAndNext  ActionType = "keep_and_next"
	ActionCancelEdit   ActionType = "cancel_edit"
	ActionUndo         ActionType = "undo"
)

// Action is the transport-neutral form of an operation, decoded from JSON by every transport.
type Action struct {
	Type      ActionType      `json:"type"`
	PlayerID  domain.PlayerID `json:"player_id,omitempty"`
	Value     int             `json:"value,omitempty"`
	Round     int             `json:"round,omitempty"`
	Mode      domain.Mode     `json:"mode,omitempty"`
	Active    bool            `json:"active,omitempty"`
	Players   []domain.Player `json:"players,omitempty"`
	MaxCards  *int            `json:"max_cards,omitempty"`
	BidPoints *int            `json:"bid_points,omitempty"`
}

// DecodeAction parses a JSON action payload.
func DecodeAction(payload []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(payload, &a); err != nil {
		return a, fmt.Errorf("%w: %v", ErrMalformedAction, err)
	}
	a.Type = ActionType(strings.ToLower(strings.TrimSpace(string(a.Type))))
	return a, nil
}

// Apply routes a onto the matching operation. The returned game is the one the caller must keep:
// it is game itself except after start_game and reset, which replace it.
// On error the returned game is the unchanged input.
func (s *Service) Apply(game *Game, a Action) (*Game, []Event, error) {
	var (
		events []Event
		err    error
	)
	switch a.Type {
	case ActionStartGame:
		if game.Phase != domain.PhaseSetup {
			return game, nil, s.reject("start game", fmt.Errorf("%w: phase %s", ErrInvalidPhase, game.Phase))
		}
		cfg := game.Config
		if a.MaxCards != nil {
			cfg.MaxCardsDealtByUser = *a.MaxCards
		}
		if a.BidPoints != nil {
			cfg.BidPoints = *a.BidPoints
		}
		started, evs, err := s.StartGame(a.Players, cfg)
		if err != nil {
			return game, nil, err
		}
		return started, evs, nil
	case ActionReset:
		fresh, evs := s.ResetToSetup(game)
		return fresh, evs, nil
	case ActionSelectDealer:
		events, err = s.SelectDealer(game, a.PlayerID)
	case ActionBid:
		events, err = s.SubmitBid(game, a.PlayerID, a.Value)
	case ActionTaken:
		events, err = s.SubmitTaken(game, a.PlayerID, a.Value)
	case ActionConfirmBids:
		events, err = s.ConfirmBids(game)
	case ActionAdvanceRound:
		events, err = s.AdvanceRound(game)
	case ActionEnterEdit:
		events, err = s.EnterEdit(game, a.Round, a.Mode)
	case ActionSetActive:
		events, err = s.SetActiveEdit(game, a.Active)
	case ActionKeepAndNext:
		events, err = s.KeepAndNext(game)
	case ActionCancelEdit:
		events, err = s.CancelEdit(game)
	case ActionUndo:
		events, err = s.UndoPreviousEntry(game)
	default:
		err = s.reject("apply", fmt.Errorf("%w: unknown type %q", ErrMalformedAction, a.Type))
	}
	return game, events, err
}
