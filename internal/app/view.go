package app

import (
	"sort"

	"ohhell/internal/domain"
)

// View is the read-only render snapshot handed to collaborators.
type View struct {
	GameID        string            `json:"game_id"`
	Phase         domain.Phase      `json:"phase"`
	Config        Config            `json:"config"`
	Round         *domain.Round     `json:"round,omitempty"`
	Mode          domain.Mode       `json:"mode"`
	Dealer        domain.PlayerID   `json:"dealer,omitempty"`
	FirstActor    domain.PlayerID   `json:"first_actor,omitempty"`
	CurrentActor  domain.PlayerID   `json:"current_actor,omitempty"`
	BidsConfirmed bool              `json:"bids_confirmed"`
	GameOver      bool              `json:"game_over"`
	Edit          *EditView         `json:"edit,omitempty"`
	LegalValues   []int             `json:"legal_values,omitempty"`
	Schedule      []domain.Round    `json:"schedule"`
	Players       []PlayerView      `json:"players"`
	PlayerOrder   []domain.PlayerID `json:"player_order"`
}

// EditView describes the open edit session.
type EditView struct {
	Round   int             `json:"round"`
	Mode    domain.Mode     `json:"mode"`
	Seat    domain.PlayerID `json:"seat"`
	Dealer  domain.PlayerID `json:"dealer"`
	Active  bool            `json:"active"`
	CanKeep bool            `json:"can_keep"`
}

// PlayerView is one ledger row with its standing.
type PlayerView struct {
	domain.PlayerLedger
	Rank int `json:"rank"`
}

// View builds the render snapshot of game.
func (s *Service) View(game *Game) View {
	v := View{
		GameID:        game.ID,
		Phase:         game.Phase,
		Config:        game.Config,
		Mode:          game.Mode,
		Dealer:        game.DealerID,
		FirstActor:    game.FirstActorID,
		BidsConfirmed: game.BidsConfirmed,
		GameOver:      game.IsGameOver(),
		Schedule:      append([]domain.Round(nil), game.Schedule...),
		PlayerOrder:   append([]domain.PlayerID(nil), game.PlayerOrder...),
	}
	if r, ok := game.Round(game.CurrentRound); ok {
		v.Round = &r
	}
	if !game.Cursor.Complete {
		v.CurrentActor = game.Cursor.Seat
	}
	if e := game.Edit; e != nil {
		v.Edit = &EditView{
			Round:   e.Round,
			Mode:    e.Mode,
			Seat:    e.Seat,
			Dealer:  e.Dealer,
			Active:  e.Active,
			CanKeep: s.CanKeep(game),
		}
	}
	if _, mode, _, actor, ok := game.inputContext(); ok && game.Phase == domain.PhaseScoring {
		if mode == domain.ModeBidding {
			v.LegalValues = s.LegalBids(game, actor)
		} else {
			v.LegalValues = s.LegalTaken(game, actor)
		}
	}
	if game.Ledger != nil {
		v.Players = rankPlayers(game.Ledger.Clone().Players)
	}
	return v
}

// rankPlayers orders by total descending with competition ranking: ties share a rank
// and the next rank skips (1, 1, 3).
func rankPlayers(ledgers []domain.PlayerLedger) []PlayerView {
	out := make([]PlayerView, len(ledgers))
	for i, pl := range ledgers {
		out[i] = PlayerView{PlayerLedger: pl}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	for i := range out {
		if i > 0 && out[i].TotalScore == out[i-1].TotalScore {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}
