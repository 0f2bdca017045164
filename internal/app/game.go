package app

import (
	"github.com/google/uuid"

	"ohhell/internal/domain"
)

// Config holds the two scalars that survive a reset.
type Config struct {
	MaxCardsDealtByUser int `json:"max_cards_dealt_by_user"`
	BidPoints           int `json:"bid_points"`
}

// Cursor is the live turn pointer: either awaiting a seat or the cycle is complete.
// A complete cycle means "awaiting confirmation" in bidding and "round recorded" in taking.
type Cursor struct {
	Seat     domain.PlayerID `json:"seat,omitempty"`
	Complete bool            `json:"complete"`
}

func awaiting(seat domain.PlayerID) Cursor { return Cursor{Seat: seat} }

func cycleComplete() Cursor { return Cursor{Complete: true} }

// Awaits reports whether the cursor is waiting on id.
func (c Cursor) Awaits(id domain.PlayerID) bool {
	return !c.Complete && c.Seat == id
}

// SavedCursor is the live position recorded when an edit session targets another round or mode.
type SavedCursor struct {
	Round         int         `json:"round"`
	Mode          domain.Mode `json:"mode"`
	BidsConfirmed bool        `json:"bids_confirmed"`
}

// EditSession walks every seat of one round without touching the live cursor.
type EditSession struct {
	Round      int             `json:"round"`
	Mode       domain.Mode     `json:"mode"`
	Dealer     domain.PlayerID `json:"dealer"`
	FirstActor domain.PlayerID `json:"first_actor"`
	Seat       domain.PlayerID `json:"seat"`
	Active     bool            `json:"active"`
	Saved      *SavedCursor    `json:"saved,omitempty"`
}

// Game is the single owned state of one scorecard.
type Game struct {
	ID     string `json:"id"`
	Config Config `json:"config"`

	Phase       domain.Phase      `json:"phase"`
	Players     []domain.Player   `json:"players"`
	PlayerOrder []domain.PlayerID `json:"player_order"`
	Schedule    []domain.Round    `json:"schedule"`
	Ledger      *domain.Ledger    `json:"ledger"`

	CurrentRound     int             `json:"current_round"`
	Mode             domain.Mode     `json:"mode"`
	DealerID         domain.PlayerID `json:"dealer_id"`
	FirstActorID     domain.PlayerID `json:"first_actor_id"`
	FirstDealerIndex int             `json:"first_dealer_index"`
	Cursor           Cursor          `json:"cursor"`
	BidsConfirmed    bool            `json:"bids_confirmed"`

	Edit *EditSession `json:"edit,omitempty"`
}

// NewGame returns a fresh scorecard in setup.
func NewGame(cfg Config) *Game {
	return &Game{
		ID:     uuid.NewString(),
		Config: cfg,
		Phase:  domain.PhaseSetup,
		Mode:   domain.ModeBidding,
	}
}

// Editing reports whether an edit session is open.
func (g *Game) Editing() bool { return g.Edit != nil }

// LastRound is the number of the final scheduled round, or 0 before the game starts.
func (g *Game) LastRound() int { return len(g.Schedule) }

// Round returns the scheduled round n.
func (g *Game) Round(n int) (domain.Round, bool) {
	if n < 1 || n > len(g.Schedule) {
		return domain.Round{}, false
	}
	return g.Schedule[n-1], true
}

// IsGameOver reports whether every player has a taken value for the final round.
// It is derived so edit and undo keep working on a finished game.
func (g *Game) IsGameOver() bool {
	if g.Phase != domain.PhaseScoring || g.Ledger == nil || len(g.Schedule) == 0 {
		return false
	}
	last := g.LastRound()
	for _, id := range g.PlayerOrder {
		if g.Ledger.Taken(id, last) == nil {
			return false
		}
	}
	return true
}

func (g *Game) liveSeating() domain.Seating {
	return domain.Seating{Order: g.PlayerOrder, Dealer: g.DealerID, FirstActor: g.FirstActorID}
}

func (g *Game) seatingFor(round int) domain.Seating {
	return domain.Seating{
		Order:      g.PlayerOrder,
		Dealer:     domain.DealerForRound(g.PlayerOrder, g.FirstDealerIndex, round),
		FirstActor: domain.FirstActorForRound(g.PlayerOrder, g.FirstDealerIndex, round),
	}
}

// inputContext is where the next value goes: the edit session when one is open, otherwise the live cursor.
func (g *Game) inputContext() (domain.Round, domain.Mode, domain.Seating, domain.PlayerID, bool) {
	if g.Edit != nil {
		r, _ := g.Round(g.Edit.Round)
		seat := domain.Seating{Order: g.PlayerOrder, Dealer: g.Edit.Dealer, FirstActor: g.Edit.FirstActor}
		return r, g.Edit.Mode, seat, g.Edit.Seat, true
	}
	r, ok := g.Round(g.CurrentRound)
	if !ok || g.Cursor.Complete {
		return r, g.Mode, g.liveSeating(), "", false
	}
	return r, g.Mode, g.liveSeating(), g.Cursor.Seat, true
}

func (g *Game) hasPlayer(id domain.PlayerID) bool {
	return domain.SeatIndex(g.PlayerOrder, id) >= 0
}

// Clone returns a deep copy of g.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = append([]domain.Player(nil), g.Players...)
	c.PlayerOrder = append([]domain.PlayerID(nil), g.PlayerOrder...)
	c.Schedule = append([]domain.Round(nil), g.Schedule...)
	if g.Ledger != nil {
		c.Ledger = g.Ledger.Clone()
	}
	if g.Edit != nil {
		e := *g.Edit
		if g.Edit.Saved != nil {
			s := *g.Edit.Saved
			e.Saved = &s
		}
		c.Edit = &e
	}
	return &c
}
