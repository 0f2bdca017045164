package app

import (
	"encoding/json"
	"fmt"

	"ohhell/internal/domain"
)

// Encode serialises the full game, ledger included.
func Encode(game *Game) ([]byte, error) {
	return json.Marshal(game)
}

// Restore decodes and validates a snapshot produced by Encode.
// A snapshot that fails validation is discarded: Restore returns a fresh setup game
// together with an error wrapping ErrCorruptSnapshot.
func Restore(data []byte) (*Game, error) {
	var game Game
	if err := json.Unmarshal(data, &game); err != nil {
		return NewGame(DefaultConfig()), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if err := Validate(&game); err != nil {
		cfg := DefaultConfig()
		if game.Config.MaxCardsDealtByUser >= 1 && game.Config.BidPoints >= 0 {
			cfg = game.Config
		}
		return NewGame(cfg), err
	}
	return &game, nil
}

func corrupt(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, v...))
}

// Validate checks the structural invariants of a restored game.
func Validate(g *Game) error {
	if g.ID == "" {
		return corrupt("missing id")
	}
	if !g.Phase.Valid() {
		return corrupt("unknown phase %q", g.Phase)
	}
	if !g.Mode.Valid() {
		return corrupt("unknown mode %q", g.Mode)
	}
	if g.Phase == domain.PhaseSetup {
		if g.Edit != nil || g.Ledger != nil && len(g.Ledger.Players) > 0 {
			return corrupt("setup game carries play state")
		}
		return nil
	}

	if err := validateRoster(g); err != nil {
		return err
	}
	if err := validateLedger(g); err != nil {
		return err
	}
	if g.Phase == domain.PhaseDealerSelection {
		if g.Edit != nil {
			return corrupt("edit session before dealer selection")
		}
		return nil
	}
	if err := validateCursor(g); err != nil {
		return err
	}
	return validateEdit(g)
}

func validateRoster(g *Game) error {
	if len(g.PlayerOrder) < MinPlayersToStartGame || len(g.Players) != len(g.PlayerOrder) {
		return corrupt("player order has %d seats for %d players", len(g.PlayerOrder), len(g.Players))
	}
	seen := make(map[domain.PlayerID]bool, len(g.Players))
	for _, p := range g.Players {
		if p.ID == "" || seen[p.ID] {
			return corrupt("bad player id %q", p.ID)
		}
		seen[p.ID] = true
	}
	for _, id := range g.PlayerOrder {
		if !seen[id] {
			return corrupt("seat %s has no player", id)
		}
		delete(seen, id)
	}
	want := domain.BuildSchedule(len(g.PlayerOrder), g.Config.MaxCardsDealtByUser)
	if len(want) == 0 || len(want) != len(g.Schedule) {
		return corrupt("schedule has %d rounds, want %d", len(g.Schedule), len(want))
	}
	for i := range want {
		if want[i] != g.Schedule[i] {
			return corrupt("round %d differs from schedule", i+1)
		}
	}
	return nil
}

func validateLedger(g *Game) error {
	l := g.Ledger
	if l == nil || len(l.Players) != len(g.PlayerOrder) {
		return corrupt("ledger does not cover every player")
	}
	if l.BidPoints != g.Config.BidPoints {
		return corrupt("ledger bid points %d, config %d", l.BidPoints, g.Config.BidPoints)
	}
	for _, id := range g.PlayerOrder {
		pl := l.Player(id)
		if pl == nil || len(pl.Scores) != len(g.Schedule) {
			return corrupt("ledger of %s incomplete", id)
		}
		for i, e := range pl.Scores {
			r := g.Schedule[i]
			if e.Round != r.Number {
				return corrupt("ledger of %s out of order at round %d", id, r.Number)
			}
			if outOfRange(e.Bid, r.CardsDealt) || outOfRange(e.Taken, r.CardsDealt) {
				return corrupt("ledger of %s out of range in round %d", id, r.Number)
			}
		}
	}
	if !l.Consistent() {
		return corrupt("scores do not match the scoring formula")
	}
	return nil
}

func outOfRange(v *int, max int) bool {
	return v != nil && (*v < 0 || *v > max)
}

func validateCursor(g *Game) error {
	if g.CurrentRound < 1 || g.CurrentRound > len(g.Schedule) {
		return corrupt("current round %d outside schedule", g.CurrentRound)
	}
	if g.FirstDealerIndex < 0 || g.FirstDealerIndex >= len(g.PlayerOrder) {
		return corrupt("first dealer index %d", g.FirstDealerIndex)
	}
	seat := g.seatingFor(g.CurrentRound)
	if g.DealerID != seat.Dealer || g.FirstActorID != seat.FirstActor {
		return corrupt("dealer %s/%s does not follow rotation", g.DealerID, g.FirstActorID)
	}
	if g.Mode == domain.ModeTaking && !g.BidsConfirmed {
		return corrupt("taking before bids confirmed")
	}
	if g.Mode == domain.ModeBidding && g.BidsConfirmed {
		return corrupt("bidding after bids confirmed")
	}
	if !g.Cursor.Complete && !g.hasPlayer(g.Cursor.Seat) {
		return corrupt("cursor seat %q not seated", g.Cursor.Seat)
	}
	return nil
}

func validateEdit(g *Game) error {
	e := g.Edit
	if e == nil {
		return nil
	}
	if !g.Cursor.Complete {
		return corrupt("edit session with an entry in progress")
	}
	if e.Round < 1 || e.Round > g.CurrentRound || !e.Mode.Valid() {
		return corrupt("edit session targets round %d %q", e.Round, e.Mode)
	}
	seat := g.seatingFor(e.Round)
	if e.Dealer != seat.Dealer || e.FirstActor != seat.FirstActor || !g.hasPlayer(e.Seat) {
		return corrupt("edit session seating inconsistent")
	}
	relocated := e.Round != g.CurrentRound || e.Mode != g.Mode
	if relocated != (e.Saved != nil) {
		return corrupt("edit session saved cursor inconsistent")
	}
	if e.Saved != nil && (e.Saved.Round != g.CurrentRound || e.Saved.Mode != g.Mode || e.Saved.BidsConfirmed != g.BidsConfirmed) {
		return corrupt("edit session saved cursor differs from live cursor")
	}
	return nil
}
