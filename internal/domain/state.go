package domain

// Phase represents the lifecycle stage of a scorecard.
type Phase string

const (
	// PhaseSetup is the pre-game state where the roster and configuration are collected.
	PhaseSetup Phase = "setup"
	// PhaseDealerSelection waits for the first dealer to be chosen.
	PhaseDealerSelection Phase = "dealer_selection"
	// PhaseScoring is the active state where bids and tricks are recorded.
	PhaseScoring Phase = "scoring"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseSetup, PhaseDealerSelection, PhaseScoring:
		return true
	}
	return false
}

// Mode is the input mode of a round.
type Mode string

const (
	// ModeBidding collects each seat's bid.
	ModeBidding Mode = "bidding"
	// ModeTaking collects each seat's tricks taken.
	ModeTaking Mode = "taking"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeBidding || m == ModeTaking
}

// PlayerID identifies a player. It is the only key other entities use.
type PlayerID string

// Player is a roster entry.
type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// Round is one entry of the round schedule.
type Round struct {
	Number     int  `json:"number"` // 1-based
	CardsDealt int  `json:"cards_dealt"`
	IsUpRound  bool `json:"is_up_round"`
}

// ScoreEntry holds one player's bid and tricks for one round.
// Bid and Taken are nil until entered; RoundScore is always derived.
type ScoreEntry struct {
	Round      int  `json:"round"`
	Bid        *int `json:"bid"`
	Taken      *int `json:"taken"`
	RoundScore int  `json:"round_score"`
}

// PlayerLedger is a player's score sheet.
type PlayerLedger struct {
	PlayerID   PlayerID     `json:"player_id"`
	Name       string       `json:"name"`
	Scores     []ScoreEntry `json:"scores"`
	TotalScore int          `json:"total_score"`
}
