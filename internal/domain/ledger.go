package domain

import "errors"

var (
	ErrUnknownPlayer = errors.New("player not in ledger")
	ErrUnknownRound  = errors.New("round not in ledger")
)

// RoundScore is bidPoints plus the bid when the bid was made exactly, otherwise zero.
func RoundScore(bid, taken *int, bidPoints int) int {
	if bid == nil || taken == nil || *bid != *taken {
		return 0
	}
	return bidPoints + *bid
}

// Ledger stores every player's score sheet. It performs no legality checks;
// every write recomputes the entry's round score and the player's total.
type Ledger struct {
	BidPoints int            `json:"bid_points"`
	Players   []PlayerLedger `json:"players"`
}

// NewLedger creates an empty entry for every (player, round) pair.
func NewLedger(players []Player, rounds []Round, bidPoints int) *Ledger {
	l := &Ledger{BidPoints: bidPoints, Players: make([]PlayerLedger, 0, len(players))}
	for _, p := range players {
		scores := make([]ScoreEntry, len(rounds))
		for i, r := range rounds {
			scores[i] = ScoreEntry{Round: r.Number}
		}
		l.Players = append(l.Players, PlayerLedger{PlayerID: p.ID, Name: p.Name, Scores: scores})
	}
	return l
}

// Player returns the score sheet of id, or nil.
func (l *Ledger) Player(id PlayerID) *PlayerLedger {
	for i := range l.Players {
		if l.Players[i].PlayerID == id {
			return &l.Players[i]
		}
	}
	return nil
}

// Entry returns the entry of id for round, or nil.
func (l *Ledger) Entry(id PlayerID, round int) *ScoreEntry {
	pl := l.Player(id)
	if pl == nil {
		return nil
	}
	for i := range pl.Scores {
		if pl.Scores[i].Round == round {
			return &pl.Scores[i]
		}
	}
	return nil
}

// Bid returns the recorded bid of id in round, or nil.
func (l *Ledger) Bid(id PlayerID, round int) *int {
	if e := l.Entry(id, round); e != nil {
		return e.Bid
	}
	return nil
}

// Taken returns the recorded tricks of id in round, or nil.
func (l *Ledger) Taken(id PlayerID, round int) *int {
	if e := l.Entry(id, round); e != nil {
		return e.Taken
	}
	return nil
}

func (l *Ledger) SetBid(id PlayerID, round, value int) error {
	return l.write(id, round, func(e *ScoreEntry) { e.Bid = &value })
}

func (l *Ledger) SetTaken(id PlayerID, round, value int) error {
	return l.write(id, round, func(e *ScoreEntry) { e.Taken = &value })
}

func (l *Ledger) ClearBid(id PlayerID, round int) error {
	return l.write(id, round, func(e *ScoreEntry) { e.Bid = nil })
}

func (l *Ledger) ClearTaken(id PlayerID, round int) error {
	return l.write(id, round, func(e *ScoreEntry) { e.Taken = nil })
}

func (l *Ledger) write(id PlayerID, round int, apply func(*ScoreEntry)) error {
	pl := l.Player(id)
	if pl == nil {
		return ErrUnknownPlayer
	}
	e := l.Entry(id, round)
	if e == nil {
		return ErrUnknownRound
	}
	apply(e)
	e.RoundScore = RoundScore(e.Bid, e.Taken, l.BidPoints)
	pl.TotalScore = sumScores(pl.Scores)
	return nil
}

func sumScores(scores []ScoreEntry) int {
	total := 0
	for _, s := range scores {
		total += s.RoundScore
	}
	return total
}

// Clone returns a deep copy that shares no pointers with l.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{BidPoints: l.BidPoints, Players: make([]PlayerLedger, len(l.Players))}
	for i, pl := range l.Players {
		scores := make([]ScoreEntry, len(pl.Scores))
		for j, s := range pl.Scores {
			scores[j] = ScoreEntry{Round: s.Round, Bid: copyInt(s.Bid), Taken: copyInt(s.Taken), RoundScore: s.RoundScore}
		}
		out.Players[i] = PlayerLedger{PlayerID: pl.PlayerID, Name: pl.Name, Scores: scores, TotalScore: pl.TotalScore}
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Consistent reports whether every round score and total matches the scoring formula.
func (l *Ledger) Consistent() bool {
	for _, pl := range l.Players {
		for _, s := range pl.Scores {
			if s.RoundScore != RoundScore(s.Bid, s.Taken, l.BidPoints) {
				return false
			}
		}
		if pl.TotalScore != sumScores(pl.Scores) {
			return false
		}
	}
	return true
}
