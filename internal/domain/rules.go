package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBidOutOfRange     = errors.New("bid out of range")
	ErrDealerBidSum      = errors.New("dealer bid would make bids equal cards dealt")
	ErrTakenOutOfRange   = errors.New("tricks taken out of range")
	ErrTakenExceedsDealt = errors.New("tricks taken would exceed cards dealt")
	ErrDealerTakenSum    = errors.New("dealer tricks must make the round total equal cards dealt")
)

// IsRuleViolation reports whether err is one of the bid or taken legality failures.
func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrBidOutOfRange) ||
		errors.Is(err, ErrDealerBidSum) ||
		errors.Is(err, ErrTakenOutOfRange) ||
		errors.Is(err, ErrTakenExceedsDealt) ||
		errors.Is(err, ErrDealerTakenSum)
}

// Seating carries the turn facts of a single round.
type Seating struct {
	Order      []PlayerID
	Dealer     PlayerID
	FirstActor PlayerID
}

// CheckBid validates a candidate bid for actor in round against the ledger.
// Only the dealer is bound by the aggregate rule: all bids may not sum to the cards dealt.
func CheckBid(round Round, value int, actor PlayerID, seat Seating, l *Ledger) error {
	if value < 0 || value > round.CardsDealt {
		return fmt.Errorf("%w: %d not in 0..%d", ErrBidOutOfRange, value, round.CardsDealt)
	}
	if actor != seat.Dealer {
		return nil
	}
	others := 0
	for _, p := range seat.Order {
		if p == actor {
			continue
		}
		if b := l.Bid(p, round.Number); b != nil {
			others += *b
		}
	}
	if others+value == round.CardsDealt {
		return fmt.Errorf("%w: %d + %d = %d", ErrDealerBidSum, others, value, round.CardsDealt)
	}
	return nil
}

// CheckTaken validates a candidate trick count for actor in round against the ledger.
// Seats visited before actor contribute to the preceding sum. The dealer, visited last,
// must close the round exactly; everyone else may not push it past the cards dealt.
func CheckTaken(round Round, value int, actor PlayerID, seat Seating, l *Ledger) error {
	if value < 0 || value > round.CardsDealt {
		return fmt.Errorf("%w: %d not in 0..%d", ErrTakenOutOfRange, value, round.CardsDealt)
	}
	preceding := PrecedingTaken(round.Number, actor, seat, l)
	if actor == seat.Dealer {
		if preceding+value != round.CardsDealt {
			return fmt.Errorf("%w: %d + %d != %d", ErrDealerTakenSum, preceding, value, round.CardsDealt)
		}
		return nil
	}
	if preceding+value > round.CardsDealt {
		return fmt.Errorf("%w: %d + %d > %d", ErrTakenExceedsDealt, preceding, value, round.CardsDealt)
	}
	return nil
}

// PrecedingTaken sums the tricks recorded for the seats that report before actor in round.
func PrecedingTaken(round int, actor PlayerID, seat Seating, l *Ledger) int {
	sum := 0
	for _, p := range TurnOrder(seat.Order, seat.FirstActor) {
		if p == actor {
			break
		}
		if t := l.Taken(p, round); t != nil {
			sum += *t
		}
	}
	return sum
}

// LegalBids lists every bid actor may make in round.
func LegalBids(round Round, actor PlayerID, seat Seating, l *Ledger) []int {
	out := make([]int, 0, round.CardsDealt+1)
	for v := 0; v <= round.CardsDealt; v++ {
		if CheckBid(round, v, actor, seat, l) == nil {
			out = append(out, v)
		}
	}
	return out
}

// LegalTaken lists every trick count actor may report in round.
func LegalTaken(round Round, actor PlayerID, seat Seating, l *Ledger) []int {
	out := make([]int, 0, round.CardsDealt+1)
	for v := 0; v <= round.CardsDealt; v++ {
		if CheckTaken(round, v, actor, seat, l) == nil {
			out = append(out, v)
		}
	}
	return out
}
