package domain

// SeatIndex returns the position of id in order, or -1 if it is not seated.
func SeatIndex(order []PlayerID, id PlayerID) int {
	for i, p := range order {
		if p == id {
			return i
		}
	}
	return -1
}

// SeatFrom returns the seat offset steps away from id, wrapping around the table.
// Negative offsets walk backwards.
func SeatFrom(order []PlayerID, id PlayerID, offset int) (PlayerID, bool) {
	idx := SeatIndex(order, id)
	if idx < 0 {
		return "", false
	}
	n := len(order)
	return order[((idx+offset)%n+n)%n], true
}

// NextSeat returns the seat after id.
func NextSeat(order []PlayerID, id PlayerID) PlayerID {
	p, _ := SeatFrom(order, id, 1)
	return p
}

// PrevSeat returns the seat before id.
func PrevSeat(order []PlayerID, id PlayerID) PlayerID {
	p, _ := SeatFrom(order, id, -1)
	return p
}

// DealerForRound derives the dealer of round (1-based) from the first dealer's seat,
// without stepping through the rounds in between.
func DealerForRound(order []PlayerID, firstDealerIndex, round int) PlayerID {
	n := len(order)
	if n == 0 {
		return ""
	}
	return order[((firstDealerIndex+round-1)%n+n)%n]
}

// FirstActorForRound returns the seat after the dealer of round; it bids and reports first.
func FirstActorForRound(order []PlayerID, firstDealerIndex, round int) PlayerID {
	n := len(order)
	if n == 0 {
		return ""
	}
	return order[((firstDealerIndex+round)%n+n)%n]
}

// TurnOrder lists every seat of a round starting at firstActor; the dealer comes last.
func TurnOrder(order []PlayerID, firstActor PlayerID) []PlayerID {
	start := SeatIndex(order, firstActor)
	if start < 0 {
		return nil
	}
	out := make([]PlayerID, 0, len(order))
	for i := range order {
		out = append(out, order[(start+i)%len(order)])
	}
	return out
}
