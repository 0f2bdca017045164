package domain

import (
	"errors"
	"testing"
)

func newTestLedger(bidPoints int) *Ledger {
	players := []Player{{ID: "A", Name: "Ann"}, {ID: "B", Name: "Ben"}}
	return NewLedger(players, BuildSchedule(2, 2), bidPoints)
}

func TestRoundScore(t *testing.T) {
	one, two, zero := 1, 2, 0
	tests := []struct {
		name  string
		bid   *int
		taken *int
		want  int
	}{
		{name: "made bid", bid: &two, taken: &two, want: 12},
		{name: "made zero", bid: &zero, taken: &zero, want: 10},
		{name: "missed", bid: &two, taken: &one, want: 0},
		{name: "no taken yet", bid: &one, taken: nil, want: 0},
		{name: "nothing entered", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundScore(tt.bid, tt.taken, 10); got != tt.want {
				t.Fatalf("RoundScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLedgerRecomputesTotals(t *testing.T) {
	l := newTestLedger(10)

	if err := l.SetBid("A", 1, 1); err != nil {
		t.Fatalf("SetBid: %v", err)
	}
	if err := l.SetTaken("A", 1, 1); err != nil {
		t.Fatalf("SetTaken: %v", err)
	}
	if err := l.SetBid("A", 2, 0); err != nil {
		t.Fatalf("SetBid: %v", err)
	}
	if err := l.SetTaken("A", 2, 0); err != nil {
		t.Fatalf("SetTaken: %v", err)
	}
	if got := l.Player("A").TotalScore; got != 21 {
		t.Fatalf("total = %d, want 21", got)
	}

	if err := l.ClearTaken("A", 1); err != nil {
		t.Fatalf("ClearTaken: %v", err)
	}
	if e := l.Entry("A", 1); e.RoundScore != 0 || e.Taken != nil {
		t.Fatalf("entry after clear = %+v", e)
	}
	if got := l.Player("A").TotalScore; got != 10 {
		t.Fatalf("total after clear = %d, want 10", got)
	}

	if err := l.ClearBid("A", 2); err != nil {
		t.Fatalf("ClearBid: %v", err)
	}
	if got := l.Player("A").TotalScore; got != 0 {
		t.Fatalf("total after clearing bid = %d, want 0", got)
	}
	if !l.Consistent() {
		t.Fatalf("ledger should be consistent")
	}
}

func TestLedgerUnknownKeys(t *testing.T) {
	l := newTestLedger(10)
	if err := l.SetBid("Z", 1, 0); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
	if err := l.SetBid("A", 9, 0); !errors.Is(err, ErrUnknownRound) {
		t.Fatalf("err = %v, want ErrUnknownRound", err)
	}
}

func TestLedgerCloneIsDeep(t *testing.T) {
	l := newTestLedger(5)
	_ = l.SetBid("B", 1, 2)
	c := l.Clone()
	_ = l.SetBid("B", 1, 0)
	if got := *c.Bid("B", 1); got != 2 {
		t.Fatalf("clone bid = %d, want 2", got)
	}
}

func TestLedgerConsistentDetectsTampering(t *testing.T) {
	l := newTestLedger(10)
	_ = l.SetBid("A", 1, 1)
	_ = l.SetTaken("A", 1, 1)
	l.Players[0].TotalScore = 99
	if l.Consistent() {
		t.Fatalf("tampered total should be inconsistent")
	}
}
