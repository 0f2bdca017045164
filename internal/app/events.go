package app

import "ohhell/internal/domain"

// EventKind identifies emitted events for dispatch by the transports.
type EventKind string

const (
	EventGameStarted      EventKind = "game_started"
	EventDealerSelected   EventKind = "dealer_selected"
	EventBidRecorded      EventKind = "bid_recorded"
	EventBidsConfirmed    EventKind = "bids_confirmed"
	EventTakenRecorded    EventKind = "taken_recorded"
	EventRoundCompleted   EventKind = "round_completed"
	EventRoundAdvanced    EventKind = "round_advanced"
	EventGameOver         EventKind = "game_over"
	EventEditStarted      EventKind = "edit_started"
	EventEditValueChanged EventKind = "edit_value_changed"
	EventEditSeatAdvanced EventKind = "edit_seat_advanced"
	EventEditFinished     EventKind = "edit_finished"
	EventEntryUndone      EventKind = "entry_undone"
	EventRoundRewound     EventKind = "round_rewound"
	EventGameReset        EventKind = "game_reset"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID  string            `json:"game_id"`
	Players []domain.PlayerID `json:"players"`
	Rounds  int               `json:"rounds"`
}

type DealerSelectedPayload struct {
	Dealer     domain.PlayerID `json:"dealer"`
	FirstActor domain.PlayerID `json:"first_actor"`
}

// EntryRecordedPayload is carried by bid_recorded and taken_recorded.
// NextActor is empty once every seat has entered a value.
type EntryRecordedPayload struct {
	PlayerID  domain.PlayerID `json:"player_id"`
	Round     int             `json:"round"`
	Value     int             `json:"value"`
	NextActor domain.PlayerID `json:"next_actor,omitempty"`
}

type BidsConfirmedPayload struct {
	Round      int             `json:"round"`
	FirstActor domain.PlayerID `json:"first_actor"`
}

type RoundCompletedPayload struct {
	Round int `json:"round"`
}

type RoundAdvancedPayload struct {
	Round      int             `json:"round"`
	CardsDealt int             `json:"cards_dealt"`
	Dealer     domain.PlayerID `json:"dealer"`
	FirstActor domain.PlayerID `json:"first_actor"`
}

type GameOverPayload struct {
	Leaders []domain.PlayerID `json:"leaders"`
	Score   int               `json:"score"`
}

type EditStartedPayload struct {
	Round int             `json:"round"`
	Mode  domain.Mode     `json:"mode"`
	Seat  domain.PlayerID `json:"seat"`
}

type EditValueChangedPayload struct {
	PlayerID domain.PlayerID `json:"player_id"`
	Round    int             `json:"round"`
	Mode     domain.Mode     `json:"mode"`
	Value    int             `json:"value"`
}

type EditSeatAdvancedPayload struct {
	Round int             `json:"round"`
	Seat  domain.PlayerID `json:"seat"`
}

type EditFinishedPayload struct {
	Round     int         `json:"round"`
	Mode      domain.Mode `json:"mode"`
	Cancelled bool        `json:"cancelled"`
}

// EntryUndonePayload names the cleared entry. Bulk is set when every taken of the round was cleared.
type EntryUndonePayload struct {
	PlayerID domain.PlayerID `json:"player_id,omitempty"`
	Round    int             `json:"round"`
	Mode     domain.Mode     `json:"mode"`
	Bulk     bool            `json:"bulk,omitempty"`
}

type RoundRewoundPayload struct {
	Round int `json:"round"`
}

type GameResetPayload struct {
	GameID string `json:"game_id"`
}
