package app

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ohhell/internal/domain"
)

// Logger is the logging surface the service needs. runtime.Logger satisfies it.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Service contains the scorecard use-cases. It holds no game state;
// every operation takes the caller's *Game and either mutates it fully or not at all.
type Service struct {
	log Logger
}

// NewService constructs a Service with the provided logger or a silent default.
func NewService(logger Logger) *Service {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Service{log: logger}
}

var (
	ErrOutOfTurn       = errors.New("player is not the seat awaiting input")
	ErrUnknownPlayer   = errors.New("player not found")
	ErrInvalidPhase    = errors.New("operation not valid in the current phase")
	ErrEditing         = errors.New("operation not valid while editing")
	ErrNotEditing      = errors.New("no edit session open")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrKeepBlocked     = errors.New("dealer value no longer satisfies the round total")
	ErrMalformedAction = errors.New("malformed action")
	ErrTooFewPlayers   = errors.New("not enough players to start")
	ErrDuplicatePlayer = errors.New("duplicate player id")
	ErrInvalidConfig   = errors.New("invalid game configuration")
	ErrNoRounds        = errors.New("schedule has no rounds")
	ErrCorruptSnapshot = errors.New("snapshot failed validation")
)

// ErrorClass groups errors the way collaborators report them.
type ErrorClass int

const (
	ClassNone ErrorClass = iota
	ClassIllegalValue
	ClassOutOfTurn
	ClassInvalidPhase
	ClassConfiguration
	ClassCorruptSnapshot
	ClassInternal
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassIllegalValue:
		return "illegal_value"
	case ClassOutOfTurn:
		return "out_of_turn"
	case ClassInvalidPhase:
		return "invalid_phase"
	case ClassConfiguration:
		return "configuration"
	case ClassCorruptSnapshot:
		return "corrupt_snapshot"
	}
	return "internal"
}

// Classify maps err onto its class.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassNone
	case domain.IsRuleViolation(err), errors.Is(err, ErrKeepBlocked),
		errors.Is(err, ErrUnknownPlayer), errors.Is(err, ErrMalformedAction):
		return ClassIllegalValue
	case errors.Is(err, ErrOutOfTurn):
		return ClassOutOfTurn
	case errors.Is(err, ErrInvalidPhase), errors.Is(err, ErrEditing),
		errors.Is(err, ErrNotEditing), errors.Is(err, ErrNothingToUndo):
		return ClassInvalidPhase
	case errors.Is(err, ErrTooFewPlayers), errors.Is(err, ErrDuplicatePlayer),
		errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrNoRounds):
		return ClassConfiguration
	case errors.Is(err, ErrCorruptSnapshot):
		return ClassCorruptSnapshot
	}
	return ClassInternal
}

func (s *Service) reject(op string, err error) error {
	s.log.Warn("%s rejected: %v", op, err)
	return err
}

// StartGame builds the schedule and an empty ledger for players in seat order.
// On error no game is created and the caller stays in setup.
func (s *Service) StartGame(players []domain.Player, cfg Config) (*Game, []Event, error) {
	if len(players) < MinPlayersToStartGame {
		return nil, nil, s.reject("start game", fmt.Errorf("%w: have %d, need %d", ErrTooFewPlayers, len(players), MinPlayersToStartGame))
	}
	if cfg.MaxCardsDealtByUser < 1 || cfg.BidPoints < 0 {
		return nil, nil, s.reject("start game", fmt.Errorf("%w: max cards %d, bid points %d", ErrInvalidConfig, cfg.MaxCardsDealtByUser, cfg.BidPoints))
	}

	roster := make([]domain.Player, 0, len(players))
	order := make([]domain.PlayerID, 0, len(players))
	seen := make(map[domain.PlayerID]bool, len(players))
	for _, p := range players {
		if p.ID == "" {
			p.ID = domain.PlayerID(uuid.NewString())
		}
		if seen[p.ID] {
			return nil, nil, s.reject("start game", fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID))
		}
		seen[p.ID] = true
		roster = append(roster, p)
		order = append(order, p.ID)
	}

	schedule := domain.BuildSchedule(len(roster), cfg.MaxCardsDealtByUser)
	if len(schedule) == 0 {
		return nil, nil, s.reject("start game", fmt.Errorf("%w: %d players, max %d cards", ErrNoRounds, len(roster), cfg.MaxCardsDealtByUser))
	}

	game := NewGame(cfg)
	game.Phase = domain.PhaseDealerSelection
	game.Players = roster
	game.PlayerOrder = order
	game.Schedule = schedule
	game.Ledger = domain.NewLedger(roster, schedule, cfg.BidPoints)
	game.Cursor = cycleComplete()

	s.log.Info("game %s started: %d players, %d rounds", game.ID, len(roster), len(schedule))
	return game, []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:  game.ID,
			Players: order,
			Rounds:  len(schedule),
		},
	}}, nil
}

// ResetToSetup discards the game, keeping only its configuration.
func (s *Service) ResetToSetup(game *Game) (*Game, []Event) {
	cfg := DefaultConfig()
	if game != nil {
		cfg = game.Config
	}
	fresh := NewGame(cfg)
	s.log.Info("game reset to setup as %s", fresh.ID)
	return fresh, []Event{{Kind: EventGameReset, Payload: GameResetPayload{GameID: fresh.ID}}}
}

// SelectDealer fixes the first dealer and opens bidding for round 1.
func (s *Service) SelectDealer(game *Game, dealer domain.PlayerID) ([]Event, error) {
	if game.Phase != domain.PhaseDealerSelection {
		return nil, s.reject("select dealer", fmt.Errorf("%w: phase %s", ErrInvalidPhase, game.Phase))
	}
	if len(game.PlayerOrder) == 0 {
		return nil, s.reject("select dealer", fmt.Errorf("%w: empty player order", ErrInvalidPhase))
	}
	idx := domain.SeatIndex(game.PlayerOrder, dealer)
	if idx < 0 {
		return nil, s.reject("select dealer", fmt.Errorf("%w: %s", ErrUnknownPlayer, dealer))
	}

	game.FirstDealerIndex = idx
	game.CurrentRound = 1
	game.DealerID = dealer
	game.FirstActorID = domain.FirstActorForRound(game.PlayerOrder, idx, 1)
	game.Cursor = awaiting(game.FirstActorID)
	game.Mode = domain.ModeBidding
	game.BidsConfirmed = false
	game.Phase = domain.PhaseScoring

	s.log.Debug("game %s: dealer %s, first actor %s", game.ID, dealer, game.FirstActorID)
	return []Event{{
		Kind:    EventDealerSelected,
		Payload: DealerSelectedPayload{Dealer: dealer, FirstActor: game.FirstActorID},
	}}, nil
}
