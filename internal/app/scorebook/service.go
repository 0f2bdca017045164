// Package scorebook binds the scorecard engine to a snapshot store.
package scorebook

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"ohhell/internal/app"
	"ohhell/internal/domain"
	"ohhell/internal/ports"
)

// Result captures the outcome of one applied action.
type Result struct {
	Game   *app.Game
	Events []app.Event
	// SaveErr is set when the snapshot could not be persisted; the in-memory game is still authoritative.
	SaveErr error
}

// Service loads, applies and persists scorecards for an owner.
type Service struct {
	games    *app.Service
	store    ports.GameStore
	defaults app.Config
	log      app.Logger
	rng      *rand.Rand
}

// NewService constructs a scorebook. games and store must be non-nil;
// logger and rng may be nil.
func NewService(games *app.Service, store ports.GameStore, defaults app.Config, logger app.Logger, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = nopLogger{}
	}
	if defaults.MaxCardsDealtByUser < 1 {
		defaults = app.DefaultConfig()
	}
	return &Service{games: games, store: store, defaults: defaults, log: logger, rng: rng}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Games exposes the engine for read-only helpers such as View.
func (s *Service) Games() *app.Service { return s.games }

// Load returns the owner's saved scorecard, or a fresh one in setup when nothing usable is stored.
// A snapshot that fails validation is discarded, not returned as an error.
func (s *Service) Load(ctx context.Context, ownerID string) (*app.Game, error) {
	if s.games == nil || s.store == nil {
		return nil, fmt.Errorf("scorebook service not configured")
	}
	data, err := s.store.Load(ctx, ownerID)
	if errors.Is(err, ports.ErrSnapshotNotFound) {
		return app.NewGame(s.defaults), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scorecard for %s: %w", ownerID, err)
	}
	game, err := app.Restore(data)
	if err != nil {
		s.log.Warn("discarding scorecard of %s: %v", ownerID, err)
	}
	return game, nil
}

// Apply runs action against game and saves the result.
// A rejected action returns the unchanged game and the rejection; a failed save is reported in Result.SaveErr only.
func (s *Service) Apply(ctx context.Context, ownerID string, game *app.Game, action app.Action) (Result, error) {
	if action.Type == app.ActionStartGame {
		action.Players = s.nameRoster(action.Players)
	}
	next, events, err := s.games.Apply(game, action)
	if err != nil {
		return Result{Game: game}, err
	}
	result := Result{Game: next, Events: events}
	result.SaveErr = s.Save(ctx, ownerID, next)
	return result, nil
}

// Save persists game for ownerID, logging any failure.
func (s *Service) Save(ctx context.Context, ownerID string, game *app.Game) error {
	data, err := app.Encode(game)
	if err == nil {
		err = s.store.Save(ctx, ownerID, data)
	}
	if err != nil {
		s.log.Error("save scorecard for %s: %v", ownerID, err)
	}
	return err
}

// nameRoster fills blank player names so every ledger row is labelled.
func (s *Service) nameRoster(players []domain.Player) []domain.Player {
	out := append([]domain.Player(nil), players...)
	for i := range out {
		if out[i].Name == "" {
			out[i].Name = s.generateFriendlyName()
		}
	}
	return out
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(90) + 10

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}

// Discard removes the owner's stored scorecard and returns an empty one with the scorebook defaults.
func (s *Service) Discard(ctx context.Context, ownerID string) (*app.Game, error) {
	if err := s.store.Delete(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("discard scorecard for %s: %w", ownerID, err)
	}
	s.log.Info("discarded scorecard of %s", ownerID)
	return app.NewGame(s.defaults), nil
}
