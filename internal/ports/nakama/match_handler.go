package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ohhell/internal/app"
	"ohhell/internal/app/scorebook"
	"ohhell/internal/config"
	"ohhell/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_Open  = "open"  // Key for whether the scorer is at the table
	MatchLabelKey_Owner = "owner" // Key for the scorer's user id
)

// ScorecardState holds the authoritative runtime state for a scorecard table.
// Only the owner's actions mutate Game; every presence receives snapshots.
type ScorecardState struct {
	Owner     string                      `json:"owner"` // User ID of the scorer
	Tick      int64                       `json:"tick"`  // Last processed tick
	Presences map[string]runtime.Presence `json:"-"`     // Map UserId -> Presence for targeted messaging
	Book      *scorebook.Service          `json:"-"`     // Scorecard service bound to storage
	Game      *app.Game                   `json:"-"`     // Current scorecard
}

// ownerPresent reports whether the scorer is connected.
func (s *ScorecardState) ownerPresent() bool {
	_, ok := s.Presences[s.Owner]
	return ok
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return newMatchHandler(), nil
}

type matchHandler struct {
	// store overrides Nakama storage; nil means persist through nk.
	store ports.GameStore
}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created. params must carry the owner's user id.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing scorecard match.")

	owner, _ := params[matchParamOwner].(string)
	if owner == "" {
		logger.Error("MatchInit: Missing %q param.", matchParamOwner)
		return nil, 0, ""
	}

	var store ports.GameStore = mh.store
	if store == nil {
		store = NewNakamaStore(nk)
	}
	cfg := config.GetGameConfig()
	defaults := app.Config{MaxCardsDealtByUser: cfg.DefaultMaxCards(), BidPoints: cfg.DefaultBidPoints()}
	book := scorebook.NewService(app.NewService(logger), store, defaults, logger, nil)

	game, err := book.Load(ctx, owner)
	if err != nil {
		logger.Error("MatchInit: Failed to load scorecard for %s: %v", owner, err)
		return nil, 0, ""
	}

	state := &ScorecardState{
		Owner:     owner,
		Presences: make(map[string]runtime.Presence),
		Book:      book,
		Game:      game,
	}

	label, err := encodeLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

// MatchJoinAttempt admits anyone; non-owners are read-only viewers.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	if _, ok := state.(*ScorecardState); !ok {
		return state, false, "state not found"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*ScorecardState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		logger.Debug("MatchJoin: User %s joined (owner=%t).", p.GetUserId(), p.GetUserId() == matchState.Owner)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshot(matchState, dispatcher, logger, nil, presences)

	return matchState
}

// MatchLeave is called when one or more presences leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*ScorecardState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating empty scorecard match of %s.", matchState.Owner)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*ScorecardState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpAction:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

func (mh *matchHandler) handleAction(ctx context.Context, state *ScorecardState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.Owner {
		logger.Warn("handleAction: User %s is not the scorer (%s).", senderID, state.Owner)
		mh.sendError(state, dispatcher, logger, senderID, codeFailedPrecondition, "only the scorer can change the scorecard")
		return
	}

	action, err := app.DecodeAction(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, codeInvalidArgument, err.Error())
		return
	}

	result, err := state.Book.Apply(ctx, state.Owner, state.Game, action)
	if err != nil {
		logger.Debug("handleAction: %s rejected: %v", action.Type, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}

	state.Game = result.Game
	mh.updateLabel(state, dispatcher, logger)
	mh.sendSnapshot(state, dispatcher, logger, result.Events, nil)
}

// sendSnapshot pushes the scorecard view with the kinds of events that produced it.
// nil recipients means every presence.
func (mh *matchHandler) sendSnapshot(state *ScorecardState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event, recipients []runtime.Presence) {
	kinds := make([]interface{}, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, string(ev.Kind))
	}

	view, err := toStructMap(state.Book.Games().View(state.Game))
	if err != nil {
		logger.Error("sendSnapshot: Failed to convert view: %v", err)
		return
	}
	payload, err := structpb.NewStruct(map[string]interface{}{
		"view":   view,
		"events": kinds,
	})
	if err != nil {
		logger.Error("sendSnapshot: Failed to build payload: %v", err)
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("sendSnapshot: Failed to marshal payload: %v", err)
		return
	}

	if err := dispatcher.BroadcastMessage(OpSnapshot, bytes, recipients, nil, true); err != nil {
		logger.Error("sendSnapshot: Failed to broadcast: %v", err)
	}
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *ScorecardState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload, err := structpb.NewStruct(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if err != nil {
		logger.Error("Failed to build error event: %v", err)
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *ScorecardState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func encodeLabel(state *ScorecardState) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_Open:  state.ownerPresent(),
		MatchLabelKey_Owner: state.Owner,
		"phase":             string(state.Game.Phase),
		"round":             state.Game.CurrentRound,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

// toStructMap flattens v through its JSON form so structpb can carry it.
func toStructMap(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("view is not an object: %w", err)
	}
	return m, nil
}

func errorCode(err error) int {
	switch app.Classify(err) {
	case app.ClassIllegalValue, app.ClassConfiguration:
		return codeInvalidArgument
	case app.ClassOutOfTurn, app.ClassInvalidPhase:
		return codeFailedPrecondition
	}
	return codeInternal
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

// MatchSignal answers with the current view as JSON.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*ScorecardState)
	if !ok {
		return state, ""
	}
	view, err := encodeView(matchState.Book.Games().View(matchState.Game))
	if err != nil {
		return state, ""
	}
	return state, view
}
