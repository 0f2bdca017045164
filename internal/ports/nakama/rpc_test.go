package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ohhell/internal/app"
	"ohhell/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMatchFinder struct {
	matches   []*api.Match
	created   int
	lastQuery string
	params    map[string]interface{}
}

func (f *fakeMatchFinder) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.lastQuery = query
	return f.matches, nil
}

func (f *fakeMatchFinder) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created++
	f.params = params
	return "match-new", nil
}

func requireCode(t *testing.T, err error, code int) {
	t.Helper()
	var rtErr *runtime.Error
	require.True(t, errors.As(err, &rtErr), "expected runtime error, got %v", err)
	assert.Equal(t, code, rtErr.Code, rtErr.Message)
}

func decodeView(t *testing.T, raw string) app.View {
	t.Helper()
	var v app.View
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestCallerIDRequiresUser(t *testing.T) {
	_, err := callerID(context.Background())
	requireCode(t, err, codeUnauthenticated)

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user-1")
	id, err := callerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestScorecardActionsOverRPC(t *testing.T) {
	ctx := context.Background()
	book := newScorebook(newFakeStorage(), noopLogger{})

	raw, err := getScorecard(ctx, noopLogger{}, book, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSetup, decodeView(t, raw).Phase)

	for _, payload := range []string{
		`{"type":"start_game","players":[{"id":"A","name":"Ann"},{"id":"B"},{"id":"C"}],"max_cards":3}`,
		`{"type":"select_dealer","player_id":"C"}`,
		`{"type":"bid","player_id":"A","value":1}`,
	} {
		raw, err = applyScorecardAction(ctx, noopLogger{}, book, "user-1", payload)
		require.NoError(t, err, payload)
	}
	view := decodeView(t, raw)
	assert.Equal(t, domain.PlayerID("B"), view.CurrentActor)
	assert.Len(t, view.Schedule, 5)

	// Saved between calls.
	raw, err = getScorecard(ctx, noopLogger{}, book, "user-1")
	require.NoError(t, err)
	assert.Equal(t, view.GameID, decodeView(t, raw).GameID)

	_, err = applyScorecardAction(ctx, noopLogger{}, book, "user-1", `{"type":"bid","player_id":"C","value":0}`)
	requireCode(t, err, codeFailedPrecondition)
	_, err = applyScorecardAction(ctx, noopLogger{}, book, "user-1", `{"type":"bid","player_id":"B","value":7}`)
	requireCode(t, err, codeInvalidArgument)
	_, err = applyScorecardAction(ctx, noopLogger{}, book, "user-1", `{"type":"dance"}`)
	requireCode(t, err, codeInvalidArgument)
}

func TestScorecardActionRejectsOversizedRoster(t *testing.T) {
	players := make([]domain.Player, 11)
	for i := range players {
		players[i] = domain.Player{ID: domain.PlayerID(rune('A' + i))}
	}
	payload, err := json.Marshal(app.Action{Type: app.ActionStartGame, Players: players})
	require.NoError(t, err)

	_, err = applyScorecardAction(context.Background(), noopLogger{}, newScorebook(newFakeStorage(), noopLogger{}), "user-1", string(payload))
	requireCode(t, err, codeInvalidArgument)
}

func TestShareAndViewShared(t *testing.T) {
	ctx := context.Background()
	book := newScorebook(newFakeStorage(), noopLogger{})
	shares := app.NewShareService("secret", "ohhell", time.Hour)

	_, err := shareScorecard(ctx, noopLogger{}, book, shares, "owner")
	requireCode(t, err, codeFailedPrecondition)

	_, err = applyScorecardAction(ctx, noopLogger{}, book, "owner", `{"type":"start_game","players":[{"id":"A"},{"id":"B"}]}`)
	require.NoError(t, err)

	raw, err := shareScorecard(ctx, noopLogger{}, book, shares, "owner")
	require.NoError(t, err)
	var resp ShareResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())

	raw, err = viewSharedScorecard(ctx, noopLogger{}, book, shares, `{"token":"`+resp.Token+`"}`)
	require.NoError(t, err)
	assert.Equal(t, resp.GameID, decodeView(t, raw).GameID)

	_, err = viewSharedScorecard(ctx, noopLogger{}, book, shares, `{"token":"forged"}`)
	requireCode(t, err, codeInvalidArgument)
	_, err = viewSharedScorecard(ctx, noopLogger{}, book, shares, `{}`)
	requireCode(t, err, codeInvalidArgument)

	// A reset replaces the game, so old links stop resolving.
	_, err = applyScorecardAction(ctx, noopLogger{}, book, "owner", `{"type":"reset"}`)
	require.NoError(t, err)
	_, err = viewSharedScorecard(ctx, noopLogger{}, book, shares, `{"token":"`+resp.Token+`"}`)
	requireCode(t, err, codeNotFound)
}

func TestShareServiceFromEnv(t *testing.T) {
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{})
	_, err := shareServiceFromEnv(ctx, noopLogger{})
	requireCode(t, err, codeFailedPrecondition)

	ctx = context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{
		envShareSecret: "s3cret",
		envShareIssuer: "club",
	})
	shares, err := shareServiceFromEnv(ctx, noopLogger{})
	require.NoError(t, err)
	token, err := shares.IssueToken("owner", "game")
	require.NoError(t, err)
	_, err = app.NewShareService("s3cret", "club", time.Hour).Verify(token)
	assert.NoError(t, err)
}

func TestFindTable(t *testing.T) {
	finder := &fakeMatchFinder{}
	raw, err := findTable(context.Background(), noopLogger{}, finder, "user-1")
	require.NoError(t, err)

	var resp TableResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.Equal(t, TableResponse{MatchID: "match-new", IsNew: true}, resp)
	assert.Equal(t, `+label.owner:"user-1"`, finder.lastQuery)
	assert.Equal(t, "user-1", finder.params[matchParamOwner])

	finder = &fakeMatchFinder{matches: []*api.Match{{MatchId: "match-live"}}}
	raw, err = findTable(context.Background(), noopLogger{}, finder, "user-1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.Equal(t, TableResponse{MatchID: "match-live"}, resp)
	assert.Zero(t, finder.created)
}
