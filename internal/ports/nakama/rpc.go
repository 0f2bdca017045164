package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"ohhell/internal/app"
	"ohhell/internal/app/scorebook"
	"ohhell/internal/config"
	"ohhell/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// TableResponse is returned to clients requesting their live scorecard match.
type TableResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// ShareResponse carries a read-only link token for a scorecard.
type ShareResponse struct {
	Token     string `json:"token"`
	GameID    string `json:"game_id"`
	ExpiresAt int64  `json:"expires_at"`
}

// matchFinder is the slice of runtime.NakamaModule used to locate tables.
type matchFinder interface {
	MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error)
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcScorecardGet:        RpcGetScorecard,
		RpcScorecardAction:     RpcScorecardActionHandler,
		RpcScorecardShare:      RpcShareScorecard,
		RpcScorecardViewShared: RpcViewSharedScorecard,
		RpcScorecardTable:      RpcFindTable,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("register rpc %s: %w", id, err)
		}
	}
	return nil
}

// newScorebook builds the scorecard service over Nakama storage using the loaded game config.
func newScorebook(nk storageModule, logger runtime.Logger) *scorebook.Service {
	cfg := config.GetGameConfig()
	defaults := app.Config{MaxCardsDealtByUser: cfg.DefaultMaxCards(), BidPoints: cfg.DefaultBidPoints()}
	return scorebook.NewService(app.NewService(logger), NewNakamaStore(nk), defaults, logger, nil)
}

// RpcGetScorecard returns the caller's scorecard view.
func RpcGetScorecard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	return getScorecard(ctx, logger, newScorebook(nk, logger), userID)
}

// RpcScorecardActionHandler applies an action payload to the caller's scorecard.
// Payload: {"type": "bid", "player_id": "...", "value": 2, ...}
func RpcScorecardActionHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	return applyScorecardAction(ctx, logger, newScorebook(nk, logger), userID, payload)
}

// RpcShareScorecard issues a read-only token for the caller's scorecard.
func RpcShareScorecard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	shares, err := shareServiceFromEnv(ctx, logger)
	if err != nil {
		return "", err
	}
	return shareScorecard(ctx, logger, newScorebook(nk, logger), shares, userID)
}

// RpcViewSharedScorecard resolves a share token into the owner's scorecard view.
// Payload: {"token": "..."}
func RpcViewSharedScorecard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	shares, err := shareServiceFromEnv(ctx, logger)
	if err != nil {
		return "", err
	}
	return viewSharedScorecard(ctx, logger, newScorebook(nk, logger), shares, payload)
}

// RpcFindTable returns the caller's scorecard match, creating one if none is running.
func RpcFindTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	return findTable(ctx, logger, nk, userID)
}

func callerID(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}
	return userID, nil
}

func getScorecard(ctx context.Context, logger runtime.Logger, book *scorebook.Service, userID string) (string, error) {
	game, err := book.Load(ctx, userID)
	if err != nil {
		logger.Error("RpcGetScorecard [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to load scorecard", codeInternal)
	}
	return encodeView(book.Games().View(game))
}

func applyScorecardAction(ctx context.Context, logger runtime.Logger, book *scorebook.Service, userID, payload string) (string, error) {
	action, err := app.DecodeAction([]byte(payload))
	if err != nil {
		return "", toRuntimeError(err)
	}
	if limit := config.GetGameConfig().PlayerLimit(); len(action.Players) > limit {
		return "", runtime.NewError(fmt.Sprintf("at most %d players", limit), codeInvalidArgument)
	}

	game, err := book.Load(ctx, userID)
	if err != nil {
		logger.Error("RpcScorecardAction [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to load scorecard", codeInternal)
	}
	result, err := book.Apply(ctx, userID, game, action)
	if err != nil {
		logger.Debug("RpcScorecardAction [User:%s]: %s rejected: %v", userID, action.Type, err)
		return "", toRuntimeError(err)
	}
	if result.SaveErr != nil {
		logger.Warn("RpcScorecardAction [User:%s]: scorecard updated but not saved", userID)
	}
	return encodeView(book.Games().View(result.Game))
}

func shareServiceFromEnv(ctx context.Context, logger runtime.Logger) (*app.ShareService, error) {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := config.GetGameConfig()
	secret := env[envShareSecret]
	if secret == "" {
		logger.Warn("Share secret missing from env (%s); sharing disabled.", envShareSecret)
		return nil, runtime.NewError("sharing is not configured", codeFailedPrecondition)
	}
	issuer := env[envShareIssuer]
	if issuer == "" {
		issuer = cfg.Issuer()
	}
	return app.NewShareService(secret, issuer, cfg.ShareTTL()), nil
}

func shareScorecard(ctx context.Context, logger runtime.Logger, book *scorebook.Service, shares *app.ShareService, userID string) (string, error) {
	game, err := book.Load(ctx, userID)
	if err != nil {
		logger.Error("RpcShareScorecard [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to load scorecard", codeInternal)
	}
	if game.Phase == domain.PhaseSetup {
		return "", runtime.NewError("nothing to share before the game starts", codeFailedPrecondition)
	}
	token, err := shares.IssueToken(userID, game.ID)
	if err != nil {
		logger.Error("RpcShareScorecard [User:%s]: failed to issue token: %v", userID, err)
		return "", runtime.NewError("internal error", codeInternal)
	}
	grant, err := shares.Verify(token)
	if err != nil {
		logger.Error("RpcShareScorecard [User:%s]: issued token does not verify: %v", userID, err)
		return "", runtime.NewError("internal error", codeInternal)
	}
	return encodeJSON(ShareResponse{Token: token, GameID: game.ID, ExpiresAt: grant.ExpiresAt.Unix()})
}

func viewSharedScorecard(ctx context.Context, logger runtime.Logger, book *scorebook.Service, shares *app.ShareService, payload string) (string, error) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || strings.TrimSpace(req.Token) == "" {
		return "", runtime.NewError("token required", codeInvalidArgument)
	}
	grant, err := shares.Verify(req.Token)
	if err != nil {
		return "", runtime.NewError("invalid share token", codeInvalidArgument)
	}
	game, err := book.Load(ctx, grant.OwnerID)
	if err != nil {
		logger.Error("RpcViewSharedScorecard [Owner:%s]: %v", grant.OwnerID, err)
		return "", runtime.NewError("failed to load scorecard", codeInternal)
	}
	if game.ID != grant.GameID {
		return "", runtime.NewError("shared scorecard no longer exists", codeNotFound)
	}
	return encodeView(book.Games().View(game))
}

func findTable(ctx context.Context, logger runtime.Logger, nk matchFinder, userID string) (string, error) {
	query := fmt.Sprintf("+label.owner:%q", userID)
	authoritative := true
	minSize := 0
	maxSize := 64

	matches, err := nk.MatchList(ctx, 1, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("RpcFindTable [User:%s]: Failed to list matches: %v", userID, err)
		return "", runtime.NewError("failed to list matches", codeInternal)
	}
	if len(matches) > 0 {
		logger.Info("RpcFindTable [User:%s]: Found existing match %s", userID, matches[0].MatchId)
		return encodeJSON(TableResponse{MatchID: matches[0].MatchId})
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameScorecard, map[string]interface{}{matchParamOwner: userID})
	if err != nil {
		logger.Error("RpcFindTable [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("failed to create match", codeInternal)
	}
	logger.Info("RpcFindTable [User:%s]: Created new match %s", userID, matchID)
	return encodeJSON(TableResponse{MatchID: matchID, IsNew: true})
}

// toRuntimeError maps an engine rejection onto a gRPC status for the client.
func toRuntimeError(err error) error {
	return runtime.NewError(err.Error(), errorCode(err))
}

func encodeView(v app.View) (string, error) {
	return encodeJSON(v)
}

func encodeJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	return string(b), nil
}
