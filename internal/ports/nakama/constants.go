package nakama

const (
	// RpcScorecardGet returns the caller's scorecard, creating an empty one on first use.
	RpcScorecardGet = "scorecard_get"
	// RpcScorecardAction applies one action to the caller's scorecard.
	RpcScorecardAction     = "scorecard_action"
	RpcScorecardShare      = "scorecard_share"
	RpcScorecardViewShared = "scorecard_view_shared"
	// RpcScorecardTable finds or creates the caller's live scorecard match.
	RpcScorecardTable = "scorecard_table"

	// MatchNameScorecard is the authoritative match handler name registered with Nakama.
	MatchNameScorecard = "ohhell_scorecard"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpAction int64 = 1

	// Server -> Client events
	OpSnapshot int64 = 101
	OpError    int64 = 102
)

const (
	scorecardCollection = "scorecard"
	scorecardKey        = "current"

	envShareSecret = "ohhell_share_secret"
	envShareIssuer = "ohhell_share_issuer"

	gameConfigPath = "data/game_config.json"

	matchParamOwner = "owner"
)

// gRPC status codes used in runtime errors.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnauthenticated    = 16
)
