package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// ShareScopeView is the only scope a share token grants: reading someone else's scorecard.
const ShareScopeView = "scorecard:view"

var ErrInvalidShareToken = errors.New("invalid share token")

// ShareService signs and verifies read-only scorecard share tokens.
type ShareService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// ShareGrant is what a verified token allows.
type ShareGrant struct {
	OwnerID   string
	GameID    string
	ExpiresAt time.Time
}

func NewShareService(secret, issuer string, ttl time.Duration) *ShareService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ShareService{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}
}

// IssueToken returns an HS256 token letting its bearer view owner's scorecard for game.
func (s *ShareService) IssueToken(ownerID, gameID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("share service is nil")
	}
	if ownerID == "" {
		return "", fmt.Errorf("owner is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("share config is incomplete")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"sub":   ownerID,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
		"jti":   uuid.NewString(),
		"scope": ShareScopeView,
		"gid":   gameID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature, issuer, expiry and scope and returns the grant.
func (s *ShareService) Verify(tokenString string) (ShareGrant, error) {
	if s == nil || s.secret == "" {
		return ShareGrant{}, fmt.Errorf("share config is incomplete")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return ShareGrant{}, fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ShareGrant{}, fmt.Errorf("%w: claims are not map claims", ErrInvalidShareToken)
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return ShareGrant{}, fmt.Errorf("%w: issuer", ErrInvalidShareToken)
	}
	if scope, _ := claims["scope"].(string); scope != ShareScopeView {
		return ShareGrant{}, fmt.Errorf("%w: scope %q", ErrInvalidShareToken, scope)
	}
	owner, _ := claims["sub"].(string)
	if owner == "" {
		return ShareGrant{}, fmt.Errorf("%w: missing subject", ErrInvalidShareToken)
	}
	gameID, _ := claims["gid"].(string)
	grant := ShareGrant{OwnerID: owner, GameID: gameID}
	if exp, ok := claims["exp"].(float64); ok {
		grant.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return grant, nil
}
