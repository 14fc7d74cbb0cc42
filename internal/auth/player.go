package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PlayerCookieName = "gridpicks_player"
	tokenIssuer      = "gridpicks"
)

// ErrInvalidToken is returned for missing, expired or tampered tokens
var ErrInvalidToken = errors.New("invalid player token")

// Claims identify a logged-in player
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// PlayerID returns the player the token was issued to
func (c *Claims) PlayerID() string {
	return c.Subject
}

// PlayerTokens issues and verifies signed player session tokens
type PlayerTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewPlayerTokens creates a token issuer signing with secret
func NewPlayerTokens(secret string, ttl time.Duration) *PlayerTokens {
	return &PlayerTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for a player
func (p *PlayerTokens) Issue(playerID, name string) (string, error) {
	now := p.now()
	claims := &Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Parse verifies a token and returns its claims
func (p *PlayerTokens) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromRequest reads the player token from the session cookie or a bearer
// Authorization header
func (p *PlayerTokens) FromRequest(r *http.Request) (*Claims, error) {
	if cookie, err := r.Cookie(PlayerCookieName); err == nil && cookie.Value != "" {
		return p.Parse(cookie.Value)
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return p.Parse(strings.TrimPrefix(h, "Bearer "))
	}
	return nil, ErrInvalidToken
}

// RequirePlayer middleware rejects requests without a valid player token
// and stores the claims in the request context
func (p *PlayerTokens) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := p.FromRequest(r)
		if err != nil {
			writeUnauthorized(w, "player login required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), claims)))
	})
}

// SetPlayerCookie sets the player session cookie on the response
func (p *PlayerTokens) SetPlayerCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     PlayerCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(p.ttl.Seconds()),
	})
}

// ClearPlayerCookie removes the player session cookie
func ClearPlayerCookie(w http.ResponseWriter) {
	clearCookie(w, PlayerCookieName)
}

type playerKey struct{}

// WithPlayer returns a context carrying the player's claims
func WithPlayer(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, playerKey{}, c)
}

// PlayerFromContext returns the claims stored by RequirePlayer
func PlayerFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(playerKey{}).(*Claims)
	return c, ok
}
