package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestPlayerTokens_IssueAndParse(t *testing.T) {
	tokens := NewPlayerTokens("secret", time.Hour)

	token, err := tokens.Issue("player-1", "alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.PlayerID() != "player-1" || claims.Name != "alice" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestPlayerTokens_Rejects(t *testing.T) {
	tokens := NewPlayerTokens("secret", time.Hour)
	good, _ := tokens.Issue("player-1", "alice")

	other := NewPlayerTokens("other-secret", time.Hour)
	forged, _ := other.Issue("player-1", "alice")

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "player-1", Issuer: tokenIssuer},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	expired := NewPlayerTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Issue("player-1", "alice")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", forged},
		{"unsigned", none},
		{"expired", stale},
		{"truncated", good[:len(good)-2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Parse(tt.token); err != ErrInvalidToken {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestRequirePlayer(t *testing.T) {
	tokens := NewPlayerTokens("secret", time.Hour)
	token, _ := tokens.Issue("player-1", "alice")

	var seen string
	handler := tokens.RequirePlayer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := PlayerFromContext(r.Context())
		if ok {
			seen = claims.PlayerID()
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("cookie", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest("GET", "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: PlayerCookieName, Value: token})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK || seen != "player-1" {
			t.Errorf("expected 200 for player-1, got %d %q", rr.Code, seen)
		}
	})

	t.Run("bearer", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest("GET", "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK || seen != "player-1" {
			t.Errorf("expected 200 for player-1, got %d %q", rr.Code, seen)
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/me", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})
}

func TestPlayerCookies(t *testing.T) {
	tokens := NewPlayerTokens("secret", 48*time.Hour)

	rr := httptest.NewRecorder()
	tokens.SetPlayerCookie(rr, "abc")
	cookie := rr.Result().Cookies()[0]
	if cookie.Name != PlayerCookieName || cookie.MaxAge != int((48*time.Hour).Seconds()) {
		t.Errorf("unexpected cookie: %+v", cookie)
	}

	rr = httptest.NewRecorder()
	ClearPlayerCookie(rr)
	if cookie := rr.Result().Cookies()[0]; cookie.MaxAge != -1 {
		t.Errorf("expected deleted cookie, got %+v", cookie)
	}
}
