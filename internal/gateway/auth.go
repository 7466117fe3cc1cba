package gateway

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
)

type sessionClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// RevokeSessions invalidates every outstanding session cookie by rotating
// the signing secret. Test hook.
func (s *Stub) RevokeSessions() {
	s.mu.Lock()
	s.cfg.JWTSecret = uuid.NewString() + uuid.NewString()
	s.mu.Unlock()
}

func (s *Stub) signingKey() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []byte(s.cfg.JWTSecret)
}

// issueSession signs a session cookie for user.
func (s *Stub) issueSession(w http.ResponseWriter, user models.User) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	})
	signed, err := token.SignedString(s.signingKey())
	if err != nil {
		// HS256 signing only fails on a broken key type.
		writeMessage(w, http.StatusInternalServerError, "failed to sign session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(s.cfg.SessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// requireFinance rejects requests without a valid session cookie (401) or
// with a non-finance role (403).
func (s *Stub) requireFinance(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (any, error) {
			return s.signingKey(), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			writeMessage(w, http.StatusUnauthorized, "session expired")
			return
		}
		if claims.Role != domain.RoleFinance {
			writeMessage(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}
