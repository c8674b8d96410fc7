package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/kiranshivaraju/fieldplanner/internal/api/response"
)

const tokenPrefixLen = 8

// Auth checks a bearer token against a single bcrypt hash.
type Auth struct {
	tokenHash []byte
}

// NewAuth creates a new Auth middleware. An empty hash disables authentication.
func NewAuth(tokenHash string) *Auth {
	return &Auth{tokenHash: []byte(strings.TrimSpace(tokenHash))}
}

// Enabled reports whether a token is required.
func (a *Auth) Enabled() bool { return len(a.tokenHash) > 0 }

// Authenticate validates the Bearer token and sets the client id in the
// request context. With authentication disabled the client id is the
// remote IP.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r.WithContext(SetClientID(r.Context(), "ip:"+remoteIP(r))))
			return
		}

		token := extractBearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}
		if len(token) < tokenPrefixLen {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid token format", nil)
			return
		}

		if bcrypt.CompareHashAndPassword(a.tokenHash, []byte(token)) != nil {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid token", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetClientID(r.Context(), "token:"+token[:tokenPrefixLen])))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
