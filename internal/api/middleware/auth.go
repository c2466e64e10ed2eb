package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Context keys for storing caller information
type contextKey string

const (
	UserIDKey contextKey = "user_id"
)

const (
	// TokenIssuer is the iss claim of bearer tokens minted for Cignito
	TokenIssuer = "cignito"

	// SessionName is the cookie carrying a signed session
	SessionName = "cignito_session"

	sessionUserKey = "user_id"

	// MinSessionSecretLength is the minimum SESSION_SECRET size in bytes
	MinSessionSecretLength = 32
)

// Authenticator resolves the caller identity from an ES256 bearer token or a
// signed session cookie. Identity is established upstream; the core trusts it.
type Authenticator struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	cookies    *sessions.CookieStore
}

// NewAuthenticator builds an authenticator. Either source may be empty, which
// disables it.
func NewAuthenticator(privateJWK, sessionSecret string) (*Authenticator, error) {
	a := &Authenticator{}

	if privateJWK != "" {
		key, err := jwk.ParseKey([]byte(privateJWK))
		if err != nil {
			return nil, fmt.Errorf("failed to parse JWT_PRIVATE_JWK: %w", err)
		}
		pub, err := key.PublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to derive public key: %w", err)
		}
		a.privateKey = key
		a.publicKey = pub
	}

	if sessionSecret != "" {
		if len(sessionSecret) < MinSessionSecretLength {
			return nil, fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)
		}
		a.cookies = sessions.NewCookieStore([]byte(sessionSecret))
		a.cookies.Options.HttpOnly = true
		a.cookies.Options.SameSite = http.SameSiteLaxMode
		a.cookies.Options.Path = "/"
	}

	return a, nil
}

// IssueToken mints a bearer token for userID
func (a *Authenticator) IssueToken(userID string, ttl time.Duration) (string, error) {
	if a.privateKey == nil {
		return "", errors.New("no signing key configured")
	}

	now := time.Now()
	tok, err := jwt.NewBuilder().
		Issuer(TokenIssuer).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.ES256, a.privateKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// SaveSession stores userID in the session cookie
func (a *Authenticator) SaveSession(w http.ResponseWriter, r *http.Request, userID string) error {
	if a.cookies == nil {
		return errors.New("sessions are not configured")
	}
	session, _ := a.cookies.Get(r, SessionName)
	session.Values[sessionUserKey] = userID
	return session.Save(r, w)
}

// RequireAuth rejects requests without a valid caller identity with 401
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.identify(r)
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or expired credentials")
			return
		}
		if userID == "" {
			writeAuthError(w, "Authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserID(r.Context(), userID)))
	})
}

// OptionalAuth loads the caller identity when present but never rejects
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.identify(r)
		if err != nil {
			log.Printf("Optional auth failed: %v", err)
		}
		if userID != "" {
			r = r.WithContext(SetUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

// identify returns the caller id, or "" when the request is anonymous.
// A bearer token takes precedence over the session cookie.
func (a *Authenticator) identify(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", errors.New("invalid Authorization header format")
		}
		return a.verifyToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	}

	if a.cookies == nil {
		return "", nil
	}
	if _, err := r.Cookie(SessionName); err != nil {
		return "", nil
	}
	session, err := a.cookies.Get(r, SessionName)
	if err != nil {
		return "", fmt.Errorf("invalid session: %w", err)
	}
	userID, _ := session.Values[sessionUserKey].(string)
	return userID, nil
}

func (a *Authenticator) verifyToken(token string) (string, error) {
	if a.publicKey == nil {
		return "", errors.New("bearer tokens are not configured")
	}
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.ES256, a.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(TokenIssuer),
	)
	if err != nil {
		return "", fmt.Errorf("token verification failed: %w", err)
	}
	if tok.Subject() == "" {
		return "", errors.New("token has no subject")
	}
	return tok.Subject(), nil
}

// GetUserID extracts the caller id from the request context.
// Returns empty string if not authenticated.
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

// SetUserID stores the caller id in ctx. Tests use it to simulate the middleware.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"status":"ERROR","error":"Unauthenticated","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		log.Printf("Failed to write auth error response: %v", err)
	}
}
