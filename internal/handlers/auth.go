package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/financeapi/apiserver/config"
	"github.com/financeapi/apiserver/internal/log"
	"github.com/financeapi/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// UserStore persists identities resolved from tokens.
type UserStore interface {
	Save(ctx context.Context, user types.User) (types.User, error)
	GetByID(ctx context.Context, id string) (types.User, error)
}

// Claims are the identity provider claims read from bearer tokens.
type Claims struct {
	PreferredUsername string      `json:"preferred_username,omitempty"`
	GivenName         string      `json:"given_name,omitempty"`
	FamilyName        string      `json:"family_name,omitempty"`
	Email             string      `json:"email,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
	jwt.RegisteredClaims
}

// RealmAccess lists the realm roles granted to the subject.
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// User maps the claims onto a user record.
func (c Claims) User() types.User {
	return types.User{
		ID:       c.Subject,
		Username: c.PreferredUsername,
		Name:     c.GivenName,
		Lastname: c.FamilyName,
		Email:    c.Email,
	}
}

// AuthHandler resolves callers from bearer tokens.
type AuthHandler struct {
	users        UserStore
	secret       []byte
	issuer       string
	requiredRole string
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(users UserStore, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		users:        users,
		secret:       []byte(cfg.JWTSecret),
		issuer:       cfg.Issuer,
		requiredRole: cfg.RequiredRole,
	}
}

// AuthRouter registers identity routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.With(handler.RequireUser).Get("/me", handler.Me)
}

// ResolveIdentity parses the bearer token, upserts the user it names and
// stores the identity in the request context. Requests without an
// Authorization header pass through anonymously.
func (h *AuthHandler) ResolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			next.ServeHTTP(w, r)
			return
		}

		reqLogger := log.FromContext(r.Context())
		logger := reqLogger.WithComponent(log.ComponentAuth)

		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := h.parseClaims(tokenString)
		if err != nil {
			logger.DebugContext(r.Context(), "rejected bearer token", "error", err)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := h.users.Save(r.Context(), claims.User())
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to save user", "user_id", claims.Subject, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to resolve user")
			return
		}

		ctx := withIdentity(r.Context(), Identity{User: user, Roles: claims.RealmAccess.Roles})
		ctx = log.WithContext(ctx, reqLogger.With("user_id", user.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous callers and, when configured, callers
// lacking the required realm role.
func (h *AuthHandler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if h.requiredRole != "" && !identity.HasRole(h.requiredRole) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Me returns the stored record of the current user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stored, err := h.users.GetByID(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "load user")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *AuthHandler) parseClaims(tokenString string) (Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if h.issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.issuer))
	}

	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return h.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, errors.New("missing subject")
	}
	return claims, nil
}

// IssueToken signs an HS256 token for user, as the identity provider would.
func IssueToken(cfg config.AuthConfig, user types.User, roles []string) (string, error) {
	if cfg.JWTSecret == "" {
		return "", errors.New("jwt secret is required")
	}
	if user.ID == "" {
		return "", errors.New("subject is required")
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := Claims{
		PreferredUsername: user.Username,
		GivenName:         user.Name,
		FamilyName:        user.Lastname,
		Email:             user.Email,
		RealmAccess:       RealmAccess{Roles: roles},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
