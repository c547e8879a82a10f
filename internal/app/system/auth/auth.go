// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// CurrentUser is the signed-in caller, resolved from a bearer token and
// refreshed from the users collection on each request.
type CurrentUser struct {
	ID     string
	Name   string
	Email  string
	Role   string
	Avatar string
}

// ObjectID returns the user ID as an ObjectID. A malformed ID yields
// NilObjectID.
func (u *CurrentUser) ObjectID() primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// UserFromRequest returns the user & “found?” flag.
func UserFromRequest(r *http.Request) (*CurrentUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*CurrentUser)
	return u, ok
}

// UserFetcher loads fresh user data for a token's subject. It returns
// (nil, nil) when the user no longer exists or is inactive.
type UserFetcher interface {
	FetchUser(ctx context.Context, id primitive.ObjectID) (*CurrentUser, error)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadUser injects the caller into context when the request carries a
// valid bearer token for an active user. Requests without a usable token
// pass through anonymously; RequireSignedIn decides whether that is OK.
func (m *TokenManager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.Parse(raw)
		if err != nil {
			m.log.Debug("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		u := &CurrentUser{
			ID:    claims.UserID,
			Email: claims.Subject,
			Role:  claims.Role,
		}

		if m.fetcher != nil {
			oid, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			fresh, err := m.fetcher.FetchUser(r.Context(), oid)
			if err != nil {
				m.log.Error("load user for token failed", zap.Error(err), zap.String("user_id", claims.UserID))
				next.ServeHTTP(w, r)
				return
			}
			if fresh == nil {
				next.ServeHTTP(w, r)
				return
			}
			u = fresh
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn rejects anonymous callers with 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromRequest(r); !ok {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous callers with 401 and callers whose role
// is not in allowed with 403. Comparison is case-insensitive.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromRequest(r)
			if !ok {
				unauthorized(w)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				respond.Error(w, http.StatusForbidden, "Not enough permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser injects u into the request context. For tests only.
func WithTestUser(r *http.Request, u *CurrentUser) *http.Request {
	return withUser(r, u)
}

// helpers

func withUser(r *http.Request, u *CurrentUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
