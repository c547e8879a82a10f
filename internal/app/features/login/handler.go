// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"time"

	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/auditlog"
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/app/system/authutil"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/app/system/ratelimit"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Default token lifetimes when the handler is built with zero values.
const (
	DefaultAccessTTL = 8 * time.Hour
	DefaultUserTTL   = 30 * time.Minute
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Tokens   *auth.TokenManager
	Limiter  *ratelimit.LoginLimiter
	AuditLog *auditlog.Logger

	AccessTTL time.Duration // /auth/login
	UserTTL   time.Duration // /users/login
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, limiter *ratelimit.LoginLimiter, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		Tokens:    tokens,
		Limiter:   limiter,
		AuditLog:  audit,
		AccessTTL: DefaultAccessTTL,
		UserTTL:   DefaultUserTTL,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// UserInfo is the public part of a user returned with a token.
type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
	Avatar   string `json:"avatar,omitempty"`
}

// TokenResponse is returned by /auth/login. /users/login omits User.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *UserInfo `json:"user,omitempty"`
}

// HandleLogin handles POST /auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.AccessTTL, true)
}

// HandleUserLogin handles POST /users/login: same checks, shorter token,
// no user block in the response.
func (h *Handler) HandleUserLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.UserTTL, false)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, ttl time.Duration, withUser bool) {
	var req loginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	email := normalize.Email(req.Email)

	if h.Limiter != nil {
		if ok, limitType := h.Limiter.Check(r, email); !ok {
			h.AuditLog.LoginFailedRateLimit(r.Context(), r, email, limitType)
			w.Header().Set("Retry-After", "60")
			respond.Error(w, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
			return
		}
	}

	u, ok := h.authenticate(w, r, email, req.Password)
	if !ok {
		return
	}

	cu := auth.CurrentUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role, Avatar: u.Avatar}
	token, exp, err := h.Tokens.Issue(cu, ttl)
	if err != nil {
		h.Log.Error("issue token", zap.Error(err), zap.String("user_id", cu.ID))
		respond.Error(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, u.Email)

	resp := TokenResponse{AccessToken: token, TokenType: auth.TokenType, ExpiresAt: exp}
	if withUser {
		resp.User = &UserInfo{
			ID:       cu.ID,
			Name:     u.Name,
			Email:    u.Email,
			Role:     u.Role,
			IsActive: u.IsActive,
			Avatar:   u.Avatar,
		}
	}
	respond.JSON(w, http.StatusOK, resp)
}

// authenticate verifies credentials and writes the error response itself
// when they do not check out.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, email, password string) (*models.User, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.AuditLog.LoginFailedUserNotFound(r.Context(), r, email)
			respond.Error(w, http.StatusUnauthorized, "Incorrect email or password")
			return nil, false
		}
		h.Log.Error("login: load user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return nil, false
	}

	if !authutil.CheckPassword(password, u.PasswordHash) {
		h.AuditLog.LoginFailedWrongPassword(r.Context(), r, u.ID, email)
		respond.Error(w, http.StatusUnauthorized, "Incorrect email or password")
		return nil, false
	}

	if !u.IsActive {
		h.AuditLog.LoginFailedUserDisabled(r.Context(), r, u.ID, email)
		respond.Error(w, http.StatusForbidden, "Account is disabled")
		return nil, false
	}
	return u, true
}
