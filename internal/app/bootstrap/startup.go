// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/authutil"
	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	cur := timeouts.Current()
	logger.Info("database timeouts",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long),
	)

	if appCfg.AdminEmail == "" {
		return nil
	}
	return ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, appCfg.AdminName, logger)
}

// ensureAdmin makes sure email belongs to an active admin. A missing user
// is created; when password is blank a random one is generated and logged
// once. An existing user is promoted.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password, name string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	email = normalize.Email(email)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin && existing.IsActive {
			return nil
		}
		if err := users.PromoteToAdmin(ctx, existing.ID); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		logger.Info("promoted existing user to admin", zap.String("email", email))
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("lookup admin: %w", err)
	}

	generated := password == ""
	if generated {
		if password, err = authutil.RandomPassword(); err != nil {
			return fmt.Errorf("generate admin password: %w", err)
		}
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if name == "" {
		name = "Administrator"
	}

	if _, err := users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	if generated {
		logger.Warn("created bootstrap admin with a generated password; change it after first login",
			zap.String("email", email), zap.String("password", password))
	} else {
		logger.Info("created bootstrap admin", zap.String("email", email))
	}
	return nil
}
