// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	adminfeature "github.com/dalemusser/learnhub/internal/app/features/admin"
	coursesfeature "github.com/dalemusser/learnhub/internal/app/features/courses"
	enrollmentsfeature "github.com/dalemusser/learnhub/internal/app/features/enrollments"
	healthfeature "github.com/dalemusser/learnhub/internal/app/features/health"
	homefeature "github.com/dalemusser/learnhub/internal/app/features/home"
	lessonsfeature "github.com/dalemusser/learnhub/internal/app/features/lessons"
	loginfeature "github.com/dalemusser/learnhub/internal/app/features/login"
	notificationsfeature "github.com/dalemusser/learnhub/internal/app/features/notifications"
	paymentsfeature "github.com/dalemusser/learnhub/internal/app/features/payments"
	quizzesfeature "github.com/dalemusser/learnhub/internal/app/features/quizzes"
	reviewsfeature "github.com/dalemusser/learnhub/internal/app/features/reviews"
	usersfeature "github.com/dalemusser/learnhub/internal/app/features/users"
	"github.com/dalemusser/learnhub/internal/app/store/audit"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/auditlog"
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/app/system/mailer"
	"github.com/dalemusser/learnhub/internal/app/system/metrics"
	"github.com/dalemusser/learnhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version is reported by /health and /admin/system/health. Release builds
// set it with -ldflags "-X .../bootstrap.Version=v1.2.3".
var Version = "dev"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. LearnHub builds the token manager,
// rate limiter, audit logger, upload store and mailer once here and hands
// them to the feature routers that need them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokenMgr, err := auth.NewTokenManager(appCfg.JWTSecret, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	// Load fresh user data on each request so role changes and disabled
	// accounts take effect before the token expires.
	tokenMgr.SetUserFetcher(userstore.NewFetcher(db))

	files, uploadURL, err := newUploadStore(context.Background(), appCfg)
	if err != nil {
		logger.Error("upload store init failed", zap.Error(err))
		return nil, err
	}

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	var mail mailer.Sender
	if appCfg.MailEnabled {
		mail = mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			Username: appCfg.MailSMTPUser,
			Password: appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger)
	}

	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)

	// Global auth middleware: loads the bearer token's user into context.
	// Handlers read it with auth.UserFromRequest / authz.UserCtx.
	r.Use(tokenMgr.LoadUser)

	r.Handle("/metrics", m.Handler())

	// Uploaded avatars and lesson videos
	if uploadURL != "" {
		r.Handle(uploadURL+"/*", fileserver.Handler(uploadURL, appCfg.UploadPath))
	}

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, Version, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, tokenMgr, ratelimit.NewLoginLimiter(appCfg.LoginRateIP, appCfg.LoginRateEmail), auditLog, logger)
	loginHandler.AccessTTL = appCfg.AccessTokenTTL
	loginHandler.UserTTL = appCfg.UserTokenTTL
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	// Users (registration, profile, avatar)
	usersHandler := usersfeature.NewHandler(db, files, auditLog, loginHandler.HandleUserLogin, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Catalog
	coursesHandler := coursesfeature.NewHandler(db, auditLog, logger)
	r.Mount("/courses", coursesfeature.Routes(coursesHandler))

	lessonsHandler := lessonsfeature.NewHandler(db, files, logger)
	lessonsHandler.MaxVideoBytes = int64(appCfg.MaxUploadMB) << 20
	r.Mount("/lessons", lessonsfeature.Routes(lessonsHandler))

	// Learning
	enrollmentsHandler := enrollmentsfeature.NewHandler(db, logger)
	r.Mount("/enrollments", enrollmentsfeature.Routes(enrollmentsHandler))

	quizzesHandler := quizzesfeature.NewHandler(db, logger)
	r.Mount("/quizzes", quizzesfeature.Routes(quizzesHandler))

	reviewsHandler := reviewsfeature.NewHandler(db, logger)
	r.Mount("/reviews", reviewsfeature.Routes(reviewsHandler))

	notificationsHandler := notificationsfeature.NewHandler(db, mail, appCfg.MailFromName, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

	paymentsHandler := paymentsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/payments", paymentsfeature.Routes(paymentsHandler))

	// Administration
	adminHandler := adminfeature.NewHandler(db, auditLog, healthHandler.ServeSystem, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler))

	return r, nil
}
