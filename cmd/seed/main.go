// Command seed loads sample data into the configured LearnHub database.
//
//	seed [--reset] [config flags...]
//
// It reads the same configuration as the server (LEARNHUB_* env vars,
// config files, flags). --reset drops the LearnHub collections first.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dalemusser/learnhub/internal/app/bootstrap"
	"github.com/dalemusser/learnhub/internal/app/seed"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// takeFlag removes every occurrence of name from args and reports whether
// it was present. The remaining args are left for the config loader.
func takeFlag(args []string, name string) ([]string, bool) {
	out := args[:0:0]
	found := false
	for _, a := range args {
		if a == name {
			found = true
			continue
		}
		out = append(out, a)
	}
	return out, found
}

func main() {
	var reset bool
	os.Args, reset = takeFlag(os.Args, "--reset")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(reset, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func run(reset bool, logger *zap.Logger) error {
	coreCfg, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*timeouts.Long())
	defer cancel()

	deps, err := bootstrap.ConnectDB(ctx, coreCfg, appCfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bootstrap.Shutdown(context.Background(), coreCfg, appCfg, deps, logger) }()

	if reset {
		if err := seed.Reset(ctx, deps.MongoDatabase, logger); err != nil {
			return err
		}
	}
	if err := bootstrap.EnsureSchema(ctx, coreCfg, appCfg, deps, logger); err != nil {
		return err
	}

	sum, err := seed.Run(ctx, deps.MongoDatabase, logger)
	if err != nil {
		return err
	}
	logger.Info("sample accounts use the default password",
		zap.String("password", seed.DefaultPassword),
		zap.Int("new_users", sum.Users))
	return nil
}
