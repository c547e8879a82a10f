// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes returned when a deployment cannot run multi-document
// transactions (standalone mongod, or an operation not allowed in one).
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation
	51:  true,
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err means transactions are unavailable on
// the connected deployment.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	has := strings.Contains
	switch {
	case has(msg, "transaction") && has(msg, "replica set"):
		return true
	case has(msg, "session") && has(msg, "not supported"):
		return true
	case has(msg, "transaction") && has(msg, "session"):
		return true
	case has(msg, "illegal operation"):
		return true
	}
	return false
}

// Run executes fn inside a transaction. When the deployment does not support
// transactions fn runs once more without one, so callers get the same
// behavior against a standalone server in development and tests.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if IsNotSupported(err) {
		log.Debug("transactions not supported, running without", zap.Error(err))
		return fn(ctx)
	}
	return err
}
