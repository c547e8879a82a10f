package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// restore puts back whatever was in effect when the test started.
func restore(t *testing.T) {
	t.Helper()
	saved := timeouts.Current()
	t.Cleanup(func() { timeouts.Configure(saved) })
}

func TestDefaults(t *testing.T) {
	cur := timeouts.Current()
	if cur.Ping != timeouts.DefaultPing || cur.Short != timeouts.DefaultShort ||
		cur.Medium != timeouts.DefaultMedium || cur.Long != timeouts.DefaultLong {
		t.Errorf("unexpected defaults: %+v", cur)
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	restore(t)

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})
	if timeouts.Short() != 7*time.Second {
		t.Errorf("Short: got %v", timeouts.Short())
	}
	if timeouts.Medium() != timeouts.DefaultMedium {
		t.Errorf("Medium changed: got %v", timeouts.Medium())
	}
	if got := timeouts.Current(); got.Short != 7*time.Second || got.Long != timeouts.DefaultLong {
		t.Errorf("Current: got %+v", got)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}
