package featureflags

import (
	"context"
	"time"

	"github.com/rollout/rox-go/v5/server"
)

// Flags is the container of every feature flag the service reads at runtime.
type Flags struct {
	// Offline is the kill-switch: when ON, everything but health checks
	// answers 503.
	Offline server.RoxFlag

	// DisableMockAPI removes the mocked-backend step from the fallback
	// chain, same effect as the DISABLE_MOCK_API environment option.
	DisableMockAPI server.RoxFlag

	// LogLevel drives the levelled logger.
	LogLevel server.RoxString
}

var (
	rox    *server.Rox
	values = &Flags{
		Offline:        server.NewRoxFlag(false),
		DisableMockAPI: server.NewRoxFlag(false),
		LogLevel:       server.NewRoxString("info", []string{"debug", "info", "warn", "error"}),
	}
)

// Init registers the flag container and connects to Rollout. An empty API key
// is not an error: flags keep their defaults and the service runs unflagged.
func Init(ctx context.Context, apiKey string) error {
	rox = server.NewRox()
	rox.Register("youtools", values)

	if apiKey == "" {
		return nil
	}

	done := rox.Setup(apiKey, server.NewRoxOptions(server.RoxOptionsBuilder{}))
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Values returns the live flag container.
func Values() *Flags {
	return values
}

// Shutdown flushes and stops the Rollout SDK.
func Shutdown() {
	if rox == nil {
		return
	}
	select {
	case <-rox.Shutdown():
	case <-time.After(5 * time.Second):
	}
}
