package logger

import (
	"log"
	"strings"
	"sync/atomic"
)

// Levelled logging over the standard log package. The active level is a
// Rollout flag, so it can be flipped at runtime without a restart.

const (
	levelDebug int32 = iota
	levelInfo
	levelWarn
	levelError
)

var level atomic.Int32

// Init sets the initial log level from a flag value ("debug", "info", "error").
func Init(name string) {
	level.Store(parse(name))
}

// SetLevel changes the active log level.
func SetLevel(name string) {
	level.Store(parse(name))
}

// GetLevel returns the name of the active log level.
func GetLevel() string {
	switch level.Load() {
	case levelDebug:
		return "debug"
	case levelWarn:
		return "warn"
	case levelError:
		return "error"
	default:
		return "info"
	}
}

func parse(name string) int32 {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func Debugf(format string, args ...any) {
	if level.Load() <= levelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...any) {
	if level.Load() <= levelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

func Warnf(format string, args ...any) {
	if level.Load() <= levelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

func Errorf(format string, args ...any) {
	if level.Load() <= levelError {
		log.Printf("[ERROR] "+format, args...)
	}
}
