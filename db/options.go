package db

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nickyhof/RecordDB/core"
)

// ReplayPolicy decides what READ_FROM does when a replayed line fails.
type ReplayPolicy int

const (
	// ReplayAbort stops at the first failing line and returns its error.
	ReplayAbort ReplayPolicy = iota
	// ReplayContinue logs failing lines and keeps going.
	ReplayContinue
)

func (policy ReplayPolicy) String() string {
	switch policy {
	case ReplayAbort:
		return "abort"
	case ReplayContinue:
		return "continue"
	default:
		return fmt.Sprintf("ReplayPolicy(%d)", int(policy))
	}
}

// ParseReplayPolicy accepts "abort" or "continue" in any case.
func ParseReplayPolicy(text string) (ReplayPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "abort":
		return ReplayAbort, nil
	case "continue":
		return ReplayContinue, nil
	default:
		return 0, fmt.Errorf("%w: unknown replay policy '%s'", core.ErrUnknownToken, text)
	}
}

type options struct {
	logger  *slog.Logger
	storage *Storage
	replay  ReplayPolicy
}

// Option configures a Database.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage sets where READ_FROM and SAVE_AS resolve paths.
func WithStorage(storage *Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

func WithReplayPolicy(policy ReplayPolicy) Option {
	return func(o *options) {
		o.replay = policy
	}
}

func buildOptions(opts []Option) options {
	o := options{replay: ReplayAbort}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.storage == nil {
		o.storage = NewStorage()
	}
	return o
}
