package algotrade

import (
	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/policy"
	"github.com/iamshubhamw08/AlgoTrade/scheduler"
)

// Option configures an Engine before its components are assembled.
type Option func(*Engine)

// WithStorage uses the given key-value backend for state persistence
// instead of the default buntdb file.
func WithStorage(kv core.KV) Option {
	return func(engine *Engine) {
		engine.kv = kv
	}
}

// WithLogger replaces the default logger.
func WithLogger(log core.Logger) Option {
	return func(engine *Engine) {
		engine.log = log
	}
}

// WithRand injects the random source driving automated decisions and
// price movement. Pass a seeded source for reproducible runs.
func WithRand(rng core.Rand) Option {
	return func(engine *Engine) {
		engine.rng = rng
	}
}

// WithPolicyConfig overrides the automated trading thresholds.
func WithPolicyConfig(cfg policy.Config) Option {
	return func(engine *Engine) {
		engine.policyCfg = cfg
	}
}

// WithNotifier registers a notifier for executed trades and errors.
func WithNotifier(notifier core.Notifier) Option {
	return func(engine *Engine) {
		engine.notifier = notifier
	}
}

// WithSchedulerConfig overrides the scan scheduler configuration.
// A zero Interval falls back to the default scan interval.
func WithSchedulerConfig(cfg scheduler.Config) Option {
	return func(engine *Engine) {
		engine.schedulerCfg = cfg
	}
}
