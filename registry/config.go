package registry

import (
	"github.com/saylorsolutions/callbacks/diag"
	"log/slog"
	"os"
	"slices"
	"strings"
)

const (
	EnvPolicy = "CALLBACKS_POLICY" // EnvPolicy names the environment variable used to set the initial [Policy], using the names accepted by [ParsePolicy].
	EnvDebug  = "CALLBACKS_DEBUG"  // EnvDebug names the environment variable used to enable debug logging to STDERR.
)

var (
	EnvTrue  = []string{"1", "yes", "true", "on"}  // EnvTrue are the values of [EnvDebug] considered "true", and can be changed.
	EnvFalse = []string{"0", "no", "false", "off"} // EnvFalse are the values of [EnvDebug] considered "false", and can be changed.
)

type config struct {
	policy Policy
	logger *slog.Logger
}

func defaultConfig() *config {
	return &config{
		policy: ExecuteAll,
		logger: slog.New(diag.NewDedupeHandler(slog.Default().Handler())),
	}
}

// Option configures a [Registry] created with [New].
type Option func(conf *config)

// WithPolicy sets the initial [Policy]. The default is [ExecuteAll].
func WithPolicy(policy Policy) Option {
	return func(conf *config) {
		conf.policy = policy
	}
}

// WithLogger sets the logger used for diagnostic output.
// By default, output goes to the handler of [slog.Default] at the time the [Registry] is created.
// A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(conf *config) {
		if logger == nil {
			return
		}
		conf.logger = logger
	}
}

// ConfigFromEnv reads [EnvPolicy] and [EnvDebug] and returns the options they translate to.
// Unset, empty, or invalid values are ignored.
func ConfigFromEnv() []Option {
	var opts []Option
	if policy, ok := PolicyFromEnv(); ok {
		opts = append(opts, WithPolicy(policy))
	}
	if DebugFromEnv() {
		opts = append(opts, WithLogger(diag.NewLogger(os.Stderr, slog.LevelDebug, false)))
	}
	return opts
}

// PolicyFromEnv returns the [Policy] named by [EnvPolicy].
// The variable name is matched case-insensitively, and false is returned if it's unset, empty, or invalid.
func PolicyFromEnv() (Policy, bool) {
	val := envVal(EnvPolicy)
	if len(val) == 0 {
		return ExecuteAll, false
	}
	policy, err := ParsePolicy(val)
	if err != nil {
		return ExecuteAll, false
	}
	return policy, true
}

// DebugFromEnv reports whether [EnvDebug] is set to one of [EnvTrue].
func DebugFromEnv() bool {
	return envBool(EnvDebug, false)
}

// envVal looks up key case-insensitively, returning the trimmed value.
func envVal(key string) string {
	for _, kv := range os.Environ() {
		k, v, found := strings.Cut(kv, "=")
		if !found || !strings.EqualFold(k, key) {
			continue
		}
		if trimmed := strings.TrimSpace(v); len(trimmed) > 0 {
			return trimmed
		}
	}
	return ""
}

func envBool(key string, defaultVal bool) bool {
	val := strings.ToLower(envVal(key))
	switch {
	case len(val) == 0:
		return defaultVal
	case slices.Contains(EnvTrue, val):
		return true
	case slices.Contains(EnvFalse, val):
		return false
	default:
		return defaultVal
	}
}
