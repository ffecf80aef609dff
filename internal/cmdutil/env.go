package cmdutil

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"go.miloapis.com/email-provider-pure360/internal/config"
	"go.miloapis.com/email-provider-pure360/internal/logging"
	"go.miloapis.com/email-provider-pure360/internal/metrics"
	"go.miloapis.com/email-provider-pure360/pkg/pure360"
)

// Env is the per-invocation state shared by all subcommands.
type Env struct {
	Config   config.Config
	Log      logr.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

type envKey struct{}

// NewEnv loads configuration and builds the logger and metrics registry.
// A verbosity >= 0 overrides LOG_VERBOSITY.
func NewEnv(envFile string, verbosity int) (*Env, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if verbosity >= 0 {
		cfg.LogVerbosity = verbosity
	}

	log, err := logging.New(cfg.LogDevelopment, cfg.LogVerbosity)
	if err != nil {
		return nil, err
	}

	return NewEnvFromConfig(cfg, log)
}

// NewEnvFromConfig builds an Env around an already loaded configuration.
func NewEnvFromConfig(cfg config.Config, log logr.Logger) (*Env, error) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &Env{Config: cfg, Log: log, Registry: reg, Metrics: m}, nil
}

// WithEnv stores env and its logger in ctx.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return logr.NewContext(context.WithValue(ctx, envKey{}, env), env.Log)
}

// FromContext returns the Env stored by WithEnv.
func FromContext(ctx context.Context) (*Env, error) {
	env, ok := ctx.Value(envKey{}).(*Env)
	if !ok || env == nil {
		return nil, fmt.Errorf("command environment not initialised")
	}
	return env, nil
}

// ClientOptions returns the pure360 client options derived from the
// configuration.
func (e *Env) ClientOptions() []pure360.ClientOption {
	opts := []pure360.ClientOption{
		pure360.WithHTTPClient(&http.Client{Timeout: e.Config.HTTPTimeout}),
		pure360.WithMetrics(e.Metrics),
	}
	if e.Config.BaseURL != "" {
		opts = append(opts, pure360.WithBaseURL(e.Config.BaseURL))
	}
	return opts
}

// Or returns value, or fallback when value is empty.
func Or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// Required returns an error naming every flag whose value is empty.
func Required(flags map[string]string) error {
	var missing []string
	for name, v := range flags {
		if v == "" {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("required flag(s) not set: %s", strings.Join(missing, ", "))
}
