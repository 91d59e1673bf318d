package steadyhttp

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables recognised by LoadConfig,
// e.g. STEADYHTTP_MAX_RETRIES=5.
const envPrefix = "STEADYHTTP_"

// ClientConfig holds the decoded client configuration. Embed it in your own
// app config struct for YAML or JSON unmarshaling, then call [Options] to
// obtain functional options for [New]. Duration fields are strings parsed
// via [time.ParseDuration].
type ClientConfig struct {
	// RequestsPerSecond sets the limiter refill rate. Zero disables
	// admission control.
	RequestsPerSecond float64 `koanf:"requests_per_second" json:"requests_per_second" yaml:"requests_per_second"`
	// BurstCapacity sets the token bucket capacity.
	BurstCapacity int `koanf:"burst_capacity" json:"burst_capacity" yaml:"burst_capacity"`
	// MaxRetries caps retry attempts after the first try.
	MaxRetries int `koanf:"max_retries" json:"max_retries" yaml:"max_retries"`
	// BaseDelay is the backoff delay before the first retry. Example: "1s".
	BaseDelay string `koanf:"base_delay" json:"base_delay" yaml:"base_delay"`
	// MaxDelay caps the backoff delay. Example: "30s".
	MaxDelay string `koanf:"max_delay" json:"max_delay" yaml:"max_delay"`
	// Jitter is one of "none", "full", "equal".
	Jitter string `koanf:"jitter" json:"jitter" yaml:"jitter"`
	// AcquireTimeout bounds the admission wait per attempt. Example: "30s".
	AcquireTimeout string `koanf:"acquire_timeout" json:"acquire_timeout" yaml:"acquire_timeout"`
}

// LoadConfig loads client configuration with layered priority:
//
//  1. environment variables with the STEADYHTTP_ prefix (highest)
//  2. the YAML file at path, when path is non-empty
//  3. built-in defaults (lowest)
func LoadConfig(path string) (*ClientConfig, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"requests_per_second": 10.0,
		"burst_capacity":      10,
		"max_retries":         DefaultMaxRetries,
		"base_delay":          DefaultBaseDelay.String(),
		"max_delay":           DefaultMaxDelay.String(),
		"jitter":              "none",
		"acquire_timeout":     "30s",
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("steadyhttp: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("steadyhttp: read config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return lowerSnake(key), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("steadyhttp: load environment: %w", err)
	}

	var cfg ClientConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("steadyhttp: parse config: %w", err)
	}

	if _, err := cfg.Options(); err != nil {
		return nil, fmt.Errorf("steadyhttp: invalid config: %w", err)
	}

	return &cfg, nil
}

// lowerSnake converts STEADYHTTP_MAX_RETRIES to max_retries.
func lowerSnake(key string) string {
	key = key[len(envPrefix):]

	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}

		out = append(out, c)
	}

	return string(out)
}

// Options converts the config into functional option values for [New].
func (c *ClientConfig) Options() ([]Option, error) {
	var opts []Option

	if c.RequestsPerSecond > 0 {
		opts = append(opts, WithRateLimit(c.RequestsPerSecond, c.BurstCapacity))
	}

	policy := DefaultRetryPolicy()
	policy.MaxRetries = c.MaxRetries

	if c.BaseDelay != "" {
		d, err := time.ParseDuration(c.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("base_delay: %w", err)
		}

		policy.BaseDelay = d
	}

	if c.MaxDelay != "" {
		d, err := time.ParseDuration(c.MaxDelay)
		if err != nil {
			return nil, fmt.Errorf("max_delay: %w", err)
		}

		policy.MaxDelay = d
	}

	if c.Jitter != "" {
		j, err := ParseJitter(c.Jitter)
		if err != nil {
			return nil, fmt.Errorf("jitter: %w", err)
		}

		policy.Jitter = j
	}

	opts = append(opts, WithRetryPolicy(policy))

	if c.AcquireTimeout != "" {
		d, err := time.ParseDuration(c.AcquireTimeout)
		if err != nil {
			return nil, fmt.Errorf("acquire_timeout: %w", err)
		}

		opts = append(opts, WithAcquireTimeout(d))
	}

	return opts, nil
}
