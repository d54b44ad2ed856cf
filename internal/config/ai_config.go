package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"time"
)

type AIConfig struct {
	Key   string `mapstructure:"key" validate:"required"`
	Model string `mapstructure:"model" validate:"required"`

	// RequestTimeout bounds every scoring call.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`

	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute" validate:"gte=0"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day" validate:"gte=0"`

	// MaxParallelScoring caps concurrent scoring calls during a ranking
	// run. 1 keeps the calls strictly sequential.
	MaxParallelScoring int `mapstructure:"max_parallel_scoring" validate:"gte=1"`

	// CacheTTL is how long a scored (job, resume) pair is memoized to
	// avoid an immediate duplicate model call. Zero disables the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

func (config AIConfig) validate() error {
	return validator.New().Struct(config)
}

func (config AIConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("ai.key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.model", "AI_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.max_parallel_scoring", "AI_MAX_PARALLEL_SCORING"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
