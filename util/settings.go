package util

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "DEVICE_CONTROLLER"

const DefaultFailureProbability = 0.5

const (
	PolicyAlways   = "always"
	PolicyNever    = "never"
	PolicyRandom   = "random"
	PolicySequence = "sequence"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var Config = viper.New()

var config_listeners []func()

func RegisterNewConfigListener(new_listener func()) {
	for _, listener := range config_listeners {
		if reflect.ValueOf(new_listener).Pointer() == reflect.ValueOf(listener).Pointer() {
			Logger.Warn().Msg("config listener already registered")
			return
		}
	}
	config_listeners = append(config_listeners, new_listener)
}

func OnNewConfig() {
	for _, listener := range config_listeners {
		listener()
	}
}

// PolicyConfig is the "policy" section of the configuration.
type PolicyConfig struct {
	Kind               string
	Seed               int64
	FailureProbability float64
	Sequence           []bool
}

func (c PolicyConfig) Validate() error {
	switch c.Kind {
	case PolicyAlways, PolicyNever, PolicySequence:
	case PolicyRandom:
		if c.FailureProbability < 0 || c.FailureProbability > 1 {
			return errors.Wrapf(ErrInvalidConfig, "failure_probability %v out of range [0,1]", c.FailureProbability)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown policy kind '%s'", c.Kind)
	}
	return nil
}

// LoadPolicyConfig reads and validates the policy section. Keys are read one
// by one so that environment variables and bound flags override file values.
func LoadPolicyConfig() (PolicyConfig, error) {
	pc := PolicyConfig{
		Kind:               strings.ToLower(Config.GetString("policy.kind")),
		Seed:               Config.GetInt64("policy.seed"),
		FailureProbability: Config.GetFloat64("policy.failure_probability"),
	}
	seq, err := toBoolSlice(Config.Get("policy.sequence"))
	if err != nil {
		Logger.Error().Msgf("error reading policy.sequence: %v", err)
		return pc, errors.Wrapf(ErrInvalidConfig, "policy.sequence: %v", err)
	}
	pc.Sequence = seq
	if err := pc.Validate(); err != nil {
		return pc, err
	}
	return pc, nil
}

// toBoolSlice accepts real slices as well as the "[true,false]" or
// "true,false" strings produced by flags and environment variables.
func toBoolSlice(v interface{}) ([]bool, error) {
	s, ok := v.(string)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return cast.ToBoolSliceE(v)
	}
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, nil
	}
	var result []bool
	for _, part := range strings.Split(s, ",") {
		b, err := cast.ToBoolE(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

func SetupConfig() {
	Config.SetEnvPrefix(ENV_PREFIX)
	Config.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	// set defaults
	Config.SetDefault("log_level", "info")
	Config.SetDefault("policy.kind", PolicyAlways)
	Config.SetDefault("policy.seed", 1)
	Config.SetDefault("policy.failure_probability", DefaultFailureProbability)
	Config.SetDefault("policy.sequence", []bool{})

	// config file
	Config.SetConfigName("device_controller")
	Config.AddConfigPath("/")
	Config.AddConfigPath("./")
	Config.AddConfigPath("./config")
	Config.AddConfigPath("/etc")
	Config.AddConfigPath("/device_controller")

	err := Config.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			Logger.Debug().Msg("no config file found, using defaults")
		} else {
			Logger.Error().Msgf("unable to read config file: %v", err)
		}
	}

	// environment variables
	Config.AutomaticEnv()
}
