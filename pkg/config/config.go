package config

import (
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Supported token verification modes.
const (
	AuthModeHS256 = "hs256"
	AuthModeRS256 = "rs256"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/casting.yaml"
)

// Config is loaded from defaults, then the YAML config file, then environment
// variables. Each key can be set as `server_port` in the file or SERVER_PORT
// in the environment.
type Config struct {
	APIAudience               string        `koanf:"api_audience" validate:"required_if=AuthMode rs256"`
	Auth0Domain               string        `koanf:"auth0_domain" validate:"required_if=AuthMode rs256"`
	AuthMode                  string        `koanf:"auth_mode" default:"rs256" validate:"oneof=hs256 rs256"`
	CORSAllowOrigins          []string      `koanf:"cors_allow_origins" default:"[\"*\"]"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5" validate:"min=1"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" validate:"required"`
	JWKSCacheTTL              time.Duration `koanf:"jwks_cache_ttl" default:"10m"`
	JWTSecret                 string        `koanf:"jwt_secret" validate:"required_if=AuthMode hs256"`
	MetricsEnabled            bool          `koanf:"metrics_enabled" default:"true"`
	RateLimitPerMinute        int           `koanf:"rate_limit_per_minute" default:"120" validate:"min=0"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"5000" validate:"min=0,max=65535"`
}

// New loads the configuration for the running process.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	path := os.Getenv(configFileENV)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.WithStack(err)
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config suitable for tests: an in-memory database and
// HS256 tokens signed with a fixed secret.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.AuthMode = AuthModeHS256
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

// Issuer is the expected "iss" claim for RS256 tokens.
func (cfg *Config) Issuer() string {
	return "https://" + cfg.Auth0Domain + "/"
}

// JWKSURL is where the issuer publishes its signing keys.
func (cfg *Config) JWKSURL() string {
	return "https://" + cfg.Auth0Domain + "/.well-known/jwks.json"
}

func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("koanf")
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return errors.WithStack(err)
	}

	fe := errs[0]
	key := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return errors.Errorf("missing required config: set %s env var or %s in config file", toEnvName(key), key)
	default:
		return errors.Errorf("invalid config: %s=%v fails %q", key, fe.Value(), fe.Tag()+"="+fe.Param())
	}
}

func toEnvName(key string) string {
	return strings.ToUpper(key)
}
