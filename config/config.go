// Package config loads server settings from defaults, an optional .env file
// and PORTAL_* environment variables.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"parent-portal-go/models"
)

const envPrefix = "PORTAL"

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds every setting the portal reads at startup
type Config struct {
	Addr      string `validate:"required"`
	Debug     bool
	SecretKey string `validate:"required,min=16"`

	Auth struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required"`
	}

	Model struct {
		Path string `validate:"required"`
	}

	Session struct {
		Backend    string        `validate:"oneof=memory redis"`
		TTL        time.Duration `validate:"gte=0"`
		CookieName string        `validate:"required"`
	}

	Redis struct {
		Addr     string
		Password string
		DB       int `validate:"gte=0"`
	}

	CORS struct {
		AllowOrigins []string
	}
}

// Credential returns the configured parent login pair
func (c *Config) Credential() models.Credential {
	return models.Credential{Email: c.Auth.Email, Password: c.Auth.Password}
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("addr", ":8080")
	v.SetDefault("debug", false)
	v.SetDefault("secretKey", "your_random_secret_key_123")
	v.SetDefault("auth.email", models.DefaultCredential.Email)
	v.SetDefault("auth.password", models.DefaultCredential.Password)
	v.SetDefault("model.path", "student_grade_predictor.json")
	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookieName", "portal_session")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cors.allowOrigins", []string{})
}

// Load reads the configuration. dotEnvPath may be empty; a missing file is
// ignored.
func Load(dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
			}
			log.Printf("Loaded environment from %s", dotEnvPath)
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	// session.ttl -> PORTAL_SESSION_TTL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{}
	conf.Addr = v.GetString("addr")
	conf.Debug = v.GetBool("debug")
	conf.SecretKey = v.GetString("secretKey")
	conf.Auth.Email = v.GetString("auth.email")
	conf.Auth.Password = v.GetString("auth.password")
	conf.Model.Path = v.GetString("model.path")
	conf.Session.Backend = strings.ToLower(v.GetString("session.backend"))
	conf.Session.TTL = v.GetDuration("session.ttl")
	conf.Session.CookieName = v.GetString("session.cookieName")
	conf.Redis.Addr = v.GetString("redis.addr")
	conf.Redis.Password = v.GetString("redis.password")
	conf.Redis.DB = v.GetInt("redis.db")
	conf.CORS.AllowOrigins = v.GetStringSlice("cors.allowOrigins")

	if err := Validate(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

var validate = validator.New()

// Validate checks struct tags and the settings that depend on each other
func Validate(conf *Config) error {
	if err := validate.Struct(conf); err != nil {
		return errors.Wrap(err, "config: invalid settings")
	}
	if conf.Session.Backend == SessionBackendRedis && conf.Redis.Addr == "" {
		return errors.New("config: redis.addr is required for the redis session backend")
	}
	return nil
}
