package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/hkdf"
)

// Each consumer of SECRET gets its own derived key, so rotating one
// does not affect the others.
const (
	PURPOSE_PASSWORD_HASH  = "password-hash"
	PURPOSE_PASSWORD_RESET = "password-reset"
	PURPOSE_SESSION        = "session"
)

type Config struct {
	IsTestMode     bool     `env:"TEST_MODE" envDefault:"false"`
	Port           uint     `env:"PORT" envDefault:"8080"`
	Secret         string   `env:"SECRET,required"`
	PostgresqlURL  string   `env:"POSTGRESQL_URL,required"`
	MigrationsPath string   `env:"MIGRATIONS_PATH"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	BcryptHasherCost           int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetValidDuration time.Duration `env:"PASSWORD_RESET_VALID_DURATION" envDefault:"10m"`
	PasswordResetBaseURL       url.URL       `env:"PASSWORD_RESET_BASE_URL,required"`
	NotificationTimeout        time.Duration `env:"NOTIFICATION_TIMEOUT" envDefault:"10s"`
	SessionTokenValidDuration  time.Duration `env:"SESSION_TOKEN_VALID_DURATION" envDefault:"24h"`

	AwsRegion                     string `env:"AWS_REGION"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"password-reset"`

	SentryDsn *url.URL `env:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("SECRET must not be empty")
	}
	if c.PostgresqlURL == "" {
		return fmt.Errorf("POSTGRESQL_URL must not be empty")
	}
	if c.BcryptHasherCost < bcrypt.MinCost || c.BcryptHasherCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_HASHER_COST must be in range [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.PasswordResetValidDuration <= 0 {
		return fmt.Errorf("PASSWORD_RESET_VALID_DURATION must be positive")
	}
	if c.NotificationTimeout <= 0 {
		return fmt.Errorf("NOTIFICATION_TIMEOUT must be positive")
	}
	if c.SessionTokenValidDuration <= 0 {
		return fmt.Errorf("SESSION_TOKEN_VALID_DURATION must be positive")
	}
	if !c.PasswordResetBaseURL.IsAbs() {
		return fmt.Errorf("PASSWORD_RESET_BASE_URL must be an absolute URL")
	}
	if !c.IsTestMode {
		if c.AwsRegion == "" || c.AwsAccessKey == "" || c.AwsSecretKey == "" || c.AwsEmailSender == "" {
			return fmt.Errorf("AWS_REGION, AWS_ACCESS_KEY, AWS_SECRET_KEY and AWS_EMAIL_SENDER must be set")
		}
	}
	return nil
}

func (c *Config) SecretFor(purpose string) string {
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(c.Secret), nil, []byte(purpose)), key); err != nil {
		panic(err)
	}
	return hex.EncodeToString(key)
}
