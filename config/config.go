package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// JWTSecretEnv is the only place the signing secret may come from. A compiled-in
// default signing key is a startup error, not a fallback.
const JWTSecretEnv = "KANAPI_JWT_SECRET"

type AuthConfig struct {
	// SecretKey is populated from the environment in InitConfig, never from file.
	SecretKey       string
	Algorithm       string `mapstructure:"algorithm"`
	TokenTTLMinutes int    `mapstructure:"tokenTTLMinutes"`
	// PasswordScheme selects the hashing contract: "bcrypt" (default) or
	// "sha256" for verifying digests migrated from the legacy system.
	PasswordScheme string `mapstructure:"passwordScheme"`
}

type Config struct {
	Mode         string     `mapstructure:"mode"`
	Auth         AuthConfig `mapstructure:"auth"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

// TokenTTL returns the configured session token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.tokenTTLMinutes", 60)
	v.SetDefault("auth.passwordScheme", "bcrypt")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	config.Auth.SecretKey = os.Getenv(JWTSecretEnv)
	if config.Auth.SecretKey == "" {
		return Config{}, fmt.Errorf("%s is not set: the token signing secret is required at startup", JWTSecretEnv)
	}

	return config, nil
}
