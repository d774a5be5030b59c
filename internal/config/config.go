package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	Env          string `mapstructure:"ENV"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DBMaxConns   int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns   int32  `mapstructure:"DB_MIN_CONNS"`
	TokenSecret  string `mapstructure:"TOKEN_SECRET"`
	TokenTTLMins int    `mapstructure:"TOKEN_TTL_MINS"`
	CertDir      string `mapstructure:"CERT_DIR"`
	SweepSpec    string `mapstructure:"SWEEP_SPEC"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_MINS", 720)
	v.SetDefault("CERT_DIR", "./certificates")
	v.SetDefault("SWEEP_SPEC", "0 3 * * *")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("TOKEN_SECRET")
	v.BindEnv("TOKEN_TTL_MINS")
	v.BindEnv("CERT_DIR")
	v.BindEnv("SWEEP_SPEC")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.TokenSecret == "" {
		log.Println("WARNING: TOKEN_SECRET not set; using an insecure development secret.")
		log.Println("WARNING: Set TOKEN_SECRET before deploying.")
		cfg.TokenSecret = "dev-secret-do-not-deploy"
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Outside development
// a real TOKEN_SECRET must be configured so issued bearer tokens cannot be
// forged.
func (c *Config) Validate() error {
	if !c.IsDev() && (c.TokenSecret == "" || c.TokenSecret == "dev-secret-do-not-deploy") {
		return fmt.Errorf("TOKEN_SECRET must be set when ENV=%q", c.Env)
	}
	if c.TokenTTLMins <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINS must be positive, got %d", c.TokenTTLMins)
	}
	if c.CertDir == "" {
		return fmt.Errorf("CERT_DIR is required")
	}
	return nil
}
