package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment maps unknown values to Development.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production:
		return Production
	case Testing:
		return Testing
	default:
		return Development
	}
}

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":50051"`

	// Optional backends; empty means in-process fallbacks.
	RedisURL string `envconfig:"REDIS_URL"`
	MySQLDSN string `envconfig:"MYSQL_DSN"`

	SessionTTL           time.Duration `split_words:"true" default:"12h"`
	SessionSweepInterval time.Duration `split_words:"true" default:"1m"`
	ArchiveWorkers       int           `split_words:"true" default:"4"`
	ArchiveQueueSize     int           `split_words:"true" default:"1000"`
	StorefrontPath       string        `split_words:"true"`

	AdminUsername    string `split_words:"true" default:"admin"`
	AdminPassword    string `split_words:"true" default:"admin"`
	CustomerUsername string `split_words:"true" default:"customer"`
	CustomerPassword string `split_words:"true" default:"1234"`
}

// Load reads an optional .env file, then the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// a missing .env is normal outside local runs
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SessionSweepInterval <= 0 {
		return Config{}, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", cfg.SessionSweepInterval)
	}
	if cfg.ArchiveWorkers < 1 {
		return Config{}, fmt.Errorf("ARCHIVE_WORKERS must be at least 1, got %d", cfg.ArchiveWorkers)
	}
	return cfg, nil
}

func (c Config) Environment() Environment {
	return ParseEnvironment(c.AppEnv)
}

func (c Config) Credentials() map[domain.Role]domain.Credential {
	return map[domain.Role]domain.Credential{
		domain.RoleAdmin:    {Username: c.AdminUsername, Password: c.AdminPassword},
		domain.RoleCustomer: {Username: c.CustomerUsername, Password: c.CustomerPassword},
	}
}
