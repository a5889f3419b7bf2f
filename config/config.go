package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config armazena todas as configurações do serviço shelfmap.
// Os valores vêm de variáveis de ambiente (o .env é carregado antes, no main.go).
type Config struct {
	// Geral
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Banco de Dados (PostgreSQL)
	DatabaseURL     string        `env:"DATABASE_URL,required,notEmpty"`
	DBTimeout       time.Duration `env:"DB_TIMEOUT" envDefault:"5s"`
	DBMaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnLifetime  time.Duration `env:"DB_CONN_LIFETIME" envDefault:"5m"`
	DBConnIdleLimit time.Duration `env:"DB_CONN_IDLE_TIME" envDefault:"2m"`

	// Cache (Redis) do catálogo de prateleiras
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	// Segurança (JWT)
	JWTSecretKey string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	TokenExpiry  time.Duration `env:"JWT_EXPIRY" envDefault:"60m"`

	// Rate Limiting
	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitPeriod      time.Duration `env:"RATE_LIMIT_PERIOD" envDefault:"1m"`

	// Editor (workspace de localizações)
	BackendURL     string        `env:"BACKEND_URL"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
	CommitTimeout  time.Duration `env:"COMMIT_TIMEOUT" envDefault:"10s"`
	PageTTL        time.Duration `env:"EDITOR_PAGE_TTL" envDefault:"2h"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}

	// Sem BACKEND_URL o editor conversa com a própria instância.
	if cfg.BackendURL == "" {
		cfg.BackendURL = "http://localhost:" + cfg.Port
	}
	return cfg, nil
}

// IsProduction indica se o serviço roda em produção.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
