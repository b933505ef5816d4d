package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported cutoff store drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"SERVER_PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		RequestTimeout string `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		SeedSampleData  bool   `yaml:"seed_sample_data" env:"DB_SEED_SAMPLE_DATA"`
		FixturePath     string `yaml:"fixture_path" env:"DB_FIXTURE_PATH"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Catalog struct {
		Path string `yaml:"path" env:"CATALOG_PATH"`
	} `yaml:"catalog"`

	Scoring Scoring `yaml:"scoring"`

	Pagination struct {
		DefaultPageSize int `yaml:"default_page_size" env:"PAGINATION_DEFAULT_PAGE_SIZE"`
		MaxPageSize     int `yaml:"max_page_size" env:"PAGINATION_MAX_PAGE_SIZE"`
	} `yaml:"pagination"`
}

// Scoring holds the tunable constants of the composite score
type Scoring struct {
	RankWeight          float64       `yaml:"rank_weight" env:"SCORING_RANK_WEIGHT"`
	CollegeWeight       float64       `yaml:"college_weight" env:"SCORING_COLLEGE_WEIGHT"`
	BranchWeight        float64       `yaml:"branch_weight" env:"SCORING_BRANCH_WEIGHT"`
	NIRFShare           float64       `yaml:"nirf_share" env:"SCORING_NIRF_SHARE"`
	NIRFCeiling         int           `yaml:"nirf_ceiling" env:"SCORING_NIRF_CEILING"`
	SalaryCeiling       int64         `yaml:"salary_ceiling" env:"SCORING_SALARY_CEILING"`
	DefaultBranchWeight float64       `yaml:"default_branch_weight" env:"SCORING_DEFAULT_BRANCH_WEIGHT"`
	BranchPriors        BranchPriors  `yaml:"branch_priors" env:"SCORING_BRANCH_PRIORS"`
	StretchFallback     bool          `yaml:"stretch_fallback" env:"SCORING_STRETCH_FALLBACK"`
}

// BranchPrior assigns a desirability weight to branches whose name contains Keyword
type BranchPrior struct {
	Keyword string  `yaml:"keyword"`
	Weight  float64 `yaml:"weight"`
}

// BranchPriors is an ordered list of priors; the first matching keyword wins
type BranchPriors []BranchPrior

// UnmarshalText parses the env form "computer=1,civil=0.55"
func (p *BranchPriors) UnmarshalText(text []byte) error {
	var out BranchPriors
	for _, item := range splitList(string(text)) {
		keyword, weight, ok := strings.Cut(item, "=")
		if !ok {
			return fmt.Errorf("branch prior %q must look like keyword=weight", item)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
		if err != nil {
			return fmt.Errorf("branch prior %q: %w", item, err)
		}
		out = append(out, BranchPrior{Keyword: strings.TrimSpace(keyword), Weight: w})
	}
	*p = out
	return nil
}

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// DefaultScoring returns the scoring constants used when none are configured
func DefaultScoring() Scoring {
	return Scoring{
		RankWeight:          0.6,
		CollegeWeight:       0.25,
		BranchWeight:        0.15,
		NIRFShare:           0.6,
		NIRFCeiling:         200,
		SalaryCeiling:       3000000,
		DefaultBranchWeight: 0.5,
		BranchPriors: []BranchPrior{
			{Keyword: "computer", Weight: 1.0},
			{Keyword: "artificial intelligence", Weight: 1.0},
			{Keyword: "data science", Weight: 0.95},
			{Keyword: "electronics", Weight: 0.85},
			{Keyword: "electrical", Weight: 0.8},
			{Keyword: "mechanical", Weight: 0.65},
			{Keyword: "civil", Weight: 0.55},
			{Keyword: "chemical", Weight: 0.55},
		},
		StretchFallback: true,
	}
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.RequestTimeout = "10s"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "rankpredictor"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "rankpredictor"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Scoring = DefaultScoring()

	config.Pagination.DefaultPageSize = 20
	config.Pagination.MaxPageSize = 100
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverMemory:
	case "":
		return fmt.Errorf("database driver is required")
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Server.RequestTimeout); err != nil {
		return fmt.Errorf("invalid server request timeout format: %w", err)
	}

	if err := config.Scoring.Validate(); err != nil {
		return err
	}

	if config.Pagination.MaxPageSize <= 0 {
		return fmt.Errorf("pagination max page size must be positive")
	}
	if config.Pagination.DefaultPageSize <= 0 || config.Pagination.DefaultPageSize > config.Pagination.MaxPageSize {
		return fmt.Errorf("pagination default page size must be between 1 and %d", config.Pagination.MaxPageSize)
	}

	return nil
}

// Validate checks that the weights form a convex combination led by the rank weight
func (s Scoring) Validate() error {
	for name, w := range map[string]float64{
		"rank_weight":           s.RankWeight,
		"college_weight":        s.CollegeWeight,
		"branch_weight":         s.BranchWeight,
		"nirf_share":            s.NIRFShare,
		"default_branch_weight": s.DefaultBranchWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("scoring %s must be within [0,1], got %v", name, w)
		}
	}

	sum := s.RankWeight + s.CollegeWeight + s.BranchWeight
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("scoring weights must sum to 1, got %.4f", sum)
	}
	if s.RankWeight <= s.CollegeWeight || s.RankWeight <= s.BranchWeight {
		return fmt.Errorf("scoring rank_weight must be the largest weight")
	}

	if s.NIRFCeiling <= 0 {
		return fmt.Errorf("scoring nirf_ceiling must be positive")
	}
	if s.SalaryCeiling <= 0 {
		return fmt.Errorf("scoring salary_ceiling must be positive")
	}

	for _, p := range s.BranchPriors {
		if strings.TrimSpace(p.Keyword) == "" {
			return fmt.Errorf("scoring branch prior keyword cannot be empty")
		}
		if p.Weight < 0 || p.Weight > 1 {
			return fmt.Errorf("scoring branch prior %q weight must be within [0,1]", p.Keyword)
		}
	}

	return nil
}

// RequestTimeout returns the parsed per-request timeout
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
