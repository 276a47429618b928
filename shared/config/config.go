package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Port               string        `yaml:"port"`
	Storage            string        `yaml:"storage"` // memory or postgres
	Pg                 Pg            `yaml:"pg"`
	JwtTTL             time.Duration `yaml:"jwt_ttl"`
	CorsAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	LoginRatePerMinute int           `yaml:"login_rate_per_minute"`
	PushPingInterval   time.Duration `yaml:"push_ping_interval"`
	LogLevel           string        `yaml:"log_level"`
	LogJSON            bool          `yaml:"log_json"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (p Pg) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", p.Host, p.Port, p.User, p.Password, p.Dbname)
}

type Private struct {
	JwtKey     string     `yaml:"jwt_key"`
	PgPassword string     `yaml:"pg_password"`
	SeedUsers  []SeedUser `yaml:"seed_users"`
}

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// New builds a config in code, with defaults applied. Used by tests and
// tools that do not read config files.
func New(public Public, private Private) *Config {
	cfg := &Config{Public: public, private: private}
	cfg.applyDefaults()
	return cfg
}

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func (s *Config) SeedUsers() []SeedUser {
	return s.private.SeedUsers
}

// Pg returns connection settings with the private password applied.
func (s *Config) Pg() Pg {
	pg := s.Public.Pg
	if s.private.PgPassword != "" {
		pg.Password = s.private.PgPassword
	}
	return pg
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder. Values from
// the environment (or a .env file) override the files. Panics when a
// required setting is missing.
func MustLoad(configFolder string) *Config {
	_ = godotenv.Load()

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, private: private}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

func (s *Config) applyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		s.private.JwtKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		s.Public.Port = v
	}
	if v := os.Getenv("STORAGE"); v != "" {
		s.Public.Storage = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		s.Public.Pg.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.Public.Pg.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		s.private.PgPassword = v
	}
}

func (s *Config) applyDefaults() {
	if s.Public.Port == "" {
		s.Public.Port = "5000"
	}
	if s.Public.Storage == "" {
		s.Public.Storage = StorageMemory
	}
	if s.Public.JwtTTL == 0 {
		s.Public.JwtTTL = 24 * time.Hour
	}
	if s.Public.PushPingInterval == 0 {
		s.Public.PushPingInterval = 30 * time.Second
	}
	if s.Public.LoginRatePerMinute == 0 {
		s.Public.LoginRatePerMinute = 10
	}
}

func (s *Config) validate() error {
	if s.private.JwtKey == "" {
		return fmt.Errorf("config: jwt_key is required")
	}
	switch s.Public.Storage {
	case StorageMemory:
	case StoragePostgres:
		if s.Public.Pg.Host == "" || s.Public.Pg.Dbname == "" || s.Public.Pg.User == "" {
			return fmt.Errorf("config: pg host, user and dbname are required for postgres storage")
		}
	default:
		return fmt.Errorf("config: unknown storage %q", s.Public.Storage)
	}
	return nil
}
