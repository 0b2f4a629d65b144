// Package config предоставляет структуры и функции для загрузки конфигурации.
//
// Источники в порядке приоритета: переменные окружения, YAML-файл из CONFIG_PATH,
// значения по умолчанию из тегов env-default.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/ilyakaznacheev/cleanenv"
)

// Профили API. Каждому соответствует свой базовый URL.
const (
	ProfileLocal      = "local"
	ProfileStaging    = "staging"
	ProfileProduction = "production"
)

// Бэкенды хранилища учётных данных.
const (
	BackendFile  = "file"
	BackendVault = "vault"
	BackendRedis = "redis"
)

// DefaultServiceName - идентификатор приложения, под которым хранятся записи.
const DefaultServiceName = "com.goodhang.desktop"

var profileBaseURLs = map[string]string{
	ProfileLocal:      "http://localhost:3000",
	ProfileStaging:    "https://goodhang-staging.vercel.app",
	ProfileProduction: "https://api.goodhang.com",
}

// Config общая структура для хранения настроек
type Config struct {
	Env             string          `yaml:"env" env:"GOODHANG_ENV" env-default:"local"`
	API             API             `yaml:"api"`
	Store           Store           `yaml:"store"`
	DeepLink        DeepLink        `yaml:"deep_link"`
	HTTPServer      HTTPServer      `yaml:"http_server"`
	RedisConnection RedisConnection `yaml:"redis_connection"`
	MockAPI         MockAPI         `yaml:"mock_api"`
}

// API настройки удалённого сервиса.
type API struct {
	Profile string        `yaml:"profile" env:"GOODHANG_PROFILE" env-default:"local" validate:"oneof=local staging production"`
	BaseURL string        `yaml:"base_url" env:"GOODHANG_API_URL"`
	Timeout time.Duration `yaml:"timeout" env:"GOODHANG_API_TIMEOUT" env-default:"30s" validate:"gt=0"`
}

// Store настройки хранилища учётных данных.
type Store struct {
	Backend     string `yaml:"backend" env:"GOODHANG_STORE_BACKEND" env-default:"file" validate:"oneof=file vault redis"`
	Path        string `yaml:"path" env:"GOODHANG_STORE_PATH"`
	ServiceName string `yaml:"service_name" env:"GOODHANG_SERVICE_NAME" env-default:"com.goodhang.desktop" validate:"required"`
}

// DeepLink настройки обработки ссылок собственной схемы.
type DeepLink struct {
	Scheme string `yaml:"scheme" env:"GOODHANG_DEEPLINK_SCHEME" env-default:"goodhang" validate:"required"`
	Window string `yaml:"window" env-default:"main" validate:"required"`
	Buffer int    `yaml:"buffer" env-default:"8" validate:"gte=1"`
}

// HTTPServer структура для настройки локального моста к окну приложения
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"GOODHANG_BRIDGE_ADDRESS" env-default:"127.0.0.1:5174" validate:"required"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"60s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"120s"`
	RateLimit   float64       `yaml:"rate_limit" env-default:"20" validate:"gt=0"`
	RateBurst   int           `yaml:"rate_burst" env-default:"40" validate:"gte=1"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"GOODHANG_REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"GOODHANG_REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// MockAPI настройки локального сервера, эмулирующего удалённый API.
type MockAPI struct {
	Address      string        `yaml:"address" env:"GOODHANG_MOCK_ADDRESS" env-default:"127.0.0.1:3000"`
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"GOODHANG_MOCK_JWT_SECRET" env-default:"dev-secret"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
	Codes        []MockCode    `yaml:"codes" validate:"dive"`
}

// MockCode - заранее выпущенный код активации для mock API.
type MockCode struct {
	Code    string `yaml:"code" validate:"required"`
	Product string `yaml:"product"`
	Tier    string `yaml:"tier"`
}

// MustLoad функция для загрузки конфига, завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из CONFIG_PATH (если задан) и окружения, проверяет значения
// и дополняет вычисляемые поля.
func Load() (*Config, error) {
	const op = "config.Load"
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file: %s - does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) finalize() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.Store.Path == "" && c.Store.Backend == BackendFile {
		path, err := DefaultStorePath(c.Store.ServiceName)
		if err != nil {
			return err
		}
		c.Store.Path = path
	}
	return nil
}

// ResolveBaseURL возвращает активный базовый URL: явное значение важнее профиля.
func (a API) ResolveBaseURL() string {
	if a.BaseURL != "" {
		return strings.TrimRight(a.BaseURL, "/")
	}
	if url, ok := profileBaseURLs[a.Profile]; ok {
		return url
	}
	return profileBaseURLs[ProfileLocal]
}

// DefaultStorePath возвращает путь к файлу хранилища в каталоге конфигурации пользователя.
func DefaultStorePath(serviceName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, serviceName, "store.json"), nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"API:\n"+
			"  Profile: %s\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Store:\n"+
			"  Backend: %s\n"+
			"  Path: %s\n"+
			"  ServiceName: %s\n"+
			"DeepLink:\n"+
			"  Scheme: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n",
		c.Env,
		c.API.Profile,
		c.API.ResolveBaseURL(),
		c.API.Timeout,
		c.Store.Backend,
		c.Store.Path,
		c.Store.ServiceName,
		c.DeepLink.Scheme,
		c.HTTPServer.AddressHTTP,
		c.HTTPServer.TimeoutHTTP,
		c.HTTPServer.IdleTimeout,
		c.RedisConnection.AddressRedis,
		c.RedisConnection.DB,
	)
}
