package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds settings for the API server and the terminal editor.
type Config struct {
	Server  ServerConfig
	TLS     TLSConfig
	Storage StorageConfig
	Editor  EditorConfig
}

// ServerConfig is where the API server listens.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port string `env:"SERVER_PORT" envDefault:"8080"`
}

// TLSConfig enables HTTPS on the API server.
type TLSConfig struct {
	Enabled    bool   `env:"TLS_ENABLED" envDefault:"false"`
	CertFile   string `env:"TLS_CERT_FILE" envDefault:"./certs/server.crt"`
	KeyFile    string `env:"TLS_KEY_FILE" envDefault:"./certs/server.key"`
	MinVersion string `env:"TLS_MIN_VERSION" envDefault:"1.2"`
}

// StorageConfig selects and locates the presentation repository.
type StorageConfig struct {
	Driver   string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/slidedeck.db"`
	DataPath string `env:"DATA_PATH" envDefault:"./data"`
}

// EditorConfig drives the terminal editor.
type EditorConfig struct {
	APIURL         string        `env:"EDITOR_API_URL" envDefault:"http://localhost:8080/api"`
	AutosaveDelay  time.Duration `env:"EDITOR_AUTOSAVE_DELAY" envDefault:"1500ms"`
	HistoryLimit   int           `env:"EDITOR_HISTORY_LIMIT" envDefault:"30"`
	RequestTimeout time.Duration `env:"EDITOR_REQUEST_TIMEOUT" envDefault:"30s"`
	LogFile        string        `env:"EDITOR_LOG_FILE" envDefault:"slidedeck-editor.log"`
	UserID         string        `env:"EDITOR_USER_ID"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	dotEnvPath := os.Getenv("DOTENV_PATH")
	if dotEnvPath == "" {
		dotEnvPath = ".env"
	}
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", dotEnvPath, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// LoadConfig is Load for binaries: it exits on error.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}
