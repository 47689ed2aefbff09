package main

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Port      int            `json:"port"`
	Env       string         `json:"env"`
	Pepper    string         `json:"pepper"`
	HMACKey   string         `json:"hmac_key"`
	CSRFKey   string         `json:"csrf_key"`
	ClientUrl string         `json:"client_url"`
	Github    GithubConfig   `json:"github"`
	Database  DatabaseConfig `json:"database"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type GithubConfig struct {
	ID          string `json:"id"`
	Secret      string `json:"secret"`
	RedirectURL string `json:"redirect_url"`
}

// DatabaseConfig selects the database dialect. Postgres is the production
// setup, sqlite keeps local development free of external services.
type DatabaseConfig struct {
	Dialect  string `json:"dialect"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	// Path of the sqlite database file, only used with the sqlite dialect.
	Path string `json:"path"`
}

// ConnectionInfo builds the connection string for the configured dialect.
func (dc DatabaseConfig) ConnectionInfo() string {
	if dc.Dialect == DialectSQLite {
		return dc.Path
	}
	if dc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", dc.Host, dc.Port, dc.User, dc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", dc.Host, dc.Port, dc.User, dc.Password, dc.Name)
}

func DefaultConfig() Config {
	return Config{
		Port:      1111,
		Env:       "dev",
		Pepper:    "secret-random-string",
		HMACKey:   "secret-hmac-key",
		CSRFKey:   "32-byte-long-auth-key-for-csrf!!",
		ClientUrl: "http://localhost:3000",
		Database:  DefaultDatabaseConfig(),
	}
}

func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Dialect: DialectSQLite,
		Path:    "blog.db",
		Host:    "localhost",
		Port:    5432,
		User:    "postgres",
		Name:    "blog",
	}
}

// LoadConfig loads configuration from a .config.json file if present,
// otherwise it falls back to the default dev setup. In production the file
// is required, so missing or broken config panics.
func LoadConfig(prodBool bool) Config {
	f, err := os.Open(".config.json")
	if err != nil {
		if prodBool {
			panic("A .config.json file is required in production.")
		}
		return DefaultConfig()
	}
	defer f.Close()
	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		panic(err)
	}
	fmt.Println("Successfully loaded .config.json")
	return c
}
