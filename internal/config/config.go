package config

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultAppStoreURL     = "https://apps.weasel.rocks"
	DefaultPlatformVersion = "9.0.0"
)

type Config struct {
	Port     string
	LogLevel string

	DBDriver   string // sqlite or postgres
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Edition is empty for the community edition. Other editions ship with the
	// app store turned off unless appstoreenabled is set explicitly.
	Edition            string
	AppStoreEnabled    bool
	AppStoreURL        string
	AppStoreServeStale bool
	PlatformVersion    string
	Language           string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Warning: Error reading config file: %v", err)
		}
	}

	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_path", "./platform.db")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "platform")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("edition", "")
	v.SetDefault("appstoreurl", DefaultAppStoreURL)
	v.SetDefault("appstore_serve_stale", false)
	v.SetDefault("platform_version", DefaultPlatformVersion)
	v.SetDefault("language", "en")
	return v
}

func fromViper(v *viper.Viper) *Config {
	edition := strings.TrimSpace(v.GetString("edition"))
	// For a regular edition default to true, all others default to false
	v.SetDefault("appstoreenabled", edition == "")

	return &Config{
		Port:               v.GetString("port"),
		LogLevel:           v.GetString("log_level"),
		DBDriver:           strings.ToLower(v.GetString("db_driver")),
		DBPath:             v.GetString("db_path"),
		DBHost:             v.GetString("db_host"),
		DBPort:             v.GetString("db_port"),
		DBUser:             v.GetString("db_user"),
		DBPassword:         v.GetString("db_password"),
		DBName:             v.GetString("db_name"),
		DBSSLMode:          v.GetString("db_sslmode"),
		Edition:            edition,
		AppStoreEnabled:    v.GetBool("appstoreenabled"),
		AppStoreURL:        strings.TrimRight(v.GetString("appstoreurl"), "/"),
		AppStoreServeStale: v.GetBool("appstore_serve_stale"),
		PlatformVersion:    v.GetString("platform_version"),
		Language:           v.GetString("language"),
	}
}
